package gesturesound

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/tanema/gween/ease"
)

// newStageScene creates a scene on st holding one 200x200 interactable box.
func newStageScene(st *Stage, name string) (*Scene, *Node) {
	s := st.NewScene()
	box := newBox(name, 200, 200)
	s.Root().AddChild(box)
	return s, box
}

func stageStep(st *Stage, samples ...RawSample) {
	for _, rs := range samples {
		st.Feed(rs)
	}
	st.Update()
}

func TestStageFirstSceneIsActive(t *testing.T) {
	st := NewStage(DefaultConfig())
	if st.Scene() != nil {
		t.Fatal("empty stage has no active scene")
	}
	a := st.NewScene()
	b := st.NewScene()
	if st.Scene() != a {
		t.Error("first scene should be active")
	}
	if a.Arbiter() != b.Arbiter() || st.Arbiter() != a.Arbiter() {
		t.Error("scenes of a stage share one arbiter")
	}
	if err := st.SetScene(a); err != nil {
		t.Errorf("re-activating the active scene: %v", err)
	}
}

func TestStageForeignScene(t *testing.T) {
	st := NewStage(DefaultConfig())
	st.NewScene()
	foreign := NewScene()

	if err := st.SetScene(foreign); !errors.Is(err, ErrForeignScene) {
		t.Errorf("SetScene(foreign) = %v, want ErrForeignScene", err)
	}
	if err := st.SetScene(nil); !errors.Is(err, ErrForeignScene) {
		t.Errorf("SetScene(nil) = %v, want ErrForeignScene", err)
	}
	if err := st.NameScene("x", foreign); !errors.Is(err, ErrForeignScene) {
		t.Errorf("NameScene(foreign) = %v, want ErrForeignScene", err)
	}
}

func TestStageNamedScenes(t *testing.T) {
	st := NewStage(DefaultConfig())
	menu := st.NewScene()
	game := st.NewScene()
	if err := st.NameScene("menu", menu); err != nil {
		t.Fatal(err)
	}
	if err := st.NameScene("game", game); err != nil {
		t.Fatal(err)
	}
	if st.SceneNamed("game") != game || st.SceneNamed("menu") != menu {
		t.Error("SceneNamed returned the wrong scene")
	}
	if st.SceneNamed("missing") != nil {
		t.Error("unknown name should return nil")
	}
}

func TestSceneSwitchMidDrag(t *testing.T) {
	st := NewStage(DefaultConfig())
	oldScene, oldBox := newStageScene(st, "old")
	newScene, newBox := newStageScene(st, "new")

	oldDrag, newDrag := oldScene.NewDragProcessor(), newScene.NewDragProcessor()
	oldRec, newRec := &recorder{}, &recorder{}
	oldDrag.AddListener(oldRec.listen)
	newDrag.AddListener(newRec.listen)
	oldScene.RegisterProcessor(oldBox, oldDrag)
	newScene.RegisterProcessor(newBox, newDrag)

	stageStep(st, down(1, 50, 50))
	stageStep(st, move(1, 60, 50))
	z := st.ActiveCursors()[0]

	if err := st.SetScene(newScene); err != nil {
		t.Fatal(err)
	}
	assertPhases(t, "old scene", oldRec.phases(), GestureDetected, GestureUpdated, GestureEnded)
	assertPhases(t, "new scene", newRec.phases(), GestureDetected)
	if z.Ended() || len(st.ActiveCursors()) != 1 {
		t.Fatal("the cursor is still physically down")
	}
	if d, _ := newRec.last().Drag(); d.From != (Vec2{60, 50}) {
		t.Errorf("replayed drag starts at %v, want (60,50)", d.From)
	}
	if st.Arbiter().Holder(z) != newDrag {
		t.Error("new scene's drag should hold the cursor")
	}

	stageStep(st, move(1, 80, 50))
	stageStep(st, up(1, 80, 50))
	assertPhases(t, "new scene", newRec.phases(), GestureDetected, GestureUpdated, GestureEnded)
	if len(oldRec.events) != 3 {
		t.Errorf("old scene kept receiving events: %v", oldRec.phases())
	}
	if oldScene.Target(z) != nil {
		t.Error("old scene binding should be gone")
	}
}

func TestSceneSwitchTapNeverClicks(t *testing.T) {
	st := NewStage(DefaultConfig())
	oldScene, oldBox := newStageScene(st, "old")
	newScene := st.NewScene()
	tap := oldScene.NewTapProcessor()
	rec := &recorder{}
	tap.AddListener(rec.listen)
	oldScene.RegisterProcessor(oldBox, tap)

	stageStep(st, down(1, 50, 50))
	if err := st.SetScene(newScene); err != nil {
		t.Fatal(err)
	}
	assertPhases(t, "tap", rec.phases(), GestureDetected, GestureEnded)
	if p, _ := rec.last().Tap(); p.Outcome != TapButtonUp {
		t.Errorf("synthetic end outcome = %v, want BUTTON_UP", p.Outcome)
	}

	// The release lands in a scene with nothing under the cursor.
	stageStep(st, up(1, 50, 50))
	if len(rec.events) != 2 || len(st.ActiveCursors()) != 0 {
		t.Error("release after the switch should not reach the old scene")
	}
}

func TestSceneSwitchFromListener(t *testing.T) {
	st := NewStage(DefaultConfig())
	oldScene, oldBox := newStageScene(st, "old")
	newScene, newBox := newStageScene(st, "new")

	tap := oldScene.NewTapProcessor()
	tapRec := &recorder{}
	tap.AddListener(tapRec.listen)
	tap.AddListener(func(evt GestureEvent) {
		if p, ok := evt.Tap(); ok && evt.Phase == GestureEnded && p.Outcome == TapClicked {
			if err := st.SetScene(newScene); err != nil {
				t.Error(err)
			}
		}
	})
	oldScene.RegisterProcessor(oldBox, tap)
	newDrag := newScene.NewDragProcessor()
	dragRec := &recorder{}
	newDrag.AddListener(dragRec.listen)
	newScene.RegisterProcessor(newBox, newDrag)

	stageStep(st, down(1, 50, 50))
	// The click switches scenes; the press later in the same tick belongs
	// to the new scene.
	stageStep(st, up(1, 50, 50), down(2, 50, 50))

	if st.Scene() != newScene {
		t.Fatal("click should have switched scenes")
	}
	assertPhases(t, "tap", tapRec.phases(), GestureDetected, GestureEnded)
	assertPhases(t, "new drag", dragRec.phases(), GestureDetected)
	c := st.ActiveCursors()[0]
	if newScene.Target(c) != newBox || oldScene.Target(c) != nil {
		t.Errorf("cursor bound to new=%v old=%v", newScene.Target(c), oldScene.Target(c))
	}
	if st.Arbiter().Holder(c) != newDrag {
		t.Errorf("holder = %T, want the new scene's drag", st.Arbiter().Holder(c))
	}

	stageStep(st, move(2, 70, 50))
	stageStep(st, up(2, 70, 50))
	assertPhases(t, "new drag", dragRec.phases(), GestureDetected, GestureUpdated, GestureEnded)
	if len(tapRec.events) != 2 {
		t.Errorf("old tap saw the second cursor: %v", tapRec.phases())
	}
}

func TestStageZeroConfigUsesDefaults(t *testing.T) {
	st := NewStage(Config{})
	if st.Config() != DefaultConfig() {
		t.Errorf("Config() = %+v, want defaults", st.Config())
	}
	s, box := newStageScene(st, "box")
	tap := s.NewTapProcessor()
	if tap.Radius != DefaultTapRadius || tap.LockPriority() != DefaultTapPriority {
		t.Errorf("tap radius=%v priority=%d", tap.Radius, tap.LockPriority())
	}
	rec := &recorder{}
	tap.AddListener(rec.listen)
	s.RegisterProcessor(box, tap)
	stageStep(st, down(1, 50, 50))
	stageStep(st, up(1, 51, 50))
	if p, _ := rec.last().Tap(); p.Outcome != TapClicked {
		t.Errorf("outcome = %v, want CLICKED", p.Outcome)
	}

	// One tick at the default rate is a sixtieth of a second.
	slide := s.Animate(TweenPosition(box, 60, 0, 1, ease.Linear))
	stageStep(st)
	if slide.Done || !approxEqual(box.X, 1, 1e-3) {
		t.Errorf("after one tick X = %v done = %v, want 1 and running", box.X, slide.Done)
	}

	cfg := Config{Window: WindowConfig{TPS: 30}, Scale: PriorityConfig{Priority: 8}}.withDefaults()
	if cfg.Window.TPS != 30 || cfg.Scale.Priority != 8 || cfg.Drag.Priority != DefaultDragPriority {
		t.Errorf("withDefaults overwrote set fields: %+v", cfg)
	}
}

func TestSceneSwitchMidPinch(t *testing.T) {
	st := NewStage(DefaultConfig())
	oldScene, oldBox := newStageScene(st, "old")
	newScene, newBox := newStageScene(st, "new")
	oldScale, newScale := oldScene.NewScaleProcessor(), newScene.NewScaleProcessor()
	oldRec, newRec := &recorder{}, &recorder{}
	oldScale.AddListener(oldRec.listen)
	newScale.AddListener(newRec.listen)
	oldScene.RegisterProcessor(oldBox, oldScale)
	newScene.RegisterProcessor(newBox, newScale)

	stageStep(st, down(1, 50, 100), down(2, 150, 100))
	if err := st.SetScene(newScene); err != nil {
		t.Fatal(err)
	}
	assertPhases(t, "old", oldRec.phases(), GestureDetected, GestureEnded)
	assertPhases(t, "new", newRec.phases(), GestureDetected)

	stageStep(st, move(1, 0, 100), move(2, 200, 100))
	assertFactors(t, scaleFactors(t, newRec), 2.0)
}

func TestFlushAndReplayWithoutNext(t *testing.T) {
	st := NewStage(DefaultConfig())
	s, box := newStageScene(st, "box")
	drag := s.NewDragProcessor()
	rec := &recorder{}
	drag.AddListener(rec.listen)
	s.RegisterProcessor(box, drag)

	stageStep(st, down(1, 10, 10))
	FlushAndReplay(s, nil, st.ActiveCursors())
	assertPhases(t, "flushed", rec.phases(), GestureDetected, GestureEnded)
	if st.Arbiter().Holder(st.ActiveCursors()[0]) != nil {
		t.Error("flushed cursor should hold no lock")
	}
}

func TestStageClock(t *testing.T) {
	st := NewStage(DefaultConfig())
	st.NewScene()
	clock := newTestClock()
	st.SetClock(clock.Now)

	stageStep(st, down(1, 0, 0))
	clock.Advance(250 * time.Millisecond)
	stageStep(st, move(1, 100, 0))

	c := st.ActiveCursors()[0]
	if c.Duration() != 250*time.Millisecond {
		t.Errorf("Duration = %v, want 250ms", c.Duration())
	}
	if v := c.Velocity(); !approxEqual(v.X, 400, 1e-9) {
		t.Errorf("Velocity = %v, want 400 px/s", v)
	}
}

func TestStageLogsSceneSwitch(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(LogConfig{Level: "debug", Format: "text"}, &buf)
	if err != nil {
		t.Fatal(err)
	}
	st := NewStage(DefaultConfig())
	st.SetLogger(logger)
	st.NewScene()
	next := st.NewScene()
	if err := st.SetScene(next); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "switching scene") {
		t.Errorf("log output = %q", buf.String())
	}

	st.SetLogger(nil)
	st.SetLogger(slog.Default())
}
