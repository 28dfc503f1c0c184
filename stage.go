package gesturesound

import (
	"errors"
	"log/slog"
	"time"
)

// ErrForeignScene is returned when a Stage is asked to activate a scene that
// was not created by it and therefore does not share its cursors.
var ErrForeignScene = errors.New("gesturesound: scene belongs to another stage")

// Stage owns the cursor table and lock arbiter shared by a set of scenes and
// tracks which scene is live. Changing the live scene hands every cursor
// still down over from the old scene's recognizers to the new one's.
type Stage struct {
	input  *inputState
	cfg    Config
	logger *slog.Logger
	active *Scene
	named  map[string]*Scene
	runner *InputRunner
	debug  bool
}

// NewStage creates a stage using cfg for every scene it creates. Unset or
// out-of-range fields take their DefaultConfig values.
func NewStage(cfg Config) *Stage {
	return &Stage{
		input:  newInputState(),
		cfg:    cfg.withDefaults(),
		logger: discardLogger,
	}
}

// NewScene creates a scene sharing this stage's cursors and arbiter. The
// first scene created becomes the active one.
func (st *Stage) NewScene() *Scene {
	s := newScene(st.input, st.cfg, st.logger)
	if st.active == nil {
		st.active = s
	}
	return s
}

// NameScene registers s under name so input scripts can switch to it.
func (st *Stage) NameScene(name string, s *Scene) error {
	if s == nil || s.input != st.input {
		return ErrForeignScene
	}
	if st.named == nil {
		st.named = make(map[string]*Scene)
	}
	st.named[name] = s
	return nil
}

// SceneNamed returns the scene registered under name, or nil.
func (st *Stage) SceneNamed(name string) *Scene {
	return st.named[name]
}

// Scene returns the active scene.
func (st *Stage) Scene() *Scene {
	return st.active
}

// Arbiter returns the arbiter shared by the stage's scenes.
func (st *Stage) Arbiter() *Arbiter {
	return st.input.arb
}

// Config returns the stage configuration.
func (st *Stage) Config() Config {
	return st.cfg
}

// SetLogger sets the logger for the stage, its arbiter and scenes created
// afterwards.
func (st *Stage) SetLogger(l *slog.Logger) {
	if l == nil {
		l = discardLogger
	}
	st.logger = l
	st.input.arb.SetLogger(l)
	if st.active != nil {
		st.active.SetLogger(l)
	}
}

// SetClock replaces the clock used to timestamp samples that carry no time.
func (st *Stage) SetClock(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	st.input.now = now
}

// SetDebugMode enables or disables debug mode: tree misuse on disposed nodes
// panics and the run loop draws the cursor overlay.
func (st *Stage) SetDebugMode(enabled bool) {
	st.debug = enabled
	globalDebug = enabled
}

// Feed queues a raw sample; see Scene.Feed.
func (st *Stage) Feed(rs RawSample) {
	st.input.feed(rs)
}

// ActiveCursors returns the cursors currently down, ordered by ID.
func (st *Stage) ActiveCursors() []*Cursor {
	return st.input.activeCursors()
}

// SetScene makes next the live scene. Cursors still down receive a synthetic
// end in the old scene and a synthetic start in next.
func (st *Stage) SetScene(next *Scene) error {
	if next == nil || next.input != st.input {
		return ErrForeignScene
	}
	if next == st.active {
		return nil
	}
	old := st.active
	active := st.input.activeCursors()
	st.logger.Debug("switching scene", "cursors", len(active))
	FlushAndReplay(old, next, active)
	st.active = next
	return nil
}

// Update advances the input script, if any, updates the active scene and
// routes this tick's input. A listener may switch scenes while input is
// routed; samples after the switch go to the new scene.
func (st *Stage) Update() {
	if st.runner != nil {
		st.runner.step(st)
	}
	if st.active == nil {
		return
	}
	st.active.advance()
	st.input.routeTick(func() *Scene { return st.active })
}

// FlushAndReplay closes every session in old that involves one of the active
// cursors and offers the same cursors to next as if they had just been
// pressed. Cursor phases and sample histories are left untouched: the
// contacts are still physically down.
func FlushAndReplay(old, next *Scene, active []*Cursor) {
	if old != nil {
		// Collect every recipient before any session closes, then strip
		// their interest so releases during the flush reach no one in old.
		recipients := make([][]Processor, len(active))
		for i, c := range active {
			recipients[i] = old.recipients(c)
		}
		for i, c := range active {
			for _, p := range recipients[i] {
				c.UnregisterInterest(p)
			}
		}
		for i, c := range active {
			old.endCursorTo(c, recipients[i], true)
		}
		for _, c := range active {
			old.input.arb.Release(c)
		}
	}
	if next == nil {
		return
	}
	for _, c := range active {
		if c.Ended() {
			continue
		}
		pos := c.Position()
		b := next.bind(c, next.PickAt(pos.X, pos.Y))
		next.deliver(b.procs, CursorEvent{Cursor: c, Target: b.target, Phase: CursorStarted, Synthetic: true})
	}
}
