package gesturesound

import (
	"testing"
	"time"
)

// fakeRecognizer records arbiter callbacks. onLocked/onUnlocked, when set,
// run inside the callback.
type fakeRecognizer struct {
	name     string
	priority int
	locked   []*Cursor
	unlocked []*Cursor
	log      *[]string

	onLocked   func(c *Cursor, by Recognizer)
	onUnlocked func(c *Cursor)
}

func newFakeRecognizer(name string, priority int, log *[]string) *fakeRecognizer {
	return &fakeRecognizer{name: name, priority: priority, log: log}
}

func (r *fakeRecognizer) LockPriority() int { return r.priority }

func (r *fakeRecognizer) CursorLocked(c *Cursor, by Recognizer) {
	r.locked = append(r.locked, c)
	if r.log != nil {
		*r.log = append(*r.log, r.name+" locked-out")
	}
	if r.onLocked != nil {
		r.onLocked(c, by)
	}
}

func (r *fakeRecognizer) CursorUnlocked(c *Cursor) {
	r.unlocked = append(r.unlocked, c)
	if r.log != nil {
		*r.log = append(*r.log, r.name+" unlocked")
	}
	if r.onUnlocked != nil {
		r.onUnlocked(c)
	}
}

// fakeGeometry maps screen points 1:1 into every target's plane unless the
// target is listed in fail.
type fakeGeometry struct {
	pick *Node
	fail map[*Node]bool
}

func (g *fakeGeometry) ProjectToLocal(target *Node, sx, sy float64) (Vec2, bool) {
	if g.fail[target] {
		return Vec2{}, false
	}
	return Vec2{sx, sy}, true
}

func (g *fakeGeometry) PickAt(sx, sy float64) *Node { return g.pick }

// recorder collects gesture events from one or more processors.
type recorder struct {
	events []GestureEvent
}

func (r *recorder) listen(evt GestureEvent) { r.events = append(r.events, evt) }

func (r *recorder) phases() []GesturePhase {
	out := make([]GesturePhase, len(r.events))
	for i, e := range r.events {
		out[i] = e.Phase
	}
	return out
}

func (r *recorder) last() GestureEvent {
	if len(r.events) == 0 {
		return GestureEvent{}
	}
	return r.events[len(r.events)-1]
}

func (r *recorder) reset() { r.events = nil }

func assertPhases(t *testing.T, name string, got []GesturePhase, want ...GesturePhase) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: phases = %v, want %v", name, got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("%s: phases = %v, want %v", name, got, want)
		}
	}
}

// testClock is a manual clock for deterministic sample timestamps.
type testClock struct {
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// step feeds samples and runs one update of s.
func step(s *Scene, samples ...RawSample) {
	for _, rs := range samples {
		s.Feed(rs)
	}
	s.Update()
}

func down(pointer int, x, y float64) RawSample {
	return RawSample{Pointer: pointer, Kind: SampleDown, X: x, Y: y}
}

func move(pointer int, x, y float64) RawSample {
	return RawSample{Pointer: pointer, Kind: SampleMove, X: x, Y: y}
}

func up(pointer int, x, y float64) RawSample {
	return RawSample{Pointer: pointer, Kind: SampleUp, X: x, Y: y}
}

// pressCursor creates a live cursor at (x, y) outside any scene.
func pressCursor(x, y float64) *Cursor {
	c := NewCursor()
	c.AppendSample(Vec2{x, y}, time.Time{})
	return c
}
