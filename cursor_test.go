package gesturesound

import (
	"testing"
	"time"
)

func TestCursorLifecycle(t *testing.T) {
	clk := newTestClock()
	c := NewCursor()
	if c.Len() != 0 || c.Position() != (Vec2{}) {
		t.Fatal("new cursor should have no samples")
	}

	c.AppendSample(Vec2{10, 10}, clk.Now())
	if c.Phase() != CursorStarted {
		t.Errorf("phase after first sample = %v, want started", c.Phase())
	}
	clk.Advance(100 * time.Millisecond)
	c.AppendSample(Vec2{20, 10}, clk.Now())
	if c.Phase() != CursorActive {
		t.Errorf("phase after second sample = %v, want active", c.Phase())
	}

	c.MarkEnded()
	c.MarkEnded()
	if !c.Ended() {
		t.Fatal("cursor should be ended")
	}
	if c.AppendSample(Vec2{30, 10}, clk.Now()) {
		t.Error("AppendSample after end should be rejected")
	}
	if c.Len() != 2 || c.Position() != (Vec2{20, 10}) {
		t.Errorf("history changed after end: len=%d pos=%v", c.Len(), c.Position())
	}
	if c.Start().Pos != (Vec2{10, 10}) || c.Previous().Pos != (Vec2{10, 10}) {
		t.Error("Start/Previous mismatch")
	}
	if c.Duration() != 100*time.Millisecond {
		t.Errorf("Duration = %v, want 100ms", c.Duration())
	}
}

func TestCursorIDsUnique(t *testing.T) {
	a, b := NewCursor(), NewCursor()
	if a.ID == b.ID || b.ID <= a.ID {
		t.Errorf("IDs should increase: %d then %d", a.ID, b.ID)
	}
}

func TestCursorTimestampsNonDecreasing(t *testing.T) {
	clk := newTestClock()
	c := NewCursor()
	c.AppendSample(Vec2{0, 0}, clk.Now())
	c.AppendSample(Vec2{1, 0}, clk.Now().Add(-time.Second))

	s := c.Samples()
	if s[1].Time.Before(s[0].Time) {
		t.Errorf("timestamps went backwards: %v then %v", s[0].Time, s[1].Time)
	}
}

func TestCursorVelocity(t *testing.T) {
	tests := []struct {
		name string
		dt   time.Duration
		to   Vec2
		want Vec2
	}{
		{"moving", 500 * time.Millisecond, Vec2{50, -25}, Vec2{100, -50}},
		{"zero elapsed", 0, Vec2{50, 0}, Vec2{}},
		{"stationary", time.Second, Vec2{0, 0}, Vec2{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clk := newTestClock()
			c := NewCursor()
			c.AppendSample(Vec2{0, 0}, clk.Now())
			clk.Advance(tt.dt)
			c.AppendSample(tt.to, clk.Now())
			if got := c.Velocity(); got != tt.want {
				t.Errorf("Velocity() = %v, want %v", got, tt.want)
			}
		})
	}

	single := pressCursor(5, 5)
	if single.Velocity() != (Vec2{}) {
		t.Error("single-sample velocity should be zero")
	}
}

func TestCursorInterest(t *testing.T) {
	a := newFakeRecognizer("a", 1, nil)
	b := newFakeRecognizer("b", 1, nil)
	c := pressCursor(0, 0)

	c.RegisterInterest(a)
	c.RegisterInterest(b)
	c.RegisterInterest(a)
	if got := c.Interested(); len(got) != 2 || got[0] != a || got[1] != b {
		t.Fatalf("Interested() = %v", got)
	}

	c.UnregisterInterest(a)
	c.UnregisterInterest(a)
	if c.IsInterested(a) || !c.IsInterested(b) {
		t.Error("unregister should remove only a")
	}

	snap := c.Interested()
	snap[0] = nil
	if !c.IsInterested(b) {
		t.Error("Interested() must return a copy")
	}
}
