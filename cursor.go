package gesturesound

import (
	"sync/atomic"
	"time"
)

// cursorIDCounter hands out cursor IDs. IDs are never reused for the life of
// the process, even across scenes and stages.
var cursorIDCounter atomic.Uint64

func nextCursorID() uint64 {
	return cursorIDCounter.Add(1)
}

// Sample is one timestamped screen position of a cursor.
type Sample struct {
	Pos  Vec2
	Time time.Time
}

// Cursor is one continuous contact: a finger or a held mouse button, from
// press to release. Its sample history is append-only while it is down.
//
// A Cursor is owned by the update goroutine; it is not safe for concurrent
// mutation.
type Cursor struct {
	ID uint64

	samples    []Sample
	phase      CursorPhase
	interested []Recognizer
}

// NewCursor creates a cursor with a fresh ID and no samples.
func NewCursor() *Cursor {
	return &Cursor{ID: nextCursorID()}
}

// AppendSample records a new position. The first sample puts the cursor in
// CursorStarted, later ones in CursorActive. A timestamp earlier than the
// previous sample is clamped to it so the history stays non-decreasing.
// Appending after MarkEnded is a no-op and returns false.
func (c *Cursor) AppendSample(pos Vec2, t time.Time) bool {
	if c.phase == CursorEnded {
		return false
	}
	if n := len(c.samples); n > 0 {
		if last := c.samples[n-1].Time; t.Before(last) {
			t = last
		}
		c.phase = CursorActive
	} else {
		c.phase = CursorStarted
	}
	c.samples = append(c.samples, Sample{Pos: pos, Time: t})
	return true
}

// MarkEnded moves the cursor to CursorEnded. Idempotent.
func (c *Cursor) MarkEnded() {
	c.phase = CursorEnded
}

// Phase returns the cursor's lifecycle phase.
func (c *Cursor) Phase() CursorPhase { return c.phase }

// Ended reports whether the cursor has been released.
func (c *Cursor) Ended() bool { return c.phase == CursorEnded }

// Len returns the number of recorded samples.
func (c *Cursor) Len() int { return len(c.samples) }

// Samples returns the sample history. The returned slice MUST NOT be mutated.
func (c *Cursor) Samples() []Sample { return c.samples }

// Current returns the most recent sample, or the zero Sample if none exist.
func (c *Cursor) Current() Sample {
	if len(c.samples) == 0 {
		return Sample{}
	}
	return c.samples[len(c.samples)-1]
}

// Previous returns the sample before the current one. With fewer than two
// samples it returns Current.
func (c *Cursor) Previous() Sample {
	if len(c.samples) < 2 {
		return c.Current()
	}
	return c.samples[len(c.samples)-2]
}

// Start returns the first sample.
func (c *Cursor) Start() Sample {
	if len(c.samples) == 0 {
		return Sample{}
	}
	return c.samples[0]
}

// Position returns the current screen position.
func (c *Cursor) Position() Vec2 { return c.Current().Pos }

// Duration returns the time elapsed between the first and last samples.
func (c *Cursor) Duration() time.Duration {
	return c.Current().Time.Sub(c.Start().Time)
}

// Velocity returns the velocity in pixels per second derived from the last
// two samples. It is zero when fewer than two samples exist or no time passed
// between them. The value is computed on demand and never cached.
func (c *Cursor) Velocity() Vec2 {
	n := len(c.samples)
	if n < 2 {
		return Vec2{}
	}
	a, b := c.samples[n-2], c.samples[n-1]
	dt := b.Time.Sub(a.Time).Seconds()
	if dt <= 0 {
		return Vec2{}
	}
	return b.Pos.Sub(a.Pos).Scale(1 / dt)
}

// RegisterInterest adds r to the cursor's interest set. Registration order is
// the order unlock notifications are delivered in. Idempotent.
func (c *Cursor) RegisterInterest(r Recognizer) {
	for _, x := range c.interested {
		if x == r {
			return
		}
	}
	c.interested = append(c.interested, r)
}

// UnregisterInterest removes r from the interest set. Idempotent.
func (c *Cursor) UnregisterInterest(r Recognizer) {
	for i, x := range c.interested {
		if x == r {
			copy(c.interested[i:], c.interested[i+1:])
			c.interested[len(c.interested)-1] = nil
			c.interested = c.interested[:len(c.interested)-1]
			return
		}
	}
}

// IsInterested reports whether r is in the interest set.
func (c *Cursor) IsInterested(r Recognizer) bool {
	for _, x := range c.interested {
		if x == r {
			return true
		}
	}
	return false
}

// Interested returns a snapshot of the interest set in registration order.
func (c *Cursor) Interested() []Recognizer {
	out := make([]Recognizer, len(c.interested))
	copy(out, c.interested)
	return out
}
