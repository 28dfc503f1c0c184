package gesturesound

import (
	"sync"
	"testing"
)

func TestArbiterGrantAndDeny(t *testing.T) {
	tests := []struct {
		name          string
		holder, other int
		wantPreempt   bool
	}{
		{"higher preempts", 1, 2, true},
		{"tie keeps holder", 2, 2, false},
		{"lower denied", 2, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			arb := NewArbiter()
			c := pressCursor(0, 0)
			h := newFakeRecognizer("holder", tt.holder, nil)
			o := newFakeRecognizer("other", tt.other, nil)

			if !arb.TryLock(c, h) {
				t.Fatal("free cursor should be granted")
			}
			got := arb.TryLock(c, o)
			if got != tt.wantPreempt {
				t.Fatalf("TryLock by other = %v, want %v", got, tt.wantPreempt)
			}
			if tt.wantPreempt {
				if arb.Holder(c) != o {
					t.Error("other should hold the cursor")
				}
				if len(h.locked) != 1 || h.locked[0] != c {
					t.Error("previous holder should be told it lost the cursor")
				}
				if w := arb.Waiters(c); len(w) != 1 || w[0] != h {
					t.Errorf("waiters = %v, want [holder]", w)
				}
			} else {
				if arb.Holder(c) != h {
					t.Error("holder should keep the cursor")
				}
				if len(h.locked) != 0 {
					t.Error("holder should not be notified on a denied request")
				}
				if !c.IsInterested(o) {
					t.Error("denied requester should be registered as interested")
				}
				if w := arb.Waiters(c); len(w) != 1 || w[0] != o {
					t.Errorf("waiters = %v, want [other]", w)
				}
			}
		})
	}
}

func TestArbiterRelockByHolder(t *testing.T) {
	arb := NewArbiter()
	c := pressCursor(0, 0)
	r := newFakeRecognizer("r", 1, nil)
	if !arb.TryLock(c, r) || !arb.TryLock(c, r) {
		t.Error("holder re-locking its own cursor should succeed")
	}
	if len(r.locked) != 0 {
		t.Error("holder should not be preempted by itself")
	}
}

func TestArbiterPreemptionNotifiedBeforeReturn(t *testing.T) {
	arb := NewArbiter()
	c := pressCursor(0, 0)
	var log []string
	low := newFakeRecognizer("low", 1, &log)
	high := newFakeRecognizer("high", 2, &log)

	arb.TryLock(c, low)
	if arb.TryLock(c, high) {
		log = append(log, "high granted")
	}
	if len(log) != 2 || log[0] != "low locked-out" || log[1] != "high granted" {
		t.Errorf("order = %v", log)
	}
}

func TestArbiterCallbackCanReenter(t *testing.T) {
	arb := NewArbiter()
	c := pressCursor(0, 0)
	low := newFakeRecognizer("low", 1, nil)
	high := newFakeRecognizer("high", 2, nil)

	var relock bool
	low.onLocked = func(c *Cursor, by Recognizer) {
		// Must not deadlock: the arbiter mutex is released before dispatch.
		relock = arb.TryLock(c, low)
	}
	arb.TryLock(c, low)
	arb.TryLock(c, high)
	if relock {
		t.Error("lower priority relock should be denied")
	}
	if arb.Holder(c) != high {
		t.Error("high should hold the cursor")
	}
}

func TestArbiterTryLockAllIsAtomic(t *testing.T) {
	arb := NewArbiter()
	a, b := pressCursor(0, 0), pressCursor(10, 0)
	holder := newFakeRecognizer("holder", 3, nil)
	pair := newFakeRecognizer("pair", 2, nil)

	arb.TryLock(b, holder)
	if arb.TryLockAll([]*Cursor{a, b}, pair) {
		t.Fatal("batch should fail when one cursor is held at higher priority")
	}
	if arb.Holder(a) != nil {
		t.Error("a must not be claimed by a failed batch")
	}
	if !a.IsInterested(pair) || !b.IsInterested(pair) {
		t.Error("failed batch registers interest in every cursor")
	}

	arb.Unlock(b, holder)
	if !arb.TryLockAll([]*Cursor{a, b}, pair) {
		t.Fatal("batch should succeed once both cursors are free")
	}
	if arb.Holder(a) != pair || arb.Holder(b) != pair {
		t.Error("pair should hold both cursors")
	}
}

func TestArbiterTryLockAllPreemptsEach(t *testing.T) {
	arb := NewArbiter()
	a, b := pressCursor(0, 0), pressCursor(10, 0)
	tapA := newFakeRecognizer("tapA", 1, nil)
	tapB := newFakeRecognizer("tapB", 1, nil)
	scale := newFakeRecognizer("scale", 2, nil)

	arb.TryLock(a, tapA)
	arb.TryLock(b, tapB)
	if !arb.TryLockAll([]*Cursor{a, b}, scale) {
		t.Fatal("higher priority batch should preempt both")
	}
	if len(tapA.locked) != 1 || len(tapB.locked) != 1 {
		t.Errorf("both holders should be notified: %d, %d", len(tapA.locked), len(tapB.locked))
	}
}

func TestArbiterUnlockNotifiesInRegistrationOrder(t *testing.T) {
	arb := NewArbiter()
	c := pressCursor(0, 0)
	var log []string
	first := newFakeRecognizer("first", 1, &log)
	second := newFakeRecognizer("second", 1, &log)
	holder := newFakeRecognizer("holder", 2, &log)

	arb.TryLock(c, holder)
	arb.TryLock(c, first)
	arb.TryLock(c, second)

	arb.Unlock(c, holder)
	if len(log) != 2 || log[0] != "first unlocked" || log[1] != "second unlocked" {
		t.Errorf("notifications = %v", log)
	}
	if arb.Holder(c) != nil {
		t.Error("cursor should be free after unlock")
	}
}

func TestArbiterFirstUnlockedClaimantWins(t *testing.T) {
	arb := NewArbiter()
	c := pressCursor(0, 0)
	holder := newFakeRecognizer("holder", 2, nil)
	first := newFakeRecognizer("first", 1, nil)
	second := newFakeRecognizer("second", 1, nil)
	first.onUnlocked = func(c *Cursor) { arb.TryLock(c, first) }
	var secondGot bool
	second.onUnlocked = func(c *Cursor) { secondGot = arb.TryLock(c, second) }

	arb.TryLock(c, holder)
	arb.TryLock(c, first)
	arb.TryLock(c, second)
	arb.Unlock(c, holder)

	if arb.Holder(c) != first || secondGot {
		t.Error("first notified claimant should win the cursor")
	}
}

func TestArbiterUnlockByNonHolderIsNoop(t *testing.T) {
	arb := NewArbiter()
	c := pressCursor(0, 0)
	holder := newFakeRecognizer("holder", 1, nil)
	other := newFakeRecognizer("other", 1, nil)
	arb.TryLock(c, holder)
	c.RegisterInterest(other)

	arb.Unlock(c, other)
	if arb.Holder(c) != holder {
		t.Error("non-holder unlock must not release")
	}
	if len(other.unlocked) != 0 {
		t.Error("no notifications for a no-op unlock")
	}
	arb.Unlock(pressCursor(0, 0), holder)
}

func TestArbiterEndedCursor(t *testing.T) {
	arb := NewArbiter()
	c := pressCursor(0, 0)
	holder := newFakeRecognizer("holder", 2, nil)
	waiter := newFakeRecognizer("waiter", 1, nil)
	arb.TryLock(c, holder)
	arb.TryLock(c, waiter)

	c.MarkEnded()
	arb.Unlock(c, holder)
	if len(waiter.unlocked) != 0 {
		t.Error("an ended cursor's release must not be offered to waiters")
	}
	if arb.TryLock(c, waiter) {
		t.Error("locking an ended cursor should fail")
	}

	arb.Release(c)
	if arb.Len() != 0 {
		t.Errorf("Len() = %d after release, want 0", arb.Len())
	}
}

func TestArbiterSkipsLostInterest(t *testing.T) {
	arb := NewArbiter()
	c := pressCursor(0, 0)
	holder := newFakeRecognizer("holder", 2, nil)
	a := newFakeRecognizer("a", 1, nil)
	b := newFakeRecognizer("b", 1, nil)
	arb.TryLock(c, holder)
	arb.TryLock(c, a)
	arb.TryLock(c, b)
	a.onUnlocked = func(c *Cursor) { c.UnregisterInterest(b) }

	arb.Unlock(c, holder)
	if len(b.unlocked) != 0 {
		t.Error("recognizer that lost interest during dispatch should be skipped")
	}
}

func TestArbiterConcurrentQueries(t *testing.T) {
	arb := NewArbiter()
	cursors := make([]*Cursor, 8)
	for i := range cursors {
		cursors[i] = pressCursor(float64(i), 0)
	}
	r := newFakeRecognizer("r", 1, nil)
	for _, c := range cursors {
		arb.TryLock(c, r)
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, c := range cursors {
				_ = arb.Holder(c)
				_ = arb.Waiters(c)
			}
		}()
	}
	wg.Wait()
	if arb.Len() != len(cursors) {
		t.Errorf("Len() = %d, want %d", arb.Len(), len(cursors))
	}
}
