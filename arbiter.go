package gesturesound

import (
	"log/slog"
	"sync"
)

// LockArbiter grants exclusive drive rights over cursors. Recognizers receive
// one at construction time; tests substitute fakes.
type LockArbiter interface {
	TryLock(c *Cursor, r Recognizer) bool
	TryLockAll(cs []*Cursor, r Recognizer) bool
	Unlock(c *Cursor, r Recognizer)
}

// lockRecord is the per-cursor lock state. Created on the first lock attempt
// and dropped by Release once the cursor has ended.
type lockRecord struct {
	holder   Recognizer
	priority int
	waiters  []Recognizer
}

func (rec *lockRecord) addWaiter(r Recognizer) {
	for _, w := range rec.waiters {
		if w == r {
			return
		}
	}
	rec.waiters = append(rec.waiters, r)
}

func (rec *lockRecord) removeWaiter(r Recognizer) {
	for i, w := range rec.waiters {
		if w == r {
			rec.waiters = append(rec.waiters[:i], rec.waiters[i+1:]...)
			return
		}
	}
}

type notifyKind uint8

const (
	notifyLocked notifyKind = iota
	notifyUnlocked
)

// notification is a callback computed under the arbiter mutex and delivered
// after it is released, so a notified recognizer can call straight back into
// the arbiter.
type notification struct {
	kind   notifyKind
	to     Recognizer
	cursor *Cursor
	by     Recognizer
}

// Arbiter is the priority-based LockArbiter. At most one recognizer holds a
// cursor at a time. A request succeeds when the cursor is free or when the
// requester's priority is strictly greater than the holder's; ties keep the
// existing holder.
type Arbiter struct {
	mu      sync.Mutex
	records map[*Cursor]*lockRecord
	logger  *slog.Logger
}

// NewArbiter creates an empty arbiter.
func NewArbiter() *Arbiter {
	return &Arbiter{
		records: make(map[*Cursor]*lockRecord),
		logger:  discardLogger,
	}
}

// SetLogger sets the logger used for lock diagnostics.
func (a *Arbiter) SetLogger(l *slog.Logger) {
	if l == nil {
		l = discardLogger
	}
	a.mu.Lock()
	a.logger = l
	a.mu.Unlock()
}

// TryLock requests c for r. If r preempts another holder, that holder's
// CursorLocked runs before TryLock returns. Locking an ended cursor fails.
func (a *Arbiter) TryLock(c *Cursor, r Recognizer) bool {
	ok, pending := a.tryLockAll([]*Cursor{c}, r)
	a.dispatch(pending)
	return ok
}

// TryLockAll requests every cursor in cs for r. Either all are granted or
// none are; multi-cursor gestures never start half-claimed.
func (a *Arbiter) TryLockAll(cs []*Cursor, r Recognizer) bool {
	ok, pending := a.tryLockAll(cs, r)
	a.dispatch(pending)
	return ok
}

func (a *Arbiter) tryLockAll(cs []*Cursor, r Recognizer) (bool, []notification) {
	if len(cs) == 0 || r == nil {
		return false, nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	prio := r.LockPriority()
	for _, c := range cs {
		if c.Ended() {
			delete(a.records, c)
			a.logger.Debug("lock denied: cursor ended", "cursor", c.ID)
			return false, nil
		}
	}
	for _, c := range cs {
		rec := a.records[c]
		if rec == nil || rec.holder == nil || rec.holder == r {
			continue
		}
		if prio <= rec.priority {
			for _, d := range cs {
				a.record(d).addWaiter(r)
				d.RegisterInterest(r)
			}
			a.logger.Debug("lock denied", "cursor", c.ID, "priority", prio, "holderPriority", rec.priority)
			return false, nil
		}
	}

	var pending []notification
	for _, c := range cs {
		rec := a.record(c)
		prev := rec.holder
		if prev != nil && prev != r {
			rec.addWaiter(prev)
			pending = append(pending, notification{kind: notifyLocked, to: prev, cursor: c, by: r})
			a.logger.Debug("lock preempted", "cursor", c.ID, "priority", prio, "holderPriority", rec.priority)
		}
		rec.holder = r
		rec.priority = prio
		rec.removeWaiter(r)
		c.RegisterInterest(r)
	}
	return true, pending
}

// Unlock releases c if r holds it; otherwise it is a no-op. Every other
// recognizer interested in c then receives CursorUnlocked in registration
// order. The first one to lock the cursor wins.
func (a *Arbiter) Unlock(c *Cursor, r Recognizer) {
	a.mu.Lock()
	rec := a.records[c]
	if rec == nil || rec.holder != r {
		a.mu.Unlock()
		return
	}
	rec.holder = nil
	rec.priority = 0
	var pending []notification
	if !c.Ended() {
		for _, x := range c.interested {
			if x != r {
				pending = append(pending, notification{kind: notifyUnlocked, to: x, cursor: c})
			}
		}
	}
	a.logger.Debug("lock released", "cursor", c.ID, "notify", len(pending))
	a.mu.Unlock()

	a.dispatch(pending)
}

// Release drops the lock record of an ended cursor.
func (a *Arbiter) Release(c *Cursor) {
	a.mu.Lock()
	delete(a.records, c)
	a.mu.Unlock()
}

// Holder returns the recognizer holding c, or nil.
func (a *Arbiter) Holder(c *Cursor) Recognizer {
	a.mu.Lock()
	defer a.mu.Unlock()
	if rec := a.records[c]; rec != nil {
		return rec.holder
	}
	return nil
}

// Waiters returns the recognizers that were denied or preempted on c and
// have not held it since.
func (a *Arbiter) Waiters(c *Cursor) []Recognizer {
	a.mu.Lock()
	defer a.mu.Unlock()
	rec := a.records[c]
	if rec == nil {
		return nil
	}
	return append([]Recognizer(nil), rec.waiters...)
}

// Len returns the number of live lock records.
func (a *Arbiter) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.records)
}

func (a *Arbiter) record(c *Cursor) *lockRecord {
	rec := a.records[c]
	if rec == nil {
		rec = &lockRecord{}
		a.records[c] = rec
	}
	return rec
}

func (a *Arbiter) dispatch(pending []notification) {
	for _, n := range pending {
		switch n.kind {
		case notifyLocked:
			n.to.CursorLocked(n.cursor, n.by)
		case notifyUnlocked:
			// Skip recognizers that lost interest during this round.
			if n.cursor.IsInterested(n.to) {
				n.to.CursorUnlocked(n.cursor)
			}
		}
	}
}
