package gesturesound

import "log/slog"

// Recognizer is anything that can hold a cursor lock. The arbiter talks to
// recognizers only through this interface.
type Recognizer interface {
	// LockPriority is the recognizer's static priority. Higher wins.
	LockPriority() int
	// CursorLocked tells the current holder that by took c away from it.
	// Delivered before the winning TryLock call returns.
	CursorLocked(c *Cursor, by Recognizer)
	// CursorUnlocked tells an interested recognizer that c became free.
	CursorUnlocked(c *Cursor)
}

// Processor is a gesture recognizer registered on a Node. The router feeds it
// cursor lifecycle events for cursors that target that node.
type Processor interface {
	Recognizer
	Kind() GestureKind
	Enabled() bool
	SetEnabled(enabled bool)
	ProcessCursor(evt CursorEvent)
	AddListener(fn func(GestureEvent)) ListenerHandle
}

// tickFlusher is implemented by processors that batch work per update tick.
// FlushTick is called once after the raw sample queue has been drained.
type tickFlusher interface {
	FlushTick()
}

// CursorEvent is a lifecycle callback delivered by the router. Synthetic
// events are produced at scene boundaries for cursors that are still
// physically down.
type CursorEvent struct {
	Cursor    *Cursor
	Target    *Node
	Phase     CursorPhase
	Synthetic bool
}

// Default lock priorities.
const (
	DefaultTapPriority    = 1
	DefaultDragPriority   = 1
	DefaultRotatePriority = 2
	DefaultScalePriority  = 2
)

// sessionState is the generic recognizer session state machine.
type sessionState uint8

const (
	sessionIdle     sessionState = iota // no cursors
	sessionArmed                        // required cursors locked, DETECTED emitted
	sessionTracking                     // emitting UPDATED
)

// processorBase holds the bookkeeping shared by every recognizer kind: the
// disjoint locked/waiting cursor sets, the listener list and the arbiter.
type processorBase struct {
	owner     Processor
	kind      GestureKind
	arb       LockArbiter
	priority  int
	disabled  bool
	listeners listenerRegistry
	locked    []*Cursor
	waiting   []*Cursor
	targets   map[*Cursor]*Node
	logger    *slog.Logger
}

func newProcessorBase(owner Processor, kind GestureKind, arb LockArbiter, priority int) processorBase {
	if arb == nil {
		panic("gesturesound: processor requires a lock arbiter")
	}
	return processorBase{
		owner:    owner,
		kind:     kind,
		arb:      arb,
		priority: priority,
		targets:  make(map[*Cursor]*Node),
		logger:   discardLogger,
	}
}

// Kind returns the recognizer family.
func (b *processorBase) Kind() GestureKind { return b.kind }

// LockPriority returns the lock priority.
func (b *processorBase) LockPriority() int { return b.priority }

// SetLockPriority changes the lock priority. Takes effect on the next lock
// request; a lock already held keeps the priority it was granted with.
func (b *processorBase) SetLockPriority(p int) { b.priority = p }

// Enabled reports whether the processor accepts new cursors.
func (b *processorBase) Enabled() bool { return !b.disabled }

// SetEnabled enables or disables the processor. A disabled processor ignores
// new cursors but still finishes sessions already in progress.
func (b *processorBase) SetEnabled(enabled bool) { b.disabled = !enabled }

// SetLogger sets the logger used for session diagnostics.
func (b *processorBase) SetLogger(l *slog.Logger) {
	if l == nil {
		l = discardLogger
	}
	b.logger = l
}

// AddListener registers fn to receive this processor's gesture events.
func (b *processorBase) AddListener(fn func(GestureEvent)) ListenerHandle {
	return b.listeners.add(fn)
}

// LockedCursors returns a snapshot of the cursors this processor holds.
func (b *processorBase) LockedCursors() []*Cursor {
	return append([]*Cursor(nil), b.locked...)
}

// WaitingCursors returns a snapshot of the cursors queued for this processor.
func (b *processorBase) WaitingCursors() []*Cursor {
	return append([]*Cursor(nil), b.waiting...)
}

func (b *processorBase) isLocked(c *Cursor) bool  { return indexOfCursor(b.locked, c) >= 0 }
func (b *processorBase) isWaiting(c *Cursor) bool { return indexOfCursor(b.waiting, c) >= 0 }

// markLocked moves c into the locked set.
func (b *processorBase) markLocked(c *Cursor) {
	b.waiting = removeCursor(b.waiting, c)
	if !b.isLocked(c) {
		b.locked = append(b.locked, c)
	}
}

// markWaiting moves c into the waiting set.
func (b *processorBase) markWaiting(c *Cursor) {
	b.locked = removeCursor(b.locked, c)
	if !b.isWaiting(c) {
		b.waiting = append(b.waiting, c)
	}
}

// track registers interest in c and remembers the node it targets.
func (b *processorBase) track(c *Cursor, target *Node) {
	c.RegisterInterest(b.owner)
	b.targets[c] = target
}

// targetOf returns the node c was delivered for.
func (b *processorBase) targetOf(c *Cursor) *Node {
	return b.targets[c]
}

// forget drops c from both sets and from the cursor's interest list.
func (b *processorBase) forget(c *Cursor) {
	b.locked = removeCursor(b.locked, c)
	b.waiting = removeCursor(b.waiting, c)
	delete(b.targets, c)
	c.UnregisterInterest(b.owner)
}

func (b *processorBase) tryLock(c *Cursor) bool {
	return b.arb.TryLock(c, b.owner)
}

func (b *processorBase) tryLockAll(cs ...*Cursor) bool {
	return b.arb.TryLockAll(cs, b.owner)
}

// unlockToWaiting releases c and keeps it queued in waiting. The local set is
// updated before the arbiter call so unlock notifications observe it.
func (b *processorBase) unlockToWaiting(c *Cursor) {
	b.markWaiting(c)
	b.arb.Unlock(c, b.owner)
}

// release unlocks c and forgets it entirely.
func (b *processorBase) release(c *Cursor) {
	held := b.isLocked(c)
	b.forget(c)
	if held {
		b.arb.Unlock(c, b.owner)
	}
}

// firstLockableWaiting returns the first waiting cursor, other than skip,
// that this processor manages to lock. The returned cursor is already moved
// into the locked set.
func (b *processorBase) firstLockableWaiting(skip *Cursor) *Cursor {
	for _, w := range b.WaitingCursors() {
		if w == skip || w.Ended() {
			continue
		}
		if b.tryLock(w) {
			b.markLocked(w)
			return w
		}
	}
	return nil
}

func (b *processorBase) emit(phase GesturePhase, target *Node, payload Payload, cursors ...*Cursor) {
	evt := GestureEvent{
		Source:  b.owner,
		Kind:    b.kind,
		Phase:   phase,
		Target:  target,
		Cursors: append([]*Cursor(nil), cursors...),
		Payload: payload,
	}
	b.listeners.fire(evt)
}

func indexOfCursor(s []*Cursor, c *Cursor) int {
	for i, x := range s {
		if x == c {
			return i
		}
	}
	return -1
}

func removeCursor(s []*Cursor, c *Cursor) []*Cursor {
	i := indexOfCursor(s, c)
	if i < 0 {
		return s
	}
	copy(s[i:], s[i+1:])
	s[len(s)-1] = nil
	return s[:len(s)-1]
}
