package gesturesound

// DefaultTapRadius is the maximum press-to-release distance, in screen
// pixels, for a release to count as a click.
const DefaultTapRadius = 18.0

// TapProcessor recognizes press/release taps with one cursor.
//
// A session starts when a cursor is pressed on the target and its lock is
// granted (DETECTED, BUTTON_DOWN), reports moves while it holds the lock
// (UPDATED, BUTTON_DOWN) and ends on release (ENDED, CLICKED or BUTTON_UP).
// Further cursors wait until the active one ends.
type TapProcessor struct {
	processorBase

	// Radius is the click tolerance in screen pixels.
	Radius float64

	geo    Geometry
	state  sessionState
	cursor *Cursor
	target *Node
	start  Vec2
	last   Vec2
}

// NewTapProcessor creates a tap processor. geo resolves the end-of-tap hit
// test; a nil geo treats every release as over the target.
func NewTapProcessor(arb LockArbiter, geo Geometry) *TapProcessor {
	p := &TapProcessor{Radius: DefaultTapRadius, geo: geo}
	p.processorBase = newProcessorBase(p, GestureTap, arb, DefaultTapPriority)
	return p
}

// Active reports whether a tap session is open.
func (p *TapProcessor) Active() bool { return p.state != sessionIdle }

// ProcessCursor implements Processor.
func (p *TapProcessor) ProcessCursor(evt CursorEvent) {
	switch evt.Phase {
	case CursorStarted:
		p.cursorStarted(evt)
	case CursorActive:
		p.cursorUpdated(evt)
	case CursorEnded:
		p.cursorEnded(evt)
	}
}

func (p *TapProcessor) cursorStarted(evt CursorEvent) {
	if !p.Enabled() {
		return
	}
	c := evt.Cursor
	p.track(c, evt.Target)
	if p.state == sessionIdle && len(p.locked) == 0 && p.tryLock(c) {
		p.markLocked(c)
		p.begin(c)
		return
	}
	p.markWaiting(c)
}

func (p *TapProcessor) begin(c *Cursor) {
	p.state = sessionArmed
	p.cursor = c
	p.target = p.targetOf(c)
	p.start = c.Position()
	p.last = p.start
	p.emit(GestureDetected, p.target, TapPayload{ScreenPoint: p.start, Outcome: TapButtonDown}, c)
	p.state = sessionTracking
}

func (p *TapProcessor) cursorUpdated(evt CursorEvent) {
	c := evt.Cursor
	if c != p.cursor || !p.isLocked(c) {
		return
	}
	if !targetValid(p.target) {
		p.abort()
		return
	}
	p.last = c.Position()
	p.emit(GestureUpdated, p.target, TapPayload{ScreenPoint: p.last, Outcome: TapButtonDown}, c)
}

func (p *TapProcessor) cursorEnded(evt CursorEvent) {
	c := evt.Cursor
	if c != p.cursor {
		p.release(c)
		return
	}
	end := c.Position()
	outcome := TapButtonUp
	if !evt.Synthetic && p.isLocked(c) && targetValid(p.target) && end.Dist(p.start) <= p.Radius && p.hitsTarget(end) {
		outcome = TapClicked
	}
	target := p.target
	p.reset()
	p.emit(GestureEnded, target, TapPayload{ScreenPoint: end, Outcome: outcome}, c)
	p.release(c)
	if !evt.Synthetic {
		p.next()
	}
}

// next starts a session for the first waiting cursor that can be locked.
func (p *TapProcessor) next() {
	if !p.Enabled() || p.state != sessionIdle {
		return
	}
	if c := p.firstLockableWaiting(nil); c != nil {
		p.begin(c)
	}
}

func (p *TapProcessor) hitsTarget(pt Vec2) bool {
	if p.geo == nil {
		return true
	}
	hit := p.geo.PickAt(pt.X, pt.Y)
	return hit != nil && isAncestor(p.target, hit)
}

// abort closes the session because the target went away.
func (p *TapProcessor) abort() {
	c, target := p.cursor, p.target
	p.logger.Debug("tap aborted: target invalid", "cursor", c.ID, "target", nodeName(target))
	p.reset()
	p.emit(GestureEnded, target, TapPayload{ScreenPoint: p.last, Outcome: TapButtonUp}, c)
	p.release(c)
}

func (p *TapProcessor) reset() {
	p.state = sessionIdle
	p.cursor = nil
	p.target = nil
}

// CursorLocked implements Recognizer. The session is suspended, not closed.
func (p *TapProcessor) CursorLocked(c *Cursor, by Recognizer) {
	if !p.isLocked(c) {
		return
	}
	p.markWaiting(c)
	p.logger.Debug("tap suspended", "cursor", c.ID)
}

// CursorUnlocked implements Recognizer. A suspended session resumes
// silently; an idle processor may start a session with a waiting cursor.
func (p *TapProcessor) CursorUnlocked(c *Cursor) {
	if !p.isWaiting(c) || c.Ended() {
		return
	}
	switch {
	case c == p.cursor:
		if p.tryLock(c) {
			p.markLocked(c)
			p.logger.Debug("tap resumed", "cursor", c.ID)
		}
	case p.state == sessionIdle && p.Enabled():
		if p.tryLock(c) {
			p.markLocked(c)
			p.begin(c)
		}
	}
}

// FlushTick implements tickFlusher: a session whose target vanished is
// aborted even when its cursor does not move.
func (p *TapProcessor) FlushTick() {
	if p.state != sessionIdle && !targetValid(p.target) {
		p.abort()
	}
}
