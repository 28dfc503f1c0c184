package gesturesound

// DragProcessor recognizes single-cursor drags. Translation is reported in
// the target parent's coordinate space so it can be added to Node.X/Y.
type DragProcessor struct {
	processorBase

	geo    Geometry
	state  sessionState
	cursor *Cursor
	target *Node
	last   Vec2 // screen position of the last emitted event
}

// NewDragProcessor creates a drag processor.
func NewDragProcessor(arb LockArbiter, geo Geometry) *DragProcessor {
	p := &DragProcessor{geo: geo}
	p.processorBase = newProcessorBase(p, GestureDrag, arb, DefaultDragPriority)
	return p
}

// Active reports whether a drag session is open.
func (p *DragProcessor) Active() bool { return p.state != sessionIdle }

// ProcessCursor implements Processor.
func (p *DragProcessor) ProcessCursor(evt CursorEvent) {
	c := evt.Cursor
	switch evt.Phase {
	case CursorStarted:
		if !p.Enabled() {
			return
		}
		p.track(c, evt.Target)
		if p.state == sessionIdle && p.tryLock(c) {
			p.markLocked(c)
			p.begin(c)
			return
		}
		p.markWaiting(c)
	case CursorActive:
		if c != p.cursor || !p.isLocked(c) {
			return
		}
		p.update(GestureUpdated)
	case CursorEnded:
		if c != p.cursor {
			p.release(c)
			return
		}
		if p.isLocked(c) {
			p.update(GestureEnded)
		} else {
			p.close(DragPayload{From: p.last, To: p.last})
		}
		if p.state == sessionIdle && !evt.Synthetic && p.Enabled() {
			if w := p.firstLockableWaiting(nil); w != nil {
				p.begin(w)
			}
		}
	}
}

func (p *DragProcessor) begin(c *Cursor) {
	p.state = sessionArmed
	p.cursor = c
	p.target = p.targetOf(c)
	p.last = c.Position()
	p.emit(GestureDetected, p.target, DragPayload{From: p.last, To: p.last}, c)
	p.state = sessionTracking
}

// update emits an UPDATED or ENDED event for the movement since the last
// event. A projection miss turns it into an aborting ENDED.
func (p *DragProcessor) update(phase GesturePhase) {
	to := p.cursor.Position()
	delta, ok := p.translation(p.last, to)
	if !ok {
		p.logger.Debug("drag aborted: projection failed", "cursor", p.cursor.ID, "target", nodeName(p.target))
		p.close(DragPayload{From: p.last, To: p.last})
		return
	}
	payload := DragPayload{From: p.last, To: to, Translation: delta}
	p.last = to
	if phase == GestureEnded {
		p.close(payload)
		return
	}
	p.emit(GestureUpdated, p.target, payload, p.cursor)
}

// translation maps a screen movement into the target parent's space.
func (p *DragProcessor) translation(from, to Vec2) (Vec2, bool) {
	if !targetValid(p.target) {
		return Vec2{}, false
	}
	space := p.target.Parent
	if p.geo == nil || space == nil {
		return to.Sub(from), true
	}
	a, ok := p.geo.ProjectToLocal(space, from.X, from.Y)
	if !ok {
		return Vec2{}, false
	}
	b, ok := p.geo.ProjectToLocal(space, to.X, to.Y)
	if !ok {
		return Vec2{}, false
	}
	return b.Sub(a), true
}

// close emits ENDED and releases the session cursor.
func (p *DragProcessor) close(payload DragPayload) {
	c, target := p.cursor, p.target
	p.state = sessionIdle
	p.cursor = nil
	p.target = nil
	p.emit(GestureEnded, target, payload, c)
	p.release(c)
}

// CursorLocked implements Recognizer.
func (p *DragProcessor) CursorLocked(c *Cursor, by Recognizer) {
	if p.isLocked(c) {
		p.markWaiting(c)
	}
}

// CursorUnlocked implements Recognizer. On resume the movement made while
// suspended is skipped rather than reported as one jump.
func (p *DragProcessor) CursorUnlocked(c *Cursor) {
	if !p.isWaiting(c) || c.Ended() {
		return
	}
	switch {
	case c == p.cursor:
		if p.tryLock(c) {
			p.markLocked(c)
			p.last = c.Position()
		}
	case p.state == sessionIdle && p.Enabled():
		if p.tryLock(c) {
			p.markLocked(c)
			p.begin(c)
		}
	}
}

// FlushTick implements tickFlusher.
func (p *DragProcessor) FlushTick() {
	if p.state != sessionIdle && !targetValid(p.target) {
		p.logger.Debug("drag aborted: target invalid", "target", nodeName(p.target))
		p.close(DragPayload{From: p.last, To: p.last})
	}
}
