package gesturesound

// pairMetric turns the projected positions of a two-cursor session into a
// payload. rebase sets the reference pair without emitting anything; step
// reports the change since the reference and advances it.
type pairMetric interface {
	rebase(a, b Vec2)
	identity(a, b Vec2) Payload
	step(a, b Vec2) Payload
}

// pairProcessor is the session logic shared by the two-cursor recognizers.
// Both cursors are claimed with one TryLockAll; extra cursors wait. Gesture
// values are computed once per tick in FlushTick, from positions projected
// onto the target's plane.
type pairProcessor struct {
	processorBase

	geo    Geometry
	metric pairMetric
	state  sessionState
	pair   [2]*Cursor
	target *Node
	dirty  bool
	last   Payload

	// stalled is set when the last session or arm attempt failed to project.
	// A stalled processor does not re-arm from unlock notifications; it
	// retries in FlushTick once a waiting cursor has moved.
	stalled bool
	retry   bool
}

func (p *pairProcessor) init(owner Processor, kind GestureKind, arb LockArbiter, priority int, geo Geometry, metric pairMetric) {
	if geo == nil {
		panic("gesturesound: two-cursor processor requires geometry")
	}
	p.processorBase = newProcessorBase(owner, kind, arb, priority)
	p.geo = geo
	p.metric = metric
}

// Active reports whether a session is open.
func (p *pairProcessor) Active() bool { return p.state != sessionIdle }

// ProcessCursor implements Processor.
func (p *pairProcessor) ProcessCursor(evt CursorEvent) {
	c := evt.Cursor
	switch evt.Phase {
	case CursorStarted:
		if !p.Enabled() {
			return
		}
		p.track(c, evt.Target)
		p.markWaiting(c)
		if p.state == sessionIdle {
			p.arm()
		}
	case CursorActive:
		if p.inPair(c) && p.isLocked(c) {
			p.dirty = true
		}
		if p.state == sessionIdle && p.stalled && p.isWaiting(c) {
			p.retry = true
		}
	case CursorEnded:
		p.cursorEnded(c, evt.Synthetic)
	}
}

func (p *pairProcessor) inPair(c *Cursor) bool {
	return c != nil && (p.pair[0] == c || p.pair[1] == c)
}

func (p *pairProcessor) other(c *Cursor) *Cursor {
	if p.pair[0] == c {
		return p.pair[1]
	}
	return p.pair[0]
}

// arm tries every pair of waiting cursors, in arrival order, until one can
// be locked as a batch and projected.
func (p *pairProcessor) arm() {
	cands := p.WaitingCursors()
	for i := 0; i < len(cands); i++ {
		for j := i + 1; j < len(cands); j++ {
			a, b := cands[i], cands[j]
			if a.Ended() || b.Ended() || p.targetOf(a) != p.targetOf(b) {
				continue
			}
			if !p.tryLockAll(a, b) {
				continue
			}
			p.markLocked(a)
			p.markLocked(b)
			p.target = p.targetOf(a)
			pa, pb, ok := p.project(a, b)
			if !ok {
				p.stalled = true
				p.target = nil
				p.unlockToWaiting(a)
				p.unlockToWaiting(b)
				continue
			}
			p.stalled = false
			p.pair = [2]*Cursor{a, b}
			p.state = sessionArmed
			p.metric.rebase(pa, pb)
			p.last = p.metric.identity(pa, pb)
			p.emit(GestureDetected, p.target, p.last, a, b)
			p.state = sessionTracking
			return
		}
	}
}

func (p *pairProcessor) project(a, b *Cursor) (Vec2, Vec2, bool) {
	if !targetValid(p.target) {
		return Vec2{}, Vec2{}, false
	}
	space := planeOf(p.target)
	pa, ok := p.geo.ProjectToLocal(space, a.Position().X, a.Position().Y)
	if !ok {
		return Vec2{}, Vec2{}, false
	}
	pb, ok := p.geo.ProjectToLocal(space, b.Position().X, b.Position().Y)
	if !ok {
		return Vec2{}, Vec2{}, false
	}
	return pa, pb, true
}

func (p *pairProcessor) bothLocked() bool {
	return p.isLocked(p.pair[0]) && p.isLocked(p.pair[1])
}

// FlushTick implements tickFlusher: one UPDATED per tick at most.
func (p *pairProcessor) FlushTick() {
	if p.state == sessionIdle {
		if p.retry && p.stalled && p.Enabled() {
			p.stalled = false
			p.arm()
		}
		p.retry = false
		return
	}
	if !targetValid(p.target) {
		p.logger.Debug("session aborted: target invalid", "kind", p.kind, "target", nodeName(p.target))
		p.abort(true)
		return
	}
	if !p.dirty || !p.bothLocked() {
		return
	}
	p.dirty = false
	pa, pb, ok := p.project(p.pair[0], p.pair[1])
	if !ok {
		p.logger.Debug("session aborted: projection failed", "kind", p.kind, "target", nodeName(p.target))
		p.abort(false)
		return
	}
	p.last = p.metric.step(pa, pb)
	p.emit(GestureUpdated, p.target, p.last, p.pair[0], p.pair[1])
}

func (p *pairProcessor) cursorEnded(c *Cursor, synthetic bool) {
	if !p.inPair(c) {
		p.release(c)
		return
	}
	if !synthetic && p.isLocked(c) && c.Current().Pos != c.Previous().Pos {
		p.dirty = true
	}
	if p.dirty {
		// Report the movement that arrived in the same tick as the release.
		p.FlushTick()
		if !p.inPair(c) {
			p.release(c)
			return
		}
	}
	other := p.other(c)
	p.release(c)

	if !synthetic && p.Enabled() {
		if sub := p.firstLockableWaiting(other); sub != nil {
			if p.pair[0] == c {
				p.pair[0] = sub
			} else {
				p.pair[1] = sub
			}
			p.logger.Debug("session cursor substituted", "kind", p.kind, "ended", c.ID, "substitute", sub.ID)
			if p.bothLocked() {
				pa, pb, ok := p.project(p.pair[0], p.pair[1])
				if !ok {
					p.abort(false)
					return
				}
				p.metric.rebase(pa, pb)
			}
			return
		}
	}

	target, last := p.target, p.last
	p.state = sessionIdle
	p.pair = [2]*Cursor{}
	p.target = nil
	p.dirty = false
	p.emit(GestureEnded, target, last, c, other)
	if p.isLocked(other) {
		p.unlockToWaiting(other)
	}
}

// abort closes the session with the last payload. With forget set the
// cursors are dropped entirely (the target is gone); otherwise they go back
// to waiting.
func (p *pairProcessor) abort(forget bool) {
	a, b := p.pair[0], p.pair[1]
	target, last := p.target, p.last
	p.state = sessionIdle
	p.pair = [2]*Cursor{}
	p.target = nil
	p.dirty = false
	if !forget {
		p.stalled = true
	}
	p.emit(GestureEnded, target, last, a, b)
	for _, c := range []*Cursor{a, b} {
		if forget {
			p.release(c)
		} else if p.isLocked(c) {
			p.unlockToWaiting(c)
		}
	}
}

// CursorLocked implements Recognizer. The session is suspended until the
// cursor comes back.
func (p *pairProcessor) CursorLocked(c *Cursor, by Recognizer) {
	if !p.isLocked(c) {
		return
	}
	p.markWaiting(c)
	p.logger.Debug("session suspended", "kind", p.kind, "cursor", c.ID)
}

// CursorUnlocked implements Recognizer.
func (p *pairProcessor) CursorUnlocked(c *Cursor) {
	if !p.isWaiting(c) || c.Ended() {
		return
	}
	switch {
	case p.inPair(c):
		if !p.tryLock(c) {
			return
		}
		p.markLocked(c)
		if p.bothLocked() {
			pa, pb, ok := p.project(p.pair[0], p.pair[1])
			if !ok {
				p.abort(false)
				return
			}
			p.metric.rebase(pa, pb)
			p.logger.Debug("session resumed", "kind", p.kind, "cursor", c.ID)
		}
	case p.state == sessionIdle && p.Enabled() && !p.stalled:
		p.arm()
	}
}

// planeOf returns the node whose local space a gesture on target is measured
// in: the target's parent, so that applying the gesture to the target does
// not feed back into the next measurement.
func planeOf(target *Node) *Node {
	if target.Parent != nil {
		return target.Parent
	}
	return target
}
