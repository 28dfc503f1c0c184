package gesturesound

import (
	"sort"
	"sync"
	"time"
)

// SampleKind is the edge a RawSample reports for its pointer.
type SampleKind uint8

const (
	SampleDown SampleKind = iota // contact pressed
	SampleMove                   // contact moved while pressed
	SampleUp                     // contact released
)

// RawSample is one device-level position report. Pointer identifies the
// physical contact (0 is the mouse for the built-in poller, 1..N touches);
// any producer may use its own keys as long as they are unique while down.
type RawSample struct {
	Pointer int
	Kind    SampleKind
	X, Y    float64
	// Time is the sample timestamp. Zero means "now" on the input clock.
	Time time.Time
}

// inputState is the cursor side of the router: the raw queue, the live
// cursor table and the arbiter. A Stage shares one between its scenes so
// cursors and locks survive a scene change.
type inputState struct {
	arb *Arbiter

	mu           sync.Mutex
	queue        []RawSample
	frames       [][]RawSample // injected input, one frame per tick
	nextInjected int

	cursors map[int]*Cursor
	now     func() time.Time
	poll    bool
	devices deviceState
}

func newInputState() *inputState {
	return &inputState{
		arb:     NewArbiter(),
		cursors: make(map[int]*Cursor),
		now:     time.Now,
	}
}

// feed queues a raw sample. Safe to call from any goroutine.
func (in *inputState) feed(rs RawSample) {
	in.mu.Lock()
	in.queue = append(in.queue, rs)
	in.mu.Unlock()
}

// take returns and clears the queued samples, first moving one injected
// frame (if any) onto the queue.
func (in *inputState) take() []RawSample {
	in.mu.Lock()
	defer in.mu.Unlock()
	if len(in.frames) > 0 {
		in.queue = append(in.queue, in.frames[0]...)
		copy(in.frames, in.frames[1:])
		in.frames[len(in.frames)-1] = nil
		in.frames = in.frames[:len(in.frames)-1]
	}
	out := in.queue
	in.queue = nil
	return out
}

func (in *inputState) pendingFrames() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.frames)
}

// activeCursors returns the cursors still down, ordered by ID.
func (in *inputState) activeCursors() []*Cursor {
	out := make([]*Cursor, 0, len(in.cursors))
	for _, c := range in.cursors {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Feed queues a raw sample for the next Update. Safe to call from any
// goroutine; samples are routed on the update goroutine in feed order.
func (s *Scene) Feed(rs RawSample) {
	s.input.feed(rs)
}

// ActiveCursors returns the cursors currently down, ordered by ID.
func (s *Scene) ActiveCursors() []*Cursor {
	return s.input.activeCursors()
}

// Target returns the node c was bound to in this scene, or nil.
func (s *Scene) Target(c *Cursor) *Node {
	if b := s.binding(c); b != nil {
		return b.target
	}
	return nil
}

// processInput drains this tick's input into s.
func (s *Scene) processInput() {
	s.input.routeTick(func() *Scene { return s })
}

// routeTick polls devices when enabled, drains the raw queue and then gives
// batching processors their end-of-tick flush. active is asked for the
// routing scene before every sample.
func (in *inputState) routeTick(active func() *Scene) {
	if in.poll && in.pendingFrames() == 0 {
		in.devices.poll(in)
	}
	for _, rs := range in.take() {
		active().route(rs)
	}
	active().flushTick()
}

// route runs the cursor lifecycle for one raw sample.
func (s *Scene) route(rs RawSample) {
	in := s.input
	t := rs.Time
	if t.IsZero() {
		t = in.now()
	}
	pos := Vec2{rs.X, rs.Y}
	c := in.cursors[rs.Pointer]

	switch rs.Kind {
	case SampleDown:
		if c != nil {
			// Repeated press for a live contact: treat as movement.
			s.moveCursor(c, pos, t)
			return
		}
		c = NewCursor()
		c.AppendSample(pos, t)
		in.cursors[rs.Pointer] = c
		b := s.bind(c, s.PickAt(pos.X, pos.Y))
		s.logger.Debug("cursor started", "cursor", c.ID, "pointer", rs.Pointer, "target", nodeName(b.target))
		s.deliver(b.procs, CursorEvent{Cursor: c, Target: b.target, Phase: CursorStarted})
	case SampleMove:
		if c == nil {
			s.logger.Debug("dropping sample for unknown pointer", "pointer", rs.Pointer)
			return
		}
		s.moveCursor(c, pos, t)
	case SampleUp:
		if c == nil {
			s.logger.Debug("dropping release for unknown pointer", "pointer", rs.Pointer)
			return
		}
		delete(in.cursors, rs.Pointer)
		c.AppendSample(pos, t)
		c.MarkEnded()
		s.endCursor(c, false)
		in.arb.Release(c)
		s.logger.Debug("cursor ended", "cursor", c.ID, "samples", c.Len())
	}
}

func (s *Scene) moveCursor(c *Cursor, pos Vec2, t time.Time) {
	if !c.AppendSample(pos, t) {
		return
	}
	b := s.binding(c)
	if b == nil {
		return
	}
	s.deliver(b.procs, CursorEvent{Cursor: c, Target: b.target, Phase: CursorActive})
}

// endCursor delivers exactly one terminal callback to the processors bound
// at press time and to every other processor interested in c, then drops the
// binding.
func (s *Scene) endCursor(c *Cursor, synthetic bool) {
	s.endCursorTo(c, s.recipients(c), synthetic)
}

func (s *Scene) recipients(c *Cursor) []Processor {
	var out []Processor
	if b := s.binding(c); b != nil {
		out = append(out, b.procs...)
	}
	for _, r := range c.Interested() {
		p, ok := r.(Processor)
		if !ok || containsProcessor(out, p) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (s *Scene) endCursorTo(c *Cursor, recipients []Processor, synthetic bool) {
	var target *Node
	if b := s.binding(c); b != nil {
		target = b.target
	}
	evt := CursorEvent{Cursor: c, Target: target, Phase: CursorEnded, Synthetic: synthetic}
	for _, p := range recipients {
		p.ProcessCursor(evt)
	}
	s.unbind(c)
}

// deliver sends evt to every processor. Disabled processors still receive
// events; they decide themselves what to ignore.
func (s *Scene) deliver(procs []Processor, evt CursorEvent) {
	for _, p := range procs {
		p.ProcessCursor(evt)
	}
}

// flushTick calls FlushTick once on every batching processor that is bound
// to a live cursor.
func (s *Scene) flushTick() {
	s.flushBuf = s.flushBuf[:0]
	for _, b := range s.bindings {
		for _, p := range b.procs {
			if !containsProcessor(s.flushBuf, p) {
				s.flushBuf = append(s.flushBuf, p)
			}
		}
	}
	for _, p := range s.flushBuf {
		if f, ok := p.(tickFlusher); ok {
			f.FlushTick()
		}
	}
}

func (s *Scene) bind(c *Cursor, target *Node) *binding {
	b := &binding{cursor: c, target: target}
	if target != nil {
		b.procs = append([]Processor(nil), target.processors...)
	}
	s.bindings = append(s.bindings, b)
	return b
}

func (s *Scene) binding(c *Cursor) *binding {
	for _, b := range s.bindings {
		if b.cursor == c {
			return b
		}
	}
	return nil
}

func (s *Scene) unbind(c *Cursor) {
	for i, b := range s.bindings {
		if b.cursor == c {
			copy(s.bindings[i:], s.bindings[i+1:])
			s.bindings[len(s.bindings)-1] = nil
			s.bindings = s.bindings[:len(s.bindings)-1]
			return
		}
	}
}

func containsProcessor(s []Processor, p Processor) bool {
	for _, x := range s {
		if x == p {
			return true
		}
	}
	return false
}

func nodeName(n *Node) string {
	if n == nil {
		return ""
	}
	return n.Name
}
