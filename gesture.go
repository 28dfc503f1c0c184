package gesturesound

// Payload is the gesture-specific part of a GestureEvent. The concrete types
// are TapPayload, DragPayload, ScalePayload and RotatePayload.
type Payload interface {
	gesturePayload()
}

// TapPayload carries tap event data.
type TapPayload struct {
	ScreenPoint Vec2
	Outcome     TapOutcome
}

// DragPayload carries drag event data. From and To are screen positions;
// Translation is the movement since the previous event, in the target
// parent's coordinate space.
type DragPayload struct {
	From        Vec2
	To          Vec2
	Translation Vec2
}

// ScalePayload carries scale event data. Factors are incremental: each event
// reports the change since the previous one, so successive factors compose
// by multiplication. Pivot is the midpoint of the two cursors in the target
// parent's coordinate space.
type ScalePayload struct {
	FactorX, FactorY, FactorZ float64
	Pivot                     Vec2
}

// RotatePayload carries rotation event data. Angle is the incremental
// rotation in radians since the previous event; Pivot is in the target
// parent's coordinate space.
type RotatePayload struct {
	Pivot Vec2
	Angle float64
}

func (TapPayload) gesturePayload()    {}
func (DragPayload) gesturePayload()   {}
func (ScalePayload) gesturePayload()  {}
func (RotatePayload) gesturePayload() {}

// GestureEvent is one semantic gesture notification. Events are values; the
// Cursors slice is a private copy owned by the event.
type GestureEvent struct {
	Source  Processor
	Kind    GestureKind
	Phase   GesturePhase
	Target  *Node
	Cursors []*Cursor
	Payload Payload
}

// Tap returns the tap payload, if this is a tap event.
func (e GestureEvent) Tap() (TapPayload, bool) {
	p, ok := e.Payload.(TapPayload)
	return p, ok
}

// Drag returns the drag payload, if this is a drag event.
func (e GestureEvent) Drag() (DragPayload, bool) {
	p, ok := e.Payload.(DragPayload)
	return p, ok
}

// Scale returns the scale payload, if this is a scale event.
func (e GestureEvent) Scale() (ScalePayload, bool) {
	p, ok := e.Payload.(ScalePayload)
	return p, ok
}

// Rotate returns the rotate payload, if this is a rotate event.
func (e GestureEvent) Rotate() (RotatePayload, bool) {
	p, ok := e.Payload.(RotatePayload)
	return p, ok
}

// --- Listener registry ---

type gestureHandler struct {
	id uint32
	fn func(GestureEvent)
}

type listenerRegistry struct {
	handlers []gestureHandler
	nextID   uint32
}

func (r *listenerRegistry) add(fn func(GestureEvent)) ListenerHandle {
	r.nextID++
	id := r.nextID
	r.handlers = append(r.handlers, gestureHandler{id: id, fn: fn})
	return ListenerHandle{id: id, reg: r}
}

// fire calls every handler in registration order. The slice is captured up
// front so a handler removing itself does not skip its neighbour.
func (r *listenerRegistry) fire(evt GestureEvent) {
	hs := r.handlers
	for _, h := range hs {
		h.fn(evt)
	}
}

// ListenerHandle allows removing a registered gesture listener.
type ListenerHandle struct {
	id  uint32
	reg *listenerRegistry
}

// Remove unregisters the listener so it no longer fires.
func (h ListenerHandle) Remove() {
	if h.reg == nil {
		return
	}
	s := h.reg.handlers
	for i := range s {
		if s[i].id == h.id {
			// Fresh slice so an in-flight fire keeps its snapshot intact.
			out := make([]gestureHandler, 0, len(s)-1)
			out = append(out, s[:i]...)
			h.reg.handlers = append(out, s[i+1:]...)
			return
		}
	}
}
