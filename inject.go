package gesturesound

import "math"

// injectedPointerBase is the first pointer key handed out to injected
// gestures, far above the device poller's slots.
const injectedPointerBase = 1 << 16

// pushFrame queues one tick's worth of injected samples.
func (in *inputState) pushFrame(frame ...RawSample) {
	in.mu.Lock()
	in.frames = append(in.frames, frame)
	in.mu.Unlock()
}

// pointerKey allocates a pointer key no device produces.
func (in *inputState) pointerKey() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	k := injectedPointerBase + in.nextInjected
	in.nextInjected++
	return k
}

func (in *inputState) injectTap(x, y float64) {
	p := in.pointerKey()
	in.pushFrame(RawSample{Pointer: p, Kind: SampleDown, X: x, Y: y})
	in.pushFrame(RawSample{Pointer: p, Kind: SampleUp, X: x, Y: y})
}

func (in *inputState) injectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	p := in.pointerKey()
	in.pushFrame(RawSample{Pointer: p, Kind: SampleDown, X: fromX, Y: fromY})
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		in.pushFrame(RawSample{
			Pointer: p, Kind: SampleMove,
			X: fromX + (toX-fromX)*t,
			Y: fromY + (toY-fromY)*t,
		})
	}
	in.pushFrame(RawSample{Pointer: p, Kind: SampleUp, X: toX, Y: toY})
}

func (in *inputState) injectPinch(cx, cy, fromDist, toDist, turn float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	p0, p1 := in.pointerKey(), in.pointerKey()
	at := func(t float64, kind SampleKind) []RawSample {
		half := (fromDist + (toDist-fromDist)*t) / 2
		a := turn * t
		dx, dy := half*math.Cos(a), half*math.Sin(a)
		return []RawSample{
			{Pointer: p0, Kind: kind, X: cx - dx, Y: cy - dy},
			{Pointer: p1, Kind: kind, X: cx + dx, Y: cy + dy},
		}
	}
	in.pushFrame(at(0, SampleDown)...)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		in.pushFrame(at(float64(i)/float64(steps+1), SampleMove)...)
	}
	// Both contacts reach the end point before either lifts, so the last
	// update sees the final spread.
	last := append(at(1, SampleMove), at(1, SampleUp)...)
	in.pushFrame(last...)
}

// InjectDown queues a press of pointer at screen (x, y) for the next free
// injected frame. Each Inject call consumes at least one frame; frames are
// routed one per Update and take precedence over device polling.
func (s *Scene) InjectDown(pointer int, x, y float64) {
	s.input.pushFrame(RawSample{Pointer: pointer, Kind: SampleDown, X: x, Y: y})
}

// InjectMove queues a move of a pressed pointer.
func (s *Scene) InjectMove(pointer int, x, y float64) {
	s.input.pushFrame(RawSample{Pointer: pointer, Kind: SampleMove, X: x, Y: y})
}

// InjectUp queues a release of pointer.
func (s *Scene) InjectUp(pointer int, x, y float64) {
	s.input.pushFrame(RawSample{Pointer: pointer, Kind: SampleUp, X: x, Y: y})
}

// InjectFrame queues several samples that are routed in the same tick, for
// example both contacts of a two-finger gesture.
func (s *Scene) InjectFrame(samples ...RawSample) {
	s.input.pushFrame(samples...)
}

// InjectTap queues a press and a release at the same screen point. Consumes
// two frames.
func (s *Scene) InjectTap(x, y float64) {
	s.input.injectTap(x, y)
}

// InjectDrag queues a press at (fromX, fromY), linearly interpolated moves
// and a release at (toX, toY). The sequence consumes frames frames (min 2).
func (s *Scene) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	s.input.injectDrag(fromX, fromY, toX, toY, frames)
}

// InjectPinch queues a two-contact gesture centered on (cx, cy). The contact
// distance goes linearly from fromDist to toDist while the pair turns by
// turn radians. The sequence consumes frames frames (min 2).
func (s *Scene) InjectPinch(cx, cy, fromDist, toDist, turn float64, frames int) {
	s.input.injectPinch(cx, cy, fromDist, toDist, turn, frames)
}
