package gesturesound

import (
	"github.com/hajimehoshi/ebiten/v2"
)

const maxPointers = 10 // pointer 0 = mouse, 1-9 = touch

// pointerState is the last reported state of one device pointer.
type pointerState struct {
	down         bool
	lastX, lastY float64
}

// deviceState turns ebiten's polled mouse and touch state into raw samples.
// Edges are detected against the previous poll.
type deviceState struct {
	pointers     [maxPointers]pointerState
	touchMap     [maxPointers]ebiten.TouchID
	touchUsed    [maxPointers]bool
	prevTouchIDs []ebiten.TouchID
}

// poll queues the samples for this tick. Must run on the ebiten update
// goroutine.
func (d *deviceState) poll(in *inputState) {
	mx, my := ebiten.CursorPosition()
	d.report(in, 0, float64(mx), float64(my), ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))
	d.pollTouches(in)
}

func (d *deviceState) pollTouches(in *inputState) {
	touchIDs := ebiten.AppendTouchIDs(d.prevTouchIDs[:0])
	d.prevTouchIDs = touchIDs

	var activeSlots [maxPointers]bool
	for _, tid := range touchIDs {
		slot := d.touchSlot(tid)
		if slot < 0 {
			continue
		}
		activeSlots[slot] = true
		tx, ty := ebiten.TouchPosition(tid)
		d.report(in, slot, float64(tx), float64(ty), true)
	}

	// Release touch slots whose contact disappeared this tick.
	for i := 1; i < maxPointers; i++ {
		if d.touchUsed[i] && !activeSlots[i] {
			ps := &d.pointers[i]
			d.report(in, i, ps.lastX, ps.lastY, false)
			d.touchUsed[i] = false
			d.touchMap[i] = 0
		}
	}
}

// touchSlot maps an ebiten.TouchID to a pointer slot (1-9).
// Returns the existing slot or allocates a new one. Returns -1 if full.
func (d *deviceState) touchSlot(tid ebiten.TouchID) int {
	for i := 1; i < maxPointers; i++ {
		if d.touchUsed[i] && d.touchMap[i] == tid {
			return i
		}
	}
	for i := 1; i < maxPointers; i++ {
		if !d.touchUsed[i] {
			d.touchUsed[i] = true
			d.touchMap[i] = tid
			return i
		}
	}
	return -1
}

// report compares one pointer against its previous state and queues the
// matching edge, if any.
func (d *deviceState) report(in *inputState, slot int, x, y float64, pressed bool) {
	ps := &d.pointers[slot]
	switch {
	case pressed && !ps.down:
		in.feed(RawSample{Pointer: slot, Kind: SampleDown, X: x, Y: y})
	case pressed && (x != ps.lastX || y != ps.lastY):
		in.feed(RawSample{Pointer: slot, Kind: SampleMove, X: x, Y: y})
	case !pressed && ps.down:
		in.feed(RawSample{Pointer: slot, Kind: SampleUp, X: x, Y: y})
	}
	ps.down = pressed
	ps.lastX, ps.lastY = x, y
}
