package gesturesound

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestDeviceReportEdges(t *testing.T) {
	in := newInputState()
	var d deviceState

	d.report(in, 0, 10, 10, false) // idle
	d.report(in, 0, 10, 10, true)  // press
	d.report(in, 0, 10, 10, true)  // held still
	d.report(in, 0, 12, 10, true)  // move
	d.report(in, 0, 12, 10, false) // release

	got := in.take()
	want := []SampleKind{SampleDown, SampleMove, SampleUp}
	if len(got) != len(want) {
		t.Fatalf("samples = %+v, want kinds %v", got, want)
	}
	for i, rs := range got {
		if rs.Kind != want[i] || rs.Pointer != 0 {
			t.Errorf("sample %d = %+v, want kind %v", i, rs, want[i])
		}
	}
	if got[1].X != 12 {
		t.Errorf("move X = %v, want 12", got[1].X)
	}
}

func TestTouchSlots(t *testing.T) {
	var d deviceState
	a := d.touchSlot(ebiten.TouchID(7))
	b := d.touchSlot(ebiten.TouchID(9))
	if a != 1 || b != 2 {
		t.Errorf("slots = %d, %d, want 1, 2", a, b)
	}
	if again := d.touchSlot(ebiten.TouchID(7)); again != a {
		t.Errorf("known touch moved to slot %d", again)
	}
	for i := 0; i < maxPointers; i++ {
		d.touchSlot(ebiten.TouchID(100 + i))
	}
	if got := d.touchSlot(ebiten.TouchID(500)); got != -1 {
		t.Errorf("full table slot = %d, want -1", got)
	}
}

func TestTakeMergesOneFrame(t *testing.T) {
	in := newInputState()
	in.feed(down(1, 0, 0))
	in.pushFrame(down(2, 5, 5))
	in.pushFrame(up(2, 5, 5))

	first := in.take()
	if len(first) != 2 || first[0].Pointer != 1 || first[1].Pointer != 2 {
		t.Errorf("first take = %+v", first)
	}
	if in.pendingFrames() != 1 {
		t.Errorf("pending = %d, want 1", in.pendingFrames())
	}
	if second := in.take(); len(second) != 1 || second[0].Kind != SampleUp {
		t.Errorf("second take = %+v", second)
	}
	if k := in.pointerKey(); k < injectedPointerBase {
		t.Errorf("pointer key %d collides with device slots", k)
	}
}
