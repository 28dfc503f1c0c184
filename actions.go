package gesturesound

import (
	"math"

	"github.com/tanema/gween/ease"
)

// DragAction returns a listener that moves node by each drag translation.
func DragAction(node *Node) func(GestureEvent) {
	return func(evt GestureEvent) {
		d, ok := evt.Drag()
		if !ok || evt.Phase == GestureDetected {
			return
		}
		node.X += d.Translation.X
		node.Y += d.Translation.Y
		node.MarkDirty()
	}
}

// ScaleAction returns a listener that scales node about the gesture pivot.
// Factors below minScale or above maxScale for the node's cumulative scale
// are clamped; pass 0 for no limit.
func ScaleAction(node *Node, minScale, maxScale float64) func(GestureEvent) {
	return func(evt GestureEvent) {
		sp, ok := evt.Scale()
		if !ok || evt.Phase != GestureUpdated || node.ScaleX == 0 {
			return
		}
		f := sp.FactorX
		next := node.ScaleX * f
		if minScale > 0 && next < minScale {
			f = minScale / node.ScaleX
		}
		if maxScale > 0 && next > maxScale {
			f = maxScale / node.ScaleX
		}
		if f == 1 || math.IsNaN(f) || math.IsInf(f, 0) {
			return
		}
		node.X = sp.Pivot.X + (node.X-sp.Pivot.X)*f
		node.Y = sp.Pivot.Y + (node.Y-sp.Pivot.Y)*f
		node.ScaleX *= f
		node.ScaleY *= f
		node.MarkDirty()
	}
}

// RotateAction returns a listener that rotates node about the gesture pivot.
func RotateAction(node *Node) func(GestureEvent) {
	return func(evt GestureEvent) {
		rp, ok := evt.Rotate()
		if !ok || evt.Phase != GestureUpdated || rp.Angle == 0 {
			return
		}
		sin, cos := math.Sincos(rp.Angle)
		dx := node.X - rp.Pivot.X
		dy := node.Y - rp.Pivot.Y
		node.X = rp.Pivot.X + dx*cos - dy*sin
		node.Y = rp.Pivot.Y + dx*sin + dy*cos
		node.Rotation += rp.Angle
		node.MarkDirty()
	}
}

// SettleScaleAction returns a listener that, when a scale gesture ends with
// node scaled outside [minScale, maxScale], animates it back to the nearest
// limit about the gesture's last pivot. Pair it with a ScaleAction that has
// wider limits for an elastic feel.
func SettleScaleAction(s *Scene, node *Node, minScale, maxScale float64, duration float32, fn ease.TweenFunc) func(GestureEvent) {
	return func(evt GestureEvent) {
		sp, ok := evt.Scale()
		if !ok || evt.Phase != GestureEnded || node.ScaleX == 0 {
			return
		}
		to := math.Max(minScale, math.Min(node.ScaleX, maxScale))
		if to == node.ScaleX {
			return
		}
		f := to / node.ScaleX
		s.Animate(TweenPosition(node, sp.Pivot.X+(node.X-sp.Pivot.X)*f, sp.Pivot.Y+(node.Y-sp.Pivot.Y)*f, duration, fn))
		s.Animate(TweenScale(node, to, node.ScaleY*f, duration, fn))
	}
}

// SnapBackAction returns a listener that remembers node's transform when a
// gesture is detected and animates it back there when the gesture ends.
// Register it on every processor that moves node. A gesture detected while
// the node is still returning stops the animation; home stays where it was.
func SnapBackAction(s *Scene, node *Node, duration float32, fn ease.TweenFunc) func(GestureEvent) {
	var (
		home    [5]float64
		active  int
		running []*TweenGroup
	)
	return func(evt GestureEvent) {
		switch evt.Phase {
		case GestureDetected:
			returning := false
			for _, g := range running {
				returning = returning || !g.Done
				g.Stop()
			}
			running = nil
			if active == 0 && !returning {
				home = [5]float64{node.X, node.Y, node.ScaleX, node.ScaleY, node.Rotation}
			}
			active++
		case GestureEnded:
			if active == 0 {
				return
			}
			active--
			if active > 0 {
				return
			}
			running = []*TweenGroup{
				s.Animate(TweenPosition(node, home[0], home[1], duration, fn)),
				s.Animate(TweenScale(node, home[2], home[3], duration, fn)),
				s.Animate(TweenRotation(node, home[4], duration, fn)),
			}
		}
	}
}

// PanAction returns a drag listener that scrolls cam against the drag so the
// world follows the cursor, then clamps the camera to its bounds. Register
// it on a drag processor of a node in world space, typically a background.
func PanAction(cam *Camera) func(GestureEvent) {
	return func(evt GestureEvent) {
		d, ok := evt.Drag()
		if !ok || evt.Phase == GestureDetected {
			return
		}
		cam.X -= d.Translation.X
		cam.Y -= d.Translation.Y
		cam.ClampToBounds()
		cam.MarkDirty()
	}
}
