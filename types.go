package gesturesound

import "math"

// Vec2 is a 2D vector used for positions, offsets and directions throughout
// the API. Screen positions use pixels with Y increasing downward.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v multiplied by f.
func (v Vec2) Scale(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }

// Len returns the length of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Dist returns the euclidean distance between v and o.
func (v Vec2) Dist(o Vec2) float64 { return math.Hypot(o.X-v.X, o.Y-v.Y) }

// Mid returns the point halfway between v and o.
func (v Vec2) Mid(o Vec2) Vec2 { return Vec2{(v.X + o.X) / 2, (v.Y + o.Y) / 2} }

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// GestureKind identifies a recognizer family.
type GestureKind uint8

const (
	GestureTap    GestureKind = iota // single-cursor press/release
	GestureDrag                      // single-cursor translation
	GestureRotate                    // two-cursor rotation
	GestureScale                     // two-cursor pinch/spread
)

func (k GestureKind) String() string {
	switch k {
	case GestureTap:
		return "tap"
	case GestureDrag:
		return "drag"
	case GestureRotate:
		return "rotate"
	case GestureScale:
		return "scale"
	}
	return "unknown"
}

// GesturePhase is the lifecycle stage a GestureEvent reports.
type GesturePhase uint8

const (
	GestureDetected GesturePhase = iota // session armed
	GestureUpdated                      // session tracking
	GestureEnded                        // session closed (normally or aborted)
)

func (p GesturePhase) String() string {
	switch p {
	case GestureDetected:
		return "detected"
	case GestureUpdated:
		return "updated"
	case GestureEnded:
		return "ended"
	}
	return "unknown"
}

// CursorPhase is the lifecycle stage of a Cursor, and of the CursorEvent
// the router delivers for it.
type CursorPhase uint8

const (
	CursorStarted CursorPhase = iota // first sample
	CursorActive                     // subsequent samples
	CursorEnded                      // released
)

func (p CursorPhase) String() string {
	switch p {
	case CursorStarted:
		return "started"
	case CursorActive:
		return "active"
	case CursorEnded:
		return "ended"
	}
	return "unknown"
}

// TapOutcome classifies a tap event.
type TapOutcome uint8

const (
	TapButtonDown TapOutcome = iota // cursor pressed on the target
	TapButtonUp                     // released away from the target
	TapClicked                      // released within the tap radius over the target
)

func (o TapOutcome) String() string {
	switch o {
	case TapButtonDown:
		return "button_down"
	case TapButtonUp:
		return "button_up"
	case TapClicked:
		return "clicked"
	}
	return "unknown"
}
