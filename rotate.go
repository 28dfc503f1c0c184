package gesturesound

import "math"

// RotateProcessor recognizes two-cursor rotation. Each UPDATED carries the
// angle, in radians, the line between the two projected cursors turned since
// the previous tick, normalized to (-π, π].
type RotateProcessor struct {
	pairProcessor
}

// NewRotateProcessor creates a rotate processor. geo must not be nil.
func NewRotateProcessor(arb LockArbiter, geo Geometry) *RotateProcessor {
	p := &RotateProcessor{}
	p.init(p, GestureRotate, arb, DefaultRotatePriority, geo, &rotateMetric{})
	return p
}

type rotateMetric struct {
	prevAngle float64
	valid     bool
}

func (m *rotateMetric) rebase(a, b Vec2) {
	if a == b {
		m.valid = false
		return
	}
	m.prevAngle = math.Atan2(b.Y-a.Y, b.X-a.X)
	m.valid = true
}

func (m *rotateMetric) identity(a, b Vec2) Payload {
	return RotatePayload{Pivot: a.Mid(b)}
}

func (m *rotateMetric) step(a, b Vec2) Payload {
	out := RotatePayload{Pivot: a.Mid(b)}
	if a == b {
		return out
	}
	angle := math.Atan2(b.Y-a.Y, b.X-a.X)
	if m.valid {
		out.Angle = normalizeAngle(angle - m.prevAngle)
	}
	m.prevAngle = angle
	m.valid = true
	return out
}

// normalizeAngle maps a into (-π, π].
func normalizeAngle(a float64) float64 {
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	return a
}
