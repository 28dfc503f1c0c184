package gesturesound

// ScaleProcessor recognizes two-cursor pinch/spread gestures.
//
// Each UPDATED carries the incremental factor for one tick: the projected
// distance between the two cursors divided by the distance at the previous
// tick. Factors therefore compose by multiplication. The factor is uniform
// (FactorX == FactorY, FactorZ == 1) and exactly 1 whenever the cursors
// coincide.
type ScaleProcessor struct {
	pairProcessor
}

// NewScaleProcessor creates a scale processor. geo must not be nil.
func NewScaleProcessor(arb LockArbiter, geo Geometry) *ScaleProcessor {
	p := &ScaleProcessor{}
	p.init(p, GestureScale, arb, DefaultScalePriority, geo, &scaleMetric{})
	return p
}

type scaleMetric struct {
	prevDist float64
}

func (m *scaleMetric) rebase(a, b Vec2) {
	m.prevDist = a.Dist(b)
}

func (m *scaleMetric) identity(a, b Vec2) Payload {
	return ScalePayload{FactorX: 1, FactorY: 1, FactorZ: 1, Pivot: a.Mid(b)}
}

func (m *scaleMetric) step(a, b Vec2) Payload {
	d := a.Dist(b)
	f := scaleFactor(m.prevDist, d)
	if d > 0 {
		// A coincident tick keeps the last usable reference.
		m.prevDist = d
	}
	return ScalePayload{FactorX: f, FactorY: f, FactorZ: 1, Pivot: a.Mid(b)}
}

// scaleFactor returns cur/prev, or 1 when either distance is zero.
func scaleFactor(prev, cur float64) float64 {
	if prev <= 0 || cur <= 0 {
		return 1
	}
	return cur / prev
}
