package entities

import "math"

// collinearEps is the determinant threshold below which three points are
// treated as collinear and no circle fit exists.
const collinearEps = 1e-12

// ArcDef is a fitted circular arc in plane-local coordinates. Sweep is
// signed: positive sweeps counter-clockwise in the plane's right-handed
// basis, negative clockwise. Angles are radians.
type ArcDef struct {
	Center Vec2
	Radius float64
	Start  float64
	Sweep  float64
}

// End returns the angle at which the arc stops.
func (a ArcDef) End() float64 {
	return a.Start + a.Sweep
}

// CircleFrom3Points fits the circumscribed circle through three picked
// points and derives the signed start/sweep pair for the arc from p1 to p3
// passing through p2. Returns ok=false for collinear input.
//
// Uses the 3-point determinant formula:
//
//	D  = 2(x1(y2-y3) + x2(y3-y1) + x3(y1-y2))
//	cx = ((x1²+y1²)(y2-y3) + (x2²+y2²)(y3-y1) + (x3²+y3²)(y1-y2)) / D
//	cy = ((x1²+y1²)(x3-x2) + (x2²+y2²)(x1-x3) + (x3²+y3²)(x2-x1)) / D
//
// This is the single source of truth for arc geometry: both the rubber-band
// preview and the committed entity go through here, so what the user sees
// is exactly what gets stored.
func CircleFrom3Points(p1, p2, p3 Vec2) (ArcDef, bool) {
	d := 2 * (p1.X*(p2.Y-p3.Y) + p2.X*(p3.Y-p1.Y) + p3.X*(p1.Y-p2.Y))
	if math.Abs(d) < collinearEps {
		return ArcDef{}, false
	}

	s1 := p1.X*p1.X + p1.Y*p1.Y
	s2 := p2.X*p2.X + p2.Y*p2.Y
	s3 := p3.X*p3.X + p3.Y*p3.Y

	cx := (s1*(p2.Y-p3.Y) + s2*(p3.Y-p1.Y) + s3*(p1.Y-p2.Y)) / d
	cy := (s1*(p3.X-p2.X) + s2*(p1.X-p3.X) + s3*(p2.X-p1.X)) / d
	center := Vec2{X: cx, Y: cy}

	start := math.Atan2(p1.Y-cy, p1.X-cx)
	end := math.Atan2(p3.Y-cy, p3.X-cx)

	// Winding from the picked points decides the sweep sign: angles are
	// measured in the plane's own right-handed basis, CCW positive.
	sweep := math.Mod(end-start, 2*math.Pi)
	if p2.Sub(p1).Cross(p3.Sub(p1)) > 0 {
		if sweep <= 0 {
			sweep += 2 * math.Pi
		}
	} else {
		if sweep >= 0 {
			sweep -= 2 * math.Pi
		}
	}

	return ArcDef{
		Center: center,
		Radius: center.Dist(p1),
		Start:  start,
		Sweep:  sweep,
	}, true
}
