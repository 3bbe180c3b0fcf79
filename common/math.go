package common

import "github.com/jakecoffman/cp"

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SegmentIntersect reports whether segments a1-a2 and b1-b2 cross and, if so,
// returns the crossing point.
func SegmentIntersect(a1, a2, b1, b2 cp.Vector) (cp.Vector, bool) {
	r := a2.Sub(a1)
	s := b2.Sub(b1)

	denom := r.Cross(s)
	if denom == 0 {
		// parallel or collinear segments never count as a crossing
		return cp.Vector{}, false
	}

	qp := b1.Sub(a1)
	t := qp.Cross(s) / denom
	u := qp.Cross(r) / denom

	if t < 0 || t > 1 || u < 0 || u > 1 {
		return cp.Vector{}, false
	}
	return a1.Add(r.Mult(t)), true
}

// SideOfLine returns +1 when p lies to the left of the directed line a-b,
// -1 to the right, and 0 on the line.
func SideOfLine(a, b, p cp.Vector) float64 {
	cross := b.Sub(a).Cross(p.Sub(a))
	switch {
	case cross > 0:
		return 1
	case cross < 0:
		return -1
	default:
		return 0
	}
}

// ProjectOnSegment returns the squared distance from p to segment a-b and the
// closest point on the segment.
func ProjectOnSegment(a, b, p cp.Vector) (float64, cp.Vector) {
	ab := b.Sub(a)
	lenSq := ab.LengthSq()
	if lenSq == 0 {
		return p.DistanceSq(a), a
	}
	t := Clamp(p.Sub(a).Dot(ab)/lenSq, 0, 1)
	closest := a.Add(ab.Mult(t))
	return p.DistanceSq(closest), closest
}
