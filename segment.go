package brownian

import "math"

// parallelEpsilon is the smallest cross product of two segment directions
// still treated as a proper crossing. Below it the segments are parallel,
// collinear or degenerate and report no intersection.
const parallelEpsilon = 1e-9

// Segment is a straight line from Start to End.
type Segment struct {
	Start, End Point
}

// Seg is a convenience function to create a Segment.
func Seg(x1, y1, x2, y2 float64) Segment {
	return Segment{Start: Pt(x1, y1), End: Pt(x2, y2)}
}

// Vector returns End - Start.
func (s Segment) Vector() Point {
	return s.End.Sub(s.Start)
}

// Length returns the length of the segment.
func (s Segment) Length() float64 {
	return s.Vector().Length()
}

// LengthSquared returns the squared length of the segment.
func (s Segment) LengthSquared() float64 {
	return s.Vector().LengthSquared()
}

// At returns the point at parameter t along the segment.
// t=0 returns Start, t=1 returns End.
func (s Segment) At(t float64) Point {
	return s.Start.Lerp(s.End, t)
}

// Reversed returns the segment with its endpoints swapped.
func (s Segment) Reversed() Segment {
	return Segment{Start: s.End, End: s.Start}
}

// Intersect returns the crossing point of s and o.
//
// Both interpolation parameters must lie in [0,1], so touching at an
// endpoint counts as a crossing. Parallel, collinear and zero-length
// segments never intersect.
func (s Segment) Intersect(o Segment) (Point, bool) {
	r := s.Vector()
	q := o.Vector()
	denom := r.Cross(q)
	if math.Abs(denom) < parallelEpsilon {
		return Point{}, false
	}

	d := o.Start.Sub(s.Start)
	t := d.Cross(q) / denom
	u := d.Cross(r) / denom
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return Point{}, false
	}
	return s.At(t), true
}

// NearestPoint returns the point on s closest to p.
func (s Segment) NearestPoint(p Point) Point {
	v := s.Vector()
	l2 := v.LengthSquared()
	if l2 == 0 {
		return s.Start
	}
	t := p.Sub(s.Start).Dot(v) / l2
	switch {
	case t <= 0:
		return s.Start
	case t >= 1:
		return s.End
	}
	return s.At(t)
}

// DistanceSquaredTo returns the squared distance from p to the segment.
func (s Segment) DistanceSquaredTo(p Point) float64 {
	return s.NearestPoint(p).DistanceSquared(p)
}

// DistanceTo returns the distance from p to the segment.
func (s Segment) DistanceTo(p Point) float64 {
	return math.Sqrt(s.DistanceSquaredTo(p))
}

// Pair is a flattened start/end pair for file export.
type Pair [2]Point
