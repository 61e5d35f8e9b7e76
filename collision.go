package brownian

import "math"

// HitKind classifies what a candidate move collided with.
type HitKind int

const (
	// NoHit means the move crossed nothing.
	NoHit HitKind = iota
	// HitTree means the move crossed a committed tree segment.
	HitTree
	// HitDestination means the move crossed a destination segment.
	HitDestination
	// HitExclude means the move crossed an exclude segment.
	HitExclude
)

// String returns the name of the hit kind.
func (k HitKind) String() string {
	switch k {
	case NoHit:
		return "none"
	case HitTree:
		return "tree"
	case HitDestination:
		return "destination"
	case HitExclude:
		return "exclude"
	}
	return "unknown"
}

// Hit is the result of a collision query.
// Index refers to the tree store for HitTree and to the destination or
// exclude list otherwise. Point is the crossing point.
type Hit struct {
	Kind  HitKind
	Index int
	Point Point
}

// field is the static and growing geometry a walker collides with.
type field struct {
	tree         *Store
	destinations []Segment
	excludes     []Segment
}

// collide returns the crossing of the move a->b closest to a. Tree segments
// are scanned first, then destinations, then excludes; on equal distance
// the first one found wins.
func (f *field) collide(a, b Point) Hit {
	move := Segment{Start: a, End: b}
	best := Hit{Kind: NoHit}
	bestDist := math.Inf(1)

	consider := func(kind HitKind, i int, s Segment) {
		p, ok := move.Intersect(s)
		if !ok {
			return
		}
		if d := p.DistanceSquared(a); d < bestDist {
			bestDist = d
			best = Hit{Kind: kind, Index: i, Point: p}
		}
	}

	for i, t := range f.tree.All() {
		consider(HitTree, i, t.Segment)
	}
	for i, s := range f.destinations {
		consider(HitDestination, i, s)
	}
	for i, s := range f.excludes {
		consider(HitExclude, i, s)
	}
	return best
}

// nearest returns the closest point to p over all tree segments and all
// destination segments. ok is false when there is nothing to steer to.
func (f *field) nearest(p Point) (target Point, ok bool) {
	bestDist := math.Inf(1)

	consider := func(s Segment) {
		q := s.NearestPoint(p)
		if d := q.DistanceSquared(p); d < bestDist {
			bestDist = d
			target = q
			ok = true
		}
	}

	for _, t := range f.tree.All() {
		consider(t.Segment)
	}
	for _, s := range f.destinations {
		consider(s)
	}
	return target, ok
}
