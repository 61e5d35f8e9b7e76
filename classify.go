package brownian

import "math"

// probeReach is how far, on each side of a segment's end, the destination
// probe extends along the segment's direction.
const probeReach = 0.5

// Classification holds each segment's distance from the trunk.
//
// Distance 0 marks the trunk: segments touching a destination and all of
// their ancestors. Every other segment is one hop further than its parent.
// Segments with no path to a destination stay Unreached.
type Classification struct {
	// Distances is indexed by SegmentID.
	Distances []int

	// Max is the largest finite distance, 0 when nothing was reached.
	Max int

	// Reached counts segments with a finite distance.
	Reached int
}

// Classify computes trunk distances for tree against destinations.
//
// Distances are relaxed to a fixed point rather than in one pass because
// subdivision leaves some parents stored after their children. Running it
// again on an unchanged tree yields the same result.
func Classify(tree []TreeSegment, destinations []Segment) Classification {
	n := len(tree)
	dist := make([]int, n)
	for i := range dist {
		dist[i] = Unreached
	}

	for i, t := range tree {
		if !touchesDestination(t, destinations) {
			continue
		}
		hops := 0
		for j := SegmentID(i); j != NoParent && dist[j] != 0 && hops <= n; j = tree[j].Parent {
			dist[j] = 0
			hops++
		}
	}

	for changed := true; changed; {
		changed = false
		for i, t := range tree {
			if dist[i] != Unreached || t.Parent == NoParent {
				continue
			}
			if pd := dist[t.Parent]; pd != Unreached {
				dist[i] = pd + 1
				changed = true
			}
		}
	}

	c := Classification{Distances: dist}
	for _, d := range dist {
		if d == Unreached {
			continue
		}
		c.Reached++
		c.Max = max(c.Max, d)
	}
	return c
}

// touchesDestination reports whether t ended on a destination, or a short
// probe across its end crosses one.
func touchesDestination(t TreeSegment, destinations []Segment) bool {
	if t.OnDestination {
		return true
	}
	dir := t.Vector().Normalize()
	if dir == (Point{}) {
		return false
	}
	reach := dir.Mul(probeReach)
	probe := Segment{Start: t.End.Sub(reach), End: t.End.Add(reach)}
	for _, d := range destinations {
		if _, ok := probe.Intersect(d); ok {
			return true
		}
	}
	return false
}

// Distance returns the distance of segment i and whether it was reached.
func (c Classification) Distance(i int) (int, bool) {
	if i < 0 || i >= len(c.Distances) || c.Distances[i] == Unreached {
		return 0, false
	}
	return c.Distances[i], true
}

// Weight maps segment i to [0,1]: 1 on the trunk, falling linearly to 0 at
// the largest distance. Unreached segments weigh 0, like the furthest twig.
func (c Classification) Weight(i int) float64 {
	d, ok := c.Distance(i)
	if !ok {
		return 0
	}
	if c.Max == 0 {
		return 1
	}
	return 1 - float64(d)/float64(c.Max)
}

// StrokeClass buckets segment i into one of classes stroke widths, from 0
// (thinnest) to classes-1 (trunk).
func (c Classification) StrokeClass(i, classes int) int {
	if classes <= 1 {
		return 0
	}
	return int(math.Round(c.Weight(i) * float64(classes-1)))
}
