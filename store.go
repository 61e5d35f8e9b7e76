package brownian

import "fmt"

// SegmentID is a handle to a segment in a Store.
type SegmentID int

// NoParent marks a root segment.
const NoParent SegmentID = -1

// Unreached is the distance of a segment before classification, and after
// classification for segments with no path to a destination.
const Unreached = -1

// TreeSegment is one committed segment of a growing tree.
//
// A segment grows from Start (the walker) towards End (the collision point).
// When Parent is set, End lies on the parent's Start, so following parents
// walks towards the root.
type TreeSegment struct {
	Segment

	// Parent is the segment this one grew into, or NoParent.
	Parent SegmentID

	// OnDestination marks a root that ended on a destination segment.
	OnDestination bool

	// Distance is the number of parent hops to the nearest trunk segment,
	// or Unreached.
	Distance int

	// Origin is where the outer attempt that produced this segment started.
	Origin Point

	// Seed is the index of the originating seed segment, or -1 for a
	// random start. Pieces created by subdivision keep the value of the
	// segment they were cut from.
	Seed int
}

// Store is an append-only arena of tree segments indexed by SegmentID.
// Segments are never deleted; subdivision rewrites one segment in place and
// appends its trailing piece.
type Store struct {
	segs []TreeSegment
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Len returns the number of segments.
func (s *Store) Len() int {
	return len(s.segs)
}

// At returns the segment with the given id.
func (s *Store) At(id SegmentID) TreeSegment {
	return s.segs[id]
}

// All returns the segments in id order. The slice is shared with the store
// and must not be modified.
func (s *Store) All() []TreeSegment {
	return s.segs
}

// Reset removes all segments, keeping the allocated capacity.
func (s *Store) Reset() {
	s.segs = s.segs[:0]
}

// Append adds t and returns its id. A parent other than NoParent must refer
// to an existing segment.
func (s *Store) Append(t TreeSegment) SegmentID {
	if t.Parent != NoParent && !s.valid(t.Parent) {
		panic(fmt.Sprintf("brownian: parent %d out of range [0,%d)", t.Parent, len(s.segs)))
	}
	s.segs = append(s.segs, t)
	return SegmentID(len(s.segs) - 1)
}

// Subdivide splits segment k at p and returns the id of the trailing piece.
//
// After the call k runs from its old Start to p, the trailing piece runs
// from p to k's old End and inherits k's old parent, and k is re-parented
// to the trailing piece.
func (s *Store) Subdivide(k SegmentID, p Point) SegmentID {
	old := s.segs[k]
	trail := old
	trail.Start = p
	trail.Distance = Unreached
	id := s.Append(trail)

	s.segs[k].End = p
	s.segs[k].Parent = id
	s.segs[k].OnDestination = false
	return id
}

// Depth returns the number of parent hops from id to its root.
func (s *Store) Depth(id SegmentID) int {
	depth := 0
	for p := s.segs[id].Parent; p != NoParent; p = s.segs[p].Parent {
		depth++
	}
	return depth
}

// Pairs flattens the store into start/end pairs in id order.
func (s *Store) Pairs() []Pair {
	pairs := make([]Pair, len(s.segs))
	for i, t := range s.segs {
		pairs[i] = Pair{t.Start, t.End}
	}
	return pairs
}

// Check verifies that the parent relation is a forest: every parent is in
// range, no segment is its own ancestor, and every parented segment ends on
// its parent's start within tol.
func (s *Store) Check(tol float64) error {
	n := len(s.segs)
	for i := range s.segs {
		steps := 0
		for p := s.segs[i].Parent; p != NoParent; p = s.segs[p].Parent {
			if !s.valid(p) {
				return fmt.Errorf("brownian: segment %d: parent %d out of range", i, p)
			}
			if steps++; steps > n {
				return fmt.Errorf("brownian: segment %d: parent chain has a cycle", i)
			}
		}
		t := s.segs[i]
		if t.Parent != NoParent && !t.End.Approx(s.segs[t.Parent].Start, tol) {
			return fmt.Errorf("brownian: segment %d ends at %v, parent %d starts at %v",
				i, t.End, t.Parent, s.segs[t.Parent].Start)
		}
	}
	return nil
}

func (s *Store) valid(id SegmentID) bool {
	return id >= 0 && int(id) < len(s.segs)
}

func (s *Store) setDistance(id SegmentID, d int) {
	s.segs[id].Distance = d
}
