package brownian

import "math"

// Seeds is the adjusted source line set: user-drawn source segments cut
// into short, roughly equal pieces that growth starts from. Each piece
// carries an exhausted flag.
//
// Seeds are rebuilt in full whenever the source lines change.
type Seeds struct {
	segs       []Segment
	exhausted  []bool
	nExhausted int
}

// AdjustSeeds cuts every source segment into pieces about a third as long
// as the shortest source segment. A source segment of length len yields
// round(len/unit) pieces, at least one. All flags start cleared.
//
// It returns ErrEmptyInput when source is empty.
func AdjustSeeds(source []Segment) (*Seeds, error) {
	if len(source) == 0 {
		return nil, ErrEmptyInput
	}

	minLen2 := math.Inf(1)
	for _, s := range source {
		if l2 := s.LengthSquared(); l2 < minLen2 {
			minLen2 = l2
		}
	}
	unit := math.Sqrt(minLen2) / 3

	var segs []Segment
	for _, s := range source {
		segs = append(segs, SubdivideSource(s, unit)...)
	}
	return &Seeds{
		segs:      segs,
		exhausted: make([]bool, len(segs)),
	}, nil
}

// SubdivideSource cuts s into round(length/unit) equal pieces (at least one)
// in order from s.Start to s.End. Consecutive pieces share their boundary
// point exactly, and the first and last pieces keep s's endpoints exactly.
func SubdivideSource(s Segment, unit float64) []Segment {
	n := 1
	if unit > 0 {
		n = max(1, int(math.Round(s.Length()/unit)))
	}

	pieces := make([]Segment, n)
	prev := s.Start
	for i := range n {
		next := s.End
		if i < n-1 {
			next = s.At(float64(i+1) / float64(n))
		}
		pieces[i] = Segment{Start: prev, End: next}
		prev = next
	}
	return pieces
}

// Len returns the number of seed segments.
func (s *Seeds) Len() int {
	if s == nil {
		return 0
	}
	return len(s.segs)
}

// At returns seed segment i.
func (s *Seeds) At(i int) Segment {
	return s.segs[i]
}

// Segments returns the seed segments. The slice must not be modified.
func (s *Seeds) Segments() []Segment {
	if s == nil {
		return nil
	}
	return s.segs
}

// Exhausted reports whether growth from seed i has stopped.
func (s *Seeds) Exhausted(i int) bool {
	return s.exhausted[i]
}

// Exhaust marks seed i exhausted. It reports whether the flag changed.
func (s *Seeds) Exhaust(i int) bool {
	if s.exhausted[i] {
		return false
	}
	s.exhausted[i] = true
	s.nExhausted++
	return true
}

// ExhaustedCount returns the number of exhausted seeds.
func (s *Seeds) ExhaustedCount() int {
	if s == nil {
		return 0
	}
	return s.nExhausted
}

// AllExhausted reports whether no seed is left to grow from.
func (s *Seeds) AllExhausted() bool {
	return s.ExhaustedCount() == s.Len()
}

// Reset clears every exhausted flag.
func (s *Seeds) Reset() {
	if s == nil {
		return
	}
	clear(s.exhausted)
	s.nExhausted = 0
}
