package brownian

import "testing"

func TestField_CollidePriority(t *testing.T) {
	tree := NewStore()
	tree.Append(TreeSegment{Segment: Seg(30, -10, 30, 10), Parent: NoParent})

	tests := []struct {
		name         string
		destinations []Segment
		excludes     []Segment
		wantKind     HitKind
		wantPoint    Point
	}{
		{"tree only", nil, nil, HitTree, Pt(30, 0)},
		{"closer destination", []Segment{Seg(20, -10, 20, 10)}, nil, HitDestination, Pt(20, 0)},
		{"closer exclude", []Segment{Seg(40, -10, 40, 10)}, []Segment{Seg(10, -10, 10, 10)}, HitExclude, Pt(10, 0)},
		{"exclude behind tree", nil, []Segment{Seg(35, -10, 35, 10)}, HitTree, Pt(30, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := field{tree: tree, destinations: tt.destinations, excludes: tt.excludes}
			hit := f.collide(Pt(0, 0), Pt(50, 0))
			if hit.Kind != tt.wantKind {
				t.Fatalf("Kind = %v, want %v", hit.Kind, tt.wantKind)
			}
			if !hit.Point.Approx(tt.wantPoint, 1e-12) {
				t.Errorf("Point = %v, want %v", hit.Point, tt.wantPoint)
			}
		})
	}
}

func TestField_CollideTieFirstWins(t *testing.T) {
	tree := NewStore()
	tree.Append(TreeSegment{Segment: Seg(10, -5, 10, 5), Parent: NoParent})
	f := field{
		tree:         tree,
		destinations: []Segment{Seg(10, -1, 10, 1)},
		excludes:     []Segment{Seg(10, -2, 10, 2)},
	}

	hit := f.collide(Pt(0, 0), Pt(20, 0))
	if hit.Kind != HitTree || hit.Index != 0 {
		t.Errorf("hit = %+v, want tree segment 0", hit)
	}
}

func TestField_CollideIndex(t *testing.T) {
	f := field{
		tree:         NewStore(),
		destinations: []Segment{Seg(90, -1, 90, 1), Seg(15, -1, 15, 1), Seg(40, -1, 40, 1)},
	}
	hit := f.collide(Pt(0, 0), Pt(100, 0))
	if hit.Kind != HitDestination || hit.Index != 1 {
		t.Errorf("hit = %+v, want destination 1", hit)
	}
}

func TestField_CollideMiss(t *testing.T) {
	f := field{tree: NewStore(), destinations: []Segment{Seg(0, 10, 10, 10)}}
	if hit := f.collide(Pt(0, 0), Pt(10, 0)); hit.Kind != NoHit {
		t.Errorf("hit = %+v, want none", hit)
	}
}

func TestField_Nearest(t *testing.T) {
	tree := NewStore()
	tree.Append(TreeSegment{Segment: Seg(0, 10, 10, 10), Parent: NoParent})
	f := field{tree: tree, destinations: []Segment{Seg(0, -3, 10, -3)}}

	got, ok := f.nearest(Pt(5, 0))
	if !ok || got != Pt(5, -3) {
		t.Errorf("nearest = %v, %v, want (5, -3)", got, ok)
	}

	got, ok = f.nearest(Pt(5, 8))
	if !ok || got != Pt(5, 10) {
		t.Errorf("nearest = %v, %v, want (5, 10)", got, ok)
	}

	empty := field{tree: NewStore(), excludes: []Segment{Seg(0, 0, 1, 1)}}
	if _, ok := empty.nearest(Pt(0, 0)); ok {
		t.Error("excludes must not attract the walker")
	}
}

func TestHitKind_String(t *testing.T) {
	for k, want := range map[HitKind]string{
		NoHit: "none", HitTree: "tree", HitDestination: "destination", HitExclude: "exclude",
	} {
		if got := k.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", k, got, want)
		}
	}
}
