package preview

import (
	"bytes"
	"errors"
	"image/color"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/gogpu/gg"

	"github.com/gogpu/brownian"
)

type fakeSource struct {
	tree         *brownian.Store
	c            brownian.Classification
	bounds       brownian.Rect
	seeds        *brownian.Seeds
	destinations []brownian.Segment
	excludes     []brownian.Segment
	stats        brownian.Stats
}

func (f fakeSource) Tree() *brownian.Store { return f.tree }
func (f fakeSource) Classification() brownian.Classification { return f.c }
func (f fakeSource) Bounds() brownian.Rect { return f.bounds }
func (f fakeSource) Seeds() *brownian.Seeds { return f.seeds }
func (f fakeSource) Destinations() []brownian.Segment { return f.destinations }
func (f fakeSource) Excludes() []brownian.Segment { return f.excludes }
func (f fakeSource) Stats() brownian.Stats { return f.stats }

func colorDistance(a, b color.Color) float64 {
	ar, ag, ab, _ := a.RGBA()
	br, bg, bb, _ := b.RGBA()
	d := math.Abs(float64(ar)-float64(br)) + math.Abs(float64(ag)-float64(bg)) + math.Abs(float64(ab)-float64(bb))
	return d / 257
}

func rgbaClose(a, b gg.RGBA) bool {
	const eps = 1e-9
	return math.Abs(a.R-b.R) < eps && math.Abs(a.G-b.G) < eps &&
		math.Abs(a.B-b.B) < eps && math.Abs(a.A-b.A) < eps
}

func TestRender_DrawsGuides(t *testing.T) {
	src := fakeSource{
		tree:         brownian.NewStore(),
		bounds:       brownian.Canvas(100, 100),
		destinations: []brownian.Segment{brownian.Seg(0, 50, 100, 50)},
	}
	style := DefaultStyle()
	style.FontSize = 0
	style.GuideWidth = 4

	img, err := Image(src, 100, 100, style)
	if err != nil {
		t.Fatalf("Image: %v", err)
	}
	if got := img.Bounds().Dx(); got != 100 {
		t.Fatalf("width = %d, want 100", got)
	}

	bg := style.Background.Color()
	if d := colorDistance(img.At(10, 10), bg); d > 3 {
		t.Errorf("pixel away from lines differs from background by %v", d)
	}
	if d := colorDistance(img.At(50, 50), bg); d < 30 {
		t.Errorf("pixel on the destination line looks like background (distance %v)", d)
	}
}

func TestRender_InvalidSize(t *testing.T) {
	src := fakeSource{tree: brownian.NewStore(), bounds: brownian.Canvas(10, 10)}
	dc, err := Render(src, 0, 10, DefaultStyle())
	if !errors.Is(err, brownian.ErrInvalidParameter) {
		t.Errorf("Render = %v, want ErrInvalidParameter", err)
	}
	if dc != nil {
		t.Error("no context expected on invalid size")
	}
}

func TestWritePNG_Engine(t *testing.T) {
	e := brownian.NewEngine(200, 100, brownian.WithSeed(21))
	if err := e.SetSources([]brownian.Segment{brownian.Seg(10, 90, 190, 90)}); err != nil {
		t.Fatal(err)
	}
	e.SetDestinations([]brownian.Segment{brownian.Seg(90, 10, 110, 10)})
	e.SetExcludes([]brownian.Segment{brownian.Seg(0, 50, 40, 50)})
	p := brownian.DefaultParams()
	p.TargetCount = 25
	p.MinLength, p.MaxLength = 3, 8
	if err := e.Start(p); err != nil {
		t.Fatal(err)
	}
	for !e.Step() {
	}

	var buf bytes.Buffer
	if err := WritePNG(&buf, e, 400, 200, DefaultStyle()); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 400 || b.Dy() != 200 {
		t.Errorf("size = %dx%d, want 400x200", b.Dx(), b.Dy())
	}
}

func TestStyle_Segment(t *testing.T) {
	s := DefaultStyle()
	c := brownian.Classification{Distances: []int{0, 1, 2, brownian.Unreached}, Max: 2, Reached: 3}

	col, w := s.Segment(c, 0)
	if !rgbaClose(col, s.Trunk) || w != s.MaxWidth {
		t.Errorf("trunk = %v, %v, want %v, %v", col, w, s.Trunk, s.MaxWidth)
	}
	col, w = s.Segment(c, 2)
	if !rgbaClose(col, s.Twig) || w != s.MinWidth {
		t.Errorf("twig = %v, %v, want %v, %v", col, w, s.Twig, s.MinWidth)
	}
	if _, w := s.Segment(c, 1); w != (s.MinWidth+s.MaxWidth)/2 {
		t.Errorf("middle width = %v", w)
	}
	if _, w := s.Segment(c, 3); w != s.MinWidth {
		t.Errorf("unreached width = %v, want twig width", w)
	}
}

func TestStyle_SeedColor(t *testing.T) {
	s := DefaultStyle()
	if s.SeedColor(false) != s.Seed || s.SeedColor(true) != s.ExhaustedSeed {
		t.Error("seed colors mixed up")
	}
	if s.Seed == s.ExhaustedSeed {
		t.Error("active and exhausted seeds should differ")
	}
}

func TestCaption(t *testing.T) {
	got := Caption(brownian.Stats{
		State: brownian.Halted, Reason: brownian.TargetReached,
		Committed: 5, Target: 5, Attempts: 7, Seeds: 3, ExhaustedSeeds: 1,
	})
	for _, want := range []string{"halted", "5/5 segments", "7 attempts", "1/3 seeds exhausted", "(target reached)"} {
		if !strings.Contains(got, want) {
			t.Errorf("Caption = %q, missing %q", got, want)
		}
	}

	if got := Caption(brownian.Stats{State: brownian.Growing, Target: 10}); strings.Contains(got, "seeds") {
		t.Errorf("random-start caption mentions seeds: %q", got)
	}
}

func TestViewport(t *testing.T) {
	v := newViewport(brownian.Canvas(100, 50), 400, 400)
	if v.scale != 4 {
		t.Fatalf("scale = %v, want 4", v.scale)
	}
	if got := v.apply(brownian.Pt(0, 0)); got != brownian.Pt(0, 100) {
		t.Errorf("apply(0,0) = %v, want (0, 100)", got)
	}
	if got := v.apply(brownian.Pt(100, 50)); got != brownian.Pt(400, 300) {
		t.Errorf("apply(100,50) = %v, want (400, 300)", got)
	}
}

func TestBackend(t *testing.T) {
	if Backend() == "" {
		t.Error("Backend should name a rasterizer")
	}
}
