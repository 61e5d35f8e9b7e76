package svgexport

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/brownian"
)

type fakeSource struct {
	tree   *brownian.Store
	c      brownian.Classification
	bounds brownian.Rect
}

func (f fakeSource) Tree() *brownian.Store { return f.tree }
func (f fakeSource) Classification() brownian.Classification { return f.c }
func (f fakeSource) Bounds() brownian.Rect { return f.bounds }

// chainSource is a classified three-segment chain on a 100x100 canvas.
func chainSource() fakeSource {
	s := brownian.NewStore()
	s.Append(brownian.TreeSegment{Segment: brownian.Seg(0, 10, 0, 0), Parent: brownian.NoParent, OnDestination: true})
	s.Append(brownian.TreeSegment{Segment: brownian.Seg(10, 10, 0, 10), Parent: 0})
	s.Append(brownian.TreeSegment{Segment: brownian.Seg(20, 10, 10, 10), Parent: 1})
	return fakeSource{
		tree:   s,
		c:      brownian.Classify(s.All(), nil),
		bounds: brownian.Canvas(100, 100),
	}
}

func TestWrite_GradedA4(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Title = "test tree"
	if err := Write(&buf, chainSource(), opts); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		`width="210mm"`,
		`height="297mm"`,
		`viewBox="0 0 21000 29700"`,
		"<title>test tree</title>",
		"stroke-width:30;",
		"stroke-width:75;",
		"stroke-width:120;",
		"</svg>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if got := strings.Count(out, "<path "); got != 3 {
		t.Errorf("path elements = %d, want one per class (3)", got)
	}
	if !strings.Contains(out, "M1000 7250L1000 5350") {
		t.Errorf("trunk segment not scaled and centred:\n%s", out)
	}
}

func TestWrite_SinglePath(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Mode = SinglePath
	if err := Write(&buf, chainSource(), opts); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()

	if got := strings.Count(out, "<path "); got != 1 {
		t.Errorf("path elements = %d, want 1", got)
	}
	if got := strings.Count(out, "M"); got < 3 {
		t.Errorf("move commands = %d, want at least 3", got)
	}
}

func TestWrite_Unclassified(t *testing.T) {
	src := chainSource()
	src.c = brownian.Classification{}

	var buf bytes.Buffer
	if err := Write(&buf, src, DefaultOptions()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	if got := strings.Count(out, "<path "); got != 1 {
		t.Errorf("path elements = %d, want everything in one class", got)
	}
	if !strings.Contains(out, "stroke-width:30;") {
		t.Error("unclassified segments should use the thinnest stroke")
	}
}

func TestWrite_CanvasUnits(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.PageWidth, opts.PageHeight, opts.Margin = 0, 0, 0
	opts.Background = "white"
	if err := Write(&buf, chainSource(), opts); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `width="100mm"`) || !strings.Contains(out, `viewBox="0 0 10000 10000"`) {
		t.Errorf("canvas-sized page expected:\n%s", out)
	}
	if !strings.Contains(out, "fill:white") {
		t.Error("background rect missing")
	}
	if !strings.Contains(out, "M0 1000L0 0") {
		t.Errorf("unscaled trunk segment missing:\n%s", out)
	}
}

func TestWrite_Engine(t *testing.T) {
	e := brownian.NewEngine(100, 100, brownian.WithSeed(8))
	if err := e.SetSources([]brownian.Segment{brownian.Seg(0, 90, 100, 90)}); err != nil {
		t.Fatal(err)
	}
	e.SetDestinations([]brownian.Segment{brownian.Seg(40, 10, 60, 10)})
	p := brownian.DefaultParams()
	p.TargetCount = 20
	p.MinLength, p.MaxLength = 3, 6
	if err := e.Start(p); err != nil {
		t.Fatal(err)
	}
	for !e.Step() {
	}

	var buf bytes.Buffer
	if err := Write(&buf, e, DefaultOptions()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if e.Tree().Len() > 0 && !strings.Contains(buf.String(), "<path ") {
		t.Error("grown tree produced no path")
	}
}

type failingWriter struct{}

var errDiskFull = errors.New("disk full")

func (failingWriter) Write([]byte) (int, error) { return 0, errDiskFull }

func TestWrite_PropagatesWriteError(t *testing.T) {
	if err := Write(failingWriter{}, chainSource(), DefaultOptions()); !errors.Is(err, errDiskFull) {
		t.Errorf("Write = %v, want the writer's error", err)
	}
}

func TestTransform(t *testing.T) {
	opts := DefaultOptions()
	fit := newTransform(brownian.Canvas(100, 100), opts)

	tests := []struct {
		in   brownian.Point
		want brownian.Point
	}{
		{brownian.Pt(0, 0), brownian.Pt(1000, 5350)},
		{brownian.Pt(100, 100), brownian.Pt(20000, 24350)},
		{brownian.Pt(50, 50), brownian.Pt(10500, 14850)},
	}
	for _, tt := range tests {
		if got := fit.apply(tt.in); !got.Approx(tt.want, 1e-6) {
			t.Errorf("apply(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"graded", Graded, false},
		{"", Graded, false},
		{"path", SinglePath, false},
		{"dots", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) err = %v", tt.in, err)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if err != nil && !errors.Is(err, brownian.ErrInvalidParameter) {
			t.Errorf("ParseMode(%q) error should wrap ErrInvalidParameter", tt.in)
		}
	}
}

func TestOptions_StrokeWidth(t *testing.T) {
	o := DefaultOptions()
	want := []float64{0.3, 0.75, 1.2}
	for class, w := range want {
		if got := o.strokeWidth(class); got < w-1e-12 || got > w+1e-12 {
			t.Errorf("strokeWidth(%d) = %v, want %v", class, got, w)
		}
	}
}
