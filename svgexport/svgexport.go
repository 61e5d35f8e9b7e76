// Package svgexport writes grown trees as SVG documents for pen plotters.
//
// Segments are grouped by stroke class, so trunk lines can be drawn with a
// thicker pen than the twigs. The tree is scaled to fit a page given in
// millimetres and centred on it.
package svgexport

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/gogpu/brownian"
)

// unitsPerMM is the number of viewBox units in one millimetre of page.
// svgo takes integer view boxes, so coordinates are scaled up to keep
// sub-millimetre precision.
const unitsPerMM = 100

// Mode selects how segments are grouped in the document.
type Mode int

const (
	// Graded writes one group per stroke class with its own stroke width.
	Graded Mode = iota
	// SinglePath writes every segment into one path element.
	SinglePath
)

// String returns the name used in scene files and flags.
func (m Mode) String() string {
	switch m {
	case Graded:
		return "graded"
	case SinglePath:
		return "path"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode parses the names returned by Mode.String.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "graded", "":
		return Graded, nil
	case "path":
		return SinglePath, nil
	}
	return 0, fmt.Errorf("%w: unknown export mode %q", brownian.ErrInvalidParameter, s)
}

// Options configures an export.
type Options struct {
	Mode Mode

	// Classes is the number of stroke classes in Graded mode.
	Classes int

	// MinStroke and MaxStroke are the stroke widths, in millimetres, of the
	// thinnest class and of the trunk.
	MinStroke, MaxStroke float64

	// PageWidth and PageHeight give the page size in millimetres.
	// Zero uses the canvas size, one canvas unit per millimetre.
	PageWidth, PageHeight float64

	// Margin is kept free on every side of the page, in millimetres.
	Margin float64

	// Stroke is the SVG stroke color.
	Stroke string

	// Background fills the page when not empty.
	Background string

	// Title is written as the document title when not empty.
	Title string
}

// DefaultOptions returns graded A4 export with three stroke classes.
func DefaultOptions() Options {
	return Options{
		Mode:       Graded,
		Classes:    3,
		MinStroke:  0.3,
		MaxStroke:  1.2,
		PageWidth:  210,
		PageHeight: 297,
		Margin:     10,
		Stroke:     "black",
	}
}

// Source is what an export reads. *brownian.Engine implements it.
type Source interface {
	Tree() *brownian.Store
	Classification() brownian.Classification
	Bounds() brownian.Rect
}

// Write renders src as an SVG document to w.
//
// Trees that were never classified, such as a run still growing, are
// written entirely in the thinnest class.
func Write(w io.Writer, src Source, opts Options) error {
	opts = opts.normalized(src.Bounds())
	tree := src.Tree().All()
	c := src.Classification()
	fit := newTransform(src.Bounds(), opts)

	bw := bufio.NewWriter(w)
	canvas := svg.New(bw)

	vw := int(math.Round(opts.PageWidth * unitsPerMM))
	vh := int(math.Round(opts.PageHeight * unitsPerMM))
	canvas.StartviewUnit(int(math.Round(opts.PageWidth)), int(math.Round(opts.PageHeight)), "mm", 0, 0, vw, vh)
	if opts.Title != "" {
		canvas.Title(opts.Title)
	}
	canvas.Desc(fmt.Sprintf("%d segments, max distance %d", len(tree), c.Max))
	if opts.Background != "" {
		canvas.Rect(0, 0, vw, vh, "fill:"+opts.Background)
	}

	switch opts.Mode {
	case SinglePath:
		canvas.Gstyle(strokeStyle(opts.Stroke, opts.MinStroke))
		canvas.Path(pathData(tree, fit, func(int) bool { return true }))
		canvas.Gend()
	default:
		for class := range opts.Classes {
			include := func(i int) bool { return c.StrokeClass(i, opts.Classes) == class }
			d := pathData(tree, fit, include)
			if d == "" {
				continue
			}
			canvas.Gstyle(strokeStyle(opts.Stroke, opts.strokeWidth(class)))
			canvas.Path(d)
			canvas.Gend()
		}
	}

	canvas.End()
	brownian.Logger().Debug("svg written", "segments", len(tree), "mode", opts.Mode,
		"page", fmt.Sprintf("%vx%vmm", opts.PageWidth, opts.PageHeight))
	return bw.Flush()
}

// normalized fills in unset options.
func (o Options) normalized(bounds brownian.Rect) Options {
	if o.Classes < 1 {
		o.Classes = 1
	}
	if o.PageWidth <= 0 || o.PageHeight <= 0 {
		o.PageWidth = bounds.Width()
		o.PageHeight = bounds.Height()
	}
	if o.Margin < 0 || 2*o.Margin >= min(o.PageWidth, o.PageHeight) {
		o.Margin = 0
	}
	if o.MinStroke <= 0 {
		o.MinStroke = DefaultOptions().MinStroke
	}
	o.MaxStroke = max(o.MaxStroke, o.MinStroke)
	if o.Stroke == "" {
		o.Stroke = "black"
	}
	return o
}

// strokeWidth returns the width of class in millimetres.
func (o Options) strokeWidth(class int) float64 {
	if o.Classes <= 1 {
		return o.MaxStroke
	}
	return o.MinStroke + (o.MaxStroke-o.MinStroke)*float64(class)/float64(o.Classes-1)
}

func strokeStyle(stroke string, widthMM float64) string {
	return "fill:none;stroke:" + stroke +
		";stroke-width:" + number(widthMM*unitsPerMM) +
		";stroke-linecap:round;stroke-linejoin:round"
}

// pathData returns move/line commands for the segments include accepts.
func pathData(tree []brownian.TreeSegment, fit transform, include func(int) bool) string {
	var b strings.Builder
	for i, s := range tree {
		if !include(i) {
			continue
		}
		p, q := fit.apply(s.Start), fit.apply(s.End)
		b.WriteByte('M')
		b.WriteString(number(p.X))
		b.WriteByte(' ')
		b.WriteString(number(p.Y))
		b.WriteByte('L')
		b.WriteString(number(q.X))
		b.WriteByte(' ')
		b.WriteString(number(q.Y))
	}
	return b.String()
}

// number formats v with at most two decimals.
func number(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

// transform maps canvas coordinates to viewBox units.
type transform struct {
	scale  float64
	offset brownian.Point
	origin brownian.Point
}

// newTransform scales bounds uniformly to the page area inside the margin
// and centres it.
func newTransform(bounds brownian.Rect, o Options) transform {
	aw := o.PageWidth - 2*o.Margin
	ah := o.PageHeight - 2*o.Margin
	scale := 1.0
	if bw, bh := bounds.Width(), bounds.Height(); bw > 0 && bh > 0 {
		scale = min(aw/bw, ah/bh)
	}
	ox := (o.PageWidth - bounds.Width()*scale) / 2
	oy := (o.PageHeight - bounds.Height()*scale) / 2
	return transform{
		scale:  scale * unitsPerMM,
		offset: brownian.Pt(ox*unitsPerMM, oy*unitsPerMM),
		origin: bounds.Min,
	}
}

func (t transform) apply(p brownian.Point) brownian.Point {
	return p.Sub(t.origin).Mul(t.scale).Add(t.offset)
}
