// Package preview rasterizes a tree, its seeds and its guide lines with gg.
//
// Trunk segments are drawn wide in the trunk color and fade towards the
// twig color with their distance from the trunk. Seeds that still grow and
// exhausted seeds get different colors.
package preview

import (
	"fmt"
	"image"
	"io"
	"math"
	"os"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/brownian"
)

// Source is what a preview draws. *brownian.Engine implements it.
type Source interface {
	Tree() *brownian.Store
	Classification() brownian.Classification
	Bounds() brownian.Rect
	Seeds() *brownian.Seeds
	Destinations() []brownian.Segment
	Excludes() []brownian.Segment
	Stats() brownian.Stats
}

// Style holds the colors and widths of a preview.
type Style struct {
	Background    gg.RGBA
	Trunk         gg.RGBA
	Twig          gg.RGBA
	Seed          gg.RGBA
	ExhaustedSeed gg.RGBA
	Destination   gg.RGBA
	Exclude       gg.RGBA
	Caption       gg.RGBA

	// MinWidth and MaxWidth are the twig and trunk widths in canvas units.
	MinWidth, MaxWidth float64

	// GuideWidth is the width of seed, destination and exclude lines.
	GuideWidth float64

	// FontSize is the caption size in pixels. Zero hides the caption.
	FontSize float64
}

// DefaultStyle returns dark ink on paper with cyan seeds.
func DefaultStyle() Style {
	return Style{
		Background:    gg.Hex("#f7f4ec"),
		Trunk:         gg.Hex("#1b1b1b"),
		Twig:          gg.Hex("#8c8c8c"),
		Seed:          gg.Hex("#00b7c7"),
		ExhaustedSeed: gg.Hex("#2747a8"),
		Destination:   gg.Hex("#2e9e44"),
		Exclude:       gg.Hex("#d23c3c"),
		Caption:       gg.Hex("#444444"),
		MinWidth:      1,
		MaxWidth:      4,
		GuideWidth:    2,
		FontSize:      14,
	}
}

// Segment returns the color and width of tree segment i under c.
func (s Style) Segment(c brownian.Classification, i int) (gg.RGBA, float64) {
	w := c.Weight(i)
	return s.Twig.Lerp(s.Trunk, w), s.MinWidth + (s.MaxWidth-s.MinWidth)*w
}

// SeedColor returns the color of a seed segment.
func (s Style) SeedColor(exhausted bool) gg.RGBA {
	if exhausted {
		return s.ExhaustedSeed
	}
	return s.Seed
}

var captionFont = sync.OnceValues(func() (*text.FontSource, error) {
	return text.NewFontSource(goregular.TTF)
})

// Render draws src into a new width x height context. The canvas is scaled
// uniformly to fit and centred. The caller must Close the context.
func Render(src Source, width, height int, style Style) (*gg.Context, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: image size %dx%d", brownian.ErrInvalidParameter, width, height)
	}

	dc := gg.NewContext(width, height)
	dc.ClearWithColor(style.Background)
	dc.SetLineCap(gg.LineCapRound)

	fit := newViewport(src.Bounds(), width, height)

	seeds := src.Seeds()
	for i := range seeds.Len() {
		if err := strokeSegment(dc, fit, seeds.At(i), style.SeedColor(seeds.Exhausted(i)), style.GuideWidth); err != nil {
			return dc, err
		}
	}
	for _, d := range src.Destinations() {
		if err := strokeSegment(dc, fit, d, style.Destination, style.GuideWidth); err != nil {
			return dc, err
		}
	}
	for _, x := range src.Excludes() {
		if err := strokeSegment(dc, fit, x, style.Exclude, style.GuideWidth); err != nil {
			return dc, err
		}
	}

	c := src.Classification()
	for i, t := range src.Tree().All() {
		col, w := style.Segment(c, i)
		if err := strokeSegment(dc, fit, t.Segment, col, w); err != nil {
			return dc, err
		}
	}

	if style.FontSize > 0 {
		if err := drawCaption(dc, Caption(src.Stats()), style); err != nil {
			brownian.Logger().Warn("preview caption skipped", "err", err)
		}
	}

	brownian.Logger().Debug("preview rendered", "size", fmt.Sprintf("%dx%d", width, height),
		"segments", src.Tree().Len(), "backend", Backend())
	return dc, nil
}

// WritePNG renders src and encodes it as PNG to w.
func WritePNG(w io.Writer, src Source, width, height int, style Style) error {
	dc, err := Render(src, width, height, style)
	if dc != nil {
		defer dc.Close()
	}
	if err != nil {
		return err
	}
	return dc.EncodePNG(w)
}

// SavePNG renders src to a PNG file at path.
func SavePNG(path string, src Source, width, height int, style Style) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WritePNG(f, src, width, height, style); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Image renders src and returns the pixels.
func Image(src Source, width, height int, style Style) (image.Image, error) {
	dc, err := Render(src, width, height, style)
	if err != nil {
		if dc != nil {
			dc.Close()
		}
		return nil, err
	}
	// Close flushes queued accelerator work into the pixmap.
	if err := dc.Close(); err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// Caption summarizes a run in one line.
func Caption(st brownian.Stats) string {
	s := fmt.Sprintf("%s  %d/%d segments  %d attempts", st.State, st.Committed, st.Target, st.Attempts)
	if st.Seeds > 0 {
		s += fmt.Sprintf("  %d/%d seeds exhausted", st.ExhaustedSeeds, st.Seeds)
	}
	if st.Reason != brownian.NotHalted {
		s += "  (" + st.Reason.String() + ")"
	}
	return s
}

// Backend names the rasterizer gg uses.
func Backend() string {
	if a := gg.Accelerator(); a != nil {
		return a.Name()
	}
	return "cpu"
}

func strokeSegment(dc *gg.Context, fit viewport, s brownian.Segment, col gg.RGBA, width float64) error {
	p, q := fit.apply(s.Start), fit.apply(s.End)
	dc.SetColor(col.Color())
	dc.SetLineWidth(max(width*fit.scale, 0.5))
	dc.DrawLine(p.X, p.Y, q.X, q.Y)
	return dc.Stroke()
}

func drawCaption(dc *gg.Context, caption string, style Style) error {
	src, err := captionFont()
	if err != nil {
		return err
	}
	dc.SetFont(src.Face(style.FontSize))
	dc.SetColor(style.Caption.Color())
	dc.DrawString(caption, 8, float64(dc.Height())-8)
	return nil
}

// viewport maps canvas coordinates to pixels.
type viewport struct {
	scale  float64
	offset brownian.Point
	origin brownian.Point
}

func newViewport(bounds brownian.Rect, width, height int) viewport {
	scale := 1.0
	if bw, bh := bounds.Width(), bounds.Height(); bw > 0 && bh > 0 {
		scale = math.Min(float64(width)/bw, float64(height)/bh)
	}
	return viewport{
		scale: scale,
		offset: brownian.Pt(
			(float64(width)-bounds.Width()*scale)/2,
			(float64(height)-bounds.Height()*scale)/2,
		),
		origin: bounds.Min,
	}
}

func (v viewport) apply(p brownian.Point) brownian.Point {
	return p.Sub(v.origin).Mul(v.scale).Add(v.offset)
}
