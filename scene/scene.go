// Package scene reads and writes YAML scene files: the canvas, the source,
// destination and exclude line sets, growth parameters, the random seed and
// export settings of one drawing.
package scene

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"

	"github.com/gogpu/brownian"
	"github.com/gogpu/brownian/svgexport"
)

// ErrInvalidScene is returned when a scene file cannot be decoded or fails
// validation.
var ErrInvalidScene = errors.New("scene: invalid scene")

// Line is a segment written as [x1, y1, x2, y2].
type Line [4]float64

// Segment converts l to a brownian.Segment.
func (l Line) Segment() brownian.Segment {
	return brownian.Seg(l[0], l[1], l[2], l[3])
}

// LineOf converts s to a Line.
func LineOf(s brownian.Segment) Line {
	return Line{s.Start.X, s.Start.Y, s.End.X, s.End.Y}
}

// Size is a width and height.
type Size struct {
	Width  float64 `yaml:"width" validate:"gt=0"`
	Height float64 `yaml:"height" validate:"gt=0"`
}

// Params mirrors brownian.Params. Zero values take the defaults, except
// Spread, where an explicit 0 walks straight.
type Params struct {
	Steering    string   `yaml:"steering,omitempty" validate:"omitempty,oneof=nearest random"`
	Target      int      `yaml:"target,omitempty" validate:"omitempty,gt=0"`
	Spread      *float64 `yaml:"spread,omitempty" validate:"omitempty,gte=0,lte=180"`
	ChildLimit  int      `yaml:"child_limit,omitempty" validate:"omitempty,gt=0"`
	RandomStart bool     `yaml:"random_start,omitempty"`
	MinLength   float64  `yaml:"min_length,omitempty" validate:"omitempty,gt=0"`
	MaxLength   float64  `yaml:"max_length,omitempty" validate:"omitempty,gt=0"`
}

// Export configures SVG export. Zero values take svgexport defaults.
type Export struct {
	Mode       string  `yaml:"mode,omitempty" validate:"omitempty,oneof=graded path"`
	Classes    int     `yaml:"classes,omitempty" validate:"omitempty,gt=0,lte=16"`
	Page       *Size   `yaml:"page,omitempty"`
	Margin     float64 `yaml:"margin,omitempty" validate:"omitempty,gte=0"`
	MinStroke  float64 `yaml:"min_stroke,omitempty" validate:"omitempty,gt=0"`
	MaxStroke  float64 `yaml:"max_stroke,omitempty" validate:"omitempty,gt=0"`
	Stroke     string  `yaml:"stroke,omitempty"`
	Background string  `yaml:"background,omitempty"`
	Title      string  `yaml:"title,omitempty"`
}

// Scene is one drawing.
type Scene struct {
	Name         string  `yaml:"name,omitempty"`
	Canvas       Size    `yaml:"canvas"`
	Seed         *uint64 `yaml:"seed,omitempty"`
	Params       Params  `yaml:"params,omitempty"`
	Sources      []Line  `yaml:"sources,flow,omitempty"`
	Destinations []Line  `yaml:"destinations,flow,omitempty"`
	Excludes     []Line  `yaml:"excludes,flow,omitempty"`
	Export       Export  `yaml:"export,omitempty"`
	Preview      *Size   `yaml:"preview,omitempty"`
}

// Default returns an A4 portrait sheet, 840x1188 canvas units, growing from
// a line near the bottom edge towards a short line near the top.
func Default() *Scene {
	return &Scene{
		Name:         "brownian",
		Canvas:       Size{Width: 840, Height: 1188},
		Sources:      []Line{{120, 1100, 720, 1100}},
		Destinations: []Line{{400, 120, 440, 120}},
	}
}

// Decode parses and validates a YAML scene.
func Decode(data []byte) (*Scene, error) {
	var s Scene
	v := validator.New()
	dec := yaml.NewDecoder(bytes.NewReader(data), yaml.Validator(v))
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScene, err)
	}
	if err := s.check(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads and decodes the scene file at path.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	brownian.Logger().Debug("scene loaded", "path", path,
		"sources", len(s.Sources), "destinations", len(s.Destinations), "excludes", len(s.Excludes))
	return s, nil
}

// Encode returns s as YAML.
func (s *Scene) Encode() ([]byte, error) {
	return yaml.Marshal(s)
}

// Save writes s to path.
func (s *Scene) Save(path string) error {
	data, err := s.Encode()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// check validates what struct tags cannot express.
func (s *Scene) check() error {
	if !s.Params.RandomStart && len(s.Sources) == 0 {
		return fmt.Errorf("%w: sources are required unless random_start is set", ErrInvalidScene)
	}
	for _, set := range [][]Line{s.Sources, s.Destinations, s.Excludes} {
		for _, l := range set {
			if !l.Segment().Start.IsFinite() || !l.Segment().End.IsFinite() {
				return fmt.Errorf("%w: line %v is not finite", ErrInvalidScene, l)
			}
		}
	}
	if _, err := s.BrownianParams(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidScene, err)
	}
	return nil
}

// BrownianParams returns the growth parameters with defaults filled in.
func (s *Scene) BrownianParams() (brownian.Params, error) {
	p := brownian.DefaultParams()
	mode, err := brownian.ParseSteeringMode(s.Params.Steering)
	if err != nil {
		return p, err
	}
	p.Steering = mode
	p.RandomStart = s.Params.RandomStart
	if s.Params.Target > 0 {
		p.TargetCount = s.Params.Target
	}
	if s.Params.Spread != nil {
		p.MaxSpreadDeg = *s.Params.Spread
	}
	if s.Params.ChildLimit > 0 {
		p.ChildLimit = s.Params.ChildLimit
	}
	if s.Params.MinLength > 0 {
		p.MinLength = s.Params.MinLength
	}
	if s.Params.MaxLength > 0 {
		p.MaxLength = s.Params.MaxLength
	}
	return p, p.Validate()
}

// ExportOptions returns the SVG export options with defaults filled in.
func (s *Scene) ExportOptions() (svgexport.Options, error) {
	o := svgexport.DefaultOptions()
	mode, err := svgexport.ParseMode(s.Export.Mode)
	if err != nil {
		return o, err
	}
	o.Mode = mode
	if s.Export.Classes > 0 {
		o.Classes = s.Export.Classes
	}
	if s.Export.Page != nil {
		o.PageWidth, o.PageHeight = s.Export.Page.Width, s.Export.Page.Height
	}
	if s.Export.Margin > 0 {
		o.Margin = s.Export.Margin
	}
	if s.Export.MinStroke > 0 {
		o.MinStroke = s.Export.MinStroke
	}
	if s.Export.MaxStroke > 0 {
		o.MaxStroke = s.Export.MaxStroke
	}
	if s.Export.Stroke != "" {
		o.Stroke = s.Export.Stroke
	}
	o.Background = s.Export.Background
	o.Title = s.Export.Title
	if o.Title == "" {
		o.Title = s.Name
	}
	return o, nil
}

// PreviewSize returns the preview image size, the canvas size by default.
func (s *Scene) PreviewSize() (int, int) {
	if s.Preview != nil {
		return int(s.Preview.Width), int(s.Preview.Height)
	}
	return int(s.Canvas.Width), int(s.Canvas.Height)
}

// NewEngine returns an engine loaded with the scene's line sets. A scene
// seed makes the run reproducible; opts are applied after it.
func (s *Scene) NewEngine(opts ...brownian.EngineOption) (*brownian.Engine, error) {
	if s.Seed != nil {
		opts = append([]brownian.EngineOption{brownian.WithSeed(*s.Seed)}, opts...)
	}
	e := brownian.NewEngine(s.Canvas.Width, s.Canvas.Height, opts...)
	if err := e.SetSources(segments(s.Sources)); err != nil {
		return nil, err
	}
	e.SetDestinations(segments(s.Destinations))
	e.SetExcludes(segments(s.Excludes))
	return e, nil
}

// FromEngine captures the canvas and line sets of e, for saving the state
// of an interactive session.
func FromEngine(e *brownian.Engine, p brownian.Params, seed *uint64) *Scene {
	b := e.Bounds()
	s := &Scene{
		Canvas: Size{Width: b.Width(), Height: b.Height()},
		Seed:   seed,
		Params: Params{
			Steering:    p.Steering.String(),
			Target:      p.TargetCount,
			Spread:      &p.MaxSpreadDeg,
			ChildLimit:  p.ChildLimit,
			RandomStart: p.RandomStart,
			MinLength:   p.MinLength,
			MaxLength:   p.MaxLength,
		},
		Sources:      lines(e.Sources()),
		Destinations: lines(e.Destinations()),
		Excludes:     lines(e.Excludes()),
	}
	return s
}

func segments(ls []Line) []brownian.Segment {
	if len(ls) == 0 {
		return nil
	}
	out := make([]brownian.Segment, len(ls))
	for i, l := range ls {
		out[i] = l.Segment()
	}
	return out
}

func lines(ss []brownian.Segment) []Line {
	if len(ss) == 0 {
		return nil
	}
	out := make([]Line, len(ss))
	for i, s := range ss {
		out[i] = LineOf(s)
	}
	return out
}
