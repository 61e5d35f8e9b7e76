package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/gogpu/gg"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/gogpu/brownian"
	"github.com/gogpu/brownian/preview"
	"github.com/gogpu/brownian/scene"
	"github.com/gogpu/brownian/svgexport"
)

// Game drives one engine, a bounded number of steps per frame.
type Game struct {
	scene  *scene.Scene
	params brownian.Params
	engine *brownian.Engine
	style  preview.Style
	steps  int
	outDir string
	paused bool
	status string
}

func newGame(s *scene.Scene, steps int, outDir string) (*Game, error) {
	p, err := s.BrownianParams()
	if err != nil {
		return nil, err
	}
	g := &Game{
		scene:  s,
		params: p,
		style:  preview.DefaultStyle(),
		steps:  max(steps, 1),
		outDir: outDir,
	}
	if err := g.restart(s.Seed); err != nil {
		return nil, err
	}
	return g, nil
}

// restart starts a fresh run. A nil seed picks a new one.
func (g *Game) restart(seed *uint64) error {
	if seed == nil {
		v := rand.Uint64()
		seed = &v
	}
	g.scene.Seed = seed
	e, err := g.scene.NewEngine()
	if err != nil {
		return err
	}
	if err := e.Start(g.params); err != nil {
		return err
	}
	g.engine = e
	g.status = fmt.Sprintf("seed %d", *seed)
	return nil
}

func (g *Game) save() error {
	base := filepath.Join(g.outDir, fmt.Sprintf("%s-%d", g.scene.Name, *g.scene.Seed))
	opts, err := g.scene.ExportOptions()
	if err != nil {
		return err
	}
	f, err := os.Create(base + ".svg")
	if err != nil {
		return err
	}
	if err := svgexport.Write(f, g.engine, opts); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	saved := scene.FromEngine(g.engine, g.params, g.scene.Seed)
	saved.Name, saved.Export, saved.Preview = g.scene.Name, g.scene.Export, g.scene.Preview
	if err := saved.Save(base + ".yaml"); err != nil {
		return err
	}
	g.status = "saved " + base + ".svg"
	return nil
}

func (g *Game) Update() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.paused = !g.paused
	case inpututil.IsKeyJustPressed(ebiten.KeyH):
		g.engine.Halt()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		if err := g.restart(nil); err != nil {
			return err
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		if err := g.save(); err != nil {
			g.status = err.Error()
			brownian.Logger().Warn("save failed", "err", err)
		}
	}

	if g.paused {
		return nil
	}
	for range g.steps {
		if g.engine.Step() {
			break
		}
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.style.Background.Color())

	seeds := g.engine.Seeds()
	for i := range seeds.Len() {
		g.strokeLine(screen, seeds.At(i), g.style.SeedColor(seeds.Exhausted(i)), g.style.GuideWidth)
	}
	for _, d := range g.engine.Destinations() {
		g.strokeLine(screen, d, g.style.Destination, g.style.GuideWidth)
	}
	for _, x := range g.engine.Excludes() {
		g.strokeLine(screen, x, g.style.Exclude, g.style.GuideWidth)
	}

	c := g.engine.Classification()
	for i, t := range g.engine.Tree().All() {
		col, width := g.style.Segment(c, i)
		g.strokeLine(screen, t.Segment, col, width)
	}

	msg := preview.Caption(g.engine.Stats())
	if g.paused {
		msg += "  [paused]"
	}
	ebitenutil.DebugPrint(screen, msg+"\n"+g.status+"\nspace pause  h halt  r restart  s save")
}

func (g *Game) strokeLine(dst *ebiten.Image, s brownian.Segment, col gg.RGBA, width float64) {
	vector.StrokeLine(dst,
		float32(s.Start.X), float32(s.Start.Y), float32(s.End.X), float32(s.End.Y),
		float32(width), col.Color(), true)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	b := g.engine.Bounds()
	return int(b.Width()), int(b.Height())
}
