// Command brownianview grows a Brownian tree in a window, a few attempts per
// frame, so the growth can be watched.
//
// Keys:
//
//	Space  pause or resume
//	H      halt and classify the partial tree
//	R      restart with a new seed
//	S      save the tree as SVG and the scene as YAML
//
// Usage:
//
//	brownianview [flags] [scene.yaml]
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gogpu/brownian"
	"github.com/gogpu/brownian/scene"
)

func main() {
	scenePath := flag.String("scene", "", "scene file (YAML)")
	steps := flag.Int("steps", 8, "growth attempts per frame")
	maxWindow := flag.Int("window", 900, "longest window side in pixels")
	outDir := flag.String("out", ".", "directory for saved SVG and scene files")
	verbose := flag.Bool("v", false, "log growth diagnostics")
	var seed *uint64
	flag.Func("seed", "random seed (overrides the scene)", func(s string) error {
		var v uint64
		if _, err := fmt.Sscan(s, &v); err != nil {
			return err
		}
		seed = &v
		return nil
	})
	flag.Parse()
	if *scenePath == "" && flag.NArg() > 0 {
		*scenePath = flag.Arg(0)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	brownian.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	s := scene.Default()
	if *scenePath != "" {
		var err error
		if s, err = scene.Load(*scenePath); err != nil {
			log.Fatal(err)
		}
	}
	if seed != nil {
		s.Seed = seed
	}

	g, err := newGame(s, *steps, *outDir)
	if err != nil {
		log.Fatal(err)
	}

	w, h := windowSize(s.Canvas, *maxWindow)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle(fmt.Sprintf("brownian - %s", s.Name))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}

// windowSize scales the canvas so its longest side is longest pixels.
func windowSize(canvas scene.Size, longest int) (int, int) {
	scale := float64(longest) / max(canvas.Width, canvas.Height)
	return max(int(canvas.Width*scale), 1), max(int(canvas.Height*scale), 1)
}
