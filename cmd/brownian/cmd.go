package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"strconv"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/gogpu/gg"
	"github.com/mattn/go-isatty"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/brownian"
	"github.com/gogpu/brownian/preview"
	"github.com/gogpu/brownian/scene"
	"github.com/gogpu/brownian/svgexport"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// config holds the parsed command line.
type config struct {
	scenePath string
	svgPath   string
	pngPath   string
	savePath  string
	seed      *uint64
	target    int
	steering  string
	mode      string
	random    bool
	batch     int
	verbose   bool
	quiet     bool
	version   bool
}

func parseFlags(args []string, stderr io.Writer) (*config, error) {
	c := &config{}
	fs := flag.NewFlagSet("brownian", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&c.scenePath, "scene", "", "scene file (YAML)")
	fs.StringVar(&c.svgPath, "svg", "", "write the tree as SVG to this file")
	fs.StringVar(&c.pngPath, "png", "", "write a PNG preview to this file")
	fs.StringVar(&c.savePath, "save-scene", "", "write the effective scene, including the seed, to this file")
	fs.Func("seed", "random seed (overrides the scene)", func(s string) error {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return err
		}
		c.seed = &v
		return nil
	})
	fs.IntVar(&c.target, "target", 0, "number of segments to grow (overrides the scene)")
	fs.StringVar(&c.steering, "steering", "", "nearest or random (overrides the scene)")
	fs.StringVar(&c.mode, "mode", "", "SVG export mode: graded or path (overrides the scene)")
	fs.BoolVar(&c.random, "random-start", false, "start walkers anywhere on the canvas")
	fs.IntVar(&c.batch, "batch", 64, "attempts between progress updates")
	fs.BoolVar(&c.verbose, "v", false, "log growth diagnostics")
	fs.BoolVar(&c.quiet, "q", false, "print nothing but errors")
	fs.BoolVar(&c.version, "version", false, "print the version")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	switch fs.NArg() {
	case 0:
	case 1:
		if c.scenePath != "" {
			return nil, errors.New("scene given twice")
		}
		c.scenePath = fs.Arg(0)
	default:
		return nil, fmt.Errorf("unexpected arguments %v", fs.Args()[1:])
	}
	return c, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	c, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "brownian: %v\n", err)
		return exitUsage
	}
	if c.version {
		fmt.Fprintf(stdout, "brownian %s (library %s)\n", version, brownian.Version)
		return exitOK
	}

	level := slog.LevelWarn
	if c.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	brownian.SetLogger(logger)
	gg.SetLogger(logger)
	defer brownian.SetLogger(nil)
	defer gg.SetLogger(nil)

	if err := grow(ctx, c, stdout, stderr); err != nil {
		color.New(color.FgRed).Fprintf(stderr, "brownian: %v\n", err)
		return exitError
	}
	return exitOK
}

func grow(ctx context.Context, c *config, stdout, stderr io.Writer) error {
	s, err := loadScene(c)
	if err != nil {
		return err
	}
	params, err := s.BrownianParams()
	if err != nil {
		return err
	}
	exportOpts, err := s.ExportOptions()
	if err != nil {
		return err
	}

	e, err := s.NewEngine()
	if err != nil {
		return err
	}
	if err := e.Start(params); err != nil {
		return err
	}

	interactive := !c.quiet && isTerminal(stderr)
	var sp *spinner.Spinner
	if interactive {
		sp = spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(stderr))
		sp.Suffix = " growing..."
		sp.Start()
	}
	numbers := message.NewPrinter(language.English)
	runErr := e.Run(ctx, c.batch, func(st brownian.Stats) {
		if sp == nil {
			return
		}
		sp.Lock()
		sp.Suffix = numbers.Sprintf(" growing %d/%d segments, %d attempts", st.Committed, st.Target, st.Attempts)
		sp.Unlock()
	})
	if sp != nil {
		sp.Stop()
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}

	summary := stdout
	if c.svgPath == "" && c.pngPath == "" {
		if err := svgexport.Write(stdout, e, exportOpts); err != nil {
			return err
		}
		summary = stderr
	}
	var written []string
	if c.svgPath != "" {
		if err := writeSVG(c.svgPath, e, exportOpts); err != nil {
			return err
		}
		written = append(written, c.svgPath)
	}
	if c.pngPath != "" {
		w, h := s.PreviewSize()
		if err := preview.SavePNG(c.pngPath, e, w, h, preview.DefaultStyle()); err != nil {
			return err
		}
		written = append(written, c.pngPath)
	}
	if c.savePath != "" {
		if err := s.Save(c.savePath); err != nil {
			return err
		}
		written = append(written, c.savePath)
	}

	if !c.quiet {
		printSummary(summary, e.Stats(), *s.Seed, written, !isTerminal(summary))
	}
	return nil
}

// loadScene reads the scene file, or the default scene, and applies the
// flag overrides. The returned scene always carries a seed.
func loadScene(c *config) (*scene.Scene, error) {
	s := scene.Default()
	if c.scenePath != "" {
		var err error
		if s, err = scene.Load(c.scenePath); err != nil {
			return nil, err
		}
	}
	if c.target > 0 {
		s.Params.Target = c.target
	}
	if c.steering != "" {
		s.Params.Steering = c.steering
	}
	if c.random {
		s.Params.RandomStart = true
	}
	if c.mode != "" {
		s.Export.Mode = c.mode
	}
	if c.seed != nil {
		s.Seed = c.seed
	}
	if s.Seed == nil {
		seed := rand.Uint64()
		s.Seed = &seed
	}
	return s, nil
}

func writeSVG(path string, src svgexport.Source, opts svgexport.Options) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := svgexport.Write(f, src, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printSummary(w io.Writer, st brownian.Stats, seed uint64, written []string, plain bool) {
	p := message.NewPrinter(language.English)
	label := color.New(color.FgHiBlack)
	status := color.New(color.FgGreen, color.Bold)
	if st.Reason == brownian.Stopped || st.Reason == brownian.BudgetSpent {
		status = color.New(color.FgYellow, color.Bold)
	}
	if plain {
		label.DisableColor()
		status.DisableColor()
	}

	status.Fprintf(w, "%s\n", st.Reason)
	fmt.Fprintf(w, "%s %s\n", label.Sprint("segments "), p.Sprintf("%d committed of %d (%d stored)", st.Committed, st.Target, st.Segments))
	fmt.Fprintf(w, "%s %s\n", label.Sprint("attempts "), p.Sprintf("%d of %d", st.Attempts, st.Budget))
	if st.Seeds > 0 {
		fmt.Fprintf(w, "%s %s\n", label.Sprint("seeds    "), p.Sprintf("%d of %d exhausted", st.ExhaustedSeeds, st.Seeds))
	}
	if st.Rejected > 0 {
		fmt.Fprintf(w, "%s %s\n", label.Sprint("rejected "), p.Sprintf("%d", st.Rejected))
	}
	fmt.Fprintf(w, "%s %d\n", label.Sprint("seed     "), seed)
	for _, path := range written {
		fmt.Fprintf(w, "%s %s\n", label.Sprint("wrote    "), path)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
