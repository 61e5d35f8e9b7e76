// Command brownian grows a Brownian tree from a scene file and exports it
// as SVG for plotting and as a PNG preview.
//
// Usage:
//
//	brownian [flags] [scene.yaml]
//
// Without a scene a built-in A4 scene is used. Without -svg or -png the SVG
// is written to standard output. Interrupting the run exports the partial
// tree.
package main

import (
	"context"
	"os"
	"os/signal"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
