// Package brownian grows branching line structures ("Brownian trees") for
// plotting and vector export.
//
// # Overview
//
// A tree grows from seed regions. Every outer attempt starts a walker on a
// seed segment (or anywhere on the canvas) and moves it in short steps,
// steered towards the nearest existing geometry, until the step crosses a
// committed tree segment or a destination segment. The last step is then
// committed as a new tree segment. Crossing an exclude segment abandons the
// attempt.
//
// # Quick Start
//
//	e := brownian.NewEngine(900, 900, brownian.WithSeed(42))
//	_ = e.SetSources([]brownian.Segment{brownian.Seg(100, 800, 800, 800)})
//	e.SetDestinations([]brownian.Segment{brownian.Seg(450, 50, 460, 50)})
//
//	if err := e.Start(brownian.DefaultParams()); err != nil {
//	    return err
//	}
//	for !e.Step() {
//	}
//	pairs := e.ExportPairs()
//
// # Architecture
//
// The library is organized into:
//   - Geometry: Point, Segment (intersection, nearest point, distance)
//   - Seeds: AdjustSeeds cuts source lines into short growth origins
//   - Store: the arena of TreeSegment records linked by SegmentID
//   - Engine: the cooperative Idle -> Growing -> Halted state machine
//   - Classify: trunk distances used for stroke widths and colors
//   - Sub-packages: svgexport (SVG), preview (PNG), scene (YAML scenes)
//
// # Coordinate System
//
// Growth happens inside [0,width] x [0,height]. Angles are in radians
// except Params.MaxSpreadDeg.
//
// # Concurrency
//
// An Engine belongs to one goroutine. Hosts call Step a bounded number of
// times per frame or use Run with a context.
package brownian

// Version information
const (
	// Version is the current version of the library
	Version = "0.3.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 3

	// VersionPatch is the patch version
	VersionPatch = 0
)
