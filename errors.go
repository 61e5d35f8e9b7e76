package brownian

import "errors"

// Sentinel errors for the brownian package.
var (
	// ErrEmptyInput is returned when seeds are requested from an empty
	// source line set, or a seed-driven run is started without seeds.
	ErrEmptyInput = errors.New("brownian: no source segments")

	// ErrInvalidParameter is returned by Start when a growth parameter or
	// the canvas bounds cannot produce a run. No state is modified.
	ErrInvalidParameter = errors.New("brownian: invalid parameter")
)
