package brownian

import "math/rand/v2"

// DefaultMaxMoves is the number of inner moves one outer attempt may make
// before it gives up without committing.
const DefaultMaxMoves = 1000

// EngineOption configures an Engine during creation.
// Use functional options to customize Engine behavior.
//
// Example:
//
//	// Time-seeded randomness
//	e := brownian.NewEngine(900, 900)
//
//	// Reproducible run
//	e := brownian.NewEngine(900, 900, brownian.WithSeed(42))
type EngineOption func(*engineOptions)

// engineOptions holds optional configuration for Engine creation.
type engineOptions struct {
	rng      *rand.Rand
	maxMoves int
}

// defaultEngineOptions returns the default engine options.
func defaultEngineOptions() engineOptions {
	return engineOptions{
		rng:      nil, // Will be seeded from the runtime source if nil
		maxMoves: DefaultMaxMoves,
	}
}

// WithRand sets the random source used for start points and directions.
// The engine is the only user of r while a run is in progress.
func WithRand(r *rand.Rand) EngineOption {
	return func(o *engineOptions) {
		o.rng = r
	}
}

// WithSeed makes the engine draw from a PCG source seeded with seed, so the
// same inputs and seed grow the same tree.
func WithSeed(seed uint64) EngineOption {
	return func(o *engineOptions) {
		o.rng = NewRand(seed)
	}
}

// WithMaxMoves sets the number of inner moves per outer attempt.
// Values below 1 keep the default.
func WithMaxMoves(n int) EngineOption {
	return func(o *engineOptions) {
		if n > 0 {
			o.maxMoves = n
		}
	}
}

// NewRand returns the PCG-backed generator WithSeed uses.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
