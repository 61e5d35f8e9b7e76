package brownian

import (
	"fmt"
	"math"
)

// SteeringMode selects the base direction of every inner move.
type SteeringMode int

const (
	// Nearest steers towards the closest point on the tree or on a
	// destination segment.
	Nearest SteeringMode = iota
	// RandomDirection picks a uniformly random direction.
	RandomDirection
)

// String returns the name used in scene files and flags.
func (m SteeringMode) String() string {
	switch m {
	case Nearest:
		return "nearest"
	case RandomDirection:
		return "random"
	}
	return fmt.Sprintf("SteeringMode(%d)", int(m))
}

// ParseSteeringMode parses the names returned by SteeringMode.String.
func ParseSteeringMode(s string) (SteeringMode, error) {
	switch s {
	case "nearest", "":
		return Nearest, nil
	case "random":
		return RandomDirection, nil
	}
	return 0, fmt.Errorf("%w: unknown steering mode %q", ErrInvalidParameter, s)
}

// Params configures one growth run.
type Params struct {
	// Steering selects how each inner move picks its base direction.
	Steering SteeringMode

	// TargetCount is the number of segments the run tries to commit.
	// The run makes at most ten times as many outer attempts.
	TargetCount int

	// MaxSpreadDeg is the half-angle, in degrees, of the uniform random
	// deviation added to the base direction.
	MaxSpreadDeg float64

	// ChildLimit caps the depth of a branch: a commit whose new segment
	// would sit more than ChildLimit hops from its root is rejected.
	ChildLimit int

	// RandomStart starts every outer attempt at a uniform random point of
	// the canvas instead of on a seed segment.
	RandomStart bool

	// MinLength and MaxLength bound the length of one inner move. The
	// length shrinks linearly from MaxLength to MinLength as the run
	// approaches TargetCount. They are swapped if given in reverse.
	MinLength, MaxLength float64
}

// DefaultParams returns the parameters of a fresh settings panel.
func DefaultParams() Params {
	return Params{
		Steering:     Nearest,
		TargetCount:  1000,
		MaxSpreadDeg: 45,
		ChildLimit:   1000,
		MinLength:    15,
		MaxLength:    30,
	}
}

// Validate reports the first parameter that cannot produce a run.
func (p Params) Validate() error {
	switch {
	case p.Steering != Nearest && p.Steering != RandomDirection:
		return fmt.Errorf("%w: unknown steering mode %d", ErrInvalidParameter, p.Steering)
	case p.TargetCount <= 0:
		return fmt.Errorf("%w: target count %d must be positive", ErrInvalidParameter, p.TargetCount)
	case p.ChildLimit <= 0:
		return fmt.Errorf("%w: child limit %d must be positive", ErrInvalidParameter, p.ChildLimit)
	case !finite(p.MaxSpreadDeg) || p.MaxSpreadDeg < 0:
		return fmt.Errorf("%w: spread angle %v must be finite and non-negative", ErrInvalidParameter, p.MaxSpreadDeg)
	case !finite(p.MinLength) || !finite(p.MaxLength) || p.MinLength <= 0 || p.MaxLength <= 0:
		return fmt.Errorf("%w: segment lengths %v..%v must be finite and positive",
			ErrInvalidParameter, p.MinLength, p.MaxLength)
	}
	return nil
}

// normalized returns p with MinLength <= MaxLength.
func (p Params) normalized() Params {
	if p.MinLength > p.MaxLength {
		p.MinLength, p.MaxLength = p.MaxLength, p.MinLength
	}
	return p
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
