package brownian

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
)

const (
	// budgetFactor bounds a run to budgetFactor*TargetCount outer attempts.
	budgetFactor = 10

	// snapDistanceSquared is how close, squared, a collision must be to an
	// endpoint of the segment it hit to be merged into that endpoint
	// instead of splitting the segment.
	snapDistanceSquared = 0.1
)

// State is the lifecycle state of an Engine.
type State int

const (
	// Idle means no run has been started.
	Idle State = iota
	// Growing means Step commits segments.
	Growing
	// Halted means the last run ended; its tree is classified.
	Halted
)

// String returns the name of the state.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Growing:
		return "growing"
	case Halted:
		return "halted"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// HaltReason tells why a run stopped.
type HaltReason int

const (
	// NotHalted is reported while idle or growing.
	NotHalted HaltReason = iota
	// TargetReached means TargetCount segments were committed.
	TargetReached
	// BudgetSpent means every allowed outer attempt was made.
	BudgetSpent
	// SeedsExhausted means every seed segment stopped growing.
	SeedsExhausted
	// Stopped means Halt was called.
	Stopped
)

// String returns a short description of the reason.
func (r HaltReason) String() string {
	switch r {
	case NotHalted:
		return "not halted"
	case TargetReached:
		return "target reached"
	case BudgetSpent:
		return "attempt budget spent"
	case SeedsExhausted:
		return "seeds exhausted"
	case Stopped:
		return "stopped"
	}
	return fmt.Sprintf("HaltReason(%d)", int(r))
}

// Stats is a snapshot of run counters for progress displays.
type Stats struct {
	State          State
	Reason         HaltReason
	Attempts       int
	Budget         int
	Committed      int
	Target         int
	Rejected       int
	Seeds          int
	ExhaustedSeeds int
	Segments       int
}

// Engine grows a Brownian tree one outer attempt per Step.
//
// An Engine is not safe for concurrent use. A host drives it by calling
// Step a bounded number of times per scheduling turn; ceasing to call Step,
// or calling Halt, leaves a valid partial tree.
type Engine struct {
	bounds   Rect
	sources  []Segment
	field    field
	tree     *Store
	seeds    *Seeds
	rng      *rand.Rand
	maxMoves int

	params    Params
	state     State
	reason    HaltReason
	attempts  int
	budget    int
	committed int
	rejected  int

	classification Classification
}

// NewEngine creates an idle engine growing inside [0,width] x [0,height].
// The bounds are checked when a run starts.
func NewEngine(width, height float64, opts ...EngineOption) *Engine {
	o := defaultEngineOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	tree := NewStore()
	return &Engine{
		bounds:   Canvas(width, height),
		field:    field{tree: tree},
		tree:     tree,
		rng:      o.rng,
		maxMoves: o.maxMoves,
	}
}

// SetSources rebuilds the seed segments from the source line set.
// An empty set clears the seeds; only random-start runs can then start.
func (e *Engine) SetSources(source []Segment) error {
	if len(source) == 0 {
		e.sources, e.seeds = nil, nil
		return nil
	}
	seeds, err := AdjustSeeds(source)
	if err != nil {
		return err
	}
	e.sources = slices.Clone(source)
	e.seeds = seeds
	return nil
}

// SetDestinations replaces the destination line set.
func (e *Engine) SetDestinations(destinations []Segment) {
	e.field.destinations = slices.Clone(destinations)
}

// SetExcludes replaces the exclude line set.
func (e *Engine) SetExcludes(excludes []Segment) {
	e.field.excludes = slices.Clone(excludes)
}

// Start resets the tree and begins a run with p.
//
// It returns an error wrapping ErrInvalidParameter for bad parameters,
// canvas bounds or source segments outside the canvas, and ErrEmptyInput for a seed-driven run without seeds.
// On error the engine is left untouched.
func (e *Engine) Start(p Params) error {
	if e.bounds.Empty() || !e.bounds.Max.IsFinite() {
		return fmt.Errorf("%w: canvas %vx%v must be positive",
			ErrInvalidParameter, e.bounds.Width(), e.bounds.Height())
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if !p.RandomStart && e.seeds.Len() == 0 {
		return fmt.Errorf("%w: seed-driven run needs source segments", ErrEmptyInput)
	}
	if !p.RandomStart {
		for _, src := range e.sources {
			if !e.bounds.Contains(src.Start) || !e.bounds.Contains(src.End) {
				return fmt.Errorf("%w: source segment %v-%v leaves the canvas",
					ErrInvalidParameter, src.Start, src.End)
			}
		}
	}

	e.params = p.normalized()
	e.tree.Reset()
	e.seeds.Reset()
	e.attempts = 0
	e.committed = 0
	e.rejected = 0
	e.budget = p.TargetCount * budgetFactor
	e.classification = Classification{}
	e.state = Growing
	e.reason = NotHalted

	Logger().Info("growth started",
		"target", p.TargetCount,
		"steering", e.params.Steering,
		"randomStart", e.params.RandomStart,
		"seeds", e.seeds.Len(),
		"destinations", len(e.field.destinations),
		"excludes", len(e.field.excludes))
	return nil
}

// Step makes one outer attempt and reports whether the run has halted.
// It returns true immediately when no run is growing.
func (e *Engine) Step() bool {
	if e.state != Growing {
		return true
	}
	if e.haltIfDone() {
		return true
	}
	e.attempts++
	e.attempt()
	return e.haltIfDone()
}

// Run calls Step in batches of batch until the run halts or ctx is done.
// progress, if not nil, is called after every batch and once at the end.
// On cancellation the run is halted and ctx.Err() is returned.
func (e *Engine) Run(ctx context.Context, batch int, progress func(Stats)) error {
	batch = max(batch, 1)
	for {
		if err := ctx.Err(); err != nil {
			e.Halt()
			return err
		}
		for range batch {
			if e.Step() {
				if progress != nil {
					progress(e.Stats())
				}
				return nil
			}
		}
		if progress != nil {
			progress(e.Stats())
		}
	}
}

// Halt stops a growing run and classifies the partial tree.
func (e *Engine) Halt() {
	if e.state == Growing {
		e.halt(Stopped)
	}
}

// State returns the lifecycle state.
func (e *Engine) State() State {
	return e.state
}

// Params returns the parameters of the current or last run, with the
// segment lengths in order.
func (e *Engine) Params() Params {
	return e.params
}

// Bounds returns the growth bounds.
func (e *Engine) Bounds() Rect {
	return e.bounds
}

// Tree returns the segment store. It is rebuilt by every Start.
func (e *Engine) Tree() *Store {
	return e.tree
}

// Sources returns the source line set as given to SetSources.
func (e *Engine) Sources() []Segment {
	return e.sources
}

// Seeds returns the adjusted source segments, or nil.
func (e *Engine) Seeds() *Seeds {
	return e.seeds
}

// Destinations returns the destination line set.
func (e *Engine) Destinations() []Segment {
	return e.field.destinations
}

// Excludes returns the exclude line set.
func (e *Engine) Excludes() []Segment {
	return e.field.excludes
}

// Classification returns the distances computed when the run halted.
// It is empty until then.
func (e *Engine) Classification() Classification {
	return e.classification
}

// Progress returns committed/target of the current or last run.
func (e *Engine) Progress() float64 {
	if e.params.TargetCount == 0 {
		return 0
	}
	return float64(e.committed) / float64(e.params.TargetCount)
}

// Stats returns the run counters.
func (e *Engine) Stats() Stats {
	return Stats{
		State:          e.state,
		Reason:         e.reason,
		Attempts:       e.attempts,
		Budget:         e.budget,
		Committed:      e.committed,
		Target:         e.params.TargetCount,
		Rejected:       e.rejected,
		Seeds:          e.seeds.Len(),
		ExhaustedSeeds: e.seeds.ExhaustedCount(),
		Segments:       e.tree.Len(),
	}
}

// ExportPairs returns the tree as start/end pairs for file export.
func (e *Engine) ExportPairs() []Pair {
	return e.tree.Pairs()
}

func (e *Engine) haltIfDone() bool {
	switch {
	case e.committed >= e.params.TargetCount:
		e.halt(TargetReached)
	case e.attempts >= e.budget:
		e.halt(BudgetSpent)
	case !e.params.RandomStart && e.seeds.AllExhausted():
		e.halt(SeedsExhausted)
	default:
		return false
	}
	return true
}

func (e *Engine) halt(reason HaltReason) {
	e.state = Halted
	e.reason = reason
	e.classification = Classify(e.tree.All(), e.field.destinations)
	for i, d := range e.classification.Distances {
		e.tree.setDistance(SegmentID(i), d)
	}

	Logger().Info("growth halted",
		"reason", reason,
		"committed", e.committed,
		"attempts", e.attempts,
		"segments", e.tree.Len(),
		"maxDistance", e.classification.Max)
}

// attempt picks a start point and walks it until it collides, leaves the
// canvas, hits an exclude segment or runs out of moves. It commits at most
// one segment.
func (e *Engine) attempt() {
	start, seed := e.startPoint()
	length := e.moveLength()
	spread := e.params.MaxSpreadDeg * math.Pi / 180

	a := start
	for move := 1; move <= e.maxMoves; move++ {
		angle := e.baseAngle(a) + (2*e.rng.Float64()-1)*spread
		b := a.Add(Pt(length, 0).Rotate(angle))
		if !e.bounds.Contains(b) {
			return
		}

		hit := e.field.collide(a, b)
		switch hit.Kind {
		case NoHit:
			a = b
			continue
		case HitExclude:
			Logger().Debug("walk hit exclude", "exclude", hit.Index, "move", move)
			return
		}

		if move == 1 && seed >= 0 && e.seeds.Exhaust(seed) {
			Logger().Debug("seed exhausted", "seed", seed, "hit", hit.Kind,
				"exhausted", e.seeds.ExhaustedCount(), "seeds", e.seeds.Len())
		}
		e.commit(Segment{Start: a, End: hit.Point}, hit, start, seed)
		return
	}
}

// startPoint returns the start of an outer attempt and the seed it lies on,
// or -1 in random-start mode. At least one seed must not be exhausted.
func (e *Engine) startPoint() (Point, int) {
	if e.params.RandomStart {
		return Pt(
			e.bounds.Min.X+e.rng.Float64()*e.bounds.Width(),
			e.bounds.Min.Y+e.rng.Float64()*e.bounds.Height(),
		), -1
	}
	for {
		i := e.rng.IntN(e.seeds.Len())
		if e.seeds.Exhausted(i) {
			continue
		}
		return e.seeds.At(i).At(e.rng.Float64()), i
	}
}

// moveLength shrinks linearly from MaxLength to MinLength over the run.
func (e *Engine) moveLength() float64 {
	t := float64(e.committed) / float64(e.params.TargetCount)
	return e.params.MaxLength + (e.params.MinLength-e.params.MaxLength)*t
}

// baseAngle returns the direction of the next move before deviation.
func (e *Engine) baseAngle(a Point) float64 {
	if e.params.Steering == Nearest {
		if target, ok := e.field.nearest(a); ok {
			return target.Sub(a).Angle()
		}
	}
	return e.rng.Float64() * 2 * math.Pi
}

// commit appends s, which ends where the walk hit, and repairs the tree at
// the collision point: it snaps to an endpoint of the hit segment when the
// hit is that close, and splits the hit segment otherwise.
func (e *Engine) commit(s Segment, hit Hit, origin Point, seed int) {
	t := TreeSegment{
		Segment:  s,
		Parent:   NoParent,
		Distance: Unreached,
		Origin:   origin,
		Seed:     seed,
	}
	split := NoParent

	switch hit.Kind {
	case HitDestination:
		t.OnDestination = true
	case HitTree:
		k := SegmentID(hit.Index)
		ks := e.tree.At(k)
		switch {
		case hit.Point.DistanceSquared(ks.Start) < snapDistanceSquared:
			t.End = ks.Start
			t.Parent = k
		case hit.Point.DistanceSquared(ks.End) < snapDistanceSquared:
			if ks.Parent != NoParent {
				t.Parent = ks.Parent
				t.End = e.tree.At(ks.Parent).Start
			} else {
				t.End = ks.End
				t.OnDestination = ks.OnDestination
			}
		default:
			split = k
		}
	}

	depth := 0
	switch {
	case t.Parent != NoParent:
		depth = e.tree.Depth(t.Parent) + 1
	case split != NoParent:
		depth = e.tree.Depth(split) + 1
	}
	if depth > e.params.ChildLimit {
		e.rejected++
		Logger().Debug("commit rejected by child limit", "depth", depth, "limit", e.params.ChildLimit)
		return
	}

	if split != NoParent {
		t.Parent = e.tree.Subdivide(split, hit.Point)
		Logger().Debug("segment subdivided", "segment", split, "trailing", t.Parent)
	}
	e.tree.Append(t)
	e.committed++
}
