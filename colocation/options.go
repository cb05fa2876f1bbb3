package colocation

import (
	"log/slog"
	"math"
	"runtime"

	"github.com/katalvlaran/colomine/spatial"
)

// Options configures Mine.
//
// MaxK     : largest itemset size to search (K); levels 1..K are produced at most.
// Theta    : minimum prevalence (participation index) for an itemset to be kept.
// Alpha    : a rule is emitted only when its conditional probability exceeds Alpha.
// Relation : spatial relation between two instances.
// Threshold: relation threshold (native units for Unit, meters for Meter).
// Workers  : upper bound on concurrent shards inside one level.
// Logger   : receives one Debug record per finalized level.
// OnLevel  : called once per finalized level, in order; a non-nil error aborts mining.
type Options struct {
	MaxK      int
	Theta     float64
	Alpha     float64
	Relation  spatial.Relation
	Threshold float64
	Workers   int
	Logger    *slog.Logger
	OnLevel   func(Level) error
}

// Option represents a functional option for configuring Mine.
type Option func(*Options)

// WithMaxK sets the largest itemset size to search.
func WithMaxK(k int) Option {
	return func(o *Options) {
		o.MaxK = k
	}
}

// WithTheta sets the minimum prevalence.
func WithTheta(theta float64) Option {
	return func(o *Options) {
		o.Theta = theta
	}
}

// WithAlpha sets the conditional-probability threshold for rules.
func WithAlpha(alpha float64) Option {
	return func(o *Options) {
		o.Alpha = alpha
	}
}

// WithRelation sets the spatial relation.
func WithRelation(r spatial.Relation) Option {
	return func(o *Options) {
		o.Relation = r
	}
}

// WithThreshold sets the relation threshold.
func WithThreshold(t float64) Option {
	return func(o *Options) {
		o.Threshold = t
	}
}

// WithWorkers bounds the number of concurrent shards per level.
func WithWorkers(n int) Option {
	return func(o *Options) {
		o.Workers = n
	}
}

// WithLogger routes per-level statistics to l.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithLevelHook registers fn to receive every finalized level, e.g. to spill
// its table instance to disk before the next level starts.
func WithLevelHook(fn func(Level) error) Option {
	return func(o *Options) {
		o.OnLevel = fn
	}
}

// DefaultOptions returns the classic settings:
//
//   - MaxK:      3
//   - Theta:     0.6
//   - Alpha:     0.5
//   - Relation:  Meter
//   - Threshold: 100 (meters)
//   - Workers:   GOMAXPROCS
//   - Logger:    discards everything
func DefaultOptions() Options {
	return Options{
		MaxK:      3,
		Theta:     0.6,
		Alpha:     0.5,
		Relation:  spatial.Meter(),
		Threshold: 100,
		Workers:   runtime.GOMAXPROCS(0),
		Logger:    slog.New(slog.DiscardHandler),
	}
}

// validate checks o in a fixed order and returns the first sentinel that applies.
func (o *Options) validate() error {
	switch {
	case o.MaxK < 1:
		return ErrInvalidK
	case math.IsNaN(o.Theta) || o.Theta < 0:
		return ErrInvalidTheta
	case math.IsNaN(o.Alpha) || o.Alpha < 0:
		return ErrInvalidAlpha
	case math.IsNaN(o.Threshold):
		return ErrInvalidThreshold
	case o.Workers < 1:
		return ErrInvalidWorkers
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}

	return nil
}
