package emergent

import (
	"log/slog"
	"math"

	"github.com/katalvlaran/colomine/colocation"
	"github.com/katalvlaran/colomine/spatial"
)

// Denominator selects the population a new-event category is measured against
// when filtering a bucket's snapshot.
type Denominator int

const (
	// DenominatorSeen uses the distinct ids of the category among the new events
	// processed so far, including the current bucket.
	DenominatorSeen Denominator = iota

	// DenominatorStream uses the distinct ids of the category across the whole
	// new-event stream, fixed before the first bucket.
	DenominatorStream
)

// Options configures Mine.
//
//   - Theta: a (new, old) category pair survives a bucket when its cumulative
//     match count is at least Theta × the new category's population.
//   - Alpha: a cascade rule is emitted when its CPI exceeds Alpha.
//   - Relation, Threshold: spatial relation between a new event and an old instance.
//   - Granularity: time bucketing of the new-event stream.
//   - Baseline: initial old state; may be empty.
//   - Denominator: population used by the per-bucket filter.
//   - Logger: receives one Debug record per bucket.
//   - OnBucket: called with every snapshot, in time order; a non-nil error aborts mining.
type Options struct {
	Theta       float64
	Alpha       float64
	Relation    spatial.Relation
	Threshold   float64
	Granularity Granularity
	Baseline    []colocation.Instance
	Denominator Denominator
	Logger      *slog.Logger
	OnBucket    func(Snapshot) error
}

// Option represents a functional option for configuring Mine.
type Option func(*Options)

// WithTheta sets the per-bucket prevalence threshold.
func WithTheta(theta float64) Option {
	return func(o *Options) {
		o.Theta = theta
	}
}

// WithAlpha sets the cascade-rule threshold.
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

// WithGranularity sets the time bucketing.
func WithGranularity(g Granularity) Option {
	return func(o *Options) {
		o.Granularity = g
	}
}

// WithBaseline seeds the old state with already established instances.
func WithBaseline(old []colocation.Instance) Option {
	return func(o *Options) {
		o.Baseline = old
	}
}

// WithDenominator selects the per-bucket population.
func WithDenominator(d Denominator) Option {
	return func(o *Options) {
		o.Denominator = d
	}
}

// WithLogger routes per-bucket statistics to l.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithBucketHook registers fn to receive every snapshot as soon as it is final.
func WithBucketHook(fn func(Snapshot) error) Option {
	return func(o *Options) {
		o.OnBucket = fn
	}
}

// DefaultOptions returns the classic settings: Theta 0.6, Alpha 0.5, Meter
// relation with a 100 m threshold, exact timestamps, no baseline,
// processed-so-far denominators and a discarding logger.
func DefaultOptions() Options {
	return Options{
		Theta:       0.6,
		Alpha:       0.5,
		Relation:    spatial.Meter(),
		Threshold:   100,
		Granularity: Exact(),
		Denominator: DenominatorSeen,
		Logger:      slog.New(slog.DiscardHandler),
	}
}

func (o *Options) validate() error {
	switch {
	case math.IsNaN(o.Theta) || o.Theta < 0:
		return ErrInvalidTheta
	case math.IsNaN(o.Alpha) || o.Alpha < 0:
		return ErrInvalidAlpha
	case math.IsNaN(o.Threshold):
		return ErrInvalidThreshold
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}

	return nil
}
