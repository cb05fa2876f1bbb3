// Package emergent defines the data model, options and sentinel errors of
// the cascade (emergent colocation) miner.
package emergent

import (
	"errors"
	"fmt"
	"time"

	"github.com/katalvlaran/colomine/colocation"
)

// Sentinel errors returned by Mine and ParseGranularity.
var (
	// ErrInvalidTheta indicates a negative or NaN prevalence threshold.
	ErrInvalidTheta = errors.New("emergent: theta must be a non-negative number")

	// ErrInvalidAlpha indicates a negative or NaN cascade threshold.
	ErrInvalidAlpha = errors.New("emergent: alpha must be a non-negative number")

	// ErrInvalidThreshold indicates a NaN relation threshold.
	ErrInvalidThreshold = errors.New("emergent: relation threshold must be a number")

	// ErrInvalidGranularity indicates an unparsable time granularity.
	ErrInvalidGranularity = errors.New("emergent: invalid time granularity")
)

// InsufficientSupportError is returned instead of a NaN ratio when a new-event
// category has no ids to divide by.
type InsufficientSupportError struct {
	Category string
}

func (e *InsufficientSupportError) Error() string {
	return fmt.Sprintf("emergent: insufficient support: new-event category %q has no ids", e.Category)
}

// Event is a feature instance observed at a point in time.
type Event struct {
	colocation.Instance
	Time time.Time
}

// Match pairs a new event with a related instance of the old state.
type Match struct {
	New colocation.Instance
	Old colocation.Instance
}

// Snapshot is the cumulative set of surviving matches after one time bucket.
// It is immutable once produced.
type Snapshot struct {
	Time    time.Time
	Matches []Match
}

// Len returns the number of surviving matches.
func (s Snapshot) Len() int { return len(s.Matches) }

// CascadeRule states that new events of Antecedent keep appearing next to
// established instances of Consequent.
type CascadeRule struct {
	Antecedent string
	Consequent string
	CPI        float64
}

// String renders "a => b, Cascade Participation Index: 0.75".
func (r CascadeRule) String() string {
	return r.Antecedent + " => " + r.Consequent + ", Cascade Participation Index: " + colocation.FormatScore(r.CPI)
}

// Result is the output of Mine: one snapshot per non-empty bucket, in time
// order, and the cascade rules of the final snapshot.
type Result struct {
	Snapshots []Snapshot
	Rules     []CascadeRule
}

// At returns the snapshot of the bucket starting at t.
func (r *Result) At(t time.Time) (Snapshot, bool) {
	for _, s := range r.Snapshots {
		if s.Time.Equal(t) {
			return s, true
		}
	}

	return Snapshot{}, false
}

// Final returns the last snapshot, or false when no bucket was processed.
func (r *Result) Final() (Snapshot, bool) {
	if len(r.Snapshots) == 0 {
		return Snapshot{}, false
	}

	return r.Snapshots[len(r.Snapshots)-1], true
}
