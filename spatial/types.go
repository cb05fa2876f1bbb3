package spatial

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownRelation indicates that a relation name could not be resolved.
// Only LookupRelation returns it; ParseRelation silently falls back to Unit.
var ErrUnknownRelation = errors.New("spatial: unknown relation")

// Names accepted by ParseRelation and LookupRelation.
const (
	NameUnit  = "unit"
	NameMeter = "meter"
)

// metersScale converts meters into reference-projection units.
const metersScale = 25e-6

// Point is a planar position.
type Point struct {
	X, Y float64
}

// String renders the point the way WKT does, e.g. "POINT (1 3)".
func (p Point) String() string {
	return fmt.Sprintf("POINT (%g %g)", p.X, p.Y)
}

// Predicate tests a and b elementwise: out[i] reports whether a[i] and b[i]
// are related under threshold. a and b always have the same length.
// A predicate that returns fewer values than len(a) leaves the missing
// positions unrelated.
type Predicate func(a, b []Point, threshold float64) []bool

// Kind tags the variant held by a Relation.
type Kind int

const (
	// KindUnit is Euclidean distance in native units.
	KindUnit Kind = iota
	// KindMeter is Euclidean distance with a meter threshold.
	KindMeter
	// KindCustom wraps a caller-supplied Predicate.
	KindCustom
)

// String returns the configuration name of k.
func (k Kind) String() string {
	switch k {
	case KindUnit:
		return NameUnit
	case KindMeter:
		return NameMeter
	case KindCustom:
		return "custom"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Relation is a resolved spatial relation. The zero value is Unit.
type Relation struct {
	kind   Kind
	custom Predicate
}

// Unit returns the native-unit Euclidean relation.
func Unit() Relation { return Relation{kind: KindUnit} }

// Meter returns the meter-threshold Euclidean relation.
func Meter() Relation { return Relation{kind: KindMeter} }

// Custom wraps p as-is; its signature and output are not validated.
// A nil p resolves to Unit.
func Custom(p Predicate) Relation {
	if p == nil {
		return Unit()
	}

	return Relation{kind: KindCustom, custom: p}
}

// ParseRelation resolves name leniently: "meter" gives Meter, anything else
// (including typos and the empty string) gives Unit.
func ParseRelation(name string) Relation {
	r, err := LookupRelation(name)
	if err != nil {
		return Unit()
	}

	return r
}

// LookupRelation resolves name strictly. Matching is case-insensitive and
// ignores surrounding whitespace.
func LookupRelation(name string) (Relation, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case NameUnit:
		return Unit(), nil
	case NameMeter:
		return Meter(), nil
	default:
		return Unit(), fmt.Errorf("%w: %q", ErrUnknownRelation, name)
	}
}

// Kind reports which variant r holds.
func (r Relation) Kind() Kind { return r.kind }

// String returns the configuration name of r.
func (r Relation) String() string { return r.kind.String() }

// MetersToUnits converts a distance in meters into reference-projection units.
func MetersToUnits(m float64) float64 {
	return m * metersScale
}
