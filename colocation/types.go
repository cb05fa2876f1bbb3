// Package colocation defines the data model, options and sentinel errors of
// the general (level-wise) colocation miner.
package colocation

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/katalvlaran/colomine/spatial"
)

// Sentinel errors returned by Mine and ParticipationIndex.
var (
	// ErrInvalidK indicates that the maximum itemset size is below 1.
	ErrInvalidK = errors.New("colocation: MaxK must be at least 1")

	// ErrInvalidTheta indicates a negative or NaN participation threshold.
	ErrInvalidTheta = errors.New("colocation: theta must be a non-negative number")

	// ErrInvalidAlpha indicates a negative or NaN conditional-probability threshold.
	ErrInvalidAlpha = errors.New("colocation: alpha must be a non-negative number")

	// ErrInvalidThreshold indicates a NaN relation threshold.
	ErrInvalidThreshold = errors.New("colocation: relation threshold must be a number")

	// ErrInvalidWorkers indicates a non-positive worker count.
	ErrInvalidWorkers = errors.New("colocation: workers must be positive")

	// ErrRowShape indicates a row whose length differs from its itemset.
	ErrRowShape = errors.New("colocation: row length does not match itemset")
)

// InsufficientSupportError is returned instead of propagating NaN when a
// participation index or conditional probability would divide by zero.
// Category is set for a category with no instances; Itemset for an
// antecedent with no supporting rows.
type InsufficientSupportError struct {
	Category string
	Itemset  Itemset
}

func (e *InsufficientSupportError) Error() string {
	if e.Category != "" {
		return fmt.Sprintf("colocation: insufficient support: category %q has no instances", e.Category)
	}

	return fmt.Sprintf("colocation: insufficient support: itemset {%s} has no supporting rows", e.Itemset)
}

// Instance is one observed feature: a category, an id unique within that
// category, and a position.
type Instance struct {
	Category string
	ID       string
	Pos      spatial.Point
}

// Itemset is a canonically sorted, duplicate-free set of categories.
// Build it with NewItemset so two itemsets with the same members compare equal.
type Itemset []string

// keySep separates categories inside an Itemset key.
const keySep = "\x00"

// NewItemset sorts and deduplicates categories.
func NewItemset(categories ...string) Itemset {
	out := make(Itemset, len(categories))
	copy(out, categories)
	sort.Strings(out)
	w := 0
	for i, c := range out {
		if i > 0 && c == out[w-1] {
			continue
		}
		out[w] = c
		w++
	}

	return out[:w]
}

// Key returns a string usable as a map key; equal itemsets have equal keys.
func (s Itemset) Key() string {
	return strings.Join(s, keySep)
}

// String joins the members with ", ".
func (s Itemset) String() string {
	return strings.Join(s, ", ")
}

// Equal reports whether s and o hold the same members in the same order.
func (s Itemset) Equal(o Itemset) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}

	return true
}

// Without returns s minus its i-th member.
func (s Itemset) Without(i int) Itemset {
	out := make(Itemset, 0, len(s)-1)
	out = append(out, s[:i]...)

	return append(out, s[i+1:]...)
}

// Union returns the canonical union of s and o.
func (s Itemset) Union(o Itemset) Itemset {
	all := make([]string, 0, len(s)+len(o))
	all = append(all, s...)
	all = append(all, o...)

	return NewItemset(all...)
}

// Row is one table-instance tuple: one Instance per itemset member, in the
// itemset's sorted category order.
type Row []Instance

// Itemset returns the categories of r in column order.
func (r Row) Itemset() Itemset {
	out := make(Itemset, len(r))
	for i, in := range r {
		out[i] = in.Category
	}

	return out
}

// key returns the itemset key of r without allocating an Itemset.
func (r Row) key() string {
	var b strings.Builder
	for i, in := range r {
		if i > 0 {
			b.WriteString(keySep)
		}
		b.WriteString(in.Category)
	}

	return b.String()
}

// TableInstance holds the rows of every itemset of size K produced at one level.
// It is immutable once its level is finalized.
type TableInstance struct {
	K    int
	Rows []Row
}

// Len returns the number of rows.
func (t TableInstance) Len() int { return len(t.Rows) }

// Colocation is a prevalent itemset together with its supporting rows.
type Colocation struct {
	Items      Itemset
	Rows       []Row
	Prevalence float64
	Size       int
}

// String renders "a, b: N items, p=0.5".
func (c Colocation) String() string {
	return c.Items.String() + ": " + strconv.Itoa(c.Size) + " items, p=" + formatFloat(c.Prevalence)
}

// Rule is an association rule Antecedent => Consequent.
// Prevalence is that of the full itemset; Probability is the conditional
// probability of the consequent given the antecedent.
type Rule struct {
	Antecedent  Itemset
	Consequent  string
	Prevalence  float64
	Probability float64
}

// Items returns the sorted union of antecedent and consequent.
func (r Rule) Items() Itemset {
	return r.Antecedent.Union(Itemset{r.Consequent})
}

// String renders "{a, b} => c (p, cp)" with both numbers rounded to 4 decimals.
func (r Rule) String() string {
	return "{" + r.Antecedent.String() + "} => " + r.Consequent +
		" (" + FormatScore(r.Prevalence) + ", " + FormatScore(r.Probability) + ")"
}

// Level is the finalized outcome of one itemset size.
type Level struct {
	K          int
	Candidates []Itemset
	Table      TableInstance
	Prevalent  []Colocation
	Rules      []Rule
}

// Lookup returns the prevalent colocation for items, if any.
func (l Level) Lookup(items Itemset) (Colocation, bool) {
	key := NewItemset(items...).Key()
	for _, c := range l.Prevalent {
		if c.Items.Key() == key {
			return c, true
		}
	}

	return Colocation{}, false
}

// Result is the output of Mine.
type Result struct {
	Levels []Level
	Rules  []Rule
}

// Tables returns the table instances T[1..final_k], one per level.
func (r *Result) Tables() []TableInstance {
	out := make([]TableInstance, len(r.Levels))
	for i, l := range r.Levels {
		out[i] = l.Table
	}

	return out
}

// Prevalent returns the prevalent itemsets of size k, or nil if level k was not reached.
func (r *Result) Prevalent(k int) []Itemset {
	if k < 1 || k > len(r.Levels) {
		return nil
	}
	lvl := r.Levels[k-1]
	out := make([]Itemset, len(lvl.Prevalent))
	for i, c := range lvl.Prevalent {
		out[i] = c.Items
	}

	return out
}

// FormatScore rounds x to 4 decimals and prints it the way the classic
// reports do: "1.0", "0.6667", "0.5".
func FormatScore(x float64) string {
	return formatFloat(math.Round(x*1e4) / 1e4)
}

// formatFloat prints x in its shortest form, keeping a trailing ".0" on integers.
func formatFloat(x float64) string {
	s := strconv.FormatFloat(x, 'f', -1, 64)
	if strings.ContainsAny(s, ".IN") { // fraction, Inf or NaN
		return s
	}

	return s + ".0"
}
