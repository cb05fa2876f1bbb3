package emergent

import (
	"sort"

	"github.com/katalvlaran/colomine/colocation"
	"github.com/katalvlaran/colomine/spatial"
)

// pairKey addresses one (new category, old category) group.
type pairKey struct {
	newCat, oldCat string
}

// state is the accumulator threaded through the bucket loop. Only Mine owns
// it; old and matches are append-only and grow at the end of each bucket.
type state struct {
	old     []colocation.Instance
	oldPos  []spatial.Point
	matches []Match
	seen    map[string]map[string]struct{} // new category -> ids processed so far
}

func newState(baseline []colocation.Instance) *state {
	s := &state{seen: make(map[string]map[string]struct{})}
	s.absorb(baseline)

	return s
}

// join relates every event of the bucket to the current old state.
// Matches are ordered by bucket position, then old-state position.
func (s *state) join(bucket []Event, rel spatial.Relation, threshold float64) []Match {
	if len(bucket) == 0 || len(s.old) == 0 {
		return nil
	}
	pts := make([]spatial.Point, len(bucket))
	for i, e := range bucket {
		pts[i] = e.Pos
	}
	pairs := rel.Join(pts, s.oldPos, threshold)
	out := make([]Match, len(pairs))
	for i, p := range pairs {
		out[i] = Match{New: bucket[p.A].Instance, Old: s.old[p.B]}
	}

	return out
}

// observe records the new-event ids of a bucket.
func (s *state) observe(bucket []Event) {
	for _, e := range bucket {
		addID(s.seen, e.Category, e.ID)
	}
}

// absorb appends instances to the old state.
func (s *state) absorb(in []colocation.Instance) {
	for _, x := range in {
		s.old = append(s.old, x)
		s.oldPos = append(s.oldPos, x.Pos)
	}
}

// absorbEvents appends a processed bucket to the old state.
func (s *state) absorbEvents(bucket []Event) {
	for _, e := range bucket {
		s.old = append(s.old, e.Instance)
		s.oldPos = append(s.oldPos, e.Pos)
	}
}

// populations counts distinct ids per new-event category.
func populations(ids map[string]map[string]struct{}) map[string]int {
	out := make(map[string]int, len(ids))
	for c, set := range ids {
		out[c] = len(set)
	}

	return out
}

// streamPopulations counts distinct ids per category over the whole stream.
func streamPopulations(events []Event) map[string]int {
	ids := make(map[string]map[string]struct{})
	for _, e := range events {
		addID(ids, e.Category, e.ID)
	}

	return populations(ids)
}

func addID(ids map[string]map[string]struct{}, cat, id string) {
	set, ok := ids[cat]
	if !ok {
		set = make(map[string]struct{})
		ids[cat] = set
	}
	set[id] = struct{}{}
}

// survivors keeps the matches of every (new, old) group whose row count is
// at least theta × the new category's population. The result is a fresh
// slice in input order.
func survivors(matches []Match, pop map[string]int, theta float64) ([]Match, error) {
	counts := make(map[pairKey]int)
	for _, m := range matches {
		counts[pairKey{m.New.Category, m.Old.Category}]++
	}

	keep := make(map[pairKey]bool, len(counts))
	for k, n := range counts {
		total := pop[k.newCat]
		if total == 0 {
			return nil, &InsufficientSupportError{Category: k.newCat}
		}
		keep[k] = float64(n) >= theta*float64(total)
	}

	out := make([]Match, 0, len(matches))
	for _, m := range matches {
		if keep[pairKey{m.New.Category, m.Old.Category}] {
			out = append(out, m)
		}
	}

	return out, nil
}

// cascadeRules derives one rule per surviving (new, old) group whose cascade
// participation index (distinct new ids / population) exceeds alpha.
// Rules are ordered by antecedent, then consequent.
func cascadeRules(matches []Match, pop map[string]int, alpha float64) ([]CascadeRule, error) {
	ids := make(map[pairKey]map[string]struct{})
	for _, m := range matches {
		k := pairKey{m.New.Category, m.Old.Category}
		set, ok := ids[k]
		if !ok {
			set = make(map[string]struct{})
			ids[k] = set
		}
		set[m.New.ID] = struct{}{}
	}

	var out []CascadeRule
	for k, set := range ids {
		total := pop[k.newCat]
		if total == 0 {
			return nil, &InsufficientSupportError{Category: k.newCat}
		}
		cpi := float64(len(set)) / float64(total)
		if cpi > alpha {
			out = append(out, CascadeRule{Antecedent: k.newCat, Consequent: k.oldCat, CPI: cpi})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Antecedent != out[j].Antecedent {
			return out[i].Antecedent < out[j].Antecedent
		}
		return out[i].Consequent < out[j].Consequent
	})

	return out, nil
}
