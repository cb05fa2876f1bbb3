package colocation

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// categoryCounts returns ET: the number of distinct ids per category.
// It is computed once per run and shared by every participation index.
func categoryCounts(instances []Instance) map[string]int {
	seen := make(map[string]map[string]struct{})
	for _, in := range instances {
		ids, ok := seen[in.Category]
		if !ok {
			ids = make(map[string]struct{})
			seen[in.Category] = ids
		}
		ids[in.ID] = struct{}{}
	}
	out := make(map[string]int, len(seen))
	for c, ids := range seen {
		out[c] = len(ids)
	}

	return out
}

// ParticipationIndex returns, for each column of rows, the number of distinct
// ids in that column divided by the category's total in counts.
// All rows must share the itemset items; a row of another length yields
// ErrRowShape.
func ParticipationIndex(items Itemset, rows []Row, counts map[string]int) ([]float64, error) {
	for i, r := range rows {
		if len(r) != len(items) {
			return nil, fmt.Errorf("%w: row %d has %d columns, itemset %s has %d", ErrRowShape, i, len(r), items, len(items))
		}
	}
	out := make([]float64, len(items))
	for col, cat := range items {
		total := counts[cat]
		if total == 0 {
			return nil, &InsufficientSupportError{Category: cat}
		}
		ids := make(map[string]struct{})
		for _, r := range rows {
			ids[r[col].ID] = struct{}{}
		}
		out[col] = float64(len(ids)) / float64(total)
	}

	return out, nil
}

// prevalence is the minimum participation index of a group.
func prevalence(items Itemset, rows []Row, counts map[string]int) (float64, error) {
	pis, err := ParticipationIndex(items, rows, counts)
	if err != nil {
		return 0, err
	}
	if len(pis) == 0 {
		return 0, nil
	}
	p := pis[0]
	for _, pi := range pis[1:] {
		if pi < p {
			p = pi
		}
	}

	return p, nil
}

// selectPrevalent groups t by itemset and keeps the groups whose prevalence
// is at least theta. Groups are evaluated concurrently, at most workers at a
// time; the result is ordered by itemset key.
func selectPrevalent(ctx context.Context, t TableInstance, counts map[string]int, theta float64, workers int) ([]Colocation, error) {
	groups := groupRows(t.Rows)
	kept := make([]*Colocation, len(groups))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, g := range groups {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			p, err := prevalence(g.items, g.rows, counts)
			if err != nil {
				return err
			}
			if p >= theta {
				kept[i] = &Colocation{Items: g.items, Rows: g.rows, Prevalence: p, Size: len(g.rows)}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var out []Colocation
	for _, c := range kept {
		if c != nil {
			out = append(out, *c)
		}
	}

	return out, nil
}
