package colocation

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/colomine/spatial"
)

// seedTable builds the size-1 table instance: every instance as its own row,
// ordered by category then id.
// Complexity: O(n log n).
func seedTable(instances []Instance) TableInstance {
	rows := make([]Row, len(instances))
	for i, in := range instances {
		rows[i] = Row{in}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rowLess(rows[i], rows[j]) })

	return TableInstance{K: 1, Rows: rows}
}

// joinSpec carries what one level's table construction needs.
type joinSpec struct {
	relation   spatial.Relation
	threshold  float64
	workers    int
	prevalent  map[string]struct{} // size-k itemset keys allowed to grow
	candidates map[string]struct{} // admitted size-(k+1) itemset keys
}

// buildTable grows tk (size k) into the size-(k+1) table instance.
//
//   - k == 1: every pair of size-1 rows whose second category strictly follows
//     the first and whose positions are related.
//   - k >= 2: rows of prevalent itemsets are grouped by their k-1 leading
//     (category, id) columns; inside a group two rows a, b combine into
//     a ++ b[k-1] when b's last category strictly follows a's and the two
//     last positions are related.
//
// Only rows whose full itemset is an admitted candidate are kept.
// The relation is checked between the two newest columns only.
func buildTable(ctx context.Context, tk TableInstance, js joinSpec) (TableInstance, error) {
	next := TableInstance{K: tk.K + 1}
	if len(js.candidates) == 0 || len(tk.Rows) == 0 {
		return next, nil
	}
	if tk.K == 1 {
		next.Rows = pairRows(tk.Rows, js)
		sortRows(next.Rows)
		return next, nil
	}

	// 1) Keep rows of prevalent itemsets and bucket them by leading columns.
	//    Shards are keyed by the leading category tuple so each shard is independent.
	type prefixGroup struct{ rows []Row }
	shards := make(map[string]map[string]*prefixGroup)
	for _, r := range tk.Rows {
		if _, ok := js.prevalent[r.key()]; !ok {
			continue
		}
		lead := r[:len(r)-1]
		shardKey := Row(lead).key()
		groups, ok := shards[shardKey]
		if !ok {
			groups = make(map[string]*prefixGroup)
			shards[shardKey] = groups
		}
		pk := prefixKey(lead)
		g, ok := groups[pk]
		if !ok {
			g = &prefixGroup{}
			groups[pk] = g
		}
		g.rows = append(g.rows, r)
	}

	// 2) Extend every shard concurrently; each writes only its own slot.
	shardKeys := make([]string, 0, len(shards))
	for k := range shards {
		shardKeys = append(shardKeys, k)
	}
	sort.Strings(shardKeys)
	results := make([][]Row, len(shardKeys))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(js.workers)
	for i, sk := range shardKeys {
		groups := shards[sk]
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			var out []Row
			for _, g := range groups {
				out = append(out, extendGroup(g.rows, js)...)
			}
			results[i] = out
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return TableInstance{}, err
	}

	// 3) Merge and order canonically.
	for _, rs := range results {
		next.Rows = append(next.Rows, rs...)
	}
	sortRows(next.Rows)

	return next, nil
}

// pairRows joins the size-1 table with itself.
func pairRows(rows []Row, js joinSpec) []Row {
	pts := make([]spatial.Point, len(rows))
	for i, r := range rows {
		pts[i] = r[0].Pos
	}

	var out []Row
	for _, p := range js.relation.Join(pts, pts, js.threshold) {
		a, b := rows[p.A][0], rows[p.B][0]
		if a.Category >= b.Category {
			continue
		}
		if _, ok := js.candidates[a.Category+keySep+b.Category]; !ok {
			continue
		}
		out = append(out, Row{a, b})
	}

	return out
}

// extendGroup combines rows that share all leading columns.
// Pairs are filtered by category order and candidacy first; the relation is
// then applied in one bulk call over the surviving pairs.
func extendGroup(rows []Row, js joinSpec) []Row {
	k := len(rows[0])
	var (
		pending []Row
		as, bs  []spatial.Point
	)
	for _, a := range rows {
		for _, b := range rows {
			la, lb := a[k-1], b[k-1]
			if la.Category >= lb.Category {
				continue
			}
			row := make(Row, k+1)
			copy(row, a)
			row[k] = lb
			if _, ok := js.candidates[row.key()]; !ok {
				continue
			}
			pending = append(pending, row)
			as = append(as, la.Pos)
			bs = append(bs, lb.Pos)
		}
	}
	if len(pending) == 0 {
		return nil
	}

	ok := js.relation.Related(as, bs, js.threshold)
	out := pending[:0]
	for i, row := range pending {
		if ok[i] {
			out = append(out, row)
		}
	}

	return out
}

// prefixKey identifies leading columns by category and id.
func prefixKey(lead []Instance) string {
	var b strings.Builder
	for _, in := range lead {
		b.WriteString(in.Category)
		b.WriteString(keySep)
		b.WriteString(in.ID)
		b.WriteString(keySep)
	}

	return b.String()
}

// rowLess orders rows column by column on (category, id).
func rowLess(a, b Row) bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i].Category != b[i].Category {
			return a[i].Category < b[i].Category
		}
		if a[i].ID != b[i].ID {
			return a[i].ID < b[i].ID
		}
	}

	return len(a) < len(b)
}

// sortRows orders rows canonically; ties keep their relative order.
func sortRows(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool { return rowLess(rows[i], rows[j]) })
}

// group is the set of rows sharing one itemset.
type group struct {
	items Itemset
	rows  []Row
}

// groupRows partitions rows by itemset; groups are ordered by itemset key
// and keep the relative row order of the input.
func groupRows(rows []Row) []group {
	idx := make(map[string]int)
	var out []group
	for _, r := range rows {
		k := r.key()
		i, ok := idx[k]
		if !ok {
			i = len(out)
			idx[k] = i
			out = append(out, group{items: r.Itemset()})
		}
		out[i].rows = append(out[i].rows, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].items.Key() < out[j].items.Key() })

	return out
}
