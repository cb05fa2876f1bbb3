package spatial

import (
	"math"
	"sort"
)

// Pair indexes one related couple: A into the left point set, B into the right.
type Pair struct {
	A, B int
}

// Related applies r elementwise to the parallel slices a and b.
// The result always has len(a) entries; if b is shorter, the excess
// positions of a are unrelated.
// Complexity: O(n).
func (r Relation) Related(a, b []Point, threshold float64) []bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	out := make([]bool, len(a))
	if n == 0 {
		return out
	}

	switch r.kind {
	case KindMeter:
		euclideanWithin(a[:n], b[:n], MetersToUnits(threshold), out)
	case KindCustom:
		got := r.custom(a[:n], b[:n], threshold)
		copy(out, got)
	default:
		euclideanWithin(a[:n], b[:n], threshold, out)
	}

	return out
}

// euclideanWithin sets out[i] = dist(a[i], b[i]) < limit.
func euclideanWithin(a, b []Point, limit float64, out []bool) {
	for i := range a {
		out[i] = math.Hypot(a[i].X-b[i].X, a[i].Y-b[i].Y) < limit
	}
}

// reach returns the effective native-unit radius of a built-in relation.
func (r Relation) reach(threshold float64) float64 {
	if r.kind == KindMeter {
		return MetersToUnits(threshold)
	}

	return threshold
}

// Join returns every pair (i, j) such that left[i] and right[j] are related
// under threshold, sorted by A then B.
//
// For Unit and Meter the right set is bucketed in a uniform grid whose cell
// side equals the effective radius, so only the 3×3 block of cells around a
// left point is tested. Surviving candidates are still checked with the same
// bulk predicate, so the result equals a full cross join. Custom relations
// are applied to the full cross product.
//
// Complexity: see package doc.
func (r Relation) Join(left, right []Point, threshold float64) []Pair {
	if len(left) == 0 || len(right) == 0 {
		return nil
	}

	// 1) Collect candidate pairs.
	var cand []Pair
	radius := r.reach(threshold)
	switch {
	case r.kind == KindCustom:
		cand = crossPairs(len(left), len(right))
	case math.IsNaN(radius) || radius <= 0:
		// dist >= 0 is never strictly below a non-positive radius.
		return nil
	case math.IsInf(radius, 1):
		cand = crossPairs(len(left), len(right))
	default:
		g := newGrid(right, radius)
		if g.overflow || !bucketable(g, left) {
			cand = crossPairs(len(left), len(right))
			break
		}
		cand = g.candidates(left)
	}
	if len(cand) == 0 {
		return nil
	}

	// 2) Evaluate the predicate in bulk over the parallel candidate columns.
	as := make([]Point, len(cand))
	bs := make([]Point, len(cand))
	for i, p := range cand {
		as[i] = left[p.A]
		bs[i] = right[p.B]
	}
	ok := r.Related(as, bs, threshold)

	// 3) Keep related pairs in canonical order.
	out := cand[:0]
	for i, p := range cand {
		if ok[i] {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})

	return out
}

// bucketable reports whether every finite query point maps to a grid cell.
func bucketable(g *grid, query []Point) bool {
	for _, p := range query {
		if _, ok := g.key(p); !ok && finite(p) {
			return false
		}
	}

	return true
}

// crossPairs enumerates the full n×m cross product.
func crossPairs(n, m int) []Pair {
	out := make([]Pair, 0, n*m)
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			out = append(out, Pair{A: i, B: j})
		}
	}

	return out
}
