package spatial

import "math"

// cellKey addresses one grid cell by its integer column and row.
type cellKey struct {
	cx, cy int64
}

// neighborOffsets covers a cell and its eight neighbours (8-connectivity plus self).
var neighborOffsets = [9][2]int64{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {0, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// grid buckets point indices into square cells of side size. Two points
// closer than size always sit in the same or adjacent cells.
// It is immutable once built.
type grid struct {
	size     float64
	cells    map[cellKey][]int
	overflow bool // a finite point fell outside the addressable cell range
}

// newGrid buckets pts. Points with non-finite coordinates are left out:
// their distance to anything is never below a finite threshold.
// Complexity: O(len(pts)) time and memory.
func newGrid(pts []Point, size float64) *grid {
	g := &grid{size: size, cells: make(map[cellKey][]int)}
	for i, p := range pts {
		k, ok := g.key(p)
		if !ok {
			if finite(p) {
				g.overflow = true
			}
			continue
		}
		g.cells[k] = append(g.cells[k], i)
	}

	return g
}

// key maps p to its cell; ok is false for coordinates that cannot be bucketed.
func (g *grid) key(p Point) (cellKey, bool) {
	fx, fy := math.Floor(p.X/g.size), math.Floor(p.Y/g.size)
	if !inCellRange(fx) || !inCellRange(fy) {
		return cellKey{}, false
	}

	return cellKey{cx: int64(fx), cy: int64(fy)}, true
}

// finite reports whether both coordinates of p are finite.
func finite(p Point) bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// inCellRange reports whether f converts to int64 without overflow,
// leaving headroom for the ±1 neighbour offsets.
func inCellRange(f float64) bool {
	return !math.IsNaN(f) && f > math.MinInt64/2 && f < math.MaxInt64/2
}

// candidates returns, for every query point, the indexed points in its 3×3
// cell block, as (query index, indexed index) pairs.
// Complexity: O(len(query) + P) where P is the number of emitted pairs.
func (g *grid) candidates(query []Point) []Pair {
	var out []Pair
	for i, p := range query {
		k, ok := g.key(p)
		if !ok {
			continue
		}
		for _, d := range neighborOffsets {
			nk := cellKey{cx: k.cx + d[0], cy: k.cy + d[1]}
			for _, j := range g.cells[nk] {
				out = append(out, Pair{A: i, B: j})
			}
		}
	}

	return out
}
