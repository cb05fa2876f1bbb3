package spatial_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/colomine/spatial"
)

// BenchmarkJoin compares the grid-bucketed built-in join against a custom
// predicate that forces the full cross product.
func BenchmarkJoin(b *testing.B) {
	rng := rand.New(rand.NewSource(7))
	pts := randomPoints(rng, 2000, 1000)
	euclid := spatial.Custom(func(a, c []spatial.Point, thr float64) []bool {
		return spatial.Unit().Related(a, c, thr)
	})

	b.Run("Grid", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = spatial.Unit().Join(pts, pts, 10)
		}
	})
	b.Run("Cross", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = euclid.Join(pts, pts, 10)
		}
	})
}
