package emergent_test

import (
	"context"
	"testing"

	"github.com/katalvlaran/colomine/emergent"
	"github.com/katalvlaran/colomine/spatial"
)

// BenchmarkMine measures the bucket loop for growing streams.
func BenchmarkMine(b *testing.B) {
	cases := []struct {
		name string
		n    int
		g    emergent.Granularity
	}{
		{"Hourly/500", 500, emergent.Hourly()},
		{"Daily/2000", 2000, emergent.Daily()},
		{"Exact/2000", 2000, emergent.Exact()},
	}
	for _, tc := range cases {
		old, ev := randomStream(3, tc.n, 100)
		b.Run(tc.name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_, err := emergent.Mine(context.Background(), ev,
					emergent.WithRelation(spatial.Unit()),
					emergent.WithThreshold(2),
					emergent.WithTheta(0.1),
					emergent.WithGranularity(tc.g),
					emergent.WithBaseline(old),
				)
				if err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

