package colocation_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/colomine/colocation"
	"github.com/stretchr/testify/assert"
)

func TestNewItemset_Canonical(t *testing.T) {
	a := colocation.NewItemset("c", "a", "b", "a")
	b := colocation.NewItemset("b", "c", "a")
	assert.Equal(t, colocation.Itemset{"a", "b", "c"}, a)
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Key(), b.Key())
	assert.Equal(t, "a, b, c", a.String())
	assert.Equal(t, colocation.Itemset{"a", "c"}, a.Without(1))
	assert.Equal(t, colocation.Itemset{"a", "b", "c", "d"}, a.Union(colocation.Itemset{"d", "a"}))
	assert.False(t, a.Equal(a.Without(0)))
}

func TestRule_String(t *testing.T) {
	r := colocation.Rule{
		Antecedent:  colocation.Itemset{"a", "b"},
		Consequent:  "c",
		Prevalence:  2.0 / 3.0,
		Probability: 0.5,
	}
	assert.Equal(t, "{a, b} => c (0.6667, 0.5)", r.String())
	assert.Equal(t, colocation.Itemset{"a", "b", "c"}, r.Items())
}

func TestFormatScore(t *testing.T) {
	cases := map[float64]string{
		1:          "1.0",
		0:          "0.0",
		0.5:        "0.5",
		1.0 / 3.0:  "0.3333",
		0.66666:    "0.6667",
		0.12344999: "0.1234",
		math.NaN(): "NaN",
	}
	for in, want := range cases {
		assert.Equal(t, want, colocation.FormatScore(in), "FormatScore(%v)", in)
	}
}
