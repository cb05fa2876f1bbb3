package colocation_test

import (
	"testing"

	"github.com/katalvlaran/colomine/colocation"
	"github.com/stretchr/testify/assert"
)

// TestGenerateCandidates_Pruning: from {AB, AC, BC, BD} only ABC survives;
// ABD lacks AD and BCD lacks CD.
func TestGenerateCandidates_Pruning(t *testing.T) {
	prevalent := []colocation.Itemset{
		{"A", "B"}, {"A", "C"}, {"B", "C"}, {"B", "D"},
	}
	admitted, pruned := colocation.GenerateCandidates(prevalent)
	assert.Equal(t, []colocation.Itemset{{"A", "B", "C"}}, admitted)
	assert.Equal(t, 2, pruned)
}

// TestGenerateCandidates_FromSingletons: every pair of singletons is a candidate.
func TestGenerateCandidates_FromSingletons(t *testing.T) {
	admitted, pruned := colocation.GenerateCandidates([]colocation.Itemset{{"c"}, {"a"}, {"b"}})
	assert.Equal(t, []colocation.Itemset{{"a", "b"}, {"a", "c"}, {"b", "c"}}, admitted)
	assert.Zero(t, pruned)
}

// TestGenerateCandidates_OrderInvariant permutes the input and expects the same output.
func TestGenerateCandidates_OrderInvariant(t *testing.T) {
	a := []colocation.Itemset{{"a", "b"}, {"a", "c"}, {"b", "c"}, {"c", "d"}, {"b", "d"}}
	b := []colocation.Itemset{{"c", "d"}, {"b", "d"}, {"b", "c"}, {"a", "c"}, {"a", "b"}}
	ga, pa := colocation.GenerateCandidates(a)
	gb, pb := colocation.GenerateCandidates(b)
	assert.Equal(t, ga, gb)
	assert.Equal(t, pa, pb)
	assert.Equal(t, []colocation.Itemset{{"a", "b", "c"}, {"b", "c", "d"}}, ga)
}

func TestGenerateCandidates_Empty(t *testing.T) {
	admitted, pruned := colocation.GenerateCandidates(nil)
	assert.Nil(t, admitted)
	assert.Zero(t, pruned)
}
