package colocation

import "sort"

// GenerateCandidates builds the size-(k+1) candidates from the prevalent
// size-k itemsets.
//
// Every pair of prevalent itemsets whose union has exactly k+1 members yields
// that union. A union is admitted only if each of its size-k subsets is itself
// prevalent (downward closure); the rest are counted in pruned and never
// reach table-instance construction.
//
// The result is sorted by itemset key and free of duplicates, so it does not
// depend on the order of prevalent.
//
// Complexity: O(P²·k) to form unions plus O(U·k²) for the subset checks,
// where P = len(prevalent) and U the number of distinct unions.
func GenerateCandidates(prevalent []Itemset) (admitted []Itemset, pruned int) {
	if len(prevalent) == 0 {
		return nil, 0
	}
	k := len(prevalent[0])

	// 1) Index prevalent itemsets for O(1) subset lookups.
	known := make(map[string]struct{}, len(prevalent))
	for _, p := range prevalent {
		known[NewItemset(p...).Key()] = struct{}{}
	}

	// 2) Form every (k+1)-union once.
	unions := make(map[string]Itemset)
	for i := range prevalent {
		for j := i + 1; j < len(prevalent); j++ {
			u := prevalent[i].Union(prevalent[j])
			if len(u) != k+1 {
				continue
			}
			unions[u.Key()] = u
		}
	}

	// 3) Downward-closure pruning.
	for _, u := range unions {
		if closed(u, known) {
			admitted = append(admitted, u)
		} else {
			pruned++
		}
	}
	sort.Slice(admitted, func(i, j int) bool { return admitted[i].Key() < admitted[j].Key() })

	return admitted, pruned
}

// closed reports whether every size-(len(u)-1) subset of u is in known.
func closed(u Itemset, known map[string]struct{}) bool {
	for i := range u {
		if _, ok := known[u.Without(i).Key()]; !ok {
			return false
		}
	}

	return true
}
