package colocation

import (
	"sort"
	"strings"
)

// generateRules derives rules from the colocations found at size k+1.
//
// For each colocation and each member chosen as consequent, the conditional
// probability is the number of distinct antecedent-id combinations among the
// colocation's rows, divided by the number of rows of the antecedent itemset
// in prev (the complete size-k table). A rule is emitted iff it exceeds alpha.
//
// An antecedent without rows in prev yields an InsufficientSupportError.
//
// Complexity: O(Σ |rows|·k²) over the colocations.
func generateRules(found []Colocation, prev TableInstance, alpha float64) ([]Rule, error) {
	if len(found) == 0 {
		return nil, nil
	}

	// 1) Row counts of every size-k itemset in prev.
	support := make(map[string]int)
	for _, r := range prev.Rows {
		support[r.key()]++
	}

	// 2) One candidate rule per (colocation, consequent).
	var rules []Rule
	for _, c := range found {
		for ci, consequent := range c.Items {
			antecedent := c.Items.Without(ci)
			den := support[antecedent.Key()]
			if den == 0 {
				return nil, &InsufficientSupportError{Itemset: antecedent}
			}
			cp := float64(distinctIDs(c.Rows, ci)) / float64(den)
			if cp > alpha {
				rules = append(rules, Rule{
					Antecedent:  antecedent,
					Consequent:  consequent,
					Prevalence:  c.Prevalence,
					Probability: cp,
				})
			}
		}
	}

	return rules, nil
}

// distinctIDs counts distinct id tuples over every column except skip.
func distinctIDs(rows []Row, skip int) int {
	seen := make(map[string]struct{}, len(rows))
	var b strings.Builder
	for _, r := range rows {
		b.Reset()
		for i, in := range r {
			if i == skip {
				continue
			}
			b.WriteString(in.ID)
			b.WriteString(keySep)
		}
		seen[b.String()] = struct{}{}
	}

	return len(seen)
}

// sortRules orders rules by itemset, then consequent.
func sortRules(rules []Rule) {
	sort.Slice(rules, func(i, j int) bool {
		ki, kj := rules[i].Items().Key(), rules[j].Items().Key()
		if ki != kj {
			return ki < kj
		}
		return rules[i].Consequent < rules[j].Consequent
	})
}
