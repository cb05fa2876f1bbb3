// Package colocation implements level-wise (Apriori-style) spatial colocation
// mining and the association rules derived from it.
//
// What:
//
//   - Instance: one observed feature (category, id, position).
//   - Itemset: canonically sorted set of categories; construction order never matters.
//   - TableInstance: rows of related instances, one column per itemset member.
//   - Colocation: a prevalent itemset with its rows and prevalence.
//   - Rule: {antecedent} => consequent with prevalence and conditional probability.
//   - Mine: drives candidates → table instances → prevalence → rules per level.
//
// Semantics:
//
//   - Participation index of category c in itemset S = distinct ids of c in S's
//     rows / distinct ids of c in the whole input. Prevalence = min over S.
//   - Category totals are fixed before level 1 and shared by every level.
//   - Rows of size ≥ 3 are chained: a new column must be related to the last
//     column of the row it extends, and (through the row it is joined from) to
//     the column before that. Rows are not checked as spatial cliques.
//
// Complexity:
//
//   - GenerateCandidates: O(P²·k + U·k²), P prevalent sets, U distinct unions.
//   - Level 2 join: grid-bucketed for built-in relations, O(n + pairs).
//   - Level k+1 join: O(Σ g²) over groups g of rows sharing k-1 leading columns.
//   - Prevalence and rules: linear in the rows of the level.
//
// Concurrency:
//
//   - Levels are strictly sequential. Inside a level, joins are sharded by the
//     leading category tuple and prevalence by itemset, at most Workers at a time.
//     Output is sorted, so it does not depend on scheduling.
//
// Errors:
//
//   - ErrInvalidK, ErrInvalidTheta, ErrInvalidAlpha, ErrInvalidThreshold, ErrInvalidWorkers.
//   - *InsufficientSupportError when a ratio would divide by zero.
package colocation
