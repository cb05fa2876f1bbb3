// Package spatial provides the spatial relation predicates used to decide
// whether two feature instances are neighbours.
//
// What:
//
//   - Point is a planar position in the native units of the input data.
//   - Predicate is the bulk contract: two parallel position slices plus a
//     threshold in, one boolean per index out.
//   - Relation is a closed variant {Unit, Meter, Custom(Predicate)}, resolved once
//     at configuration time; no runtime type inspection afterwards.
//   - Relation.Join finds every related (i, j) pair between two point sets.
//
// Built-in relations:
//
//   - Unit:  Euclidean distance in native units, strictly less than threshold.
//   - Meter: Euclidean distance with the threshold converted from meters via
//     MetersToUnits (meters * 25e-6). This is a linear approximation that only
//     holds near the reference meridian of one projected system; callers who
//     need geodesic accuracy must pass a Custom predicate.
//
// Resolution:
//
//   - ParseRelation is lenient: unknown names resolve to Unit without error.
//   - LookupRelation is strict and returns ErrUnknownRelation instead.
//   - Custom(nil) resolves to Unit.
//
// Complexity:
//
//   - Predicate evaluation: O(n) for n parallel pairs.
//   - Join (built-in kinds): O(n + m + P) expected, where P is the number of
//     pairs sharing neighbouring grid cells. Points are bucketed in a uniform
//     grid with cell size equal to the effective threshold, so only the 3×3
//     block around each cell can hold related points.
//   - Join (Custom): O(n·m), the predicate is applied to the full cross product.
//
// Errors:
//
//   - ErrUnknownRelation: relation name is neither "unit" nor "meter" (strict lookup only).
package spatial
