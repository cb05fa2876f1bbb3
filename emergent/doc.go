// Package emergent mines cascade colocations: new events that keep appearing
// next to instances that were already there.
//
// What:
//
//   - Event: an Instance with a timestamp.
//   - Granularity: maps timestamps to ordered, non-overlapping buckets
//     (Exact, Hourly, Daily, Weekly, Monthly, Yearly, Every).
//   - Match: one (new event, old instance) pair satisfying the relation.
//   - Snapshot: the cumulative surviving matches after one bucket.
//   - CascadeRule: new category => old category with its cascade
//     participation index (CPI).
//   - Mine: drives the bucket loop and derives rules from the final snapshot.
//
// Semantics:
//
//   - The old state starts as the Baseline (possibly empty) and every
//     processed bucket is appended to it. Events of one bucket never match
//     each other.
//   - The match table is cumulative and append-only. Each snapshot filters the
//     whole table, so a snapshot may hold matches from earlier buckets.
//   - A (new, old) group survives when rows ≥ Theta × population(new). With
//     DenominatorSeen (default) the population is the distinct ids of the
//     category among the new events processed so far, so a group may drop out
//     when later buckets bring more ids than matches. Once every id of the
//     category has arrived its survivor count only grows. DenominatorStream
//     fixes the population to the whole stream before the first bucket.
//   - CPI = distinct new ids in the group / stream population. A rule is
//     emitted when CPI > Alpha, once, after the final bucket.
//
// Complexity:
//
//   - Per bucket: O(b + o + m) with the grid join for built-in relations,
//     b bucket events, o old-state size, m related pairs; O(b·o) for Custom.
//   - Survivor filtering is linear in the cumulative match table.
//
// Errors:
//
//   - ErrInvalidTheta, ErrInvalidAlpha, ErrInvalidThreshold from Mine.
//   - ErrInvalidGranularity from ParseGranularity.
//   - *InsufficientSupportError when a population would be zero.
//   - ctx.Err() when cancelled between buckets; errors returned by OnBucket.
package emergent
