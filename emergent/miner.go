package emergent

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/katalvlaran/colomine/internal/telemetry"
)

var tracer = telemetry.Tracer("emergent")

// Mine runs the cascade search over a stream of new events.
//
// Events are grouped into time buckets by Granularity and processed in time
// order. For each bucket:
//
//  1. every event is joined against the accumulated old state;
//  2. related pairs are appended to the cumulative match table;
//  3. matches are grouped by (new category, old category) and a group
//     survives when its row count is at least Theta × the new category's
//     population (see Denominator);
//  4. the survivors form the bucket's snapshot;
//  5. the bucket's events join the old state.
//
// After the last bucket, cascade rules are derived once from the final
// snapshot against whole-stream populations.
//
// Events within one bucket are never joined with each other.
// An empty stream yields an empty Result and no error.
// ctx is checked between buckets.
func Mine(ctx context.Context, events []Event, opts ...Option) (*Result, error) {
	// 1) Build and validate options.
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	res := &Result{}
	if len(events) == 0 {
		return res, nil
	}

	ctx, span := telemetry.Start(ctx, tracer, "emergent.Mine",
		attribute.Int("events", len(events)),
		attribute.Int("baseline", len(cfg.Baseline)),
		attribute.String("granularity", cfg.Granularity.String()),
		attribute.String("relation", cfg.Relation.String()),
	)
	defer span.End()

	// 2) Fix populations and partition the stream into ordered buckets.
	stream := streamPopulations(events)
	buckets := partition(events, cfg.Granularity)
	st := newState(cfg.Baseline)
	start := time.Now()

	// 3) One bucket at a time; bucket t+1 sees the old state left by t.
	for _, b := range buckets {
		if err := ctx.Err(); err != nil {
			telemetry.Fail(span, err)
			return nil, err
		}
		snap, err := step(ctx, st, b, stream, cfg)
		if err != nil {
			telemetry.Fail(span, err)
			return nil, err
		}
		res.Snapshots = append(res.Snapshots, snap)

		cfg.Logger.Debug("emergent bucket finalized",
			slog.Time("bucket", b.start),
			slog.Int("events", len(b.events)),
			slog.Int("old_state", len(st.old)),
			slog.Int("matches", len(st.matches)),
			slog.Int("survivors", snap.Len()),
			slog.Duration("elapsed", time.Since(start)),
		)
		if cfg.OnBucket != nil {
			if err := cfg.OnBucket(snap); err != nil {
				telemetry.Fail(span, err)
				return nil, err
			}
		}
	}

	// 4) Cascade rules from the final snapshot.
	final, _ := res.Final()
	rules, err := cascadeRules(final.Matches, stream, cfg.Alpha)
	if err != nil {
		telemetry.Fail(span, err)
		return nil, err
	}
	res.Rules = rules
	telemetry.RulesTotal.WithLabelValues(telemetry.MinerEmergent).Add(float64(len(rules)))

	return res, nil
}

// bucket is the slice of the stream sharing one bucket start.
type bucket struct {
	start  time.Time
	events []Event
}

// partition groups events by bucket start, in ascending time order. Events
// keep their input order inside a bucket.
func partition(events []Event, g Granularity) []bucket {
	idx := make(map[time.Time]int)
	var out []bucket
	for _, e := range events {
		k := g.Bucket(e.Time)
		i, ok := idx[k]
		if !ok {
			i = len(out)
			idx[k] = i
			out = append(out, bucket{start: k})
		}
		out[i].events = append(out[i].events, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].start.Before(out[j].start) })

	return out
}

// step processes one bucket and returns its snapshot.
func step(ctx context.Context, st *state, b bucket, stream map[string]int, cfg Options) (Snapshot, error) {
	_, span := telemetry.Start(ctx, tracer, "emergent.bucket",
		attribute.Int("events", len(b.events)),
		attribute.String("bucket", b.start.Format(time.RFC3339)),
	)
	begin := time.Now()

	// 1) + 2) Join against the old state and grow the match table.
	fresh := st.join(b.events, cfg.Relation, cfg.Threshold)
	st.matches = append(st.matches, fresh...)
	st.observe(b.events)

	// 3) + 4) Filter the cumulative table into the snapshot.
	pop := populations(st.seen)
	if cfg.Denominator == DenominatorStream {
		pop = stream
	}
	kept, err := survivors(st.matches, pop, cfg.Theta)
	if err != nil {
		telemetry.Step(span, telemetry.MinerEmergent, begin, 0, err)
		return Snapshot{}, err
	}

	// 5) The bucket becomes part of the old state.
	st.absorbEvents(b.events)

	telemetry.PrevalentTotal.WithLabelValues(telemetry.MinerEmergent).Add(float64(distinctPairs(kept)))
	telemetry.Step(span, telemetry.MinerEmergent, begin, len(fresh), nil)

	return Snapshot{Time: b.start, Matches: kept}, nil
}

// distinctPairs counts the (new, old) category groups in matches.
func distinctPairs(matches []Match) int {
	seen := make(map[pairKey]struct{})
	for _, m := range matches {
		seen[pairKey{m.New.Category, m.Old.Category}] = struct{}{}
	}

	return len(seen)
}
