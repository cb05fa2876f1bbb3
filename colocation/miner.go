package colocation

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/katalvlaran/colomine/internal/telemetry"
)

var tracer = telemetry.Tracer("colocation")

// Mine runs the level-wise colocation search over instances.
//
// Level 1 holds every category as a prevalent singleton (prevalence 1) and
// the size-1 table of all instances. Each following level k+1:
//
//  1. generates candidates from the prevalent size-k itemsets with
//     downward-closure pruning (GenerateCandidates);
//  2. grows the size-k table into the size-(k+1) table instance;
//  3. keeps itemsets whose prevalence is at least Theta;
//  4. derives rules whose conditional probability exceeds Alpha.
//
// Mining stops once a level has no prevalent itemsets or MaxK is reached.
// Category totals are computed once, before level 1.
//
// Empty input yields an empty Result and no error.
// ctx is checked between levels and inside every shard.
//
// Errors:
//
//   - ErrInvalidK, ErrInvalidTheta, ErrInvalidAlpha, ErrInvalidThreshold,
//     ErrInvalidWorkers for bad options (checked in that order).
//   - *InsufficientSupportError instead of a NaN ratio.
//   - ctx.Err() on cancellation; any error returned by the level hook.
func Mine(ctx context.Context, instances []Instance, opts ...Option) (*Result, error) {
	// 1) Build and validate options.
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	res := &Result{}
	if len(instances) == 0 {
		return res, nil
	}

	ctx, span := telemetry.Start(ctx, tracer, "colocation.Mine",
		attribute.Int("instances", len(instances)),
		attribute.Int("max_k", cfg.MaxK),
		attribute.String("relation", cfg.Relation.String()),
	)
	defer span.End()

	m := &miner{cfg: cfg, counts: categoryCounts(instances), res: res, start: time.Now()}

	// 2) Level 1: every category is trivially prevalent.
	if err := m.seed(ctx, instances); err != nil {
		telemetry.Fail(span, err)
		return nil, err
	}

	// 3) Grow one level at a time; level k+1 starts only after k is final.
	for k := 1; k < cfg.MaxK && len(m.last().Prevalent) > 0; k++ {
		if err := ctx.Err(); err != nil {
			telemetry.Fail(span, err)
			return nil, err
		}
		if err := m.grow(ctx); err != nil {
			telemetry.Fail(span, err)
			return nil, err
		}
	}
	sortRules(res.Rules)

	return res, nil
}

// miner owns the mutable state of one Mine call.
type miner struct {
	cfg    Options
	counts map[string]int
	res    *Result
	start  time.Time
}

func (m *miner) last() Level { return m.res.Levels[len(m.res.Levels)-1] }

// seed finalizes level 1.
func (m *miner) seed(ctx context.Context, instances []Instance) error {
	_, span := telemetry.Start(ctx, tracer, "colocation.level", attribute.Int("k", 1))
	begin := time.Now()

	t1 := seedTable(instances)
	lvl := Level{K: 1, Table: t1}
	for _, g := range groupRows(t1.Rows) {
		lvl.Candidates = append(lvl.Candidates, g.items)
		lvl.Prevalent = append(lvl.Prevalent, Colocation{
			Items:      g.items,
			Rows:       g.rows,
			Prevalence: 1,
			Size:       len(g.rows),
		})
	}

	err := m.finalize(lvl)
	telemetry.Step(span, telemetry.MinerGeneral, begin, t1.Len(), err)

	return err
}

// grow computes level k+1 from the last finalized level k.
func (m *miner) grow(ctx context.Context) error {
	prev := m.last()
	k := prev.K
	ctx, span := telemetry.Start(ctx, tracer, "colocation.level", attribute.Int("k", k+1))
	begin := time.Now()

	// 1) Candidates with downward-closure pruning.
	items := make([]Itemset, len(prev.Prevalent))
	prevalentKeys := make(map[string]struct{}, len(prev.Prevalent))
	for i, c := range prev.Prevalent {
		items[i] = c.Items
		prevalentKeys[c.Items.Key()] = struct{}{}
	}
	candidates, pruned := GenerateCandidates(items)
	telemetry.CandidatesTotal.WithLabelValues("admitted").Add(float64(len(candidates)))
	telemetry.CandidatesTotal.WithLabelValues("pruned").Add(float64(pruned))

	candidateKeys := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		candidateKeys[c.Key()] = struct{}{}
	}

	// 2) Table instance of size k+1.
	table, err := buildTable(ctx, prev.Table, joinSpec{
		relation:   m.cfg.Relation,
		threshold:  m.cfg.Threshold,
		workers:    m.cfg.Workers,
		prevalent:  prevalentKeys,
		candidates: candidateKeys,
	})
	if err != nil {
		telemetry.Step(span, telemetry.MinerGeneral, begin, 0, err)
		return err
	}

	// 3) Prevalence filter.
	found, err := selectPrevalent(ctx, table, m.counts, m.cfg.Theta, m.cfg.Workers)
	if err != nil {
		telemetry.Step(span, telemetry.MinerGeneral, begin, 0, err)
		return err
	}

	// 4) Rules against the complete size-k table.
	rules, err := generateRules(found, prev.Table, m.cfg.Alpha)
	if err != nil {
		telemetry.Step(span, telemetry.MinerGeneral, begin, 0, err)
		return err
	}
	sortRules(rules)

	err = m.finalize(Level{
		K:          k + 1,
		Candidates: candidates,
		Table:      table,
		Prevalent:  found,
		Rules:      rules,
	})
	telemetry.Step(span, telemetry.MinerGeneral, begin, table.Len(), err)

	return err
}

// finalize appends lvl to the result, reports it and hands it to the hook.
func (m *miner) finalize(lvl Level) error {
	m.res.Levels = append(m.res.Levels, lvl)
	m.res.Rules = append(m.res.Rules, lvl.Rules...)
	telemetry.PrevalentTotal.WithLabelValues(telemetry.MinerGeneral).Add(float64(len(lvl.Prevalent)))
	telemetry.RulesTotal.WithLabelValues(telemetry.MinerGeneral).Add(float64(len(lvl.Rules)))

	m.cfg.Logger.Debug("colocation level finalized",
		slog.Int("k", lvl.K),
		slog.Int("candidates", len(lvl.Candidates)),
		slog.Int("prevalent", len(lvl.Prevalent)),
		slog.Int("rules", len(lvl.Rules)),
		slog.Int("rows", lvl.Table.Len()),
		slog.Duration("elapsed", time.Since(m.start)),
	)

	if m.cfg.OnLevel != nil {
		return m.cfg.OnLevel(lvl)
	}

	return nil
}
