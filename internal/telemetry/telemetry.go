// Package telemetry holds the prometheus collectors and OpenTelemetry tracers
// shared by the general and emergent miners.
package telemetry

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Miner labels.
const (
	MinerGeneral  = "general"
	MinerEmergent = "emergent"
)

var (
	// StepsTotal counts finalized levels (general) or time buckets (emergent).
	StepsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "colomine_steps_total",
		Help: "Finalized mining steps (levels or time buckets) by miner",
	}, []string{"miner"})

	// StepDuration tracks the latency of one level or bucket.
	StepDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "colomine_step_duration_seconds",
		Help:    "Duration of one mining level or time bucket in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 12), // 0.1ms to ~7min
	}, []string{"miner"})

	// CandidatesTotal counts candidate itemsets by outcome: admitted or pruned
	// by downward closure.
	CandidatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "colomine_candidates_total",
		Help: "Candidate itemsets by downward-closure outcome",
	}, []string{"outcome"})

	// PrevalentTotal counts itemsets (or category pairs) passing the theta filter.
	PrevalentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "colomine_prevalent_total",
		Help: "Prevalent patterns found by miner",
	}, []string{"miner"})

	// RulesTotal counts emitted rules.
	RulesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "colomine_rules_total",
		Help: "Rules emitted by miner",
	}, []string{"miner"})

	// RowsTotal counts table-instance rows (general) or matches (emergent) produced.
	RowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "colomine_rows_total",
		Help: "Table-instance rows or cascade matches produced by miner",
	}, []string{"miner"})
)

// Tracer returns the named tracer from the global provider.
func Tracer(name string) trace.Tracer {
	return otel.Tracer("colomine." + name)
}

// Step records one finalized level or bucket and closes its span.
// err, when non-nil, marks the span as failed.
func Step(span trace.Span, miner string, start time.Time, rows int, err error) {
	StepDuration.WithLabelValues(miner).Observe(time.Since(start).Seconds())
	if err != nil {
		Fail(span, err)
		return
	}
	StepsTotal.WithLabelValues(miner).Inc()
	RowsTotal.WithLabelValues(miner).Add(float64(rows))
	span.SetAttributes(attribute.Int("rows", rows))
	span.End()
}

// Fail marks span as failed and ends it.
func Fail(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.End()
}

// Start opens a span carrying attrs.
func Start(ctx context.Context, tr trace.Tracer, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tr.Start(ctx, name, trace.WithAttributes(attrs...))
}

// WriteMetrics dumps the default registry to path in the text exposition
// format, for node_exporter's textfile collector.
func WriteMetrics(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
