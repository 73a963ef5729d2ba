/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package metrics provides OpenTelemetry instruments for judge and curator
// model calls.
package metrics

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// AttributeEnricher lets the embedding application add contextual attributes
// (e.g. suite name, test step, tenant) to every recorded metric.
type AttributeEnricher func(ctx context.Context, attrs []attribute.KeyValue) []attribute.KeyValue

// JudgeCalls provides OpenTelemetry metrics for judge/curator invocations:
// call counts, failures, scores, and latency. Instrument creation degrades
// gracefully to no-ops so a broken meter never takes the pipeline down.
type JudgeCalls struct {
	meter        metric.Meter
	calls        metric.Int64Counter
	failures     metric.Int64Counter
	latency      metric.Float64Histogram
	score        metric.Float64Histogram
	attrEnricher AttributeEnricher
}

// NewJudgeCalls creates a metrics instance with the specified meter name.
// The meter name should be unified across all judge backends (e.g.
// "chainguard.ai.voiceval") with the model name as a dimension on the
// recorded metrics.
func NewJudgeCalls(meterName string) *JudgeCalls {
	meter := otel.Meter(meterName, metric.WithInstrumentationVersion("1.0.0"))

	calls, err := meter.Int64Counter("judge.calls",
		metric.WithDescription("The number of judge/curator model calls"),
		metric.WithUnit("{calls}"))
	if err != nil {
		slog.Warn("Failed to create call counter, metrics will be disabled", "error", err, "meter", meterName)
		calls = noop.Int64Counter{}
	}

	failures, err := meter.Int64Counter("judge.failures",
		metric.WithDescription("The number of failed judge/curator model calls"),
		metric.WithUnit("{calls}"))
	if err != nil {
		slog.Warn("Failed to create failure counter, metrics will be disabled", "error", err, "meter", meterName)
		failures = noop.Int64Counter{}
	}

	latency, err := meter.Float64Histogram("judge.latency",
		metric.WithDescription("Judge/curator call latency"),
		metric.WithUnit("ms"))
	if err != nil {
		slog.Warn("Failed to create latency histogram, metrics will be disabled", "error", err, "meter", meterName)
		latency = noop.Float64Histogram{}
	}

	score, err := meter.Float64Histogram("judge.score",
		metric.WithDescription("Scores returned by judge/curator calls"),
		metric.WithUnit("1"))
	if err != nil {
		slog.Warn("Failed to create score histogram, metrics will be disabled", "error", err, "meter", meterName)
		score = noop.Float64Histogram{}
	}

	return &JudgeCalls{
		meter:    meter,
		calls:    calls,
		failures: failures,
		latency:  latency,
		score:    score,
	}
}

// SetAttributeEnricher sets the attribute enricher for this metrics instance.
func (m *JudgeCalls) SetAttributeEnricher(enricher AttributeEnricher) {
	m.attrEnricher = enricher
}

// base assembles the model attribute plus any enriched attributes.
func (m *JudgeCalls) base(ctx context.Context, model string, attrs []attribute.KeyValue) []attribute.KeyValue {
	out := []attribute.KeyValue{attribute.String("model", model)}
	if m.attrEnricher != nil {
		out = m.attrEnricher(ctx, out)
	}
	return append(out, attrs...)
}

// RecordCall records a completed model call with its latency and score.
func (m *JudgeCalls) RecordCall(ctx context.Context, model string, latencyMs float64, score float64, attrs ...attribute.KeyValue) {
	all := m.base(ctx, model, attrs)
	m.calls.Add(ctx, 1, metric.WithAttributes(all...))
	m.latency.Record(ctx, latencyMs, metric.WithAttributes(all...))
	m.score.Record(ctx, score, metric.WithAttributes(all...))
}

// RecordFailure records a failed model call with its latency.
func (m *JudgeCalls) RecordFailure(ctx context.Context, model string, latencyMs float64, attrs ...attribute.KeyValue) {
	all := m.base(ctx, model, attrs)
	m.calls.Add(ctx, 1, metric.WithAttributes(all...))
	m.failures.Add(ctx, 1, metric.WithAttributes(all...))
	m.latency.Record(ctx, latencyMs, metric.WithAttributes(all...))
}
