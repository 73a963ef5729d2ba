/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package validation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"chainguard.dev/voiceval/judges"
)

var tracer = otel.Tracer("chainguard.dev/voiceval/validation")

// Pipeline orchestrates one validation run: two parallel judges, the
// consensus arbiter, the curator tie-break when eligible, and result
// assembly. A Pipeline is immutable after construction and safe for
// concurrent use; each Validate call is fully independent.
type Pipeline struct {
	cfg     Config
	judges  [2]judges.Judge
	curator judges.Curator
	clock   func() time.Time
}

// PipelineOption customizes pipeline construction.
type PipelineOption func(*Pipeline)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) PipelineOption {
	return func(p *Pipeline) { p.clock = now }
}

// NewPipeline builds a pipeline over exactly two judges and one curator.
// The judge pair should use distinct underlying models so their errors are
// uncorrelated, but that is a deployment concern; the pipeline only
// requires two of them.
func NewPipeline(cfg Config, judgeA, judgeB judges.Judge, curator judges.Curator, opts ...PipelineOption) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pipeline config: %w", err)
	}
	if judgeA == nil || judgeB == nil {
		return nil, errors.New("pipeline requires two judges")
	}
	if curator == nil {
		return nil, errors.New("pipeline requires a curator")
	}

	p := &Pipeline{
		cfg:     cfg,
		judges:  [2]judges.Judge{judgeA, judgeB},
		curator: curator,
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Validate runs the full consensus pipeline for one executed test case and
// returns its immutable result. Model failures and deadline expiry never
// surface as an error: they settle into the result as human-review
// escalations. The returned error is non-nil only for caller mistakes such
// as an invalid test case.
func (p *Pipeline) Validate(ctx context.Context, tc *judges.TestCase) (*ValidationResult, error) {
	if err := tc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid test case: %w", err)
	}

	if p.cfg.OverallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.OverallTimeout)
		defer cancel()
	}

	ctx, span := tracer.Start(ctx, "validation.Validate")
	defer span.End()

	start := p.clock()
	id := uuid.NewString()
	log := clog.FromContext(ctx).With("validation_id", id)
	ctx = clog.WithLogger(ctx, log)

	stages := []Stage{StagePending}

	judgments := p.invokeJudges(ctx, tc)
	stages = append(stages, StageEvaluated)

	consensus := classifyConsensus(p.cfg, judgments[0], judgments[1])
	stages = append(stages, StageConsensusChecked)
	span.AddEvent("consensus", trace.WithAttributes(
		attribute.String("classification", string(consensus.Classification)),
		attribute.Float64("score_difference", consensus.ScoreDifference),
	))

	var verdict *CuratorVerdict
	switch consensus.Classification {
	case ClassificationAgreeing:
		stages = append(stages, StageAccepted)
	case ClassificationTieBreakEligible:
		stages = append(stages, StageCuratorReview)
		verdict = p.invokeCurator(ctx, tc, judgments[0], judgments[1])
		if verdict.Succeeded {
			stages = append(stages, StageResolved)
		} else {
			stages = append(stages, StageEscalated)
		}
	default:
		stages = append(stages, StageEscalated)
	}

	d := decide(p.cfg, consensus, verdict)
	stages = append(stages, StageAssembled)

	now := p.clock()
	res := &ValidationResult{
		ID:             id,
		FinalScore:     d.finalScore,
		Status:         d.status,
		Confidence:     d.confidence,
		Judgments:      judgments,
		Consensus:      consensus,
		CuratorVerdict: verdict,
		Stages:         stages,
		CreatedAt:      now,
		DurationMs:     now.Sub(start).Milliseconds(),
	}

	span.SetAttributes(
		attribute.String("status", string(res.Status)),
		attribute.String("confidence", string(res.Confidence)),
	)
	recordRun(res)

	log.With("status", res.Status).
		With("confidence", res.Confidence).
		With("classification", consensus.Classification).
		With("duration_ms", res.DurationMs).
		Info("Validation run complete")

	return res, nil
}
