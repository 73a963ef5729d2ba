/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package validation

import (
	"context"
	"errors"

	"github.com/chainguard-dev/clog"
	"golang.org/x/sync/errgroup"

	"chainguard.dev/voiceval/judges"
	"chainguard.dev/voiceval/judges/retry"
)

// retryableModelError retries everything except a malformed response.
// Re-asking a model that violated the output contract does not fix the
// contract; re-asking one that hit a rate limit or timed out might.
func retryableModelError(err error) bool {
	return err != nil && !errors.Is(err, judges.ErrMalformed)
}

// invokeJudges runs both judges in parallel against the same test case and
// waits for both to settle. A judge failure never aborts the run or the
// other judge; it settles as a JudgmentResult with Succeeded=false. The
// returned results are in the pipeline's judge order.
func (p *Pipeline) invokeJudges(ctx context.Context, tc *judges.TestCase) [2]JudgmentResult {
	var results [2]JudgmentResult

	g, gctx := errgroup.WithContext(ctx)
	for i, judge := range p.judges {
		g.Go(func() error {
			results[i] = p.invokeJudge(gctx, judge, tc)
			// Failures settle into the result; never propagate, so one
			// judge's failure cannot cancel the other's context.
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// invokeJudge runs one judge with per-attempt timeout and retry, settling
// every outcome (including failure) into a JudgmentResult.
func (p *Pipeline) invokeJudge(ctx context.Context, judge judges.Judge, tc *judges.TestCase) JudgmentResult {
	cfg := retry.DefaultConfig()
	cfg.MaxAttempts = p.cfg.JudgeRetries

	start := p.clock()
	eval, err := retry.WithBackoff(ctx, cfg, "judge_evaluate", retryableModelError, func() (*judges.Evaluation, error) {
		attemptCtx, cancel := context.WithTimeout(ctx, p.cfg.JudgeTimeout)
		defer cancel()
		return judge.Evaluate(attemptCtx, tc)
	})
	latency := p.clock().Sub(start).Milliseconds()

	if err != nil {
		clog.FromContext(ctx).With("judge", judge.ID()).With("error", err.Error()).
			Warn("Judge failed to settle")
		return JudgmentResult{
			JudgeID:     judge.ID(),
			LatencyMs:   latency,
			Succeeded:   false,
			ErrorDetail: err.Error(),
		}
	}

	return JudgmentResult{
		JudgeID:   judge.ID(),
		Score:     eval.Score,
		Reasoning: eval.Reasoning,
		LatencyMs: latency,
		Succeeded: true,
	}
}

// invokeCurator runs the curator exactly once (plus configured retries) for a
// tie-break-eligible pair. A refusal (nil resolved score) and a hard failure
// both settle as Succeeded=false; the distinction is preserved in the detail.
func (p *Pipeline) invokeCurator(ctx context.Context, tc *judges.TestCase, a, b JudgmentResult) *CuratorVerdict {
	req := &judges.ReviewRequest{
		Case:      tc,
		JudgmentA: judges.RecordedJudgment{JudgeID: a.JudgeID, Score: a.Score, Reasoning: a.Reasoning},
		JudgmentB: judges.RecordedJudgment{JudgeID: b.JudgeID, Score: b.Score, Reasoning: b.Reasoning},
	}

	cfg := retry.DefaultConfig()
	cfg.MaxAttempts = p.cfg.CuratorRetries

	start := p.clock()
	res, err := retry.WithBackoff(ctx, cfg, "curator_review", retryableModelError, func() (*judges.Resolution, error) {
		attemptCtx, cancel := context.WithTimeout(ctx, p.cfg.CuratorTimeout)
		defer cancel()
		return p.curator.Review(attemptCtx, req)
	})
	latency := p.clock().Sub(start).Milliseconds()

	if err != nil {
		clog.FromContext(ctx).With("curator", p.curator.ID()).With("error", err.Error()).
			Warn("Curator failed to settle")
		return &CuratorVerdict{
			CuratorID:   p.curator.ID(),
			LatencyMs:   latency,
			Succeeded:   false,
			ErrorDetail: err.Error(),
		}
	}

	if res.ResolvedScore == nil {
		// Explicit refusal: a well-formed answer, but not a resolution.
		return &CuratorVerdict{
			CuratorID:   p.curator.ID(),
			Reasoning:   res.Reasoning,
			LatencyMs:   latency,
			Succeeded:   false,
			ErrorDetail: "curator declined to decide",
		}
	}

	score := *res.ResolvedScore
	return &CuratorVerdict{
		CuratorID:     p.curator.ID(),
		ResolvedScore: &score,
		Reasoning:     res.Reasoning,
		LatencyMs:     latency,
		Succeeded:     true,
	}
}
