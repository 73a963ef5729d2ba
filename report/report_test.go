/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package report

import (
	"strings"
	"testing"

	"chainguard.dev/voiceval/validation"
)

func ptr(f float64) *float64 { return &f }

func passResult(id string, score float64) *validation.ValidationResult {
	return &validation.ValidationResult{
		ID:         id,
		FinalScore: ptr(score),
		Status:     validation.StatusPass,
		Confidence: validation.ConfidenceHigh,
		Consensus:  validation.ConsensusOutcome{Classification: validation.ClassificationAgreeing},
		Judgments: [2]validation.JudgmentResult{
			{JudgeID: "claude-judge", Score: score, Succeeded: true},
			{JudgeID: "gemini-judge", Score: score, Succeeded: true},
		},
		DurationMs: 1200,
	}
}

func escalatedResult(id string) *validation.ValidationResult {
	return &validation.ValidationResult{
		ID:         id,
		Status:     validation.StatusHumanReview,
		Confidence: validation.ConfidenceLow,
		Consensus: validation.ConsensusOutcome{
			Classification:  validation.ClassificationIrreconcilable,
			ScoreDifference: 0.55,
		},
		Judgments: [2]validation.JudgmentResult{
			{JudgeID: "claude-judge", Score: 0.95, Succeeded: true},
			{JudgeID: "gemini-judge", Score: 0.40, Succeeded: true},
		},
		DurationMs: 1800,
	}
}

func TestSummary_AllPassing(t *testing.T) {
	t.Parallel()
	out, hasFailure := Summary([]*validation.ValidationResult{
		passResult("aaaaaaaa-1111", 0.91),
		passResult("bbbbbbbb-2222", 0.88),
	})
	if hasFailure {
		t.Error("all-passing batch must not report failure")
	}
	if !strings.Contains(out, "2 validated: 2 passed, 0 failed, 0 for human review") {
		t.Errorf("missing aggregate line:\n%s", out)
	}
	if strings.Contains(out, "Human Review Queue") {
		t.Error("no review queue expected for a passing batch")
	}
	if !strings.Contains(out, "aaaaaaaa") || !strings.Contains(out, "0.91") {
		t.Errorf("missing result row:\n%s", out)
	}
}

func TestSummary_EscalationsListed(t *testing.T) {
	t.Parallel()
	out, hasFailure := Summary([]*validation.ValidationResult{
		passResult("aaaaaaaa-1111", 0.91),
		escalatedResult("cccccccc-3333"),
	})
	if !hasFailure {
		t.Error("escalated batch must report failure")
	}
	if !strings.Contains(out, "Human Review Queue") {
		t.Fatalf("expected review queue section:\n%s", out)
	}
	for _, want := range []string{"cccccccc", "irreconcilable disagreement", "claude-judge scored 0.95", "gemini-judge scored 0.40"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected queue to contain %q:\n%s", want, out)
		}
	}
}

func TestSummary_JudgeFailureReason(t *testing.T) {
	t.Parallel()
	res := escalatedResult("dddddddd-4444")
	res.Judgments[1] = validation.JudgmentResult{
		JudgeID:     "gemini-judge",
		Succeeded:   false,
		ErrorDetail: "judge_evaluate failed after 2 attempts: 503",
	}
	out, _ := Summary([]*validation.ValidationResult{res})
	if !strings.Contains(out, "judge failure") {
		t.Errorf("expected judge failure reason:\n%s", out)
	}
	if !strings.Contains(out, "gemini-judge failed") {
		t.Errorf("expected failed judge detail:\n%s", out)
	}
}

func TestSummary_Empty(t *testing.T) {
	t.Parallel()
	out, hasFailure := Summary(nil)
	if hasFailure {
		t.Error("empty batch must not report failure")
	}
	if !strings.Contains(out, "0 validated") {
		t.Errorf("expected empty aggregate line:\n%s", out)
	}
}
