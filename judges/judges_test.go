/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judges

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEvaluationPayloadConversion(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		payload evaluationPayload
		want    *Evaluation
		wantErr bool
	}{{
		name: "valid",
		payload: evaluationPayload{
			Score:             0.9,
			IntentAnalysis:    "understood the request",
			CommandAssessment: "issued navigate with correct destination",
			ResponseQuality:   "clear confirmation",
			Strengths:         []string{"concise"},
		},
		want: &Evaluation{
			Score: 0.9,
			Reasoning: Reasoning{
				IntentAnalysis:    "understood the request",
				CommandAssessment: "issued navigate with correct destination",
				ResponseQuality:   "clear confirmation",
				Strengths:         []string{"concise"},
			},
			LatencyMs: 120,
		},
	}, {
		name: "score above range",
		payload: evaluationPayload{
			Score:             1.2,
			IntentAnalysis:    "a",
			CommandAssessment: "b",
			ResponseQuality:   "c",
		},
		wantErr: true,
	}, {
		name: "score below range",
		payload: evaluationPayload{
			Score:             -0.1,
			IntentAnalysis:    "a",
			CommandAssessment: "b",
			ResponseQuality:   "c",
		},
		wantErr: true,
	}, {
		name: "missing reasoning field",
		payload: evaluationPayload{
			Score:           0.5,
			IntentAnalysis:  "a",
			ResponseQuality: "c",
		},
		wantErr: true,
	}}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := tc.payload.toEvaluation(120)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				if !errors.Is(err, ErrMalformed) {
					t.Fatalf("expected ErrMalformed, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("toEvaluation: %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("toEvaluation mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolutionPayloadConversion(t *testing.T) {
	t.Parallel()
	score := 0.85

	t.Run("decisive", func(t *testing.T) {
		t.Parallel()
		res, err := resolutionPayload{Decisive: true, ResolvedScore: &score, Reasoning: "judge A read the entity correctly"}.toResolution(80)
		if err != nil {
			t.Fatalf("toResolution: %v", err)
		}
		if res.ResolvedScore == nil || *res.ResolvedScore != 0.85 {
			t.Fatalf("expected resolved score 0.85, got %v", res.ResolvedScore)
		}
	})

	t.Run("refusal keeps nil score", func(t *testing.T) {
		t.Parallel()
		res, err := resolutionPayload{Decisive: false, Reasoning: "genuinely ambiguous transcript"}.toResolution(80)
		if err != nil {
			t.Fatalf("toResolution: %v", err)
		}
		if res.ResolvedScore != nil {
			t.Fatalf("expected nil resolved score on refusal, got %v", *res.ResolvedScore)
		}
		if res.Reasoning == "" {
			t.Fatal("expected refusal reasoning to be preserved")
		}
	})

	t.Run("decisive without score is malformed", func(t *testing.T) {
		t.Parallel()
		_, err := resolutionPayload{Decisive: true, Reasoning: "x"}.toResolution(80)
		if !errors.Is(err, ErrMalformed) {
			t.Fatalf("expected ErrMalformed, got %v", err)
		}
	})

	t.Run("out of range score is malformed", func(t *testing.T) {
		t.Parallel()
		bad := 1.5
		_, err := resolutionPayload{Decisive: true, ResolvedScore: &bad, Reasoning: "x"}.toResolution(80)
		if !errors.Is(err, ErrMalformed) {
			t.Fatalf("expected ErrMalformed, got %v", err)
		}
	})

	t.Run("missing reasoning is malformed", func(t *testing.T) {
		t.Parallel()
		_, err := resolutionPayload{Decisive: true, ResolvedScore: &score}.toResolution(80)
		if !errors.Is(err, ErrMalformed) {
			t.Fatalf("expected ErrMalformed, got %v", err)
		}
	})
}

func TestTestCaseValidate(t *testing.T) {
	t.Parallel()
	valid := &TestCase{
		Transcript: "Navigating to the office now.",
		Expected:   ExpectedOutcome{Command: "navigate"},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid test case, got %v", err)
	}

	var nilCase *TestCase
	if err := nilCase.Validate(); err == nil {
		t.Error("expected error for nil test case")
	}
	if err := (&TestCase{Expected: ExpectedOutcome{Command: "navigate"}}).Validate(); err == nil {
		t.Error("expected error for empty transcript")
	}
	if err := (&TestCase{Transcript: "hi"}).Validate(); err == nil {
		t.Error("expected error for missing expected command")
	}
}

func TestBindJudgePrompt(t *testing.T) {
	t.Parallel()
	out, err := bindJudgePrompt(&TestCase{
		Transcript: "Calling Alice on mobile.",
		Expected: ExpectedOutcome{
			Command:  "call",
			Entities: map[string]string{"contact": "Alice"},
		},
	})
	if err != nil {
		t.Fatalf("bindJudgePrompt: %v", err)
	}
	for _, want := range []string{"Calling Alice on mobile.", `"command": "call"`, `"contact": "Alice"`, "SCORING RUBRIC"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected prompt to contain %q", want)
		}
	}
}

func TestBindCuratorPrompt(t *testing.T) {
	t.Parallel()
	out, err := bindCuratorPrompt(&ReviewRequest{
		Case: &TestCase{
			Transcript: "Setting an alarm for 7am.",
			Expected:   ExpectedOutcome{Command: "set_alarm"},
		},
		JudgmentA: RecordedJudgment{JudgeID: "claude-judge", Score: 0.95},
		JudgmentB: RecordedJudgment{JudgeID: "gemini-judge", Score: 0.60},
	})
	if err != nil {
		t.Fatalf("bindCuratorPrompt: %v", err)
	}
	for _, want := range []string{"Setting an alarm for 7am.", "claude-judge", "gemini-judge", `"decisive"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected prompt to contain %q", want)
		}
	}
}

func TestNewVertexUnsupportedModel(t *testing.T) {
	t.Parallel()
	if _, err := NewVertex(context.Background(), "project", "us-central1", "llama-3"); err == nil {
		t.Fatal("expected error for unsupported model")
	}
}

func TestRetryClassifiers(t *testing.T) {
	t.Parallel()
	if isRetryableVertexError(nil) {
		t.Error("nil error must not be retryable")
	}
	if !isRetryableVertexError(errors.New("rpc error: code = 429 RESOURCE_EXHAUSTED")) {
		t.Error("quota error should be retryable")
	}
	if isRetryableVertexError(errors.New("invalid argument")) {
		t.Error("invalid argument should not be retryable")
	}
	if isRetryableClaudeError(errors.New("plain error")) {
		t.Error("non-API error should not be retryable")
	}
	if isRetryableOpenAIError(errors.New("plain error")) {
		t.Error("non-API error should not be retryable")
	}
}
