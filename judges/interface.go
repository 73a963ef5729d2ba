/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judges

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"chainguard.dev/voiceval/judges/result"
)

// ErrMalformed marks a model response that violated the evaluation contract:
// a score outside [0, 1], missing required reasoning fields, or output that
// is not decodable JSON. Malformed responses are never retried.
var ErrMalformed = errors.New("malformed model response")

// TestCase is one executed voice-AI test step awaiting validation: the
// agent's produced response plus the outcome the test expected.
type TestCase struct {
	// Transcript is the agent's produced response text.
	Transcript string `json:"transcript" yaml:"transcript"`

	// Expected describes the outcome the test case was written to produce.
	Expected ExpectedOutcome `json:"expected_outcome" yaml:"expected_outcome"`
}

// ExpectedOutcome is the structured expectation for a test case.
type ExpectedOutcome struct {
	// Command is the intended action or command identifier.
	Command string `json:"command" yaml:"command"`

	// Entities are the entities the agent was expected to capture.
	Entities map[string]string `json:"entities,omitempty" yaml:"entities,omitempty"`

	// ResponsePatterns are acceptable response phrasings.
	ResponsePatterns []string `json:"response_patterns,omitempty" yaml:"response_patterns,omitempty"`
}

// Reasoning is the structured reasoning attached to every evaluation.
// It is a fixed shape rather than an open map so downstream consumers
// (decision logic, human-review tooling) can rely on the fields existing.
type Reasoning struct {
	// IntentAnalysis explains whether the agent understood the user's intent.
	IntentAnalysis string `json:"intent_analysis"`

	// CommandAssessment explains whether the right command/action was taken.
	CommandAssessment string `json:"command_assessment"`

	// ResponseQuality assesses the produced response text itself.
	ResponseQuality string `json:"response_quality"`

	// Concerns lists specific problems the judge identified.
	Concerns []string `json:"concerns,omitempty"`

	// Strengths lists what the response did well.
	Strengths []string `json:"strengths,omitempty"`
}

// Evaluation is a single judge's scored assessment of a test case.
type Evaluation struct {
	// Score is the judgment metric from 0.0 (failed entirely) to 1.0 (ideal).
	Score float64 `json:"score"`

	// Reasoning explains the score.
	Reasoning Reasoning `json:"reasoning"`

	// LatencyMs is the model call latency in milliseconds.
	LatencyMs int64 `json:"latency_ms"`
}

// Judge is an independent automated evaluator of voice-AI test cases.
// Implementations must be stateless and safe for concurrent use.
type Judge interface {
	// ID identifies this judge in results and logs.
	ID() string

	// Evaluate scores the test case. It fails cleanly (returns an error)
	// on timeout or malformed output rather than returning an out-of-range
	// score; malformed output errors match ErrMalformed.
	Evaluate(ctx context.Context, tc *TestCase) (*Evaluation, error)
}

// RecordedJudgment is a judge's recorded output handed to the curator.
// The curator reasons from this record; it never re-polls the judge.
type RecordedJudgment struct {
	JudgeID   string    `json:"judge_id"`
	Score     float64   `json:"score"`
	Reasoning Reasoning `json:"reasoning"`
}

// ReviewRequest asks a curator to break a tie between two disagreeing
// judgments of the same test case.
type ReviewRequest struct {
	Case      *TestCase        `json:"case"`
	JudgmentA RecordedJudgment `json:"judgment_a"`
	JudgmentB RecordedJudgment `json:"judgment_b"`
}

// Resolution is the curator's answer to a ReviewRequest. A nil
// ResolvedScore is an explicit refusal to decide; the curator never
// substitutes an arbitrary default.
type Resolution struct {
	// ResolvedScore is the curator's independent determination of the
	// correct score; nil when the curator declines to decide.
	ResolvedScore *float64 `json:"resolved_score,omitempty"`

	// Reasoning explains the resolution or the refusal.
	Reasoning string `json:"reasoning"`

	// LatencyMs is the model call latency in milliseconds.
	LatencyMs int64 `json:"latency_ms"`
}

// Curator is the third, independent evaluator invoked only for tie-breaks.
type Curator interface {
	// ID identifies this curator in results and logs.
	ID() string

	// Review produces a resolution from the recorded judgments plus the
	// original test case, at the cost of exactly one model call.
	Review(ctx context.Context, req *ReviewRequest) (*Resolution, error)
}

// Validate checks that a test case is well-formed enough to judge.
func (tc *TestCase) Validate() error {
	if tc == nil {
		return errors.New("test case cannot be nil")
	}
	if strings.TrimSpace(tc.Transcript) == "" {
		return errors.New("transcript is required")
	}
	if strings.TrimSpace(tc.Expected.Command) == "" {
		return errors.New("expected outcome command is required")
	}
	return nil
}

// evaluationPayload is the wire shape judges are prompted to return.
type evaluationPayload struct {
	Score             float64  `json:"score" jsonschema:"required"`
	IntentAnalysis    string   `json:"intent_analysis" jsonschema:"required"`
	CommandAssessment string   `json:"command_assessment" jsonschema:"required"`
	ResponseQuality   string   `json:"response_quality" jsonschema:"required"`
	Concerns          []string `json:"concerns"`
	Strengths         []string `json:"strengths"`
}

// toEvaluation validates the wire payload and converts it to an Evaluation.
func (p evaluationPayload) toEvaluation(latencyMs int64) (*Evaluation, error) {
	if !result.ValidScore(p.Score) {
		return nil, fmt.Errorf("%w: score %v outside [0, 1]", ErrMalformed, p.Score)
	}
	if strings.TrimSpace(p.IntentAnalysis) == "" ||
		strings.TrimSpace(p.CommandAssessment) == "" ||
		strings.TrimSpace(p.ResponseQuality) == "" {
		return nil, fmt.Errorf("%w: missing required reasoning fields", ErrMalformed)
	}
	return &Evaluation{
		Score: p.Score,
		Reasoning: Reasoning{
			IntentAnalysis:    p.IntentAnalysis,
			CommandAssessment: p.CommandAssessment,
			ResponseQuality:   p.ResponseQuality,
			Concerns:          p.Concerns,
			Strengths:         p.Strengths,
		},
		LatencyMs: latencyMs,
	}, nil
}

// resolutionPayload is the wire shape curators are prompted to return.
type resolutionPayload struct {
	Decisive      bool     `json:"decisive" jsonschema:"required"`
	ResolvedScore *float64 `json:"resolved_score"`
	Reasoning     string   `json:"reasoning" jsonschema:"required"`
}

// toResolution validates the wire payload and converts it to a Resolution.
func (p resolutionPayload) toResolution(latencyMs int64) (*Resolution, error) {
	if strings.TrimSpace(p.Reasoning) == "" {
		return nil, fmt.Errorf("%w: missing resolution reasoning", ErrMalformed)
	}
	if !p.Decisive {
		// Explicit refusal: no score at all.
		return &Resolution{Reasoning: p.Reasoning, LatencyMs: latencyMs}, nil
	}
	if p.ResolvedScore == nil {
		return nil, fmt.Errorf("%w: decisive resolution without a resolved score", ErrMalformed)
	}
	if !result.ValidScore(*p.ResolvedScore) {
		return nil, fmt.Errorf("%w: resolved score %v outside [0, 1]", ErrMalformed, *p.ResolvedScore)
	}
	score := *p.ResolvedScore
	return &Resolution{ResolvedScore: &score, Reasoning: p.Reasoning, LatencyMs: latencyMs}, nil
}
