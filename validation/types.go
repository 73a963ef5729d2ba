/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package validation

import (
	"time"

	"chainguard.dev/voiceval/judges"
)

// Status is the terminal outcome of one pipeline run.
type Status string

const (
	// StatusPass means the final score met the pass threshold.
	StatusPass Status = "pass"
	// StatusFail means the final score fell below the pass threshold.
	StatusFail Status = "fail"
	// StatusHumanReview means the case could not be automatically resolved
	// with confidence and requires manual adjudication. It is a distinct
	// terminal state, not an annotation on pass/fail.
	StatusHumanReview Status = "human_review"
)

// Confidence describes how much automated arbitration was needed to reach
// the final score.
type Confidence string

const (
	// ConfidenceHigh: both judges agreed within the consensus threshold.
	ConfidenceHigh Confidence = "high"
	// ConfidenceMedium: a curator had to break a tie.
	ConfidenceMedium Confidence = "medium"
	// ConfidenceLow: the case escalated past automated arbitration.
	ConfidenceLow Confidence = "low"
)

// rank orders confidence labels: high > medium > low.
func (c Confidence) rank() int {
	switch c {
	case ConfidenceHigh:
		return 3
	case ConfidenceMedium:
		return 2
	default:
		return 1
	}
}

// Classification is the arbiter's reading of a judgment pair.
type Classification string

const (
	// ClassificationAgreeing: the difference is noise; average the scores.
	ClassificationAgreeing Classification = "agreeing"
	// ClassificationTieBreakEligible: moderate disagreement; a third
	// opinion can resolve it.
	ClassificationTieBreakEligible Classification = "tie_break_eligible"
	// ClassificationIrreconcilable: the case itself is ambiguous (or a
	// judge failed outright); no automated arbitration should mask that.
	ClassificationIrreconcilable Classification = "irreconcilable"
)

// Stage is one node of the per-invocation state machine. The machine is a
// strict DAG: no stage is ever revisited.
type Stage string

const (
	StagePending          Stage = "PENDING"
	StageEvaluated        Stage = "EVALUATED"
	StageConsensusChecked Stage = "CONSENSUS_CHECKED"
	StageAccepted         Stage = "ACCEPTED"
	StageCuratorReview    Stage = "CURATOR_REVIEW"
	StageResolved         Stage = "RESOLVED"
	StageEscalated        Stage = "ESCALATED"
	StageAssembled        Stage = "ASSEMBLED"
)

// JudgmentResult is one judge's settled outcome for one invocation,
// including the failure case. Immutable after creation.
type JudgmentResult struct {
	// JudgeID identifies which judge produced this result.
	JudgeID string `json:"judge_id"`

	// Score is the judgment metric in [0, 1]. Only meaningful when
	// Succeeded is true.
	Score float64 `json:"score"`

	// Reasoning is the judge's structured reasoning.
	Reasoning judges.Reasoning `json:"reasoning"`

	// LatencyMs is the judge call latency in milliseconds, including
	// retries.
	LatencyMs int64 `json:"latency_ms"`

	// Succeeded is false when the judge exhausted retries or returned a
	// malformed response.
	Succeeded bool `json:"succeeded"`

	// ErrorDetail explains a failure; empty on success.
	ErrorDetail string `json:"error_detail,omitempty"`
}

// ConsensusOutcome is the arbiter's deterministic comparison of exactly two
// judgment results.
type ConsensusOutcome struct {
	// ScoreDifference is |scoreA - scoreB|. Zero when either judge failed.
	ScoreDifference float64 `json:"score_difference"`

	// Classification is the consensus class of the pair.
	Classification Classification `json:"classification"`

	// AveragedScore is (scoreA + scoreB) / 2, present only when the
	// classification is agreeing.
	AveragedScore *float64 `json:"averaged_score,omitempty"`
}

// CuratorVerdict is the curator's settled outcome, produced at most once per
// invocation and only for tie-break-eligible pairs.
type CuratorVerdict struct {
	// CuratorID identifies which curator produced this verdict.
	CuratorID string `json:"curator_id"`

	// ResolvedScore is the curator's independent determination of the
	// correct score; nil when the curator refused or failed.
	ResolvedScore *float64 `json:"resolved_score,omitempty"`

	// Reasoning explains the resolution or the refusal.
	Reasoning string `json:"reasoning,omitempty"`

	// LatencyMs is the curator call latency in milliseconds, including
	// retries.
	LatencyMs int64 `json:"latency_ms"`

	// Succeeded is false when the curator refused to decide, timed out,
	// or errored after retries.
	Succeeded bool `json:"succeeded"`

	// ErrorDetail explains a failure or refusal; empty on success.
	ErrorDetail string `json:"error_detail,omitempty"`
}

// ValidationResult is the immutable, fully-traceable record of one pipeline
// run. Ownership passes entirely to the caller; the pipeline retains no
// reference.
type ValidationResult struct {
	// ID uniquely identifies this validation run.
	ID string `json:"id"`

	// FinalScore is the authoritative score: the consensus average or the
	// curator's resolution. Nil exactly when the run escalated with no
	// authoritative score - it is never a silently-invented value.
	FinalScore *float64 `json:"final_score,omitempty"`

	// Status is the terminal outcome.
	Status Status `json:"status"`

	// Confidence labels how much arbitration the run needed.
	Confidence Confidence `json:"confidence"`

	// Judgments are the two judge results, in invocation order.
	Judgments [2]JudgmentResult `json:"judgments"`

	// Consensus is the arbiter's comparison of the judgments.
	Consensus ConsensusOutcome `json:"consensus"`

	// CuratorVerdict is present iff the pair was tie-break-eligible.
	CuratorVerdict *CuratorVerdict `json:"curator_verdict,omitempty"`

	// Stages is the ordered trail through the invocation state machine.
	Stages []Stage `json:"stages"`

	// CreatedAt is when the result was assembled.
	CreatedAt time.Time `json:"created_at"`

	// DurationMs is the total wall time of the run in milliseconds.
	DurationMs int64 `json:"duration_ms"`
}
