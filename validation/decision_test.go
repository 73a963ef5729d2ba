/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package validation

import "testing"

func ptr(f float64) *float64 { return &f }

func TestDecide(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()

	tests := []struct {
		name       string
		consensus  ConsensusOutcome
		verdict    *CuratorVerdict
		wantScore  *float64
		wantStatus Status
		wantConf   Confidence
	}{{
		name:       "agreeing above pass threshold",
		consensus:  ConsensusOutcome{Classification: ClassificationAgreeing, AveragedScore: ptr(0.91)},
		wantScore:  ptr(0.91),
		wantStatus: StatusPass,
		wantConf:   ConfidenceHigh,
	}, {
		name:       "agreeing exactly at pass threshold passes",
		consensus:  ConsensusOutcome{Classification: ClassificationAgreeing, AveragedScore: ptr(0.80)},
		wantScore:  ptr(0.80),
		wantStatus: StatusPass,
		wantConf:   ConfidenceHigh,
	}, {
		name:       "agreeing below pass threshold fails",
		consensus:  ConsensusOutcome{Classification: ClassificationAgreeing, AveragedScore: ptr(0.60)},
		wantScore:  ptr(0.60),
		wantStatus: StatusFail,
		wantConf:   ConfidenceHigh,
	}, {
		name:       "curator resolution passes with medium confidence",
		consensus:  ConsensusOutcome{Classification: ClassificationTieBreakEligible, ScoreDifference: 0.35},
		verdict:    &CuratorVerdict{Succeeded: true, ResolvedScore: ptr(0.85)},
		wantScore:  ptr(0.85),
		wantStatus: StatusPass,
		wantConf:   ConfidenceMedium,
	}, {
		name:       "curator resolution can fail the case",
		consensus:  ConsensusOutcome{Classification: ClassificationTieBreakEligible, ScoreDifference: 0.35},
		verdict:    &CuratorVerdict{Succeeded: true, ResolvedScore: ptr(0.55)},
		wantScore:  ptr(0.55),
		wantStatus: StatusFail,
		wantConf:   ConfidenceMedium,
	}, {
		name:       "curator refusal escalates",
		consensus:  ConsensusOutcome{Classification: ClassificationTieBreakEligible, ScoreDifference: 0.35},
		verdict:    &CuratorVerdict{Succeeded: false, ErrorDetail: "curator declined to decide"},
		wantStatus: StatusHumanReview,
		wantConf:   ConfidenceLow,
	}, {
		name:       "curator failure escalates",
		consensus:  ConsensusOutcome{Classification: ClassificationTieBreakEligible, ScoreDifference: 0.35},
		verdict:    &CuratorVerdict{Succeeded: false, ErrorDetail: "curator_review failed after 2 attempts: 503"},
		wantStatus: StatusHumanReview,
		wantConf:   ConfidenceLow,
	}, {
		name:       "irreconcilable escalates without curator",
		consensus:  ConsensusOutcome{Classification: ClassificationIrreconcilable, ScoreDifference: 0.55},
		wantStatus: StatusHumanReview,
		wantConf:   ConfidenceLow,
	}}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := decide(cfg, tc.consensus, tc.verdict)
			if got.status != tc.wantStatus {
				t.Errorf("status = %q, want %q", got.status, tc.wantStatus)
			}
			if got.confidence != tc.wantConf {
				t.Errorf("confidence = %q, want %q", got.confidence, tc.wantConf)
			}
			switch {
			case tc.wantScore == nil && got.finalScore != nil:
				t.Errorf("expected nil final score, got %v", *got.finalScore)
			case tc.wantScore != nil && got.finalScore == nil:
				t.Errorf("expected final score %v, got nil", *tc.wantScore)
			case tc.wantScore != nil && *got.finalScore != *tc.wantScore:
				t.Errorf("final score = %v, want %v", *got.finalScore, *tc.wantScore)
			}
		})
	}
}

func TestConfidenceMonotonicity(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()

	agreeing := decide(cfg, ConsensusOutcome{Classification: ClassificationAgreeing, AveragedScore: ptr(0.5)}, nil)
	resolved := decide(cfg, ConsensusOutcome{Classification: ClassificationTieBreakEligible},
		&CuratorVerdict{Succeeded: true, ResolvedScore: ptr(0.5)})
	escalated := decide(cfg, ConsensusOutcome{Classification: ClassificationIrreconcilable}, nil)

	if agreeing.confidence.rank() <= resolved.confidence.rank() {
		t.Errorf("agreeing (%s) must outrank curator-resolved (%s)", agreeing.confidence, resolved.confidence)
	}
	if resolved.confidence.rank() <= escalated.confidence.rank() {
		t.Errorf("curator-resolved (%s) must outrank escalated (%s)", resolved.confidence, escalated.confidence)
	}
}

func TestFinalScoreNilExactlyOnHumanReview(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()

	cases := []struct {
		consensus ConsensusOutcome
		verdict   *CuratorVerdict
	}{
		{ConsensusOutcome{Classification: ClassificationAgreeing, AveragedScore: ptr(0.5)}, nil},
		{ConsensusOutcome{Classification: ClassificationTieBreakEligible}, &CuratorVerdict{Succeeded: true, ResolvedScore: ptr(0.9)}},
		{ConsensusOutcome{Classification: ClassificationTieBreakEligible}, &CuratorVerdict{Succeeded: false}},
		{ConsensusOutcome{Classification: ClassificationIrreconcilable}, nil},
	}
	for _, c := range cases {
		got := decide(cfg, c.consensus, c.verdict)
		if (got.finalScore == nil) != (got.status == StatusHumanReview) {
			t.Errorf("final score nil (%v) must coincide with human review (%v): %+v",
				got.finalScore == nil, got.status == StatusHumanReview, got)
		}
	}
}
