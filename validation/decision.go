/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package validation

// decision is the settled authoritative outcome of a run before assembly.
type decision struct {
	finalScore *float64
	status     Status
	confidence Confidence
}

// decide maps the consensus outcome (plus the curator verdict, when one
// exists) to the final score, status, and confidence. It is pure: no model
// calls, no clock, no randomness.
//
// The pass comparison is inclusive, so a final score exactly at the pass
// threshold passes. A run without an authoritative score always lands in
// human review with a nil final score; the pipeline never substitutes a
// default.
func decide(cfg Config, consensus ConsensusOutcome, verdict *CuratorVerdict) decision {
	switch consensus.Classification {
	case ClassificationAgreeing:
		score := *consensus.AveragedScore
		return decision{
			finalScore: &score,
			status:     passOrFail(cfg, score),
			confidence: ConfidenceHigh,
		}

	case ClassificationTieBreakEligible:
		if verdict != nil && verdict.Succeeded && verdict.ResolvedScore != nil {
			score := *verdict.ResolvedScore
			return decision{
				finalScore: &score,
				status:     passOrFail(cfg, score),
				confidence: ConfidenceMedium,
			}
		}
		// Curator refused, timed out, or errored: the case escalates
		// rather than falling back to either judge's number.
		return decision{status: StatusHumanReview, confidence: ConfidenceLow}

	default: // irreconcilable
		return decision{status: StatusHumanReview, confidence: ConfidenceLow}
	}
}

func passOrFail(cfg Config, score float64) Status {
	if score >= cfg.PassThreshold {
		return StatusPass
	}
	return StatusFail
}
