/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package validation

import "math"

// thresholdEpsilon absorbs float64 representation error in the score
// difference, so a pair whose decimal difference sits exactly on a threshold
// classifies on the side the threshold definitions promise: at the consensus
// threshold is agreeing, at the extreme disagreement threshold is
// irreconcilable. Judge scores carry two decimals of meaning at most; 1e-9 is
// far below anything a model can signal.
const thresholdEpsilon = 1e-9

// classifyConsensus is the deterministic arbiter: it compares exactly two
// settled judgments and classifies the pair. It performs no model calls and
// the same pair always yields the same outcome.
//
// A failed judgment (timeout, malformed output after retries) is treated as
// maximal disagreement: the pair is irreconcilable without inventing a score
// for the failed side.
func classifyConsensus(cfg Config, a, b JudgmentResult) ConsensusOutcome {
	if !a.Succeeded || !b.Succeeded {
		return ConsensusOutcome{Classification: ClassificationIrreconcilable}
	}

	diff := math.Abs(a.Score - b.Score)
	switch {
	case diff <= cfg.ConsensusThreshold+thresholdEpsilon:
		avg := (a.Score + b.Score) / 2
		return ConsensusOutcome{
			ScoreDifference: diff,
			Classification:  ClassificationAgreeing,
			AveragedScore:   &avg,
		}
	case diff >= cfg.ExtremeDisagreementThreshold-thresholdEpsilon:
		return ConsensusOutcome{
			ScoreDifference: diff,
			Classification:  ClassificationIrreconcilable,
		}
	default:
		return ConsensusOutcome{
			ScoreDifference: diff,
			Classification:  ClassificationTieBreakEligible,
		}
	}
}
