/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package validation

import (
	"errors"
	"fmt"
	"time"
)

// Config holds the pipeline's thresholds and call policies. Thresholds are
// deployment configuration, fixed for the lifetime of a Pipeline; they are
// never adjusted per test case.
type Config struct {
	// ConsensusThreshold is the maximum score difference at which the two
	// judges are considered to agree.
	ConsensusThreshold float64 `env:"CONSENSUS_THRESHOLD,default=0.15"`

	// ExtremeDisagreementThreshold is the score difference at or above
	// which the disagreement is irreconcilable and skips the curator.
	ExtremeDisagreementThreshold float64 `env:"EXTREME_DISAGREEMENT_THRESHOLD,default=0.40"`

	// PassThreshold is the minimum final score that passes. The comparison
	// is inclusive: a final score exactly at the threshold passes.
	PassThreshold float64 `env:"PASS_THRESHOLD,default=0.80"`

	// JudgeTimeout bounds each judge call attempt.
	JudgeTimeout time.Duration `env:"JUDGE_TIMEOUT,default=60s"`

	// JudgeRetries is the number of retries after a transient judge failure.
	JudgeRetries int `env:"JUDGE_RETRIES,default=1"`

	// CuratorTimeout bounds each curator call attempt.
	CuratorTimeout time.Duration `env:"CURATOR_TIMEOUT,default=90s"`

	// CuratorRetries is the number of retries after a transient curator
	// failure.
	CuratorRetries int `env:"CURATOR_RETRIES,default=1"`

	// OverallTimeout bounds the whole validation run; zero disables it.
	OverallTimeout time.Duration `env:"OVERALL_TIMEOUT,default=5m"`
}

// DefaultConfig returns the standard thresholds: 0.15 consensus, 0.40
// extreme disagreement, 0.80 pass.
func DefaultConfig() Config {
	return Config{
		ConsensusThreshold:           0.15,
		ExtremeDisagreementThreshold: 0.40,
		PassThreshold:                0.80,
		JudgeTimeout:                 60 * time.Second,
		JudgeRetries:                 1,
		CuratorTimeout:               90 * time.Second,
		CuratorRetries:               1,
		OverallTimeout:               5 * time.Minute,
	}
}

// Validate checks internal consistency of the thresholds. In particular the
// consensus threshold must sit strictly below the extreme disagreement
// threshold, or the tie-break band would be empty or inverted.
func (c Config) Validate() error {
	if c.ConsensusThreshold < 0 || c.ConsensusThreshold > 1 {
		return fmt.Errorf("consensus threshold %v outside [0, 1]", c.ConsensusThreshold)
	}
	if c.ExtremeDisagreementThreshold < 0 || c.ExtremeDisagreementThreshold > 1 {
		return fmt.Errorf("extreme disagreement threshold %v outside [0, 1]", c.ExtremeDisagreementThreshold)
	}
	if c.ConsensusThreshold >= c.ExtremeDisagreementThreshold {
		return fmt.Errorf("consensus threshold %v must be below extreme disagreement threshold %v",
			c.ConsensusThreshold, c.ExtremeDisagreementThreshold)
	}
	if c.PassThreshold < 0 || c.PassThreshold > 1 {
		return fmt.Errorf("pass threshold %v outside [0, 1]", c.PassThreshold)
	}
	if c.JudgeTimeout <= 0 {
		return errors.New("judge timeout must be positive")
	}
	if c.JudgeRetries < 0 {
		return errors.New("judge retries cannot be negative")
	}
	if c.CuratorTimeout <= 0 {
		return errors.New("curator timeout must be positive")
	}
	if c.CuratorRetries < 0 {
		return errors.New("curator retries cannot be negative")
	}
	if c.OverallTimeout < 0 {
		return errors.New("overall timeout cannot be negative")
	}
	return nil
}
