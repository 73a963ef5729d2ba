/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judges

import (
	"errors"
	"fmt"

	"chainguard.dev/voiceval/judges/retry"
	"chainguard.dev/voiceval/metrics"
)

// meterName is the unified meter for all judge backends; the model name is a
// dimension on the recorded metrics.
const meterName = "chainguard.ai.voiceval"

// settings holds backend configuration shared by all judge implementations.
type settings struct {
	id          string
	temperature float64
	maxTokens   int64
	retryConfig retry.Config
	calls       *metrics.JudgeCalls
}

// defaultSettings returns backend defaults: low temperature for consistent
// judgments and the standard retry policy.
func defaultSettings(model string) settings {
	return settings{
		id:          model,
		temperature: 0.1,
		maxTokens:   4096,
		retryConfig: retry.DefaultConfig(),
		calls:       metrics.NewJudgeCalls(meterName),
	}
}

// Option is a functional option for configuring a judge backend.
type Option func(*settings) error

// WithID overrides the judge identity recorded in results. It defaults to
// the model name, which is wrong when two judges share a model.
func WithID(id string) Option {
	return func(s *settings) error {
		if id == "" {
			return errors.New("judge id cannot be empty")
		}
		s.id = id
		return nil
	}
}

// WithTemperature sets the sampling temperature. Lower values produce more
// deterministic judgments.
func WithTemperature(temp float64) Option {
	return func(s *settings) error {
		if temp < 0.0 || temp > 1.0 {
			return fmt.Errorf("temperature must be between 0.0 and 1.0, got %f", temp)
		}
		s.temperature = temp
		return nil
	}
}

// WithMaxOutputTokens sets the maximum tokens for model responses.
func WithMaxOutputTokens(tokens int64) Option {
	return func(s *settings) error {
		if tokens <= 0 {
			return fmt.Errorf("max output tokens must be positive, got %d", tokens)
		}
		s.maxTokens = tokens
		return nil
	}
}

// WithRetryConfig sets the retry policy for transient model API errors.
func WithRetryConfig(cfg retry.Config) Option {
	return func(s *settings) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		s.retryConfig = cfg
		return nil
	}
}

// WithAttributeEnricher adds contextual attributes (suite, test step, tenant)
// to every metric recorded by this backend.
func WithAttributeEnricher(enricher metrics.AttributeEnricher) Option {
	return func(s *settings) error {
		s.calls.SetAttributeEnricher(enricher)
		return nil
	}
}

// apply runs the options over the defaults for the given model.
func apply(model string, opts []Option) (settings, error) {
	s := defaultSettings(model)
	for _, opt := range opts {
		if err := opt(&s); err != nil {
			return s, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	return s, nil
}
