/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judges

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chainguard.dev/voiceval/judges/result"
	"chainguard.dev/voiceval/judges/retry"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/vertex"
	"github.com/chainguard-dev/clog"
)

// claude implements Judge and Curator using Claude via Vertex AI.
type claude struct {
	client   anthropic.Client
	model    string
	settings settings
}

// newClaude creates a Claude-backed judge/curator instance.
func newClaude(ctx context.Context, projectID, region, model string, opts ...Option) (*claude, error) {
	s, err := apply(model, opts)
	if err != nil {
		return nil, err
	}
	return &claude{
		client:   anthropic.NewClient(vertex.WithGoogleAuth(ctx, region, projectID)),
		model:    model,
		settings: s,
	}, nil
}

// ID implements Judge and Curator.
func (c *claude) ID() string { return c.settings.id }

// Evaluate implements Judge.
func (c *claude) Evaluate(ctx context.Context, tc *TestCase) (*Evaluation, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	prompt, err := bindJudgePrompt(tc)
	if err != nil {
		return nil, err
	}

	text, latencyMs, err := c.complete(ctx, "judge_evaluate", prompt)
	if err != nil {
		c.settings.calls.RecordFailure(ctx, c.model, float64(latencyMs))
		return nil, err
	}

	payload, err := result.Decode[evaluationPayload](text)
	if err != nil {
		c.settings.calls.RecordFailure(ctx, c.model, float64(latencyMs))
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	eval, err := payload.toEvaluation(latencyMs)
	if err != nil {
		c.settings.calls.RecordFailure(ctx, c.model, float64(latencyMs))
		return nil, err
	}
	c.settings.calls.RecordCall(ctx, c.model, float64(latencyMs), eval.Score)
	return eval, nil
}

// Review implements Curator.
func (c *claude) Review(ctx context.Context, req *ReviewRequest) (*Resolution, error) {
	if err := req.Case.Validate(); err != nil {
		return nil, err
	}
	prompt, err := bindCuratorPrompt(req)
	if err != nil {
		return nil, err
	}

	text, latencyMs, err := c.complete(ctx, "curator_review", prompt)
	if err != nil {
		c.settings.calls.RecordFailure(ctx, c.model, float64(latencyMs))
		return nil, err
	}

	payload, err := result.Decode[resolutionPayload](text)
	if err != nil {
		c.settings.calls.RecordFailure(ctx, c.model, float64(latencyMs))
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	res, err := payload.toResolution(latencyMs)
	if err != nil {
		c.settings.calls.RecordFailure(ctx, c.model, float64(latencyMs))
		return nil, err
	}
	if res.ResolvedScore != nil {
		c.settings.calls.RecordCall(ctx, c.model, float64(latencyMs), *res.ResolvedScore)
	}
	return res, nil
}

// complete makes one text completion call with retry for transient errors.
func (c *claude) complete(ctx context.Context, operation, prompt string) (string, int64, error) {
	log := clog.FromContext(ctx)
	start := time.Now()

	message, err := retry.WithBackoff(ctx, c.settings.retryConfig, operation, isRetryableClaudeError, func() (*anthropic.Message, error) {
		return c.client.Messages.New(ctx, anthropic.MessageNewParams{
			Model:       anthropic.Model(c.model),
			MaxTokens:   c.settings.maxTokens,
			Temperature: anthropic.Float(c.settings.temperature),
			Messages: []anthropic.MessageParam{{
				Role: anthropic.MessageParamRoleUser,
				Content: []anthropic.ContentBlockParamUnion{
					anthropic.NewTextBlock(prompt),
				},
			}},
		})
	})
	latencyMs := time.Since(start).Milliseconds()
	if err != nil {
		return "", latencyMs, fmt.Errorf("claude %s call: %w", operation, err)
	}

	var text string
	for _, content := range message.Content {
		if content.Type == "text" {
			text = content.Text
		}
	}
	if text == "" {
		return "", latencyMs, fmt.Errorf("%w: no text content in Claude response", ErrMalformed)
	}

	log.With("operation", operation).
		With("model", c.model).
		With("latency_ms", latencyMs).
		Info("Completed Claude judge call")
	return text, latencyMs, nil
}

// isRetryableClaudeError checks if an error is a retryable Claude API error.
// Returns true for rate limit, overloaded, and transient server errors.
func isRetryableClaudeError(err error) bool {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 429, 503, 504, 529:
			return true
		}
	}
	return false
}
