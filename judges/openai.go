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
	"chainguard.dev/voiceval/judges/schema"
	"github.com/chainguard-dev/clog"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/shared"
)

// openaiJudge implements Judge and Curator using the OpenAI API.
type openaiJudge struct {
	client   openai.Client
	model    string
	settings settings
}

// NewOpenAI creates an OpenAI-backed judge/curator instance. The API key is
// taken from the environment (OPENAI_API_KEY) by the underlying SDK.
func NewOpenAI(model string, opts ...Option) (Backend, error) {
	if model == "" {
		return nil, errors.New("model cannot be empty")
	}
	s, err := apply(model, opts)
	if err != nil {
		return nil, err
	}
	return &openaiJudge{
		client:   openai.NewClient(),
		model:    model,
		settings: s,
	}, nil
}

// ID implements Judge and Curator.
func (o *openaiJudge) ID() string { return o.settings.id }

// Evaluate implements Judge.
func (o *openaiJudge) Evaluate(ctx context.Context, tc *TestCase) (*Evaluation, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	prompt, err := bindJudgePrompt(tc)
	if err != nil {
		return nil, err
	}

	text, latencyMs, err := o.complete(ctx, "judge_evaluate", prompt, "evaluation", schema.For[evaluationPayload]())
	if err != nil {
		o.settings.calls.RecordFailure(ctx, o.model, float64(latencyMs))
		return nil, err
	}

	payload, err := result.Decode[evaluationPayload](text)
	if err != nil {
		o.settings.calls.RecordFailure(ctx, o.model, float64(latencyMs))
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	eval, err := payload.toEvaluation(latencyMs)
	if err != nil {
		o.settings.calls.RecordFailure(ctx, o.model, float64(latencyMs))
		return nil, err
	}
	o.settings.calls.RecordCall(ctx, o.model, float64(latencyMs), eval.Score)
	return eval, nil
}

// Review implements Curator.
func (o *openaiJudge) Review(ctx context.Context, req *ReviewRequest) (*Resolution, error) {
	if err := req.Case.Validate(); err != nil {
		return nil, err
	}
	prompt, err := bindCuratorPrompt(req)
	if err != nil {
		return nil, err
	}

	text, latencyMs, err := o.complete(ctx, "curator_review", prompt, "resolution", schema.For[resolutionPayload]())
	if err != nil {
		o.settings.calls.RecordFailure(ctx, o.model, float64(latencyMs))
		return nil, err
	}

	payload, err := result.Decode[resolutionPayload](text)
	if err != nil {
		o.settings.calls.RecordFailure(ctx, o.model, float64(latencyMs))
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	res, err := payload.toResolution(latencyMs)
	if err != nil {
		o.settings.calls.RecordFailure(ctx, o.model, float64(latencyMs))
		return nil, err
	}
	if res.ResolvedScore != nil {
		o.settings.calls.RecordCall(ctx, o.model, float64(latencyMs), *res.ResolvedScore)
	}
	return res, nil
}

// complete makes one schema-constrained chat completion call with retry for
// transient OpenAI API errors.
func (o *openaiJudge) complete(ctx context.Context, operation, prompt, schemaName string, responseSchema any) (string, int64, error) {
	log := clog.FromContext(ctx)
	start := time.Now()

	completion, err := retry.WithBackoff(ctx, o.settings.retryConfig, operation, isRetryableOpenAIError, func() (*openai.ChatCompletion, error) {
		return o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model: shared.ChatModel(o.model),
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.UserMessage(prompt),
			},
			Temperature:         openai.Float(o.settings.temperature),
			MaxCompletionTokens: openai.Int(o.settings.maxTokens),
			ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
				OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
					JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
						Name:   schemaName,
						Schema: responseSchema,
					},
				},
			},
		})
	})
	latencyMs := time.Since(start).Milliseconds()
	if err != nil {
		return "", latencyMs, fmt.Errorf("openai %s call: %w", operation, err)
	}

	if len(completion.Choices) == 0 {
		return "", latencyMs, fmt.Errorf("%w: no choices in OpenAI response", ErrMalformed)
	}
	text := completion.Choices[0].Message.Content
	if text == "" {
		return "", latencyMs, fmt.Errorf("%w: no text content in OpenAI response", ErrMalformed)
	}

	log.With("operation", operation).
		With("model", o.model).
		With("latency_ms", latencyMs).
		Info("Completed OpenAI judge call")
	return text, latencyMs, nil
}

// isRetryableOpenAIError checks if an error is a retryable OpenAI API error.
// Returns true for rate limit and transient server errors.
func isRetryableOpenAIError(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 429, 500, 502, 503, 504:
			return true
		}
	}
	return false
}
