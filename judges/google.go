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
	"time"

	"chainguard.dev/voiceval/judges/result"
	"chainguard.dev/voiceval/judges/retry"
	"github.com/chainguard-dev/clog"
	"google.golang.org/genai"
)

// evaluationSchema constrains Gemini judge output to the evaluation shape.
var evaluationSchema = &genai.Schema{
	Type: "object",
	Properties: map[string]*genai.Schema{
		"score": {
			Type:        "number",
			Description: "The evaluation score from 0.0 to 1.0",
		},
		"intent_analysis": {
			Type:        "string",
			Description: "Whether the agent understood the user's intent",
		},
		"command_assessment": {
			Type:        "string",
			Description: "Whether the expected command/action was taken",
		},
		"response_quality": {
			Type:        "string",
			Description: "Assessment of the response text",
		},
		"concerns": {
			Type:  "array",
			Items: &genai.Schema{Type: "string"},
		},
		"strengths": {
			Type:  "array",
			Items: &genai.Schema{Type: "string"},
		},
	},
	Required: []string{"score", "intent_analysis", "command_assessment", "response_quality"},
}

// resolutionSchema constrains Gemini curator output to the resolution shape.
var resolutionSchema = &genai.Schema{
	Type: "object",
	Properties: map[string]*genai.Schema{
		"decisive": {
			Type:        "boolean",
			Description: "Whether the curator reached a defensible score",
		},
		"resolved_score": {
			Type:        "number",
			Description: "The resolved score from 0.0 to 1.0, when decisive",
		},
		"reasoning": {
			Type:        "string",
			Description: "Why this score is correct, or why the curator declines",
		},
	},
	Required: []string{"decisive", "reasoning"},
}

// google implements Judge and Curator using Google Gemini.
type google struct {
	client   *genai.Client
	model    string
	settings settings
}

// newGoogle creates a Gemini-backed judge/curator instance.
func newGoogle(ctx context.Context, projectID, region, model string, opts ...Option) (*google, error) {
	s, err := apply(model, opts)
	if err != nil {
		return nil, err
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: region,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Google AI client: %w", err)
	}
	return &google{client: client, model: model, settings: s}, nil
}

// ID implements Judge and Curator.
func (g *google) ID() string { return g.settings.id }

// Evaluate implements Judge.
func (g *google) Evaluate(ctx context.Context, tc *TestCase) (*Evaluation, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	prompt, err := bindJudgePrompt(tc)
	if err != nil {
		return nil, err
	}

	text, latencyMs, err := g.generate(ctx, "judge_evaluate", prompt, evaluationSchema)
	if err != nil {
		g.settings.calls.RecordFailure(ctx, g.model, float64(latencyMs))
		return nil, err
	}

	payload, err := result.Decode[evaluationPayload](text)
	if err != nil {
		g.settings.calls.RecordFailure(ctx, g.model, float64(latencyMs))
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	eval, err := payload.toEvaluation(latencyMs)
	if err != nil {
		g.settings.calls.RecordFailure(ctx, g.model, float64(latencyMs))
		return nil, err
	}
	g.settings.calls.RecordCall(ctx, g.model, float64(latencyMs), eval.Score)
	return eval, nil
}

// Review implements Curator.
func (g *google) Review(ctx context.Context, req *ReviewRequest) (*Resolution, error) {
	if err := req.Case.Validate(); err != nil {
		return nil, err
	}
	prompt, err := bindCuratorPrompt(req)
	if err != nil {
		return nil, err
	}

	text, latencyMs, err := g.generate(ctx, "curator_review", prompt, resolutionSchema)
	if err != nil {
		g.settings.calls.RecordFailure(ctx, g.model, float64(latencyMs))
		return nil, err
	}

	payload, err := result.Decode[resolutionPayload](text)
	if err != nil {
		g.settings.calls.RecordFailure(ctx, g.model, float64(latencyMs))
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	res, err := payload.toResolution(latencyMs)
	if err != nil {
		g.settings.calls.RecordFailure(ctx, g.model, float64(latencyMs))
		return nil, err
	}
	if res.ResolvedScore != nil {
		g.settings.calls.RecordCall(ctx, g.model, float64(latencyMs), *res.ResolvedScore)
	}
	return res, nil
}

// generate makes one schema-constrained generation call with retry for
// transient Vertex errors.
func (g *google) generate(ctx context.Context, operation, prompt string, schema *genai.Schema) (string, int64, error) {
	log := clog.FromContext(ctx)
	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(g.settings.temperature)),
		MaxOutputTokens:  int32(g.settings.maxTokens),
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	}

	start := time.Now()
	response, err := retry.WithBackoff(ctx, g.settings.retryConfig, operation, isRetryableVertexError, func() (*genai.GenerateContentResponse, error) {
		return g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	})
	latencyMs := time.Since(start).Milliseconds()
	if err != nil {
		return "", latencyMs, fmt.Errorf("gemini %s call: %w", operation, err)
	}

	if len(response.Candidates) == 0 {
		return "", latencyMs, errors.New("no content generated - no candidates")
	}
	var text strings.Builder
	if content := response.Candidates[0].Content; content != nil {
		for _, part := range content.Parts {
			text.WriteString(part.Text)
		}
	}
	if text.Len() == 0 {
		return "", latencyMs, fmt.Errorf("%w: no text content in Gemini response", ErrMalformed)
	}

	log.With("operation", operation).
		With("model", g.model).
		With("latency_ms", latencyMs).
		Info("Completed Gemini judge call")
	return text.String(), latencyMs, nil
}

// isRetryableVertexError checks if an error is a retryable Vertex AI error.
// Returns true for rate limit, quota exhaustion, and transient server errors.
func isRetryableVertexError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "Resource exhausted") ||
		strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "RESOURCE_EXHAUSTED") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "Overloaded") ||
		strings.Contains(errStr, "503") ||
		strings.Contains(errStr, "quota exceeded") ||
		strings.Contains(errStr, "Internal error") ||
		strings.Contains(errStr, "server error")
}
