/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judges

import (
	"context"
	"fmt"
	"strings"
)

// Backend is a model backend that can serve as either judge or curator.
// Which role an instance plays is purely a matter of deployment wiring.
type Backend interface {
	Judge
	Curator
}

// NewVertex creates a Backend by delegating to the appropriate implementation
// based on the model name. Claude models use the Anthropic SDK, Gemini models
// use Google's Generative AI SDK.
func NewVertex(ctx context.Context, projectID, region, modelName string, opts ...Option) (Backend, error) {
	modelLower := strings.ToLower(modelName)

	if strings.HasPrefix(modelLower, "claude-") {
		return newClaude(ctx, projectID, region, modelName, opts...)
	}
	if strings.HasPrefix(modelLower, "gemini-") {
		return newGoogle(ctx, projectID, region, modelName, opts...)
	}

	return nil, fmt.Errorf("unsupported model: %s (expected claude-* or gemini-*)", modelName)
}
