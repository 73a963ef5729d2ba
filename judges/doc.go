/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package judges provides the judge and curator capability consumed by the
// validation pipeline.
//
// A Judge independently scores one executed voice-AI test case against its
// expected outcome and returns structured reasoning with the score. A Curator
// is the same capability pointed at a different problem: given two recorded
// judgments that disagree, it produces its own resolved score or explicitly
// declines to decide.
//
// # Backends
//
// Three model backends are provided, selected by model name:
//   - Claude via Vertex AI (Anthropic SDK): NewVertex with a claude-* model
//   - Gemini via Vertex AI (Google GenAI SDK): NewVertex with a gemini-* model
//   - OpenAI: NewOpenAI
//
// Every backend implements both Judge and Curator; which role an instance
// plays in a deployment is wiring, not type.
//
// # Failure contract
//
// Backends fail cleanly rather than degrade: a response with a score outside
// [0, 1] or missing required reasoning fields returns an error matching
// ErrMalformed and is never retried. Rate limits and transient server errors
// are retried per the configured retry policy before surfacing.
//
// # Thread safety
//
// All backends are stateless after construction and safe for concurrent use.
package judges
