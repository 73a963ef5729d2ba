/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package result decodes structured judge output from raw model text.
//
// Models asked for JSON frequently wrap it in markdown fences or pad it with
// prose; Decode strips that noise before unmarshaling so the judge backends
// share one tolerant parsing path.
package result

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StripFences extracts JSON content from model text that may contain markdown
// code fences. It prefers the first ```json block, and otherwise trims any
// surrounding fences and whitespace.
func StripFences(text string) string {
	// Prefer an explicit ```json block on its own lines.
	var buf strings.Builder
	inBlock, found := false, false
	for _, line := range strings.Split(text, "\n") {
		switch {
		case !inBlock && line == "```json":
			inBlock, found = true, true
		case inBlock && line == "```":
			return strings.TrimSpace(buf.String())
		case inBlock:
			if buf.Len() > 0 {
				buf.WriteString("\n")
			}
			buf.WriteString(line)
		}
	}
	if found {
		return strings.TrimSpace(buf.String())
	}

	// Fall back to trimming inline fences; these are no-ops when absent.
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// Decode strips markdown fences from text and unmarshals the remaining JSON
// into T.
func Decode[T any](text string) (T, error) {
	var out T
	if err := json.Unmarshal([]byte(StripFences(text)), &out); err != nil {
		return out, fmt.Errorf("decoding model response: %w", err)
	}
	return out, nil
}

// ValidScore reports whether a score lies in the closed interval [0, 1].
// Scores outside this range indicate a malformed model response, never a
// legitimate judgment.
func ValidScore(score float64) bool {
	return score >= 0.0 && score <= 1.0
}
