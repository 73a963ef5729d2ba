/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package result_test

import (
	"testing"

	"chainguard.dev/voiceval/judges/result"
)

type scored struct {
	Score     float64 `json:"score"`
	Reasoning string  `json:"reasoning"`
}

func TestDecode(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		text    string
		want    scored
		wantErr bool
	}{{
		name: "bare json",
		text: `{"score": 0.9, "reasoning": "solid"}`,
		want: scored{Score: 0.9, Reasoning: "solid"},
	}, {
		name: "fenced json block",
		text: "Here is my judgment:\n```json\n{\"score\": 0.5, \"reasoning\": \"partial\"}\n```\nDone.",
		want: scored{Score: 0.5, Reasoning: "partial"},
	}, {
		name: "inline fences",
		text: "```json\n{\"score\": 1.0, \"reasoning\": \"exact\"}\n```",
		want: scored{Score: 1.0, Reasoning: "exact"},
	}, {
		name: "fences without language tag",
		text: "```\n{\"score\": 0.2, \"reasoning\": \"weak\"}\n```",
		want: scored{Score: 0.2, Reasoning: "weak"},
	}, {
		name:    "not json",
		text:    "I think it deserves a passing grade.",
		wantErr: true,
	}, {
		name:    "empty fenced block",
		text:    "```json\n```",
		wantErr: true,
	}}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := result.Decode[scored](tc.text)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if got != tc.want {
				t.Errorf("Decode = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestValidScore(t *testing.T) {
	t.Parallel()
	for score, want := range map[float64]bool{
		0.0:   true,
		0.5:   true,
		1.0:   true,
		-0.01: false,
		1.01:  false,
		42:    false,
	} {
		if got := result.ValidScore(score); got != want {
			t.Errorf("ValidScore(%v) = %v, want %v", score, got, want)
		}
	}
}
