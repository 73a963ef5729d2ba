/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package report renders batches of validation results as markdown for CI
// logs and review tooling.
package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"chainguard.dev/voiceval/validation"
)

// Summary renders a markdown report for a batch of validation results: an
// aggregate header, one table row per run, and a human-review queue listing
// every escalated case with the detail a reviewer needs to pick it up.
// The second return reports whether any run failed or escalated.
func Summary(results []*validation.ValidationResult) (string, bool) {
	var out strings.Builder
	out.WriteString("## Validation Summary\n\n")

	var passed, failed, escalated int
	for _, res := range results {
		switch res.Status {
		case validation.StatusPass:
			passed++
		case validation.StatusFail:
			failed++
		default:
			escalated++
		}
	}
	out.WriteString(fmt.Sprintf("%d validated: %d passed, %d failed, %d for human review\n\n",
		len(results), passed, failed, escalated))

	if len(results) > 0 {
		out.WriteString(resultsTable(results))
	}

	if queue := humanReviewQueue(results); queue != "" {
		out.WriteString("\n")
		out.WriteString(queue)
	}

	return out.String(), failed > 0 || escalated > 0
}

// newMarkdownTable builds the markdown-flavored table used by the summary:
// literal left-aligned headers, side borders only, and no row wrapping so run
// IDs and classifications stay on one line in CI logs.
func newMarkdownTable(w io.Writer, headers ...string) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
				Formatting: tw.CellFormatting{AutoFormat: tw.Off},
			},
			Row:      tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignLeft}},
			Behavior: tw.Behavior{TrimSpace: tw.Off},
		}),
		tablewriter.WithHeader(headers),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{Left: tw.On, Right: tw.On, Top: tw.Off, Bottom: tw.Off},
		}),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
}

func resultsTable(results []*validation.ValidationResult) string {
	var buf bytes.Buffer
	table := newMarkdownTable(&buf, "Run", "Status", "Confidence", "Score", "Classification", "Duration")

	for _, res := range results {
		status := string(res.Status)
		if res.Status != validation.StatusPass {
			status = fmt.Sprintf("❌ %s", status)
		}
		_ = table.Append([]string{
			shortID(res.ID),
			status,
			string(res.Confidence),
			formatScore(res.FinalScore),
			string(res.Consensus.Classification),
			fmt.Sprintf("%dms", res.DurationMs),
		})
	}
	_ = table.Render()
	return buf.String()
}

// humanReviewQueue lists escalated runs with judge scores and failure detail
// so a reviewer can adjudicate without pulling raw logs.
func humanReviewQueue(results []*validation.ValidationResult) string {
	var escalated []*validation.ValidationResult
	for _, res := range results {
		if res.Status == validation.StatusHumanReview {
			escalated = append(escalated, res)
		}
	}
	if len(escalated) == 0 {
		return ""
	}

	var out strings.Builder
	out.WriteString("## Human Review Queue\n\n")
	for _, res := range escalated {
		out.WriteString(fmt.Sprintf("- %s: %s\n", shortID(res.ID), escalationReason(res)))
		for _, j := range res.Judgments {
			if j.Succeeded {
				out.WriteString(fmt.Sprintf("  - %s scored %.2f\n", j.JudgeID, j.Score))
			} else {
				out.WriteString(fmt.Sprintf("  - %s failed: %s\n", j.JudgeID, j.ErrorDetail))
			}
		}
		if v := res.CuratorVerdict; v != nil && v.Reasoning != "" {
			out.WriteString(fmt.Sprintf("  - %s: %s\n", v.CuratorID, v.Reasoning))
		}
	}
	return out.String()
}

func escalationReason(res *validation.ValidationResult) string {
	for _, j := range res.Judgments {
		if !j.Succeeded {
			return "judge failure"
		}
	}
	if res.Consensus.Classification == validation.ClassificationIrreconcilable {
		return fmt.Sprintf("irreconcilable disagreement (diff %.2f)", res.Consensus.ScoreDifference)
	}
	return "curator could not resolve the tie"
}

func formatScore(score *float64) string {
	if score == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *score)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
