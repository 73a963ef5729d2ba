/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package main implements the voiceval CLI: it validates a batch of executed
// voice-AI test cases through the consensus pipeline and prints a markdown
// summary suitable for CI logs.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/chainguard-dev/clog"
	_ "github.com/chainguard-dev/clog/gcp/init"
	"github.com/sethvargo/go-envconfig"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"chainguard.dev/voiceval/judges"
	"chainguard.dev/voiceval/report"
	"chainguard.dev/voiceval/validation"
)

type config struct {
	// Vertex AI project/region for the claude-* and gemini-* backends.
	Project string `env:"VOICEVAL_PROJECT"`
	Region  string `env:"VOICEVAL_REGION,default=us-central1"`

	// JudgeAModel and JudgeBModel select the two judge backends. They
	// should be distinct model families so their errors are uncorrelated.
	JudgeAModel string `env:"VOICEVAL_JUDGE_A,default=claude-sonnet-4-5"`
	JudgeBModel string `env:"VOICEVAL_JUDGE_B,default=gemini-2.5-pro"`

	// CuratorModel selects the tie-break backend.
	CuratorModel string `env:"VOICEVAL_CURATOR,default=claude-opus-4-1"`

	// Concurrency bounds how many test cases validate in parallel.
	Concurrency int `env:"VOICEVAL_CONCURRENCY,default=4"`

	// ResultsFile, when set, receives the full results as JSON.
	ResultsFile string `env:"VOICEVAL_RESULTS_FILE"`

	Pipeline validation.Config `env:",prefix=VOICEVAL_"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <cases.yaml|cases.json>\n", filepath.Base(os.Args[0]))
		os.Exit(2)
	}

	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		clog.FatalContextf(ctx, "processing config: %v", err)
	}

	cases, err := loadCases(os.Args[1])
	if err != nil {
		clog.FatalContextf(ctx, "loading test cases: %v", err)
	}
	if len(cases) == 0 {
		clog.FatalContextf(ctx, "no test cases in %s", os.Args[1])
	}

	pipeline, err := buildPipeline(ctx, cfg)
	if err != nil {
		clog.FatalContextf(ctx, "building pipeline: %v", err)
	}

	clog.InfoContextf(ctx, "Validating %d test cases (judges: %s, %s; curator: %s)",
		len(cases), cfg.JudgeAModel, cfg.JudgeBModel, cfg.CuratorModel)

	results := make([]*validation.ValidationResult, len(cases))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Concurrency)
	for i, tc := range cases {
		g.Go(func() error {
			res, err := pipeline.Validate(gctx, tc)
			if err != nil {
				return fmt.Errorf("case %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		clog.FatalContextf(ctx, "validation: %v", err)
	}

	summary, hasFailure := report.Summary(results)
	fmt.Println(summary)

	if cfg.ResultsFile != "" {
		if err := writeResults(cfg.ResultsFile, results); err != nil {
			clog.FatalContextf(ctx, "writing results: %v", err)
		}
	}

	if hasFailure {
		os.Exit(1)
	}
}

// buildPipeline constructs the two judges and the curator from the
// configured model names. claude-* and gemini-* models route through Vertex
// AI; gpt-* models route through OpenAI.
func buildPipeline(ctx context.Context, cfg config) (*validation.Pipeline, error) {
	newBackend := func(model string) (judges.Backend, error) {
		if strings.HasPrefix(model, "gpt-") {
			return judges.NewOpenAI(model)
		}
		if cfg.Project == "" {
			return nil, fmt.Errorf("VOICEVAL_PROJECT is required for model %q", model)
		}
		return judges.NewVertex(ctx, cfg.Project, cfg.Region, model)
	}

	judgeA, err := newBackend(cfg.JudgeAModel)
	if err != nil {
		return nil, fmt.Errorf("judge A (%s): %w", cfg.JudgeAModel, err)
	}
	judgeB, err := newBackend(cfg.JudgeBModel)
	if err != nil {
		return nil, fmt.Errorf("judge B (%s): %w", cfg.JudgeBModel, err)
	}
	curator, err := newBackend(cfg.CuratorModel)
	if err != nil {
		return nil, fmt.Errorf("curator (%s): %w", cfg.CuratorModel, err)
	}

	return validation.NewPipeline(cfg.Pipeline, judgeA, judgeB, curator)
}

// loadCases reads test cases from a YAML or JSON file. YAML is the default;
// a .json extension switches to JSON.
func loadCases(path string) ([]*judges.TestCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cases []*judges.TestCase
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, &cases); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cases); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	for i, tc := range cases {
		if err := tc.Validate(); err != nil {
			return nil, fmt.Errorf("case %d: %w", i, err)
		}
	}
	return cases, nil
}

func writeResults(path string, results []*validation.ValidationResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
