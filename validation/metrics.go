/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package validation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voiceval_validation_runs_total",
		Help: "Completed validation runs by terminal status and confidence.",
	}, []string{"status", "confidence"})

	mCurator = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voiceval_curator_reviews_total",
		Help: "Curator tie-break reviews by outcome.",
	}, []string{"outcome"})

	mFinalScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "voiceval_final_score",
		Help:    "Authoritative final scores of resolved validation runs.",
		Buckets: prometheus.LinearBuckets(0, 0.1, 11),
	})

	mDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "voiceval_validation_duration_seconds",
		Help:    "Wall time of validation runs.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
	})
)

func recordRun(res *ValidationResult) {
	mRuns.WithLabelValues(string(res.Status), string(res.Confidence)).Inc()
	mDuration.Observe(float64(res.DurationMs) / 1000)
	if res.FinalScore != nil {
		mFinalScore.Observe(*res.FinalScore)
	}
	if res.CuratorVerdict != nil {
		outcome := "resolved"
		if !res.CuratorVerdict.Succeeded {
			outcome = "unresolved"
		}
		mCurator.WithLabelValues(outcome).Inc()
	}
}
