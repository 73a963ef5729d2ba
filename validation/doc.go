/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package validation implements the consensus validation pipeline for
// executed voice-AI test cases.
//
// Each run dispatches the test case to two judges in parallel, classifies
// the resulting pair (agreeing, tie-break eligible, or irreconcilable),
// invokes the curator at most once for tie-breaks, and assembles an
// immutable ValidationResult carrying the full decision trail.
//
// The pipeline is built to fail toward humans, not toward guesses: any
// outcome without an authoritative score (a judge failure, an
// irreconcilable pair, a curator refusal) lands in human review with a nil
// final score. Model failures are data in the result, never errors from
// Validate.
package validation
