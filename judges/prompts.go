/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judges

import (
	"fmt"

	"chainguard.dev/voiceval/prompt"
)

// judgePrompt is the prompt for independent judge evaluation of a test case.
var judgePrompt = prompt.MustNew(`<task>
You are evaluating a voice AI agent's response against the expected outcome
of a test case. Score how well the response fulfills the expectation.
</task>

<transcript>
{{transcript}}
</transcript>

<expected_outcome>
{{expected_outcome}}
</expected_outcome>

<instructions>
1. Analyze whether the agent understood the user's intent.
2. Assess whether the agent performed (or committed to) the expected command,
   including any expected entities.
3. Assess the quality of the response text itself: correctness, completeness,
   and whether it matches an acceptable response pattern.
4. Provide a score from 0.0 to 1.0 using this scoring rubric:

SCORING RUBRIC:
- Score 1.0 (Perfect): Response fulfills the expected outcome completely.
  Wording variations that preserve meaning and effectiveness score 1.0,
  not less.
- Score 0.75-0.99 (High Quality): Correct command and entities with minor
  presentation or completeness gaps.
- Score 0.50-0.74 (Adequate): Right general behavior with notable gaps:
  a missing entity, a partially addressed request, or an unclear confirmation.
- Score 0.25-0.49 (Poor): Significant problems such as a wrong entity value
  or an ambiguous action, but some correct elements remain.
- Score 0.0-0.24 (Failing): Wrong command, contradicting response, or no
  meaningful relation to the expected outcome.

5. List concrete concerns and strengths. Do not pad either list.
</instructions>

<output_format>
Return your judgment as a JSON object with this structure:
{
  "score": 0.0-1.0,
  "intent_analysis": "did the agent understand the user's intent",
  "command_assessment": "did the agent take the expected action with the expected entities",
  "response_quality": "assessment of the response text itself",
  "concerns": ["concern1", ...],
  "strengths": ["strength1", ...]
}
</output_format>

Respond with only the JSON object, no additional text.`)

// curatorPrompt is the prompt for tie-break review of two disagreeing
// judgments. The curator sees the recorded judgments, never the judges.
var curatorPrompt = prompt.MustNew(`<task>
Two independent judges scored the same voice AI test case and disagreed.
You are the tie-breaking curator: review both judgments against the original
test case and determine the correct score yourself.
</task>

<transcript>
{{transcript}}
</transcript>

<expected_outcome>
{{expected_outcome}}
</expected_outcome>

<judgment_a>
{{judgment_a}}
</judgment_a>

<judgment_b>
{{judgment_b}}
</judgment_b>

<instructions>
1. Re-evaluate the transcript against the expected outcome independently.
2. Weigh each judgment's reasoning: which concerns are real, which strengths
   are overstated.
3. Produce your own score from 0.0 to 1.0. It may equal, split, or favor
   either judgment - whatever the evidence supports.
4. If the case is genuinely ambiguous and you cannot defend a score, decline
   rather than invent one: set "decisive" to false and explain why. Declining
   sends the case to a human reviewer, which is the correct outcome for
   ambiguity.
</instructions>

<output_format>
Return your resolution as a JSON object with this structure:
{
  "decisive": true | false,
  "resolved_score": 0.0-1.0 (omit when not decisive),
  "reasoning": "why this score is correct, or why you decline"
}
</output_format>

Respond with only the JSON object, no additional text.`)

// bindJudgePrompt renders the judge prompt for a test case.
func bindJudgePrompt(tc *TestCase) (string, error) {
	bound, err := judgePrompt.BindText("transcript", tc.Transcript)
	if err != nil {
		return "", fmt.Errorf("binding transcript: %w", err)
	}
	bound, err = bound.BindJSON("expected_outcome", tc.Expected)
	if err != nil {
		return "", fmt.Errorf("binding expected outcome: %w", err)
	}
	return bound.Build()
}

// bindCuratorPrompt renders the curator prompt for a review request.
func bindCuratorPrompt(req *ReviewRequest) (string, error) {
	bound, err := curatorPrompt.BindText("transcript", req.Case.Transcript)
	if err != nil {
		return "", fmt.Errorf("binding transcript: %w", err)
	}
	bound, err = bound.BindJSON("expected_outcome", req.Case.Expected)
	if err != nil {
		return "", fmt.Errorf("binding expected outcome: %w", err)
	}
	bound, err = bound.BindJSON("judgment_a", req.JudgmentA)
	if err != nil {
		return "", fmt.Errorf("binding judgment A: %w", err)
	}
	bound, err = bound.BindJSON("judgment_b", req.JudgmentB)
	if err != nil {
		return "", fmt.Errorf("binding judgment B: %w", err)
	}
	return bound.Build()
}
