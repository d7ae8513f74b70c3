// Package judge scores each model's answer by asking every registered model
// to rate it, one criterion at a time, with the other answers as context.
package judge

import (
	"fmt"
	"strings"

	"github.com/valpere/pereval/internal"
)

var criterionGuidance = map[internal.Criterion]string{
	internal.Clarity:    "How clear, well organized and easy to follow the response is.",
	internal.Accuracy:   "How factually correct and faithful to the prompt the response is.",
	internal.Creativity: "How original and insightful the response is.",
	internal.Grammar:    "How correct the spelling, grammar and punctuation of the response are.",
}

// BuildPrompt renders the judge prompt for one (model, criterion) pair. The
// response under evaluation is not labelled; every other model's display
// text is listed by name for comparison.
func BuildPrompt(userPrompt string, criterion internal.Criterion, model string, responses *internal.ResponseSet) string {
	own, _ := responses.Get(model)

	var sb strings.Builder
	sb.WriteString("You are an impartial judge comparing answers produced by several language models.\n")
	sb.WriteString("Original prompt:\n")
	sb.WriteString(fmt.Sprintf("\"%s\"\n", userPrompt))

	sb.WriteString(fmt.Sprintf("\nCriterion: %s\n", criterion))
	if guide, ok := criterionGuidance[criterion]; ok {
		sb.WriteString(guide)
		sb.WriteString("\n")
	}

	sb.WriteString("\nResponse to evaluate:\n")
	sb.WriteString(fmt.Sprintf("\"%s\"\n", own))

	sb.WriteString("\nOther responses to the same prompt, for comparison:\n")
	n := 0
	for _, name := range responses.Names() {
		if name == model {
			continue
		}
		text, _ := responses.Get(name)
		n++
		sb.WriteString(fmt.Sprintf("  %d. [%s]: \"%s\"\n", n, name, text))
	}
	if n == 0 {
		sb.WriteString("  (none)\n")
	}

	sb.WriteString(fmt.Sprintf("\nRate the response to evaluate for %s on a scale from 0 to 10.\n", criterion))
	sb.WriteString("Respond ONLY with the number.\n")

	return sb.String()
}
