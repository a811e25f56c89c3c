package deckgen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You write flashcards for timed recall drills.

Rules:
- Each card has one question and exactly one short answer the learner types from memory.
- Answers must be unambiguous: no alternatives, no parentheses, no explanations.
- Prefer answers of one to three words.
- Questions must be distinct from each other and from the "already in the deck" list.
- Never copy the answer into the question.
- Follow any extra instructions given by the user.`

func buildUserMessage(req Request, want int, prior []string, maxPrior int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n", req.Topic)
	fmt.Fprintf(&b, "Cards wanted: %d\n", want)
	if req.CaseSensitive {
		b.WriteString("Answers are case sensitive; use the exact capitalisation expected.\n")
	}
	if req.Instructions != "" {
		fmt.Fprintf(&b, "Instructions: %s\n", req.Instructions)
	}
	b.WriteString("\nAlready in the deck:\n")
	b.WriteString(formatPrior(prior, maxPrior))
	return b.String()
}

// formatPrior numbers the most recent max entries, or returns "None".
func formatPrior(prior []string, max int) string {
	if len(prior) == 0 {
		return "None"
	}
	if max > 0 && len(prior) > max {
		prior = prior[len(prior)-max:]
	}
	var b strings.Builder
	for i, q := range prior {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d. %s", i+1, q)
	}
	return b.String()
}
