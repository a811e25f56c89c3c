// Package question holds the immutable question/answer pair the drill engine
// works with, together with the normalization and locale-aware comparison
// rules used to match a typed answer against the expected one.
package question

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Question is an immutable, normalized question/answer pair.
//
// Identity is the question text alone: the answer may be edited without
// producing a different question for history-matching purposes.
type Question struct {
	text          string
	answer        string
	caseSensitive bool
}

// New creates a Question, collapsing runs of whitespace, trimming both ends
// and storing both strings in Unicode canonical-decomposed form (NFD).
func New(text, answer string, caseSensitive bool) Question {
	return Question{
		text:          Normalize(text),
		answer:        Normalize(answer),
		caseSensitive: caseSensitive,
	}
}

// Normalize applies the same normalization New applies to question and
// answer text. Candidate answers go through it before comparison.
func Normalize(s string) string {
	return norm.NFD.String(strings.Join(strings.Fields(s), " "))
}

// Text returns the normalized question text.
func (q Question) Text() string { return q.text }

// Answer returns the normalized canonical answer.
func (q Question) Answer() string { return q.answer }

// CaseSensitive reports whether answers must match case exactly.
func (q Question) CaseSensitive() bool { return q.caseSensitive }

// Key is the identity used to match questions against persisted history.
func (q Question) Key() string { return q.text }

// IsZero reports whether q is the zero Question.
func (q Question) IsZero() bool { return q.text == "" && q.answer == "" }

// AnswerLength returns the number of characters in the answer, not counting
// spaces. Used to discount typing time from the time to answer.
func (q Question) AnswerLength() int {
	return len([]rune(strings.ReplaceAll(q.answer, " ", "")))
}

func (q Question) String() string {
	return fmt.Sprintf("Question(%q, %q)", q.text, q.answer)
}
