package deckgen

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"github.com/ben-spiller/FlashTeacher/internal/question"
)

// Rejection records a generated pair that was dropped.
type Rejection struct {
	Question string
	Reason   string
}

func (g *Generator) check(q question.Question) string {
	switch {
	case q.Text() == "":
		return "empty question"
	case q.Answer() == "":
		return "empty answer"
	case g.cfg.MaxTextLength > 0 && utf8.RuneCountInString(q.Text()) > g.cfg.MaxTextLength:
		return "question too long"
	case g.cfg.MaxTextLength > 0 && utf8.RuneCountInString(q.Answer()) > g.cfg.MaxTextLength:
		return "answer too long"
	case strings.EqualFold(q.Text(), q.Answer()):
		return "answer repeats the question"
	}
	return ""
}

// dedup tracks question texts already in the deck.
type dedup struct {
	fold cases.Caser
	keys map[string]struct{}
	cs   bool
}

func newDedup(caseSensitive bool) *dedup {
	return &dedup{fold: cases.Fold(), keys: make(map[string]struct{}), cs: caseSensitive}
}

// add reports whether text was new.
func (d *dedup) add(text string) bool {
	k := question.Normalize(text)
	if !d.cs {
		k = d.fold.String(k)
	}
	if _, ok := d.keys[k]; ok {
		return false
	}
	d.keys[k] = struct{}{}
	return true
}
