package question

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Strength selects which differences the collator treats as significant.
type Strength int

const (
	// StrengthTertiary treats base letters, accents, case and width as
	// significant. Canonically equivalent strings still compare equal.
	StrengthTertiary Strength = iota
	// StrengthSecondary ignores case and width but not accents.
	StrengthSecondary
	// StrengthPrimary only compares base letters, so "é" matches "e".
	StrengthPrimary
)

func (s Strength) String() string {
	switch s {
	case StrengthPrimary:
		return "primary"
	case StrengthSecondary:
		return "secondary"
	default:
		return "tertiary"
	}
}

// ParseStrength parses "primary", "secondary" or "tertiary".
func ParseStrength(s string) (Strength, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "primary":
		return StrengthPrimary, nil
	case "secondary":
		return StrengthSecondary, nil
	case "tertiary", "":
		return StrengthTertiary, nil
	}
	return StrengthTertiary, fmt.Errorf("unknown collation strength %q", s)
}

// MatchConfig configures answer comparison.
type MatchConfig struct {
	// Locale is the BCP-47 tag driving collation and case folding.
	Locale string

	// Strength is the collation strength.
	Strength Strength
}

// DefaultMatchConfig returns English, tertiary-strength matching.
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{Locale: "en", Strength: StrengthTertiary}
}

// Matcher compares candidate answers against a question's answer using
// locale-aware collation. Safe for concurrent use.
type Matcher struct {
	cfg   MatchConfig
	mu    sync.Mutex
	coll  *collate.Collator
	lower cases.Caser
}

// NewMatcher builds a Matcher for the given configuration.
func NewMatcher(cfg MatchConfig) (*Matcher, error) {
	tag := language.English
	if cfg.Locale != "" {
		t, err := language.Parse(cfg.Locale)
		if err != nil {
			return nil, fmt.Errorf("parse locale %q: %w", cfg.Locale, err)
		}
		tag = t
	}

	var opts []collate.Option
	switch cfg.Strength {
	case StrengthPrimary:
		opts = append(opts, collate.IgnoreDiacritics, collate.IgnoreCase, collate.IgnoreWidth)
	case StrengthSecondary:
		opts = append(opts, collate.IgnoreCase, collate.IgnoreWidth)
	}

	return &Matcher{
		cfg:   cfg,
		coll:  collate.New(tag, opts...),
		lower: cases.Lower(tag),
	}, nil
}

var (
	defaultMatcherOnce sync.Once
	defaultMatcher     *Matcher
)

// DefaultMatcher returns a shared Matcher using DefaultMatchConfig.
func DefaultMatcher() *Matcher {
	defaultMatcherOnce.Do(func() {
		m, err := NewMatcher(DefaultMatchConfig())
		if err != nil {
			panic(fmt.Sprintf("question: default matcher: %v", err))
		}
		defaultMatcher = m
	})
	return defaultMatcher
}

// Config returns the configuration the matcher was built with.
func (m *Matcher) Config() MatchConfig { return m.cfg }

// Equal reports whether a and b collate as equal. Neither side is
// normalized or case-folded first.
func (m *Matcher) Equal(a, b string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.coll.CompareString(a, b) == 0
}

// IsAnswerCorrect normalizes candidate, lower-cases both sides when q is not
// case sensitive and compares them with the collator.
func (m *Matcher) IsAnswerCorrect(q Question, candidate string) bool {
	got := Normalize(candidate)
	want := q.answer

	m.mu.Lock()
	defer m.mu.Unlock()
	if !q.caseSensitive {
		got = m.lower.String(got)
		want = m.lower.String(want)
	}
	return m.coll.CompareString(want, got) == 0
}
