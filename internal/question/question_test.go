package question

import (
	"testing"

	"golang.org/x/text/unicode/norm"
)

func TestNew_Normalizes(t *testing.T) {
	q := New("  What   is\tthe capital\nof France?  ", " Paris ", false)
	if q.Text() != "What is the capital of France?" {
		t.Errorf("Text() = %q, want collapsed whitespace", q.Text())
	}
	if q.Answer() != "Paris" {
		t.Errorf("Answer() = %q, want %q", q.Answer(), "Paris")
	}
	if q.Key() != q.Text() {
		t.Errorf("Key() = %q, want %q", q.Key(), q.Text())
	}
}

func TestNew_StoresNFD(t *testing.T) {
	q := New("café", "résumé", true)
	if !norm.NFD.IsNormalString(q.Text()) {
		t.Errorf("Text() %q is not NFD", q.Text())
	}
	if !norm.NFD.IsNormalString(q.Answer()) {
		t.Errorf("Answer() %q is not NFD", q.Answer())
	}
	if q.Text() != "cafe\u0301" {
		t.Errorf("Text() = %q, want decomposed form", q.Text())
	}
}

func TestQuestion_AnswerLength(t *testing.T) {
	tests := []struct {
		answer string
		want   int
	}{
		{"abc", 3},
		{"a b c", 3},
		{"", 0},
		{"do re mi", 6},
	}
	for _, tt := range tests {
		q := New("q", tt.answer, false)
		if got := q.AnswerLength(); got != tt.want {
			t.Errorf("AnswerLength(%q) = %d, want %d", tt.answer, got, tt.want)
		}
	}
}

func TestMatcher_IsAnswerCorrect(t *testing.T) {
	m := DefaultMatcher()
	tests := []struct {
		name          string
		answer        string
		caseSensitive bool
		candidate     string
		want          bool
	}{
		{"exact", "Paris", true, "Paris", true},
		{"extra whitespace", "New York", true, "  New   York ", true},
		{"case folded", "Paris", false, "pARIS", true},
		{"case sensitive mismatch", "Paris", true, "paris", false},
		{"composed vs decomposed", "café", true, "cafe\u0301", true},
		{"wrong", "Paris", false, "London", false},
		{"accent significant at tertiary", "café", false, "cafe", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := New("q", tt.answer, tt.caseSensitive)
			if got := m.IsAnswerCorrect(q, tt.candidate); got != tt.want {
				t.Errorf("IsAnswerCorrect(%q) = %v, want %v", tt.candidate, got, tt.want)
			}
		})
	}
}

func TestMatcher_PrimaryStrengthIgnoresAccents(t *testing.T) {
	m, err := NewMatcher(MatchConfig{Locale: "fr", Strength: StrengthPrimary})
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}
	q := New("q", "résumé", true)
	if !m.IsAnswerCorrect(q, "resume") {
		t.Error("primary strength should ignore diacritics")
	}
}

func TestNewMatcher_BadLocale(t *testing.T) {
	if _, err := NewMatcher(MatchConfig{Locale: "not a locale!!"}); err == nil {
		t.Error("expected error for malformed locale")
	}
}

func TestParseStrength(t *testing.T) {
	tests := []struct {
		in      string
		want    Strength
		wantErr bool
	}{
		{"primary", StrengthPrimary, false},
		{"Secondary", StrengthSecondary, false},
		{"tertiary", StrengthTertiary, false},
		{"", StrengthTertiary, false},
		{"quaternary", StrengthTertiary, true},
	}
	for _, tt := range tests {
		got, err := ParseStrength(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseStrength(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseStrength(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
