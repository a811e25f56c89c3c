package source

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/ben-spiller/FlashTeacher/internal/question"
)

// SolfegeSourceName is the registry name of the solfège dictation source.
const SolfegeSourceName = "solfege"

// MaxSolfegeQuestions caps how many note sequences may be generated.
const MaxSolfegeQuestions = 10000

const (
	octaveDown = ","
	octaveUp   = "'"
)

var solfegeAbbreviations = map[string]string{
	"t": "ti", "l": "la", "s": "so", "f": "fa", "m": "me", "r": "re", "d": "do",
}

var solfegeNotes = map[string]bool{
	"ti": true, "la": true, "so": true, "fa": true, "me": true, "re": true, "do": true,
}

// SolfegeSource generates every sequence of notesPerQuestion notes drawn
// from solfegeValues with no note repeated back to back. The question and
// answer are both the sequence. Answers may use one-letter abbreviations
// ("drm" for "do re me") and octave marks are ignored.
//
// Properties: solfegeValues (space-separated notes, required) and
// notesPerQuestion (required).
type SolfegeSource struct {
	mu        sync.Mutex
	values    []string
	presented int
}

// NewSolfegeSource returns an unloaded SolfegeSource.
func NewSolfegeSource() *SolfegeSource { return &SolfegeSource{} }

func (s *SolfegeSource) Name() string { return SolfegeSourceName }

func (s *SolfegeSource) LoadQuestions(_ context.Context, props map[string]string) ([]question.Question, error) {
	props = takeProps(props)
	rawValues := props["solfegeValues"]
	rawCount := props["notesPerQuestion"]
	delete(props, "solfegeValues")
	delete(props, "notesPerQuestion")
	if err := unexpectedProps(props); err != nil {
		return nil, fmt.Errorf("solfege source: %w", err)
	}

	normalized, err := normalizeSolfege(rawValues)
	if err != nil {
		return nil, fmt.Errorf("solfege source: solfegeValues: %w", err)
	}
	values := strings.Fields(normalized)
	if len(values) == 0 {
		return nil, fmt.Errorf("solfege source: missing %q property", "solfegeValues")
	}
	n, err := strconv.Atoi(strings.TrimSpace(rawCount))
	if err != nil || n < 1 {
		return nil, fmt.Errorf("solfege source: notesPerQuestion must be a positive integer, got %q", rawCount)
	}

	var qs []question.Question
	if err := generateSolfege(nil, values, n, &qs); err != nil {
		return nil, fmt.Errorf("solfege source: %w", err)
	}

	s.mu.Lock()
	s.values = values
	s.presented = 0
	s.mu.Unlock()
	return qs, nil
}

func generateSolfege(prefix, values []string, remaining int, out *[]question.Question) error {
	if len(*out) > MaxSolfegeQuestions {
		return fmt.Errorf("cannot create this many questions, breached limit after %d", len(*out))
	}
	for _, v := range values {
		if len(prefix) > 0 && prefix[len(prefix)-1] == v {
			continue
		}
		seq := append(prefix[:len(prefix):len(prefix)], v)
		if remaining == 1 {
			text := strings.Join(seq, " ")
			*out = append(*out, question.New(text, text, false))
			continue
		}
		if err := generateSolfege(seq, values, remaining-1, out); err != nil {
			return err
		}
	}
	return nil
}

// OnQuestionPresented counts presentations. Playing the notes is left to
// the front end.
func (s *SolfegeSource) OnQuestionPresented(question.Question) {
	s.mu.Lock()
	s.presented++
	s.mu.Unlock()
}

// Presented returns how many questions have been presented since loading.
func (s *SolfegeSource) Presented() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presented
}

// Values returns the configured notes.
func (s *SolfegeSource) Values() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.values...)
}

// CheckAnswer compares notes ignoring case and octave marks. A candidate
// that is not solfège, or has the wrong number of notes, is an
// InvalidAnswerError rather than a wrong answer.
func (s *SolfegeSource) CheckAnswer(q question.Question, candidate string) (bool, error) {
	normalized, err := normalizeSolfege(stripOctaves(candidate))
	if err != nil {
		return false, &question.InvalidAnswerError{Reason: err.Error()}
	}
	want := strings.ToLower(stripOctaves(q.Answer()))
	if len(want) != len(normalized) {
		return false, &question.InvalidAnswerError{
			Reason: fmt.Sprintf("There should be %d note(s) in the answer", len(strings.Fields(q.Answer()))),
		}
	}
	return want == normalized, nil
}

func (s *SolfegeSource) Close() error {
	s.mu.Lock()
	s.values = nil
	s.mu.Unlock()
	return nil
}

func stripOctaves(s string) string {
	return strings.NewReplacer(octaveDown, "", octaveUp, "").Replace(s)
}

// normalizeSolfege lower-cases s and expands abbreviations. Notes are
// separated by spaces; a string with no spaces is either one note or a run
// of one-letter abbreviations.
func normalizeSolfege(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", nil
	}
	if note, err := normalizeSolfegeNote(s); err == nil {
		return note, nil
	}

	var tokens []string
	if strings.Contains(s, " ") {
		tokens = strings.Fields(s)
	} else {
		tokens = splitAbbreviations(s)
	}
	for i, t := range tokens {
		note, err := normalizeSolfegeNote(t)
		if err != nil {
			return "", err
		}
		tokens[i] = note
	}
	return strings.Join(tokens, " "), nil
}

// splitAbbreviations splits a run such as "drm'" into "d", "r", "m'",
// keeping octave marks with the note before them.
func splitAbbreviations(s string) []string {
	var out []string
	for _, r := range s {
		c := string(r)
		if (c == octaveUp || c == octaveDown) && len(out) > 0 {
			out[len(out)-1] += c
			continue
		}
		out = append(out, c)
	}
	return out
}

func normalizeSolfegeNote(note string) (string, error) {
	base, octaves := note, ""
	if i := strings.IndexAny(note, octaveDown+octaveUp); i >= 0 {
		base, octaves = note[:i], note[i:]
		if stripOctaves(octaves) != "" {
			return "", fmt.Errorf("expecting a solfege symbol such as 'do' but got: '%s'", note)
		}
	}
	if full, ok := solfegeAbbreviations[base]; ok {
		base = full
	}
	if !solfegeNotes[base] {
		return "", fmt.Errorf("expecting a solfege symbol such as 'do' but got: '%s'", note)
	}
	return base + octaves, nil
}
