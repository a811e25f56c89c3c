package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/ben-spiller/FlashTeacher/internal/question"
)

// FileSourceName is the registry name of the JSON deck file source.
const FileSourceName = "file"

// DeckFile is the on-disk JSON form of a deck.
type DeckFile struct {
	CaseSensitive bool           `json:"caseSensitive"`
	Questions     []DeckQuestion `json:"questions"`
}

// DeckQuestion is one question/answer pair in a DeckFile.
type DeckQuestion struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// deckFileSchema rejects empty question or answer text.
var deckFileSchema = map[string]any{
	"type":     "object",
	"required": []any{"questions"},
	"properties": map[string]any{
		"caseSensitive": map[string]any{"type": "boolean"},
		"questions": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":                 "object",
				"required":             []any{"question", "answer"},
				"additionalProperties": false,
				"properties": map[string]any{
					"question": map[string]any{"type": "string", "pattern": `\S`},
					"answer":   map[string]any{"type": "string", "pattern": `\S`},
				},
			},
		},
	},
}

var (
	deckSchemaOnce sync.Once
	deckSchema     *jsonschema.Schema
	deckSchemaErr  error
)

func compiledDeckSchema() (*jsonschema.Schema, error) {
	deckSchemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		const url = "schema://deck-file.json"
		if err := c.AddResource(url, deckFileSchema); err != nil {
			deckSchemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		deckSchema, deckSchemaErr = c.Compile(url)
	})
	return deckSchema, deckSchemaErr
}

// ReadDeckFile parses and validates a JSON deck.
func ReadDeckFile(r io.Reader) (*DeckFile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read deck: %w", err)
	}

	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("invalid deck JSON: %w", err)
	}
	schema, err := compiledDeckSchema()
	if err != nil {
		return nil, fmt.Errorf("compile deck schema: %w", err)
	}
	if err := schema.Validate(parsed); err != nil {
		return nil, fmt.Errorf("deck validation failed: %w", err)
	}

	var df DeckFile
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&df); err != nil {
		return nil, fmt.Errorf("decode deck: %w", err)
	}
	return &df, nil
}

// WriteDeckFile writes df as indented JSON.
func WriteDeckFile(w io.Writer, df *DeckFile) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(df); err != nil {
		return fmt.Errorf("encode deck: %w", err)
	}
	return nil
}

// ToQuestions converts the deck to normalized questions.
func (df *DeckFile) ToQuestions() []question.Question {
	qs := make([]question.Question, 0, len(df.Questions))
	for _, q := range df.Questions {
		qs = append(qs, question.New(q.Question, q.Answer, df.CaseSensitive))
	}
	return qs
}

// FileSource loads a deck from a JSON file given by the "path" property.
// The optional "caseSensitive" property overrides the file's setting.
// Answers are checked with Matcher.
type FileSource struct {
	Matcher *question.Matcher
}

// NewFileSource returns a FileSource using the default matcher.
func NewFileSource() *FileSource {
	return &FileSource{Matcher: question.DefaultMatcher()}
}

func (s *FileSource) Name() string { return FileSourceName }

func (s *FileSource) LoadQuestions(_ context.Context, props map[string]string) ([]question.Question, error) {
	props = takeProps(props)
	path, ok := props["path"]
	delete(props, "path")
	if !ok || path == "" {
		return nil, fmt.Errorf("file source: missing %q property", "path")
	}
	override, hasOverride := props["caseSensitive"]
	delete(props, "caseSensitive")
	if err := unexpectedProps(props); err != nil {
		return nil, fmt.Errorf("file source: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open deck: %w", err)
	}
	defer f.Close()

	df, err := ReadDeckFile(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if hasOverride {
		cs, err := strconv.ParseBool(override)
		if err != nil {
			return nil, fmt.Errorf("file source: caseSensitive: %w", err)
		}
		df.CaseSensitive = cs
	}
	return df.ToQuestions(), nil
}

func (s *FileSource) OnQuestionPresented(question.Question) {}

func (s *FileSource) CheckAnswer(q question.Question, candidate string) (bool, error) {
	m := s.Matcher
	if m == nil {
		m = question.DefaultMatcher()
	}
	return m.IsAnswerCorrect(q, candidate), nil
}

func (s *FileSource) Close() error { return nil }
