// Package deckgen drafts question decks with a language model. The result
// is a source.DeckFile ready to be written next to hand-made decks and
// drilled through the file source.
package deckgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ben-spiller/FlashTeacher/internal/llm"
	"github.com/ben-spiller/FlashTeacher/internal/question"
	"github.com/ben-spiller/FlashTeacher/internal/source"
)

// Config tunes generation.
type Config struct {
	// BatchSize is how many pairs one request asks for.
	BatchSize int

	// MaxRounds caps requests per Generate call, counting rounds that
	// added nothing.
	MaxRounds int

	// MaxExisting is how many already-known questions are listed in the
	// prompt so the model avoids them.
	MaxExisting int

	MaxTokens   int
	Temperature float64

	// MaxTextLength rejects overlong questions or answers, in runes.
	MaxTextLength int
}

// DefaultConfig returns the defaults used by the generate command.
func DefaultConfig() Config {
	return Config{
		BatchSize:     25,
		MaxRounds:     8,
		MaxExisting:   40,
		MaxTokens:     4096,
		Temperature:   0.7,
		MaxTextLength: 200,
	}
}

// Request describes the deck to draft.
type Request struct {
	Topic string

	// Instructions are free-form extra guidance, e.g. "answers in English".
	Instructions string

	Count         int
	CaseSensitive bool

	// Existing questions are never duplicated; new pairs are appended
	// after them in the result.
	Existing []source.DeckQuestion
}

// Result is a drafted deck plus what it cost to make.
type Result struct {
	Deck     *source.DeckFile
	Added    int
	Rejected []Rejection
	Usage    llm.Usage
	Requests int
}

// Generator drafts decks with an llm.Provider.
type Generator struct {
	provider llm.Provider
	cfg      Config
}

// New returns a Generator.
func New(provider llm.Provider, cfg Config) *Generator {
	return &Generator{provider: provider, cfg: cfg}
}

// ErrNoQuestions is returned when the model produced nothing usable.
var ErrNoQuestions = errors.New("no usable questions generated")

type deckOutput struct {
	Questions []source.DeckQuestion `json:"questions"`
}

// Generate asks the model for batches until req.Count new pairs are
// collected or MaxRounds requests have been made. A partial deck is
// returned without error; an empty one fails with ErrNoQuestions.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	if req.Topic == "" {
		return nil, errors.New("deck topic is required")
	}
	if req.Count <= 0 {
		return nil, fmt.Errorf("question count must be positive, got %d", req.Count)
	}
	ctx = llm.WithPurpose(ctx, "deck-generation")

	res := &Result{Deck: &source.DeckFile{CaseSensitive: req.CaseSensitive}}
	seen := newDedup(req.CaseSensitive)
	for _, q := range req.Existing {
		seen.add(q.Question)
		res.Deck.Questions = append(res.Deck.Questions, q)
	}
	prior := make([]string, 0, len(req.Existing))
	for _, q := range req.Existing {
		prior = append(prior, q.Question)
	}

	for round := 0; round < g.cfg.MaxRounds && res.Added < req.Count; round++ {
		want := min(g.cfg.BatchSize, req.Count-res.Added)
		resp, err := g.provider.Generate(ctx, llm.Request{
			System:      systemPrompt,
			Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildUserMessage(req, want, prior, g.cfg.MaxExisting)}},
			Schema:      DeckSchema,
			MaxTokens:   g.cfg.MaxTokens,
			Temperature: g.cfg.Temperature,
		})
		res.Requests++
		if err != nil {
			if res.Added > 0 {
				break
			}
			return nil, fmt.Errorf("generate deck: %w", err)
		}
		res.Usage.InputTokens += resp.Usage.InputTokens
		res.Usage.OutputTokens += resp.Usage.OutputTokens
		res.Usage.TotalTokens += resp.Usage.TotalTokens

		var out deckOutput
		if err := json.Unmarshal(resp.Content, &out); err != nil {
			return nil, fmt.Errorf("parse generated deck: %w", err)
		}
		for _, dq := range out.Questions {
			if res.Added == req.Count {
				break
			}
			q := question.New(dq.Question, dq.Answer, req.CaseSensitive)
			if reason := g.check(q); reason != "" {
				res.Rejected = append(res.Rejected, Rejection{Question: dq.Question, Reason: reason})
				continue
			}
			if !seen.add(q.Text()) {
				res.Rejected = append(res.Rejected, Rejection{Question: dq.Question, Reason: "duplicate"})
				continue
			}
			res.Deck.Questions = append(res.Deck.Questions, source.DeckQuestion{Question: q.Text(), Answer: q.Answer()})
			prior = append(prior, q.Text())
			res.Added++
		}
	}

	if len(res.Deck.Questions) == 0 {
		return nil, ErrNoQuestions
	}
	return res, nil
}
