// Package source defines where a deck's questions come from. A Source loads
// questions from its properties, may react when a question is presented
// and may check answers with rules of its own. Sources are created and shut
// down through an explicitly owned Registry.
package source

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/ben-spiller/FlashTeacher/internal/question"
)

// Source produces a deck of questions.
type Source interface {
	// Name returns the name the source is registered under.
	Name() string

	// LoadQuestions builds the deck. Unknown property keys are an error.
	LoadQuestions(ctx context.Context, props map[string]string) ([]question.Question, error)

	// OnQuestionPresented is called each time a question becomes current.
	OnQuestionPresented(q question.Question)

	// CheckAnswer reports whether candidate answers q. It returns a
	// *question.InvalidAnswerError if candidate is not a permitted answer.
	CheckAnswer(q question.Question, candidate string) (bool, error)

	// Close releases any resources held by the source.
	Close() error
}

// Factory creates a new Source instance.
type Factory func() Source

// Registry resolves sources by name. Each name has at most one live
// instance, created on first use and closed by ShutdownAll.
type Registry struct {
	mu        sync.Mutex
	factories map[string]Factory
	live      map[string]Source
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		live:      make(map[string]Source),
	}
}

// Builtin returns a registry with the built-in "file" and "solfege" sources.
func Builtin() *Registry {
	r := NewRegistry()
	// Names are distinct, so registration cannot fail.
	_ = r.Register(FileSourceName, func() Source { return NewFileSource() })
	_ = r.Register(SolfegeSourceName, func() Source { return NewSolfegeSource() })
	return r
}

// Register adds a factory under name.
func (r *Registry) Register(name string, f Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if name == "" {
		return errors.New("source name must not be empty")
	}
	if _, dup := r.factories[name]; dup {
		return fmt.Errorf("source %q already registered", name)
	}
	r.factories[name] = f
	return nil
}

// Names returns the registered source names in sorted order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Sorted(maps.Keys(r.factories))
}

// Open returns the live instance for name, creating it if needed.
func (r *Registry) Open(name string) (Source, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.live[name]; ok {
		return s, nil
	}
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown source %q", name)
	}
	s := f()
	r.live[name] = s
	return s, nil
}

// ShutdownAll closes every live instance and forgets them. Factories stay
// registered, so Open creates fresh instances afterwards.
func (r *Registry) ShutdownAll() error {
	r.mu.Lock()
	live := r.live
	r.live = make(map[string]Source)
	r.mu.Unlock()

	var errs []error
	for _, name := range slices.Sorted(maps.Keys(live)) {
		if err := live[name].Close(); err != nil {
			errs = append(errs, fmt.Errorf("close source %q: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// takeProps copies props so that sources can consume keys and report
// whatever is left over.
func takeProps(props map[string]string) map[string]string {
	return maps.Clone(props)
}

func unexpectedProps(props map[string]string) error {
	if len(props) == 0 {
		return nil
	}
	return fmt.Errorf("unexpected source properties: %v", slices.Sorted(maps.Keys(props)))
}
