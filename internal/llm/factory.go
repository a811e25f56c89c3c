package llm

import (
	"context"
	"fmt"
)

// NewProvider builds the configured provider wrapped as
// retry(logging(base)). sink may be nil.
func NewProvider(ctx context.Context, cfg Config, sink RequestSink) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error
	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "mock":
		return NewMockProvider(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}
	return WithRetry(WithLogging(cfg.Provider, base, sink), cfg.Retry), nil
}
