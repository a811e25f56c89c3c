package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const deckJSON = `{"questions":[{"question":"chien","answer":"dog"}]}`

func jsonServer(t *testing.T, status int, body any) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func deckRequest() Request {
	return Request{
		System:    "You write flashcards.",
		Messages:  []Message{{Role: RoleUser, Content: "French animals"}},
		Schema:    testSchema(),
		MaxTokens: 512,
	}
}

func anthropicAt(t *testing.T, url string) *AnthropicProvider {
	t.Helper()
	p, err := NewAnthropicProvider(ProviderConfig{APIKey: "k", Model: "claude-haiku"},
		option.WithBaseURL(url), option.WithMaxRetries(0))
	require.NoError(t, err)
	return p
}

func openaiAt(t *testing.T, url string) *OpenAIProvider {
	t.Helper()
	p, err := NewOpenAIProvider(ProviderConfig{APIKey: "k", Model: "gpt-mini", BaseURL: url})
	require.NoError(t, err)
	return p
}

func TestAnthropicProvider_Generate(t *testing.T) {
	url := jsonServer(t, http.StatusOK, map[string]any{
		"id":          "msg_1",
		"type":        "message",
		"role":        "assistant",
		"model":       "claude-haiku-4-5-20251001",
		"stop_reason": "end_turn",
		"content":     []map[string]any{{"type": "text", "text": deckJSON}},
		"usage":       map[string]any{"input_tokens": 50, "output_tokens": 20},
	})
	p := anthropicAt(t, url)
	assert.Equal(t, "claude-haiku-4-5-20251001", p.ModelID())

	resp, err := p.Generate(context.Background(), deckRequest())
	require.NoError(t, err)
	assert.JSONEq(t, deckJSON, string(resp.Content))
	assert.Equal(t, Usage{InputTokens: 50, OutputTokens: 20, TotalTokens: 70}, resp.Usage)
	assert.Equal(t, "end", resp.StopReason)
}

func TestAnthropicProvider_Truncated(t *testing.T) {
	url := jsonServer(t, http.StatusOK, map[string]any{
		"id": "msg_1", "type": "message", "role": "assistant",
		"model":       "claude-haiku-4-5-20251001",
		"stop_reason": "max_tokens",
		"content":     []map[string]any{{"type": "text", "text": `{"questions":[`}},
		"usage":       map[string]any{"input_tokens": 1, "output_tokens": 1},
	})
	_, err := anthropicAt(t, url).Generate(context.Background(), deckRequest())
	var trunc *ErrMaxTokensExceeded
	assert.ErrorAs(t, err, &trunc)
}

func TestOpenAIProvider_Generate(t *testing.T) {
	url := jsonServer(t, http.StatusOK, map[string]any{
		"id":     "chatcmpl-1",
		"object": "chat.completion",
		"model":  "gpt-4.1-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": deckJSON},
			"finish_reason": "stop",
		}},
		"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
	})
	p := openaiAt(t, url)
	assert.Equal(t, "gpt-4.1-mini", p.ModelID())

	resp, err := p.Generate(context.Background(), deckRequest())
	require.NoError(t, err)
	assert.JSONEq(t, deckJSON, string(resp.Content))
	assert.Equal(t, 65, resp.Usage.TotalTokens)
}

func TestProviders_ErrorMapping(t *testing.T) {
	anthropicErr := func(kind string) map[string]any {
		return map[string]any{"type": "error", "error": map[string]any{"type": kind, "message": kind}}
	}
	openaiErr := func(kind string) map[string]any {
		return map[string]any{"error": map[string]any{"type": kind, "message": kind}}
	}

	tests := []struct {
		name      string
		status    int
		rateLimit bool
	}{
		{"rate limited", http.StatusTooManyRequests, true},
		{"server error", http.StatusInternalServerError, false},
	}
	for _, tt := range tests {
		t.Run("anthropic "+tt.name, func(t *testing.T) {
			url := jsonServer(t, tt.status, anthropicErr("api_error"))
			_, err := anthropicAt(t, url).Generate(context.Background(), deckRequest())
			assertErrorKind(t, err, tt.rateLimit)
		})
		t.Run("openai "+tt.name, func(t *testing.T) {
			url := jsonServer(t, tt.status, openaiErr("server_error"))
			_, err := openaiAt(t, url).Generate(context.Background(), deckRequest())
			assertErrorKind(t, err, tt.rateLimit)
		})
	}
}

func assertErrorKind(t *testing.T, err error, rateLimit bool) {
	t.Helper()
	require.Error(t, err)
	if rateLimit {
		var rl *ErrRateLimit
		assert.ErrorAs(t, err, &rl)
		return
	}
	var unavail *ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavail)
}

func TestGeminiSchema(t *testing.T) {
	s := geminiSchema(testSchema().Definition)
	assert.Equal(t, "OBJECT", string(s.Type))
	assert.Equal(t, []string{"questions"}, s.Required)

	list := s.Properties["questions"]
	require.NotNil(t, list)
	assert.Equal(t, "ARRAY", string(list.Type))
	require.NotNil(t, list.MinItems)
	assert.Equal(t, int64(1), *list.MinItems)

	item := list.Items
	require.NotNil(t, item)
	assert.Equal(t, "STRING", string(item.Properties["answer"].Type))
	assert.Equal(t, []string{"word", "phrase"}, item.Properties["kind"].Enum)
}

func TestNewProviders_RequireKey(t *testing.T) {
	_, err := NewAnthropicProvider(ProviderConfig{})
	assert.Error(t, err)
	_, err = NewOpenAIProvider(ProviderConfig{})
	assert.Error(t, err)
	_, err = NewGeminiProvider(context.Background(), ProviderConfig{})
	assert.Error(t, err)
}
