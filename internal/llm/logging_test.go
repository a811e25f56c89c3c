package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySink struct {
	records []RequestRecord
	err     error
}

func (s *memorySink) AppendLLMRequest(_ context.Context, rec RequestRecord) error {
	s.records = append(s.records, rec)
	return s.err
}

func TestLoggingProvider(t *testing.T) {
	sink := &memorySink{}
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(deckJSON), Usage: Usage{InputTokens: 10, OutputTokens: 4}},
		MockResponse{Err: errors.New("down")},
	)
	p := WithLogging("mock", mock, sink)
	ctx := WithPurpose(context.Background(), "deck-generation")

	_, err := p.Generate(ctx, Request{
		System:   "sys",
		Messages: []Message{{Role: RoleUser, Content: "make a deck"}},
		Schema:   testSchema(),
	})
	require.NoError(t, err)
	_, err = p.Generate(ctx, Request{})
	require.Error(t, err)

	require.Len(t, sink.records, 2)
	first := sink.records[0]
	assert.Equal(t, "mock", first.Provider)
	assert.Equal(t, "deck-generation", first.Purpose)
	assert.True(t, first.Success)
	assert.Equal(t, 10, first.InputTokens)
	assert.Contains(t, first.Prompt, "[system]\nsys")
	assert.Contains(t, first.Prompt, "[user]\nmake a deck")
	assert.Contains(t, first.Prompt, "[schema test-deck]")
	assert.JSONEq(t, deckJSON, first.Response)

	assert.False(t, sink.records[1].Success)
	assert.Equal(t, "down", sink.records[1].Error)
}

func TestLoggingProvider_SinkFailureIsNotFatal(t *testing.T) {
	sink := &memorySink{err: errors.New("disk full")}
	p := WithLogging("mock", NewMockProvider(okReply), sink)
	_, err := p.Generate(context.Background(), Request{})
	assert.NoError(t, err)
}

func TestWithLogging_NilSink(t *testing.T) {
	mock := NewMockProvider()
	assert.Same(t, Provider(mock), WithLogging("mock", mock, nil))
}
