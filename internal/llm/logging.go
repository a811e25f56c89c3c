package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// RequestRecord describes one completed Generate call.
type RequestRecord struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	Latency      time.Duration
	Success      bool
	Error        string
	Prompt       string
	Response     string
}

// RequestSink stores RequestRecords. The store package implements it.
type RequestSink interface {
	AppendLLMRequest(ctx context.Context, rec RequestRecord) error
}

// LoggingProvider records every call to a RequestSink.
type LoggingProvider struct {
	name  string
	inner Provider
	sink  RequestSink
}

// WithLogging wraps p. A nil sink returns p unchanged.
func WithLogging(name string, p Provider, sink RequestSink) Provider {
	if sink == nil {
		return p
	}
	return &LoggingProvider{name: name, inner: p, sink: sink}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	rec := RequestRecord{
		Provider: l.name,
		Model:    l.inner.ModelID(),
		Purpose:  PurposeFrom(ctx),
		Latency:  time.Since(start),
		Success:  err == nil,
		Prompt:   transcript(req),
	}
	if resp != nil {
		rec.Model = resp.Model
		rec.InputTokens = resp.Usage.InputTokens
		rec.OutputTokens = resp.Usage.OutputTokens
		rec.Response = string(resp.Content)
	}
	if err != nil {
		rec.Error = err.Error()
	}
	if logErr := l.sink.AppendLLMRequest(context.WithoutCancel(ctx), rec); logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to record LLM request: %v\n", logErr)
	}
	return resp, err
}

func (l *LoggingProvider) ModelID() string { return l.inner.ModelID() }

func transcript(req Request) string {
	var b strings.Builder
	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}
