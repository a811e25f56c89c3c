package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/ben-spiller/FlashTeacher/ent/migrate"
	"github.com/ben-spiller/FlashTeacher/internal/llm"
)

// LLMRequest is a stored llm.RequestRecord.
type LLMRequest struct {
	ID           int64
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
	RequestedAt  time.Time
}

// EventRepo is the LLM request log. It satisfies llm.RequestSink.
type EventRepo struct {
	s *Store
}

var _ llm.RequestSink = (*EventRepo)(nil)

// AppendLLMRequest stores rec.
func (r *EventRepo) AppendLLMRequest(ctx context.Context, rec llm.RequestRecord) error {
	q := r.s.sql().Insert(migrate.LlmRequestsTable.Name).
		Columns("provider", "model", "purpose", "input_tokens", "output_tokens", "latency_ms",
			"success", "error_message", "request_body", "response_body", "requested_at").
		Values(rec.Provider, rec.Model, rec.Purpose, rec.InputTokens, rec.OutputTokens,
			rec.Latency.Milliseconds(), rec.Success, rec.Error, rec.Prompt, rec.Response, time.Now().UTC())
	if _, err := r.s.exec(ctx, q); err != nil {
		return fmt.Errorf("save LLM request: %w", err)
	}
	return nil
}

var llmSelectColumns = []string{
	"id", "provider", "model", "purpose", "input_tokens", "output_tokens", "latency_ms",
	"success", "error_message", "request_body", "response_body", "requested_at",
}

// QueryLLMRequests lists requests newest first. An empty purpose matches
// all; limit 0 means no limit.
func (r *EventRepo) QueryLLMRequests(ctx context.Context, purpose string, limit int) ([]LLMRequest, error) {
	sel := r.s.sql().Select(llmSelectColumns...).
		From(entsql.Table(migrate.LlmRequestsTable.Name)).
		OrderBy(entsql.Desc("id"))
	if purpose != "" {
		sel.Where(entsql.EQ("purpose", purpose))
	}
	if limit > 0 {
		sel.Limit(limit)
	}
	return r.scan(ctx, sel)
}

// GetLLMRequest returns one request or nil.
func (r *EventRepo) GetLLMRequest(ctx context.Context, id int64) (*LLMRequest, error) {
	sel := r.s.sql().Select(llmSelectColumns...).
		From(entsql.Table(migrate.LlmRequestsTable.Name)).
		Where(entsql.EQ("id", id))
	reqs, err := r.scan(ctx, sel)
	if err != nil || len(reqs) == 0 {
		return nil, err
	}
	return &reqs[0], nil
}

func (r *EventRepo) scan(ctx context.Context, sel *entsql.Selector) ([]LLMRequest, error) {
	rows, err := r.s.query(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("query LLM requests: %w", err)
	}
	defer rows.Close()

	var out []LLMRequest
	for rows.Next() {
		var e LLMRequest
		if err := rows.Scan(&e.ID, &e.Provider, &e.Model, &e.Purpose, &e.InputTokens, &e.OutputTokens,
			&e.LatencyMs, &e.Success, &e.ErrorMessage, &e.RequestBody, &e.ResponseBody, &e.RequestedAt); err != nil {
			return nil, fmt.Errorf("scan LLM request: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// LLMUsage aggregates the requests sharing one model or purpose.
type LLMUsage struct {
	Key            string
	Calls          int
	InputTokens    int
	OutputTokens   int
	TotalLatencyMs int64
}

// AvgLatencyMs is the mean request latency.
func (u LLMUsage) AvgLatencyMs() int64 {
	if u.Calls == 0 {
		return 0
	}
	return u.TotalLatencyMs / int64(u.Calls)
}

// UsageByPurpose totals requests per purpose.
func (r *EventRepo) UsageByPurpose(ctx context.Context) ([]LLMUsage, error) {
	return r.usage(ctx, "purpose")
}

// UsageByModel totals requests per model.
func (r *EventRepo) UsageByModel(ctx context.Context) ([]LLMUsage, error) {
	return r.usage(ctx, "model")
}

func (r *EventRepo) usage(ctx context.Context, column string) ([]LLMUsage, error) {
	sel := r.s.sql().Select(column, entsql.Count("*"),
		"SUM(input_tokens)", "SUM(output_tokens)", "SUM(latency_ms)").
		From(entsql.Table(migrate.LlmRequestsTable.Name)).
		GroupBy(column).
		OrderBy(column)
	rows, err := r.s.query(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("query LLM usage: %w", err)
	}
	defer rows.Close()

	var out []LLMUsage
	for rows.Next() {
		var u LLMUsage
		var in, outTokens int64
		if err := rows.Scan(&u.Key, &u.Calls, &in, &outTokens, &u.TotalLatencyMs); err != nil {
			return nil, fmt.Errorf("scan LLM usage: %w", err)
		}
		u.InputTokens = int(in)
		u.OutputTokens = int(outTokens)
		out = append(out, u)
	}
	return out, rows.Err()
}
