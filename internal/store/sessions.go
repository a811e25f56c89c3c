package store

import (
	"context"
	stdsql "database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/ben-spiller/FlashTeacher/ent/migrate"
)

// SessionRecord is one drill session.
type SessionRecord struct {
	ID                string          `sql:"id"`
	Deck              string          `sql:"deck"`
	StartedAt         time.Time       `sql:"started_at"`
	EndedAt           stdsql.NullTime `sql:"ended_at"`
	QuestionsAnswered int             `sql:"questions_answered"`
	DurationMs        int64           `sql:"duration_ms"`
	KnowledgeIndex    float64         `sql:"knowledge_index"`
	PercentKnown      int             `sql:"percent_known"`
}

// Duration is the recorded session length.
func (r SessionRecord) Duration() time.Duration {
	return time.Duration(r.DurationMs) * time.Millisecond
}

// SessionResult is written when a session ends.
type SessionResult struct {
	EndedAt           time.Time
	QuestionsAnswered int
	Duration          time.Duration
	KnowledgeIndex    float64
	PercentKnown      int
}

// AnswerEventData is one answer given during a session.
type AnswerEventData struct {
	SessionID    string
	Deck         string
	Question     string
	Expected     string
	Given        string
	Correct      bool
	FirstAttempt bool
	Elapsed      time.Duration
	Selection    string
	AnsweredAt   time.Time
}

// AnswerSummary aggregates the answers of one question.
type AnswerSummary struct {
	Question string
	Total    int
	Wrong    int
}

// SessionRepo records sessions and their answers.
type SessionRepo struct {
	s *Store
}

// StartSession creates a session row and returns its id.
func (r *SessionRepo) StartSession(ctx context.Context, deck string, startedAt time.Time) (string, error) {
	id := uuid.NewString()
	q := r.s.sql().Insert(migrate.SessionsTable.Name).
		Columns("id", "deck", "started_at").
		Values(id, deck, startedAt.UTC())
	if _, err := r.s.exec(ctx, q); err != nil {
		return "", fmt.Errorf("start session: %w", err)
	}
	return id, nil
}

// EndSession stores the outcome of session id.
func (r *SessionRepo) EndSession(ctx context.Context, id string, res SessionResult) error {
	q := r.s.sql().Update(migrate.SessionsTable.Name).
		Set("ended_at", res.EndedAt.UTC()).
		Set("questions_answered", res.QuestionsAnswered).
		Set("duration_ms", res.Duration.Milliseconds()).
		Set("knowledge_index", res.KnowledgeIndex).
		Set("percent_known", res.PercentKnown).
		Where(entsql.EQ("id", id))
	result, err := r.s.exec(ctx, q)
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("end session: no session %q", id)
	}
	return nil
}

// AppendAnswer records one answer.
func (r *SessionRepo) AppendAnswer(ctx context.Context, a AnswerEventData) error {
	if a.AnsweredAt.IsZero() {
		a.AnsweredAt = time.Now()
	}
	q := r.s.sql().Insert(migrate.AnswerEventsTable.Name).
		Columns("session_id", "deck", "question", "expected", "given", "correct",
			"first_attempt", "time_ms", "selection", "answered_at").
		Values(a.SessionID, a.Deck, a.Question, a.Expected, a.Given, a.Correct,
			a.FirstAttempt, a.Elapsed.Milliseconds(), a.Selection, a.AnsweredAt.UTC())
	if _, err := r.s.exec(ctx, q); err != nil {
		return fmt.Errorf("append answer: %w", err)
	}
	return nil
}

// RecentSessions returns up to limit sessions of deck, newest first.
func (r *SessionRepo) RecentSessions(ctx context.Context, deck string, limit int) ([]SessionRecord, error) {
	sel := r.s.sql().Select("id", "deck", "started_at", "ended_at", "questions_answered",
		"duration_ms", "knowledge_index", "percent_known").
		From(entsql.Table(migrate.SessionsTable.Name)).
		Where(entsql.EQ("deck", deck)).
		OrderBy(entsql.Desc("started_at"))
	if limit > 0 {
		sel.Limit(limit)
	}
	rows, err := r.s.query(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionRecord
	if err := entsql.ScanSlice(rows, &out); err != nil {
		return nil, fmt.Errorf("scan sessions: %w", err)
	}
	return out, nil
}

// MostMissed returns first-attempt answer counts per question of deck,
// most wrong answers first, questions never answered wrong excluded.
func (r *SessionRepo) MostMissed(ctx context.Context, deck string, limit int) ([]AnswerSummary, error) {
	const wrong = "SUM(CASE WHEN correct THEN 0 ELSE 1 END)"
	sel := r.s.sql().Select("question", entsql.Count("*"), wrong).
		From(entsql.Table(migrate.AnswerEventsTable.Name)).
		Where(entsql.And(entsql.EQ("deck", deck), entsql.EQ("first_attempt", true))).
		GroupBy("question").
		Having(entsql.GT(wrong, 0)).
		OrderBy(entsql.Desc(wrong), "question")
	if limit > 0 {
		sel.Limit(limit)
	}
	rows, err := r.s.query(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("query missed answers: %w", err)
	}
	defer rows.Close()

	var out []AnswerSummary
	for rows.Next() {
		var a AnswerSummary
		if err := rows.Scan(&a.Question, &a.Total, &a.Wrong); err != nil {
			return nil, fmt.Errorf("scan missed answer: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
