package drill

import (
	"fmt"
	"time"

	"github.com/ben-spiller/FlashTeacher/internal/history"
	"github.com/ben-spiller/FlashTeacher/internal/question"
)

// QuestionHistory is the performance record of one question. Only the
// Manager mutates it; callers receive copies.
type QuestionHistory struct {
	Question question.Question

	// PassModeCounter is 0 once the question is known. A positive value
	// means it is being recovered; each correct first attempt decrements it.
	PassModeCounter int

	// AverageTimeToAnswer is the exponentially weighted average answer
	// time, including wrong-answer penalties.
	AverageTimeToAnswer time.Duration

	IsPrioritized bool

	// TimeLastAsked is zero if the question has never been asked.
	TimeLastAsked time.Time

	TotalTimesAsked int

	// LastWrongAnswer and TotalWrongAnswers only change on a wrong first
	// attempt.
	LastWrongAnswer   string
	TotalWrongAnswers int
}

// newQuestionHistory returns the history of a question never seen before.
func newQuestionHistory(q question.Question) QuestionHistory {
	return QuestionHistory{Question: q, PassModeCounter: 1}
}

// Known reports whether the question is out of pass mode.
func (h QuestionHistory) Known() bool { return h.PassModeCounter == 0 }

// NeverAsked reports whether the question has never been presented.
func (h QuestionHistory) NeverAsked() bool { return h.TimeLastAsked.IsZero() }

func (h QuestionHistory) String() string {
	return fmt.Sprintf("QuestionHistory(%q, passModeCounter=%d, isPrioritized=%t, averageTimeToAnswer=%s, timeLastAsked=%s)",
		h.Question.Text(), h.PassModeCounter, h.IsPrioritized, h.AverageTimeToAnswer, h.TimeLastAsked.Format(time.RFC3339))
}

func historyFromRecord(q question.Question, r history.Record) QuestionHistory {
	h := QuestionHistory{
		Question:            q,
		PassModeCounter:     max(r.PassModeCounter, 0),
		AverageTimeToAnswer: time.Duration(max(r.AverageTimeToAnswerMillis, 0)) * time.Millisecond,
		IsPrioritized:       r.IsPrioritized,
		TotalTimesAsked:     r.TotalTimesAsked,
		LastWrongAnswer:     r.LastWrongAnswer,
		TotalWrongAnswers:   r.TotalWrongAnswers,
	}
	if r.TimeLastAskedMillis > 0 {
		h.TimeLastAsked = time.UnixMilli(r.TimeLastAskedMillis)
	}
	return h
}

func (h QuestionHistory) record() history.Record {
	r := history.Record{
		QuestionText:              h.Question.Text(),
		AnswerText:                h.Question.Answer(),
		CaseSensitive:             h.Question.CaseSensitive(),
		PassModeCounter:           h.PassModeCounter,
		AverageTimeToAnswerMillis: h.AverageTimeToAnswer.Milliseconds(),
		IsPrioritized:             h.IsPrioritized,
		TotalTimesAsked:           h.TotalTimesAsked,
		LastWrongAnswer:           h.LastWrongAnswer,
		TotalWrongAnswers:         h.TotalWrongAnswers,
	}
	if !h.TimeLastAsked.IsZero() {
		r.TimeLastAskedMillis = h.TimeLastAsked.UnixMilli()
	}
	return r
}
