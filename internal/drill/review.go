package drill

import (
	"time"

	"github.com/ben-spiller/FlashTeacher/internal/history"
	"github.com/ben-spiller/FlashTeacher/internal/knowledge"
	"github.com/ben-spiller/FlashTeacher/internal/question"
)

// Review is a read-only view of a saved snapshot, used for reporting
// without loading the deck.
type Review struct {
	Histories []QuestionHistory
	Removed   []QuestionHistory

	// Scores are the scores saved at the end of the last session.
	Scores    QuestionSetScores
	Knowledge *knowledge.History
}

// ReviewSnapshot decodes s. A nil snapshot gives an empty Review.
func ReviewSnapshot(s *history.Snapshot) Review {
	if s == nil {
		return Review{Knowledge: knowledge.NewHistory()}
	}
	conv := func(records []history.Record) []QuestionHistory {
		out := make([]QuestionHistory, 0, len(records))
		for _, r := range records {
			out = append(out, historyFromRecord(question.New(r.QuestionText, r.AnswerText, r.CaseSensitive), r))
		}
		return out
	}
	return Review{
		Histories: conv(s.Records),
		Removed:   conv(s.Removed),
		Scores:    scoresFromPersisted(s.Scores),
		Knowledge: knowledgeFrom(s.KnowledgeIndex),
	}
}

func knowledgeFrom(samples []history.KnowledgeSample) *knowledge.History {
	h := knowledge.NewHistory()
	for _, k := range samples {
		h.Add(time.UnixMilli(k.DateMillis), k.Value, time.Duration(k.SessionDurationMillis)*time.Millisecond)
	}
	return h
}
