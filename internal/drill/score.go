package drill

import (
	"time"

	"github.com/ben-spiller/FlashTeacher/internal/history"
)

// QuestionSetScores is a snapshot of how well a whole deck is known.
type QuestionSetScores struct {
	UnknownAnswers int
	WrongAnswers   int
	SlowAnswers    int
	QuickAnswers   int
	TotalQuestions int

	UnknownAnswersPercent float64
	WrongAnswersPercent   float64
	SlowAnswersPercent    float64
	QuickAnswersPercent   float64

	// AverageTimeToAnswer is averaged over known questions only.
	AverageTimeToAnswer     time.Duration
	AverageTimePerCharacter time.Duration

	// QuestionSetPercentScore is in [0,100].
	QuestionSetPercentScore float64

	// KnowledgeIndexScore grows with the number of known questions and how
	// quickly they are answered. It has no upper bound.
	KnowledgeIndexScore float64
}

// ScoreOf returns a question's score as a percentage. A known question
// scores between 30 and 100 depending on its average time; a question in
// pass mode scores below 30.
func ScoreOf(h QuestionHistory) int {
	penalty := WrongAnswerPenalty.Milliseconds()
	score := int64(30)
	if h.PassModeCounter == 0 {
		score += (100 - score) * (penalty - h.AverageTimeToAnswer.Milliseconds()) / penalty
	} else {
		score -= score * int64(h.PassModeCounter) / PassCounterValue
	}
	return int(min(max(score, 0), 100))
}

// AggregateScores buckets every question by how well it is known and
// derives the deck-wide scores.
func AggregateScores(histories []QuestionHistory, averageTimePerCharacter time.Duration) QuestionSetScores {
	var s QuestionSetScores
	maxMillis := MaxRecordedAnswerTime.Milliseconds()

	var totalMillis int64
	for _, h := range histories {
		s.TotalQuestions++
		if h.PassModeCounter != 0 {
			s.UnknownAnswers++
			continue
		}
		avg := h.AverageTimeToAnswer.Milliseconds()
		switch {
		case avg > maxMillis:
			s.WrongAnswers++
		case avg > maxMillis/3:
			s.SlowAnswers++
		default:
			s.QuickAnswers++
		}
		totalMillis += avg
	}
	if s.TotalQuestions == 0 {
		return s
	}

	known := s.TotalQuestions - s.UnknownAnswers
	if known > 0 {
		totalMillis /= int64(known)
	}
	s.AverageTimeToAnswer = time.Duration(totalMillis) * time.Millisecond
	s.AverageTimePerCharacter = averageTimePerCharacter

	metric := float64(maxMillis-totalMillis) / float64(maxMillis)

	s.QuestionSetPercentScore = min(max(100*float64(known)/float64(s.TotalQuestions)*metric, 0), 100)
	s.KnowledgeIndexScore = max(float64(known)*(0.5+0.5*metric), 0)

	s.setPercentages()
	return s
}

func (s *QuestionSetScores) setPercentages() {
	if s.TotalQuestions <= 0 {
		return
	}
	total := float64(s.TotalQuestions)
	s.UnknownAnswersPercent = 100 * float64(s.UnknownAnswers) / total
	s.WrongAnswersPercent = 100 * float64(s.WrongAnswers) / total
	s.SlowAnswersPercent = 100 * float64(s.SlowAnswers) / total
	s.QuickAnswersPercent = 100 * float64(s.QuickAnswers) / total
}

// scoresFromPersisted restores a persisted snapshot, recomputing the
// bucket percentages.
func scoresFromPersisted(p *history.Scores) QuestionSetScores {
	if p == nil {
		return QuestionSetScores{}
	}
	s := QuestionSetScores{
		UnknownAnswers:          p.UnknownAnswers,
		WrongAnswers:            p.WrongAnswers,
		SlowAnswers:             p.SlowAnswers,
		QuickAnswers:            p.QuickAnswers,
		TotalQuestions:          p.TotalQuestions,
		AverageTimeToAnswer:     time.Duration(p.AverageTimeToAnswerMillis) * time.Millisecond,
		AverageTimePerCharacter: time.Duration(p.AverageTimePerCharacterMillis) * time.Millisecond,
		QuestionSetPercentScore: p.QuestionSetPercentScore,
		KnowledgeIndexScore:     p.KnowledgeIndexScore,
	}
	s.setPercentages()
	return s
}

func (s QuestionSetScores) persisted() *history.Scores {
	return &history.Scores{
		UnknownAnswers:                s.UnknownAnswers,
		WrongAnswers:                  s.WrongAnswers,
		SlowAnswers:                   s.SlowAnswers,
		QuickAnswers:                  s.QuickAnswers,
		TotalQuestions:                s.TotalQuestions,
		AverageTimeToAnswerMillis:     s.AverageTimeToAnswer.Milliseconds(),
		AverageTimePerCharacterMillis: s.AverageTimePerCharacter.Milliseconds(),
		QuestionSetPercentScore:       s.QuestionSetPercentScore,
		KnowledgeIndexScore:           s.KnowledgeIndexScore,
	}
}

// exponentialWeightedAverage blends sample into old with the given weight.
// A zero old value is treated as no history and the sample is returned.
// The result is truncated to whole milliseconds.
func exponentialWeightedAverage(old, sample time.Duration, weight float64) time.Duration {
	if old == 0 {
		return sample.Truncate(time.Millisecond)
	}
	avg := weight*float64(sample.Milliseconds()) + (1-weight)*float64(old.Milliseconds())
	return time.Duration(int64(avg)) * time.Millisecond
}
