package drill

import (
	"testing"
	"time"

	"github.com/ben-spiller/FlashTeacher/internal/history"
	"github.com/ben-spiller/FlashTeacher/internal/question"
)

func TestScoreOf(t *testing.T) {
	tests := []struct {
		name string
		pass int
		avg  time.Duration
		want int
	}{
		{"known instant", 0, 0, 100},
		{"known half penalty", 0, 25 * time.Second, 65},
		{"known at penalty", 0, WrongAnswerPenalty, 30},
		{"known beyond penalty", 0, 60 * time.Second, 16},
		{"known far beyond penalty", 0, 10 * time.Minute, 0},
		{"pass 1", 1, 0, 20},
		{"pass 2", 2, 0, 10},
		{"pass 3", 3, MaxRecordedAnswerTime, 0},
		{"pass 5", 5, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := QuestionHistory{PassModeCounter: tt.pass, AverageTimeToAnswer: tt.avg}
			if got := ScoreOf(h); got != tt.want {
				t.Errorf("ScoreOf() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestScoreOf_Bounds(t *testing.T) {
	for pass := 0; pass <= PassCounterValue+2; pass++ {
		for avg := time.Duration(0); avg <= 2*WrongAnswerPenalty; avg += 1250 * time.Millisecond {
			got := ScoreOf(QuestionHistory{PassModeCounter: pass, AverageTimeToAnswer: avg})
			if got < 0 || got > 100 {
				t.Fatalf("ScoreOf(pass=%d, avg=%s) = %d, out of [0,100]", pass, avg, got)
			}
		}
	}
}

func TestAggregateScores_Empty(t *testing.T) {
	got := AggregateScores(nil, time.Second)
	if got != (QuestionSetScores{}) {
		t.Errorf("AggregateScores(nil) = %+v, want zero", got)
	}
}

func TestAggregateScores(t *testing.T) {
	q := question.New("q", "a", false)
	hs := []QuestionHistory{
		{Question: q, AverageTimeToAnswer: 5 * time.Second},
		{Question: q, AverageTimeToAnswer: 15 * time.Second},
		{Question: q, AverageTimeToAnswer: 40 * time.Second},
		{Question: q, PassModeCounter: 1},
	}
	got := AggregateScores(hs, 120*time.Millisecond)

	if got.TotalQuestions != 4 || got.UnknownAnswers != 1 || got.QuickAnswers != 1 ||
		got.SlowAnswers != 1 || got.WrongAnswers != 1 {
		t.Fatalf("bucket counts = %+v", got)
	}
	if got.AverageTimeToAnswer != 20*time.Second {
		t.Errorf("AverageTimeToAnswer = %s, want 20s", got.AverageTimeToAnswer)
	}
	if got.AverageTimePerCharacter != 120*time.Millisecond {
		t.Errorf("AverageTimePerCharacter = %s, want 120ms", got.AverageTimePerCharacter)
	}
	if !approx(got.QuestionSetPercentScore, 25) {
		t.Errorf("QuestionSetPercentScore = %v, want 25", got.QuestionSetPercentScore)
	}
	if !approx(got.KnowledgeIndexScore, 2) {
		t.Errorf("KnowledgeIndexScore = %v, want 2", got.KnowledgeIndexScore)
	}
	for name, p := range map[string]float64{
		"unknown": got.UnknownAnswersPercent,
		"wrong":   got.WrongAnswersPercent,
		"slow":    got.SlowAnswersPercent,
		"quick":   got.QuickAnswersPercent,
	} {
		if !approx(p, 25) {
			t.Errorf("%s percent = %v, want 25", name, p)
		}
	}
}

func TestAggregateScores_ClampsPercent(t *testing.T) {
	q := question.New("q", "a", false)
	hs := []QuestionHistory{
		{Question: q, AverageTimeToAnswer: WrongAnswerPenalty},
		{Question: q, AverageTimeToAnswer: WrongAnswerPenalty},
	}
	got := AggregateScores(hs, 0)
	if got.QuestionSetPercentScore != 0 {
		t.Errorf("QuestionSetPercentScore = %v, want 0", got.QuestionSetPercentScore)
	}
	if got.KnowledgeIndexScore < 0 {
		t.Errorf("KnowledgeIndexScore = %v, want >= 0", got.KnowledgeIndexScore)
	}
	if got.WrongAnswers != 2 {
		t.Errorf("WrongAnswers = %d, want 2", got.WrongAnswers)
	}
}

func TestScoresFromPersisted_RecomputesPercentages(t *testing.T) {
	got := scoresFromPersisted(&history.Scores{UnknownAnswers: 1, QuickAnswers: 3, TotalQuestions: 4, AverageTimePerCharacterMillis: 90})
	if !approx(got.UnknownAnswersPercent, 25) || !approx(got.QuickAnswersPercent, 75) {
		t.Errorf("percentages = %v/%v, want 25/75", got.UnknownAnswersPercent, got.QuickAnswersPercent)
	}
	if got.AverageTimePerCharacter != 90*time.Millisecond {
		t.Errorf("AverageTimePerCharacter = %s, want 90ms", got.AverageTimePerCharacter)
	}
	if scoresFromPersisted(nil) != (QuestionSetScores{}) {
		t.Error("nil persisted scores should give zero value")
	}
}

func TestExponentialWeightedAverage(t *testing.T) {
	tests := []struct {
		old, sample time.Duration
		weight      float64
		want        time.Duration
	}{
		{0, 1234 * time.Millisecond, 0.6, 1234 * time.Millisecond},
		{10 * time.Second, 20 * time.Second, 0.6, 16 * time.Second},
		{150 * time.Millisecond, 300 * time.Millisecond, 0.15, 172 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := exponentialWeightedAverage(tt.old, tt.sample, tt.weight); got != tt.want {
			t.Errorf("ewa(%s, %s, %v) = %s, want %s", tt.old, tt.sample, tt.weight, got, tt.want)
		}
	}
}

func approx(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}
