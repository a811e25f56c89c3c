package summary

import (
	"fmt"
	"slices"
	"time"

	engine "github.com/ben-spiller/FlashTeacher/internal/drill"
	"github.com/ben-spiller/FlashTeacher/internal/knowledge"
)

// HardestCount is how many of the weakest questions a report lists.
const HardestCount = 5

// Report is everything the summary screen shows about a finished session.
type Report struct {
	Deck              string
	Scores            engine.QuestionSetScores
	Previous          engine.QuestionSetScores
	Knowledge         *knowledge.History
	QuestionsAnswered int
	Duration          time.Duration
	Hardest           []engine.QuestionHistory

	// SaveErr is set when the session could not be saved.
	SaveErr error
}

// Detail is one row of the score breakdown.
type Detail struct {
	Label  string
	Value  string
	Change string
}

// Details compares scores with the previous session's. A zero previous
// value (no earlier session) shows no change.
func Details(cur, prev engine.QuestionSetScores) []Detail {
	if prev.TotalQuestions == 0 {
		prev = cur
	}
	band := func(label string, n int, pct, prevPct float64) Detail {
		return Detail{
			Label:  label,
			Value:  fmt.Sprintf("%d (%.0f%%)", n, pct),
			Change: signed(pct-prevPct, "%"),
		}
	}
	return []Detail{
		{
			Label:  "Overall score",
			Value:  fmt.Sprintf("%.1f%%", cur.QuestionSetPercentScore),
			Change: signed(cur.QuestionSetPercentScore-prev.QuestionSetPercentScore, "%"),
		},
		band("Unknown answers", cur.UnknownAnswers, cur.UnknownAnswersPercent, prev.UnknownAnswersPercent),
		band("Wrong answers", cur.WrongAnswers, cur.WrongAnswersPercent, prev.WrongAnswersPercent),
		band("Slow answers", cur.SlowAnswers, cur.SlowAnswersPercent, prev.SlowAnswersPercent),
		band("Quick answers", cur.QuickAnswers, cur.QuickAnswersPercent, prev.QuickAnswersPercent),
		{
			Label:  "Total questions",
			Value:  fmt.Sprintf("%d", cur.TotalQuestions),
			Change: fmt.Sprintf("%+d", cur.TotalQuestions-prev.TotalQuestions),
		},
		{
			Label:  "Average time to answer",
			Value:  seconds(cur.AverageTimeToAnswer),
			Change: signed(PercentChange(cur.AverageTimeToAnswer, prev.AverageTimeToAnswer), "%"),
		},
		{
			Label:  "Time allowed per character",
			Value:  seconds(cur.AverageTimePerCharacter),
			Change: signed(PercentChange(cur.AverageTimePerCharacter, prev.AverageTimePerCharacter), "%"),
		},
	}
}

// PercentChange returns the relative change from prev to cur as a
// percentage, or 0 when prev is 0.
func PercentChange(cur, prev time.Duration) float64 {
	if prev == 0 {
		return 0
	}
	return 100 * float64(cur-prev) / float64(prev)
}

// Hardest returns up to n questions with the lowest scores, worst first.
func Hardest(histories []engine.QuestionHistory, n int) []engine.QuestionHistory {
	sorted := slices.Clone(histories)
	slices.SortStableFunc(sorted, func(a, b engine.QuestionHistory) int {
		return engine.ScoreOf(a) - engine.ScoreOf(b)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

var sparkTicks = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders values as a row of block characters scaled between
// their minimum and maximum.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := slices.Min(values), slices.Max(values)
	out := make([]rune, len(values))
	for i, v := range values {
		idx := 0
		if hi > lo {
			idx = int((v - lo) / (hi - lo) * float64(len(sparkTicks)-1))
		}
		out[i] = sparkTicks[idx]
	}
	return string(out)
}

// FormatDuration renders d as m:ss, or h:mm:ss from an hour up.
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d / time.Hour)
	m := int(d/time.Minute) % 60
	s := int(d/time.Second) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func seconds(d time.Duration) string {
	return fmt.Sprintf("%.2fs", d.Seconds())
}

func signed(v float64, unit string) string {
	if v > -0.05 && v < 0.05 {
		return "="
	}
	return fmt.Sprintf("%+.1f%s", v, unit)
}
