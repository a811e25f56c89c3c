package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/ben-spiller/FlashTeacher/internal/knowledge"
	"github.com/ben-spiller/FlashTeacher/internal/screen"
	"github.com/ben-spiller/FlashTeacher/internal/ui/components"
	"github.com/ben-spiller/FlashTeacher/internal/ui/layout"
	"github.com/ben-spiller/FlashTeacher/internal/ui/theme"
)

// sparkPoints is how many recent knowledge index samples the sparkline shows.
const sparkPoints = 30

// SummaryScreen shows how the deck's scores moved during a session.
type SummaryScreen struct {
	report Report
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)
var _ screen.StatusProvider = (*SummaryScreen)(nil)
var _ screen.EscapeHandler = (*SummaryScreen)(nil)

// New creates a SummaryScreen.
func New(report Report) *SummaryScreen {
	return &SummaryScreen{report: report}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) Status() string {
	return s.report.Deck
}

func (s *SummaryScreen) HandlesEscape() bool { return true }

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Done"},
		{Key: "Esc", Description: "Quit"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc", "q":
			return s, tea.Quit
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	r := s.report
	center := func(style lipgloss.Style, text string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(text))
	}
	blockWidth := min(width-8, 64)

	var b strings.Builder

	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true), "Session complete!"))
	b.WriteString("\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim),
		fmt.Sprintf("Answered %d in %s", r.QuestionsAnswered, FormatDuration(r.Duration))))
	b.WriteString("\n\n")

	score := components.NewProgressBar("Score", r.Scores.QuestionSetPercentScore, blockWidth)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, score.View()))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bandBar(r, blockWidth).View()))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, detailTable(Details(r.Scores, r.Previous), blockWidth)))
	b.WriteString("\n\n")

	if k := knowledgeLine(r.Knowledge); k != "" {
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text), k))
		b.WriteString("\n\n")
	}

	if len(r.Hardest) > 0 {
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim), "Needs work"))
		b.WriteString("\n")
		var lines []string
		for _, h := range r.Hardest {
			lines = append(lines, fmt.Sprintf("%-*s %s", blockWidth/2, truncate(h.Question.Text(), blockWidth/2), truncate(h.Question.Answer(), blockWidth/2-6)))
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.Text).Render(strings.Join(lines, "\n"))))
		b.WriteString("\n")
	}

	if r.SaveErr != nil {
		b.WriteString("\n")
		b.WriteString(center(theme.Incorrect, "Could not save this session: "+r.SaveErr.Error()))
	}

	return b.String()
}

// bandBar splits the deck into quick, slow, wrong and unknown answers.
func bandBar(r Report, width int) components.ProgressBar {
	sc := r.Scores
	return components.ProgressBar{
		Label: "Deck ",
		Width: width,
		Segments: []components.Segment{
			{Fraction: sc.QuickAnswersPercent / 100, Color: theme.BandQuick},
			{Fraction: sc.SlowAnswersPercent / 100, Color: theme.BandSlow},
			{Fraction: sc.WrongAnswersPercent / 100, Color: theme.BandWrong},
			{Fraction: sc.UnknownAnswersPercent / 100, Color: theme.BandUnknown},
		},
		Suffix: fmt.Sprintf("%d", sc.TotalQuestions),
	}
}

func detailTable(rows []Detail, width int) string {
	labelWidth := width / 2
	var lines []string
	for _, d := range rows {
		change := d.Change
		style := lipgloss.NewStyle().Foreground(theme.TextDim)
		if strings.HasPrefix(change, "+") {
			style = style.Foreground(theme.Accent)
		}
		line := fmt.Sprintf("%-*s%12s  ", labelWidth, d.Label, d.Value)
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.Text).Render(line)+style.Render(change))
	}
	return strings.Join(lines, "\n")
}

func knowledgeLine(h *knowledge.History) string {
	if h == nil || h.Len() == 0 {
		return ""
	}
	samples := h.Samples()
	if len(samples) > sparkPoints {
		samples = samples[len(samples)-sparkPoints:]
	}
	values := make([]float64, len(samples))
	for i, s := range samples {
		values[i] = s.Value
	}
	latest := values[len(values)-1]
	return fmt.Sprintf("Knowledge index %.1f  %s  (%s total)", latest, Sparkline(values), FormatDuration(h.TotalTimeSpent()))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
