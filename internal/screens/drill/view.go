package drill

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/ben-spiller/FlashTeacher/internal/ui/components"
	"github.com/ben-spiller/FlashTeacher/internal/ui/theme"
)

func (s *DrillScreen) View(width, height int) string {
	if s.errMsg != "" {
		return renderError(width, s.errMsg)
	}
	if s.confirmQuit {
		return renderQuitConfirm(width)
	}

	var b strings.Builder
	b.WriteString("\n\n")

	cardWidth := min(width-8, 70)
	card := theme.Card.Width(cardWidth).Render(theme.Question.Width(cardWidth - 6).Render(s.shown.Text()))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, card))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.input.View()))
	b.WriteString("\n\n")

	if s.invalid != "" {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Incorrect.Render("Invalid answer")))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Body.Render(s.invalid)))
		b.WriteString("\n\n")
	}

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.statusLine(cardWidth)))

	if s.warning != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Hint.Render("warning: "+s.warning)))
	}
	return b.String()
}

// statusLine describes the current state: the running time and how the
// question was chosen while answering, the question's new score after a
// correct answer.
func (s *DrillScreen) statusLine(width int) string {
	switch s.phase {
	case phaseCorrect:
		score := s.mgr.QuestionScore()
		bar := components.NewProgressBar("Question score", float64(score), width)
		bar.Suffix = fmt.Sprintf("%d%% (%+d)", score, score-s.mgr.QuestionPreviousScore())
		return bar.View()
	case phaseWrong:
		return theme.Incorrect.Render("Wrong") + theme.Status.Render("  press Enter to try again")
	case phasePassed:
		return theme.PassedAnswer.Render("Passed") + theme.Status.Render("  press Enter, then type the answer")
	}

	method := s.mgr.SelectionMethod().String()
	if s.mgr.ShouldDisplayTimer() {
		return theme.Status.Render(fmt.Sprintf("%.1fs   %s", s.input.Timer.Elapsed().Seconds(), method))
	}
	return theme.Status.Render(method)
}

func renderQuitConfirm(width int) string {
	center := func(style lipgloss.Style, text string) string {
		return style.Width(width).Align(lipgloss.Center).Render(text)
	}

	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text).Bold(true), "Finish this session?"))
	b.WriteString("\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim), "Your progress will be saved."))
	b.WriteString("\n\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Success), "[Y] Yes, finish"))
	b.WriteString("\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Primary), "[N] No, keep going"))
	return b.String()
}

func renderError(width int, errMsg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press any key to quit.", errMsg))
}
