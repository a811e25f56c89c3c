package theme

import (
	"charm.land/lipgloss/v2"
)

// Palette. Answer colours follow the flashcard convention: blue for a
// correct answer, red for a wrong one, orange for a passed question.
var (
	Primary   = lipgloss.Color("#3B82F6") // Blue
	Secondary = lipgloss.Color("#06B6D4") // Cyan
	Accent    = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#3B82F6") // Blue
	Error     = lipgloss.Color("#EF4444") // Red
	Passed    = lipgloss.Color("#F97316") // Orange
	Text      = lipgloss.Color("#F1F5F9")
	TextDim   = lipgloss.Color("#94A3B8")
	BgCard    = lipgloss.Color("#1E293B")
	Border    = lipgloss.Color("#334155")
)

// Score band colours, used for the per-category bars in the summary.
var (
	BandUnknown = lipgloss.Color("#64748B")
	BandWrong   = lipgloss.Color("#EF4444")
	BandSlow    = lipgloss.Color("#F59E0B")
	BandQuick   = lipgloss.Color("#22C55E")
)

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Question = lipgloss.NewStyle().
			Foreground(Text).
			Bold(true).
			Align(lipgloss.Center)

	Status = lipgloss.NewStyle().
		Foreground(TextDim)
)

// Answer field states.
var (
	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	PassedAnswer = lipgloss.NewStyle().
			Foreground(Passed).
			Bold(true)

	SelectedText = lipgloss.NewStyle().
			Reverse(true)
)

var (
	Card = lipgloss.NewStyle().
		Background(BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)
)
