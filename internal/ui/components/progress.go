package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/ben-spiller/FlashTeacher/internal/ui/theme"
)

// Segment is one coloured run of a progress bar. Fraction is in [0,1].
type Segment struct {
	Fraction float64
	Color    color.Color
}

// ProgressBar displays a horizontal bar made of one or more segments.
type ProgressBar struct {
	Label    string
	Segments []Segment

	// Suffix is shown after the bar, for example "72%".
	Suffix string
	Width  int
}

// NewProgressBar creates a single-segment bar for a percentage in [0,100].
func NewProgressBar(label string, percent float64, width int) ProgressBar {
	return ProgressBar{
		Label:    label,
		Segments: []Segment{{Fraction: percent / 100, Color: theme.Secondary}},
		Suffix:   fmt.Sprintf("%d%%", int(percent)),
		Width:    width,
	}
}

// View renders the bar. Segments that overflow the bar are clipped.
func (p ProgressBar) View() string {
	var result string
	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	suffixWidth := 0
	if p.Suffix != "" {
		suffixWidth = lipgloss.Width(p.Suffix) + 2
	}

	barWidth := max(p.Width-lipgloss.Width(result)-suffixWidth, 4)

	used := 0
	for _, seg := range p.Segments {
		n := int(float64(barWidth)*seg.Fraction + 0.5)
		n = min(max(n, 0), barWidth-used)
		if n == 0 {
			continue
		}
		result += lipgloss.NewStyle().Background(seg.Color).Render(strings.Repeat(" ", n))
		used += n
	}
	result += theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-used))

	if p.Suffix != "" {
		result += "  " + lipgloss.NewStyle().Foreground(theme.TextDim).Render(p.Suffix)
	}
	return result
}
