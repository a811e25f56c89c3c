// Package home is the deck picker shown when flashteacher starts without
// a command.
package home

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/ben-spiller/FlashTeacher/internal/router"
	"github.com/ben-spiller/FlashTeacher/internal/screen"
	"github.com/ben-spiller/FlashTeacher/internal/ui/components"
	"github.com/ben-spiller/FlashTeacher/internal/ui/layout"
	"github.com/ben-spiller/FlashTeacher/internal/ui/theme"
)

// Deck is one row of the picker.
type Deck struct {
	Name   string
	Source string

	// LastDrilled is zero for a deck that was never drilled; Score is
	// only meaningful otherwise.
	LastDrilled time.Time
	Score       int
}

// Opener starts a drill session on the named deck.
type Opener func(deck string) (screen.Screen, error)

type openDeckMsg struct {
	name string
}

// HomeScreen lists the stored decks and opens the chosen one.
type HomeScreen struct {
	decks  []Deck
	menu   components.Menu
	open   Opener
	now    func() time.Time
	errMsg string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a HomeScreen. Decks without a source are listed but cannot
// be opened.
func New(decks []Deck, open Opener, now func() time.Time) *HomeScreen {
	if now == nil {
		now = time.Now
	}
	h := &HomeScreen{decks: decks, open: open, now: now}

	items := make([]components.MenuItem, len(decks))
	for i, d := range decks {
		name := d.Name
		items[i] = components.MenuItem{
			Label:    d.Name,
			Detail:   h.detail(d),
			Disabled: d.Source == "",
			Action: func() tea.Cmd {
				return func() tea.Msg { return openDeckMsg{name: name} }
			},
		}
	}
	h.menu = components.NewMenu(items)
	return h
}

func (h *HomeScreen) detail(d Deck) string {
	if d.Source == "" {
		return "no question source"
	}
	if d.LastDrilled.IsZero() {
		return d.Source + " · not drilled yet"
	}
	return fmt.Sprintf("%s · %d%% · %s", d.Source, d.Score, ago(h.now().Sub(d.LastDrilled)))
}

func ago(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%d min ago", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%d h ago", int(d/time.Hour))
	case d < 48*time.Hour:
		return "yesterday"
	}
	return fmt.Sprintf("%d days ago", int(d/(24*time.Hour)))
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return "Decks"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑/↓", Description: "Choose"},
		{Key: "Enter", Description: "Drill"},
		{Key: "q", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case openDeckMsg:
		scr, err := h.open(msg.name)
		if err != nil {
			h.errMsg = err.Error()
			return h, nil
		}
		return h, func() tea.Msg { return router.PushScreenMsg{Screen: scr} }

	case tea.KeyPressMsg:
		h.errMsg = ""
		if msg.String() == "q" {
			return h, tea.Quit
		}
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Title.Width(width).Render("Choose a deck"))
	b.WriteString("\n\n")

	if len(h.decks) == 0 {
		b.WriteString(theme.Subtitle.Width(width).Render(
			"No decks yet. Start one with:\n\nflashteacher drill <deck> --questions file.json"))
		return b.String()
	}

	b.WriteString(lipgloss.NewStyle().Width(width).Render(h.menu.View()))
	if h.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Foreground(theme.Error).
			Render("  Could not open deck: " + h.errMsg))
	}
	return b.String()
}
