package components

import (
	"time"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/ben-spiller/FlashTeacher/internal/ui/theme"
)

// Mark is the feedback state of an answer field.
type Mark int

const (
	MarkNone Mark = iota
	MarkCorrect
	MarkWrong
	MarkPassed
)

// TextInput is the answer field. It wraps bubbles/textinput, times the
// keystrokes that go into it and colours its text once the answer has been
// marked.
type TextInput struct {
	Model textinput.Model
	Timer *AnswerTimer

	mark     Mark
	selected bool
}

// NewTextInput creates a focused answer field. now defaults to time.Now.
func NewTextInput(placeholder string, maxLength int, now func() time.Time) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "> "
	ti.Focus()

	if maxLength > 0 {
		ti.CharLimit = maxLength
	}

	return TextInput{
		Model: ti,
		Timer: NewAnswerTimer(now),
	}
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages. Keys are ignored while the field is marked.
// When the text is selected, typing replaces it and a correction clears it.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		var cmd tea.Cmd
		t.Model, cmd = t.Model.Update(msg)
		return t, cmd
	}
	if t.mark != MarkNone {
		return t, nil
	}

	t.Timer.Key(kmsg)

	if t.selected {
		t.selected = false
		switch {
		case kmsg.Code == tea.KeyBackspace || kmsg.Code == tea.KeyDelete:
			t.Model.SetValue("")
			return t, nil
		case kmsg.Text != "":
			t.Model.SetValue("")
		}
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the field.
func (t TextInput) View() string {
	var style lipgloss.Style
	switch t.mark {
	case MarkCorrect:
		style = theme.Correct
	case MarkWrong:
		style = theme.Incorrect
	case MarkPassed:
		style = theme.PassedAnswer
	default:
		if t.selected && t.Model.Value() != "" {
			return t.Model.Prompt + theme.SelectedText.Render(t.Model.Value())
		}
		return t.Model.View()
	}
	return t.Model.Prompt + style.Render(t.Model.Value())
}

// Value returns the current text.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// SetValue replaces the text and moves the cursor to its end.
func (t *TextInput) SetValue(s string) {
	t.Model.SetValue(s)
	t.Model.CursorEnd()
}

// Marked returns the current mark.
func (t TextInput) Marked() Mark { return t.mark }

// SetMark colours the field and stops it accepting keys until Reset or
// Reselect.
func (t *TextInput) SetMark(m Mark) {
	t.mark = m
	t.selected = false
}

// Reset clears the field and starts timing a new answer.
func (t *TextInput) Reset() {
	t.mark = MarkNone
	t.selected = false
	t.Model.SetValue("")
	t.Timer.Start()
}

// Reselect keeps the previous text, selected so that typing replaces it,
// and starts timing a new answer.
func (t *TextInput) Reselect() {
	t.mark = MarkNone
	t.selected = true
	t.Model.CursorEnd()
	t.Timer.Start()
}

// PeekTiming returns the timing so far without stopping the timer.
func (t *TextInput) PeekTiming() (time.Duration, []time.Duration) {
	return t.Timer.Peek()
}

// StopTiming returns the time taken and the keystroke intervals for the
// current answer.
func (t *TextInput) StopTiming() (time.Duration, []time.Duration) {
	return t.Timer.Stop()
}
