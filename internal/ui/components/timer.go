package components

import (
	"time"
	"unicode"

	tea "charm.land/bubbletea/v2"
)

// AnswerTimer measures how long an answer took and the interval between
// keystrokes. Whitespace is not timed, and the keystroke after a
// correction or Enter is not timed either.
type AnswerTimer struct {
	now       func() time.Time
	start     time.Time
	last      time.Time
	charTimes []time.Duration
}

// NewAnswerTimer returns a stopped timer. now defaults to time.Now.
func NewAnswerTimer(now func() time.Time) *AnswerTimer {
	if now == nil {
		now = time.Now
	}
	return &AnswerTimer{now: now}
}

// Start begins timing a new answer.
func (t *AnswerTimer) Start() {
	t.start = t.now()
	t.last = t.start
	t.charTimes = nil
}

// Running reports whether Start has been called since the last Stop.
func (t *AnswerTimer) Running() bool { return !t.start.IsZero() }

// Elapsed returns the time since Start, or 0 when stopped.
func (t *AnswerTimer) Elapsed() time.Duration {
	if !t.Running() {
		return 0
	}
	return t.now().Sub(t.start)
}

// Peek returns what Stop would, without stopping.
func (t *AnswerTimer) Peek() (time.Duration, []time.Duration) {
	if !t.Running() {
		return 0, nil
	}
	return t.now().Sub(t.start), append([]time.Duration(nil), t.charTimes...)
}

// Stop ends timing and returns the total time and the per-keystroke
// intervals. A stopped timer returns zero values.
func (t *AnswerTimer) Stop() (time.Duration, []time.Duration) {
	if !t.Running() {
		return 0, nil
	}
	total := t.now().Sub(t.start)
	chars := t.charTimes
	t.start = time.Time{}
	t.last = time.Time{}
	t.charTimes = nil
	return total, chars
}

// Key records a key press.
func (t *AnswerTimer) Key(msg tea.KeyPressMsg) {
	if !t.Running() {
		return
	}
	now := t.now()

	switch msg.Code {
	case tea.KeyBackspace, tea.KeyDelete, tea.KeyEnter:
		t.last = time.Time{}
		return
	}
	if msg.Text == "" {
		return
	}

	if t.last.IsZero() || !t.last.Before(now) {
		t.last = now
		return
	}
	if !isSpace(msg.Text) {
		t.charTimes = append(t.charTimes, now.Sub(t.last))
	}
	t.last = now
}

func isSpace(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
