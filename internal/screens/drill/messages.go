package drill

import "time"

// tickMsg refreshes the answer timer in the status line.
type tickMsg time.Time

// feedbackDoneMsg ends the correct/wrong feedback display. seq identifies
// the answer it was scheduled for so stale timeouts are ignored.
type feedbackDoneMsg struct {
	seq int
}
