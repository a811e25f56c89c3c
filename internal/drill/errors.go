package drill

import (
	"errors"
	"fmt"
)

// ErrTooFewQuestions is returned when a deck has fewer than two questions.
var ErrTooFewQuestions = errors.New("deck must contain at least two questions")

// DuplicateQuestionError is returned when two questions in a deck share the
// same text.
type DuplicateQuestionError struct {
	Text string
}

func (e *DuplicateQuestionError) Error() string {
	return fmt.Sprintf("question appears more than once: %q", e.Text)
}
