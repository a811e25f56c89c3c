package question

// InvalidAnswerError reports an answer that is not merely wrong but not a
// permitted answer at all for the question (for example the wrong number of
// tokens). It must not be counted as a wrong answer.
type InvalidAnswerError struct {
	Reason string
}

func (e *InvalidAnswerError) Error() string {
	return "invalid answer: " + e.Reason
}
