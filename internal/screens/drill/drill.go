// Package drill is the question screen: it shows the current question,
// times the answer as it is typed and feeds it to the drill engine.
package drill

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	engine "github.com/ben-spiller/FlashTeacher/internal/drill"
	"github.com/ben-spiller/FlashTeacher/internal/history"
	"github.com/ben-spiller/FlashTeacher/internal/question"
	"github.com/ben-spiller/FlashTeacher/internal/router"
	"github.com/ben-spiller/FlashTeacher/internal/screen"
	"github.com/ben-spiller/FlashTeacher/internal/screens/summary"
	"github.com/ben-spiller/FlashTeacher/internal/store"
	"github.com/ben-spiller/FlashTeacher/internal/ui/components"
	"github.com/ben-spiller/FlashTeacher/internal/ui/layout"
)

const (
	// FeedbackTimeout is how long a correct or wrong answer stays on screen
	// before the next question is shown.
	FeedbackTimeout = 5 * time.Second

	tickInterval = 100 * time.Millisecond
	maxAnswerLen = 200
)

type phase int

const (
	phaseAnswering phase = iota
	phaseCorrect
	phaseWrong
	phasePassed
	phaseEnded
)

// AnswerLog receives every attempt as it is made.
type AnswerLog interface {
	AppendAnswer(ctx context.Context, a store.AnswerEventData) error
}

// Outcome describes a finished session.
type Outcome struct {
	Deck              string
	SessionID         string
	Attempts          int
	QuestionsAnswered int
	Started           time.Time
	Ended             time.Time
	Scores            engine.QuestionSetScores

	// Snapshot is the history to save, or nil when nothing was attempted.
	Snapshot *history.Snapshot
}

// Finisher persists a finished session.
type Finisher func(ctx context.Context, o Outcome) error

// Options configures a DrillScreen.
type Options struct {
	Deck      string
	SessionID string
	Answers   AnswerLog
	Finish    Finisher
	Now       func() time.Time
}

// DrillScreen asks questions until the user ends the session.
type DrillScreen struct {
	mgr   *engine.Manager
	opts  Options
	input components.TextInput

	phase       phase
	confirmQuit bool

	// shown is the question on screen. It differs from the manager's
	// current question while a correct answer is being shown.
	shown    question.Question
	invalid  string
	warning  string
	errMsg   string
	attempts int
	seq      int
}

var _ screen.Screen = (*DrillScreen)(nil)
var _ screen.KeyHintProvider = (*DrillScreen)(nil)
var _ screen.StatusProvider = (*DrillScreen)(nil)
var _ screen.EscapeHandler = (*DrillScreen)(nil)

// New creates a DrillScreen for mgr.
func New(mgr *engine.Manager, opts Options) *DrillScreen {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &DrillScreen{
		mgr:   mgr,
		opts:  opts,
		input: components.NewTextInput("Type the answer...", maxAnswerLen, opts.Now),
		shown: mgr.CurrentQuestion(),
	}
	s.input.Reset()
	return s
}

func (s *DrillScreen) Init() tea.Cmd {
	return tea.Batch(s.input.Init(), tickCmd())
}

func (s *DrillScreen) Title() string {
	return "Drill"
}

func (s *DrillScreen) Status() string {
	return s.opts.Deck + s.mgr.SessionStatus()
}

func (s *DrillScreen) HandlesEscape() bool { return true }

func (s *DrillScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.errMsg != "":
		return []layout.KeyHint{{Key: "any key", Description: "Quit"}}
	case s.confirmQuit:
		return []layout.KeyHint{
			{Key: "Y", Description: "Finish"},
			{Key: "N", Description: "Keep going"},
		}
	case s.phase == phaseAnswering:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Answer"},
			{Key: "Ctrl+P", Description: "Pass"},
			{Key: "Esc", Description: "Finish"},
		}
	default:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Continue"},
			{Key: "Esc", Description: "Finish"},
		}
	}
}

func (s *DrillScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if s.phase == phaseEnded {
			return s, nil
		}
		return s, tickCmd()

	case feedbackDoneMsg:
		if msg.seq == s.seq && (s.phase == phaseCorrect || s.phase == phaseWrong) && !s.confirmQuit {
			s.resume()
		}
		return s, nil

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	if s.phase == phaseAnswering {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *DrillScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		return s, tea.Quit
	}
	if s.phase == phaseEnded {
		return s, nil
	}

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			s.confirmQuit = false
			return s.finish()
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	if key == "esc" {
		s.confirmQuit = true
		return s, nil
	}

	switch s.phase {
	case phaseCorrect, phaseWrong, phasePassed:
		if key == "enter" || key == "space" {
			s.resume()
		}
		return s, nil
	}

	switch key {
	case "enter":
		return s.submit()
	case "ctrl+p":
		return s.pass()
	}

	s.invalid = ""
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// submit checks the typed answer. Blank input is ignored.
func (s *DrillScreen) submit() (screen.Screen, tea.Cmd) {
	given := strings.TrimSpace(s.input.Value())
	if given == "" {
		return s, nil
	}

	elapsed, charTimes := s.input.PeekTiming()
	q := s.mgr.CurrentQuestion()
	firstAttempt := s.mgr.ShouldDisplayTimer()
	method := s.mgr.SelectionMethod()

	correct, err := s.mgr.Answer(given, elapsed, charTimes)
	if err != nil {
		var invalid *question.InvalidAnswerError
		if errors.As(err, &invalid) {
			s.invalid = "This answer was not entered in the expected format: " + invalid.Reason
			return s, nil
		}
		s.errMsg = err.Error()
		return s, nil
	}
	s.input.StopTiming()
	s.attempts++

	if s.opts.Answers != nil {
		err := s.opts.Answers.AppendAnswer(context.Background(), store.AnswerEventData{
			SessionID:    s.opts.SessionID,
			Deck:         s.opts.Deck,
			Question:     q.Text(),
			Expected:     q.Answer(),
			Given:        given,
			Correct:      correct,
			FirstAttempt: firstAttempt,
			Elapsed:      elapsed,
			Selection:    method.Name(),
			AnsweredAt:   s.opts.Now(),
		})
		if err != nil {
			s.warning = err.Error()
		}
	}

	s.seq++
	seq := s.seq
	if correct {
		s.input.SetValue(q.Answer())
		s.input.SetMark(components.MarkCorrect)
		s.phase = phaseCorrect
	} else {
		s.input.SetMark(components.MarkWrong)
		s.phase = phaseWrong
	}
	return s, tea.Tick(FeedbackTimeout, func(time.Time) tea.Msg {
		return feedbackDoneMsg{seq: seq}
	})
}

// pass reveals the answer. The question stays current.
func (s *DrillScreen) pass() (screen.Screen, tea.Cmd) {
	answer := s.mgr.Pass()
	s.input.StopTiming()
	s.input.SetValue(answer)
	s.input.SetMark(components.MarkPassed)
	s.invalid = ""
	s.phase = phasePassed
	return s, nil
}

// resume shows the current question again. After a wrong answer the old
// text is kept, selected.
func (s *DrillScreen) resume() {
	prev := s.phase
	s.phase = phaseAnswering
	s.shown = s.mgr.CurrentQuestion()
	s.invalid = ""
	if prev == phaseWrong {
		s.input.Reselect()
	} else {
		s.input.Reset()
	}
}

// finish saves the session and moves to the summary. With nothing
// attempted there is nothing to save or summarize, so it quits.
func (s *DrillScreen) finish() (screen.Screen, tea.Cmd) {
	s.phase = phaseEnded
	s.input.StopTiming()

	out := Outcome{
		Deck:              s.opts.Deck,
		SessionID:         s.opts.SessionID,
		Attempts:          s.attempts,
		QuestionsAnswered: s.mgr.QuestionsAnswered(),
		Started:           s.mgr.StartTime(),
		Ended:             s.opts.Now(),
	}
	if s.attempts > 0 {
		out.Snapshot = s.mgr.Snapshot()
		out.Scores = s.mgr.Scores()
	}

	var saveErr error
	if s.opts.Finish != nil {
		saveErr = s.opts.Finish(context.Background(), out)
	}

	if s.attempts == 0 {
		if saveErr != nil {
			s.errMsg = saveErr.Error()
			return s, nil
		}
		return s, tea.Quit
	}

	report := summary.Report{
		Deck:              s.opts.Deck,
		Scores:            out.Scores,
		Previous:          s.mgr.PreviousScores(),
		Knowledge:         s.mgr.KnowledgeHistory(),
		QuestionsAnswered: out.QuestionsAnswered,
		Duration:          out.Ended.Sub(out.Started),
		Hardest:           summary.Hardest(s.mgr.Histories(), summary.HardestCount),
		SaveErr:           saveErr,
	}
	return s, func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: summary.New(report)}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
