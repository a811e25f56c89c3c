// Package drill is the adaptive drill engine. A Manager owns the history of
// every question in a deck, picks which question to ask next, records the
// outcome of each attempt and derives the deck-wide scores.
//
// A Manager is created once per session and is not safe for concurrent use.
package drill

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/ben-spiller/FlashTeacher/internal/history"
	"github.com/ben-spiller/FlashTeacher/internal/knowledge"
	"github.com/ben-spiller/FlashTeacher/internal/question"
)

// Checker decides whether a candidate answer is correct. It returns a
// *question.InvalidAnswerError when the candidate is not a permitted answer.
type Checker interface {
	CheckAnswer(q question.Question, candidate string) (bool, error)
}

// MatcherChecker checks answers with a question.Matcher.
type MatcherChecker struct {
	Matcher *question.Matcher
}

// CheckAnswer implements Checker.
func (c MatcherChecker) CheckAnswer(q question.Question, candidate string) (bool, error) {
	m := c.Matcher
	if m == nil {
		m = question.DefaultMatcher()
	}
	return m.IsAnswerCorrect(q, candidate), nil
}

// Options configures a Manager. The zero value uses DefaultConfig, the
// default matcher, a time-seeded random source and the wall clock.
type Options struct {
	Config *Config

	// Matcher decides whether a stored answer still matches the deck.
	Matcher *question.Matcher

	// Checker checks answers given through Answer. Defaults to Matcher.
	Checker Checker

	Rand *rand.Rand
	Now  func() time.Time

	// OnPresented, if set, is called each time a question becomes current.
	OnPresented func(question.Question)
}

// Reconciliation lists what happened to the prior history while it was
// merged with the deck.
type Reconciliation struct {
	// Removed holds history for questions no longer in the deck. It is kept
	// and saved again.
	Removed []string

	// AnswerChanged holds questions whose answer changed, so their history
	// was discarded.
	AnswerChanged []string

	// Added holds questions with no prior history.
	Added []string

	// DuplicateHistory holds questions with more than one history record;
	// only the first was used.
	DuplicateHistory []string
}

// Manager schedules questions and records answers for one session.
type Manager struct {
	cfg         Config
	matcher     *question.Matcher
	checker     Checker
	rng         *rand.Rand
	clock       func() time.Time
	onPresented func(question.Question)

	// records owns every live history; the buckets hold indexes into it.
	records     []QuestionHistory
	all         []int
	nonPassed   []int
	prioritized []int
	removed     []QuestionHistory

	current      int
	firstAttempt bool
	method       SelectionMethod

	lastQuestionScore               int
	lastQuestionPreviousScore       int
	lastQuestionPreviousButOneScore int

	averageTimePerCharacter time.Duration

	previousScores QuestionSetScores
	scores         *QuestionSetScores
	knowledge      *knowledge.History
	sampleRecorded bool

	questionsAnswered int
	start             time.Time
	reconciliation    Reconciliation
}

// New merges questions with the prior history (which may be nil) and
// selects the first question.
func New(questions []question.Question, prior *history.Snapshot, opts Options) (*Manager, error) {
	m, err := load(questions, prior, opts)
	if err != nil {
		return nil, err
	}
	m.moveToNext()
	return m, nil
}

// load builds a Manager with its buckets filled but no current question.
func load(questions []question.Question, prior *history.Snapshot, opts Options) (*Manager, error) {
	cfg := DefaultConfig()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("drill config: %w", err)
	}

	m := &Manager{
		cfg:         cfg,
		matcher:     opts.Matcher,
		checker:     opts.Checker,
		rng:         opts.Rand,
		clock:       opts.Now,
		onPresented: opts.OnPresented,
		current:     -1,
		knowledge:   knowledge.NewHistory(),
	}
	if m.matcher == nil {
		m.matcher = question.DefaultMatcher()
	}
	if m.checker == nil {
		m.checker = MatcherChecker{Matcher: m.matcher}
	}
	if m.clock == nil {
		m.clock = time.Now
	}
	if m.rng == nil {
		seed := uint64(time.Now().UnixNano())
		m.rng = rand.New(rand.NewPCG(seed, seed>>32|1))
	}
	m.start = m.now()

	byText := make(map[string]int, len(questions))
	for i, q := range questions {
		if _, dup := byText[q.Key()]; dup {
			return nil, &DuplicateQuestionError{Text: q.Text()}
		}
		byText[q.Key()] = i
	}

	matched := make([]bool, len(questions))
	if prior != nil {
		seen := make(map[string]bool)
		for _, r := range prior.AllRecords() {
			q := question.New(r.QuestionText, r.AnswerText, r.CaseSensitive)
			if seen[q.Key()] {
				m.reconciliation.DuplicateHistory = append(m.reconciliation.DuplicateHistory, q.Text())
				continue
			}
			seen[q.Key()] = true

			i, ok := byText[q.Key()]
			if !ok {
				m.removed = append(m.removed, historyFromRecord(q, r))
				m.reconciliation.Removed = append(m.reconciliation.Removed, q.Text())
				continue
			}
			if !m.matcher.IsAnswerCorrect(questions[i], r.AnswerText) {
				m.reconciliation.AnswerChanged = append(m.reconciliation.AnswerChanged, q.Text())
				continue
			}
			matched[i] = true
			m.records = append(m.records, historyFromRecord(questions[i], r))
		}

		m.previousScores = scoresFromPersisted(prior.Scores)
		m.knowledge = knowledgeFrom(prior.KnowledgeIndex)
	}

	for i, q := range questions {
		if matched[i] {
			continue
		}
		m.records = append(m.records, newQuestionHistory(q))
		m.reconciliation.Added = append(m.reconciliation.Added, q.Text())
	}

	if len(m.records) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewQuestions, len(m.records))
	}

	m.averageTimePerCharacter = m.previousScores.AverageTimePerCharacter

	m.all = make([]int, len(m.records))
	for i := range m.records {
		m.all[i] = i
		h := &m.records[i]
		switch {
		case h.PassModeCounter == 0:
			h.IsPrioritized = false
			m.nonPassed = append(m.nonPassed, i)
		case h.IsPrioritized:
			if len(m.prioritized) < m.cfg.MaxPrioritized {
				m.prioritized = append(m.prioritized, i)
			} else {
				h.IsPrioritized = false
			}
		}
	}
	return m, nil
}

func (m *Manager) now() time.Time {
	return m.clock().Round(0).Truncate(time.Millisecond)
}

// CurrentQuestion returns the question being asked.
func (m *Manager) CurrentQuestion() question.Question {
	return m.records[m.current].Question
}

// CurrentAnswer returns the canonical answer to the current question.
func (m *Manager) CurrentAnswer() string {
	return m.records[m.current].Question.Answer()
}

// CurrentHistory returns a copy of the current question's history.
func (m *Manager) CurrentHistory() QuestionHistory {
	return m.records[m.current]
}

// SelectionMethod reports how the current question was chosen.
func (m *Manager) SelectionMethod() SelectionMethod { return m.method }

// QuestionScore returns the score, as a percentage, of the question most
// recently answered or passed.
func (m *Manager) QuestionScore() int { return m.lastQuestionScore }

// QuestionPreviousScore returns the score the most recently answered
// question had before it was answered.
func (m *Manager) QuestionPreviousScore() int { return m.lastQuestionPreviousButOneScore }

// ShouldDisplayTimer reports whether the time taken on the current
// presentation will be recorded.
func (m *Manager) ShouldDisplayTimer() bool { return m.firstAttempt }

// AverageTimePerCharacter returns the running typing-speed estimate.
func (m *Manager) AverageTimePerCharacter() time.Duration { return m.averageTimePerCharacter }

// QuestionsAnswered returns the number of correct answers this session.
func (m *Manager) QuestionsAnswered() int { return m.questionsAnswered }

// StartTime returns when the session started.
func (m *Manager) StartTime() time.Time { return m.start }

// Reconciliation reports how prior history was merged with the deck.
func (m *Manager) Reconciliation() Reconciliation { return m.reconciliation }

// PreviousScores returns the scores saved by the previous session, or the
// zero value if there were none.
func (m *Manager) PreviousScores() QuestionSetScores { return m.previousScores }

// KnowledgeHistory returns the knowledge index series, including the
// sample for this session once CalculateScores has been called.
func (m *Manager) KnowledgeHistory() *knowledge.History { return m.knowledge }

// Histories returns copies of every live history, least recently asked
// first.
func (m *Manager) Histories() []QuestionHistory {
	out := make([]QuestionHistory, len(m.all))
	for i, idx := range m.all {
		out[i] = m.records[idx]
	}
	return out
}

// Removed returns copies of the histories of questions no longer in the
// deck.
func (m *Manager) Removed() []QuestionHistory {
	return slices.Clone(m.removed)
}

// SessionStatus returns a short summary such as " - answered 12 in 5 mins",
// or "" before the first correct answer.
func (m *Manager) SessionStatus() string {
	if m.questionsAnswered == 0 {
		return ""
	}
	mins := int(m.now().Sub(m.start) / time.Minute)
	return fmt.Sprintf(" - answered %d in %d mins", m.questionsAnswered, mins)
}

// Answer checks candidate against the current question and records the
// outcome. An invalid answer is returned as an error and changes nothing.
func (m *Manager) Answer(candidate string, timeToAnswer time.Duration, charTimes []time.Duration) (bool, error) {
	correct, err := m.checker.CheckAnswer(m.CurrentQuestion(), candidate)
	if err != nil {
		return false, err
	}
	return m.RecordAnswer(correct, candidate, timeToAnswer, charTimes), nil
}

// RecordAnswer records an attempt at the current question and returns
// correct. Only the first attempt at each presentation changes the
// question's history. A correct answer moves on to the next question; a
// wrong one stays on the same question.
func (m *Manager) RecordAnswer(correct bool, answerGiven string, timeToAnswer time.Duration, charTimes []time.Duration) bool {
	h := &m.records[m.current]

	if correct {
		if m.averageTimePerCharacter > 0 {
			typing := time.Duration(h.Question.AnswerLength()) * m.averageTimePerCharacter
			timeToAnswer -= typing
		}
		timeToAnswer = max(timeToAnswer, 0)
		if timeToAnswer < MaxRecordedAnswerTime {
			m.adjustAverageTimePerCharacter(charTimes)
		}
		timeToAnswer = min(timeToAnswer, MaxRecordedAnswerTime)
		m.questionsAnswered++
	} else {
		timeToAnswer = WrongAnswerPenalty
	}

	if m.firstAttempt {
		h.AverageTimeToAnswer = exponentialWeightedAverage(h.AverageTimeToAnswer, timeToAnswer, m.cfg.AnswerTimeWeight)
		if !correct {
			h.LastWrongAnswer = answerGiven
			h.TotalWrongAnswers++
		}
		if correct && h.PassModeCounter > 0 {
			h.PassModeCounter--
			if h.PassModeCounter == 0 {
				if h.IsPrioritized {
					h.IsPrioritized = false
					m.prioritized = removeIndex(m.prioritized, m.current)
				}
				m.nonPassed = append(m.nonPassed, m.current)
			}
		}
	}
	m.firstAttempt = false

	m.lastQuestionScore = ScoreOf(*h)
	m.scores = nil

	if correct {
		m.moveToNext()
	}
	return correct
}

// Pass gives up on the current question and returns its answer. The
// question is put back into pass mode with the worst recorded time, and
// stays current so it can be answered before moving on.
func (m *Manager) Pass() string {
	h := &m.records[m.current]
	if h.PassModeCounter == 0 {
		m.nonPassed = removeIndex(m.nonPassed, m.current)
	}
	h.PassModeCounter = PassCounterValue
	h.AverageTimeToAnswer = MaxRecordedAnswerTime

	m.lastQuestionScore = ScoreOf(*h)
	m.scores = nil
	m.firstAttempt = false

	return h.Question.Answer()
}

// adjustAverageTimePerCharacter folds keystroke intervals into the typing
// estimate. The first interval is thinking time and is ignored, as are
// pauses of MaxCharacterTime or more.
func (m *Manager) adjustAverageTimePerCharacter(charTimes []time.Duration) {
	if len(charTimes) < 2 {
		return
	}
	var total time.Duration
	n := 0
	for _, d := range charTimes[1:] {
		if d < MaxCharacterTime {
			total += d
			n++
		}
	}
	if n == 0 {
		return
	}
	sample := (total / time.Duration(n)).Truncate(time.Millisecond)
	m.averageTimePerCharacter = exponentialWeightedAverage(m.averageTimePerCharacter, sample, m.cfg.CharacterTimeWeight)
}

// CalculateScores computes the deck-wide scores and, the first time it is
// called, appends this session's sample to the knowledge index history.
// Calling it again without answering in between returns the same scores.
func (m *Manager) CalculateScores() QuestionSetScores {
	if m.scores != nil {
		return *m.scores
	}
	s := AggregateScores(m.liveHistories(), m.averageTimePerCharacter)
	m.scores = &s

	if !m.sampleRecorded {
		now := m.now()
		m.knowledge.Add(now, s.KnowledgeIndexScore, now.Sub(m.start))
		m.sampleRecorded = true
	}
	return s
}

// Scores returns the scores computed by CalculateScores. It panics if
// CalculateScores has not been called since the last answer.
func (m *Manager) Scores() QuestionSetScores {
	if m.scores == nil {
		panic("drill: Scores called before CalculateScores")
	}
	return *m.scores
}

// Snapshot calculates the scores and returns the history to persist. Live
// and removed records are each ordered slowest first.
func (m *Manager) Snapshot() *history.Snapshot {
	scores := m.CalculateScores()

	snap := &history.Snapshot{
		FormatVersion: history.FormatVersion,
		Scores:        scores.persisted(),
	}
	for _, h := range m.records {
		snap.Records = append(snap.Records, h.record())
	}
	history.SortByAverageTimeDesc(snap.Records)
	for _, h := range m.removed {
		snap.Removed = append(snap.Removed, h.record())
	}
	history.SortByAverageTimeDesc(snap.Removed)
	for _, s := range m.knowledge.Samples() {
		snap.KnowledgeIndex = append(snap.KnowledgeIndex, history.KnowledgeSample{
			DateMillis:            s.Time.UnixMilli(),
			Value:                 s.Value,
			SessionDurationMillis: s.SessionDuration.Milliseconds(),
		})
	}
	return snap
}

// Describe returns a multi-line dump of the buckets, for debugging.
func (m *Manager) Describe() string {
	var b strings.Builder
	section := func(name string, idx []int) {
		fmt.Fprintf(&b, "%s (%d):\n", name, len(idx))
		for _, i := range idx {
			fmt.Fprintf(&b, "  %s\n", m.records[i])
		}
	}
	section("all", m.all)
	section("nonPassed", m.nonPassed)
	section("prioritized", m.prioritized)
	return b.String()
}

func (m *Manager) liveHistories() []QuestionHistory {
	return slices.Clone(m.records)
}

func removeIndex(s []int, v int) []int {
	if i := slices.Index(s, v); i >= 0 {
		return slices.Delete(s, i, i+1)
	}
	return s
}
