package drill

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/ben-spiller/FlashTeacher/internal/history"
	"github.com/ben-spiller/FlashTeacher/internal/question"
)

// fakeClock returns a fixed time that tests advance by hand.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC)}
}

func testOptions(seed uint64, clock *fakeClock) Options {
	return Options{
		Rand: rand.New(rand.NewPCG(seed, seed+1)),
		Now:  clock.Now,
	}
}

func deck(n int) []question.Question {
	qs := make([]question.Question, n)
	for i := range qs {
		qs[i] = question.New(fmt.Sprintf("question %d", i), fmt.Sprintf("answer %d", i), false)
	}
	return qs
}

// knownSnapshot gives every question a known history with distinct times.
func knownSnapshot(qs []question.Question) *history.Snapshot {
	s := &history.Snapshot{FormatVersion: history.FormatVersion}
	for i, q := range qs {
		s.Records = append(s.Records, history.Record{
			QuestionText:              q.Text(),
			AnswerText:                q.Answer(),
			PassModeCounter:           0,
			AverageTimeToAnswerMillis: int64(1000 * (i + 1)),
			TimeLastAskedMillis:       int64(1_600_000_000_000 + i*1000),
		})
	}
	return s
}

func historyOf(t *testing.T, m *Manager, text string) QuestionHistory {
	t.Helper()
	for _, h := range m.records {
		if h.Question.Text() == text {
			return h
		}
	}
	t.Fatalf("no history for %q", text)
	return QuestionHistory{}
}

func inBucket(bucket []int, i int) bool {
	for _, v := range bucket {
		if v == i {
			return true
		}
	}
	return false
}

// checkInvariants verifies bucket partitioning and the prioritized cap.
func checkInvariants(t *testing.T, m *Manager) {
	t.Helper()
	if len(m.all) != len(m.records) {
		t.Fatalf("len(all) = %d, want %d", len(m.all), len(m.records))
	}
	seen := make(map[int]bool)
	for _, i := range m.all {
		if seen[i] {
			t.Fatalf("index %d appears twice in all", i)
		}
		seen[i] = true
	}

	seenNP := make(map[int]bool)
	for _, i := range m.nonPassed {
		if seenNP[i] {
			t.Fatalf("index %d appears twice in nonPassed", i)
		}
		seenNP[i] = true
		if !seen[i] {
			t.Fatalf("nonPassed index %d not in all", i)
		}
	}
	seenP := make(map[int]bool)
	for _, i := range m.prioritized {
		if seenP[i] {
			t.Fatalf("index %d appears twice in prioritized", i)
		}
		seenP[i] = true
		if seenNP[i] {
			t.Fatalf("index %d is in both prioritized and nonPassed", i)
		}
	}
	if len(m.prioritized) > m.cfg.MaxPrioritized {
		t.Fatalf("len(prioritized) = %d, exceeds %d", len(m.prioritized), m.cfg.MaxPrioritized)
	}
	for i, h := range m.records {
		if (h.PassModeCounter == 0) != seenNP[i] {
			t.Fatalf("%s: nonPassed membership %t disagrees with counter", h, seenNP[i])
		}
		if h.IsPrioritized != seenP[i] {
			t.Fatalf("%s: prioritized membership %t disagrees with flag", h, seenP[i])
		}
		if seenP[i] && h.PassModeCounter <= 0 {
			t.Fatalf("%s: prioritized with counter %d", h, h.PassModeCounter)
		}
	}
}

func TestNew_TwoFreshQuestions(t *testing.T) {
	qs := deck(2)
	m, err := New(qs, nil, testOptions(1, newClock()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	checkInvariants(t, m)

	for _, q := range qs {
		if h := historyOf(t, m, q.Text()); h.PassModeCounter != 1 {
			t.Errorf("%q PassModeCounter = %d, want 1", q.Text(), h.PassModeCounter)
		}
	}
	cur := m.CurrentQuestion().Text()
	if cur != qs[0].Text() && cur != qs[1].Text() {
		t.Errorf("current = %q, want one of the deck", cur)
	}
	if m.SelectionMethod() != SelectionPrioritizedNeverAsked {
		t.Errorf("SelectionMethod = %v, want %v", m.SelectionMethod(), SelectionPrioritizedNeverAsked)
	}
	if !m.ShouldDisplayTimer() {
		t.Error("ShouldDisplayTimer() = false on a fresh presentation")
	}
	if got := m.Reconciliation().Added; len(got) != 2 {
		t.Errorf("Reconciliation().Added = %v, want 2 entries", got)
	}
}

func TestNew_DuplicateQuestion(t *testing.T) {
	qs := []question.Question{
		question.New("same", "a", false),
		question.New("  same ", "b", false),
		question.New("other", "c", false),
	}
	_, err := New(qs, nil, testOptions(1, newClock()))
	var dup *DuplicateQuestionError
	if !errors.As(err, &dup) {
		t.Fatalf("err = %v, want DuplicateQuestionError", err)
	}
	if dup.Text != "same" {
		t.Errorf("dup.Text = %q, want %q", dup.Text, "same")
	}
}

func TestNew_TooFewQuestions(t *testing.T) {
	tests := []struct {
		name  string
		qs    []question.Question
		prior *history.Snapshot
	}{
		{"empty", nil, nil},
		{"one", deck(1), nil},
		{"removed history does not count", deck(1), knownSnapshot(deck(3))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.qs, tt.prior, testOptions(1, newClock()))
			if !errors.Is(err, ErrTooFewQuestions) {
				t.Errorf("err = %v, want ErrTooFewQuestions", err)
			}
		})
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PrioritizedProbability = 1.5
	opts := testOptions(1, newClock())
	opts.Config = &cfg
	if _, err := New(deck(3), nil, opts); err == nil {
		t.Error("expected error for invalid config")
	}
}

func TestNew_Reconciliation(t *testing.T) {
	qs := []question.Question{
		question.New("kept", "same", false),
		question.New("changed", "new answer", false),
		question.New("fresh", "x", false),
	}
	prior := &history.Snapshot{Records: []history.Record{
		{QuestionText: "kept", AnswerText: "SAME", PassModeCounter: 0, AverageTimeToAnswerMillis: 4000, TimeLastAskedMillis: 1000},
		{QuestionText: "changed", AnswerText: "old answer", PassModeCounter: 0, AverageTimeToAnswerMillis: 4000},
		{QuestionText: "gone", AnswerText: "y", PassModeCounter: 2, AverageTimeToAnswerMillis: 9000},
		{QuestionText: "kept", AnswerText: "same", PassModeCounter: 3},
	}}

	m, err := New(qs, prior, testOptions(3, newClock()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	checkInvariants(t, m)

	r := m.Reconciliation()
	if fmt.Sprint(r.Removed) != "[gone]" {
		t.Errorf("Removed = %v, want [gone]", r.Removed)
	}
	if fmt.Sprint(r.AnswerChanged) != "[changed]" {
		t.Errorf("AnswerChanged = %v, want [changed]", r.AnswerChanged)
	}
	if fmt.Sprint(r.Added) != "[changed fresh]" {
		t.Errorf("Added = %v, want [changed fresh]", r.Added)
	}
	if fmt.Sprint(r.DuplicateHistory) != "[kept]" {
		t.Errorf("DuplicateHistory = %v, want [kept]", r.DuplicateHistory)
	}

	if h := historyOf(t, m, "kept"); h.AverageTimeToAnswer != 4*time.Second || h.Question.Answer() != "same" {
		t.Errorf("kept history = %s, want rehydrated with the deck's answer", h)
	}
	if h := historyOf(t, m, "changed"); h.PassModeCounter != 1 || h.AverageTimeToAnswer != 0 {
		t.Errorf("changed history = %s, want fresh", h)
	}
	removed := m.Removed()
	if len(removed) != 1 || removed[0].PassModeCounter != 2 || removed[0].AverageTimeToAnswer != 9*time.Second {
		t.Errorf("Removed() = %v, want the stashed history", removed)
	}

	snap := m.Snapshot()
	if len(snap.Removed) != 1 || snap.Removed[0].QuestionText != "gone" {
		t.Errorf("snapshot removed = %v, want [gone]", snap.Removed)
	}
	if len(snap.Records) != 3 {
		t.Errorf("snapshot records = %d, want 3", len(snap.Records))
	}
}

func TestNew_PrioritizedCapOnLoad(t *testing.T) {
	qs := deck(14)
	prior := &history.Snapshot{}
	for _, q := range qs {
		prior.Records = append(prior.Records, history.Record{
			QuestionText:    q.Text(),
			AnswerText:      q.Answer(),
			PassModeCounter: 2,
			IsPrioritized:   true,
		})
	}
	m, err := load(qs, prior, testOptions(1, newClock()))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	checkInvariants(t, m)
	if len(m.prioritized) != 10 {
		t.Errorf("len(prioritized) = %d, want 10", len(m.prioritized))
	}
}

func TestCheckPrioritizations_PrefersAskedQuestions(t *testing.T) {
	qs := deck(15)
	prior := &history.Snapshot{}
	for i, q := range qs {
		r := history.Record{QuestionText: q.Text(), AnswerText: q.Answer(), PassModeCounter: 1}
		if i >= 12 {
			r.PassModeCounter = 3
			r.TimeLastAskedMillis = int64(1_600_000_000_000 + i)
		}
		prior.Records = append(prior.Records, r)
	}

	m, err := load(qs, prior, testOptions(1, newClock()))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	m.checkPrioritizations()
	checkInvariants(t, m)

	if len(m.prioritized) != 10 {
		t.Fatalf("len(prioritized) = %d, want 10", len(m.prioritized))
	}
	for i := 12; i < 15; i++ {
		if h := historyOf(t, m, qs[i].Text()); !h.IsPrioritized {
			t.Errorf("%q should be prioritized ahead of never-asked questions", qs[i].Text())
		}
	}
}

func TestRecordAnswer_CorrectAtZeroTime(t *testing.T) {
	m, err := New(deck(2), nil, testOptions(7, newClock()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	text := m.CurrentQuestion().Text()

	if !m.RecordAnswer(true, m.CurrentAnswer(), 0, nil) {
		t.Fatal("RecordAnswer(true) = false")
	}
	checkInvariants(t, m)

	h := historyOf(t, m, text)
	if h.AverageTimeToAnswer != 0 {
		t.Errorf("AverageTimeToAnswer = %s, want 0", h.AverageTimeToAnswer)
	}
	if h.PassModeCounter != 0 {
		t.Errorf("PassModeCounter = %d, want 0", h.PassModeCounter)
	}
	if h.IsPrioritized {
		t.Error("known question should not be prioritized")
	}
	idx := -1
	for i, r := range m.records {
		if r.Question.Text() == text {
			idx = i
		}
	}
	if !inBucket(m.nonPassed, idx) {
		t.Error("question should be in nonPassed")
	}
	if m.CurrentQuestion().Text() == text {
		t.Error("correct answer should move to a different question")
	}
	if m.QuestionsAnswered() != 1 {
		t.Errorf("QuestionsAnswered = %d, want 1", m.QuestionsAnswered())
	}
	if m.QuestionScore() != 100 {
		t.Errorf("QuestionScore = %d, want 100", m.QuestionScore())
	}
}

func TestRecordAnswer_RepeatedWrongAnswers(t *testing.T) {
	m, err := New(deck(3), nil, testOptions(11, newClock()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	text := m.CurrentQuestion().Text()

	for i, guess := range []string{"first", "second", "third"} {
		if m.RecordAnswer(false, guess, time.Duration(i+1)*time.Second, nil) {
			t.Fatal("RecordAnswer(false) = true")
		}
		checkInvariants(t, m)

		h := historyOf(t, m, text)
		if h.AverageTimeToAnswer != WrongAnswerPenalty {
			t.Errorf("attempt %d: AverageTimeToAnswer = %s, want %s", i+1, h.AverageTimeToAnswer, WrongAnswerPenalty)
		}
		if h.TotalWrongAnswers != 1 || h.LastWrongAnswer != "first" {
			t.Errorf("attempt %d: wrong answers = %d/%q, want 1/%q", i+1, h.TotalWrongAnswers, h.LastWrongAnswer, "first")
		}
		if h.PassModeCounter != 1 {
			t.Errorf("attempt %d: PassModeCounter = %d, want 1", i+1, h.PassModeCounter)
		}
		if m.CurrentQuestion().Text() != text {
			t.Fatalf("attempt %d: wrong answer moved on to %q", i+1, m.CurrentQuestion().Text())
		}
		if m.ShouldDisplayTimer() {
			t.Errorf("attempt %d: timer should be hidden after the first attempt", i+1)
		}
	}

	// A later correct answer is not a first attempt, so the counter stays.
	m.RecordAnswer(true, m.CurrentAnswer(), time.Second, nil)
	if h := historyOf(t, m, text); h.PassModeCounter != 1 || h.AverageTimeToAnswer != WrongAnswerPenalty {
		t.Errorf("after retry: %s, want unchanged", h)
	}
}

func TestPass_KnownQuestion(t *testing.T) {
	qs := deck(4)
	m, err := New(qs, knownSnapshot(qs), testOptions(5, newClock()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	checkInvariants(t, m)
	text := m.CurrentQuestion().Text()
	if !historyOf(t, m, text).Known() {
		t.Fatal("current question should be known")
	}

	answer := m.Pass()
	checkInvariants(t, m)

	if answer != m.CurrentAnswer() {
		t.Errorf("Pass() = %q, want %q", answer, m.CurrentAnswer())
	}
	h := historyOf(t, m, text)
	if h.PassModeCounter != PassCounterValue {
		t.Errorf("PassModeCounter = %d, want %d", h.PassModeCounter, PassCounterValue)
	}
	if h.AverageTimeToAnswer != MaxRecordedAnswerTime {
		t.Errorf("AverageTimeToAnswer = %s, want %s", h.AverageTimeToAnswer, MaxRecordedAnswerTime)
	}
	if len(m.nonPassed) != 3 {
		t.Errorf("len(nonPassed) = %d, want 3", len(m.nonPassed))
	}
	if m.CurrentQuestion().Text() != text {
		t.Error("Pass should not move to another question")
	}
	if m.ShouldDisplayTimer() {
		t.Error("timer should be hidden after a pass")
	}
	if m.QuestionScore() != 0 {
		t.Errorf("QuestionScore = %d, want 0", m.QuestionScore())
	}

	// Answering correctly after a pass gives no credit.
	m.RecordAnswer(true, answer, 0, nil)
	if h := historyOf(t, m, text); h.PassModeCounter != PassCounterValue {
		t.Errorf("PassModeCounter after answer = %d, want %d", h.PassModeCounter, PassCounterValue)
	}
}

func TestRecordAnswer_TypingTimeDiscount(t *testing.T) {
	qs := []question.Question{
		question.New("one", "a b c", false),
		question.New("two", "d e f", false),
	}
	m, err := New(qs, nil, testOptions(2, newClock()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m.averageTimePerCharacter = 100 * time.Millisecond
	text := m.CurrentQuestion().Text()

	m.RecordAnswer(true, m.CurrentAnswer(), 1300*time.Millisecond, nil)
	if h := historyOf(t, m, text); h.AverageTimeToAnswer != time.Second {
		t.Errorf("AverageTimeToAnswer = %s, want 1s", h.AverageTimeToAnswer)
	}

	text = m.CurrentQuestion().Text()
	m.RecordAnswer(true, m.CurrentAnswer(), 2*time.Minute, nil)
	if h := historyOf(t, m, text); h.AverageTimeToAnswer != MaxRecordedAnswerTime {
		t.Errorf("AverageTimeToAnswer = %s, want capped at %s", h.AverageTimeToAnswer, MaxRecordedAnswerTime)
	}
}

func TestAdjustAverageTimePerCharacter(t *testing.T) {
	m, err := New(deck(2), nil, testOptions(1, newClock()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	m.adjustAverageTimePerCharacter([]time.Duration{time.Second})
	if m.AverageTimePerCharacter() != 0 {
		t.Errorf("single sample should be ignored, got %s", m.AverageTimePerCharacter())
	}

	m.adjustAverageTimePerCharacter([]time.Duration{5 * time.Second, 12 * time.Second})
	if m.AverageTimePerCharacter() != 0 {
		t.Errorf("only long pauses should be ignored, got %s", m.AverageTimePerCharacter())
	}

	m.adjustAverageTimePerCharacter([]time.Duration{5 * time.Second, 100 * time.Millisecond, 200 * time.Millisecond, 12 * time.Second})
	if got := m.AverageTimePerCharacter(); got != 150*time.Millisecond {
		t.Errorf("first update = %s, want 150ms", got)
	}

	m.adjustAverageTimePerCharacter([]time.Duration{time.Second, 300 * time.Millisecond})
	if got := m.AverageTimePerCharacter(); got != 172*time.Millisecond {
		t.Errorf("blended update = %s, want 172ms", got)
	}
}

type invalidChecker struct{}

func (invalidChecker) CheckAnswer(question.Question, string) (bool, error) {
	return false, &question.InvalidAnswerError{Reason: "There should be 2 note(s) in the answer"}
}

func TestAnswer_InvalidDoesNotMutate(t *testing.T) {
	opts := testOptions(4, newClock())
	opts.Checker = invalidChecker{}
	m, err := New(deck(3), nil, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	before := m.CurrentHistory()

	ok, err := m.Answer("nonsense", time.Second, nil)
	var invalid *question.InvalidAnswerError
	if ok || !errors.As(err, &invalid) {
		t.Fatalf("Answer() = %v, %v; want false, InvalidAnswerError", ok, err)
	}
	if after := m.CurrentHistory(); after != before {
		t.Errorf("history changed: %s -> %s", before, after)
	}
	if !m.ShouldDisplayTimer() {
		t.Error("invalid answer should not use up the first attempt")
	}
}

func TestAnswer_UsesMatcher(t *testing.T) {
	m, err := New(deck(3), nil, testOptions(4, newClock()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	text := m.CurrentQuestion().Text()

	ok, err := m.Answer("  "+m.CurrentAnswer()+"  ", time.Second, nil)
	if err != nil || !ok {
		t.Fatalf("Answer(correct) = %v, %v", ok, err)
	}
	if m.CurrentQuestion().Text() == text {
		t.Error("correct answer should advance")
	}

	ok, err = m.Answer("definitely wrong", time.Second, nil)
	if err != nil || ok {
		t.Fatalf("Answer(wrong) = %v, %v", ok, err)
	}
}

func TestSelection_BadTimesBucket(t *testing.T) {
	qs := deck(25)
	cfg := DefaultConfig()
	cfg.PrioritizedProbability = 0
	cfg.BadTimeProbability = 1

	for seed := uint64(0); seed < 20; seed++ {
		opts := testOptions(seed, newClock())
		opts.Config = &cfg
		m, err := New(qs, knownSnapshot(qs), opts)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if m.SelectionMethod() != SelectionBadTimes {
			t.Fatalf("SelectionMethod = %v, want %v", m.SelectionMethod(), SelectionBadTimes)
		}
		// knownSnapshot gives question i an average of i+1 seconds, so the
		// five fastest are never in the worst-20 bucket.
		if h := m.CurrentHistory(); h.AverageTimeToAnswer <= 5*time.Second {
			t.Errorf("seed %d: picked %s from outside the worst times", seed, h)
		}
	}
}

func TestSelection_LeastRecentlyAskedBucket(t *testing.T) {
	qs := deck(60)
	cfg := DefaultConfig()
	cfg.PrioritizedProbability = 0
	cfg.BadTimeProbability = 0

	for seed := uint64(0); seed < 20; seed++ {
		opts := testOptions(seed, newClock())
		opts.Config = &cfg
		m, err := New(qs, knownSnapshot(qs), opts)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if m.SelectionMethod() != SelectionLeastRecentlyAsked {
			t.Fatalf("SelectionMethod = %v, want %v", m.SelectionMethod(), SelectionLeastRecentlyAsked)
		}
		// The bucket is the 6 least recently asked: questions 0..5.
		var i int
		fmt.Sscanf(m.CurrentQuestion().Text(), "question %d", &i)
		if i > 5 {
			t.Errorf("seed %d: picked question %d from outside the least recently asked", seed, i)
		}
	}
}

func TestSelection_RandomFallback(t *testing.T) {
	qs := deck(2)
	cfg := DefaultConfig()
	cfg.PrioritizedProbability = 0
	cfg.BadTimeProbability = 0
	opts := testOptions(9, newClock())
	opts.Config = &cfg

	m, err := New(qs, knownSnapshot(qs), opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if m.SelectionMethod() != SelectionRandom {
		t.Errorf("SelectionMethod = %v, want %v", m.SelectionMethod(), SelectionRandom)
	}
}

func TestSelection_UnknownFractionForcesPrioritized(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PrioritizedProbability = 0
	cfg.BadTimeProbability = 1
	opts := testOptions(11, newClock())
	opts.Config = &cfg

	m, err := New(deck(40), nil, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	forced := 0
	for step := 0; m.unknownFraction() > cfg.UnknownFractionThreshold; step++ {
		if step == 40 {
			t.Fatalf("deck still %.2f unknown after 40 answers", m.unknownFraction())
		}
		switch m.SelectionMethod() {
		case SelectionPrioritizedNeverAsked, SelectionPrioritizedPassed:
		default:
			t.Fatalf("step %d: %.2f of the deck unknown, SelectionMethod = %v, want prioritized",
				step, m.unknownFraction(), m.SelectionMethod())
		}
		forced++
		// Each answer is faster than the last, so the question just answered
		// never lands among the worst times.
		m.RecordAnswer(true, m.CurrentAnswer(), time.Duration(40-step)*500*time.Millisecond, nil)
		checkInvariants(t, m)
	}
	if forced < 30 {
		t.Errorf("prioritized forced for %d selections, want at least 30", forced)
	}

	// Below the threshold the prioritized bucket is skipped.
	if m.SelectionMethod() != SelectionBadTimes {
		t.Errorf("SelectionMethod below threshold = %v, want %v", m.SelectionMethod(), SelectionBadTimes)
	}
	for i := 0; i < 20; i++ {
		m.RecordAnswer(true, m.CurrentAnswer(), time.Second, nil)
		if method := m.SelectionMethod(); method == SelectionPrioritizedNeverAsked || method == SelectionPrioritizedPassed {
			t.Fatalf("answer %d: prioritized picked at %.2f unknown with probability 0", i, m.unknownFraction())
		}
	}
}

func TestSelection_NeverRepeats(t *testing.T) {
	for _, n := range []int{2, 3, 30} {
		t.Run(fmt.Sprintf("%d questions", n), func(t *testing.T) {
			m, err := New(deck(n), nil, testOptions(uint64(n), newClock()))
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			for i := 0; i < 300; i++ {
				prev := m.CurrentQuestion().Text()
				m.RecordAnswer(true, m.CurrentAnswer(), time.Second, nil)
				if m.CurrentQuestion().Text() == prev {
					t.Fatalf("step %d: %q asked twice in a row", i, prev)
				}
			}
		})
	}
}

func TestManager_RandomWalkInvariants(t *testing.T) {
	qs := deck(40)
	clock := newClock()
	m, err := New(qs, nil, testOptions(42, clock))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r := rand.New(rand.NewPCG(7, 8))

	for step := 0; step < 3000; step++ {
		clock.Advance(time.Duration(r.IntN(20000)) * time.Millisecond)
		text := m.CurrentQuestion().Text()
		before := historyOf(t, m, text)
		first := m.ShouldDisplayTimer()

		switch op := r.IntN(100); {
		case op < 60:
			m.RecordAnswer(true, m.CurrentAnswer(), time.Duration(r.IntN(40000))*time.Millisecond,
				[]time.Duration{time.Second, 150 * time.Millisecond, 250 * time.Millisecond})
			after := historyOf(t, m, text)
			want := before.PassModeCounter
			if first && want > 0 {
				want--
			}
			if after.PassModeCounter != want {
				t.Fatalf("step %d: PassModeCounter %d -> %d, want %d", step, before.PassModeCounter, after.PassModeCounter, want)
			}
			if m.CurrentQuestion().Text() == text {
				t.Fatalf("step %d: question repeated", step)
			}
		case op < 85:
			m.RecordAnswer(false, "nope", time.Second, nil)
		default:
			m.Pass()
			if h := historyOf(t, m, text); h.PassModeCounter != PassCounterValue {
				t.Fatalf("step %d: PassModeCounter after pass = %d", step, h.PassModeCounter)
			}
		}
		checkInvariants(t, m)

		if s := m.QuestionScore(); s < 0 || s > 100 {
			t.Fatalf("step %d: QuestionScore = %d", step, s)
		}
		if step%250 == 0 {
			sc := m.CalculateScores()
			if sc.QuestionSetPercentScore < 0 || sc.QuestionSetPercentScore > 100 {
				t.Fatalf("step %d: QuestionSetPercentScore = %v", step, sc.QuestionSetPercentScore)
			}
			if sc.KnowledgeIndexScore < 0 {
				t.Fatalf("step %d: KnowledgeIndexScore = %v", step, sc.KnowledgeIndexScore)
			}
		}
	}
}

func TestCalculateScores_Idempotent(t *testing.T) {
	clock := newClock()
	m, err := New(deck(5), nil, testOptions(3, clock))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m.RecordAnswer(true, m.CurrentAnswer(), time.Second, nil)
	clock.Advance(3 * time.Minute)

	before := m.KnowledgeHistory().Len()
	first := m.CalculateScores()
	second := m.CalculateScores()
	if first != second {
		t.Errorf("CalculateScores differs: %+v vs %+v", first, second)
	}
	if got := m.KnowledgeHistory().Len(); got != before+1 {
		t.Errorf("knowledge samples = %d, want %d", got, before+1)
	}
	if m.Scores() != first {
		t.Error("Scores() should return the calculated scores")
	}
	latest, _ := m.KnowledgeHistory().Latest()
	if latest.SessionDuration != 3*time.Minute {
		t.Errorf("session duration = %s, want 3m", latest.SessionDuration)
	}

	// Snapshot calculates again but adds no second sample.
	snap := m.Snapshot()
	if len(snap.KnowledgeIndex) != before+1 {
		t.Errorf("snapshot samples = %d, want %d", len(snap.KnowledgeIndex), before+1)
	}
}

func TestScores_PanicsBeforeCalculate(t *testing.T) {
	m, err := New(deck(2), nil, testOptions(1, newClock()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() {
		if recover() == nil {
			t.Error("Scores() before CalculateScores should panic")
		}
	}()
	m.Scores()
}

func TestSnapshot_RoundTrip(t *testing.T) {
	qs := deck(12)
	clock := newClock()
	m, err := New(qs, nil, testOptions(21, clock))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r := rand.New(rand.NewPCG(1, 1))
	for i := 0; i < 80; i++ {
		clock.Advance(1500 * time.Millisecond)
		switch r.IntN(4) {
		case 0:
			m.RecordAnswer(false, "x", time.Second, nil)
		case 1:
			m.Pass()
		}
		m.RecordAnswer(true, m.CurrentAnswer(), time.Duration(r.IntN(20000))*time.Millisecond, nil)
	}

	data, err := history.MarshalJSON(m.Snapshot())
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	snap, err := history.UnmarshalJSON(data)
	if err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}

	reloaded, err := load(qs, snap, testOptions(21, clock))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	checkInvariants(t, reloaded)

	for _, q := range qs {
		want := historyOf(t, m, q.Text())
		got := historyOf(t, reloaded, q.Text())
		if got.PassModeCounter != want.PassModeCounter ||
			got.AverageTimeToAnswer != want.AverageTimeToAnswer ||
			got.IsPrioritized != want.IsPrioritized ||
			!got.TimeLastAsked.Equal(want.TimeLastAsked) ||
			got.TotalWrongAnswers != want.TotalWrongAnswers {
			t.Errorf("%q: reloaded %s, want %s", q.Text(), got, want)
		}
	}
	if reloaded.AverageTimePerCharacter() != m.AverageTimePerCharacter() {
		t.Errorf("AverageTimePerCharacter = %s, want %s", reloaded.AverageTimePerCharacter(), m.AverageTimePerCharacter())
	}
	if reloaded.KnowledgeHistory().Len() != 1 {
		t.Errorf("knowledge samples = %d, want 1", reloaded.KnowledgeHistory().Len())
	}
	if reloaded.PreviousScores().TotalQuestions != len(qs) {
		t.Errorf("PreviousScores().TotalQuestions = %d, want %d", reloaded.PreviousScores().TotalQuestions, len(qs))
	}
}

func TestSnapshot_SortedSlowestFirst(t *testing.T) {
	qs := deck(6)
	prior := knownSnapshot(qs)
	for _, r := range []struct {
		text string
		ms   int64
	}{{"gone fast", 1000}, {"gone slow", 9000}, {"gone mid", 4000}} {
		prior.Records = append(prior.Records, history.Record{QuestionText: r.text, AnswerText: "x", AverageTimeToAnswerMillis: r.ms})
	}
	m, err := New(qs, prior, testOptions(1, newClock()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	snap := m.Snapshot()
	for i := 1; i < len(snap.Records); i++ {
		if snap.Records[i-1].AverageTimeToAnswerMillis < snap.Records[i].AverageTimeToAnswerMillis {
			t.Fatalf("records not sorted by descending time: %v", snap.Records)
		}
	}
	var removed []string
	for _, r := range snap.Removed {
		removed = append(removed, r.QuestionText)
	}
	if got := fmt.Sprint(removed); got != "[gone slow gone mid gone fast]" {
		t.Errorf("removed order = %s, want slowest first", got)
	}
}

func TestSessionStatus(t *testing.T) {
	clock := newClock()
	m, err := New(deck(3), nil, testOptions(1, clock))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := m.SessionStatus(); got != "" {
		t.Errorf("SessionStatus() = %q, want empty", got)
	}
	clock.Advance(4*time.Minute + 30*time.Second)
	m.RecordAnswer(true, m.CurrentAnswer(), time.Second, nil)
	m.RecordAnswer(true, m.CurrentAnswer(), time.Second, nil)
	if got, want := m.SessionStatus(), " - answered 2 in 4 mins"; got != want {
		t.Errorf("SessionStatus() = %q, want %q", got, want)
	}
}

func TestQuestionPreviousScore(t *testing.T) {
	qs := deck(2)
	m, err := New(qs, knownSnapshot(qs), testOptions(1, newClock()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	wantPrev := ScoreOf(m.CurrentHistory())
	m.RecordAnswer(true, m.CurrentAnswer(), 0, nil)
	if got := m.QuestionPreviousScore(); got != wantPrev {
		t.Errorf("QuestionPreviousScore() = %d, want %d", got, wantPrev)
	}
}

func TestOnPresented(t *testing.T) {
	var presented []string
	opts := testOptions(1, newClock())
	opts.OnPresented = func(q question.Question) { presented = append(presented, q.Text()) }

	m, err := New(deck(3), nil, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m.RecordAnswer(false, "x", time.Second, nil)
	m.RecordAnswer(true, m.CurrentAnswer(), time.Second, nil)
	if len(presented) != 2 {
		t.Errorf("presented = %v, want 2 presentations", presented)
	}
}

func TestSelectionMethod_String(t *testing.T) {
	if got := SelectionMethod(99).String(); got != "<unknown question selection method>" {
		t.Errorf("String() = %q", got)
	}
	if got := SelectionRandom.String(); got != "Question selected randomly" {
		t.Errorf("String() = %q", got)
	}
}

func TestSelectionMethod_Name(t *testing.T) {
	tests := []struct {
		m    SelectionMethod
		want string
	}{
		{SelectionPrioritizedPassed, "prioritized-passed"},
		{SelectionPrioritizedNeverAsked, "prioritized-never-asked"},
		{SelectionBadTimes, "bad-times"},
		{SelectionLeastRecentlyAsked, "least-recently-asked"},
		{SelectionRandom, "random"},
		{SelectionUnknown, "unknown"},
	}
	for _, tt := range tests {
		if got := tt.m.Name(); got != tt.want {
			t.Errorf("%v.Name() = %q, want %q", tt.m, got, tt.want)
		}
	}
}
