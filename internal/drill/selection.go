package drill

import "sort"

// SelectionMethod records which bucket the current question was drawn from.
type SelectionMethod int

const (
	SelectionUnknown SelectionMethod = iota
	SelectionPrioritizedPassed
	SelectionPrioritizedNeverAsked
	SelectionBadTimes
	SelectionLeastRecentlyAsked
	SelectionRandom
)

func (m SelectionMethod) String() string {
	switch m {
	case SelectionPrioritizedPassed:
		return "Question is from the prioritised 'passed' question list"
	case SelectionPrioritizedNeverAsked:
		return "Question is from the prioritised 'never asked' question list"
	case SelectionBadTimes:
		return "Question is from the bad times question list"
	case SelectionLeastRecentlyAsked:
		return "Question had not been asked for a long time"
	case SelectionRandom:
		return "Question selected randomly"
	default:
		return "<unknown question selection method>"
	}
}

// Name returns a short identifier for the method, as stored with answer events.
func (m SelectionMethod) Name() string {
	switch m {
	case SelectionPrioritizedPassed:
		return "prioritized-passed"
	case SelectionPrioritizedNeverAsked:
		return "prioritized-never-asked"
	case SelectionBadTimes:
		return "bad-times"
	case SelectionLeastRecentlyAsked:
		return "least-recently-asked"
	case SelectionRandom:
		return "random"
	default:
		return "unknown"
	}
}

// unknownFraction is the share of the deck not yet known.
func (m *Manager) unknownFraction() float64 {
	return 1 - float64(len(m.nonPassed))/float64(len(m.all))
}

// moveToNext picks the next current question. It never picks the question
// that is current when called.
func (m *Manager) moveToNext() {
	sort.SliceStable(m.all, func(i, j int) bool {
		return m.records[m.all[i]].TimeLastAsked.Before(m.records[m.all[j]].TimeLastAsked)
	})
	sort.SliceStable(m.nonPassed, func(i, j int) bool {
		return m.records[m.nonPassed[i]].AverageTimeToAnswer < m.records[m.nonPassed[j]].AverageTimeToAnswer
	})
	m.checkPrioritizations()

	next := -1

	// While much of the deck is unknown, work the prioritized bucket
	// before refreshing known material.
	if m.rng.Float64() < m.cfg.PrioritizedProbability || m.unknownFraction() > m.cfg.UnknownFractionThreshold {
		if len(m.prioritized) > 0 {
			next = m.prioritized[m.rng.IntN(len(m.prioritized))]
			if m.records[next].NeverAsked() {
				m.method = SelectionPrioritizedNeverAsked
			} else {
				m.method = SelectionPrioritizedPassed
			}
		}
	}
	if next == m.current {
		next = -1
	}

	if next < 0 && m.rng.Float64() < m.cfg.BadTimeProbability {
		m.method = SelectionBadTimes
		if n, size := len(m.nonPassed), m.cfg.BadTimesBucketSize; n >= size {
			next = m.nonPassed[n-size+m.rng.IntN(size)]
		}
	}

	if next < 0 {
		m.method = SelectionLeastRecentlyAsked
		maxIndex := m.cfg.LRUBucketPercent * len(m.all) / 100
		if maxIndex > m.cfg.LRUBucketMinSize && maxIndex <= len(m.all) {
			next = m.all[m.rng.IntN(maxIndex)]
		}
	}

	for next < 0 || next == m.current {
		m.method = SelectionRandom
		next = m.all[m.rng.IntN(len(m.all))]
	}

	m.current = next
	m.lastQuestionPreviousButOneScore = m.lastQuestionPreviousScore
	m.lastQuestionPreviousScore = ScoreOf(m.records[next])
	m.records[next].TimeLastAsked = m.now()
	m.records[next].TotalTimesAsked++
	m.firstAttempt = true

	if m.onPresented != nil {
		m.onPresented(m.records[next].Question)
	}
}

// checkPrioritizations tops the prioritized bucket up to its cap. Questions
// already asked and then failed or passed take precedence over questions
// never asked, so a large import of new material cannot starve the backlog.
func (m *Manager) checkPrioritizations() {
	if len(m.prioritized) >= m.cfg.MaxPrioritized {
		return
	}
	for _, askedOnly := range []bool{true, false} {
		for _, i := range m.all {
			h := &m.records[i]
			if h.PassModeCounter == 0 || h.IsPrioritized {
				continue
			}
			if askedOnly && h.NeverAsked() {
				continue
			}
			h.IsPrioritized = true
			m.prioritized = append(m.prioritized, i)
			if len(m.prioritized) >= m.cfg.MaxPrioritized {
				return
			}
		}
	}
}
