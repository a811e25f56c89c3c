package drill

import (
	"fmt"
	"time"
)

const (
	// WrongAnswerPenalty is the time recorded for any wrong answer. It is
	// deliberately larger than MaxRecordedAnswerTime.
	WrongAnswerPenalty = 50 * time.Second

	// MaxRecordedAnswerTime caps the time recorded for a correct answer.
	MaxRecordedAnswerTime = 30 * time.Second

	// MaxCharacterTime is the longest keystroke interval counted towards
	// the per-character typing average.
	MaxCharacterTime = 10 * time.Second

	// PassCounterValue is the pass mode counter given to a passed question.
	PassCounterValue = 3
)

// Config holds the tunable parameters of question selection and averaging.
type Config struct {
	// PrioritizedProbability is the chance of picking from the prioritized
	// bucket on each selection.
	PrioritizedProbability float64

	// BadTimeProbability is the chance of picking from the worst-times
	// bucket when the prioritized bucket was not used.
	BadTimeProbability float64

	// UnknownFractionThreshold forces selection from the prioritized
	// bucket while more than this fraction of the deck is not yet known.
	UnknownFractionThreshold float64

	// MaxPrioritized caps the prioritized bucket.
	MaxPrioritized int

	// BadTimesBucketSize is the number of slowest known questions to pick
	// from; the bucket is skipped until that many questions are known.
	BadTimesBucketSize int

	// LRUBucketPercent is the share of the deck, least recently asked
	// first, that the least-recently-asked bucket covers.
	LRUBucketPercent int

	// LRUBucketMinSize is the bucket size that must be exceeded before the
	// least-recently-asked bucket is used at all.
	LRUBucketMinSize int

	// AnswerTimeWeight is the weight of a new sample in the per-question
	// average time to answer.
	AnswerTimeWeight float64

	// CharacterTimeWeight is the weight of a new sample in the
	// per-character typing average.
	CharacterTimeWeight float64
}

// DefaultConfig returns the standard selection parameters.
func DefaultConfig() Config {
	return Config{
		PrioritizedProbability:   0.5,
		BadTimeProbability:       0.75,
		UnknownFractionThreshold: 0.15,
		MaxPrioritized:           10,
		BadTimesBucketSize:       20,
		LRUBucketPercent:         10,
		LRUBucketMinSize:         4,
		AnswerTimeWeight:         0.6,
		CharacterTimeWeight:      0.15,
	}
}

// Validate checks that probabilities and weights lie in [0,1] and bucket
// sizes are positive.
func (c Config) Validate() error {
	probs := []struct {
		name string
		v    float64
	}{
		{"prioritized probability", c.PrioritizedProbability},
		{"bad time probability", c.BadTimeProbability},
		{"unknown fraction threshold", c.UnknownFractionThreshold},
		{"answer time weight", c.AnswerTimeWeight},
		{"character time weight", c.CharacterTimeWeight},
	}
	for _, p := range probs {
		if p.v < 0 || p.v > 1 {
			return fmt.Errorf("%s %v out of range [0,1]", p.name, p.v)
		}
	}
	if c.MaxPrioritized <= 0 {
		return fmt.Errorf("max prioritized must be positive, got %d", c.MaxPrioritized)
	}
	if c.BadTimesBucketSize <= 0 {
		return fmt.Errorf("bad times bucket size must be positive, got %d", c.BadTimesBucketSize)
	}
	if c.LRUBucketPercent <= 0 || c.LRUBucketPercent > 100 {
		return fmt.Errorf("lru bucket percent %d out of range (0,100]", c.LRUBucketPercent)
	}
	if c.LRUBucketMinSize < 0 {
		return fmt.Errorf("lru bucket min size must not be negative, got %d", c.LRUBucketMinSize)
	}
	return nil
}
