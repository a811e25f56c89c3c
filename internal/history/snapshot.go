// Package history defines the persisted form of a deck's drill history and
// its codecs: JSON for the store and the legacy XML ".questionHistory" file
// format for import and export.
package history

import (
	"fmt"
	"sort"

	"golang.org/x/mod/semver"
)

// Format versions. Legacy XML files carry no version and are read as
// LegacyFormatVersion.
const (
	FormatVersion       = "v2.0.0"
	LegacyFormatVersion = "v1.0.0"
)

// Record is the persisted performance history of one question. Times are
// unix milliseconds and durations are milliseconds.
type Record struct {
	QuestionText              string `json:"questionText"`
	AnswerText                string `json:"answerText"`
	CaseSensitive             bool   `json:"caseSensitive,omitempty"`
	PassModeCounter           int    `json:"passModeCounter"`
	AverageTimeToAnswerMillis int64  `json:"averageTimeToAnswer"`
	IsPrioritized             bool   `json:"isPrioritized"`
	TimeLastAskedMillis       int64  `json:"timeLastAsked,omitempty"`
	TotalTimesAsked           int    `json:"totalTimesAsked,omitempty"`
	LastWrongAnswer           string `json:"lastWrongAnswer,omitempty"`
	TotalWrongAnswers         int    `json:"totalWrongAnswers,omitempty"`
}

// Scores is the persisted corpus-wide score snapshot of a session.
type Scores struct {
	UnknownAnswers                int     `json:"unknownAnswers"`
	WrongAnswers                  int     `json:"wrongAnswers"`
	SlowAnswers                   int     `json:"slowAnswers"`
	QuickAnswers                  int     `json:"quickAnswers"`
	TotalQuestions                int     `json:"totalQuestions"`
	AverageTimeToAnswerMillis     int64   `json:"averageTimeToAnswer"`
	AverageTimePerCharacterMillis int64   `json:"averageTimePerCharacter"`
	QuestionSetPercentScore       float64 `json:"questionSetPercentScore"`
	KnowledgeIndexScore           float64 `json:"knowledgeIndexScore"`
}

// KnowledgeSample is one persisted knowledge index data point.
type KnowledgeSample struct {
	DateMillis            int64   `json:"date"`
	Value                 float64 `json:"value"`
	SessionDurationMillis int64   `json:"sessionDurationMillis"`
}

// Snapshot is everything a deck persists between sessions. Removed holds
// history for questions no longer in the deck, kept so it is not lost.
type Snapshot struct {
	FormatVersion  string            `json:"formatVersion"`
	Records        []Record          `json:"records"`
	Removed        []Record          `json:"removed,omitempty"`
	Scores         *Scores           `json:"previousQuestionSetScores,omitempty"`
	KnowledgeIndex []KnowledgeSample `json:"knowledgeIndexHistory,omitempty"`
}

// AllRecords returns live records followed by removed ones.
func (s *Snapshot) AllRecords() []Record {
	out := make([]Record, 0, len(s.Records)+len(s.Removed))
	out = append(out, s.Records...)
	return append(out, s.Removed...)
}

// SortByAverageTimeDesc orders records worst first, so a human reading the
// persisted form sees the slowest questions at the top.
func SortByAverageTimeDesc(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].AverageTimeToAnswerMillis > records[j].AverageTimeToAnswerMillis
	})
}

// Migrate brings a decoded snapshot up to FormatVersion. Snapshots from a
// newer major version are rejected.
func Migrate(s *Snapshot) error {
	v := s.FormatVersion
	if v == "" {
		v = LegacyFormatVersion
	}
	if !semver.IsValid(v) {
		return fmt.Errorf("invalid history format version %q", s.FormatVersion)
	}
	if semver.Major(v) > semver.Major(FormatVersion) {
		return fmt.Errorf("history format %s is newer than supported %s", v, FormatVersion)
	}

	if semver.Compare(v, FormatVersion) < 0 {
		// v1 stored no knowledge samples with a non-positive date and no
		// session durations; drop anything unusable.
		kept := s.KnowledgeIndex[:0]
		for _, k := range s.KnowledgeIndex {
			if k.DateMillis > 0 {
				kept = append(kept, k)
			}
		}
		s.KnowledgeIndex = kept
	}
	s.FormatVersion = FormatVersion
	return nil
}
