package history

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
)

const (
	xmlHistoryComment = "Question history is sorted with longest time-to-answer (including penalties from wrong answers) at the top: "
	xmlRemovedComment = "The following item are no longer in the current question file, but the history is retained in case they are re-added later: "
)

type xmlRoot struct {
	XMLName   xml.Name      `xml:"questionHistory"`
	List      *xmlList      `xml:"questionHistoryList"`
	Scores    *xmlScores    `xml:"previousQuestionSetScores"`
	Knowledge *xmlKnowledge `xml:"knowledgeIndexHistory"`
}

type xmlList struct {
	Questions []xmlQuestion `xml:"question"`
}

type xmlRootOut struct {
	XMLName   xml.Name      `xml:"questionHistory"`
	List      xmlListOut    `xml:"questionHistoryList"`
	Scores    *xmlScores    `xml:"previousQuestionSetScores"`
	Knowledge *xmlKnowledge `xml:"knowledgeIndexHistory"`
}

// xmlListOut writes live records and then removed records, each group
// introduced by an explanatory comment.
type xmlListOut struct {
	live    []xmlQuestion
	removed []xmlQuestion
}

func (l xmlListOut) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	el := xml.StartElement{Name: xml.Name{Local: "question"}}
	if err := e.EncodeToken(xml.Comment(xmlHistoryComment)); err != nil {
		return err
	}
	for _, q := range l.live {
		if err := e.EncodeElement(q, el); err != nil {
			return err
		}
	}
	if len(l.removed) > 0 {
		if err := e.EncodeToken(xml.Comment(xmlRemovedComment)); err != nil {
			return err
		}
		for _, q := range l.removed {
			if err := e.EncodeElement(q, el); err != nil {
				return err
			}
		}
	}
	return e.EncodeToken(start.End())
}

type xmlQuestion struct {
	PassModeCounter     *string `xml:"passModeCounter,attr"`
	AverageTimeToAnswer string  `xml:"averageTimeToAnswer,attr"`
	IsPrioritized       string  `xml:"isPrioritized,attr"`
	QuestionText        string  `xml:"questionText,attr"`
	AnswerText          string  `xml:"answerText,attr"`
	TimeLastAsked       string  `xml:"timeLastAsked,attr"`
	TotalTimesAsked     string  `xml:"totalTimesAsked,attr,omitempty"`
	LastWrongAnswer     string  `xml:"lastWrongAnswer,attr,omitempty"`
	TotalWrongAnswers   string  `xml:"totalWrongAnswers,attr,omitempty"`
}

type xmlScores struct {
	UnknownAnswers          string `xml:"unknownAnswers,attr"`
	WrongAnswers            string `xml:"wrongAnswers,attr"`
	SlowAnswers             string `xml:"slowAnswers,attr"`
	QuickAnswers            string `xml:"quickAnswers,attr"`
	TotalQuestions          string `xml:"totalQuestions,attr"`
	AverageTimeToAnswer     string `xml:"averageTimeToAnswer,attr"`
	AverageTimePerCharacter string `xml:"averageTimePerCharacter,attr"`
	QuestionSetPercentScore string `xml:"questionSetPercentScore,attr"`
	KnowledgeIndexScore     string `xml:"knowledgeIndexScore,attr"`
}

type xmlKnowledge struct {
	Data []xmlKnowledgeData `xml:"knowledgeIndexData"`
}

type xmlKnowledgeData struct {
	Date                  string `xml:"date,attr"`
	Value                 string `xml:"value,attr"`
	SessionDurationMillis string `xml:"sessionDurationMillis,attr"`
}

// DecodeXML reads a legacy XML history file. Missing attributes take the
// legacy defaults: passModeCounter 1, everything else zero.
func DecodeXML(r io.Reader) (*Snapshot, error) {
	var root xmlRoot
	if err := xml.NewDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("decode history xml: %w", err)
	}

	s := &Snapshot{FormatVersion: LegacyFormatVersion}
	p := &attrParser{}

	if root.List != nil {
		for _, q := range root.List.Questions {
			rec := Record{
				QuestionText:              q.QuestionText,
				AnswerText:                q.AnswerText,
				PassModeCounter:           1,
				AverageTimeToAnswerMillis: p.int64("averageTimeToAnswer", q.AverageTimeToAnswer),
				IsPrioritized:             p.bool(q.IsPrioritized),
				TimeLastAskedMillis:       p.int64("timeLastAsked", q.TimeLastAsked),
				TotalTimesAsked:           int(p.int64("totalTimesAsked", q.TotalTimesAsked)),
				LastWrongAnswer:           q.LastWrongAnswer,
				TotalWrongAnswers:         int(p.int64("totalWrongAnswers", q.TotalWrongAnswers)),
			}
			if q.PassModeCounter != nil {
				rec.PassModeCounter = int(p.int64("passModeCounter", *q.PassModeCounter))
			}
			if rec.TimeLastAskedMillis < 0 {
				rec.TimeLastAskedMillis = 0
			}
			s.Records = append(s.Records, rec)
		}
	}

	if sc := root.Scores; sc != nil {
		s.Scores = &Scores{
			UnknownAnswers:                int(p.int64("unknownAnswers", sc.UnknownAnswers)),
			WrongAnswers:                  int(p.int64("wrongAnswers", sc.WrongAnswers)),
			SlowAnswers:                   int(p.int64("slowAnswers", sc.SlowAnswers)),
			QuickAnswers:                  int(p.int64("quickAnswers", sc.QuickAnswers)),
			TotalQuestions:                int(p.int64("totalQuestions", sc.TotalQuestions)),
			AverageTimeToAnswerMillis:     p.int64("averageTimeToAnswer", sc.AverageTimeToAnswer),
			AverageTimePerCharacterMillis: p.int64("averageTimePerCharacter", sc.AverageTimePerCharacter),
			QuestionSetPercentScore:       p.float("questionSetPercentScore", sc.QuestionSetPercentScore),
			KnowledgeIndexScore:           p.float("knowledgeIndexScore", sc.KnowledgeIndexScore),
		}
	}

	if root.Knowledge != nil {
		for _, d := range root.Knowledge.Data {
			date := p.int64("date", d.Date)
			if date <= 0 {
				continue
			}
			s.KnowledgeIndex = append(s.KnowledgeIndex, KnowledgeSample{
				DateMillis:            date,
				Value:                 p.float("value", d.Value),
				SessionDurationMillis: p.int64("sessionDurationMillis", d.SessionDurationMillis),
			})
		}
	}

	if p.err != nil {
		return nil, fmt.Errorf("decode history xml: %w", p.err)
	}
	if err := Migrate(s); err != nil {
		return nil, err
	}
	return s, nil
}

// EncodeXML writes s in the legacy XML format: live records, then removed
// records, then the scores and the knowledge index series.
func EncodeXML(w io.Writer, s *Snapshot) error {
	root := xmlRootOut{List: xmlListOut{
		live:    toXMLQuestions(s.Records),
		removed: toXMLQuestions(s.Removed),
	}}

	sc := s.Scores
	if sc == nil {
		sc = &Scores{}
	}
	root.Scores = &xmlScores{
		UnknownAnswers:          strconv.Itoa(sc.UnknownAnswers),
		WrongAnswers:            strconv.Itoa(sc.WrongAnswers),
		SlowAnswers:             strconv.Itoa(sc.SlowAnswers),
		QuickAnswers:            strconv.Itoa(sc.QuickAnswers),
		TotalQuestions:          strconv.Itoa(sc.TotalQuestions),
		AverageTimeToAnswer:     strconv.FormatInt(sc.AverageTimeToAnswerMillis, 10),
		AverageTimePerCharacter: strconv.FormatInt(sc.AverageTimePerCharacterMillis, 10),
		QuestionSetPercentScore: strconv.FormatFloat(sc.QuestionSetPercentScore, 'g', -1, 64),
		KnowledgeIndexScore:     strconv.FormatFloat(sc.KnowledgeIndexScore, 'g', -1, 64),
	}

	root.Knowledge = &xmlKnowledge{}
	for _, k := range s.KnowledgeIndex {
		root.Knowledge.Data = append(root.Knowledge.Data, xmlKnowledgeData{
			Date:                  strconv.FormatInt(k.DateMillis, 10),
			Value:                 strconv.FormatFloat(k.Value, 'g', -1, 64),
			SessionDurationMillis: strconv.FormatInt(k.SessionDurationMillis, 10),
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("write history xml: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(&root); err != nil {
		return fmt.Errorf("encode history xml: %w", err)
	}
	return enc.Close()
}

func toXMLQuestions(records []Record) []xmlQuestion {
	out := make([]xmlQuestion, 0, len(records))
	for _, r := range records {
		pmc := strconv.Itoa(r.PassModeCounter)
		q := xmlQuestion{
			PassModeCounter:     &pmc,
			AverageTimeToAnswer: strconv.FormatInt(r.AverageTimeToAnswerMillis, 10),
			IsPrioritized:       strconv.FormatBool(r.IsPrioritized),
			QuestionText:        r.QuestionText,
			AnswerText:          r.AnswerText,
			TimeLastAsked:       strconv.FormatInt(r.TimeLastAskedMillis, 10),
			LastWrongAnswer:     r.LastWrongAnswer,
		}
		if r.TotalTimesAsked > 0 {
			q.TotalTimesAsked = strconv.Itoa(r.TotalTimesAsked)
		}
		if r.TotalWrongAnswers > 0 {
			q.TotalWrongAnswers = strconv.Itoa(r.TotalWrongAnswers)
		}
		out = append(out, q)
	}
	return out
}

// attrParser parses numeric attributes, treating empty values as zero and
// remembering the first malformed one.
type attrParser struct {
	err error
}

func (p *attrParser) int64(name, v string) int64 {
	if v == "" || p.err != nil {
		return 0
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		p.err = fmt.Errorf("attribute %s: %w", name, err)
	}
	return n
}

func (p *attrParser) float(name, v string) float64 {
	if v == "" || p.err != nil {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.err = fmt.Errorf("attribute %s: %w", name, err)
	}
	return f
}

func (p *attrParser) bool(v string) bool {
	b, _ := strconv.ParseBool(v)
	return b
}
