// Package model contains domain models passed between layers.
package model

import (
	"sort"
	"time"
)

// DateLayout is the timestamp layout stored in Record.Date.
const DateLayout = "2006-01-02 15:04:05"

// DefaultTopic labels an evaluation whose quiz carried no topic.
const DefaultTopic = "General"

// Record is one persisted performance result.
// Records are appended only when a score was extracted and never mutated.
type Record struct {
	Topic string  `json:"topic"`
	Score float64 `json:"score"`
	Date  string  `json:"date"`
}

// NewRecord stamps a record with the given capture time.
func NewRecord(topic string, score float64, at time.Time) Record {
	return Record{Topic: topic, Score: score, Date: at.Format(DateLayout)}
}

// Time parses Date. Unparseable dates yield the zero time.
func (r Record) Time() time.Time {
	t, err := time.ParseInLocation(DateLayout, r.Date, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ActiveQuiz is the most recently generated quiz of a session.
// It lives only as long as the session and is never written to disk.
type ActiveQuiz struct {
	Text  string `json:"quiz"`
	Topic string `json:"quiz_topic"`
}

// Empty reports whether no quiz has been generated yet.
func (q ActiveQuiz) Empty() bool { return q.Text == "" }

// SortByDate returns a copy of records ordered by date ascending.
// Ties keep their stored order.
func SortByDate(records []Record) []Record {
	out := make([]Record, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time().Before(out[j].Time())
	})
	return out
}

// Evaluation is the outcome of grading one set of answers. Record is set
// only when a score was found and persisted.
type Evaluation struct {
	Text   string
	Score  float64
	Found  bool
	Saved  bool
	Record *Record
}
