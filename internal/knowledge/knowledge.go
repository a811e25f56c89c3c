// Package knowledge tracks the long-term knowledge index: one sample per
// drill session, recording the index value and how long the session took.
package knowledge

import (
	"time"
)

// DefaultWindowDays is the trailing window used for the minutes-per-day average.
const DefaultWindowDays = 7

// Sample is one point in the knowledge index series.
type Sample struct {
	Time            time.Time
	Value           float64
	SessionDuration time.Duration
}

// DayTotal is the time spent drilling on one local calendar day.
type DayTotal struct {
	// Day is local midnight at the start of the day.
	Day     time.Time
	Minutes int
}

// History is an append-only, chronologically ordered series of samples.
// Callers must add samples in non-decreasing time order.
type History struct {
	samples []Sample
	loc     *time.Location
}

// NewHistory returns a History seeded with samples, using the local time
// zone for day boundaries.
func NewHistory(samples ...Sample) *History {
	h := &History{loc: time.Local}
	h.samples = append(h.samples, samples...)
	return h
}

// WithLocation sets the time zone used for day boundaries and returns h.
func (h *History) WithLocation(loc *time.Location) *History {
	if loc != nil {
		h.loc = loc
	}
	return h
}

// Add appends a sample.
func (h *History) Add(at time.Time, value float64, sessionDuration time.Duration) {
	h.samples = append(h.samples, Sample{Time: at, Value: value, SessionDuration: sessionDuration})
}

// Len returns the number of samples.
func (h *History) Len() int { return len(h.samples) }

// Samples returns a copy of all samples in ascending time order.
func (h *History) Samples() []Sample {
	out := make([]Sample, len(h.samples))
	copy(out, h.samples)
	return out
}

// Latest returns the most recent sample.
func (h *History) Latest() (Sample, bool) {
	if len(h.samples) == 0 {
		return Sample{}, false
	}
	return h.samples[len(h.samples)-1], true
}

// ChartArray returns the series as parallel timestamp and value slices.
func (h *History) ChartArray() ([]time.Time, []float64) {
	times := make([]time.Time, len(h.samples))
	values := make([]float64, len(h.samples))
	for i, s := range h.samples {
		times[i] = s.Time
		values[i] = s.Value
	}
	return times, values
}

// DailyMinutesRollup groups samples by local calendar day and sums whole
// minutes of session time per day, in ascending day order.
func (h *History) DailyMinutesRollup() []DayTotal {
	var out []DayTotal
	for _, s := range h.samples {
		day := h.dayStart(s.Time)
		minutes := int(s.SessionDuration / time.Minute)
		if n := len(out); n > 0 && out[n-1].Day.Equal(day) {
			out[n-1].Minutes += minutes
			continue
		}
		out = append(out, DayTotal{Day: day, Minutes: minutes})
	}
	return out
}

// TimeSpentChartArray returns the daily rollup as chart points placed at
// local noon so that bars sit in the middle of their day.
func (h *History) TimeSpentChartArray() ([]time.Time, []float64) {
	days := h.DailyMinutesRollup()
	times := make([]time.Time, len(days))
	minutes := make([]float64, len(days))
	for i, d := range days {
		times[i] = d.Day.Add(12 * time.Hour)
		minutes[i] = float64(d.Minutes)
	}
	return times, minutes
}

// AverageMinutesPerDay sums session time over the trailing window of days
// ending at the end of now's local day, divided by the full window length.
func (h *History) AverageMinutesPerDay(now time.Time, days int) float64 {
	if days <= 0 {
		return 0
	}
	endOfToday := h.dayStart(now).AddDate(0, 0, 1)
	windowStart := endOfToday.AddDate(0, 0, -days)

	var total time.Duration
	for _, s := range h.samples {
		if s.Time.After(windowStart) {
			total += s.SessionDuration
		}
	}
	return total.Minutes() / float64(days)
}

// TotalTimeSpent sums the session durations of every sample.
func (h *History) TotalTimeSpent() time.Duration {
	var total time.Duration
	for _, s := range h.samples {
		total += s.SessionDuration
	}
	return total
}

func (h *History) dayStart(t time.Time) time.Time {
	loc := h.loc
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
