package team

import (
	"errors"
	"time"
)

var ErrInvalidPeriod = errors.New("period end must not be before start")

// Period is an inclusive range of UTC calendar dates.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewPeriod truncates both ends to their UTC date.
func NewPeriod(start, end time.Time) (Period, error) {
	p := Period{Start: day(start), End: day(end)}
	if p.End.Before(p.Start) {
		return Period{}, ErrInvalidPeriod
	}
	return p, nil
}

// Bounds returns the half-open timestamp range [start 00:00, end+1d 00:00)
// covering every instant whose UTC date lies in the period.
func (p Period) Bounds() (time.Time, time.Time) {
	return day(p.Start), day(p.End).AddDate(0, 0, 1)
}

// Contains reports whether t falls on a date inside the period.
func (p Period) Contains(t time.Time) bool {
	from, to := p.Bounds()
	t = t.UTC()
	return !t.Before(from) && t.Before(to)
}

func day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
