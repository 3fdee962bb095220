// Package period partitions dated ledger records into per-day buckets for charts.
package period

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidGranularity = errors.New("granularity must be week, month or custom")
	ErrRangeTooLong       = fmt.Errorf("custom range may span at most %d days", MaxCustomDays)
)

// MaxCustomDays bounds a custom window, which is bucketed one entry per day.
const MaxCustomDays = 5 * 366

// Granularity selects how a reporting window is derived.
type Granularity string

const (
	GranularityWeek   Granularity = "week"
	GranularityMonth  Granularity = "month"
	GranularityCustom Granularity = "custom"
)

func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(s); g {
	case GranularityWeek, GranularityMonth, GranularityCustom:
		return g, nil
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidGranularity, s)
}

// Window is an inclusive time interval.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Empty reports whether the window ends before it starts.
func (w Window) Empty() bool {
	return w.End.Before(w.Start)
}

// Contains reports whether t lies within [Start, End].
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Range resolves the reporting window for g. Week runs Monday to Sunday around now and
// month covers now's calendar month; custom spans from the start of from's day to the
// end of to's day, at most MaxCustomDays days. from and to are ignored for the other
// granularities.
func Range(g Granularity, now, from, to time.Time) (Window, error) {
	switch g {
	case GranularityWeek:
		offset := int(now.Weekday())
		if offset == 0 {
			offset = 7
		}

		start := StartOfDay(now.AddDate(0, 0, -offset+1))

		return Window{Start: start, End: EndOfDay(start.AddDate(0, 0, 6))}, nil
	case GranularityMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

		return Window{Start: start, End: EndOfDay(start.AddDate(0, 1, -1))}, nil
	case GranularityCustom:
		w := Window{Start: StartOfDay(from), End: EndOfDay(to)}
		if !w.Empty() && w.End.Sub(w.Start) >= MaxCustomDays*24*time.Hour {
			return Window{}, fmt.Errorf("%w: %s to %s", ErrRangeTooLong, from.Format(time.DateOnly), to.Format(time.DateOnly))
		}

		return w, nil
	}

	return Window{}, fmt.Errorf("%w: %q", ErrInvalidGranularity, g)
}

func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
