package engine

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Calendar day, the attendance unit of account
// =============================================================================

// Date is a calendar day with no time-of-day component. All engine
// arithmetic is done in UTC; punch timestamps are expected to already be
// in the site's local time.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// DateOf truncates an instant to its calendar day.
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Time returns midnight at the start of the day.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) AddDays(n int) Date        { return DateOf(d.Time().AddDate(0, 0, n)) }
func (d Date) Weekday() time.Weekday     { return d.Time().Weekday() }
func (d Date) Equal(o Date) bool         { return d == o }
func (d Date) Before(o Date) bool        { return d.Time().Before(o.Time()) }
func (d Date) After(o Date) bool         { return d.Time().After(o.Time()) }
func (d Date) BeforeOrEqual(o Date) bool { return !d.After(o) }
func (d Date) AfterOrEqual(o Date) bool  { return !d.Before(o) }
func (d Date) IsZero() bool              { return d == Date{} }
func (d Date) String() string            { return d.Time().Format("2006-01-02") }

// ParseDate parses "2006-01-02".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// DatesBetween returns every day in [from, to] inclusive.
func DatesBetween(from, to Date) []Date {
	var days []Date
	for d := from; d.BeforeOrEqual(to); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

// =============================================================================
// TIME OF DAY - Clock time, for shift boundaries and night windows
// =============================================================================

type TimeOfDay struct {
	Hour   int
	Minute int
}

func NewTimeOfDay(hour, minute int) TimeOfDay { return TimeOfDay{Hour: hour, Minute: minute} }

func (t TimeOfDay) MinuteOfDay() int       { return t.Hour*60 + t.Minute }
func (t TimeOfDay) Before(o TimeOfDay) bool { return t.MinuteOfDay() < o.MinuteOfDay() }
func (t TimeOfDay) Equal(o TimeOfDay) bool  { return t.MinuteOfDay() == o.MinuteOfDay() }
func (t TimeOfDay) String() string          { return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute) }

// On anchors the clock time to a calendar day.
func (t TimeOfDay) On(d Date) time.Time {
	return time.Date(d.Year, d.Month, d.Day, t.Hour, t.Minute, 0, 0, time.UTC)
}

// ParseTimeOfDay parses "15:04".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// =============================================================================
// CLOCK WINDOW - Time-of-day range that may wrap midnight
// =============================================================================

// ClockWindow is a time-of-day range such as a night differential window.
// A window whose end precedes its start wraps across midnight
// (e.g. 22:00-06:00).
type ClockWindow struct {
	Start TimeOfDay
	End   TimeOfDay
}

func (w ClockWindow) Wraps() bool { return w.End.Before(w.Start) || w.End.Equal(w.Start) }

// Interval anchors the window to a day, producing a concrete [start, end)
// instant pair. Wrapping windows end on the following day.
func (w ClockWindow) Interval(d Date) (time.Time, time.Time) {
	start := w.Start.On(d)
	end := w.End.On(d)
	if w.Wraps() {
		end = end.Add(24 * time.Hour)
	}
	return start, end
}

// OverlapHours computes how much of the worked interval [from, to) falls
// inside the window, anchored on the given day. Because a worked interval
// can straddle midnight, the window anchored on the previous day is
// considered too.
func (w ClockWindow) OverlapHours(d Date, from, to time.Time) Hours {
	total := ZeroHours()
	for _, anchor := range []Date{d.AddDays(-1), d} {
		ws, we := w.Interval(anchor)
		total = total.Add(overlap(from, to, ws, we))
	}
	return total
}

func overlap(aStart, aEnd, bStart, bEnd time.Time) Hours {
	start := aStart
	if bStart.After(start) {
		start = bStart
	}
	end := aEnd
	if bEnd.Before(end) {
		end = bEnd
	}
	if !end.After(start) {
		return ZeroHours()
	}
	return HoursBetween(start, end)
}

// =============================================================================
// WEEKDAY SETS
// =============================================================================

// WeekdayIn reports whether day is in the set.
func WeekdayIn(day time.Weekday, set []time.Weekday) bool {
	for _, w := range set {
		if w == day {
			return true
		}
	}
	return false
}
