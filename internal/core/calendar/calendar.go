package calendar

import (
	"errors"
	"time"
)

var ErrInvalidView = errors.New("invalid calendar view")

type View string

const (
	ViewDay      View = "day"
	ViewFourDays View = "4days"
	ViewWeek     View = "week"
	ViewMonth    View = "month"
	ViewYear     View = "year"
	ViewSchedule View = "schedule"
)

// ScheduleDays is how far the schedule view looks ahead of its anchor.
const ScheduleDays = 30

const DateLayout = "2006-01-02"

// ParseView defaults to the month view.
func ParseView(raw string) (View, error) {
	switch v := View(raw); v {
	case "":
		return ViewMonth, nil
	case ViewDay, ViewFourDays, ViewWeek, ViewMonth, ViewYear, ViewSchedule:
		return v, nil
	}
	return "", ErrInvalidView
}

// Grid views render every day of their range; the others only list days with posts.
func (v View) Grid() bool {
	return v != ViewYear && v != ViewSchedule
}

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns the Sunday that opens t's week.
func StartOfWeek(t time.Time) time.Time {
	day := StartOfDay(t)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// Range returns the half-open interval [start, end) a view covers around anchor,
// in anchor's location.
func Range(v View, anchor time.Time) (time.Time, time.Time) {
	day := StartOfDay(anchor)
	switch v {
	case ViewDay:
		return day, day.AddDate(0, 0, 1)
	case ViewFourDays:
		return day, day.AddDate(0, 0, 4)
	case ViewWeek:
		start := StartOfWeek(day)
		return start, start.AddDate(0, 0, 7)
	case ViewYear:
		start := time.Date(day.Year(), time.January, 1, 0, 0, 0, 0, day.Location())
		return start, start.AddDate(1, 0, 0)
	case ViewSchedule:
		return day, day.AddDate(0, 0, ScheduleDays)
	default:
		first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
		last := first.AddDate(0, 1, -1)
		return StartOfWeek(first), StartOfWeek(last).AddDate(0, 0, 7)
	}
}

// Days lists the midnight of every day in [start, end).
func Days(start, end time.Time) []time.Time {
	var days []time.Time
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
