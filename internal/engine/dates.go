package engine

import (
	"strings"
	"time"

	"cloudeng.io/datetime"
	"github.com/tartampluch/go-celebrations/internal/config"
)

// parseLayouts lists the accepted stored date formats, most specific first.
var parseLayouts = []string{
	config.DateFormatISO,
	config.DateFormatBasic,
	config.DateFormatRFC3339,
	config.DateFormatLongDay,
	config.DateFormatLong,
	config.DateFormatUSShort,
}

// ParseDate parses a stored calendar date and returns it at midnight UTC.
// Time-of-day and offsets of RFC3339 values are discarded: only the written
// calendar day matters.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrInvalidDate
	}
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// DateOnly strips the time-of-day of t, keeping its location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// RecurrenceKey is the (month, day) of a date, year ignored.
type RecurrenceKey struct {
	Month time.Month
	Day   int
}

// KeyOf extracts the recurrence key of t.
func KeyOf(t time.Time) RecurrenceKey {
	return RecurrenceKey{Month: t.Month(), Day: t.Day()}
}

func (k RecurrenceKey) isLeapDay() bool {
	return k.Month == time.February && k.Day == 29
}

// In resolves the key to a concrete midnight in year. February 29 is clamped
// to February 28 in non-leap years.
func (k RecurrenceKey) In(year int, loc *time.Location) time.Time {
	day := k.Day
	if k.isLeapDay() && !datetime.IsLeap(year) {
		day = 28
	}
	return time.Date(year, k.Month, day, 0, 0, 0, 0, loc)
}

// IsSameDayOfYear reports whether the recurring date falls on date's month
// and day, ignoring years. The recurrence is resolved in date's year, so a
// February 29 recurrence matches February 28 of a non-leap year.
func IsSameDayOfYear(date, recurring time.Time) bool {
	return KeyOf(KeyOf(recurring).In(date.Year(), time.UTC)) == KeyOf(date)
}

// yearsSince is the completed-years count shared by AgeAt and YearsOfService.
func yearsSince(today, from time.Time) int {
	start := DateOnly(today)
	years := start.Year() - from.Year()
	if start.Before(KeyOf(from).In(start.Year(), start.Location())) {
		years--
	}
	return years
}

// AgeAt returns the completed years between birthday and today.
func AgeAt(today, birthday time.Time) int {
	return yearsSince(today, birthday)
}

// YearsOfService returns the completed years between joinDate and today.
func YearsOfService(today, joinDate time.Time) int {
	return yearsSince(today, joinDate)
}

// NextOccurrence returns the first date on or after today (date-only) that
// matches key. A recurrence falling on today is returned as today.
func NextOccurrence(today time.Time, key RecurrenceKey) time.Time {
	start := DateOnly(today)
	candidate := key.In(start.Year(), start.Location())
	if candidate.Before(start) {
		candidate = key.In(start.Year()+1, start.Location())
	}
	return candidate
}

// DaysUntil counts whole calendar days from today to target. Both dates are
// reduced to their calendar day first, so DST shifts never produce off-by-one.
func DaysUntil(today, target time.Time) int {
	a := calendarDay(today)
	b := calendarDay(target)
	return int(b.Sub(a).Hours() / 24)
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysInMonth returns the number of days of month in year.
func DaysInMonth(year int, month time.Month) int {
	return int(datetime.DaysInMonth(year, datetime.Month(month)))
}
