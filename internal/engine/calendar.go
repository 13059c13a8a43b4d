package engine

import (
	"time"

	cerrors "cloudeng.io/errors"
)

// DayCell is one day of a month view.
type DayCell struct {
	Date          time.Time  `json:"date"`
	Day           int        `json:"day"`
	Birthdays     []Employee `json:"birthdays,omitempty"`
	Anniversaries []Employee `json:"anniversaries,omitempty"`
}

// HasEvents reports whether anyone celebrates on this day.
func (c DayCell) HasEvents() bool {
	return len(c.Birthdays) > 0 || len(c.Anniversaries) > 0
}

// MonthView is the calendar grid of one month.
type MonthView struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	// LeadingBlanks is the number of empty cells before day 1 in a
	// Sunday-first week layout.
	LeadingBlanks int       `json:"leadingBlanks"`
	Days          []DayCell `json:"days"`
}

// BuildMonth lays out month of year and attaches each day's celebrations.
func BuildMonth(employees []Employee, year int, month time.Month) (MonthView, error) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	view := MonthView{
		Year:          year,
		Month:         month,
		LeadingBlanks: int(first.Weekday()),
	}

	births, berr := InMonth(employees, FieldBirthday, month)
	annivs, aerr := InMonth(employees, FieldJoinDate, month)
	n := DaysInMonth(year, month)
	for day := 1; day <= n; day++ {
		date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		cell := DayCell{Date: date, Day: day}
		cell.Birthdays, _ = OnDate(births, FieldBirthday, date)
		cell.Anniversaries, _ = OnDate(annivs, FieldJoinDate, date)
		view.Days = append(view.Days, cell)
	}
	return view, cerrors.NewM(berr, aerr)
}
