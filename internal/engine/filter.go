package engine

import (
	"errors"
	"log/slog"
	"time"

	cerrors "cloudeng.io/errors"
	"github.com/tartampluch/go-celebrations/internal/config"
)

// The aggregation functions below never drop a malformed record silently:
// they return the matching valid records together with an error listing every
// *InvalidDateError met. Callers decide whether to skip (see LogSkipped) or abort.

// TodaysBirthdays returns the employees whose birthday recurs on today.
func TodaysBirthdays(employees []Employee, today time.Time) ([]Employee, error) {
	return OnDate(employees, FieldBirthday, today)
}

// TodaysAnniversaries returns the employees whose join date recurs on today.
func TodaysAnniversaries(employees []Employee, today time.Time) ([]Employee, error) {
	return OnDate(employees, FieldJoinDate, today)
}

// OnDate returns the employees whose field recurs on date.
func OnDate(employees []Employee, field Field, date time.Time) ([]Employee, error) {
	return collect(employees, field, func(d time.Time) bool {
		return IsSameDayOfYear(date, d)
	})
}

// InMonth returns the employees whose field falls in month, any day.
func InMonth(employees []Employee, field Field, month time.Month) ([]Employee, error) {
	return collect(employees, field, func(d time.Time) bool {
		return d.Month() == month
	})
}

// HasEventOn reports whether any employee has field recurring on date.
// Invalid records never match.
func HasEventOn(employees []Employee, field Field, date time.Time) bool {
	for _, e := range employees {
		if d, err := e.Date(field); err == nil && IsSameDayOfYear(date, d) {
			return true
		}
	}
	return false
}

// TodaysCelebrations returns today's birthdays followed by today's anniversaries,
// each employee listed once.
func TodaysCelebrations(employees []Employee, today time.Time) ([]Employee, error) {
	births, berr := TodaysBirthdays(employees, today)
	annivs, aerr := TodaysAnniversaries(employees, today)

	out := make([]Employee, 0, len(births)+len(annivs))
	seen := make(map[string]bool, len(births))
	for _, e := range births {
		seen[e.ID] = true
		out = append(out, e)
	}
	for _, e := range annivs {
		if !seen[e.ID] {
			out = append(out, e)
		}
	}
	return out, cerrors.NewM(berr, aerr)
}

func collect(employees []Employee, field Field, match func(time.Time) bool) ([]Employee, error) {
	var out []Employee
	errs := &cerrors.M{}
	for _, e := range employees {
		d, err := e.Date(field)
		if err != nil {
			errs.Append(err)
			continue
		}
		if match(d) {
			out = append(out, e)
		}
	}
	return out, errs.Err()
}

// Diagnostics flattens err into the InvalidDateErrors it carries.
func Diagnostics(err error) []*InvalidDateError {
	if err == nil {
		return nil
	}
	var out []*InvalidDateError
	if multi, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range multi.Unwrap() {
			out = append(out, Diagnostics(e)...)
		}
		return out
	}
	var ide *InvalidDateError
	if errors.As(err, &ide) {
		out = append(out, ide)
	}
	return out
}

// LogSkipped implements the skip policy: it logs one warning per invalid
// record carried by err and returns how many were skipped.
func LogSkipped(err error) int {
	diags := Diagnostics(err)
	for _, d := range diags {
		slog.Warn(config.MsgSkippedRecord,
			config.LogKeyComponent, config.CompEngine,
			config.LogKeyEmployee, d.EmployeeID,
			config.LogKeyField, string(d.Field),
			config.LogKeyValue, d.Value,
		)
	}
	return len(diags)
}
