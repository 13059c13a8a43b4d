package report

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/tartampluch/go-celebrations/internal/config"
	"github.com/tartampluch/go-celebrations/internal/engine"
)

// ErrUnknownKind is returned by Build for a kind outside config.ReportKinds.
var ErrUnknownKind = errors.New(config.ErrReportKind)

// EmployeeTable renders the employee export. Any malformed date aborts the
// export with that employee's *engine.InvalidDateError.
func EmployeeTable(employees []engine.Employee, today time.Time, opts Options) (Table, error) {
	header := []string{config.ColID, config.ColName, config.ColBirthday}
	if opts.IncludeAge {
		header = append(header, config.ColAge)
	}
	header = append(header, config.ColJoinDate)
	if opts.IncludeYearsOfService {
		header = append(header, config.ColYearsOfService)
	}
	header = append(header, config.ColDepartment, config.ColPosition, config.ColEmail, config.ColPhone, config.ColLocation)

	t := Table{Header: header}
	for _, e := range employees {
		b, err := e.Date(engine.FieldBirthday)
		if err != nil {
			return Table{}, err
		}
		j, err := e.Date(engine.FieldJoinDate)
		if err != nil {
			return Table{}, err
		}

		row := []string{e.ID, e.Name, FormatDate(b, opts.DateFormat)}
		if opts.IncludeAge {
			row = append(row, strconv.Itoa(engine.AgeAt(today, b)))
		}
		row = append(row, FormatDate(j, opts.DateFormat))
		if opts.IncludeYearsOfService {
			row = append(row, strconv.Itoa(engine.YearsOfService(today, j)))
		}
		row = append(row, e.Department, e.Position, e.Email, e.Phone, e.Location)
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// BirthdayCalendarTable lists every birthday with the current age.
func BirthdayCalendarTable(employees []engine.Employee, today time.Time) (Table, error) {
	return recurringTable(employees, today, engine.FieldBirthday,
		[]string{config.ColName, config.ColDate, config.ColAge, config.ColDepartment})
}

// AnniversaryCalendarTable lists every join date with the completed years of service.
func AnniversaryCalendarTable(employees []engine.Employee, today time.Time) (Table, error) {
	return recurringTable(employees, today, engine.FieldJoinDate,
		[]string{config.ColName, config.ColJoinDate, config.ColYearsOfService, config.ColDepartment})
}

func recurringTable(employees []engine.Employee, today time.Time, field engine.Field, header []string) (Table, error) {
	years := engine.AgeAt
	if field == engine.FieldJoinDate {
		years = engine.YearsOfService
	}

	t := Table{Header: header}
	for _, e := range employees {
		d, err := e.Date(field)
		if err != nil {
			return Table{}, err
		}
		dept := e.Department
		if dept == "" {
			dept = config.NotSpecified
		}
		t.Rows = append(t.Rows, []string{
			e.Name,
			FormatDate(d, config.DateStyleFull),
			strconv.Itoa(years(today, d)),
			dept,
		})
	}
	return t, nil
}

// UpcomingTable renders projected events in the order given. typeLabel may be
// nil, in which case English labels are used.
func UpcomingTable(events []engine.UpcomingEvent, typeLabel func(engine.EventType) string) Table {
	if typeLabel == nil {
		typeLabel = defaultTypeLabel
	}
	t := Table{Header: []string{config.ColName, config.ColEventType, config.ColDate, config.ColDaysUntil, config.ColDetails}}
	for _, ev := range events {
		t.Rows = append(t.Rows, []string{
			ev.EmployeeName,
			typeLabel(ev.Type),
			FormatDate(ev.EventDate, config.DateStyleFull),
			strconv.Itoa(ev.DaysUntil),
			ev.Detail,
		})
	}
	return t
}

func defaultTypeLabel(t engine.EventType) string {
	if t == engine.EventAnniversary {
		return config.FallbackTypeAnniversary
	}
	return config.FallbackTypeBirthday
}

// Labeler supplies localized event labels. *locale.Translator satisfies it.
type Labeler interface {
	TypeLabel(engine.EventType) string
	Detail(engine.EventType, int) string
}

// Request selects a report and its inputs.
type Request struct {
	Kind  string
	Today time.Time
	// Query and Department apply to the filtered-employees report.
	Query      string
	Department string
	// HorizonDays applies to the upcoming-events report. Zero keeps only
	// today's events; a negative value selects DefaultHorizonDays.
	HorizonDays int
}

// Builder turns an employee snapshot into any of the report kinds.
type Builder struct {
	Options Options
	Labels  Labeler
}

// Build renders the requested report.
func (b Builder) Build(employees []engine.Employee, req Request) (Table, error) {
	if !slices.Contains(config.ReportKinds, req.Kind) {
		return Table{}, fmt.Errorf("%w: %q", ErrUnknownKind, req.Kind)
	}

	switch req.Kind {
	case config.ReportFilteredEmployees:
		return EmployeeTable(engine.Search(employees, req.Query, req.Department), req.Today, b.Options)
	case config.ReportTodays:
		todays, err := engine.TodaysCelebrations(employees, req.Today)
		if err != nil {
			return Table{}, firstInvalid(err)
		}
		return EmployeeTable(todays, req.Today, b.Options)
	case config.ReportBirthdayCalendar:
		return BirthdayCalendarTable(employees, req.Today)
	case config.ReportAnniversaryCal:
		return AnniversaryCalendarTable(employees, req.Today)
	case config.ReportUpcoming:
		horizon := req.HorizonDays
		if horizon < 0 {
			horizon = config.DefaultHorizonDays
		}
		u := engine.Upcoming{}
		var label func(engine.EventType) string
		if b.Labels != nil {
			u.Detail = b.Labels.Detail
			label = b.Labels.TypeLabel
		}
		events, err := u.Within(employees, req.Today, horizon)
		if err != nil {
			return Table{}, firstInvalid(err)
		}
		return UpcomingTable(events, label), nil
	default:
		return EmployeeTable(employees, req.Today, b.Options)
	}
}

// firstInvalid reduces an aggregation error to the first offending record.
func firstInvalid(err error) error {
	if diags := engine.Diagnostics(err); len(diags) > 0 {
		return diags[0]
	}
	return err
}
