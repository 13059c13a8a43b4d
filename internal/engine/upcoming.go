package engine

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	cerrors "cloudeng.io/errors"
	"github.com/tartampluch/go-celebrations/internal/config"
)

// EventType distinguishes the two recurring celebrations.
type EventType string

const (
	EventBirthday    EventType = "birthday"
	EventAnniversary EventType = "anniversary"
)

// Field returns the employee field an event type recurs on.
func (t EventType) Field() Field {
	if t == EventAnniversary {
		return FieldJoinDate
	}
	return FieldBirthday
}

// rank orders birthdays before anniversaries on equal days.
func (t EventType) rank() int {
	if t == EventAnniversary {
		return 1
	}
	return 0
}

// UpcomingEvent is one projected celebration. It is built per query and never stored.
type UpcomingEvent struct {
	EmployeeID   string    `json:"employeeId"`
	EmployeeName string    `json:"employeeName"`
	Department   string    `json:"department,omitempty"`
	EventDate    time.Time `json:"eventDate"`
	Type         EventType `json:"type"`
	DaysUntil    int       `json:"daysUntil"`
	// Milestone is the age or years of service reached on EventDate.
	Milestone int    `json:"milestone"`
	Detail    string `json:"detail"`
}

// DefaultDetail renders the milestone in English.
func DefaultDetail(t EventType, milestone int) string {
	if t == EventAnniversary {
		return fmt.Sprintf(config.FallbackDetailAnniversary, milestone)
	}
	return fmt.Sprintf(config.FallbackDetailBirthday, milestone)
}

// Upcoming projects birthdays and anniversaries onto a look-ahead window.
type Upcoming struct {
	// Detail allows callers to inject localized milestone descriptions.
	Detail func(t EventType, milestone int) string
}

// UpcomingWithinDays projects every employee's next birthday and anniversary and
// keeps those at most horizonDays away, with English details.
func UpcomingWithinDays(employees []Employee, today time.Time, horizonDays int) ([]UpcomingEvent, error) {
	return Upcoming{}.Within(employees, today, horizonDays)
}

// Within returns the events with DaysUntil <= horizonDays, sorted by DaysUntil,
// then employee ID, then birthdays before anniversaries.
func (u Upcoming) Within(employees []Employee, today time.Time, horizonDays int) ([]UpcomingEvent, error) {
	detail := u.Detail
	if detail == nil {
		detail = DefaultDetail
	}

	var events []UpcomingEvent
	errs := &cerrors.M{}
	for _, e := range employees {
		for _, t := range []EventType{EventBirthday, EventAnniversary} {
			from, err := e.Date(t.Field())
			if err != nil {
				errs.Append(err)
				continue
			}
			next := NextOccurrence(today, KeyOf(from))
			days := DaysUntil(today, next)
			if days > horizonDays {
				continue
			}
			milestone := next.Year() - from.Year()
			// Not born / not joined yet in that year.
			if milestone < 0 {
				continue
			}
			events = append(events, UpcomingEvent{
				EmployeeID:   e.ID,
				EmployeeName: e.Name,
				Department:   e.Department,
				EventDate:    next,
				Type:         t,
				DaysUntil:    days,
				Milestone:    milestone,
				Detail:       detail(t, milestone),
			})
		}
	}

	slices.SortStableFunc(events, func(a, b UpcomingEvent) int {
		return cmp.Or(
			cmp.Compare(a.DaysUntil, b.DaysUntil),
			cmp.Compare(a.EmployeeID, b.EmployeeID),
			cmp.Compare(a.Type.rank(), b.Type.rank()),
		)
	})
	return events, errs.Err()
}
