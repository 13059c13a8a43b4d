package engine

import (
	"fmt"
	"strings"
	"time"
)

// Field names a recurring date of an employee.
type Field string

const (
	FieldBirthday Field = "birthday"
	FieldJoinDate Field = "joinDate"
)

// Employee is a read-only snapshot of one record from the employee store.
// Birthday and JoinDate keep the stored text; use Date to resolve them.
type Employee struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Birthday   string    `json:"birthday"`
	JoinDate   string    `json:"joinDate"`
	Department string    `json:"department,omitempty"`
	Position   string    `json:"position,omitempty"`
	Email      string    `json:"email,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Location   string    `json:"location,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// EmployeeInput is the add-employee payload. ID is optional.
type EmployeeInput struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name"`
	Birthday   string `json:"birthday"`
	JoinDate   string `json:"joinDate"`
	Department string `json:"department,omitempty"`
	Position   string `json:"position,omitempty"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Location   string `json:"location,omitempty"`
}

// Validate checks required fields and date validity at the ingestion boundary.
func (in *EmployeeInput) Validate() error {
	in.ID = strings.TrimSpace(in.ID)
	in.Name = strings.TrimSpace(in.Name)
	in.Birthday = strings.TrimSpace(in.Birthday)
	in.JoinDate = strings.TrimSpace(in.JoinDate)

	if in.Name == "" {
		return fmt.Errorf("%w: name", ErrMissingField)
	}
	if in.Birthday == "" {
		return fmt.Errorf("%w: %s", ErrMissingField, FieldBirthday)
	}
	if in.JoinDate == "" {
		return fmt.Errorf("%w: %s", ErrMissingField, FieldJoinDate)
	}
	if _, err := ParseDate(in.Birthday); err != nil {
		return &InvalidDateError{EmployeeID: in.ID, Field: FieldBirthday, Value: in.Birthday}
	}
	if _, err := ParseDate(in.JoinDate); err != nil {
		return &InvalidDateError{EmployeeID: in.ID, Field: FieldJoinDate, Value: in.JoinDate}
	}
	return nil
}

// Build materialises the input into an Employee with the given id and creation time.
func (in EmployeeInput) Build(id string, createdAt time.Time) Employee {
	return Employee{
		ID:         id,
		Name:       in.Name,
		Birthday:   in.Birthday,
		JoinDate:   in.JoinDate,
		Department: in.Department,
		Position:   in.Position,
		Email:      in.Email,
		Phone:      in.Phone,
		Location:   in.Location,
		CreatedAt:  createdAt,
	}
}

// Value returns the raw text stored for field.
func (e Employee) Value(field Field) string {
	if field == FieldJoinDate {
		return e.JoinDate
	}
	return e.Birthday
}

// Date parses field, reporting failures as *InvalidDateError.
func (e Employee) Date(field Field) (time.Time, error) {
	raw := e.Value(field)
	t, err := ParseDate(raw)
	if err != nil {
		return time.Time{}, &InvalidDateError{EmployeeID: e.ID, Field: field, Value: raw}
	}
	return t, nil
}

// Age returns AgeAt(today, birthday).
func (e Employee) Age(today time.Time) (int, error) {
	b, err := e.Date(FieldBirthday)
	if err != nil {
		return 0, err
	}
	return AgeAt(today, b), nil
}

// Tenure returns YearsOfService(today, joinDate).
func (e Employee) Tenure(today time.Time) (int, error) {
	j, err := e.Date(FieldJoinDate)
	if err != nil {
		return 0, err
	}
	return YearsOfService(today, j), nil
}
