package engine

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDate  = errors.New("engine: invalid date")
	ErrMissingField = errors.New("engine: missing required field")
	ErrInvalidID    = errors.New("engine: invalid id")
)

// InvalidDateError reports a date field that could not be parsed for a given employee.
type InvalidDateError struct {
	EmployeeID string
	Field      Field
	Value      string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("engine: employee %q: invalid %s %q", e.EmployeeID, e.Field, e.Value)
}

// Is makes errors.Is(err, ErrInvalidDate) match any InvalidDateError.
func (e *InvalidDateError) Is(target error) bool {
	return target == ErrInvalidDate
}
