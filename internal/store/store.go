package store

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tartampluch/go-celebrations/internal/engine"
)

var (
	ErrNotFound    = errors.New("store: employee not found")
	ErrDuplicateID = errors.New("store: employee id already exists")
)

// Store is the employee collection the engine reads snapshots from.
type Store interface {
	// List returns every employee ordered by ID.
	List(ctx context.Context) ([]engine.Employee, error)
	// Add validates in, assigns an ID when absent, stamps CreatedAt and persists it.
	Add(ctx context.Context, in engine.EmployeeInput) (engine.Employee, error)
	// Remove deletes the employee with id, or returns ErrNotFound.
	Remove(ctx context.Context, id string) error
}

// IDSource issues unix-millisecond IDs. A timestamp at or before the last
// issued one is bumped past it, so IDs never repeat within a source.
type IDSource struct {
	mu   sync.Mutex
	last int64
}

// Next returns the ID for now.
func (s *IDSource) Next(now time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := now.UnixMilli()
	if id <= s.last {
		id = s.last + 1
	}
	s.last = id
	return strconv.FormatInt(id, 10)
}

var ids IDSource

// NewID derives a process-unique ID from the clock as unix milliseconds.
func NewID(clock engine.Clock) string {
	return ids.Next(clock.Now())
}

// Prepare validates in and materialises the record a backend should persist.
func Prepare(in engine.EmployeeInput, clock engine.Clock) (engine.Employee, error) {
	if err := in.Validate(); err != nil {
		return engine.Employee{}, err
	}
	id := in.ID
	if id == "" {
		id = NewID(clock)
	}
	return in.Build(id, clock.Now().UTC()), nil
}

// CompareIDs orders numeric IDs numerically and everything else lexically.
func CompareIDs(a, b string) int {
	if isDigits(a) && isDigits(b) {
		a, b = strings.TrimLeft(a, "0"), strings.TrimLeft(b, "0")
		return cmp.Or(cmp.Compare(len(a), len(b)), cmp.Compare(a, b))
	}
	return cmp.Compare(a, b)
}

// SortByID sorts employees in place with CompareIDs.
func SortByID(employees []engine.Employee) {
	slices.SortStableFunc(employees, func(a, b engine.Employee) int {
		return CompareIDs(a.ID, b.ID)
	})
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
