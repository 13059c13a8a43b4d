// Package memory is the in-process employee store used by default and in tests.
package memory

import (
	"context"
	"sync"

	"github.com/tartampluch/go-celebrations/internal/engine"
	"github.com/tartampluch/go-celebrations/internal/store"
)

// Store keeps employees in a map guarded by a RWMutex.
type Store struct {
	mu        sync.RWMutex
	clock     engine.Clock
	employees map[string]engine.Employee
}

// New returns a store seeded with employees.
func New(clock engine.Clock, employees ...engine.Employee) *Store {
	s := &Store{clock: clock, employees: make(map[string]engine.Employee, len(employees))}
	for _, e := range employees {
		s.employees[e.ID] = e
	}
	return s
}

func (s *Store) List(ctx context.Context) ([]engine.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := make([]engine.Employee, 0, len(s.employees))
	for _, e := range s.employees {
		out = append(out, e)
	}
	s.mu.RUnlock()

	store.SortByID(out)
	return out, nil
}

func (s *Store) Add(ctx context.Context, in engine.EmployeeInput) (engine.Employee, error) {
	if err := ctx.Err(); err != nil {
		return engine.Employee{}, err
	}
	emp, err := store.Prepare(in, s.clock)
	if err != nil {
		return engine.Employee{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.employees[emp.ID]; ok {
		return engine.Employee{}, store.ErrDuplicateID
	}
	s.employees[emp.ID] = emp
	return emp, nil
}

func (s *Store) Remove(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.employees[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.employees, id)
	return nil
}
