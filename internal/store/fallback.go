package store

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/tartampluch/go-celebrations/internal/config"
	"github.com/tartampluch/go-celebrations/internal/engine"
)

// Fallback keeps the application usable when the backing store is down or
// empty: List serves SampleEmployees, and Add keeps an ephemeral in-process
// record when the backend rejects a valid employee.
type Fallback struct {
	Store Store
	Clock engine.Clock

	mu        sync.Mutex
	ephemeral []engine.Employee
}

// NewFallback wraps s.
func NewFallback(s Store, clock engine.Clock) *Fallback {
	return &Fallback{Store: s, Clock: clock}
}

// List returns the backend snapshot, or the sample roster when the backend
// fails or has no records. Ephemeral records are always appended.
func (f *Fallback) List(ctx context.Context) ([]engine.Employee, error) {
	employees, err := f.Store.List(ctx)
	switch {
	case err != nil:
		slog.Warn(config.MsgStoreFallback,
			config.LogKeyComponent, config.CompStore,
			config.LogKeyError, err,
		)
		employees = SampleEmployees()
	case len(employees) == 0:
		slog.Info(config.MsgStoreEmpty,
			config.LogKeyComponent, config.CompStore,
		)
		employees = SampleEmployees()
	}

	f.mu.Lock()
	for _, e := range f.ephemeral {
		if !slices.ContainsFunc(employees, func(x engine.Employee) bool { return x.ID == e.ID }) {
			employees = append(employees, e)
		}
	}
	f.mu.Unlock()

	SortByID(employees)
	return employees, nil
}

// Add delegates to the backend. Validation and duplicate errors are returned
// as is; any other failure yields a locally kept record.
func (f *Fallback) Add(ctx context.Context, in engine.EmployeeInput) (engine.Employee, error) {
	emp, err := f.Store.Add(ctx, in)
	if err == nil {
		return emp, nil
	}
	if errors.Is(err, engine.ErrMissingField) || errors.Is(err, engine.ErrInvalidDate) || errors.Is(err, ErrDuplicateID) {
		return engine.Employee{}, err
	}

	emp, perr := Prepare(in, f.Clock)
	if perr != nil {
		return engine.Employee{}, perr
	}
	slog.Warn(config.MsgAddFallback,
		config.LogKeyComponent, config.CompStore,
		config.LogKeyEmployee, emp.ID,
		config.LogKeyError, err,
	)

	f.mu.Lock()
	f.ephemeral = append(f.ephemeral, emp)
	f.mu.Unlock()
	return emp, nil
}

// Remove drops an ephemeral record locally, otherwise delegates.
func (f *Fallback) Remove(ctx context.Context, id string) error {
	f.mu.Lock()
	idx := slices.IndexFunc(f.ephemeral, func(e engine.Employee) bool { return e.ID == id })
	if idx >= 0 {
		f.ephemeral = slices.Delete(f.ephemeral, idx, idx+1)
		f.mu.Unlock()
		return nil
	}
	f.mu.Unlock()
	return f.Store.Remove(ctx, id)
}
