/*
Package sqlite provides a SQLite-backed employee store.

The schema is created on New. Use ":memory:" for a throwaway database; the
pool is then pinned to a single connection so every query sees the same
database.

Dates are stored as the text the employee was added with. CreatedAt is kept
in RFC 3339 UTC.
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/tartampluch/go-celebrations/internal/config"
	"github.com/tartampluch/go-celebrations/internal/engine"
	"github.com/tartampluch/go-celebrations/internal/store"
)

const memoryPath = ":memory:"

const schema = `
CREATE TABLE IF NOT EXISTS employees (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	birthday   TEXT NOT NULL,
	join_date  TEXT NOT NULL,
	department TEXT NOT NULL DEFAULT '',
	position   TEXT NOT NULL DEFAULT '',
	email      TEXT NOT NULL DEFAULT '',
	phone      TEXT NOT NULL DEFAULT '',
	location   TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_employees_department ON employees(department);
`

const selectEmployees = `
	SELECT id, name, birthday, join_date, department, position, email, phone, location, created_at
	FROM employees`

// Store implements store.Store on SQLite.
type Store struct {
	db    *sql.DB
	clock engine.Clock
	mu    sync.RWMutex
}

// New opens (or creates) the database at dbPath and migrates the schema.
func New(dbPath string, clock engine.Clock) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("sqlite: open database: %w", err)
	}
	if dbPath == memoryPath {
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db, clock: clock}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: migrate database: %w", err)
	}

	slog.Debug(config.MsgStoreReady,
		config.LogKeyComponent, config.CompSQLite,
		config.LogKeyPath, dbPath,
	)
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) List(ctx context.Context) ([]engine.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, selectEmployees)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list employees: %w", err)
	}
	defer rows.Close()

	var out []engine.Employee
	for rows.Next() {
		var (
			e         engine.Employee
			createdAt string
		)
		if err := rows.Scan(&e.ID, &e.Name, &e.Birthday, &e.JoinDate,
			&e.Department, &e.Position, &e.Email, &e.Phone, &e.Location, &createdAt); err != nil {
			return nil, fmt.Errorf("sqlite: scan employee: %w", err)
		}
		e.CreatedAt, _ = time.Parse(config.DateFormatTimestamp, createdAt)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list employees: %w", err)
	}

	store.SortByID(out)
	return out, nil
}

func (s *Store) Add(ctx context.Context, in engine.EmployeeInput) (engine.Employee, error) {
	emp, err := store.Prepare(in, s.clock)
	if err != nil {
		return engine.Employee{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO employees (id, name, birthday, join_date, department, position, email, phone, location, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		emp.ID, emp.Name, emp.Birthday, emp.JoinDate,
		emp.Department, emp.Position, emp.Email, emp.Phone, emp.Location,
		emp.CreatedAt.UTC().Format(config.DateFormatTimestamp),
	)
	if err != nil {
		return engine.Employee{}, translateError(err)
	}
	return emp, nil
}

func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM employees WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("sqlite: delete employee: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: delete employee: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func translateError(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) &&
		(sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey || sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique) {
		return store.ErrDuplicateID
	}
	return fmt.Errorf("sqlite: insert employee: %w", err)
}
