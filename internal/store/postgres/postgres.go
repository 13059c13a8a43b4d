// Package postgres stores employees in PostgreSQL through pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tartampluch/go-celebrations/internal/config"
	"github.com/tartampluch/go-celebrations/internal/engine"
	"github.com/tartampluch/go-celebrations/internal/store"
)

const uniqueViolationCode = "23505"

// Queryer is the subset of pgxpool.Pool used by Store; pgxmock satisfies it in tests.
type Queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Store implements store.Store on PostgreSQL.
type Store struct {
	pool  Queryer
	clock engine.Clock
}

// New wraps an existing pool.
func New(pool Queryer, clock engine.Clock) *Store {
	return &Store{pool: pool, clock: clock}
}

// NewPool builds a pgxpool from settings and checks connectivity.
func NewPool(ctx context.Context, cfg config.PostgresSettings) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("postgres: parse config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	slog.Debug(config.MsgStoreReady,
		config.LogKeyComponent, config.CompPostgres,
		config.LogKeyAddr, fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
	)
	return pool, nil
}

func (s *Store) List(ctx context.Context) ([]engine.Employee, error) {
	rows, err := s.pool.Query(ctx, `
        SELECT id, name, birthday, join_date, department, position, email, phone, location, created_at
          FROM employees
    `)
	if err != nil {
		return nil, fmt.Errorf("postgres: list employees: %w", err)
	}
	defer rows.Close()

	var out []engine.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list employees: %w", err)
	}

	store.SortByID(out)
	return out, nil
}

func (s *Store) Add(ctx context.Context, in engine.EmployeeInput) (engine.Employee, error) {
	emp, err := store.Prepare(in, s.clock)
	if err != nil {
		return engine.Employee{}, err
	}

	_, err = s.pool.Exec(ctx, `
        INSERT INTO employees (id, name, birthday, join_date, department, position, email, phone, location, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    `,
		emp.ID, emp.Name, emp.Birthday, emp.JoinDate,
		emp.Department, emp.Position, emp.Email, emp.Phone, emp.Location,
		emp.CreatedAt,
	)
	if err != nil {
		return engine.Employee{}, translatePgError(err)
	}
	return emp, nil
}

func (s *Store) Remove(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return translatePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanEmployee(row pgx.Row) (engine.Employee, error) {
	var e engine.Employee
	if err := row.Scan(&e.ID, &e.Name, &e.Birthday, &e.JoinDate,
		&e.Department, &e.Position, &e.Email, &e.Phone, &e.Location, &e.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return engine.Employee{}, store.ErrNotFound
		}
		return engine.Employee{}, fmt.Errorf("postgres: scan employee: %w", err)
	}
	return e, nil
}

func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return store.ErrDuplicateID
	}
	return fmt.Errorf("postgres: %w", err)
}
