package postgres_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-celebrations/internal/engine"
	"github.com/tartampluch/go-celebrations/internal/store"
	"github.com/tartampluch/go-celebrations/internal/store/postgres"
)

var (
	now   = time.Date(2024, 9, 2, 8, 30, 0, 0, time.UTC)
	clock = engine.FixedClock{At: now}

	columns = []string{"id", "name", "birthday", "join_date", "department", "position", "email", "phone", "location", "created_at"}
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestStore_List(t *testing.T) {
	mock := newMock(t)
	rows := pgxmock.NewRows(columns).
		AddRow("10", "Ten", "1990-01-10", "2020-01-10", "Ops", "", "", "", "", now).
		AddRow("2", "Two", "1992-02-02", "2021-02-02", "", "Lead", "two@example.com", "", "Lyon", now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM employees")).WillReturnRows(rows)

	list, err := postgres.New(mock, clock).List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2", list[0].ID)
	assert.Equal(t, "Lyon", list[0].Location)
	assert.Equal(t, "10", list[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_ListError(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM employees")).WillReturnError(errors.New("connection reset"))

	_, err := postgres.New(mock, clock).List(context.Background())
	assert.ErrorContains(t, err, "connection reset")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Add(t *testing.T) {
	insert := regexp.QuoteMeta("INSERT INTO employees")
	in := engine.EmployeeInput{ID: "7", Name: "Seven", Birthday: "1990-07-07", JoinDate: "2020-07-07", Email: "seven@example.com"}

	t.Run("inserts", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec(insert).
			WithArgs("7", "Seven", "1990-07-07", "2020-07-07", "", "", "seven@example.com", "", "", now).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		emp, err := postgres.New(mock, clock).Add(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, "7", emp.ID)
		assert.Equal(t, now, emp.CreatedAt)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate id", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec(insert).WillReturnError(&pgconn.PgError{Code: "23505"})

		_, err := postgres.New(mock, clock).Add(context.Background(), in)
		assert.ErrorIs(t, err, store.ErrDuplicateID)
	})

	t.Run("invalid input never reaches the database", func(t *testing.T) {
		mock := newMock(t)

		_, err := postgres.New(mock, clock).Add(context.Background(), engine.EmployeeInput{Name: "No Dates"})
		assert.ErrorIs(t, err, engine.ErrMissingField)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStore_Remove(t *testing.T) {
	del := regexp.QuoteMeta("DELETE FROM employees WHERE id = $1")

	mock := newMock(t)
	mock.ExpectExec(del).WithArgs("7").WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(del).WithArgs("8").WillReturnResult(pgxmock.NewResult("DELETE", 0))

	s := postgres.New(mock, clock)
	require.NoError(t, s.Remove(context.Background(), "7"))
	assert.ErrorIs(t, s.Remove(context.Background(), "8"), store.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
