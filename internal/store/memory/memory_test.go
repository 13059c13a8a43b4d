package memory_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-celebrations/internal/engine"
	"github.com/tartampluch/go-celebrations/internal/store"
	"github.com/tartampluch/go-celebrations/internal/store/memory"
)

var now = time.Date(2024, 9, 2, 10, 0, 0, 0, time.UTC)

func TestStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s := memory.New(engine.FixedClock{At: now}, store.SampleEmployees()...)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "1", list[0].ID)

	added, err := s.Add(ctx, engine.EmployeeInput{Name: " Jane Doe ", Birthday: "1990-04-01", JoinDate: "2021-06-15"})
	require.NoError(t, err)
	id, err := strconv.ParseInt(added.ID, 10, 64)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, id, now.UnixMilli())
	assert.Equal(t, "Jane Doe", added.Name)
	assert.Equal(t, now, added.CreatedAt)

	list, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, added.ID, list[3].ID, "numeric ids sort by value")

	require.NoError(t, s.Remove(ctx, "2"))
	assert.ErrorIs(t, s.Remove(ctx, "2"), store.ErrNotFound)

	list, err = s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestStore_AddWithoutIDUnderFixedClock(t *testing.T) {
	ctx := context.Background()
	s := memory.New(engine.FixedClock{At: now})

	in := engine.EmployeeInput{Name: "Jane Doe", Birthday: "1990-04-01", JoinDate: "2021-06-15"}
	first, err := s.Add(ctx, in)
	require.NoError(t, err)
	second, err := s.Add(ctx, in)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestStore_AddErrors(t *testing.T) {
	ctx := context.Background()
	s := memory.New(engine.FixedClock{At: now}, store.SampleEmployees()...)

	_, err := s.Add(ctx, engine.EmployeeInput{ID: "1", Name: "Dup", Birthday: "1990-01-01", JoinDate: "2020-01-01"})
	assert.ErrorIs(t, err, store.ErrDuplicateID)

	_, err = s.Add(ctx, engine.EmployeeInput{Name: "No Join", Birthday: "1990-01-01"})
	assert.ErrorIs(t, err, engine.ErrMissingField)

	_, err = s.Add(ctx, engine.EmployeeInput{Name: "Bad", Birthday: "yesterday", JoinDate: "2020-01-01"})
	assert.ErrorIs(t, err, engine.ErrInvalidDate)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestStore_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := memory.New(engine.FixedClock{At: now})
	_, err := s.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
