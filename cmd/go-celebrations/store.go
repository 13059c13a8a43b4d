package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/tartampluch/go-celebrations/internal/config"
	"github.com/tartampluch/go-celebrations/internal/engine"
	"github.com/tartampluch/go-celebrations/internal/store"
	"github.com/tartampluch/go-celebrations/internal/store/memory"
	"github.com/tartampluch/go-celebrations/internal/store/postgres"
	"github.com/tartampluch/go-celebrations/internal/store/remote"
	"github.com/tartampluch/go-celebrations/internal/store/sqlite"
)

type closerFunc func()

func (f closerFunc) Close() error {
	f()
	return nil
}

// openStore builds the backend selected by settings, wrapped in the sample
// fallback when enabled. clock stamps IDs and creation times. The returned
// closer may be nil.
func openStore(ctx context.Context, s config.StoreSettings, clock engine.Clock) (store.Store, io.Closer, error) {
	var (
		st     store.Store
		closer io.Closer
	)

	switch s.Driver {
	case config.StoreDriverMemory:
		st = memory.New(clock)
	case config.StoreDriverSQLite:
		db, err := sqlite.New(s.SQLitePath, clock)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", config.ErrStoreOpen, err)
		}
		st, closer = db, db
	case config.StoreDriverPostgres:
		pool, err := postgres.NewPool(ctx, s.Postgres)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", config.ErrStoreOpen, err)
		}
		st, closer = postgres.New(pool, clock), closerFunc(pool.Close)
	case config.StoreDriverRemote:
		rs, err := remote.New(s.Remote)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", config.ErrStoreOpen, err)
		}
		st = rs
	default:
		return nil, nil, fmt.Errorf("%s: %q", config.ErrDriverUnsupport, s.Driver)
	}

	if s.FallbackToSample {
		st = store.NewFallback(st, clock)
	}

	slog.Debug(config.MsgStoreOpened,
		config.LogKeyComponent, config.CompStore,
		config.LogKeyDriver, s.Driver,
	)
	return st, closer, nil
}
