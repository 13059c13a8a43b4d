package postgres

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/tartampluch/go-celebrations/internal/config"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migration actions accepted by Migrate.
const (
	ActionUp      = "up"
	ActionDown    = "down"
	ActionVersion = "version"
)

// Migrate applies action to the database at dsn using the embedded migrations.
func Migrate(action, dsn string) error {
	switch action {
	case ActionUp, ActionDown, ActionVersion:
	default:
		return fmt.Errorf("%s: %q", config.ErrMigrationAction, action)
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("postgres: open migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return fmt.Errorf("postgres: create migrate instance: %w", err)
	}
	defer m.Close()

	switch action {
	case ActionUp:
		err = m.Up()
	case ActionDown:
		err = m.Down()
	case ActionVersion:
		version, dirty, verr := m.Version()
		if errors.Is(verr, migrate.ErrNilVersion) {
			slog.Info(config.MsgNoMigration, config.LogKeyComponent, config.CompMigrate)
			return nil
		}
		if verr != nil {
			return verr
		}
		slog.Info(config.MsgMigrationDone,
			config.LogKeyComponent, config.CompMigrate,
			config.LogKeyAction, action,
			config.LogKeyVersion, version,
			config.LogKeyDirty, dirty,
		)
		return nil
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("postgres: migrate %s: %w", action, err)
	}
	slog.Info(config.MsgMigrationDone,
		config.LogKeyComponent, config.CompMigrate,
		config.LogKeyAction, action,
	)
	return nil
}
