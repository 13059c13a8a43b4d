package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-celebrations/internal/config"
	"github.com/tartampluch/go-celebrations/internal/engine"
	"github.com/tartampluch/go-celebrations/internal/locale"
	"github.com/tartampluch/go-celebrations/internal/store"
)

// app carries the state shared by every command once the root has parsed
// its persistent flags.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	debug      bool
	todayRaw   string

	// clock is the reference "today" for queries; wall stamps store writes.
	clock engine.Clock
	wall  engine.Clock

	settings *config.Settings
	tr       *locale.Translator
	closers  []io.Closer
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           config.BinaryName,
		Short:         config.ShortRoot,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, config.FlagConfig, "", config.FlagDescConfig)
	flags.BoolVar(&a.debug, config.FlagDebug, false, config.FlagDescDebug)
	flags.StringVar(&a.todayRaw, config.FlagToday, "", config.FlagDescToday)

	root.AddCommand(
		newServeCmd(a),
		newTodayCmd(a),
		newUpcomingCmd(a),
		newCalendarCmd(a),
		newStatsCmd(a),
		newExportCmd(a),
		newAddCmd(a),
		newRemoveCmd(a),
		newImportCmd(a),
		newVCardCmd(a),
		newMigrateCmd(a),
		newVersionCmd(a),
	)
	return root
}

// init configures logging, loads settings and resolves the reference clock.
func (a *app) init(cmd *cobra.Command) error {
	if cmd.Name() == config.CmdVersion {
		return nil
	}

	// Commands print their results on stdout; only the server logs there.
	console := a.stderr
	if cmd.Name() == config.CmdServe {
		console = a.stdout
	}
	if c := setupLogging(a.debug, console); c != nil {
		a.closers = append(a.closers, c)
	}
	if cmd.Name() == config.CmdServe {
		logStartupInfo()
	}

	settings, err := config.LoadSettings(a.configPath)
	if err != nil {
		return err
	}
	a.settings = settings

	if a.wall == nil {
		a.wall = engine.RealClock{}
	}
	a.clock = a.wall
	if a.todayRaw != "" {
		t, err := time.ParseInLocation(config.DateFormatISO, a.todayRaw, time.Local)
		if err != nil {
			return fmt.Errorf("%s: %w", config.ErrInvalidReference, err)
		}
		a.clock = engine.FixedClock{At: t}
	}

	a.tr = locale.New(settings.Language)
	return nil
}

// today is the date-only reference day every query is evaluated against.
func (a *app) today() time.Time {
	return engine.DateOnly(a.clock.Now())
}

// openStore opens the configured store; it is closed with the app.
func (a *app) openStore(cmd *cobra.Command) (store.Store, error) {
	st, closer, err := openStore(cmd.Context(), a.settings.Store, a.wall)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		a.closers = append(a.closers, closer)
	}
	return st, nil
}

// employees returns the current store snapshot.
func (a *app) employees(cmd *cobra.Command) ([]engine.Employee, error) {
	st, err := a.openStore(cmd)
	if err != nil {
		return nil, err
	}
	list, err := st.List(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrStoreList, err)
	}
	return list, nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i].Close()
	}
	a.closers = nil
}
