package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-celebrations/internal/config"
	"github.com/tartampluch/go-celebrations/internal/contacts"
	"github.com/tartampluch/go-celebrations/internal/engine"
	"github.com/tartampluch/go-celebrations/internal/report"
	"github.com/tartampluch/go-celebrations/internal/server"
	"github.com/tartampluch/go-celebrations/internal/store/postgres"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   config.CmdServe,
		Short: config.ShortServe,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			s := a.settings
			srv := server.New(server.Config{
				Addr:            s.Server.ListenAddr,
				AllowedOrigins:  s.Server.AllowedOrigins,
				RefreshInterval: s.Server.RefreshInterval,
				Store:           st,
				Clock:           a.clock,
				Calendar: report.Calendar{
					Name:     a.tr.CalendarName(),
					Reminder: s.Calendar.Reminder,
					Labels:   a.tr,
				},
				Reports:     report.Builder{Options: report.OptionsFromSettings(s.Report), Labels: a.tr},
				Upcoming:    engine.Upcoming{Detail: a.tr.Detail},
				HorizonDays: s.Report.HorizonDays,
			})
			if err := srv.Start(cmd.Context()); err != nil {
				return err
			}
			slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
			return nil
		},
	}
}

func newTodayCmd(a *app) *cobra.Command {
	var dateRaw string
	cmd := &cobra.Command{
		Use:   config.CmdToday,
		Short: config.ShortToday,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			date := a.today()
			if dateRaw != "" {
				d, err := time.ParseInLocation(config.DateFormatISO, dateRaw, time.Local)
				if err != nil {
					return fmt.Errorf("%s: %w", config.ErrInvalidReference, err)
				}
				date = d
			}

			employees, err := a.employees(cmd)
			if err != nil {
				return err
			}
			birthdays, err := engine.OnDate(employees, engine.FieldBirthday, date)
			engine.LogSkipped(err)
			anniversaries, err := engine.OnDate(employees, engine.FieldJoinDate, date)
			engine.LogSkipped(err)
			slog.Debug(config.MsgCelebrationsFor,
				config.LogKeyComponent, config.CompCLI,
				config.LogKeyReference, date.Format(config.DateFormatISO),
				config.LogKeyTotal, len(employees),
				config.LogKeyBirthdays, len(birthdays),
				config.LogKeyAnniversar, len(anniversaries),
			)

			newPrinter(cmd.OutOrStdout()).celebrations(a.tr, date, birthdays, anniversaries)
			return nil
		},
	}
	cmd.Flags().StringVar(&dateRaw, config.FlagDate, "", config.FlagDescDate)
	return cmd
}

func newUpcomingCmd(a *app) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   config.CmdUpcoming,
		Short: config.ShortUpcoming,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			days, err := horizonFlag(cmd, days, a.settings.Report.HorizonDays)
			if err != nil {
				return err
			}
			employees, err := a.employees(cmd)
			if err != nil {
				return err
			}
			events, err := engine.Upcoming{Detail: a.tr.Detail}.Within(employees, a.today(), days)
			engine.LogSkipped(err)

			newPrinter(cmd.OutOrStdout()).upcoming(a.tr, days, events)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, config.FlagDays, 0, config.FlagDescDays)
	return cmd
}

// horizonFlag resolves --days: the configured default when unset, the given
// value otherwise. Zero keeps only today's events.
func horizonFlag(cmd *cobra.Command, days, def int) (int, error) {
	if !cmd.Flags().Changed(config.FlagDays) {
		return def, nil
	}
	if days < 0 {
		return 0, fmt.Errorf("%s: --%s=%d", config.ErrBadRequest, config.FlagDays, days)
	}
	return days, nil
}

func newCalendarCmd(a *app) *cobra.Command {
	var monthRaw string
	cmd := &cobra.Command{
		Use:   config.CmdCalendar,
		Short: config.ShortCalendar,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ref := a.today()
			if monthRaw != "" {
				m, err := time.ParseInLocation(config.DateFormatMonth, monthRaw, time.Local)
				if err != nil {
					return fmt.Errorf("%s: %w", config.ErrInvalidReference, err)
				}
				ref = m
			}
			employees, err := a.employees(cmd)
			if err != nil {
				return err
			}
			view, err := engine.BuildMonth(employees, ref.Year(), ref.Month())
			engine.LogSkipped(err)

			newPrinter(cmd.OutOrStdout()).month(a.tr, view)
			return nil
		},
	}
	cmd.Flags().StringVar(&monthRaw, config.FlagMonth, "", config.FlagDescMonth)
	return cmd
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   config.CmdStats,
		Short: config.ShortStats,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			employees, err := a.employees(cmd)
			if err != nil {
				return err
			}
			stats, err := engine.ComputeStats(employees, a.today())
			engine.LogSkipped(err)

			newPrinter(cmd.OutOrStdout()).stats(a.tr, stats)
			return nil
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	var (
		outDir, dateFormat, query, department string
		noAge, noService                      bool
		days                                  int
	)
	cmd := &cobra.Command{
		Use:       config.CmdExport,
		Short:     config.ShortExport,
		Args:      cobra.ExactArgs(1),
		ValidArgs: config.ReportKinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := report.OptionsFromSettings(a.settings.Report)
			if cmd.Flags().Changed(config.FlagDateFormat) {
				if !config.ValidDateStyle(dateFormat) {
					return fmt.Errorf("%s: --%s=%q", config.ErrDateStyle, config.FlagDateFormat, dateFormat)
				}
				opts.DateFormat = dateFormat
			}
			if noAge {
				opts.IncludeAge = false
			}
			if noService {
				opts.IncludeYearsOfService = false
			}
			if outDir == "" {
				outDir = a.settings.Report.OutputDir
			}
			days, err := horizonFlag(cmd, days, a.settings.Report.HorizonDays)
			if err != nil {
				return err
			}

			employees, err := a.employees(cmd)
			if err != nil {
				return err
			}
			today := a.today()
			table, err := report.Builder{Options: opts, Labels: a.tr}.Build(employees, report.Request{
				Kind:        args[0],
				Today:       today,
				Query:       query,
				Department:  department,
				HorizonDays: days,
			})
			if err != nil {
				return fmt.Errorf("%s: %w", config.ErrReportBuild, err)
			}
			body, err := table.Bytes()
			if err != nil {
				return fmt.Errorf("%s: %w", config.ErrReportBuild, err)
			}

			path := filepath.Join(outDir, report.Filename(args[0], today))
			if err := os.WriteFile(path, body, config.FilePermReport); err != nil {
				return fmt.Errorf("%s: %w", config.ErrReportBuild, err)
			}
			slog.Info(config.MsgReportWritten,
				config.LogKeyComponent, config.CompCLI,
				config.LogKeyKind, args[0],
				config.LogKeyFile, path,
				config.LogKeyCount, len(table.Rows),
			)
			fmt.Fprintf(cmd.OutOrStdout(), config.MsgCLIWritten, path, len(table.Rows))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&outDir, config.FlagOutDir, "", config.FlagDescOutDir)
	f.StringVar(&dateFormat, config.FlagDateFormat, "", config.FlagDescDateFmt)
	f.BoolVar(&noAge, config.FlagNoAge, false, config.FlagDescNoAge)
	f.BoolVar(&noService, config.FlagNoService, false, config.FlagDescNoSvc)
	f.StringVar(&query, config.FlagSearch, "", config.FlagDescSearch)
	f.StringVar(&department, config.FlagDepartment, "", config.FlagDescDept)
	f.IntVar(&days, config.FlagDays, 0, config.FlagDescDays)
	return cmd
}

func newAddCmd(a *app) *cobra.Command {
	var in engine.EmployeeInput
	cmd := &cobra.Command{
		Use:   config.CmdAdd,
		Short: config.ShortAdd,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			emp, err := st.Add(cmd.Context(), in)
			if err != nil {
				return fmt.Errorf("%s: %w", config.ErrStoreAdd, err)
			}
			slog.Info(config.MsgEmployeeAdded,
				config.LogKeyComponent, config.CompCLI,
				config.LogKeyEmployee, emp.ID,
			)
			fmt.Fprintf(cmd.OutOrStdout(), config.MsgCLIAdded, emp.Name, emp.ID)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.ID, config.FlagID, "", config.FlagDescID)
	f.StringVar(&in.Name, config.FlagName, "", config.FlagDescName)
	f.StringVar(&in.Birthday, config.FlagBirthday, "", config.FlagDescBirthday)
	f.StringVar(&in.JoinDate, config.FlagJoinDate, "", config.FlagDescJoinDate)
	f.StringVar(&in.Department, config.FlagDepartment, "", config.FlagDescDept)
	f.StringVar(&in.Position, config.FlagPosition, "", config.FlagDescPosition)
	f.StringVar(&in.Email, config.FlagEmail, "", config.FlagDescEmail)
	f.StringVar(&in.Phone, config.FlagPhone, "", config.FlagDescPhone)
	f.StringVar(&in.Location, config.FlagLocation, "", config.FlagDescLocation)
	_ = cmd.MarkFlagRequired(config.FlagName)
	_ = cmd.MarkFlagRequired(config.FlagBirthday)
	_ = cmd.MarkFlagRequired(config.FlagJoinDate)
	return cmd
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   config.CmdRemove,
		Short: config.ShortRemove,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			if err := st.Remove(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("%s: %w", config.ErrStoreRemove, err)
			}
			slog.Info(config.MsgEmployeeRemoved,
				config.LogKeyComponent, config.CompCLI,
				config.LogKeyEmployee, args[0],
			)
			fmt.Fprintf(cmd.OutOrStdout(), config.MsgCLIRemoved, args[0])
			return nil
		},
	}
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   config.CmdImport,
		Short: config.ShortImport,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			inputs, skipped, err := contacts.Decode(f)
			if err != nil {
				return err
			}
			st, err := a.openStore(cmd)
			if err != nil {
				return err
			}

			imported, rejected := 0, 0
			var errs []error
			for _, in := range inputs {
				if _, err := st.Add(cmd.Context(), in); err != nil {
					rejected++
					slog.Warn(config.ErrStoreAdd,
						config.LogKeyComponent, config.CompCLI,
						config.LogKeyName, in.Name,
						config.LogKeyError, err,
					)
					errs = append(errs, err)
					continue
				}
				imported++
			}
			fmt.Fprintf(cmd.OutOrStdout(), config.MsgCLIImported, imported, skipped, rejected)
			if imported == 0 && rejected > 0 {
				return errors.Join(errs...)
			}
			return nil
		},
	}
}

func newVCardCmd(a *app) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   config.CmdVCard,
		Short: config.ShortVCard,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			employees, err := a.employees(cmd)
			if err != nil {
				return err
			}
			if outPath == "" {
				return contacts.Encode(cmd.OutOrStdout(), employees)
			}
			if filepath.Ext(outPath) == "" {
				outPath += config.ExtVCF
			}

			f, err := os.OpenFile(outPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, config.FilePermUserRW)
			if err != nil {
				return err
			}
			if err := contacts.Encode(f, employees); err != nil {
				_ = f.Close()
				return err
			}
			return f.Close()
		},
	}
	cmd.Flags().StringVar(&outPath, config.FlagOutDir, "", config.FlagDescVCardOut)
	return cmd
}

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       config.CmdMigrate,
		Short:     config.ShortMigrate,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{postgres.ActionUp, postgres.ActionDown, postgres.ActionVersion},
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.settings.Store.Driver != config.StoreDriverPostgres {
				return errors.New(config.ErrMigrationDriver)
			}
			action := postgres.ActionUp
			if len(args) > 0 {
				action = args[0]
			}
			return postgres.Migrate(action, a.settings.Store.Postgres.DSN())
		},
	}
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   config.CmdVersion,
		Short: config.ShortVersion,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			printVersion(cmd.OutOrStdout())
		},
	}
}
