package config

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings is the runtime configuration loaded from the YAML settings file.
type Settings struct {
	Language string         `yaml:"language"`
	Server   ServerSettings `yaml:"server"`
	Store    StoreSettings  `yaml:"store"`
	Report   ReportSettings `yaml:"report"`
	Calendar CalendarConfig `yaml:"calendar"`
}

// ServerSettings configures the HTTP API and calendar feed.
type ServerSettings struct {
	ListenAddr         string        `yaml:"listen_addr"`
	AllowedOrigins     []string      `yaml:"allowed_origins"`
	RefreshInterval    time.Duration `yaml:"-"`
	RefreshIntervalRaw string        `yaml:"refresh_interval"`
}

// StoreSettings selects and configures the employee store backend.
type StoreSettings struct {
	Driver           string           `yaml:"driver"`
	FallbackToSample bool             `yaml:"fallback_to_sample"`
	SQLitePath       string           `yaml:"sqlite_path"`
	Postgres         PostgresSettings `yaml:"postgres"`
	Remote           RemoteSettings   `yaml:"remote"`
}

// PostgresSettings describes the PostgreSQL connection.
type PostgresSettings struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
}

// RemoteSettings describes the remote document store.
// The API token is read from the OS keyring under KeyringService/User.
type RemoteSettings struct {
	BaseURL    string        `yaml:"base_url"`
	User       string        `yaml:"user"`
	Timeout    time.Duration `yaml:"-"`
	TimeoutRaw string        `yaml:"timeout"`
}

// ReportSettings holds export defaults.
type ReportSettings struct {
	DateFormat            string `yaml:"date_format"`
	IncludeAge            *bool  `yaml:"include_age"`
	IncludeYearsOfService *bool  `yaml:"include_years_of_service"`
	HorizonDays           int    `yaml:"horizon_days"`
	OutputDir             string `yaml:"output_dir"`
}

// CalendarConfig configures the ICS feed.
type CalendarConfig struct {
	// Reminder is an ISO8601 duration trigger. Empty means DefaultReminder;
	// ReminderNone disables alarms.
	Reminder string `yaml:"reminder"`
}

func (c *CalendarConfig) validateAndNormalize() error {
	switch {
	case c.Reminder == "":
		c.Reminder = DefaultReminder
	case strings.EqualFold(c.Reminder, ReminderNone):
		c.Reminder = ""
	case !strings.Contains(c.Reminder, "P"):
		return fmt.Errorf("config: calendar.reminder %q is not an ISO 8601 duration", c.Reminder)
	}
	return nil
}

// DefaultSettings returns the settings used when no file is given.
func DefaultSettings() *Settings {
	s := &Settings{}
	s.Store.Driver = StoreDriverMemory
	s.Store.FallbackToSample = true
	_ = s.validateAndNormalize()
	return s
}

// LoadSettings reads the YAML file at path. An empty path yields DefaultSettings.
func LoadSettings(path string) (*Settings, error) {
	if path == "" {
		return DefaultSettings(), nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file %s: %w", path, err)
	}

	var s Settings
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := s.validateAndNormalize(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Settings) validateAndNormalize() error {
	if s.Language == "" {
		s.Language = DefaultLanguage
	}
	if !slices.Contains(SupportedLanguages, s.Language) {
		return fmt.Errorf("config: language %q is not supported", s.Language)
	}

	if err := s.Server.validateAndNormalize(); err != nil {
		return err
	}
	if err := s.Store.validateAndNormalize(); err != nil {
		return err
	}
	if err := s.Report.validateAndNormalize(); err != nil {
		return err
	}
	return s.Calendar.validateAndNormalize()
}

func (s *ServerSettings) validateAndNormalize() error {
	if s.ListenAddr == "" {
		s.ListenAddr = DefaultListenAddr
	}
	if len(s.AllowedOrigins) == 0 {
		s.AllowedOrigins = DefaultAllowedOrigins
	}
	interval, err := parseDurationAllowEmpty(s.RefreshIntervalRaw)
	if err != nil {
		return fmt.Errorf("config: server.refresh_interval: %w", err)
	}
	if interval == 0 {
		interval = DefaultRefreshInterval
	}
	s.RefreshInterval = interval
	return nil
}

func (s *StoreSettings) validateAndNormalize() error {
	if s.Driver == "" {
		s.Driver = StoreDriverMemory
	}
	switch s.Driver {
	case StoreDriverMemory:
	case StoreDriverSQLite:
		if s.SQLitePath == "" {
			s.SQLitePath = DefaultSQLitePath
		}
	case StoreDriverPostgres:
		return s.Postgres.validateAndNormalize()
	case StoreDriverRemote:
		return s.Remote.validateAndNormalize()
	default:
		return fmt.Errorf("config: store.driver: %s: %q", ErrDriverUnsupport, s.Driver)
	}
	return nil
}

func (p *PostgresSettings) validateAndNormalize() error {
	if p.Host == "" {
		return fmt.Errorf("config: store.postgres.host must be set")
	}
	if p.Port == 0 {
		return fmt.Errorf("config: store.postgres.port must be set")
	}
	if p.User == "" {
		return fmt.Errorf("config: store.postgres.user must be set")
	}
	if p.Name == "" {
		return fmt.Errorf("config: store.postgres.name must be set")
	}
	if p.SSLMode == "" {
		p.SSLMode = DefaultPostgresSSLMode
	}
	return nil
}

// DSN returns the connection string understood by pgx and golang-migrate.
func (p PostgresSettings) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s", p.User, p.Password, p.Host, p.Port, p.Name, p.SSLMode)
}

func (r *RemoteSettings) validateAndNormalize() error {
	if r.BaseURL == "" {
		return fmt.Errorf("config: store.remote.base_url must be set")
	}
	r.BaseURL = strings.TrimRight(r.BaseURL, "/")
	timeout, err := parseDurationAllowEmpty(r.TimeoutRaw)
	if err != nil {
		return fmt.Errorf("config: store.remote.timeout: %w", err)
	}
	if timeout == 0 {
		timeout = DefaultRemoteTimeout
	}
	r.Timeout = timeout
	return nil
}

// ValidDateStyle reports whether style is DateStyleFull or DateStyleShort.
func ValidDateStyle(style string) bool {
	return style == DateStyleFull || style == DateStyleShort
}

func (r *ReportSettings) validateAndNormalize() error {
	if r.DateFormat == "" {
		r.DateFormat = DateStyleShort
	}
	if !ValidDateStyle(r.DateFormat) {
		return fmt.Errorf("config: report.date_format: %s: %q", ErrDateStyle, r.DateFormat)
	}
	if r.HorizonDays < 0 {
		return fmt.Errorf("config: report.horizon_days must not be negative")
	}
	if r.HorizonDays == 0 {
		r.HorizonDays = DefaultHorizonDays
	}
	if r.OutputDir == "" {
		r.OutputDir = DefaultOutputDir
	}
	return nil
}

// AgeColumn reports whether employee exports include the Age column (default true).
func (r ReportSettings) AgeColumn() bool {
	return r.IncludeAge == nil || *r.IncludeAge
}

// ServiceColumn reports whether employee exports include Years of Service (default true).
func (r ReportSettings) ServiceColumn() bool {
	return r.IncludeYearsOfService == nil || *r.IncludeYearsOfService
}

func parseDurationAllowEmpty(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	return time.ParseDuration(raw)
}
