package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client.
var UserAgent = "Go-Celebrations/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName        = "Go Celebrations"
	AppID          = "com.github.tartampluch.go-celebrations"
	BinaryName     = "go-celebrations"
	KeyringService = "com.github.tartampluch.go-celebrations"
	LogFileName    = "app.log"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	FilePermUserRW fs.FileMode = 0600

	// FilePermReport represents -rw-r--r--, used for exported reports.
	FilePermReport fs.FileMode = 0644

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagConfig       = "config"
	FlagDebug        = "debug"
	FlagToday        = "today"
	FlagDays         = "days"
	FlagMonth        = "month"
	FlagDate         = "date"
	FlagOutDir       = "out"
	FlagDateFormat   = "date-format"
	FlagNoAge        = "no-age"
	FlagNoService    = "no-service"
	FlagSearch       = "search"
	FlagDepartment   = "department"
	FlagID           = "id"
	FlagName         = "name"
	FlagBirthday     = "birthday"
	FlagJoinDate     = "join-date"
	FlagPosition     = "position"
	FlagEmail        = "email"
	FlagPhone        = "phone"
	FlagLocation     = "location"
	FlagDescConfig   = "Path to the YAML settings file (defaults to built-in settings)"
	FlagDescDebug    = "Enable debug logging to stdout"
	FlagDescToday    = "Reference date (YYYY-MM-DD) used instead of the current day"
	FlagDescDays     = "Look-ahead horizon in days (defaults to report.horizon_days)"
	FlagDescMonth    = "Month to render (YYYY-MM), defaults to the reference month"
	FlagDescDate     = "Selected date (YYYY-MM-DD), defaults to the reference date"
	FlagDescOutDir   = "Directory receiving the exported file"
	FlagDescDateFmt  = "Date format for employee exports (full or short)"
	FlagDescNoAge    = "Omit the Age column"
	FlagDescNoSvc    = "Omit the Years of Service column"
	FlagDescSearch   = "Filter employees by name, id or department"
	FlagDescDept     = "Filter employees by department (all for any)"
	FlagDescID       = "Employee ID (defaults to a generated one)"
	FlagDescName     = "Full name"
	FlagDescBirthday = "Birthday (YYYY-MM-DD or another accepted layout)"
	FlagDescJoinDate = "Join date (YYYY-MM-DD or another accepted layout)"
	FlagDescPosition = "Job title"
	FlagDescEmail    = "Email address"
	FlagDescPhone    = "Phone number"
	FlagDescLocation = "Office location"
	FlagDescVCardOut = "Write the address book to this file instead of stdout"
	MsgVersionOutput = "%s version %s (commit %s, built %s, %s/%s)\n"
)

// -----------------------------------------------------------------------------
// CLI Commands
// -----------------------------------------------------------------------------

const (
	CmdServe    = "serve"
	CmdToday    = "today"
	CmdUpcoming = "upcoming"
	CmdCalendar = "calendar"
	CmdStats    = "stats"
	CmdExport   = "export <kind>"
	CmdAdd      = "add"
	CmdRemove   = "remove <id>"
	CmdImport   = "import <file.vcf>"
	CmdVCard    = "vcard"
	CmdMigrate  = "migrate [up|down|version]"
	CmdVersion  = "version"

	ShortRoot     = "Track employee birthdays and work anniversaries"
	ShortServe    = "Serve the JSON API, CSV reports and the iCalendar feed"
	ShortToday    = "List today's birthdays and work anniversaries"
	ShortUpcoming = "List celebrations within the look-ahead horizon"
	ShortCalendar = "Render a month calendar of celebrations"
	ShortStats    = "Show dashboard statistics"
	ShortExport   = "Export a CSV report (all-employees, filtered-employees, todays-celebrations, birthday-calendar, anniversary-calendar, upcoming-events)"
	ShortAdd      = "Add an employee"
	ShortRemove   = "Delete an employee"
	ShortImport   = "Import employees from a vCard address book"
	ShortVCard    = "Export employees as a vCard address book"
	ShortMigrate  = "Apply PostgreSQL schema migrations"
	ShortVersion  = "Print version information"

	MsgCLIAdded    = "Added %s (%s)\n"
	MsgCLIRemoved  = "Removed %s\n"
	MsgCLIImported = "Imported %d employees (%d skipped, %d rejected)\n"
	MsgCLIWritten  = "Wrote %s (%d rows)\n"
	MsgCLITotal    = "Employees"
	MsgCLIDepts    = "Departments"
	MsgCLIBdToday  = "Birthdays today"
	MsgCLIAnToday  = "Anniversaries today"
	MsgCLIBdMonth  = "Birthdays this month"
	MsgCLIAnMonth  = "Anniversaries this month"
	MsgCLIAvgAge   = "Average age"
	MsgCLIAvgTen   = "Average tenure"

	// Terminal palette (ANSI 256).
	ColorHeading = "212"
	ColorAccent  = "86"
	ColorMuted   = "241"
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	DefaultListenAddr      = "127.0.0.1:18080"
	DefaultRefreshInterval = 1 * time.Hour
	DefaultLanguage        = "en"
	DefaultHorizonDays     = 30
	DefaultSQLitePath      = "celebrations.db"
	DefaultRemoteTimeout   = 30 * time.Second
	DefaultOutputDir       = "."
	DefaultReminder        = "-P1D"
	ReminderNone           = "none"
	DefaultPostgresSSLMode = "disable"
	NotSpecified           = "Not specified"
	DepartmentAll          = "all"

	// StoreDriver values.
	StoreDriverMemory   = "memory"
	StoreDriverSQLite   = "sqlite"
	StoreDriverPostgres = "postgres"
	StoreDriverRemote   = "remote"
)

// SupportedLanguages defines the list of available message catalogs (ISO 639-1).
var SupportedLanguages = []string{"en", "fr"}

// -----------------------------------------------------------------------------
// Date Layouts
// -----------------------------------------------------------------------------

const (
	DateFormatISO       = "2006-01-02"
	DateFormatBasic     = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatLongDay   = "Monday, January 02, 2006"
	DateFormatLong      = "January 2, 2006"
	DateFormatUSShort   = "1/2/2006"
	DateFormatMonth     = "2006-01"
	DateFormatTimestamp = time.RFC3339Nano

	// Report date styles.
	DateStyleFull  = "full"
	DateStyleShort = "short"
)

// -----------------------------------------------------------------------------
// Reports
// -----------------------------------------------------------------------------

const (
	ReportAllEmployees      = "all-employees"
	ReportFilteredEmployees = "filtered-employees"
	ReportTodays            = "todays-celebrations"
	ReportBirthdayCalendar  = "birthday-calendar"
	ReportAnniversaryCal    = "anniversary-calendar"
	ReportUpcoming          = "upcoming-events"

	ReportExtCSV      = ".csv"
	FormatReportName  = "%s-%s" + ReportExtCSV
	CSVQuote          = `"`
	CSVQuoteEscaped   = `""`
	CSVSeparator      = ","
	CSVLineTerminator = "\n"
)

// ReportKinds lists every report kind accepted by the exporters.
var ReportKinds = []string{
	ReportAllEmployees,
	ReportFilteredEmployees,
	ReportTodays,
	ReportBirthdayCalendar,
	ReportAnniversaryCal,
	ReportUpcoming,
}

// CSV column headers.
const (
	ColID             = "ID"
	ColName           = "Name"
	ColBirthday       = "Birthday"
	ColAge            = "Age"
	ColJoinDate       = "Join Date"
	ColYearsOfService = "Years of Service"
	ColDepartment     = "Department"
	ColPosition       = "Position"
	ColEmail          = "Email"
	ColPhone          = "Phone"
	ColLocation       = "Location"
	ColDate           = "Date"
	ColEventType      = "Event Type"
	ColDaysUntil      = "Days Until"
	ColDetails        = "Details"
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyTypeBirthday      = "event_type_birthday"
	TKeyTypeAnniversary   = "event_type_anniversary"
	TKeyDetailBirthday    = "detail_birthday"    // Requires Count
	TKeyDetailAnniversary = "detail_anniversary" // Requires Count
	TKeySummaryBirthday   = "summary_birthday"   // Requires Name, Count
	TKeySummaryAnniv      = "summary_anniversary"
	TKeyCalendarName      = "calendar_name"
	TKeyHeadingToday      = "heading_today"    // Requires Date
	TKeyHeadingUpcoming   = "heading_upcoming" // Requires Count
	TKeyHeadingStats      = "heading_stats"
	TKeyNothingToday      = "nothing_today"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	// iCal Properties
	ICalVersion   = "2.0"
	ICalProdid    = "-//Go Celebrations//Engine//EN"
	ICalCalName   = "Celebrations"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "gocelebrations"
	ICalCategory  = "CATEGORIES"

	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropRefresh     = "REFRESH-INTERVAL"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropTrigger     = "TRIGGER"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	// FormatUID expects the stable uuid and the event year.
	FormatUID = "%s-%d@%s"

	// vCard extension properties.
	VCardJoinDate   = "X-JOIN-DATE"
	VCardDepartment = "X-DEPARTMENT"
	VCardLocation   = "X-LOCATION"
	VCardOrgSep     = ";"
	ExtVCF          = ".vcf"

	// StubVCalendar is the minimal valid iCalendar object used when no events are found.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"

	DefaultICalRefresh = 1 * time.Hour
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 32 * 1024 * 1024 // 32MB
	MaxRequestBodySize  = 1 * 1024 * 1024  // 1MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"

	RouteCalendar     = "/calendar.ics"
	RouteAPI          = "/api"
	RouteEmployees    = "/employees"
	RouteEmployeeID   = "/{id}"
	RouteCelebrations = "/celebrations"
	RouteUpcoming     = "/upcoming"
	RouteMonth        = "/calendar/{year}/{month}"
	RouteStats        = "/stats"
	RouteDepartments  = "/departments"
	RouteReport       = "/reports/{kind}.csv"

	RemoteEmployeesPath = "/employees"
	URLParamID          = "id"
	URLParamYear        = "year"
	URLParamMonth       = "month"
	URLParamKind        = "kind"
	QueryParamDate      = "date"
	QueryParamDays      = "days"
	QueryParamSearch    = "q"
	QueryParamDept      = "department"
)

// DefaultAllowedOrigins are the origins accepted by the CORS middleware.
var DefaultAllowedOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173"}

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderContentDisp     = "Content-Disposition"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderAuthorization   = "Authorization"
	HeaderAccept          = "Accept"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeTextCSV         = "text/csv; charset=utf-8"
	MimeJSON            = "application/json"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"
	BearerPrefix        = "Bearer "

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
	// FormatAttachment expects the filename.
	FormatAttachment = `attachment; filename="%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrServerStartup    = "server startup failed"
	ErrServerShutdown   = "server shutdown failed"
	ErrListenRequired   = "listen address is required"
	ErrInvalidURL       = "invalid URL structure"
	ErrProtocol         = "unsupported protocol scheme (http/https only)"
	ErrICalEncode       = "failed to encode iCalendar data"
	ErrVCardParse       = "failed to parse vCard stream"
	ErrVCardEncode      = "failed to encode vCard data"
	ErrLogFile          = "failed to open log file"
	ErrCacheDir         = "could not determine user cache dir"
	ErrCreateDir        = "could not create app cache dir"
	ErrAppFailed        = "application failed unexpectedly"
	ErrWriteResp        = "failed to write response body"
	ErrLocalesAccess    = "failed to access embedded locales"
	ErrLocaleLoad       = "failed to load locale file"
	ErrRefreshFailed    = "calendar refresh failed"
	ErrStoreOpen        = "failed to open employee store"
	ErrStoreList        = "failed to load employees"
	ErrStoreAdd         = "failed to add employee"
	ErrStoreRemove      = "failed to delete employee"
	ErrReportBuild      = "failed to build report"
	ErrReportKind       = "unknown report kind"
	ErrBadRequest       = "invalid request"
	ErrDriverUnsupport  = "configuration error: unsupported store driver"
	ErrMigrationAction  = "unsupported migration action"
	ErrMigrationDriver  = "migrations require the postgres store driver"
	ErrTokenLookup      = "token lookup failed (requests will be anonymous)"
	ErrInvalidReference = "invalid reference date"
	ErrDateStyle        = "date format must be \"full\" or \"short\""
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Calendar initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
)

// -----------------------------------------------------------------------------
// Fallbacks & Log Messages
// -----------------------------------------------------------------------------

const (
	FallbackTypeBirthday      = "Birthday"
	FallbackTypeAnniversary   = "Work Anniversary"
	FallbackDetailBirthday    = "Turning %d years old"
	FallbackDetailAnniversary = "%d years of service"
	FallbackSummaryBirthday   = "Birthday: %s (%d)"
	FallbackSummaryAnniv      = "Work anniversary: %s (%d)"

	MsgAppStarting     = "Starting application"
	MsgAppStop         = "Application stopped gracefully"
	MsgServerListen    = "HTTP server listening"
	MsgServerStop      = "Shutting down HTTP server..."
	MsgCacheUpdated    = "Calendar cache updated"
	MsgWorkerStart     = "Background refresh worker started"
	MsgWorkerStop      = "Worker stopping due to context cancellation"
	MsgRefreshDone     = "Calendar refresh completed"
	MsgSkippedRecord   = "Skipping employee with invalid date"
	MsgSkippedCard     = "Skipping malformed vCard"
	MsgGenSuccess      = "Calendar generation successful"
	MsgLocaleSkip      = "Skipping non-locale file"
	MsgLocaleBadName   = "Skipping malformed locale filename"
	MsgLocaleLoaded    = "Locale loaded successfully"
	MsgTransMissing    = "Missing translation key"
	MsgStoreOpened     = "Employee store opened"
	MsgStoreReady      = "Employee store ready"
	MsgRemoteRequest   = "Remote store request"
	MsgRemoteStatus    = "Remote store returned error status"
	MsgStoreFallback   = "Employee store unavailable, serving sample data"
	MsgStoreEmpty      = "Employee store empty, serving sample data"
	MsgAddFallback     = "Employee store rejected add, using ephemeral record"
	MsgEmployeeAdded   = "Employee added"
	MsgEmployeeRemoved = "Employee removed"
	MsgReportWritten   = "Report written"
	MsgImportDone      = "vCard import finished"
	MsgMigrationDone   = "Migration completed"
	MsgNoMigration     = "No migration applied"
	MsgRequestFailed   = "Request failed"
	MsgLogWarning      = "Warning: %s at %s: %v\n"
	MsgCelebrationDay  = "Celebration found today"
	MsgCelebrationsFor = "Celebrations computed"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent  = "component"
	LogKeyError      = "error"
	LogKeyURL        = "url"
	LogKeyStatus     = "status_code"
	LogKeyFile       = "file"
	LogKeyLang       = "lang"
	LogKeyKey        = "key"
	LogKeyAddr       = "addr"
	LogKeyDriver     = "driver"
	LogKeyInterval   = "interval"
	LogKeyUser       = "user"
	LogKeyEmployee   = "employee_id"
	LogKeyField      = "field"
	LogKeyValue      = "value"
	LogKeyStats      = "stats"
	LogKeyCount      = "count"
	LogKeySkipped    = "skipped"
	LogKeyEvents     = "events"
	LogKeyName       = "name"
	LogKeyKind       = "kind"
	LogKeyPath       = "path"
	LogKeySizeBytes  = "size_bytes"
	LogKeyETag       = "etag"
	LogKeyDuration   = "duration_ms"
	LogKeyAction     = "action"
	LogKeyVersion    = "version"
	LogKeyDirty      = "dirty"
	LogKeyType       = "type"
	LogKeyRequestID  = "request_id"
	LogKeyMethod     = "method"
	LogKeyReference  = "reference_date"
	LogKeyBuild      = "build"
	LogKeyApp        = "app"
	LogKeyGoVer      = "go_version"
	LogKeyEnv        = "env"
	LogKeyOS         = "os"
	LogKeyArch       = "arch"
	LogKeyPID        = "pid"
	LogKeyTotal      = "total"
	LogKeyToday      = "today"
	LogKeyBirthdays  = "birthdays"
	LogKeyAnniversar = "anniversaries"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompMain     = "main"
	CompCLI      = "cli"
	CompEngine   = "engine"
	CompReport   = "report"
	CompServer   = "server"
	CompWorker   = "worker"
	CompStore    = "store"
	CompRemote   = "remote_store"
	CompSQLite   = "sqlite_store"
	CompPostgres = "postgres_store"
	CompContacts = "contacts"
	CompI18n     = "i18n"
	CompMigrate  = "migrate"
)
