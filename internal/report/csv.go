package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tartampluch/go-celebrations/internal/config"
)

// Table is a header row plus data rows, all already rendered to text.
type Table struct {
	Header []string
	Rows   [][]string
}

// Options controls the employee export columns and date rendering.
type Options struct {
	IncludeAge            bool
	IncludeYearsOfService bool
	// DateFormat is config.DateStyleFull or config.DateStyleShort.
	DateFormat string
}

// DefaultOptions includes every optional column with short dates.
func DefaultOptions() Options {
	return Options{
		IncludeAge:            true,
		IncludeYearsOfService: true,
		DateFormat:            config.DateStyleShort,
	}
}

// OptionsFromSettings maps the report section of the settings file.
func OptionsFromSettings(s config.ReportSettings) Options {
	return Options{
		IncludeAge:            s.AgeColumn(),
		IncludeYearsOfService: s.ServiceColumn(),
		DateFormat:            s.DateFormat,
	}
}

// FormatDate renders d as "January 2, 2006" (full) or "1/2/2006" (short).
func FormatDate(d time.Time, style string) string {
	if style == config.DateStyleFull {
		return d.Format(config.DateFormatLong)
	}
	return d.Format(config.DateFormatUSShort)
}

// Filename returns "<kind>-<YYYY-MM-DD>.csv" for the export day.
func Filename(kind string, today time.Time) string {
	return fmt.Sprintf(config.FormatReportName, kind, today.Format(config.DateFormatISO))
}

// WriteCSV writes t with every field double-quoted, inner quotes doubled
// and LF line endings.
func WriteCSV(w io.Writer, t Table) error {
	bw := bufio.NewWriter(w)
	if err := writeRow(bw, t.Header); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := writeRow(bw, row); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Bytes renders t in memory.
func (t Table) Bytes() ([]byte, error) {
	var sb strings.Builder
	if err := WriteCSV(&sb, t); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}

func writeRow(w *bufio.Writer, fields []string) error {
	for i, f := range fields {
		if i > 0 {
			if _, err := w.WriteString(config.CSVSeparator); err != nil {
				return err
			}
		}
		if _, err := w.WriteString(quote(f)); err != nil {
			return err
		}
	}
	_, err := w.WriteString(config.CSVLineTerminator)
	return err
}

func quote(field string) string {
	return config.CSVQuote + strings.ReplaceAll(field, config.CSVQuote, config.CSVQuoteEscaped) + config.CSVQuote
}
