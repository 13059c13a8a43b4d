package report_test

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-celebrations/internal/config"
	"github.com/tartampluch/go-celebrations/internal/report"
)

func TestWriteCSV_QuotesEveryField(t *testing.T) {
	table := report.Table{
		Header: []string{"ID", "Name"},
		Rows: [][]string{
			{"1", "Plain"},
			{"2", ""},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, report.WriteCSV(&buf, table))
	assert.Equal(t, "\"ID\",\"Name\"\n\"1\",\"Plain\"\n\"2\",\"\"\n", buf.String())
}

// TestWriteCSV_RoundTrip checks that a standard CSV reader recovers the exact
// fields, including separators, quotes and line breaks inside values.
func TestWriteCSV_RoundTrip(t *testing.T) {
	table := report.Table{
		Header: []string{"ID", "Name", "Position"},
		Rows: [][]string{
			{"1", `Smith, John "Johnny"`, "Senior\nEngineer"},
			{"2", "Zoë Ångström", `""`},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, report.WriteCSV(&buf, table))
	assert.Contains(t, buf.String(), `"Smith, John ""Johnny"""`)
	assert.False(t, strings.Contains(buf.String(), "\r\n"), "lines must end with LF")

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, append([][]string{table.Header}, table.Rows...), records)
}

func TestTable_Bytes(t *testing.T) {
	b, err := report.Table{Header: []string{"A"}}.Bytes()
	require.NoError(t, err)
	assert.Equal(t, "\"A\"\n", string(b))
}

func TestFormatDate(t *testing.T) {
	d := time.Date(1994, 9, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "September 2, 1994", report.FormatDate(d, config.DateStyleFull))
	assert.Equal(t, "9/2/1994", report.FormatDate(d, config.DateStyleShort))
	assert.Equal(t, "9/2/1994", report.FormatDate(d, ""))
}

func TestFilename(t *testing.T) {
	today := time.Date(2024, 3, 7, 18, 0, 0, 0, time.UTC)
	assert.Equal(t, "upcoming-events-2024-03-07.csv", report.Filename(config.ReportUpcoming, today))
	assert.Equal(t, "all-employees-2024-03-07.csv", report.Filename(config.ReportAllEmployees, today))
}

func TestOptionsFromSettings(t *testing.T) {
	off := false
	opts := report.OptionsFromSettings(config.ReportSettings{DateFormat: config.DateStyleFull, IncludeAge: &off})
	assert.False(t, opts.IncludeAge)
	assert.True(t, opts.IncludeYearsOfService)
	assert.Equal(t, config.DateStyleFull, opts.DateFormat)

	assert.Equal(t, report.Options{IncludeAge: true, IncludeYearsOfService: true, DateFormat: config.DateStyleShort}, report.DefaultOptions())
}
