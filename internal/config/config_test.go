package config_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tartampluch/go-celebrations/internal/config"
)

// TestConstants_Integrity guards the identifiers the feed, the HTTP client
// and the keyring lookup depend on.
func TestConstants_Integrity(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"AppName", config.AppName},
		{"AppID", config.AppID},
		{"Version", config.Version},
		{"UserAgent", config.UserAgent},
		{"KeyringService", config.KeyringService},
		{"ICalVersion", config.ICalVersion},
		{"ICalProdid", config.ICalProdid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEmpty(t, tt.value, "critical constant %s should not be empty", tt.name)
		})
	}
}

func TestUserAgent_Format(t *testing.T) {
	assert.True(t, strings.HasPrefix(config.UserAgent, "Go-Celebrations/"))
}

func TestReportKinds(t *testing.T) {
	assert.Len(t, config.ReportKinds, 6)
	for _, kind := range config.ReportKinds {
		name := fmt.Sprintf(config.FormatReportName, kind, "2024-09-02")
		assert.True(t, strings.HasSuffix(name, "-2024-09-02.csv"), name)
		assert.NotContains(t, kind, " ")
	}
}

func TestStubVCalendar(t *testing.T) {
	assert.True(t, strings.HasPrefix(config.StubVCalendar, "BEGIN:VCALENDAR\r\n"))
	assert.True(t, strings.HasSuffix(config.StubVCalendar, "END:VCALENDAR\r\n"))
	assert.Contains(t, config.StubVCalendar, config.ICalProdid)
}

func TestTimeoutsAndLimits(t *testing.T) {
	t.Parallel()

	assert.Greater(t, config.DefaultRemoteTimeout, 0*time.Second)
	assert.LessOrEqual(t, config.DefaultRemoteTimeout, 2*time.Minute)
	assert.Greater(t, config.ShutdownTimeout, 0*time.Second)
	assert.Greater(t, config.DefaultRefreshInterval, time.Minute)

	assert.Greater(t, config.MaxRequestBodySize, 0)
	assert.Less(t, config.MaxRequestBodySize, config.MaxHTTPResponseSize)
	assert.Less(t, int64(config.MaxHTTPResponseSize), int64(1*1024*1024*1024), "stay under 1GB to protect RAM")
}
