package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-celebrations/internal/config"
	"github.com/tartampluch/go-celebrations/internal/engine"
	"github.com/tartampluch/go-celebrations/internal/report"
	"github.com/tartampluch/go-celebrations/internal/server"
	"github.com/tartampluch/go-celebrations/internal/store/memory"
)

var clock = engine.FixedClock{At: time.Date(2024, 9, 2, 9, 0, 0, 0, time.Local)}

func staff() []engine.Employee {
	return []engine.Employee{
		{ID: "1", Name: "John Smith", Birthday: "1994-09-02", JoinDate: "2017-05-08", Department: "Engineering"},
		{ID: "2", Name: "Sarah Johnson", Birthday: "1988-12-15", JoinDate: "2015-09-02", Department: "Marketing"},
		{ID: "3", Name: "Michael Chen", Birthday: "1992-09-10", JoinDate: "2020-09-20", Department: "Engineering"},
	}
}

func newHandler(employees ...engine.Employee) http.Handler {
	return server.New(server.Config{
		Store:   memory.New(clock, employees...),
		Clock:   clock,
		Reports: report.Builder{Options: report.DefaultOptions()},
	}).Handler()
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func names(employees []engine.Employee) []string {
	out := make([]string, 0, len(employees))
	for _, e := range employees {
		out = append(out, e.Name)
	}
	return out
}

func TestAPI_ListEmployees(t *testing.T) {
	h := newHandler(staff()...)

	tests := []struct {
		name   string
		target string
		want   []string
	}{
		{"all", "/api/employees", []string{"John Smith", "Sarah Johnson", "Michael Chen"}},
		{"search", "/api/employees?q=chen", []string{"Michael Chen"}},
		{"department", "/api/employees?department=Engineering", []string{"John Smith", "Michael Chen"}},
		{"department all", "/api/employees?department=all", []string{"John Smith", "Sarah Johnson", "Michael Chen"}},
		{"no match", "/api/employees?q=nobody", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodGet, tt.target, "")
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, config.MimeJSON, w.Header().Get(config.HeaderContentType))
			assert.Equal(t, tt.want, names(decode[[]engine.Employee](t, w)))
		})
	}
}

func TestAPI_AddAndRemoveEmployee(t *testing.T) {
	h := newHandler(staff()...)

	w := do(t, h, http.MethodPost, "/api/employees", `{"name":"Jane Doe","birthday":"1990-04-01","joinDate":"2021-06-15"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[engine.Employee](t, w)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Jane Doe", created.Name)

	w = do(t, h, http.MethodPost, "/api/employees", `{"name":"Jane Doe","birthday":"1990-04-01","joinDate":"2021-06-15"}`)
	require.Equal(t, http.StatusCreated, w.Code, "a second add without id under a fixed clock: %s", w.Body.String())
	twin := decode[engine.Employee](t, w)
	assert.NotEqual(t, created.ID, twin.ID)
	w = do(t, h, http.MethodDelete, "/api/employees/"+twin.ID, "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, http.MethodGet, "/api/employees", "")
	assert.Len(t, decode[[]engine.Employee](t, w), 4)

	w = do(t, h, http.MethodDelete, "/api/employees/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, http.MethodDelete, "/api/employees/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, config.ErrStoreRemove, decode[server.ErrorResponse](t, w).Error)
}

func TestAPI_AddEmployeeErrors(t *testing.T) {
	h := newHandler(staff()...)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{"name":`, http.StatusBadRequest},
		{"missing join date", `{"name":"Jane","birthday":"1990-04-01"}`, http.StatusBadRequest},
		{"invalid date", `{"name":"Jane","birthday":"1990-02-30","joinDate":"2021-06-15"}`, http.StatusBadRequest},
		{"duplicate id", `{"id":"1","name":"Jane","birthday":"1990-04-01","joinDate":"2021-06-15"}`, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/api/employees", tt.body)
			assert.Equal(t, tt.want, w.Code)
			resp := decode[server.ErrorResponse](t, w)
			assert.NotEmpty(t, resp.Error)
			assert.NotEmpty(t, resp.Details)
		})
	}
}

func TestAPI_Celebrations(t *testing.T) {
	h := newHandler(staff()...)

	w := do(t, h, http.MethodGet, "/api/celebrations", "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[server.Celebrations](t, w)
	assert.Equal(t, "2024-09-02", got.Date)
	assert.Equal(t, []string{"John Smith"}, names(got.Birthdays))
	assert.Equal(t, []string{"Sarah Johnson"}, names(got.Anniversaries))

	w = do(t, h, http.MethodGet, "/api/celebrations?date=2025-09-10", "")
	require.Equal(t, http.StatusOK, w.Code)
	got = decode[server.Celebrations](t, w)
	assert.Equal(t, []string{"Michael Chen"}, names(got.Birthdays))
	assert.Empty(t, got.Anniversaries)

	w = do(t, h, http.MethodGet, "/api/celebrations?date=tomorrow", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPI_Upcoming(t *testing.T) {
	h := newHandler(staff()...)

	w := do(t, h, http.MethodGet, "/api/upcoming", "")
	require.Equal(t, http.StatusOK, w.Code)
	events := decode[[]engine.UpcomingEvent](t, w)
	require.Len(t, events, 4)
	assert.Equal(t, "1", events[0].EmployeeID)
	assert.Equal(t, 0, events[0].DaysUntil)
	assert.Equal(t, "2", events[1].EmployeeID)
	assert.Equal(t, 8, events[2].DaysUntil)
	assert.Equal(t, 18, events[3].DaysUntil)

	w = do(t, h, http.MethodGet, "/api/upcoming?days=7", "")
	assert.Len(t, decode[[]engine.UpcomingEvent](t, w), 2)

	w = do(t, h, http.MethodGet, "/api/upcoming?days=-1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPI_Month(t *testing.T) {
	h := newHandler(staff()...)

	w := do(t, h, http.MethodGet, "/api/calendar/2024/9", "")
	require.Equal(t, http.StatusOK, w.Code)
	view := decode[engine.MonthView](t, w)
	assert.Equal(t, 0, view.LeadingBlanks)
	require.Len(t, view.Days, 30)
	assert.Equal(t, []string{"John Smith"}, names(view.Days[1].Birthdays))
	assert.Equal(t, []string{"Sarah Johnson"}, names(view.Days[1].Anniversaries))

	for _, target := range []string{"/api/calendar/2024/13", "/api/calendar/year/9"} {
		assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, target, "").Code, target)
	}
}

func TestAPI_StatsAndDepartments(t *testing.T) {
	h := newHandler(staff()...)

	w := do(t, h, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[engine.Stats](t, w)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Departments)
	assert.Equal(t, 1, stats.BirthdaysToday)
	assert.Equal(t, 1, stats.AnniversariesToday)
	assert.Equal(t, 2, stats.BirthdaysThisMonth)
	assert.Equal(t, 2, stats.AnniversariesThisMonth)
	assert.Equal(t, "32", stats.AverageAge.String())
	assert.Equal(t, "6.3", stats.AverageTenure.String())

	w = do(t, h, http.MethodGet, "/api/departments", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Engineering", "Marketing"}, decode[[]string](t, w))
}

func TestAPI_Reports(t *testing.T) {
	h := newHandler(staff()...)

	w := do(t, h, http.MethodGet, "/reports/all-employees.csv", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, config.MimeTextCSV, w.Header().Get(config.HeaderContentType))
	assert.Equal(t, `attachment; filename="all-employees-2024-09-02.csv"`, w.Header().Get(config.HeaderContentDisp))
	assert.True(t, strings.HasPrefix(w.Body.String(), `"ID","Name","Birthday","Age"`))
	assert.Equal(t, 4, strings.Count(w.Body.String(), "\n"))

	w = do(t, h, http.MethodGet, "/reports/filtered-employees.csv?department=Marketing", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, strings.Count(w.Body.String(), "\n"))

	w = do(t, h, http.MethodGet, "/reports/upcoming-events.csv?days=7", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, strings.Count(w.Body.String(), "\n"))

	w = do(t, h, http.MethodGet, "/reports/payroll.csv", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPI_ZeroDaysKeepsTodayOnly(t *testing.T) {
	h := newHandler(staff()...)

	w := do(t, h, http.MethodGet, "/api/upcoming?days=0", "")
	require.Equal(t, http.StatusOK, w.Code)
	events := decode[[]engine.UpcomingEvent](t, w)
	require.Len(t, events, 2)
	for _, e := range events {
		assert.Equal(t, 0, e.DaysUntil)
	}

	w = do(t, h, http.MethodGet, "/reports/upcoming-events.csv?days=0", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, len(events)+1, strings.Count(w.Body.String(), "\n"))
}

func TestAPI_ReportOverMalformedRecord(t *testing.T) {
	bad := append(staff(), engine.Employee{ID: "9", Name: "Broken", Birthday: "not a date", JoinDate: "2020-01-01"})
	h := newHandler(bad...)

	w := do(t, h, http.MethodGet, "/reports/all-employees.csv", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, decode[server.ErrorResponse](t, w).Details, `"9"`)

	// JSON views skip the malformed record instead.
	w = do(t, h, http.MethodGet, "/api/celebrations", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[server.Celebrations](t, w).Birthdays, 1)
}

type brokenStore struct{ memory.Store }

func (*brokenStore) List(context.Context) ([]engine.Employee, error) {
	return nil, errors.New("disk on fire")
}

func TestAPI_StoreFailure(t *testing.T) {
	h := server.New(server.Config{Store: &brokenStore{}, Clock: clock}).Handler()

	w := do(t, h, http.MethodGet, "/api/stats", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decode[server.ErrorResponse](t, w)
	assert.Equal(t, config.ErrStoreList, resp.Error)
	assert.Contains(t, resp.Details, "disk on fire")
}

func TestAPI_CORS(t *testing.T) {
	h := newHandler(staff()...)

	req := httptest.NewRequest(http.MethodOptions, "/api/employees", nil)
	req.Header.Set("Origin", config.DefaultAllowedOrigins[0])
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, config.DefaultAllowedOrigins[0], w.Header().Get("Access-Control-Allow-Origin"))
}
