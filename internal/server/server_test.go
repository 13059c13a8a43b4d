package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-celebrations/internal/config"
	"github.com/tartampluch/go-celebrations/internal/engine"
	"github.com/tartampluch/go-celebrations/internal/store"
	"github.com/tartampluch/go-celebrations/internal/store/memory"
)

func newTestServer(addr string) *Server {
	clock := engine.FixedClock{At: time.Date(2024, 9, 2, 9, 0, 0, 0, time.Local)}
	return New(Config{
		Addr:  addr,
		Store: memory.New(clock, store.SampleEmployees()...),
		Clock: clock,
	})
}

func TestHandler_ServingContent(t *testing.T) {
	srv := newTestServer("")
	expectedICS := []byte("BEGIN:VCALENDAR\r\nVERSION:2.0\r\nEND:VCALENDAR")
	srv.Update(expectedICS)

	req := httptest.NewRequest(http.MethodGet, config.RouteCalendar, nil)
	w := httptest.NewRecorder()
	srv.handleCalendarRequest(w, req)

	resp := w.Result()
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, config.MimeTextCalendar, resp.Header.Get(config.HeaderContentType))
	assert.Equal(t, config.MimeNoSniff, resp.Header.Get(config.HeaderXContentType))
	assert.Contains(t, resp.Header.Get(config.HeaderCacheControl), "no-cache")
	assert.NotEmpty(t, resp.Header.Get(config.HeaderETag))
	assert.NotEmpty(t, resp.Header.Get(config.HeaderLastModified))

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, expectedICS, body)
}

func TestHandler_Head(t *testing.T) {
	srv := newTestServer("")
	srv.Update([]byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR"))

	w := httptest.NewRecorder()
	srv.handleCalendarRequest(w, httptest.NewRequest(http.MethodHead, config.RouteCalendar, nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(config.HeaderETag))
	assert.Zero(t, w.Body.Len())
}

func TestHandler_Caching(t *testing.T) {
	srv := newTestServer("")
	srv.Update([]byte("DATA_VERSION_1"))

	w1 := httptest.NewRecorder()
	srv.handleCalendarRequest(w1, httptest.NewRequest(http.MethodGet, config.RouteCalendar, nil))
	etag := w1.Result().Header.Get(config.HeaderETag)
	lastModified := w1.Result().Header.Get(config.HeaderLastModified)
	require.NotEmpty(t, etag)

	tests := []struct {
		name   string
		header string
		value  string
		want   int
	}{
		{"matching etag", config.HeaderIfNoneMatch, etag, http.StatusNotModified},
		{"stale etag", config.HeaderIfNoneMatch, `"other"`, http.StatusOK},
		{"not modified since", config.HeaderIfModifiedSince, lastModified, http.StatusNotModified},
		{"modified since", config.HeaderIfModifiedSince, time.Now().Add(-time.Hour).UTC().Format(http.TimeFormat), http.StatusOK},
		{"garbage date", config.HeaderIfModifiedSince, "yesterday", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, config.RouteCalendar, nil)
			req.Header.Set(tt.header, tt.value)
			w := httptest.NewRecorder()
			srv.handleCalendarRequest(w, req)

			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusNotModified {
				assert.Zero(t, w.Body.Len(), "body must be empty on 304")
			}
		})
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	srv := newTestServer("")

	w := httptest.NewRecorder()
	srv.handleCalendarRequest(w, httptest.NewRequest(http.MethodPost, config.RouteCalendar, nil))

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, config.AllowedMethods, w.Header().Get(config.HeaderAllow))
}

func TestHandler_Initializing(t *testing.T) {
	srv := newTestServer("")

	w := httptest.NewRecorder()
	srv.handleCalendarRequest(w, httptest.NewRequest(http.MethodGet, config.RouteCalendar, nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, config.RetryAfterSeconds, w.Header().Get(config.HeaderRetryAfter))
}

func TestRefresh_BuildsFeedFromStore(t *testing.T) {
	srv := newTestServer("")
	require.NoError(t, srv.Refresh(context.Background()))

	item := srv.cache.Load()
	require.NotNil(t, item)
	assert.Contains(t, string(item.data), "BEGIN:VEVENT")
	assert.Contains(t, string(item.data), "Priya Raman")
}

func TestMutations_RequestRefresh(t *testing.T) {
	srv := newTestServer("")
	h := srv.Handler()

	req := httptest.NewRequest(http.MethodDelete, config.RouteAPI+config.RouteEmployees+"/2", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)

	select {
	case <-srv.refresh:
	default:
		t.Fatal("a successful mutation must schedule a feed refresh")
	}

	// Pending requests coalesce instead of blocking.
	srv.requestRefresh()
	srv.requestRefresh()
	assert.Len(t, srv.refresh, 1)
}

// TestServer_RaceCondition exercises the atomic cache under concurrent
// writers and readers; run with -race.
func TestServer_RaceCondition(t *testing.T) {
	srv := newTestServer("")
	var wg sync.WaitGroup
	end := time.Now().Add(300 * time.Millisecond)

	for w := 0; w < 5; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; time.Now().Before(end); i++ {
				srv.Update([]byte(fmt.Sprintf("VERSION:%d-%d", id, i)))
				time.Sleep(time.Microsecond)
			}
		}(w)
	}

	for r := 0; r < 20; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) {
				w := httptest.NewRecorder()
				srv.handleCalendarRequest(w, httptest.NewRequest(http.MethodGet, config.RouteCalendar, nil))
				if w.Code != http.StatusOK && w.Code != http.StatusServiceUnavailable {
					t.Errorf("unexpected status code during race test: %d", w.Code)
				}
			}
		}()
	}

	wg.Wait()
}

func TestServer_Lifecycle(t *testing.T) {
	const addr = "127.0.0.1:18099"

	srv := newTestServer(addr)
	ctx, cancel := context.WithCancel(context.Background())
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start(ctx)
	}()

	url := "http://" + addr + config.RouteCalendar

	// The worker refreshes on start, so the feed becomes available on its own.
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 3*time.Second, 50*time.Millisecond, "server failed to serve the feed in time")

	resp, err := http.Get(url)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, config.MimeTextCalendar, resp.Header.Get(config.HeaderContentType))
	assert.Contains(t, string(body), "BEGIN:VCALENDAR")

	cancel()
	select {
	case err := <-errChan:
		assert.NoError(t, err, "server should shut down gracefully")
	case <-time.After(config.ShutdownTimeout + time.Second):
		t.Fatal("server shutdown timed out")
	}
}

func TestServer_StartRequiresAddr(t *testing.T) {
	err := newTestServer("").Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrListenRequired)
}
