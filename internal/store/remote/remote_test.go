package remote_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-celebrations/internal/config"
	"github.com/tartampluch/go-celebrations/internal/engine"
	"github.com/tartampluch/go-celebrations/internal/store"
	"github.com/tartampluch/go-celebrations/internal/store/remote"
	"github.com/zalando/go-keyring"
)

func newStore(t *testing.T, h http.HandlerFunc, user string) *remote.Store {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	s, err := remote.New(config.RemoteSettings{BaseURL: ts.URL + "/api", User: user})
	require.NoError(t, err)
	return s
}

func TestNew_RejectsScheme(t *testing.T) {
	_, err := remote.New(config.RemoteSettings{BaseURL: "ftp://example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrProtocol)
}

func TestStore_List(t *testing.T) {
	keyring.MockInit()
	require.NoError(t, keyring.Set(config.KeyringService, "hr-bot", "s3cret"))

	s := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/employees", r.URL.Path)
		assert.Equal(t, "Bearer s3cret", r.Header.Get(config.HeaderAuthorization))
		assert.Equal(t, config.UserAgent, r.Header.Get(config.HeaderUserAgent))
		_ = json.NewEncoder(w).Encode([]engine.Employee{
			{ID: "10", Name: "Ten", Birthday: "1990-01-10", JoinDate: "2020-01-10"},
			{ID: "2", Name: "Two", Birthday: "1992-02-02", JoinDate: "2021-02-02"},
		})
	}, "hr-bot")

	list, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2", list[0].ID)
}

func TestStore_AnonymousWhenTokenMissing(t *testing.T) {
	keyring.MockInit()

	s := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get(config.HeaderAuthorization))
		_, _ = w.Write([]byte("[]"))
	}, "nobody")

	list, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStore_LogsErrorStatus(t *testing.T) {
	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&logs, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	s := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}, "")

	_, err := s.List(context.Background())
	require.Error(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(logs.Bytes(), &entry), logs.String())
	assert.Equal(t, config.MsgRemoteStatus, entry["msg"])
	assert.Equal(t, config.CompRemote, entry[config.LogKeyComponent])
	assert.EqualValues(t, http.StatusInternalServerError, entry[config.LogKeyStatus])
}

func TestStore_Add(t *testing.T) {
	in := engine.EmployeeInput{Name: "Jane", Birthday: "1990-04-01", JoinDate: "2021-06-15"}

	t.Run("created", func(t *testing.T) {
		s := newStore(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, config.MimeJSON, r.Header.Get(config.HeaderContentType))

			var got engine.EmployeeInput
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(got.Build("abc", time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC)))
		}, "")

		emp, err := s.Add(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, "abc", emp.ID)
		assert.Equal(t, "Jane", emp.Name)
	})

	t.Run("conflict", func(t *testing.T) {
		s := newStore(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
		}, "")

		_, err := s.Add(context.Background(), in)
		assert.ErrorIs(t, err, store.ErrDuplicateID)
	})

	t.Run("server error", func(t *testing.T) {
		s := newStore(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}, "")

		_, err := s.Add(context.Background(), in)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "503")
	})

	t.Run("invalid input is rejected locally", func(t *testing.T) {
		s := newStore(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Fail(t, "no request expected")
		}, "")

		_, err := s.Add(context.Background(), engine.EmployeeInput{Name: "Jane", Birthday: "soon", JoinDate: "2021-06-15"})
		assert.ErrorIs(t, err, engine.ErrInvalidDate)
	})
}

func TestStore_Remove(t *testing.T) {
	s := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		if r.URL.Path == "/api/employees/7" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}, "")

	require.NoError(t, s.Remove(context.Background(), "7"))
	assert.ErrorIs(t, s.Remove(context.Background(), "8"), store.ErrNotFound)
}
