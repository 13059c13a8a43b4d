// Package remote talks to an HTTP document store holding employee records.
//
// The API is a plain JSON collection rooted at <base_url>/employees: GET
// lists, POST creates (201), DELETE /employees/{id} removes. When a user is
// configured, its bearer token is read from the OS keyring.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/tartampluch/go-celebrations/internal/config"
	"github.com/tartampluch/go-celebrations/internal/engine"
	"github.com/tartampluch/go-celebrations/internal/store"
	"github.com/zalando/go-keyring"
)

// Store implements store.Store against the remote collection.
type Store struct {
	Client  *http.Client
	baseURL *url.URL
	user    string
	log     *slog.Logger
}

// New validates settings and returns a client for the remote collection.
func New(cfg config.RemoteSettings) (*Store, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}
	if u.Scheme != config.SchemeHTTP && u.Scheme != config.SchemeHTTPS {
		return nil, fmt.Errorf("%s: %s", config.ErrProtocol, u.Scheme)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultRemoteTimeout
	}

	// Query parameters may carry credentials; keep them out of logs.
	safeURL := u.Scheme + "://" + u.Host + u.Path
	return &Store{
		Client:  &http.Client{Timeout: timeout},
		baseURL: u,
		user:    cfg.User,
		log: slog.With(
			slog.String(config.LogKeyComponent, config.CompRemote),
			slog.String(config.LogKeyURL, safeURL),
		),
	}, nil
}

func (s *Store) List(ctx context.Context) ([]engine.Employee, error) {
	resp, err := s.do(ctx, http.MethodGet, s.endpoint(), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, s.statusError(resp)
	}

	var out []engine.Employee
	if err := json.NewDecoder(io.LimitReader(resp.Body, config.MaxHTTPResponseSize)).Decode(&out); err != nil {
		return nil, fmt.Errorf("remote: decode employees: %w", err)
	}
	store.SortByID(out)
	return out, nil
}

func (s *Store) Add(ctx context.Context, in engine.EmployeeInput) (engine.Employee, error) {
	if err := in.Validate(); err != nil {
		return engine.Employee{}, err
	}
	body, err := json.Marshal(in)
	if err != nil {
		return engine.Employee{}, fmt.Errorf("remote: encode employee: %w", err)
	}

	resp, err := s.do(ctx, http.MethodPost, s.endpoint(), body)
	if err != nil {
		return engine.Employee{}, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated, http.StatusOK:
	case http.StatusConflict:
		return engine.Employee{}, store.ErrDuplicateID
	default:
		return engine.Employee{}, s.statusError(resp)
	}

	var emp engine.Employee
	if err := json.NewDecoder(io.LimitReader(resp.Body, config.MaxHTTPResponseSize)).Decode(&emp); err != nil {
		return engine.Employee{}, fmt.Errorf("remote: decode employee: %w", err)
	}
	return emp, nil
}

func (s *Store) Remove(ctx context.Context, id string) error {
	resp, err := s.do(ctx, http.MethodDelete, s.endpoint(id), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return store.ErrNotFound
	default:
		return s.statusError(resp)
	}
}

func (s *Store) endpoint(id ...string) string {
	return s.baseURL.JoinPath(append([]string{config.RemoteEmployeesPath}, id...)...).String()
}

func (s *Store) do(ctx context.Context, method, target string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("remote: create request: %w", err)
	}
	req.Header.Set(config.HeaderUserAgent, config.UserAgent)
	req.Header.Set(config.HeaderAccept, config.MimeJSON)
	if body != nil {
		req.Header.Set(config.HeaderContentType, config.MimeJSON)
	}
	if token := s.token(); token != "" {
		req.Header.Set(config.HeaderAuthorization, config.BearerPrefix+token)
	}

	s.log.Debug(config.MsgRemoteRequest, slog.String(config.LogKeyMethod, method))
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote: network error: %w", err)
	}
	return resp, nil
}

// token returns the keyring secret for the configured user, or "" when
// anonymous or the lookup fails.
func (s *Store) token() string {
	if s.user == "" {
		return ""
	}
	token, err := keyring.Get(config.KeyringService, s.user)
	if err != nil {
		s.log.Warn(config.ErrTokenLookup,
			slog.String(config.LogKeyUser, s.user),
			slog.Any(config.LogKeyError, err),
		)
		return ""
	}
	return token
}

func (s *Store) statusError(resp *http.Response) error {
	s.log.Warn(config.MsgRemoteStatus, slog.Int(config.LogKeyStatus, resp.StatusCode))
	return fmt.Errorf("remote: unexpected status: %s", resp.Status)
}
