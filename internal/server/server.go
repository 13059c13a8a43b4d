// Package server exposes the celebration engine over HTTP: a JSON API, CSV
// report downloads and a cached iCalendar feed kept fresh by a background
// worker.
package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/tartampluch/go-celebrations/internal/config"
	"github.com/tartampluch/go-celebrations/internal/engine"
	"github.com/tartampluch/go-celebrations/internal/report"
	"github.com/tartampluch/go-celebrations/internal/store"
)

// cacheItem stores the rendered calendar and its metadata for HTTP caching.
type cacheItem struct {
	data         []byte
	etag         string
	lastModified string // RFC1123 format required by HTTP headers
}

// Config wires the server to its collaborators.
type Config struct {
	Addr            string
	AllowedOrigins  []string
	RefreshInterval time.Duration

	Store    store.Store
	Clock    engine.Clock
	Calendar report.Calendar
	Reports  report.Builder
	// Upcoming renders the /api/upcoming details; HorizonDays is its default window.
	Upcoming    engine.Upcoming
	HorizonDays int
}

// Server serves the API and the calendar feed.
type Server struct {
	Config

	// cache uses atomic.Pointer for lock-free reads on the hot feed path.
	cache   atomic.Pointer[cacheItem]
	refresh chan struct{}
}

// New creates a server; call Start to listen.
func New(cfg Config) *Server {
	if cfg.Clock == nil {
		cfg.Clock = engine.RealClock{}
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = config.DefaultRefreshInterval
	}
	if cfg.HorizonDays <= 0 {
		cfg.HorizonDays = config.DefaultHorizonDays
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = config.DefaultAllowedOrigins
	}
	return &Server{
		Config:  cfg,
		refresh: make(chan struct{}, config.ChannelBufferSize),
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  slog.NewLogLogger(slog.Default().Handler(), slog.LevelInfo),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{config.HeaderAccept, config.HeaderContentType, config.HeaderIfNoneMatch, config.HeaderIfModifiedSince},
	}))

	r.HandleFunc(config.RouteCalendar, s.handleCalendarRequest)
	r.Get(config.RouteReport, s.handleReport)

	r.Route(config.RouteAPI, func(r chi.Router) {
		r.Route(config.RouteEmployees, func(r chi.Router) {
			r.Get("/", s.handleListEmployees)
			r.Post("/", s.handleAddEmployee)
			r.Delete(config.RouteEmployeeID, s.handleRemoveEmployee)
		})
		r.Get(config.RouteCelebrations, s.handleCelebrations)
		r.Get(config.RouteUpcoming, s.handleUpcoming)
		r.Get(config.RouteMonth, s.handleMonth)
		r.Get(config.RouteStats, s.handleStats)
		r.Get(config.RouteDepartments, s.handleDepartments)
	})
	return r
}

// Start runs the refresh worker and the HTTP server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if s.Addr == "" {
		return errors.New(config.ErrListenRequired)
	}

	srv := &http.Server{
		Addr:         s.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	workerCtx, stopWorker := context.WithCancel(ctx)
	defer stopWorker()
	go s.runWorker(workerCtx)

	serverError := make(chan error, config.ChannelBufferSize)
	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyAddr, s.Addr,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// Update atomically replaces the served feed.
func (s *Server) Update(data []byte) {
	hash := sha256.Sum256(data)
	etag := fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:]))

	s.cache.Store(&cacheItem{
		data:         data,
		etag:         etag,
		lastModified: time.Now().UTC().Format(http.TimeFormat),
	})

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(data),
		config.LogKeyETag, etag,
	)
}

// handleCalendarRequest serves the ICS content with HTTP caching support.
func (s *Server) handleCalendarRequest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set(config.HeaderAllow, config.AllowedMethods)
		http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
		return
	}

	item := s.cache.Load()
	if item == nil {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
		return
	}

	w.Header().Set(config.HeaderContentType, config.MimeTextCalendar)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	w.Header().Set(config.HeaderETag, item.etag)
	w.Header().Set(config.HeaderLastModified, item.lastModified)

	if match := r.Header.Get(config.HeaderIfNoneMatch); match == item.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	if notModifiedSince(r.Header.Get(config.HeaderIfModifiedSince), item.lastModified) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if r.Method == http.MethodGet {
		if _, err := io.Copy(w, bytes.NewReader(item.data)); err != nil {
			slog.Error(config.ErrWriteResp,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
		}
	}
}

func notModifiedSince(since, lastModified string) bool {
	if since == "" {
		return false
	}
	clientTime, err := time.Parse(http.TimeFormat, since)
	if err != nil {
		return false
	}
	serverTime, err := time.Parse(http.TimeFormat, lastModified)
	if err != nil {
		return false
	}
	return !serverTime.After(clientTime)
}
