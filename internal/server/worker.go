package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tartampluch/go-celebrations/internal/config"
)

// Refresh regenerates the feed from the current store snapshot.
func (s *Server) Refresh(ctx context.Context) error {
	start := time.Now()

	employees, err := s.Store.List(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrStoreList, err)
	}
	feed, err := s.Calendar.Generate(ctx, employees, s.Clock.Now())
	if err != nil {
		return err
	}
	s.Update(feed.Data)

	slog.Info(config.MsgRefreshDone,
		config.LogKeyComponent, config.CompWorker,
		config.LogKeyEvents, feed.Events,
		config.LogKeySkipped, feed.Skipped,
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)
	return nil
}

// requestRefresh schedules a rebuild without blocking; pending requests coalesce.
func (s *Server) requestRefresh() {
	select {
	case s.refresh <- struct{}{}:
	default:
	}
}

// runWorker refreshes once immediately, then on every tick and mutation.
func (s *Server) runWorker(ctx context.Context) {
	slog.Info(config.MsgWorkerStart,
		config.LogKeyComponent, config.CompWorker,
		config.LogKeyInterval, s.RefreshInterval.String(),
	)

	ticker := time.NewTicker(s.RefreshInterval)
	defer ticker.Stop()

	s.refreshAndLog(ctx)
	for {
		select {
		case <-ctx.Done():
			slog.Info(config.MsgWorkerStop, config.LogKeyComponent, config.CompWorker)
			return
		case <-ticker.C:
			s.refreshAndLog(ctx)
		case <-s.refresh:
			s.refreshAndLog(ctx)
		}
	}
}

func (s *Server) refreshAndLog(ctx context.Context) {
	if err := s.Refresh(ctx); err != nil && ctx.Err() == nil {
		slog.Error(config.ErrRefreshFailed,
			config.LogKeyComponent, config.CompWorker,
			config.LogKeyError, err,
		)
	}
}
