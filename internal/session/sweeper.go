package session

import (
	"context"
	"fmt"
	"time"

	"github.com/Gor-Tutyan/qr-scaner/internal/logger"
	"github.com/Gor-Tutyan/qr-scaner/internal/metrics"
)

// Sweeper removes stale sessions on a fixed interval, independent of the
// request path. It never stops on its own: a panicking sweep is logged and
// the schedule keeps running.
type Sweeper struct {
	store    Store
	interval time.Duration
	maxAge   time.Duration
}

func NewSweeper(store Store, interval, maxAge time.Duration) *Sweeper {
	return &Sweeper{
		store:    store,
		interval: interval,
		maxAge:   maxAge,
	}
}

// Run blocks until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("session sweep panicked", map[string]any{
				"panic": fmt.Sprint(rec),
			})
		}
	}()

	removed, err := s.store.Sweep(ctx, s.maxAge)
	if err != nil {
		logger.Error("session sweep failed", map[string]any{
			"error": err.Error(),
		})
		return
	}

	if removed > 0 {
		metrics.SessionsSwept.Add(float64(removed))
		metrics.SessionsLive.Sub(float64(removed))
		logger.Debug("session sweep", map[string]any{
			"removed": removed,
		})
	}
}
