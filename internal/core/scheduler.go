package core

// scheduler.go provides background scheduling for maintenance tasks.
//
// Currently implements history retention: entries older than the
// retention window are purged from the history store. The scheduler is
// long-running and context-aware for graceful shutdown; failed purges are
// logged and retried on the next tick.

import (
	"context"
	"log/slog"
	"time"
)

// PurgeConfig holds configuration for the history purge scheduler.
// Zero values fall back to the defaults.
type PurgeConfig struct {
	RetentionDays int           // Days to keep history (default: 90)
	Interval      time.Duration // How often to run (default: 24h)
}

func (c PurgeConfig) withDefaults() PurgeConfig {
	if c.RetentionDays <= 0 {
		c.RetentionDays = 90
	}
	if c.Interval <= 0 {
		c.Interval = 24 * time.Hour
	}
	return c
}

// StartHistoryPurge periodically deletes history entries older than the
// retention window. It runs immediately on start, then every Interval,
// and returns when ctx is cancelled.
func (s *Service) StartHistoryPurge(ctx context.Context, cfg PurgeConfig) {
	cfg = cfg.withDefaults()
	slog.Info("history purge scheduler started",
		"retention_days", cfg.RetentionDays,
		"interval", cfg.Interval.String(),
	)

	s.runPurge(ctx, cfg)

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("history purge scheduler stopped")
			return
		case <-ticker.C:
			s.runPurge(ctx, cfg)
		}
	}
}

// runPurge performs one purge cycle.
func (s *Service) runPurge(ctx context.Context, cfg PurgeConfig) {
	start := time.Now()
	cutoff := start.AddDate(0, 0, -cfg.RetentionDays)

	purged, err := s.store.Purge(ctx, cutoff)
	if err != nil {
		slog.Error("history purge failed", "error", err)
		return
	}
	slog.Info("purged old history entries",
		"entries_purged", purged,
		"cutoff", cutoff.Format(time.RFC3339),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
