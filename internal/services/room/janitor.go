package room

import (
	"context"
	"log/slog"
	"time"
)

// JanitorConfig controls how often old rooms are swept and how old they must be
type JanitorConfig struct {
	Interval time.Duration
	MaxAge   time.Duration
}

// DefaultJanitorConfig sweeps hourly and removes rooms older than a day
func DefaultJanitorConfig() JanitorConfig {
	return JanitorConfig{
		Interval: time.Hour,
		MaxAge:   DefaultMaxAge,
	}
}

// Janitor periodically removes expired rooms through the controller
type Janitor struct {
	controller *Controller
	cfg        JanitorConfig
	logger     *slog.Logger
}

// NewJanitor creates a Janitor; zero config values fall back to the defaults
func NewJanitor(controller *Controller, cfg JanitorConfig, logger *slog.Logger) *Janitor {
	defaults := DefaultJanitorConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = defaults.Interval
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = defaults.MaxAge
	}
	return &Janitor{
		controller: controller,
		cfg:        cfg,
		logger:     logger,
	}
}

// Run sweeps on every tick until ctx is cancelled
func (j *Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.cfg.Interval)
	defer ticker.Stop()

	j.logger.Info("room janitor started",
		slog.Duration("interval", j.cfg.Interval),
		slog.Duration("max_age", j.cfg.MaxAge),
	)

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("room janitor stopped")
			return
		case <-ticker.C:
			j.Sweep(ctx)
		}
	}
}

// Sweep runs a single cleanup pass
func (j *Janitor) Sweep(ctx context.Context) int {
	removed, err := j.controller.CleanupOldRooms(ctx, j.cfg.MaxAge)
	if err != nil {
		j.logger.Error("room cleanup failed", slog.String("error", err.Error()))
		return removed
	}
	remaining, err := j.controller.RoomCount(ctx)
	if err != nil {
		j.logger.Warn("room count after cleanup failed",
			slog.Int("removed", removed),
			slog.String("error", err.Error()),
		)
		return removed
	}
	j.logger.Debug("room cleanup pass",
		slog.Int("removed", removed),
		slog.Int("remaining", remaining),
	)
	return removed
}
