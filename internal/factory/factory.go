package factory

import (
	"io"
	"log/slog"

	"github.com/mcoot/countnum/internal/dependencies/clock"
	"github.com/mcoot/countnum/internal/dependencies/random"
	"github.com/mcoot/countnum/internal/services/room"
	"github.com/mcoot/countnum/internal/storage"
	"github.com/mcoot/countnum/internal/storage/memory"
	redisstorage "github.com/mcoot/countnum/internal/storage/redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	RoomController *room.Controller
	Janitor        *room.Janitor

	// RateCounter backs request rate limiting; nil when no Redis is configured
	RateCounter *redisstorage.Counter

	Logger *slog.Logger
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// Janitor controls expired room cleanup
	// Zero values fall back to room.DefaultJanitorConfig()
	Janitor room.JanitorConfig
	// RedisConfig enables the Redis-backed rate limit counter (optional)
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	app := newWithDependencies(memory.New(), clock.New(), random.New(), cfg.Janitor, logger)

	if cfg.RedisConfig != nil {
		counter, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		app.RateCounter = counter
	}

	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, janitorCfg room.JanitorConfig, logger *slog.Logger) *App {
	roomController := room.NewController(store, clk, rnd, logger)
	janitor := room.NewJanitor(roomController, janitorCfg, logger)

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		RoomController: roomController,
		Janitor:        janitor,
		Logger:         logger,
	}
}

// Counter returns the rate limit counter as an interface, or nil when disabled
func (a *App) Counter() storage.Counter {
	if a.RateCounter == nil {
		return nil
	}
	return a.RateCounter
}

// Close releases external connections
func (a *App) Close() error {
	if a.RateCounter != nil {
		return a.RateCounter.Close()
	}
	return nil
}
