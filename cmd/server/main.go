package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mcoot/countnum/internal/api"
	"github.com/mcoot/countnum/internal/factory"
	"github.com/mcoot/countnum/internal/middleware"
	"github.com/mcoot/countnum/internal/services/room"
	redisstorage "github.com/mcoot/countnum/internal/storage/redis"
)

func main() {
	cfg := &Config{}
	cobra.CheckErr(newCmd(cfg).Execute())
}

func serve(ctx context.Context, cfg *Config) error {
	level, err := cfg.level()
	if err != nil {
		return err
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	factoryCfg := factory.Config{
		Logger: logger,
		Janitor: room.JanitorConfig{
			Interval: cfg.cleanupInterval,
			MaxAge:   cfg.roomMaxAge,
		},
	}

	trustedProxies, err := middleware.ParseTrustedProxies(cfg.trustedProxies)
	if err != nil {
		return err
	}

	// Configure Redis only when rate limiting is on
	if cfg.rateLimited() {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.redisURL
		factoryCfg.RedisConfig = &redisCfg
	}

	// Create application factory
	app, err := factory.New(factoryCfg)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	defer func() { _ = app.Close() }()

	// Create API router
	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		RoomController: app.RoomController,
		Clock:          app.Clock,
		CORSOrigins:    middleware.ParseOrigins(cfg.corsOrigins),
		JoinURL:        cfg.joinURL,
		RateCounter:    app.Counter(),
		RateLimit: middleware.RateLimitConfig{
			Requests:       cfg.rateLimit,
			Window:         cfg.rateWindow,
			TrustedProxies: trustedProxies,
		},
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.bind
	serverConfig.Port = cfg.port
	serverConfig.ShutdownTimeout = cfg.shutdownTimeout
	server := api.NewServer(router, serverConfig, logger)

	ln, err := net.Listen("tcp", server.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", server.Addr(), err)
	}

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go app.Janitor.Run(ctx)

	logger.Info("server started",
		slog.String("addr", ln.Addr().String()),
		slog.Bool("rate_limited", cfg.rateLimited()),
	)

	if err := server.Run(ctx, ln); err != nil {
		return err
	}

	logger.Info("server stopped")
	return nil
}
