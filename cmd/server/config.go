package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mcoot/countnum/internal/middleware"
)

const defaultCORSOrigins = "http://localhost:5173,https://pyy-space.github.io"

// Config holds server settings from flags and COUNTNUM_* environment variables
type Config struct {
	bind            string
	port            int
	corsOrigins     string
	joinURL         string
	cleanupInterval time.Duration
	roomMaxAge      time.Duration
	redisURL        string
	rateLimit       int
	rateWindow      time.Duration
	trustedProxies  string
	logLevel        string
	shutdownTimeout time.Duration
}

func (c *Config) validate() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.cleanupInterval <= 0 {
		return errors.New("--cleanup-interval must be positive")
	}
	if c.roomMaxAge <= 0 {
		return errors.New("--room-max-age must be positive")
	}
	if c.rateLimit < 0 {
		return errors.New("--rate-limit must not be negative")
	}
	if c.rateLimit > 0 && c.rateWindow <= 0 {
		return errors.New("--rate-window must be positive when rate limiting is enabled")
	}
	if c.joinURL != "" {
		u, err := url.Parse(c.joinURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid --join-url: %q", c.joinURL)
		}
	}
	if _, err := middleware.ParseTrustedProxies(c.trustedProxies); err != nil {
		return fmt.Errorf("invalid --trusted-proxies: %w", err)
	}
	if _, err := c.level(); err != nil {
		return err
	}
	return nil
}

func (c *Config) level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.logLevel)); err != nil {
		return 0, fmt.Errorf("invalid --log-level %q: %w", c.logLevel, err)
	}
	return level, nil
}

// rateLimited reports whether requests should be counted in Redis
func (c *Config) rateLimited() bool {
	return c.redisURL != "" && c.rateLimit > 0
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("COUNTNUM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "countnum-server",
		Short:         "Multiplayer score keeping API server.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: COUNTNUM_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 3000, "port to listen on (env: COUNTNUM_PORT, PORT)")
	fs.StringVar(&cfg.corsOrigins, "cors-origins", defaultCORSOrigins, "comma separated browser origins allowed to call the API, or * (env: COUNTNUM_CORS_ORIGINS, CORS_ORIGINS)")
	fs.StringVar(&cfg.joinURL, "join-url", "", "client page encoded into room QR codes (env: COUNTNUM_JOIN_URL)")
	fs.DurationVar(&cfg.cleanupInterval, "cleanup-interval", time.Hour, "how often expired rooms are removed (env: COUNTNUM_CLEANUP_INTERVAL)")
	fs.DurationVar(&cfg.roomMaxAge, "room-max-age", 24*time.Hour, "age after which rooms are removed (env: COUNTNUM_ROOM_MAX_AGE)")
	fs.StringVar(&cfg.redisURL, "redis-url", "", "Redis URL for per-client rate limiting; empty disables it (env: COUNTNUM_REDIS_URL)")
	fs.IntVar(&cfg.rateLimit, "rate-limit", 120, "requests allowed per client per window (env: COUNTNUM_RATE_LIMIT)")
	fs.DurationVar(&cfg.rateWindow, "rate-window", time.Minute, "rate limit window (env: COUNTNUM_RATE_WINDOW)")
	fs.StringVar(&cfg.trustedProxies, "trusted-proxies", "", "comma separated proxy IPs or CIDRs whose X-Forwarded-For is believed (env: COUNTNUM_TRUSTED_PROXIES)")
	fs.StringVar(&cfg.logLevel, "log-level", "info", "log level: debug, info, warn, error (env: COUNTNUM_LOG_LEVEL)")
	fs.DurationVar(&cfg.shutdownTimeout, "shutdown-timeout", 30*time.Second, "grace period for in-flight requests on shutdown (env: COUNTNUM_SHUTDOWN_TIMEOUT)")

	// Unprefixed names kept for existing deployments
	_ = v.BindEnv("port", "COUNTNUM_PORT", "PORT")
	_ = v.BindEnv("cors-origins", "COUNTNUM_CORS_ORIGINS", "CORS_ORIGINS")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		if f.Name != "port" && f.Name != "cors-origins" {
			_ = v.BindEnv(f.Name)
		}
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
