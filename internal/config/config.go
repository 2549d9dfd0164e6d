package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	UpstreamBaseURL     string
	UpstreamUser        string
	UpstreamPass        string
	UpstreamInsecureTLS bool

	GeoDBPath  string
	DBPath     string
	ServerPort string
	LogLevel   string

	// RefTimezone is the timezone snapshot days are bucketed in.
	RefTimezone *time.Location

	CaptureEnabled  bool
	CaptureInterval time.Duration
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		UpstreamBaseURL:     getEnv("UPSTREAM_BASE_URL", ""),
		UpstreamUser:        getEnv("UPSTREAM_USER", ""),
		UpstreamPass:        getEnv("UPSTREAM_PASS", ""),
		UpstreamInsecureTLS: getBool("UPSTREAM_INSECURE_TLS", false),
		GeoDBPath:           getEnv("GEODB_PATH", ""),
		DBPath:              getEnv("DB_PATH", "frontline.db"),
		ServerPort:          getEnv("SERVER_PORT", "8080"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		CaptureEnabled:      getBool("CAPTURE_ENABLED", true),
		CaptureInterval:     getDuration("CAPTURE_INTERVAL", 24*time.Hour),
	}

	if cfg.UpstreamBaseURL == "" {
		return nil, fmt.Errorf("UPSTREAM_BASE_URL is required")
	}

	tz := getEnv("REF_TIMEZONE", "UTC")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid REF_TIMEZONE %q: %w", tz, err)
	}
	cfg.RefTimezone = loc

	logger.Info().
		Str("upstream_base_url", cfg.UpstreamBaseURL).
		Str("db_path", cfg.DBPath).
		Str("geodb_path", cfg.GeoDBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Str("ref_timezone", tz).
		Bool("capture_enabled", cfg.CaptureEnabled).
		Dur("capture_interval", cfg.CaptureInterval).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

var Module = fx.Provide(Load)
