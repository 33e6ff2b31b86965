// Package config provides configuration loading from environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Static errors for configuration validation.
var (
	// ErrInvalidPort is returned when PORT is outside 1-65535.
	ErrInvalidPort = errors.New("config: PORT must be between 1 and 65535")
	// ErrInvalidEngineTimeout is returned when ENGINE_TIMEOUT_SEC is not positive.
	ErrInvalidEngineTimeout = errors.New("config: ENGINE_TIMEOUT_SEC must be positive")
	// ErrInvalidMusicTimeout is returned when MUSIC_FETCH_TIMEOUT_SEC is not positive.
	ErrInvalidMusicTimeout = errors.New("config: MUSIC_FETCH_TIMEOUT_SEC must be positive")
	// ErrInvalidMusicMaxBytes is returned when MUSIC_MAX_BYTES is not positive.
	ErrInvalidMusicMaxBytes = errors.New("config: MUSIC_MAX_BYTES must be positive")
	// ErrInvalidMaxFrames is returned when MAX_FRAMES is outside 1-1000.
	ErrInvalidMaxFrames = errors.New("config: MAX_FRAMES must be between 1 and 1000")
	// ErrS3RegionRequired is returned when S3_BUCKET is set without S3_REGION.
	ErrS3RegionRequired = errors.New("config: S3_REGION is required when S3_BUCKET is set")
	// ErrInvalidLogFormat is returned when LOG_FORMAT is neither text nor json.
	ErrInvalidLogFormat = errors.New("config: LOG_FORMAT must be text or json")
)

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	Port int `env:"PORT, default=8080" json:"port"`

	// Working directories; the engine and saved renders live below TempDir.
	TempDir string `env:"TEMP_DIR, default=/tmp/showreel" json:"temp_dir"`

	// Engine settings
	FFmpegPath       string `env:"FFMPEG_PATH, default=ffmpeg" json:"ffmpeg_path"`
	EngineTimeoutSec int    `env:"ENGINE_TIMEOUT_SEC, default=900" json:"engine_timeout_sec"`
	MaxFrames        int    `env:"MAX_FRAMES, default=32" json:"max_frames"`

	// Background music settings
	MusicFetchTimeoutSec int   `env:"MUSIC_FETCH_TIMEOUT_SEC, default=30" json:"music_fetch_timeout_sec"`
	MusicMaxBytes        int64 `env:"MUSIC_MAX_BYTES, default=52428800" json:"music_max_bytes"`

	// Optional S3 settings
	S3Bucket           string `env:"S3_BUCKET" json:"s3_bucket,omitempty"`
	S3Region           string `env:"S3_REGION" json:"s3_region,omitempty"`
	S3Endpoint         string `env:"S3_ENDPOINT" json:"s3_endpoint,omitempty"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID" json:"-"`     // Masked in JSON
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" json:"-"` // Masked in JSON

	// Logging settings
	LogFormat string `env:"LOG_FORMAT, default=text" json:"log_format"` // "json" or "text"
	LogLevel  string `env:"LOG_LEVEL, default=info" json:"log_level"`   // "debug", "info", "warn", "error"

	MetricsEnabled bool `env:"METRICS_ENABLED, default=true" json:"metrics_enabled"`
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	return load(context.Background(), envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	cfg := &Config{}
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and combinations.
func (c *Config) Validate() error {
	switch {
	case c.Port < 1 || c.Port > 65535:
		return ErrInvalidPort
	case c.EngineTimeoutSec <= 0:
		return ErrInvalidEngineTimeout
	case c.MusicFetchTimeoutSec <= 0:
		return ErrInvalidMusicTimeout
	case c.MusicMaxBytes <= 0:
		return ErrInvalidMusicMaxBytes
	case c.MaxFrames < 1 || c.MaxFrames > 1000:
		return ErrInvalidMaxFrames
	case c.S3Bucket != "" && c.S3Region == "":
		return ErrS3RegionRequired
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return ErrInvalidLogFormat
	}
	return nil
}

// S3Enabled returns true if S3 configuration is provided.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != "" && c.S3Region != ""
}

// EngineDir is the media engine's working directory.
func (c *Config) EngineDir() string {
	return filepath.Join(c.TempDir, "engine")
}

// RendersDir is where finished renders are saved.
func (c *Config) RendersDir() string {
	return filepath.Join(c.TempDir, "renders")
}

// EngineTimeout bounds a single encode.
func (c *Config) EngineTimeout() time.Duration {
	return time.Duration(c.EngineTimeoutSec) * time.Second
}

// MusicFetchTimeout bounds a background music download.
func (c *Config) MusicFetchTimeout() time.Duration {
	return time.Duration(c.MusicFetchTimeoutSec) * time.Second
}

// NewLogger creates a structured logger writing to stdout.
// When LogFormat is "json", it outputs JSON logs suitable for production.
// Otherwise, it outputs human-readable text logs.
func (c *Config) NewLogger() *slog.Logger {
	return c.newLogger(os.Stdout)
}

func (c *Config) newLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(c.LogLevel)}

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// String returns a string representation of the config with sensitive values masked.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Port: %d, TempDir: %s, FFmpegPath: %s, EngineTimeoutSec: %d, MaxFrames: %d, MusicFetchTimeoutSec: %d, MusicMaxBytes: %d, S3Bucket: %s, S3Region: %s, S3Endpoint: %s, LogFormat: %s, LogLevel: %s, MetricsEnabled: %t}",
		c.Port,
		c.TempDir,
		c.FFmpegPath,
		c.EngineTimeoutSec,
		c.MaxFrames,
		c.MusicFetchTimeoutSec,
		c.MusicMaxBytes,
		c.S3Bucket,
		c.S3Region,
		c.S3Endpoint,
		c.LogFormat,
		c.LogLevel,
		c.MetricsEnabled,
	)
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
