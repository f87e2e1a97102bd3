// Package config loads rpg-sheet settings from SHEET_* environment variables
package config

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

// Remote backends
const (
	RemoteNone      = "none"
	RemoteRedis     = "redis"
	RemoteFirestore = "firestore"
)

// Image stores
const (
	ImagesNone = "none"
	ImagesGCS  = "gcs"
	ImagesS3   = "s3"
)

// Log formats
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// DefaultLocalMaxBytes matches the usual browser storage quota
const DefaultLocalMaxBytes = 5 * 1024 * 1024

// MaxRedisDB is the highest database index a default redis server has
const MaxRedisDB = 15

// Config is the full runtime configuration
type Config struct {
	LogLevel  string `env:"SHEET_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"SHEET_LOG_FORMAT" envDefault:"text"`

	LocalPath     string `env:"SHEET_LOCAL_PATH" envDefault:"rpg-sheet.db"`
	LocalMaxBytes int    `env:"SHEET_LOCAL_MAX_BYTES" envDefault:"5242880"`

	// UID signs in as this identity at startup; empty stays anonymous
	UID string `env:"SHEET_UID"`

	Remote string `env:"SHEET_REMOTE" envDefault:"none"`

	RedisAddrs    []string `env:"SHEET_REDIS_ADDRS" envSeparator:"," envDefault:"localhost:6379"`
	RedisMaster   string   `env:"SHEET_REDIS_MASTER"`
	RedisPassword string   `env:"SHEET_REDIS_PASSWORD"`
	RedisDB       int      `env:"SHEET_REDIS_DB"`
	RedisTLS      bool     `env:"SHEET_REDIS_TLS"`

	FirestoreProject string `env:"SHEET_FIRESTORE_PROJECT"`

	Images string `env:"SHEET_IMAGES" envDefault:"none"`

	GCSBucket string `env:"SHEET_GCS_BUCKET"`

	S3Bucket    string `env:"SHEET_S3_BUCKET"`
	S3Region    string `env:"SHEET_S3_REGION" envDefault:"us-east-1"`
	S3Endpoint  string `env:"SHEET_S3_ENDPOINT"`
	S3AccessKey string `env:"SHEET_S3_ACCESS_KEY"`
	S3SecretKey string `env:"SHEET_S3_SECRET_KEY"`
	S3PublicURL string `env:"SHEET_S3_PUBLIC_URL"`

	AutosaveDelay time.Duration `env:"SHEET_AUTOSAVE_DELAY" envDefault:"2s"`
}

// Load parses the environment and validates the result
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enum values and the settings each backend needs
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if _, ok := parseLevel(c.LogLevel); !ok {
		vb.Fieldf("SHEET_LOG_LEVEL", "unknown level %q", c.LogLevel)
	}
	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		vb.Fieldf("SHEET_LOG_FORMAT", "must be %s or %s", LogFormatText, LogFormatJSON)
	}

	if c.LocalPath == "" {
		vb.RequiredField("SHEET_LOCAL_PATH")
	}
	if c.LocalMaxBytes < 0 {
		vb.Field("SHEET_LOCAL_MAX_BYTES", "must not be negative")
	}

	switch c.Remote {
	case RemoteNone:
	case RemoteRedis:
		if len(c.RedisAddrs) == 0 {
			vb.RequiredField("SHEET_REDIS_ADDRS")
		}
		errors.ValidateRange("SHEET_REDIS_DB", c.RedisDB, 0, MaxRedisDB, vb)
	case RemoteFirestore:
		if c.FirestoreProject == "" {
			vb.RequiredField("SHEET_FIRESTORE_PROJECT")
		}
	default:
		vb.Fieldf("SHEET_REMOTE", "unknown remote %q", c.Remote)
	}

	switch c.Images {
	case ImagesNone:
	case ImagesGCS:
		if c.GCSBucket == "" {
			vb.RequiredField("SHEET_GCS_BUCKET")
		}
	case ImagesS3:
		if c.S3Bucket == "" {
			vb.RequiredField("SHEET_S3_BUCKET")
		}
	default:
		vb.Fieldf("SHEET_IMAGES", "unknown image store %q", c.Images)
	}

	if c.AutosaveDelay < 0 {
		vb.Field("SHEET_AUTOSAVE_DELAY", "must not be negative")
	}

	return vb.Build()
}

// NewLogger builds the slog logger described by the config
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, _ := parseLevel(c.LogLevel)
	opts := &slog.HandlerOptions{Level: level}

	if c.LogFormat == LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
