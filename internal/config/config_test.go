package config_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-sheet/internal/config"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, config.RemoteNone, cfg.Remote)
	assert.Equal(t, config.ImagesNone, cfg.Images)
	assert.Equal(t, config.DefaultLocalMaxBytes, cfg.LocalMaxBytes)
	assert.Equal(t, []string{"localhost:6379"}, cfg.RedisAddrs)
	assert.Equal(t, 2*time.Second, cfg.AutosaveDelay)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SHEET_REMOTE", "redis")
	t.Setenv("SHEET_REDIS_ADDRS", "a:1,b:2")
	t.Setenv("SHEET_UID", "uid-9")
	t.Setenv("SHEET_AUTOSAVE_DELAY", "500ms")
	t.Setenv("SHEET_LOG_FORMAT", "json")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.RemoteRedis, cfg.Remote)
	assert.Equal(t, []string{"a:1", "b:2"}, cfg.RedisAddrs)
	assert.Equal(t, "uid-9", cfg.UID)
	assert.Equal(t, 500*time.Millisecond, cfg.AutosaveDelay)
	assert.Equal(t, config.LogFormatJSON, cfg.LogFormat)
}

func TestLoad_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown remote", env: map[string]string{"SHEET_REMOTE": "dynamo"}},
		{name: "firestore without project", env: map[string]string{"SHEET_REMOTE": "firestore"}},
		{name: "gcs without bucket", env: map[string]string{"SHEET_IMAGES": "gcs"}},
		{name: "s3 without bucket", env: map[string]string{"SHEET_IMAGES": "s3"}},
		{name: "bad log level", env: map[string]string{"SHEET_LOG_LEVEL": "loud"}},
		{name: "bad log format", env: map[string]string{"SHEET_LOG_FORMAT": "xml"}},
		{name: "bad duration", env: map[string]string{"SHEET_AUTOSAVE_DELAY": "soon"}},
		{name: "redis db out of range", env: map[string]string{"SHEET_REMOTE": "redis", "SHEET_REDIS_DB": "16"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			_, err := config.Load()
			require.Error(t, err)
			assert.True(t, errors.IsInvalidArgument(err))
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{LogLevel: "warn", LogFormat: config.LogFormatJSON}

	logger := cfg.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "character_id", "c1")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"character_id":"c1"`)
}
