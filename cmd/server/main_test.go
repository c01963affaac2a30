package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiranshivaraju/radassist/internal/config"
)

// ─── run() config validation tests ──────────────────────────────────────────

func TestRun_FailsOnMissingConfig(t *testing.T) {
	for _, key := range []string{"DATABASE_URL", "REDIS_URL", "AI_PROVIDER"} {
		t.Setenv(key, "")
	}

	err := run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}

func TestRun_FailsOnInvalidDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "not-a-valid-url")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("AI_PROVIDER", "mock")

	err := run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect database")
}

// ─── media source ───────────────────────────────────────────────────────────

func TestNewMediaSource_DisabledIsNilInterface(t *testing.T) {
	src, err := newMediaSource(context.Background(), config.MinioConfig{})
	require.NoError(t, err)
	assert.True(t, src == nil)
}

// ─── timeouts ───────────────────────────────────────────────────────────────

func TestShutdownTimeout(t *testing.T) {
	assert.Equal(t, 30*time.Second, shutdownTimeout)
}

func TestWriteTimeout(t *testing.T) {
	tests := []struct {
		inference time.Duration
		want      time.Duration
	}{
		{0, 30 * time.Second},
		{5 * time.Second, 30 * time.Second},
		{120 * time.Second, 255 * time.Second},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, writeTimeout(tc.inference), tc.inference.String())
	}
}
