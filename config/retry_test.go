package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetry_Load(t *testing.T) {
	l := Loader{Environment: map[string]string{
		"PIPEWALK_ORDERS_MAX_ATTEMPTS": "5",
		"PIPEWALK_ORDERS_DELAY":        "10ms",
		"PIPEWALK_ORDERS_FACTOR":       "2",
		"PIPEWALK_ORDERS_MAX_DELAY":    "30ms",
	}}
	cfg := Retry{Timeout: time.Second}

	require.NoError(t, l.Load("orders", &cfg))

	assert.Equal(t, Retry{
		MaxAttempts: 5,
		Timeout:     time.Second,
		Delay:       10 * time.Millisecond,
		Factor:      2,
		MaxDelay:    30 * time.Millisecond,
	}, cfg)
}

func TestRetry_RetryConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := Retry{}.RetryConfig()
		assert.Nil(t, cfg.Backoff)
		assert.Zero(t, cfg.MaxAttempts)
		assert.Zero(t, cfg.Timeout)
	})

	t.Run("constant", func(t *testing.T) {
		cfg := Retry{Delay: 10 * time.Millisecond, MaxAttempts: -1, Timeout: -1}.RetryConfig()
		require.NotNil(t, cfg.Backoff)
		assert.Equal(t, 10*time.Millisecond, cfg.Backoff(3))
		assert.Equal(t, -1, cfg.MaxAttempts)
		assert.Equal(t, time.Duration(-1), cfg.Timeout)
	})

	t.Run("exponential", func(t *testing.T) {
		cfg := Retry{Delay: 10 * time.Millisecond, Factor: 2, MaxDelay: 30 * time.Millisecond}.RetryConfig()
		require.NotNil(t, cfg.Backoff)
		assert.Equal(t, 10*time.Millisecond, cfg.Backoff(1))
		assert.Equal(t, 20*time.Millisecond, cfg.Backoff(2))
		assert.Equal(t, 30*time.Millisecond, cfg.Backoff(3))
	})
}

func TestLoadRetry(t *testing.T) {
	t.Setenv("PIPEWALK_AUDIT_MAX_ATTEMPTS", "7")

	cfg, err := LoadRetry("audit", Retry{MaxAttempts: 2, Jitter: 0.1})
	require.NoError(t, err)
	assert.Equal(t, Retry{MaxAttempts: 7, Jitter: 0.1}, cfg)
}
