package config

import (
	"time"

	"github.com/fxsml/pipewalk/pipe"
)

// Retry is the environment form of [pipe.RetryConfig].
type Retry struct {
	// MaxAttempts limits the total number of attempts. Negative is unlimited.
	MaxAttempts int
	// Timeout limits all attempts combined. Negative disables the limit.
	Timeout time.Duration
	// Delay is the wait before the first retry.
	Delay time.Duration
	// Factor grows the delay per attempt when greater than 1.
	Factor float64
	// MaxDelay caps exponential delays. Zero means no cap.
	MaxDelay time.Duration
	// Jitter randomizes delays, e.g. 0.2 for ±20%.
	Jitter float64
}

// RetryConfig returns the retry policy. Zero fields keep the defaults of
// [pipe.NewRetry].
func (r Retry) RetryConfig() pipe.RetryConfig {
	cfg := pipe.RetryConfig{
		MaxAttempts: r.MaxAttempts,
		Timeout:     r.Timeout,
	}
	switch {
	case r.Delay <= 0:
	case r.Factor > 1:
		cfg.Backoff = pipe.ExponentialBackoff(r.Delay, r.Factor, r.MaxDelay, r.Jitter)
	default:
		cfg.Backoff = pipe.ConstantBackoff(r.Delay, r.Jitter)
	}
	return cfg
}

// LoadRetry overlays the environment of stage on def.
func LoadRetry(stage string, def Retry) (Retry, error) {
	err := Load(stage, &def)
	return def, err
}
