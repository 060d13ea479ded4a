package pipe

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"
)

// BackoffFunc returns how long to wait before the given retry, counting
// the first retry as 1.
type BackoffFunc func(retry int) time.Duration

// ConstantBackoff waits delay before every retry. A jitter of 0.2 spreads
// the delay by up to 20% in both directions.
func ConstantBackoff(delay time.Duration, jitter float64) BackoffFunc {
	spread := jitterFunc(jitter)
	return func(int) time.Duration {
		return spread(delay)
	}
}

// ExponentialBackoff waits delay*factor^(retry-1) before a retry, capped by
// maxDelay unless it is 0.
func ExponentialBackoff(delay time.Duration, factor float64, maxDelay time.Duration, jitter float64) BackoffFunc {
	spread := jitterFunc(jitter)
	return func(retry int) time.Duration {
		d := time.Duration(float64(delay) * math.Pow(factor, float64(retry-1)))
		if maxDelay > 0 {
			d = min(d, maxDelay)
		}
		return spread(d)
	}
}

func jitterFunc(jitter float64) func(time.Duration) time.Duration {
	jitter = max(0, min(jitter, 1))
	return func(d time.Duration) time.Duration {
		return time.Duration(float64(d) * (1 + jitter*(2*rand.Float64()-1)))
	}
}

// ShouldRetryFunc decides whether an error is worth another attempt.
type ShouldRetryFunc func(error) bool

// ShouldRetry retries errors matching one of errs, or every error if errs
// is empty.
func ShouldRetry(errs ...error) ShouldRetryFunc {
	return matchErrors(errs, true)
}

// ShouldNotRetry retries every error except those matching errs. With no
// errs nothing is retried.
func ShouldNotRetry(errs ...error) ShouldRetryFunc {
	return matchErrors(errs, false)
}

func matchErrors(errs []error, match bool) ShouldRetryFunc {
	return func(err error) bool {
		if len(errs) == 0 {
			return match
		}
		for _, e := range errs {
			if errors.Is(err, e) {
				return match
			}
		}
		return !match
	}
}

// RetryConfig configures the retry policy of a [RetryFilter].
type RetryConfig struct {
	// ShouldRetry selects the errors that are retried. Nil retries all errors.
	ShouldRetry ShouldRetryFunc
	// Backoff computes the wait between attempts. Nil waits 1s ±20%.
	Backoff BackoffFunc
	// MaxAttempts counts the first attempt. Zero means 3, negative is unlimited.
	MaxAttempts int
	// Timeout bounds all attempts together. Zero means 1 minute, negative
	// is unlimited.
	Timeout time.Duration
}

func (c RetryConfig) withDefaults() RetryConfig {
	if c.ShouldRetry == nil {
		c.ShouldRetry = ShouldRetry()
	}
	if c.Backoff == nil {
		c.Backoff = ConstantBackoff(time.Second, 0.2)
	}
	switch {
	case c.MaxAttempts == 0:
		c.MaxAttempts = 3
	case c.MaxAttempts < 0:
		c.MaxAttempts = 0
	}
	switch {
	case c.Timeout == 0:
		c.Timeout = time.Minute
	case c.Timeout < 0:
		c.Timeout = 0
	}
	return c
}

// RetryState records the attempts of one [RetryFilter.Send] call. It is
// available to downstream filters through [RetryStateFromContext] and to
// callers through [RetryStateFromError].
type RetryState struct {
	// Start is when the first attempt began.
	Start time.Time
	// Attempts is the number of attempts so far.
	Attempts int
	// Elapsed is the time spent up to the last failure.
	Elapsed time.Duration
	// Causes holds the error of every failed attempt.
	Causes []error
	// Err is the reason the filter gave up.
	Err error
}

type retryStateKey struct{}

// RetryStateFromContext returns the state of the enclosing retry, or nil.
func RetryStateFromContext(ctx context.Context) *RetryState {
	state, _ := ctx.Value(retryStateKey{}).(*RetryState)
	return state
}

// RetryStateFromError returns the state carried by an error of a
// [RetryFilter], or nil.
func RetryStateFromError(err error) *RetryState {
	var re *retryError
	if errors.As(err, &re) {
		return re.state
	}
	return nil
}

func (s *RetryState) fail(err error) {
	s.Elapsed = time.Since(s.Start)
	s.Causes = append(s.Causes, err)
}

func (s *RetryState) giveUp(reason error) error {
	s.Elapsed = time.Since(s.Start)
	s.Err = reason
	return &retryError{state: s}
}

// retryError unwraps to the reason and every cause.
type retryError struct {
	state *RetryState
}

func (e *retryError) Error() string {
	if n := len(e.state.Causes); n > 0 {
		return fmt.Sprintf("%s: %s", e.state.Err, e.state.Causes[n-1])
	}
	return e.state.Err.Error()
}

func (e *retryError) Unwrap() []error {
	return append([]error{e.state.Err}, e.state.Causes...)
}

// RetryFilter wraps a filter with a retry policy. Each attempt sends the
// context through the wrapped filter and the rest of the pipeline.
type RetryFilter[Ctx any] struct {
	inner  Filter[Ctx]
	config RetryConfig
}

// NewRetry wraps inner with the retry policy cfg. Zero fields use defaults.
func NewRetry[Ctx any](inner Filter[Ctx], cfg RetryConfig) *RetryFilter[Ctx] {
	return &RetryFilter[Ctx]{
		inner:  inner,
		config: cfg.withDefaults(),
	}
}

// Inner returns the wrapped filter.
func (f *RetryFilter[Ctx]) Inner() Filter[Ctx] {
	return f.inner
}

// Config returns the effective retry policy.
func (f *RetryFilter[Ctx]) Config() RetryConfig {
	return f.config
}

// Kind returns KindRetry.
func (*RetryFilter[Ctx]) Kind() Kind {
	return KindRetry
}

// Probe returns the wrapped filter.
func (f *RetryFilter[Ctx]) Probe() []Node {
	return []Node{FilterNode(f.inner)}
}

// Send sends c through the wrapped filter until it succeeds, the error is
// not retryable, attempts are exhausted or the timeout expires. The
// returned error carries a [RetryState].
func (f *RetryFilter[Ctx]) Send(ctx context.Context, c Ctx, next Pipe[Ctx]) error {
	cfg := f.config
	state := &RetryState{Start: time.Now()}
	attemptCtx := context.WithValue(ctx, retryStateKey{}, state)

	var deadline <-chan time.Time
	if cfg.Timeout > 0 {
		timer := time.NewTimer(cfg.Timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	for {
		state.Attempts++
		err := f.inner.Send(attemptCtx, c, next)
		if err == nil {
			return nil
		}
		state.fail(err)

		switch {
		case !cfg.ShouldRetry(err):
			return state.giveUp(ErrRetryNotRetryable)
		case cfg.MaxAttempts > 0 && state.Attempts >= cfg.MaxAttempts:
			return state.giveUp(ErrRetryMaxAttempts)
		}

		wait := cfg.Backoff(state.Attempts)
		logger.Debug("pipewalk: retrying", "attempt", state.Attempts, "wait", wait, "error", err)

		select {
		case <-ctx.Done():
			return state.giveUp(ctx.Err())
		case <-deadline:
			return state.giveUp(ErrRetryTimeout)
		case <-time.After(wait):
		}
	}
}
