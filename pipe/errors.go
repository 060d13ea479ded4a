package pipe

import (
	"errors"
	"fmt"
)

var (
	// ErrRetry is the base error for retry operations.
	ErrRetry = errors.New("pipewalk retry")

	// ErrRetryMaxAttempts is returned when all retry attempts fail.
	ErrRetryMaxAttempts = fmt.Errorf("%w: max attempts reached", ErrRetry)

	// ErrRetryTimeout is returned when the overall retry operation times out.
	ErrRetryTimeout = fmt.Errorf("%w: timeout reached", ErrRetry)

	// ErrRetryNotRetryable is returned when an error is not retryable.
	ErrRetryNotRetryable = fmt.Errorf("%w: not retryable", ErrRetry)

	// ErrConsumerFactory is returned when a consumer cannot be created.
	ErrConsumerFactory = errors.New("pipewalk: consumer factory failed")

	// ErrMessageType is returned when a message cannot be decoded for the
	// pipe connected to its type.
	ErrMessageType = errors.New("pipewalk: message type")
)
