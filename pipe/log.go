package pipe

import "log/slog"

// Logger defines an interface for logging at different severity levels.
type Logger interface {
	// Debug logs a message at debug level.
	Debug(msg string, args ...any)
	// Info logs a message at info level.
	Info(msg string, args ...any)
	// Warn logs a message at warning level.
	Warn(msg string, args ...any)
	// Error logs a message at error level.
	Error(msg string, args ...any)
}

var logger Logger = slog.Default()

// SetDefaultLogger sets the logger used by stages of this package.
// slog.Default() is used by default.
func SetDefaultLogger(l Logger) {
	logger = l
}

// DefaultLogger returns the logger set with SetDefaultLogger. Package visit
// logs through it as well.
func DefaultLogger() Logger {
	return logger
}
