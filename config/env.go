// Package config overlays environment variables on configuration structs.
//
// Environment variable names follow the pattern:
//
//	{Prefix}_{STAGE}_{FIELD}
//
// Field names without an env tag are converted from CamelCase to
// UPPER_SNAKE_CASE:
//
//	MaxAttempts → MAX_ATTEMPTS
//	MaxDelay    → MAX_DELAY
//
// Example with [Retry] and stage "orders":
//
//	PIPEWALK_ORDERS_MAX_ATTEMPTS=5
//	PIPEWALK_ORDERS_DELAY=200ms
//	PIPEWALK_ORDERS_TIMEOUT=-1s
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// DefaultPrefix is the prefix used when [Loader.Prefix] is empty.
const DefaultPrefix = "PIPEWALK"

// Loader reads environment variables into configuration structs.
type Loader struct {
	// Prefix for environment variable names.
	// Default: "PIPEWALK".
	Prefix string

	// Environment replaces the process environment if set.
	Environment map[string]string
}

func (l Loader) options(stage string) env.Options {
	prefix := l.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return env.Options{
		Prefix:                prefix + "_" + normalizeStage(stage) + "_",
		Environment:           l.Environment,
		UseFieldNameByDefault: true,
	}
}

// Load populates the struct pointed to by dst from environment variables.
// The stage identifies the pipeline component and becomes the second
// segment of the variable name.
//
// Only fields with set variables are modified, so Load overlays the
// environment on programmatic defaults.
func (l Loader) Load(stage string, dst any) error {
	if err := env.ParseWithOptions(dst, l.options(stage)); err != nil {
		return fmt.Errorf("config: %s: %w", stage, err)
	}
	return nil
}

// Keys returns the environment variable names [Loader.Load] checks for dst.
func (l Loader) Keys(stage string, dst any) ([]string, error) {
	params, err := env.GetFieldParamsWithOptions(dst, l.options(stage))
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", stage, err)
	}
	keys := make([]string, 0, len(params))
	for _, p := range params {
		keys = append(keys, p.Key)
	}
	return keys, nil
}

// Load populates dst using the default Loader.
func Load(stage string, dst any) error {
	return Loader{}.Load(stage, dst)
}

// Keys returns env var names using the default Loader.
func Keys(stage string, dst any) ([]string, error) {
	return Loader{}.Keys(stage, dst)
}

// normalizeStage converts "order-events" or "order events" to "ORDER_EVENTS".
func normalizeStage(stage string) string {
	return strings.ToUpper(strings.NewReplacer("-", "_", " ", "_", ".", "_").Replace(stage))
}
