package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flatConfig struct {
	Concurrency    int
	BufferSize     int
	ProcessTimeout time.Duration
	Name           string `env:"LABEL"`
}

func TestLoader_Load(t *testing.T) {
	l := Loader{Environment: map[string]string{
		"PIPEWALK_ORDERS_CONCURRENCY":     "4",
		"PIPEWALK_ORDERS_PROCESS_TIMEOUT": "5s",
		"PIPEWALK_ORDERS_LABEL":           "orders",
		"PIPEWALK_OTHER_BUFFER_SIZE":      "99",
	}}
	cfg := flatConfig{BufferSize: 10}

	require.NoError(t, l.Load("orders", &cfg))

	assert.Equal(t, flatConfig{
		Concurrency:    4,
		BufferSize:     10,
		ProcessTimeout: 5 * time.Second,
		Name:           "orders",
	}, cfg)
}

func TestLoader_Prefix(t *testing.T) {
	l := Loader{
		Prefix:      "APP",
		Environment: map[string]string{"APP_ORDER_EVENTS_CONCURRENCY": "2"},
	}
	var cfg flatConfig

	require.NoError(t, l.Load("order-events", &cfg))
	assert.Equal(t, 2, cfg.Concurrency)
}

func TestLoader_InvalidValue(t *testing.T) {
	l := Loader{Environment: map[string]string{"PIPEWALK_ORDERS_PROCESS_TIMEOUT": "soon"}}
	var cfg flatConfig

	err := l.Load("orders", &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "orders")
}

func TestLoader_NotAPointer(t *testing.T) {
	assert.Error(t, Loader{}.Load("orders", flatConfig{}))
}

func TestLoader_Keys(t *testing.T) {
	keys, err := Loader{}.Keys("orders", &flatConfig{})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		"PIPEWALK_ORDERS_CONCURRENCY",
		"PIPEWALK_ORDERS_BUFFER_SIZE",
		"PIPEWALK_ORDERS_PROCESS_TIMEOUT",
		"PIPEWALK_ORDERS_LABEL",
	}, keys)
}

func TestNormalizeStage(t *testing.T) {
	tests := map[string]string{
		"orders":       "ORDERS",
		"order-events": "ORDER_EVENTS",
		"order events": "ORDER_EVENTS",
		"order.audit":  "ORDER_AUDIT",
	}
	for in, want := range tests {
		assert.Equal(t, want, normalizeStage(in), in)
	}
}
