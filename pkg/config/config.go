// Package config provides runtime configuration values that may change
// between reads.
package config

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrNoValue indicates no value was set for the config.
	ErrNoValue = errors.New("config: no value set")

	// ErrShutdown indicates the use of a Config after calling Shutdown.
	ErrShutdown = errors.New("config: shutdown")
)

// Config is an untyped source of a single configuration value.
type Config interface {
	// Get returns the latest value, or ErrNoValue if none is set.
	Get(ctx context.Context) (interface{}, error)

	// Shutdown releases any underlying resources.
	Shutdown()
}

// Value is a typed configuration value. Get never fails; it falls back to a
// default or the last good value, which GetSafe also returns alongside any
// error.
type Value[T any] interface {
	Get(ctx context.Context) T
	GetSafe(ctx context.Context) (T, error)
	Shutdown()
}

type (
	Bool     = Value[bool]
	Duration = Value[time.Duration]
	Float64  = Value[float64]
	Uint64   = Value[uint64]
	String   = Value[string]
)
