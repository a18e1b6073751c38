// Package memory provides a config.Config held in memory, for tests and for
// values set programmatically.
package memory

import (
	"context"
	"sync"

	"github.com/code-payments/auction-house-client/pkg/config"
)

// Config holds a value that can be changed, cleared or made to fail at
// runtime.
type Config struct {
	mu       sync.RWMutex
	value    interface{}
	err      error
	shutdown bool
}

// NewConfig returns a Config holding value. A nil value means no value is set.
func NewConfig(value interface{}) *Config {
	return &Config{value: value}
}

func (c *Config) Get(_ context.Context) (interface{}, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch {
	case c.shutdown:
		return nil, config.ErrShutdown
	case c.err != nil:
		return nil, c.err
	case c.value == nil:
		return nil, config.ErrNoValue
	default:
		return c.value, nil
	}
}

func (c *Config) Shutdown() {
	c.update(func() { c.shutdown = true })
}

// SetValue replaces the value returned by subsequent reads. Passing nil
// clears it.
func (c *Config) SetValue(value interface{}) {
	c.update(func() { c.value = value })
}

// ClearValue is equivalent to SetValue(nil).
func (c *Config) ClearValue() {
	c.SetValue(nil)
}

// SetError makes subsequent reads fail with err until it is reset with a
// nil error.
func (c *Config) SetError(err error) {
	c.update(func() { c.err = err })
}

func (c *Config) update(fn func()) {
	c.mu.Lock()
	fn()
	c.mu.Unlock()
}
