package env

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/code-payments/auction-house-client/pkg/config"
)

func TestConfigDoesntExist(t *testing.T) {
	const env = "ENV_CONFIG_TEST_VAR"

	c := NewConfig(env)

	v, err := c.Get(context.Background())
	assert.Nil(t, v)
	assert.Equal(t, config.ErrNoValue, err)

	t.Setenv(env, "default")

	v, err = c.Get(context.Background())
	assert.Equal(t, []byte("default"), v)
	assert.Nil(t, err)

	t.Setenv(env, "   ")

	v, err = c.Get(context.Background())
	assert.Nil(t, v)
	assert.Equal(t, config.ErrNoValue, err)
}

func TestTypedConfigs(t *testing.T) {
	ctx := context.Background()

	timeout := NewDurationConfig("env_config_test_timeout", time.Minute)
	assert.Equal(t, time.Minute, timeout.Get(ctx))
	t.Setenv("ENV_CONFIG_TEST_TIMEOUT", "15s")
	assert.Equal(t, 15*time.Second, timeout.Get(ctx))

	price := NewUint64Config("ENV_CONFIG_TEST_PRICE", 1)
	t.Setenv("ENV_CONFIG_TEST_PRICE", "1000")
	assert.EqualValues(t, 1000, price.Get(ctx))

	enabled := NewBoolConfig("ENV_CONFIG_TEST_ENABLED", false)
	t.Setenv("ENV_CONFIG_TEST_ENABLED", "true")
	assert.True(t, enabled.Get(ctx))
}
