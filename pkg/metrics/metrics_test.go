package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopWithoutNewRelic(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ctx, NewContext(ctx, nil))

	RecordCount(ctx, "count", 1)
	RecordDuration(ctx, "duration", time.Second)
	RecordEvent(ctx, "event", map[string]interface{}{"key": "value"})
	RecordOperation(ctx, "auction", "Operation", Operation{Name: "place_bid", Outcome: "confirmed"})

	span := StartSpan(ctx, "auction.client", "PlaceBid")
	assert.Nil(t, span)
	span.AddAttribute("key", "value")
	span.End(errors.New("failed"))
}

func TestNewContext(t *testing.T) {
	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName("auction-house-client-test"),
		newrelic.ConfigEnabled(false),
	)
	require.NoError(t, err)

	ctx := NewContext(context.Background(), app)
	actual, ok := application(ctx)
	assert.True(t, ok)
	assert.Equal(t, app, actual)

	// A disabled application accepts, and drops, everything.
	RecordOperation(ctx, "auction", "Operation", Operation{
		Name:       "settle",
		Outcome:    "confirmed",
		Duration:   25 * time.Millisecond,
		Attributes: map[string]interface{}{"signature": "abc"},
	})

	_, ok = application(context.Background())
	assert.False(t, ok)
}

func TestSpan(t *testing.T) {
	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName("auction-house-client-test"),
		newrelic.ConfigEnabled(false),
	)
	require.NoError(t, err)

	txn := app.StartTransaction("test")
	defer txn.End()

	span := StartSpan(newrelic.NewContext(context.Background(), txn), "auction.client", "BuyNow")
	require.NotNil(t, span)
	span.AddAttribute("outcome", "confirmed")
	span.End(errors.New("failed"))
}
