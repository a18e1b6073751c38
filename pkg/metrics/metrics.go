package metrics

import (
	"context"
	"time"
)

// RecordCount records a count metric.
func RecordCount(ctx context.Context, metricName string, count uint64) {
	if app, ok := application(ctx); ok {
		app.RecordCustomMetric(metricName, float64(count))
	}
}

// RecordDuration records a duration metric in milliseconds.
func RecordDuration(ctx context.Context, metricName string, duration time.Duration) {
	if app, ok := application(ctx); ok {
		app.RecordCustomMetric(metricName, float64(duration/time.Millisecond))
	}
}

// RecordEvent records a custom event.
func RecordEvent(ctx context.Context, eventName string, attributes map[string]interface{}) {
	if app, ok := application(ctx); ok {
		app.RecordCustomEvent(eventName, attributes)
	}
}

// Operation is the outcome of a single unit of work, such as one submitted
// transaction.
type Operation struct {
	Name       string
	Outcome    string
	Duration   time.Duration
	Attributes map[string]interface{}
}

// RecordOperation reports op as the "<prefix>.<name>.duration" metric, a
// "<prefix>.<name>.<outcome>" count and an eventName event carrying the
// name, outcome and attributes.
func RecordOperation(ctx context.Context, prefix, eventName string, op Operation) {
	if _, ok := application(ctx); !ok {
		return
	}

	base := prefix + "." + op.Name
	RecordDuration(ctx, base+".duration", op.Duration)
	RecordCount(ctx, base+"."+op.Outcome, 1)

	event := make(map[string]interface{}, len(op.Attributes)+3)
	for k, v := range op.Attributes {
		event[k] = v
	}
	event["operation"] = op.Name
	event["outcome"] = op.Outcome
	event["duration_ms"] = op.Duration.Milliseconds()
	RecordEvent(ctx, eventName, event)
}
