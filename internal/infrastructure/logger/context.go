package logger

import "context"

type contextKey string

const eventIDKey contextKey = "event_id"

// WithEventID attaches the triggering event's ID to the context so that
// downstream log lines (including SQL traces) can be correlated with it.
func WithEventID(ctx context.Context, eventID string) context.Context {
	return context.WithValue(ctx, eventIDKey, eventID)
}

// GetEventID returns the event ID stored in the context, or "" if absent.
func GetEventID(ctx context.Context) string {
	if v, ok := ctx.Value(eventIDKey).(string); ok {
		return v
	}
	return ""
}
