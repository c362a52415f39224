// Package ctxkeys defines typed context keys shared between middleware and handlers.
// Handlers read what the middleware stores here.
package ctxkeys

import "context"

// Key is a typed string used as context key to prevent collisions.
type Key string

const (
	SessionID Key = "sessionID"
)

// GetSessionID returns the session id injected by the session middleware.
func GetSessionID(ctx context.Context) string {
	id, _ := ctx.Value(SessionID).(string)
	return id
}

// WithSessionID returns a copy of ctx carrying the session id.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, SessionID, id)
}
