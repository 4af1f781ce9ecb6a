package utils

import "context"

type contextKey string

const SessionIDKey contextKey = "session_id"

// SetSessionContext stores the shopper session id resolved by the transport layer.
func SetSessionContext(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, SessionIDKey, sessionID)
}

// GetSessionIDFromContext retrieves the session id safely
func GetSessionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(SessionIDKey).(string)
	return id, ok && id != ""
}
