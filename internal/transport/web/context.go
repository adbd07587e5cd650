package web

import (
	"context"
	"log/slog"
)

// ContextKey is a custom type used for creating context keys.
// Using a custom type for context keys helps prevent collisions between keys
// defined in different packages.
type ContextKey string

const (
	// RequestIDContextKey stores the request ID set by the RequestID middleware.
	RequestIDContextKey = ContextKey("request_id")
	// LoggerContextKey stores a logger already carrying the request ID.
	LoggerContextKey = ContextKey("logger")
	// CSRFTokenContextKey stores the token that forms must echo back.
	CSRFTokenContextKey = ContextKey("csrf_token")
)

// GetRequestID extracts request ID from context / Extrait l'ID de la requête du contexte
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDContextKey).(string); ok {
		return requestID
	}
	return ""
}

// loggerFrom returns the request logger, the default one outside a request.
func loggerFrom(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// csrfToken returns the token issued by the CSRF middleware, empty when disabled.
func csrfToken(ctx context.Context) string {
	token, _ := ctx.Value(CSRFTokenContextKey).(string)
	return token
}
