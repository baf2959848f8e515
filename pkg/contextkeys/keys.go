// Package contextkeys provides centralized context key definitions
//
// All context keys used across the service are defined here so that key usage
// stays discoverable and typed.
//
// USAGE PATTERN:
//
//	import "github.com/platinummonkey/stores/pkg/contextkeys"
//	ctx = contextkeys.WithUserID(ctx, 42)
//	userID, ok := contextkeys.GetUserID(ctx)
package contextkeys

import "context"

// Key is the type for context keys to prevent collisions
type Key string

const (
	// UserIDKey contains the caller's user id parsed from the Authorization header
	// Set by: api.AuthMiddleware
	// Used by: repo factory (ACL selection), logger
	// Type: int64
	UserIDKey Key = "user_id"

	// RequestIDKey contains request ID string (UUID)
	// Set by: httputil.RequestIDMiddleware
	// Used by: Logger, response headers
	// Type: string
	RequestIDKey Key = "request_id"

	// LoggerKey contains *observability.Logger
	// Set by: httputil.RequestIDMiddleware
	// Used by: Handlers and services that log with request context
	// Type: *observability.Logger
	LoggerKey Key = "logger"

	// CurrencyKey contains the currency prices should be converted to
	// Set by: api.CurrencyMiddleware
	// Used by: product and base product services
	// Type: string
	CurrencyKey Key = "currency"
)

// WithUserID adds the caller's user id to the context
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// GetUserID retrieves the caller's user id; false for anonymous callers
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok
}

// WithRequestID adds request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves request ID from context
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// WithLogger adds logger to the context
func WithLogger(ctx context.Context, logger interface{}) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// WithCurrency adds the requested currency to the context
func WithCurrency(ctx context.Context, currency string) context.Context {
	return context.WithValue(ctx, CurrencyKey, currency)
}

// GetCurrency retrieves the requested currency; empty when none was given
func GetCurrency(ctx context.Context) string {
	if c, ok := ctx.Value(CurrencyKey).(string); ok {
		return c
	}
	return ""
}
