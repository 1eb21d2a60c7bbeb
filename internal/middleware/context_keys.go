package middleware

import (
	"context"
	"log/slog"

	"github.com/SscSPs/brokerdesk/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// contextKey is a private type for values stored in request contexts.
// Using a custom type prevents collisions.
type contextKey string

const (
	loggerCtxKey = contextKey("logger")
	callerCtxKey = contextKey("caller")
)

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey, logger)
}

// GetLoggerFromCtx retrieves the request-scoped logger from a standard context.
// It returns the default logger if none is found.
func GetLoggerFromCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return slog.Default()
	}
	if logger, ok := ctx.Value(loggerCtxKey).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// WithCaller returns a copy of ctx carrying the authenticated caller.
func WithCaller(ctx context.Context, caller domain.Caller) context.Context {
	return context.WithValue(ctx, callerCtxKey, caller)
}

// GetCallerFromCtx retrieves the authenticated caller from a standard context.
func GetCallerFromCtx(ctx context.Context) (domain.Caller, bool) {
	caller, ok := ctx.Value(callerCtxKey).(domain.Caller)
	return caller, ok
}

// GetCallerFromContext retrieves the authenticated caller from the Gin request.
// It returns the caller and a boolean indicating if it was found.
func GetCallerFromContext(c *gin.Context) (domain.Caller, bool) {
	return GetCallerFromCtx(c.Request.Context())
}

// GetUserIDFromContext retrieves the authenticated account ID from the Gin request.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	caller, ok := GetCallerFromContext(c)
	if !ok {
		return "", false
	}
	return caller.AccountID, true
}
