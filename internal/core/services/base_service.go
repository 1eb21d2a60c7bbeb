package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/brokerdesk/internal/apperrors"
	"github.com/SscSPs/brokerdesk/internal/core/domain"
	"github.com/SscSPs/brokerdesk/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Clock func() time.Time
}

// Now returns the service clock's current time in UTC.
func (s *BaseService) Now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogWarn logs a warning with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// RequireAdmin returns apperrors.ErrForbidden unless caller is an administrator.
func (s *BaseService) RequireAdmin(ctx context.Context, caller domain.Caller, action string) error {
	if caller.IsAdmin() {
		return nil
	}
	s.LogWarn(ctx, "Admin action attempted by non-admin",
		slog.String("account_id", caller.AccountID),
		slog.String("action", action))
	return fmt.Errorf("%w: %s requires the admin role", apperrors.ErrForbidden, action)
}
