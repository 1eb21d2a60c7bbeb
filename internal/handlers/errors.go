package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/brokerdesk/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// retryAfterSeconds is advertised on storage failures.
const retryAfterSeconds = "1"

// statusForError maps a service error to its HTTP status.
func statusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrInsufficientFunds):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrStorage):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the JSON error for err. Internal and storage failures are
// logged at error level and their details are not exposed.
func respondError(c *gin.Context, logger *slog.Logger, err error, action string) {
	status := statusForError(err)
	switch status {
	case http.StatusInternalServerError:
		logger.Error("Failed to "+action, slog.String("error", err.Error()))
		c.JSON(status, ErrorResponse{Error: "Failed to " + action})
	case http.StatusServiceUnavailable:
		logger.Error("Storage unavailable while trying to "+action, slog.String("error", err.Error()))
		c.Header("Retry-After", retryAfterSeconds)
		c.JSON(status, ErrorResponse{Error: "Service temporarily unavailable, please retry"})
	case http.StatusUnauthorized:
		logger.Warn("Unauthorized attempt to "+action, slog.String("error", err.Error()))
		c.JSON(status, ErrorResponse{Error: "Invalid credentials"})
	default:
		logger.Warn("Request to "+action+" refused", slog.String("error", err.Error()), slog.Int("status", status))
		c.JSON(status, ErrorResponse{Error: err.Error()})
	}
}

// bindError replies 400 for malformed input.
func bindError(c *gin.Context, logger *slog.Logger, err error, what string) {
	logger.Warn("Failed to bind "+what, slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
}
