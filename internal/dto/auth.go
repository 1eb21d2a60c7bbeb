package dto

import (
	"time"

	"github.com/SscSPs/brokerdesk/internal/core/domain"
)

// RegisterRequest defines the data needed to open a new customer account.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=320"`
	Name     string `json:"name" binding:"required,max=255"`
	Password string `json:"password" binding:"required,min=8,max=72"` // bcrypt ignores bytes past 72
}

// LoginRequest carries the login identifier (email) and secret.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the response for a successful login.
type LoginResponse struct {
	Token     string      `json:"token"`
	AccountID string      `json:"accountID"`
	Role      domain.Role `json:"role"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// ToLoginResponse converts a domain.Session to LoginResponse DTO
func ToLoginResponse(s *domain.Session) LoginResponse {
	return LoginResponse{
		Token:     s.Token,
		AccountID: s.AccountID,
		Role:      s.Role,
		ExpiresAt: s.ExpiresAt,
	}
}
