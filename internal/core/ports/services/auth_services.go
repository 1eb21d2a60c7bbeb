package services

import (
	"context"

	"github.com/SscSPs/brokerdesk/internal/core/domain"
	"github.com/SscSPs/brokerdesk/internal/dto"
)

// AuthenticatorSvc resolves a session token to the caller it belongs to.
type AuthenticatorSvc interface {
	// Authenticate verifies the token and reloads the account behind it.
	// Banned or deleted accounts yield apperrors.ErrUnauthorized.
	Authenticate(ctx context.Context, token string) (*domain.Caller, error)
}

// CredentialSvc handles registration and login.
type CredentialSvc interface {
	// Register opens a new user account with a zero balance.
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.Account, error)

	// Login exchanges an email and password for a session.
	// Unknown email and wrong password are indistinguishable (apperrors.ErrUnauthorized).
	Login(ctx context.Context, req dto.LoginRequest) (*domain.Session, error)

	// EnsureAdmin creates the bootstrap administrator if it does not exist yet.
	EnsureAdmin(ctx context.Context, email, password string) error
}

// AuthSvcFacade combines all auth service interfaces
type AuthSvcFacade interface {
	AuthenticatorSvc
	CredentialSvc
}
