package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/brokerdesk/internal/apperrors"
	"github.com/SscSPs/brokerdesk/internal/core/domain"
	portsrepo "github.com/SscSPs/brokerdesk/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/brokerdesk/internal/core/ports/services"
	"github.com/SscSPs/brokerdesk/internal/dto"
	"github.com/SscSPs/brokerdesk/internal/platform/analytics"
	"github.com/SscSPs/brokerdesk/internal/platform/config"
	"github.com/SscSPs/brokerdesk/internal/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type authService struct {
	BaseService
	cfg         *config.Config
	accountRepo portsrepo.AccountRepositoryFacade
	events      analytics.Publisher
}

// AuthServiceOption is a functional option for configuring the auth service
type AuthServiceOption func(*authService)

// WithAuthEvents sets the analytics publisher.
func WithAuthEvents(events analytics.Publisher) AuthServiceOption {
	return func(s *authService) {
		s.events = events
	}
}

// NewAuthService creates the auth gate: registration, login and per-request authentication.
func NewAuthService(cfg *config.Config, accountRepo portsrepo.AccountRepositoryFacade, options ...AuthServiceOption) portssvc.AuthSvcFacade {
	svc := &authService{cfg: cfg, accountRepo: accountRepo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) newAccount(email, name, password string, role domain.Role, createdBy string) (*domain.Account, error) {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	now := s.Now()
	id := uuid.NewString()
	if createdBy == "" {
		createdBy = id
	}
	return &domain.Account{
		AccountID:      id,
		Email:          normalizeEmail(email),
		Name:           strings.TrimSpace(name),
		CredentialHash: hash,
		Role:           role,
		Balance:        decimal.Zero,
		Status:         domain.StatusActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     createdBy,
			LastUpdatedAt: now,
			LastUpdatedBy: createdBy,
		},
	}, nil
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.Account, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", apperrors.ErrValidation)
	}
	account, err := s.newAccount(req.Email, req.Name, req.Password, domain.RoleUser, "")
	if err != nil {
		s.LogError(ctx, err, "Failed to prepare account")
		return nil, err
	}

	if err := s.accountRepo.SaveAccount(ctx, *account); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save account", slog.String("account_id", account.AccountID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Account registered", slog.String("account_id", account.AccountID))
	if s.events != nil {
		s.events.Enqueue(account.AccountID, analytics.EventAccountRegistered, map[string]any{"role": string(account.Role)})
	}
	return account, nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*domain.Session, error) {
	account, err := s.accountRepo.FindAccountByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			utils.BurnPasswordCheck(req.Password)
			return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
		}
		s.LogError(ctx, err, "Failed to look up account for login")
		return nil, err
	}

	if !utils.CheckPasswordHash(req.Password, account.CredentialHash) || account.IsDeleted() {
		s.LogWarn(ctx, "Login failed", slog.String("account_id", account.AccountID))
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}
	if account.Status == domain.StatusBanned {
		s.LogWarn(ctx, "Login refused for banned account", slog.String("account_id", account.AccountID))
		return nil, fmt.Errorf("%w: account is banned", apperrors.ErrForbidden)
	}

	token, expiresAt, err := utils.GenerateJWT(account.AccountID, string(account.Role), s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer, s.Now())
	if err != nil {
		s.LogError(ctx, err, "Failed to sign session token", slog.String("account_id", account.AccountID))
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}

	s.LogInfo(ctx, "Login succeeded", slog.String("account_id", account.AccountID))
	return &domain.Session{
		Token:     token,
		AccountID: account.AccountID,
		Role:      account.Role,
		ExpiresAt: expiresAt,
	}, nil
}

// Authenticate trusts the token only for the account id; role and status come from storage.
func (s *authService) Authenticate(ctx context.Context, token string) (*domain.Caller, error) {
	claims, err := utils.ParseAndValidateJWT(token, s.cfg.JWTSecret, s.cfg.JWTIssuer)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthorized, err)
	}

	account, err := s.accountRepo.FindAccountByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: account no longer exists", apperrors.ErrUnauthorized)
		}
		return nil, err
	}
	if !account.CanAuthenticate() {
		return nil, fmt.Errorf("%w: account may not authenticate", apperrors.ErrUnauthorized)
	}

	return &domain.Caller{AccountID: account.AccountID, Role: account.Role}, nil
}

func (s *authService) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	existing, err := s.accountRepo.FindAccountByEmail(ctx, normalizeEmail(email))
	if err == nil {
		if existing.Role != domain.RoleAdmin {
			s.LogWarn(ctx, "Bootstrap admin email belongs to a non-admin account", slog.String("account_id", existing.AccountID))
		}
		return nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}

	admin, err := s.newAccount(email, "Administrator", password, domain.RoleAdmin, domain.SystemActor)
	if err != nil {
		return err
	}
	if err := s.accountRepo.SaveAccount(ctx, *admin); err != nil && !errors.Is(err, apperrors.ErrDuplicate) {
		return err
	}
	s.LogInfo(ctx, "Bootstrap admin created", slog.String("account_id", admin.AccountID))
	return nil
}
