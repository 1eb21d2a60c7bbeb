package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/brokerdesk/internal/apperrors"
	"github.com/SscSPs/brokerdesk/internal/core/domain"
	portssvc "github.com/SscSPs/brokerdesk/internal/core/ports/services"
	"github.com/SscSPs/brokerdesk/internal/core/services"
	"github.com/SscSPs/brokerdesk/internal/dto"
	"github.com/SscSPs/brokerdesk/internal/platform/analytics"
	"github.com/SscSPs/brokerdesk/internal/platform/config"
	"github.com/SscSPs/brokerdesk/internal/repositories/memory"
	"github.com/SscSPs/brokerdesk/internal/utils"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AuthServiceTestSuite struct {
	suite.Suite
	cfg       *config.Config
	store     *memory.Store
	publisher *MockPublisher
	service   portssvc.AuthSvcFacade
	ctx       context.Context
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.cfg = &config.Config{
		JWTSecret:         "test-secret",
		JWTExpiryDuration: time.Hour,
		JWTIssuer:         "brokerdesk-test",
	}
	suite.store = memory.NewStore()
	suite.publisher = new(MockPublisher)
	suite.publisher.On("Enqueue", mock.Anything, mock.Anything, mock.Anything).Maybe()
	suite.service = services.NewAuthService(suite.cfg, suite.store, services.WithAuthEvents(suite.publisher))
}

func (suite *AuthServiceTestSuite) register(email string) *domain.Account {
	acc, err := suite.service.Register(suite.ctx, dto.RegisterRequest{Email: email, Name: "Test User", Password: "correct-horse"})
	suite.Require().NoError(err)
	return acc
}

func (suite *AuthServiceTestSuite) TestRegister_CreatesActiveUser() {
	acc := suite.register("  New.User@Example.com ")

	suite.NotEmpty(acc.AccountID)
	suite.Equal("new.user@example.com", acc.Email)
	suite.Equal(domain.RoleUser, acc.Role)
	suite.Equal(domain.StatusActive, acc.Status)
	suite.True(acc.Balance.IsZero())
	suite.NotEqual("correct-horse", acc.CredentialHash)
	suite.True(utils.CheckPasswordHash("correct-horse", acc.CredentialHash))
	suite.publisher.AssertCalled(suite.T(), "Enqueue", acc.AccountID, analytics.EventAccountRegistered, mock.Anything)
}

func (suite *AuthServiceTestSuite) TestRegister_DuplicateEmail() {
	suite.register("dup@example.com")

	_, err := suite.service.Register(suite.ctx, dto.RegisterRequest{Email: "DUP@example.com", Name: "Other", Password: "another-pass"})
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *AuthServiceTestSuite) TestLogin_IssuesSessionForStoredRole() {
	acc := suite.register("login@example.com")

	session, err := suite.service.Login(suite.ctx, dto.LoginRequest{Email: "LOGIN@example.com", Password: "correct-horse"})
	suite.Require().NoError(err)
	suite.Equal(acc.AccountID, session.AccountID)
	suite.Equal(domain.RoleUser, session.Role)
	suite.NotEmpty(session.Token)
	suite.WithinDuration(time.Now().Add(time.Hour), session.ExpiresAt, 5*time.Second)

	caller, err := suite.service.Authenticate(suite.ctx, session.Token)
	suite.Require().NoError(err)
	suite.Equal(acc.AccountID, caller.AccountID)
	suite.Equal(domain.RoleUser, caller.Role)
}

func (suite *AuthServiceTestSuite) TestLogin_UnknownAndWrongSecretLookTheSame() {
	suite.register("known@example.com")

	_, unknownErr := suite.service.Login(suite.ctx, dto.LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	_, wrongErr := suite.service.Login(suite.ctx, dto.LoginRequest{Email: "known@example.com", Password: "wrong-password"})

	suite.ErrorIs(unknownErr, apperrors.ErrUnauthorized)
	suite.ErrorIs(wrongErr, apperrors.ErrUnauthorized)
	suite.Equal(unknownErr.Error(), wrongErr.Error())
}

func (suite *AuthServiceTestSuite) TestLogin_BannedIsForbidden() {
	acc := suite.register("banned@example.com")
	suite.Require().NoError(suite.store.UpdateAccountStatus(suite.ctx, acc.AccountID, domain.StatusBanned, testAdminID, time.Now()))

	_, err := suite.service.Login(suite.ctx, dto.LoginRequest{Email: "banned@example.com", Password: "correct-horse"})
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *AuthServiceTestSuite) TestLogin_FrozenMayStillLogIn() {
	acc := suite.register("frozen@example.com")
	suite.Require().NoError(suite.store.UpdateAccountStatus(suite.ctx, acc.AccountID, domain.StatusFrozen, testAdminID, time.Now()))

	_, err := suite.service.Login(suite.ctx, dto.LoginRequest{Email: "frozen@example.com", Password: "correct-horse"})
	suite.NoError(err)
}

func (suite *AuthServiceTestSuite) TestAuthenticate_RejectsBannedAndDeletedAccounts() {
	banned := suite.register("b@example.com")
	deleted := suite.register("d@example.com")
	bannedToken, _, err := utils.GenerateJWT(banned.AccountID, string(domain.RoleUser), suite.cfg.JWTSecret, time.Hour, suite.cfg.JWTIssuer, time.Now())
	suite.Require().NoError(err)
	deletedToken, _, err := utils.GenerateJWT(deleted.AccountID, string(domain.RoleUser), suite.cfg.JWTSecret, time.Hour, suite.cfg.JWTIssuer, time.Now())
	suite.Require().NoError(err)

	suite.Require().NoError(suite.store.UpdateAccountStatus(suite.ctx, banned.AccountID, domain.StatusBanned, testAdminID, time.Now()))
	suite.Require().NoError(suite.store.MarkAccountDeleted(suite.ctx, deleted.AccountID, testAdminID, time.Now()))

	_, err = suite.service.Authenticate(suite.ctx, bannedToken)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	_, err = suite.service.Authenticate(suite.ctx, deletedToken)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestAuthenticate_RoleComesFromAccountRow() {
	acc := suite.register("elevate@example.com")
	forged, _, err := utils.GenerateJWT(acc.AccountID, string(domain.RoleAdmin), suite.cfg.JWTSecret, time.Hour, suite.cfg.JWTIssuer, time.Now())
	suite.Require().NoError(err)

	caller, err := suite.service.Authenticate(suite.ctx, forged)
	suite.Require().NoError(err)
	suite.Equal(domain.RoleUser, caller.Role)
}

func (suite *AuthServiceTestSuite) TestAuthenticate_BadTokens() {
	acc := suite.register("tokens@example.com")
	expired, _, err := utils.GenerateJWT(acc.AccountID, "user", suite.cfg.JWTSecret, time.Minute, suite.cfg.JWTIssuer, time.Now().Add(-time.Hour))
	suite.Require().NoError(err)
	otherSecret, _, err := utils.GenerateJWT(acc.AccountID, "user", "another-secret", time.Hour, suite.cfg.JWTIssuer, time.Now())
	suite.Require().NoError(err)
	unknown, _, err := utils.GenerateJWT("no-such-account", "user", suite.cfg.JWTSecret, time.Hour, suite.cfg.JWTIssuer, time.Now())
	suite.Require().NoError(err)

	for name, token := range map[string]string{
		"garbage":      "not-a-token",
		"expired":      expired,
		"other secret": otherSecret,
		"unknown":      unknown,
	} {
		_, err := suite.service.Authenticate(suite.ctx, token)
		suite.ErrorIs(err, apperrors.ErrUnauthorized, name)
	}
}

func (suite *AuthServiceTestSuite) TestAuthenticate_StorageFailurePropagates() {
	repo := new(MockAccountRepository)
	svc := services.NewAuthService(suite.cfg, repo)
	token, _, err := utils.GenerateJWT("acc-1", "user", suite.cfg.JWTSecret, time.Hour, suite.cfg.JWTIssuer, time.Now())
	suite.Require().NoError(err)

	storageErr := apperrors.NewStorageError("failed to find account", errors.New("connection refused"))
	repo.On("FindAccountByID", suite.ctx, "acc-1").Return(nil, storageErr).Once()

	_, err = svc.Authenticate(suite.ctx, token)
	suite.ErrorIs(err, apperrors.ErrStorage)
	suite.NotErrorIs(err, apperrors.ErrUnauthorized)
	repo.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestEnsureAdmin_CreatesOnceAndIsIdempotent() {
	suite.Require().NoError(suite.service.EnsureAdmin(suite.ctx, "root@example.com", "bootstrap-pass"))
	suite.Require().NoError(suite.service.EnsureAdmin(suite.ctx, "ROOT@example.com", "bootstrap-pass"))

	acc, err := suite.store.FindAccountByEmail(suite.ctx, "root@example.com")
	suite.Require().NoError(err)
	suite.Equal(domain.RoleAdmin, acc.Role)
	suite.Equal(domain.SystemActor, acc.CreatedBy)

	accounts, err := suite.store.ListAccounts(suite.ctx, 10, 0)
	suite.Require().NoError(err)
	suite.Len(accounts, 1)

	session, err := suite.service.Login(suite.ctx, dto.LoginRequest{Email: "root@example.com", Password: "bootstrap-pass"})
	suite.Require().NoError(err)
	suite.Equal(domain.RoleAdmin, session.Role)
}

func (suite *AuthServiceTestSuite) TestEnsureAdmin_NotConfigured() {
	suite.NoError(suite.service.EnsureAdmin(suite.ctx, "", ""))
	accounts, err := suite.store.ListAccounts(suite.ctx, 10, 0)
	suite.Require().NoError(err)
	suite.Empty(accounts)
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
