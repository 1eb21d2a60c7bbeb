package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/brokerdesk/internal/core/ports/services"
	"github.com/SscSPs/brokerdesk/internal/dto"
	"github.com/SscSPs/brokerdesk/internal/middleware"
	"github.com/gin-gonic/gin"
)

// authHandler handles registration and login.
type authHandler struct {
	authService portssvc.CredentialSvc
}

func newAuthHandler(as portssvc.CredentialSvc) *authHandler {
	return &authHandler{authService: as}
}

// registerAuthRoutes sets up the public authentication routes behind the rate limiter.
func registerAuthRoutes(r *gin.Engine, authService portssvc.CredentialSvc, limit gin.HandlerFunc) {
	h := newAuthHandler(authService)

	auth := r.Group("/api/v1/auth", limit)
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
	}
}

// register godoc
// @Summary Register a customer account
// @Description Creates an active user account with a zero balance.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterRequest true "Registration details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Email already registered"
// @Failure 429 {object} ErrorResponse
// @Router /auth/register [post]
func (h *authHandler) register(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err, "registration request")
		return
	}

	account, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "register account")
		return
	}

	logger.Info("Account registered", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// login godoc
// @Summary Log in
// @Description Authenticates with email and password and returns a session token.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Account banned"
// @Failure 429 {object} ErrorResponse
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err, "login request")
		return
	}

	session, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "log in")
		return
	}

	logger.Info("Login successful", slog.String("account_id", session.AccountID))
	c.JSON(http.StatusOK, dto.ToLoginResponse(session))
}
