package handlers

import (
	"fmt"
	"net/http"

	"github.com/SscSPs/brokerdesk/internal/core/domain"
	portssvc "github.com/SscSPs/brokerdesk/internal/core/ports/services"
	"github.com/SscSPs/brokerdesk/internal/middleware"
	"github.com/SscSPs/brokerdesk/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) error {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authLimiter, err := middleware.NewMemoryLimiter(cfg.LoginRateLimit)
	if err != nil {
		return fmt.Errorf("failed to build auth rate limiter: %w", err)
	}
	registerAuthRoutes(r, services.Auth, middleware.RateLimit(authLimiter))

	setupAPIV1Routes(r, services)
	return nil
}

// setupAPIV1Routes configures the authenticated /api/v1 group and its admin subgroup.
func setupAPIV1Routes(r *gin.Engine, services *portssvc.ServiceContainer) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(services.Auth))

	registerMeRoutes(v1, services.Account, services.Message)
	registerTransactionRoutes(v1, services.Transaction)

	admin := v1.Group("/admin", middleware.RequireRole(domain.RoleAdmin))
	registerAdminRoutes(admin, services)
}
