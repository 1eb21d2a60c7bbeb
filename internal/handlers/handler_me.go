package handlers

import (
	"net/http"
	"strconv"

	portssvc "github.com/SscSPs/brokerdesk/internal/core/ports/services"
	"github.com/SscSPs/brokerdesk/internal/dto"
	"github.com/SscSPs/brokerdesk/internal/middleware"
	"github.com/gin-gonic/gin"
)

// meHandler serves the caller's own profile and inbox.
type meHandler struct {
	accountService portssvc.AccountSvcFacade
	messageService portssvc.MessageSvcFacade
}

func newMeHandler(as portssvc.AccountSvcFacade, ms portssvc.MessageSvcFacade) *meHandler {
	return &meHandler{accountService: as, messageService: ms}
}

func registerMeRoutes(rg *gin.RouterGroup, as portssvc.AccountSvcFacade, ms portssvc.MessageSvcFacade) {
	h := newMeHandler(as, ms)

	me := rg.Group("/me")
	{
		me.GET("", h.getProfile)
		me.GET("/messages", h.listMessages)
	}
}

// getProfile godoc
// @Summary Get my account
// @Description Returns the caller's profile, balance, status and role.
// @Tags me
// @Produce json
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /me [get]
func (h *meHandler) getProfile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	caller, ok := middleware.GetCallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	account, err := h.accountService.GetProfile(c.Request.Context(), caller)
	if err != nil {
		respondError(c, logger, err, "load profile")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// listMessages godoc
// @Summary List my billing messages
// @Tags me
// @Produce json
// @Param limit query int false "Maximum number of messages" default(50)
// @Success 200 {array} dto.MessageResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /me/messages [get]
func (h *meHandler) listMessages(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	caller, ok := middleware.GetCallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	msgs, err := h.messageService.ListMessages(c.Request.Context(), caller, limit)
	if err != nil {
		respondError(c, logger, err, "list messages")
		return
	}
	c.JSON(http.StatusOK, dto.ToListMessageResponse(msgs))
}
