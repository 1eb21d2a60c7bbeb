package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/brokerdesk/internal/core/domain"
	portssvc "github.com/SscSPs/brokerdesk/internal/core/ports/services"
	"github.com/SscSPs/brokerdesk/internal/dto"
	"github.com/SscSPs/brokerdesk/internal/middleware"
	"github.com/gin-gonic/gin"
)

// adminHandler serves the back-office routes. Every route sits behind RequireRole(admin)
// and the services check the role again.
type adminHandler struct {
	accountService     portssvc.AccountSvcFacade
	transactionService portssvc.TransactionSvcFacade
	messageService     portssvc.MessageSvcFacade
}

func newAdminHandler(as portssvc.AccountSvcFacade, ts portssvc.TransactionSvcFacade, ms portssvc.MessageSvcFacade) *adminHandler {
	return &adminHandler{accountService: as, transactionService: ts, messageService: ms}
}

func registerAdminRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newAdminHandler(services.Account, services.Transaction, services.Message)

	txns := rg.Group("/transactions")
	{
		txns.GET("/pending", h.listPending)
		txns.POST("/:transactionID/decision", h.decideTransaction)
	}

	accounts := rg.Group("/accounts")
	{
		accounts.GET("", h.listAccounts)
		accounts.GET("/:accountID", h.getAccount)
		accounts.DELETE("/:accountID", h.deleteAccount)
		accounts.PUT("/:accountID/status", h.setAccountStatus)
		accounts.PUT("/:accountID/balance", h.setBalance)
		accounts.GET("/:accountID/adjustments", h.listAdjustments)
		accounts.GET("/:accountID/reconciliation", h.reconcile)
		accounts.POST("/:accountID/messages", h.sendMessage)
	}
}

// adminCaller returns the caller and the logger with the target account attached.
func adminCaller(c *gin.Context) (domain.Caller, *slog.Logger, bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if id := c.Param("accountID"); id != "" {
		logger = logger.With(slog.String("target_account_id", id))
	}
	caller, ok := middleware.GetCallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return caller, logger, false
	}
	return caller, logger, true
}

// listPending godoc
// @Summary Pending transaction queue
// @Description Oldest first. Optional accountID filter.
// @Tags admin
// @Produce json
// @Param accountID query string false "Filter by account"
// @Param limit query int false "Maximum rows" default(100)
// @Success 200 {array} dto.TransactionResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/transactions/pending [get]
func (h *adminHandler) listPending(c *gin.Context) {
	caller, logger, ok := adminCaller(c)
	if !ok {
		return
	}

	var params dto.ListPendingParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, err, "pending query")
		return
	}
	txns, err := h.transactionService.ListPendingTransactions(c.Request.Context(), caller, params)
	if err != nil {
		respondError(c, logger, err, "list pending transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ToListTransactionResponse(txns))
}

// decideTransaction godoc
// @Summary Approve or reject a pending transaction
// @Description Approving a deposit credits the balance; approving a withdrawal debits it if funds allow.
// @Tags admin
// @Accept json
// @Produce json
// @Param transactionID path int true "Transaction ID"
// @Param decision body dto.DecisionRequest true "approve or reject"
// @Success 200 {object} dto.DecisionResponse
// @Failure 400 {object} ErrorResponse "Insufficient funds or bad input"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Already decided"
// @Failure 503 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/transactions/{transactionID}/decision [post]
func (h *adminHandler) decideTransaction(c *gin.Context) {
	caller, logger, ok := adminCaller(c)
	if !ok {
		return
	}
	id, ok := parseTransactionID(c)
	if !ok {
		return
	}

	var req dto.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err, "decision request")
		return
	}

	result, err := h.transactionService.DecideTransaction(c.Request.Context(), caller, id, req.Decision)
	if err != nil {
		respondError(c, logger, err, "decide transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToDecisionResponse(result))
}

// listAccounts godoc
// @Summary List accounts
// @Tags admin
// @Produce json
// @Param limit query int false "Limit number of results" default(20)
// @Param offset query int false "Offset for pagination" default(0)
// @Success 200 {array} dto.AccountResponse
// @Security BearerAuth
// @Router /admin/accounts [get]
func (h *adminHandler) listAccounts(c *gin.Context) {
	caller, logger, ok := adminCaller(c)
	if !ok {
		return
	}

	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, err, "account query")
		return
	}
	accounts, err := h.accountService.ListAccounts(c.Request.Context(), caller, params.Limit, params.Offset)
	if err != nil {
		respondError(c, logger, err, "list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ToListAccountResponse(accounts))
}

// getAccount godoc
// @Summary Get an account
// @Tags admin
// @Produce json
// @Param accountID path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/accounts/{accountID} [get]
func (h *adminHandler) getAccount(c *gin.Context) {
	caller, logger, ok := adminCaller(c)
	if !ok {
		return
	}

	account, err := h.accountService.GetAccount(c.Request.Context(), caller, c.Param("accountID"))
	if err != nil {
		respondError(c, logger, err, "get account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// setAccountStatus godoc
// @Summary Change account status
// @Tags admin
// @Accept json
// @Produce json
// @Param accountID path string true "Account ID"
// @Param status body dto.SetAccountStatusRequest true "active, frozen or banned"
// @Success 200 {object} dto.AccountResponse
// @Failure 403 {object} ErrorResponse "Own account"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/accounts/{accountID}/status [put]
func (h *adminHandler) setAccountStatus(c *gin.Context) {
	caller, logger, ok := adminCaller(c)
	if !ok {
		return
	}

	var req dto.SetAccountStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err, "status request")
		return
	}
	account, err := h.accountService.SetAccountStatus(c.Request.Context(), caller, c.Param("accountID"), req.Status)
	if err != nil {
		respondError(c, logger, err, "set account status")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// setBalance godoc
// @Summary Override an account balance
// @Description Writes the new balance and records an adjustment with the reason.
// @Tags admin
// @Accept json
// @Produce json
// @Param accountID path string true "Account ID"
// @Param balance body dto.SetBalanceRequest true "New balance and reason"
// @Success 200 {object} dto.AccountBalanceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/accounts/{accountID}/balance [put]
func (h *adminHandler) setBalance(c *gin.Context) {
	caller, logger, ok := adminCaller(c)
	if !ok {
		return
	}

	var req dto.SetBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err, "balance request")
		return
	}
	adj, err := h.transactionService.SetBalance(c.Request.Context(), caller, c.Param("accountID"), req)
	if err != nil {
		respondError(c, logger, err, "set balance")
		return
	}
	c.JSON(http.StatusOK, dto.AccountBalanceResponse{AccountID: adj.AccountID, Balance: adj.NewBalance})
}

// deleteAccount godoc
// @Summary Soft-delete an account
// @Tags admin
// @Param accountID path string true "Account ID"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse "Own account"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/accounts/{accountID} [delete]
func (h *adminHandler) deleteAccount(c *gin.Context) {
	caller, logger, ok := adminCaller(c)
	if !ok {
		return
	}

	if err := h.accountService.DeleteAccount(c.Request.Context(), caller, c.Param("accountID")); err != nil {
		respondError(c, logger, err, "delete account")
		return
	}
	c.Status(http.StatusNoContent)
}

// listAdjustments godoc
// @Summary Balance override history
// @Tags admin
// @Produce json
// @Param accountID path string true "Account ID"
// @Success 200 {array} dto.AdjustmentResponse
// @Security BearerAuth
// @Router /admin/accounts/{accountID}/adjustments [get]
func (h *adminHandler) listAdjustments(c *gin.Context) {
	caller, logger, ok := adminCaller(c)
	if !ok {
		return
	}

	adjustments, err := h.transactionService.ListAdjustments(c.Request.Context(), caller, c.Param("accountID"))
	if err != nil {
		respondError(c, logger, err, "list adjustments")
		return
	}
	c.JSON(http.StatusOK, dto.ToListAdjustmentResponse(adjustments))
}

// reconcile godoc
// @Summary Reconcile an account
// @Description Compares the balance with approved deposits, approved withdrawals and adjustments.
// @Tags admin
// @Produce json
// @Param accountID path string true "Account ID"
// @Success 200 {object} dto.ReconciliationResponse
// @Security BearerAuth
// @Router /admin/accounts/{accountID}/reconciliation [get]
func (h *adminHandler) reconcile(c *gin.Context) {
	caller, logger, ok := adminCaller(c)
	if !ok {
		return
	}

	rec, err := h.transactionService.Reconcile(c.Request.Context(), caller, c.Param("accountID"))
	if err != nil {
		respondError(c, logger, err, "reconcile account")
		return
	}
	c.JSON(http.StatusOK, rec)
}

// sendMessage godoc
// @Summary Send a billing message
// @Tags admin
// @Accept json
// @Produce json
// @Param accountID path string true "Account ID"
// @Param message body dto.SendMessageRequest true "Subject and body"
// @Success 201 {object} dto.MessageResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/accounts/{accountID}/messages [post]
func (h *adminHandler) sendMessage(c *gin.Context) {
	caller, logger, ok := adminCaller(c)
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err, "message request")
		return
	}
	msg, err := h.messageService.SendBillingMessage(c.Request.Context(), caller, c.Param("accountID"), req)
	if err != nil {
		respondError(c, logger, err, "send billing message")
		return
	}
	c.JSON(http.StatusCreated, dto.ToMessageResponse(msg))
}
