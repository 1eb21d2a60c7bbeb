package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	portssvc "github.com/SscSPs/brokerdesk/internal/core/ports/services"
	"github.com/SscSPs/brokerdesk/internal/dto"
	"github.com/SscSPs/brokerdesk/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles deposit and withdrawal requests made by account holders.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
}

func newTransactionHandler(ts portssvc.TransactionSvcFacade) *transactionHandler {
	return &transactionHandler{transactionService: ts}
}

func registerTransactionRoutes(rg *gin.RouterGroup, ts portssvc.TransactionSvcFacade) {
	h := newTransactionHandler(ts)

	txns := rg.Group("/transactions")
	{
		txns.POST("", h.submitTransaction)
		txns.GET("", h.listTransactions)
		txns.GET("/:transactionID", h.getTransaction)
	}
}

// parseTransactionID reads the :transactionID path parameter.
func parseTransactionID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("transactionID"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "transactionID must be a positive integer"})
		return 0, false
	}
	return id, true
}

// submitTransaction godoc
// @Summary Request a deposit or withdrawal
// @Description Stores a pending transaction for the caller. The balance changes only when an admin approves it.
// @Tags transactions
// @Accept json
// @Produce json
// @Param transaction body dto.SubmitTransactionRequest true "Transaction details"
// @Success 201 {object} dto.SubmitTransactionResponse
// @Failure 400 {object} ErrorResponse "Invalid amount, details or insufficient funds"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Account frozen or banned"
// @Failure 503 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions [post]
func (h *transactionHandler) submitTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	caller, ok := middleware.GetCallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.SubmitTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err, "transaction request")
		return
	}

	txn, err := h.transactionService.SubmitTransaction(c.Request.Context(), caller, req)
	if err != nil {
		respondError(c, logger, err, "submit transaction")
		return
	}

	logger.Info("Transaction request stored", slog.Int64("transaction_id", txn.TransactionID))
	c.JSON(http.StatusCreated, dto.SubmitTransactionResponse{
		TransactionID: txn.TransactionID,
		Status:        txn.Status,
		CreatedAt:     txn.CreatedAt,
	})
}

// listTransactions godoc
// @Summary List transactions
// @Description Lists the caller's transactions, newest first. Admins may pass accountID.
// @Tags transactions
// @Produce json
// @Param accountID query string false "Account to list (admin only)"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	caller, ok := middleware.GetCallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, err, "transaction query")
		return
	}

	txns, next, err := h.transactionService.ListTransactions(c.Request.Context(), caller, params)
	if err != nil {
		respondError(c, logger, err, "list transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.ToListTransactionResponse(txns),
		NextToken:    next,
	})
}

// getTransaction godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Param transactionID path int true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions/{transactionID} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	caller, ok := middleware.GetCallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	id, ok := parseTransactionID(c)
	if !ok {
		return
	}

	txn, err := h.transactionService.GetTransaction(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, logger, err, "get transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}
