package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nucash/nucash_backend/internal/apperrors"
	portssvc "github.com/nucash/nucash_backend/internal/core/ports/services"
	"github.com/nucash/nucash_backend/internal/dto"
	"github.com/nucash/nucash_backend/internal/middleware"
)

// paymentHandler handles the money-moving endpoints.
type paymentHandler struct {
	paymentService portssvc.PaymentSvcFacade
}

// newPaymentHandler creates a new paymentHandler.
func newPaymentHandler(paymentService portssvc.PaymentSvcFacade) *paymentHandler {
	return &paymentHandler{paymentService: paymentService}
}

// registerPaymentRoutes registers the shuttle and treasury endpoints.
func registerPaymentRoutes(rg *gin.RouterGroup, paymentService portssvc.PaymentSvcFacade) {
	h := newPaymentHandler(paymentService)
	shuttle := rg.Group("/shuttle")
	{
		shuttle.POST("/pay", h.pay)
		shuttle.POST("/refund", h.refund)
		shuttle.POST("/sync", h.sync)
	}
	treasury := rg.Group("/treasury")
	{
		treasury.POST("/cashin", h.cashIn)
	}
}

// pay godoc
// @Summary Debit one fare from a card
// @Description Debits the resolved fare from the account associated with the RFID tag
// @Tags shuttle
// @Accept  json
// @Produce  json
// @Param   request body dto.PayRequest true "Payment request"
// @Success 200 {object} dto.PayReceipt
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 402 {object} map[string]interface{} "Insufficient balance"
// @Failure 403 {object} map[string]string "Account not activated"
// @Failure 404 {object} map[string]string "No account for card"
// @Router /shuttle/pay [post]
func (h *paymentHandler) pay(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for pay", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	receipt, err := h.paymentService.Pay(c.Request.Context(), req)
	if err != nil {
		respondPaymentError(c, err)
		return
	}

	c.JSON(http.StatusOK, receipt)
}

// refund godoc
// @Summary Refund completed fare transactions
// @Description Processes each referenced transaction independently; partial success is reported per item
// @Tags shuttle
// @Accept  json
// @Produce  json
// @Param   request body dto.RefundRequest true "Refund request"
// @Success 200 {object} dto.RefundResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /shuttle/refund [post]
func (h *paymentHandler) refund(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for refund", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Caller ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.paymentService.Refund(c.Request.Context(), req, userID)
	if err != nil {
		respondPaymentError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// sync godoc
// @Summary Replay offline debit attempts
// @Description Applies a device's offline batch in array order and reports per-entry outcomes
// @Tags shuttle
// @Accept  json
// @Produce  json
// @Param   request body dto.SyncRequest true "Offline batch"
// @Success 200 {object} dto.SyncResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Router /shuttle/sync [post]
func (h *paymentHandler) sync(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for sync", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	resp, err := h.paymentService.Sync(c.Request.Context(), req)
	if err != nil {
		respondPaymentError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// cashIn godoc
// @Summary Credit an account at the treasury counter
// @Description Credits the account identified by school ID; activation is not required
// @Tags treasury
// @Accept  json
// @Produce  json
// @Param   request body dto.CashInRequest true "Cash-in request"
// @Success 200 {object} dto.CashInReceipt
// @Failure 400 {object} map[string]string "Invalid amount"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "No account for school ID"
// @Router /treasury/cashin [post]
func (h *paymentHandler) cashIn(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CashInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for cash-in", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Caller ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	receipt, err := h.paymentService.CashIn(c.Request.Context(), req, userID)
	if err != nil {
		respondPaymentError(c, err)
		return
	}

	c.JSON(http.StatusOK, receipt)
}

// respondPaymentError maps service errors to HTTP statuses. An insufficient
// balance gets 402 with the figures the device needs to render the decline.
func respondPaymentError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	if insuffErr, ok := apperrors.AsInsufficientBalance(err); ok {
		logger.Warn("Payment declined for insufficient balance",
			slog.String("balance", insuffErr.Balance.String()),
			slog.String("fare", insuffErr.Fare.String()))
		c.JSON(http.StatusPaymentRequired, gin.H{
			"error":         insuffErr.Error(),
			"balance":       insuffErr.Balance,
			"fare":          insuffErr.Fare,
			"negativeLimit": insuffErr.NegativeLimit,
		})
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Payment target not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		logger.Warn("Payment forbidden", slog.String("error", err.Error()))
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrAlreadyRefunded):
		logger.Warn("Transaction already refunded", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Payment validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error("Payment operation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Operation failed"})
	}
}
