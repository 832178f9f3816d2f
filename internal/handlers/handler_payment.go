package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/hoteliq/billing_backend/internal/core/ports/services"
	"github.com/hoteliq/billing_backend/internal/dto"
	"github.com/hoteliq/billing_backend/internal/middleware"
)

// paymentHandler handles HTTP requests on the payment ledger.
type paymentHandler struct {
	paymentService portssvc.PaymentSvcFacade
}

// registerPaymentRoutes registers routes related to payments and refunds.
func registerPaymentRoutes(rg *gin.RouterGroup, paymentService portssvc.PaymentSvcFacade) {
	h := &paymentHandler{paymentService: paymentService}

	payments := rg.Group("/payments")
	{
		payments.POST("", h.createPayment)
		payments.GET("/:id", h.getPayment)
		payments.POST("/:id/refunds", h.refundPayment)
		payments.POST("/:id/void", h.voidPayment)
	}
}

// createPayment godoc
// @Summary Record a payment
// @Description Posts money received against the invoice named in the body
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   payment body dto.CreatePaymentRequest true "Payment details"
// @Success 201 {object} domain.Payment
// @Failure 400 {object} map[string]string "Amount must be positive, reference missing, or unknown payment method"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 409 {object} map[string]string "Invoice is void"
// @Security BearerAuth
// @Router /payments [post]
func (h *paymentHandler) createPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreatePayment", slog.String("error", err.Error()))
		respondBindError(c, err)
		return
	}
	if req.InvoiceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invoiceID is required"})
		return
	}

	actorID, ok := requireActor(c, logger)
	if !ok {
		return
	}

	payment, err := h.paymentService.CreatePayment(c.Request.Context(), req, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "record payment")
		return
	}

	logger.Info("Payment recorded", slog.String("payment_id", payment.PaymentID), slog.String("invoice_id", payment.InvoiceID))
	c.JSON(http.StatusCreated, payment)
}

// getPayment godoc
// @Summary Get a payment by ID
// @Tags payments
// @Produce  json
// @Param   id path string true "Payment ID"
// @Success 200 {object} domain.Payment
// @Failure 404 {object} map[string]string "Payment not found"
// @Security BearerAuth
// @Router /payments/{id} [get]
func (h *paymentHandler) getPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	paymentID := c.Param("id")

	payment, err := h.paymentService.GetPaymentByID(c.Request.Context(), paymentID)
	if err != nil {
		respondServiceError(c, logger, err, "retrieve payment")
		return
	}
	c.JSON(http.StatusOK, payment)
}

// refundPayment godoc
// @Summary Refund a posted payment
// @Description Records a refund up to the payment amount and moves the payment to refunded
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   id path string true "Payment ID"
// @Param   refund body dto.RefundPaymentRequest true "Refund amount and reason"
// @Success 201 {object} domain.PaymentRefund
// @Failure 400 {object} map[string]string "Refund exceeds payment amount"
// @Failure 404 {object} map[string]string "Payment not found"
// @Failure 409 {object} map[string]string "Payment is not posted"
// @Security BearerAuth
// @Router /payments/{id}/refunds [post]
func (h *paymentHandler) refundPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	paymentID := c.Param("id")

	var req dto.RefundPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RefundPayment", slog.String("error", err.Error()))
		respondBindError(c, err)
		return
	}

	actorID, ok := requireActor(c, logger)
	if !ok {
		return
	}

	refund, err := h.paymentService.RefundPayment(c.Request.Context(), paymentID, req, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "refund payment")
		return
	}

	logger.Info("Payment refunded", slog.String("payment_id", paymentID), slog.String("refund_id", refund.PaymentRefundID))
	c.JSON(http.StatusCreated, refund)
}

// voidPayment godoc
// @Summary Void a posted payment
// @Description Moves a posted payment to its terminal void state, restoring the invoice balance
// @Tags payments
// @Produce  json
// @Param   id path string true "Payment ID"
// @Success 200 {object} domain.Payment
// @Failure 404 {object} map[string]string "Payment not found"
// @Failure 409 {object} map[string]string "Payment is not posted"
// @Security BearerAuth
// @Router /payments/{id}/void [post]
func (h *paymentHandler) voidPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	paymentID := c.Param("id")

	actorID, ok := requireActor(c, logger)
	if !ok {
		return
	}

	payment, err := h.paymentService.VoidPayment(c.Request.Context(), paymentID, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "void payment")
		return
	}

	logger.Info("Payment voided", slog.String("payment_id", paymentID))
	c.JSON(http.StatusOK, payment)
}
