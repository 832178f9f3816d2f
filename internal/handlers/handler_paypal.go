package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/hoteliq/billing_backend/internal/core/ports/services"
	"github.com/hoteliq/billing_backend/internal/dto"
	"github.com/hoteliq/billing_backend/internal/middleware"
)

// gatewayActorID attributes ledger writes made by the PayPal redirect flow,
// where no authenticated staff member is present.
const gatewayActorID = "system:paypal"

// paypalHandler handles the PayPal checkout flow.
type paypalHandler struct {
	paypalService portssvc.PayPalSvcFacade
}

// registerPayPalRoutes registers the authenticated PayPal operations.
func registerPayPalRoutes(rg *gin.RouterGroup, paypalService portssvc.PayPalSvcFacade) {
	h := &paypalHandler{paypalService: paypalService}

	paypal := rg.Group("/paypal")
	{
		paypal.POST("/payments", h.createPayment)
		paypal.GET("/payments/:orderId", h.getOrderStatus)
		paypal.POST("/refunds", h.refundPayment)
	}
}

// registerPayPalRedirectRoutes registers the unauthenticated return and cancel
// endpoints the gateway redirects the payer to.
func registerPayPalRedirectRoutes(rg *gin.RouterGroup, paypalService portssvc.PayPalSvcFacade) {
	h := &paypalHandler{paypalService: paypalService}

	paypal := rg.Group("/paypal")
	{
		paypal.GET("/execute", h.executePayment)
		paypal.GET("/cancel", h.cancelPayment)
	}
}

// createPayment godoc
// @Summary Start a PayPal payment for an invoice
// @Description Creates a gateway order for the invoice's outstanding balance and returns the approval URL
// @Tags paypal
// @Accept  json
// @Produce  json
// @Param   payment body dto.PayPalCreatePaymentRequest true "Invoice to collect"
// @Success 201 {object} dto.PayPalCreatePaymentResponse
// @Failure 400 {object} map[string]string "Invoice has no outstanding balance"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 502 {object} map[string]string "Gateway unavailable"
// @Security BearerAuth
// @Router /paypal/payments [post]
func (h *paypalHandler) createPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PayPalCreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PayPal CreatePayment", slog.String("error", err.Error()))
		respondBindError(c, err)
		return
	}

	actorID, ok := requireActor(c, logger)
	if !ok {
		return
	}

	resp, err := h.paypalService.CreatePayment(c.Request.Context(), req, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "start PayPal payment")
		return
	}

	logger.Info("PayPal order created", slog.String("invoice_id", req.InvoiceID), slog.String("order_id", resp.PaymentID))
	c.JSON(http.StatusCreated, resp)
}

// getOrderStatus godoc
// @Summary Look up a PayPal order's status
// @Description Fetches the gateway's current status for an order opened via this API
// @Tags paypal
// @Produce  json
// @Param   orderId path string true "Gateway order ID"
// @Success 200 {object} dto.PayPalOrderStatusResponse
// @Failure 502 {object} map[string]string "Gateway unavailable"
// @Security BearerAuth
// @Router /paypal/payments/{orderId} [get]
func (h *paypalHandler) getOrderStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orderID := c.Param("orderId")

	resp, err := h.paypalService.GetOrderStatus(c.Request.Context(), orderID)
	if err != nil {
		respondServiceError(c, logger, err, "get PayPal order status")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// executePayment godoc
// @Summary Execute an approved PayPal payment
// @Description Captures the approved order and records the payment against its invoice
// @Tags paypal
// @Produce  json
// @Param   token query string true "Gateway order ID"
// @Success 200 {object} domain.Payment
// @Failure 400 {object} map[string]string "Missing token"
// @Failure 502 {object} map[string]string "Capture failed"
// @Router /paypal/execute [get]
func (h *paypalHandler) executePayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orderID := c.Query("token")
	if orderID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token query parameter is required"})
		return
	}

	payment, err := h.paypalService.ExecutePayment(c.Request.Context(), orderID, gatewayActorID)
	if err != nil {
		respondServiceError(c, logger, err, "execute PayPal payment")
		return
	}

	logger.Info("PayPal payment executed", slog.String("order_id", orderID), slog.String("payment_id", payment.PaymentID))
	c.JSON(http.StatusOK, payment)
}

// cancelPayment godoc
// @Summary PayPal cancel return
// @Description Landing endpoint for payers who abandon checkout; nothing is recorded
// @Tags paypal
// @Produce  json
// @Param   token query string false "Gateway order ID"
// @Success 200 {object} map[string]string
// @Router /paypal/cancel [get]
func (h *paypalHandler) cancelPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("PayPal checkout cancelled", slog.String("order_id", c.Query("token")))
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

// refundPayment godoc
// @Summary Refund a PayPal payment
// @Description Refunds the capture at the gateway and records the refund on the ledger
// @Tags paypal
// @Accept  json
// @Produce  json
// @Param   refund body dto.PayPalRefundRequest true "Payment and optional partial amount"
// @Success 200 {object} domain.Payment
// @Failure 400 {object} map[string]string "Refund exceeds payment amount"
// @Failure 404 {object} map[string]string "Payment not found"
// @Failure 502 {object} map[string]string "Gateway refund failed"
// @Security BearerAuth
// @Router /paypal/refunds [post]
func (h *paypalHandler) refundPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PayPalRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PayPal Refund", slog.String("error", err.Error()))
		respondBindError(c, err)
		return
	}

	actorID, ok := requireActor(c, logger)
	if !ok {
		return
	}

	payment, err := h.paypalService.RefundPayment(c.Request.Context(), req, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "refund PayPal payment")
		return
	}

	logger.Info("PayPal payment refunded", slog.String("payment_id", req.PaymentID))
	c.JSON(http.StatusOK, payment)
}
