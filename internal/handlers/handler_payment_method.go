package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/hoteliq/billing_backend/internal/core/ports/services"
	"github.com/hoteliq/billing_backend/internal/dto"
	"github.com/hoteliq/billing_backend/internal/middleware"
)

// paymentMethodHandler handles HTTP requests for payment method reference data.
type paymentMethodHandler struct {
	paymentMethodService portssvc.PaymentMethodSvcFacade
}

// registerPaymentMethodRoutes registers routes related to payment methods.
func registerPaymentMethodRoutes(rg *gin.RouterGroup, paymentMethodService portssvc.PaymentMethodSvcFacade) {
	h := &paymentMethodHandler{paymentMethodService: paymentMethodService}

	methods := rg.Group("/payment-methods")
	{
		methods.POST("", h.createPaymentMethod)
		methods.GET("/:id", h.getPaymentMethod)
		methods.GET("", h.listPaymentMethods)
		methods.PUT("/:id", h.updatePaymentMethod)
	}
}

// createPaymentMethod godoc
// @Summary Register a payment method
// @Tags payment-methods
// @Accept  json
// @Produce  json
// @Param   method body dto.CreatePaymentMethodRequest true "Payment method details"
// @Success 201 {object} domain.PaymentMethod
// @Failure 409 {object} map[string]string "Name already exists"
// @Security BearerAuth
// @Router /payment-methods [post]
func (h *paymentMethodHandler) createPaymentMethod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreatePaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreatePaymentMethod", slog.String("error", err.Error()))
		respondBindError(c, err)
		return
	}

	actorID, ok := requireActor(c, logger)
	if !ok {
		return
	}

	method, err := h.paymentMethodService.CreatePaymentMethod(c.Request.Context(), req, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "create payment method")
		return
	}

	logger.Info("Payment method created", slog.String("payment_method_id", method.PaymentMethodID))
	c.JSON(http.StatusCreated, method)
}

// getPaymentMethod godoc
// @Summary Get a payment method by ID
// @Tags payment-methods
// @Produce  json
// @Param   id path string true "Payment method ID"
// @Success 200 {object} domain.PaymentMethod
// @Failure 404 {object} map[string]string "Payment method not found"
// @Security BearerAuth
// @Router /payment-methods/{id} [get]
func (h *paymentMethodHandler) getPaymentMethod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	method, err := h.paymentMethodService.GetPaymentMethodByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "retrieve payment method")
		return
	}
	c.JSON(http.StatusOK, method)
}

// listPaymentMethods godoc
// @Summary List payment methods
// @Tags payment-methods
// @Produce  json
// @Param   activeOnly query bool false "Only return active methods"
// @Success 200 {array} domain.PaymentMethod
// @Security BearerAuth
// @Router /payment-methods [get]
func (h *paymentMethodHandler) listPaymentMethods(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	methods, err := h.paymentMethodService.ListPaymentMethods(c.Request.Context(), c.Query("activeOnly") == "true")
	if err != nil {
		respondServiceError(c, logger, err, "list payment methods")
		return
	}
	c.JSON(http.StatusOK, methods)
}

// updatePaymentMethod godoc
// @Summary Update a payment method
// @Tags payment-methods
// @Accept  json
// @Produce  json
// @Param   id path string true "Payment method ID"
// @Param   method body dto.UpdatePaymentMethodRequest true "Fields to update"
// @Success 200 {object} domain.PaymentMethod
// @Failure 404 {object} map[string]string "Payment method not found"
// @Failure 409 {object} map[string]string "Name already exists"
// @Security BearerAuth
// @Router /payment-methods/{id} [put]
func (h *paymentMethodHandler) updatePaymentMethod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdatePaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdatePaymentMethod", slog.String("error", err.Error()))
		respondBindError(c, err)
		return
	}

	actorID, ok := requireActor(c, logger)
	if !ok {
		return
	}

	method, err := h.paymentMethodService.UpdatePaymentMethod(c.Request.Context(), c.Param("id"), req, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "update payment method")
		return
	}

	logger.Info("Payment method updated", slog.String("payment_method_id", method.PaymentMethodID))
	c.JSON(http.StatusOK, method)
}
