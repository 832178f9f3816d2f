package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hoteliq/billing_backend/internal/core/domain"
	portssvc "github.com/hoteliq/billing_backend/internal/core/ports/services"
	"github.com/hoteliq/billing_backend/internal/dto"
	"github.com/hoteliq/billing_backend/internal/middleware"
)

// invoiceHandler handles HTTP requests related to invoices.
type invoiceHandler struct {
	invoiceService portssvc.InvoiceSvcFacade
	paymentService portssvc.PaymentSvcFacade
}

// registerInvoiceRoutes registers routes related to invoices, including the
// nested payment route.
func registerInvoiceRoutes(rg *gin.RouterGroup, invoiceService portssvc.InvoiceSvcFacade, paymentService portssvc.PaymentSvcFacade) {
	h := &invoiceHandler{invoiceService: invoiceService, paymentService: paymentService}

	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.createInvoice)
		invoices.GET("/:id", h.getInvoice)
		invoices.GET("", h.listInvoices)
		invoices.POST("/:id/credit-notes", h.postCreditNote)
		invoices.POST("/:id/debit-notes", h.postDebitNote)
		invoices.POST("/:id/payments", h.createPayment)
	}
}

// createInvoice godoc
// @Summary Issue an invoice from a folio
// @Description Snapshots the folio's current items into an immutable invoice and applies the selected discounts
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   invoice body dto.CreateInvoiceRequest true "Source folio and discounts"
// @Success 201 {object} dto.InvoiceResponse
// @Failure 400 {object} map[string]string "A selected discount is missing or not applicable"
// @Failure 404 {object} map[string]string "Folio not found"
// @Security BearerAuth
// @Router /invoices [post]
func (h *invoiceHandler) createInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateInvoice", slog.String("error", err.Error()))
		respondBindError(c, err)
		return
	}

	actorID, ok := requireActor(c, logger)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.CreateInvoiceFromFolio(c.Request.Context(), req, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "create invoice")
		return
	}

	logger.Info("Invoice issued", slog.String("invoice_id", invoice.InvoiceID), slog.String("invoice_number", invoice.InvoiceNumber))
	c.JSON(http.StatusCreated, dto.ToInvoiceResponse(*invoice))
}

// getInvoice godoc
// @Summary Get an invoice by ID
// @Description Returns the invoice with lines, discounts, adjustments, payments and the derived balance
// @Tags invoices
// @Produce  json
// @Param   id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 404 {object} map[string]string "Invoice not found"
// @Security BearerAuth
// @Router /invoices/{id} [get]
func (h *invoiceHandler) getInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("id")

	invoice, err := h.invoiceService.GetInvoiceByID(c.Request.Context(), invoiceID)
	if err != nil {
		respondServiceError(c, logger, err, "retrieve invoice")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(*invoice))
}

// listInvoices godoc
// @Summary List invoices
// @Tags invoices
// @Produce  json
// @Param   status query string false "Filter by status" Enums(issued, paid, void)
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Cursor from a previous page"
// @Success 200 {object} dto.ListInvoicesResponse
// @Security BearerAuth
// @Router /invoices [get]
func (h *invoiceHandler) listInvoices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	limit, nextToken := parseListQuery(c)

	params := dto.ListInvoicesParams{Limit: limit, NextToken: nextToken}
	if raw := c.Query("status"); raw != "" {
		status := domain.InvoiceStatus(raw)
		params.Status = &status
	}

	resp, err := h.invoiceService.ListInvoices(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, logger, err, "list invoices")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// postCreditNote godoc
// @Summary Post a credit note
// @Description Appends a negative adjustment reducing the invoice total
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   id path string true "Invoice ID"
// @Param   adjustment body dto.AdjustmentRequest true "Positive magnitude and reason"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 400 {object} map[string]string "Amount must be positive"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 409 {object} map[string]string "Invoice is void"
// @Security BearerAuth
// @Router /invoices/{id}/credit-notes [post]
func (h *invoiceHandler) postCreditNote(c *gin.Context) {
	h.postAdjustment(c, h.invoiceService.PostCreditNote, "post credit note")
}

// postDebitNote godoc
// @Summary Post a debit note
// @Description Appends a positive adjustment increasing the invoice total
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   id path string true "Invoice ID"
// @Param   adjustment body dto.AdjustmentRequest true "Positive magnitude and reason"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 400 {object} map[string]string "Amount must be positive"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 409 {object} map[string]string "Invoice is void"
// @Security BearerAuth
// @Router /invoices/{id}/debit-notes [post]
func (h *invoiceHandler) postDebitNote(c *gin.Context) {
	h.postAdjustment(c, h.invoiceService.PostDebitNote, "post debit note")
}

func (h *invoiceHandler) postAdjustment(
	c *gin.Context,
	post func(ctx context.Context, invoiceID string, req dto.AdjustmentRequest, actorID string) (*domain.Invoice, error),
	action string,
) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("id")

	var req dto.AdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for adjustment", slog.String("error", err.Error()))
		respondBindError(c, err)
		return
	}

	actorID, ok := requireActor(c, logger)
	if !ok {
		return
	}

	invoice, err := post(c.Request.Context(), invoiceID, req, actorID)
	if err != nil {
		respondServiceError(c, logger, err, action)
		return
	}

	logger.Info("Adjustment posted", slog.String("invoice_id", invoiceID), slog.String("action", action))
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(*invoice))
}

// createPayment godoc
// @Summary Record a payment against an invoice
// @Description Posts money received; a payment clearing the balance marks the invoice paid
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   id path string true "Invoice ID"
// @Param   payment body dto.CreatePaymentRequest true "Payment details"
// @Success 201 {object} domain.Payment
// @Failure 400 {object} map[string]string "Amount must be positive, reference missing, or unknown payment method"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 409 {object} map[string]string "Invoice is void"
// @Security BearerAuth
// @Router /invoices/{id}/payments [post]
func (h *invoiceHandler) createPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("id")

	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreatePayment", slog.String("error", err.Error()))
		respondBindError(c, err)
		return
	}
	// URL wins over any invoice ID in the body on the nested route.
	req.InvoiceID = invoiceID

	actorID, ok := requireActor(c, logger)
	if !ok {
		return
	}

	payment, err := h.paymentService.CreatePayment(c.Request.Context(), req, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "record payment")
		return
	}

	logger.Info("Payment recorded", slog.String("invoice_id", invoiceID), slog.String("payment_id", payment.PaymentID))
	c.JSON(http.StatusCreated, payment)
}
