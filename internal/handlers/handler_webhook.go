package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hoteliq/billing_backend/internal/core/domain"
	portssvc "github.com/hoteliq/billing_backend/internal/core/ports/services"
	"github.com/hoteliq/billing_backend/internal/dto"
	"github.com/hoteliq/billing_backend/internal/middleware"
)

// webhookHandler handles inbound webhook ingestion and the audit log.
type webhookHandler struct {
	webhookService portssvc.WebhookSvcFacade
}

// registerWebhookIngestRoutes registers the public ingestion endpoint. The
// caller wraps the group with signature verification and rate limiting.
func registerWebhookIngestRoutes(rg *gin.RouterGroup, webhookService portssvc.WebhookSvcFacade) {
	h := &webhookHandler{webhookService: webhookService}
	rg.POST("/:source", h.ingestEvent)
}

// registerWebhookAdminRoutes registers the authenticated audit log routes.
func registerWebhookAdminRoutes(rg *gin.RouterGroup, webhookService portssvc.WebhookSvcFacade) {
	h := &webhookHandler{webhookService: webhookService}

	events := rg.Group("/webhook-events")
	{
		events.GET("", h.listEvents)
		events.GET("/:id", h.getEvent)
	}
}

// ingestEvent godoc
// @Summary Ingest an inbound webhook event
// @Description Stores the raw event from the property management system, point of sale or payment gateway
// @Tags webhooks
// @Accept  json
// @Produce  json
// @Param   source path string true "Event source" Enums(pms, pos, payment_gateway)
// @Param   X-Webhook-Signature header string false "HMAC-SHA256 signature of the body"
// @Param   payload body object true "Raw event payload"
// @Success 202 {object} domain.WebhookEvent
// @Failure 400 {object} map[string]string "Unknown source or invalid JSON"
// @Failure 401 {object} map[string]string "Signature mismatch"
// @Router /webhooks/{source} [post]
func (h *webhookHandler) ingestEvent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	source := domain.WebhookSource(c.Param("source"))

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		logger.Warn("Failed to read webhook body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	req := dto.IngestWebhookRequest{
		Source:    source,
		EventType: c.GetHeader("X-Event-Type"),
		Payload:   payload,
	}

	event, err := h.webhookService.IngestEvent(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, logger, err, "ingest webhook event")
		return
	}

	logger.Info("Webhook event ingested", slog.String("webhook_event_id", event.WebhookEventID), slog.String("source", string(source)))
	c.JSON(http.StatusAccepted, event)
}

// listEvents godoc
// @Summary List stored webhook events
// @Tags webhooks
// @Produce  json
// @Param   source query string false "Filter by source" Enums(pms, pos, payment_gateway)
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Cursor from a previous page"
// @Success 200 {object} dto.ListWebhookEventsResponse
// @Security BearerAuth
// @Router /webhook-events [get]
func (h *webhookHandler) listEvents(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	limit, nextToken := parseListQuery(c)

	params := dto.ListWebhookEventsParams{Limit: limit, NextToken: nextToken}
	if raw := c.Query("source"); raw != "" {
		source := domain.WebhookSource(raw)
		params.Source = &source
	}

	resp, err := h.webhookService.ListEvents(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, logger, err, "list webhook events")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getEvent godoc
// @Summary Get a stored webhook event by ID
// @Tags webhooks
// @Produce  json
// @Param   id path string true "Webhook event ID"
// @Success 200 {object} domain.WebhookEvent
// @Failure 404 {object} map[string]string "Event not found"
// @Security BearerAuth
// @Router /webhook-events/{id} [get]
func (h *webhookHandler) getEvent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	event, err := h.webhookService.GetEventByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "retrieve webhook event")
		return
	}
	c.JSON(http.StatusOK, event)
}
