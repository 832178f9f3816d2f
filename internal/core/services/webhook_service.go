package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hoteliq/billing_backend/internal/apperrors"
	"github.com/hoteliq/billing_backend/internal/core/domain"
	portsrepo "github.com/hoteliq/billing_backend/internal/core/ports/repositories"
	portssvc "github.com/hoteliq/billing_backend/internal/core/ports/services"
	"github.com/hoteliq/billing_backend/internal/dto"
	"github.com/hoteliq/billing_backend/internal/middleware"
)

var ErrUnknownWebhookSource = errors.New("unknown webhook source")

// webhookService ingests inbound events from external systems into an
// append-only audit table. Ingestion never mutates folios or invoices.
type webhookService struct {
	webhookRepo portsrepo.WebhookRepositoryFacade
}

// NewWebhookService creates a new WebhookService.
func NewWebhookService(webhookRepo portsrepo.WebhookRepositoryFacade) portssvc.WebhookSvcFacade {
	return &webhookService{webhookRepo: webhookRepo}
}

var _ portssvc.WebhookSvcFacade = (*webhookService)(nil)

// IngestEvent persists the raw event as received. The event type is lifted
// from the payload when the caller did not supply one.
func (s *webhookService) IngestEvent(ctx context.Context, req dto.IngestWebhookRequest) (*domain.WebhookEvent, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !domain.ValidWebhookSource(req.Source) {
		return nil, fmt.Errorf("%w: %w %q", apperrors.ErrValidation, ErrUnknownWebhookSource, req.Source)
	}
	if len(req.Payload) == 0 || !json.Valid(req.Payload) {
		return nil, fmt.Errorf("%w: webhook payload must be a JSON document", apperrors.ErrValidation)
	}

	eventType := req.EventType
	if eventType == "" {
		var envelope struct {
			EventType string `json:"event_type"`
		}
		if err := json.Unmarshal(req.Payload, &envelope); err == nil {
			eventType = envelope.EventType
		}
	}

	now := time.Now().UTC()
	event := domain.WebhookEvent{
		WebhookEventID: uuid.NewString(),
		Source:         req.Source,
		EventType:      eventType,
		Payload:        req.Payload,
		Status:         "received",
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.webhookRepo.SaveWebhookEvent(ctx, event); err != nil {
		logger.Error("Failed to save webhook event", slog.String("error", err.Error()), slog.String("source", string(req.Source)))
		return nil, fmt.Errorf("failed to save webhook event: %w", err)
	}

	logger.Info("Webhook event ingested",
		slog.String("webhook_event_id", event.WebhookEventID),
		slog.String("source", string(event.Source)),
		slog.String("event_type", event.EventType),
	)
	return &event, nil
}

func (s *webhookService) GetEventByID(ctx context.Context, eventID string) (*domain.WebhookEvent, error) {
	event, err := s.webhookRepo.FindWebhookEventByID(ctx, eventID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find webhook event", slog.String("error", err.Error()), slog.String("webhook_event_id", eventID))
		}
		return nil, fmt.Errorf("failed to find webhook event %s: %w", eventID, err)
	}
	return event, nil
}

func (s *webhookService) ListEvents(ctx context.Context, params dto.ListWebhookEventsParams) (*dto.ListWebhookEventsResponse, error) {
	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	events, nextToken, err := s.webhookRepo.ListWebhookEvents(ctx, params.Source, limit, params.NextToken)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list webhook events", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list webhook events: %w", err)
	}
	return &dto.ListWebhookEventsResponse{Events: events, NextToken: nextToken}, nil
}
