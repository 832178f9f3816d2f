package services

import (
	"context"

	"github.com/hoteliq/billing_backend/internal/core/domain"
	"github.com/hoteliq/billing_backend/internal/dto"
)

// WebhookSvcFacade ingests and processes inbound events from external systems.
type WebhookSvcFacade interface {
	// IngestEvent persists the raw event for back-office processing. Ingestion
	// never mutates folios or invoices.
	IngestEvent(ctx context.Context, req dto.IngestWebhookRequest) (*domain.WebhookEvent, error)
	GetEventByID(ctx context.Context, eventID string) (*domain.WebhookEvent, error)
	ListEvents(ctx context.Context, params dto.ListWebhookEventsParams) (*dto.ListWebhookEventsResponse, error)
}
