package repositories

import (
	"context"

	"github.com/hoteliq/billing_backend/internal/core/domain"
)

// WebhookRepositoryFacade stores and lists inbound webhook audit rows.
type WebhookRepositoryFacade interface {
	SaveWebhookEvent(ctx context.Context, event domain.WebhookEvent) error
	FindWebhookEventByID(ctx context.Context, eventID string) (*domain.WebhookEvent, error)
	ListWebhookEvents(ctx context.Context, source *domain.WebhookSource, limit int, nextToken *string) ([]domain.WebhookEvent, *string, error)
}
