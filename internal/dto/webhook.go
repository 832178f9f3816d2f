package dto

import (
	"encoding/json"

	"github.com/hoteliq/billing_backend/internal/core/domain"
)

// IngestWebhookRequest carries the raw payload of an inbound event. The event
// type is lifted out of the payload when present; the rest stays opaque.
type IngestWebhookRequest struct {
	Source    domain.WebhookSource
	EventType string
	Payload   json.RawMessage
}

// ListWebhookEventsParams holds filter and pagination parameters.
type ListWebhookEventsParams struct {
	Source    *domain.WebhookSource
	Limit     int
	NextToken *string
}

// ListWebhookEventsResponse is a page of stored webhook events.
type ListWebhookEventsResponse struct {
	Events    []domain.WebhookEvent `json:"events"`
	NextToken *string               `json:"nextToken,omitempty"`
}
