package domain

import (
	"encoding/json"
	"time"
)

// WebhookSource tags which external system delivered an event. The three
// sources share one ingestion path; the tag is the only difference.
type WebhookSource string

const (
	SourcePMS            WebhookSource = "pms"
	SourcePOS            WebhookSource = "pos"
	SourcePaymentGateway WebhookSource = "payment_gateway"
)

// ValidWebhookSource reports whether s is one of the known source tags.
func ValidWebhookSource(s WebhookSource) bool {
	switch s {
	case SourcePMS, SourcePOS, SourcePaymentGateway:
		return true
	}
	return false
}

// WebhookEvent is an append-only audit row capturing a raw inbound event.
// Ingestion never mutates folios or invoices.
type WebhookEvent struct {
	WebhookEventID string          `json:"webhookEventID"`
	Source         WebhookSource   `json:"source"`
	EventType      string          `json:"eventType"`
	Payload        json.RawMessage `json:"payload"`
	Status         string          `json:"status"` // received, processed, failed
	ProcessedAt    *time.Time      `json:"processedAt,omitempty"`
	Notes          string          `json:"notes"`
	AuditFields
}
