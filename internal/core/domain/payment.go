package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the payment state machine: posted -> refunded and
// posted -> void are the only transitions, both terminal.
type PaymentStatus string

const (
	PaymentPosted   PaymentStatus = "posted"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentVoid     PaymentStatus = "void"
)

// Payment records money received against an invoice. Only posted payments
// count toward balance reduction.
type Payment struct {
	PaymentID       string          `json:"paymentID"`
	InvoiceID       string          `json:"invoiceID"`
	PaymentMethodID *string         `json:"paymentMethodID,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	PaidAt          time.Time       `json:"paidAt"`
	Reference       string          `json:"reference"` // processor transaction id, auth code, cheque number
	Status          PaymentStatus   `json:"status"`
	ProcessedBy     *string         `json:"processedBy,omitempty"`
	Notes           string          `json:"notes"`
	AuditFields
}

// PaymentRefund records money returned for a payment. The refund amount never
// exceeds the original payment amount, and recording one flips the payment to
// its terminal refunded state whether the refund was full or partial.
type PaymentRefund struct {
	PaymentRefundID string          `json:"paymentRefundID"`
	PaymentID       string          `json:"paymentID"`
	Amount          decimal.Decimal `json:"amount"`
	Reason          string          `json:"reason"`
	ProcessedBy     *string         `json:"processedBy,omitempty"`
	Notes           string          `json:"notes"`
	AuditFields
}
