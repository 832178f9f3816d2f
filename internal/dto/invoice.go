package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hoteliq/billing_backend/internal/core/domain"
)

// CreateInvoiceRequest snapshots a folio into a new invoice. DiscountIDs must
// reference discounts applicable on the issue date.
type CreateInvoiceRequest struct {
	FolioID     string     `json:"folioID" binding:"required"`
	DiscountIDs []string   `json:"discountIDs"`
	DueDate     *time.Time `json:"dueDate"`
	Notes       string     `json:"notes"`
}

// AdjustmentRequest posts a credit or debit note. The amount is a positive
// magnitude; the service applies the sign.
type AdjustmentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Reason string          `json:"reason" binding:"max=255"`
}

// ListInvoicesParams holds filter and pagination parameters.
type ListInvoicesParams struct {
	Status    *domain.InvoiceStatus
	Limit     int
	NextToken *string
}

// InvoiceResponse is an invoice with its derived balance materialized.
type InvoiceResponse struct {
	domain.Invoice
	BalanceDue decimal.Decimal `json:"balanceDue"`
}

// ToInvoiceResponse computes the live balance for serialization.
func ToInvoiceResponse(invoice domain.Invoice) InvoiceResponse {
	return InvoiceResponse{
		Invoice:    invoice,
		BalanceDue: invoice.BalanceDue(),
	}
}

// ListInvoicesResponse is a page of invoice headers.
type ListInvoicesResponse struct {
	Invoices  []domain.Invoice `json:"invoices"`
	NextToken *string          `json:"nextToken,omitempty"`
}
