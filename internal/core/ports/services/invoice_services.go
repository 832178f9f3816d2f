package services

import (
	"context"

	"github.com/hoteliq/billing_backend/internal/core/domain"
	"github.com/hoteliq/billing_backend/internal/dto"
)

// InvoiceSvcFacade exposes the invoice engine: the one-time folio snapshot,
// credit/debit notes and totals recalculation.
type InvoiceSvcFacade interface {
	// CreateInvoiceFromFolio snapshots the folio's current items into an
	// immutable invoice, applies the selected discounts and computes totals.
	// The folio itself is left untouched.
	CreateInvoiceFromFolio(ctx context.Context, req dto.CreateInvoiceRequest, actorID string) (*domain.Invoice, error)

	GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)
	ListInvoices(ctx context.Context, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error)
	ListInvoicesByCorporateAccount(ctx context.Context, corporateAccountID string, limit int, nextToken *string) (*dto.ListInvoicesResponse, error)

	// PostCreditNote appends a negative adjustment; the magnitude must be positive.
	PostCreditNote(ctx context.Context, invoiceID string, req dto.AdjustmentRequest, actorID string) (*domain.Invoice, error)

	// PostDebitNote appends a positive adjustment; the magnitude must be positive.
	PostDebitNote(ctx context.Context, invoiceID string, req dto.AdjustmentRequest, actorID string) (*domain.Invoice, error)
}
