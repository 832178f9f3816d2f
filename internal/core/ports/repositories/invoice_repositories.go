package repositories

import (
	"context"
	"time"

	"github.com/hoteliq/billing_backend/internal/core/domain"
)

// InvoiceReader defines read operations for invoice data.
type InvoiceReader interface {
	// FindInvoiceByID retrieves an invoice with its lines, discounts,
	// adjustments and payments.
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// ListInvoices retrieves paginated invoice headers, optionally filtered by status.
	ListInvoices(ctx context.Context, status *domain.InvoiceStatus, limit int, nextToken *string) ([]domain.Invoice, *string, error)

	// ListInvoicesByCorporateAccount retrieves invoice headers whose folio
	// belongs to the given corporate account.
	ListInvoicesByCorporateAccount(ctx context.Context, corporateAccountID string, limit int, nextToken *string) ([]domain.Invoice, *string, error)
}

// InvoiceWriter defines write operations for invoice data.
type InvoiceWriter interface {
	// CreateInvoice persists the invoice header, its snapshot lines and its
	// applied discounts, then recalculates stored totals, all within a single
	// database transaction. Either everything commits or nothing does.
	CreateInvoice(ctx context.Context, invoice domain.Invoice, lines []domain.InvoiceLine, discounts []domain.InvoiceDiscount) error

	// SaveAdjustment appends a signed credit/debit note and recalculates the
	// invoice totals in the same transaction, locking the invoice row.
	SaveAdjustment(ctx context.Context, adjustment domain.InvoiceAdjustment) error

	// RecalculateTotals rederives and persists subtotal/tax/discount/total from
	// the invoice's current child rows. Idempotent.
	RecalculateTotals(ctx context.Context, invoiceID string) error

	// UpdateInvoiceStatus sets the invoice status (issued/paid/void).
	UpdateInvoiceStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus, updatedBy string, updatedAt time.Time) error
}

// InvoiceRepositoryFacade combines invoice repository interfaces.
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
}
