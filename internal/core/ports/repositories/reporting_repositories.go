package repositories

import (
	"context"
	"time"

	"github.com/hoteliq/billing_backend/internal/core/domain"
)

// ReportingRepositoryFacade provides read-only aggregations over the ledger.
// Reports place no new invariants on the core beyond correct totals.
type ReportingRepositoryFacade interface {
	// GetDailyReport aggregates invoices issued and payments posted on date.
	GetDailyReport(ctx context.Context, date time.Time) (*domain.DailyReport, error)

	// GetTaxSummary aggregates invoice lines by tax rule over [start, end].
	GetTaxSummary(ctx context.Context, start, end time.Time) ([]domain.TaxSummaryRow, error)

	// ListOutstandingInvoices returns issued/paid invoices with balance_due > 0.
	ListOutstandingInvoices(ctx context.Context) ([]domain.OutstandingInvoice, error)
}
