package services

import (
	"context"
	"time"

	"github.com/hoteliq/billing_backend/internal/core/domain"
)

// ReportingSvcFacade exposes read-only billing reports.
type ReportingSvcFacade interface {
	GetDailyReport(ctx context.Context, day time.Time) (*domain.DailyReport, error)
	GetTaxSummary(ctx context.Context, from, to time.Time) ([]domain.TaxSummaryRow, error)
	ListOutstandingInvoices(ctx context.Context) ([]domain.OutstandingInvoice, error)
}
