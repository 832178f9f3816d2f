package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hoteliq/billing_backend/internal/apperrors"
	"github.com/hoteliq/billing_backend/internal/core/domain"
	portsrepo "github.com/hoteliq/billing_backend/internal/core/ports/repositories"
	portssvc "github.com/hoteliq/billing_backend/internal/core/ports/services"
	"github.com/hoteliq/billing_backend/internal/middleware"
)

// reportingService provides read-only aggregations over the ledger.
type reportingService struct {
	reportingRepo portsrepo.ReportingRepositoryFacade
}

// NewReportingService creates a new ReportingService.
func NewReportingService(reportingRepo portsrepo.ReportingRepositoryFacade) portssvc.ReportingSvcFacade {
	return &reportingService{reportingRepo: reportingRepo}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

func (s *reportingService) GetDailyReport(ctx context.Context, day time.Time) (*domain.DailyReport, error) {
	report, err := s.reportingRepo.GetDailyReport(ctx, day.UTC().Truncate(24*time.Hour))
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to build daily report", slog.String("error", err.Error()), slog.String("date", day.Format("2006-01-02")))
		return nil, fmt.Errorf("failed to build daily report: %w", err)
	}
	return report, nil
}

func (s *reportingService) GetTaxSummary(ctx context.Context, from, to time.Time) ([]domain.TaxSummaryRow, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: tax summary range end precedes start", apperrors.ErrValidation)
	}
	rows, err := s.reportingRepo.GetTaxSummary(ctx, from.UTC(), to.UTC())
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to build tax summary", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to build tax summary: %w", err)
	}
	return rows, nil
}

func (s *reportingService) ListOutstandingInvoices(ctx context.Context) ([]domain.OutstandingInvoice, error) {
	invoices, err := s.reportingRepo.ListOutstandingInvoices(ctx)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list outstanding invoices", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list outstanding invoices: %w", err)
	}
	return invoices, nil
}
