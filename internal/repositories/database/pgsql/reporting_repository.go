package pgsql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hoteliq/billing_backend/internal/apperrors"
	"github.com/hoteliq/billing_backend/internal/core/domain"
	portsrepo "github.com/hoteliq/billing_backend/internal/core/ports/repositories"
)

type PgxReportingRepository struct {
	BaseRepository
}

// newPgxReportingRepository creates a new read-only repository for reports.
func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepositoryFacade {
	return &PgxReportingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReportingRepositoryFacade = (*PgxReportingRepository)(nil)

// GetDailyReport aggregates invoices issued on date and posted payments
// received on date. Void invoices are excluded from revenue.
func (r *PgxReportingRepository) GetDailyReport(ctx context.Context, date time.Time) (*domain.DailyReport, error) {
	dayStart := date.UTC().Truncate(24 * time.Hour)
	dayEnd := dayStart.Add(24 * time.Hour)

	query := `
		SELECT
			COALESCE((SELECT COUNT(*) FROM invoices WHERE issued_at >= $1 AND issued_at < $2 AND status <> 'void'), 0),
			COALESCE((SELECT SUM(total) FROM invoices WHERE issued_at >= $1 AND issued_at < $2 AND status <> 'void'), 0),
			COALESCE((SELECT SUM(amount) FROM payments WHERE paid_at >= $1 AND paid_at < $2 AND status = 'posted'), 0);
	`
	report := domain.DailyReport{Date: dayStart}
	err := r.Pool.QueryRow(ctx, query, dayStart, dayEnd).Scan(&report.TotalInvoices, &report.Revenue, &report.Payments)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to aggregate daily report", err)
	}
	return &report, nil
}

// GetTaxSummary groups invoice lines by the tax rule of their source folio
// item for invoices issued in [start, end]. Untaxed lines are skipped.
func (r *PgxReportingRepository) GetTaxSummary(ctx context.Context, start, end time.Time) ([]domain.TaxSummaryRow, error) {
	query := `
		SELECT tr.name, COALESCE(SUM(il.net_amount), 0), COALESCE(SUM(il.tax_amount), 0)
		FROM invoice_lines il
		JOIN invoices i ON il.invoice_id = i.invoice_id
		JOIN folio_items fi ON il.folio_item_id = fi.folio_item_id
		JOIN tax_rules tr ON fi.tax_rule_id = tr.tax_rule_id
		WHERE i.issued_at >= $1 AND i.issued_at <= $2 AND i.status <> 'void'
		GROUP BY tr.name
		ORDER BY tr.name;
	`
	rows, err := r.Pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query tax summary", err)
	}
	defer rows.Close()

	summary := []domain.TaxSummaryRow{}
	for rows.Next() {
		var row domain.TaxSummaryRow
		if err := rows.Scan(&row.TaxRule, &row.TaxableAmount, &row.TaxAmount); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan tax summary row", err)
		}
		summary = append(summary, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating tax summary rows", err)
	}
	return summary, nil
}

// ListOutstandingInvoices returns non-void invoices whose total exceeds the
// sum of their posted payments. Refunded and void payments do not reduce the
// balance.
func (r *PgxReportingRepository) ListOutstandingInvoices(ctx context.Context) ([]domain.OutstandingInvoice, error) {
	query := `
		SELECT i.invoice_id, i.invoice_number, f.guest_name,
		       i.total - COALESCE(p.paid, 0) AS balance_due,
		       i.issued_at
		FROM invoices i
		JOIN folios f ON i.folio_id = f.folio_id
		LEFT JOIN (
			SELECT invoice_id, SUM(amount) AS paid
			FROM payments
			WHERE status = 'posted'
			GROUP BY invoice_id
		) p ON p.invoice_id = i.invoice_id
		WHERE i.status <> 'void' AND i.total - COALESCE(p.paid, 0) > 0
		ORDER BY i.issued_at, i.invoice_id;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query outstanding invoices", err)
	}
	defer rows.Close()

	outstanding := []domain.OutstandingInvoice{}
	for rows.Next() {
		var o domain.OutstandingInvoice
		if err := rows.Scan(&o.InvoiceID, &o.InvoiceNumber, &o.GuestName, &o.BalanceDue, &o.IssuedAt); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan outstanding invoice row", err)
		}
		outstanding = append(outstanding, o)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating outstanding invoice rows", err)
	}
	return outstanding, nil
}
