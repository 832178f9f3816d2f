package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hoteliq/billing_backend/internal/apperrors"
	"github.com/hoteliq/billing_backend/internal/core/domain"
	portsrepo "github.com/hoteliq/billing_backend/internal/core/ports/repositories"
)

type PgxPaymentRepository struct {
	BaseRepository
}

// newPgxPaymentRepository creates a new repository for the payment ledger.
func newPgxPaymentRepository(pool *pgxpool.Pool) portsrepo.PaymentRepositoryFacade {
	return &PgxPaymentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PaymentRepositoryFacade = (*PgxPaymentRepository)(nil)

const paymentColumns = `payment_id, invoice_id, payment_method_id, amount, paid_at, reference, status, processed_by, notes, created_at, created_by, last_updated_at, last_updated_by`

func scanPayment(row pgx.Row) (domain.Payment, error) {
	var p domain.Payment
	err := row.Scan(
		&p.PaymentID,
		&p.InvoiceID,
		&p.PaymentMethodID,
		&p.Amount,
		&p.PaidAt,
		&p.Reference,
		&p.Status,
		&p.ProcessedBy,
		&p.Notes,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	return p, err
}

// findPaymentsByInvoiceID is shared with the invoice repository, which loads
// payments alongside the other invoice children.
func findPaymentsByInvoiceID(ctx context.Context, pool *pgxpool.Pool, invoiceID string) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE invoice_id = $1 ORDER BY paid_at, payment_id;`
	rows, err := pool.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query payments for invoice "+invoiceID, err)
	}
	defer rows.Close()

	payments := []domain.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan payment row", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating payment rows", err)
	}
	return payments, nil
}

// SavePayment records a payment and recalculates the owning invoice in the
// same transaction.
func (r *PgxPaymentRepository) SavePayment(ctx context.Context, payment domain.Payment) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := lockInvoiceInTx(ctx, tx, payment.InvoiceID); err != nil {
		return err
	}

	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = tx.Exec(ctx, query,
		payment.PaymentID,
		payment.InvoiceID,
		payment.PaymentMethodID,
		payment.Amount,
		payment.PaidAt,
		payment.Reference,
		payment.Status,
		payment.ProcessedBy,
		payment.Notes,
		payment.CreatedAt,
		payment.CreatedBy,
		payment.LastUpdatedAt,
		payment.LastUpdatedBy,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NewAppError(400, "payment references a missing invoice or payment method", apperrors.ErrValidation)
		}
		return apperrors.NewAppError(500, "failed to insert payment "+payment.PaymentID, err)
	}

	if err := recalcInvoiceTotalsInTx(ctx, tx, payment.InvoiceID, payment.LastUpdatedAt); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// SaveRefund records a refund, flips its payment to refunded and recalculates
// the owning invoice, atomically.
func (r *PgxPaymentRepository) SaveRefund(ctx context.Context, refund domain.PaymentRefund) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var invoiceID string
	err = tx.QueryRow(ctx, `SELECT invoice_id FROM payments WHERE payment_id = $1;`, refund.PaymentID).Scan(&invoiceID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return apperrors.NewAppError(500, "failed to resolve invoice for payment "+refund.PaymentID, err)
	}

	if err := lockInvoiceInTx(ctx, tx, invoiceID); err != nil {
		return err
	}

	insertQuery := `
		INSERT INTO payment_refunds (payment_refund_id, payment_id, amount, reason, processed_by, notes, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err = tx.Exec(ctx, insertQuery,
		refund.PaymentRefundID,
		refund.PaymentID,
		refund.Amount,
		refund.Reason,
		refund.ProcessedBy,
		refund.Notes,
		refund.CreatedAt,
		refund.CreatedBy,
		refund.LastUpdatedAt,
		refund.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert refund "+refund.PaymentRefundID, err)
	}

	// The status predicate makes the posted->refunded flip race-safe: a
	// concurrent refund that already committed leaves no posted row to match.
	flipQuery := `
		UPDATE payments
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE payment_id = $1 AND status = $5;
	`
	tag, err := tx.Exec(ctx, flipQuery, refund.PaymentID, domain.PaymentRefunded, refund.LastUpdatedAt, refund.LastUpdatedBy, domain.PaymentPosted)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark payment refunded "+refund.PaymentID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: payment %s is no longer posted", apperrors.ErrConflict, refund.PaymentID)
	}

	if err := recalcInvoiceTotalsInTx(ctx, tx, invoiceID, refund.LastUpdatedAt); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// UpdatePaymentStatus sets a payment's status and recalculates the owning
// invoice in the same transaction.
func (r *PgxPaymentRepository) UpdatePaymentStatus(ctx context.Context, paymentID string, status domain.PaymentStatus, updatedBy string, updatedAt time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var invoiceID string
	err = tx.QueryRow(ctx, `SELECT invoice_id FROM payments WHERE payment_id = $1;`, paymentID).Scan(&invoiceID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return apperrors.NewAppError(500, "failed to resolve invoice for payment "+paymentID, err)
	}

	if err := lockInvoiceInTx(ctx, tx, invoiceID); err != nil {
		return err
	}

	// Payments only ever leave the posted state; enforcing that here keeps
	// concurrent refund/void requests from both applying.
	query := `
		UPDATE payments
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE payment_id = $1 AND status = $5;
	`
	tag, err := tx.Exec(ctx, query, paymentID, status, updatedAt, updatedBy, domain.PaymentPosted)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update payment status "+paymentID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: payment %s is no longer posted", apperrors.ErrConflict, paymentID)
	}

	if err := recalcInvoiceTotalsInTx(ctx, tx, invoiceID, updatedAt); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE payment_id = $1;`
	payment, err := scanPayment(r.Pool.QueryRow(ctx, query, paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find payment by ID "+paymentID, err)
	}
	return &payment, nil
}

func (r *PgxPaymentRepository) FindRefundsByPaymentID(ctx context.Context, paymentID string) ([]domain.PaymentRefund, error) {
	query := `
		SELECT payment_refund_id, payment_id, amount, reason, processed_by, notes, created_at, created_by, last_updated_at, last_updated_by
		FROM payment_refunds
		WHERE payment_id = $1
		ORDER BY created_at;
	`
	rows, err := r.Pool.Query(ctx, query, paymentID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query refunds for payment "+paymentID, err)
	}
	defer rows.Close()

	refunds := []domain.PaymentRefund{}
	for rows.Next() {
		var ref domain.PaymentRefund
		if err := rows.Scan(
			&ref.PaymentRefundID,
			&ref.PaymentID,
			&ref.Amount,
			&ref.Reason,
			&ref.ProcessedBy,
			&ref.Notes,
			&ref.CreatedAt,
			&ref.CreatedBy,
			&ref.LastUpdatedAt,
			&ref.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan refund row", err)
		}
		refunds = append(refunds, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating refund rows", err)
	}
	return refunds, nil
}
