package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hoteliq/billing_backend/internal/apperrors"
	"github.com/hoteliq/billing_backend/internal/core/domain"
	portsrepo "github.com/hoteliq/billing_backend/internal/core/ports/repositories"
	"github.com/hoteliq/billing_backend/internal/utils/pagination"
)

type PgxInvoiceRepository struct {
	BaseRepository
}

// newPgxInvoiceRepository creates a new repository for invoice data.
func newPgxInvoiceRepository(pool *pgxpool.Pool) portsrepo.InvoiceRepositoryFacade {
	return &PgxInvoiceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.InvoiceRepositoryFacade = (*PgxInvoiceRepository)(nil)

const invoiceColumns = `invoice_id, folio_id, invoice_number, status, issued_at, due_date, currency, subtotal, discount_total, tax_total, total, notes, created_at, created_by, last_updated_at, last_updated_by`

func scanInvoice(row pgx.Row) (domain.Invoice, error) {
	var inv domain.Invoice
	err := row.Scan(
		&inv.InvoiceID,
		&inv.FolioID,
		&inv.InvoiceNumber,
		&inv.Status,
		&inv.IssuedAt,
		&inv.DueDate,
		&inv.Currency,
		&inv.Subtotal,
		&inv.DiscountTotal,
		&inv.TaxTotal,
		&inv.Total,
		&inv.Notes,
		&inv.CreatedAt,
		&inv.CreatedBy,
		&inv.LastUpdatedAt,
		&inv.LastUpdatedBy,
	)
	return inv, err
}

// lockInvoiceInTx takes a row lock on the invoice so concurrent mutations of
// its children serialize on the parent.
func lockInvoiceInTx(ctx context.Context, tx pgx.Tx, invoiceID string) error {
	var id string
	err := tx.QueryRow(ctx, `SELECT invoice_id FROM invoices WHERE invoice_id = $1 FOR UPDATE;`, invoiceID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return apperrors.NewAppError(500, "failed to lock invoice "+invoiceID, err)
	}
	return nil
}

// recalcInvoiceTotalsInTx rederives the stored totals from the child rows:
// total = subtotal + tax - discounts + signed adjustments. The caller must
// hold the invoice row lock.
func recalcInvoiceTotalsInTx(ctx context.Context, tx pgx.Tx, invoiceID string, updatedAt time.Time) error {
	query := `
		UPDATE invoices i
		SET subtotal = agg.subtotal,
		    tax_total = agg.tax_total,
		    discount_total = agg.discount_total,
		    total = agg.subtotal + agg.tax_total - agg.discount_total + agg.adjustment_total,
		    last_updated_at = $2
		FROM (
			SELECT
				COALESCE((SELECT SUM(net_amount) FROM invoice_lines WHERE invoice_id = $1), 0) AS subtotal,
				COALESCE((SELECT SUM(tax_amount) FROM invoice_lines WHERE invoice_id = $1), 0) AS tax_total,
				COALESCE((SELECT SUM(applied_amount) FROM invoice_discounts WHERE invoice_id = $1), 0) AS discount_total,
				COALESCE((SELECT SUM(amount) FROM invoice_adjustments WHERE invoice_id = $1), 0) AS adjustment_total
		) agg
		WHERE i.invoice_id = $1;
	`
	tag, err := tx.Exec(ctx, query, invoiceID, updatedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to recalculate totals for invoice "+invoiceID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// CreateInvoice persists the header, its snapshot lines and its applied
// discounts, then recalculates stored totals, in one transaction.
func (r *PgxInvoiceRepository) CreateInvoice(ctx context.Context, invoice domain.Invoice, lines []domain.InvoiceLine, discounts []domain.InvoiceDiscount) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	invoiceQuery := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err = tx.Exec(ctx, invoiceQuery,
		invoice.InvoiceID,
		invoice.FolioID,
		invoice.InvoiceNumber,
		invoice.Status,
		invoice.IssuedAt,
		invoice.DueDate,
		invoice.Currency,
		invoice.Subtotal,
		invoice.DiscountTotal,
		invoice.TaxTotal,
		invoice.Total,
		invoice.Notes,
		invoice.CreatedAt,
		invoice.CreatedBy,
		invoice.LastUpdatedAt,
		invoice.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewAppError(409, "invoice number already exists", apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to insert invoice "+invoice.InvoiceID, err)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO invoice_lines (invoice_line_id, invoice_id, folio_item_id, description, quantity, unit_price, net_amount, tax_amount, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	for _, line := range lines {
		batch.Queue(lineQuery,
			line.InvoiceLineID,
			line.InvoiceID,
			line.FolioItemID,
			line.Description,
			line.Quantity,
			line.UnitPrice,
			line.NetAmount,
			line.TaxAmount,
			line.CreatedAt,
			line.CreatedBy,
			line.LastUpdatedAt,
			line.LastUpdatedBy,
		)
	}
	discountQuery := `
		INSERT INTO invoice_discounts (invoice_discount_id, invoice_id, discount_id, applied_amount, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	for _, d := range discounts {
		batch.Queue(discountQuery,
			d.InvoiceDiscountID,
			d.InvoiceID,
			d.DiscountID,
			d.AppliedAmount,
			d.CreatedAt,
			d.CreatedBy,
			d.LastUpdatedAt,
			d.LastUpdatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert children for invoice "+invoice.InvoiceID, err)
	}

	if err := recalcInvoiceTotalsInTx(ctx, tx, invoice.InvoiceID, invoice.LastUpdatedAt); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// SaveAdjustment appends a signed credit/debit note and recalculates the
// invoice totals in the same transaction, locking the invoice row first.
func (r *PgxInvoiceRepository) SaveAdjustment(ctx context.Context, adjustment domain.InvoiceAdjustment) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := lockInvoiceInTx(ctx, tx, adjustment.InvoiceID); err != nil {
		return err
	}

	query := `
		INSERT INTO invoice_adjustments (invoice_adjustment_id, invoice_id, adjustment_type, amount, reason, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err = tx.Exec(ctx, query,
		adjustment.InvoiceAdjustmentID,
		adjustment.InvoiceID,
		adjustment.AdjustmentType,
		adjustment.Amount,
		adjustment.Reason,
		adjustment.CreatedAt,
		adjustment.CreatedBy,
		adjustment.LastUpdatedAt,
		adjustment.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert adjustment "+adjustment.InvoiceAdjustmentID, err)
	}

	if err := recalcInvoiceTotalsInTx(ctx, tx, adjustment.InvoiceID, adjustment.LastUpdatedAt); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// RecalculateTotals rederives and persists the stored totals in its own
// transaction. Idempotent.
func (r *PgxInvoiceRepository) RecalculateTotals(ctx context.Context, invoiceID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := lockInvoiceInTx(ctx, tx, invoiceID); err != nil {
		return err
	}
	if err := recalcInvoiceTotalsInTx(ctx, tx, invoiceID, time.Now().UTC()); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func (r *PgxInvoiceRepository) UpdateInvoiceStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE invoices
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE invoice_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, invoiceID, status, updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update invoice status "+invoiceID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindInvoiceByID loads the invoice with all its children so balance due can
// be derived in memory.
func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = $1;`
	invoice, err := scanInvoice(r.Pool.QueryRow(ctx, query, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find invoice by ID "+invoiceID, err)
	}

	if invoice.Lines, err = r.findLinesByInvoiceID(ctx, invoiceID); err != nil {
		return nil, err
	}
	if invoice.Discounts, err = r.findDiscountsByInvoiceID(ctx, invoiceID); err != nil {
		return nil, err
	}
	if invoice.Adjustments, err = r.findAdjustmentsByInvoiceID(ctx, invoiceID); err != nil {
		return nil, err
	}
	if invoice.Payments, err = findPaymentsByInvoiceID(ctx, r.Pool, invoiceID); err != nil {
		return nil, err
	}

	return &invoice, nil
}

func (r *PgxInvoiceRepository) findLinesByInvoiceID(ctx context.Context, invoiceID string) ([]domain.InvoiceLine, error) {
	query := `
		SELECT invoice_line_id, invoice_id, folio_item_id, description, quantity, unit_price, net_amount, tax_amount, created_at, created_by, last_updated_at, last_updated_by
		FROM invoice_lines
		WHERE invoice_id = $1
		ORDER BY created_at, invoice_line_id;
	`
	rows, err := r.Pool.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for invoice "+invoiceID, err)
	}
	defer rows.Close()

	lines := []domain.InvoiceLine{}
	for rows.Next() {
		var l domain.InvoiceLine
		if err := rows.Scan(
			&l.InvoiceLineID,
			&l.InvoiceID,
			&l.FolioItemID,
			&l.Description,
			&l.Quantity,
			&l.UnitPrice,
			&l.NetAmount,
			&l.TaxAmount,
			&l.CreatedAt,
			&l.CreatedBy,
			&l.LastUpdatedAt,
			&l.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan invoice line row", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating invoice line rows", err)
	}
	return lines, nil
}

func (r *PgxInvoiceRepository) findDiscountsByInvoiceID(ctx context.Context, invoiceID string) ([]domain.InvoiceDiscount, error) {
	query := `
		SELECT invoice_discount_id, invoice_id, discount_id, applied_amount, created_at, created_by, last_updated_at, last_updated_by
		FROM invoice_discounts
		WHERE invoice_id = $1
		ORDER BY created_at;
	`
	rows, err := r.Pool.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query discounts for invoice "+invoiceID, err)
	}
	defer rows.Close()

	discounts := []domain.InvoiceDiscount{}
	for rows.Next() {
		var d domain.InvoiceDiscount
		if err := rows.Scan(
			&d.InvoiceDiscountID,
			&d.InvoiceID,
			&d.DiscountID,
			&d.AppliedAmount,
			&d.CreatedAt,
			&d.CreatedBy,
			&d.LastUpdatedAt,
			&d.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan invoice discount row", err)
		}
		discounts = append(discounts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating invoice discount rows", err)
	}
	return discounts, nil
}

func (r *PgxInvoiceRepository) findAdjustmentsByInvoiceID(ctx context.Context, invoiceID string) ([]domain.InvoiceAdjustment, error) {
	query := `
		SELECT invoice_adjustment_id, invoice_id, adjustment_type, amount, reason, created_at, created_by, last_updated_at, last_updated_by
		FROM invoice_adjustments
		WHERE invoice_id = $1
		ORDER BY created_at;
	`
	rows, err := r.Pool.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query adjustments for invoice "+invoiceID, err)
	}
	defer rows.Close()

	adjustments := []domain.InvoiceAdjustment{}
	for rows.Next() {
		var a domain.InvoiceAdjustment
		if err := rows.Scan(
			&a.InvoiceAdjustmentID,
			&a.InvoiceID,
			&a.AdjustmentType,
			&a.Amount,
			&a.Reason,
			&a.CreatedAt,
			&a.CreatedBy,
			&a.LastUpdatedAt,
			&a.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan invoice adjustment row", err)
		}
		adjustments = append(adjustments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating invoice adjustment rows", err)
	}
	return adjustments, nil
}

func (r *PgxInvoiceRepository) ListInvoices(ctx context.Context, status *domain.InvoiceStatus, limit int, nextToken *string) ([]domain.Invoice, *string, error) {
	baseQuery := `SELECT ` + invoiceColumns + ` FROM invoices`
	conditions := ""
	args := []interface{}{}
	if status != nil {
		args = append(args, *status)
		conditions = ` WHERE status = $1`
	}
	return r.listInvoicesPage(ctx, baseQuery, conditions, args, "", limit, nextToken)
}

func (r *PgxInvoiceRepository) ListInvoicesByCorporateAccount(ctx context.Context, corporateAccountID string, limit int, nextToken *string) ([]domain.Invoice, *string, error) {
	baseQuery := `
		SELECT i.invoice_id, i.folio_id, i.invoice_number, i.status, i.issued_at, i.due_date, i.currency, i.subtotal, i.discount_total, i.tax_total, i.total, i.notes, i.created_at, i.created_by, i.last_updated_at, i.last_updated_by
		FROM invoices i
		JOIN folios f ON i.folio_id = f.folio_id`
	conditions := ` WHERE f.corporate_account_id = $1`
	args := []interface{}{corporateAccountID}
	return r.listInvoicesPage(ctx, baseQuery, conditions, args, "i.", limit, nextToken)
}

// listInvoicesPage applies keyset pagination over (created_at, invoice_id)
// shared by both list queries. prefix qualifies columns when the query joins.
func (r *PgxInvoiceRepository) listInvoicesPage(ctx context.Context, baseQuery, conditions string, args []interface{}, prefix string, limit int, nextToken *string) ([]domain.Invoice, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		connector := ` WHERE `
		if conditions != "" {
			connector = ` AND `
		}
		conditions += connector + `(` + prefix + `created_at, ` + prefix + `invoice_id) < ($` + strconv.Itoa(len(args)+1) + `, $` + strconv.Itoa(len(args)+2) + `)`
		args = append(args, lastCreatedAt, lastID)
	}

	orderByClause := `ORDER BY ` + prefix + `created_at DESC, ` + prefix + `invoice_id DESC`
	query := baseQuery + conditions + ` ` + orderByClause + ` LIMIT $` + strconv.Itoa(len(args)+1) + `;`
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query invoices", err)
	}
	defer rows.Close()

	invoices := []domain.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan invoice row", err)
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating invoice rows", err)
	}

	var next *string
	if len(invoices) > limit {
		invoices = invoices[:limit]
		last := invoices[len(invoices)-1]
		token := pagination.EncodeToken(last.CreatedAt, last.InvoiceID)
		next = &token
	}
	return invoices, next, nil
}
