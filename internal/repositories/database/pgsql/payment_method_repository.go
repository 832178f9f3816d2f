package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hoteliq/billing_backend/internal/apperrors"
	"github.com/hoteliq/billing_backend/internal/core/domain"
	portsrepo "github.com/hoteliq/billing_backend/internal/core/ports/repositories"
)

type PgxPaymentMethodRepository struct {
	BaseRepository
}

// newPgxPaymentMethodRepository creates a new repository for payment method reference data.
func newPgxPaymentMethodRepository(pool *pgxpool.Pool) portsrepo.PaymentMethodRepositoryFacade {
	return &PgxPaymentMethodRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PaymentMethodRepositoryFacade = (*PgxPaymentMethodRepository)(nil)

const paymentMethodColumns = `payment_method_id, name, is_active, requires_reference, created_at, created_by, last_updated_at, last_updated_by`

func scanPaymentMethod(row pgx.Row) (domain.PaymentMethod, error) {
	var m domain.PaymentMethod
	err := row.Scan(
		&m.PaymentMethodID,
		&m.Name,
		&m.IsActive,
		&m.RequiresReference,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxPaymentMethodRepository) SavePaymentMethod(ctx context.Context, method domain.PaymentMethod) error {
	query := `
		INSERT INTO payment_methods (` + paymentMethodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		method.PaymentMethodID,
		method.Name,
		method.IsActive,
		method.RequiresReference,
		method.CreatedAt,
		method.CreatedBy,
		method.LastUpdatedAt,
		method.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewAppError(409, "payment method name already exists", apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to insert payment method "+method.PaymentMethodID, err)
	}
	return nil
}

func (r *PgxPaymentMethodRepository) UpdatePaymentMethod(ctx context.Context, method domain.PaymentMethod) error {
	query := `
		UPDATE payment_methods
		SET name = $2, is_active = $3, requires_reference = $4, last_updated_at = $5, last_updated_by = $6
		WHERE payment_method_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		method.PaymentMethodID,
		method.Name,
		method.IsActive,
		method.RequiresReference,
		method.LastUpdatedAt,
		method.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewAppError(409, "payment method name already exists", apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to update payment method "+method.PaymentMethodID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxPaymentMethodRepository) FindPaymentMethodByID(ctx context.Context, paymentMethodID string) (*domain.PaymentMethod, error) {
	query := `SELECT ` + paymentMethodColumns + ` FROM payment_methods WHERE payment_method_id = $1;`
	method, err := scanPaymentMethod(r.Pool.QueryRow(ctx, query, paymentMethodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find payment method by ID "+paymentMethodID, err)
	}
	return &method, nil
}

func (r *PgxPaymentMethodRepository) FindPaymentMethodByName(ctx context.Context, name string) (*domain.PaymentMethod, error) {
	query := `SELECT ` + paymentMethodColumns + ` FROM payment_methods WHERE name = $1;`
	method, err := scanPaymentMethod(r.Pool.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find payment method by name "+name, err)
	}
	return &method, nil
}

func (r *PgxPaymentMethodRepository) ListPaymentMethods(ctx context.Context, activeOnly bool) ([]domain.PaymentMethod, error) {
	query := `SELECT ` + paymentMethodColumns + ` FROM payment_methods`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY name;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query payment methods", err)
	}
	defer rows.Close()

	methods := []domain.PaymentMethod{}
	for rows.Next() {
		m, err := scanPaymentMethod(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan payment method row", err)
		}
		methods = append(methods, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating payment method rows", err)
	}
	return methods, nil
}
