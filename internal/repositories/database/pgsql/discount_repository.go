package pgsql

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hoteliq/billing_backend/internal/apperrors"
	"github.com/hoteliq/billing_backend/internal/core/domain"
	portsrepo "github.com/hoteliq/billing_backend/internal/core/ports/repositories"
	"github.com/hoteliq/billing_backend/internal/utils/pagination"
)

type PgxDiscountRepository struct {
	BaseRepository
}

// newPgxDiscountRepository creates a new repository for discount reference data.
func newPgxDiscountRepository(pool *pgxpool.Pool) portsrepo.DiscountRepositoryFacade {
	return &PgxDiscountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.DiscountRepositoryFacade = (*PgxDiscountRepository)(nil)

const discountColumns = `discount_id, name, discount_type, value, is_active, start_date, end_date, corporate_account_id, created_at, created_by, last_updated_at, last_updated_by`

func scanDiscount(row pgx.Row) (domain.Discount, error) {
	var d domain.Discount
	err := row.Scan(
		&d.DiscountID,
		&d.Name,
		&d.DiscountType,
		&d.Value,
		&d.IsActive,
		&d.StartDate,
		&d.EndDate,
		&d.CorporateAccountID,
		&d.CreatedAt,
		&d.CreatedBy,
		&d.LastUpdatedAt,
		&d.LastUpdatedBy,
	)
	return d, err
}

func (r *PgxDiscountRepository) SaveDiscount(ctx context.Context, discount domain.Discount) error {
	query := `
		INSERT INTO discounts (` + discountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		discount.DiscountID,
		discount.Name,
		discount.DiscountType,
		discount.Value,
		discount.IsActive,
		discount.StartDate,
		discount.EndDate,
		discount.CorporateAccountID,
		discount.CreatedAt,
		discount.CreatedBy,
		discount.LastUpdatedAt,
		discount.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert discount "+discount.DiscountID, err)
	}
	return nil
}

func (r *PgxDiscountRepository) FindDiscountByID(ctx context.Context, discountID string) (*domain.Discount, error) {
	query := `SELECT ` + discountColumns + ` FROM discounts WHERE discount_id = $1;`
	discount, err := scanDiscount(r.Pool.QueryRow(ctx, query, discountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find discount by ID "+discountID, err)
	}
	return &discount, nil
}

func (r *PgxDiscountRepository) FindDiscountsByIDs(ctx context.Context, discountIDs []string) (map[string]domain.Discount, error) {
	result := make(map[string]domain.Discount, len(discountIDs))
	if len(discountIDs) == 0 {
		return result, nil
	}

	query := `SELECT ` + discountColumns + ` FROM discounts WHERE discount_id = ANY($1);`
	rows, err := r.Pool.Query(ctx, query, discountIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query discounts by IDs", err)
	}
	defer rows.Close()

	for rows.Next() {
		d, err := scanDiscount(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan discount row", err)
		}
		result[d.DiscountID] = d
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating discount rows", err)
	}
	return result, nil
}

func (r *PgxDiscountRepository) ListDiscounts(ctx context.Context, activeOnly bool, limit int, nextToken *string) ([]domain.Discount, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + discountColumns + ` FROM discounts`
	orderByClause := `ORDER BY created_at DESC, discount_id DESC`

	conditions := ""
	args := []interface{}{}
	if activeOnly {
		conditions = ` WHERE is_active = TRUE`
	}

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		connector := ` WHERE `
		if conditions != "" {
			connector = ` AND `
		}
		conditions += connector + `(created_at, discount_id) < ($` + strconv.Itoa(len(args)+1) + `, $` + strconv.Itoa(len(args)+2) + `)`
		args = append(args, lastCreatedAt, lastID)
	}

	query := baseQuery + conditions + ` ` + orderByClause + ` LIMIT $` + strconv.Itoa(len(args)+1) + `;`
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query discounts", err)
	}
	defer rows.Close()

	discounts := []domain.Discount{}
	for rows.Next() {
		d, err := scanDiscount(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan discount row", err)
		}
		discounts = append(discounts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating discount rows", err)
	}

	var next *string
	if len(discounts) > limit {
		discounts = discounts[:limit]
		last := discounts[len(discounts)-1]
		token := pagination.EncodeToken(last.CreatedAt, last.DiscountID)
		next = &token
	}
	return discounts, next, nil
}
