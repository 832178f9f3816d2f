package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/hoteliq/billing_backend/internal/apperrors"
	"github.com/hoteliq/billing_backend/internal/core/domain"
	portsrepo "github.com/hoteliq/billing_backend/internal/core/ports/repositories"
	"github.com/hoteliq/billing_backend/internal/utils/pagination"
)

type PgxFolioRepository struct {
	BaseRepository
}

// newPgxFolioRepository creates a new repository for folio and folio item data.
func newPgxFolioRepository(pool *pgxpool.Pool) portsrepo.FolioRepositoryFacade {
	return &PgxFolioRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.FolioRepositoryFacade = (*PgxFolioRepository)(nil)

const folioColumns = `folio_id, reservation_id, guest_name, corporate_account_id, folio_number, currency, status, notes, created_at, created_by, last_updated_at, last_updated_by`

// folioItemColumns joins the item's tax rule so line amounts can be computed
// without a second round trip. The rule columns are nullable.
const folioItemJoinQuery = `
	SELECT fi.folio_item_id, fi.folio_id, fi.description, fi.item_type, fi.quantity, fi.unit_price,
	       fi.tax_rule_id, fi.posted_at, fi.posted_by,
	       fi.created_at, fi.created_by, fi.last_updated_at, fi.last_updated_by,
	       tr.name, tr.rate, tr.is_active
	FROM folio_items fi
	LEFT JOIN tax_rules tr ON fi.tax_rule_id = tr.tax_rule_id
`

func scanFolio(row pgx.Row) (domain.Folio, error) {
	var f domain.Folio
	err := row.Scan(
		&f.FolioID,
		&f.ReservationID,
		&f.GuestName,
		&f.CorporateAccountID,
		&f.FolioNumber,
		&f.Currency,
		&f.Status,
		&f.Notes,
		&f.CreatedAt,
		&f.CreatedBy,
		&f.LastUpdatedAt,
		&f.LastUpdatedBy,
	)
	return f, err
}

func scanFolioItem(row pgx.Row) (domain.FolioItem, error) {
	var item domain.FolioItem
	var ruleName *string
	var ruleRate *decimal.Decimal
	var ruleActive *bool
	err := row.Scan(
		&item.FolioItemID,
		&item.FolioID,
		&item.Description,
		&item.ItemType,
		&item.Quantity,
		&item.UnitPrice,
		&item.TaxRuleID,
		&item.PostedAt,
		&item.PostedBy,
		&item.CreatedAt,
		&item.CreatedBy,
		&item.LastUpdatedAt,
		&item.LastUpdatedBy,
		&ruleName,
		&ruleRate,
		&ruleActive,
	)
	if err != nil {
		return item, err
	}
	if item.TaxRuleID != nil && ruleName != nil {
		item.TaxRule = &domain.TaxRule{
			TaxRuleID: *item.TaxRuleID,
			Name:      *ruleName,
			Rate:      *ruleRate,
			IsActive:  *ruleActive,
		}
	}
	return item, nil
}

func (r *PgxFolioRepository) SaveFolio(ctx context.Context, folio domain.Folio) error {
	query := `
		INSERT INTO folios (` + folioColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		folio.FolioID,
		folio.ReservationID,
		folio.GuestName,
		folio.CorporateAccountID,
		folio.FolioNumber,
		folio.Currency,
		folio.Status,
		folio.Notes,
		folio.CreatedAt,
		folio.CreatedBy,
		folio.LastUpdatedAt,
		folio.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewAppError(409, "folio number already exists", apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to insert folio "+folio.FolioID, err)
	}
	return nil
}

// FindFolioByID loads the folio together with its items (tax rules attached)
// and its discount links, so the caller can derive live totals.
func (r *PgxFolioRepository) FindFolioByID(ctx context.Context, folioID string) (*domain.Folio, error) {
	query := `SELECT ` + folioColumns + ` FROM folios WHERE folio_id = $1;`
	folio, err := scanFolio(r.Pool.QueryRow(ctx, query, folioID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find folio by ID "+folioID, err)
	}

	items, err := r.findItemsByFolioID(ctx, folioID)
	if err != nil {
		return nil, err
	}
	folio.Items = items

	discounts, err := r.findDiscountLinksByFolioID(ctx, folioID)
	if err != nil {
		return nil, err
	}
	folio.Discounts = discounts

	return &folio, nil
}

func (r *PgxFolioRepository) findItemsByFolioID(ctx context.Context, folioID string) ([]domain.FolioItem, error) {
	query := folioItemJoinQuery + ` WHERE fi.folio_id = $1 ORDER BY fi.posted_at, fi.folio_item_id;`
	rows, err := r.Pool.Query(ctx, query, folioID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query items for folio "+folioID, err)
	}
	defer rows.Close()

	items := []domain.FolioItem{}
	for rows.Next() {
		item, err := scanFolioItem(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan folio item row", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating folio item rows", err)
	}
	return items, nil
}

func (r *PgxFolioRepository) findDiscountLinksByFolioID(ctx context.Context, folioID string) ([]domain.FolioDiscount, error) {
	query := `
		SELECT folio_discount_id, folio_id, discount_id, applied_value, created_at, created_by, last_updated_at, last_updated_by
		FROM folio_discounts
		WHERE folio_id = $1
		ORDER BY created_at;
	`
	rows, err := r.Pool.Query(ctx, query, folioID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query discounts for folio "+folioID, err)
	}
	defer rows.Close()

	links := []domain.FolioDiscount{}
	for rows.Next() {
		var link domain.FolioDiscount
		if err := rows.Scan(
			&link.FolioDiscountID,
			&link.FolioID,
			&link.DiscountID,
			&link.AppliedValue,
			&link.CreatedAt,
			&link.CreatedBy,
			&link.LastUpdatedAt,
			&link.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan folio discount row", err)
		}
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating folio discount rows", err)
	}
	return links, nil
}

func (r *PgxFolioRepository) ListFolios(ctx context.Context, status *domain.FolioStatus, limit int, nextToken *string) ([]domain.Folio, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + folioColumns + ` FROM folios`
	orderByClause := `ORDER BY created_at DESC, folio_id DESC`

	conditions := ""
	args := []interface{}{}
	if status != nil {
		args = append(args, *status)
		conditions = ` WHERE status = $1`
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
		conditions += connector + `(created_at, folio_id) < ($` + strconv.Itoa(len(args)+1) + `, $` + strconv.Itoa(len(args)+2) + `)`
		args = append(args, lastCreatedAt, lastID)
	}

	query := baseQuery + conditions + ` ` + orderByClause + ` LIMIT $` + strconv.Itoa(len(args)+1) + `;`
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query folios", err)
	}
	defer rows.Close()

	folios := []domain.Folio{}
	for rows.Next() {
		f, err := scanFolio(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan folio row", err)
		}
		folios = append(folios, f)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating folio rows", err)
	}

	var next *string
	if len(folios) > limit {
		folios = folios[:limit]
		last := folios[len(folios)-1]
		token := pagination.EncodeToken(last.CreatedAt, last.FolioID)
		next = &token
	}
	return folios, next, nil
}

func (r *PgxFolioRepository) UpdateFolioStatus(ctx context.Context, folioID string, status domain.FolioStatus, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE folios
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE folio_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, folioID, status, updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update folio status "+folioID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxFolioRepository) SaveFolioItem(ctx context.Context, item domain.FolioItem) error {
	query := `
		INSERT INTO folio_items (
			folio_item_id, folio_id, description, item_type, quantity, unit_price,
			tax_rule_id, posted_at, posted_by,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		item.FolioItemID,
		item.FolioID,
		item.Description,
		item.ItemType,
		item.Quantity,
		item.UnitPrice,
		item.TaxRuleID,
		item.PostedAt,
		item.PostedBy,
		item.CreatedAt,
		item.CreatedBy,
		item.LastUpdatedAt,
		item.LastUpdatedBy,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NewAppError(400, "folio or tax rule does not exist", apperrors.ErrValidation)
		}
		return apperrors.NewAppError(500, "failed to insert folio item "+item.FolioItemID, err)
	}
	return nil
}

func (r *PgxFolioRepository) UpdateFolioItem(ctx context.Context, item domain.FolioItem) error {
	query := `
		UPDATE folio_items
		SET description = $2, item_type = $3, quantity = $4, unit_price = $5, tax_rule_id = $6,
		    last_updated_at = $7, last_updated_by = $8
		WHERE folio_item_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		item.FolioItemID,
		item.Description,
		item.ItemType,
		item.Quantity,
		item.UnitPrice,
		item.TaxRuleID,
		item.LastUpdatedAt,
		item.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update folio item "+item.FolioItemID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxFolioRepository) FindFolioItemByID(ctx context.Context, folioItemID string) (*domain.FolioItem, error) {
	query := folioItemJoinQuery + ` WHERE fi.folio_item_id = $1;`
	item, err := scanFolioItem(r.Pool.QueryRow(ctx, query, folioItemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find folio item by ID "+folioItemID, err)
	}
	return &item, nil
}

func (r *PgxFolioRepository) AttachDiscount(ctx context.Context, link domain.FolioDiscount) error {
	query := `
		INSERT INTO folio_discounts (folio_discount_id, folio_id, discount_id, applied_value, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		link.FolioDiscountID,
		link.FolioID,
		link.DiscountID,
		link.AppliedValue,
		link.CreatedAt,
		link.CreatedBy,
		link.LastUpdatedAt,
		link.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewAppError(409, "discount already attached to folio", apperrors.ErrDuplicate)
		}
		if isForeignKeyViolation(err) {
			return apperrors.NewAppError(400, "folio or discount does not exist", apperrors.ErrValidation)
		}
		return apperrors.NewAppError(500, "failed to attach discount to folio "+link.FolioID, err)
	}
	return nil
}
