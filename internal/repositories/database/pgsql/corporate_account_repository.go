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

type PgxCorporateAccountRepository struct {
	BaseRepository
}

// newPgxCorporateAccountRepository creates a new repository for corporate account data.
func newPgxCorporateAccountRepository(pool *pgxpool.Pool) portsrepo.CorporateAccountRepositoryFacade {
	return &PgxCorporateAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CorporateAccountRepositoryFacade = (*PgxCorporateAccountRepository)(nil)

const corporateAccountColumns = `corporate_account_id, name, code, contact_email, contact_phone, discount_rate, notes, created_at, created_by, last_updated_at, last_updated_by`

func scanCorporateAccount(row pgx.Row) (domain.CorporateAccount, error) {
	var a domain.CorporateAccount
	err := row.Scan(
		&a.CorporateAccountID,
		&a.Name,
		&a.Code,
		&a.ContactEmail,
		&a.ContactPhone,
		&a.DiscountRate,
		&a.Notes,
		&a.CreatedAt,
		&a.CreatedBy,
		&a.LastUpdatedAt,
		&a.LastUpdatedBy,
	)
	return a, err
}

func (r *PgxCorporateAccountRepository) SaveCorporateAccount(ctx context.Context, account domain.CorporateAccount) error {
	query := `
		INSERT INTO corporate_accounts (` + corporateAccountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		account.CorporateAccountID,
		account.Name,
		account.Code,
		account.ContactEmail,
		account.ContactPhone,
		account.DiscountRate,
		account.Notes,
		account.CreatedAt,
		account.CreatedBy,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewAppError(409, "corporate account code already exists", apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to insert corporate account "+account.CorporateAccountID, err)
	}
	return nil
}

func (r *PgxCorporateAccountRepository) UpdateCorporateAccount(ctx context.Context, account domain.CorporateAccount) error {
	query := `
		UPDATE corporate_accounts
		SET name = $2, contact_email = $3, contact_phone = $4, discount_rate = $5, notes = $6,
		    last_updated_at = $7, last_updated_by = $8
		WHERE corporate_account_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		account.CorporateAccountID,
		account.Name,
		account.ContactEmail,
		account.ContactPhone,
		account.DiscountRate,
		account.Notes,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update corporate account "+account.CorporateAccountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxCorporateAccountRepository) FindCorporateAccountByID(ctx context.Context, accountID string) (*domain.CorporateAccount, error) {
	query := `SELECT ` + corporateAccountColumns + ` FROM corporate_accounts WHERE corporate_account_id = $1;`
	account, err := scanCorporateAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find corporate account by ID "+accountID, err)
	}
	return &account, nil
}

func (r *PgxCorporateAccountRepository) ListCorporateAccounts(ctx context.Context, limit int, nextToken *string) ([]domain.CorporateAccount, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + corporateAccountColumns + ` FROM corporate_accounts`
	orderByClause := `ORDER BY created_at DESC, corporate_account_id DESC`

	args := []interface{}{}
	conditions := ""

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		conditions = ` WHERE (created_at, corporate_account_id) < ($1, $2)`
		args = append(args, lastCreatedAt, lastID)
	}

	query := baseQuery + conditions + ` ` + orderByClause + ` LIMIT $` + strconv.Itoa(len(args)+1) + `;`
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query corporate accounts", err)
	}
	defer rows.Close()

	accounts := []domain.CorporateAccount{}
	for rows.Next() {
		a, err := scanCorporateAccount(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan corporate account row", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating corporate account rows", err)
	}

	var next *string
	if len(accounts) > limit {
		accounts = accounts[:limit]
		last := accounts[len(accounts)-1]
		token := pagination.EncodeToken(last.CreatedAt, last.CorporateAccountID)
		next = &token
	}
	return accounts, next, nil
}
