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

type PgxTaxRuleRepository struct {
	BaseRepository
}

// newPgxTaxRuleRepository creates a new repository for tax rule reference data.
func newPgxTaxRuleRepository(pool *pgxpool.Pool) portsrepo.TaxRuleRepositoryFacade {
	return &PgxTaxRuleRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TaxRuleRepositoryFacade = (*PgxTaxRuleRepository)(nil)

const taxRuleColumns = `tax_rule_id, name, rate, is_active, description, created_at, created_by, last_updated_at, last_updated_by`

func scanTaxRule(row pgx.Row) (domain.TaxRule, error) {
	var t domain.TaxRule
	err := row.Scan(
		&t.TaxRuleID,
		&t.Name,
		&t.Rate,
		&t.IsActive,
		&t.Description,
		&t.CreatedAt,
		&t.CreatedBy,
		&t.LastUpdatedAt,
		&t.LastUpdatedBy,
	)
	return t, err
}

func (r *PgxTaxRuleRepository) SaveTaxRule(ctx context.Context, rule domain.TaxRule) error {
	query := `
		INSERT INTO tax_rules (` + taxRuleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		rule.TaxRuleID,
		rule.Name,
		rule.Rate,
		rule.IsActive,
		rule.Description,
		rule.CreatedAt,
		rule.CreatedBy,
		rule.LastUpdatedAt,
		rule.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert tax rule "+rule.TaxRuleID, err)
	}
	return nil
}

func (r *PgxTaxRuleRepository) UpdateTaxRule(ctx context.Context, rule domain.TaxRule) error {
	query := `
		UPDATE tax_rules
		SET name = $2, rate = $3, is_active = $4, description = $5, last_updated_at = $6, last_updated_by = $7
		WHERE tax_rule_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		rule.TaxRuleID,
		rule.Name,
		rule.Rate,
		rule.IsActive,
		rule.Description,
		rule.LastUpdatedAt,
		rule.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update tax rule "+rule.TaxRuleID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxTaxRuleRepository) FindTaxRuleByID(ctx context.Context, taxRuleID string) (*domain.TaxRule, error) {
	query := `SELECT ` + taxRuleColumns + ` FROM tax_rules WHERE tax_rule_id = $1;`
	rule, err := scanTaxRule(r.Pool.QueryRow(ctx, query, taxRuleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find tax rule by ID "+taxRuleID, err)
	}
	return &rule, nil
}

func (r *PgxTaxRuleRepository) ListTaxRules(ctx context.Context, activeOnly bool) ([]domain.TaxRule, error) {
	query := `SELECT ` + taxRuleColumns + ` FROM tax_rules`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY name;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query tax rules", err)
	}
	defer rows.Close()

	rules := []domain.TaxRule{}
	for rows.Next() {
		rule, err := scanTaxRule(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan tax rule row", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating tax rule rows", err)
	}
	return rules, nil
}
