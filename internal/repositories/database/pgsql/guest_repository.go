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

type PgxGuestRepository struct {
	BaseRepository
}

// newPgxGuestRepository creates a new repository for guest data.
func newPgxGuestRepository(pool *pgxpool.Pool) portsrepo.GuestRepositoryFacade {
	return &PgxGuestRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.GuestRepositoryFacade = (*PgxGuestRepository)(nil)

const guestColumns = `guest_id, first_name, last_name, email, phone_number, company_name, created_at, created_by, last_updated_at, last_updated_by`

func scanGuest(row pgx.Row) (domain.Guest, error) {
	var g domain.Guest
	err := row.Scan(
		&g.GuestID,
		&g.FirstName,
		&g.LastName,
		&g.Email,
		&g.PhoneNumber,
		&g.CompanyName,
		&g.CreatedAt,
		&g.CreatedBy,
		&g.LastUpdatedAt,
		&g.LastUpdatedBy,
	)
	return g, err
}

func (r *PgxGuestRepository) SaveGuest(ctx context.Context, guest domain.Guest) error {
	query := `
		INSERT INTO guests (` + guestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		guest.GuestID,
		guest.FirstName,
		guest.LastName,
		guest.Email,
		guest.PhoneNumber,
		guest.CompanyName,
		guest.CreatedAt,
		guest.CreatedBy,
		guest.LastUpdatedAt,
		guest.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert guest "+guest.GuestID, err)
	}
	return nil
}

func (r *PgxGuestRepository) FindGuestByID(ctx context.Context, guestID string) (*domain.Guest, error) {
	query := `SELECT ` + guestColumns + ` FROM guests WHERE guest_id = $1;`
	guest, err := scanGuest(r.Pool.QueryRow(ctx, query, guestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find guest by ID "+guestID, err)
	}
	return &guest, nil
}

func (r *PgxGuestRepository) ListGuests(ctx context.Context, limit int, nextToken *string) ([]domain.Guest, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + guestColumns + ` FROM guests`
	orderByClause := `ORDER BY created_at DESC, guest_id DESC`

	var rows pgx.Rows
	var err error
	args := []interface{}{}

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastCreatedAt, lastID)
		query := baseQuery + ` WHERE (created_at, guest_id) < ($1, $2) ` + orderByClause + ` LIMIT $` + strconv.Itoa(len(args)+1) + `;`
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + ` ` + orderByClause + ` LIMIT $1;`
		rows, err = r.Pool.Query(ctx, query, fetchLimit)
	}
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query guests", err)
	}
	defer rows.Close()

	guests := []domain.Guest{}
	for rows.Next() {
		g, err := scanGuest(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan guest row", err)
		}
		guests = append(guests, g)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating guest rows", err)
	}

	var next *string
	if len(guests) > limit {
		guests = guests[:limit]
		last := guests[len(guests)-1]
		token := pagination.EncodeToken(last.CreatedAt, last.GuestID)
		next = &token
	}
	return guests, next, nil
}

func (r *PgxGuestRepository) UpdateGuest(ctx context.Context, guest domain.Guest) error {
	query := `
		UPDATE guests
		SET first_name = $2, last_name = $3, email = $4, phone_number = $5, company_name = $6,
		    last_updated_at = $7, last_updated_by = $8
		WHERE guest_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		guest.GuestID,
		guest.FirstName,
		guest.LastName,
		guest.Email,
		guest.PhoneNumber,
		guest.CompanyName,
		guest.LastUpdatedAt,
		guest.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update guest "+guest.GuestID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxGuestRepository) DeleteGuest(ctx context.Context, guestID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM guests WHERE guest_id = $1;`, guestID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete guest "+guestID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
