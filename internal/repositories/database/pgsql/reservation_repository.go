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

type PgxReservationRepository struct {
	BaseRepository
}

// newPgxReservationRepository creates a new repository for reservation data.
func newPgxReservationRepository(pool *pgxpool.Pool) portsrepo.ReservationRepositoryFacade {
	return &PgxReservationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReservationRepositoryFacade = (*PgxReservationRepository)(nil)

const reservationColumns = `reservation_id, guest_id, corporate_account_id, reservation_number, status, check_in, check_out, room_number, rate_plan, number_of_guests, notes, created_at, created_by, last_updated_at, last_updated_by`

func scanReservation(row pgx.Row) (domain.Reservation, error) {
	var res domain.Reservation
	err := row.Scan(
		&res.ReservationID,
		&res.GuestID,
		&res.CorporateAccountID,
		&res.ReservationNumber,
		&res.Status,
		&res.CheckIn,
		&res.CheckOut,
		&res.RoomNumber,
		&res.RatePlan,
		&res.NumberOfGuests,
		&res.Notes,
		&res.CreatedAt,
		&res.CreatedBy,
		&res.LastUpdatedAt,
		&res.LastUpdatedBy,
	)
	return res, err
}

func (r *PgxReservationRepository) SaveReservation(ctx context.Context, reservation domain.Reservation) error {
	query := `
		INSERT INTO reservations (` + reservationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.Pool.Exec(ctx, query,
		reservation.ReservationID,
		reservation.GuestID,
		reservation.CorporateAccountID,
		reservation.ReservationNumber,
		reservation.Status,
		reservation.CheckIn,
		reservation.CheckOut,
		reservation.RoomNumber,
		reservation.RatePlan,
		reservation.NumberOfGuests,
		reservation.Notes,
		reservation.CreatedAt,
		reservation.CreatedBy,
		reservation.LastUpdatedAt,
		reservation.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewAppError(409, "reservation number already exists", apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to insert reservation "+reservation.ReservationID, err)
	}
	return nil
}

func (r *PgxReservationRepository) FindReservationByID(ctx context.Context, reservationID string) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE reservation_id = $1;`
	reservation, err := scanReservation(r.Pool.QueryRow(ctx, query, reservationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find reservation by ID "+reservationID, err)
	}
	return &reservation, nil
}

func (r *PgxReservationRepository) ListReservations(ctx context.Context, status *domain.ReservationStatus, limit int, nextToken *string) ([]domain.Reservation, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + reservationColumns + ` FROM reservations`
	orderByClause := `ORDER BY created_at DESC, reservation_id DESC`

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
		conditions += connector + `(created_at, reservation_id) < ($` + strconv.Itoa(len(args)+1) + `, $` + strconv.Itoa(len(args)+2) + `)`
		args = append(args, lastCreatedAt, lastID)
	}

	query := baseQuery + conditions + ` ` + orderByClause + ` LIMIT $` + strconv.Itoa(len(args)+1) + `;`
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query reservations", err)
	}
	defer rows.Close()

	reservations := []domain.Reservation{}
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan reservation row", err)
		}
		reservations = append(reservations, res)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating reservation rows", err)
	}

	var next *string
	if len(reservations) > limit {
		reservations = reservations[:limit]
		last := reservations[len(reservations)-1]
		token := pagination.EncodeToken(last.CreatedAt, last.ReservationID)
		next = &token
	}
	return reservations, next, nil
}

func (r *PgxReservationRepository) UpdateReservation(ctx context.Context, reservation domain.Reservation) error {
	query := `
		UPDATE reservations
		SET check_in = $2, check_out = $3, room_number = $4, rate_plan = $5,
		    number_of_guests = $6, notes = $7, last_updated_at = $8, last_updated_by = $9
		WHERE reservation_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		reservation.ReservationID,
		reservation.CheckIn,
		reservation.CheckOut,
		reservation.RoomNumber,
		reservation.RatePlan,
		reservation.NumberOfGuests,
		reservation.Notes,
		reservation.LastUpdatedAt,
		reservation.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update reservation "+reservation.ReservationID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxReservationRepository) UpdateReservationStatus(ctx context.Context, reservationID string, status domain.ReservationStatus, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE reservations
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE reservation_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, reservationID, status, updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update reservation status "+reservationID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
