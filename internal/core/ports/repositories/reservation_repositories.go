package repositories

import (
	"context"
	"time"

	"github.com/hoteliq/billing_backend/internal/core/domain"
)

// ReservationReader defines read operations for reservation data.
type ReservationReader interface {
	FindReservationByID(ctx context.Context, reservationID string) (*domain.Reservation, error)

	// ListReservations retrieves a paginated list, optionally filtered by status.
	ListReservations(ctx context.Context, status *domain.ReservationStatus, limit int, nextToken *string) ([]domain.Reservation, *string, error)
}

// ReservationWriter defines write operations for reservation data.
type ReservationWriter interface {
	SaveReservation(ctx context.Context, reservation domain.Reservation) error
	UpdateReservation(ctx context.Context, reservation domain.Reservation) error

	// UpdateReservationStatus moves a reservation through its lifecycle.
	UpdateReservationStatus(ctx context.Context, reservationID string, status domain.ReservationStatus, updatedBy string, updatedAt time.Time) error
}

// ReservationRepositoryFacade combines reservation repository interfaces.
type ReservationRepositoryFacade interface {
	ReservationReader
	ReservationWriter
}
