package services

import (
	"context"

	"github.com/hoteliq/billing_backend/internal/core/domain"
	"github.com/hoteliq/billing_backend/internal/dto"
)

// ReservationSvcFacade exposes reservation management operations.
type ReservationSvcFacade interface {
	CreateReservation(ctx context.Context, req dto.CreateReservationRequest, actorID string) (*domain.Reservation, error)
	GetReservationByID(ctx context.Context, reservationID string) (*domain.Reservation, error)
	ListReservations(ctx context.Context, params dto.ListReservationsParams) (*dto.ListReservationsResponse, error)
	UpdateReservation(ctx context.Context, reservationID string, req dto.UpdateReservationRequest, actorID string) (*domain.Reservation, error)
	UpdateReservationStatus(ctx context.Context, reservationID string, status domain.ReservationStatus, actorID string) (*domain.Reservation, error)
}
