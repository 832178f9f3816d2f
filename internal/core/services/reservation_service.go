package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hoteliq/billing_backend/internal/apperrors"
	"github.com/hoteliq/billing_backend/internal/core/domain"
	portsrepo "github.com/hoteliq/billing_backend/internal/core/ports/repositories"
	portssvc "github.com/hoteliq/billing_backend/internal/core/ports/services"
	"github.com/hoteliq/billing_backend/internal/dto"
	"github.com/hoteliq/billing_backend/internal/middleware"
)

var (
	ErrCheckOutBeforeCheckIn = errors.New("check-out must be after check-in")
	ErrReservationTerminal   = errors.New("reservation is in a terminal state")
)

// validReservationTransitions drives the lifecycle state machine.
var validReservationTransitions = map[domain.ReservationStatus][]domain.ReservationStatus{
	domain.ReservationBooked:    {domain.ReservationCheckedIn, domain.ReservationCancelled},
	domain.ReservationCheckedIn: {domain.ReservationCheckedOut},
}

// reservationService provides reservation lifecycle operations.
type reservationService struct {
	reservationRepo portsrepo.ReservationRepositoryFacade
	guestRepo       portsrepo.GuestReader
}

// NewReservationService creates a new ReservationService.
func NewReservationService(reservationRepo portsrepo.ReservationRepositoryFacade, guestRepo portsrepo.GuestReader) portssvc.ReservationSvcFacade {
	return &reservationService{
		reservationRepo: reservationRepo,
		guestRepo:       guestRepo,
	}
}

var _ portssvc.ReservationSvcFacade = (*reservationService)(nil)

func (s *reservationService) CreateReservation(ctx context.Context, req dto.CreateReservationRequest, actorID string) (*domain.Reservation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.CheckOut.After(req.CheckIn) {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrCheckOutBeforeCheckIn)
	}

	// The guest must exist before a stay can be booked against them.
	if _, err := s.guestRepo.FindGuestByID(ctx, req.GuestID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: guest %s", apperrors.ErrValidation, req.GuestID)
		}
		return nil, fmt.Errorf("failed to verify guest %s: %w", req.GuestID, err)
	}

	numberOfGuests := req.NumberOfGuests
	if numberOfGuests == 0 {
		numberOfGuests = 1
	}

	now := time.Now().UTC()
	reservation := domain.Reservation{
		ReservationID:      uuid.NewString(),
		GuestID:            req.GuestID,
		CorporateAccountID: req.CorporateAccountID,
		ReservationNumber:  req.ReservationNumber,
		Status:             domain.ReservationBooked,
		CheckIn:            req.CheckIn,
		CheckOut:           req.CheckOut,
		RoomNumber:         req.RoomNumber,
		RatePlan:           req.RatePlan,
		NumberOfGuests:     numberOfGuests,
		Notes:              req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.reservationRepo.SaveReservation(ctx, reservation); err != nil {
		logger.Error("Failed to save reservation", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save reservation: %w", err)
	}

	logger.Info("Reservation created", slog.String("reservation_id", reservation.ReservationID), slog.String("reservation_number", reservation.ReservationNumber))
	return &reservation, nil
}

func (s *reservationService) GetReservationByID(ctx context.Context, reservationID string) (*domain.Reservation, error) {
	reservation, err := s.reservationRepo.FindReservationByID(ctx, reservationID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find reservation", slog.String("error", err.Error()), slog.String("reservation_id", reservationID))
		}
		return nil, fmt.Errorf("failed to find reservation %s: %w", reservationID, err)
	}
	return reservation, nil
}

func (s *reservationService) ListReservations(ctx context.Context, params dto.ListReservationsParams) (*dto.ListReservationsResponse, error) {
	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	reservations, nextToken, err := s.reservationRepo.ListReservations(ctx, params.Status, limit, params.NextToken)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list reservations", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return &dto.ListReservationsResponse{Reservations: reservations, NextToken: nextToken}, nil
}

func (s *reservationService) UpdateReservation(ctx context.Context, reservationID string, req dto.UpdateReservationRequest, actorID string) (*domain.Reservation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	reservation, err := s.reservationRepo.FindReservationByID(ctx, reservationID)
	if err != nil {
		return nil, fmt.Errorf("failed to find reservation %s for update: %w", reservationID, err)
	}

	if reservation.Status == domain.ReservationCheckedOut || reservation.Status == domain.ReservationCancelled {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrConflict, ErrReservationTerminal)
	}

	if req.CheckIn != nil {
		reservation.CheckIn = *req.CheckIn
	}
	if req.CheckOut != nil {
		reservation.CheckOut = *req.CheckOut
	}
	if !reservation.CheckOut.After(reservation.CheckIn) {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrCheckOutBeforeCheckIn)
	}
	if req.RoomNumber != nil {
		reservation.RoomNumber = *req.RoomNumber
	}
	if req.RatePlan != nil {
		reservation.RatePlan = *req.RatePlan
	}
	if req.NumberOfGuests != nil {
		reservation.NumberOfGuests = *req.NumberOfGuests
	}
	if req.Notes != nil {
		reservation.Notes = *req.Notes
	}
	reservation.LastUpdatedAt = time.Now().UTC()
	reservation.LastUpdatedBy = actorID

	if err := s.reservationRepo.UpdateReservation(ctx, *reservation); err != nil {
		logger.Error("Failed to update reservation", slog.String("error", err.Error()), slog.String("reservation_id", reservationID))
		return nil, fmt.Errorf("failed to update reservation %s: %w", reservationID, err)
	}

	logger.Info("Reservation updated", slog.String("reservation_id", reservationID))
	return reservation, nil
}

func (s *reservationService) UpdateReservationStatus(ctx context.Context, reservationID string, status domain.ReservationStatus, actorID string) (*domain.Reservation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	reservation, err := s.reservationRepo.FindReservationByID(ctx, reservationID)
	if err != nil {
		return nil, fmt.Errorf("failed to find reservation %s for status update: %w", reservationID, err)
	}

	allowed := false
	for _, next := range validReservationTransitions[reservation.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("%w: cannot move reservation from %s to %s", apperrors.ErrConflict, reservation.Status, status)
	}

	now := time.Now().UTC()
	if err := s.reservationRepo.UpdateReservationStatus(ctx, reservationID, status, actorID, now); err != nil {
		logger.Error("Failed to update reservation status", slog.String("error", err.Error()), slog.String("reservation_id", reservationID))
		return nil, fmt.Errorf("failed to update reservation %s status: %w", reservationID, err)
	}

	reservation.Status = status
	reservation.LastUpdatedAt = now
	reservation.LastUpdatedBy = actorID

	logger.Info("Reservation status updated", slog.String("reservation_id", reservationID), slog.String("status", string(status)))
	return reservation, nil
}
