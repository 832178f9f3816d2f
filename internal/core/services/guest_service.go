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

// guestService provides guest management operations.
type guestService struct {
	guestRepo portsrepo.GuestRepositoryFacade
}

// NewGuestService creates a new GuestService.
func NewGuestService(guestRepo portsrepo.GuestRepositoryFacade) portssvc.GuestSvcFacade {
	return &guestService{guestRepo: guestRepo}
}

var _ portssvc.GuestSvcFacade = (*guestService)(nil)

func (s *guestService) CreateGuest(ctx context.Context, req dto.CreateGuestRequest, actorID string) (*domain.Guest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	guest := domain.Guest{
		GuestID:     uuid.NewString(),
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		CompanyName: req.CompanyName,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.guestRepo.SaveGuest(ctx, guest); err != nil {
		logger.Error("Failed to save guest", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save guest: %w", err)
	}

	logger.Info("Guest created", slog.String("guest_id", guest.GuestID))
	return &guest, nil
}

func (s *guestService) GetGuestByID(ctx context.Context, guestID string) (*domain.Guest, error) {
	guest, err := s.guestRepo.FindGuestByID(ctx, guestID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find guest", slog.String("error", err.Error()), slog.String("guest_id", guestID))
		}
		return nil, fmt.Errorf("failed to find guest %s: %w", guestID, err)
	}
	return guest, nil
}

func (s *guestService) ListGuests(ctx context.Context, params dto.ListGuestsParams) (*dto.ListGuestsResponse, error) {
	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	guests, nextToken, err := s.guestRepo.ListGuests(ctx, limit, params.NextToken)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list guests", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list guests: %w", err)
	}
	return &dto.ListGuestsResponse{Guests: guests, NextToken: nextToken}, nil
}

func (s *guestService) UpdateGuest(ctx context.Context, guestID string, req dto.UpdateGuestRequest, actorID string) (*domain.Guest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	guest, err := s.guestRepo.FindGuestByID(ctx, guestID)
	if err != nil {
		return nil, fmt.Errorf("failed to find guest %s for update: %w", guestID, err)
	}

	if req.FirstName != nil {
		guest.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		guest.LastName = *req.LastName
	}
	if req.Email != nil {
		guest.Email = *req.Email
	}
	if req.PhoneNumber != nil {
		guest.PhoneNumber = *req.PhoneNumber
	}
	if req.CompanyName != nil {
		guest.CompanyName = *req.CompanyName
	}
	guest.LastUpdatedAt = time.Now().UTC()
	guest.LastUpdatedBy = actorID

	if err := s.guestRepo.UpdateGuest(ctx, *guest); err != nil {
		logger.Error("Failed to update guest", slog.String("error", err.Error()), slog.String("guest_id", guestID))
		return nil, fmt.Errorf("failed to update guest %s: %w", guestID, err)
	}

	logger.Info("Guest updated", slog.String("guest_id", guestID))
	return guest, nil
}

func (s *guestService) DeleteGuest(ctx context.Context, guestID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.guestRepo.DeleteGuest(ctx, guestID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to delete guest", slog.String("error", err.Error()), slog.String("guest_id", guestID))
		}
		return fmt.Errorf("failed to delete guest %s: %w", guestID, err)
	}

	logger.Info("Guest deleted", slog.String("guest_id", guestID))
	return nil
}
