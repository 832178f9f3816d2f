package services

import (
	"context"

	"github.com/hoteliq/billing_backend/internal/core/domain"
	"github.com/hoteliq/billing_backend/internal/dto"
)

// GuestSvcFacade exposes guest management operations.
type GuestSvcFacade interface {
	CreateGuest(ctx context.Context, req dto.CreateGuestRequest, actorID string) (*domain.Guest, error)
	GetGuestByID(ctx context.Context, guestID string) (*domain.Guest, error)
	ListGuests(ctx context.Context, params dto.ListGuestsParams) (*dto.ListGuestsResponse, error)
	UpdateGuest(ctx context.Context, guestID string, req dto.UpdateGuestRequest, actorID string) (*domain.Guest, error)
	DeleteGuest(ctx context.Context, guestID string) error
}
