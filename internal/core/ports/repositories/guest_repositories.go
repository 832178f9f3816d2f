package repositories

import (
	"context"

	"github.com/hoteliq/billing_backend/internal/core/domain"
)

// GuestReader defines read operations for guest data.
type GuestReader interface {
	// FindGuestByID retrieves a guest by its unique identifier.
	FindGuestByID(ctx context.Context, guestID string) (*domain.Guest, error)

	// ListGuests retrieves a paginated list of guests using token-based pagination.
	ListGuests(ctx context.Context, limit int, nextToken *string) ([]domain.Guest, *string, error)
}

// GuestWriter defines write operations for guest data.
type GuestWriter interface {
	SaveGuest(ctx context.Context, guest domain.Guest) error
	UpdateGuest(ctx context.Context, guest domain.Guest) error
	DeleteGuest(ctx context.Context, guestID string) error
}

// GuestRepositoryFacade combines guest repository interfaces.
type GuestRepositoryFacade interface {
	GuestReader
	GuestWriter
}
