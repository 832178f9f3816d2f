package repositories

import (
	"context"
	"time"

	"github.com/hoteliq/billing_backend/internal/core/domain"
)

// FolioReader defines read operations for folio data.
type FolioReader interface {
	// FindFolioByID retrieves a folio with its items (tax rules loaded) and
	// attached discounts.
	FindFolioByID(ctx context.Context, folioID string) (*domain.Folio, error)

	// ListFolios retrieves a paginated list of folio headers, optionally
	// filtered by status.
	ListFolios(ctx context.Context, status *domain.FolioStatus, limit int, nextToken *string) ([]domain.Folio, *string, error)
}

// FolioWriter defines write operations for folio data.
type FolioWriter interface {
	SaveFolio(ctx context.Context, folio domain.Folio) error

	// UpdateFolioStatus moves a folio between open/closed/settled.
	UpdateFolioStatus(ctx context.Context, folioID string, status domain.FolioStatus, updatedBy string, updatedAt time.Time) error

	// SaveFolioItem posts a charge to a folio.
	SaveFolioItem(ctx context.Context, item domain.FolioItem) error

	// UpdateFolioItem rewrites an existing charge.
	UpdateFolioItem(ctx context.Context, item domain.FolioItem) error

	// FindFolioItemByID retrieves one charge with its tax rule loaded.
	FindFolioItemByID(ctx context.Context, folioItemID string) (*domain.FolioItem, error)

	// AttachDiscount links a discount to a folio, freezing its applied value.
	AttachDiscount(ctx context.Context, link domain.FolioDiscount) error
}

// FolioRepositoryFacade combines folio repository interfaces.
type FolioRepositoryFacade interface {
	FolioReader
	FolioWriter
}
