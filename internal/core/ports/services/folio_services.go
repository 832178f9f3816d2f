package services

import (
	"context"

	"github.com/hoteliq/billing_backend/internal/core/domain"
	"github.com/hoteliq/billing_backend/internal/dto"
)

// FolioSvcFacade exposes the folio engine: opening bills, posting charges and
// reading live totals.
type FolioSvcFacade interface {
	CreateFolio(ctx context.Context, req dto.CreateFolioRequest, actorID string) (*domain.Folio, error)
	GetFolioByID(ctx context.Context, folioID string) (*domain.Folio, error)
	ListFolios(ctx context.Context, params dto.ListFoliosParams) (*dto.ListFoliosResponse, error)
	UpdateFolioStatus(ctx context.Context, folioID string, status domain.FolioStatus, actorID string) (*domain.Folio, error)

	// AddItem posts a charge and returns it with computed line amounts.
	AddItem(ctx context.Context, folioID string, req dto.AddFolioItemRequest, actorID string) (*domain.FolioItem, error)
	UpdateItem(ctx context.Context, folioID, itemID string, req dto.UpdateFolioItemRequest, actorID string) (*domain.FolioItem, error)

	// AttachDiscount links a discount to the folio, freezing its current value.
	AttachDiscount(ctx context.Context, folioID string, req dto.AttachFolioDiscountRequest, actorID string) (*domain.FolioDiscount, error)
}
