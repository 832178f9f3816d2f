package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hoteliq/billing_backend/internal/apperrors"
	"github.com/hoteliq/billing_backend/internal/core/domain"
	portsrepo "github.com/hoteliq/billing_backend/internal/core/ports/repositories"
	portssvc "github.com/hoteliq/billing_backend/internal/core/ports/services"
	"github.com/hoteliq/billing_backend/internal/dto"
	"github.com/hoteliq/billing_backend/internal/middleware"
	"github.com/hoteliq/billing_backend/internal/utils"
)

var (
	ErrFolioNotOpen         = errors.New("folio is not open to charges")
	ErrFolioGuestMissing    = errors.New("walk-in folio requires a guest name")
	ErrItemNotOnFolio       = errors.New("item does not belong to this folio")
	ErrDiscountNotApplicable = errors.New("discount is inactive or outside its validity window")
)

const defaultCurrency = "USD"

// validFolioTransitions drives the folio lifecycle. Settled is terminal;
// closed folios may reopen when a late charge arrives before invoicing.
var validFolioTransitions = map[domain.FolioStatus][]domain.FolioStatus{
	domain.FolioOpen:   {domain.FolioClosed},
	domain.FolioClosed: {domain.FolioOpen, domain.FolioSettled},
}

// folioService provides the folio engine: opening bills and posting charges.
type folioService struct {
	folioRepo       portsrepo.FolioRepositoryFacade
	reservationRepo portsrepo.ReservationReader
	guestRepo       portsrepo.GuestReader
	taxRuleRepo     portsrepo.TaxRuleRepositoryFacade
	discountRepo    portsrepo.DiscountRepositoryFacade
}

// NewFolioService creates a new FolioService.
func NewFolioService(
	folioRepo portsrepo.FolioRepositoryFacade,
	reservationRepo portsrepo.ReservationReader,
	guestRepo portsrepo.GuestReader,
	taxRuleRepo portsrepo.TaxRuleRepositoryFacade,
	discountRepo portsrepo.DiscountRepositoryFacade,
) portssvc.FolioSvcFacade {
	return &folioService{
		folioRepo:       folioRepo,
		reservationRepo: reservationRepo,
		guestRepo:       guestRepo,
		taxRuleRepo:     taxRuleRepo,
		discountRepo:    discountRepo,
	}
}

var _ portssvc.FolioSvcFacade = (*folioService)(nil)

// CreateFolio opens a running bill. With a reservation the guest name and
// corporate account are inherited from the stay; walk-ins must name the guest.
func (s *folioService) CreateFolio(ctx context.Context, req dto.CreateFolioRequest, actorID string) (*domain.Folio, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	guestName := req.GuestName
	corporateAccountID := req.CorporateAccountID

	if req.ReservationID != nil {
		reservation, err := s.reservationRepo.FindReservationByID(ctx, *req.ReservationID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: reservation %s", apperrors.ErrValidation, *req.ReservationID)
			}
			return nil, fmt.Errorf("failed to load reservation %s: %w", *req.ReservationID, err)
		}
		if guestName == "" {
			guest, err := s.guestRepo.FindGuestByID(ctx, reservation.GuestID)
			if err != nil {
				return nil, fmt.Errorf("failed to load guest %s: %w", reservation.GuestID, err)
			}
			guestName = guest.DisplayName()
		}
		if corporateAccountID == nil {
			corporateAccountID = reservation.CorporateAccountID
		}
	} else if guestName == "" {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrFolioGuestMissing)
	}

	currency := req.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	now := time.Now().UTC()
	folio := domain.Folio{
		FolioID:            uuid.NewString(),
		ReservationID:      req.ReservationID,
		GuestName:          guestName,
		CorporateAccountID: corporateAccountID,
		FolioNumber:        utils.NewFolioNumber(),
		Currency:           currency,
		Status:             domain.FolioOpen,
		Notes:              req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.folioRepo.SaveFolio(ctx, folio); err != nil {
		logger.Error("Failed to save folio", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save folio: %w", err)
	}

	logger.Info("Folio opened", slog.String("folio_id", folio.FolioID), slog.String("folio_number", folio.FolioNumber))
	return &folio, nil
}

func (s *folioService) GetFolioByID(ctx context.Context, folioID string) (*domain.Folio, error) {
	folio, err := s.folioRepo.FindFolioByID(ctx, folioID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find folio", slog.String("error", err.Error()), slog.String("folio_id", folioID))
		}
		return nil, fmt.Errorf("failed to find folio %s: %w", folioID, err)
	}
	return folio, nil
}

func (s *folioService) ListFolios(ctx context.Context, params dto.ListFoliosParams) (*dto.ListFoliosResponse, error) {
	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	folios, nextToken, err := s.folioRepo.ListFolios(ctx, params.Status, limit, params.NextToken)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list folios", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list folios: %w", err)
	}
	return &dto.ListFoliosResponse{Folios: folios, NextToken: nextToken}, nil
}

func (s *folioService) UpdateFolioStatus(ctx context.Context, folioID string, status domain.FolioStatus, actorID string) (*domain.Folio, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	folio, err := s.folioRepo.FindFolioByID(ctx, folioID)
	if err != nil {
		return nil, fmt.Errorf("failed to find folio %s for status update: %w", folioID, err)
	}

	allowed := false
	for _, next := range validFolioTransitions[folio.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("%w: cannot move folio from %s to %s", apperrors.ErrConflict, folio.Status, status)
	}

	now := time.Now().UTC()
	if err := s.folioRepo.UpdateFolioStatus(ctx, folioID, status, actorID, now); err != nil {
		logger.Error("Failed to update folio status", slog.String("error", err.Error()), slog.String("folio_id", folioID))
		return nil, fmt.Errorf("failed to update folio %s status: %w", folioID, err)
	}

	folio.Status = status
	folio.LastUpdatedAt = now
	folio.LastUpdatedBy = actorID

	logger.Info("Folio status updated", slog.String("folio_id", folioID), slog.String("status", string(status)))
	return folio, nil
}

// AddItem posts a charge to an open folio. Negative unit prices are allowed
// only on adjustment items so goodwill corrections can be posted in place.
func (s *folioService) AddItem(ctx context.Context, folioID string, req dto.AddFolioItemRequest, actorID string) (*domain.FolioItem, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	folio, err := s.folioRepo.FindFolioByID(ctx, folioID)
	if err != nil {
		return nil, fmt.Errorf("failed to find folio %s: %w", folioID, err)
	}
	if folio.Status != domain.FolioOpen {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrConflict, ErrFolioNotOpen)
	}

	quantity := req.Quantity
	if quantity.IsZero() {
		quantity = decimal.NewFromInt(1)
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: quantity must be positive", apperrors.ErrValidation)
	}
	if req.UnitPrice.IsNegative() && req.ItemType != domain.ItemAdjustment {
		return nil, fmt.Errorf("%w: only adjustment items may carry a negative unit price", apperrors.ErrValidation)
	}

	var taxRule *domain.TaxRule
	if req.TaxRuleID != nil {
		taxRule, err = s.taxRuleRepo.FindTaxRuleByID(ctx, *req.TaxRuleID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: tax rule %s", apperrors.ErrValidation, *req.TaxRuleID)
			}
			return nil, fmt.Errorf("failed to load tax rule %s: %w", *req.TaxRuleID, err)
		}
	}

	now := time.Now().UTC()
	postedAt := now
	if req.PostedAt != nil {
		postedAt = req.PostedAt.UTC()
	}

	item := domain.FolioItem{
		FolioItemID: uuid.NewString(),
		FolioID:     folioID,
		Description: req.Description,
		ItemType:    req.ItemType,
		Quantity:    quantity,
		UnitPrice:   req.UnitPrice,
		TaxRuleID:   req.TaxRuleID,
		TaxRule:     taxRule,
		PostedAt:    postedAt,
		PostedBy:    &actorID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.folioRepo.SaveFolioItem(ctx, item); err != nil {
		logger.Error("Failed to save folio item", slog.String("error", err.Error()), slog.String("folio_id", folioID))
		return nil, fmt.Errorf("failed to save folio item: %w", err)
	}

	logger.Info("Charge posted", slog.String("folio_id", folioID), slog.String("folio_item_id", item.FolioItemID), slog.String("line_total", item.LineTotal().String()))
	return &item, nil
}

func (s *folioService) UpdateItem(ctx context.Context, folioID, itemID string, req dto.UpdateFolioItemRequest, actorID string) (*domain.FolioItem, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	folio, err := s.folioRepo.FindFolioByID(ctx, folioID)
	if err != nil {
		return nil, fmt.Errorf("failed to find folio %s: %w", folioID, err)
	}
	if folio.Status != domain.FolioOpen {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrConflict, ErrFolioNotOpen)
	}

	item, err := s.folioRepo.FindFolioItemByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to find folio item %s: %w", itemID, err)
	}
	if item.FolioID != folioID {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrItemNotOnFolio)
	}

	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.ItemType != nil {
		item.ItemType = *req.ItemType
	}
	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}
	if req.UnitPrice != nil {
		item.UnitPrice = *req.UnitPrice
	}
	if req.TaxRuleID != nil {
		taxRule, err := s.taxRuleRepo.FindTaxRuleByID(ctx, *req.TaxRuleID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: tax rule %s", apperrors.ErrValidation, *req.TaxRuleID)
			}
			return nil, fmt.Errorf("failed to load tax rule %s: %w", *req.TaxRuleID, err)
		}
		item.TaxRuleID = req.TaxRuleID
		item.TaxRule = taxRule
	}

	if item.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: quantity must be positive", apperrors.ErrValidation)
	}
	if item.UnitPrice.IsNegative() && item.ItemType != domain.ItemAdjustment {
		return nil, fmt.Errorf("%w: only adjustment items may carry a negative unit price", apperrors.ErrValidation)
	}

	item.LastUpdatedAt = time.Now().UTC()
	item.LastUpdatedBy = actorID

	if err := s.folioRepo.UpdateFolioItem(ctx, *item); err != nil {
		logger.Error("Failed to update folio item", slog.String("error", err.Error()), slog.String("folio_item_id", itemID))
		return nil, fmt.Errorf("failed to update folio item %s: %w", itemID, err)
	}

	logger.Info("Charge updated", slog.String("folio_id", folioID), slog.String("folio_item_id", itemID))
	return item, nil
}

// AttachDiscount links a discount to the folio, freezing the value in effect
// today. Later edits to the discount rule do not travel back to the folio.
func (s *folioService) AttachDiscount(ctx context.Context, folioID string, req dto.AttachFolioDiscountRequest, actorID string) (*domain.FolioDiscount, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	folio, err := s.folioRepo.FindFolioByID(ctx, folioID)
	if err != nil {
		return nil, fmt.Errorf("failed to find folio %s: %w", folioID, err)
	}
	if folio.Status != domain.FolioOpen {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrConflict, ErrFolioNotOpen)
	}

	discount, err := s.discountRepo.FindDiscountByID(ctx, req.DiscountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: discount %s", apperrors.ErrValidation, req.DiscountID)
		}
		return nil, fmt.Errorf("failed to load discount %s: %w", req.DiscountID, err)
	}

	now := time.Now().UTC()
	if !discount.IsApplicable(now) {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrDiscountNotApplicable)
	}

	link := domain.FolioDiscount{
		FolioDiscountID: uuid.NewString(),
		FolioID:         folioID,
		DiscountID:      discount.DiscountID,
		AppliedValue:    discount.Value,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.folioRepo.AttachDiscount(ctx, link); err != nil {
		logger.Error("Failed to attach discount", slog.String("error", err.Error()), slog.String("folio_id", folioID), slog.String("discount_id", discount.DiscountID))
		return nil, fmt.Errorf("failed to attach discount: %w", err)
	}

	logger.Info("Discount attached to folio", slog.String("folio_id", folioID), slog.String("discount_id", discount.DiscountID))
	return &link, nil
}
