package services

import (
	"context"
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
)

// discountService manages discount reference data.
type discountService struct {
	discountRepo portsrepo.DiscountRepositoryFacade
}

// NewDiscountService creates a new DiscountService.
func NewDiscountService(discountRepo portsrepo.DiscountRepositoryFacade) portssvc.DiscountSvcFacade {
	return &discountService{discountRepo: discountRepo}
}

var _ portssvc.DiscountSvcFacade = (*discountService)(nil)

func (s *discountService) CreateDiscount(ctx context.Context, req dto.CreateDiscountRequest, actorID string) (*domain.Discount, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Value.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: discount value must be positive", apperrors.ErrValidation)
	}
	if req.DiscountType == domain.DiscountPercentage && req.Value.GreaterThan(decimal.NewFromInt(100)) {
		return nil, fmt.Errorf("%w: percentage discount cannot exceed 100", apperrors.ErrValidation)
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, fmt.Errorf("%w: discount end date precedes start date", apperrors.ErrValidation)
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	now := time.Now().UTC()
	discount := domain.Discount{
		DiscountID:         uuid.NewString(),
		Name:               req.Name,
		DiscountType:       req.DiscountType,
		Value:              req.Value,
		IsActive:           isActive,
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
		CorporateAccountID: req.CorporateAccountID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.discountRepo.SaveDiscount(ctx, discount); err != nil {
		logger.Error("Failed to save discount", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save discount: %w", err)
	}

	logger.Info("Discount created", slog.String("discount_id", discount.DiscountID), slog.String("type", string(discount.DiscountType)))
	return &discount, nil
}

func (s *discountService) ListDiscounts(ctx context.Context, params dto.ListDiscountsParams) (*dto.ListDiscountsResponse, error) {
	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	discounts, nextToken, err := s.discountRepo.ListDiscounts(ctx, params.ActiveOnly, limit, params.NextToken)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list discounts", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list discounts: %w", err)
	}
	return &dto.ListDiscountsResponse{Discounts: discounts, NextToken: nextToken}, nil
}
