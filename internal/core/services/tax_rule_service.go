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
)

// taxRuleService manages tax rule reference data.
type taxRuleService struct {
	taxRuleRepo portsrepo.TaxRuleRepositoryFacade
}

// NewTaxRuleService creates a new TaxRuleService.
func NewTaxRuleService(taxRuleRepo portsrepo.TaxRuleRepositoryFacade) portssvc.TaxRuleSvcFacade {
	return &taxRuleService{taxRuleRepo: taxRuleRepo}
}

var _ portssvc.TaxRuleSvcFacade = (*taxRuleService)(nil)

func validateTaxRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("%w: tax rate must be between 0 and 100", apperrors.ErrValidation)
	}
	return nil
}

func (s *taxRuleService) CreateTaxRule(ctx context.Context, req dto.CreateTaxRuleRequest, actorID string) (*domain.TaxRule, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateTaxRate(req.Rate); err != nil {
		return nil, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	now := time.Now().UTC()
	rule := domain.TaxRule{
		TaxRuleID:   uuid.NewString(),
		Name:        req.Name,
		Rate:        req.Rate,
		IsActive:    isActive,
		Description: req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.taxRuleRepo.SaveTaxRule(ctx, rule); err != nil {
		logger.Error("Failed to save tax rule", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save tax rule: %w", err)
	}

	logger.Info("Tax rule created", slog.String("tax_rule_id", rule.TaxRuleID), slog.String("rate", rule.Rate.String()))
	return &rule, nil
}

func (s *taxRuleService) GetTaxRuleByID(ctx context.Context, taxRuleID string) (*domain.TaxRule, error) {
	rule, err := s.taxRuleRepo.FindTaxRuleByID(ctx, taxRuleID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find tax rule", slog.String("error", err.Error()), slog.String("tax_rule_id", taxRuleID))
		}
		return nil, fmt.Errorf("failed to find tax rule %s: %w", taxRuleID, err)
	}
	return rule, nil
}

func (s *taxRuleService) ListTaxRules(ctx context.Context, activeOnly bool) ([]domain.TaxRule, error) {
	rules, err := s.taxRuleRepo.ListTaxRules(ctx, activeOnly)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list tax rules", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list tax rules: %w", err)
	}
	return rules, nil
}

// UpdateTaxRule changes a rule going forward. Invoice lines already snapshotted
// keep the tax they were issued with.
func (s *taxRuleService) UpdateTaxRule(ctx context.Context, taxRuleID string, req dto.UpdateTaxRuleRequest, actorID string) (*domain.TaxRule, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	rule, err := s.taxRuleRepo.FindTaxRuleByID(ctx, taxRuleID)
	if err != nil {
		return nil, fmt.Errorf("failed to find tax rule %s for update: %w", taxRuleID, err)
	}

	if req.Name != nil {
		rule.Name = *req.Name
	}
	if req.Rate != nil {
		if err := validateTaxRate(*req.Rate); err != nil {
			return nil, err
		}
		rule.Rate = *req.Rate
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}
	if req.Description != nil {
		rule.Description = *req.Description
	}
	rule.LastUpdatedAt = time.Now().UTC()
	rule.LastUpdatedBy = actorID

	if err := s.taxRuleRepo.UpdateTaxRule(ctx, *rule); err != nil {
		logger.Error("Failed to update tax rule", slog.String("error", err.Error()), slog.String("tax_rule_id", taxRuleID))
		return nil, fmt.Errorf("failed to update tax rule %s: %w", taxRuleID, err)
	}

	logger.Info("Tax rule updated", slog.String("tax_rule_id", taxRuleID))
	return rule, nil
}
