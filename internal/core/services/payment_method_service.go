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

// paymentMethodService manages settlement method reference data.
type paymentMethodService struct {
	paymentMethodRepo portsrepo.PaymentMethodRepositoryFacade
}

// NewPaymentMethodService creates a new PaymentMethodService.
func NewPaymentMethodService(paymentMethodRepo portsrepo.PaymentMethodRepositoryFacade) portssvc.PaymentMethodSvcFacade {
	return &paymentMethodService{paymentMethodRepo: paymentMethodRepo}
}

var _ portssvc.PaymentMethodSvcFacade = (*paymentMethodService)(nil)

func (s *paymentMethodService) CreatePaymentMethod(ctx context.Context, req dto.CreatePaymentMethodRequest, actorID string) (*domain.PaymentMethod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	// Names are unique; surface a duplicate before hitting the constraint.
	existing, err := s.paymentMethodRepo.FindPaymentMethodByName(ctx, req.Name)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check payment method name: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: payment method %q", apperrors.ErrDuplicate, req.Name)
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	now := time.Now().UTC()
	method := domain.PaymentMethod{
		PaymentMethodID:   uuid.NewString(),
		Name:              req.Name,
		IsActive:          isActive,
		RequiresReference: req.RequiresReference,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.paymentMethodRepo.SavePaymentMethod(ctx, method); err != nil {
		logger.Error("Failed to save payment method", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save payment method: %w", err)
	}

	logger.Info("Payment method created", slog.String("payment_method_id", method.PaymentMethodID), slog.String("name", method.Name))
	return &method, nil
}

func (s *paymentMethodService) GetPaymentMethodByID(ctx context.Context, paymentMethodID string) (*domain.PaymentMethod, error) {
	method, err := s.paymentMethodRepo.FindPaymentMethodByID(ctx, paymentMethodID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find payment method", slog.String("error", err.Error()), slog.String("payment_method_id", paymentMethodID))
		}
		return nil, fmt.Errorf("failed to find payment method %s: %w", paymentMethodID, err)
	}
	return method, nil
}

func (s *paymentMethodService) ListPaymentMethods(ctx context.Context, activeOnly bool) ([]domain.PaymentMethod, error) {
	methods, err := s.paymentMethodRepo.ListPaymentMethods(ctx, activeOnly)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list payment methods", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list payment methods: %w", err)
	}
	return methods, nil
}

func (s *paymentMethodService) UpdatePaymentMethod(ctx context.Context, paymentMethodID string, req dto.UpdatePaymentMethodRequest, actorID string) (*domain.PaymentMethod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	method, err := s.paymentMethodRepo.FindPaymentMethodByID(ctx, paymentMethodID)
	if err != nil {
		return nil, fmt.Errorf("failed to find payment method %s for update: %w", paymentMethodID, err)
	}

	if req.Name != nil && *req.Name != method.Name {
		existing, err := s.paymentMethodRepo.FindPaymentMethodByName(ctx, *req.Name)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to check payment method name: %w", err)
		}
		if existing != nil {
			return nil, fmt.Errorf("%w: payment method %q", apperrors.ErrDuplicate, *req.Name)
		}
		method.Name = *req.Name
	}
	if req.IsActive != nil {
		method.IsActive = *req.IsActive
	}
	if req.RequiresReference != nil {
		method.RequiresReference = *req.RequiresReference
	}
	method.LastUpdatedAt = time.Now().UTC()
	method.LastUpdatedBy = actorID

	if err := s.paymentMethodRepo.UpdatePaymentMethod(ctx, *method); err != nil {
		logger.Error("Failed to update payment method", slog.String("error", err.Error()), slog.String("payment_method_id", paymentMethodID))
		return nil, fmt.Errorf("failed to update payment method %s: %w", paymentMethodID, err)
	}

	logger.Info("Payment method updated", slog.String("payment_method_id", paymentMethodID))
	return method, nil
}
