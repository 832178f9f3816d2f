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

// corporateAccountService manages corporate billing accounts.
type corporateAccountService struct {
	corporateAccountRepo portsrepo.CorporateAccountRepositoryFacade
}

// NewCorporateAccountService creates a new CorporateAccountService.
func NewCorporateAccountService(corporateAccountRepo portsrepo.CorporateAccountRepositoryFacade) portssvc.CorporateAccountSvcFacade {
	return &corporateAccountService{corporateAccountRepo: corporateAccountRepo}
}

var _ portssvc.CorporateAccountSvcFacade = (*corporateAccountService)(nil)

func validateDiscountRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("%w: discount rate must be between 0 and 100", apperrors.ErrValidation)
	}
	return nil
}

func (s *corporateAccountService) CreateCorporateAccount(ctx context.Context, req dto.CreateCorporateAccountRequest, actorID string) (*domain.CorporateAccount, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateDiscountRate(req.DiscountRate); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	account := domain.CorporateAccount{
		CorporateAccountID: uuid.NewString(),
		Name:               req.Name,
		Code:               req.Code,
		ContactEmail:       req.ContactEmail,
		ContactPhone:       req.ContactPhone,
		DiscountRate:       req.DiscountRate,
		Notes:              req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.corporateAccountRepo.SaveCorporateAccount(ctx, account); err != nil {
		logger.Error("Failed to save corporate account", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save corporate account: %w", err)
	}

	logger.Info("Corporate account created", slog.String("corporate_account_id", account.CorporateAccountID), slog.String("code", account.Code))
	return &account, nil
}

func (s *corporateAccountService) GetCorporateAccountByID(ctx context.Context, accountID string) (*domain.CorporateAccount, error) {
	account, err := s.corporateAccountRepo.FindCorporateAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find corporate account", slog.String("error", err.Error()), slog.String("corporate_account_id", accountID))
		}
		return nil, fmt.Errorf("failed to find corporate account %s: %w", accountID, err)
	}
	return account, nil
}

func (s *corporateAccountService) ListCorporateAccounts(ctx context.Context, params dto.ListCorporateAccountsParams) (*dto.ListCorporateAccountsResponse, error) {
	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	accounts, nextToken, err := s.corporateAccountRepo.ListCorporateAccounts(ctx, limit, params.NextToken)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list corporate accounts", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list corporate accounts: %w", err)
	}
	return &dto.ListCorporateAccountsResponse{Accounts: accounts, NextToken: nextToken}, nil
}

func (s *corporateAccountService) UpdateCorporateAccount(ctx context.Context, accountID string, req dto.UpdateCorporateAccountRequest, actorID string) (*domain.CorporateAccount, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.corporateAccountRepo.FindCorporateAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find corporate account %s for update: %w", accountID, err)
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.ContactEmail != nil {
		account.ContactEmail = *req.ContactEmail
	}
	if req.ContactPhone != nil {
		account.ContactPhone = *req.ContactPhone
	}
	if req.DiscountRate != nil {
		if err := validateDiscountRate(*req.DiscountRate); err != nil {
			return nil, err
		}
		account.DiscountRate = *req.DiscountRate
	}
	if req.Notes != nil {
		account.Notes = *req.Notes
	}
	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = actorID

	if err := s.corporateAccountRepo.UpdateCorporateAccount(ctx, *account); err != nil {
		logger.Error("Failed to update corporate account", slog.String("error", err.Error()), slog.String("corporate_account_id", accountID))
		return nil, fmt.Errorf("failed to update corporate account %s: %w", accountID, err)
	}

	logger.Info("Corporate account updated", slog.String("corporate_account_id", accountID))
	return account, nil
}
