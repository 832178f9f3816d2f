package services

import (
	"context"

	"github.com/hoteliq/billing_backend/internal/core/domain"
	"github.com/hoteliq/billing_backend/internal/dto"
)

// DiscountSvcFacade exposes discount reference-data operations.
type DiscountSvcFacade interface {
	CreateDiscount(ctx context.Context, req dto.CreateDiscountRequest, actorID string) (*domain.Discount, error)
	ListDiscounts(ctx context.Context, params dto.ListDiscountsParams) (*dto.ListDiscountsResponse, error)
}

// TaxRuleSvcFacade exposes tax rule reference-data operations.
type TaxRuleSvcFacade interface {
	CreateTaxRule(ctx context.Context, req dto.CreateTaxRuleRequest, actorID string) (*domain.TaxRule, error)
	GetTaxRuleByID(ctx context.Context, taxRuleID string) (*domain.TaxRule, error)
	ListTaxRules(ctx context.Context, activeOnly bool) ([]domain.TaxRule, error)
	UpdateTaxRule(ctx context.Context, taxRuleID string, req dto.UpdateTaxRuleRequest, actorID string) (*domain.TaxRule, error)
}

// PaymentMethodSvcFacade exposes payment method reference-data operations.
type PaymentMethodSvcFacade interface {
	CreatePaymentMethod(ctx context.Context, req dto.CreatePaymentMethodRequest, actorID string) (*domain.PaymentMethod, error)
	GetPaymentMethodByID(ctx context.Context, paymentMethodID string) (*domain.PaymentMethod, error)
	ListPaymentMethods(ctx context.Context, activeOnly bool) ([]domain.PaymentMethod, error)
	UpdatePaymentMethod(ctx context.Context, paymentMethodID string, req dto.UpdatePaymentMethodRequest, actorID string) (*domain.PaymentMethod, error)
}

// CorporateAccountSvcFacade exposes corporate account operations.
type CorporateAccountSvcFacade interface {
	CreateCorporateAccount(ctx context.Context, req dto.CreateCorporateAccountRequest, actorID string) (*domain.CorporateAccount, error)
	GetCorporateAccountByID(ctx context.Context, accountID string) (*domain.CorporateAccount, error)
	ListCorporateAccounts(ctx context.Context, params dto.ListCorporateAccountsParams) (*dto.ListCorporateAccountsResponse, error)
	UpdateCorporateAccount(ctx context.Context, accountID string, req dto.UpdateCorporateAccountRequest, actorID string) (*domain.CorporateAccount, error)
}
