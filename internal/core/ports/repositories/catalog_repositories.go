package repositories

import (
	"context"

	"github.com/hoteliq/billing_backend/internal/core/domain"
)

// DiscountRepositoryFacade provides access to discount reference data.
type DiscountRepositoryFacade interface {
	SaveDiscount(ctx context.Context, discount domain.Discount) error
	FindDiscountByID(ctx context.Context, discountID string) (*domain.Discount, error)

	// FindDiscountsByIDs retrieves the discounts for the given ids, keyed by id.
	// Missing ids are simply absent from the map.
	FindDiscountsByIDs(ctx context.Context, discountIDs []string) (map[string]domain.Discount, error)

	// ListDiscounts retrieves discounts, optionally only active ones.
	ListDiscounts(ctx context.Context, activeOnly bool, limit int, nextToken *string) ([]domain.Discount, *string, error)
}

// TaxRuleRepositoryFacade provides access to tax rule reference data.
type TaxRuleRepositoryFacade interface {
	SaveTaxRule(ctx context.Context, rule domain.TaxRule) error
	UpdateTaxRule(ctx context.Context, rule domain.TaxRule) error
	FindTaxRuleByID(ctx context.Context, taxRuleID string) (*domain.TaxRule, error)
	ListTaxRules(ctx context.Context, activeOnly bool) ([]domain.TaxRule, error)
}

// PaymentMethodRepositoryFacade provides access to payment method reference data.
type PaymentMethodRepositoryFacade interface {
	SavePaymentMethod(ctx context.Context, method domain.PaymentMethod) error
	UpdatePaymentMethod(ctx context.Context, method domain.PaymentMethod) error
	FindPaymentMethodByID(ctx context.Context, paymentMethodID string) (*domain.PaymentMethod, error)

	// FindPaymentMethodByName looks a method up by its unique name.
	FindPaymentMethodByName(ctx context.Context, name string) (*domain.PaymentMethod, error)
	ListPaymentMethods(ctx context.Context, activeOnly bool) ([]domain.PaymentMethod, error)
}

// CorporateAccountRepositoryFacade provides access to corporate account data.
type CorporateAccountRepositoryFacade interface {
	SaveCorporateAccount(ctx context.Context, account domain.CorporateAccount) error
	UpdateCorporateAccount(ctx context.Context, account domain.CorporateAccount) error
	FindCorporateAccountByID(ctx context.Context, accountID string) (*domain.CorporateAccount, error)
	ListCorporateAccounts(ctx context.Context, limit int, nextToken *string) ([]domain.CorporateAccount, *string, error)
}
