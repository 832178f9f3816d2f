package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hoteliq/billing_backend/internal/core/domain"
)

// CreateDiscountRequest registers a discount rule.
type CreateDiscountRequest struct {
	Name               string              `json:"name" binding:"required,max=160"`
	DiscountType       domain.DiscountType `json:"discountType" binding:"required,oneof=percentage fixed"`
	Value              decimal.Decimal     `json:"value" binding:"required"`
	IsActive           *bool               `json:"isActive"`
	StartDate          *time.Time          `json:"startDate"`
	EndDate            *time.Time          `json:"endDate"`
	CorporateAccountID *string             `json:"corporateAccountID"`
}

// ListDiscountsParams holds filter and pagination parameters.
type ListDiscountsParams struct {
	ActiveOnly bool
	Limit      int
	NextToken  *string
}

// ListDiscountsResponse is a page of discounts.
type ListDiscountsResponse struct {
	Discounts []domain.Discount `json:"discounts"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// CreateTaxRuleRequest registers a tax rule.
type CreateTaxRuleRequest struct {
	Name        string          `json:"name" binding:"required,max=120"`
	Rate        decimal.Decimal `json:"rate" binding:"required"`
	IsActive    *bool           `json:"isActive"`
	Description string          `json:"description"`
}

// UpdateTaxRuleRequest updates a tax rule. Nil fields are left unchanged.
type UpdateTaxRuleRequest struct {
	Name        *string          `json:"name" binding:"omitempty,max=120"`
	Rate        *decimal.Decimal `json:"rate"`
	IsActive    *bool            `json:"isActive"`
	Description *string          `json:"description"`
}

// CreatePaymentMethodRequest registers a settlement method.
type CreatePaymentMethodRequest struct {
	Name              string `json:"name" binding:"required,max=120"`
	IsActive          *bool  `json:"isActive"`
	RequiresReference bool   `json:"requiresReference"`
}

// UpdatePaymentMethodRequest updates a settlement method.
type UpdatePaymentMethodRequest struct {
	Name              *string `json:"name" binding:"omitempty,max=120"`
	IsActive          *bool   `json:"isActive"`
	RequiresReference *bool   `json:"requiresReference"`
}

// CreateCorporateAccountRequest registers a corporate billing account.
type CreateCorporateAccountRequest struct {
	Name         string          `json:"name" binding:"required,max=200"`
	Code         string          `json:"code" binding:"required,max=40"`
	ContactEmail string          `json:"contactEmail" binding:"omitempty,email"`
	ContactPhone string          `json:"contactPhone" binding:"max=50"`
	DiscountRate decimal.Decimal `json:"discountRate"`
	Notes        string          `json:"notes"`
}

// UpdateCorporateAccountRequest updates a corporate account.
type UpdateCorporateAccountRequest struct {
	Name         *string          `json:"name" binding:"omitempty,max=200"`
	ContactEmail *string          `json:"contactEmail" binding:"omitempty,email"`
	ContactPhone *string          `json:"contactPhone" binding:"omitempty,max=50"`
	DiscountRate *decimal.Decimal `json:"discountRate"`
	Notes        *string          `json:"notes"`
}

// ListCorporateAccountsParams holds pagination parameters.
type ListCorporateAccountsParams struct {
	Limit     int
	NextToken *string
}

// ListCorporateAccountsResponse is a page of corporate accounts.
type ListCorporateAccountsResponse struct {
	Accounts  []domain.CorporateAccount `json:"accounts"`
	NextToken *string                   `json:"nextToken,omitempty"`
}
