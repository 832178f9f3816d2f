package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscountType distinguishes percentage discounts from fixed-amount ones.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

var oneHundred = decimal.NewFromInt(100)

// Discount is a reference-data rule applied to invoices at creation time.
type Discount struct {
	DiscountID         string          `json:"discountID"`
	Name               string          `json:"name"`
	DiscountType       DiscountType    `json:"discountType"`
	Value              decimal.Decimal `json:"value"` // percent or fixed amount, per DiscountType
	IsActive           bool            `json:"isActive"`
	StartDate          *time.Time      `json:"startDate,omitempty"`
	EndDate            *time.Time      `json:"endDate,omitempty"`
	CorporateAccountID *string         `json:"corporateAccountID,omitempty"`
	AuditFields
}

// IsApplicable reports whether the discount may be selected on target date.
// Callers filter with this before invoice creation; AppliedAmount does not re-check.
func (d Discount) IsApplicable(target time.Time) bool {
	if !d.IsActive {
		return false
	}
	day := target.Truncate(24 * time.Hour)
	if d.StartDate != nil && day.Before(d.StartDate.Truncate(24*time.Hour)) {
		return false
	}
	if d.EndDate != nil && day.After(d.EndDate.Truncate(24*time.Hour)) {
		return false
	}
	return true
}

// AppliedAmount computes the monetary value of the discount against base.
// Percentage results are rounded to the currency's 2-decimal minor unit.
// Fixed amounts are not capped at base; over-discounting is permitted.
func (d Discount) AppliedAmount(base decimal.Decimal) decimal.Decimal {
	if d.DiscountType == DiscountPercentage {
		return base.Mul(d.Value).Div(oneHundred).Round(2)
	}
	return d.Value
}
