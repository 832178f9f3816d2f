package domain

import "github.com/shopspring/decimal"

// TaxRule is a percentage tax applied to folio items that reference it.
// Inactive rules contribute zero tax even when still referenced.
type TaxRule struct {
	TaxRuleID   string          `json:"taxRuleID"`
	Name        string          `json:"name"`
	Rate        decimal.Decimal `json:"rate"` // percent
	IsActive    bool            `json:"isActive"`
	Description string          `json:"description"`
	AuditFields
}
