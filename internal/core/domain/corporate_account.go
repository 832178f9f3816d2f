package domain

import "github.com/shopspring/decimal"

// CorporateAccount is a company billed for its employees' stays. Reservations,
// folios and discounts may optionally belong to one.
type CorporateAccount struct {
	CorporateAccountID string          `json:"corporateAccountID"`
	Name               string          `json:"name"`
	Code               string          `json:"code"` // unique short code
	ContactEmail       string          `json:"contactEmail"`
	ContactPhone       string          `json:"contactPhone"`
	DiscountRate       decimal.Decimal `json:"discountRate"` // default negotiated rate, percent
	Notes              string          `json:"notes"`
	AuditFields
}
