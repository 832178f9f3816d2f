package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FolioStatus indicates whether a folio still accumulates charges.
type FolioStatus string

const (
	FolioOpen    FolioStatus = "open"
	FolioClosed  FolioStatus = "closed"
	FolioSettled FolioStatus = "settled"
)

// FolioItemType classifies a posted charge.
type FolioItemType string

const (
	ItemRoom       FolioItemType = "room"
	ItemService    FolioItemType = "service"
	ItemAdjustment FolioItemType = "adjustment"
)

// Folio is the running bill accumulating charges during a stay. Its totals are
// never stored; they are always derived from the current item set so a caller
// can never observe stale numbers.
type Folio struct {
	FolioID            string      `json:"folioID"`
	ReservationID      *string     `json:"reservationID,omitempty"` // weak: survives reservation deletion
	GuestName          string      `json:"guestName"`
	CorporateAccountID *string     `json:"corporateAccountID,omitempty"`
	FolioNumber        string      `json:"folioNumber"` // system generated, unique
	Currency           string      `json:"currency"`
	Status             FolioStatus `json:"status"`
	Notes              string      `json:"notes"`
	AuditFields

	Items     []FolioItem     `json:"items,omitempty"`
	Discounts []FolioDiscount `json:"discounts,omitempty"`
}

// Subtotal is the live sum of item line totals.
func (f Folio) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range f.Items {
		sum = sum.Add(item.LineTotal())
	}
	return sum
}

// TaxTotal is the live sum of item tax amounts.
func (f Folio) TaxTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range f.Items {
		sum = sum.Add(item.TaxAmount())
	}
	return sum
}

// Total is subtotal plus tax, derived from the current items.
func (f Folio) Total() decimal.Decimal {
	return f.Subtotal().Add(f.TaxTotal())
}

// FolioDiscount links a discount to a folio, freezing the value in effect when
// it was attached.
type FolioDiscount struct {
	FolioDiscountID string          `json:"folioDiscountID"`
	FolioID         string          `json:"folioID"`
	DiscountID      string          `json:"discountID"`
	AppliedValue    decimal.Decimal `json:"appliedValue"`
	AuditFields
}

// FolioItem is a single charge posted to a folio.
type FolioItem struct {
	FolioItemID string          `json:"folioItemID"`
	FolioID     string          `json:"folioID"`
	Description string          `json:"description"`
	ItemType    FolioItemType   `json:"itemType"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TaxRuleID   *string         `json:"taxRuleID,omitempty"`
	TaxRule     *TaxRule        `json:"taxRule,omitempty"` // loaded alongside the item
	PostedAt    time.Time       `json:"postedAt"`
	PostedBy    *string         `json:"postedBy,omitempty"`
	AuditFields
}

// LineTotal is quantity times unit price.
func (i FolioItem) LineTotal() decimal.Decimal {
	return i.Quantity.Mul(i.UnitPrice)
}

// TaxAmount is the tax owed on this line. Items without an active tax rule are untaxed.
func (i FolioItem) TaxAmount() decimal.Decimal {
	if i.TaxRule == nil || !i.TaxRule.IsActive {
		return decimal.Zero
	}
	return i.LineTotal().Mul(i.TaxRule.Rate).Div(oneHundred)
}
