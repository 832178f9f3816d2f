package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hoteliq/billing_backend/internal/core/domain"
)

// CreateFolioRequest opens a running bill, either for a reservation or a walk-in.
type CreateFolioRequest struct {
	ReservationID      *string `json:"reservationID"`
	GuestName          string  `json:"guestName" binding:"max=240"`
	CorporateAccountID *string `json:"corporateAccountID"`
	Currency           string  `json:"currency" binding:"omitempty,len=3,uppercase"`
	Notes              string  `json:"notes"`
}

// AddFolioItemRequest posts a charge to an open folio.
type AddFolioItemRequest struct {
	Description string                `json:"description" binding:"required,max=240"`
	ItemType    domain.FolioItemType  `json:"itemType" binding:"required,oneof=room service adjustment"`
	Quantity    decimal.Decimal       `json:"quantity"`
	UnitPrice   decimal.Decimal       `json:"unitPrice" binding:"required"`
	TaxRuleID   *string               `json:"taxRuleID"`
	PostedAt    *time.Time            `json:"postedAt"`
}

// UpdateFolioItemRequest rewrites an existing charge. Nil fields are left unchanged.
type UpdateFolioItemRequest struct {
	Description *string               `json:"description" binding:"omitempty,max=240"`
	ItemType    *domain.FolioItemType `json:"itemType" binding:"omitempty,oneof=room service adjustment"`
	Quantity    *decimal.Decimal      `json:"quantity"`
	UnitPrice   *decimal.Decimal      `json:"unitPrice"`
	TaxRuleID   *string               `json:"taxRuleID"`
}

// UpdateFolioStatusRequest moves a folio between open/closed/settled.
type UpdateFolioStatusRequest struct {
	Status domain.FolioStatus `json:"status" binding:"required,oneof=open closed settled"`
}

// AttachFolioDiscountRequest links a discount to a folio.
type AttachFolioDiscountRequest struct {
	DiscountID string `json:"discountID" binding:"required"`
}

// ListFoliosParams holds filter and pagination parameters.
type ListFoliosParams struct {
	Status    *domain.FolioStatus
	Limit     int
	NextToken *string
}

// FolioResponse is a folio with its derived totals materialized for transport.
type FolioResponse struct {
	domain.Folio
	Subtotal decimal.Decimal `json:"subtotal"`
	TaxTotal decimal.Decimal `json:"taxTotal"`
	Total    decimal.Decimal `json:"total"`
}

// ToFolioResponse computes the live totals for serialization.
func ToFolioResponse(folio domain.Folio) FolioResponse {
	return FolioResponse{
		Folio:    folio,
		Subtotal: folio.Subtotal(),
		TaxTotal: folio.TaxTotal(),
		Total:    folio.Total(),
	}
}

// FolioItemResponse is a posted charge with its computed amounts.
type FolioItemResponse struct {
	domain.FolioItem
	LineTotal decimal.Decimal `json:"lineTotal"`
	TaxAmount decimal.Decimal `json:"taxAmount"`
}

// ToFolioItemResponse computes the line amounts for serialization.
func ToFolioItemResponse(item domain.FolioItem) FolioItemResponse {
	return FolioItemResponse{
		FolioItem: item,
		LineTotal: item.LineTotal(),
		TaxAmount: item.TaxAmount(),
	}
}

// ListFoliosResponse is a page of folio headers.
type ListFoliosResponse struct {
	Folios    []domain.Folio `json:"folios"`
	NextToken *string        `json:"nextToken,omitempty"`
}
