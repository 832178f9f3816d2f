package dto

import "github.com/hoteliq/billing_backend/internal/core/domain"

// CreateGuestRequest is the payload for registering a guest.
type CreateGuestRequest struct {
	FirstName   string `json:"firstName" binding:"required,max=120"`
	LastName    string `json:"lastName" binding:"required,max=120"`
	Email       string `json:"email" binding:"omitempty,email"`
	PhoneNumber string `json:"phoneNumber" binding:"max=50"`
	CompanyName string `json:"companyName" binding:"max=120"`
}

// UpdateGuestRequest is the payload for updating a guest. Nil fields are left unchanged.
type UpdateGuestRequest struct {
	FirstName   *string `json:"firstName" binding:"omitempty,max=120"`
	LastName    *string `json:"lastName" binding:"omitempty,max=120"`
	Email       *string `json:"email" binding:"omitempty,email"`
	PhoneNumber *string `json:"phoneNumber" binding:"omitempty,max=50"`
	CompanyName *string `json:"companyName" binding:"omitempty,max=120"`
}

// ListGuestsParams holds pagination parameters for listing guests.
type ListGuestsParams struct {
	Limit     int
	NextToken *string
}

// ListGuestsResponse is a page of guests plus the cursor for the next page.
type ListGuestsResponse struct {
	Guests    []domain.Guest `json:"guests"`
	NextToken *string        `json:"nextToken,omitempty"`
}
