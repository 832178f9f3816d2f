package dto

import (
	"time"

	"github.com/hoteliq/billing_backend/internal/core/domain"
)

// CreateReservationRequest is the payload for booking a stay.
type CreateReservationRequest struct {
	GuestID            string     `json:"guestID" binding:"required"`
	CorporateAccountID *string    `json:"corporateAccountID"`
	ReservationNumber  string     `json:"reservationNumber" binding:"required,max=40"`
	CheckIn            time.Time  `json:"checkIn" binding:"required"`
	CheckOut           time.Time  `json:"checkOut" binding:"required"`
	RoomNumber         string     `json:"roomNumber" binding:"required,max=20"`
	RatePlan           string     `json:"ratePlan" binding:"max=120"`
	NumberOfGuests     int        `json:"numberOfGuests" binding:"omitempty,gte=1"`
	Notes              string     `json:"notes"`
}

// UpdateReservationRequest is the payload for updating a reservation.
type UpdateReservationRequest struct {
	CheckIn        *time.Time `json:"checkIn"`
	CheckOut       *time.Time `json:"checkOut"`
	RoomNumber     *string    `json:"roomNumber" binding:"omitempty,max=20"`
	RatePlan       *string    `json:"ratePlan" binding:"omitempty,max=120"`
	NumberOfGuests *int       `json:"numberOfGuests" binding:"omitempty,gte=1"`
	Notes          *string    `json:"notes"`
}

// UpdateReservationStatusRequest moves a reservation through its lifecycle.
type UpdateReservationStatusRequest struct {
	Status domain.ReservationStatus `json:"status" binding:"required,oneof=booked checked_in checked_out cancelled"`
}

// ListReservationsParams holds filter and pagination parameters.
type ListReservationsParams struct {
	Status    *domain.ReservationStatus
	Limit     int
	NextToken *string
}

// ListReservationsResponse is a page of reservations.
type ListReservationsResponse struct {
	Reservations []domain.Reservation `json:"reservations"`
	NextToken    *string              `json:"nextToken,omitempty"`
}
