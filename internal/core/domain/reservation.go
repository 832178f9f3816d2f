package domain

import "time"

// ReservationStatus indicates where a stay is in its lifecycle.
type ReservationStatus string

const (
	ReservationBooked     ReservationStatus = "booked"
	ReservationCheckedIn  ReservationStatus = "checked_in"
	ReservationCheckedOut ReservationStatus = "checked_out"
	ReservationCancelled  ReservationStatus = "cancelled"
)

// Reservation is a booked stay for a guest, optionally under a corporate account.
type Reservation struct {
	ReservationID      string            `json:"reservationID"`
	GuestID            string            `json:"guestID"`
	CorporateAccountID *string           `json:"corporateAccountID,omitempty"`
	ReservationNumber  string            `json:"reservationNumber"` // unique
	Status             ReservationStatus `json:"status"`
	CheckIn            time.Time         `json:"checkIn"`
	CheckOut           time.Time         `json:"checkOut"`
	RoomNumber         string            `json:"roomNumber"`
	RatePlan           string            `json:"ratePlan"`
	NumberOfGuests     int               `json:"numberOfGuests"`
	Notes              string            `json:"notes"`
	AuditFields
}
