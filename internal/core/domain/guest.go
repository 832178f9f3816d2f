package domain

// Guest is a hotel guest that reservations and folios bill against.
// Guests referenced by issued invoices are treated as immutable in practice,
// though nothing in the store enforces it.
type Guest struct {
	GuestID     string `json:"guestID"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	CompanyName string `json:"companyName"`
	AuditFields
}

// DisplayName renders the guest name the way folios label their bills.
func (g Guest) DisplayName() string {
	if g.FirstName == "" {
		return g.LastName
	}
	if g.LastName == "" {
		return g.FirstName
	}
	return g.FirstName + " " + g.LastName
}
