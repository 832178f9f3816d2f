package domain

// PaymentMethod is a way of settling an invoice (cash, card, PayPal, city ledger).
type PaymentMethod struct {
	PaymentMethodID   string `json:"paymentMethodID"`
	Name              string `json:"name"` // unique
	IsActive          bool   `json:"isActive"`
	RequiresReference bool   `json:"requiresReference"` // e.g. card authorization code
	AuditFields
}
