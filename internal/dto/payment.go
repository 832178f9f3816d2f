package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePaymentRequest records money received against an invoice. InvoiceID is
// taken from the URL on the nested route and from the body on POST /payments.
type CreatePaymentRequest struct {
	InvoiceID       string           `json:"invoiceID"`
	PaymentMethodID *string          `json:"paymentMethodID"`
	Amount          decimal.Decimal  `json:"amount" binding:"required"`
	PaidAt          *time.Time       `json:"paidAt"`
	Reference       string           `json:"reference" binding:"max=120"`
	Notes           string           `json:"notes"`
}

// RefundPaymentRequest returns money for a posted payment.
type RefundPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Reason string          `json:"reason" binding:"max=255"`
}
