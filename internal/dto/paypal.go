package dto

import "github.com/shopspring/decimal"

// PayPalCreatePaymentRequest starts a gateway payment for an invoice.
type PayPalCreatePaymentRequest struct {
	InvoiceID string `json:"invoiceID" binding:"required"`
}

// PayPalCreatePaymentResponse carries the approval redirect back to the caller.
type PayPalCreatePaymentResponse struct {
	PaymentID   string `json:"paymentID"`
	ApprovalURL string `json:"approvalURL"`
	Status      string `json:"status"`
}

// PayPalOrderStatusResponse reports where a gateway order currently stands.
type PayPalOrderStatusResponse struct {
	OrderID string `json:"orderID"`
	Status  string `json:"status"`
}

// PayPalRefundRequest refunds a gateway payment, fully when Amount is nil.
type PayPalRefundRequest struct {
	PaymentID string           `json:"paymentID" binding:"required"`
	Amount    *decimal.Decimal `json:"amount"`
	Reason    string           `json:"reason" binding:"max=255"`
}
