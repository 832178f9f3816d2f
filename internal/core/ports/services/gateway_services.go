package services

import (
	"context"

	"github.com/shopspring/decimal"
)

// GatewayOrder is a payment order created at the gateway, pending approval.
type GatewayOrder struct {
	OrderID     string
	Status      string
	ApprovalURL string
}

// GatewayCapture is the outcome of capturing an approved gateway order.
// InvoiceRef echoes the reference the order was created with so the redirect
// flow can find its way back to the invoice.
type GatewayCapture struct {
	CaptureID  string
	Status     string
	Amount     decimal.Decimal
	Currency   string
	InvoiceRef string
	PayerEmail string
}

// GatewayRefund is the outcome of refunding a captured gateway payment.
type GatewayRefund struct {
	RefundID string
	Status   string
	Amount   decimal.Decimal
}

// PaymentGatewaySvc abstracts the external payment gateway. Implementations
// must be safe for concurrent use and must not hold ledger transactions open
// across gateway calls.
type PaymentGatewaySvc interface {
	CreateOrder(ctx context.Context, amount decimal.Decimal, currency, invoiceRef string) (*GatewayOrder, error)
	CaptureOrder(ctx context.Context, orderID string) (*GatewayCapture, error)
	RefundCapture(ctx context.Context, captureID string, amount decimal.Decimal, currency string) (*GatewayRefund, error)
	GetOrderStatus(ctx context.Context, orderID string) (string, error)
}
