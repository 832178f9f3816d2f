package services

import (
	"context"

	"github.com/hoteliq/billing_backend/internal/core/domain"
	"github.com/hoteliq/billing_backend/internal/dto"
)

// PayPalSvcFacade orchestrates gateway payments against invoices.
type PayPalSvcFacade interface {
	// CreatePayment opens a gateway order for the invoice balance due and
	// returns the approval redirect.
	CreatePayment(ctx context.Context, req dto.PayPalCreatePaymentRequest, actorID string) (*dto.PayPalCreatePaymentResponse, error)
	// ExecutePayment captures an approved order and posts the resulting
	// payment against the invoice.
	ExecutePayment(ctx context.Context, orderID string, actorID string) (*domain.Payment, error)
	// GetOrderStatus reports the gateway's current status for an order,
	// so back office can chase approvals that never came back.
	GetOrderStatus(ctx context.Context, orderID string) (*dto.PayPalOrderStatusResponse, error)
	// RefundPayment refunds a captured gateway payment and records the
	// refund on the ledger.
	RefundPayment(ctx context.Context, req dto.PayPalRefundRequest, actorID string) (*domain.Payment, error)
}
