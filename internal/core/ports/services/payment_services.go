package services

import (
	"context"

	"github.com/hoteliq/billing_backend/internal/core/domain"
	"github.com/hoteliq/billing_backend/internal/dto"
)

// PaymentSvcFacade exposes the payment/refund ledger.
type PaymentSvcFacade interface {
	// CreatePayment posts money against an invoice and recalculates its
	// balance; a payment clearing the balance marks the invoice paid.
	CreatePayment(ctx context.Context, req dto.CreatePaymentRequest, actorID string) (*domain.Payment, error)

	GetPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)

	// RefundPayment records a refund for a posted payment and moves the
	// payment to its terminal refunded state.
	RefundPayment(ctx context.Context, paymentID string, req dto.RefundPaymentRequest, actorID string) (*domain.PaymentRefund, error)

	// VoidPayment moves a posted payment to its terminal void state.
	VoidPayment(ctx context.Context, paymentID string, actorID string) (*domain.Payment, error)
}
