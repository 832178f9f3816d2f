package repositories

import (
	"context"
	"time"

	"github.com/hoteliq/billing_backend/internal/core/domain"
)

// PaymentReader defines read operations for payment data.
type PaymentReader interface {
	FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)

	// FindRefundsByPaymentID lists the refunds recorded against a payment.
	FindRefundsByPaymentID(ctx context.Context, paymentID string) ([]domain.PaymentRefund, error)
}

// PaymentWriter defines write operations for the payment/refund ledger. Each
// write recalculates the owning invoice's totals in the same transaction so
// persisted totals never disagree with child rows.
type PaymentWriter interface {
	// SavePayment records a payment and recalculates the invoice.
	SavePayment(ctx context.Context, payment domain.Payment) error

	// SaveRefund records a refund, flips its payment to refunded and
	// recalculates the invoice, atomically.
	SaveRefund(ctx context.Context, refund domain.PaymentRefund) error

	// UpdatePaymentStatus sets a payment's status (used for posted -> void).
	UpdatePaymentStatus(ctx context.Context, paymentID string, status domain.PaymentStatus, updatedBy string, updatedAt time.Time) error
}

// PaymentRepositoryFacade combines payment repository interfaces.
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentWriter
}
