package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hoteliq/billing_backend/internal/apperrors"
	"github.com/hoteliq/billing_backend/internal/core/domain"
	portsrepo "github.com/hoteliq/billing_backend/internal/core/ports/repositories"
	portssvc "github.com/hoteliq/billing_backend/internal/core/ports/services"
	"github.com/hoteliq/billing_backend/internal/dto"
	"github.com/hoteliq/billing_backend/internal/middleware"
)

var (
	ErrPaymentNotPositive   = errors.New("payment amount must be greater than zero")
	ErrPaymentNotPosted     = errors.New("only posted payments can be refunded or voided")
	ErrRefundExceedsPayment = errors.New("refund amount exceeds the original payment")
	ErrReferenceRequired    = errors.New("payment method requires a reference")
)

// paymentService provides the payment and refund ledger.
type paymentService struct {
	paymentRepo       portsrepo.PaymentRepositoryFacade
	invoiceRepo       portsrepo.InvoiceRepositoryFacade
	paymentMethodRepo portsrepo.PaymentMethodRepositoryFacade
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	paymentRepo portsrepo.PaymentRepositoryFacade,
	invoiceRepo portsrepo.InvoiceRepositoryFacade,
	paymentMethodRepo portsrepo.PaymentMethodRepositoryFacade,
) portssvc.PaymentSvcFacade {
	return &paymentService{
		paymentRepo:       paymentRepo,
		invoiceRepo:       invoiceRepo,
		paymentMethodRepo: paymentMethodRepo,
	}
}

var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

// CreatePayment posts money against an invoice. When the posted payment clears
// the remaining balance the invoice flips to paid.
func (s *paymentService) CreatePayment(ctx context.Context, req dto.CreatePaymentRequest, actorID string) (*domain.Payment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrPaymentNotPositive)
	}

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, req.InvoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoice %s: %w", req.InvoiceID, err)
	}
	if invoice.Status == domain.InvoiceVoid {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrConflict, ErrInvoiceVoid)
	}

	if req.PaymentMethodID != nil {
		method, err := s.paymentMethodRepo.FindPaymentMethodByID(ctx, *req.PaymentMethodID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: payment method %s", apperrors.ErrValidation, *req.PaymentMethodID)
			}
			return nil, fmt.Errorf("failed to load payment method %s: %w", *req.PaymentMethodID, err)
		}
		if !method.IsActive {
			return nil, fmt.Errorf("%w: payment method %s is inactive", apperrors.ErrValidation, method.Name)
		}
		if method.RequiresReference && req.Reference == "" {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrReferenceRequired)
		}
	}

	now := time.Now().UTC()
	paidAt := now
	if req.PaidAt != nil {
		paidAt = req.PaidAt.UTC()
	}

	payment := domain.Payment{
		PaymentID:       uuid.NewString(),
		InvoiceID:       invoice.InvoiceID,
		PaymentMethodID: req.PaymentMethodID,
		Amount:          req.Amount,
		PaidAt:          paidAt,
		Reference:       req.Reference,
		Status:          domain.PaymentPosted,
		ProcessedBy:     &actorID,
		Notes:           req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.paymentRepo.SavePayment(ctx, payment); err != nil {
		logger.Error("Failed to save payment", slog.String("error", err.Error()), slog.String("invoice_id", invoice.InvoiceID))
		return nil, fmt.Errorf("failed to save payment: %w", err)
	}

	logger.Info("Payment posted",
		slog.String("payment_id", payment.PaymentID),
		slog.String("invoice_id", invoice.InvoiceID),
		slog.String("amount", payment.Amount.String()),
	)

	// Settle the invoice when the balance is cleared.
	updated, err := s.invoiceRepo.FindInvoiceByID(ctx, invoice.InvoiceID)
	if err != nil {
		logger.Warn("Payment saved but invoice reload failed", slog.String("error", err.Error()), slog.String("invoice_id", invoice.InvoiceID))
		return &payment, nil
	}
	if updated.Status == domain.InvoiceIssued && !updated.BalanceDue().GreaterThan(decimal.Zero) {
		if err := s.invoiceRepo.UpdateInvoiceStatus(ctx, updated.InvoiceID, domain.InvoicePaid, actorID, now); err != nil {
			logger.Warn("Failed to mark invoice paid after settling payment", slog.String("error", err.Error()), slog.String("invoice_id", updated.InvoiceID))
		} else {
			logger.Info("Invoice settled by payment", slog.String("invoice_id", updated.InvoiceID), slog.String("payment_id", payment.PaymentID))
		}
	}

	return &payment, nil
}

func (s *paymentService) GetPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find payment", slog.String("error", err.Error()), slog.String("payment_id", paymentID))
		}
		return nil, fmt.Errorf("failed to find payment %s: %w", paymentID, err)
	}
	return payment, nil
}

// RefundPayment records a refund for a posted payment. The payment moves to
// its terminal refunded state whether the refund was full or partial, and the
// refunded payment stops counting toward the invoice balance.
func (s *paymentService) RefundPayment(ctx context.Context, paymentID string, req dto.RefundPaymentRequest, actorID string) (*domain.PaymentRefund, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find payment %s: %w", paymentID, err)
	}
	if payment.Status != domain.PaymentPosted {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrConflict, ErrPaymentNotPosted)
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: refund amount must be greater than zero", apperrors.ErrValidation)
	}
	if req.Amount.GreaterThan(payment.Amount) {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrRefundExceedsPayment)
	}

	now := time.Now().UTC()
	refund := domain.PaymentRefund{
		PaymentRefundID: uuid.NewString(),
		PaymentID:       paymentID,
		Amount:          req.Amount,
		Reason:          req.Reason,
		ProcessedBy:     &actorID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	// The repository records the refund, flips the payment and recalculates
	// the invoice in one transaction.
	if err := s.paymentRepo.SaveRefund(ctx, refund); err != nil {
		logger.Error("Failed to save refund", slog.String("error", err.Error()), slog.String("payment_id", paymentID))
		return nil, fmt.Errorf("failed to save refund: %w", err)
	}

	logger.Info("Payment refunded",
		slog.String("payment_id", paymentID),
		slog.String("refund_id", refund.PaymentRefundID),
		slog.String("amount", refund.Amount.String()),
	)
	return &refund, nil
}

// VoidPayment moves a posted payment to its terminal void state, removing it
// from the invoice balance.
func (s *paymentService) VoidPayment(ctx context.Context, paymentID string, actorID string) (*domain.Payment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find payment %s: %w", paymentID, err)
	}
	if payment.Status != domain.PaymentPosted {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrConflict, ErrPaymentNotPosted)
	}

	now := time.Now().UTC()
	if err := s.paymentRepo.UpdatePaymentStatus(ctx, paymentID, domain.PaymentVoid, actorID, now); err != nil {
		logger.Error("Failed to void payment", slog.String("error", err.Error()), slog.String("payment_id", paymentID))
		return nil, fmt.Errorf("failed to void payment %s: %w", paymentID, err)
	}

	payment.Status = domain.PaymentVoid
	payment.LastUpdatedAt = now
	payment.LastUpdatedBy = actorID

	logger.Info("Payment voided", slog.String("payment_id", paymentID))
	return payment, nil
}
