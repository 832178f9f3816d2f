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

var ErrInvoiceAlreadyPaid = errors.New("invoice has no balance due")

// paypalPaymentMethodName is the reference-data row gateway payments settle under.
const paypalPaymentMethodName = "PayPal"

// paypalService orchestrates gateway payments against invoices. Gateway calls
// happen outside any ledger transaction; only their outcome is recorded.
type paypalService struct {
	gateway           portssvc.PaymentGatewaySvc
	invoiceRepo       portsrepo.InvoiceRepositoryFacade
	paymentSvc        portssvc.PaymentSvcFacade
	paymentRepo       portsrepo.PaymentReader
	paymentMethodRepo portsrepo.PaymentMethodRepositoryFacade
}

// NewPayPalService creates a new PayPalService.
func NewPayPalService(
	gateway portssvc.PaymentGatewaySvc,
	invoiceRepo portsrepo.InvoiceRepositoryFacade,
	paymentSvc portssvc.PaymentSvcFacade,
	paymentRepo portsrepo.PaymentReader,
	paymentMethodRepo portsrepo.PaymentMethodRepositoryFacade,
) portssvc.PayPalSvcFacade {
	return &paypalService{
		gateway:           gateway,
		invoiceRepo:       invoiceRepo,
		paymentSvc:        paymentSvc,
		paymentRepo:       paymentRepo,
		paymentMethodRepo: paymentMethodRepo,
	}
}

var _ portssvc.PayPalSvcFacade = (*paypalService)(nil)

// CreatePayment opens a gateway order for the invoice's current balance due.
func (s *paypalService) CreatePayment(ctx context.Context, req dto.PayPalCreatePaymentRequest, actorID string) (*dto.PayPalCreatePaymentResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, req.InvoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find invoice %s: %w", req.InvoiceID, err)
	}
	if invoice.Status == domain.InvoiceVoid {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrConflict, ErrInvoiceVoid)
	}

	balance := invoice.BalanceDue()
	if balance.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrConflict, ErrInvoiceAlreadyPaid)
	}

	order, err := s.gateway.CreateOrder(ctx, balance, invoice.Currency, invoice.InvoiceID)
	if err != nil {
		logger.Error("Failed to create gateway order", slog.String("error", err.Error()), slog.String("invoice_id", invoice.InvoiceID))
		return nil, fmt.Errorf("%w: create order: %w", apperrors.ErrExternalService, err)
	}

	logger.Info("Gateway order created",
		slog.String("invoice_id", invoice.InvoiceID),
		slog.String("order_id", order.OrderID),
		slog.String("amount", balance.String()),
	)
	return &dto.PayPalCreatePaymentResponse{
		PaymentID:   order.OrderID,
		ApprovalURL: order.ApprovalURL,
		Status:      order.Status,
	}, nil
}

// ExecutePayment captures an approved order and posts the captured amount as a
// payment under the PayPal settlement method.
func (s *paypalService) ExecutePayment(ctx context.Context, orderID string, actorID string) (*domain.Payment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	capture, err := s.gateway.CaptureOrder(ctx, orderID)
	if err != nil {
		logger.Error("Failed to capture gateway order", slog.String("error", err.Error()), slog.String("order_id", orderID))
		return nil, fmt.Errorf("%w: capture order %s: %w", apperrors.ErrExternalService, orderID, err)
	}

	methodID, err := s.findOrCreatePayPalMethod(ctx, actorID)
	if err != nil {
		return nil, err
	}

	notes := fmt.Sprintf("PayPal order %s", orderID)
	if capture.PayerEmail != "" {
		notes = fmt.Sprintf("PayPal order %s, payer %s", orderID, capture.PayerEmail)
	}

	payment, err := s.paymentSvc.CreatePayment(ctx, dto.CreatePaymentRequest{
		InvoiceID:       capture.InvoiceRef,
		PaymentMethodID: &methodID,
		Amount:          capture.Amount,
		Reference:       capture.CaptureID,
		Notes:           notes,
	}, actorID)
	if err != nil {
		logger.Error("Captured at gateway but failed to post payment", slog.String("error", err.Error()), slog.String("order_id", orderID), slog.String("capture_id", capture.CaptureID))
		return nil, fmt.Errorf("failed to post captured payment: %w", err)
	}

	logger.Info("Gateway payment executed",
		slog.String("order_id", orderID),
		slog.String("payment_id", payment.PaymentID),
		slog.String("invoice_id", payment.InvoiceID),
	)
	return payment, nil
}

// GetOrderStatus reads the order straight from the gateway; nothing about it
// is stored locally until capture.
func (s *paypalService) GetOrderStatus(ctx context.Context, orderID string) (*dto.PayPalOrderStatusResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	status, err := s.gateway.GetOrderStatus(ctx, orderID)
	if err != nil {
		logger.Error("Failed to fetch gateway order status", slog.String("error", err.Error()), slog.String("order_id", orderID))
		return nil, fmt.Errorf("%w: get order %s: %w", apperrors.ErrExternalService, orderID, err)
	}

	return &dto.PayPalOrderStatusResponse{OrderID: orderID, Status: status}, nil
}

// RefundPayment refunds a captured gateway payment, fully when no amount is
// given, then records the refund on the ledger.
func (s *paypalService) RefundPayment(ctx context.Context, req dto.PayPalRefundRequest, actorID string) (*domain.Payment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	payment, err := s.paymentRepo.FindPaymentByID(ctx, req.PaymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find payment %s: %w", req.PaymentID, err)
	}
	if payment.Status != domain.PaymentPosted {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrConflict, ErrPaymentNotPosted)
	}
	if payment.Reference == "" {
		return nil, fmt.Errorf("%w: payment %s has no gateway capture reference", apperrors.ErrValidation, req.PaymentID)
	}

	amount := payment.Amount
	if req.Amount != nil {
		amount = *req.Amount
	}
	if amount.LessThanOrEqual(decimal.Zero) || amount.GreaterThan(payment.Amount) {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrRefundExceedsPayment)
	}

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, payment.InvoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find invoice %s: %w", payment.InvoiceID, err)
	}

	gatewayRefund, err := s.gateway.RefundCapture(ctx, payment.Reference, amount, invoice.Currency)
	if err != nil {
		logger.Error("Failed to refund at gateway", slog.String("error", err.Error()), slog.String("payment_id", payment.PaymentID), slog.String("capture_id", payment.Reference))
		return nil, fmt.Errorf("%w: refund capture %s: %w", apperrors.ErrExternalService, payment.Reference, err)
	}

	reason := req.Reason
	if reason == "" {
		reason = fmt.Sprintf("PayPal refund %s", gatewayRefund.RefundID)
	}
	if _, err := s.paymentSvc.RefundPayment(ctx, payment.PaymentID, dto.RefundPaymentRequest{
		Amount: amount,
		Reason: reason,
	}, actorID); err != nil {
		logger.Error("Refunded at gateway but failed to record refund", slog.String("error", err.Error()), slog.String("payment_id", payment.PaymentID), slog.String("refund_id", gatewayRefund.RefundID))
		return nil, fmt.Errorf("failed to record gateway refund: %w", err)
	}

	updated, err := s.paymentRepo.FindPaymentByID(ctx, payment.PaymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload payment %s: %w", payment.PaymentID, err)
	}

	logger.Info("Gateway payment refunded",
		slog.String("payment_id", payment.PaymentID),
		slog.String("refund_id", gatewayRefund.RefundID),
		slog.String("amount", amount.String()),
	)
	return updated, nil
}

func (s *paypalService) findOrCreatePayPalMethod(ctx context.Context, actorID string) (string, error) {
	method, err := s.paymentMethodRepo.FindPaymentMethodByName(ctx, paypalPaymentMethodName)
	if err == nil {
		return method.PaymentMethodID, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return "", fmt.Errorf("failed to look up PayPal payment method: %w", err)
	}

	now := time.Now().UTC()
	created := domain.PaymentMethod{
		PaymentMethodID:   uuid.NewString(),
		Name:              paypalPaymentMethodName,
		IsActive:          true,
		RequiresReference: true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	if err := s.paymentMethodRepo.SavePaymentMethod(ctx, created); err != nil {
		return "", fmt.Errorf("failed to create PayPal payment method: %w", err)
	}
	return created.PaymentMethodID, nil
}
