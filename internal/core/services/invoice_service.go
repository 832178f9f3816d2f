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
	"github.com/hoteliq/billing_backend/internal/utils"
)

var (
	ErrAdjustmentNotPositive = errors.New("adjustment amount must be greater than zero")
	ErrInvoiceVoid           = errors.New("invoice is void")
)

// invoiceService provides the invoice engine: snapshotting folios and
// maintaining stored totals through adjustments.
type invoiceService struct {
	invoiceRepo  portsrepo.InvoiceRepositoryFacade
	folioRepo    portsrepo.FolioReader
	discountRepo portsrepo.DiscountRepositoryFacade
}

// NewInvoiceService creates a new InvoiceService.
func NewInvoiceService(
	invoiceRepo portsrepo.InvoiceRepositoryFacade,
	folioRepo portsrepo.FolioReader,
	discountRepo portsrepo.DiscountRepositoryFacade,
) portssvc.InvoiceSvcFacade {
	return &invoiceService{
		invoiceRepo:  invoiceRepo,
		folioRepo:    folioRepo,
		discountRepo: discountRepo,
	}
}

var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

// CreateInvoiceFromFolio freezes the folio's current items into invoice lines,
// applies the selected discounts against subtotal plus tax, and persists the
// whole snapshot atomically. The folio itself is left untouched; items posted
// to it afterwards belong to the next invoice.
func (s *invoiceService) CreateInvoiceFromFolio(ctx context.Context, req dto.CreateInvoiceRequest, actorID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	folio, err := s.folioRepo.FindFolioByID(ctx, req.FolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to load folio %s: %w", req.FolioID, err)
	}
	now := time.Now().UTC()
	invoiceID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     actorID,
		LastUpdatedAt: now,
		LastUpdatedBy: actorID,
	}

	// Freeze the folio items. The snapshot keeps a weak reference back to
	// each item so later edits or deletions on the folio cannot reach it.
	lines := make([]domain.InvoiceLine, len(folio.Items))
	subtotal := decimal.Zero
	taxTotal := decimal.Zero
	for i, item := range folio.Items {
		itemID := item.FolioItemID
		lineTotal := item.LineTotal()
		taxAmount := item.TaxAmount()
		lines[i] = domain.InvoiceLine{
			InvoiceLineID: uuid.NewString(),
			InvoiceID:     invoiceID,
			FolioItemID:   &itemID,
			Description:   item.Description,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
			NetAmount:     lineTotal,
			TaxAmount:     taxAmount,
			AuditFields:   audit,
		}
		subtotal = subtotal.Add(lineTotal)
		taxTotal = taxTotal.Add(taxAmount)
	}

	// Discounts apply to the gross base: subtotal plus tax. The computed
	// amount is frozen; percentage rules are never recomputed afterwards.
	var invoiceDiscounts []domain.InvoiceDiscount
	if len(req.DiscountIDs) > 0 {
		discountsByID, err := s.discountRepo.FindDiscountsByIDs(ctx, req.DiscountIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load discounts: %w", err)
		}
		base := subtotal.Add(taxTotal)
		invoiceDiscounts = make([]domain.InvoiceDiscount, 0, len(req.DiscountIDs))
		for _, discountID := range req.DiscountIDs {
			discount, found := discountsByID[discountID]
			if !found {
				return nil, fmt.Errorf("%w: discount %s", apperrors.ErrValidation, discountID)
			}
			if !discount.IsApplicable(now) {
				return nil, fmt.Errorf("%w: discount %s is not applicable", apperrors.ErrValidation, discountID)
			}
			invoiceDiscounts = append(invoiceDiscounts, domain.InvoiceDiscount{
				InvoiceDiscountID: uuid.NewString(),
				InvoiceID:         invoiceID,
				DiscountID:        discountID,
				AppliedAmount:     discount.AppliedAmount(base),
				AuditFields:       audit,
			})
		}
	}

	invoice := domain.Invoice{
		InvoiceID:     invoiceID,
		FolioID:       folio.FolioID,
		InvoiceNumber: utils.NewInvoiceNumber(),
		Status:        domain.InvoiceIssued,
		IssuedAt:      now,
		DueDate:       req.DueDate,
		Currency:      folio.Currency,
		Notes:         req.Notes,
		AuditFields:   audit,
		Lines:         lines,
		Discounts:     invoiceDiscounts,
	}
	invoice.RecalculateTotals()

	if err := s.invoiceRepo.CreateInvoice(ctx, invoice, lines, invoiceDiscounts); err != nil {
		logger.Error("Failed to create invoice", slog.String("error", err.Error()), slog.String("folio_id", folio.FolioID))
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	logger.Info("Invoice created from folio",
		slog.String("invoice_id", invoice.InvoiceID),
		slog.String("invoice_number", invoice.InvoiceNumber),
		slog.String("folio_id", folio.FolioID),
		slog.String("total", invoice.Total.String()),
	)
	return &invoice, nil
}

func (s *invoiceService) GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find invoice", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
		}
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}
	return invoice, nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error) {
	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	invoices, nextToken, err := s.invoiceRepo.ListInvoices(ctx, params.Status, limit, params.NextToken)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list invoices", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return &dto.ListInvoicesResponse{Invoices: invoices, NextToken: nextToken}, nil
}

func (s *invoiceService) ListInvoicesByCorporateAccount(ctx context.Context, corporateAccountID string, limit int, nextToken *string) (*dto.ListInvoicesResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	invoices, next, err := s.invoiceRepo.ListInvoicesByCorporateAccount(ctx, corporateAccountID, limit, nextToken)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list invoices for corporate account", slog.String("error", err.Error()), slog.String("corporate_account_id", corporateAccountID))
		return nil, fmt.Errorf("failed to list invoices for corporate account %s: %w", corporateAccountID, err)
	}
	return &dto.ListInvoicesResponse{Invoices: invoices, NextToken: next}, nil
}

// PostCreditNote appends a negative adjustment. The request carries a positive
// magnitude; the stored amount is negated so totals stay a plain sum.
func (s *invoiceService) PostCreditNote(ctx context.Context, invoiceID string, req dto.AdjustmentRequest, actorID string) (*domain.Invoice, error) {
	return s.postAdjustment(ctx, invoiceID, req, domain.AdjustmentCredit, actorID)
}

// PostDebitNote appends a positive adjustment.
func (s *invoiceService) PostDebitNote(ctx context.Context, invoiceID string, req dto.AdjustmentRequest, actorID string) (*domain.Invoice, error) {
	return s.postAdjustment(ctx, invoiceID, req, domain.AdjustmentDebit, actorID)
}

func (s *invoiceService) postAdjustment(ctx context.Context, invoiceID string, req dto.AdjustmentRequest, adjustmentType domain.AdjustmentType, actorID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrAdjustmentNotPositive)
	}

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}
	if invoice.Status == domain.InvoiceVoid {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrConflict, ErrInvoiceVoid)
	}

	amount := req.Amount.Abs()
	if adjustmentType == domain.AdjustmentCredit {
		amount = amount.Neg()
	}

	now := time.Now().UTC()
	adjustment := domain.InvoiceAdjustment{
		InvoiceAdjustmentID: uuid.NewString(),
		InvoiceID:           invoiceID,
		AdjustmentType:      adjustmentType,
		Amount:              amount,
		Reason:              req.Reason,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	// The repository appends the row and recalculates stored totals in one
	// transaction, holding a row lock on the invoice.
	if err := s.invoiceRepo.SaveAdjustment(ctx, adjustment); err != nil {
		logger.Error("Failed to save adjustment", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
		return nil, fmt.Errorf("failed to save adjustment: %w", err)
	}

	logger.Info("Adjustment posted",
		slog.String("invoice_id", invoiceID),
		slog.String("type", string(adjustmentType)),
		slog.String("amount", amount.String()),
	)

	updated, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload invoice %s: %w", invoiceID, err)
	}
	return updated, nil
}
