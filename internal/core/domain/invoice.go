package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus indicates the financial state of an invoice.
type InvoiceStatus string

const (
	InvoiceDraft  InvoiceStatus = "draft"
	InvoiceIssued InvoiceStatus = "issued"
	InvoicePaid   InvoiceStatus = "paid"
	InvoiceVoid   InvoiceStatus = "void"
)

// AdjustmentType distinguishes credit notes from debit notes.
type AdjustmentType string

const (
	AdjustmentCredit AdjustmentType = "credit"
	AdjustmentDebit  AdjustmentType = "debit"
)

// Invoice is the immutable financial snapshot of a folio at billing time.
// Unlike folio totals, invoice totals ARE persisted: they cache the aggregation
// over lines, discounts and adjustments and must be recomputed after any
// mutation of those children. BalanceDue is never stored.
type Invoice struct {
	InvoiceID     string        `json:"invoiceID"`
	FolioID       string        `json:"folioID"` // strong: deleted with the folio
	InvoiceNumber string        `json:"invoiceNumber"`
	Status        InvoiceStatus `json:"status"`
	IssuedAt      time.Time     `json:"issuedAt"`
	DueDate       *time.Time    `json:"dueDate,omitempty"`
	Currency      string        `json:"currency"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	DiscountTotal decimal.Decimal `json:"discountTotal"`
	TaxTotal      decimal.Decimal `json:"taxTotal"`
	Total         decimal.Decimal `json:"total"`
	Notes         string          `json:"notes"`
	AuditFields

	Lines       []InvoiceLine       `json:"lines,omitempty"`
	Discounts   []InvoiceDiscount   `json:"invoiceDiscounts,omitempty"`
	Adjustments []InvoiceAdjustment `json:"adjustments,omitempty"`
	Payments    []Payment           `json:"payments,omitempty"`
}

// BalanceDue is the invoice total minus all payments currently posted.
// Refunded and void payments drop out of the sum entirely.
func (inv Invoice) BalanceDue() decimal.Decimal {
	paid := decimal.Zero
	for _, p := range inv.Payments {
		if p.Status == PaymentPosted {
			paid = paid.Add(p.Amount)
		}
	}
	return inv.Total.Sub(paid)
}

// RecalculateTotals rederives the stored totals from the loaded children.
// Invariant: total = subtotal + tax - discounts + signed adjustments.
// Idempotent: with no intervening mutation a second call is a no-op.
func (inv *Invoice) RecalculateTotals() {
	subtotal := decimal.Zero
	taxTotal := decimal.Zero
	for _, line := range inv.Lines {
		subtotal = subtotal.Add(line.NetAmount)
		taxTotal = taxTotal.Add(line.TaxAmount)
	}
	discountTotal := decimal.Zero
	for _, d := range inv.Discounts {
		discountTotal = discountTotal.Add(d.AppliedAmount)
	}
	adjustmentTotal := decimal.Zero
	for _, adj := range inv.Adjustments {
		adjustmentTotal = adjustmentTotal.Add(adj.Amount)
	}
	inv.Subtotal = subtotal
	inv.TaxTotal = taxTotal
	inv.DiscountTotal = discountTotal
	inv.Total = subtotal.Add(taxTotal).Sub(discountTotal).Add(adjustmentTotal)
}

// InvoiceLine is a frozen copy of a folio item at invoice-creation time.
type InvoiceLine struct {
	InvoiceLineID string          `json:"invoiceLineID"`
	InvoiceID     string          `json:"invoiceID"`
	FolioItemID   *string         `json:"folioItemID,omitempty"` // weak: survives item deletion
	Description   string          `json:"description"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	NetAmount     decimal.Decimal `json:"netAmount"`
	TaxAmount     decimal.Decimal `json:"taxAmount"`
	AuditFields
}

// InvoiceDiscount records a discount applied to an invoice with the computed
// amount frozen at creation time; percentage discounts are never recomputed.
type InvoiceDiscount struct {
	InvoiceDiscountID string          `json:"invoiceDiscountID"`
	InvoiceID         string          `json:"invoiceID"`
	DiscountID        string          `json:"discountID"`
	AppliedAmount     decimal.Decimal `json:"appliedAmount"`
	AuditFields
}

// InvoiceAdjustment is a manual signed correction (credit or debit note).
// Credits are stored negative, debits positive; the sign convention is what
// makes the totals invariant a plain sum.
type InvoiceAdjustment struct {
	InvoiceAdjustmentID string          `json:"invoiceAdjustmentID"`
	InvoiceID           string          `json:"invoiceID"`
	AdjustmentType      AdjustmentType  `json:"adjustmentType"`
	Amount              decimal.Decimal `json:"amount"` // signed
	Reason              string          `json:"reason"`
	AuditFields
}
