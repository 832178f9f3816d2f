package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyReport aggregates invoicing and payment activity for a single date.
type DailyReport struct {
	Date          time.Time       `json:"date"`
	TotalInvoices int             `json:"totalInvoices"`
	Revenue       decimal.Decimal `json:"revenue"`  // sum of invoice totals issued that day
	Payments      decimal.Decimal `json:"payments"` // sum of posted payments received that day
}

// TaxSummaryRow aggregates invoice lines by tax rule over a date range.
type TaxSummaryRow struct {
	TaxRule       string          `json:"taxRule"`
	TaxableAmount decimal.Decimal `json:"taxableAmount"`
	TaxAmount     decimal.Decimal `json:"taxAmount"`
}

// OutstandingInvoice is a reporting view of an invoice with a positive balance.
type OutstandingInvoice struct {
	InvoiceID     string          `json:"invoiceID"`
	InvoiceNumber string          `json:"invoiceNumber"`
	GuestName     string          `json:"guestName"`
	BalanceDue    decimal.Decimal `json:"balanceDue"`
	IssuedAt      time.Time       `json:"issuedAt"`
}
