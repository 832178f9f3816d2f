package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewFolioNumber generates a folio number: 10 upper-case hex characters.
func NewFolioNumber() string {
	return randomRef(10)
}

// NewInvoiceNumber generates an invoice number: 12 upper-case hex characters.
func NewInvoiceNumber() string {
	return randomRef(12)
}

// randomRef returns n upper-case hex characters drawn from a fresh uuid.
// Uniqueness is enforced by the database constraint, not here.
func randomRef(n int) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(hex[:n])
}
