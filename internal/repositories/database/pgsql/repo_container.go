package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/hoteliq/billing_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every pgsql repository onto the shared pool.
func NewRepositoryProvider(pool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		GuestRepo:            newPgxGuestRepository(pool),
		ReservationRepo:      newPgxReservationRepository(pool),
		FolioRepo:            newPgxFolioRepository(pool),
		InvoiceRepo:          newPgxInvoiceRepository(pool),
		PaymentRepo:          newPgxPaymentRepository(pool),
		DiscountRepo:         newPgxDiscountRepository(pool),
		TaxRuleRepo:          newPgxTaxRuleRepository(pool),
		PaymentMethodRepo:    newPgxPaymentMethodRepository(pool),
		CorporateAccountRepo: newPgxCorporateAccountRepository(pool),
		WebhookRepo:          newPgxWebhookRepository(pool),
		ReportingRepo:        newPgxReportingRepository(pool),
	}
}
