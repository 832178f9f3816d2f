package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	GuestRepo            GuestRepositoryFacade
	ReservationRepo      ReservationRepositoryFacade
	FolioRepo            FolioRepositoryFacade
	InvoiceRepo          InvoiceRepositoryFacade
	PaymentRepo          PaymentRepositoryFacade
	DiscountRepo         DiscountRepositoryFacade
	TaxRuleRepo          TaxRuleRepositoryFacade
	PaymentMethodRepo    PaymentMethodRepositoryFacade
	CorporateAccountRepo CorporateAccountRepositoryFacade
	WebhookRepo          WebhookRepositoryFacade
	ReportingRepo        ReportingRepositoryFacade
}
