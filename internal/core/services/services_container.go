package services

import (
	portsrepo "github.com/hoteliq/billing_backend/internal/core/ports/repositories"
	portssvc "github.com/hoteliq/billing_backend/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// The gateway is injected from the outside so tests can run against a stub.
func NewServiceContainer(repos *portsrepo.RepositoryProvider, gateway portssvc.PaymentGatewaySvc) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.GuestSvc = NewGuestService(repos.GuestRepo)
	container.ReservationSvc = NewReservationService(repos.ReservationRepo, repos.GuestRepo)
	container.DiscountSvc = NewDiscountService(repos.DiscountRepo)
	container.TaxRuleSvc = NewTaxRuleService(repos.TaxRuleRepo)
	container.PaymentMethodSvc = NewPaymentMethodService(repos.PaymentMethodRepo)
	container.CorporateAccountSvc = NewCorporateAccountService(repos.CorporateAccountRepo)

	container.FolioSvc = NewFolioService(
		repos.FolioRepo,
		repos.ReservationRepo,
		repos.GuestRepo,
		repos.TaxRuleRepo,
		repos.DiscountRepo,
	)
	container.InvoiceSvc = NewInvoiceService(repos.InvoiceRepo, repos.FolioRepo, repos.DiscountRepo)
	container.PaymentSvc = NewPaymentService(repos.PaymentRepo, repos.InvoiceRepo, repos.PaymentMethodRepo)

	container.ReportingSvc = NewReportingService(repos.ReportingRepo)
	container.WebhookSvc = NewWebhookService(repos.WebhookRepo)

	if gateway != nil {
		container.PayPalSvc = NewPayPalService(
			gateway,
			repos.InvoiceRepo,
			container.PaymentSvc,
			repos.PaymentRepo,
			repos.PaymentMethodRepo,
		)
	}

	return container
}
