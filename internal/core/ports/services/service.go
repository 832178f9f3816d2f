package services

// ServiceContainer bundles every service facade for injection into handlers.
type ServiceContainer struct {
	GuestSvc            GuestSvcFacade
	ReservationSvc      ReservationSvcFacade
	FolioSvc            FolioSvcFacade
	InvoiceSvc          InvoiceSvcFacade
	PaymentSvc          PaymentSvcFacade
	DiscountSvc         DiscountSvcFacade
	TaxRuleSvc          TaxRuleSvcFacade
	PaymentMethodSvc    PaymentMethodSvcFacade
	CorporateAccountSvc CorporateAccountSvcFacade
	ReportingSvc        ReportingSvcFacade
	WebhookSvc          WebhookSvcFacade
	PayPalSvc           PayPalSvcFacade
}
