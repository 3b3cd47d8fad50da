package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Budget       BudgetSvcFacade
	Client       ClientSvcFacade
	User         UserSvcFacade
	ServiceOrder ServiceOrderSvcFacade
	Payment      PaymentSvcFacade
	Invoice      InvoiceSvcFacade
	Dashboard    DashboardSvcFacade
	Audit        AuditSvcFacade
}
