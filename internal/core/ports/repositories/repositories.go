package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	BudgetRepo       BudgetRepositoryFacade
	ClientRepo       ClientRepositoryFacade
	UserRepo         UserRepositoryFacade
	ServiceOrderRepo ServiceOrderRepositoryFacade
	PaymentRepo      PaymentRepositoryFacade
	InvoiceRepo      InvoiceRepositoryFacade
	AuditRepo        AuditLogRepository
	DashboardRepo    DashboardRepository
}
