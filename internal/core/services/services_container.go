package services

import (
	portsplat "github.com/pedrootoniel/arsol-orcamento/internal/core/ports/platform"
	portsrepo "github.com/pedrootoniel/arsol-orcamento/internal/core/ports/repositories"
	portssvc "github.com/pedrootoniel/arsol-orcamento/internal/core/ports/services"
	"github.com/pedrootoniel/arsol-orcamento/internal/platform/config"
)

// Collaborators groups the external lookups and the change notifier so the
// container constructor does not grow a parameter per integration.
type Collaborators struct {
	IPResolver portsplat.IPResolver
	CNPJLookup portsplat.CNPJLookup
	Notifier   portsplat.ChangeNotifier
}

// NewServiceContainer creates a service container with properly initialized
// dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, collab Collaborators) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Budget = NewBudgetService(
		repos.BudgetRepo,
		repos.AuditRepo,
		collab.IPResolver,
		collab.Notifier,
		BudgetServiceConfig{
			CommentsTriggerRevision: cfg.CommentsTriggerRevision,
			DefaultValidityDays:     cfg.BudgetValidityDays,
			IPLookupTimeout:         cfg.IPLookupTimeout,
		},
	)

	container.Client = NewClientService(repos.ClientRepo, collab.CNPJLookup)
	container.User = NewUserService(repos.UserRepo)
	container.ServiceOrder = NewServiceOrderService(repos.ServiceOrderRepo, repos.BudgetRepo)
	container.Payment = NewPaymentService(repos.PaymentRepo, repos.BudgetRepo)
	container.Invoice = NewInvoiceService(repos.InvoiceRepo, repos.ClientRepo)
	container.Dashboard = NewDashboardService(repos.DashboardRepo)
	container.Audit = NewAuditService(repos.AuditRepo)

	return container
}
