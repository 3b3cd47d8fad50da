package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/pedrootoniel/arsol-orcamento/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every pgsql repository against one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		BudgetRepo:       newPgxBudgetRepository(dbPool),
		ClientRepo:       newPgxClientRepository(dbPool),
		UserRepo:         newPgxUserRepository(dbPool),
		ServiceOrderRepo: newPgxServiceOrderRepository(dbPool),
		PaymentRepo:      newPgxPaymentRepository(dbPool),
		InvoiceRepo:      newPgxInvoiceRepository(dbPool),
		AuditRepo:        newPgxAuditLogRepository(dbPool),
		DashboardRepo:    newPgxDashboardRepository(dbPool),
	}
}
