package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/pedrootoniel/arsol-orcamento/internal/core/domain"
	portsrepo "github.com/pedrootoniel/arsol-orcamento/internal/core/ports/repositories"
)

type PgxDashboardRepository struct {
	pool *pgxpool.Pool
}

// newPgxDashboardRepository creates the dashboard aggregate reader.
func newPgxDashboardRepository(pool *pgxpool.Pool) portsrepo.DashboardRepository {
	return &PgxDashboardRepository{pool: pool}
}

var _ portsrepo.DashboardRepository = (*PgxDashboardRepository)(nil)

func (r *PgxDashboardRepository) GetDashboardSummary(ctx context.Context, now time.Time) (*domain.DashboardSummary, error) {
	summary := &domain.DashboardSummary{
		BudgetsByStatus: make(map[domain.BudgetStatus]int),
		OrdersByStatus:  make(map[domain.ServiceOrderStatus]int),
	}

	budgetRows, err := r.pool.Query(ctx, `SELECT status, COUNT(*), COALESCE(SUM(total_materials + total_labor + total_additional), 0) FROM budgets GROUP BY status;`)
	if err != nil {
		return nil, fmt.Errorf("failed to count budgets by status: %w", err)
	}
	defer budgetRows.Close()
	for budgetRows.Next() {
		var status domain.BudgetStatus
		var count int
		var total decimal.Decimal
		if err := budgetRows.Scan(&status, &count, &total); err != nil {
			return nil, fmt.Errorf("failed to scan budget counts: %w", err)
		}
		summary.BudgetsByStatus[status] = count
		if status == domain.BudgetApproved {
			summary.ApprovedTotal = total
		}
	}
	if err := budgetRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budget counts: %w", err)
	}
	summary.PendingDecisionCount = summary.BudgetsByStatus[domain.BudgetSent] + summary.BudgetsByStatus[domain.BudgetRevision]

	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM clients WHERE is_active = TRUE;`).Scan(&summary.ActiveClients); err != nil {
		return nil, fmt.Errorf("failed to count active clients: %w", err)
	}

	orderRows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM service_orders GROUP BY status;`)
	if err != nil {
		return nil, fmt.Errorf("failed to count service orders by status: %w", err)
	}
	defer orderRows.Close()
	for orderRows.Next() {
		var status domain.ServiceOrderStatus
		var count int
		if err := orderRows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan order counts: %w", err)
		}
		summary.OrdersByStatus[status] = count
	}
	if err := orderRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order counts: %w", err)
	}

	err = r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(liquid_value) FILTER (WHERE status = 'authorized'), 0)
		FROM nfe_invoices;
	`).Scan(&summary.InvoiceCount, &summary.AuthorizedTotal)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize invoices: %w", err)
	}

	err = r.pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE status = 'pending'), 0),
			COALESCE(SUM(amount) FILTER (WHERE status = 'paid'), 0)
		FROM payments;
	`).Scan(&summary.TotalReceivable, &summary.TotalReceived)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize payments: %w", err)
	}

	return summary, nil
}
