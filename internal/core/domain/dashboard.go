package domain

import (
	"github.com/shopspring/decimal"
)

// DashboardSummary aggregates the admin home-screen counters.
type DashboardSummary struct {
	BudgetsByStatus      map[BudgetStatus]int       `json:"budgets_by_status"`
	PendingDecisionCount int                        `json:"pending_decision_count"` // sent + revision
	ApprovedTotal        decimal.Decimal            `json:"approved_total"`
	ActiveClients        int                        `json:"active_clients"`
	OrdersByStatus       map[ServiceOrderStatus]int `json:"orders_by_status"`
	InvoiceCount         int                        `json:"invoice_count"`
	AuthorizedTotal      decimal.Decimal            `json:"authorized_total"`
	TotalReceivable      decimal.Decimal            `json:"total_receivable"`
	TotalReceived        decimal.Decimal            `json:"total_received"`
}

// PaymentsSummary aggregates the financial ledger header cards.
type PaymentsSummary struct {
	TotalReceivable decimal.Decimal `json:"total_receivable"` // pending, any due date
	TotalReceived   decimal.Decimal `json:"total_received"`
	TotalOverdue    decimal.Decimal `json:"total_overdue"`     // pending past due
	DueNext30Days   decimal.Decimal `json:"due_next_30_days"`  // pending due within 30 days
}
