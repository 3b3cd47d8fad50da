package repositories

import (
	"context"
	"time"

	"github.com/pedrootoniel/arsol-orcamento/internal/core/domain"
)

// ListBudgetsFilter narrows a budget listing.
type ListBudgetsFilter struct {
	Status   domain.BudgetStatus // empty: any
	ClientID string              // empty: any
	Limit    int
	Offset   int
}

// BudgetReader defines read operations for budgets and their children.
type BudgetReader interface {
	// FindBudgetByID retrieves a budget row by its unique identifier.
	FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error)

	// FindItemsByBudgetID retrieves a budget's items ordered by creation time.
	FindItemsByBudgetID(ctx context.Context, budgetID string) ([]domain.BudgetItem, error)

	// ListBudgets retrieves budgets matching the filter, newest first.
	ListBudgets(ctx context.Context, filter ListBudgetsFilter) ([]domain.Budget, error)
}

// BudgetWriter defines write operations for budgets and items.
//
// Every update takes the version the caller read; implementations must
// compare-and-swap on it and return apperrors.ErrConflict when the row
// has moved underneath the caller.
type BudgetWriter interface {
	// SaveBudget persists a new budget row.
	SaveBudget(ctx context.Context, budget domain.Budget) error

	// UpdateBudgetDetails updates descriptive fields and updated_at.
	UpdateBudgetDetails(ctx context.Context, budget domain.Budget, expectedVersion int64) error

	// UpdateBudgetStatus persists status, lock flag and approval/rejection
	// metadata together with a refreshed updated_at.
	UpdateBudgetStatus(ctx context.Context, budget domain.Budget, expectedVersion int64) error

	// SaveItemWithTotals inserts the item and writes the recomputed budget
	// totals in a single transaction.
	SaveItemWithTotals(ctx context.Context, item domain.BudgetItem, totals domain.BudgetTotals, expectedVersion int64, now time.Time) error

	// DeleteItemWithTotals deletes the item (scoped to its budget) and writes
	// the recomputed totals in a single transaction. Returns
	// apperrors.ErrNotFound when the item does not belong to the budget.
	DeleteItemWithTotals(ctx context.Context, budgetID string, itemID string, totals domain.BudgetTotals, expectedVersion int64, now time.Time) error

	// DeleteBudget removes the budget; items and comments cascade.
	DeleteBudget(ctx context.Context, budgetID string) error
}

// BudgetCommentRepository defines the append-only comment store.
type BudgetCommentRepository interface {
	// SaveComment persists a new comment row.
	SaveComment(ctx context.Context, comment domain.BudgetComment) error

	// FindCommentsByBudgetID retrieves comments oldest first, with the
	// author's display name joined in.
	FindCommentsByBudgetID(ctx context.Context, budgetID string) ([]domain.BudgetComment, error)
}

// BudgetRepositoryFacade combines all budget-related repository interfaces.
type BudgetRepositoryFacade interface {
	BudgetReader
	BudgetWriter
	BudgetCommentRepository
}
