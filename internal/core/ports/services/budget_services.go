package services

import (
	"context"

	"github.com/pedrootoniel/arsol-orcamento/internal/core/domain"
	"github.com/pedrootoniel/arsol-orcamento/internal/dto"
)

// BudgetReaderSvc defines read operations for budgets.
type BudgetReaderSvc interface {
	// GetBudget loads the budget row and its items ordered by creation time.
	GetBudget(ctx context.Context, budgetID string) (*domain.Budget, []domain.BudgetItem, error)

	// ListBudgets retrieves budgets matching the params, newest first.
	ListBudgets(ctx context.Context, params dto.ListBudgetsParams) ([]domain.Budget, error)
}

// BudgetWriterSvc defines the budget lifecycle operations.
type BudgetWriterSvc interface {
	// CreateBudget creates a new draft budget with zero totals.
	CreateBudget(ctx context.Context, req dto.CreateBudgetRequest, creatorUserID string) (*domain.Budget, error)

	// UpdateBudgetDetails updates descriptive fields; rejected once locked.
	UpdateBudgetDetails(ctx context.Context, budgetID string, req dto.UpdateBudgetRequest) (*domain.Budget, error)

	// DeleteBudget removes the budget and its children.
	DeleteBudget(ctx context.Context, budgetID string) error

	// TransitionStatus moves the budget along the status machine. Approval
	// locks the budget and records approval metadata including the approving
	// party's public IP (best effort).
	TransitionStatus(ctx context.Context, budgetID string, req dto.TransitionBudgetStatusRequest, meta dto.RequestMeta) (*domain.Budget, error)
}

// BudgetItemSvc defines line item operations; both recompute the category
// totals from the post-change item list.
type BudgetItemSvc interface {
	AddItem(ctx context.Context, budgetID string, req dto.AddBudgetItemRequest, meta dto.RequestMeta) (*domain.Budget, *domain.BudgetItem, error)
	RemoveItem(ctx context.Context, budgetID string, itemID string, meta dto.RequestMeta) (*domain.Budget, error)
}

// BudgetCommentSvc defines the discussion thread operations.
type BudgetCommentSvc interface {
	// AppendComment persists a comment; comments stay allowed on locked
	// budgets. Depending on configuration a non-admin comment on a sent
	// budget reopens it into revision.
	AppendComment(ctx context.Context, budgetID string, req dto.AddCommentRequest, isAdminReply bool, meta dto.RequestMeta) (*domain.BudgetComment, error)

	ListComments(ctx context.Context, budgetID string) ([]domain.BudgetComment, error)
}

// BudgetSvcFacade combines all budget service interfaces.
type BudgetSvcFacade interface {
	BudgetReaderSvc
	BudgetWriterSvc
	BudgetItemSvc
	BudgetCommentSvc
}
