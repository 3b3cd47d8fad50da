package dto

import (
	"time"

	"github.com/pedrootoniel/arsol-orcamento/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RequestMeta carries actor attribution for audited operations. Handlers
// populate it from the auth context and the incoming request.
type RequestMeta struct {
	ActorID   string
	IPAddress string
	UserAgent string
}

// CreateBudgetRequest defines the data needed to create a new budget.
type CreateBudgetRequest struct {
	Title        string     `json:"title" binding:"required"`
	ClientID     string     `json:"client_id"`
	Description  string     `json:"description"`
	Responsible  string     `json:"responsible"`
	ValidityDate *time.Time `json:"validity_date"`
}

// UpdateBudgetRequest defines the descriptive fields open for update.
// Pointers distinguish omitted fields from zero values.
type UpdateBudgetRequest struct {
	Title        *string    `json:"title"`
	ClientID     *string    `json:"client_id"`
	Description  *string    `json:"description"`
	Responsible  *string    `json:"responsible"`
	ValidityDate *time.Time `json:"validity_date"`
}

// AddBudgetItemRequest defines the data for one new line item.
// Numeric range checks live in the service so a bad value maps to
// apperrors.ErrValidation rather than a generic binding error.
type AddBudgetItemRequest struct {
	Description    string            `json:"description" binding:"required"`
	Quantity       decimal.Decimal   `json:"quantity" binding:"required"`
	Unit           string            `json:"unit"`
	UnitPrice      decimal.Decimal   `json:"unit_price"`
	Category       string            `json:"category" binding:"required,oneof=material labor equipment service electrical solar hydraulic pool additional"`
	TechnicalSpecs map[string]string `json:"technical_specs"`
}

// TransitionBudgetStatusRequest asks for a status change.
type TransitionBudgetStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=sent approved rejected revision"`
	Notes  string `json:"notes"`
}

// AddCommentRequest appends one message to the budget thread.
type AddCommentRequest struct {
	Content string `json:"comment" binding:"required"`
}

// ListBudgetsParams defines query parameters for listing budgets.
type ListBudgetsParams struct {
	Status   string `form:"status"`
	ClientID string `form:"client_id"`
	Limit    int    `form:"limit,default=20"`
	Offset   int    `form:"offset,default=0"`
}

// BudgetResponse defines the data returned for a budget.
type BudgetResponse struct {
	ID              string          `json:"id"`
	ClientID        string          `json:"client_id,omitempty"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Responsible     string          `json:"responsible"`
	ValidityDate    *time.Time      `json:"validity_date,omitempty"`
	Status          string          `json:"status"`
	EffectiveStatus string          `json:"effective_status"`
	TotalMaterials  decimal.Decimal `json:"total_materials"`
	TotalLabor      decimal.Decimal `json:"total_labor"`
	TotalAdditional decimal.Decimal `json:"total_additional"`
	GrandTotal      decimal.Decimal `json:"grand_total"`
	IsLocked        bool            `json:"is_locked"`
	ApprovalDate    *time.Time      `json:"approval_date,omitempty"`
	ApprovalNotes   string          `json:"approval_notes,omitempty"`
	ApprovalIP      string          `json:"approval_ip,omitempty"`
	RejectionDate   *time.Time      `json:"rejection_date,omitempty"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	Version         int64           `json:"version"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// BudgetItemResponse defines the data returned for a line item.
type BudgetItemResponse struct {
	ID             string            `json:"id"`
	BudgetID       string            `json:"budget_id"`
	Description    string            `json:"description"`
	Quantity       decimal.Decimal   `json:"quantity"`
	Unit           string            `json:"unit"`
	UnitPrice      decimal.Decimal   `json:"unit_price"`
	Category       string            `json:"category"`
	LineTotal      decimal.Decimal   `json:"line_total"`
	TechnicalSpecs map[string]string `json:"technical_specs,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}

// BudgetCommentResponse defines the data returned for a comment.
type BudgetCommentResponse struct {
	ID           string    `json:"id"`
	BudgetID     string    `json:"budget_id"`
	UserID       string    `json:"user_id"`
	AuthorName   string    `json:"author_name,omitempty"`
	Content      string    `json:"comment"`
	IsAdminReply bool      `json:"is_admin_reply"`
	CreatedAt    time.Time `json:"created_at"`
}

// BudgetDetailResponse combines a budget with its item list.
type BudgetDetailResponse struct {
	Budget BudgetResponse       `json:"budget"`
	Items  []BudgetItemResponse `json:"items"`
}

// ListBudgetsResponse wraps the budget listing.
type ListBudgetsResponse struct {
	Budgets []BudgetResponse `json:"budgets"`
}

// AddItemResponse returns the inserted item together with the budget whose
// totals it refreshed.
type AddItemResponse struct {
	Budget BudgetResponse     `json:"budget"`
	Item   BudgetItemResponse `json:"item"`
}

// ToBudgetResponse converts a domain.Budget to BudgetResponse.
func ToBudgetResponse(b *domain.Budget, now time.Time) BudgetResponse {
	return BudgetResponse{
		ID:              b.BudgetID,
		ClientID:        b.ClientID,
		Title:           b.Title,
		Description:     b.Description,
		Responsible:     b.Responsible,
		ValidityDate:    b.ValidityDate,
		Status:          string(b.Status),
		EffectiveStatus: string(b.EffectiveStatus(now)),
		TotalMaterials:  b.TotalMaterials,
		TotalLabor:      b.TotalLabor,
		TotalAdditional: b.TotalAdditional,
		GrandTotal:      b.GrandTotal(),
		IsLocked:        b.IsLocked,
		ApprovalDate:    b.ApprovalDate,
		ApprovalNotes:   b.ApprovalNotes,
		ApprovalIP:      b.ApprovalIP,
		RejectionDate:   b.RejectionDate,
		RejectionReason: b.RejectionReason,
		Version:         b.Version,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// ToBudgetItemResponse converts a domain.BudgetItem to BudgetItemResponse.
func ToBudgetItemResponse(i *domain.BudgetItem) BudgetItemResponse {
	return BudgetItemResponse{
		ID:             i.ItemID,
		BudgetID:       i.BudgetID,
		Description:    i.Description,
		Quantity:       i.Quantity,
		Unit:           i.Unit,
		UnitPrice:      i.UnitPrice,
		Category:       string(i.Category),
		LineTotal:      i.LineTotal(),
		TechnicalSpecs: i.TechnicalSpecs,
		CreatedAt:      i.CreatedAt,
	}
}

// ToBudgetDetailResponse converts a budget and its items to the detail DTO.
func ToBudgetDetailResponse(b *domain.Budget, items []domain.BudgetItem, now time.Time) BudgetDetailResponse {
	itemResponses := make([]BudgetItemResponse, len(items))
	for idx := range items {
		itemResponses[idx] = ToBudgetItemResponse(&items[idx])
	}
	return BudgetDetailResponse{
		Budget: ToBudgetResponse(b, now),
		Items:  itemResponses,
	}
}

// ToBudgetCommentResponse converts a domain.BudgetComment to its DTO.
func ToBudgetCommentResponse(c *domain.BudgetComment) BudgetCommentResponse {
	return BudgetCommentResponse{
		ID:           c.CommentID,
		BudgetID:     c.BudgetID,
		UserID:       c.AuthorID,
		AuthorName:   c.AuthorName,
		Content:      c.Content,
		IsAdminReply: c.IsAdminReply,
		CreatedAt:    c.CreatedAt,
	}
}

// ToListBudgetsResponse converts a budget slice to the listing DTO.
func ToListBudgetsResponse(budgets []domain.Budget, now time.Time) ListBudgetsResponse {
	responses := make([]BudgetResponse, len(budgets))
	for i := range budgets {
		responses[i] = ToBudgetResponse(&budgets[i], now)
	}
	return ListBudgetsResponse{Budgets: responses}
}
