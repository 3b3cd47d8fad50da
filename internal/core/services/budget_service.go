package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pedrootoniel/arsol-orcamento/internal/apperrors"
	"github.com/pedrootoniel/arsol-orcamento/internal/core/domain"
	portsplat "github.com/pedrootoniel/arsol-orcamento/internal/core/ports/platform"
	portsrepo "github.com/pedrootoniel/arsol-orcamento/internal/core/ports/repositories"
	portssvc "github.com/pedrootoniel/arsol-orcamento/internal/core/ports/services"
	"github.com/pedrootoniel/arsol-orcamento/internal/dto"
	"github.com/pedrootoniel/arsol-orcamento/internal/middleware"
)

// BudgetServiceConfig carries the workflow knobs of the budget aggregate.
type BudgetServiceConfig struct {
	// CommentsTriggerRevision reopens a sent budget into revision when a
	// non-admin comments on it. The behavior varied across product
	// iterations, so it is an explicit switch rather than a hard rule.
	CommentsTriggerRevision bool

	// DefaultValidityDays sets the validity window of new budgets when the
	// request does not name a date. Zero means no validity date.
	DefaultValidityDays int

	// IPLookupTimeout bounds the public IP resolution during approval.
	IPLookupTimeout time.Duration
}

// budgetService owns the budget aggregate: items, derived totals and the
// status lifecycle.
type budgetService struct {
	budgetRepo portsrepo.BudgetRepositoryFacade
	auditRepo  portsrepo.AuditLogRepository
	ipResolver portsplat.IPResolver
	notifier   portsplat.ChangeNotifier
	cfg        BudgetServiceConfig
}

// NewBudgetService creates the budget service.
func NewBudgetService(
	budgetRepo portsrepo.BudgetRepositoryFacade,
	auditRepo portsrepo.AuditLogRepository,
	ipResolver portsplat.IPResolver,
	notifier portsplat.ChangeNotifier,
	cfg BudgetServiceConfig,
) portssvc.BudgetSvcFacade {
	if cfg.IPLookupTimeout <= 0 {
		cfg.IPLookupTimeout = 3 * time.Second
	}
	return &budgetService{
		budgetRepo: budgetRepo,
		auditRepo:  auditRepo,
		ipResolver: ipResolver,
		notifier:   notifier,
		cfg:        cfg,
	}
}

var _ portssvc.BudgetSvcFacade = (*budgetService)(nil)

// CreateBudget creates a new draft budget with zero totals.
func (s *budgetService) CreateBudget(ctx context.Context, req dto.CreateBudgetRequest, creatorUserID string) (*domain.Budget, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title must not be empty", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	validity := req.ValidityDate
	if validity == nil && s.cfg.DefaultValidityDays > 0 {
		v := now.AddDate(0, 0, s.cfg.DefaultValidityDays)
		validity = &v
	}

	budget := domain.Budget{
		BudgetID:        uuid.NewString(),
		ClientID:        req.ClientID,
		Title:           title,
		Description:     req.Description,
		Responsible:     req.Responsible,
		ValidityDate:    validity,
		Status:          domain.BudgetDraft,
		TotalMaterials:  decimal.Zero,
		TotalLabor:      decimal.Zero,
		TotalAdditional: decimal.Zero,
		Version:         1,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	if err := s.budgetRepo.SaveBudget(ctx, budget); err != nil {
		return nil, fmt.Errorf("failed to save budget: %w", err)
	}
	return &budget, nil
}

// GetBudget loads the budget row and its items ordered by creation time.
func (s *budgetService) GetBudget(ctx context.Context, budgetID string) (*domain.Budget, []domain.BudgetItem, error) {
	budget, err := s.budgetRepo.FindBudgetByID(ctx, budgetID)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.budgetRepo.FindItemsByBudgetID(ctx, budgetID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load items for budget %s: %w", budgetID, err)
	}
	return budget, items, nil
}

// ListBudgets retrieves budgets matching the params, newest first.
func (s *budgetService) ListBudgets(ctx context.Context, params dto.ListBudgetsParams) ([]domain.Budget, error) {
	filter := portsrepo.ListBudgetsFilter{
		ClientID: params.ClientID,
		Limit:    params.Limit,
		Offset:   params.Offset,
	}
	if params.Status != "" {
		status := domain.BudgetStatus(params.Status)
		if !status.IsValid() {
			return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, params.Status)
		}
		filter.Status = status
	}
	return s.budgetRepo.ListBudgets(ctx, filter)
}

// UpdateBudgetDetails updates descriptive fields; rejected once locked.
func (s *budgetService) UpdateBudgetDetails(ctx context.Context, budgetID string, req dto.UpdateBudgetRequest) (*domain.Budget, error) {
	budget, err := s.budgetRepo.FindBudgetByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	if budget.IsLocked {
		return nil, fmt.Errorf("%w: budget %s", apperrors.ErrBudgetLocked, budgetID)
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title must not be empty", apperrors.ErrValidation)
		}
		budget.Title = title
	}
	if req.ClientID != nil {
		budget.ClientID = *req.ClientID
	}
	if req.Description != nil {
		budget.Description = *req.Description
	}
	if req.Responsible != nil {
		budget.Responsible = *req.Responsible
	}
	if req.ValidityDate != nil {
		budget.ValidityDate = req.ValidityDate
	}

	expected := budget.Version
	budget.UpdatedAt = time.Now().UTC()
	budget.Version = expected + 1
	if err := s.budgetRepo.UpdateBudgetDetails(ctx, *budget, expected); err != nil {
		return nil, err
	}
	return budget, nil
}

// DeleteBudget removes the budget; items and comments cascade in the store.
func (s *budgetService) DeleteBudget(ctx context.Context, budgetID string) error {
	return s.budgetRepo.DeleteBudget(ctx, budgetID)
}

// AddItem validates the line, persists it and writes the recomputed totals
// in the same transaction. The in-memory state is only touched after the
// write succeeds.
func (s *budgetService) AddItem(ctx context.Context, budgetID string, req dto.AddBudgetItemRequest, meta dto.RequestMeta) (*domain.Budget, *domain.BudgetItem, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	budget, items, err := s.GetBudget(ctx, budgetID)
	if err != nil {
		return nil, nil, err
	}
	if budget.IsLocked {
		return nil, nil, fmt.Errorf("%w: budget %s", apperrors.ErrBudgetLocked, budgetID)
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, nil, fmt.Errorf("%w: item description must not be empty", apperrors.ErrValidation)
	}
	if req.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, nil, fmt.Errorf("%w: quantity must be positive", apperrors.ErrValidation)
	}
	if req.UnitPrice.IsNegative() {
		return nil, nil, fmt.Errorf("%w: unit price must not be negative", apperrors.ErrValidation)
	}
	category := domain.ItemCategory(req.Category)
	if !category.IsValid() {
		return nil, nil, fmt.Errorf("%w: unknown category %q", apperrors.ErrValidation, req.Category)
	}

	now := time.Now().UTC()
	item := domain.BudgetItem{
		ItemID:         uuid.NewString(),
		BudgetID:       budgetID,
		Description:    description,
		Quantity:       req.Quantity,
		Unit:           req.Unit,
		UnitPrice:      req.UnitPrice,
		Category:       category,
		TechnicalSpecs: req.TechnicalSpecs,
		CreatedAt:      now,
	}

	totals := domain.ComputeTotals(append(items, item))
	expected := budget.Version
	if err := s.budgetRepo.SaveItemWithTotals(ctx, item, totals, expected, now); err != nil {
		return nil, nil, err
	}

	budget.ApplyTotals(totals)
	budget.UpdatedAt = now
	budget.Version = expected + 1

	s.recordAudit(ctx, meta, "budget.item_added", budget.BudgetID, nil, item)
	logger.Info("Budget item added",
		slog.String("budget_id", budgetID),
		slog.String("item_id", item.ItemID),
		slog.String("category", string(category)),
	)
	return budget, &item, nil
}

// RemoveItem deletes the line and writes the recomputed totals in the same
// transaction.
func (s *budgetService) RemoveItem(ctx context.Context, budgetID string, itemID string, meta dto.RequestMeta) (*domain.Budget, error) {
	budget, items, err := s.GetBudget(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	if budget.IsLocked {
		return nil, fmt.Errorf("%w: budget %s", apperrors.ErrBudgetLocked, budgetID)
	}

	var removed *domain.BudgetItem
	remaining := make([]domain.BudgetItem, 0, len(items))
	for i := range items {
		if items[i].ItemID == itemID {
			removed = &items[i]
			continue
		}
		remaining = append(remaining, items[i])
	}
	if removed == nil {
		return nil, fmt.Errorf("%w: item %s does not belong to budget %s", apperrors.ErrNotFound, itemID, budgetID)
	}

	now := time.Now().UTC()
	totals := domain.ComputeTotals(remaining)
	expected := budget.Version
	if err := s.budgetRepo.DeleteItemWithTotals(ctx, budgetID, itemID, totals, expected, now); err != nil {
		return nil, err
	}

	budget.ApplyTotals(totals)
	budget.UpdatedAt = now
	budget.Version = expected + 1

	s.recordAudit(ctx, meta, "budget.item_removed", budget.BudgetID, removed, nil)
	return budget, nil
}

// TransitionStatus moves the budget along the status machine.
func (s *budgetService) TransitionStatus(ctx context.Context, budgetID string, req dto.TransitionBudgetStatusRequest, meta dto.RequestMeta) (*domain.Budget, error) {
	next := domain.BudgetStatus(req.Status)
	if !next.IsValid() || next == domain.BudgetDraft {
		return nil, fmt.Errorf("%w: %q is not a requestable status", apperrors.ErrValidation, req.Status)
	}

	budget, err := s.budgetRepo.FindBudgetByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, budget, next, req.Notes, meta)
}

// transition applies one status edge to an already-loaded budget.
func (s *budgetService) transition(ctx context.Context, budget *domain.Budget, next domain.BudgetStatus, notes string, meta dto.RequestMeta) (*domain.Budget, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	previous := budget.Status
	if !previous.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidTransition, previous, next)
	}

	now := time.Now().UTC()
	switch next {
	case domain.BudgetApproved:
		budget.Status = domain.BudgetApproved
		budget.IsLocked = true
		budget.ApprovalDate = &now
		budget.ApprovalNotes = notes
		budget.ApprovalIP = s.resolveApproverIP(ctx)
	case domain.BudgetRejected:
		budget.Status = domain.BudgetRejected
		budget.RejectionDate = &now
		budget.RejectionReason = notes
	default:
		budget.Status = next
	}

	expected := budget.Version
	budget.UpdatedAt = now
	budget.Version = expected + 1
	if err := s.budgetRepo.UpdateBudgetStatus(ctx, *budget, expected); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, meta, "budget.status_changed", budget.BudgetID,
		map[string]string{"status": string(previous)},
		map[string]string{"status": string(next)},
	)
	logger.Info("Budget status changed",
		slog.String("budget_id", budget.BudgetID),
		slog.String("from", string(previous)),
		slog.String("to", string(next)),
	)
	return budget, nil
}

// resolveApproverIP asks the collaborator for the approving party's public
// IP. A lookup failure must never block an approval, so any error collapses
// to the "unknown" sentinel.
func (s *budgetService) resolveApproverIP(ctx context.Context) string {
	if s.ipResolver == nil {
		return portsplat.UnknownIP
	}
	lookupCtx, cancel := context.WithTimeout(ctx, s.cfg.IPLookupTimeout)
	defer cancel()

	ip, err := s.ipResolver.ResolvePublicIP(lookupCtx)
	if err != nil || ip == "" {
		middleware.GetLoggerFromCtx(ctx).Warn("Public IP lookup failed; recording unknown",
			slog.Any("error", err))
		return portsplat.UnknownIP
	}
	return ip
}

// AppendComment persists a comment and applies the revision policy.
func (s *budgetService) AppendComment(ctx context.Context, budgetID string, req dto.AddCommentRequest, isAdminReply bool, meta dto.RequestMeta) (*domain.BudgetComment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: comment must not be empty", apperrors.ErrValidation)
	}

	budget, err := s.budgetRepo.FindBudgetByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}

	comment := domain.BudgetComment{
		CommentID:    uuid.NewString(),
		BudgetID:     budgetID,
		AuthorID:     meta.ActorID,
		Content:      content,
		IsAdminReply: isAdminReply,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.budgetRepo.SaveComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to save comment: %w", err)
	}

	// Named policy: a client asking questions on a sent budget pulls it back
	// into revision. Approved budgets stay locked regardless.
	if s.cfg.CommentsTriggerRevision && !isAdminReply && budget.Status == domain.BudgetSent {
		if _, err := s.transition(ctx, budget, domain.BudgetRevision, "", meta); err != nil {
			logger.Warn("Comment revision policy failed",
				slog.String("budget_id", budgetID),
				slog.String("error", err.Error()),
			)
		}
	}

	if s.notifier != nil {
		event := portsplat.CommentEvent{BudgetID: budgetID, CommentID: comment.CommentID}
		if err := s.notifier.PublishCommentAdded(ctx, event); err != nil {
			logger.Warn("Comment change notification failed",
				slog.String("budget_id", budgetID),
				slog.String("error", err.Error()),
			)
		}
	}

	return &comment, nil
}

// ListComments retrieves the budget's thread oldest first.
func (s *budgetService) ListComments(ctx context.Context, budgetID string) ([]domain.BudgetComment, error) {
	if _, err := s.budgetRepo.FindBudgetByID(ctx, budgetID); err != nil {
		return nil, err
	}
	return s.budgetRepo.FindCommentsByBudgetID(ctx, budgetID)
}

// recordAudit appends a trail entry. Failures are logged and swallowed; the
// trail never fails the operation it describes.
func (s *budgetService) recordAudit(ctx context.Context, meta dto.RequestMeta, action string, budgetID string, oldValues, newValues any) {
	if s.auditRepo == nil {
		return
	}
	entry := domain.AuditLog{
		LogID:      uuid.NewString(),
		ActorID:    meta.ActorID,
		Action:     action,
		EntityType: "budget",
		EntityID:   budgetID,
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
		CreatedAt:  time.Now().UTC(),
	}
	if oldValues != nil {
		if raw, err := json.Marshal(oldValues); err == nil {
			entry.OldValues = raw
		}
	}
	if newValues != nil {
		if raw, err := json.Marshal(newValues); err == nil {
			entry.NewValues = raw
		}
	}
	if err := s.auditRepo.SaveAuditLog(ctx, entry); err != nil && !errors.Is(err, context.Canceled) {
		middleware.GetLoggerFromCtx(ctx).Warn("Audit log write failed",
			slog.String("action", action),
			slog.String("budget_id", budgetID),
			slog.String("error", err.Error()),
		)
	}
}
