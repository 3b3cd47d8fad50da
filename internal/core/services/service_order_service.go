package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pedrootoniel/arsol-orcamento/internal/apperrors"
	"github.com/pedrootoniel/arsol-orcamento/internal/core/domain"
	portsrepo "github.com/pedrootoniel/arsol-orcamento/internal/core/ports/repositories"
	portssvc "github.com/pedrootoniel/arsol-orcamento/internal/core/ports/services"
	"github.com/pedrootoniel/arsol-orcamento/internal/dto"
	"github.com/pedrootoniel/arsol-orcamento/internal/middleware"
)

type serviceOrderService struct {
	orderRepo  portsrepo.ServiceOrderRepositoryFacade
	budgetRepo portsrepo.BudgetReader
}

// NewServiceOrderService creates the service order service.
func NewServiceOrderService(orderRepo portsrepo.ServiceOrderRepositoryFacade, budgetRepo portsrepo.BudgetReader) portssvc.ServiceOrderSvcFacade {
	return &serviceOrderService{orderRepo: orderRepo, budgetRepo: budgetRepo}
}

var _ portssvc.ServiceOrderSvcFacade = (*serviceOrderService)(nil)

// CreateOrder opens an execution record for an approved budget. The order
// number is reserved from the per-year sequence.
func (s *serviceOrderService) CreateOrder(ctx context.Context, req dto.CreateServiceOrderRequest, creatorUserID string) (*domain.ServiceOrder, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	budget, err := s.budgetRepo.FindBudgetByID(ctx, req.BudgetID)
	if err != nil {
		return nil, err
	}
	if budget.Status != domain.BudgetApproved {
		return nil, fmt.Errorf("%w: budget %s is %s, only approved budgets open orders",
			apperrors.ErrValidation, budget.BudgetID, budget.Status)
	}

	now := time.Now().UTC()
	orderNumber, err := s.orderRepo.NextOrderNumber(ctx, now.Year())
	if err != nil {
		return nil, fmt.Errorf("failed to reserve order number: %w", err)
	}

	order := domain.ServiceOrder{
		OrderID:       uuid.NewString(),
		OrderNumber:   orderNumber,
		BudgetID:      budget.BudgetID,
		ClientID:      budget.ClientID,
		TechnicianID:  req.TechnicianID,
		Status:        domain.OrderPending,
		ScheduledDate: req.ScheduledDate,
		Description:   req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	if order.Description == "" {
		order.Description = budget.Title
	}

	if err := s.orderRepo.SaveOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to save service order: %w", err)
	}
	logger.Info("Service order opened",
		slog.String("order_id", order.OrderID),
		slog.String("order_number", orderNumber),
		slog.String("budget_id", budget.BudgetID),
		slog.String("created_by", creatorUserID),
	)
	return &order, nil
}

func (s *serviceOrderService) GetOrderByID(ctx context.Context, orderID string) (*domain.ServiceOrder, error) {
	return s.orderRepo.FindOrderByID(ctx, orderID)
}

func (s *serviceOrderService) ListOrders(ctx context.Context, params dto.ListOrdersParams) ([]domain.ServiceOrder, error) {
	filter := portsrepo.ListOrdersFilter{
		Search: params.Search,
		Limit:  params.Limit,
		Offset: params.Offset,
	}
	if params.Status != "" {
		status := domain.ServiceOrderStatus(params.Status)
		if !status.IsValid() {
			return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, params.Status)
		}
		filter.Status = status
	}
	return s.orderRepo.ListOrders(ctx, filter)
}

func (s *serviceOrderService) UpdateOrder(ctx context.Context, orderID string, req dto.UpdateServiceOrderRequest) (*domain.ServiceOrder, error) {
	order, err := s.orderRepo.FindOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if req.TechnicianID != nil {
		order.TechnicianID = *req.TechnicianID
	}
	if req.ScheduledDate != nil {
		order.ScheduledDate = req.ScheduledDate
	}
	if req.Description != nil {
		order.Description = *req.Description
	}
	if req.Notes != nil {
		order.Notes = *req.Notes
	}

	order.UpdatedAt = time.Now().UTC()
	if err := s.orderRepo.UpdateOrder(ctx, *order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *serviceOrderService) ChangeOrderStatus(ctx context.Context, orderID string, req dto.ChangeOrderStatusRequest) (*domain.ServiceOrder, error) {
	next := domain.ServiceOrderStatus(req.Status)
	if !next.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, req.Status)
	}

	order, err := s.orderRepo.FindOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidTransition, order.Status, next)
	}

	order.Status = next
	if req.Notes != "" {
		order.Notes = req.Notes
	}
	order.UpdatedAt = time.Now().UTC()
	if err := s.orderRepo.UpdateOrder(ctx, *order); err != nil {
		return nil, err
	}
	return order, nil
}
