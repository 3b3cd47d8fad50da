package services

import (
	"context"

	"github.com/pedrootoniel/arsol-orcamento/internal/core/domain"
	"github.com/pedrootoniel/arsol-orcamento/internal/dto"
)

// ServiceOrderSvcFacade exposes service order operations. Orders can only be
// opened from approved budgets.
type ServiceOrderSvcFacade interface {
	CreateOrder(ctx context.Context, req dto.CreateServiceOrderRequest, creatorUserID string) (*domain.ServiceOrder, error)
	GetOrderByID(ctx context.Context, orderID string) (*domain.ServiceOrder, error)
	ListOrders(ctx context.Context, params dto.ListOrdersParams) ([]domain.ServiceOrder, error)
	UpdateOrder(ctx context.Context, orderID string, req dto.UpdateServiceOrderRequest) (*domain.ServiceOrder, error)
	ChangeOrderStatus(ctx context.Context, orderID string, req dto.ChangeOrderStatusRequest) (*domain.ServiceOrder, error)
}
