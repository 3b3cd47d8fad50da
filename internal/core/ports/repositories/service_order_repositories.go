package repositories

import (
	"context"

	"github.com/pedrootoniel/arsol-orcamento/internal/core/domain"
)

// ListOrdersFilter narrows a service order listing.
type ListOrdersFilter struct {
	Search string // matches order number or description
	Status domain.ServiceOrderStatus
	Limit  int
	Offset int
}

// ServiceOrderReader defines read operations for service orders.
type ServiceOrderReader interface {
	FindOrderByID(ctx context.Context, orderID string) (*domain.ServiceOrder, error)
	ListOrders(ctx context.Context, filter ListOrdersFilter) ([]domain.ServiceOrder, error)
}

// ServiceOrderWriter defines write operations for service orders.
type ServiceOrderWriter interface {
	// NextOrderNumber reserves the next sequential order number for the year.
	NextOrderNumber(ctx context.Context, year int) (string, error)

	SaveOrder(ctx context.Context, order domain.ServiceOrder) error
	UpdateOrder(ctx context.Context, order domain.ServiceOrder) error
}

// ServiceOrderRepositoryFacade combines all service order repository interfaces.
type ServiceOrderRepositoryFacade interface {
	ServiceOrderReader
	ServiceOrderWriter
}
