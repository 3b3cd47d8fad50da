package dto

import (
	"time"

	"github.com/pedrootoniel/arsol-orcamento/internal/core/domain"
)

// CreateServiceOrderRequest opens a service order from an approved budget.
type CreateServiceOrderRequest struct {
	BudgetID      string     `json:"budget_id" binding:"required"`
	TechnicianID  string     `json:"technician_id"`
	ScheduledDate *time.Time `json:"scheduled_date"`
	Description   string     `json:"description"`
}

// UpdateServiceOrderRequest defines the fields open for update.
type UpdateServiceOrderRequest struct {
	TechnicianID  *string    `json:"technician_id"`
	ScheduledDate *time.Time `json:"scheduled_date"`
	Description   *string    `json:"description"`
	Notes         *string    `json:"notes"`
}

// ChangeOrderStatusRequest asks for a service order status change.
type ChangeOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=in_progress completed cancelled"`
	Notes  string `json:"notes"`
}

// ListOrdersParams defines query parameters for listing service orders.
type ListOrdersParams struct {
	Search string `form:"search"`
	Status string `form:"status"`
	Limit  int    `form:"limit,default=20"`
	Offset int    `form:"offset,default=0"`
}

// ServiceOrderResponse defines the data returned for a service order.
type ServiceOrderResponse struct {
	ID            string     `json:"id"`
	OrderNumber   string     `json:"order_number"`
	BudgetID      string     `json:"budget_id"`
	ClientID      string     `json:"client_id"`
	TechnicianID  string     `json:"technician_id,omitempty"`
	Status        string     `json:"status"`
	ScheduledDate *time.Time `json:"scheduled_date,omitempty"`
	Description   string     `json:"description"`
	Notes         string     `json:"notes"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ToServiceOrderResponse converts a domain.ServiceOrder to its DTO.
func ToServiceOrderResponse(o *domain.ServiceOrder) ServiceOrderResponse {
	return ServiceOrderResponse{
		ID:            o.OrderID,
		OrderNumber:   o.OrderNumber,
		BudgetID:      o.BudgetID,
		ClientID:      o.ClientID,
		TechnicianID:  o.TechnicianID,
		Status:        string(o.Status),
		ScheduledDate: o.ScheduledDate,
		Description:   o.Description,
		Notes:         o.Notes,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

// ToListOrdersResponse converts a service order slice to response DTOs.
func ToListOrdersResponse(orders []domain.ServiceOrder) []ServiceOrderResponse {
	responses := make([]ServiceOrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToServiceOrderResponse(&orders[i])
	}
	return responses
}
