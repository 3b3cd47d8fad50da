package domain

import "time"

// ServiceOrderStatus is the execution state of a service order.
type ServiceOrderStatus string

const (
	OrderPending    ServiceOrderStatus = "pending"
	OrderInProgress ServiceOrderStatus = "in_progress"
	OrderCompleted  ServiceOrderStatus = "completed"
	OrderCancelled  ServiceOrderStatus = "cancelled"
)

var orderTransitions = map[ServiceOrderStatus][]ServiceOrderStatus{
	OrderPending:    {OrderInProgress, OrderCancelled},
	OrderInProgress: {OrderCompleted, OrderCancelled},
	OrderCompleted:  {},
	OrderCancelled:  {},
}

// IsValid reports whether s is a known service order status.
func (s ServiceOrderStatus) IsValid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s ServiceOrderStatus) CanTransitionTo(next ServiceOrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ServiceOrder is the execution record opened from an approved budget.
type ServiceOrder struct {
	OrderID       string             `json:"id"`
	OrderNumber   string             `json:"order_number"` // e.g. OS-2026-0042
	BudgetID      string             `json:"budget_id"`
	ClientID      string             `json:"client_id"`
	TechnicianID  string             `json:"technician_id,omitempty"` // FK -> internal user
	Status        ServiceOrderStatus `json:"status"`
	ScheduledDate *time.Time         `json:"scheduled_date,omitempty"`
	Description   string             `json:"description"`
	Notes         string             `json:"notes"`
	AuditFields
}
