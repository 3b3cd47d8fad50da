package dto

import (
	"time"

	"github.com/pedrootoniel/arsol-orcamento/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreatePaymentRequest registers one receivable on the ledger.
type CreatePaymentRequest struct {
	BudgetID    string          `json:"budget_id"`
	Description string          `json:"description" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Method      string          `json:"payment_method" binding:"required,oneof=pix transfer boleto credit_card cash"`
	DueDate     *time.Time      `json:"due_date"`
}

// ListPaymentsParams defines query parameters for the ledger listing.
type ListPaymentsParams struct {
	Status string `form:"status"`
	Period string `form:"period" binding:"omitempty,oneof=overdue this_month next_30_days"`
	Limit  int    `form:"limit,default=50"`
	Offset int    `form:"offset,default=0"`
}

// PaymentResponse defines the data returned for a payment.
type PaymentResponse struct {
	ID              string          `json:"id"`
	BudgetID        string          `json:"budget_id,omitempty"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	Method          string          `json:"payment_method"`
	Status          string          `json:"status"`
	EffectiveStatus string          `json:"effective_status"`
	DueDate         *time.Time      `json:"due_date,omitempty"`
	PaymentDate     *time.Time      `json:"payment_date,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ToPaymentResponse converts a domain.Payment to PaymentResponse.
func ToPaymentResponse(p *domain.Payment, now time.Time) PaymentResponse {
	return PaymentResponse{
		ID:              p.PaymentID,
		BudgetID:        p.BudgetID,
		Description:     p.Description,
		Amount:          p.Amount,
		Method:          string(p.Method),
		Status:          string(p.Status),
		EffectiveStatus: string(p.EffectiveStatus(now)),
		DueDate:         p.DueDate,
		PaymentDate:     p.PaymentDate,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// ToListPaymentsResponse converts a payment slice to response DTOs.
func ToListPaymentsResponse(payments []domain.Payment, now time.Time) []PaymentResponse {
	responses := make([]PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = ToPaymentResponse(&payments[i], now)
	}
	return responses
}
