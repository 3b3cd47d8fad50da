package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the collection state of a receivable.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	// PaymentOverdue is computed from the due date, never stored.
	PaymentOverdue   PaymentStatus = "overdue"
	PaymentCancelled PaymentStatus = "cancelled"
)

// PaymentMethod is how a payment is settled.
type PaymentMethod string

const (
	MethodPix        PaymentMethod = "pix"
	MethodTransfer   PaymentMethod = "transfer"
	MethodBoleto     PaymentMethod = "boleto"
	MethodCreditCard PaymentMethod = "credit_card"
	MethodCash       PaymentMethod = "cash"
)

// IsValid reports whether m is a known payment method.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case MethodPix, MethodTransfer, MethodBoleto, MethodCreditCard, MethodCash:
		return true
	}
	return false
}

// Payment is one receivable of the financial ledger, usually tied to a budget.
type Payment struct {
	PaymentID   string          `json:"id"`
	BudgetID    string          `json:"budget_id,omitempty"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Method      PaymentMethod   `json:"payment_method"`
	Status      PaymentStatus   `json:"status"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
	PaymentDate *time.Time      `json:"payment_date,omitempty"`
	AuditFields
}

// EffectiveStatus reads a pending payment past its due date as overdue.
func (p *Payment) EffectiveStatus(now time.Time) PaymentStatus {
	if p.Status == PaymentPending && p.DueDate != nil && now.After(*p.DueDate) {
		return PaymentOverdue
	}
	return p.Status
}
