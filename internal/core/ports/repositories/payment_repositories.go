package repositories

import (
	"context"
	"time"

	"github.com/pedrootoniel/arsol-orcamento/internal/core/domain"
)

// ListPaymentsFilter narrows a payment listing. Period filters mirror the
// ledger screen: overdue, this_month, next_30_days.
type ListPaymentsFilter struct {
	Status domain.PaymentStatus
	Period string
	Limit  int
	Offset int
}

// PaymentReader defines read operations for the financial ledger.
type PaymentReader interface {
	FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)

	// ListPayments retrieves payments ordered by due date ascending.
	ListPayments(ctx context.Context, filter ListPaymentsFilter, now time.Time) ([]domain.Payment, error)

	// SummarizePayments computes the ledger header sums as of now.
	SummarizePayments(ctx context.Context, now time.Time) (*domain.PaymentsSummary, error)
}

// PaymentWriter defines write operations for the financial ledger.
type PaymentWriter interface {
	SavePayment(ctx context.Context, payment domain.Payment) error

	// MarkPaymentPaid stamps the payment date and flips status to paid.
	MarkPaymentPaid(ctx context.Context, paymentID string, paidAt time.Time) error

	CancelPayment(ctx context.Context, paymentID string, now time.Time) error
}

// PaymentRepositoryFacade combines all payment repository interfaces.
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentWriter
}
