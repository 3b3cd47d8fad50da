package services

import (
	"context"

	"github.com/pedrootoniel/arsol-orcamento/internal/core/domain"
	"github.com/pedrootoniel/arsol-orcamento/internal/dto"
)

// PaymentSvcFacade exposes the financial ledger operations.
type PaymentSvcFacade interface {
	CreatePayment(ctx context.Context, req dto.CreatePaymentRequest) (*domain.Payment, error)
	GetPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)
	ListPayments(ctx context.Context, params dto.ListPaymentsParams) ([]domain.Payment, error)
	MarkPaid(ctx context.Context, paymentID string) (*domain.Payment, error)
	CancelPayment(ctx context.Context, paymentID string) error
	Summary(ctx context.Context) (*domain.PaymentsSummary, error)
}
