package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pedrootoniel/arsol-orcamento/internal/apperrors"
	"github.com/pedrootoniel/arsol-orcamento/internal/core/domain"
	portsrepo "github.com/pedrootoniel/arsol-orcamento/internal/core/ports/repositories"
	portssvc "github.com/pedrootoniel/arsol-orcamento/internal/core/ports/services"
	"github.com/pedrootoniel/arsol-orcamento/internal/dto"
)

type paymentService struct {
	paymentRepo portsrepo.PaymentRepositoryFacade
	budgetRepo  portsrepo.BudgetReader
}

// NewPaymentService creates the financial ledger service.
func NewPaymentService(paymentRepo portsrepo.PaymentRepositoryFacade, budgetRepo portsrepo.BudgetReader) portssvc.PaymentSvcFacade {
	return &paymentService{paymentRepo: paymentRepo, budgetRepo: budgetRepo}
}

var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

func (s *paymentService) CreatePayment(ctx context.Context, req dto.CreatePaymentRequest) (*domain.Payment, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	method := domain.PaymentMethod(req.Method)
	if !method.IsValid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", apperrors.ErrValidation, req.Method)
	}
	if req.BudgetID != "" {
		if _, err := s.budgetRepo.FindBudgetByID(ctx, req.BudgetID); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	payment := domain.Payment{
		PaymentID:   uuid.NewString(),
		BudgetID:    req.BudgetID,
		Description: req.Description,
		Amount:      req.Amount,
		Method:      method,
		Status:      domain.PaymentPending,
		DueDate:     req.DueDate,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	if err := s.paymentRepo.SavePayment(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to save payment: %w", err)
	}
	return &payment, nil
}

func (s *paymentService) GetPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	return s.paymentRepo.FindPaymentByID(ctx, paymentID)
}

func (s *paymentService) ListPayments(ctx context.Context, params dto.ListPaymentsParams) ([]domain.Payment, error) {
	filter := portsrepo.ListPaymentsFilter{
		Period: params.Period,
		Limit:  params.Limit,
		Offset: params.Offset,
	}
	if params.Status != "" {
		switch status := domain.PaymentStatus(params.Status); status {
		case domain.PaymentPending, domain.PaymentPaid, domain.PaymentOverdue, domain.PaymentCancelled:
			filter.Status = status
		default:
			return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, params.Status)
		}
	}
	return s.paymentRepo.ListPayments(ctx, filter, time.Now().UTC())
}

func (s *paymentService) MarkPaid(ctx context.Context, paymentID string) (*domain.Payment, error) {
	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.Status == domain.PaymentPaid {
		return payment, nil
	}
	if payment.Status == domain.PaymentCancelled {
		return nil, fmt.Errorf("%w: cancelled payments cannot be settled", apperrors.ErrInvalidTransition)
	}

	now := time.Now().UTC()
	if err := s.paymentRepo.MarkPaymentPaid(ctx, paymentID, now); err != nil {
		return nil, err
	}
	payment.Status = domain.PaymentPaid
	payment.PaymentDate = &now
	payment.UpdatedAt = now
	return payment, nil
}

func (s *paymentService) CancelPayment(ctx context.Context, paymentID string) error {
	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return err
	}
	if payment.Status == domain.PaymentPaid {
		return fmt.Errorf("%w: settled payments cannot be cancelled", apperrors.ErrInvalidTransition)
	}
	return s.paymentRepo.CancelPayment(ctx, paymentID, time.Now().UTC())
}

func (s *paymentService) Summary(ctx context.Context) (*domain.PaymentsSummary, error) {
	return s.paymentRepo.SummarizePayments(ctx, time.Now().UTC())
}
