package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pedrootoniel/arsol-orcamento/internal/apperrors"
	"github.com/pedrootoniel/arsol-orcamento/internal/core/domain"
	portsrepo "github.com/pedrootoniel/arsol-orcamento/internal/core/ports/repositories"
)

type PgxPaymentRepository struct {
	pool *pgxpool.Pool
}

// newPgxPaymentRepository creates a new repository for the financial ledger.
func newPgxPaymentRepository(pool *pgxpool.Pool) portsrepo.PaymentRepositoryFacade {
	return &PgxPaymentRepository{pool: pool}
}

var _ portsrepo.PaymentRepositoryFacade = (*PgxPaymentRepository)(nil)

const paymentColumns = `payment_id, budget_id, description, amount, payment_method, status, due_date, payment_date, created_at, updated_at`

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var p domain.Payment
	var budgetID *string
	err := row.Scan(
		&p.PaymentID, &budgetID, &p.Description, &p.Amount, &p.Method, &p.Status,
		&p.DueDate, &p.PaymentDate, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if budgetID != nil {
		p.BudgetID = *budgetID
	}
	return &p, nil
}

func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE payment_id = $1;`
	payment, err := scanPayment(r.pool.QueryRow(ctx, query, paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: payment %s", apperrors.ErrNotFound, paymentID)
		}
		return nil, fmt.Errorf("failed to find payment %s: %w", paymentID, err)
	}
	return payment, nil
}

func (r *PgxPaymentRepository) ListPayments(ctx context.Context, filter portsrepo.ListPaymentsFilter, now time.Time) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE 1=1`
	args := []any{}
	argPos := 1

	// Overdue is a view over pending rows past due, not a stored status.
	switch filter.Status {
	case domain.PaymentOverdue:
		query += fmt.Sprintf(" AND status = 'pending' AND due_date IS NOT NULL AND due_date < $%d", argPos)
		args = append(args, now)
		argPos++
	case "":
	default:
		query += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, filter.Status)
		argPos++
	}

	switch filter.Period {
	case "overdue":
		query += fmt.Sprintf(" AND status = 'pending' AND due_date IS NOT NULL AND due_date < $%d", argPos)
		args = append(args, now)
		argPos++
	case "this_month":
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		query += fmt.Sprintf(" AND due_date >= $%d AND due_date < $%d", argPos, argPos+1)
		args = append(args, monthStart, monthStart.AddDate(0, 1, 0))
		argPos += 2
	case "next_30_days":
		query += fmt.Sprintf(" AND due_date >= $%d AND due_date < $%d", argPos, argPos+1)
		args = append(args, now, now.AddDate(0, 0, 30))
		argPos += 2
	}

	query += " ORDER BY due_date NULLS LAST, created_at"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argPos)
		args = append(args, filter.Limit)
		argPos++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argPos)
		args = append(args, filter.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, *payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payments: %w", err)
	}
	return payments, nil
}

func (r *PgxPaymentRepository) SummarizePayments(ctx context.Context, now time.Time) (*domain.PaymentsSummary, error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE status = 'pending'), 0),
			COALESCE(SUM(amount) FILTER (WHERE status = 'paid'), 0),
			COALESCE(SUM(amount) FILTER (WHERE status = 'pending' AND due_date IS NOT NULL AND due_date < $1), 0),
			COALESCE(SUM(amount) FILTER (WHERE status = 'pending' AND due_date >= $1 AND due_date < $2), 0)
		FROM payments;
	`
	var summary domain.PaymentsSummary
	err := r.pool.QueryRow(ctx, query, now, now.AddDate(0, 0, 30)).Scan(
		&summary.TotalReceivable, &summary.TotalReceived, &summary.TotalOverdue, &summary.DueNext30Days,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize payments: %w", err)
	}
	return &summary, nil
}

func (r *PgxPaymentRepository) SavePayment(ctx context.Context, payment domain.Payment) error {
	query := `
		INSERT INTO payments (payment_id, budget_id, description, amount, payment_method, status, due_date, payment_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.pool.Exec(ctx, query,
		payment.PaymentID, nullable(payment.BudgetID), payment.Description, payment.Amount,
		payment.Method, payment.Status, payment.DueDate, payment.PaymentDate,
		payment.CreatedAt, payment.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return fmt.Errorf("%w: budget %s does not exist", apperrors.ErrValidation, payment.BudgetID)
		}
		return fmt.Errorf("failed to save payment %s: %w", payment.PaymentID, err)
	}
	return nil
}

func (r *PgxPaymentRepository) MarkPaymentPaid(ctx context.Context, paymentID string, paidAt time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE payments SET status = 'paid', payment_date = $1, updated_at = $1 WHERE payment_id = $2;`,
		paidAt, paymentID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark payment %s paid: %w", paymentID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: payment %s", apperrors.ErrNotFound, paymentID)
	}
	return nil
}

func (r *PgxPaymentRepository) CancelPayment(ctx context.Context, paymentID string, now time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE payments SET status = 'cancelled', updated_at = $1 WHERE payment_id = $2;`,
		now, paymentID,
	)
	if err != nil {
		return fmt.Errorf("failed to cancel payment %s: %w", paymentID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: payment %s", apperrors.ErrNotFound, paymentID)
	}
	return nil
}
