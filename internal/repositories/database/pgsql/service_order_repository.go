package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pedrootoniel/arsol-orcamento/internal/apperrors"
	"github.com/pedrootoniel/arsol-orcamento/internal/core/domain"
	portsrepo "github.com/pedrootoniel/arsol-orcamento/internal/core/ports/repositories"
)

type PgxServiceOrderRepository struct {
	pool *pgxpool.Pool
}

// newPgxServiceOrderRepository creates a new repository for service orders.
func newPgxServiceOrderRepository(pool *pgxpool.Pool) portsrepo.ServiceOrderRepositoryFacade {
	return &PgxServiceOrderRepository{pool: pool}
}

var _ portsrepo.ServiceOrderRepositoryFacade = (*PgxServiceOrderRepository)(nil)

const orderColumns = `order_id, order_number, budget_id, client_id, technician_id, status, scheduled_date, description, notes, created_at, updated_at`

func scanOrder(row pgx.Row) (*domain.ServiceOrder, error) {
	var o domain.ServiceOrder
	var technicianID, clientID *string
	err := row.Scan(
		&o.OrderID, &o.OrderNumber, &o.BudgetID, &clientID, &technicianID, &o.Status,
		&o.ScheduledDate, &o.Description, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if clientID != nil {
		o.ClientID = *clientID
	}
	if technicianID != nil {
		o.TechnicianID = *technicianID
	}
	return &o, nil
}

func (r *PgxServiceOrderRepository) FindOrderByID(ctx context.Context, orderID string) (*domain.ServiceOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM service_orders WHERE order_id = $1;`
	order, err := scanOrder(r.pool.QueryRow(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: service order %s", apperrors.ErrNotFound, orderID)
		}
		return nil, fmt.Errorf("failed to find service order %s: %w", orderID, err)
	}
	return order, nil
}

func (r *PgxServiceOrderRepository) ListOrders(ctx context.Context, filter portsrepo.ListOrdersFilter) ([]domain.ServiceOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM service_orders WHERE 1=1`
	args := []any{}
	argPos := 1

	if filter.Search != "" {
		query += fmt.Sprintf(" AND (order_number ILIKE $%d OR description ILIKE $%d)", argPos, argPos)
		args = append(args, "%"+filter.Search+"%")
		argPos++
	}
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, filter.Status)
		argPos++
	}
	query += " ORDER BY created_at DESC"
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
		return nil, fmt.Errorf("failed to list service orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.ServiceOrder
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service order: %w", err)
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating service orders: %w", err)
	}
	return orders, nil
}

// NextOrderNumber reserves the next number from the per-year sequence and
// formats it as OS-<year>-<seq>, zero padded to four digits.
func (r *PgxServiceOrderRepository) NextOrderNumber(ctx context.Context, year int) (string, error) {
	query := `
		INSERT INTO service_order_sequences (year, last_value)
		VALUES ($1, 1)
		ON CONFLICT (year) DO UPDATE SET last_value = service_order_sequences.last_value + 1
		RETURNING last_value;
	`
	var seq int64
	if err := r.pool.QueryRow(ctx, query, year).Scan(&seq); err != nil {
		return "", fmt.Errorf("failed to advance order sequence for %d: %w", year, err)
	}
	return fmt.Sprintf("OS-%d-%04d", year, seq), nil
}

func (r *PgxServiceOrderRepository) SaveOrder(ctx context.Context, order domain.ServiceOrder) error {
	query := `
		INSERT INTO service_orders (order_id, order_number, budget_id, client_id, technician_id, status, scheduled_date, description, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.pool.Exec(ctx, query,
		order.OrderID, order.OrderNumber, order.BudgetID, nullable(order.ClientID), nullable(order.TechnicianID),
		order.Status, order.ScheduledDate, order.Description, order.Notes, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return fmt.Errorf("%w: order number %s already exists", apperrors.ErrDuplicate, order.OrderNumber)
			case "23503":
				return fmt.Errorf("%w: budget or technician reference is invalid", apperrors.ErrValidation)
			}
		}
		return fmt.Errorf("failed to save service order %s: %w", order.OrderID, err)
	}
	return nil
}

func (r *PgxServiceOrderRepository) UpdateOrder(ctx context.Context, order domain.ServiceOrder) error {
	query := `
		UPDATE service_orders
		SET technician_id = $1, status = $2, scheduled_date = $3, description = $4, notes = $5, updated_at = $6
		WHERE order_id = $7;
	`
	tag, err := r.pool.Exec(ctx, query,
		nullable(order.TechnicianID), order.Status, order.ScheduledDate,
		order.Description, order.Notes, order.UpdatedAt, order.OrderID,
	)
	if err != nil {
		return fmt.Errorf("failed to update service order %s: %w", order.OrderID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: service order %s", apperrors.ErrNotFound, order.OrderID)
	}
	return nil
}
