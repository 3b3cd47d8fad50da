package pgsql

import (
	"context"
	"encoding/json"
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

type PgxBudgetRepository struct {
	BaseRepository
}

// newPgxBudgetRepository creates a new repository for budget data.
func newPgxBudgetRepository(pool *pgxpool.Pool) portsrepo.BudgetRepositoryFacade {
	return &PgxBudgetRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.BudgetRepositoryFacade = (*PgxBudgetRepository)(nil)

const budgetColumns = `budget_id, client_id, title, description, responsible, validity_date, status,
	total_materials, total_labor, total_additional, is_locked,
	approval_date, approval_notes, approval_ip, rejection_date, rejection_reason,
	version, created_at, updated_at`

// scanBudget reads one budget row in budgetColumns order.
func scanBudget(row pgx.Row) (*domain.Budget, error) {
	var b domain.Budget
	var clientID, description, responsible, approvalNotes, approvalIP, rejectionReason *string
	err := row.Scan(
		&b.BudgetID, &clientID, &b.Title, &description, &responsible, &b.ValidityDate, &b.Status,
		&b.TotalMaterials, &b.TotalLabor, &b.TotalAdditional, &b.IsLocked,
		&b.ApprovalDate, &approvalNotes, &approvalIP, &b.RejectionDate, &rejectionReason,
		&b.Version, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if clientID != nil {
		b.ClientID = *clientID
	}
	if description != nil {
		b.Description = *description
	}
	if responsible != nil {
		b.Responsible = *responsible
	}
	if approvalNotes != nil {
		b.ApprovalNotes = *approvalNotes
	}
	if approvalIP != nil {
		b.ApprovalIP = *approvalIP
	}
	if rejectionReason != nil {
		b.RejectionReason = *rejectionReason
	}
	return &b, nil
}

func (r *PgxBudgetRepository) FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE budget_id = $1;`
	budget, err := scanBudget(r.Pool.QueryRow(ctx, query, budgetID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: budget %s", apperrors.ErrNotFound, budgetID)
		}
		return nil, fmt.Errorf("failed to find budget %s: %w", budgetID, err)
	}
	return budget, nil
}

func (r *PgxBudgetRepository) FindItemsByBudgetID(ctx context.Context, budgetID string) ([]domain.BudgetItem, error) {
	query := `
		SELECT item_id, budget_id, description, quantity, unit, unit_price, category, technical_specs, created_at
		FROM budget_items
		WHERE budget_id = $1
		ORDER BY created_at, item_id;
	`
	rows, err := r.Pool.Query(ctx, query, budgetID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items for budget %s: %w", budgetID, err)
	}
	defer rows.Close()

	var items []domain.BudgetItem
	for rows.Next() {
		var item domain.BudgetItem
		var unit *string
		var specs []byte
		if err := rows.Scan(&item.ItemID, &item.BudgetID, &item.Description, &item.Quantity,
			&unit, &item.UnitPrice, &item.Category, &specs, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan budget item: %w", err)
		}
		if unit != nil {
			item.Unit = *unit
		}
		if len(specs) > 0 {
			if err := json.Unmarshal(specs, &item.TechnicalSpecs); err != nil {
				return nil, fmt.Errorf("failed to decode technical specs for item %s: %w", item.ItemID, err)
			}
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budget items: %w", err)
	}
	return items, nil
}

func (r *PgxBudgetRepository) ListBudgets(ctx context.Context, filter portsrepo.ListBudgetsFilter) ([]domain.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE 1=1`
	args := []any{}
	argPos := 1

	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, filter.Status)
		argPos++
	}
	if filter.ClientID != "" {
		query += fmt.Sprintf(" AND client_id = $%d", argPos)
		args = append(args, filter.ClientID)
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

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []domain.Budget
	for rows.Next() {
		budget, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, *budget)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budgets: %w", err)
	}
	return budgets, nil
}

func (r *PgxBudgetRepository) SaveBudget(ctx context.Context, budget domain.Budget) error {
	query := `
		INSERT INTO budgets (budget_id, client_id, title, description, responsible, validity_date, status,
			total_materials, total_labor, total_additional, is_locked, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		budget.BudgetID, nullable(budget.ClientID), budget.Title, budget.Description, budget.Responsible,
		budget.ValidityDate, budget.Status,
		budget.TotalMaterials, budget.TotalLabor, budget.TotalAdditional,
		budget.IsLocked, budget.Version, budget.CreatedAt, budget.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return fmt.Errorf("%w: budget %s already exists", apperrors.ErrDuplicate, budget.BudgetID)
			case "23503":
				return fmt.Errorf("%w: client %s does not exist", apperrors.ErrValidation, budget.ClientID)
			}
		}
		return fmt.Errorf("failed to save budget %s: %w", budget.BudgetID, err)
	}
	return nil
}

func (r *PgxBudgetRepository) UpdateBudgetDetails(ctx context.Context, budget domain.Budget, expectedVersion int64) error {
	query := `
		UPDATE budgets
		SET client_id = $1, title = $2, description = $3, responsible = $4, validity_date = $5,
			version = $6, updated_at = $7
		WHERE budget_id = $8 AND version = $9;
	`
	tag, err := r.Pool.Exec(ctx, query,
		nullable(budget.ClientID), budget.Title, budget.Description, budget.Responsible, budget.ValidityDate,
		budget.Version, budget.UpdatedAt, budget.BudgetID, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update budget %s: %w", budget.BudgetID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.staleOrMissing(ctx, budget.BudgetID)
	}
	return nil
}

func (r *PgxBudgetRepository) UpdateBudgetStatus(ctx context.Context, budget domain.Budget, expectedVersion int64) error {
	query := `
		UPDATE budgets
		SET status = $1, is_locked = $2,
			approval_date = $3, approval_notes = $4, approval_ip = $5,
			rejection_date = $6, rejection_reason = $7,
			version = $8, updated_at = $9
		WHERE budget_id = $10 AND version = $11;
	`
	tag, err := r.Pool.Exec(ctx, query,
		budget.Status, budget.IsLocked,
		budget.ApprovalDate, nullable(budget.ApprovalNotes), nullable(budget.ApprovalIP),
		budget.RejectionDate, nullable(budget.RejectionReason),
		budget.Version, budget.UpdatedAt, budget.BudgetID, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update status of budget %s: %w", budget.BudgetID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.staleOrMissing(ctx, budget.BudgetID)
	}
	return nil
}

// SaveItemWithTotals inserts the item and writes the new totals in one
// transaction so the totals columns never drift from the item rows.
func (r *PgxBudgetRepository) SaveItemWithTotals(ctx context.Context, item domain.BudgetItem, totals domain.BudgetTotals, expectedVersion int64, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	var specs []byte
	if len(item.TechnicalSpecs) > 0 {
		specs, err = json.Marshal(item.TechnicalSpecs)
		if err != nil {
			return fmt.Errorf("failed to encode technical specs: %w", err)
		}
	}

	insertQuery := `
		INSERT INTO budget_items (item_id, budget_id, description, quantity, unit, unit_price, category, technical_specs, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	if _, err := tx.Exec(ctx, insertQuery,
		item.ItemID, item.BudgetID, item.Description, item.Quantity,
		nullable(item.Unit), item.UnitPrice, item.Category, specs, item.CreatedAt,
	); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return fmt.Errorf("%w: budget %s", apperrors.ErrNotFound, item.BudgetID)
		}
		return fmt.Errorf("failed to insert item for budget %s: %w", item.BudgetID, err)
	}

	if err := r.updateTotalsTx(ctx, tx, item.BudgetID, totals, expectedVersion, now); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// DeleteItemWithTotals deletes the item scoped to its budget and writes the
// new totals in one transaction.
func (r *PgxBudgetRepository) DeleteItemWithTotals(ctx context.Context, budgetID string, itemID string, totals domain.BudgetTotals, expectedVersion int64, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	tag, err := tx.Exec(ctx, `DELETE FROM budget_items WHERE item_id = $1 AND budget_id = $2;`, itemID, budgetID)
	if err != nil {
		return fmt.Errorf("failed to delete item %s: %w", itemID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: item %s does not belong to budget %s", apperrors.ErrNotFound, itemID, budgetID)
	}

	if err := r.updateTotalsTx(ctx, tx, budgetID, totals, expectedVersion, now); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// updateTotalsTx writes the recomputed totals with a version compare-and-swap.
func (r *PgxBudgetRepository) updateTotalsTx(ctx context.Context, tx pgx.Tx, budgetID string, totals domain.BudgetTotals, expectedVersion int64, now time.Time) error {
	query := `
		UPDATE budgets
		SET total_materials = $1, total_labor = $2, total_additional = $3,
			version = version + 1, updated_at = $4
		WHERE budget_id = $5 AND version = $6;
	`
	tag, err := tx.Exec(ctx, query,
		totals.Materials, totals.Labor, totals.Additional, now, budgetID, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update totals of budget %s: %w", budgetID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.staleOrMissing(ctx, budgetID)
	}
	return nil
}

// staleOrMissing distinguishes a lost compare-and-swap from a deleted row.
func (r *PgxBudgetRepository) staleOrMissing(ctx context.Context, budgetID string) error {
	var exists bool
	err := r.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM budgets WHERE budget_id = $1);`, budgetID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check budget %s: %w", budgetID, err)
	}
	if exists {
		return fmt.Errorf("%w: budget %s was modified concurrently", apperrors.ErrConflict, budgetID)
	}
	return fmt.Errorf("%w: budget %s", apperrors.ErrNotFound, budgetID)
}

func (r *PgxBudgetRepository) DeleteBudget(ctx context.Context, budgetID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM budgets WHERE budget_id = $1;`, budgetID)
	if err != nil {
		return fmt.Errorf("failed to delete budget %s: %w", budgetID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: budget %s", apperrors.ErrNotFound, budgetID)
	}
	return nil
}

func (r *PgxBudgetRepository) SaveComment(ctx context.Context, comment domain.BudgetComment) error {
	query := `
		INSERT INTO budget_comments (comment_id, budget_id, author_id, content, is_admin_reply, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := r.Pool.Exec(ctx, query,
		comment.CommentID, comment.BudgetID, nullable(comment.AuthorID),
		comment.Content, comment.IsAdminReply, comment.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return fmt.Errorf("%w: budget %s", apperrors.ErrNotFound, comment.BudgetID)
		}
		return fmt.Errorf("failed to save comment on budget %s: %w", comment.BudgetID, err)
	}
	return nil
}

func (r *PgxBudgetRepository) FindCommentsByBudgetID(ctx context.Context, budgetID string) ([]domain.BudgetComment, error) {
	// Author may be an internal user or a portal client; resolve whichever
	// register knows the ID.
	query := `
		SELECT bc.comment_id, bc.budget_id, bc.author_id, COALESCE(u.full_name, c.name, ''),
			bc.content, bc.is_admin_reply, bc.created_at
		FROM budget_comments bc
		LEFT JOIN internal_users u ON u.user_id = bc.author_id
		LEFT JOIN clients c ON c.client_id = bc.author_id
		WHERE bc.budget_id = $1
		ORDER BY bc.created_at, bc.comment_id;
	`
	rows, err := r.Pool.Query(ctx, query, budgetID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments for budget %s: %w", budgetID, err)
	}
	defer rows.Close()

	var comments []domain.BudgetComment
	for rows.Next() {
		var comment domain.BudgetComment
		var authorID *string
		if err := rows.Scan(&comment.CommentID, &comment.BudgetID, &authorID, &comment.AuthorName,
			&comment.Content, &comment.IsAdminReply, &comment.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		if authorID != nil {
			comment.AuthorID = *authorID
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}
	return comments, nil
}

// nullable maps an empty string to NULL for optional foreign keys and text.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
