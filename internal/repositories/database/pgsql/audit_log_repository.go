package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pedrootoniel/arsol-orcamento/internal/core/domain"
	portsrepo "github.com/pedrootoniel/arsol-orcamento/internal/core/ports/repositories"
)

type PgxAuditLogRepository struct {
	pool *pgxpool.Pool
}

// newPgxAuditLogRepository creates the append-only audit trail store.
func newPgxAuditLogRepository(pool *pgxpool.Pool) portsrepo.AuditLogRepository {
	return &PgxAuditLogRepository{pool: pool}
}

var _ portsrepo.AuditLogRepository = (*PgxAuditLogRepository)(nil)

func (r *PgxAuditLogRepository) SaveAuditLog(ctx context.Context, entry domain.AuditLog) error {
	query := `
		INSERT INTO audit_logs (log_id, user_id, action, entity_type, entity_id, old_values, new_values, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.pool.Exec(ctx, query,
		entry.LogID, nullable(entry.ActorID), entry.Action, entry.EntityType, entry.EntityID,
		entry.OldValues, entry.NewValues, nullable(entry.IPAddress), nullable(entry.UserAgent), entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save audit log entry: %w", err)
	}
	return nil
}

func (r *PgxAuditLogRepository) ListAuditLogsByEntity(ctx context.Context, entityType string, entityID string, limit int) ([]domain.AuditLog, error) {
	query := `
		SELECT log_id, user_id, action, entity_type, entity_id, old_values, new_values, ip_address, user_agent, created_at
		FROM audit_logs
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at DESC
		LIMIT $3;
	`
	rows, err := r.pool.Query(ctx, query, entityType, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit logs: %w", err)
	}
	defer rows.Close()

	var entries []domain.AuditLog
	for rows.Next() {
		var entry domain.AuditLog
		var actorID, ipAddress, userAgent *string
		if err := rows.Scan(&entry.LogID, &actorID, &entry.Action, &entry.EntityType, &entry.EntityID,
			&entry.OldValues, &entry.NewValues, &ipAddress, &userAgent, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit log entry: %w", err)
		}
		if actorID != nil {
			entry.ActorID = *actorID
		}
		if ipAddress != nil {
			entry.IPAddress = *ipAddress
		}
		if userAgent != nil {
			entry.UserAgent = *userAgent
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit logs: %w", err)
	}
	return entries, nil
}
