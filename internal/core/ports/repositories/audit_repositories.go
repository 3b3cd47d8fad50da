package repositories

import (
	"context"

	"github.com/pedrootoniel/arsol-orcamento/internal/core/domain"
)

// AuditLogRepository is the append-only audit trail store.
type AuditLogRepository interface {
	SaveAuditLog(ctx context.Context, entry domain.AuditLog) error
	ListAuditLogsByEntity(ctx context.Context, entityType string, entityID string, limit int) ([]domain.AuditLog, error)
}
