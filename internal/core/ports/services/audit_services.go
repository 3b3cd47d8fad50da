package services

import (
	"context"

	"github.com/pedrootoniel/arsol-orcamento/internal/core/domain"
)

// AuditSvcFacade reads the audit trail; writes happen inside the services
// that own the audited operations.
type AuditSvcFacade interface {
	ListByEntity(ctx context.Context, entityType string, entityID string, limit int) ([]domain.AuditLog, error)
}
