package services

import (
	"context"

	"github.com/pedrootoniel/arsol-orcamento/internal/core/domain"
	portsrepo "github.com/pedrootoniel/arsol-orcamento/internal/core/ports/repositories"
	portssvc "github.com/pedrootoniel/arsol-orcamento/internal/core/ports/services"
)

type auditService struct {
	auditRepo portsrepo.AuditLogRepository
}

// NewAuditService creates the audit trail read service.
func NewAuditService(auditRepo portsrepo.AuditLogRepository) portssvc.AuditSvcFacade {
	return &auditService{auditRepo: auditRepo}
}

var _ portssvc.AuditSvcFacade = (*auditService)(nil)

func (s *auditService) ListByEntity(ctx context.Context, entityType string, entityID string, limit int) ([]domain.AuditLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.auditRepo.ListAuditLogsByEntity(ctx, entityType, entityID, limit)
}
