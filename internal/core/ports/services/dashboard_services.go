package services

import (
	"context"

	"github.com/pedrootoniel/arsol-orcamento/internal/core/domain"
)

// DashboardSvcFacade exposes the admin home-screen aggregates.
type DashboardSvcFacade interface {
	GetSummary(ctx context.Context) (*domain.DashboardSummary, error)
}
