package services

import (
	"context"
	"time"

	"github.com/pedrootoniel/arsol-orcamento/internal/core/domain"
	portsrepo "github.com/pedrootoniel/arsol-orcamento/internal/core/ports/repositories"
	portssvc "github.com/pedrootoniel/arsol-orcamento/internal/core/ports/services"
)

type dashboardService struct {
	dashboardRepo portsrepo.DashboardRepository
}

// NewDashboardService creates the dashboard service.
func NewDashboardService(dashboardRepo portsrepo.DashboardRepository) portssvc.DashboardSvcFacade {
	return &dashboardService{dashboardRepo: dashboardRepo}
}

var _ portssvc.DashboardSvcFacade = (*dashboardService)(nil)

func (s *dashboardService) GetSummary(ctx context.Context) (*domain.DashboardSummary, error) {
	return s.dashboardRepo.GetDashboardSummary(ctx, time.Now().UTC())
}
