package repositories

import (
	"context"
	"time"

	"github.com/pedrootoniel/arsol-orcamento/internal/core/domain"
)

// DashboardRepository computes the admin home-screen aggregates in SQL.
type DashboardRepository interface {
	GetDashboardSummary(ctx context.Context, now time.Time) (*domain.DashboardSummary, error)
}
