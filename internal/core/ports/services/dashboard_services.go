package services

import (
	"context"
	"time"

	"github.com/hisaabkitab/hisaab_backend/internal/core/domain"
)

// DashboardSvcFacade composes cashflow totals with outstanding document
// balances. It performs no money arithmetic of its own beyond composition.
type DashboardSvcFacade interface {
	BuildSummary(ctx context.Context, asOf time.Time) (*domain.DashboardSummary, error)
}
