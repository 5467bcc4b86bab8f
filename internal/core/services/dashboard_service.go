package services

import (
	"context"
	"fmt"
	"time"

	"github.com/hisaabkitab/hisaab_backend/internal/core/domain"
	portsrepo "github.com/hisaabkitab/hisaab_backend/internal/core/ports/repositories"
	portssvc "github.com/hisaabkitab/hisaab_backend/internal/core/ports/services"
	"github.com/hisaabkitab/hisaab_backend/internal/dto"
)

// dashboardService composes the landing-page summary. It only assembles
// figures produced elsewhere: cashflow totals from the cashflow service and
// outstanding balances from the document store.
type dashboardService struct {
	BaseService
	docRepo     portsrepo.DocumentReader
	cashflowSvc portssvc.CashflowSvcFacade
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(docRepo portsrepo.DocumentReader, cashflowSvc portssvc.CashflowSvcFacade) portssvc.DashboardSvcFacade {
	return &dashboardService{docRepo: docRepo, cashflowSvc: cashflowSvc}
}

var _ portssvc.DashboardSvcFacade = (*dashboardService)(nil)

// BuildSummary assembles the dashboard figures as of the given date.
func (s *dashboardService) BuildSummary(ctx context.Context, asOf time.Time) (*domain.DashboardSummary, error) {
	cashflow, err := s.cashflowSvc.Summarize(ctx, dto.CashflowSummaryParams{
		To:          asOf,
		Granularity: domain.Monthly,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to summarize cashflow: %w", err)
	}

	receivables, err := s.docRepo.SumOutstanding(ctx, domain.Invoice, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum outstanding receivables")
		return nil, fmt.Errorf("failed to sum receivables: %w", err)
	}

	payables, err := s.docRepo.SumOutstanding(ctx, domain.Purchase, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum outstanding payables")
		return nil, fmt.Errorf("failed to sum payables: %w", err)
	}

	return &domain.DashboardSummary{
		AsOf:               asOf,
		NetCashflow:        cashflow.Net,
		TotalIncome:        cashflow.TotalInflow,
		TotalExpense:       cashflow.TotalOutflow,
		PendingReceivables: receivables.Pending,
		PendingPayables:    payables.Pending,
		OverdueReceivables: receivables.Overdue,
		OverduePayables:    payables.Overdue,
	}, nil
}
