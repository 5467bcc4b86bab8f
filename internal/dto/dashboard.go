package dto

import (
	"github.com/hisaabkitab/hisaab_backend/internal/core/domain"
)

// DashboardSummaryResponse is the top-level summary consumed by the UI.
type DashboardSummaryResponse struct {
	AsOf               string       `json:"asOf"`
	NetCashflow        domain.Money `json:"netCashflow"`
	TotalIncome        domain.Money `json:"totalIncome"`
	TotalExpense       domain.Money `json:"totalExpense"`
	PendingReceivables domain.Money `json:"pendingReceivables"`
	PendingPayables    domain.Money `json:"pendingPayables"`
	OverdueReceivables domain.Money `json:"overdueReceivables"`
	OverduePayables    domain.Money `json:"overduePayables"`
}

// ToDashboardSummaryResponse converts the domain summary to its response DTO.
func ToDashboardSummaryResponse(s *domain.DashboardSummary) DashboardSummaryResponse {
	return DashboardSummaryResponse{
		AsOf:               s.AsOf.Format("2006-01-02"),
		NetCashflow:        s.NetCashflow,
		TotalIncome:        s.TotalIncome,
		TotalExpense:       s.TotalExpense,
		PendingReceivables: s.PendingReceivables,
		PendingPayables:    s.PendingPayables,
		OverdueReceivables: s.OverdueReceivables,
		OverduePayables:    s.OverduePayables,
	}
}
