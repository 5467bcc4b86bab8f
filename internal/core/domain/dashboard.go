package domain

import "time"

// DashboardSummary is the composed top-level view: cashflow totals for the
// requested window plus outstanding document balances as of a date.
type DashboardSummary struct {
	AsOf               time.Time `json:"asOf"`
	NetCashflow        Money     `json:"netCashflow"`
	TotalIncome        Money     `json:"totalIncome"`
	TotalExpense       Money     `json:"totalExpense"` // Positive magnitude
	PendingReceivables Money     `json:"pendingReceivables"`
	PendingPayables    Money     `json:"pendingPayables"`
	OverdueReceivables Money     `json:"overdueReceivables"`
	OverduePayables    Money     `json:"overduePayables"`
}

// OutstandingTotals holds the pending/overdue balance sums for one document
// type, as computed by the document repository.
type OutstandingTotals struct {
	Pending Money
	Overdue Money
}
