package services

import (
	portsrepo "github.com/hisaabkitab/hisaab_backend/internal/core/ports/repositories"
	portssvc "github.com/hisaabkitab/hisaab_backend/internal/core/ports/services"
)

// NewServiceContainer wires all services against the repository provider.
func NewServiceContainer(repos *portsrepo.RepositoryProvider, sellerStateCode string) *portssvc.ServiceContainer {
	cashflowSvc := NewCashflowService(repos.Cashflow, repos.Payment, repos.Expense, repos.Income)
	return &portssvc.ServiceContainer{
		Party:     NewPartyService(repos.Party),
		Document:  NewDocumentService(repos.Document, repos.Party, sellerStateCode),
		Payment:   NewPaymentService(repos.Document, repos.Payment, repos.Cashflow),
		Cashflow:  cashflowSvc,
		Expense:   NewExpenseService(repos.Expense, repos.Income, cashflowSvc),
		Dashboard: NewDashboardService(repos.Document, cashflowSvc),
	}
}
