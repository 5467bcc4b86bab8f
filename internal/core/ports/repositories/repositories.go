package repositories

// RepositoryProvider bundles all repository facades for service wiring.
type RepositoryProvider struct {
	Document DocumentRepositoryWithTx
	Payment  PaymentRepositoryFacade
	Cashflow CashflowRepository
	Expense  ExpenseRepository
	Income   IncomeRepository
	Party    PartyRepository
}
