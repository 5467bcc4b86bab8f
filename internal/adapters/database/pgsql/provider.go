package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/hisaabkitab/hisaab_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires all pgsql repositories against one pool.
func NewRepositoryProvider(pool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		Document: NewDocumentRepository(pool),
		Payment:  NewPaymentRepository(pool),
		Cashflow: NewCashflowRepository(pool),
		Expense:  NewExpenseRepository(pool),
		Income:   NewIncomeRepository(pool),
		Party:    NewPartyRepository(pool),
	}
}
