package services

import (
	"context"

	"github.com/hisaabkitab/hisaab_backend/internal/core/domain"
	"github.com/hisaabkitab/hisaab_backend/internal/dto"
)

// ExpenseSvcFacade manages standalone expenses and incomes. Each create or
// delete is mirrored into the cashflow ledger.
type ExpenseSvcFacade interface {
	CreateExpense(ctx context.Context, req dto.CreateExpenseRequest, userID string) (*domain.Expense, error)
	ListExpenses(ctx context.Context, params dto.ListEntriesParams) ([]domain.Expense, error)
	DeleteExpense(ctx context.Context, expenseID string, userID string) error

	CreateIncome(ctx context.Context, req dto.CreateIncomeRequest, userID string) (*domain.Income, error)
	ListIncomes(ctx context.Context, params dto.ListEntriesParams) ([]domain.Income, error)
	DeleteIncome(ctx context.Context, incomeID string, userID string) error
}
