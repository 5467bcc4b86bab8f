package repositories

import (
	"context"
	"time"

	"github.com/hisaabkitab/hisaab_backend/internal/core/domain"
)

// ExpenseRepository defines persistence for standalone expenses.
type ExpenseRepository interface {
	SaveExpense(ctx context.Context, expense domain.Expense) error
	FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)
	// ListExpenses retrieves expenses in a date range, newest first. Zero
	// range bounds mean unbounded.
	ListExpenses(ctx context.Context, from, to time.Time, limit, offset int) ([]domain.Expense, error)
	DeleteExpense(ctx context.Context, expenseID string) error
}

// IncomeRepository defines persistence for standalone incomes.
type IncomeRepository interface {
	SaveIncome(ctx context.Context, income domain.Income) error
	FindIncomeByID(ctx context.Context, incomeID string) (*domain.Income, error)
	ListIncomes(ctx context.Context, from, to time.Time, limit, offset int) ([]domain.Income, error)
	DeleteIncome(ctx context.Context, incomeID string) error
}
