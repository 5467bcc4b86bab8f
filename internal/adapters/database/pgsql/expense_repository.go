package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/hisaabkitab/hisaab_backend/internal/apperrors"
	"github.com/hisaabkitab/hisaab_backend/internal/core/domain"
	portsrepo "github.com/hisaabkitab/hisaab_backend/internal/core/ports/repositories"
)

type expenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new repository for expense data.
func NewExpenseRepository(pool *pgxpool.Pool) portsrepo.ExpenseRepository {
	return &expenseRepository{pool: pool}
}

var _ portsrepo.ExpenseRepository = (*expenseRepository)(nil)

const expenseColumns = `expense_id, expense_date, amount, category, account_head, description,
		created_at, created_by, last_updated_at, last_updated_by`

// SaveExpense inserts a new expense.
func (r *expenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) error {
	query := `
		INSERT INTO expenses (` + expenseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.pool.Exec(ctx, query,
		expense.ExpenseID,
		expense.ExpenseDate,
		expense.Amount.Decimal(),
		expense.Category,
		expense.AccountHead,
		expense.Description,
		expense.CreatedAt,
		expense.CreatedBy,
		expense.LastUpdatedAt,
		expense.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense %s: %w", expense.ExpenseID, err)
	}
	return nil
}

// FindExpenseByID retrieves an expense by its ID.
func (r *expenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE expense_id = $1;`
	var e domain.Expense
	var amount decimal.Decimal

	err := r.pool.QueryRow(ctx, query, expenseID).Scan(
		&e.ExpenseID,
		&e.ExpenseDate,
		&amount,
		&e.Category,
		&e.AccountHead,
		&e.Description,
		&e.CreatedAt,
		&e.CreatedBy,
		&e.LastUpdatedAt,
		&e.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find expense by ID %s: %w", expenseID, err)
	}
	e.Amount = domain.NewMoneyFromDecimal(amount)
	return &e, nil
}

// dateRangeClause builds the shared range filter for expense/income listings.
func dateRangeClause(column string, from, to time.Time, args *[]any) []string {
	var conditions []string
	if !from.IsZero() {
		*args = append(*args, from)
		conditions = append(conditions, fmt.Sprintf("%s >= $%d", column, len(*args)))
	}
	if !to.IsZero() {
		*args = append(*args, to)
		conditions = append(conditions, fmt.Sprintf("%s <= $%d", column, len(*args)))
	}
	return conditions
}

// ListExpenses retrieves expenses in a date range, newest first. A limit of
// 0 returns the full match set.
func (r *expenseRepository) ListExpenses(ctx context.Context, from, to time.Time, limit, offset int) ([]domain.Expense, error) {
	var args []any
	conditions := dateRangeClause("expense_date", from, to, &args)

	query := `SELECT ` + expenseColumns + ` FROM expenses`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY expense_date DESC, created_at DESC"
	if limit > 0 {
		args = append(args, limit, offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	expenses := []domain.Expense{}
	for rows.Next() {
		var e domain.Expense
		var amount decimal.Decimal

		if err := rows.Scan(
			&e.ExpenseID,
			&e.ExpenseDate,
			&amount,
			&e.Category,
			&e.AccountHead,
			&e.Description,
			&e.CreatedAt,
			&e.CreatedBy,
			&e.LastUpdatedAt,
			&e.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan expense row: %w", err)
		}
		e.Amount = domain.NewMoneyFromDecimal(amount)
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expense rows: %w", err)
	}
	return expenses, nil
}

// DeleteExpense removes an expense.
func (r *expenseRepository) DeleteExpense(ctx context.Context, expenseID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM expenses WHERE expense_id = $1;`, expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense %s: %w", expenseID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

type incomeRepository struct {
	pool *pgxpool.Pool
}

// NewIncomeRepository creates a new repository for income data.
func NewIncomeRepository(pool *pgxpool.Pool) portsrepo.IncomeRepository {
	return &incomeRepository{pool: pool}
}

var _ portsrepo.IncomeRepository = (*incomeRepository)(nil)

const incomeColumns = `income_id, income_date, amount, category, account_head, description,
		created_at, created_by, last_updated_at, last_updated_by`

// SaveIncome inserts a new income.
func (r *incomeRepository) SaveIncome(ctx context.Context, income domain.Income) error {
	query := `
		INSERT INTO incomes (` + incomeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.pool.Exec(ctx, query,
		income.IncomeID,
		income.IncomeDate,
		income.Amount.Decimal(),
		income.Category,
		income.AccountHead,
		income.Description,
		income.CreatedAt,
		income.CreatedBy,
		income.LastUpdatedAt,
		income.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert income %s: %w", income.IncomeID, err)
	}
	return nil
}

// FindIncomeByID retrieves an income by its ID.
func (r *incomeRepository) FindIncomeByID(ctx context.Context, incomeID string) (*domain.Income, error) {
	query := `SELECT ` + incomeColumns + ` FROM incomes WHERE income_id = $1;`
	var in domain.Income
	var amount decimal.Decimal

	err := r.pool.QueryRow(ctx, query, incomeID).Scan(
		&in.IncomeID,
		&in.IncomeDate,
		&amount,
		&in.Category,
		&in.AccountHead,
		&in.Description,
		&in.CreatedAt,
		&in.CreatedBy,
		&in.LastUpdatedAt,
		&in.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find income by ID %s: %w", incomeID, err)
	}
	in.Amount = domain.NewMoneyFromDecimal(amount)
	return &in, nil
}

// ListIncomes retrieves incomes in a date range, newest first. A limit of 0
// returns the full match set.
func (r *incomeRepository) ListIncomes(ctx context.Context, from, to time.Time, limit, offset int) ([]domain.Income, error) {
	var args []any
	conditions := dateRangeClause("income_date", from, to, &args)

	query := `SELECT ` + incomeColumns + ` FROM incomes`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY income_date DESC, created_at DESC"
	if limit > 0 {
		args = append(args, limit, offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query incomes: %w", err)
	}
	defer rows.Close()

	incomes := []domain.Income{}
	for rows.Next() {
		var in domain.Income
		var amount decimal.Decimal

		if err := rows.Scan(
			&in.IncomeID,
			&in.IncomeDate,
			&amount,
			&in.Category,
			&in.AccountHead,
			&in.Description,
			&in.CreatedAt,
			&in.CreatedBy,
			&in.LastUpdatedAt,
			&in.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan income row: %w", err)
		}
		in.Amount = domain.NewMoneyFromDecimal(amount)
		incomes = append(incomes, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating income rows: %w", err)
	}
	return incomes, nil
}

// DeleteIncome removes an income.
func (r *incomeRepository) DeleteIncome(ctx context.Context, incomeID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM incomes WHERE income_id = $1;`, incomeID)
	if err != nil {
		return fmt.Errorf("failed to delete income %s: %w", incomeID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
