package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hisaabkitab/hisaab_backend/internal/apperrors"
	"github.com/hisaabkitab/hisaab_backend/internal/core/domain"
	portsrepo "github.com/hisaabkitab/hisaab_backend/internal/core/ports/repositories"
	portssvc "github.com/hisaabkitab/hisaab_backend/internal/core/ports/services"
	"github.com/hisaabkitab/hisaab_backend/internal/dto"
)

// expenseService manages standalone expenses and incomes, mirroring every
// create and delete into the cashflow ledger.
type expenseService struct {
	BaseService
	expenseRepo portsrepo.ExpenseRepository
	incomeRepo  portsrepo.IncomeRepository
	cashflowSvc portssvc.CashflowSvcFacade
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(expenseRepo portsrepo.ExpenseRepository, incomeRepo portsrepo.IncomeRepository, cashflowSvc portssvc.CashflowSvcFacade) portssvc.ExpenseSvcFacade {
	return &expenseService{
		expenseRepo: expenseRepo,
		incomeRepo:  incomeRepo,
		cashflowSvc: cashflowSvc,
	}
}

var _ portssvc.ExpenseSvcFacade = (*expenseService)(nil)

// CreateExpense records a standalone expense and projects it as an outflow.
func (s *expenseService) CreateExpense(ctx context.Context, req dto.CreateExpenseRequest, userID string) (*domain.Expense, error) {
	amount := domain.NewMoneyFromDecimal(req.Amount)
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: expense amount must be positive", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	expense := domain.Expense{
		ExpenseID:   uuid.NewString(),
		ExpenseDate: req.ExpenseDate,
		Amount:      amount,
		Category:    req.Category,
		AccountHead: req.AccountHead,
		Description: req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.expenseRepo.SaveExpense(ctx, expense); err != nil {
		s.LogError(ctx, err, "Failed to save expense", "category", req.Category)
		return nil, fmt.Errorf("failed to save expense: %w", err)
	}

	if err := s.cashflowSvc.RecordEvent(ctx, domain.NewExpenseEntry(expense)); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Expense recorded", "expense_id", expense.ExpenseID, "amount", amount.String())
	return &expense, nil
}

// ListExpenses retrieves expenses in a date range.
func (s *expenseService) ListExpenses(ctx context.Context, params dto.ListEntriesParams) ([]domain.Expense, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	expenses, err := s.expenseRepo.ListExpenses(ctx, params.From, params.To, limit, params.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list expenses")
		return nil, fmt.Errorf("failed to retrieve expenses: %w", err)
	}
	return expenses, nil
}

// DeleteExpense removes an expense and its cashflow projection.
func (s *expenseService) DeleteExpense(ctx context.Context, expenseID string, userID string) error {
	if _, err := s.expenseRepo.FindExpenseByID(ctx, expenseID); err != nil {
		return err
	}
	if err := s.expenseRepo.DeleteExpense(ctx, expenseID); err != nil {
		s.LogError(ctx, err, "Failed to delete expense", "expense_id", expenseID)
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if err := s.cashflowSvc.RemoveEvent(ctx, domain.SourceExpense, expenseID); err != nil {
		return err
	}
	s.LogInfo(ctx, "Expense deleted", "expense_id", expenseID)
	return nil
}

// CreateIncome records a standalone income and projects it as an inflow.
func (s *expenseService) CreateIncome(ctx context.Context, req dto.CreateIncomeRequest, userID string) (*domain.Income, error) {
	amount := domain.NewMoneyFromDecimal(req.Amount)
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: income amount must be positive", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	income := domain.Income{
		IncomeID:    uuid.NewString(),
		IncomeDate:  req.IncomeDate,
		Amount:      amount,
		Category:    req.Category,
		AccountHead: req.AccountHead,
		Description: req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.incomeRepo.SaveIncome(ctx, income); err != nil {
		s.LogError(ctx, err, "Failed to save income", "category", req.Category)
		return nil, fmt.Errorf("failed to save income: %w", err)
	}

	if err := s.cashflowSvc.RecordEvent(ctx, domain.NewIncomeEntry(income)); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Income recorded", "income_id", income.IncomeID, "amount", amount.String())
	return &income, nil
}

// ListIncomes retrieves incomes in a date range.
func (s *expenseService) ListIncomes(ctx context.Context, params dto.ListEntriesParams) ([]domain.Income, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	incomes, err := s.incomeRepo.ListIncomes(ctx, params.From, params.To, limit, params.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list incomes")
		return nil, fmt.Errorf("failed to retrieve incomes: %w", err)
	}
	return incomes, nil
}

// DeleteIncome removes an income and its cashflow projection.
func (s *expenseService) DeleteIncome(ctx context.Context, incomeID string, userID string) error {
	if _, err := s.incomeRepo.FindIncomeByID(ctx, incomeID); err != nil {
		return err
	}
	if err := s.incomeRepo.DeleteIncome(ctx, incomeID); err != nil {
		s.LogError(ctx, err, "Failed to delete income", "income_id", incomeID)
		return fmt.Errorf("failed to delete income: %w", err)
	}
	if err := s.cashflowSvc.RemoveEvent(ctx, domain.SourceIncome, incomeID); err != nil {
		return err
	}
	s.LogInfo(ctx, "Income deleted", "income_id", incomeID)
	return nil
}
