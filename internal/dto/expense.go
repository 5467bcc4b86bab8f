package dto

import (
	"time"

	"github.com/hisaabkitab/hisaab_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExpenseRequest defines the payload for recording a standalone expense.
type CreateExpenseRequest struct {
	ExpenseDate time.Time          `json:"expenseDate" binding:"required"`
	Amount      decimal.Decimal    `json:"amount" binding:"required"`
	Category    string             `json:"category" binding:"required"`
	AccountHead domain.AccountHead `json:"accountHead" binding:"required,oneof=CASH BANK OTHER"`
	Description string             `json:"description"`
}

// CreateIncomeRequest defines the payload for recording a standalone income.
type CreateIncomeRequest struct {
	IncomeDate  time.Time          `json:"incomeDate" binding:"required"`
	Amount      decimal.Decimal    `json:"amount" binding:"required"`
	Category    string             `json:"category" binding:"required"`
	AccountHead domain.AccountHead `json:"accountHead" binding:"required,oneof=CASH BANK OTHER"`
	Description string             `json:"description"`
}

// ListEntriesParams holds date-range plus offset pagination for expense and
// income listings.
type ListEntriesParams struct {
	From   time.Time
	To     time.Time
	Limit  int
	Offset int
}

// ExpenseResponse defines the data returned for an expense.
type ExpenseResponse struct {
	ExpenseID   string       `json:"expenseID"`
	ExpenseDate time.Time    `json:"expenseDate"`
	Amount      domain.Money `json:"amount"`
	Category    string       `json:"category"`
	AccountHead string       `json:"accountHead"`
	Description string       `json:"description,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// IncomeResponse defines the data returned for an income.
type IncomeResponse struct {
	IncomeID    string       `json:"incomeID"`
	IncomeDate  time.Time    `json:"incomeDate"`
	Amount      domain.Money `json:"amount"`
	Category    string       `json:"category"`
	AccountHead string       `json:"accountHead"`
	Description string       `json:"description,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// ToExpenseResponse converts a domain.Expense to its response DTO.
func ToExpenseResponse(e *domain.Expense) ExpenseResponse {
	return ExpenseResponse{
		ExpenseID:   e.ExpenseID,
		ExpenseDate: e.ExpenseDate,
		Amount:      e.Amount,
		Category:    e.Category,
		AccountHead: string(e.AccountHead),
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
	}
}

// ToIncomeResponse converts a domain.Income to its response DTO.
func ToIncomeResponse(in *domain.Income) IncomeResponse {
	return IncomeResponse{
		IncomeID:    in.IncomeID,
		IncomeDate:  in.IncomeDate,
		Amount:      in.Amount,
		Category:    in.Category,
		AccountHead: string(in.AccountHead),
		Description: in.Description,
		CreatedAt:   in.CreatedAt,
	}
}
