package domain

import "time"

// Expense is a standalone outflow not tied to any document.
type Expense struct {
	ExpenseID   string      `json:"expenseID"` // Primary Key (UUID)
	ExpenseDate time.Time   `json:"expenseDate"`
	Amount      Money       `json:"amount"` // Always positive
	Category    string      `json:"category"`
	AccountHead AccountHead `json:"accountHead"`
	Description string      `json:"description"`
	AuditFields
}

// Income is a standalone inflow not tied to any document (interest, scrap
// sale, etc.).
type Income struct {
	IncomeID    string      `json:"incomeID"` // Primary Key (UUID)
	IncomeDate  time.Time   `json:"incomeDate"`
	Amount      Money       `json:"amount"` // Always positive
	Category    string      `json:"category"`
	AccountHead AccountHead `json:"accountHead"`
	Description string      `json:"description"`
	AuditFields
}
