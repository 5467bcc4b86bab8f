package domain

import "github.com/google/uuid"

// PaymentSource is a payment joined with the owning document's identity,
// which is what the cashflow projection needs to classify and label it.
type PaymentSource struct {
	Payment
	DocumentType   DocumentType
	DocumentNumber string
}

// NewPaymentEntry projects a document payment into a cashflow entry.
// Invoice payments are inflows, purchase payments outflows.
func NewPaymentEntry(src PaymentSource) CashflowEntry {
	amount := src.Amount
	sourceType := SourceInvoicePayment
	if src.DocumentType == Purchase {
		amount = amount.Neg()
		sourceType = SourcePurchasePayment
	}
	return CashflowEntry{
		EntryID:     uuid.NewString(),
		EntryDate:   src.PaymentDate,
		Amount:      amount,
		AccountHead: src.AccountHead,
		SourceType:  sourceType,
		SourceID:    src.PaymentID,
		SourceRef:   src.DocumentNumber,
		CreatedAt:   src.CreatedAt,
	}
}

// NewExpenseEntry projects a standalone expense into a cashflow outflow.
func NewExpenseEntry(e Expense) CashflowEntry {
	return CashflowEntry{
		EntryID:     uuid.NewString(),
		EntryDate:   e.ExpenseDate,
		Amount:      e.Amount.Neg(),
		AccountHead: e.AccountHead,
		SourceType:  SourceExpense,
		SourceID:    e.ExpenseID,
		SourceRef:   e.Category,
		CreatedAt:   e.CreatedAt,
	}
}

// NewIncomeEntry projects a standalone income into a cashflow inflow.
func NewIncomeEntry(in Income) CashflowEntry {
	return CashflowEntry{
		EntryID:     uuid.NewString(),
		EntryDate:   in.IncomeDate,
		Amount:      in.Amount,
		AccountHead: in.AccountHead,
		SourceType:  SourceIncome,
		SourceID:    in.IncomeID,
		SourceRef:   in.Category,
		CreatedAt:   in.CreatedAt,
	}
}
