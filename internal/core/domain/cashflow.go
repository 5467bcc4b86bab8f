package domain

import "time"

// CashflowSourceType identifies which kind of monetary event produced an entry.
type CashflowSourceType string

const (
	SourceInvoicePayment  CashflowSourceType = "INVOICE_PAYMENT"
	SourcePurchasePayment CashflowSourceType = "PURCHASE_PAYMENT"
	SourceExpense         CashflowSourceType = "EXPENSE"
	SourceIncome          CashflowSourceType = "INCOME"
)

// CashflowEntry is a derived, signed monetary event: positive amounts are
// inflows, negative are outflows. Entries are never authored directly; they
// are projected from payments, expenses and incomes, and (SourceType,
// SourceID) is the natural dedup key making regeneration idempotent.
type CashflowEntry struct {
	EntryID     string             `json:"entryID"` // Primary Key (UUID)
	EntryDate   time.Time          `json:"entryDate"`
	Amount      Money              `json:"amount"` // Signed
	AccountHead AccountHead        `json:"accountHead"`
	SourceType  CashflowSourceType `json:"sourceType"`
	SourceID    string             `json:"sourceID"`
	SourceRef   string             `json:"sourceRef"` // Document number, category, etc.
	CreatedAt   time.Time          `json:"createdAt"`
}

// Granularity selects the bucketing period for cashflow summaries.
type Granularity string

const (
	Daily   Granularity = "DAY"
	Weekly  Granularity = "WEEK"
	Monthly Granularity = "MONTH"
)

// CashflowBucket is one period's rollup within a summary.
type CashflowBucket struct {
	PeriodStart  time.Time             `json:"periodStart"`
	Inflow       Money                 `json:"inflow"`
	Outflow      Money                 `json:"outflow"` // Positive magnitude
	Net          Money                 `json:"net"`
	RunningTotal Money                 `json:"runningTotal"`
	ByHead       map[AccountHead]Money `json:"byHead"`
}

// CashflowSummary is the bucketed rollup over a filtered entry set.
type CashflowSummary struct {
	From         time.Time        `json:"from"`
	To           time.Time        `json:"to"`
	Granularity  Granularity      `json:"granularity"`
	Buckets      []CashflowBucket `json:"buckets"`
	TotalInflow  Money            `json:"totalInflow"`
	TotalOutflow Money            `json:"totalOutflow"` // Positive magnitude
	Net          Money            `json:"net"`
	EntryCount   int              `json:"entryCount"`
}

// CashflowFilter narrows the entry set for summaries and listings. Filtering
// never mutates entries; it is a pure narrowing applied at query time.
type CashflowFilter struct {
	From        time.Time
	To          time.Time
	AccountHead *AccountHead
	SourceType  *CashflowSourceType
	MinAmount   *Money // Applied to the absolute amount
	MaxAmount   *Money
	SearchText  string // Matched against SourceRef
}

// ReconciliationResult reports the outcome of a cashflow rebuild pass.
type ReconciliationResult struct {
	Inserted  int `json:"inserted"`
	Deleted   int `json:"deleted"`
	Unchanged int `json:"unchanged"`
}
