package domain

import "time"

// PaymentMethod is how the money moved.
type PaymentMethod string

const (
	Cash         PaymentMethod = "CASH"
	BankTransfer PaymentMethod = "BANK_TRANSFER"
	Cheque       PaymentMethod = "CHEQUE"
	Online       PaymentMethod = "ONLINE"
	UPI          PaymentMethod = "UPI"
)

// AccountHead buckets where money moved to or from, for cashflow reporting.
type AccountHead string

const (
	HeadCash  AccountHead = "CASH"
	HeadBank  AccountHead = "BANK"
	HeadOther AccountHead = "OTHER"
)

// Payment is an amount applied against a document. Payments are owned by
// their document: voiding one re-derives the document's paid/balance/status.
type Payment struct {
	PaymentID   string        `json:"paymentID"` // Primary Key (UUID)
	DocumentID  string        `json:"documentID"`
	Amount      Money         `json:"amount"` // Always positive
	PaymentDate time.Time     `json:"paymentDate"`
	Method      PaymentMethod `json:"method"`
	AccountHead AccountHead   `json:"accountHead"`
	Reference   string        `json:"reference"` // Cheque no, UTR, etc.
	Voided      bool          `json:"voided"`
	AuditFields
}
