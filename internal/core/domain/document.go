package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentType distinguishes sales invoices from purchase bills. Both share
// the same shape; only the party role and cashflow direction differ.
type DocumentType string

const (
	Invoice  DocumentType = "INVOICE"
	Purchase DocumentType = "PURCHASE"
)

// DocumentStatus is the persisted lifecycle state of a document.
// Overdue is intentionally absent: it is a derived view state, never stored.
type DocumentStatus string

const (
	Draft         DocumentStatus = "DRAFT"
	Sent          DocumentStatus = "SENT"
	PartiallyPaid DocumentStatus = "PARTIALLY_PAID"
	Paid          DocumentStatus = "PAID"
	Cancelled     DocumentStatus = "CANCELLED"
)

// PaymentTerms is the agreed credit period for a document.
type PaymentTerms string

const (
	DueOnReceipt PaymentTerms = "DUE_ON_RECEIPT"
	Net15        PaymentTerms = "NET_15"
	Net30        PaymentTerms = "NET_30"
	Net45        PaymentTerms = "NET_45"
)

// Days returns the credit period length for the terms.
func (t PaymentTerms) Days() int {
	switch t {
	case Net15:
		return 15
	case Net30:
		return 30
	case Net45:
		return 45
	default:
		return 0
	}
}

// TaxSplit is the per-line GST component breakdown. For intra-state supply
// the rate splits evenly into CGST and SGST; inter-state supply carries the
// full rate as IGST. Export or reverse-charge supply zeroes all components.
type TaxSplit struct {
	CGST          Money `json:"cgst"`
	SGST          Money `json:"sgst"`
	IGST          Money `json:"igst"`
	ReverseCharge bool  `json:"reverseCharge"`
}

// Total sums the components of the split.
func (t TaxSplit) Total() Money {
	return t.CGST.Add(t.SGST).Add(t.IGST)
}

// LineItem is a single product line on a document. Derived fields
// (TaxableValue, Tax) are recomputed from the inputs on every mutation.
type LineItem struct {
	LineID      string          `json:"lineID"` // Primary Key (UUID)
	DocumentID  string          `json:"documentID"`
	ProductID   string          `json:"productID"` // External product reference
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"` // Positive decimal
	UnitRate    Money           `json:"unitRate"`
	Discount    Money           `json:"discount"` // Absolute per-line discount
	TaxRate     decimal.Decimal `json:"taxRate"`  // Percentage, e.g. 18

	// Derived at recompute time.
	TaxableValue Money    `json:"taxableValue"`
	Tax          TaxSplit `json:"tax"`
	// Invalid flags a line whose discount exceeded its gross value; the
	// taxable value is clamped to zero rather than going negative.
	Invalid bool `json:"invalid,omitempty"`
}

// Document is an invoice or purchase bill. Monetary totals are derived from
// lines at save time; paid/balance are maintained by the payment ledger.
type Document struct {
	DocumentID        string          `json:"documentID"` // Primary Key (UUID)
	DocumentType      DocumentType    `json:"documentType"`
	DocumentNumber    string          `json:"documentNumber"` // e.g. INV-2026-00042
	PartyID           string          `json:"partyID"`
	DocumentDate      time.Time       `json:"documentDate"`
	DueDate           time.Time       `json:"dueDate"`
	Terms             PaymentTerms    `json:"terms"`
	CurrencyCode      string          `json:"currencyCode"`
	ExchangeRate      decimal.Decimal `json:"exchangeRate"` // Informational; defaults to 1
	PlaceOfSupply     string          `json:"placeOfSupply"` // GST state code
	ReverseCharge     bool            `json:"reverseCharge"`
	ExportSupply      bool            `json:"exportSupply"`
	Lines             []LineItem      `json:"lines,omitempty"`
	TaxableValue      Money           `json:"taxableValue"`
	TotalDiscount     Money           `json:"totalDiscount"`
	TaxTotal          Money           `json:"taxTotal"`
	GrandTotal        Money           `json:"grandTotal"`
	PaidAmount        Money           `json:"paidAmount"`
	BalanceAmount     Money           `json:"balanceAmount"`
	Status            DocumentStatus  `json:"status"`
	Notes             string          `json:"notes"`
	Version           int64           `json:"version"` // Optimistic concurrency guard
	AuditFields
}

// IsOverdue reports the derived overdue view state: past due with money
// outstanding. Never persisted.
func (d *Document) IsOverdue(asOf time.Time) bool {
	return d.Status != Cancelled && d.Status != Paid &&
		d.BalanceAmount.IsPositive() && d.DueDate.Before(asOf)
}

// DerivePaymentStatus recomputes the lifecycle state from paid vs grand total.
// Draft and Cancelled are sticky; payment state only applies once issued.
func (d *Document) DerivePaymentStatus() DocumentStatus {
	if d.Status == Draft || d.Status == Cancelled {
		return d.Status
	}
	switch {
	case d.PaidAmount.IsZero():
		return Sent
	case d.PaidAmount.Cmp(d.GrandTotal) < 0:
		return PartiallyPaid
	default:
		return Paid
	}
}
