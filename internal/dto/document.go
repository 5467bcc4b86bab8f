package dto

import (
	"time"

	"github.com/hisaabkitab/hisaab_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LineItemRequest defines one document line as submitted by the client.
// Amounts arrive as decimals and are quantized to paise by the service.
type LineItemRequest struct {
	ProductID   string          `json:"productID"`
	Description string          `json:"description" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitRate    decimal.Decimal `json:"unitRate" binding:"required"`
	Discount    decimal.Decimal `json:"discount"`
	TaxRate     decimal.Decimal `json:"taxRate"`
}

// CreateDocumentRequest defines the payload for creating an invoice or purchase.
type CreateDocumentRequest struct {
	DocumentType  domain.DocumentType `json:"documentType" binding:"required,oneof=INVOICE PURCHASE"`
	PartyID       string              `json:"partyID" binding:"required"`
	DocumentDate  time.Time           `json:"documentDate" binding:"required"`
	Terms         domain.PaymentTerms `json:"terms" binding:"omitempty,oneof=DUE_ON_RECEIPT NET_15 NET_30 NET_45"`
	CurrencyCode  string              `json:"currencyCode" binding:"omitempty,len=3"`
	ExchangeRate  decimal.Decimal     `json:"exchangeRate"`
	PlaceOfSupply string              `json:"placeOfSupply" binding:"omitempty,len=2"`
	ReverseCharge bool                `json:"reverseCharge"`
	ExportSupply  bool                `json:"exportSupply"`
	Notes         string              `json:"notes"`
	Lines         []LineItemRequest   `json:"lines" binding:"omitempty,dive"`
}

// UpdateDocumentRequest defines the payload for editing a document. Nil
// fields are left unchanged; a non-nil Lines slice replaces all lines and
// forces a totals recompute.
type UpdateDocumentRequest struct {
	PartyID       *string              `json:"partyID,omitempty"`
	DocumentDate  *time.Time           `json:"documentDate,omitempty"`
	Terms         *domain.PaymentTerms `json:"terms,omitempty" binding:"omitempty,oneof=DUE_ON_RECEIPT NET_15 NET_30 NET_45"`
	PlaceOfSupply *string              `json:"placeOfSupply,omitempty" binding:"omitempty,len=2"`
	ReverseCharge *bool                `json:"reverseCharge,omitempty"`
	ExportSupply  *bool                `json:"exportSupply,omitempty"`
	Notes         *string              `json:"notes,omitempty"`
	Lines         []LineItemRequest    `json:"lines,omitempty" binding:"omitempty,dive"`
}

// ListDocumentsParams holds listing filters and the pagination cursor.
type ListDocumentsParams struct {
	DocumentType *domain.DocumentType
	Status       *domain.DocumentStatus
	PartyID      *string
	FromDate     *time.Time
	ToDate       *time.Time
	Limit        int
	NextToken    *string
}

// TaxSplitResponse is the per-line GST breakdown in responses.
type TaxSplitResponse struct {
	CGST          domain.Money `json:"cgst"`
	SGST          domain.Money `json:"sgst"`
	IGST          domain.Money `json:"igst"`
	ReverseCharge bool         `json:"reverseCharge"`
}

// LineItemResponse defines one document line as returned to the client.
type LineItemResponse struct {
	LineID       string           `json:"lineID"`
	ProductID    string           `json:"productID,omitempty"`
	Description  string           `json:"description"`
	Quantity     decimal.Decimal  `json:"quantity"`
	UnitRate     domain.Money     `json:"unitRate"`
	Discount     domain.Money     `json:"discount"`
	TaxRate      decimal.Decimal  `json:"taxRate"`
	TaxableValue domain.Money     `json:"taxableValue"`
	Tax          TaxSplitResponse `json:"tax"`
	Invalid      bool             `json:"invalid,omitempty"`
}

// DocumentResponse defines the data returned for a document.
type DocumentResponse struct {
	DocumentID     string             `json:"documentID"`
	DocumentType   string             `json:"documentType"`
	DocumentNumber string             `json:"documentNumber"`
	PartyID        string             `json:"partyID"`
	DocumentDate   time.Time          `json:"documentDate"`
	DueDate        time.Time          `json:"dueDate"`
	Terms          string             `json:"terms"`
	CurrencyCode   string             `json:"currencyCode"`
	ExchangeRate   decimal.Decimal    `json:"exchangeRate"`
	PlaceOfSupply  string             `json:"placeOfSupply"`
	ReverseCharge  bool               `json:"reverseCharge"`
	ExportSupply   bool               `json:"exportSupply"`
	Lines          []LineItemResponse `json:"lines,omitempty"`
	TaxableValue   domain.Money       `json:"taxableValue"`
	TotalDiscount  domain.Money       `json:"totalDiscount"`
	TaxTotal       domain.Money       `json:"taxTotal"`
	GrandTotal     domain.Money       `json:"grandTotal"`
	PaidAmount     domain.Money       `json:"paidAmount"`
	BalanceAmount  domain.Money       `json:"balanceAmount"`
	Status         string             `json:"status"`
	Overdue        bool               `json:"overdue"`
	Notes          string             `json:"notes,omitempty"`
	CreatedAt      time.Time          `json:"createdAt"`
}

// ListDocumentsResponse is a page of documents plus the next cursor.
type ListDocumentsResponse struct {
	Documents []DocumentResponse `json:"documents"`
	NextToken *string            `json:"nextToken,omitempty"`
}

// ToLineItemResponse converts a domain.LineItem to its response DTO.
func ToLineItemResponse(l *domain.LineItem) LineItemResponse {
	return LineItemResponse{
		LineID:       l.LineID,
		ProductID:    l.ProductID,
		Description:  l.Description,
		Quantity:     l.Quantity,
		UnitRate:     l.UnitRate,
		Discount:     l.Discount,
		TaxRate:      l.TaxRate,
		TaxableValue: l.TaxableValue,
		Tax: TaxSplitResponse{
			CGST:          l.Tax.CGST,
			SGST:          l.Tax.SGST,
			IGST:          l.Tax.IGST,
			ReverseCharge: l.Tax.ReverseCharge,
		},
		Invalid: l.Invalid,
	}
}

// ToDocumentResponse converts a domain.Document to its response DTO.
// Purchases report the SENT state as RECEIVED; overdue is derived, not stored.
func ToDocumentResponse(d *domain.Document, asOf time.Time) DocumentResponse {
	status := string(d.Status)
	if d.DocumentType == domain.Purchase && d.Status == domain.Sent {
		status = "RECEIVED"
	}

	var lines []LineItemResponse
	if len(d.Lines) > 0 {
		lines = make([]LineItemResponse, len(d.Lines))
		for i := range d.Lines {
			lines[i] = ToLineItemResponse(&d.Lines[i])
		}
	}

	return DocumentResponse{
		DocumentID:     d.DocumentID,
		DocumentType:   string(d.DocumentType),
		DocumentNumber: d.DocumentNumber,
		PartyID:        d.PartyID,
		DocumentDate:   d.DocumentDate,
		DueDate:        d.DueDate,
		Terms:          string(d.Terms),
		CurrencyCode:   d.CurrencyCode,
		ExchangeRate:   d.ExchangeRate,
		PlaceOfSupply:  d.PlaceOfSupply,
		ReverseCharge:  d.ReverseCharge,
		ExportSupply:   d.ExportSupply,
		Lines:          lines,
		TaxableValue:   d.TaxableValue,
		TotalDiscount:  d.TotalDiscount,
		TaxTotal:       d.TaxTotal,
		GrandTotal:     d.GrandTotal,
		PaidAmount:     d.PaidAmount,
		BalanceAmount:  d.BalanceAmount,
		Status:         status,
		Overdue:        d.IsOverdue(asOf),
		Notes:          d.Notes,
		CreatedAt:      d.CreatedAt,
	}
}
