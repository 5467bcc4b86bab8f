package dto

import (
	"time"

	"github.com/hisaabkitab/hisaab_backend/internal/core/domain"
)

// CashflowSummaryParams holds the window, bucketing granularity and filters
// for a cashflow summary request.
type CashflowSummaryParams struct {
	From        time.Time
	To          time.Time
	Granularity domain.Granularity
	AccountHead *domain.AccountHead
	SourceType  *domain.CashflowSourceType
	MinAmount   *domain.Money
	MaxAmount   *domain.Money
	SearchText  string
}

// Filter narrows the params into the repository filter shape.
func (p CashflowSummaryParams) Filter() domain.CashflowFilter {
	return domain.CashflowFilter{
		From:        p.From,
		To:          p.To,
		AccountHead: p.AccountHead,
		SourceType:  p.SourceType,
		MinAmount:   p.MinAmount,
		MaxAmount:   p.MaxAmount,
		SearchText:  p.SearchText,
	}
}

// ListCashflowEntriesParams holds filters plus offset pagination for the raw
// entry drill-down listing.
type ListCashflowEntriesParams struct {
	CashflowSummaryParams
	Limit  int
	Offset int
}

// CashflowEntryResponse defines the data returned for a single entry.
type CashflowEntryResponse struct {
	EntryID     string       `json:"entryID"`
	EntryDate   time.Time    `json:"entryDate"`
	Amount      domain.Money `json:"amount"`
	AccountHead string       `json:"accountHead"`
	SourceType  string       `json:"sourceType"`
	SourceID    string       `json:"sourceID"`
	SourceRef   string       `json:"sourceRef,omitempty"`
}

// ToCashflowEntryResponses converts entries to response DTOs.
func ToCashflowEntryResponses(entries []domain.CashflowEntry) []CashflowEntryResponse {
	responses := make([]CashflowEntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = CashflowEntryResponse{
			EntryID:     e.EntryID,
			EntryDate:   e.EntryDate,
			Amount:      e.Amount,
			AccountHead: string(e.AccountHead),
			SourceType:  string(e.SourceType),
			SourceID:    e.SourceID,
			SourceRef:   e.SourceRef,
		}
	}
	return responses
}
