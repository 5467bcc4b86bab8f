package services

import (
	"context"

	"github.com/hisaabkitab/hisaab_backend/internal/core/domain"
	"github.com/hisaabkitab/hisaab_backend/internal/dto"
)

// CashflowSvcFacade aggregates monetary events into the unified cashflow view.
type CashflowSvcFacade interface {
	// RecordEvent persists a projected entry. Replaying the same source
	// event is a no-op (deduped on sourceType+sourceID).
	RecordEvent(ctx context.Context, entry domain.CashflowEntry) error

	// RemoveEvent drops the entry projected from a source event, e.g. when
	// an expense is deleted.
	RemoveEvent(ctx context.Context, sourceType domain.CashflowSourceType, sourceID string) error

	// Summarize buckets the filtered entries by the requested granularity
	// with running totals. Read-only over committed entries.
	Summarize(ctx context.Context, params dto.CashflowSummaryParams) (*domain.CashflowSummary, error)

	// ListEntries retrieves a page of raw entries for drill-down.
	ListEntries(ctx context.Context, params dto.ListCashflowEntriesParams) ([]domain.CashflowEntry, error)

	// Reconcile recomputes all entries from source payments, expenses and
	// incomes, repairs drift against the stored set, and reports the diff.
	Reconcile(ctx context.Context) (*domain.ReconciliationResult, error)
}
