package repositories

import (
	"context"

	"github.com/hisaabkitab/hisaab_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// CashflowRepository defines persistence for derived cashflow entries.
// (SourceType, SourceID) is unique; saving an entry for an already-recorded
// source is a no-op, which is what makes event replay idempotent.
type CashflowRepository interface {
	// SaveEntry inserts an entry unless its source is already recorded.
	// Reports whether a row was actually inserted.
	SaveEntry(ctx context.Context, entry domain.CashflowEntry) (bool, error)

	// SaveEntryInTx is SaveEntry within an existing transaction (used when a
	// payment and its cashflow projection must commit together).
	SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.CashflowEntry) (bool, error)

	// DeleteEntryBySource removes the entry projected from a source event.
	DeleteEntryBySource(ctx context.Context, sourceType domain.CashflowSourceType, sourceID string) error

	// DeleteEntryBySourceInTx is DeleteEntryBySource within a transaction.
	DeleteEntryBySourceInTx(ctx context.Context, tx pgx.Tx, sourceType domain.CashflowSourceType, sourceID string) error

	// ListEntries retrieves entries matching the filter ordered by entry
	// date. A limit of 0 means no limit (reconciliation uses this).
	ListEntries(ctx context.Context, filter domain.CashflowFilter, limit, offset int) ([]domain.CashflowEntry, error)
}
