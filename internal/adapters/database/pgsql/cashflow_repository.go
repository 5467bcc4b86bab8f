package pgsql

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/hisaabkitab/hisaab_backend/internal/core/domain"
	portsrepo "github.com/hisaabkitab/hisaab_backend/internal/core/ports/repositories"
)

const cashflowColumns = `entry_id, entry_date, amount, account_head, source_type, source_id, source_ref, created_at`

// cashflowRepository persists derived cashflow entries. The table carries a
// unique (source_type, source_id) constraint, so inserting an entry for an
// already-projected source is a no-op.
type cashflowRepository struct {
	pool *pgxpool.Pool
}

// NewCashflowRepository creates a new repository for cashflow entries.
func NewCashflowRepository(pool *pgxpool.Pool) portsrepo.CashflowRepository {
	return &cashflowRepository{pool: pool}
}

var _ portsrepo.CashflowRepository = (*cashflowRepository)(nil)

const insertEntryQuery = `
	INSERT INTO cashflow_entries (entry_id, entry_date, amount, account_head, source_type, source_id, source_ref, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (source_type, source_id) DO NOTHING;
`

func entryArgs(entry domain.CashflowEntry) []any {
	return []any{
		entry.EntryID,
		entry.EntryDate,
		entry.Amount.Decimal(),
		entry.AccountHead,
		entry.SourceType,
		entry.SourceID,
		entry.SourceRef,
		entry.CreatedAt,
	}
}

// SaveEntry inserts an entry unless its source is already recorded.
func (r *cashflowRepository) SaveEntry(ctx context.Context, entry domain.CashflowEntry) (bool, error) {
	tag, err := r.pool.Exec(ctx, insertEntryQuery, entryArgs(entry)...)
	if err != nil {
		return false, fmt.Errorf("failed to insert cashflow entry for %s/%s: %w", entry.SourceType, entry.SourceID, err)
	}
	return tag.RowsAffected() > 0, nil
}

// SaveEntryInTx is SaveEntry within an existing transaction.
func (r *cashflowRepository) SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.CashflowEntry) (bool, error) {
	tag, err := tx.Exec(ctx, insertEntryQuery, entryArgs(entry)...)
	if err != nil {
		return false, fmt.Errorf("failed to insert cashflow entry for %s/%s: %w", entry.SourceType, entry.SourceID, err)
	}
	return tag.RowsAffected() > 0, nil
}

const deleteEntryQuery = `DELETE FROM cashflow_entries WHERE source_type = $1 AND source_id = $2;`

// DeleteEntryBySource removes the entry projected from a source event.
// Deleting an absent entry is not an error.
func (r *cashflowRepository) DeleteEntryBySource(ctx context.Context, sourceType domain.CashflowSourceType, sourceID string) error {
	if _, err := r.pool.Exec(ctx, deleteEntryQuery, sourceType, sourceID); err != nil {
		return fmt.Errorf("failed to delete cashflow entry for %s/%s: %w", sourceType, sourceID, err)
	}
	return nil
}

// DeleteEntryBySourceInTx is DeleteEntryBySource within a transaction.
func (r *cashflowRepository) DeleteEntryBySourceInTx(ctx context.Context, tx pgx.Tx, sourceType domain.CashflowSourceType, sourceID string) error {
	if _, err := tx.Exec(ctx, deleteEntryQuery, sourceType, sourceID); err != nil {
		return fmt.Errorf("failed to delete cashflow entry for %s/%s: %w", sourceType, sourceID, err)
	}
	return nil
}

// ListEntries retrieves entries matching the filter ordered by entry date.
// A limit of 0 returns the full match set.
func (r *cashflowRepository) ListEntries(ctx context.Context, filter domain.CashflowFilter, limit, offset int) ([]domain.CashflowEntry, error) {
	var conditions []string
	var args []any

	addArg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if !filter.From.IsZero() {
		conditions = append(conditions, "entry_date >= "+addArg(filter.From))
	}
	if !filter.To.IsZero() {
		conditions = append(conditions, "entry_date <= "+addArg(filter.To))
	}
	if filter.AccountHead != nil {
		conditions = append(conditions, "account_head = "+addArg(*filter.AccountHead))
	}
	if filter.SourceType != nil {
		conditions = append(conditions, "source_type = "+addArg(*filter.SourceType))
	}
	if filter.MinAmount != nil {
		conditions = append(conditions, "ABS(amount) >= "+addArg(filter.MinAmount.Decimal()))
	}
	if filter.MaxAmount != nil {
		conditions = append(conditions, "ABS(amount) <= "+addArg(filter.MaxAmount.Decimal()))
	}
	if filter.SearchText != "" {
		conditions = append(conditions, "source_ref ILIKE "+addArg("%"+filter.SearchText+"%"))
	}

	query := `SELECT ` + cashflowColumns + ` FROM cashflow_entries`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY entry_date, created_at"
	if limit > 0 {
		query += " LIMIT " + addArg(limit) + " OFFSET " + addArg(offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cashflow entries: %w", err)
	}
	defer rows.Close()

	entries := []domain.CashflowEntry{}
	for rows.Next() {
		var e domain.CashflowEntry
		var amount decimal.Decimal

		if err := rows.Scan(
			&e.EntryID,
			&e.EntryDate,
			&amount,
			&e.AccountHead,
			&e.SourceType,
			&e.SourceID,
			&e.SourceRef,
			&e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan cashflow entry row: %w", err)
		}
		e.Amount = domain.NewMoneyFromDecimal(amount)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cashflow entry rows: %w", err)
	}
	return entries, nil
}
