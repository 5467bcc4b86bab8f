package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/hisaabkitab/hisaab_backend/internal/apperrors"
	"github.com/hisaabkitab/hisaab_backend/internal/core/domain"
	portsrepo "github.com/hisaabkitab/hisaab_backend/internal/core/ports/repositories"
	portssvc "github.com/hisaabkitab/hisaab_backend/internal/core/ports/services"
	"github.com/hisaabkitab/hisaab_backend/internal/dto"
)

// cashflowService maintains the derived cashflow ledger and serves bucketed
// summaries over it. Entries are projections of payments, expenses and
// incomes; the service never invents amounts of its own.
type cashflowService struct {
	BaseService
	cashflowRepo portsrepo.CashflowRepository
	paymentRepo  portsrepo.PaymentReader
	expenseRepo  portsrepo.ExpenseRepository
	incomeRepo   portsrepo.IncomeRepository
}

// NewCashflowService creates a new CashflowService.
func NewCashflowService(cashflowRepo portsrepo.CashflowRepository, paymentRepo portsrepo.PaymentReader, expenseRepo portsrepo.ExpenseRepository, incomeRepo portsrepo.IncomeRepository) portssvc.CashflowSvcFacade {
	return &cashflowService{
		cashflowRepo: cashflowRepo,
		paymentRepo:  paymentRepo,
		expenseRepo:  expenseRepo,
		incomeRepo:   incomeRepo,
	}
}

var _ portssvc.CashflowSvcFacade = (*cashflowService)(nil)

// RecordEvent persists a projected entry. Replays of an already-recorded
// source are absorbed silently.
func (s *cashflowService) RecordEvent(ctx context.Context, entry domain.CashflowEntry) error {
	inserted, err := s.cashflowRepo.SaveEntry(ctx, entry)
	if err != nil {
		s.LogError(ctx, err, "Failed to save cashflow entry", "source_type", string(entry.SourceType), "source_id", entry.SourceID)
		return fmt.Errorf("failed to save cashflow entry: %w", err)
	}
	if !inserted {
		s.LogDebug(ctx, "Cashflow entry already recorded, skipping", "source_type", string(entry.SourceType), "source_id", entry.SourceID)
	}
	return nil
}

// RemoveEvent drops the entry projected from a source event.
func (s *cashflowService) RemoveEvent(ctx context.Context, sourceType domain.CashflowSourceType, sourceID string) error {
	if err := s.cashflowRepo.DeleteEntryBySource(ctx, sourceType, sourceID); err != nil {
		s.LogError(ctx, err, "Failed to delete cashflow entry", "source_type", string(sourceType), "source_id", sourceID)
		return fmt.Errorf("failed to delete cashflow entry: %w", err)
	}
	return nil
}

// periodStart truncates a date to the start of its bucket. Weeks start on
// Monday; all bucketing is in UTC.
func periodStart(t time.Time, g domain.Granularity) time.Time {
	t = t.UTC()
	switch g {
	case domain.Weekly:
		daysPastMonday := (int(t.Weekday()) + 6) % 7
		t = t.AddDate(0, 0, -daysPastMonday)
	case domain.Monthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Summarize buckets the filtered entries by the requested granularity.
// Buckets are returned oldest first with a running total across them; empty
// periods produce no bucket.
func (s *cashflowService) Summarize(ctx context.Context, params dto.CashflowSummaryParams) (*domain.CashflowSummary, error) {
	switch params.Granularity {
	case domain.Daily, domain.Weekly, domain.Monthly:
	default:
		return nil, fmt.Errorf("%w: unknown granularity %q", apperrors.ErrValidation, params.Granularity)
	}
	if !params.From.IsZero() && !params.To.IsZero() && params.To.Before(params.From) {
		return nil, fmt.Errorf("%w: 'to' precedes 'from'", apperrors.ErrValidation)
	}

	entries, err := s.cashflowRepo.ListEntries(ctx, params.Filter(), 0, 0)
	if err != nil {
		s.LogError(ctx, err, "Failed to list cashflow entries for summary")
		return nil, fmt.Errorf("failed to retrieve cashflow entries: %w", err)
	}

	byPeriod := make(map[time.Time]*domain.CashflowBucket)
	summary := &domain.CashflowSummary{
		From:        params.From,
		To:          params.To,
		Granularity: params.Granularity,
		EntryCount:  len(entries),
	}

	for _, e := range entries {
		start := periodStart(e.EntryDate, params.Granularity)
		bucket, ok := byPeriod[start]
		if !ok {
			bucket = &domain.CashflowBucket{
				PeriodStart: start,
				ByHead:      make(map[domain.AccountHead]domain.Money),
			}
			byPeriod[start] = bucket
		}

		if e.Amount.IsNegative() {
			bucket.Outflow = bucket.Outflow.Add(e.Amount.Neg())
			summary.TotalOutflow = summary.TotalOutflow.Add(e.Amount.Neg())
		} else {
			bucket.Inflow = bucket.Inflow.Add(e.Amount)
			summary.TotalInflow = summary.TotalInflow.Add(e.Amount)
		}
		bucket.Net = bucket.Net.Add(e.Amount)
		bucket.ByHead[e.AccountHead] = bucket.ByHead[e.AccountHead].Add(e.Amount)
	}

	buckets := make([]domain.CashflowBucket, 0, len(byPeriod))
	for _, b := range byPeriod {
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].PeriodStart.Before(buckets[j].PeriodStart) })

	var running domain.Money
	for i := range buckets {
		running = running.Add(buckets[i].Net)
		buckets[i].RunningTotal = running
	}

	summary.Buckets = buckets
	summary.Net = summary.TotalInflow.Sub(summary.TotalOutflow)
	return summary, nil
}

// ListEntries retrieves a page of raw entries for drill-down.
func (s *cashflowService) ListEntries(ctx context.Context, params dto.ListCashflowEntriesParams) ([]domain.CashflowEntry, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	entries, err := s.cashflowRepo.ListEntries(ctx, params.Filter(), limit, params.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list cashflow entries")
		return nil, fmt.Errorf("failed to retrieve cashflow entries: %w", err)
	}
	return entries, nil
}

// Reconcile rebuilds the expected entry set from source payments, expenses
// and incomes, then repairs the stored set against it: missing entries are
// inserted, orphans deleted, matches left untouched.
func (s *cashflowService) Reconcile(ctx context.Context) (*domain.ReconciliationResult, error) {
	expected := make(map[string]domain.CashflowEntry)
	key := func(st domain.CashflowSourceType, id string) string { return string(st) + "|" + id }

	sources, err := s.paymentRepo.ListActivePaymentSources(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list payment sources for reconciliation")
		return nil, fmt.Errorf("failed to list payment sources: %w", err)
	}
	for _, src := range sources {
		e := domain.NewPaymentEntry(src)
		expected[key(e.SourceType, e.SourceID)] = e
	}

	expenses, err := s.expenseRepo.ListExpenses(ctx, time.Time{}, time.Time{}, 0, 0)
	if err != nil {
		s.LogError(ctx, err, "Failed to list expenses for reconciliation")
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	for _, e := range expenses {
		entry := domain.NewExpenseEntry(e)
		expected[key(entry.SourceType, entry.SourceID)] = entry
	}

	incomes, err := s.incomeRepo.ListIncomes(ctx, time.Time{}, time.Time{}, 0, 0)
	if err != nil {
		s.LogError(ctx, err, "Failed to list incomes for reconciliation")
		return nil, fmt.Errorf("failed to list incomes: %w", err)
	}
	for _, in := range incomes {
		entry := domain.NewIncomeEntry(in)
		expected[key(entry.SourceType, entry.SourceID)] = entry
	}

	stored, err := s.cashflowRepo.ListEntries(ctx, domain.CashflowFilter{}, 0, 0)
	if err != nil {
		s.LogError(ctx, err, "Failed to list stored entries for reconciliation")
		return nil, fmt.Errorf("failed to list stored entries: %w", err)
	}

	result := &domain.ReconciliationResult{}
	storedKeys := make(map[string]struct{}, len(stored))
	for _, e := range stored {
		k := key(e.SourceType, e.SourceID)
		storedKeys[k] = struct{}{}
		if _, ok := expected[k]; ok {
			result.Unchanged++
			continue
		}
		if err := s.cashflowRepo.DeleteEntryBySource(ctx, e.SourceType, e.SourceID); err != nil {
			s.LogError(ctx, err, "Failed to delete orphan entry", "source_type", string(e.SourceType), "source_id", e.SourceID)
			return nil, fmt.Errorf("failed to delete orphan entry: %w", err)
		}
		result.Deleted++
	}

	for k, e := range expected {
		if _, ok := storedKeys[k]; ok {
			continue
		}
		inserted, err := s.cashflowRepo.SaveEntry(ctx, e)
		if err != nil {
			s.LogError(ctx, err, "Failed to insert missing entry", "source_type", string(e.SourceType), "source_id", e.SourceID)
			return nil, fmt.Errorf("failed to insert missing entry: %w", err)
		}
		if inserted {
			result.Inserted++
		}
	}

	s.LogInfo(ctx, "Cashflow reconciliation completed",
		"inserted", result.Inserted,
		"deleted", result.Deleted,
		"unchanged", result.Unchanged)
	return result, nil
}
