package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/hisaabkitab/hisaab_backend/internal/apperrors"
	"github.com/hisaabkitab/hisaab_backend/internal/core/domain"
	portsrepo "github.com/hisaabkitab/hisaab_backend/internal/core/ports/repositories"
	"github.com/hisaabkitab/hisaab_backend/internal/utils/pagination"
)

const documentColumns = `document_id, document_type, document_number, party_id, document_date, due_date, terms,
		currency_code, exchange_rate, place_of_supply, reverse_charge, export_supply,
		taxable_value, total_discount, tax_total, grand_total, paid_amount, balance_amount,
		status, notes, version, created_at, created_by, last_updated_at, last_updated_by`

type documentRepository struct {
	pool *pgxpool.Pool
}

// NewDocumentRepository creates a new repository for document data.
func NewDocumentRepository(pool *pgxpool.Pool) portsrepo.DocumentRepositoryWithTx {
	return &documentRepository{pool: pool}
}

var _ portsrepo.DocumentRepositoryWithTx = (*documentRepository)(nil)

// Begin starts a new database transaction.
func (r *documentRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

// Commit commits a transaction.
func (r *documentRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	return tx.Commit(ctx)
}

// Rollback rolls back a transaction.
func (r *documentRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	return tx.Rollback(ctx)
}

// scanDocument reads one document row (without lines). Money columns are
// NUMERIC(14,2) and come through shopspring decimal.
func scanDocument(row pgx.Row) (*domain.Document, error) {
	var doc domain.Document
	var taxable, discount, taxTotal, grand, paid, balance decimal.Decimal

	err := row.Scan(
		&doc.DocumentID,
		&doc.DocumentType,
		&doc.DocumentNumber,
		&doc.PartyID,
		&doc.DocumentDate,
		&doc.DueDate,
		&doc.Terms,
		&doc.CurrencyCode,
		&doc.ExchangeRate,
		&doc.PlaceOfSupply,
		&doc.ReverseCharge,
		&doc.ExportSupply,
		&taxable,
		&discount,
		&taxTotal,
		&grand,
		&paid,
		&balance,
		&doc.Status,
		&doc.Notes,
		&doc.Version,
		&doc.CreatedAt,
		&doc.CreatedBy,
		&doc.LastUpdatedAt,
		&doc.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}

	doc.TaxableValue = domain.NewMoneyFromDecimal(taxable)
	doc.TotalDiscount = domain.NewMoneyFromDecimal(discount)
	doc.TaxTotal = domain.NewMoneyFromDecimal(taxTotal)
	doc.GrandTotal = domain.NewMoneyFromDecimal(grand)
	doc.PaidAmount = domain.NewMoneyFromDecimal(paid)
	doc.BalanceAmount = domain.NewMoneyFromDecimal(balance)
	return &doc, nil
}

func (r *documentRepository) findLines(ctx context.Context, documentID string) ([]domain.LineItem, error) {
	query := `
		SELECT line_id, document_id, product_id, description, quantity, unit_rate, discount, tax_rate,
			taxable_value, cgst, sgst, igst, reverse_charge, invalid
		FROM document_lines
		WHERE document_id = $1
		ORDER BY created_at, line_id;
	`
	rows, err := r.pool.Query(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for document %s: %w", documentID, err)
	}
	defer rows.Close()

	lines := []domain.LineItem{}
	for rows.Next() {
		var line domain.LineItem
		var unitRate, discount, taxable, cgst, sgst, igst decimal.Decimal

		if err := rows.Scan(
			&line.LineID,
			&line.DocumentID,
			&line.ProductID,
			&line.Description,
			&line.Quantity,
			&unitRate,
			&discount,
			&line.TaxRate,
			&taxable,
			&cgst,
			&sgst,
			&igst,
			&line.Tax.ReverseCharge,
			&line.Invalid,
		); err != nil {
			return nil, fmt.Errorf("failed to scan line row for document %s: %w", documentID, err)
		}

		line.UnitRate = domain.NewMoneyFromDecimal(unitRate)
		line.Discount = domain.NewMoneyFromDecimal(discount)
		line.TaxableValue = domain.NewMoneyFromDecimal(taxable)
		line.Tax.CGST = domain.NewMoneyFromDecimal(cgst)
		line.Tax.SGST = domain.NewMoneyFromDecimal(sgst)
		line.Tax.IGST = domain.NewMoneyFromDecimal(igst)
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating line rows for document %s: %w", documentID, err)
	}
	return lines, nil
}

func queueLineInserts(batch *pgx.Batch, doc domain.Document, now time.Time) {
	lineQuery := `
		INSERT INTO document_lines (line_id, document_id, product_id, description, quantity, unit_rate, discount, tax_rate,
			taxable_value, cgst, sgst, igst, reverse_charge, invalid, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	for _, line := range doc.Lines {
		batch.Queue(lineQuery,
			line.LineID,
			doc.DocumentID,
			line.ProductID,
			line.Description,
			line.Quantity,
			line.UnitRate.Decimal(),
			line.Discount.Decimal(),
			line.TaxRate,
			line.TaxableValue.Decimal(),
			line.Tax.CGST.Decimal(),
			line.Tax.SGST.Decimal(),
			line.Tax.IGST.Decimal(),
			line.Tax.ReverseCharge,
			line.Invalid,
			now,
		)
	}
}

// SaveDocument persists a new document and its lines within a DB transaction.
func (r *documentRepository) SaveDocument(ctx context.Context, doc domain.Document) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	docQuery := `
		INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25);
	`
	_, err = tx.Exec(ctx, docQuery,
		doc.DocumentID,
		doc.DocumentType,
		doc.DocumentNumber,
		doc.PartyID,
		doc.DocumentDate,
		doc.DueDate,
		doc.Terms,
		doc.CurrencyCode,
		doc.ExchangeRate,
		doc.PlaceOfSupply,
		doc.ReverseCharge,
		doc.ExportSupply,
		doc.TaxableValue.Decimal(),
		doc.TotalDiscount.Decimal(),
		doc.TaxTotal.Decimal(),
		doc.GrandTotal.Decimal(),
		doc.PaidAmount.Decimal(),
		doc.BalanceAmount.Decimal(),
		doc.Status,
		doc.Notes,
		doc.Version,
		doc.CreatedAt,
		doc.CreatedBy,
		doc.LastUpdatedAt,
		doc.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("document number %s already exists: %w", doc.DocumentNumber, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert document %s: %w", doc.DocumentID, err)
	}

	batch := &pgx.Batch{}
	queueLineInserts(batch, doc, doc.CreatedAt)
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert lines for document %s: %w", doc.DocumentID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit document %s: %w", doc.DocumentID, err)
	}
	return nil
}

// UpdateDocument replaces a document's mutable fields and lines, guarded by
// the version the caller read. Lines are replaced wholesale.
func (r *documentRepository) UpdateDocument(ctx context.Context, doc domain.Document) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	updateQuery := `
		UPDATE documents
		SET party_id = $2, document_date = $3, due_date = $4, terms = $5, place_of_supply = $6,
			reverse_charge = $7, export_supply = $8, taxable_value = $9, total_discount = $10,
			tax_total = $11, grand_total = $12, paid_amount = $13, balance_amount = $14,
			status = $15, notes = $16, version = version + 1, last_updated_at = $17, last_updated_by = $18
		WHERE document_id = $1 AND version = $19;
	`
	tag, err := tx.Exec(ctx, updateQuery,
		doc.DocumentID,
		doc.PartyID,
		doc.DocumentDate,
		doc.DueDate,
		doc.Terms,
		doc.PlaceOfSupply,
		doc.ReverseCharge,
		doc.ExportSupply,
		doc.TaxableValue.Decimal(),
		doc.TotalDiscount.Decimal(),
		doc.TaxTotal.Decimal(),
		doc.GrandTotal.Decimal(),
		doc.PaidAmount.Decimal(),
		doc.BalanceAmount.Decimal(),
		doc.Status,
		doc.Notes,
		doc.LastUpdatedAt,
		doc.LastUpdatedBy,
		doc.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update document %s: %w", doc.DocumentID, err)
	}
	if tag.RowsAffected() == 0 {
		if _, findErr := r.FindDocumentByID(ctx, doc.DocumentID); findErr != nil {
			return findErr
		}
		return fmt.Errorf("document %s version mismatch: %w", doc.DocumentID, apperrors.ErrConflict)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM document_lines WHERE document_id = $1;`, doc.DocumentID); err != nil {
		return fmt.Errorf("failed to clear lines for document %s: %w", doc.DocumentID, err)
	}

	batch := &pgx.Batch{}
	queueLineInserts(batch, doc, doc.LastUpdatedAt)
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert lines for document %s: %w", doc.DocumentID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit document update %s: %w", doc.DocumentID, err)
	}
	return nil
}

// UpdateDocumentStatus transitions the persisted lifecycle state.
func (r *documentRepository) UpdateDocumentStatus(ctx context.Context, documentID string, status domain.DocumentStatus, updatedBy string, now time.Time) error {
	query := `
		UPDATE documents
		SET status = $2, version = version + 1, last_updated_at = $3, last_updated_by = $4
		WHERE document_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query, documentID, status, now, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to update status for document %s: %w", documentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindDocumentByID retrieves a document with its lines.
func (r *documentRepository) FindDocumentByID(ctx context.Context, documentID string) (*domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE document_id = $1;`
	doc, err := scanDocument(r.pool.QueryRow(ctx, query, documentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find document by ID %s: %w", documentID, err)
	}

	lines, err := r.findLines(ctx, documentID)
	if err != nil {
		return nil, err
	}
	doc.Lines = lines
	return doc, nil
}

// ListDocuments retrieves a token-paginated page of documents without lines,
// newest first. Fetches limit+1 rows to decide whether a next page exists.
func (r *documentRepository) ListDocuments(ctx context.Context, filter portsrepo.DocumentListFilter, limit int, nextToken *string) ([]domain.Document, *string, error) {
	var conditions []string
	var args []any

	addArg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.DocumentType != nil {
		conditions = append(conditions, "document_type = "+addArg(*filter.DocumentType))
	}
	if filter.Status != nil {
		conditions = append(conditions, "status = "+addArg(*filter.Status))
	}
	if filter.PartyID != nil {
		conditions = append(conditions, "party_id = "+addArg(*filter.PartyID))
	}
	if filter.FromDate != nil {
		conditions = append(conditions, "document_date >= "+addArg(*filter.FromDate))
	}
	if filter.ToDate != nil {
		conditions = append(conditions, "document_date <= "+addArg(*filter.ToDate))
	}

	if nextToken != nil && *nextToken != "" {
		docDate, createdAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		dateArg := addArg(docDate)
		createdArg := addArg(createdAt)
		conditions = append(conditions, fmt.Sprintf("(document_date, created_at) < (%s, %s)", dateArg, createdArg))
	}

	query := `SELECT ` + documentColumns + ` FROM documents`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY document_date DESC, created_at DESC LIMIT " + addArg(limit+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	docs := []domain.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating document rows: %w", err)
	}

	var token *string
	if len(docs) > limit {
		docs = docs[:limit]
		last := docs[len(docs)-1]
		t := pagination.EncodeToken(last.DocumentDate, last.CreatedAt)
		token = &t
	}
	return docs, token, nil
}

// SumOutstanding sums pending and overdue balances over issued, unpaid
// documents of the given type. Overdue is the past-due subset of pending.
func (r *documentRepository) SumOutstanding(ctx context.Context, docType domain.DocumentType, asOf time.Time) (domain.OutstandingTotals, error) {
	query := `
		SELECT
			COALESCE(SUM(balance_amount), 0),
			COALESCE(SUM(balance_amount) FILTER (WHERE due_date < $2), 0)
		FROM documents
		WHERE document_type = $1
		  AND status IN ('SENT', 'PARTIALLY_PAID')
		  AND balance_amount > 0;
	`
	var pending, overdue decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, docType, asOf).Scan(&pending, &overdue); err != nil {
		return domain.OutstandingTotals{}, fmt.Errorf("failed to sum outstanding for %s: %w", docType, err)
	}
	return domain.OutstandingTotals{
		Pending: domain.NewMoneyFromDecimal(pending),
		Overdue: domain.NewMoneyFromDecimal(overdue),
	}, nil
}

// NextDocumentNumber allocates the next sequential number for the type and
// year via an upsert on the sequence table, which is safe under concurrency.
func (r *documentRepository) NextDocumentNumber(ctx context.Context, docType domain.DocumentType, year int) (string, error) {
	query := `
		INSERT INTO document_sequences (document_type, year, next_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (document_type, year)
		DO UPDATE SET next_value = document_sequences.next_value + 1
		RETURNING next_value;
	`
	var n int64
	if err := r.pool.QueryRow(ctx, query, docType, year).Scan(&n); err != nil {
		return "", fmt.Errorf("failed to allocate number for %s/%d: %w", docType, year, err)
	}

	prefix := "INV"
	if docType == domain.Purchase {
		prefix = "PUR"
	}
	return fmt.Sprintf("%s-%d-%05d", prefix, year, n), nil
}

// FindDocumentByIDForUpdate selects the document without lines and locks its
// row for the duration of the transaction.
func (r *documentRepository) FindDocumentByIDForUpdate(ctx context.Context, tx pgx.Tx, documentID string) (*domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE document_id = $1 FOR UPDATE;`
	doc, err := scanDocument(tx.QueryRow(ctx, query, documentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock document %s: %w", documentID, err)
	}
	return doc, nil
}

// UpdateDocumentPaymentStateInTx writes paid/balance/status within the
// transaction, guarded by the expected version.
func (r *documentRepository) UpdateDocumentPaymentStateInTx(ctx context.Context, tx pgx.Tx, documentID string, paid, balance domain.Money, status domain.DocumentStatus, expectedVersion int64, updatedBy string, now time.Time) error {
	query := `
		UPDATE documents
		SET paid_amount = $2, balance_amount = $3, status = $4, version = version + 1,
			last_updated_at = $5, last_updated_by = $6
		WHERE document_id = $1 AND version = $7;
	`
	tag, err := tx.Exec(ctx, query, documentID, paid.Decimal(), balance.Decimal(), status, now, updatedBy, expectedVersion)
	if err != nil {
		return fmt.Errorf("failed to update payment state for document %s: %w", documentID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("document %s version mismatch: %w", documentID, apperrors.ErrConflict)
	}
	return nil
}
