package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/hisaabkitab/hisaab_backend/internal/apperrors"
	"github.com/hisaabkitab/hisaab_backend/internal/core/domain"
	portsrepo "github.com/hisaabkitab/hisaab_backend/internal/core/ports/repositories"
)

const paymentColumns = `payment_id, document_id, amount, payment_date, method, account_head, reference, voided,
		created_at, created_by, last_updated_at, last_updated_by`

type paymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository creates a new repository for payment data.
func NewPaymentRepository(pool *pgxpool.Pool) portsrepo.PaymentRepositoryFacade {
	return &paymentRepository{pool: pool}
}

var _ portsrepo.PaymentRepositoryFacade = (*paymentRepository)(nil)

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var p domain.Payment
	var amount decimal.Decimal

	err := row.Scan(
		&p.PaymentID,
		&p.DocumentID,
		&amount,
		&p.PaymentDate,
		&p.Method,
		&p.AccountHead,
		&p.Reference,
		&p.Voided,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	p.Amount = domain.NewMoneyFromDecimal(amount)
	return &p, nil
}

// FindPaymentByID retrieves a single payment.
func (r *paymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE payment_id = $1;`
	p, err := scanPayment(r.pool.QueryRow(ctx, query, paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payment by ID %s: %w", paymentID, err)
	}
	return p, nil
}

// ListPaymentsByDocumentID retrieves all payments for a document, oldest first.
func (r *paymentRepository) ListPaymentsByDocumentID(ctx context.Context, documentID string) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE document_id = $1 ORDER BY payment_date, created_at;`
	rows, err := r.pool.Query(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments for document %s: %w", documentID, err)
	}
	defer rows.Close()

	payments := []domain.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment row for document %s: %w", documentID, err)
		}
		payments = append(payments, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment rows for document %s: %w", documentID, err)
	}
	return payments, nil
}

// ListActivePaymentSources retrieves every non-voided payment joined with its
// document's type and number, for the cashflow rebuild pass.
func (r *paymentRepository) ListActivePaymentSources(ctx context.Context) ([]domain.PaymentSource, error) {
	query := `
		SELECT p.payment_id, p.document_id, p.amount, p.payment_date, p.method, p.account_head, p.reference, p.voided,
			p.created_at, p.created_by, p.last_updated_at, p.last_updated_by,
			d.document_type, d.document_number
		FROM payments p
		JOIN documents d ON d.document_id = p.document_id
		WHERE p.voided = FALSE AND d.status <> 'CANCELLED'
		ORDER BY p.payment_date, p.created_at;
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query payment sources: %w", err)
	}
	defer rows.Close()

	sources := []domain.PaymentSource{}
	for rows.Next() {
		var src domain.PaymentSource
		var amount decimal.Decimal

		if err := rows.Scan(
			&src.PaymentID,
			&src.DocumentID,
			&amount,
			&src.PaymentDate,
			&src.Method,
			&src.AccountHead,
			&src.Reference,
			&src.Voided,
			&src.CreatedAt,
			&src.CreatedBy,
			&src.LastUpdatedAt,
			&src.LastUpdatedBy,
			&src.DocumentType,
			&src.DocumentNumber,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payment source row: %w", err)
		}
		src.Amount = domain.NewMoneyFromDecimal(amount)
		sources = append(sources, src)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment source rows: %w", err)
	}
	return sources, nil
}

// SavePaymentInTx persists a new payment within the caller's transaction.
func (r *paymentRepository) SavePaymentInTx(ctx context.Context, tx pgx.Tx, payment domain.Payment) error {
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := tx.Exec(ctx, query,
		payment.PaymentID,
		payment.DocumentID,
		payment.Amount.Decimal(),
		payment.PaymentDate,
		payment.Method,
		payment.AccountHead,
		payment.Reference,
		payment.Voided,
		payment.CreatedAt,
		payment.CreatedBy,
		payment.LastUpdatedAt,
		payment.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment %s: %w", payment.PaymentID, err)
	}
	return nil
}

// MarkPaymentVoidedInTx flags a payment voided within the caller's
// transaction. The payment was loaded moments earlier, so zero rows here
// means a concurrent void won the race, not a missing row.
func (r *paymentRepository) MarkPaymentVoidedInTx(ctx context.Context, tx pgx.Tx, paymentID string, updatedBy string, now time.Time) error {
	query := `
		UPDATE payments
		SET voided = TRUE, last_updated_at = $2, last_updated_by = $3
		WHERE payment_id = $1 AND voided = FALSE;
	`
	tag, err := tx.Exec(ctx, query, paymentID, now, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to void payment %s: %w", paymentID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("payment %s already voided: %w", paymentID, apperrors.ErrConflict)
	}
	return nil
}
