package repositories

import (
	"context"
	"time"

	"github.com/hisaabkitab/hisaab_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// PaymentReader defines read operations for payments.
type PaymentReader interface {
	// FindPaymentByID retrieves a single payment.
	FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)

	// ListPaymentsByDocumentID retrieves all payments (including voided) for
	// a document, oldest first.
	ListPaymentsByDocumentID(ctx context.Context, documentID string) ([]domain.Payment, error)

	// ListActivePaymentSources retrieves every non-voided payment joined with
	// its document's type and number. Used by the cashflow rebuild pass.
	ListActivePaymentSources(ctx context.Context) ([]domain.PaymentSource, error)
}

// PaymentWriter defines write operations for payments. Both run inside the
// document's payment transaction so the ledger and the document move together.
type PaymentWriter interface {
	// SavePaymentInTx persists a new payment within the transaction.
	SavePaymentInTx(ctx context.Context, tx pgx.Tx, payment domain.Payment) error

	// MarkPaymentVoidedInTx flags a payment voided within the transaction.
	MarkPaymentVoidedInTx(ctx context.Context, tx pgx.Tx, paymentID string, updatedBy string, now time.Time) error
}

// PaymentRepositoryFacade combines all payment repository interfaces.
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentWriter
}
