package repositories

import (
	"context"
	"time"

	"github.com/hisaabkitab/hisaab_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// DocumentListFilter narrows document listings.
type DocumentListFilter struct {
	DocumentType *domain.DocumentType
	Status       *domain.DocumentStatus
	PartyID      *string
	FromDate     *time.Time
	ToDate       *time.Time
}

// DocumentReader defines read operations for documents.
type DocumentReader interface {
	// FindDocumentByID retrieves a document with its lines.
	FindDocumentByID(ctx context.Context, documentID string) (*domain.Document, error)

	// ListDocuments retrieves a token-paginated page of documents (without
	// lines), newest first. Returns the page and the next cursor, if any.
	ListDocuments(ctx context.Context, filter DocumentListFilter, limit int, nextToken *string) ([]domain.Document, *string, error)

	// SumOutstanding sums pending and overdue balances over non-cancelled
	// documents of the given type, as of the given date.
	SumOutstanding(ctx context.Context, docType domain.DocumentType, asOf time.Time) (domain.OutstandingTotals, error)

	// NextDocumentNumber allocates the next sequential number for the type
	// within the document-date year, e.g. INV-2026-00042.
	NextDocumentNumber(ctx context.Context, docType domain.DocumentType, year int) (string, error)
}

// DocumentWriter defines write operations for documents.
type DocumentWriter interface {
	// SaveDocument persists a new document and its lines atomically.
	SaveDocument(ctx context.Context, doc domain.Document) error

	// UpdateDocument replaces a document's mutable fields and lines. The
	// stored version must match doc.Version or ErrConflict is returned.
	UpdateDocument(ctx context.Context, doc domain.Document) error

	// UpdateDocumentStatus transitions the persisted lifecycle state.
	UpdateDocumentStatus(ctx context.Context, documentID string, status domain.DocumentStatus, updatedBy string, now time.Time) error
}

// DocumentTransactionSupport defines operations for payment application,
// which must observe and mutate the document under a row lock.
type DocumentTransactionSupport interface {
	// FindDocumentByIDForUpdate selects the document (without lines) and
	// locks its row for the duration of the transaction.
	FindDocumentByIDForUpdate(ctx context.Context, tx pgx.Tx, documentID string) (*domain.Document, error)

	// UpdateDocumentPaymentStateInTx writes paid/balance/status within the
	// transaction, guarded by the expected version. Returns ErrConflict if
	// the version moved underneath the caller.
	UpdateDocumentPaymentStateInTx(ctx context.Context, tx pgx.Tx, documentID string, paid, balance domain.Money, status domain.DocumentStatus, expectedVersion int64, updatedBy string, now time.Time) error
}

// DocumentRepositoryFacade combines all document repository interfaces.
type DocumentRepositoryFacade interface {
	DocumentReader
	DocumentWriter
	DocumentTransactionSupport
}

// DocumentRepositoryWithTx extends the facade with transaction management.
type DocumentRepositoryWithTx interface {
	DocumentRepositoryFacade
	TransactionManager
}
