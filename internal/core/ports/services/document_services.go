package services

import (
	"context"

	"github.com/hisaabkitab/hisaab_backend/internal/core/domain"
	"github.com/hisaabkitab/hisaab_backend/internal/dto"
)

// DocumentSvcFacade defines operations for invoice/purchase documents.
// Totals are recomputed from lines on every create and update; lifecycle
// transitions go through the explicit Send/Cancel operations.
type DocumentSvcFacade interface {
	CreateDocument(ctx context.Context, req dto.CreateDocumentRequest, creatorUserID string) (*domain.Document, error)
	UpdateDocument(ctx context.Context, documentID string, req dto.UpdateDocumentRequest, userID string) (*domain.Document, error)
	GetDocumentByID(ctx context.Context, documentID string) (*domain.Document, error)
	ListDocuments(ctx context.Context, params dto.ListDocumentsParams) (*dto.ListDocumentsResponse, error)

	// MarkDocumentSent issues a draft (SENT for invoices, reported as
	// received for purchases). Drafts with no lines cannot be issued.
	MarkDocumentSent(ctx context.Context, documentID string, userID string) (*domain.Document, error)

	// CancelDocument is terminal and freezes further payments.
	CancelDocument(ctx context.Context, documentID string, userID string) (*domain.Document, error)
}
