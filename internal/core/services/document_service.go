package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hisaabkitab/hisaab_backend/internal/apperrors"
	"github.com/hisaabkitab/hisaab_backend/internal/core/domain"
	portsrepo "github.com/hisaabkitab/hisaab_backend/internal/core/ports/repositories"
	portssvc "github.com/hisaabkitab/hisaab_backend/internal/core/ports/services"
	"github.com/hisaabkitab/hisaab_backend/internal/dto"
	"github.com/hisaabkitab/hisaab_backend/internal/utils/gst"
)

var (
	ErrDocumentNotDraft  = errors.New("document must be in draft to be issued")
	ErrEmptyDocument     = errors.New("document has no lines and cannot be issued")
	ErrInvalidLine       = errors.New("document has an invalid line")
	ErrPaidExceedsTotal  = errors.New("edit would drop the grand total below the amount already paid")
	ErrPartyInactive     = errors.New("party is inactive")
	ErrPartyTypeMismatch = errors.New("party type does not match document type")
)

// gstRates is the set of nominal GST rate percentages a line may carry.
var gstRates = map[string]struct{}{
	"0": {}, "0.25": {}, "3": {}, "5": {}, "12": {}, "18": {}, "28": {},
}

// documentService manages invoice/purchase documents and their totals.
type documentService struct {
	BaseService
	docRepo         portsrepo.DocumentRepositoryWithTx
	partyRepo       portsrepo.PartyRepository
	sellerStateCode string
}

// NewDocumentService creates a new DocumentService. sellerStateCode is the
// firm's home GST state, used to decide intra- vs inter-state tax splits.
func NewDocumentService(docRepo portsrepo.DocumentRepositoryWithTx, partyRepo portsrepo.PartyRepository, sellerStateCode string) portssvc.DocumentSvcFacade {
	return &documentService{
		docRepo:         docRepo,
		partyRepo:       partyRepo,
		sellerStateCode: sellerStateCode,
	}
}

var _ portssvc.DocumentSvcFacade = (*documentService)(nil)

func validateLineRequests(lines []dto.LineItemRequest) error {
	for i, l := range lines {
		if !l.Quantity.IsPositive() {
			return fmt.Errorf("%w: line %d quantity must be positive", apperrors.ErrValidation, i+1)
		}
		if l.UnitRate.IsNegative() {
			return fmt.Errorf("%w: line %d unit rate cannot be negative", apperrors.ErrValidation, i+1)
		}
		if l.Discount.IsNegative() {
			return fmt.Errorf("%w: line %d discount cannot be negative", apperrors.ErrValidation, i+1)
		}
		if _, ok := gstRates[l.TaxRate.String()]; !ok {
			return fmt.Errorf("%w: line %d has unknown tax rate %s", apperrors.ErrValidation, i+1, l.TaxRate)
		}
	}
	return nil
}

func buildLines(documentID string, lines []dto.LineItemRequest) []domain.LineItem {
	domainLines := make([]domain.LineItem, len(lines))
	for i, l := range lines {
		domainLines[i] = domain.LineItem{
			LineID:      uuid.NewString(),
			DocumentID:  documentID,
			ProductID:   l.ProductID,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitRate:    domain.NewMoneyFromDecimal(l.UnitRate),
			Discount:    domain.NewMoneyFromDecimal(l.Discount),
			TaxRate:     l.TaxRate,
		}
	}
	return domainLines
}

// CreateDocument validates the request, computes totals and persists the new
// document in DRAFT state.
func (s *documentService) CreateDocument(ctx context.Context, req dto.CreateDocumentRequest, creatorUserID string) (*domain.Document, error) {
	if err := validateLineRequests(req.Lines); err != nil {
		return nil, err
	}

	party, err := s.partyRepo.FindPartyByID(ctx, req.PartyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: party %s", apperrors.ErrNotFound, req.PartyID)
		}
		s.LogError(ctx, err, "Failed to fetch party for document creation", "party_id", req.PartyID)
		return nil, fmt.Errorf("failed to fetch party: %w", err)
	}
	if !party.IsActive {
		return nil, fmt.Errorf("%w: party %s", ErrPartyInactive, party.PartyID)
	}
	if req.DocumentType == domain.Invoice && party.PartyType != domain.Customer {
		return nil, fmt.Errorf("%w: invoices require a customer", ErrPartyTypeMismatch)
	}
	if req.DocumentType == domain.Purchase && party.PartyType != domain.Vendor {
		return nil, fmt.Errorf("%w: purchases require a vendor", ErrPartyTypeMismatch)
	}

	now := time.Now().UTC()
	documentID := uuid.NewString()

	terms := req.Terms
	if terms == "" {
		terms = domain.DueOnReceipt
	}
	currency := req.CurrencyCode
	if currency == "" {
		currency = "INR"
	}
	exchangeRate := req.ExchangeRate
	if exchangeRate.IsZero() {
		exchangeRate = decimal.NewFromInt(1)
	}
	placeOfSupply := req.PlaceOfSupply
	if placeOfSupply == "" {
		placeOfSupply = party.StateCode
	}

	number, err := s.docRepo.NextDocumentNumber(ctx, req.DocumentType, req.DocumentDate.Year())
	if err != nil {
		s.LogError(ctx, err, "Failed to allocate document number")
		return nil, fmt.Errorf("failed to allocate document number: %w", err)
	}

	doc := domain.Document{
		DocumentID:     documentID,
		DocumentType:   req.DocumentType,
		DocumentNumber: number,
		PartyID:        party.PartyID,
		DocumentDate:   req.DocumentDate,
		DueDate:        req.DocumentDate.AddDate(0, 0, terms.Days()),
		Terms:          terms,
		CurrencyCode:   currency,
		ExchangeRate:   exchangeRate,
		PlaceOfSupply:  placeOfSupply,
		ReverseCharge:  req.ReverseCharge,
		ExportSupply:   req.ExportSupply,
		Lines:          buildLines(documentID, req.Lines),
		Status:         domain.Draft,
		Notes:          req.Notes,
		Version:        1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := gst.Recompute(&doc, s.sellerStateCode); err != nil {
		s.LogError(ctx, err, "Totals computation failed", "document_id", documentID)
		return nil, err
	}

	if err := s.docRepo.SaveDocument(ctx, doc); err != nil {
		s.LogError(ctx, err, "Failed to save document", "document_id", documentID)
		return nil, fmt.Errorf("failed to save document: %w", err)
	}

	s.LogInfo(ctx, "Document created", "document_id", documentID, "document_number", number, "grand_total", doc.GrandTotal.String())
	return &doc, nil
}

// UpdateDocument applies edits and recomputes totals. Cancelled documents
// are immutable; an edit may not shrink the grand total below what has
// already been paid. Retries once with a fresh read if a concurrent writer
// moved the document version.
func (s *documentService) UpdateDocument(ctx context.Context, documentID string, req dto.UpdateDocumentRequest, userID string) (*domain.Document, error) {
	if req.Lines != nil {
		if err := validateLineRequests(req.Lines); err != nil {
			return nil, err
		}
	}

	var doc *domain.Document
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		doc, err = s.updateDocumentAttempt(ctx, documentID, req, userID)
		if err == nil || !errors.Is(err, apperrors.ErrConflict) {
			break
		}
		s.LogWarn(ctx, "Document update conflicted, retrying", "document_id", documentID, "attempt", attempt+1)
	}
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Document updated", "document_id", documentID, "grand_total", doc.GrandTotal.String())
	return doc, nil
}

func (s *documentService) updateDocumentAttempt(ctx context.Context, documentID string, req dto.UpdateDocumentRequest, userID string) (*domain.Document, error) {
	doc, err := s.docRepo.FindDocumentByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.Status == domain.Cancelled {
		return nil, apperrors.ErrDocumentCancelled
	}

	if req.PartyID != nil {
		doc.PartyID = *req.PartyID
	}
	if req.DocumentDate != nil {
		doc.DocumentDate = *req.DocumentDate
	}
	if req.Terms != nil {
		doc.Terms = *req.Terms
	}
	doc.DueDate = doc.DocumentDate.AddDate(0, 0, doc.Terms.Days())
	if req.PlaceOfSupply != nil {
		doc.PlaceOfSupply = *req.PlaceOfSupply
	}
	if req.ReverseCharge != nil {
		doc.ReverseCharge = *req.ReverseCharge
	}
	if req.ExportSupply != nil {
		doc.ExportSupply = *req.ExportSupply
	}
	if req.Notes != nil {
		doc.Notes = *req.Notes
	}
	if req.Lines != nil {
		doc.Lines = buildLines(documentID, req.Lines)
	}

	if err := gst.Recompute(doc, s.sellerStateCode); err != nil {
		s.LogError(ctx, err, "Totals recomputation failed", "document_id", documentID)
		return nil, err
	}

	if doc.GrandTotal.Cmp(doc.PaidAmount) < 0 {
		return nil, fmt.Errorf("%w: grand total %s, paid %s", ErrPaidExceedsTotal, doc.GrandTotal, doc.PaidAmount)
	}
	doc.Status = doc.DerivePaymentStatus()

	now := time.Now().UTC()
	doc.LastUpdatedAt = now
	doc.LastUpdatedBy = userID

	if err := s.docRepo.UpdateDocument(ctx, *doc); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, err
		}
		s.LogError(ctx, err, "Failed to save document update", "document_id", documentID)
		return nil, fmt.Errorf("failed to save document update: %w", err)
	}
	doc.Version++

	return doc, nil
}

// GetDocumentByID retrieves a document with its lines.
func (s *documentService) GetDocumentByID(ctx context.Context, documentID string) (*domain.Document, error) {
	doc, err := s.docRepo.FindDocumentByID(ctx, documentID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find document", "document_id", documentID)
		}
		return nil, err
	}
	return doc, nil
}

// ListDocuments retrieves a token-paginated page of documents.
func (s *documentService) ListDocuments(ctx context.Context, params dto.ListDocumentsParams) (*dto.ListDocumentsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	filter := portsrepo.DocumentListFilter{
		DocumentType: params.DocumentType,
		Status:       params.Status,
		PartyID:      params.PartyID,
		FromDate:     params.FromDate,
		ToDate:       params.ToDate,
	}

	docs, nextToken, err := s.docRepo.ListDocuments(ctx, filter, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list documents")
		return nil, fmt.Errorf("failed to retrieve documents: %w", err)
	}

	now := time.Now().UTC()
	responses := make([]dto.DocumentResponse, len(docs))
	for i := range docs {
		responses[i] = dto.ToDocumentResponse(&docs[i], now)
	}

	return &dto.ListDocumentsResponse{Documents: responses, NextToken: nextToken}, nil
}

// MarkDocumentSent issues a draft. Documents with no lines stay in draft.
func (s *documentService) MarkDocumentSent(ctx context.Context, documentID string, userID string) (*domain.Document, error) {
	doc, err := s.docRepo.FindDocumentByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.Status == domain.Cancelled {
		return nil, apperrors.ErrDocumentCancelled
	}
	if doc.Status != domain.Draft {
		return nil, fmt.Errorf("%w: status is %s", ErrDocumentNotDraft, doc.Status)
	}
	if len(doc.Lines) == 0 {
		return nil, ErrEmptyDocument
	}
	for i := range doc.Lines {
		if doc.Lines[i].Invalid {
			return nil, fmt.Errorf("%w: line %s", ErrInvalidLine, doc.Lines[i].LineID)
		}
	}

	now := time.Now().UTC()
	if err := s.docRepo.UpdateDocumentStatus(ctx, documentID, domain.Sent, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to mark document sent", "document_id", documentID)
		return nil, fmt.Errorf("failed to issue document: %w", err)
	}

	doc.Status = domain.Sent
	doc.LastUpdatedAt = now
	doc.LastUpdatedBy = userID
	s.LogInfo(ctx, "Document issued", "document_id", documentID)
	return doc, nil
}

// CancelDocument is terminal: further payments and edits are frozen.
func (s *documentService) CancelDocument(ctx context.Context, documentID string, userID string) (*domain.Document, error) {
	doc, err := s.docRepo.FindDocumentByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.Status == domain.Cancelled {
		return nil, apperrors.ErrDocumentCancelled
	}

	now := time.Now().UTC()
	if err := s.docRepo.UpdateDocumentStatus(ctx, documentID, domain.Cancelled, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to cancel document", "document_id", documentID)
		return nil, fmt.Errorf("failed to cancel document: %w", err)
	}

	doc.Status = domain.Cancelled
	doc.LastUpdatedAt = now
	doc.LastUpdatedBy = userID
	s.LogInfo(ctx, "Document cancelled", "document_id", documentID)
	return doc, nil
}
