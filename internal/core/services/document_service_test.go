package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/hisaabkitab/hisaab_backend/internal/apperrors"
	"github.com/hisaabkitab/hisaab_backend/internal/core/domain"
	portssvc "github.com/hisaabkitab/hisaab_backend/internal/core/ports/services"
	"github.com/hisaabkitab/hisaab_backend/internal/core/services"
	"github.com/hisaabkitab/hisaab_backend/internal/dto"
)

const testSellerState = "27"

type DocumentServiceTestSuite struct {
	suite.Suite
	mockDocRepo   *MockDocumentRepository
	mockPartyRepo *MockPartyRepository
	service       portssvc.DocumentSvcFacade
	userID        string
}

func (s *DocumentServiceTestSuite) SetupTest() {
	s.mockDocRepo = new(MockDocumentRepository)
	s.mockPartyRepo = new(MockPartyRepository)
	s.service = services.NewDocumentService(s.mockDocRepo, s.mockPartyRepo, testSellerState)
	s.userID = uuid.NewString()
}

func (s *DocumentServiceTestSuite) activeParty(partyType domain.PartyType) *domain.Party {
	return &domain.Party{
		PartyID:   uuid.NewString(),
		Name:      "Sharma Traders",
		PartyType: partyType,
		StateCode: testSellerState,
		IsActive:  true,
	}
}

func createReq(partyID string) dto.CreateDocumentRequest {
	return dto.CreateDocumentRequest{
		DocumentType: domain.Invoice,
		PartyID:      partyID,
		DocumentDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		Terms:        domain.Net30,
		Lines: []dto.LineItemRequest{
			{
				Description: "Consulting",
				Quantity:    decimal.NewFromInt(1),
				UnitRate:    decimal.NewFromInt(1000),
				TaxRate:     decimal.NewFromInt(18),
			},
		},
	}
}

func (s *DocumentServiceTestSuite) TestCreateDocument_DraftWithComputedTotals() {
	ctx := context.Background()
	party := s.activeParty(domain.Customer)
	req := createReq(party.PartyID)

	s.mockPartyRepo.On("FindPartyByID", ctx, party.PartyID).Return(party, nil).Once()
	s.mockDocRepo.On("NextDocumentNumber", ctx, domain.Invoice, 2026).Return("INV-2026-00042", nil).Once()
	s.mockDocRepo.On("SaveDocument", ctx, mock.AnythingOfType("domain.Document")).Return(nil).Once()

	doc, err := s.service.CreateDocument(ctx, req, s.userID)

	s.Require().NoError(err)
	s.Equal(domain.Draft, doc.Status)
	s.Equal("INV-2026-00042", doc.DocumentNumber)
	s.Equal(req.DocumentDate.AddDate(0, 0, 30), doc.DueDate)
	s.Equal("INR", doc.CurrencyCode)
	s.True(doc.ExchangeRate.Equal(decimal.NewFromInt(1)))
	s.Equal(party.StateCode, doc.PlaceOfSupply)
	s.Equal(int64(1), doc.Version)
	// 1000.00 at 18% intra-state
	s.Equal(int64(100000), doc.TaxableValue.Paise())
	s.Equal(int64(18000), doc.TaxTotal.Paise())
	s.Equal(int64(118000), doc.GrandTotal.Paise())
	s.Equal(doc.GrandTotal, doc.BalanceAmount)
	s.mockDocRepo.AssertExpectations(s.T())
}

func (s *DocumentServiceTestSuite) TestCreateDocument_RejectsUnknownTaxRate() {
	ctx := context.Background()
	req := createReq(uuid.NewString())
	req.Lines[0].TaxRate = decimal.NewFromInt(17)

	_, err := s.service.CreateDocument(ctx, req, s.userID)

	s.Require().ErrorIs(err, apperrors.ErrValidation)
	s.mockPartyRepo.AssertNotCalled(s.T(), "FindPartyByID", mock.Anything, mock.Anything)
	s.mockDocRepo.AssertNotCalled(s.T(), "SaveDocument", mock.Anything, mock.Anything)
}

func (s *DocumentServiceTestSuite) TestCreateDocument_RejectsPartyTypeMismatch() {
	ctx := context.Background()
	party := s.activeParty(domain.Vendor)
	req := createReq(party.PartyID)

	s.mockPartyRepo.On("FindPartyByID", ctx, party.PartyID).Return(party, nil).Once()

	_, err := s.service.CreateDocument(ctx, req, s.userID)

	s.Require().ErrorIs(err, services.ErrPartyTypeMismatch)
	s.mockDocRepo.AssertNotCalled(s.T(), "NextDocumentNumber", mock.Anything, mock.Anything, mock.Anything)
}

func (s *DocumentServiceTestSuite) TestCreateDocument_RejectsInactiveParty() {
	ctx := context.Background()
	party := s.activeParty(domain.Customer)
	party.IsActive = false
	req := createReq(party.PartyID)

	s.mockPartyRepo.On("FindPartyByID", ctx, party.PartyID).Return(party, nil).Once()

	_, err := s.service.CreateDocument(ctx, req, s.userID)

	s.Require().ErrorIs(err, services.ErrPartyInactive)
}

// draftDocument returns a draft invoice of 1000.00 + 18% with one valid line.
func (s *DocumentServiceTestSuite) draftDocument() *domain.Document {
	docID := uuid.NewString()
	return &domain.Document{
		DocumentID:    docID,
		DocumentType:  domain.Invoice,
		PartyID:       uuid.NewString(),
		DocumentDate:  time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		Terms:         domain.DueOnReceipt,
		PlaceOfSupply: testSellerState,
		Lines: []domain.LineItem{
			{
				LineID:     uuid.NewString(),
				DocumentID: docID,
				Quantity:   decimal.NewFromInt(1),
				UnitRate:   domain.NewMoneyFromPaise(100000),
				TaxRate:    decimal.NewFromInt(18),
			},
		},
		TaxableValue:  domain.NewMoneyFromPaise(100000),
		TaxTotal:      domain.NewMoneyFromPaise(18000),
		GrandTotal:    domain.NewMoneyFromPaise(118000),
		BalanceAmount: domain.NewMoneyFromPaise(118000),
		Status:        domain.Draft,
		Version:       1,
	}
}

func (s *DocumentServiceTestSuite) TestUpdateDocument_RejectsTotalBelowPaid() {
	ctx := context.Background()
	doc := s.draftDocument()
	doc.Status = domain.PartiallyPaid
	doc.PaidAmount = domain.NewMoneyFromPaise(100000)
	doc.BalanceAmount = domain.NewMoneyFromPaise(18000)

	s.mockDocRepo.On("FindDocumentByID", ctx, doc.DocumentID).Return(doc, nil).Once()

	req := dto.UpdateDocumentRequest{
		Lines: []dto.LineItemRequest{
			{
				Description: "Smaller line",
				Quantity:    decimal.NewFromInt(1),
				UnitRate:    decimal.NewFromInt(100), // grand total 118.00, below paid
				TaxRate:     decimal.NewFromInt(18),
			},
		},
	}

	_, err := s.service.UpdateDocument(ctx, doc.DocumentID, req, s.userID)

	s.Require().ErrorIs(err, services.ErrPaidExceedsTotal)
	s.mockDocRepo.AssertNotCalled(s.T(), "UpdateDocument", mock.Anything, mock.Anything)
}

func (s *DocumentServiceTestSuite) TestUpdateDocument_RejectsCancelledDocument() {
	ctx := context.Background()
	doc := s.draftDocument()
	doc.Status = domain.Cancelled

	s.mockDocRepo.On("FindDocumentByID", ctx, doc.DocumentID).Return(doc, nil).Once()

	notes := "too late"
	_, err := s.service.UpdateDocument(ctx, doc.DocumentID, dto.UpdateDocumentRequest{Notes: &notes}, s.userID)

	s.Require().ErrorIs(err, apperrors.ErrDocumentCancelled)
}

func (s *DocumentServiceTestSuite) TestUpdateDocument_RecomputesTotalsAndBumpsVersion() {
	ctx := context.Background()
	doc := s.draftDocument()

	s.mockDocRepo.On("FindDocumentByID", ctx, doc.DocumentID).Return(doc, nil).Once()
	s.mockDocRepo.On("UpdateDocument", ctx, mock.AnythingOfType("domain.Document")).Return(nil).Once()

	req := dto.UpdateDocumentRequest{
		Lines: []dto.LineItemRequest{
			{
				Description: "Two units",
				Quantity:    decimal.NewFromInt(2),
				UnitRate:    decimal.NewFromInt(1000),
				TaxRate:     decimal.NewFromInt(18),
			},
		},
	}

	updated, err := s.service.UpdateDocument(ctx, doc.DocumentID, req, s.userID)

	s.Require().NoError(err)
	s.Equal(int64(236000), updated.GrandTotal.Paise())
	s.Equal(int64(2), updated.Version)
	s.mockDocRepo.AssertExpectations(s.T())
}

func (s *DocumentServiceTestSuite) TestUpdateDocument_RetriesOnceOnVersionConflict() {
	ctx := context.Background()
	doc := s.draftDocument()

	// Each attempt re-reads the document before recomputing and writing.
	s.mockDocRepo.On("FindDocumentByID", ctx, doc.DocumentID).Return(doc, nil).Twice()
	s.mockDocRepo.On("UpdateDocument", ctx, mock.AnythingOfType("domain.Document")).Return(apperrors.ErrConflict).Once()
	s.mockDocRepo.On("UpdateDocument", ctx, mock.AnythingOfType("domain.Document")).Return(nil).Once()

	notes := "payment terms agreed on phone"
	updated, err := s.service.UpdateDocument(ctx, doc.DocumentID, dto.UpdateDocumentRequest{Notes: &notes}, s.userID)

	s.Require().NoError(err)
	s.Equal(notes, updated.Notes)
	s.mockDocRepo.AssertNumberOfCalls(s.T(), "FindDocumentByID", 2)
	s.mockDocRepo.AssertNumberOfCalls(s.T(), "UpdateDocument", 2)
}

func (s *DocumentServiceTestSuite) TestUpdateDocument_SurfacesConflictAfterRetry() {
	ctx := context.Background()
	doc := s.draftDocument()

	s.mockDocRepo.On("FindDocumentByID", ctx, doc.DocumentID).Return(doc, nil).Twice()
	s.mockDocRepo.On("UpdateDocument", ctx, mock.AnythingOfType("domain.Document")).Return(apperrors.ErrConflict).Twice()

	notes := "still racing"
	_, err := s.service.UpdateDocument(ctx, doc.DocumentID, dto.UpdateDocumentRequest{Notes: &notes}, s.userID)

	s.Require().ErrorIs(err, apperrors.ErrConflict)
	s.mockDocRepo.AssertNumberOfCalls(s.T(), "UpdateDocument", 2)
}

func (s *DocumentServiceTestSuite) TestMarkDocumentSent_IssuesDraft() {
	ctx := context.Background()
	doc := s.draftDocument()

	s.mockDocRepo.On("FindDocumentByID", ctx, doc.DocumentID).Return(doc, nil).Once()
	s.mockDocRepo.On("UpdateDocumentStatus", ctx, doc.DocumentID, domain.Sent, s.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	issued, err := s.service.MarkDocumentSent(ctx, doc.DocumentID, s.userID)

	s.Require().NoError(err)
	s.Equal(domain.Sent, issued.Status)
	s.mockDocRepo.AssertExpectations(s.T())
}

func (s *DocumentServiceTestSuite) TestMarkDocumentSent_RejectsEmptyDraft() {
	ctx := context.Background()
	doc := s.draftDocument()
	doc.Lines = nil

	s.mockDocRepo.On("FindDocumentByID", ctx, doc.DocumentID).Return(doc, nil).Once()

	_, err := s.service.MarkDocumentSent(ctx, doc.DocumentID, s.userID)

	s.Require().ErrorIs(err, services.ErrEmptyDocument)
	s.mockDocRepo.AssertNotCalled(s.T(), "UpdateDocumentStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *DocumentServiceTestSuite) TestMarkDocumentSent_RejectsNonDraft() {
	ctx := context.Background()
	doc := s.draftDocument()
	doc.Status = domain.Sent

	s.mockDocRepo.On("FindDocumentByID", ctx, doc.DocumentID).Return(doc, nil).Once()

	_, err := s.service.MarkDocumentSent(ctx, doc.DocumentID, s.userID)

	s.Require().ErrorIs(err, services.ErrDocumentNotDraft)
}

func (s *DocumentServiceTestSuite) TestMarkDocumentSent_RejectsInvalidLine() {
	ctx := context.Background()
	doc := s.draftDocument()
	doc.Lines[0].Invalid = true

	s.mockDocRepo.On("FindDocumentByID", ctx, doc.DocumentID).Return(doc, nil).Once()

	_, err := s.service.MarkDocumentSent(ctx, doc.DocumentID, s.userID)

	s.Require().ErrorIs(err, services.ErrInvalidLine)
}

func (s *DocumentServiceTestSuite) TestCancelDocument_IsTerminal() {
	ctx := context.Background()
	doc := s.draftDocument()
	doc.Status = domain.Cancelled

	s.mockDocRepo.On("FindDocumentByID", ctx, doc.DocumentID).Return(doc, nil).Once()

	_, err := s.service.CancelDocument(ctx, doc.DocumentID, s.userID)

	s.Require().ErrorIs(err, apperrors.ErrDocumentCancelled)
	s.mockDocRepo.AssertNotCalled(s.T(), "UpdateDocumentStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *DocumentServiceTestSuite) TestListDocuments_AppliesDefaultLimit() {
	ctx := context.Background()

	s.mockDocRepo.On("ListDocuments", ctx, mock.Anything, 20, (*string)(nil)).Return([]domain.Document{}, nil, nil).Once()

	resp, err := s.service.ListDocuments(ctx, dto.ListDocumentsParams{})

	s.Require().NoError(err)
	s.Empty(resp.Documents)
	s.Nil(resp.NextToken)
	s.mockDocRepo.AssertExpectations(s.T())
}

func TestDocumentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DocumentServiceTestSuite))
}
