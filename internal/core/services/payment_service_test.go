package services_test

import (
	"context"
	"fmt"
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

type PaymentServiceTestSuite struct {
	suite.Suite
	mockDocRepo      *MockDocumentRepository
	mockPaymentRepo  *MockPaymentRepository
	mockCashflowRepo *MockCashflowRepository
	service          portssvc.PaymentSvcFacade
	userID           string
}

func (s *PaymentServiceTestSuite) SetupTest() {
	s.mockDocRepo = new(MockDocumentRepository)
	s.mockPaymentRepo = new(MockPaymentRepository)
	s.mockCashflowRepo = new(MockCashflowRepository)
	s.service = services.NewPaymentService(s.mockDocRepo, s.mockPaymentRepo, s.mockCashflowRepo)
	s.userID = uuid.NewString()
}

// issuedInvoice returns a SENT invoice of ₹2000 with nothing paid.
func (s *PaymentServiceTestSuite) issuedInvoice() *domain.Document {
	return &domain.Document{
		DocumentID:     uuid.NewString(),
		DocumentType:   domain.Invoice,
		DocumentNumber: "INV-2026-00001",
		GrandTotal:     domain.NewMoneyFromPaise(200000),
		BalanceAmount:  domain.NewMoneyFromPaise(200000),
		Status:         domain.Sent,
		Version:        1,
	}
}

func (s *PaymentServiceTestSuite) expectTx() {
	s.mockDocRepo.On("Begin", mock.Anything).Return(nil, nil)
	s.mockDocRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
}

func paymentReq(amount string) dto.RecordPaymentRequest {
	return dto.RecordPaymentRequest{
		Amount:      decimal.RequireFromString(amount),
		PaymentDate: time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC),
		Method:      domain.UPI,
		AccountHead: domain.HeadBank,
		Reference:   "UTR123",
	}
}

func (s *PaymentServiceTestSuite) TestRecordPayment_PartialPayment() {
	ctx := context.Background()
	doc := s.issuedInvoice()

	s.expectTx()
	s.mockDocRepo.On("FindDocumentByIDForUpdate", mock.Anything, mock.Anything, doc.DocumentID).Return(doc, nil).Once()
	s.mockPaymentRepo.On("SavePaymentInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.Payment")).Return(nil).Once()
	s.mockDocRepo.On("UpdateDocumentPaymentStateInTx", mock.Anything, mock.Anything, doc.DocumentID,
		domain.NewMoneyFromPaise(120000), domain.NewMoneyFromPaise(80000), domain.PartiallyPaid,
		int64(1), s.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	s.mockCashflowRepo.On("SaveEntryInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(e domain.CashflowEntry) bool {
		return e.SourceType == domain.SourceInvoicePayment &&
			e.Amount.Equal(domain.NewMoneyFromPaise(120000)) &&
			e.SourceRef == doc.DocumentNumber
	})).Return(true, nil).Once()
	s.mockDocRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()

	updated, err := s.service.RecordPayment(ctx, doc.DocumentID, paymentReq("1200.00"), s.userID)

	s.Require().NoError(err)
	s.Equal(domain.PartiallyPaid, updated.Status)
	s.Equal(int64(80000), updated.BalanceAmount.Paise())
	s.Equal(int64(2), updated.Version)
	s.mockDocRepo.AssertExpectations(s.T())
	s.mockPaymentRepo.AssertExpectations(s.T())
	s.mockCashflowRepo.AssertExpectations(s.T())
}

func (s *PaymentServiceTestSuite) TestRecordPayment_FullPaymentMarksPaid() {
	ctx := context.Background()
	doc := s.issuedInvoice()

	s.expectTx()
	s.mockDocRepo.On("FindDocumentByIDForUpdate", mock.Anything, mock.Anything, doc.DocumentID).Return(doc, nil).Once()
	s.mockPaymentRepo.On("SavePaymentInTx", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	s.mockDocRepo.On("UpdateDocumentPaymentStateInTx", mock.Anything, mock.Anything, doc.DocumentID,
		domain.NewMoneyFromPaise(200000), domain.ZeroMoney, domain.Paid,
		int64(1), s.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	s.mockCashflowRepo.On("SaveEntryInTx", mock.Anything, mock.Anything, mock.Anything).Return(true, nil).Once()
	s.mockDocRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()

	updated, err := s.service.RecordPayment(ctx, doc.DocumentID, paymentReq("2000.00"), s.userID)

	s.Require().NoError(err)
	s.Equal(domain.Paid, updated.Status)
	s.True(updated.BalanceAmount.IsZero())
}

func (s *PaymentServiceTestSuite) TestRecordPayment_RejectsOverpayment() {
	ctx := context.Background()
	doc := s.issuedInvoice()

	s.expectTx()
	s.mockDocRepo.On("FindDocumentByIDForUpdate", mock.Anything, mock.Anything, doc.DocumentID).Return(doc, nil).Once()

	_, err := s.service.RecordPayment(ctx, doc.DocumentID, paymentReq("2000.01"), s.userID)

	s.Require().ErrorIs(err, apperrors.ErrOverpayment)
	s.mockPaymentRepo.AssertNotCalled(s.T(), "SavePaymentInTx", mock.Anything, mock.Anything, mock.Anything)
	s.mockCashflowRepo.AssertNotCalled(s.T(), "SaveEntryInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (s *PaymentServiceTestSuite) TestRecordPayment_RejectsCancelledDocument() {
	ctx := context.Background()
	doc := s.issuedInvoice()
	doc.Status = domain.Cancelled

	s.expectTx()
	s.mockDocRepo.On("FindDocumentByIDForUpdate", mock.Anything, mock.Anything, doc.DocumentID).Return(doc, nil).Once()

	_, err := s.service.RecordPayment(ctx, doc.DocumentID, paymentReq("100.00"), s.userID)

	s.Require().ErrorIs(err, apperrors.ErrDocumentCancelled)
}

func (s *PaymentServiceTestSuite) TestRecordPayment_RejectsDraftDocument() {
	ctx := context.Background()
	doc := s.issuedInvoice()
	doc.Status = domain.Draft

	s.expectTx()
	s.mockDocRepo.On("FindDocumentByIDForUpdate", mock.Anything, mock.Anything, doc.DocumentID).Return(doc, nil).Once()

	_, err := s.service.RecordPayment(ctx, doc.DocumentID, paymentReq("100.00"), s.userID)

	s.Require().ErrorIs(err, services.ErrDocumentNotIssued)
}

func (s *PaymentServiceTestSuite) TestRecordPayment_RejectsNonPositiveAmount() {
	ctx := context.Background()

	_, err := s.service.RecordPayment(ctx, uuid.NewString(), paymentReq("0"), s.userID)
	s.Require().ErrorIs(err, services.ErrPaymentNotPositive)

	_, err = s.service.RecordPayment(ctx, uuid.NewString(), paymentReq("-5.00"), s.userID)
	s.Require().ErrorIs(err, services.ErrPaymentNotPositive)

	s.mockDocRepo.AssertNotCalled(s.T(), "Begin", mock.Anything)
}

func (s *PaymentServiceTestSuite) TestRecordPayment_RetriesOnceOnVersionConflict() {
	ctx := context.Background()
	doc := s.issuedInvoice()

	s.expectTx()
	// Each attempt re-reads the document under lock.
	s.mockDocRepo.On("FindDocumentByIDForUpdate", mock.Anything, mock.Anything, doc.DocumentID).
		Return(s.issuedInvoiceWithID(doc.DocumentID), nil).Twice()
	s.mockPaymentRepo.On("SavePaymentInTx", mock.Anything, mock.Anything, mock.Anything).Return(nil).Twice()
	s.mockDocRepo.On("UpdateDocumentPaymentStateInTx", mock.Anything, mock.Anything, doc.DocumentID,
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(apperrors.ErrConflict).Once()
	s.mockDocRepo.On("UpdateDocumentPaymentStateInTx", mock.Anything, mock.Anything, doc.DocumentID,
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil).Once()
	s.mockCashflowRepo.On("SaveEntryInTx", mock.Anything, mock.Anything, mock.Anything).Return(true, nil).Once()
	s.mockDocRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()

	updated, err := s.service.RecordPayment(ctx, doc.DocumentID, paymentReq("500.00"), s.userID)

	s.Require().NoError(err)
	s.Equal(domain.PartiallyPaid, updated.Status)
	s.mockDocRepo.AssertNumberOfCalls(s.T(), "Begin", 2)
}

func (s *PaymentServiceTestSuite) issuedInvoiceWithID(id string) *domain.Document {
	doc := s.issuedInvoice()
	doc.DocumentID = id
	return doc
}

func (s *PaymentServiceTestSuite) TestVoidPayment_RestoresBalanceAndStatus() {
	ctx := context.Background()
	doc := s.issuedInvoice()
	doc.PaidAmount = domain.NewMoneyFromPaise(200000)
	doc.BalanceAmount = domain.ZeroMoney
	doc.Status = domain.Paid

	payment := &domain.Payment{
		PaymentID:  uuid.NewString(),
		DocumentID: doc.DocumentID,
		Amount:     domain.NewMoneyFromPaise(200000),
	}

	s.expectTx()
	s.mockPaymentRepo.On("FindPaymentByID", mock.Anything, payment.PaymentID).Return(payment, nil).Once()
	s.mockDocRepo.On("FindDocumentByIDForUpdate", mock.Anything, mock.Anything, doc.DocumentID).Return(doc, nil).Once()
	s.mockPaymentRepo.On("MarkPaymentVoidedInTx", mock.Anything, mock.Anything, payment.PaymentID, s.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	s.mockDocRepo.On("UpdateDocumentPaymentStateInTx", mock.Anything, mock.Anything, doc.DocumentID,
		domain.ZeroMoney, domain.NewMoneyFromPaise(200000), domain.Sent,
		int64(1), s.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	s.mockCashflowRepo.On("DeleteEntryBySourceInTx", mock.Anything, mock.Anything, domain.SourceInvoicePayment, payment.PaymentID).Return(nil).Once()
	s.mockDocRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()

	updated, err := s.service.VoidPayment(ctx, doc.DocumentID, payment.PaymentID, s.userID)

	s.Require().NoError(err)
	s.Equal(domain.Sent, updated.Status)
	s.True(updated.PaidAmount.IsZero())
	s.Equal(int64(200000), updated.BalanceAmount.Paise())
	s.mockCashflowRepo.AssertExpectations(s.T())
}

func (s *PaymentServiceTestSuite) TestVoidPayment_RejectsAlreadyVoided() {
	ctx := context.Background()
	payment := &domain.Payment{
		PaymentID:  uuid.NewString(),
		DocumentID: uuid.NewString(),
		Amount:     domain.NewMoneyFromPaise(5000),
		Voided:     true,
	}

	s.mockPaymentRepo.On("FindPaymentByID", mock.Anything, payment.PaymentID).Return(payment, nil).Once()

	_, err := s.service.VoidPayment(ctx, payment.DocumentID, payment.PaymentID, s.userID)

	s.Require().ErrorIs(err, services.ErrPaymentVoided)
	s.mockDocRepo.AssertNotCalled(s.T(), "Begin", mock.Anything)
}

func (s *PaymentServiceTestSuite) TestVoidPayment_RejectsForeignPayment() {
	ctx := context.Background()
	payment := &domain.Payment{
		PaymentID:  uuid.NewString(),
		DocumentID: uuid.NewString(),
		Amount:     domain.NewMoneyFromPaise(5000),
	}

	s.mockPaymentRepo.On("FindPaymentByID", mock.Anything, payment.PaymentID).Return(payment, nil).Once()

	_, err := s.service.VoidPayment(ctx, uuid.NewString(), payment.PaymentID, s.userID)

	s.Require().ErrorIs(err, services.ErrPaymentMismatch)
}

func (s *PaymentServiceTestSuite) TestVoidPayment_ConcurrentVoidSurfacesAsAlreadyVoided() {
	ctx := context.Background()
	doc := s.issuedInvoice()
	doc.PaidAmount = domain.NewMoneyFromPaise(200000)
	doc.BalanceAmount = domain.ZeroMoney
	doc.Status = domain.Paid

	paymentID := uuid.NewString()
	fresh := &domain.Payment{
		PaymentID:  paymentID,
		DocumentID: doc.DocumentID,
		Amount:     domain.NewMoneyFromPaise(200000),
	}
	voided := &domain.Payment{
		PaymentID:  paymentID,
		DocumentID: doc.DocumentID,
		Amount:     domain.NewMoneyFromPaise(200000),
		Voided:     true,
	}

	s.expectTx()
	// A concurrent void lands between our read and our update; the retry's
	// fresh read then sees the payment already voided.
	s.mockPaymentRepo.On("FindPaymentByID", mock.Anything, paymentID).Return(fresh, nil).Once()
	s.mockPaymentRepo.On("FindPaymentByID", mock.Anything, paymentID).Return(voided, nil).Once()
	s.mockDocRepo.On("FindDocumentByIDForUpdate", mock.Anything, mock.Anything, doc.DocumentID).Return(doc, nil).Once()
	s.mockPaymentRepo.On("MarkPaymentVoidedInTx", mock.Anything, mock.Anything, paymentID, s.userID, mock.AnythingOfType("time.Time")).
		Return(fmt.Errorf("payment %s already voided: %w", paymentID, apperrors.ErrConflict)).Once()

	_, err := s.service.VoidPayment(ctx, doc.DocumentID, paymentID, s.userID)

	s.Require().ErrorIs(err, services.ErrPaymentVoided)
	s.mockDocRepo.AssertNotCalled(s.T(), "Commit", mock.Anything, mock.Anything)
	s.mockPaymentRepo.AssertExpectations(s.T())
}

func (s *PaymentServiceTestSuite) TestRecordPayment_PurchaseProjectsOutflow() {
	ctx := context.Background()
	doc := s.issuedInvoice()
	doc.DocumentType = domain.Purchase
	doc.DocumentNumber = "PUR-2026-00003"

	s.expectTx()
	s.mockDocRepo.On("FindDocumentByIDForUpdate", mock.Anything, mock.Anything, doc.DocumentID).Return(doc, nil).Once()
	s.mockPaymentRepo.On("SavePaymentInTx", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	s.mockDocRepo.On("UpdateDocumentPaymentStateInTx", mock.Anything, mock.Anything, doc.DocumentID,
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	s.mockCashflowRepo.On("SaveEntryInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(e domain.CashflowEntry) bool {
		return e.SourceType == domain.SourcePurchasePayment &&
			e.Amount.Equal(domain.NewMoneyFromPaise(-50000))
	})).Return(true, nil).Once()
	s.mockDocRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()

	_, err := s.service.RecordPayment(ctx, doc.DocumentID, paymentReq("500.00"), s.userID)

	s.Require().NoError(err)
	s.mockCashflowRepo.AssertExpectations(s.T())
}

func TestPaymentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentServiceTestSuite))
}
