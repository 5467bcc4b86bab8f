package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/hisaabkitab/hisaab_backend/internal/apperrors"
	"github.com/hisaabkitab/hisaab_backend/internal/core/domain"
	portssvc "github.com/hisaabkitab/hisaab_backend/internal/core/ports/services"
	"github.com/hisaabkitab/hisaab_backend/internal/dto"
	"github.com/hisaabkitab/hisaab_backend/internal/handlers"
	"github.com/hisaabkitab/hisaab_backend/internal/middleware"
)

// --- Mock DocumentService ---
type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) CreateDocument(ctx context.Context, req dto.CreateDocumentRequest, creatorUserID string) (*domain.Document, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}
func (m *MockDocumentService) UpdateDocument(ctx context.Context, documentID string, req dto.UpdateDocumentRequest, userID string) (*domain.Document, error) {
	args := m.Called(ctx, documentID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}
func (m *MockDocumentService) GetDocumentByID(ctx context.Context, documentID string) (*domain.Document, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}
func (m *MockDocumentService) ListDocuments(ctx context.Context, params dto.ListDocumentsParams) (*dto.ListDocumentsResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListDocumentsResponse), args.Error(1)
}
func (m *MockDocumentService) MarkDocumentSent(ctx context.Context, documentID string, userID string) (*domain.Document, error) {
	args := m.Called(ctx, documentID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}
func (m *MockDocumentService) CancelDocument(ctx context.Context, documentID string, userID string) (*domain.Document, error) {
	args := m.Called(ctx, documentID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.DocumentSvcFacade = (*MockDocumentService)(nil)

// --- Mock PaymentService ---
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) RecordPayment(ctx context.Context, documentID string, req dto.RecordPaymentRequest, userID string) (*domain.Document, error) {
	args := m.Called(ctx, documentID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}
func (m *MockPaymentService) VoidPayment(ctx context.Context, documentID string, paymentID string, userID string) (*domain.Document, error) {
	args := m.Called(ctx, documentID, paymentID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}
func (m *MockPaymentService) ListPayments(ctx context.Context, documentID string) ([]domain.Payment, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.PaymentSvcFacade = (*MockPaymentService)(nil)

// --- Test Suite ---
type DocumentHandlerTestSuite struct {
	suite.Suite
	router              *gin.Engine
	mockDocumentService *MockDocumentService
	mockPaymentService  *MockPaymentService
	jwtSecret           string
}

// generateTestToken creates a dummy JWT for testing.
func (suite *DocumentHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "hisaab-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedString, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signedString
}

func (suite *DocumentHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockDocumentService = new(MockDocumentService)
	suite.mockPaymentService = new(MockPaymentService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterDocumentRoutes(v1, suite.mockDocumentService, suite.mockPaymentService)
}

func (suite *DocumentHandlerTestSuite) authorizedRequest(method, url string, body []byte, userID string) *http.Request {
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, url, reader)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return req
}

// --- Test Cases ---

func (suite *DocumentHandlerTestSuite) TestCreateDocument_Success() {
	userID := uuid.NewString()
	partyID := uuid.NewString()
	docDate := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	expectedDoc := &domain.Document{
		DocumentID:     uuid.NewString(),
		DocumentType:   domain.Invoice,
		DocumentNumber: "INV-2026-00001",
		PartyID:        partyID,
		DocumentDate:   docDate,
		DueDate:        docDate,
		Terms:          domain.DueOnReceipt,
		CurrencyCode:   "INR",
		ExchangeRate:   decimal.NewFromInt(1),
		PlaceOfSupply:  "27",
		GrandTotal:     domain.NewMoneyFromPaise(118000),
		BalanceAmount:  domain.NewMoneyFromPaise(118000),
		Status:         domain.Draft,
		Version:        1,
	}

	suite.mockDocumentService.On("CreateDocument",
		mock.Anything,
		mock.MatchedBy(func(r dto.CreateDocumentRequest) bool {
			return r.DocumentType == domain.Invoice && r.PartyID == partyID
		}),
		userID,
	).Return(expectedDoc, nil).Once()

	reqBody := dto.CreateDocumentRequest{
		DocumentType: domain.Invoice,
		PartyID:      partyID,
		DocumentDate: docDate,
		Lines: []dto.LineItemRequest{
			{
				Description: "Consulting",
				Quantity:    decimal.NewFromInt(1),
				UnitRate:    decimal.NewFromInt(1000),
				TaxRate:     decimal.NewFromInt(18),
			},
		},
	}
	body, err := json.Marshal(reqBody)
	suite.Require().NoError(err)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authorizedRequest(http.MethodPost, "/api/v1/documents", body, userID))

	suite.Equal(http.StatusCreated, w.Code)

	var responseBody dto.DocumentResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &responseBody))
	suite.Equal(expectedDoc.DocumentID, responseBody.DocumentID)
	suite.Equal("INV-2026-00001", responseBody.DocumentNumber)
	suite.Equal("DRAFT", responseBody.Status)

	suite.mockDocumentService.AssertExpectations(suite.T())
}

func (suite *DocumentHandlerTestSuite) TestCreateDocument_DuplicateNumberReturns409() {
	userID := uuid.NewString()
	partyID := uuid.NewString()

	suite.mockDocumentService.On("CreateDocument",
		mock.Anything,
		mock.AnythingOfType("dto.CreateDocumentRequest"),
		userID,
	).Return(nil, fmt.Errorf("document number INV-2026-00001 already exists: %w", apperrors.ErrDuplicate)).Once()

	reqBody := dto.CreateDocumentRequest{
		DocumentType: domain.Invoice,
		PartyID:      partyID,
		DocumentDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
	body, err := json.Marshal(reqBody)
	suite.Require().NoError(err)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authorizedRequest(http.MethodPost, "/api/v1/documents", body, userID))

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockDocumentService.AssertExpectations(suite.T())
}

func (suite *DocumentHandlerTestSuite) TestGetDocument_NotFound() {
	userID := uuid.NewString()
	documentID := uuid.NewString()

	suite.mockDocumentService.On("GetDocumentByID", mock.Anything, documentID).
		Return(nil, apperrors.ErrNotFound).Once()

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authorizedRequest(http.MethodGet, "/api/v1/documents/"+documentID, nil, userID))

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockDocumentService.AssertExpectations(suite.T())
}

func (suite *DocumentHandlerTestSuite) TestRecordPayment_OverpaymentReturns422() {
	userID := uuid.NewString()
	documentID := uuid.NewString()

	suite.mockPaymentService.On("RecordPayment",
		mock.Anything,
		documentID,
		mock.AnythingOfType("dto.RecordPaymentRequest"),
		userID,
	).Return(nil, apperrors.ErrOverpayment).Once()

	reqBody := dto.RecordPaymentRequest{
		Amount:      decimal.NewFromInt(5000),
		PaymentDate: time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC),
		Method:      domain.UPI,
		AccountHead: domain.HeadBank,
	}
	body, err := json.Marshal(reqBody)
	suite.Require().NoError(err)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authorizedRequest(http.MethodPost, "/api/v1/documents/"+documentID+"/payments", body, userID))

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.mockPaymentService.AssertExpectations(suite.T())
}

func (suite *DocumentHandlerTestSuite) TestCancelDocument_AlreadyCancelledReturns409() {
	userID := uuid.NewString()
	documentID := uuid.NewString()

	suite.mockDocumentService.On("CancelDocument", mock.Anything, documentID, userID).
		Return(nil, apperrors.ErrDocumentCancelled).Once()

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authorizedRequest(http.MethodPost, "/api/v1/documents/"+documentID+"/cancel", nil, userID))

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockDocumentService.AssertExpectations(suite.T())
}

func (suite *DocumentHandlerTestSuite) TestListDocuments_MissingAuthHeader() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/documents", nil)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockDocumentService.AssertNotCalled(suite.T(), "ListDocuments", mock.Anything, mock.Anything)
}

// --- Run Test Suite ---
func TestDocumentHandler(t *testing.T) {
	suite.Run(t, new(DocumentHandlerTestSuite))
}
