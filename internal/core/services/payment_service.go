package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hisaabkitab/hisaab_backend/internal/apperrors"
	"github.com/hisaabkitab/hisaab_backend/internal/core/domain"
	portsrepo "github.com/hisaabkitab/hisaab_backend/internal/core/ports/repositories"
	portssvc "github.com/hisaabkitab/hisaab_backend/internal/core/ports/services"
	"github.com/hisaabkitab/hisaab_backend/internal/dto"
)

var (
	ErrPaymentNotPositive = errors.New("payment amount must be positive")
	ErrDocumentNotIssued  = errors.New("payments can only be recorded against issued documents")
	ErrPaymentVoided      = errors.New("payment is already voided")
	ErrPaymentMismatch    = errors.New("payment does not belong to this document")
)

// paymentService applies and voids payments against documents. Every write
// runs inside a transaction that locks the document row, so concurrent
// payments against the same document serialize and the overpayment check
// always sees the latest balance.
type paymentService struct {
	BaseService
	docRepo      portsrepo.DocumentRepositoryWithTx
	paymentRepo  portsrepo.PaymentRepositoryFacade
	cashflowRepo portsrepo.CashflowRepository
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(docRepo portsrepo.DocumentRepositoryWithTx, paymentRepo portsrepo.PaymentRepositoryFacade, cashflowRepo portsrepo.CashflowRepository) portssvc.PaymentSvcFacade {
	return &paymentService{
		docRepo:      docRepo,
		paymentRepo:  paymentRepo,
		cashflowRepo: cashflowRepo,
	}
}

var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

// RecordPayment applies a payment to a document. The applied amount must be
// positive and no larger than the remaining balance; there is no implicit
// credit. Retries once if a concurrent writer moved the document version.
func (s *paymentService) RecordPayment(ctx context.Context, documentID string, req dto.RecordPaymentRequest, userID string) (*domain.Document, error) {
	amount := domain.NewMoneyFromDecimal(req.Amount)
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: got %s", ErrPaymentNotPositive, amount)
	}

	var doc *domain.Document
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		doc, err = s.recordPaymentTx(ctx, documentID, amount, req, userID)
		if err == nil || !errors.Is(err, apperrors.ErrConflict) {
			break
		}
		s.LogWarn(ctx, "Payment application conflicted, retrying", "document_id", documentID, "attempt", attempt+1)
	}
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Payment recorded",
		"document_id", documentID,
		"amount", amount.String(),
		"new_balance", doc.BalanceAmount.String(),
		"status", string(doc.Status))
	return doc, nil
}

func (s *paymentService) recordPaymentTx(ctx context.Context, documentID string, amount domain.Money, req dto.RecordPaymentRequest, userID string) (*domain.Document, error) {
	tx, err := s.docRepo.Begin(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to begin payment transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = s.docRepo.Rollback(ctx, tx) }()

	doc, err := s.docRepo.FindDocumentByIDForUpdate(ctx, tx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.Status == domain.Cancelled {
		return nil, apperrors.ErrDocumentCancelled
	}
	if doc.Status == domain.Draft {
		return nil, fmt.Errorf("%w: document is a draft", ErrDocumentNotIssued)
	}
	if amount.Cmp(doc.BalanceAmount) > 0 {
		return nil, fmt.Errorf("%w: amount %s, balance %s", apperrors.ErrOverpayment, amount, doc.BalanceAmount)
	}

	now := time.Now().UTC()
	payment := domain.Payment{
		PaymentID:   uuid.NewString(),
		DocumentID:  doc.DocumentID,
		Amount:      amount,
		PaymentDate: req.PaymentDate,
		Method:      req.Method,
		AccountHead: req.AccountHead,
		Reference:   req.Reference,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.paymentRepo.SavePaymentInTx(ctx, tx, payment); err != nil {
		s.LogError(ctx, err, "Failed to save payment", "document_id", documentID)
		return nil, fmt.Errorf("failed to save payment: %w", err)
	}

	doc.PaidAmount = doc.PaidAmount.Add(amount)
	doc.BalanceAmount = doc.GrandTotal.Sub(doc.PaidAmount)
	doc.Status = doc.DerivePaymentStatus()

	if err := s.docRepo.UpdateDocumentPaymentStateInTx(ctx, tx, doc.DocumentID, doc.PaidAmount, doc.BalanceAmount, doc.Status, doc.Version, userID, now); err != nil {
		return nil, err
	}
	doc.Version++

	entry := domain.NewPaymentEntry(domain.PaymentSource{
		Payment:        payment,
		DocumentType:   doc.DocumentType,
		DocumentNumber: doc.DocumentNumber,
	})
	if _, err := s.cashflowRepo.SaveEntryInTx(ctx, tx, entry); err != nil {
		s.LogError(ctx, err, "Failed to project payment into cashflow", "payment_id", payment.PaymentID)
		return nil, fmt.Errorf("failed to record cashflow entry: %w", err)
	}

	if err := s.docRepo.Commit(ctx, tx); err != nil {
		s.LogError(ctx, err, "Failed to commit payment transaction", "document_id", documentID)
		return nil, fmt.Errorf("failed to commit payment: %w", err)
	}
	return doc, nil
}

// VoidPayment reverses a payment's effect on the document and removes its
// cashflow projection. The payment row stays, flagged voided, for audit.
func (s *paymentService) VoidPayment(ctx context.Context, documentID string, paymentID string, userID string) (*domain.Document, error) {
	var doc *domain.Document
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		doc, err = s.voidPaymentTx(ctx, documentID, paymentID, userID)
		if err == nil || !errors.Is(err, apperrors.ErrConflict) {
			break
		}
		s.LogWarn(ctx, "Payment void conflicted, retrying", "payment_id", paymentID, "attempt", attempt+1)
	}
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Payment voided",
		"document_id", documentID,
		"payment_id", paymentID,
		"new_balance", doc.BalanceAmount.String(),
		"status", string(doc.Status))
	return doc, nil
}

func (s *paymentService) voidPaymentTx(ctx context.Context, documentID string, paymentID string, userID string) (*domain.Document, error) {
	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.DocumentID != documentID {
		return nil, ErrPaymentMismatch
	}
	if payment.Voided {
		return nil, ErrPaymentVoided
	}

	tx, err := s.docRepo.Begin(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to begin void transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = s.docRepo.Rollback(ctx, tx) }()

	doc, err := s.docRepo.FindDocumentByIDForUpdate(ctx, tx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.Status == domain.Cancelled {
		return nil, apperrors.ErrDocumentCancelled
	}

	now := time.Now().UTC()
	if err := s.paymentRepo.MarkPaymentVoidedInTx(ctx, tx, paymentID, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to mark payment voided", "payment_id", paymentID)
		return nil, fmt.Errorf("failed to void payment: %w", err)
	}

	doc.PaidAmount = doc.PaidAmount.Sub(payment.Amount)
	doc.BalanceAmount = doc.GrandTotal.Sub(doc.PaidAmount)
	doc.Status = doc.DerivePaymentStatus()

	if err := s.docRepo.UpdateDocumentPaymentStateInTx(ctx, tx, doc.DocumentID, doc.PaidAmount, doc.BalanceAmount, doc.Status, doc.Version, userID, now); err != nil {
		return nil, err
	}
	doc.Version++

	sourceType := domain.SourceInvoicePayment
	if doc.DocumentType == domain.Purchase {
		sourceType = domain.SourcePurchasePayment
	}
	if err := s.cashflowRepo.DeleteEntryBySourceInTx(ctx, tx, sourceType, paymentID); err != nil {
		s.LogError(ctx, err, "Failed to remove cashflow entry for voided payment", "payment_id", paymentID)
		return nil, fmt.Errorf("failed to remove cashflow entry: %w", err)
	}

	if err := s.docRepo.Commit(ctx, tx); err != nil {
		s.LogError(ctx, err, "Failed to commit void transaction", "payment_id", paymentID)
		return nil, fmt.Errorf("failed to commit void: %w", err)
	}
	return doc, nil
}

// ListPayments retrieves all payments recorded against a document, including
// voided ones.
func (s *paymentService) ListPayments(ctx context.Context, documentID string) ([]domain.Payment, error) {
	if _, err := s.docRepo.FindDocumentByID(ctx, documentID); err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.ListPaymentsByDocumentID(ctx, documentID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list payments", "document_id", documentID)
		return nil, fmt.Errorf("failed to retrieve payments: %w", err)
	}
	return payments, nil
}
