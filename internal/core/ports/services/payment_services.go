package services

import (
	"context"

	"github.com/hisaabkitab/hisaab_backend/internal/core/domain"
	"github.com/hisaabkitab/hisaab_backend/internal/dto"
)

// PaymentSvcFacade is the payment ledger: it applies and voids payments
// against documents, keeping paidAmount/balanceAmount/status consistent and
// rejecting overpayment outright.
type PaymentSvcFacade interface {
	// RecordPayment applies a payment and returns the updated document.
	// Fails with ErrOverpayment when the amount exceeds the balance and
	// ErrDocumentCancelled when the document is cancelled.
	RecordPayment(ctx context.Context, documentID string, req dto.RecordPaymentRequest, userID string) (*domain.Document, error)

	// VoidPayment reverses a payment's arithmetic and re-derives the
	// document status, returning the updated document.
	VoidPayment(ctx context.Context, documentID string, paymentID string, userID string) (*domain.Document, error)

	// ListPayments retrieves all payments recorded against a document.
	ListPayments(ctx context.Context, documentID string) ([]domain.Payment, error)
}
