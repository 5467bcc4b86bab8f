package dto

import (
	"time"

	"github.com/hisaabkitab/hisaab_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecordPaymentRequest defines the payload for applying a payment to a document.
type RecordPaymentRequest struct {
	Amount      decimal.Decimal    `json:"amount" binding:"required"`
	PaymentDate time.Time          `json:"paymentDate" binding:"required"`
	Method      domain.PaymentMethod `json:"method" binding:"required,oneof=CASH BANK_TRANSFER CHEQUE ONLINE UPI"`
	AccountHead domain.AccountHead `json:"accountHead" binding:"required,oneof=CASH BANK OTHER"`
	Reference   string             `json:"reference"`
}

// PaymentResponse defines the data returned for a payment.
type PaymentResponse struct {
	PaymentID   string       `json:"paymentID"`
	DocumentID  string       `json:"documentID"`
	Amount      domain.Money `json:"amount"`
	PaymentDate time.Time    `json:"paymentDate"`
	Method      string       `json:"method"`
	AccountHead string       `json:"accountHead"`
	Reference   string       `json:"reference,omitempty"`
	Voided      bool         `json:"voided"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// ToPaymentResponse converts a domain.Payment to its response DTO.
func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:   p.PaymentID,
		DocumentID:  p.DocumentID,
		Amount:      p.Amount,
		PaymentDate: p.PaymentDate,
		Method:      string(p.Method),
		AccountHead: string(p.AccountHead),
		Reference:   p.Reference,
		Voided:      p.Voided,
		CreatedAt:   p.CreatedAt,
	}
}

// ToPaymentResponses converts a slice of payments to response DTOs.
func ToPaymentResponses(payments []domain.Payment) []PaymentResponse {
	responses := make([]PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = ToPaymentResponse(&payments[i])
	}
	return responses
}
