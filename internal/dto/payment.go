package dto

import (
	"time"

	"github.com/AtelierRenaudin/commercial_docs_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreatePaymentRequest is the body of POST /documents/{id}/payments.
type CreatePaymentRequest struct {
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Date      *time.Time      `json:"date"`
	Method    string          `json:"method" binding:"required,oneof=CASH CHEQUE TRANSFER CARD"`
	Reference *string         `json:"reference"`
	Notes     string          `json:"notes"`
}

// PaymentResponse mirrors one ledger entry.
type PaymentResponse struct {
	PaymentID  string          `json:"paymentId"`
	DocumentID string          `json:"documentId"`
	Amount     decimal.Decimal `json:"amount"`
	PaidAt     time.Time       `json:"paidAt"`
	Method     string          `json:"method"`
	Reference  *string         `json:"reference,omitempty"`
	Notes      string          `json:"notes,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
	CreatedBy  string          `json:"createdBy"`
}

// ToPaymentResponse converts a domain payment.
func ToPaymentResponse(p domain.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:  p.PaymentID,
		DocumentID: p.DocumentID,
		Amount:     p.Amount,
		PaidAt:     p.PaidAt,
		Method:     string(p.Method),
		Reference:  p.Reference,
		Notes:      p.Notes,
		CreatedAt:  p.CreatedAt,
		CreatedBy:  p.CreatedBy,
	}
}

// ToPaymentResponses converts a slice of domain payments.
func ToPaymentResponses(payments []domain.Payment) []PaymentResponse {
	responses := make([]PaymentResponse, len(payments))
	for i, p := range payments {
		responses[i] = ToPaymentResponse(p)
	}
	return responses
}
