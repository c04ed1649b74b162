package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how a payment was made.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "CASH"
	PaymentCheque   PaymentMethod = "CHEQUE"
	PaymentTransfer PaymentMethod = "TRANSFER"
	PaymentCard     PaymentMethod = "CARD"
)

// Payment is one entry of a document's payment ledger. Payments are
// append-only: corrections happen via a new Avoir, never by editing or
// deleting a recorded payment.
type Payment struct {
	PaymentID  string          `json:"paymentID"` // Primary Key (UUID)
	DocumentID string          `json:"documentID"`
	Amount     decimal.Decimal `json:"amount"` // > 0
	PaidAt     time.Time       `json:"paidAt"`
	Method     PaymentMethod   `json:"method"`
	Reference  *string         `json:"reference"`
	Notes      string          `json:"notes"`
	AuditFields
}

// RegisterPayment validates a payment amount against the document's current
// balance and returns the resulting paid amount, balance and the status the
// document should move to (ok==false when no transition is needed).
//
// The caller must hold the document's row lock: the precondition check and the
// write belong to the same transaction boundary.
func RegisterPayment(doc *Document, amount decimal.Decimal) (newPaid, newBalance decimal.Decimal, next DocumentStatus, transition bool, err error) {
	if !amount.IsPositive() {
		return decimal.Zero, decimal.Zero, "", false,
			fmt.Errorf("payment amount must be positive, got %s", amount)
	}
	balance := doc.ComputeBalance()
	if amount.GreaterThan(balance) {
		return decimal.Zero, decimal.Zero, "", false,
			fmt.Errorf("payment %s exceeds balance %s", amount, balance)
	}

	newPaid = doc.PaidAmount.Add(amount)
	newBalance = balance.Sub(amount)

	if IsTerminal(doc.Type, doc.Status) {
		return newPaid, newBalance, "", false, nil
	}
	if newBalance.IsZero() {
		return newPaid, newBalance, StatusPaid, CanTransition(doc.Type, doc.Status, StatusPaid), nil
	}
	owed := doc.TotalTTC.Sub(doc.TotalDepositsApplied)
	if newPaid.IsPositive() && newPaid.LessThan(owed) && doc.Status != StatusPartial {
		return newPaid, newBalance, StatusPartial, CanTransition(doc.Type, doc.Status, StatusPartial), nil
	}
	return newPaid, newBalance, "", false, nil
}
