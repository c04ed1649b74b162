package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentType identifies one kind of commercial paper in the quote-to-cash chain.
type DocumentType string

const (
	Devis          DocumentType = "DEVIS"           // quote/estimate, entry point of the chain
	BonCommande    DocumentType = "BON_COMMANDE"    // purchase order confirming a quote
	BonLivraison   DocumentType = "BON_LIVRAISON"   // delivery note
	PVReception    DocumentType = "PV_RECEPTION"    // client-signed reception report
	Facture        DocumentType = "FACTURE"         // final invoice
	FactureAcompte DocumentType = "FACTURE_ACOMPTE" // deposit invoice issued against a future final invoice
	Avoir          DocumentType = "AVOIR"           // credit note against a prior invoice
)

// DocumentTypes lists every valid document type.
var DocumentTypes = []DocumentType{
	Devis, BonCommande, BonLivraison, PVReception, Facture, FactureAcompte, Avoir,
}

// ValidDocumentType reports whether t is a known document type.
func ValidDocumentType(t DocumentType) bool {
	for _, dt := range DocumentTypes {
		if dt == t {
			return true
		}
	}
	return false
}

// DiscountType selects how the document-level discount value is interpreted.
type DiscountType string

const (
	DiscountPercentage DiscountType = "PERCENTAGE"
	DiscountFixed      DiscountType = "FIXED"
)

// Document represents one commercial paper. All monetary fields are decimal,
// rounded to the currency's minor unit (2 decimals), and recomputed from items
// and discount inputs, never hand-edited independently of them.
type Document struct {
	DocumentID string       `json:"documentID"` // Primary Key (UUID)
	Type       DocumentType `json:"type"`
	Number     string       `json:"number"` // Immutable once assigned
	Status     DocumentStatus `json:"status"`
	Date       time.Time    `json:"date"`
	DueDate    *time.Time   `json:"dueDate"`

	ClientID      string  `json:"clientID"`      // External client directory reference
	ProjectID     *string `json:"projectID"`     // Optional external project reference
	ParentID      *string `json:"parentID"`      // The document this one was generated from
	LinkedDevisID *string `json:"linkedDevisID"` // Originating quote, used for deposit lookup

	DiscountType  DiscountType    `json:"discountType"`
	DiscountValue decimal.Decimal `json:"discountValue"`

	TotalHT        decimal.Decimal `json:"totalHT"`        // sum of item totals before global discount
	DiscountAmount decimal.Decimal `json:"discountAmount"` // effective global discount
	NetHT          decimal.Decimal `json:"netHT"`          // TotalHT - DiscountAmount
	TotalTVA       decimal.Decimal `json:"totalTVA"`
	TotalTTC       decimal.Decimal `json:"totalTTC"` // NetHT + TotalTVA

	PaidAmount           decimal.Decimal `json:"paidAmount"`           // sum of recorded payments
	TotalDepositsApplied decimal.Decimal `json:"totalDepositsApplied"` // netted deposit invoices (stored, not recomputed on read)
	CreditApplied        decimal.Decimal `json:"creditApplied"`        // applied avoir magnitudes against this document
	Balance              decimal.Decimal `json:"balance"`              // derived, never negative

	DepositPercent *decimal.Decimal `json:"depositPercent"` // FACTURE_ACOMPTE only
	DepositAmount  *decimal.Decimal `json:"depositAmount"`  // FACTURE_ACOMPTE only

	// AppliedToDocumentID marks a FACTURE_ACOMPTE as claimed by one final invoice's
	// deposit netting. At most one claim may exist at a time.
	AppliedToDocumentID *string `json:"appliedToDocumentID"`

	AvoirReason string `json:"avoirReason"` // AVOIR only
	Notes       string `json:"notes"`

	AuditFields
}

// ComputeBalance derives the outstanding balance:
// max(0, totalTTC − totalDepositsApplied − paidAmount − creditApplied).
func (d *Document) ComputeBalance() decimal.Decimal {
	balance := d.TotalTTC.Sub(d.TotalDepositsApplied).Sub(d.PaidAmount).Sub(d.CreditApplied)
	if balance.IsNegative() {
		return decimal.Zero
	}
	return balance
}

// RecomputeBalance refreshes the stored Balance field from its inputs.
func (d *Document) RecomputeBalance() {
	d.Balance = d.ComputeBalance()
}

// IsOverdue reports whether the document should be surfaced as overdue at read time.
// It is derived, never stored: due date passed, balance outstanding, and the
// document is not already settled or cancelled.
func (d *Document) IsOverdue(now time.Time) bool {
	if d.DueDate == nil || !d.DueDate.Before(now) {
		return false
	}
	if d.Status == StatusPaid || d.Status == StatusCancelled {
		return false
	}
	return d.Balance.IsPositive()
}

// IsEditable reports whether item and discount edits are currently permitted.
func (d *Document) IsEditable() bool {
	return IsEditableStatus(d.Type, d.Status)
}

// CheckStoredInvariants verifies the stored totals against the derivation rules.
// A failure here indicates an internal defect, not caller error.
func (d *Document) CheckStoredInvariants(items []DocumentItem) error {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.TotalHT)
	}
	if !sum.Equal(d.TotalHT) {
		return ErrItemSumMismatch
	}
	if !d.NetHT.Equal(d.TotalHT.Sub(d.DiscountAmount)) {
		return ErrNetMismatch
	}
	if !d.TotalTTC.Equal(d.NetHT.Add(d.TotalTVA)) {
		return ErrGrossMismatch
	}
	if d.Balance.IsNegative() || !d.Balance.Equal(d.ComputeBalance()) {
		return ErrBalanceMismatch
	}
	return nil
}

// ApplyDepositAmounts nets paid deposit amounts against a final invoice's gross
// total. The deduction is capped at totalTTC so the balance can never go
// negative; capped==true surfaces the DepositOverapplied warning.
func ApplyDepositAmounts(totalTTC decimal.Decimal, depositPaidAmounts []decimal.Decimal) (applied decimal.Decimal, capped bool) {
	applied = decimal.Zero
	for _, amt := range depositPaidAmounts {
		applied = applied.Add(amt)
	}
	if applied.GreaterThan(totalTTC) {
		return totalTTC, true
	}
	return applied, false
}
