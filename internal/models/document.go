package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Document is the persistence shape of a commercial document.
type Document struct {
	DocumentID string
	DocType    string
	DocNumber  string
	Status     string
	DocDate    time.Time
	DueDate    *time.Time

	ClientID      string
	ProjectID     *string
	ParentID      *string
	LinkedDevisID *string

	DiscountType  string
	DiscountValue decimal.Decimal

	TotalHT        decimal.Decimal
	DiscountAmount decimal.Decimal
	NetHT          decimal.Decimal
	TotalTVA       decimal.Decimal
	TotalTTC       decimal.Decimal

	PaidAmount           decimal.Decimal
	TotalDepositsApplied decimal.Decimal
	CreditApplied        decimal.Decimal
	Balance              decimal.Decimal

	DepositPercent      *decimal.Decimal
	DepositAmount       *decimal.Decimal
	AppliedToDocumentID *string

	AvoirReason string
	Notes       string

	AuditFields
}

// DocumentItem is the persistence shape of one document line.
type DocumentItem struct {
	ItemID        string
	DocumentID    string
	CatalogItemID *string
	Designation   string
	Unit          string
	Position      int

	Quantity        decimal.Decimal
	UnitPriceHT     decimal.Decimal
	DiscountPercent decimal.Decimal
	TVARate         decimal.Decimal

	TotalHT   decimal.Decimal
	TVAAmount decimal.Decimal
	TotalTTC  decimal.Decimal
}

// Payment is the persistence shape of one ledger entry.
type Payment struct {
	PaymentID  string
	DocumentID string
	Amount     decimal.Decimal
	PaidAt     time.Time
	Method     string
	Reference  *string
	Notes      string
	AuditFields
}
