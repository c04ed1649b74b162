package repositories

import (
	"context"
	"time"

	"github.com/AtelierRenaudin/commercial_docs_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DocumentListFilter narrows document listings.
type DocumentListFilter struct {
	Type     *domain.DocumentType
	Status   *domain.DocumentStatus
	ClientID *string
}

// DocumentReader defines read operations for document data.
type DocumentReader interface {
	// FindDocumentByID retrieves a document by its unique identifier.
	FindDocumentByID(ctx context.Context, documentID string) (*domain.Document, error)

	// FindItemsByDocumentID retrieves a document's line items ordered by position.
	FindItemsByDocumentID(ctx context.Context, documentID string) ([]domain.DocumentItem, error)

	// ListDocuments retrieves a filtered, paginated document list using
	// token-based pagination. It returns the documents, a token for the next
	// page, and an error.
	ListDocuments(ctx context.Context, filter DocumentListFilter, limit int, nextToken *string) ([]domain.Document, *string, error)
}

// DocumentWriter defines write operations for document data. Every method
// executes as one atomic transaction: precondition checks and writes share
// the same lock boundary.
type DocumentWriter interface {
	// SaveDocument persists a new document and its items in one transaction.
	SaveDocument(ctx context.Context, doc domain.Document, items []domain.DocumentItem) error

	// UpdateDocumentFields updates header fields and recomputed totals of a
	// document that is still editable. It fails with apperrors.ErrLocked when
	// the stored status no longer permits edits.
	UpdateDocumentFields(ctx context.Context, doc domain.Document) error

	// ReplaceItems swaps the full item set and stores the recomputed totals,
	// in one transaction, only while the document is editable.
	ReplaceItems(ctx context.Context, doc domain.Document, items []domain.DocumentItem) error

	// UpdateDocumentStatus applies from -> to as a compare-and-swap on the
	// stored status. When requireZeroBalance is set the swap additionally
	// requires balance == 0 (the PAID guard). No rows swapped means the
	// document moved concurrently; the caller receives a transition error
	// against the authoritative state.
	UpdateDocumentStatus(ctx context.Context, documentID string, from, to domain.DocumentStatus, requireZeroBalance bool, updatedBy string, updatedAt time.Time) error
}

// DepositApplier captures paid/partial deposit invoices for a final invoice.
type DepositApplier interface {
	// ApplyDeposits locks the final invoice and every FACTURE_ACOMPTE linked
	// to its devis that is PAID or PARTIAL, releases any claims held by this
	// invoice, re-claims the set, and stores the netted total, all in one
	// transaction. It returns the applied amount and whether it was capped at
	// totalTTC (the DepositOverapplied warning).
	//
	// A deposit already claimed by another final invoice fails the operation
	// with apperrors.ErrDepositConflict.
	ApplyDeposits(ctx context.Context, documentID string) (applied decimal.Decimal, capped bool, err error)
}

// CreditApplier records an avoir's magnitude against its parent invoice.
type CreditApplier interface {
	// ApplyCredit adds amount to the parent's creditApplied and refreshes its
	// balance under the parent's row lock.
	ApplyCredit(ctx context.Context, parentID string, amount decimal.Decimal, updatedBy string, updatedAt time.Time) error
}

// PaymentReader defines read operations for the payment ledger.
type PaymentReader interface {
	// FindPaymentsByDocumentID retrieves a document's payments, oldest first.
	FindPaymentsByDocumentID(ctx context.Context, documentID string) ([]domain.Payment, error)
}

// PaymentWriter appends to the payment ledger.
type PaymentWriter interface {
	// SavePayment locks the document row, validates the amount against the
	// current balance, inserts the payment and stores the recomputed
	// paidAmount/balance/status, all in one transaction. It returns the
	// updated document.
	SavePayment(ctx context.Context, payment domain.Payment) (*domain.Document, error)
}

// DocumentRepositoryFacade combines all document-related repository interfaces.
type DocumentRepositoryFacade interface {
	DocumentReader
	DocumentWriter
	DepositApplier
	CreditApplier
	PaymentReader
	PaymentWriter
}

// DocumentRepositoryWithTx extends DocumentRepositoryFacade with transaction
// capabilities.
type DocumentRepositoryWithTx interface {
	DocumentRepositoryFacade
	TransactionManager
}
