package services

import (
	"context"

	"github.com/AtelierRenaudin/commercial_docs_app/internal/core/domain"
	portsrepo "github.com/AtelierRenaudin/commercial_docs_app/internal/core/ports/repositories"
	"github.com/AtelierRenaudin/commercial_docs_app/internal/dto"
	"github.com/shopspring/decimal"
)

// DocumentDetail bundles a document with its items and any non-fatal warnings
// produced by the operation (e.g. DepositOverapplied).
type DocumentDetail struct {
	Document *domain.Document
	Items    []domain.DocumentItem
	Warnings []string
}

// DocumentSvcFacade is the engine's main entry point: document creation,
// edits, lifecycle transitions and the document chain.
type DocumentSvcFacade interface {
	// CreateDocument validates the request, assigns a number, computes all
	// totals and persists the document with its items. A FACTURE with a
	// linked devis has that devis' paid deposits applied on creation.
	CreateDocument(ctx context.Context, req dto.CreateDocumentRequest, creatorUserID string) (*DocumentDetail, error)

	// GetDocument retrieves a document with its items.
	GetDocument(ctx context.Context, documentID string) (*DocumentDetail, error)

	// ListDocuments retrieves a filtered, token-paginated page of documents.
	ListDocuments(ctx context.Context, filter portsrepo.DocumentListFilter, limit int, nextToken *string) ([]domain.Document, *string, error)

	// UpdateDocument applies a PATCH: a status transition, editable header
	// field updates, or both. Edits to locked documents are rejected.
	UpdateDocument(ctx context.Context, documentID string, req dto.UpdateDocumentRequest, userID string) (*DocumentDetail, error)

	// ReplaceItems swaps a document's line set and recomputes totals, only
	// while the document is editable.
	ReplaceItems(ctx context.Context, documentID string, req dto.ReplaceItemsRequest, userID string) (*DocumentDetail, error)

	// TransitionStatus moves the document through its type's state machine.
	TransitionStatus(ctx context.Context, documentID string, target domain.DocumentStatus, userID string) (*DocumentDetail, error)

	// CreateAvoir creates a credit note against a parent invoice,
	// pre-populated from the parent's items when none are given.
	CreateAvoir(ctx context.Context, parentID string, req dto.CreateAvoirRequest, userID string) (*DocumentDetail, error)

	// GenerateChild creates the next document in the chain from an existing
	// one (devis -> bon de commande / facture, BC -> BL, BL -> PV / facture).
	GenerateChild(ctx context.Context, parentID string, req dto.GenerateDocumentRequest, userID string) (*DocumentDetail, error)

	// ReapplyDeposits explicitly refreshes a final invoice's netted deposit
	// total; deposits are never recomputed implicitly on read.
	ReapplyDeposits(ctx context.Context, documentID string, userID string) (*DocumentDetail, error)
}

// NumberingSvcFacade issues collision-free sequential document references.
type NumberingSvcFacade interface {
	// NextNumber returns the next human-readable reference for the type,
	// unique within the type and calendar year.
	NextNumber(ctx context.Context, t domain.DocumentType) (string, error)
}

// PaymentSvcFacade is the payment ledger boundary.
type PaymentSvcFacade interface {
	// RecordPayment appends a payment and returns the document with its
	// recomputed balance and status.
	RecordPayment(ctx context.Context, documentID string, req dto.CreatePaymentRequest, userID string) (*domain.Document, error)

	// ListPayments retrieves a document's ledger, oldest first.
	ListPayments(ctx context.Context, documentID string) ([]domain.Payment, error)
}

// StatusNotifier is the outbound notification dispatcher port. It receives a
// read-only copy after the transition commits and never participates in the
// transaction.
type StatusNotifier interface {
	NotifyStatusChange(ctx context.Context, doc domain.Document, from, to domain.DocumentStatus)
}

// DepositApplication reports one explicit deposit (re-)application.
type DepositApplication struct {
	Applied decimal.Decimal `json:"applied"`
	Capped  bool            `json:"capped"`
}
