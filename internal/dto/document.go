package dto

import (
	"time"

	"github.com/AtelierRenaudin/commercial_docs_app/internal/core/domain"
	"github.com/AtelierRenaudin/commercial_docs_app/internal/utils/billing"
	"github.com/shopspring/decimal"
)

// CreateDocumentItemRequest is one line of a document creation or replacement
// request. When CatalogItemID is set, omitted fields are defaulted from the
// catalog directory at add time.
type CreateDocumentItemRequest struct {
	CatalogItemID   *string          `json:"catalogItemId"`
	Designation     string           `json:"designation"`
	Quantity        decimal.Decimal  `json:"quantity" binding:"required"`
	Unit            string           `json:"unit"`
	UnitPriceHT     *decimal.Decimal `json:"unitPriceHT"`
	DiscountPercent decimal.Decimal  `json:"discountPercent"`
	TVARate         *decimal.Decimal `json:"tvaRate"`
}

// CreateDocumentRequest is the body of POST /documents.
type CreateDocumentRequest struct {
	Type           string                      `json:"type" binding:"required,doctype"`
	ClientID       string                      `json:"clientId" binding:"required"`
	ProjectID      *string                     `json:"projectId"`
	LinkedDevisID  *string                     `json:"linkedDevisId"`
	Date           *time.Time                  `json:"date"`
	DueDate        *time.Time                  `json:"dueDate"`
	Items          []CreateDocumentItemRequest `json:"items" binding:"dive"`
	DiscountType   string                      `json:"discountType" binding:"omitempty,oneof=PERCENTAGE FIXED"`
	DiscountValue  decimal.Decimal             `json:"discountValue"`
	DepositPercent *decimal.Decimal            `json:"depositPercent"`
	Notes          string                      `json:"notes"`
}

// UpdateDocumentRequest is the body of PATCH /documents/{id}. A non-nil Status
// requests a lifecycle transition; the remaining fields are header edits and
// are only accepted while the document is editable.
type UpdateDocumentRequest struct {
	Status        *string          `json:"status" binding:"omitempty"`
	Date          *time.Time       `json:"date"`
	DueDate       *time.Time       `json:"dueDate"`
	ProjectID     *string          `json:"projectId"`
	DiscountType  *string          `json:"discountType" binding:"omitempty,oneof=PERCENTAGE FIXED"`
	DiscountValue *decimal.Decimal `json:"discountValue"`
	Notes         *string          `json:"notes"`
}

// ReplaceItemsRequest is the body of PUT /documents/{id}/items.
type ReplaceItemsRequest struct {
	Items []CreateDocumentItemRequest `json:"items" binding:"required,dive"`
}

// CreateAvoirRequest is the body of POST /documents/{parentId}/avoir. With no
// items given, the avoir is pre-populated from the parent's lines.
type CreateAvoirRequest struct {
	Items          []CreateDocumentItemRequest `json:"items" binding:"omitempty,dive"`
	AvoirReason    string                      `json:"avoirReason" binding:"required"`
	ApplyToFacture bool                        `json:"applyToFacture"`
}

// GenerateDocumentRequest is the body of POST /documents/{id}/generate: create
// the next document in the chain from an existing one.
type GenerateDocumentRequest struct {
	TargetType     string           `json:"targetType" binding:"required,doctype"`
	DepositPercent *decimal.Decimal `json:"depositPercent"` // FACTURE_ACOMPTE targets only
	DueDate        *time.Time       `json:"dueDate"`
}

// DocumentItemResponse mirrors one computed line.
type DocumentItemResponse struct {
	ItemID          string          `json:"itemId"`
	CatalogItemID   *string         `json:"catalogItemId,omitempty"`
	Designation     string          `json:"designation"`
	Quantity        decimal.Decimal `json:"quantity"`
	Unit            string          `json:"unit"`
	UnitPriceHT     decimal.Decimal `json:"unitPriceHT"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	TVARate         decimal.Decimal `json:"tvaRate"`
	TotalHT         decimal.Decimal `json:"totalHT"`
	TVAAmount       decimal.Decimal `json:"tvaAmount"`
	TotalTTC        decimal.Decimal `json:"totalTTC"`
}

// TaxLineResponse is one slice of the per-rate tax breakdown.
type TaxLineResponse struct {
	Rate   decimal.Decimal `json:"rate"`
	Base   decimal.Decimal `json:"base"`
	Amount decimal.Decimal `json:"amount"`
}

// DocumentResponse is the full representation returned by the API.
type DocumentResponse struct {
	DocumentID           string                 `json:"documentId"`
	Type                 string                 `json:"type"`
	Number               string                 `json:"number"`
	Status               string                 `json:"status"`
	Date                 time.Time              `json:"date"`
	DueDate              *time.Time             `json:"dueDate,omitempty"`
	ClientID             string                 `json:"clientId"`
	ProjectID            *string                `json:"projectId,omitempty"`
	ParentID             *string                `json:"parentId,omitempty"`
	LinkedDevisID        *string                `json:"linkedDevisId,omitempty"`
	DiscountType         string                 `json:"discountType"`
	DiscountValue        decimal.Decimal        `json:"discountValue"`
	TotalHT              decimal.Decimal        `json:"totalHT"`
	DiscountAmount       decimal.Decimal        `json:"discountAmount"`
	NetHT                decimal.Decimal        `json:"netHT"`
	TotalTVA             decimal.Decimal        `json:"totalTVA"`
	TotalTTC             decimal.Decimal        `json:"totalTTC"`
	PaidAmount           decimal.Decimal        `json:"paidAmount"`
	TotalDepositsApplied decimal.Decimal        `json:"totalDepositsApplied"`
	CreditApplied        decimal.Decimal        `json:"creditApplied"`
	Balance              decimal.Decimal        `json:"balance"`
	DepositPercent       *decimal.Decimal       `json:"depositPercent,omitempty"`
	DepositAmount        *decimal.Decimal       `json:"depositAmount,omitempty"`
	AvoirReason          string                 `json:"avoirReason,omitempty"`
	Notes                string                 `json:"notes,omitempty"`
	Overdue              bool                   `json:"overdue"`
	AllowedNextStatuses  []string               `json:"allowedNextStatuses"`
	Items                []DocumentItemResponse `json:"items,omitempty"`
	TaxBreakdown         []TaxLineResponse      `json:"taxBreakdown,omitempty"`
	Warnings             []string               `json:"warnings,omitempty"`
	CreatedAt            time.Time              `json:"createdAt"`
	CreatedBy            string                 `json:"createdBy"`
}

// ListDocumentsResponse is a paginated document listing.
type ListDocumentsResponse struct {
	Documents []DocumentResponse `json:"documents"`
	NextToken *string            `json:"nextToken,omitempty"`
}

// ToDocumentItemResponse converts a domain item.
func ToDocumentItemResponse(it domain.DocumentItem) DocumentItemResponse {
	return DocumentItemResponse{
		ItemID:          it.ItemID,
		CatalogItemID:   it.CatalogItemID,
		Designation:     it.Designation,
		Quantity:        it.Quantity,
		Unit:            it.Unit,
		UnitPriceHT:     it.UnitPriceHT,
		DiscountPercent: it.DiscountPercent,
		TVARate:         it.TVARate,
		TotalHT:         it.TotalHT,
		TVAAmount:       it.TVAAmount,
		TotalTTC:        it.TotalTTC,
	}
}

// ToDocumentResponse converts a document without its items (listing shape).
// The overdue flag is derived at read time, never stored.
func ToDocumentResponse(d *domain.Document, now time.Time) DocumentResponse {
	next := domain.NextStatuses(d.Type, d.Status)
	allowed := make([]string, len(next))
	for i, s := range next {
		allowed[i] = string(s)
	}
	return DocumentResponse{
		DocumentID:           d.DocumentID,
		Type:                 string(d.Type),
		Number:               d.Number,
		Status:               string(d.Status),
		Date:                 d.Date,
		DueDate:              d.DueDate,
		ClientID:             d.ClientID,
		ProjectID:            d.ProjectID,
		ParentID:             d.ParentID,
		LinkedDevisID:        d.LinkedDevisID,
		DiscountType:         string(d.DiscountType),
		DiscountValue:        d.DiscountValue,
		TotalHT:              d.TotalHT,
		DiscountAmount:       d.DiscountAmount,
		NetHT:                d.NetHT,
		TotalTVA:             d.TotalTVA,
		TotalTTC:             d.TotalTTC,
		PaidAmount:           d.PaidAmount,
		TotalDepositsApplied: d.TotalDepositsApplied,
		CreditApplied:        d.CreditApplied,
		Balance:              d.Balance,
		DepositPercent:       d.DepositPercent,
		DepositAmount:        d.DepositAmount,
		AvoirReason:          d.AvoirReason,
		Notes:                d.Notes,
		Overdue:              d.IsOverdue(now),
		AllowedNextStatuses:  allowed,
		CreatedAt:            d.CreatedAt,
		CreatedBy:            d.CreatedBy,
	}
}

// ToDocumentDetailResponse converts a document together with its items and the
// recomputed per-rate tax breakdown (the breakdown is a pure function of the
// lines and discount, so deriving it at read time is idempotent).
func ToDocumentDetailResponse(d *domain.Document, items []domain.DocumentItem, now time.Time) DocumentResponse {
	resp := ToDocumentResponse(d, now)
	resp.Items = make([]DocumentItemResponse, len(items))
	for i, it := range items {
		resp.Items[i] = ToDocumentItemResponse(it)
	}
	if totals, err := billing.ComputeTotals(items, d.DiscountType, d.DiscountValue); err == nil {
		resp.TaxBreakdown = make([]TaxLineResponse, len(totals.TaxBreakdown))
		for i, tl := range totals.TaxBreakdown {
			resp.TaxBreakdown[i] = TaxLineResponse{Rate: tl.Rate, Base: tl.Base, Amount: tl.Amount}
		}
	}
	return resp
}
