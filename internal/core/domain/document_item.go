package domain

import "github.com/shopspring/decimal"

// DocumentItem is one line of a Document. Items belong to exactly one document
// and are destroyed with it. The computed totals are always derived from the
// four inputs (quantity, unit price, line discount, tva rate), never
// hand-edited independently of them.
type DocumentItem struct {
	ItemID        string  `json:"itemID"`        // Primary Key (UUID)
	DocumentID    string  `json:"documentID"`    // FK -> Document.documentID
	CatalogItemID *string `json:"catalogItemID"` // External catalog reference, read-only
	Designation   string  `json:"designation"`
	Unit          string  `json:"unit"`
	Position      int     `json:"position"` // Display order within the document

	Quantity        decimal.Decimal `json:"quantity"`        // > 0
	UnitPriceHT     decimal.Decimal `json:"unitPriceHT"`     // >= 0
	DiscountPercent decimal.Decimal `json:"discountPercent"` // 0..100
	TVARate         decimal.Decimal `json:"tvaRate"`         // >= 0, 0 is valid

	TotalHT   decimal.Decimal `json:"totalHT"` // computed
	TVAAmount decimal.Decimal `json:"tvaAmount"`
	TotalTTC  decimal.Decimal `json:"totalTTC"`
}
