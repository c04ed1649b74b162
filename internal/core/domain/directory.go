package domain

import "github.com/shopspring/decimal"

// ClientRef is the read-only billing identity resolved from the external
// client directory. The engine references clients by id and never mutates them.
type ClientRef struct {
	ClientID string `json:"clientID"`
	Name     string `json:"name"`
	ICE      string `json:"ice"` // tax/business identifier, opaque to this engine
	Email    string `json:"email"`
	Address  string `json:"address"`
}

// CatalogItemRef is the read-only catalog entry resolved at item-add time.
// It supplies defaults for designation, unit, price and tax rate when the
// caller omits them.
type CatalogItemRef struct {
	CatalogItemID      string          `json:"catalogItemID"`
	SKU                string          `json:"sku"`
	Designation        string          `json:"designation"`
	Unit               string          `json:"unit"`
	DefaultUnitPriceHT decimal.Decimal `json:"defaultUnitPriceHT"`
	DefaultTVARate     decimal.Decimal `json:"defaultTVARate"`
}
