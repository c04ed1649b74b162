package repositories

import (
	"context"

	"github.com/AtelierRenaudin/commercial_docs_app/internal/core/domain"
)

// ClientDirectoryFacade resolves client ids against the external client
// directory. Read-only: this engine never mutates clients.
type ClientDirectoryFacade interface {
	FindClientByID(ctx context.Context, clientID string) (*domain.ClientRef, error)
}

// CatalogDirectoryFacade resolves catalog item ids at item-add time to supply
// defaults (designation, unit, price, tax). Read-only.
type CatalogDirectoryFacade interface {
	FindCatalogItemByID(ctx context.Context, catalogItemID string) (*domain.CatalogItemRef, error)
}
