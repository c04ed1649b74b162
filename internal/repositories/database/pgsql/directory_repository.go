package pgsql

import (
	"context"
	"errors"

	"github.com/AtelierRenaudin/commercial_docs_app/internal/apperrors"
	"github.com/AtelierRenaudin/commercial_docs_app/internal/core/domain"
	portsrepo "github.com/AtelierRenaudin/commercial_docs_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxClientDirectoryRepository resolves client references. Read-only.
type PgxClientDirectoryRepository struct {
	BaseRepository
}

func newPgxClientDirectoryRepository(pool *pgxpool.Pool) portsrepo.ClientDirectoryFacade {
	return &PgxClientDirectoryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ClientDirectoryFacade = (*PgxClientDirectoryRepository)(nil)

// FindClientByID retrieves a client reference by id.
func (r *PgxClientDirectoryRepository) FindClientByID(ctx context.Context, clientID string) (*domain.ClientRef, error) {
	query := `
		SELECT client_id, name, ice, email, address
		FROM clients
		WHERE client_id = $1;
	`
	var c domain.ClientRef
	err := r.Pool.QueryRow(ctx, query, clientID).Scan(&c.ClientID, &c.Name, &c.ICE, &c.Email, &c.Address)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find client "+clientID, err)
	}
	return &c, nil
}

// PgxCatalogDirectoryRepository resolves catalog item references. Read-only.
type PgxCatalogDirectoryRepository struct {
	BaseRepository
}

func newPgxCatalogDirectoryRepository(pool *pgxpool.Pool) portsrepo.CatalogDirectoryFacade {
	return &PgxCatalogDirectoryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CatalogDirectoryFacade = (*PgxCatalogDirectoryRepository)(nil)

// FindCatalogItemByID retrieves a catalog item reference by id.
func (r *PgxCatalogDirectoryRepository) FindCatalogItemByID(ctx context.Context, catalogItemID string) (*domain.CatalogItemRef, error) {
	query := `
		SELECT catalog_item_id, sku, designation, unit, default_unit_price_ht, default_tva_rate
		FROM catalog_items
		WHERE catalog_item_id = $1;
	`
	var ci domain.CatalogItemRef
	err := r.Pool.QueryRow(ctx, query, catalogItemID).Scan(
		&ci.CatalogItemID, &ci.SKU, &ci.Designation, &ci.Unit,
		&ci.DefaultUnitPriceHT, &ci.DefaultTVARate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find catalog item "+catalogItemID, err)
	}
	return &ci, nil
}
