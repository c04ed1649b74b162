package pgsql

import (
	portsrepo "github.com/AtelierRenaudin/commercial_docs_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryContainer groups all pgsql-backed repositories behind their ports.
type RepositoryContainer struct {
	Document portsrepo.DocumentRepositoryWithTx
	Counter  portsrepo.CounterRepositoryFacade
	Clients  portsrepo.ClientDirectoryFacade
	Catalog  portsrepo.CatalogDirectoryFacade
}

// NewRepositoryContainer wires every repository onto the shared pool.
func NewRepositoryContainer(pool *pgxpool.Pool) *RepositoryContainer {
	return &RepositoryContainer{
		Document: newPgxDocumentRepository(pool),
		Counter:  newPgxCounterRepository(pool),
		Clients:  newPgxClientDirectoryRepository(pool),
		Catalog:  newPgxCatalogDirectoryRepository(pool),
	}
}
