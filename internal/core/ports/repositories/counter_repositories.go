package repositories

import (
	"context"

	"github.com/AtelierRenaudin/commercial_docs_app/internal/core/domain"
)

// CounterRepositoryFacade issues strictly increasing sequence values per
// document type and calendar year.
type CounterRepositoryFacade interface {
	// NextValue atomically increments and returns the counter for the given
	// type and year. The increment happens in SQL (upsert with RETURNING),
	// never as an application-layer read-modify-write. Contention that cannot
	// be resolved atomically surfaces as apperrors.ErrNumberingConflict and
	// is safe to retry; a value is never silently skipped or reused.
	NextValue(ctx context.Context, docType domain.DocumentType, year int) (int64, error)
}
