package pgsql

import (
	"context"
	"fmt"

	"github.com/AtelierRenaudin/commercial_docs_app/internal/apperrors"
	"github.com/AtelierRenaudin/commercial_docs_app/internal/core/domain"
	portsrepo "github.com/AtelierRenaudin/commercial_docs_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxCounterRepository issues per-type, per-year sequence values.
type PgxCounterRepository struct {
	BaseRepository
}

// newPgxCounterRepository creates a new repository for numbering counters.
func newPgxCounterRepository(pool *pgxpool.Pool) portsrepo.CounterRepositoryFacade {
	return &PgxCounterRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CounterRepositoryFacade = (*PgxCounterRepository)(nil)

// NextValue increments and returns the counter in a single upsert. The
// increment happens inside the statement, so two concurrent callers can never
// observe the same value.
func (r *PgxCounterRepository) NextValue(ctx context.Context, docType domain.DocumentType, year int) (int64, error) {
	query := `
		INSERT INTO document_counters (doc_type, year, current_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (doc_type, year)
		DO UPDATE SET current_value = document_counters.current_value + 1
		RETURNING current_value;
	`
	var value int64
	if err := r.Pool.QueryRow(ctx, query, string(docType), year).Scan(&value); err != nil {
		if isRetryableContention(err) {
			return 0, fmt.Errorf("%w: %s/%d", apperrors.ErrNumberingConflict, docType, year)
		}
		return 0, apperrors.NewAppError(500, fmt.Sprintf("failed to advance counter %s/%d", docType, year), err)
	}
	return value, nil
}
