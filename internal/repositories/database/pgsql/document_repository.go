package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AtelierRenaudin/commercial_docs_app/internal/apperrors"
	"github.com/AtelierRenaudin/commercial_docs_app/internal/core/domain"
	portsrepo "github.com/AtelierRenaudin/commercial_docs_app/internal/core/ports/repositories"
	"github.com/AtelierRenaudin/commercial_docs_app/internal/models"
	"github.com/AtelierRenaudin/commercial_docs_app/internal/utils/mapping"
	"github.com/AtelierRenaudin/commercial_docs_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxDocumentRepository persists documents, items and payments. Every mutating
// method runs as one transaction: precondition checks and writes share the
// same lock boundary so partial totals are never persisted.
type PgxDocumentRepository struct {
	BaseRepository
}

// newPgxDocumentRepository creates a new repository for document data.
func newPgxDocumentRepository(pool *pgxpool.Pool) portsrepo.DocumentRepositoryWithTx {
	return &PgxDocumentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.DocumentRepositoryWithTx = (*PgxDocumentRepository)(nil)

const documentColumns = `
	document_id, doc_type, doc_number, status, doc_date, due_date,
	client_id, project_id, parent_id, linked_devis_id,
	discount_type, discount_value,
	total_ht, discount_amount, net_ht, total_tva, total_ttc,
	paid_amount, total_deposits_applied, credit_applied, balance,
	deposit_percent, deposit_amount, applied_to_document_id,
	avoir_reason, notes,
	created_at, created_by, last_updated_at, last_updated_by`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*domain.Document, error) {
	var m models.Document
	err := row.Scan(
		&m.DocumentID, &m.DocType, &m.DocNumber, &m.Status, &m.DocDate, &m.DueDate,
		&m.ClientID, &m.ProjectID, &m.ParentID, &m.LinkedDevisID,
		&m.DiscountType, &m.DiscountValue,
		&m.TotalHT, &m.DiscountAmount, &m.NetHT, &m.TotalTVA, &m.TotalTTC,
		&m.PaidAmount, &m.TotalDepositsApplied, &m.CreditApplied, &m.Balance,
		&m.DepositPercent, &m.DepositAmount, &m.AppliedToDocumentID,
		&m.AvoirReason, &m.Notes,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	doc := mapping.ToDomainDocument(m)
	return &doc, nil
}

// FindDocumentByID retrieves a document by its unique identifier.
func (r *PgxDocumentRepository) FindDocumentByID(ctx context.Context, documentID string) (*domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE document_id = $1;`
	doc, err := scanDocument(r.Pool.QueryRow(ctx, query, documentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find document "+documentID, err)
	}
	return doc, nil
}

// findDocumentForUpdate fetches a document under its row lock. Must be called
// within a transaction.
func findDocumentForUpdate(ctx context.Context, tx pgx.Tx, documentID string) (*domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE document_id = $1 FOR UPDATE;`
	doc, err := scanDocument(tx.QueryRow(ctx, query, documentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to lock document "+documentID, err)
	}
	return doc, nil
}

// FindItemsByDocumentID retrieves a document's line items ordered by position.
func (r *PgxDocumentRepository) FindItemsByDocumentID(ctx context.Context, documentID string) ([]domain.DocumentItem, error) {
	query := `
		SELECT item_id, document_id, catalog_item_id, designation, unit, position,
		       quantity, unit_price_ht, discount_percent, tva_rate,
		       total_ht, tva_amount, total_ttc
		FROM document_items
		WHERE document_id = $1
		ORDER BY position ASC;
	`
	rows, err := r.Pool.Query(ctx, query, documentID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query document items", err)
	}
	defer rows.Close()

	items := make([]domain.DocumentItem, 0)
	for rows.Next() {
		var m models.DocumentItem
		err := rows.Scan(
			&m.ItemID, &m.DocumentID, &m.CatalogItemID, &m.Designation, &m.Unit, &m.Position,
			&m.Quantity, &m.UnitPriceHT, &m.DiscountPercent, &m.TVARate,
			&m.TotalHT, &m.TVAAmount, &m.TotalTTC,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan document item", err)
		}
		items = append(items, mapping.ToDomainDocumentItem(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating document items", err)
	}
	return items, nil
}

// ListDocuments retrieves a filtered, token-paginated page of documents
// ordered by (doc_date, created_at) descending.
func (r *PgxDocumentRepository) ListDocuments(ctx context.Context, filter portsrepo.DocumentListFilter, limit int, nextToken *string) ([]domain.Document, *string, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE 1=1`
	args := []any{}
	argPos := 1

	if filter.Type != nil {
		query += fmt.Sprintf(" AND doc_type = $%d", argPos)
		args = append(args, string(*filter.Type))
		argPos++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, string(*filter.Status))
		argPos++
	}
	if filter.ClientID != nil {
		query += fmt.Sprintf(" AND client_id = $%d", argPos)
		args = append(args, *filter.ClientID)
		argPos++
	}
	if nextToken != nil && *nextToken != "" {
		docDate, createdAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
		}
		query += fmt.Sprintf(" AND (doc_date, created_at) < ($%d, $%d)", argPos, argPos+1)
		args = append(args, docDate, createdAt)
		argPos += 2
	}

	// Fetch one extra row to know whether a next page exists.
	query += fmt.Sprintf(" ORDER BY doc_date DESC, created_at DESC LIMIT $%d;", argPos)
	args = append(args, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list documents", err)
	}
	defer rows.Close()

	docs := make([]domain.Document, 0, limit)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan document", err)
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating documents", err)
	}

	var token *string
	if len(docs) > limit {
		docs = docs[:limit]
		last := docs[len(docs)-1]
		t := pagination.EncodeToken(last.Date, last.CreatedAt)
		token = &t
	}
	return docs, token, nil
}

const insertDocumentQuery = `
	INSERT INTO documents (` + documentColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
	        $11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
	        $21, $22, $23, $24, $25, $26, $27, $28, $29, $30);
`

func documentArgs(m models.Document) []any {
	return []any{
		m.DocumentID, m.DocType, m.DocNumber, m.Status, m.DocDate, m.DueDate,
		m.ClientID, m.ProjectID, m.ParentID, m.LinkedDevisID,
		m.DiscountType, m.DiscountValue,
		m.TotalHT, m.DiscountAmount, m.NetHT, m.TotalTVA, m.TotalTTC,
		m.PaidAmount, m.TotalDepositsApplied, m.CreditApplied, m.Balance,
		m.DepositPercent, m.DepositAmount, m.AppliedToDocumentID,
		m.AvoirReason, m.Notes,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	}
}

const insertItemQuery = `
	INSERT INTO document_items (
		item_id, document_id, catalog_item_id, designation, unit, position,
		quantity, unit_price_ht, discount_percent, tva_rate,
		total_ht, tva_amount, total_ttc
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
`

func queueItems(batch *pgx.Batch, items []domain.DocumentItem) {
	for _, it := range items {
		m := mapping.ToModelDocumentItem(it)
		batch.Queue(insertItemQuery,
			m.ItemID, m.DocumentID, m.CatalogItemID, m.Designation, m.Unit, m.Position,
			m.Quantity, m.UnitPriceHT, m.DiscountPercent, m.TVARate,
			m.TotalHT, m.TVAAmount, m.TotalTTC,
		)
	}
}

// SaveDocument persists a new document and its items in one transaction.
func (r *PgxDocumentRepository) SaveDocument(ctx context.Context, doc domain.Document, items []domain.DocumentItem) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelDocument(doc)
	if _, err := tx.Exec(ctx, insertDocumentQuery, documentArgs(m)...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: document number %s", apperrors.ErrDuplicate, doc.Number)
		}
		return apperrors.NewAppError(500, "failed to insert document "+doc.DocumentID, err)
	}

	batch := &pgx.Batch{}
	queueItems(batch, items)
	if batch.Len() > 0 {
		br := tx.SendBatch(ctx, batch)
		for i := 0; i < batch.Len(); i++ {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return apperrors.NewAppError(500, "failed to insert document item", err)
			}
		}
		if err := br.Close(); err != nil {
			return apperrors.NewAppError(500, "failed to close item batch", err)
		}
	}

	return r.Commit(ctx, tx)
}

const updateTotalsSet = `
	discount_type = $2, discount_value = $3,
	total_ht = $4, discount_amount = $5, net_ht = $6, total_tva = $7, total_ttc = $8,
	balance = $9, doc_date = $10, due_date = $11, project_id = $12, notes = $13,
	last_updated_at = $14, last_updated_by = $15`

func totalsArgs(m models.Document) []any {
	return []any{
		m.DocumentID, m.DiscountType, m.DiscountValue,
		m.TotalHT, m.DiscountAmount, m.NetHT, m.TotalTVA, m.TotalTTC,
		m.Balance, m.DocDate, m.DueDate, m.ProjectID, m.Notes,
		m.LastUpdatedAt, m.LastUpdatedBy,
	}
}

// UpdateDocumentFields updates header fields and recomputed totals while the
// stored status still permits edits. The editability check is part of the
// UPDATE predicate, so a concurrently locked document cannot be modified.
func (r *PgxDocumentRepository) UpdateDocumentFields(ctx context.Context, doc domain.Document) error {
	query := `UPDATE documents SET ` + updateTotalsSet + ` WHERE document_id = $1 AND status = 'DRAFT';`
	ct, err := r.Pool.Exec(ctx, query, totalsArgs(mapping.ToModelDocument(doc))...)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update document "+doc.DocumentID, err)
	}
	if ct.RowsAffected() == 0 {
		return r.lockedOrMissing(ctx, doc.DocumentID)
	}
	return nil
}

// ReplaceItems swaps the full item set and stores the recomputed totals in one
// transaction, only while the document is editable.
func (r *PgxDocumentRepository) ReplaceItems(ctx context.Context, doc domain.Document, items []domain.DocumentItem) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `UPDATE documents SET ` + updateTotalsSet + ` WHERE document_id = $1 AND status = 'DRAFT';`
	ct, err := tx.Exec(ctx, query, totalsArgs(mapping.ToModelDocument(doc))...)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update document totals "+doc.DocumentID, err)
	}
	if ct.RowsAffected() == 0 {
		return r.lockedOrMissing(ctx, doc.DocumentID)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM document_items WHERE document_id = $1;`, doc.DocumentID); err != nil {
		return apperrors.NewAppError(500, "failed to delete document items", err)
	}

	batch := &pgx.Batch{}
	queueItems(batch, items)
	if batch.Len() > 0 {
		br := tx.SendBatch(ctx, batch)
		for i := 0; i < batch.Len(); i++ {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return apperrors.NewAppError(500, "failed to insert document item", err)
			}
		}
		if err := br.Close(); err != nil {
			return apperrors.NewAppError(500, "failed to close item batch", err)
		}
	}

	return r.Commit(ctx, tx)
}

func (r *PgxDocumentRepository) lockedOrMissing(ctx context.Context, documentID string) error {
	doc, err := r.FindDocumentByID(ctx, documentID)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: %s is %s", apperrors.ErrLocked, doc.Number, doc.Status)
}

// UpdateDocumentStatus applies from -> to as a compare-and-swap on the stored
// status; the PAID guard additionally requires a zero balance in the same
// predicate.
func (r *PgxDocumentRepository) UpdateDocumentStatus(ctx context.Context, documentID string, from, to domain.DocumentStatus, requireZeroBalance bool, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE documents
		SET status = $1, last_updated_at = $2, last_updated_by = $3
		WHERE document_id = $4 AND status = $5
	`
	args := []any{string(to), updatedAt, updatedBy, documentID, string(from)}
	if requireZeroBalance {
		query += ` AND balance = 0`
	}
	query += `;`

	ct, err := r.Pool.Exec(ctx, query, args...)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update document status", err)
	}
	if ct.RowsAffected() == 0 {
		// The document moved concurrently or the guard failed; report against
		// the authoritative state.
		doc, ferr := r.FindDocumentByID(ctx, documentID)
		if ferr != nil {
			return ferr
		}
		if requireZeroBalance && doc.Status == from && !doc.Balance.IsZero() {
			return fmt.Errorf("%w: cannot mark %s PAID with outstanding balance %s", apperrors.ErrValidation, doc.Number, doc.Balance)
		}
		return domain.NewTransitionError(doc.Type, doc.Status, to)
	}
	return nil
}

// ApplyDeposits nets a linked devis' paid/partial deposit invoices against a
// final invoice. The invoice row and every candidate deposit row are locked
// for the duration, and claims guarantee each deposit counts toward at most
// one final invoice at a time.
func (r *PgxDocumentRepository) ApplyDeposits(ctx context.Context, documentID string) (decimal.Decimal, bool, error) {
	zero := decimal.Zero

	tx, err := r.Begin(ctx)
	if err != nil {
		return zero, false, err
	}
	defer r.Rollback(ctx, tx)

	facture, err := findDocumentForUpdate(ctx, tx, documentID)
	if err != nil {
		return zero, false, err
	}
	if facture.Type != domain.Facture || facture.LinkedDevisID == nil {
		return zero, false, fmt.Errorf("%w: %s has no linked devis", apperrors.ErrValidation, facture.Number)
	}

	// Release any claims held by this invoice so re-application starts clean.
	if _, err := tx.Exec(ctx,
		`UPDATE documents SET applied_to_document_id = NULL WHERE applied_to_document_id = $1;`,
		documentID,
	); err != nil {
		return zero, false, apperrors.NewAppError(500, "failed to release deposit claims", err)
	}

	rows, err := tx.Query(ctx, `
		SELECT document_id, paid_amount, applied_to_document_id
		FROM documents
		WHERE doc_type = 'FACTURE_ACOMPTE'
		  AND linked_devis_id = $1
		  AND status IN ('PAID', 'PARTIAL')
		ORDER BY created_at ASC
		FOR UPDATE;
	`, *facture.LinkedDevisID)
	if err != nil {
		return zero, false, apperrors.NewAppError(500, "failed to lock deposit invoices", err)
	}

	type depositRow struct {
		id        string
		paid      decimal.Decimal
		appliedTo *string
	}
	deposits := make([]depositRow, 0)
	for rows.Next() {
		var d depositRow
		if err := rows.Scan(&d.id, &d.paid, &d.appliedTo); err != nil {
			rows.Close()
			return zero, false, apperrors.NewAppError(500, "failed to scan deposit invoice", err)
		}
		deposits = append(deposits, d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return zero, false, apperrors.NewAppError(500, "error iterating deposit invoices", err)
	}

	paidAmounts := make([]decimal.Decimal, 0, len(deposits))
	for _, d := range deposits {
		if d.appliedTo != nil {
			return zero, false, fmt.Errorf("%w: deposit %s is applied to invoice %s", apperrors.ErrDepositConflict, d.id, *d.appliedTo)
		}
		paidAmounts = append(paidAmounts, d.paid)
	}

	applied, capped := domain.ApplyDepositAmounts(facture.TotalTTC, paidAmounts)

	for _, d := range deposits {
		if _, err := tx.Exec(ctx,
			`UPDATE documents SET applied_to_document_id = $1 WHERE document_id = $2;`,
			documentID, d.id,
		); err != nil {
			return zero, false, apperrors.NewAppError(500, "failed to claim deposit invoice "+d.id, err)
		}
	}

	facture.TotalDepositsApplied = applied
	facture.RecomputeBalance()
	if _, err := tx.Exec(ctx, `
		UPDATE documents
		SET total_deposits_applied = $1, balance = $2
		WHERE document_id = $3;
	`, applied, facture.Balance, documentID); err != nil {
		return zero, false, apperrors.NewAppError(500, "failed to store applied deposits", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return zero, false, err
	}
	return applied, capped, nil
}

// ApplyCredit records an avoir magnitude against its parent invoice under the
// parent's row lock.
func (r *PgxDocumentRepository) ApplyCredit(ctx context.Context, parentID string, amount decimal.Decimal, updatedBy string, updatedAt time.Time) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: credit amount must be positive, got %s", apperrors.ErrValidation, amount)
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	parent, err := findDocumentForUpdate(ctx, tx, parentID)
	if err != nil {
		return err
	}

	parent.CreditApplied = parent.CreditApplied.Add(amount)
	parent.RecomputeBalance()

	if _, err := tx.Exec(ctx, `
		UPDATE documents
		SET credit_applied = $1, balance = $2, last_updated_at = $3, last_updated_by = $4
		WHERE document_id = $5;
	`, parent.CreditApplied, parent.Balance, updatedAt, updatedBy, parentID); err != nil {
		return apperrors.NewAppError(500, "failed to apply credit to "+parentID, err)
	}

	return r.Commit(ctx, tx)
}

// FindPaymentsByDocumentID retrieves a document's payments, oldest first.
func (r *PgxDocumentRepository) FindPaymentsByDocumentID(ctx context.Context, documentID string) ([]domain.Payment, error) {
	query := `
		SELECT payment_id, document_id, amount, paid_at, method, reference, notes,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM payments
		WHERE document_id = $1
		ORDER BY paid_at ASC, created_at ASC;
	`
	rows, err := r.Pool.Query(ctx, query, documentID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query payments", err)
	}
	defer rows.Close()

	payments := make([]domain.Payment, 0)
	for rows.Next() {
		var m models.Payment
		err := rows.Scan(
			&m.PaymentID, &m.DocumentID, &m.Amount, &m.PaidAt, &m.Method, &m.Reference, &m.Notes,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan payment", err)
		}
		payments = append(payments, mapping.ToDomainPayment(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating payments", err)
	}
	return payments, nil
}

// SavePayment appends one ledger entry. The document row is locked first; the
// balance precondition, the insert and the recomputed paid_amount/balance/
// status all commit together, so a concurrent second payment sees the updated
// balance only after this transaction commits.
func (r *PgxDocumentRepository) SavePayment(ctx context.Context, payment domain.Payment) (*domain.Document, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	doc, err := findDocumentForUpdate(ctx, tx, payment.DocumentID)
	if err != nil {
		return nil, err
	}

	newPaid, newBalance, next, transition, err := domain.RegisterPayment(doc, payment.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrPaymentExceedsBalance, err)
	}

	m := mapping.ToModelPayment(payment)
	if _, err := tx.Exec(ctx, `
		INSERT INTO payments (
			payment_id, document_id, amount, paid_at, method, reference, notes,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`, m.PaymentID, m.DocumentID, m.Amount, m.PaidAt, m.Method, m.Reference, m.Notes,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	); err != nil {
		return nil, apperrors.NewAppError(500, "failed to insert payment "+payment.PaymentID, err)
	}

	doc.PaidAmount = newPaid
	doc.Balance = newBalance
	if transition {
		doc.Status = next
	}
	doc.LastUpdatedAt = payment.CreatedAt
	doc.LastUpdatedBy = payment.CreatedBy

	if _, err := tx.Exec(ctx, `
		UPDATE documents
		SET paid_amount = $1, balance = $2, status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE document_id = $6;
	`, doc.PaidAmount, doc.Balance, string(doc.Status), doc.LastUpdatedAt, doc.LastUpdatedBy, doc.DocumentID,
	); err != nil {
		return nil, apperrors.NewAppError(500, "failed to update document balance", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return doc, nil
}
