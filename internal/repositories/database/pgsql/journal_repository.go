package pgsql

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entries and their lines.
func newPgxJournalRepository(pool *pgxpool.Pool) *PgxJournalRepository {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

const entryColumns = `entry_id, tenant_id, fiscal_year_id, fiscal_period_id, entry_date, description,
	reference_kind, reference_id, reversal_of, status, posted_by, posted_at,
	created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, entry_id, account_id, currency_code, debit, credit, description, tax_rate_code, line_order`

func scanEntry(row rowScanner) (domain.JournalEntry, error) {
	var e domain.JournalEntry
	var refKind, refID *string
	err := row.Scan(
		&e.EntryID,
		&e.TenantID,
		&e.FiscalYearID,
		&e.FiscalPeriodID,
		&e.EntryDate,
		&e.Description,
		&refKind,
		&refID,
		&e.ReversalOf,
		&e.Status,
		&e.PostedBy,
		&e.PostedAt,
		&e.CreatedAt,
		&e.CreatedBy,
		&e.LastUpdatedAt,
		&e.LastUpdatedBy,
	)
	if err != nil {
		return e, err
	}
	if refKind != nil {
		ref, err := domain.ParseEntityRef(*refKind, derefString(refID))
		if err != nil {
			return e, err
		}
		e.Reference = ref
	}
	return e, nil
}

func refColumns(ref domain.EntityRef) (kind, id *string) {
	if ref == nil {
		return nil, nil
	}
	k, i := string(ref.Kind()), ref.EntityID()
	return &k, &i
}

// SaveEntry inserts the entry header and its lines in one batch.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	refKind, refID := refColumns(entry.Reference)
	batch := &pgx.Batch{}
	batch.Queue(`INSERT INTO journal_entries (`+entryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);`,
		entry.EntryID,
		entry.TenantID,
		entry.FiscalYearID,
		entry.FiscalPeriodID,
		entry.EntryDate,
		entry.Description,
		refKind,
		refID,
		entry.ReversalOf,
		entry.Status,
		entry.PostedBy,
		entry.PostedAt,
		entry.CreatedAt,
		entry.CreatedBy,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	queueLines(batch, entry.TenantID, entry.Lines)

	if err := r.db(ctx).SendBatch(ctx, batch).Close(); err != nil {
		return writeErr(err, "journal entry "+entry.EntryID)
	}
	return nil
}

func queueLines(batch *pgx.Batch, tenantID string, lines []domain.JournalEntryLine) {
	query := `INSERT INTO journal_entry_lines (tenant_id, ` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`
	for _, l := range lines {
		batch.Queue(query,
			tenantID,
			l.LineID,
			l.EntryID,
			l.AccountID,
			l.CurrencyCode,
			l.Debit,
			l.Credit,
			l.Description,
			l.TaxRateCode,
			l.LineOrder,
		)
	}
}

func (r *PgxJournalRepository) findEntry(ctx context.Context, tenantID, entryID string, forUpdate bool) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE tenant_id = $1 AND entry_id = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	entry, err := scanEntry(r.db(ctx).QueryRow(ctx, query, tenantID, entryID))
	if err != nil {
		return nil, notFoundOr(err, "journal entry "+entryID)
	}

	lines, err := r.loadLines(ctx, tenantID, []string{entryID})
	if err != nil {
		return nil, err
	}
	entry.Lines = lines[entryID]
	return &entry, nil
}

// FindEntryByID retrieves an entry with its lines.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error) {
	return r.findEntry(ctx, tenantID, entryID, false)
}

// FindEntryByIDForUpdate locks the entry row; it must run inside RunInTx.
func (r *PgxJournalRepository) FindEntryByIDForUpdate(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error) {
	return r.findEntry(ctx, tenantID, entryID, true)
}

func (r *PgxJournalRepository) loadLines(ctx context.Context, tenantID string, entryIDs []string) (map[string][]domain.JournalEntryLine, error) {
	query := `SELECT ` + lineColumns + ` FROM journal_entry_lines
		WHERE tenant_id = $1 AND entry_id = ANY($2)
		ORDER BY entry_id, line_order;`
	rows, err := r.db(ctx).Query(ctx, query, tenantID, entryIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query journal lines", err)
	}
	defer rows.Close()

	out := make(map[string][]domain.JournalEntryLine, len(entryIDs))
	for rows.Next() {
		var l domain.JournalEntryLine
		if err := rows.Scan(
			&l.LineID,
			&l.EntryID,
			&l.AccountID,
			&l.CurrencyCode,
			&l.Debit,
			&l.Credit,
			&l.Description,
			&l.TaxRateCode,
			&l.LineOrder,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan journal line", err)
		}
		out[l.EntryID] = append(out[l.EntryID], l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating journal lines", err)
	}
	return out, nil
}

// ListEntries retrieves a page of entries, newest first, using keyset pagination.
func (r *PgxJournalRepository) ListEntries(ctx context.Context, tenantID, periodID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// One extra row tells us whether another page exists.
	fetchLimit := limit + 1

	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE tenant_id = $1`
	args := []any{tenantID}
	if periodID != "" {
		args = append(args, periodID)
		query += ` AND fiscal_period_id = $` + strconv.Itoa(len(args))
	}
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		args = append(args, cursor.EntryDate, cursor.CreatedAt, cursor.EntryID)
		n := len(args)
		query += fmt.Sprintf(` AND (entry_date, created_at, entry_id) < ($%d, $%d, $%d)`, n-2, n-1, n)
	}
	args = append(args, fetchLimit)
	query += ` ORDER BY entry_date DESC, created_at DESC, entry_id DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query journal entries", err)
	}
	entries := make([]domain.JournalEntry, 0, fetchLimit)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			rows.Close()
			return nil, nil, apperrors.NewAppError(500, "failed to scan journal entry", err)
		}
		entries = append(entries, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating journal entries", err)
	}

	var next *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[limit-1]
		token := pagination.EncodeToken(pagination.EntryCursor{EntryDate: last.EntryDate, CreatedAt: last.CreatedAt, EntryID: last.EntryID})
		next = &token
	}
	if len(entries) == 0 {
		return entries, nil, nil
	}

	ids := make([]string, len(entries))
	for i := range entries {
		ids[i] = entries[i].EntryID
	}
	lines, err := r.loadLines(ctx, tenantID, ids)
	if err != nil {
		return nil, nil, err
	}
	for i := range entries {
		entries[i].Lines = lines[entries[i].EntryID]
	}
	return entries, next, nil
}

// lockDraft locks the entry row and fails unless it is an unposted draft.
func (r *PgxJournalRepository) lockDraft(ctx context.Context, db querier, tenantID, entryID string) error {
	var status domain.EntryStatus
	err := db.QueryRow(ctx,
		`SELECT status FROM journal_entries WHERE tenant_id = $1 AND entry_id = $2 FOR UPDATE;`,
		tenantID, entryID).Scan(&status)
	if err != nil {
		return notFoundOr(err, "journal entry "+entryID)
	}
	if status == domain.Posted {
		return fmt.Errorf("%w: journal entry %s", apperrors.ErrAlreadyPosted, entryID)
	}
	return nil
}

// ReplaceLines swaps all lines of a draft entry.
func (r *PgxJournalRepository) ReplaceLines(ctx context.Context, tenantID, entryID string, lines []domain.JournalEntryLine) error {
	return r.inTx(ctx, func(db querier) error {
		if err := r.lockDraft(ctx, db, tenantID, entryID); err != nil {
			return err
		}
		batch := &pgx.Batch{}
		batch.Queue(`DELETE FROM journal_entry_lines WHERE tenant_id = $1 AND entry_id = $2;`, tenantID, entryID)
		queueLines(batch, tenantID, lines)
		if err := db.SendBatch(ctx, batch).Close(); err != nil {
			return writeErr(err, "journal lines of "+entryID)
		}
		return nil
	})
}

// MarkPosted flips a draft entry to posted.
func (r *PgxJournalRepository) MarkPosted(ctx context.Context, tenantID, entryID, postedBy string, postedAt time.Time) error {
	return r.inTx(ctx, func(db querier) error {
		if err := r.lockDraft(ctx, db, tenantID, entryID); err != nil {
			return err
		}
		_, err := db.Exec(ctx, `
			UPDATE journal_entries
			SET status = $3, posted_by = $4, posted_at = $5, last_updated_at = $5, last_updated_by = $4
			WHERE tenant_id = $1 AND entry_id = $2;`,
			tenantID, entryID, domain.Posted, postedBy, postedAt)
		if err != nil {
			return apperrors.NewAppError(500, "failed to post journal entry "+entryID, err)
		}
		return nil
	})
}

// DeleteEntry removes a draft entry; its lines go with it by cascade.
func (r *PgxJournalRepository) DeleteEntry(ctx context.Context, tenantID, entryID string) error {
	return r.inTx(ctx, func(db querier) error {
		if err := r.lockDraft(ctx, db, tenantID, entryID); err != nil {
			return err
		}
		if _, err := db.Exec(ctx, `DELETE FROM journal_entries WHERE tenant_id = $1 AND entry_id = $2;`, tenantID, entryID); err != nil {
			return apperrors.NewAppError(500, "failed to delete journal entry "+entryID, err)
		}
		return nil
	})
}
