package pgsql

import (
	"context"
	"strconv"
	"strings"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) *reportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

// postedWhere renders the WHERE clause shared by every aggregation. Entry
// columns are aliased e and line columns l.
func postedWhere(tenantID string, f domain.LedgerFilter) (string, []any) {
	args := []any{tenantID, domain.Posted}
	conds := []string{"e.tenant_id = $1", "e.status = $2"}
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(args))))
	}
	if f.FiscalYearID != "" {
		add("e.fiscal_year_id = ?", f.FiscalYearID)
	}
	if f.FiscalPeriodID != "" {
		add("e.fiscal_period_id = ?", f.FiscalPeriodID)
	}
	if f.AccountID != "" {
		add("l.account_id = ?", f.AccountID)
	}
	if f.From != nil {
		add("e.entry_date >= ?::date", domain.StartOfDay(*f.From))
	}
	if f.Before != nil {
		add("e.entry_date < ?::date", domain.StartOfDay(*f.Before))
	}
	if len(f.ReferenceKinds) > 0 {
		kinds := make([]string, len(f.ReferenceKinds))
		for i, k := range f.ReferenceKinds {
			kinds[i] = string(k)
		}
		add("e.reference_kind = ANY(?)", kinds)
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// SumPostedByAccount returns debit and credit totals per account.
func (r *reportingRepository) SumPostedByAccount(ctx context.Context, tenantID string, filter domain.LedgerFilter) ([]domain.AccountBalance, error) {
	where, args := postedWhere(tenantID, filter)
	query := `
		SELECT a.account_id, a.tenant_id, a.code, a.name, a.account_type, a.subtype, a.display_order, a.is_active,
		       a.created_at, a.created_by, a.last_updated_at, a.last_updated_by,
		       COALESCE(SUM(l.debit), 0), COALESCE(SUM(l.credit), 0)
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		JOIN accounts a ON a.account_id = l.account_id` + where + `
		GROUP BY a.account_id
		ORDER BY a.display_order, a.code;`

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "error querying account totals", err)
	}
	defer rows.Close()

	result := []domain.AccountBalance{}
	for rows.Next() {
		var b domain.AccountBalance
		a := &b.Account
		if err := rows.Scan(
			&a.AccountID, &a.TenantID, &a.Code, &a.Name, &a.AccountType, &a.Subtype, &a.DisplayOrder, &a.IsActive,
			&a.CreatedAt, &a.CreatedBy, &a.LastUpdatedAt, &a.LastUpdatedBy,
			&b.Debit, &b.Credit,
		); err != nil {
			return nil, apperrors.NewAppError(500, "error scanning account totals", err)
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account totals", err)
	}
	return result, nil
}

// ListPostedLines returns the account's lines in ledger order.
func (r *reportingRepository) ListPostedLines(ctx context.Context, tenantID string, filter domain.LedgerFilter) ([]domain.LedgerLine, error) {
	where, args := postedWhere(tenantID, filter)
	query := `
		SELECT e.entry_id, l.line_id, e.entry_date, l.line_order,
		       COALESCE(NULLIF(l.description, ''), e.description),
		       COALESCE(e.reference_kind, ''), COALESCE(e.reference_id, ''),
		       l.debit, l.credit
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id` + where + `
		ORDER BY e.entry_date, e.entry_id, l.line_order;`

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "error querying ledger lines", err)
	}
	defer rows.Close()

	lines := []domain.LedgerLine{}
	for rows.Next() {
		var l domain.LedgerLine
		if err := rows.Scan(
			&l.EntryID, &l.LineID, &l.EntryDate, &l.LineOrder,
			&l.Description, &l.ReferenceKind, &l.ReferenceID,
			&l.Debit, &l.Credit,
		); err != nil {
			return nil, apperrors.NewAppError(500, "error scanning ledger line", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating ledger lines", err)
	}
	return lines, nil
}

// SumTaxLines totals tax-coded lines by rate code and reference kind.
func (r *reportingRepository) SumTaxLines(ctx context.Context, tenantID string, filter domain.LedgerFilter) ([]domain.TaxLineTotal, error) {
	where, args := postedWhere(tenantID, filter)
	query := `
		SELECT l.tax_rate_code, COALESCE(e.reference_kind, ''), SUM(l.debit), SUM(l.credit)
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id` + where + ` AND l.tax_rate_code <> ''
		GROUP BY l.tax_rate_code, e.reference_kind
		ORDER BY l.tax_rate_code, e.reference_kind;`

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "error querying tax lines", err)
	}
	defer rows.Close()

	totals := []domain.TaxLineTotal{}
	for rows.Next() {
		var t domain.TaxLineTotal
		if err := rows.Scan(&t.TaxRateCode, &t.ReferenceKind, &t.Debit, &t.Credit); err != nil {
			return nil, apperrors.NewAppError(500, "error scanning tax totals", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating tax totals", err)
	}
	return totals, nil
}
