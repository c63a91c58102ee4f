package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxFiscalRepository struct {
	BaseRepository
}

func newPgxFiscalRepository(pool *pgxpool.Pool) *PgxFiscalRepository {
	return &PgxFiscalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.FiscalRepositoryFacade = (*PgxFiscalRepository)(nil)

const (
	yearColumns = `fiscal_year_id, tenant_id, name, start_date, end_date, is_active, is_closed,
	created_at, created_by, last_updated_at, last_updated_by`
	periodColumns = `fiscal_period_id, tenant_id, fiscal_year_id, name, start_date, end_date, is_active, is_closed,
	created_at, created_by, last_updated_at, last_updated_by`
)

func scanYear(row rowScanner) (domain.FiscalYear, error) {
	var y domain.FiscalYear
	err := row.Scan(&y.FiscalYearID, &y.TenantID, &y.Name, &y.StartDate, &y.EndDate, &y.IsActive, &y.IsClosed,
		&y.CreatedAt, &y.CreatedBy, &y.LastUpdatedAt, &y.LastUpdatedBy)
	return y, err
}

func scanPeriod(row rowScanner) (domain.FiscalPeriod, error) {
	var p domain.FiscalPeriod
	err := row.Scan(&p.FiscalPeriodID, &p.TenantID, &p.FiscalYearID, &p.Name, &p.StartDate, &p.EndDate, &p.IsActive, &p.IsClosed,
		&p.CreatedAt, &p.CreatedBy, &p.LastUpdatedAt, &p.LastUpdatedBy)
	return p, err
}

func (r *PgxFiscalRepository) queryYears(ctx context.Context, query string, args ...any) ([]domain.FiscalYear, error) {
	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query fiscal years", err)
	}
	defer rows.Close()

	years := []domain.FiscalYear{}
	for rows.Next() {
		y, err := scanYear(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan fiscal year", err)
		}
		years = append(years, y)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating fiscal years", err)
	}
	return years, nil
}

func (r *PgxFiscalRepository) queryPeriods(ctx context.Context, query string, args ...any) ([]domain.FiscalPeriod, error) {
	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query fiscal periods", err)
	}
	defer rows.Close()

	periods := []domain.FiscalPeriod{}
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan fiscal period", err)
		}
		periods = append(periods, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating fiscal periods", err)
	}
	return periods, nil
}

func (r *PgxFiscalRepository) FindYearByID(ctx context.Context, tenantID, yearID string) (*domain.FiscalYear, error) {
	query := `SELECT ` + yearColumns + ` FROM fiscal_years WHERE tenant_id = $1 AND fiscal_year_id = $2;`
	y, err := scanYear(r.db(ctx).QueryRow(ctx, query, tenantID, yearID))
	if err != nil {
		return nil, notFoundOr(err, "fiscal year "+yearID)
	}
	return &y, nil
}

func (r *PgxFiscalRepository) FindPeriodByID(ctx context.Context, tenantID, periodID string) (*domain.FiscalPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM fiscal_periods WHERE tenant_id = $1 AND fiscal_period_id = $2;`
	p, err := scanPeriod(r.db(ctx).QueryRow(ctx, query, tenantID, periodID))
	if err != nil {
		return nil, notFoundOr(err, "fiscal period "+periodID)
	}
	return &p, nil
}

func (r *PgxFiscalRepository) FindOpenPeriodsContaining(ctx context.Context, tenantID string, date time.Time) ([]domain.FiscalPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM fiscal_periods
		WHERE tenant_id = $1 AND is_active AND NOT is_closed AND $2::date BETWEEN start_date AND end_date
		ORDER BY start_date, fiscal_period_id;`
	return r.queryPeriods(ctx, query, tenantID, domain.StartOfDay(date))
}

func (r *PgxFiscalRepository) FindYearsContaining(ctx context.Context, tenantID string, date time.Time) ([]domain.FiscalYear, error) {
	query := `SELECT ` + yearColumns + ` FROM fiscal_years
		WHERE tenant_id = $1 AND $2::date BETWEEN start_date AND end_date
		ORDER BY start_date, fiscal_year_id;`
	return r.queryYears(ctx, query, tenantID, domain.StartOfDay(date))
}

func (r *PgxFiscalRepository) ListYears(ctx context.Context, tenantID string) ([]domain.FiscalYear, error) {
	query := `SELECT ` + yearColumns + ` FROM fiscal_years WHERE tenant_id = $1 ORDER BY start_date, fiscal_year_id;`
	return r.queryYears(ctx, query, tenantID)
}

func (r *PgxFiscalRepository) ListPeriodsByYear(ctx context.Context, tenantID, yearID string) ([]domain.FiscalPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM fiscal_periods
		WHERE tenant_id = $1 AND fiscal_year_id = $2 ORDER BY start_date, fiscal_period_id;`
	return r.queryPeriods(ctx, query, tenantID, yearID)
}

func (r *PgxFiscalRepository) SaveYear(ctx context.Context, y domain.FiscalYear) error {
	query := `INSERT INTO fiscal_years (` + yearColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`
	_, err := r.db(ctx).Exec(ctx, query, y.FiscalYearID, y.TenantID, y.Name, y.StartDate, y.EndDate, y.IsActive, y.IsClosed,
		y.CreatedAt, y.CreatedBy, y.LastUpdatedAt, y.LastUpdatedBy)
	if err != nil {
		return writeErr(err, "fiscal year "+y.Name)
	}
	return nil
}

func (r *PgxFiscalRepository) UpdateYear(ctx context.Context, y domain.FiscalYear) error {
	query := `UPDATE fiscal_years SET name = $3, is_active = $4, is_closed = $5, last_updated_at = $6, last_updated_by = $7
		WHERE tenant_id = $1 AND fiscal_year_id = $2;`
	tag, err := r.db(ctx).Exec(ctx, query, y.TenantID, y.FiscalYearID, y.Name, y.IsActive, y.IsClosed, y.LastUpdatedAt, y.LastUpdatedBy)
	return expectOne(tag, err, "fiscal year "+y.FiscalYearID)
}

func (r *PgxFiscalRepository) SavePeriod(ctx context.Context, p domain.FiscalPeriod) error {
	query := `INSERT INTO fiscal_periods (` + periodColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`
	_, err := r.db(ctx).Exec(ctx, query, p.FiscalPeriodID, p.TenantID, p.FiscalYearID, p.Name, p.StartDate, p.EndDate, p.IsActive, p.IsClosed,
		p.CreatedAt, p.CreatedBy, p.LastUpdatedAt, p.LastUpdatedBy)
	if err != nil {
		return writeErr(err, "fiscal period "+p.Name)
	}
	return nil
}

func (r *PgxFiscalRepository) UpdatePeriod(ctx context.Context, p domain.FiscalPeriod) error {
	query := `UPDATE fiscal_periods SET name = $3, is_active = $4, is_closed = $5, last_updated_at = $6, last_updated_by = $7
		WHERE tenant_id = $1 AND fiscal_period_id = $2;`
	tag, err := r.db(ctx).Exec(ctx, query, p.TenantID, p.FiscalPeriodID, p.Name, p.IsActive, p.IsClosed, p.LastUpdatedAt, p.LastUpdatedBy)
	return expectOne(tag, err, "fiscal period "+p.FiscalPeriodID)
}
