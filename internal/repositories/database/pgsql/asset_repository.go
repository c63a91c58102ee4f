package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxAssetRepository struct {
	BaseRepository
}

func newPgxAssetRepository(pool *pgxpool.Pool) *PgxAssetRepository {
	return &PgxAssetRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AssetRepositoryFacade = (*PgxAssetRepository)(nil)

const (
	assetColumns = `asset_id, tenant_id, code, name, acquisition_cost, salvage_value, useful_life_months, method, status,
	in_service_date, activation_date, disposed_at, created_at, created_by, last_updated_at, last_updated_by`
	depreciationColumns = `depreciation_id, tenant_id, asset_id, fiscal_period_id, amount, is_posted, journal_entry_id, posted_at,
	created_at, created_by, last_updated_at, last_updated_by`
)

func scanAsset(row rowScanner) (domain.FixedAsset, error) {
	var a domain.FixedAsset
	err := row.Scan(
		&a.AssetID, &a.TenantID, &a.Code, &a.Name, &a.AcquisitionCost, &a.SalvageValue, &a.UsefulLifeMonths, &a.Method, &a.Status,
		&a.InServiceDate, &a.ActivationDate, &a.DisposedAt, &a.CreatedAt, &a.CreatedBy, &a.LastUpdatedAt, &a.LastUpdatedBy,
	)
	return a, err
}

func scanDepreciation(row rowScanner) (domain.AssetDepreciation, error) {
	var d domain.AssetDepreciation
	err := row.Scan(
		&d.DepreciationID, &d.TenantID, &d.AssetID, &d.FiscalPeriodID, &d.Amount, &d.IsPosted, &d.JournalEntryID, &d.PostedAt,
		&d.CreatedAt, &d.CreatedBy, &d.LastUpdatedAt, &d.LastUpdatedBy,
	)
	return d, err
}

func (r *PgxAssetRepository) FindAssetByID(ctx context.Context, tenantID, assetID string) (*domain.FixedAsset, error) {
	a, err := scanAsset(r.db(ctx).QueryRow(ctx,
		`SELECT `+assetColumns+` FROM fixed_assets WHERE tenant_id = $1 AND asset_id = $2;`, tenantID, assetID))
	if err != nil {
		return nil, notFoundOr(err, "asset "+assetID)
	}
	return &a, nil
}

func (r *PgxAssetRepository) ListDepreciableAssets(ctx context.Context, tenantID string, activatedBy time.Time) ([]domain.FixedAsset, error) {
	rows, err := r.db(ctx).Query(ctx, `SELECT `+assetColumns+` FROM fixed_assets
		WHERE tenant_id = $1 AND status = $2 AND activation_date IS NOT NULL AND activation_date::date <= $3::date
		ORDER BY code;`, tenantID, domain.AssetActive, domain.StartOfDay(activatedBy))
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query depreciable assets", err)
	}
	defer rows.Close()

	assets := []domain.FixedAsset{}
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan asset", err)
		}
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating assets", err)
	}
	return assets, nil
}

func (r *PgxAssetRepository) ListDepreciations(ctx context.Context, tenantID, assetID string) ([]domain.AssetDepreciation, error) {
	rows, err := r.db(ctx).Query(ctx, `SELECT `+depreciationColumns+` FROM asset_depreciations
		WHERE tenant_id = $1 AND asset_id = $2 ORDER BY created_at;`, tenantID, assetID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query depreciations", err)
	}
	defer rows.Close()

	deps := []domain.AssetDepreciation{}
	for rows.Next() {
		d, err := scanDepreciation(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan depreciation", err)
		}
		deps = append(deps, d)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating depreciations", err)
	}
	return deps, nil
}

func (r *PgxAssetRepository) FindDepreciation(ctx context.Context, tenantID, assetID, periodID string) (*domain.AssetDepreciation, error) {
	d, err := scanDepreciation(r.db(ctx).QueryRow(ctx, `SELECT `+depreciationColumns+` FROM asset_depreciations
		WHERE tenant_id = $1 AND asset_id = $2 AND fiscal_period_id = $3;`, tenantID, assetID, periodID))
	if err != nil {
		return nil, notFoundOr(err, "depreciation of "+assetID+" in "+periodID)
	}
	return &d, nil
}

func (r *PgxAssetRepository) PostedDepreciationTotals(ctx context.Context, tenantID, assetID string) (int, decimal.Decimal, error) {
	var count int
	var total decimal.Decimal
	err := r.db(ctx).QueryRow(ctx, `SELECT count(*), COALESCE(SUM(amount), 0) FROM asset_depreciations
		WHERE tenant_id = $1 AND asset_id = $2 AND is_posted;`, tenantID, assetID).Scan(&count, &total)
	if err != nil {
		return 0, decimal.Zero, apperrors.NewAppError(500, "failed to total depreciation", err)
	}
	return count, total, nil
}

func (r *PgxAssetRepository) SaveAsset(ctx context.Context, a domain.FixedAsset) error {
	_, err := r.db(ctx).Exec(ctx, `INSERT INTO fixed_assets (`+assetColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);`,
		a.AssetID, a.TenantID, a.Code, a.Name, a.AcquisitionCost, a.SalvageValue, a.UsefulLifeMonths, a.Method, a.Status,
		a.InServiceDate, a.ActivationDate, a.DisposedAt, a.CreatedAt, a.CreatedBy, a.LastUpdatedAt, a.LastUpdatedBy)
	if err != nil {
		return writeErr(err, "asset "+a.Code)
	}
	return nil
}

func (r *PgxAssetRepository) UpdateAsset(ctx context.Context, a domain.FixedAsset) error {
	tag, err := r.db(ctx).Exec(ctx, `
		UPDATE fixed_assets
		SET name = $3, status = $4, activation_date = $5, disposed_at = $6, last_updated_at = $7, last_updated_by = $8
		WHERE tenant_id = $1 AND asset_id = $2;`,
		a.TenantID, a.AssetID, a.Name, a.Status, a.ActivationDate, a.DisposedAt, a.LastUpdatedAt, a.LastUpdatedBy)
	return expectOne(tag, err, "asset "+a.AssetID)
}

// UpsertDepreciation keys rows by (asset, period); an existing row keeps its id and creation stamp.
func (r *PgxAssetRepository) UpsertDepreciation(ctx context.Context, d domain.AssetDepreciation) error {
	_, err := r.db(ctx).Exec(ctx, `INSERT INTO asset_depreciations (`+depreciationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (asset_id, fiscal_period_id) DO UPDATE SET
			amount = EXCLUDED.amount,
			is_posted = EXCLUDED.is_posted,
			journal_entry_id = EXCLUDED.journal_entry_id,
			posted_at = EXCLUDED.posted_at,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;`,
		d.DepreciationID, d.TenantID, d.AssetID, d.FiscalPeriodID, d.Amount, d.IsPosted, d.JournalEntryID, d.PostedAt,
		d.CreatedAt, d.CreatedBy, d.LastUpdatedAt, d.LastUpdatedBy)
	if err != nil {
		return writeErr(err, "depreciation of "+d.AssetID)
	}
	return nil
}
