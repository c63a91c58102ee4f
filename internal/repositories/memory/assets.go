package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

func (s *Store) FindAssetByID(_ context.Context, tenantID, assetID string) (*domain.FixedAsset, error) {
	var out *domain.FixedAsset
	err := s.read(func(st *state) error {
		a, ok := st.assets[assetID]
		if !ok || a.TenantID != tenantID {
			return fmt.Errorf("%w: asset %s", apperrors.ErrNotFound, assetID)
		}
		out = &a
		return nil
	})
	return out, err
}

func (s *Store) ListDepreciableAssets(_ context.Context, tenantID string, activatedBy time.Time) ([]domain.FixedAsset, error) {
	var out []domain.FixedAsset
	cutoff := domain.StartOfDay(activatedBy)
	_ = s.read(func(st *state) error {
		for _, a := range st.assets {
			if a.TenantID != tenantID || a.Status != domain.AssetActive || a.ActivationDate == nil {
				continue
			}
			if domain.StartOfDay(*a.ActivationDate).After(cutoff) {
				continue
			}
			out = append(out, a)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (s *Store) ListDepreciations(_ context.Context, tenantID, assetID string) ([]domain.AssetDepreciation, error) {
	var out []domain.AssetDepreciation
	_ = s.read(func(st *state) error {
		for _, d := range st.depreciations {
			if d.TenantID == tenantID && d.AssetID == assetID {
				out = append(out, d)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) FindDepreciation(_ context.Context, tenantID, assetID, periodID string) (*domain.AssetDepreciation, error) {
	var out *domain.AssetDepreciation
	err := s.read(func(st *state) error {
		for _, d := range st.depreciations {
			if d.TenantID == tenantID && d.AssetID == assetID && d.FiscalPeriodID == periodID {
				out = &d
				return nil
			}
		}
		return fmt.Errorf("%w: depreciation of %s in %s", apperrors.ErrNotFound, assetID, periodID)
	})
	return out, err
}

func (s *Store) PostedDepreciationTotals(_ context.Context, tenantID, assetID string) (int, decimal.Decimal, error) {
	count, total := 0, decimal.Zero
	_ = s.read(func(st *state) error {
		for _, d := range st.depreciations {
			if d.TenantID == tenantID && d.AssetID == assetID && d.IsPosted {
				count++
				total = total.Add(d.Amount)
			}
		}
		return nil
	})
	return count, total, nil
}

func (s *Store) SaveAsset(ctx context.Context, asset domain.FixedAsset) error {
	return s.write(ctx, func(st *state) error {
		if _, ok := st.assets[asset.AssetID]; ok {
			return fmt.Errorf("%w: asset %s already exists", apperrors.ErrDuplicate, asset.AssetID)
		}
		for _, a := range st.assets {
			if a.TenantID == asset.TenantID && a.Code == asset.Code {
				return fmt.Errorf("%w: asset code %s already exists", apperrors.ErrDuplicate, asset.Code)
			}
		}
		st.assets[asset.AssetID] = asset
		return nil
	})
}

func (s *Store) UpdateAsset(ctx context.Context, asset domain.FixedAsset) error {
	return s.write(ctx, func(st *state) error {
		existing, ok := st.assets[asset.AssetID]
		if !ok || existing.TenantID != asset.TenantID {
			return fmt.Errorf("%w: asset %s", apperrors.ErrNotFound, asset.AssetID)
		}
		st.assets[asset.AssetID] = asset
		return nil
	})
}

// UpsertDepreciation keys rows by (asset, period); the stored id of an existing row wins.
func (s *Store) UpsertDepreciation(ctx context.Context, dep domain.AssetDepreciation) error {
	return s.write(ctx, func(st *state) error {
		for id, d := range st.depreciations {
			if d.TenantID == dep.TenantID && d.AssetID == dep.AssetID && d.FiscalPeriodID == dep.FiscalPeriodID {
				dep.DepreciationID = id
				dep.AuditFields.CreatedAt, dep.AuditFields.CreatedBy = d.CreatedAt, d.CreatedBy
				st.depreciations[id] = dep
				return nil
			}
		}
		st.depreciations[dep.DepreciationID] = dep
		return nil
	})
}
