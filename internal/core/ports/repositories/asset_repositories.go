package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AssetReader defines read operations for fixed assets and their depreciation
type AssetReader interface {
	FindAssetByID(ctx context.Context, tenantID, assetID string) (*domain.FixedAsset, error)

	// ListDepreciableAssets returns active assets activated on or before date.
	ListDepreciableAssets(ctx context.Context, tenantID string, activatedBy time.Time) ([]domain.FixedAsset, error)

	ListDepreciations(ctx context.Context, tenantID, assetID string) ([]domain.AssetDepreciation, error)
	FindDepreciation(ctx context.Context, tenantID, assetID, periodID string) (*domain.AssetDepreciation, error)

	// PostedDepreciationTotals returns the number and sum of posted rows for the asset.
	PostedDepreciationTotals(ctx context.Context, tenantID, assetID string) (int, decimal.Decimal, error)
}

// AssetWriter defines write operations for fixed assets and their depreciation
type AssetWriter interface {
	SaveAsset(ctx context.Context, asset domain.FixedAsset) error
	UpdateAsset(ctx context.Context, asset domain.FixedAsset) error

	// UpsertDepreciation inserts or updates the row for (asset, period).
	UpsertDepreciation(ctx context.Context, dep domain.AssetDepreciation) error
}

// AssetRepositoryFacade combines asset reads and writes
type AssetRepositoryFacade interface {
	AssetReader
	AssetWriter
}
