package services

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// AssetSvcFacade manages the fixed asset lifecycle. It is also the approval
// hook for ASSET workflows.
type AssetSvcFacade interface {
	ApprovalHook

	CreateAsset(ctx context.Context, tenantID string, req dto.CreateAssetRequest, userID string) (*domain.FixedAsset, error)
	GetAsset(ctx context.Context, tenantID, assetID string) (*domain.FixedAsset, error)

	// SubmitAsset starts approval for a draft asset. Without a workflow the asset activates at once.
	SubmitAsset(ctx context.Context, tenantID, assetID string, actor domain.Actor) (*domain.FixedAsset, error)

	DisposeAsset(ctx context.Context, tenantID, assetID, userID string) (*domain.FixedAsset, error)
}

// DepreciationSvcFacade computes and posts depreciation.
type DepreciationSvcFacade interface {
	// Schedule projects the asset's straight-line schedule from its activation month.
	Schedule(ctx context.Context, tenantID, assetID string) ([]domain.ScheduleRow, error)

	// DepreciateAsset posts one asset's depreciation for a period.
	DepreciateAsset(ctx context.Context, tenantID, assetID, periodID string, actor domain.Actor) (*domain.AssetDepreciation, error)

	// PostForPeriod posts depreciation for every depreciable asset. Per-asset
	// failures are collected in the result rather than aborting the run.
	PostForPeriod(ctx context.Context, tenantID, periodID string, actor domain.Actor) (*domain.DepreciationRunResult, error)
}
