package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/google/uuid"
)

type assetService struct {
	BaseService
	assetRepo portsrepo.AssetRepositoryFacade
	txManager portsrepo.TransactionManager
	approvals portssvc.ApprovalGate
}

// AssetServiceOption is a functional option for configuring the asset service
type AssetServiceOption func(*assetService)

// WithAssetApprovals routes asset submission through the approval workflow engine.
func WithAssetApprovals(gate portssvc.ApprovalGate) AssetServiceOption {
	return func(s *assetService) {
		s.approvals = gate
	}
}

// WithAssetClock overrides the time source.
func WithAssetClock(clock func() time.Time) AssetServiceOption {
	return func(s *assetService) {
		s.clock = clock
	}
}

// NewAssetService creates the fixed asset service. It doubles as the approval
// hook for ASSET workflows.
func NewAssetService(assetRepo portsrepo.AssetRepositoryFacade, txManager portsrepo.TransactionManager, options ...AssetServiceOption) portssvc.AssetSvcFacade {
	svc := &assetService{assetRepo: assetRepo, txManager: txManager}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.AssetSvcFacade = (*assetService)(nil)
var _ portssvc.ApprovalStateReporter = (*assetService)(nil)

func (s *assetService) CreateAsset(ctx context.Context, tenantID string, req dto.CreateAssetRequest, userID string) (*domain.FixedAsset, error) {
	if !req.AcquisitionCost.IsPositive() || req.SalvageValue.IsNegative() {
		return nil, fmt.Errorf("%w: cost must be positive and salvage non-negative", apperrors.ErrValidation)
	}
	if !req.SalvageValue.LessThan(req.AcquisitionCost) {
		return nil, fmt.Errorf("%w: salvage value must be below acquisition cost", apperrors.ErrValidation)
	}
	if req.UsefulLifeMonths < 1 {
		return nil, fmt.Errorf("%w: useful life must be at least one month", apperrors.ErrValidation)
	}

	asset := domain.FixedAsset{
		AssetID:          uuid.NewString(),
		TenantID:         tenantID,
		Code:             req.Code,
		Name:             req.Name,
		AcquisitionCost:  req.AcquisitionCost,
		SalvageValue:     req.SalvageValue,
		UsefulLifeMonths: req.UsefulLifeMonths,
		Method:           domain.StraightLine,
		Status:           domain.AssetDraft,
		InServiceDate:    domain.StartOfDay(req.InServiceDate),
		AuditFields:      domain.NewAuditFields(userID, s.Now()),
	}
	if err := s.assetRepo.SaveAsset(ctx, asset); err != nil {
		s.LogError(ctx, err, "Failed to save asset", slog.String("code", req.Code))
		return nil, err
	}
	s.LogInfo(ctx, "Asset created", slog.String("asset_id", asset.AssetID))
	return &asset, nil
}

func (s *assetService) GetAsset(ctx context.Context, tenantID, assetID string) (*domain.FixedAsset, error) {
	return s.assetRepo.FindAssetByID(ctx, tenantID, assetID)
}

// SubmitAsset activates a draft asset, or parks it in PENDING_APPROVAL while an
// ASSET workflow runs. Auto-approved workflows activate it immediately through MarkApproved.
func (s *assetService) SubmitAsset(ctx context.Context, tenantID, assetID string, actor domain.Actor) (*domain.FixedAsset, error) {
	var asset *domain.FixedAsset
	err := s.txManager.RunInTx(ctx, func(ctx context.Context) error {
		a, err := s.assetRepo.FindAssetByID(ctx, tenantID, assetID)
		if err != nil {
			return err
		}
		if a.Status != domain.AssetDraft {
			return fmt.Errorf("%w: asset %s is %s", apperrors.ErrConflict, a.Code, a.Status)
		}

		required := false
		if s.approvals != nil {
			if required, err = s.approvals.RequiresApproval(ctx, tenantID, domain.KindAsset); err != nil {
				return err
			}
		}
		if !required {
			s.activate(a, actor.UserID)
			asset = a
			return s.assetRepo.UpdateAsset(ctx, *a)
		}

		a.Status = domain.AssetPendingApproval
		a.Touch(actor.UserID, s.Now())
		if err := s.assetRepo.UpdateAsset(ctx, *a); err != nil {
			return err
		}
		if _, err := s.approvals.Start(ctx, tenantID, domain.AssetRef{AssetID: assetID}, actor); err != nil {
			return err
		}
		asset, err = s.assetRepo.FindAssetByID(ctx, tenantID, assetID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Asset submitted",
		slog.String("asset_id", assetID),
		slog.String("status", string(asset.Status)))
	return asset, nil
}

func (s *assetService) activate(a *domain.FixedAsset, userID string) {
	activation := a.InServiceDate
	a.Status = domain.AssetActive
	a.ActivationDate = &activation
	a.Touch(userID, s.Now())
}

func (s *assetService) DisposeAsset(ctx context.Context, tenantID, assetID, userID string) (*domain.FixedAsset, error) {
	var asset *domain.FixedAsset
	err := s.txManager.RunInTx(ctx, func(ctx context.Context) error {
		a, err := s.assetRepo.FindAssetByID(ctx, tenantID, assetID)
		if err != nil {
			return err
		}
		if a.Status == domain.AssetDisposed {
			return fmt.Errorf("%w: asset %s is already disposed", apperrors.ErrConflict, a.Code)
		}
		now := s.Now()
		a.Status = domain.AssetDisposed
		a.DisposedAt = &now
		a.Touch(userID, now)
		asset = a
		return s.assetRepo.UpdateAsset(ctx, *a)
	})
	if err != nil {
		return nil, err
	}
	return asset, nil
}

// MarkApproved activates the asset once its workflow completes.
func (s *assetService) MarkApproved(ctx context.Context, tenantID string, entity domain.EntityRef) error {
	a, err := s.hookTarget(ctx, tenantID, entity)
	if err != nil {
		return err
	}
	if a.Status == domain.AssetActive {
		return nil
	}
	if a.Status == domain.AssetDisposed {
		return fmt.Errorf("%w: asset %s is disposed", apperrors.ErrConflict, a.Code)
	}
	s.activate(a, domain.SystemUserID)
	return s.assetRepo.UpdateAsset(ctx, *a)
}

// RollbackToDraft returns a rejected asset to DRAFT.
func (s *assetService) RollbackToDraft(ctx context.Context, tenantID string, entity domain.EntityRef) error {
	a, err := s.hookTarget(ctx, tenantID, entity)
	if err != nil {
		return err
	}
	if a.Status != domain.AssetPendingApproval {
		s.LogDebug(ctx, "Asset not pending approval, nothing to roll back",
			slog.String("asset_id", a.AssetID),
			slog.String("status", string(a.Status)))
		return nil
	}
	a.Status = domain.AssetDraft
	a.Touch(domain.SystemUserID, s.Now())
	return s.assetRepo.UpdateAsset(ctx, *a)
}

// IsApproved treats an asset that already went live as approved, so entries
// referencing it, depreciation included, never reopen its activation workflow.
func (s *assetService) IsApproved(ctx context.Context, tenantID string, entity domain.EntityRef) (bool, error) {
	ref, ok := entity.(domain.AssetRef)
	if !ok {
		return false, nil
	}
	a, err := s.assetRepo.FindAssetByID(ctx, tenantID, ref.AssetID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return a.Status == domain.AssetActive || a.Status == domain.AssetDisposed, nil
}

func (s *assetService) hookTarget(ctx context.Context, tenantID string, entity domain.EntityRef) (*domain.FixedAsset, error) {
	ref, ok := entity.(domain.AssetRef)
	if !ok {
		return nil, fmt.Errorf("%w: asset hook received %s", apperrors.ErrValidation, domain.RefKey(entity))
	}
	a, err := s.assetRepo.FindAssetByID(ctx, tenantID, ref.AssetID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Approval hook for unknown asset", slog.String("asset_id", ref.AssetID))
		}
		return nil, err
	}
	return a, nil
}
