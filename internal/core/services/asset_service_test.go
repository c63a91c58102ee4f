package services_test

import (
	"testing"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/stretchr/testify/suite"
)

type AssetServiceTestSuite struct {
	ledgerSuite
}

func TestAssetServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AssetServiceTestSuite))
}

func (suite *ledgerSuite) createAsset(code, cost, salvage string, life int, inService time.Time) *domain.FixedAsset {
	asset, err := suite.svc.Asset.CreateAsset(suite.ctx, testTenant, dto.CreateAssetRequest{
		Code:             code,
		Name:             "Asset " + code,
		AcquisitionCost:  dec(cost),
		SalvageValue:     dec(salvage),
		UsefulLifeMonths: life,
		InServiceDate:    inService,
	}, "admin")
	suite.Require().NoError(err)
	return asset
}

func (suite *AssetServiceTestSuite) TestCreateAsset_Validation() {
	_, err := suite.svc.Asset.CreateAsset(suite.ctx, testTenant, dto.CreateAssetRequest{
		Code: "FA-1", Name: "Van", AcquisitionCost: dec("100"), SalvageValue: dec("100"),
		UsefulLifeMonths: 12, InServiceDate: date(2024, time.January, 1),
	}, "admin")
	suite.ErrorIs(err, apperrors.ErrValidation)

	asset := suite.createAsset("FA-2", "1200", "0", 12, date(2024, time.January, 20))
	suite.Equal(domain.AssetDraft, asset.Status)
	suite.Equal(domain.StraightLine, asset.Method)
	suite.Nil(asset.ActivationDate)
}

func (suite *AssetServiceTestSuite) TestSubmitAsset_WithoutWorkflowActivates() {
	asset := suite.createAsset("FA-1", "1200", "0", 12, date(2024, time.January, 20))

	submitted, err := suite.svc.Asset.SubmitAsset(suite.ctx, testTenant, asset.AssetID, suite.actor)
	suite.Require().NoError(err)
	suite.Equal(domain.AssetActive, submitted.Status)
	suite.Require().NotNil(submitted.ActivationDate)
	suite.Equal(date(2024, time.January, 20), *submitted.ActivationDate)

	_, err = suite.svc.Asset.SubmitAsset(suite.ctx, testTenant, asset.AssetID, suite.actor)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *AssetServiceTestSuite) TestSubmitAsset_ApprovalRejectAndResubmit() {
	suite.workflow(domain.KindAsset, dto.WorkflowStepRequest{StepOrder: 1, ApproverRole: "controller"})
	controller := domain.Actor{UserID: "ctrl", Roles: []string{"controller"}}
	asset := suite.createAsset("FA-1", "600", "0", 6, date(2024, time.February, 1))
	ref := domain.AssetRef{AssetID: asset.AssetID}

	pending, err := suite.svc.Asset.SubmitAsset(suite.ctx, testTenant, asset.AssetID, suite.actor)
	suite.Require().NoError(err)
	suite.Equal(domain.AssetPendingApproval, pending.Status)

	inst, err := suite.svc.Workflow.LatestInstanceFor(suite.ctx, testTenant, ref)
	suite.Require().NoError(err)
	_, err = suite.svc.Workflow.RejectStep(suite.ctx, testTenant, inst.InstanceID, 1, controller, "missing invoice")
	suite.Require().NoError(err)

	draft, err := suite.svc.Asset.GetAsset(suite.ctx, testTenant, asset.AssetID)
	suite.Require().NoError(err)
	suite.Equal(domain.AssetDraft, draft.Status)

	_, err = suite.svc.Asset.SubmitAsset(suite.ctx, testTenant, asset.AssetID, suite.actor)
	suite.Require().NoError(err)
	inst, err = suite.svc.Workflow.LatestInstanceFor(suite.ctx, testTenant, ref)
	suite.Require().NoError(err)
	_, err = suite.svc.Workflow.ApproveStep(suite.ctx, testTenant, inst.InstanceID, 1, controller, "")
	suite.Require().NoError(err)

	active, err := suite.svc.Asset.GetAsset(suite.ctx, testTenant, asset.AssetID)
	suite.Require().NoError(err)
	suite.Equal(domain.AssetActive, active.Status)
	suite.Require().NotNil(active.ActivationDate)
	suite.Equal(date(2024, time.February, 1), *active.ActivationDate)
}

func (suite *AssetServiceTestSuite) TestSubmitAsset_AutoApprovedWorkflowActivates() {
	suite.workflow(domain.KindAsset, dto.WorkflowStepRequest{StepOrder: 1, AutoApprove: true})
	asset := suite.createAsset("FA-1", "600", "0", 6, date(2024, time.February, 1))

	submitted, err := suite.svc.Asset.SubmitAsset(suite.ctx, testTenant, asset.AssetID, suite.actor)
	suite.Require().NoError(err)
	suite.Equal(domain.AssetActive, submitted.Status)
}

func (suite *AssetServiceTestSuite) TestDisposeAsset() {
	asset := suite.createAsset("FA-1", "600", "0", 6, date(2024, time.January, 1))
	_, err := suite.svc.Asset.SubmitAsset(suite.ctx, testTenant, asset.AssetID, suite.actor)
	suite.Require().NoError(err)

	disposed, err := suite.svc.Asset.DisposeAsset(suite.ctx, testTenant, asset.AssetID, "admin")
	suite.Require().NoError(err)
	suite.Equal(domain.AssetDisposed, disposed.Status)
	suite.NotNil(disposed.DisposedAt)

	_, err = suite.svc.Asset.DisposeAsset(suite.ctx, testTenant, asset.AssetID, "admin")
	suite.ErrorIs(err, apperrors.ErrConflict)

	run, err := suite.svc.Depreciation.PostForPeriod(suite.ctx, testTenant, suite.period(time.January).FiscalPeriodID, suite.actor)
	suite.Require().NoError(err)
	suite.Zero(run.PostedCount)
	suite.Zero(run.SkippedCount)
}

func (suite *AssetServiceTestSuite) TestHooksIgnoreForeignReferences() {
	err := suite.svc.Asset.MarkApproved(suite.ctx, testTenant, domain.PaymentRef{PaymentID: "p"})
	suite.ErrorIs(err, apperrors.ErrValidation)
	err = suite.svc.Asset.RollbackToDraft(suite.ctx, testTenant, domain.AssetRef{AssetID: "missing"})
	suite.ErrorIs(err, apperrors.ErrNotFound)
}
