package handlers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/platform/lock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AssetHandlerTestSuite struct {
	handlerSuite
}

func (suite *AssetHandlerTestSuite) TestCreateAsset() {
	asset := &domain.FixedAsset{
		AssetID:          uuid.NewString(),
		TenantID:         testTenantID,
		Code:             "VAN-01",
		Name:             "Delivery van",
		AcquisitionCost:  decimal.NewFromInt(1200),
		SalvageValue:     decimal.Zero,
		UsefulLifeMonths: 12,
		Method:           domain.StraightLine,
		Status:           domain.AssetDraft,
		InServiceDate:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	suite.assets.On("CreateAsset", mock.Anything, testTenantID,
		mock.MatchedBy(func(req dto.CreateAssetRequest) bool {
			return req.Code == "VAN-01" && req.AcquisitionCost.Equal(decimal.NewFromInt(1200))
		}),
		testUserID,
	).Return(asset, nil).Once()

	body := `{"code":"VAN-01","name":"Delivery van","acquisitionCost":"1200","salvageValue":"0","usefulLifeMonths":12,"inServiceDate":"2024-01-01T00:00:00Z"}`
	w := suite.do(http.MethodPost, "/api/v1/assets", body)

	suite.Equal(http.StatusCreated, w.Code)
	var resp domain.FixedAsset
	suite.decode(w, &resp)
	suite.Equal(domain.AssetDraft, resp.Status)
}

func (suite *AssetHandlerTestSuite) TestCreateAsset_ZeroCost() {
	body := `{"code":"X","name":"Free","acquisitionCost":"0","salvageValue":"0","usefulLifeMonths":12,"inServiceDate":"2024-01-01T00:00:00Z"}`

	w := suite.do(http.MethodPost, "/api/v1/assets", body)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *AssetHandlerTestSuite) TestSubmitAsset() {
	assetID := uuid.NewString()
	pending := &domain.FixedAsset{AssetID: assetID, Status: domain.AssetPendingApproval}
	suite.assets.On("SubmitAsset", mock.Anything, testTenantID, assetID, byUser(testUserID)).Return(pending, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/assets/"+assetID+"/submit", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp domain.FixedAsset
	suite.decode(w, &resp)
	suite.Equal(domain.AssetPendingApproval, resp.Status)
}

func (suite *AssetHandlerTestSuite) TestSchedule_InactiveAsset() {
	assetID := uuid.NewString()
	suite.depreciation.On("Schedule", mock.Anything, testTenantID, assetID).
		Return(nil, fmt.Errorf("%w: asset %s", apperrors.ErrAssetNotActive, assetID)).Once()

	w := suite.do(http.MethodGet, "/api/v1/assets/"+assetID+"/schedule", nil)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *AssetHandlerTestSuite) TestDepreciateAsset_Exhausted() {
	assetID, periodID := uuid.NewString(), uuid.NewString()
	suite.depreciation.On("DepreciateAsset", mock.Anything, testTenantID, assetID, periodID, byUser(testUserID)).
		Return(nil, apperrors.ErrScheduleExhausted).Once()

	w := suite.do(http.MethodPost, "/api/v1/assets/"+assetID+"/depreciations", dto.DepreciationRunRequest{FiscalPeriodID: periodID})

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *AssetHandlerTestSuite) TestRunDepreciation_WithAPIKey() {
	periodID := uuid.NewString()
	result := &domain.DepreciationRunResult{
		FiscalPeriodID: periodID,
		PostedCount:    2,
		SkippedCount:   1,
		Rows:           []domain.AssetDepreciation{},
		Errors:         []domain.AssetDepreciationError{{AssetID: "a-3", Message: "tenant accounts are not fully configured"}},
	}
	suite.depreciation.On("PostForPeriod", mock.Anything, testTenantID, periodID, domain.SystemActor).Return(result, nil).Once()

	req := suite.newRequest(http.MethodPost, "/api/v1/depreciation/runs", dto.DepreciationRunRequest{FiscalPeriodID: periodID})
	req.Header.Set("X-API-Key", testTriggerKey)
	req.Header.Set("X-Tenant-ID", testTenantID)
	w := suite.serve(req)

	suite.Equal(http.StatusOK, w.Code)
	var resp domain.DepreciationRunResult
	suite.decode(w, &resp)
	suite.Equal(2, resp.PostedCount)
	suite.Equal(1, resp.SkippedCount)
	suite.Require().Len(resp.Errors, 1)
	suite.Equal("a-3", resp.Errors[0].AssetID)
}

func (suite *AssetHandlerTestSuite) TestRunDepreciation_WrongAPIKeyNeedsToken() {
	req := suite.newRequest(http.MethodPost, "/api/v1/depreciation/runs", dto.DepreciationRunRequest{FiscalPeriodID: "p"})
	req.Header.Set("X-API-Key", "not-the-key")
	req.Header.Set("X-Tenant-ID", testTenantID)

	w := suite.serve(req)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *AssetHandlerTestSuite) TestRunDepreciation_LockHeld() {
	periodID := uuid.NewString()
	suite.depreciation.On("PostForPeriod", mock.Anything, testTenantID, periodID, byUser(testUserID)).
		Return(nil, fmt.Errorf("%w: depreciation:%s:%s", lock.ErrLockHeld, testTenantID, periodID)).Once()

	w := suite.do(http.MethodPost, "/api/v1/depreciation/runs", dto.DepreciationRunRequest{FiscalPeriodID: periodID})

	suite.Equal(http.StatusConflict, w.Code)
}

func TestAssetHandler(t *testing.T) {
	suite.Run(t, new(AssetHandlerTestSuite))
}
