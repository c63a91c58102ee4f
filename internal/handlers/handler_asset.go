package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/SscSPs/ledger_engine/internal/platform/analytics"
	"github.com/gin-gonic/gin"
)

// assetHandler serves fixed assets and their depreciation.
type assetHandler struct {
	assetService        portssvc.AssetSvcFacade
	depreciationService portssvc.DepreciationSvcFacade
	analytics           *analytics.Client
}

func newAssetHandler(as portssvc.AssetSvcFacade, ds portssvc.DepreciationSvcFacade, ac *analytics.Client) *assetHandler {
	return &assetHandler{
		assetService:        as,
		depreciationService: ds,
		analytics:           ac,
	}
}

// registerAssetRoutes registers fixed asset and depreciation routes.
func registerAssetRoutes(rg *gin.RouterGroup, assetService portssvc.AssetSvcFacade, depreciationService portssvc.DepreciationSvcFacade, ac *analytics.Client) {
	h := newAssetHandler(assetService, depreciationService, ac)

	assets := rg.Group("/assets")
	{
		assets.POST("", h.createAsset)
		assets.GET("/:assetID", h.getAsset)
		assets.POST("/:assetID/submit", h.submitAsset)
		assets.POST("/:assetID/dispose", h.disposeAsset)
		assets.GET("/:assetID/schedule", h.getSchedule)
		assets.POST("/:assetID/depreciations", h.depreciateAsset)
	}

	rg.POST("/depreciation/runs", h.runDepreciation)
}

// createAsset godoc
// @Summary Register a fixed asset
// @Tags assets
// @Accept  json
// @Produce  json
// @Param   asset body dto.CreateAssetRequest true "Asset details"
// @Success 201 {object} domain.FixedAsset
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Asset code already exists"
// @Failure 500 {object} map[string]string "Failed to create asset"
// @Security BearerAuth
// @Router /assets [post]
func (h *assetHandler) createAsset(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAssetRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	tenantID, actor, ok := requestIdentity(c, logger)
	if !ok {
		return
	}

	asset, err := h.assetService.CreateAsset(c.Request.Context(), tenantID, req, actor.UserID)
	if err != nil {
		respondError(c, logger, err, "Failed to create asset")
		return
	}

	logger.Info("Asset created", slog.String("asset_id", asset.AssetID))
	c.JSON(http.StatusCreated, asset)
}

// getAsset godoc
// @Summary Get a fixed asset
// @Tags assets
// @Produce  json
// @Param   assetID path string true "Asset ID"
// @Success 200 {object} domain.FixedAsset
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Asset not found"
// @Failure 500 {object} map[string]string "Failed to retrieve asset"
// @Security BearerAuth
// @Router /assets/{assetID} [get]
func (h *assetHandler) getAsset(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, _, ok := requestIdentity(c, logger)
	if !ok {
		return
	}

	asset, err := h.assetService.GetAsset(c.Request.Context(), tenantID, c.Param("assetID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve asset")
		return
	}
	c.JSON(http.StatusOK, asset)
}

// submitAsset godoc
// @Summary Submit a draft asset for approval
// @Description Starts the ASSET workflow. Without one the asset activates immediately.
// @Tags assets
// @Produce  json
// @Param   assetID path string true "Asset ID"
// @Success 200 {object} domain.FixedAsset
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Asset not found"
// @Failure 409 {object} map[string]string "Asset is not a draft"
// @Failure 500 {object} map[string]string "Failed to submit asset"
// @Security BearerAuth
// @Router /assets/{assetID}/submit [post]
func (h *assetHandler) submitAsset(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, actor, ok := requestIdentity(c, logger)
	if !ok {
		return
	}

	asset, err := h.assetService.SubmitAsset(c.Request.Context(), tenantID, c.Param("assetID"), actor)
	if err != nil {
		respondError(c, logger, err, "Failed to submit asset")
		return
	}

	logger.Info("Asset submitted", slog.String("asset_id", asset.AssetID), slog.String("status", string(asset.Status)))
	c.JSON(http.StatusOK, asset)
}

// disposeAsset godoc
// @Summary Dispose of an active asset
// @Tags assets
// @Produce  json
// @Param   assetID path string true "Asset ID"
// @Success 200 {object} domain.FixedAsset
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Asset not found"
// @Failure 409 {object} map[string]string "Asset is not active"
// @Failure 500 {object} map[string]string "Failed to dispose asset"
// @Security BearerAuth
// @Router /assets/{assetID}/dispose [post]
func (h *assetHandler) disposeAsset(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, actor, ok := requestIdentity(c, logger)
	if !ok {
		return
	}

	asset, err := h.assetService.DisposeAsset(c.Request.Context(), tenantID, c.Param("assetID"), actor.UserID)
	if err != nil {
		respondError(c, logger, err, "Failed to dispose asset")
		return
	}

	logger.Info("Asset disposed", slog.String("asset_id", asset.AssetID))
	c.JSON(http.StatusOK, asset)
}

// getSchedule godoc
// @Summary Project an asset's depreciation schedule
// @Tags assets
// @Produce  json
// @Param   assetID path string true "Asset ID"
// @Success 200 {array} domain.ScheduleRow
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Asset not found"
// @Failure 409 {object} map[string]string "Asset is not active"
// @Failure 500 {object} map[string]string "Failed to build schedule"
// @Security BearerAuth
// @Router /assets/{assetID}/schedule [get]
func (h *assetHandler) getSchedule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, _, ok := requestIdentity(c, logger)
	if !ok {
		return
	}

	rows, err := h.depreciationService.Schedule(c.Request.Context(), tenantID, c.Param("assetID"))
	if err != nil {
		respondError(c, logger, err, "Failed to build schedule")
		return
	}
	c.JSON(http.StatusOK, rows)
}

// depreciateAsset godoc
// @Summary Post one asset's depreciation for a period
// @Tags assets
// @Accept  json
// @Produce  json
// @Param   assetID path string true "Asset ID"
// @Param   request body dto.DepreciationRunRequest true "Fiscal period"
// @Success 200 {object} domain.AssetDepreciation
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Asset not active or period closed"
// @Failure 422 {object} map[string]string "Schedule exhausted or accounts not configured"
// @Failure 500 {object} map[string]string "Failed to post depreciation"
// @Security BearerAuth
// @Router /assets/{assetID}/depreciations [post]
func (h *assetHandler) depreciateAsset(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.DepreciationRunRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	tenantID, actor, ok := requestIdentity(c, logger)
	if !ok {
		return
	}

	assetID := c.Param("assetID")
	logger = logger.With(slog.String("asset_id", assetID), slog.String("fiscal_period_id", req.FiscalPeriodID))

	row, err := h.depreciationService.DepreciateAsset(c.Request.Context(), tenantID, assetID, req.FiscalPeriodID, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to post depreciation")
		return
	}

	logger.Info("Asset depreciation posted", slog.String("amount", row.Amount.String()))
	c.JSON(http.StatusOK, row)
}

// runDepreciation godoc
// @Summary Post depreciation for every active asset
// @Description Batch run for one period. Safe to repeat; per-asset failures are reported in the result.
// @Tags assets
// @Accept  json
// @Produce  json
// @Param   request body dto.DepreciationRunRequest true "Fiscal period"
// @Success 200 {object} domain.DepreciationRunResult
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Period closed or a run is already in progress"
// @Failure 500 {object} map[string]string "Failed to run depreciation"
// @Security BearerAuth
// @Router /depreciation/runs [post]
func (h *assetHandler) runDepreciation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.DepreciationRunRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	tenantID, actor, ok := requestIdentity(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("fiscal_period_id", req.FiscalPeriodID))
	logger.Info("Received depreciation run request")

	result, err := h.depreciationService.PostForPeriod(c.Request.Context(), tenantID, req.FiscalPeriodID, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to run depreciation")
		return
	}

	middleware.PosthogEvent(c, h.analytics, "depreciation_run_completed", map[string]any{
		"fiscal_period_id": result.FiscalPeriodID,
		"posted":           result.PostedCount,
		"skipped":          result.SkippedCount,
		"failed":           len(result.Errors),
	})
	logger.Info("Depreciation run completed",
		slog.Int("posted", result.PostedCount),
		slog.Int("skipped", result.SkippedCount),
		slog.Int("failed", len(result.Errors)),
	)
	c.JSON(http.StatusOK, result)
}
