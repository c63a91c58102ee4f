package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

type fiscalHandler struct {
	fiscalService portssvc.FiscalSvcFacade
}

func newFiscalHandler(fs portssvc.FiscalSvcFacade) *fiscalHandler {
	return &fiscalHandler{fiscalService: fs}
}

// registerFiscalRoutes registers routes for fiscal years and periods.
func registerFiscalRoutes(rg *gin.RouterGroup, fiscalService portssvc.FiscalSvcFacade) {
	h := newFiscalHandler(fiscalService)

	years := rg.Group("/fiscal-years")
	{
		years.POST("", h.createFiscalYear)
		years.GET("", h.listFiscalYears)
		years.GET("/:id", h.getFiscalYear)
		years.POST("/:id/close", h.closeFiscalYear)
	}

	periods := rg.Group("/fiscal-periods")
	{
		periods.POST("", h.createFiscalPeriod)
		periods.GET("/active", h.getActivePeriod)
		periods.GET("/:id", h.getFiscalPeriod)
		periods.POST("/:id/close", h.closeFiscalPeriod)
		periods.POST("/:id/reopen", h.reopenFiscalPeriod)
	}
}

// createFiscalYear godoc
// @Summary Create a fiscal year
// @Description Creates a fiscal year, optionally with one period per calendar month
// @Tags fiscal
// @Accept  json
// @Produce  json
// @Param   year body dto.CreateFiscalYearRequest true "Fiscal year"
// @Success 201 {object} dto.FiscalYearResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create fiscal year"
// @Security BearerAuth
// @Router /fiscal-years [post]
func (h *fiscalHandler) createFiscalYear(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateFiscalYearRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	tenantID, actor, ok := requestIdentity(c, logger)
	if !ok {
		return
	}

	year, periods, err := h.fiscalService.CreateFiscalYear(c.Request.Context(), tenantID, req, actor.UserID)
	if err != nil {
		respondError(c, logger, err, "Failed to create fiscal year")
		return
	}

	logger.Info("Fiscal year created", slog.String("fiscal_year_id", year.FiscalYearID), slog.Int("periods", len(periods)))
	c.JSON(http.StatusCreated, dto.FiscalYearResponse{Year: *year, Periods: periods})
}

// listFiscalYears godoc
// @Summary List fiscal years
// @Tags fiscal
// @Produce  json
// @Success 200 {array} domain.FiscalYear
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list fiscal years"
// @Security BearerAuth
// @Router /fiscal-years [get]
func (h *fiscalHandler) listFiscalYears(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, _, ok := requestIdentity(c, logger)
	if !ok {
		return
	}

	years, err := h.fiscalService.ListYears(c.Request.Context(), tenantID)
	if err != nil {
		respondError(c, logger, err, "Failed to list fiscal years")
		return
	}
	c.JSON(http.StatusOK, years)
}

// getFiscalYear godoc
// @Summary Get a fiscal year with its periods
// @Tags fiscal
// @Produce  json
// @Param   id path string true "Fiscal year ID"
// @Success 200 {object} dto.FiscalYearResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Fiscal year not found"
// @Failure 500 {object} map[string]string "Failed to retrieve fiscal year"
// @Security BearerAuth
// @Router /fiscal-years/{id} [get]
func (h *fiscalHandler) getFiscalYear(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, _, ok := requestIdentity(c, logger)
	if !ok {
		return
	}

	yearID := c.Param("id")
	year, err := h.fiscalService.GetYear(c.Request.Context(), tenantID, yearID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve fiscal year")
		return
	}
	periods, err := h.fiscalService.ListPeriods(c.Request.Context(), tenantID, yearID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve fiscal year")
		return
	}
	c.JSON(http.StatusOK, dto.FiscalYearResponse{Year: *year, Periods: periods})
}

// closeFiscalYear godoc
// @Summary Close a fiscal year
// @Description Closes the year and every period inside it
// @Tags fiscal
// @Produce  json
// @Param   id path string true "Fiscal year ID"
// @Success 200 {object} domain.FiscalYear
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Fiscal year not found"
// @Failure 500 {object} map[string]string "Failed to close fiscal year"
// @Security BearerAuth
// @Router /fiscal-years/{id}/close [post]
func (h *fiscalHandler) closeFiscalYear(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, actor, ok := requestIdentity(c, logger)
	if !ok {
		return
	}

	year, err := h.fiscalService.CloseYear(c.Request.Context(), tenantID, c.Param("id"), actor.UserID)
	if err != nil {
		respondError(c, logger, err, "Failed to close fiscal year")
		return
	}

	logger.Info("Fiscal year closed", slog.String("fiscal_year_id", year.FiscalYearID))
	c.JSON(http.StatusOK, year)
}

// createFiscalPeriod godoc
// @Summary Create a fiscal period
// @Tags fiscal
// @Accept  json
// @Produce  json
// @Param   period body dto.CreateFiscalPeriodRequest true "Fiscal period"
// @Success 201 {object} domain.FiscalPeriod
// @Failure 400 {object} map[string]string "Invalid input or dates outside the year"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Fiscal year not found"
// @Failure 500 {object} map[string]string "Failed to create fiscal period"
// @Security BearerAuth
// @Router /fiscal-periods [post]
func (h *fiscalHandler) createFiscalPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateFiscalPeriodRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	tenantID, actor, ok := requestIdentity(c, logger)
	if !ok {
		return
	}

	period, err := h.fiscalService.CreatePeriod(c.Request.Context(), tenantID, req, actor.UserID)
	if err != nil {
		respondError(c, logger, err, "Failed to create fiscal period")
		return
	}

	logger.Info("Fiscal period created", slog.String("fiscal_period_id", period.FiscalPeriodID))
	c.JSON(http.StatusCreated, period)
}

// getActivePeriod godoc
// @Summary Find the open period for a date
// @Tags fiscal
// @Produce  json
// @Param   date query string false "Date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} domain.FiscalPeriod
// @Failure 400 {object} map[string]string "Invalid date"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 422 {object} map[string]string "No active period for date"
// @Failure 500 {object} map[string]string "Failed to resolve fiscal period"
// @Security BearerAuth
// @Router /fiscal-periods/active [get]
func (h *fiscalHandler) getActivePeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, _, ok := requestIdentity(c, logger)
	if !ok {
		return
	}

	dateStr := c.DefaultQuery("date", time.Now().Format("2006-01-02"))
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		logger.Warn("Invalid date format", slog.String("date", dateStr), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD"})
		return
	}

	period, err := h.fiscalService.ActivePeriodFor(c.Request.Context(), tenantID, date)
	if err != nil {
		respondError(c, logger, err, "Failed to resolve fiscal period")
		return
	}
	c.JSON(http.StatusOK, period)
}

// getFiscalPeriod godoc
// @Summary Get a fiscal period
// @Tags fiscal
// @Produce  json
// @Param   id path string true "Fiscal period ID"
// @Success 200 {object} domain.FiscalPeriod
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Fiscal period not found"
// @Failure 500 {object} map[string]string "Failed to retrieve fiscal period"
// @Security BearerAuth
// @Router /fiscal-periods/{id} [get]
func (h *fiscalHandler) getFiscalPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, _, ok := requestIdentity(c, logger)
	if !ok {
		return
	}

	period, err := h.fiscalService.GetPeriod(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve fiscal period")
		return
	}
	c.JSON(http.StatusOK, period)
}

// closeFiscalPeriod godoc
// @Summary Close a fiscal period
// @Tags fiscal
// @Produce  json
// @Param   id path string true "Fiscal period ID"
// @Success 200 {object} domain.FiscalPeriod
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Fiscal period not found"
// @Failure 500 {object} map[string]string "Failed to close fiscal period"
// @Security BearerAuth
// @Router /fiscal-periods/{id}/close [post]
func (h *fiscalHandler) closeFiscalPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, actor, ok := requestIdentity(c, logger)
	if !ok {
		return
	}

	period, err := h.fiscalService.ClosePeriod(c.Request.Context(), tenantID, c.Param("id"), actor.UserID)
	if err != nil {
		respondError(c, logger, err, "Failed to close fiscal period")
		return
	}

	logger.Info("Fiscal period closed", slog.String("fiscal_period_id", period.FiscalPeriodID))
	c.JSON(http.StatusOK, period)
}

// reopenFiscalPeriod godoc
// @Summary Reopen a fiscal period
// @Description Reopens a closed period. Periods of a closed year stay locked.
// @Tags fiscal
// @Produce  json
// @Param   id path string true "Fiscal period ID"
// @Success 200 {object} domain.FiscalPeriod
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Fiscal period not found"
// @Failure 409 {object} map[string]string "Fiscal year is closed"
// @Failure 500 {object} map[string]string "Failed to reopen fiscal period"
// @Security BearerAuth
// @Router /fiscal-periods/{id}/reopen [post]
func (h *fiscalHandler) reopenFiscalPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, actor, ok := requestIdentity(c, logger)
	if !ok {
		return
	}

	period, err := h.fiscalService.ReopenPeriod(c.Request.Context(), tenantID, c.Param("id"), actor.UserID)
	if err != nil {
		respondError(c, logger, err, "Failed to reopen fiscal period")
		return
	}

	logger.Info("Fiscal period reopened", slog.String("fiscal_period_id", period.FiscalPeriodID))
	c.JSON(http.StatusOK, period)
}
