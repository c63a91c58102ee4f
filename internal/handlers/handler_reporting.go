package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to financial reports
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers routes related to financial reports
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/trial-balance", h.getTrialBalance)
		reportingGroup.GET("/general-ledger", h.getGeneralLedger)
		reportingGroup.GET("/profit-and-loss", h.getProfitAndLoss)
		reportingGroup.GET("/balance-sheet", h.getBalanceSheet)
		reportingGroup.GET("/vat-return", h.getVATReturn)
	}
}

// getTrialBalance godoc
// @Summary Generate trial balance report
// @Description Opening, period and ending balances per account. Totals of each column always agree.
// @Tags reports
// @Produce json
// @Param fiscalPeriodId query string true "Fiscal period ID"
// @Param includeOpening query bool false "Include balances brought forward from the start of the year"
// @Success 200 {object} domain.TrialBalanceReport
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Fiscal period not found"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.TrialBalanceParams
	if !bindQuery(c, logger, &params) {
		return
	}
	tenantID, _, ok := requestIdentity(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("fiscal_period_id", params.FiscalPeriodID), slog.Bool("include_opening", params.IncludeOpening))
	logger.Info("Generating trial balance report")

	report, err := h.reportingService.TrialBalance(c.Request.Context(), tenantID, params.FiscalPeriodID, params.IncludeOpening)
	if err != nil {
		respondError(c, logger, err, "Failed to generate trial balance report")
		return
	}

	logger.Info("Trial balance report generated", slog.Int("rows", len(report.Rows)))
	c.JSON(http.StatusOK, report)
}

// getGeneralLedger godoc
// @Summary Generate general ledger report
// @Description Posted lines of one account in date order with a running balance. Dates narrow the fiscal period when both are given.
// @Tags reports
// @Produce json
// @Param accountId query string true "Account ID"
// @Param fiscalPeriodId query string false "Fiscal period ID"
// @Param dateFrom query string false "Start date (YYYY-MM-DD)"
// @Param dateTo query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} domain.GeneralLedgerReport
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account or period not found"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/general-ledger [get]
func (h *reportingHandler) getGeneralLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.GeneralLedgerParams
	if !bindQuery(c, logger, &params) {
		return
	}
	tenantID, _, ok := requestIdentity(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("account_id", params.AccountID))
	logger.Info("Generating general ledger report")

	report, err := h.reportingService.GeneralLedger(c.Request.Context(), tenantID, params)
	if err != nil {
		respondError(c, logger, err, "Failed to generate general ledger report")
		return
	}
	c.JSON(http.StatusOK, report)
}

// getProfitAndLoss godoc
// @Summary Generate profit and loss report
// @Description Revenue, cost of sales and expenses for the period, or year to date when includePrevious is set
// @Tags reports
// @Produce json
// @Param fiscalPeriodId query string true "Fiscal period ID"
// @Param includePrevious query bool false "Include earlier periods of the same year"
// @Success 200 {object} domain.PAndLReport
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Fiscal period not found"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/profit-and-loss [get]
func (h *reportingHandler) getProfitAndLoss(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ProfitAndLossParams
	if !bindQuery(c, logger, &params) {
		return
	}
	tenantID, _, ok := requestIdentity(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("fiscal_period_id", params.FiscalPeriodID), slog.Bool("include_previous", params.IncludePreviousPeriods))
	logger.Info("Generating profit and loss report")

	report, err := h.reportingService.ProfitAndLoss(c.Request.Context(), tenantID, params.FiscalPeriodID, params.IncludePreviousPeriods)
	if err != nil {
		respondError(c, logger, err, "Failed to generate profit and loss report")
		return
	}
	c.JSON(http.StatusOK, report)
}

// getBalanceSheet godoc
// @Summary Generate balance sheet report
// @Description Assets, liabilities and equity as of the period end, with current earnings shown under equity
// @Tags reports
// @Produce json
// @Param fiscalPeriodId query string true "Fiscal period ID"
// @Success 200 {object} domain.BalanceSheetReport
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Fiscal period not found"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/balance-sheet [get]
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.PeriodReportParams
	if !bindQuery(c, logger, &params) {
		return
	}
	tenantID, _, ok := requestIdentity(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("fiscal_period_id", params.FiscalPeriodID))
	logger.Info("Generating balance sheet report")

	report, err := h.reportingService.BalanceSheet(c.Request.Context(), tenantID, params.FiscalPeriodID)
	if err != nil {
		respondError(c, logger, err, "Failed to generate balance sheet report")
		return
	}
	c.JSON(http.StatusOK, report)
}

// getVATReturn godoc
// @Summary Generate VAT return
// @Description Output VAT on sales netted against input VAT on purchases for the period
// @Tags reports
// @Produce json
// @Param fiscalPeriodId query string true "Fiscal period ID"
// @Success 200 {object} domain.VATReturn
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Fiscal period not found"
// @Failure 422 {object} map[string]string "Tax accounts not configured"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/vat-return [get]
func (h *reportingHandler) getVATReturn(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.PeriodReportParams
	if !bindQuery(c, logger, &params) {
		return
	}
	tenantID, _, ok := requestIdentity(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("fiscal_period_id", params.FiscalPeriodID))

	report, err := h.reportingService.VATReturn(c.Request.Context(), tenantID, params.FiscalPeriodID)
	if err != nil {
		respondError(c, logger, err, "Failed to generate VAT return")
		return
	}
	c.JSON(http.StatusOK, report)
}
