package dto

import (
	"time"
)

// TrialBalanceParams are the query parameters of the trial balance report.
type TrialBalanceParams struct {
	FiscalPeriodID string `form:"fiscalPeriodId" binding:"required"`
	IncludeOpening bool   `form:"includeOpening"`
}

// GeneralLedgerParams are the query parameters of the general ledger report.
// Without a period the range defaults to the fiscal year holding the dates.
type GeneralLedgerParams struct {
	AccountID      string     `form:"accountId" binding:"required"`
	FiscalPeriodID string     `form:"fiscalPeriodId"`
	DateFrom       *time.Time `form:"dateFrom" time_format:"2006-01-02"`
	DateTo         *time.Time `form:"dateTo" time_format:"2006-01-02"`
}

// ProfitAndLossParams are the query parameters of the profit and loss report.
type ProfitAndLossParams struct {
	FiscalPeriodID         string `form:"fiscalPeriodId" binding:"required"`
	IncludePreviousPeriods bool   `form:"includePrevious"`
}

// PeriodReportParams is used by reports that only need a period.
type PeriodReportParams struct {
	FiscalPeriodID string `form:"fiscalPeriodId" binding:"required"`
}
