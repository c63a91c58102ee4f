package dto

import (
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// CreateFiscalYearRequest defines a new fiscal year. When GenerateMonthlyPeriods
// is set one period per calendar month is created inside the year.
type CreateFiscalYearRequest struct {
	Name                   string    `json:"name" binding:"required"`
	StartDate              time.Time `json:"startDate" binding:"required"`
	EndDate                time.Time `json:"endDate" binding:"required,gtfield=StartDate"`
	GenerateMonthlyPeriods bool      `json:"generateMonthlyPeriods"`
}

// CreateFiscalPeriodRequest defines a new period inside an existing year.
type CreateFiscalPeriodRequest struct {
	FiscalYearID string    `json:"fiscalYearID" binding:"required"`
	Name         string    `json:"name" binding:"required"`
	StartDate    time.Time `json:"startDate" binding:"required"`
	EndDate      time.Time `json:"endDate" binding:"required,gtefield=StartDate"`
}

// FiscalYearResponse is a fiscal year with its periods.
type FiscalYearResponse struct {
	Year    domain.FiscalYear     `json:"year"`
	Periods []domain.FiscalPeriod `json:"periods"`
}
