package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateAssetRequest registers a fixed asset in draft.
type CreateAssetRequest struct {
	Code             string          `json:"code" binding:"required"`
	Name             string          `json:"name" binding:"required"`
	AcquisitionCost  decimal.Decimal `json:"acquisitionCost" binding:"dgt0"`
	SalvageValue     decimal.Decimal `json:"salvageValue" binding:"dgte0"`
	UsefulLifeMonths int             `json:"usefulLifeMonths" binding:"required,min=1,max=1200"`
	InServiceDate    time.Time       `json:"inServiceDate" binding:"required"`
}

// DepreciationRunRequest triggers batch depreciation posting for a period.
type DepreciationRunRequest struct {
	FiscalPeriodID string `json:"fiscalPeriodId" binding:"required"`
}
