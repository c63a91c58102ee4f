package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetStatus is the lifecycle state of a fixed asset.
type AssetStatus string

const (
	AssetDraft           AssetStatus = "DRAFT"
	AssetPendingApproval AssetStatus = "PENDING_APPROVAL"
	AssetActive          AssetStatus = "ACTIVE"
	AssetDisposed        AssetStatus = "DISPOSED"
)

// DepreciationMethod names how an asset's cost is spread over its life.
type DepreciationMethod string

// StraightLine is the only supported method.
const StraightLine DepreciationMethod = "STRAIGHT_LINE"

// FixedAsset is a long-lived asset depreciated monthly.
type FixedAsset struct {
	AssetID          string             `json:"assetID"`
	TenantID         string             `json:"tenantID"`
	Code             string             `json:"code"`
	Name             string             `json:"name"`
	AcquisitionCost  decimal.Decimal    `json:"acquisitionCost"`
	SalvageValue     decimal.Decimal    `json:"salvageValue"`
	UsefulLifeMonths int                `json:"usefulLifeMonths"`
	Method           DepreciationMethod `json:"method"`
	Status           AssetStatus        `json:"status"`
	InServiceDate    time.Time          `json:"inServiceDate"`
	ActivationDate   *time.Time         `json:"activationDate,omitempty"`
	DisposedAt       *time.Time         `json:"disposedAt,omitempty"`
	AuditFields
}

// DepreciableBase is cost minus salvage, the most that may ever be depreciated.
func (a FixedAsset) DepreciableBase() decimal.Decimal {
	return a.AcquisitionCost.Sub(a.SalvageValue)
}

// AssetDepreciation records the depreciation of one asset in one fiscal period.
type AssetDepreciation struct {
	DepreciationID string          `json:"depreciationID"`
	TenantID       string          `json:"tenantID"`
	AssetID        string          `json:"assetID"`
	FiscalPeriodID string          `json:"fiscalPeriodID"`
	Amount         decimal.Decimal `json:"amount"`
	IsPosted       bool            `json:"isPosted"`
	JournalEntryID *string         `json:"journalEntryID,omitempty"`
	PostedAt       *time.Time      `json:"postedAt,omitempty"`
	AuditFields
}

// ScheduleRow is one month of a projected depreciation schedule.
type ScheduleRow struct {
	Sequence       int             `json:"sequence"`
	PeriodStart    time.Time       `json:"periodStart"`
	Amount         decimal.Decimal `json:"amount"`
	Cumulative     decimal.Decimal `json:"cumulative"`
	NetBookValue   decimal.Decimal `json:"netBookValue"`
	IsPosted       bool            `json:"isPosted"`
	FiscalPeriodID string          `json:"fiscalPeriodID,omitempty"`
}

// DepreciationRunResult summarises one batch posting run.
type DepreciationRunResult struct {
	FiscalPeriodID string                   `json:"fiscalPeriodID"`
	PostedCount    int                      `json:"postedCount"`
	SkippedCount   int                      `json:"skippedCount"`
	Rows           []AssetDepreciation      `json:"rows"`
	Errors         []AssetDepreciationError `json:"errors"`
}

// AssetDepreciationError is a per-asset failure captured during a batch run.
type AssetDepreciationError struct {
	AssetID string `json:"assetID"`
	Err     error  `json:"-"`
	Message string `json:"message"`
}

func (e AssetDepreciationError) Error() string {
	return e.AssetID + ": " + e.Message
}

// Unwrap exposes the underlying cause.
func (e AssetDepreciationError) Unwrap() error {
	return e.Err
}
