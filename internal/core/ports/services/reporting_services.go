package services

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// ReportingSvcFacade defines operations for generating financial reports
type ReportingSvcFacade interface {
	// TrialBalance reports opening, period and ending balances per account for a period.
	TrialBalance(ctx context.Context, tenantID, periodID string, includeOpening bool) (*domain.TrialBalanceReport, error)

	// GeneralLedger lists an account's posted lines with a running balance.
	GeneralLedger(ctx context.Context, tenantID string, params dto.GeneralLedgerParams) (*domain.GeneralLedgerReport, error)

	// ProfitAndLoss reports revenue, cost of sales and expenses for a period or year to date.
	ProfitAndLoss(ctx context.Context, tenantID, periodID string, includePrevious bool) (*domain.PAndLReport, error)

	// BalanceSheet reports assets, liabilities and equity as of the period end.
	BalanceSheet(ctx context.Context, tenantID, periodID string) (*domain.BalanceSheetReport, error)

	// VATReturn nets output VAT on sales against input VAT on purchases.
	VATReturn(ctx context.Context, tenantID, periodID string) (*domain.VATReturn, error)
}
