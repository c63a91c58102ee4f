package repositories

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// ReportingRepository aggregates posted journal lines. Every method only
// considers lines whose entry is posted and belongs to filter.FiscalYearID.
type ReportingRepository interface {
	// SumPostedByAccount returns raw debit and credit totals per account.
	// Accounts without matching lines are omitted.
	SumPostedByAccount(ctx context.Context, tenantID string, filter domain.LedgerFilter) ([]domain.AccountBalance, error)

	// ListPostedLines returns lines of filter.AccountID ordered by entry date,
	// entry id and line order. RunningBalance is left zero.
	ListPostedLines(ctx context.Context, tenantID string, filter domain.LedgerFilter) ([]domain.LedgerLine, error)

	// SumTaxLines totals lines carrying a tax rate code, grouped by code and
	// the referencing entity kind.
	SumTaxLines(ctx context.Context, tenantID string, filter domain.LedgerFilter) ([]domain.TaxLineTotal, error)
}
