package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerFilter restricts aggregation to posted lines of one fiscal year.
// From is inclusive and Before is exclusive; both are optional.
type LedgerFilter struct {
	FiscalYearID   string
	FiscalPeriodID string
	AccountID      string
	From           *time.Time
	Before         *time.Time
	ReferenceKinds []EntityKind
}

// AccountBalance is the raw debit and credit total of one account under a filter.
type AccountBalance struct {
	Account Account
	Debit   decimal.Decimal
	Credit  decimal.Decimal
}

// LedgerLine is a posted line as shown in the general ledger.
type LedgerLine struct {
	EntryID        string          `json:"entryID"`
	LineID         string          `json:"lineID"`
	EntryDate      time.Time       `json:"entryDate"`
	LineOrder      int             `json:"lineOrder"`
	Description    string          `json:"description"`
	ReferenceKind  string          `json:"referenceKind,omitempty"`
	ReferenceID    string          `json:"referenceID,omitempty"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// TaxLineTotal sums posted tax lines for one rate code and reference kind.
type TaxLineTotal struct {
	TaxRateCode   string
	ReferenceKind EntityKind
	Debit         decimal.Decimal
	Credit        decimal.Decimal
}

// TrialBalanceRow carries one account's opening, period and ending columns.
type TrialBalanceRow struct {
	AccountID     string          `json:"accountID"`
	AccountCode   string          `json:"accountCode"`
	AccountName   string          `json:"accountName"`
	AccountType   AccountType     `json:"accountType"`
	OpeningDebit  decimal.Decimal `json:"openingDebit"`
	OpeningCredit decimal.Decimal `json:"openingCredit"`
	PeriodDebit   decimal.Decimal `json:"periodDebit"`
	PeriodCredit  decimal.Decimal `json:"periodCredit"`
	EndingDebit   decimal.Decimal `json:"endingDebit"`
	EndingCredit  decimal.Decimal `json:"endingCredit"`
}

// TrialBalanceReport is the trial balance for one fiscal period.
type TrialBalanceReport struct {
	FiscalPeriodID     string            `json:"fiscalPeriodID"`
	FiscalYearID       string            `json:"fiscalYearID"`
	IncludeOpening     bool              `json:"includeOpening"`
	Rows               []TrialBalanceRow `json:"rows"`
	TotalOpeningDebit  decimal.Decimal   `json:"totalOpeningDebit"`
	TotalOpeningCredit decimal.Decimal   `json:"totalOpeningCredit"`
	TotalPeriodDebit   decimal.Decimal   `json:"totalPeriodDebit"`
	TotalPeriodCredit  decimal.Decimal   `json:"totalPeriodCredit"`
	TotalEndingDebit   decimal.Decimal   `json:"totalEndingDebit"`
	TotalEndingCredit  decimal.Decimal   `json:"totalEndingCredit"`
	IsBalanced         bool              `json:"isBalanced"`
}

// GeneralLedgerReport lists one account's posted lines with a running balance.
type GeneralLedgerReport struct {
	Account        Account         `json:"account"`
	FiscalYearID   string          `json:"fiscalYearID"`
	From           time.Time       `json:"from"`
	To             time.Time       `json:"to"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Lines          []LedgerLine    `json:"lines"`
	TotalDebit     decimal.Decimal `json:"totalDebit"`
	TotalCredit    decimal.Decimal `json:"totalCredit"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}

// AccountAmount represents an account with its net amount for financial reports.
type AccountAmount struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	NetAmount decimal.Decimal `json:"netAmount"`
}

// PAndLReport represents a profit and loss report.
type PAndLReport struct {
	FiscalPeriodID string          `json:"fiscalPeriodID"`
	YearToDate     bool            `json:"yearToDate"`
	From           time.Time       `json:"from"`
	To             time.Time       `json:"to"`
	Revenue        []AccountAmount `json:"revenue"`
	COGS           []AccountAmount `json:"cogs"`
	Expenses       []AccountAmount `json:"expenses"`
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
	TotalCOGS      decimal.Decimal `json:"totalCOGS"`
	TotalExpenses  decimal.Decimal `json:"totalExpenses"`
	GrossProfit    decimal.Decimal `json:"grossProfit"`
	NetProfit      decimal.Decimal `json:"netProfit"`
}

// RetainedEarningsLabel names the synthetic equity line on the balance sheet.
const RetainedEarningsLabel = "Retained Earnings"

// BalanceSheetReport represents a balance sheet report.
type BalanceSheetReport struct {
	FiscalPeriodID   string          `json:"fiscalPeriodID"`
	AsOf             time.Time       `json:"asOf"`
	Assets           []AccountAmount `json:"assets"`
	Liabilities      []AccountAmount `json:"liabilities"`
	Equity           []AccountAmount `json:"equity"`
	RetainedEarnings decimal.Decimal `json:"retainedEarnings"`
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"`
	IsBalanced       bool            `json:"isBalanced"`
}

// VATDirection says whether net VAT is owed to or by the tax authority.
type VATDirection string

const (
	VATPayable    VATDirection = "PAYABLE"
	VATRefundable VATDirection = "REFUNDABLE"
	VATNil        VATDirection = "NIL"
)

// VATReturnLine is the output and input VAT of one tax rate code.
type VATReturnLine struct {
	TaxRateCode string          `json:"taxRateCode"`
	OutputVAT   decimal.Decimal `json:"outputVAT"`
	InputVAT    decimal.Decimal `json:"inputVAT"`
	NetVAT      decimal.Decimal `json:"netVAT"`
}

// VATReturn summarises VAT on posted invoices in a period.
type VATReturn struct {
	FiscalPeriodID string          `json:"fiscalPeriodID"`
	Lines          []VATReturnLine `json:"lines"`
	TotalOutputVAT decimal.Decimal `json:"totalOutputVAT"`
	TotalInputVAT  decimal.Decimal `json:"totalInputVAT"`
	NetVAT         decimal.Decimal `json:"netVAT"`
	Direction      VATDirection    `json:"direction"`
}
