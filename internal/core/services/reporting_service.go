package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// reportingService implements the five financial reports on top of one
// primitive: posted debit and credit totals per account under a LedgerFilter.
type reportingService struct {
	BaseService
	reportRepo  portsrepo.ReportingRepository
	accountRepo portsrepo.AccountReader
	calendar    portssvc.FiscalCalendarSvc
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// WithReportingClock overrides the time source used when a report is not anchored to a period.
func WithReportingClock(clock func() time.Time) ReportingServiceOption {
	return func(s *reportingService) {
		s.clock = clock
	}
}

// NewReportingService creates the reporting service.
func NewReportingService(reportRepo portsrepo.ReportingRepository, accountRepo portsrepo.AccountReader, calendar portssvc.FiscalCalendarSvc, options ...ReportingServiceOption) portssvc.ReportingSvcFacade {
	svc := &reportingService{
		reportRepo:  reportRepo,
		accountRepo: accountRepo,
		calendar:    calendar,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

func (s *reportingService) periodAndYear(ctx context.Context, tenantID, periodID string) (*domain.FiscalPeriod, *domain.FiscalYear, error) {
	period, err := s.calendar.GetPeriod(ctx, tenantID, periodID)
	if err != nil {
		return nil, nil, err
	}
	year, err := s.calendar.GetYear(ctx, tenantID, period.FiscalYearID)
	if err != nil {
		return nil, nil, err
	}
	return period, year, nil
}

func (s *reportingService) sums(ctx context.Context, tenantID string, filter domain.LedgerFilter) (map[string]domain.AccountBalance, error) {
	balances, err := s.reportRepo.SumPostedByAccount(ctx, tenantID, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to aggregate account balances", slog.String("tenant_id", tenantID))
		return nil, err
	}
	out := make(map[string]domain.AccountBalance, len(balances))
	for _, b := range balances {
		out[b.Account.AccountID] = b
	}
	return out, nil
}

// TrialBalance reports opening, period and ending columns per account.
func (s *reportingService) TrialBalance(ctx context.Context, tenantID, periodID string, includeOpening bool) (*domain.TrialBalanceReport, error) {
	period, year, err := s.periodAndYear(ctx, tenantID, periodID)
	if err != nil {
		return nil, err
	}

	activity, err := s.sums(ctx, tenantID, domain.LedgerFilter{
		FiscalYearID:   year.FiscalYearID,
		FiscalPeriodID: period.FiscalPeriodID,
	})
	if err != nil {
		return nil, err
	}
	opening := map[string]domain.AccountBalance{}
	if includeOpening {
		yearStart, periodStart := year.StartDate, period.StartDate
		opening, err = s.sums(ctx, tenantID, domain.LedgerFilter{
			FiscalYearID: year.FiscalYearID,
			From:         &yearStart,
			Before:       &periodStart,
		})
		if err != nil {
			return nil, err
		}
	}

	accounts := make(map[string]domain.Account, len(activity)+len(opening))
	for id, b := range activity {
		accounts[id] = b.Account
	}
	for id, b := range opening {
		accounts[id] = b.Account
	}

	report := &domain.TrialBalanceReport{
		FiscalPeriodID:     period.FiscalPeriodID,
		FiscalYearID:       year.FiscalYearID,
		IncludeOpening:     includeOpening,
		Rows:               make([]domain.TrialBalanceRow, 0, len(accounts)),
		TotalOpeningDebit:  decimal.Zero,
		TotalOpeningCredit: decimal.Zero,
		TotalPeriodDebit:   decimal.Zero,
		TotalPeriodCredit:  decimal.Zero,
		TotalEndingDebit:   decimal.Zero,
		TotalEndingCredit:  decimal.Zero,
	}
	for id, acc := range accounts {
		open, act := opening[id], activity[id]
		openNet := open.Debit.Sub(open.Credit)
		actDebit, actCredit := act.Debit, act.Credit
		openDebit, openCredit := accounting.SplitDebitCredit(openNet)
		endDebit, endCredit := accounting.SplitDebitCredit(openNet.Add(actDebit).Sub(actCredit))

		report.Rows = append(report.Rows, domain.TrialBalanceRow{
			AccountID:     id,
			AccountCode:   acc.Code,
			AccountName:   acc.Name,
			AccountType:   acc.AccountType,
			OpeningDebit:  openDebit,
			OpeningCredit: openCredit,
			PeriodDebit:   actDebit,
			PeriodCredit:  actCredit,
			EndingDebit:   endDebit,
			EndingCredit:  endCredit,
		})
		report.TotalOpeningDebit = report.TotalOpeningDebit.Add(openDebit)
		report.TotalOpeningCredit = report.TotalOpeningCredit.Add(openCredit)
		report.TotalPeriodDebit = report.TotalPeriodDebit.Add(actDebit)
		report.TotalPeriodCredit = report.TotalPeriodCredit.Add(actCredit)
		report.TotalEndingDebit = report.TotalEndingDebit.Add(endDebit)
		report.TotalEndingCredit = report.TotalEndingCredit.Add(endCredit)
	}
	sort.Slice(report.Rows, func(i, j int) bool {
		a, b := accounts[report.Rows[i].AccountID], accounts[report.Rows[j].AccountID]
		if a.DisplayOrder != b.DisplayOrder {
			return a.DisplayOrder < b.DisplayOrder
		}
		return a.Code < b.Code
	})
	report.IsBalanced = accounting.StrictlyWithinTolerance(report.TotalEndingDebit, report.TotalEndingCredit)
	return report, nil
}

// GeneralLedger lists one account's posted lines with a running balance that
// starts at the opening balance of the requested range.
func (s *reportingService) GeneralLedger(ctx context.Context, tenantID string, params dto.GeneralLedgerParams) (*domain.GeneralLedgerReport, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, tenantID, params.AccountID)
	if err != nil {
		return nil, err
	}

	var (
		year     *domain.FiscalYear
		from, to time.Time
	)
	if params.FiscalPeriodID != "" {
		var period *domain.FiscalPeriod
		period, year, err = s.periodAndYear(ctx, tenantID, params.FiscalPeriodID)
		if err != nil {
			return nil, err
		}
		// Dates narrow the period; they never widen it.
		from, to = period.StartDate, period.EndDate
		if params.DateFrom != nil && domain.StartOfDay(*params.DateFrom).After(from) {
			from = domain.StartOfDay(*params.DateFrom)
		}
		if params.DateTo != nil && domain.StartOfDay(*params.DateTo).Before(to) {
			to = domain.StartOfDay(*params.DateTo)
		}
	} else {
		anchor := s.Now()
		switch {
		case params.DateFrom != nil:
			anchor = *params.DateFrom
		case params.DateTo != nil:
			anchor = *params.DateTo
		}
		year, err = s.calendar.YearContaining(ctx, tenantID, anchor)
		if err != nil {
			return nil, err
		}
		from, to = year.StartDate, year.EndDate
		if params.DateFrom != nil {
			from = domain.StartOfDay(*params.DateFrom)
		}
		if params.DateTo != nil {
			to = domain.StartOfDay(*params.DateTo)
		}
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: requested date range is empty", apperrors.ErrValidation)
	}
	if !year.Contains(from) || !year.Contains(to) {
		return nil, fmt.Errorf("%w: date range must lie within fiscal year %s", apperrors.ErrValidation, year.Name)
	}

	report := &domain.GeneralLedgerReport{
		Account:        *account,
		FiscalYearID:   year.FiscalYearID,
		From:           from,
		To:             to,
		OpeningBalance: decimal.Zero,
		Lines:          []domain.LedgerLine{},
		TotalDebit:     decimal.Zero,
		TotalCredit:    decimal.Zero,
	}

	if from.After(year.StartDate) {
		yearStart := year.StartDate
		opening, err := s.sums(ctx, tenantID, domain.LedgerFilter{
			FiscalYearID: year.FiscalYearID,
			AccountID:    account.AccountID,
			From:         &yearStart,
			Before:       &from,
		})
		if err != nil {
			return nil, err
		}
		if b, ok := opening[account.AccountID]; ok {
			report.OpeningBalance = accounting.NaturalBalance(account.AccountType, b.Debit, b.Credit)
		}
	}

	before := to.AddDate(0, 0, 1)
	lines, err := s.reportRepo.ListPostedLines(ctx, tenantID, domain.LedgerFilter{
		FiscalYearID: year.FiscalYearID,
		AccountID:    account.AccountID,
		From:         &from,
		Before:       &before,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list ledger lines", slog.String("account_id", account.AccountID))
		return nil, err
	}

	running := report.OpeningBalance
	for _, l := range lines {
		running = running.Add(accounting.NaturalBalance(account.AccountType, l.Debit, l.Credit))
		l.RunningBalance = running
		report.TotalDebit = report.TotalDebit.Add(l.Debit)
		report.TotalCredit = report.TotalCredit.Add(l.Credit)
		report.Lines = append(report.Lines, l)
	}
	report.ClosingBalance = running
	return report, nil
}

// ProfitAndLoss reports revenue, COGS and other expenses for the period or year to date.
func (s *reportingService) ProfitAndLoss(ctx context.Context, tenantID, periodID string, includePrevious bool) (*domain.PAndLReport, error) {
	period, year, err := s.periodAndYear(ctx, tenantID, periodID)
	if err != nil {
		return nil, err
	}

	filter := domain.LedgerFilter{FiscalYearID: year.FiscalYearID, FiscalPeriodID: period.FiscalPeriodID}
	from := period.StartDate
	if includePrevious {
		yearStart, end := year.StartDate, period.DayAfterEnd()
		filter = domain.LedgerFilter{FiscalYearID: year.FiscalYearID, From: &yearStart, Before: &end}
		from = year.StartDate
	}
	balances, err := s.reportRepo.SumPostedByAccount(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	report := buildPAndL(balances)
	report.FiscalPeriodID = period.FiscalPeriodID
	report.YearToDate = includePrevious
	report.From = from
	report.To = period.EndDate
	return report, nil
}

func buildPAndL(balances []domain.AccountBalance) *domain.PAndLReport {
	report := &domain.PAndLReport{
		Revenue:       []domain.AccountAmount{},
		COGS:          []domain.AccountAmount{},
		Expenses:      []domain.AccountAmount{},
		TotalRevenue:  decimal.Zero,
		TotalCOGS:     decimal.Zero,
		TotalExpenses: decimal.Zero,
	}
	for _, b := range balances {
		amount := accountAmount(b)
		switch {
		case b.Account.AccountType == domain.Revenue:
			report.Revenue = append(report.Revenue, amount)
			report.TotalRevenue = report.TotalRevenue.Add(amount.NetAmount)
		case b.Account.IsCOGS():
			report.COGS = append(report.COGS, amount)
			report.TotalCOGS = report.TotalCOGS.Add(amount.NetAmount)
		case b.Account.AccountType == domain.Expense:
			report.Expenses = append(report.Expenses, amount)
			report.TotalExpenses = report.TotalExpenses.Add(amount.NetAmount)
		}
	}
	report.GrossProfit = report.TotalRevenue.Sub(report.TotalCOGS)
	report.NetProfit = report.GrossProfit.Sub(report.TotalExpenses)
	return report
}

func accountAmount(b domain.AccountBalance) domain.AccountAmount {
	return domain.AccountAmount{
		AccountID: b.Account.AccountID,
		Code:      b.Account.Code,
		Name:      b.Account.Name,
		NetAmount: accounting.NaturalBalance(b.Account.AccountType, b.Debit, b.Credit),
	}
}

// BalanceSheet accumulates balances from the start of the fiscal year to the
// period end. Year-to-date net profit is shown as Retained Earnings.
func (s *reportingService) BalanceSheet(ctx context.Context, tenantID, periodID string) (*domain.BalanceSheetReport, error) {
	period, year, err := s.periodAndYear(ctx, tenantID, periodID)
	if err != nil {
		return nil, err
	}
	yearStart, end := year.StartDate, period.DayAfterEnd()
	balances, err := s.reportRepo.SumPostedByAccount(ctx, tenantID, domain.LedgerFilter{
		FiscalYearID: year.FiscalYearID,
		From:         &yearStart,
		Before:       &end,
	})
	if err != nil {
		return nil, err
	}

	report := &domain.BalanceSheetReport{
		FiscalPeriodID:   period.FiscalPeriodID,
		AsOf:             period.EndDate,
		Assets:           []domain.AccountAmount{},
		Liabilities:      []domain.AccountAmount{},
		Equity:           []domain.AccountAmount{},
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
		TotalEquity:      decimal.Zero,
	}
	for _, b := range balances {
		amount := accountAmount(b)
		switch b.Account.AccountType {
		case domain.Asset:
			report.Assets = append(report.Assets, amount)
			report.TotalAssets = report.TotalAssets.Add(amount.NetAmount)
		case domain.Liability:
			report.Liabilities = append(report.Liabilities, amount)
			report.TotalLiabilities = report.TotalLiabilities.Add(amount.NetAmount)
		case domain.Equity:
			report.Equity = append(report.Equity, amount)
			report.TotalEquity = report.TotalEquity.Add(amount.NetAmount)
		}
	}

	report.RetainedEarnings = buildPAndL(balances).NetProfit
	report.Equity = append(report.Equity, domain.AccountAmount{
		Name:      domain.RetainedEarningsLabel,
		NetAmount: report.RetainedEarnings,
	})
	report.TotalEquity = report.TotalEquity.Add(report.RetainedEarnings)
	report.IsBalanced = accounting.StrictlyWithinTolerance(report.TotalAssets, report.TotalLiabilities.Add(report.TotalEquity))
	if !report.IsBalanced {
		s.LogInfo(ctx, "Balance sheet does not balance",
			slog.String("period_id", periodID),
			slog.String("assets", report.TotalAssets.String()),
			slog.String("liabilities_and_equity", report.TotalLiabilities.Add(report.TotalEquity).String()))
	}
	return report, nil
}

// VATReturn sums tax lines of posted sales invoices (output) and purchase invoices (input).
func (s *reportingService) VATReturn(ctx context.Context, tenantID, periodID string) (*domain.VATReturn, error) {
	period, year, err := s.periodAndYear(ctx, tenantID, periodID)
	if err != nil {
		return nil, err
	}
	totals, err := s.reportRepo.SumTaxLines(ctx, tenantID, domain.LedgerFilter{
		FiscalYearID:   year.FiscalYearID,
		FiscalPeriodID: period.FiscalPeriodID,
		ReferenceKinds: []domain.EntityKind{domain.KindSalesInvoice, domain.KindPurchaseInvoice},
	})
	if err != nil {
		return nil, err
	}

	byCode := make(map[string]*domain.VATReturnLine)
	var codes []string
	for _, t := range totals {
		line, ok := byCode[t.TaxRateCode]
		if !ok {
			line = &domain.VATReturnLine{TaxRateCode: t.TaxRateCode, OutputVAT: decimal.Zero, InputVAT: decimal.Zero}
			byCode[t.TaxRateCode] = line
			codes = append(codes, t.TaxRateCode)
		}
		switch t.ReferenceKind {
		case domain.KindSalesInvoice:
			line.OutputVAT = line.OutputVAT.Add(t.Credit.Sub(t.Debit))
		case domain.KindPurchaseInvoice:
			line.InputVAT = line.InputVAT.Add(t.Debit.Sub(t.Credit))
		}
	}
	sort.Strings(codes)

	report := &domain.VATReturn{
		FiscalPeriodID: period.FiscalPeriodID,
		Lines:          make([]domain.VATReturnLine, 0, len(codes)),
		TotalOutputVAT: decimal.Zero,
		TotalInputVAT:  decimal.Zero,
	}
	for _, code := range codes {
		line := byCode[code]
		line.NetVAT = line.OutputVAT.Sub(line.InputVAT)
		report.Lines = append(report.Lines, *line)
		report.TotalOutputVAT = report.TotalOutputVAT.Add(line.OutputVAT)
		report.TotalInputVAT = report.TotalInputVAT.Add(line.InputVAT)
	}
	report.NetVAT = report.TotalOutputVAT.Sub(report.TotalInputVAT)
	switch report.NetVAT.Sign() {
	case 1:
		report.Direction = domain.VATPayable
	case -1:
		report.Direction = domain.VATRefundable
	default:
		report.Direction = domain.VATNil
	}
	return report, nil
}
