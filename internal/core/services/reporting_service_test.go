package services_test

import (
	"testing"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/stretchr/testify/suite"
)

type ReportingServiceTestSuite struct {
	ledgerSuite
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}

// seedTrading posts a capital injection and January/February trading.
func (suite *ReportingServiceTestSuite) seedTrading() {
	suite.post(time.January, nil, suite.debit("1000", "5000"), suite.credit("3000", "5000"))
	suite.post(time.January, domain.SalesInvoiceRef{InvoiceID: "inv-1"}, suite.debit("1100", "1000"), suite.credit("4000", "1000"))
	suite.post(time.January, nil, suite.debit("5000", "400"), suite.credit("1000", "400"))
	suite.post(time.January, nil, suite.debit("6000", "100"), suite.credit("1000", "100"))
	suite.post(time.February, domain.SalesInvoiceRef{InvoiceID: "inv-2"}, suite.debit("1100", "200"), suite.credit("4000", "200"))
	// drafts never reach reports
	suite.draft(time.February, nil, suite.debit("1100", "999"), suite.credit("4000", "999"))
}

func (suite *ReportingServiceTestSuite) TestTrialBalance_OpeningAndEnding() {
	suite.seedTrading()
	feb := suite.period(time.February).FiscalPeriodID

	tb, err := suite.svc.Reporting.TrialBalance(suite.ctx, testTenant, feb, true)
	suite.Require().NoError(err)
	suite.True(tb.IsBalanced)

	var ar *domain.TrialBalanceRow
	for i := range tb.Rows {
		if tb.Rows[i].AccountCode == "1100" {
			ar = &tb.Rows[i]
		}
	}
	suite.Require().NotNil(ar)
	suite.equalDec("1000", ar.OpeningDebit)
	suite.equalDec("200", ar.PeriodDebit)
	suite.equalDec("1200", ar.EndingDebit)
	suite.equalDec("0", ar.EndingCredit)
	suite.equalDec("200", tb.TotalPeriodDebit)
	suite.equalDec("200", tb.TotalPeriodCredit)
	suite.Equal(tb.TotalEndingDebit.String(), tb.TotalEndingCredit.String())

	periodOnly, err := suite.svc.Reporting.TrialBalance(suite.ctx, testTenant, feb, false)
	suite.Require().NoError(err)
	suite.Len(periodOnly.Rows, 2)
	suite.equalDec("0", periodOnly.TotalOpeningDebit)
	suite.True(periodOnly.IsBalanced)
}

func (suite *ReportingServiceTestSuite) TestProfitAndLoss_PeriodAndYearToDate() {
	suite.seedTrading()

	jan, err := suite.svc.Reporting.ProfitAndLoss(suite.ctx, testTenant, suite.period(time.January).FiscalPeriodID, false)
	suite.Require().NoError(err)
	suite.equalDec("1000", jan.TotalRevenue)
	suite.equalDec("400", jan.TotalCOGS)
	suite.equalDec("100", jan.TotalExpenses)
	suite.equalDec("600", jan.GrossProfit)
	suite.equalDec("500", jan.NetProfit)
	suite.Require().Len(jan.COGS, 1)
	suite.Equal("5000", jan.COGS[0].Code)

	feb, err := suite.svc.Reporting.ProfitAndLoss(suite.ctx, testTenant, suite.period(time.February).FiscalPeriodID, false)
	suite.Require().NoError(err)
	suite.equalDec("200", feb.NetProfit)
	suite.False(feb.YearToDate)

	ytd, err := suite.svc.Reporting.ProfitAndLoss(suite.ctx, testTenant, suite.period(time.February).FiscalPeriodID, true)
	suite.Require().NoError(err)
	suite.True(ytd.YearToDate)
	suite.Equal(suite.year.StartDate, ytd.From)
	suite.equalDec("1200", ytd.TotalRevenue)
	suite.equalDec("700", ytd.NetProfit)
}

func (suite *ReportingServiceTestSuite) TestBalanceSheet_RetainedEarningsBalances() {
	suite.seedTrading()

	bs, err := suite.svc.Reporting.BalanceSheet(suite.ctx, testTenant, suite.period(time.February).FiscalPeriodID)
	suite.Require().NoError(err)
	suite.equalDec("5700", bs.TotalAssets)
	suite.equalDec("0", bs.TotalLiabilities)
	suite.equalDec("700", bs.RetainedEarnings)
	suite.equalDec("5700", bs.TotalEquity)
	suite.True(bs.IsBalanced)

	last := bs.Equity[len(bs.Equity)-1]
	suite.Equal(domain.RetainedEarningsLabel, last.Name)
	suite.Empty(last.AccountID)

	jan, err := suite.svc.Reporting.BalanceSheet(suite.ctx, testTenant, suite.period(time.January).FiscalPeriodID)
	suite.Require().NoError(err)
	suite.equalDec("5500", jan.TotalAssets)
	suite.equalDec("500", jan.RetainedEarnings)
	suite.True(jan.IsBalanced)
}

func (suite *ReportingServiceTestSuite) TestGeneralLedger_RunningBalance() {
	suite.seedTrading()

	full, err := suite.svc.Reporting.GeneralLedger(suite.ctx, testTenant, dto.GeneralLedgerParams{AccountID: suite.acc("1000")})
	suite.Require().NoError(err)
	suite.Require().Len(full.Lines, 3)
	suite.equalDec("0", full.OpeningBalance)
	suite.equalDec("4500", full.Lines[2].RunningBalance)
	suite.equalDec("4500", full.ClosingBalance)
	suite.equalDec("5000", full.TotalDebit)
	suite.equalDec("500", full.TotalCredit)

	feb, err := suite.svc.Reporting.GeneralLedger(suite.ctx, testTenant, dto.GeneralLedgerParams{
		AccountID:      suite.acc("4000"),
		FiscalPeriodID: suite.period(time.February).FiscalPeriodID,
	})
	suite.Require().NoError(err)
	suite.equalDec("1000", feb.OpeningBalance)
	suite.Require().Len(feb.Lines, 1)
	suite.equalDec("1200", feb.Lines[0].RunningBalance)
	suite.Equal("SALES_INVOICE", feb.Lines[0].ReferenceKind)
	suite.Equal("inv-2", feb.Lines[0].ReferenceID)

	from := date(2024, time.January, 11)
	to := date(2024, time.February, 29)
	ranged, err := suite.svc.Reporting.GeneralLedger(suite.ctx, testTenant, dto.GeneralLedgerParams{
		AccountID: suite.acc("1100"), DateFrom: &from, DateTo: &to,
	})
	suite.Require().NoError(err)
	suite.equalDec("1000", ranged.OpeningBalance)
	suite.equalDec("1200", ranged.ClosingBalance)
}

func (suite *ReportingServiceTestSuite) TestGeneralLedger_AnchorsOnServiceClock() {
	suite.seedTrading()
	suite.now = time.Date(2024, time.November, 20, 8, 0, 0, 0, time.UTC)

	gl, err := suite.svc.Reporting.GeneralLedger(suite.ctx, testTenant, dto.GeneralLedgerParams{AccountID: suite.acc("4000")})
	suite.Require().NoError(err)
	suite.Equal(suite.year.FiscalYearID, gl.FiscalYearID)
	suite.Equal(suite.year.StartDate, gl.From)
	suite.Equal(suite.year.EndDate, gl.To)
	suite.equalDec("1200", gl.ClosingBalance)

	suite.now = time.Date(2031, time.March, 1, 0, 0, 0, 0, time.UTC)
	_, err = suite.svc.Reporting.GeneralLedger(suite.ctx, testTenant, dto.GeneralLedgerParams{AccountID: suite.acc("4000")})
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ReportingServiceTestSuite) TestGeneralLedger_DatesNarrowPeriod() {
	suite.seedTrading()
	feb := suite.period(time.February).FiscalPeriodID

	from := date(2024, time.February, 15)
	late, err := suite.svc.Reporting.GeneralLedger(suite.ctx, testTenant, dto.GeneralLedgerParams{
		AccountID: suite.acc("4000"), FiscalPeriodID: feb, DateFrom: &from,
	})
	suite.Require().NoError(err)
	suite.Equal(from, late.From)
	suite.Equal(suite.period(time.February).EndDate, late.To)
	suite.Empty(late.Lines)
	suite.equalDec("1200", late.OpeningBalance)

	wide := date(2023, time.December, 1)
	clamped, err := suite.svc.Reporting.GeneralLedger(suite.ctx, testTenant, dto.GeneralLedgerParams{
		AccountID: suite.acc("4000"), FiscalPeriodID: feb, DateFrom: &wide,
	})
	suite.Require().NoError(err)
	suite.Equal(suite.period(time.February).StartDate, clamped.From)
	suite.Len(clamped.Lines, 1)

	outside := date(2024, time.January, 20)
	_, err = suite.svc.Reporting.GeneralLedger(suite.ctx, testTenant, dto.GeneralLedgerParams{
		AccountID: suite.acc("4000"), FiscalPeriodID: feb, DateTo: &outside,
	})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ReportingServiceTestSuite) TestGeneralLedger_InvalidRange() {
	from := date(2024, time.March, 1)
	to := date(2024, time.February, 1)
	_, err := suite.svc.Reporting.GeneralLedger(suite.ctx, testTenant, dto.GeneralLedgerParams{
		AccountID: suite.acc("1000"), DateFrom: &from, DateTo: &to,
	})
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.svc.Reporting.GeneralLedger(suite.ctx, testTenant, dto.GeneralLedgerParams{AccountID: "missing"})
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ReportingServiceTestSuite) TestVATReturn_Directions() {
	mar := suite.period(time.March).FiscalPeriodID

	empty, err := suite.svc.Reporting.VATReturn(suite.ctx, testTenant, mar)
	suite.Require().NoError(err)
	suite.Equal(domain.VATNil, empty.Direction)
	suite.Empty(empty.Lines)

	suite.post(time.March, domain.SalesInvoiceRef{InvoiceID: "inv-9"},
		suite.debit("1100", "120"),
		suite.credit("4000", "100"),
		taxed(suite.credit("2100", "20"), "STD20"),
	)
	suite.post(time.March, domain.PurchaseInvoiceRef{InvoiceID: "bill-9"},
		suite.debit("6000", "50"),
		taxed(suite.debit("1400", "10"), "STD20"),
		taxed(suite.debit("1400", "1"), "RED05"),
		suite.credit("2000", "61"),
	)
	// tax lines outside invoices are not part of the return
	suite.post(time.March, nil, taxed(suite.debit("2100", "5"), "STD20"), suite.credit("1000", "5"))

	vat, err := suite.svc.Reporting.VATReturn(suite.ctx, testTenant, mar)
	suite.Require().NoError(err)
	suite.Require().Len(vat.Lines, 2)
	suite.Equal("RED05", vat.Lines[0].TaxRateCode)
	suite.equalDec("1", vat.Lines[0].InputVAT)
	suite.equalDec("-1", vat.Lines[0].NetVAT)
	suite.Equal("STD20", vat.Lines[1].TaxRateCode)
	suite.equalDec("20", vat.Lines[1].OutputVAT)
	suite.equalDec("10", vat.Lines[1].InputVAT)
	suite.equalDec("20", vat.TotalOutputVAT)
	suite.equalDec("11", vat.TotalInputVAT)
	suite.equalDec("9", vat.NetVAT)
	suite.Equal(domain.VATPayable, vat.Direction)

	apr := suite.period(time.April).FiscalPeriodID
	suite.post(time.April, domain.PurchaseInvoiceRef{InvoiceID: "bill-10"},
		suite.debit("6000", "100"), taxed(suite.debit("1400", "20"), "STD20"), suite.credit("2000", "120"))
	refund, err := suite.svc.Reporting.VATReturn(suite.ctx, testTenant, apr)
	suite.Require().NoError(err)
	suite.equalDec("-20", refund.NetVAT)
	suite.Equal(domain.VATRefundable, refund.Direction)
}

func (suite *ReportingServiceTestSuite) TestReports_UnknownPeriod() {
	_, err := suite.svc.Reporting.TrialBalance(suite.ctx, testTenant, "missing", false)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	_, err = suite.svc.Reporting.BalanceSheet(suite.ctx, "tenant-2", suite.period(time.January).FiscalPeriodID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}
