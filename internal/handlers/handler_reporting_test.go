package handlers_test

import (
	"net/http"
	"testing"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ReportingHandlerTestSuite struct {
	handlerSuite
	periodID string
}

func (suite *ReportingHandlerTestSuite) SetupTest() {
	suite.handlerSuite.SetupTest()
	suite.periodID = uuid.NewString()
}

func (suite *ReportingHandlerTestSuite) TestTrialBalance() {
	hundred := decimal.NewFromInt(100)
	report := &domain.TrialBalanceReport{
		FiscalPeriodID: suite.periodID,
		IncludeOpening: true,
		Rows: []domain.TrialBalanceRow{
			{AccountID: "cash", AccountCode: "1000", AccountType: domain.Asset, PeriodDebit: hundred, EndingDebit: hundred},
			{AccountID: "rev", AccountCode: "4000", AccountType: domain.Revenue, PeriodCredit: hundred, EndingCredit: hundred},
		},
		TotalPeriodDebit:  hundred,
		TotalPeriodCredit: hundred,
		TotalEndingDebit:  hundred,
		TotalEndingCredit: hundred,
		IsBalanced:        true,
	}
	suite.reporting.On("TrialBalance", mock.Anything, testTenantID, suite.periodID, true).Return(report, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/trial-balance?fiscalPeriodId="+suite.periodID+"&includeOpening=true", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp domain.TrialBalanceReport
	suite.decode(w, &resp)
	suite.True(resp.IsBalanced)
	suite.Len(resp.Rows, 2)
	suite.True(resp.TotalEndingDebit.Equal(resp.TotalEndingCredit))
}

func (suite *ReportingHandlerTestSuite) TestTrialBalance_MissingPeriod() {
	w := suite.do(http.MethodGet, "/api/v1/reports/trial-balance", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(suite.errorMessage(w), "Invalid query parameters")
}

func (suite *ReportingHandlerTestSuite) TestGeneralLedger_ParsesDates() {
	report := &domain.GeneralLedgerReport{
		Account:        domain.Account{AccountID: "cash", Code: "1000"},
		OpeningBalance: decimal.NewFromInt(50),
		ClosingBalance: decimal.NewFromInt(150),
		Lines:          []domain.LedgerLine{},
	}
	suite.reporting.On("GeneralLedger", mock.Anything, testTenantID,
		mock.MatchedBy(func(p dto.GeneralLedgerParams) bool {
			return p.AccountID == "cash" &&
				p.DateFrom != nil && p.DateFrom.Format("2006-01-02") == "2024-03-01" &&
				p.DateTo != nil && p.DateTo.Format("2006-01-02") == "2024-03-31"
		}),
	).Return(report, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/general-ledger?accountId=cash&dateFrom=2024-03-01&dateTo=2024-03-31", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp domain.GeneralLedgerReport
	suite.decode(w, &resp)
	suite.True(resp.ClosingBalance.Equal(decimal.NewFromInt(150)))
}

func (suite *ReportingHandlerTestSuite) TestGeneralLedger_BadDate() {
	w := suite.do(http.MethodGet, "/api/v1/reports/general-ledger?accountId=cash&dateFrom=March", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *ReportingHandlerTestSuite) TestProfitAndLoss_YearToDate() {
	report := &domain.PAndLReport{FiscalPeriodID: suite.periodID, YearToDate: true, NetProfit: decimal.NewFromInt(40)}
	suite.reporting.On("ProfitAndLoss", mock.Anything, testTenantID, suite.periodID, true).Return(report, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/profit-and-loss?fiscalPeriodId="+suite.periodID+"&includePrevious=true", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp domain.PAndLReport
	suite.decode(w, &resp)
	suite.True(resp.YearToDate)
}

func (suite *ReportingHandlerTestSuite) TestBalanceSheet_UnknownPeriod() {
	suite.reporting.On("BalanceSheet", mock.Anything, testTenantID, suite.periodID).Return(nil, apperrors.ErrNotFound).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/balance-sheet?fiscalPeriodId="+suite.periodID, nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *ReportingHandlerTestSuite) TestVATReturn() {
	report := &domain.VATReturn{
		FiscalPeriodID: suite.periodID,
		TotalOutputVAT: decimal.NewFromInt(20),
		TotalInputVAT:  decimal.NewFromInt(5),
		NetVAT:         decimal.NewFromInt(15),
		Direction:      domain.VATPayable,
	}
	suite.reporting.On("VATReturn", mock.Anything, testTenantID, suite.periodID).Return(report, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/vat-return?fiscalPeriodId="+suite.periodID, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp domain.VATReturn
	suite.decode(w, &resp)
	suite.Equal(domain.VATPayable, resp.Direction)
	suite.True(resp.NetVAT.Equal(decimal.NewFromInt(15)))
}

func TestReportingHandler(t *testing.T) {
	suite.Run(t, new(ReportingHandlerTestSuite))
}
