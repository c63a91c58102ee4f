package services_test

import (
	"testing"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/stretchr/testify/suite"
)

type FiscalServiceTestSuite struct {
	ledgerSuite
}

func TestFiscalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(FiscalServiceTestSuite))
}

func (suite *FiscalServiceTestSuite) TestCreateFiscalYear_MonthlyPeriods() {
	suite.Equal("2024-01", suite.periods[0].Name)
	suite.Equal(date(2024, time.January, 31), suite.periods[0].EndDate)
	suite.Equal(date(2024, time.February, 29), suite.periods[1].EndDate)
	suite.Equal(date(2024, time.December, 31), suite.periods[11].EndDate)
	for _, p := range suite.periods {
		suite.Equal(suite.year.FiscalYearID, p.FiscalYearID)
		suite.True(p.IsOpen())
	}

	_, periods, err := suite.svc.Fiscal.CreateFiscalYear(suite.ctx, testTenant, dto.CreateFiscalYearRequest{
		Name: "Short", StartDate: date(2025, time.January, 15), EndDate: date(2025, time.March, 10), GenerateMonthlyPeriods: true,
	}, "admin")
	suite.Require().NoError(err)
	suite.Require().Len(periods, 3)
	suite.Equal(date(2025, time.January, 15), periods[0].StartDate)
	suite.Equal(date(2025, time.January, 31), periods[0].EndDate)
	suite.Equal(date(2025, time.March, 10), periods[2].EndDate)

	listed, err := suite.svc.Fiscal.ListPeriods(suite.ctx, testTenant, suite.year.FiscalYearID)
	suite.Require().NoError(err)
	suite.Len(listed, 12)
	years, err := suite.svc.Fiscal.ListYears(suite.ctx, testTenant)
	suite.Require().NoError(err)
	suite.Len(years, 2)
}

func (suite *FiscalServiceTestSuite) TestCreateFiscalYear_RejectsInvertedDates() {
	_, _, err := suite.svc.Fiscal.CreateFiscalYear(suite.ctx, testTenant, dto.CreateFiscalYearRequest{
		Name: "Bad", StartDate: date(2025, time.March, 1), EndDate: date(2025, time.January, 1),
	}, "admin")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *FiscalServiceTestSuite) TestActivePeriodFor() {
	p, err := suite.svc.Fiscal.ActivePeriodFor(suite.ctx, testTenant, time.Date(2024, time.March, 31, 23, 0, 0, 0, time.UTC))
	suite.Require().NoError(err)
	suite.Equal(suite.period(time.March).FiscalPeriodID, p.FiscalPeriodID)

	_, err = suite.svc.Fiscal.ClosePeriod(suite.ctx, testTenant, p.FiscalPeriodID, "admin")
	suite.Require().NoError(err)
	_, err = suite.svc.Fiscal.ActivePeriodFor(suite.ctx, testTenant, date(2024, time.March, 15))
	suite.ErrorIs(err, apperrors.ErrNoActivePeriod)

	_, err = suite.svc.Fiscal.ActivePeriodFor(suite.ctx, testTenant, date(2030, time.January, 1))
	suite.ErrorIs(err, apperrors.ErrNoActivePeriod)
}

func (suite *FiscalServiceTestSuite) TestActivePeriodFor_OverlapPicksEarliestStart() {
	_, err := suite.svc.Fiscal.CreatePeriod(suite.ctx, testTenant, dto.CreateFiscalPeriodRequest{
		FiscalYearID: suite.year.FiscalYearID, Name: "mid-January", StartDate: date(2024, time.January, 10), EndDate: date(2024, time.January, 20),
	}, "admin")
	suite.Require().NoError(err)

	p, err := suite.svc.Fiscal.ActivePeriodFor(suite.ctx, testTenant, date(2024, time.January, 15))
	suite.Require().NoError(err)
	suite.Equal(suite.period(time.January).FiscalPeriodID, p.FiscalPeriodID)
}

func (suite *FiscalServiceTestSuite) TestCreatePeriod_MustLieInYear() {
	_, err := suite.svc.Fiscal.CreatePeriod(suite.ctx, testTenant, dto.CreateFiscalPeriodRequest{
		FiscalYearID: suite.year.FiscalYearID, Name: "spill", StartDate: date(2024, time.December, 1), EndDate: date(2025, time.January, 31),
	}, "admin")
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.svc.Fiscal.CreatePeriod(suite.ctx, testTenant, dto.CreateFiscalPeriodRequest{
		FiscalYearID: "missing", Name: "x", StartDate: date(2024, time.December, 1), EndDate: date(2024, time.December, 2),
	}, "admin")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *FiscalServiceTestSuite) TestCloseYearLocksEveryPeriod() {
	jan := suite.period(time.January).FiscalPeriodID
	suite.NoError(suite.svc.Fiscal.AssertPostable(suite.ctx, testTenant, jan))

	closed, err := suite.svc.Fiscal.CloseYear(suite.ctx, testTenant, suite.year.FiscalYearID, "admin")
	suite.Require().NoError(err)
	suite.True(closed.IsClosed)

	suite.ErrorIs(suite.svc.Fiscal.AssertPostable(suite.ctx, testTenant, jan), apperrors.ErrPeriodClosed)
	periods, err := suite.svc.Fiscal.ListPeriods(suite.ctx, testTenant, suite.year.FiscalYearID)
	suite.Require().NoError(err)
	for _, p := range periods {
		suite.True(p.IsClosed)
	}

	_, err = suite.svc.Fiscal.ReopenPeriod(suite.ctx, testTenant, jan, "admin")
	suite.ErrorIs(err, apperrors.ErrConflict)

	_, err = suite.svc.Fiscal.ActiveYearFor(suite.ctx, testTenant, date(2024, time.June, 1))
	suite.ErrorIs(err, apperrors.ErrNoActivePeriod)
}

func (suite *FiscalServiceTestSuite) TestReopenPeriod() {
	feb := suite.period(time.February).FiscalPeriodID
	_, err := suite.svc.Fiscal.ClosePeriod(suite.ctx, testTenant, feb, "admin")
	suite.Require().NoError(err)
	suite.ErrorIs(suite.svc.Fiscal.AssertPostable(suite.ctx, testTenant, feb), apperrors.ErrPeriodClosed)

	reopened, err := suite.svc.Fiscal.ReopenPeriod(suite.ctx, testTenant, feb, "admin")
	suite.Require().NoError(err)
	suite.False(reopened.IsClosed)
	suite.NoError(suite.svc.Fiscal.AssertPostable(suite.ctx, testTenant, feb))

	year, err := suite.svc.Fiscal.YearContaining(suite.ctx, testTenant, date(2024, time.February, 10))
	suite.Require().NoError(err)
	suite.Equal(suite.year.FiscalYearID, year.FiscalYearID)
}
