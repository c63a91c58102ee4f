package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/core/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

const testTenant = "tenant-1"

// ledgerSuite wires every service over an in-memory store with a fixed clock,
// a 2024 fiscal year split into months and a small chart of accounts.
type ledgerSuite struct {
	suite.Suite
	ctx      context.Context
	now      time.Time
	store    *memory.Store
	svc      *portssvc.ServiceContainer
	actor    domain.Actor
	year     *domain.FiscalYear
	periods  []domain.FiscalPeriod
	accounts map[string]*domain.Account
}

func (suite *ledgerSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.now = time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC)
	suite.store = memory.NewStore()
	suite.svc = services.NewServiceContainer(
		suite.store.Repositories(),
		services.WithClock(func() time.Time { return suite.now }),
		services.WithDefaultCurrency("EUR"),
	)
	suite.actor = domain.Actor{UserID: "user-1", Roles: []string{"accountant"}}

	var err error
	suite.year, suite.periods, err = suite.svc.Fiscal.CreateFiscalYear(suite.ctx, testTenant, dto.CreateFiscalYearRequest{
		Name:                   "FY2024",
		StartDate:              date(2024, time.January, 1),
		EndDate:                date(2024, time.December, 31),
		GenerateMonthlyPeriods: true,
	}, "admin")
	suite.Require().NoError(err)
	suite.Require().Len(suite.periods, 12)

	suite.accounts = map[string]*domain.Account{}
	for _, a := range []struct {
		code    string
		typ     domain.AccountType
		subtype domain.AccountSubtype
	}{
		{"1000", domain.Asset, ""},     // cash
		{"1100", domain.Asset, ""},     // receivables
		{"1400", domain.Asset, ""},     // input VAT
		{"1500", domain.Asset, ""},     // accumulated depreciation
		{"2000", domain.Liability, ""}, // payables
		{"2100", domain.Liability, ""}, // output VAT
		{"3000", domain.Equity, ""},
		{"4000", domain.Revenue, ""},
		{"5000", domain.Expense, domain.SubtypeCOGS},
		{"6000", domain.Expense, ""}, // rent
		{"6100", domain.Expense, ""}, // depreciation
	} {
		acc, err := suite.svc.Account.CreateAccount(suite.ctx, testTenant, dto.CreateAccountRequest{
			Code: a.code, Name: "Account " + a.code, AccountType: a.typ, Subtype: a.subtype,
		}, "admin")
		suite.Require().NoError(err)
		suite.accounts[a.code] = acc
	}

	_, err = suite.svc.Account.ConfigureTenantAccounts(suite.ctx, domain.TenantAccountConfig{
		TenantID:                  testTenant,
		ReceivableAccountID:       suite.acc("1100"),
		RevenueAccountID:          suite.acc("4000"),
		COGSAccountID:             suite.acc("5000"),
		OutputTaxAccountID:        suite.acc("2100"),
		InputTaxAccountID:         suite.acc("1400"),
		DepreciationExpenseID:     suite.acc("6100"),
		AccumulatedDepreciationID: suite.acc("1500"),
	}, "admin")
	suite.Require().NoError(err)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (suite *ledgerSuite) acc(code string) string {
	return suite.accounts[code].AccountID
}

func (suite *ledgerSuite) period(m time.Month) domain.FiscalPeriod {
	return suite.periods[int(m)-1]
}

func (suite *ledgerSuite) debit(code, amount string) dto.PostingLineRequest {
	return dto.PostingLineRequest{AccountID: suite.acc(code), CurrencyCode: "EUR", Debit: dec(amount)}
}

func (suite *ledgerSuite) credit(code, amount string) dto.PostingLineRequest {
	return dto.PostingLineRequest{AccountID: suite.acc(code), CurrencyCode: "EUR", Credit: dec(amount)}
}

func taxed(l dto.PostingLineRequest, code string) dto.PostingLineRequest {
	l.TaxRateCode = code
	return l
}

func (suite *ledgerSuite) draft(m time.Month, ref domain.EntityRef, lines ...dto.PostingLineRequest) *domain.JournalEntry {
	req := dto.PostingRequest{
		FiscalPeriodID: suite.period(m).FiscalPeriodID,
		EntryDate:      date(2024, m, 10),
		Description:    "test entry",
		Lines:          lines,
	}
	if ref != nil {
		req.ReferenceType, req.ReferenceID = string(ref.Kind()), ref.EntityID()
	}
	entry, err := suite.svc.Journal.CreateDraft(suite.ctx, testTenant, req, suite.actor)
	suite.Require().NoError(err)
	return entry
}

func (suite *ledgerSuite) post(m time.Month, ref domain.EntityRef, lines ...dto.PostingLineRequest) *domain.JournalEntry {
	entry := suite.draft(m, ref, lines...)
	posted, err := suite.svc.Journal.Post(suite.ctx, testTenant, entry.EntryID, suite.actor)
	suite.Require().NoError(err)
	return posted
}

func (suite *ledgerSuite) equalDec(expected string, actual decimal.Decimal, msgAndArgs ...any) {
	suite.Truef(dec(expected).Equal(actual), "expected %s, got %s %v", expected, actual.String(), msgAndArgs)
}

func (suite *ledgerSuite) workflow(kind domain.EntityKind, steps ...dto.WorkflowStepRequest) *domain.Workflow {
	wf, err := suite.svc.Workflow.CreateWorkflow(suite.ctx, testTenant, dto.CreateWorkflowRequest{
		EntityKind: string(kind),
		Name:       string(kind) + " approval",
		Steps:      steps,
	}, "admin")
	suite.Require().NoError(err)
	return wf
}
