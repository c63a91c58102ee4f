//go:build integration

package pgsql_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/core/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/repositories/database/pgsql"
	"github.com/SscSPs/ledger_engine/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

type PgsqlIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *tcpostgres.PostgresContainer
	pool      *pgxpool.Pool
	svc       *portssvc.ServiceContainer
	tenant    string
	year      *domain.FiscalYear
	periods   []domain.FiscalPeriod
	accounts  map[string]*domain.Account
}

func TestPgsqlIntegrationSuite(t *testing.T) {
	suite.Run(t, new(PgsqlIntegrationSuite))
}

func (suite *PgsqlIntegrationSuite) SetupSuite() {
	suite.ctx = context.Background()
	container, err := tcpostgres.Run(suite.ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("ledger"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(suite.ctx, "sslmode=disable")
	suite.Require().NoError(err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	suite.Require().NoError(database.RunMigrations(dsn, "file://../../../../migrations", logger))

	suite.pool, err = database.NewPgxPool(suite.ctx, dsn, true)
	suite.Require().NoError(err)
}

func (suite *PgsqlIntegrationSuite) TearDownSuite() {
	database.ClosePgxPool(suite.pool)
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(suite.ctx))
	}
}

func (suite *PgsqlIntegrationSuite) SetupTest() {
	// Every test works in its own tenant so the shared database needs no cleanup.
	suite.tenant = "tenant-" + uuid.NewString()
	suite.svc = services.NewServiceContainer(pgsql.NewRepositoryProvider(suite.pool),
		services.WithDefaultCurrency("EUR"))

	var err error
	suite.year, suite.periods, err = suite.svc.Fiscal.CreateFiscalYear(suite.ctx, suite.tenant, dto.CreateFiscalYearRequest{
		Name:                   "FY2024",
		StartDate:              time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:                time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC),
		GenerateMonthlyPeriods: true,
	}, "admin")
	suite.Require().NoError(err)

	suite.accounts = map[string]*domain.Account{}
	for _, a := range []struct {
		code string
		typ  domain.AccountType
		sub  domain.AccountSubtype
	}{
		{"1000", domain.Asset, ""},
		{"1100", domain.Asset, ""},
		{"1400", domain.Asset, ""},
		{"1500", domain.Asset, ""},
		{"2100", domain.Liability, ""},
		{"3000", domain.Equity, ""},
		{"4000", domain.Revenue, ""},
		{"5000", domain.Expense, domain.SubtypeCOGS},
		{"6100", domain.Expense, ""},
	} {
		acc, err := suite.svc.Account.CreateAccount(suite.ctx, suite.tenant, dto.CreateAccountRequest{
			Code: a.code, Name: "Account " + a.code, AccountType: a.typ, Subtype: a.sub,
		}, "admin")
		suite.Require().NoError(err)
		suite.accounts[a.code] = acc
	}

	_, err = suite.svc.Account.ConfigureTenantAccounts(suite.ctx, domain.TenantAccountConfig{
		TenantID:                  suite.tenant,
		ReceivableAccountID:       suite.accounts["1100"].AccountID,
		RevenueAccountID:          suite.accounts["4000"].AccountID,
		COGSAccountID:             suite.accounts["5000"].AccountID,
		OutputTaxAccountID:        suite.accounts["2100"].AccountID,
		InputTaxAccountID:         suite.accounts["1400"].AccountID,
		DepreciationExpenseID:     suite.accounts["6100"].AccountID,
		AccumulatedDepreciationID: suite.accounts["1500"].AccountID,
	}, "admin")
	suite.Require().NoError(err)
}

var admin = domain.Actor{UserID: "admin"}

func (suite *PgsqlIntegrationSuite) line(code string, debit, credit int64) dto.PostingLineRequest {
	return dto.PostingLineRequest{
		AccountID:    suite.accounts[code].AccountID,
		CurrencyCode: "EUR",
		Debit:        decimal.NewFromInt(debit),
		Credit:       decimal.NewFromInt(credit),
	}
}

func (suite *PgsqlIntegrationSuite) TestPostAndReport() {
	jan := suite.periods[0]
	entry, err := suite.svc.Journal.CreateDraft(suite.ctx, suite.tenant, dto.PostingRequest{
		FiscalPeriodID: jan.FiscalPeriodID,
		EntryDate:      time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC),
		Description:    "Opening capital",
		Lines:          []dto.PostingLineRequest{suite.line("1000", 5000, 0), suite.line("3000", 0, 5000)},
	}, admin)
	suite.Require().NoError(err)
	suite.Equal(jan.FiscalPeriodID, entry.FiscalPeriodID)

	posted, err := suite.svc.Journal.Post(suite.ctx, suite.tenant, entry.EntryID, admin)
	suite.Require().NoError(err)
	suite.True(posted.IsPosted())

	_, err = suite.svc.Journal.Post(suite.ctx, suite.tenant, entry.EntryID, admin)
	suite.ErrorIs(err, apperrors.ErrAlreadyPosted)
	suite.ErrorIs(suite.svc.Journal.DeleteDraft(suite.ctx, suite.tenant, entry.EntryID), apperrors.ErrAlreadyPosted)

	tb, err := suite.svc.Reporting.TrialBalance(suite.ctx, suite.tenant, jan.FiscalPeriodID, false)
	suite.Require().NoError(err)
	suite.True(tb.IsBalanced)
	suite.True(tb.TotalPeriodDebit.Equal(decimal.NewFromInt(5000)))

	bs, err := suite.svc.Reporting.BalanceSheet(suite.ctx, suite.tenant, jan.FiscalPeriodID)
	suite.Require().NoError(err)
	suite.True(bs.IsBalanced)

	page, err := suite.svc.Journal.ListEntries(suite.ctx, suite.tenant, dto.ListEntriesParams{Limit: 10})
	suite.Require().NoError(err)
	suite.Require().Len(page.Entries, 1)
	suite.Len(page.Entries[0].Lines, 2)
}

func (suite *PgsqlIntegrationSuite) TestRollbackOnFailedUnitOfWork() {
	entry, err := suite.svc.Journal.CreateDraft(suite.ctx, suite.tenant, dto.PostingRequest{
		FiscalPeriodID: suite.periods[1].FiscalPeriodID,
		EntryDate:      time.Date(2024, time.February, 5, 0, 0, 0, 0, time.UTC),
		Lines:          []dto.PostingLineRequest{suite.line("1000", 10, 0), suite.line("3000", 0, 9)},
	}, admin)
	suite.Require().NoError(err)

	_, err = suite.svc.Journal.Post(suite.ctx, suite.tenant, entry.EntryID, admin)
	suite.ErrorIs(err, apperrors.ErrUnbalanced)

	stored, err := suite.svc.Journal.GetEntry(suite.ctx, suite.tenant, entry.EntryID)
	suite.Require().NoError(err)
	suite.False(stored.IsPosted())
}

func (suite *PgsqlIntegrationSuite) TestCheckViolationIsValidationError() {
	repos := pgsql.NewRepositoryProvider(suite.pool)
	entryID := uuid.NewString()
	err := repos.JournalRepo.SaveEntry(suite.ctx, domain.JournalEntry{
		EntryID:        entryID,
		TenantID:       suite.tenant,
		FiscalYearID:   suite.year.FiscalYearID,
		FiscalPeriodID: suite.periods[0].FiscalPeriodID,
		EntryDate:      time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC),
		Status:         domain.Draft,
		Lines: []domain.JournalEntryLine{{
			LineID:       uuid.NewString(),
			EntryID:      entryID,
			AccountID:    suite.accounts["1000"].AccountID,
			CurrencyCode: "EUR",
			Debit:        decimal.Zero,
			Credit:       decimal.Zero,
			LineOrder:    1,
		}},
		AuditFields: domain.NewAuditFields("admin", time.Now()),
	})
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.svc.Journal.GetEntry(suite.ctx, suite.tenant, entryID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *PgsqlIntegrationSuite) TestAssetApprovalAndDepreciation() {
	_, err := suite.svc.Workflow.CreateWorkflow(suite.ctx, suite.tenant, dto.CreateWorkflowRequest{
		EntityKind: string(domain.KindAsset),
		Name:       "Asset sign-off",
		Steps:      []dto.WorkflowStepRequest{{StepOrder: 1, ApproverRole: "controller"}},
	}, "admin")
	suite.Require().NoError(err)

	asset, err := suite.svc.Asset.CreateAsset(suite.ctx, suite.tenant, dto.CreateAssetRequest{
		Code:             "FA-1",
		Name:             "Laptop",
		AcquisitionCost:  decimal.NewFromInt(1200),
		UsefulLifeMonths: 12,
		InServiceDate:    time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	}, "admin")
	suite.Require().NoError(err)

	asset, err = suite.svc.Asset.SubmitAsset(suite.ctx, suite.tenant, asset.AssetID, admin)
	suite.Require().NoError(err)
	suite.Equal(domain.AssetPendingApproval, asset.Status)

	inst, err := suite.svc.Workflow.LatestInstanceFor(suite.ctx, suite.tenant, domain.AssetRef{AssetID: asset.AssetID})
	suite.Require().NoError(err)
	_, err = suite.svc.Workflow.ApproveStep(suite.ctx, suite.tenant, inst.InstanceID, inst.CurrentStep,
		domain.Actor{UserID: "ctrl", Roles: []string{"controller"}}, "")
	suite.Require().NoError(err)

	run, err := suite.svc.Depreciation.PostForPeriod(suite.ctx, suite.tenant, suite.periods[0].FiscalPeriodID, admin)
	suite.Require().NoError(err)
	suite.Equal(1, run.PostedCount)

	again, err := suite.svc.Depreciation.PostForPeriod(suite.ctx, suite.tenant, suite.periods[0].FiscalPeriodID, admin)
	suite.Require().NoError(err)
	suite.Equal(0, again.PostedCount)
	suite.Equal(1, again.SkippedCount)

	schedule, err := suite.svc.Depreciation.Schedule(suite.ctx, suite.tenant, asset.AssetID)
	suite.Require().NoError(err)
	require.Len(suite.T(), schedule, 12)
	suite.True(schedule[0].IsPosted)
	suite.True(schedule[0].Amount.Equal(decimal.NewFromInt(100)))
}
