package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Fiscal ---

type MockFiscalService struct {
	mock.Mock
}

func (m *MockFiscalService) ActivePeriodFor(ctx context.Context, tenantID string, date time.Time) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, tenantID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalService) ActiveYearFor(ctx context.Context, tenantID string, date time.Time) (*domain.FiscalYear, error) {
	args := m.Called(ctx, tenantID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalYear), args.Error(1)
}

func (m *MockFiscalService) AssertPostable(ctx context.Context, tenantID, periodID string) error {
	return m.Called(ctx, tenantID, periodID).Error(0)
}

func (m *MockFiscalService) GetPeriod(ctx context.Context, tenantID, periodID string) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, tenantID, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalService) GetYear(ctx context.Context, tenantID, yearID string) (*domain.FiscalYear, error) {
	args := m.Called(ctx, tenantID, yearID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalYear), args.Error(1)
}

func (m *MockFiscalService) YearContaining(ctx context.Context, tenantID string, date time.Time) (*domain.FiscalYear, error) {
	args := m.Called(ctx, tenantID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalYear), args.Error(1)
}

func (m *MockFiscalService) CreateFiscalYear(ctx context.Context, tenantID string, req dto.CreateFiscalYearRequest, userID string) (*domain.FiscalYear, []domain.FiscalPeriod, error) {
	args := m.Called(ctx, tenantID, req, userID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.FiscalYear), args.Get(1).([]domain.FiscalPeriod), args.Error(2)
}

func (m *MockFiscalService) CreatePeriod(ctx context.Context, tenantID string, req dto.CreateFiscalPeriodRequest, userID string) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, tenantID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalService) ClosePeriod(ctx context.Context, tenantID, periodID, userID string) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, tenantID, periodID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalService) ReopenPeriod(ctx context.Context, tenantID, periodID, userID string) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, tenantID, periodID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalService) CloseYear(ctx context.Context, tenantID, yearID, userID string) (*domain.FiscalYear, error) {
	args := m.Called(ctx, tenantID, yearID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalYear), args.Error(1)
}

func (m *MockFiscalService) ListYears(ctx context.Context, tenantID string) ([]domain.FiscalYear, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FiscalYear), args.Error(1)
}

func (m *MockFiscalService) ListPeriods(ctx context.Context, tenantID, yearID string) ([]domain.FiscalPeriod, error) {
	args := m.Called(ctx, tenantID, yearID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FiscalPeriod), args.Error(1)
}

// --- Accounts ---

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, tenantID, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByIDs(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tenantID, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, tenantID string) ([]domain.Account, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) GetTenantAccounts(ctx context.Context, tenantID string) (*domain.TenantAccountConfig, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TenantAccountConfig), args.Error(1)
}

func (m *MockAccountService) CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, tenantID, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, accountID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) DeleteAccount(ctx context.Context, tenantID, accountID string) error {
	return m.Called(ctx, tenantID, accountID).Error(0)
}

func (m *MockAccountService) ConfigureTenantAccounts(ctx context.Context, cfg domain.TenantAccountConfig, userID string) (*domain.TenantAccountConfig, error) {
	args := m.Called(ctx, cfg, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TenantAccountConfig), args.Error(1)
}

// --- Journal ---

type MockJournalService struct {
	mock.Mock
}

func (m *MockJournalService) entry(args mock.Arguments) (*domain.JournalEntry, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) GetEntry(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, tenantID, entryID))
}

func (m *MockJournalService) ListEntries(ctx context.Context, tenantID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	args := m.Called(ctx, tenantID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListEntriesResponse), args.Error(1)
}

func (m *MockJournalService) CreateDraft(ctx context.Context, tenantID string, req dto.PostingRequest, actor domain.Actor) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, tenantID, req, actor))
}

func (m *MockJournalService) ReplaceLines(ctx context.Context, tenantID, entryID string, lines []dto.PostingLineRequest, actor domain.Actor) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, tenantID, entryID, lines, actor))
}

func (m *MockJournalService) AppendLines(ctx context.Context, tenantID, entryID string, lines []dto.PostingLineRequest, actor domain.Actor) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, tenantID, entryID, lines, actor))
}

func (m *MockJournalService) DeleteDraft(ctx context.Context, tenantID, entryID string) error {
	return m.Called(ctx, tenantID, entryID).Error(0)
}

func (m *MockJournalService) Post(ctx context.Context, tenantID, entryID string, actor domain.Actor) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, tenantID, entryID, actor))
}

func (m *MockJournalService) Reverse(ctx context.Context, tenantID, entryID string, actor domain.Actor) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, tenantID, entryID, actor))
}

// --- Workflow ---

type MockWorkflowService struct {
	mock.Mock
}

func (m *MockWorkflowService) instance(args mock.Arguments) (*domain.WorkflowInstance, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkflowInstance), args.Error(1)
}

func (m *MockWorkflowService) RequiresApproval(ctx context.Context, tenantID string, kind domain.EntityKind) (bool, error) {
	args := m.Called(ctx, tenantID, kind)
	return args.Bool(0), args.Error(1)
}

func (m *MockWorkflowService) IsApproved(ctx context.Context, tenantID string, entity domain.EntityRef) (bool, error) {
	args := m.Called(ctx, tenantID, entity)
	return args.Bool(0), args.Error(1)
}

func (m *MockWorkflowService) LatestInstanceFor(ctx context.Context, tenantID string, entity domain.EntityRef) (*domain.WorkflowInstance, error) {
	return m.instance(m.Called(ctx, tenantID, entity))
}

func (m *MockWorkflowService) Start(ctx context.Context, tenantID string, entity domain.EntityRef, actor domain.Actor) (*domain.WorkflowInstance, error) {
	return m.instance(m.Called(ctx, tenantID, entity, actor))
}

func (m *MockWorkflowService) CreateWorkflow(ctx context.Context, tenantID string, req dto.CreateWorkflowRequest, userID string) (*domain.Workflow, error) {
	args := m.Called(ctx, tenantID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Workflow), args.Error(1)
}

func (m *MockWorkflowService) ApproveStep(ctx context.Context, tenantID, instanceID string, stepOrder int, actor domain.Actor, comment string) (*domain.WorkflowInstance, error) {
	return m.instance(m.Called(ctx, tenantID, instanceID, stepOrder, actor, comment))
}

func (m *MockWorkflowService) RejectStep(ctx context.Context, tenantID, instanceID string, stepOrder int, actor domain.Actor, comment string) (*domain.WorkflowInstance, error) {
	return m.instance(m.Called(ctx, tenantID, instanceID, stepOrder, actor, comment))
}

func (m *MockWorkflowService) GetInstance(ctx context.Context, tenantID, instanceID string) (*domain.WorkflowInstance, error) {
	return m.instance(m.Called(ctx, tenantID, instanceID))
}

func (m *MockWorkflowService) ListActions(ctx context.Context, tenantID, instanceID string) ([]domain.WorkflowAction, error) {
	args := m.Called(ctx, tenantID, instanceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WorkflowAction), args.Error(1)
}

func (m *MockWorkflowService) RegisterHook(kind domain.EntityKind, hook portssvc.ApprovalHook) {
	m.Called(kind, hook)
}

// --- Reporting ---

type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) TrialBalance(ctx context.Context, tenantID, periodID string, includeOpening bool) (*domain.TrialBalanceReport, error) {
	args := m.Called(ctx, tenantID, periodID, includeOpening)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrialBalanceReport), args.Error(1)
}

func (m *MockReportingService) GeneralLedger(ctx context.Context, tenantID string, params dto.GeneralLedgerParams) (*domain.GeneralLedgerReport, error) {
	args := m.Called(ctx, tenantID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeneralLedgerReport), args.Error(1)
}

func (m *MockReportingService) ProfitAndLoss(ctx context.Context, tenantID, periodID string, includePrevious bool) (*domain.PAndLReport, error) {
	args := m.Called(ctx, tenantID, periodID, includePrevious)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PAndLReport), args.Error(1)
}

func (m *MockReportingService) BalanceSheet(ctx context.Context, tenantID, periodID string) (*domain.BalanceSheetReport, error) {
	args := m.Called(ctx, tenantID, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceSheetReport), args.Error(1)
}

func (m *MockReportingService) VATReturn(ctx context.Context, tenantID, periodID string) (*domain.VATReturn, error) {
	args := m.Called(ctx, tenantID, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VATReturn), args.Error(1)
}

// --- Assets and depreciation ---

type MockAssetService struct {
	mock.Mock
}

func (m *MockAssetService) asset(args mock.Arguments) (*domain.FixedAsset, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FixedAsset), args.Error(1)
}

func (m *MockAssetService) MarkApproved(ctx context.Context, tenantID string, entity domain.EntityRef) error {
	return m.Called(ctx, tenantID, entity).Error(0)
}

func (m *MockAssetService) RollbackToDraft(ctx context.Context, tenantID string, entity domain.EntityRef) error {
	return m.Called(ctx, tenantID, entity).Error(0)
}

func (m *MockAssetService) CreateAsset(ctx context.Context, tenantID string, req dto.CreateAssetRequest, userID string) (*domain.FixedAsset, error) {
	return m.asset(m.Called(ctx, tenantID, req, userID))
}

func (m *MockAssetService) GetAsset(ctx context.Context, tenantID, assetID string) (*domain.FixedAsset, error) {
	return m.asset(m.Called(ctx, tenantID, assetID))
}

func (m *MockAssetService) SubmitAsset(ctx context.Context, tenantID, assetID string, actor domain.Actor) (*domain.FixedAsset, error) {
	return m.asset(m.Called(ctx, tenantID, assetID, actor))
}

func (m *MockAssetService) DisposeAsset(ctx context.Context, tenantID, assetID, userID string) (*domain.FixedAsset, error) {
	return m.asset(m.Called(ctx, tenantID, assetID, userID))
}

type MockDepreciationService struct {
	mock.Mock
}

func (m *MockDepreciationService) Schedule(ctx context.Context, tenantID, assetID string) ([]domain.ScheduleRow, error) {
	args := m.Called(ctx, tenantID, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ScheduleRow), args.Error(1)
}

func (m *MockDepreciationService) DepreciateAsset(ctx context.Context, tenantID, assetID, periodID string, actor domain.Actor) (*domain.AssetDepreciation, error) {
	args := m.Called(ctx, tenantID, assetID, periodID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AssetDepreciation), args.Error(1)
}

func (m *MockDepreciationService) PostForPeriod(ctx context.Context, tenantID, periodID string, actor domain.Actor) (*domain.DepreciationRunResult, error) {
	args := m.Called(ctx, tenantID, periodID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DepreciationRunResult), args.Error(1)
}

// Ensure mocks implement the interfaces
var (
	_ portssvc.FiscalSvcFacade       = (*MockFiscalService)(nil)
	_ portssvc.AccountSvcFacade      = (*MockAccountService)(nil)
	_ portssvc.JournalSvcFacade      = (*MockJournalService)(nil)
	_ portssvc.WorkflowSvcFacade     = (*MockWorkflowService)(nil)
	_ portssvc.ReportingSvcFacade    = (*MockReportingService)(nil)
	_ portssvc.AssetSvcFacade        = (*MockAssetService)(nil)
	_ portssvc.DepreciationSvcFacade = (*MockDepreciationService)(nil)
)
