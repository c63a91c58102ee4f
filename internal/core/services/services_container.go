package services

import (
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/platform/lock"
)

type containerSettings struct {
	locker   lock.Locker
	clock    func() time.Time
	currency string
}

// ContainerOption configures cross-cutting dependencies of the service container
type ContainerOption func(*containerSettings)

// WithLocker sets the distributed lock used by depreciation batch runs.
func WithLocker(locker lock.Locker) ContainerOption {
	return func(c *containerSettings) {
		c.locker = locker
	}
}

// WithClock sets the time source of every service.
func WithClock(clock func() time.Time) ContainerOption {
	return func(c *containerSettings) {
		c.clock = clock
	}
}

// WithDefaultCurrency sets the currency of system generated entries.
func WithDefaultCurrency(code string) ContainerOption {
	return func(c *containerSettings) {
		c.currency = code
	}
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider, options ...ContainerOption) *portssvc.ServiceContainer {
	settings := &containerSettings{}
	for _, option := range options {
		option(settings)
	}

	container := &portssvc.ServiceContainer{}

	// The calendar comes first since posting, reporting and depreciation all consult it
	container.Fiscal = NewFiscalService(repos.FiscalRepo, repos.TxManager, WithFiscalClock(settings.clock))
	container.Account = NewAccountServiceImpl(repos.AccountRepo, WithAccountClock(settings.clock))
	container.Workflow = NewWorkflowService(repos.WorkflowRepo, repos.TxManager, WithWorkflowClock(settings.clock))

	container.Journal = NewJournalService(
		repos.JournalRepo,
		repos.AccountRepo,
		repos.TxManager,
		container.Fiscal,
		WithApprovalGate(container.Workflow),
		WithJournalClock(settings.clock),
	)
	container.Reporting = NewReportingService(repos.ReportingRepo, repos.AccountRepo, container.Fiscal, WithReportingClock(settings.clock))

	container.Asset = NewAssetService(
		repos.AssetRepo,
		repos.TxManager,
		WithAssetApprovals(container.Workflow),
		WithAssetClock(settings.clock),
	)
	container.Workflow.RegisterHook(domain.KindAsset, container.Asset)

	container.Depreciation = NewDepreciationService(
		repos.AssetRepo,
		repos.AccountRepo,
		repos.TxManager,
		container.Fiscal,
		container.Journal,
		WithBatchLocker(settings.locker),
		WithDepreciationCurrency(settings.currency),
		WithDepreciationClock(settings.clock),
	)

	return container
}
