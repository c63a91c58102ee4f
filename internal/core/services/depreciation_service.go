package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/platform/lock"
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const defaultDepreciationCurrency = "USD"

type depreciationService struct {
	BaseService
	assetRepo   portsrepo.AssetRepositoryFacade
	accountRepo portsrepo.TenantConfigRepository
	txManager   portsrepo.TransactionManager
	calendar    portssvc.FiscalCalendarSvc
	journal     portssvc.JournalSvcFacade
	locker      lock.Locker
	currency    string
}

// DepreciationServiceOption is a functional option for configuring the depreciation service
type DepreciationServiceOption func(*depreciationService)

// WithBatchLocker serializes batch runs per tenant and period across processes.
func WithBatchLocker(locker lock.Locker) DepreciationServiceOption {
	return func(s *depreciationService) {
		if locker != nil {
			s.locker = locker
		}
	}
}

// WithDepreciationCurrency sets the currency code of generated entry lines.
func WithDepreciationCurrency(code string) DepreciationServiceOption {
	return func(s *depreciationService) {
		if code != "" {
			s.currency = code
		}
	}
}

// WithDepreciationClock overrides the time source.
func WithDepreciationClock(clock func() time.Time) DepreciationServiceOption {
	return func(s *depreciationService) {
		s.clock = clock
	}
}

// NewDepreciationService creates the depreciation scheduler.
func NewDepreciationService(
	assetRepo portsrepo.AssetRepositoryFacade,
	accountRepo portsrepo.TenantConfigRepository,
	txManager portsrepo.TransactionManager,
	calendar portssvc.FiscalCalendarSvc,
	journal portssvc.JournalSvcFacade,
	options ...DepreciationServiceOption,
) portssvc.DepreciationSvcFacade {
	svc := &depreciationService{
		assetRepo:   assetRepo,
		accountRepo: accountRepo,
		txManager:   txManager,
		calendar:    calendar,
		journal:     journal,
		locker:      lock.NoopLocker{},
		currency:    defaultDepreciationCurrency,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.DepreciationSvcFacade = (*depreciationService)(nil)

// Schedule projects the straight-line schedule of an activated asset. Rows
// already depreciated are annotated with the period they were posted in.
func (s *depreciationService) Schedule(ctx context.Context, tenantID, assetID string) ([]domain.ScheduleRow, error) {
	asset, err := s.assetRepo.FindAssetByID(ctx, tenantID, assetID)
	if err != nil {
		return nil, err
	}
	if asset.ActivationDate == nil {
		return nil, fmt.Errorf("%w: asset %s", apperrors.ErrAssetNotActive, asset.Code)
	}

	posted, err := s.postedInOrder(ctx, tenantID, assetID)
	if err != nil {
		return nil, err
	}

	base := asset.DepreciableBase()
	amounts := accounting.StraightLineSchedule(base, asset.UsefulLifeMonths)
	start := accounting.MonthStart(*asset.ActivationDate)
	rows := make([]domain.ScheduleRow, len(amounts))
	cumulative := decimal.Zero
	for i, amount := range amounts {
		cumulative = decimal.Min(cumulative.Add(amount), base)
		rows[i] = domain.ScheduleRow{
			Sequence:     i + 1,
			PeriodStart:  start.AddDate(0, i, 0),
			Amount:       amount,
			Cumulative:   cumulative,
			NetBookValue: asset.AcquisitionCost.Sub(cumulative),
		}
		if i < len(posted) {
			rows[i].IsPosted = true
			rows[i].FiscalPeriodID = posted[i].period.FiscalPeriodID
			rows[i].PeriodStart = accounting.MonthStart(posted[i].period.StartDate)
		}
	}
	return rows, nil
}

type postedDepreciation struct {
	dep    domain.AssetDepreciation
	period *domain.FiscalPeriod
}

func (s *depreciationService) postedInOrder(ctx context.Context, tenantID, assetID string) ([]postedDepreciation, error) {
	deps, err := s.assetRepo.ListDepreciations(ctx, tenantID, assetID)
	if err != nil {
		return nil, err
	}
	var out []postedDepreciation
	for _, d := range deps {
		if !d.IsPosted {
			continue
		}
		period, err := s.calendar.GetPeriod(ctx, tenantID, d.FiscalPeriodID)
		if err != nil {
			return nil, err
		}
		out = append(out, postedDepreciation{dep: d, period: period})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].period.StartDate.Before(out[j].period.StartDate) })
	return out, nil
}

// DepreciateAsset posts one asset's depreciation for a period.
func (s *depreciationService) DepreciateAsset(ctx context.Context, tenantID, assetID, periodID string, actor domain.Actor) (*domain.AssetDepreciation, error) {
	period, cfg, err := s.prepare(ctx, tenantID, periodID)
	if err != nil {
		return nil, err
	}
	asset, err := s.assetRepo.FindAssetByID(ctx, tenantID, assetID)
	if err != nil {
		return nil, err
	}
	if asset.Status != domain.AssetActive || asset.ActivationDate == nil {
		return nil, fmt.Errorf("%w: asset %s is %s", apperrors.ErrAssetNotActive, asset.Code, asset.Status)
	}
	if asset.ActivationDate.After(period.EndDate) {
		return nil, fmt.Errorf("%w: asset %s is activated after period %s", apperrors.ErrAssetNotActive, asset.Code, period.Name)
	}
	return s.depreciateOne(ctx, *asset, period, cfg, actor)
}

// PostForPeriod depreciates every eligible asset in the period. Per-asset
// failures are collected and do not stop the batch. Re-running only posts what is missing.
func (s *depreciationService) PostForPeriod(ctx context.Context, tenantID, periodID string, actor domain.Actor) (*domain.DepreciationRunResult, error) {
	period, cfg, err := s.prepare(ctx, tenantID, periodID)
	if err != nil {
		return nil, err
	}

	result := &domain.DepreciationRunResult{
		FiscalPeriodID: periodID,
		Rows:           []domain.AssetDepreciation{},
		Errors:         []domain.AssetDepreciationError{},
	}
	key := fmt.Sprintf("depreciation:%s:%s", tenantID, periodID)
	err = s.locker.WithLock(ctx, key, func(ctx context.Context) error {
		assets, err := s.assetRepo.ListDepreciableAssets(ctx, tenantID, period.EndDate)
		if err != nil {
			return err
		}
		for _, asset := range assets {
			dep, err := s.depreciateOne(ctx, asset, period, cfg, actor)
			switch {
			case err == nil:
				result.PostedCount++
				result.Rows = append(result.Rows, *dep)
			case errors.Is(err, apperrors.ErrAlreadyPosted), errors.Is(err, apperrors.ErrScheduleExhausted):
				result.SkippedCount++
			default:
				s.LogError(ctx, err, "Asset depreciation failed",
					slog.String("asset_id", asset.AssetID),
					slog.String("period_id", periodID))
				result.Errors = append(result.Errors, domain.AssetDepreciationError{
					AssetID: asset.AssetID,
					Err:     err,
					Message: err.Error(),
				})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Depreciation run finished",
		slog.String("period_id", periodID),
		slog.Int("posted", result.PostedCount),
		slog.Int("skipped", result.SkippedCount),
		slog.Int("failed", len(result.Errors)))
	return result, nil
}

func (s *depreciationService) prepare(ctx context.Context, tenantID, periodID string) (*domain.FiscalPeriod, *domain.TenantAccountConfig, error) {
	period, err := s.calendar.GetPeriod(ctx, tenantID, periodID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.calendar.AssertPostable(ctx, tenantID, periodID); err != nil {
		return nil, nil, err
	}
	cfg, err := s.accountRepo.FindTenantAccounts(ctx, tenantID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: tenant %s", apperrors.ErrInsufficientAccountsConfigured, tenantID)
		}
		return nil, nil, err
	}
	if cfg.DepreciationExpenseID == "" || cfg.AccumulatedDepreciationID == "" {
		return nil, nil, fmt.Errorf("%w: depreciation accounts", apperrors.ErrInsufficientAccountsConfigured)
	}
	return period, cfg, nil
}

// depreciateOne runs the per-asset steps. Each step is committed on its own so
// a failed post leaves an unposted row and draft entry that the next run resumes.
func (s *depreciationService) depreciateOne(ctx context.Context, asset domain.FixedAsset, period *domain.FiscalPeriod, cfg *domain.TenantAccountConfig, actor domain.Actor) (*domain.AssetDepreciation, error) {
	existing, err := s.assetRepo.FindDepreciation(ctx, asset.TenantID, asset.AssetID, period.FiscalPeriodID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if existing != nil && existing.IsPosted {
		return nil, fmt.Errorf("%w: asset %s already depreciated in %s", apperrors.ErrAlreadyPosted, asset.Code, period.Name)
	}

	count, total, err := s.assetRepo.PostedDepreciationTotals(ctx, asset.TenantID, asset.AssetID)
	if err != nil {
		return nil, err
	}
	base := asset.DepreciableBase()
	schedule := accounting.StraightLineSchedule(base, asset.UsefulLifeMonths)
	if count >= len(schedule) || !total.LessThan(base) {
		return nil, fmt.Errorf("%w: asset %s", apperrors.ErrScheduleExhausted, asset.Code)
	}
	amount := decimal.Min(schedule[count], base.Sub(total))

	dep := existing
	if dep == nil || dep.JournalEntryID == nil {
		dep, err = s.draftDepreciation(ctx, asset, period, cfg, amount, existing, actor)
		if err != nil {
			return nil, err
		}
	}

	if _, err := s.journal.Post(ctx, asset.TenantID, *dep.JournalEntryID, actor); err != nil && !errors.Is(err, apperrors.ErrAlreadyPosted) {
		return nil, err
	}

	now := s.Now()
	dep.IsPosted = true
	dep.PostedAt = &now
	dep.Touch(actor.UserID, now)
	if err := s.assetRepo.UpsertDepreciation(ctx, *dep); err != nil {
		return nil, err
	}
	s.LogDebug(ctx, "Asset depreciated",
		slog.String("asset_id", asset.AssetID),
		slog.String("amount", dep.Amount.StringFixed(2)))
	return dep, nil
}

// draftDepreciation creates the draft entry and the unposted row together.
func (s *depreciationService) draftDepreciation(ctx context.Context, asset domain.FixedAsset, period *domain.FiscalPeriod, cfg *domain.TenantAccountConfig, amount decimal.Decimal, existing *domain.AssetDepreciation, actor domain.Actor) (*domain.AssetDepreciation, error) {
	now := s.Now()
	dep := domain.AssetDepreciation{
		DepreciationID: uuid.NewString(),
		TenantID:       asset.TenantID,
		AssetID:        asset.AssetID,
		FiscalPeriodID: period.FiscalPeriodID,
		Amount:         amount,
		AuditFields:    domain.NewAuditFields(actor.UserID, now),
	}
	if existing != nil {
		dep.DepreciationID = existing.DepreciationID
		dep.AuditFields = existing.AuditFields
		dep.Touch(actor.UserID, now)
	}

	err := s.txManager.RunInTx(ctx, func(ctx context.Context) error {
		desc := fmt.Sprintf("Depreciation %s %s", asset.Code, period.Name)
		entry, err := s.journal.CreateDraft(ctx, asset.TenantID, dto.PostingRequest{
			FiscalPeriodID: period.FiscalPeriodID,
			EntryDate:      period.EndDate,
			ReferenceType:  string(domain.KindAsset),
			ReferenceID:    asset.AssetID,
			Description:    desc,
			Lines: []dto.PostingLineRequest{
				{AccountID: cfg.DepreciationExpenseID, CurrencyCode: s.currency, Debit: amount, Credit: decimal.Zero, Description: desc},
				{AccountID: cfg.AccumulatedDepreciationID, CurrencyCode: s.currency, Debit: decimal.Zero, Credit: amount, Description: desc},
			},
		}, actor)
		if err != nil {
			return err
		}
		dep.JournalEntryID = &entry.EntryID
		return s.assetRepo.UpsertDepreciation(ctx, dep)
	})
	if err != nil {
		return nil, err
	}
	return &dep, nil
}
