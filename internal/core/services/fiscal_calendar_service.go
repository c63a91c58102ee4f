package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/google/uuid"
)

type fiscalService struct {
	BaseService
	repo      portsrepo.FiscalRepositoryFacade
	txManager portsrepo.TransactionManager
}

// FiscalServiceOption is a functional option for configuring the fiscal service
type FiscalServiceOption func(*fiscalService)

// WithFiscalClock overrides the time source.
func WithFiscalClock(clock func() time.Time) FiscalServiceOption {
	return func(s *fiscalService) {
		s.clock = clock
	}
}

// NewFiscalService creates the fiscal calendar service.
func NewFiscalService(repo portsrepo.FiscalRepositoryFacade, txManager portsrepo.TransactionManager, options ...FiscalServiceOption) portssvc.FiscalSvcFacade {
	svc := &fiscalService{repo: repo, txManager: txManager}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.FiscalSvcFacade = (*fiscalService)(nil)

// ActivePeriodFor picks the earliest-starting open period whose year is also open.
func (s *fiscalService) ActivePeriodFor(ctx context.Context, tenantID string, date time.Time) (*domain.FiscalPeriod, error) {
	periods, err := s.repo.FindOpenPeriodsContaining(ctx, tenantID, date)
	if err != nil {
		s.LogError(ctx, err, "Failed to look up open periods", slog.String("tenant_id", tenantID))
		return nil, err
	}
	for i := range periods {
		year, err := s.repo.FindYearByID(ctx, tenantID, periods[i].FiscalYearID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				continue
			}
			return nil, err
		}
		if year.IsOpen() {
			if len(periods) > 1 {
				s.LogDebug(ctx, "Multiple open periods contain date, using earliest",
					slog.String("period_id", periods[i].FiscalPeriodID),
					slog.Int("candidates", len(periods)))
			}
			return &periods[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", apperrors.ErrNoActivePeriod, date.Format(time.DateOnly))
}

func (s *fiscalService) ActiveYearFor(ctx context.Context, tenantID string, date time.Time) (*domain.FiscalYear, error) {
	years, err := s.repo.FindYearsContaining(ctx, tenantID, date)
	if err != nil {
		return nil, err
	}
	for i := range years {
		if years[i].IsOpen() {
			return &years[i], nil
		}
	}
	return nil, fmt.Errorf("%w: no open fiscal year for %s", apperrors.ErrNoActivePeriod, date.Format(time.DateOnly))
}

func (s *fiscalService) AssertPostable(ctx context.Context, tenantID, periodID string) error {
	period, err := s.repo.FindPeriodByID(ctx, tenantID, periodID)
	if err != nil {
		return err
	}
	if !period.IsOpen() {
		return fmt.Errorf("%w: period %s", apperrors.ErrPeriodClosed, period.Name)
	}
	year, err := s.repo.FindYearByID(ctx, tenantID, period.FiscalYearID)
	if err != nil {
		return err
	}
	if !year.IsOpen() {
		return fmt.Errorf("%w: fiscal year %s", apperrors.ErrPeriodClosed, year.Name)
	}
	return nil
}

func (s *fiscalService) GetPeriod(ctx context.Context, tenantID, periodID string) (*domain.FiscalPeriod, error) {
	return s.repo.FindPeriodByID(ctx, tenantID, periodID)
}

func (s *fiscalService) GetYear(ctx context.Context, tenantID, yearID string) (*domain.FiscalYear, error) {
	return s.repo.FindYearByID(ctx, tenantID, yearID)
}

func (s *fiscalService) YearContaining(ctx context.Context, tenantID string, date time.Time) (*domain.FiscalYear, error) {
	years, err := s.repo.FindYearsContaining(ctx, tenantID, date)
	if err != nil {
		return nil, err
	}
	if len(years) == 0 {
		return nil, fmt.Errorf("%w: no fiscal year contains %s", apperrors.ErrNotFound, date.Format(time.DateOnly))
	}
	return &years[0], nil
}

func (s *fiscalService) CreateFiscalYear(ctx context.Context, tenantID string, req dto.CreateFiscalYearRequest, userID string) (*domain.FiscalYear, []domain.FiscalPeriod, error) {
	start, end := domain.StartOfDay(req.StartDate), domain.StartOfDay(req.EndDate)
	if strings.TrimSpace(req.Name) == "" || end.Before(start) {
		return nil, nil, fmt.Errorf("%w: fiscal year needs a name and an end date on or after its start", apperrors.ErrValidation)
	}

	now := s.Now()
	year := domain.FiscalYear{
		FiscalYearID: uuid.NewString(),
		TenantID:     tenantID,
		Name:         req.Name,
		StartDate:    start,
		EndDate:      end,
		IsActive:     true,
		AuditFields:  domain.NewAuditFields(userID, now),
	}

	var periods []domain.FiscalPeriod
	if req.GenerateMonthlyPeriods {
		periods = monthlyPeriods(year, userID, now)
	}

	err := s.txManager.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.repo.SaveYear(ctx, year); err != nil {
			return err
		}
		for _, p := range periods {
			if err := s.repo.SavePeriod(ctx, p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create fiscal year", slog.String("tenant_id", tenantID))
		return nil, nil, err
	}

	s.LogInfo(ctx, "Fiscal year created",
		slog.String("fiscal_year_id", year.FiscalYearID),
		slog.Int("periods", len(periods)))
	return &year, periods, nil
}

// monthlyPeriods splits the year at calendar month boundaries. The first and
// last periods are shortened when the year does not start or end on one.
func monthlyPeriods(year domain.FiscalYear, userID string, now time.Time) []domain.FiscalPeriod {
	var periods []domain.FiscalPeriod
	for cursor := year.StartDate; !cursor.After(year.EndDate); {
		monthEnd := time.Date(cursor.Year(), cursor.Month()+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
		if monthEnd.After(year.EndDate) {
			monthEnd = year.EndDate
		}
		periods = append(periods, domain.FiscalPeriod{
			FiscalPeriodID: uuid.NewString(),
			TenantID:       year.TenantID,
			FiscalYearID:   year.FiscalYearID,
			Name:           cursor.Format("2006-01"),
			StartDate:      cursor,
			EndDate:        monthEnd,
			IsActive:       true,
			AuditFields:    domain.NewAuditFields(userID, now),
		})
		cursor = monthEnd.AddDate(0, 0, 1)
	}
	return periods
}

func (s *fiscalService) CreatePeriod(ctx context.Context, tenantID string, req dto.CreateFiscalPeriodRequest, userID string) (*domain.FiscalPeriod, error) {
	year, err := s.repo.FindYearByID(ctx, tenantID, req.FiscalYearID)
	if err != nil {
		return nil, err
	}
	if year.IsClosed {
		return nil, fmt.Errorf("%w: fiscal year %s", apperrors.ErrPeriodClosed, year.Name)
	}
	start, end := domain.StartOfDay(req.StartDate), domain.StartOfDay(req.EndDate)
	if end.Before(start) || !year.Contains(start) || !year.Contains(end) {
		return nil, fmt.Errorf("%w: period must lie within fiscal year %s", apperrors.ErrValidation, year.Name)
	}

	period := domain.FiscalPeriod{
		FiscalPeriodID: uuid.NewString(),
		TenantID:       tenantID,
		FiscalYearID:   year.FiscalYearID,
		Name:           req.Name,
		StartDate:      start,
		EndDate:        end,
		IsActive:       true,
		AuditFields:    domain.NewAuditFields(userID, s.Now()),
	}
	if err := s.repo.SavePeriod(ctx, period); err != nil {
		s.LogError(ctx, err, "Failed to save fiscal period", slog.String("fiscal_year_id", year.FiscalYearID))
		return nil, err
	}
	return &period, nil
}

func (s *fiscalService) ClosePeriod(ctx context.Context, tenantID, periodID, userID string) (*domain.FiscalPeriod, error) {
	return s.setPeriodClosed(ctx, tenantID, periodID, userID, true)
}

func (s *fiscalService) ReopenPeriod(ctx context.Context, tenantID, periodID, userID string) (*domain.FiscalPeriod, error) {
	return s.setPeriodClosed(ctx, tenantID, periodID, userID, false)
}

func (s *fiscalService) setPeriodClosed(ctx context.Context, tenantID, periodID, userID string, closed bool) (*domain.FiscalPeriod, error) {
	var period *domain.FiscalPeriod
	err := s.txManager.RunInTx(ctx, func(ctx context.Context) error {
		p, err := s.repo.FindPeriodByID(ctx, tenantID, periodID)
		if err != nil {
			return err
		}
		if !closed {
			year, err := s.repo.FindYearByID(ctx, tenantID, p.FiscalYearID)
			if err != nil {
				return err
			}
			if year.IsClosed {
				return fmt.Errorf("%w: cannot reopen a period of closed fiscal year %s", apperrors.ErrConflict, year.Name)
			}
		}
		p.IsClosed = closed
		p.Touch(userID, s.Now())
		period = p
		return s.repo.UpdatePeriod(ctx, *p)
	})
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Fiscal period state changed",
		slog.String("period_id", periodID),
		slog.Bool("closed", closed))
	return period, nil
}

func (s *fiscalService) CloseYear(ctx context.Context, tenantID, yearID, userID string) (*domain.FiscalYear, error) {
	var year *domain.FiscalYear
	err := s.txManager.RunInTx(ctx, func(ctx context.Context) error {
		y, err := s.repo.FindYearByID(ctx, tenantID, yearID)
		if err != nil {
			return err
		}
		now := s.Now()
		periods, err := s.repo.ListPeriodsByYear(ctx, tenantID, yearID)
		if err != nil {
			return err
		}
		for _, p := range periods {
			if p.IsClosed {
				continue
			}
			p.IsClosed = true
			p.Touch(userID, now)
			if err := s.repo.UpdatePeriod(ctx, p); err != nil {
				return err
			}
		}
		y.IsClosed = true
		y.Touch(userID, now)
		year = y
		return s.repo.UpdateYear(ctx, *y)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to close fiscal year", slog.String("fiscal_year_id", yearID))
		return nil, err
	}
	return year, nil
}

func (s *fiscalService) ListYears(ctx context.Context, tenantID string) ([]domain.FiscalYear, error) {
	years, err := s.repo.ListYears(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if years == nil {
		return []domain.FiscalYear{}, nil
	}
	return years, nil
}

func (s *fiscalService) ListPeriods(ctx context.Context, tenantID, yearID string) ([]domain.FiscalPeriod, error) {
	if _, err := s.repo.FindYearByID(ctx, tenantID, yearID); err != nil {
		return nil, err
	}
	periods, err := s.repo.ListPeriodsByYear(ctx, tenantID, yearID)
	if err != nil {
		return nil, err
	}
	if periods == nil {
		return []domain.FiscalPeriod{}, nil
	}
	return periods, nil
}
