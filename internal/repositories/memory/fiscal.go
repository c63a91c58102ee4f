package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

func (s *Store) FindYearByID(_ context.Context, tenantID, yearID string) (*domain.FiscalYear, error) {
	var out *domain.FiscalYear
	err := s.read(func(st *state) error {
		y, ok := st.years[yearID]
		if !ok || y.TenantID != tenantID {
			return fmt.Errorf("%w: fiscal year %s", apperrors.ErrNotFound, yearID)
		}
		out = &y
		return nil
	})
	return out, err
}

func (s *Store) FindPeriodByID(_ context.Context, tenantID, periodID string) (*domain.FiscalPeriod, error) {
	var out *domain.FiscalPeriod
	err := s.read(func(st *state) error {
		p, ok := st.periods[periodID]
		if !ok || p.TenantID != tenantID {
			return fmt.Errorf("%w: fiscal period %s", apperrors.ErrNotFound, periodID)
		}
		out = &p
		return nil
	})
	return out, err
}

func (s *Store) FindOpenPeriodsContaining(_ context.Context, tenantID string, date time.Time) ([]domain.FiscalPeriod, error) {
	var out []domain.FiscalPeriod
	_ = s.read(func(st *state) error {
		for _, p := range st.periods {
			if p.TenantID == tenantID && p.IsOpen() && p.Contains(date) {
				out = append(out, p)
			}
		}
		return nil
	})
	sortPeriods(out)
	return out, nil
}

func (s *Store) FindYearsContaining(_ context.Context, tenantID string, date time.Time) ([]domain.FiscalYear, error) {
	var out []domain.FiscalYear
	_ = s.read(func(st *state) error {
		for _, y := range st.years {
			if y.TenantID == tenantID && y.Contains(date) {
				out = append(out, y)
			}
		}
		return nil
	})
	sortYears(out)
	return out, nil
}

func (s *Store) ListYears(_ context.Context, tenantID string) ([]domain.FiscalYear, error) {
	var out []domain.FiscalYear
	_ = s.read(func(st *state) error {
		for _, y := range st.years {
			if y.TenantID == tenantID {
				out = append(out, y)
			}
		}
		return nil
	})
	sortYears(out)
	return out, nil
}

func (s *Store) ListPeriodsByYear(_ context.Context, tenantID, yearID string) ([]domain.FiscalPeriod, error) {
	var out []domain.FiscalPeriod
	_ = s.read(func(st *state) error {
		for _, p := range st.periods {
			if p.TenantID == tenantID && p.FiscalYearID == yearID {
				out = append(out, p)
			}
		}
		return nil
	})
	sortPeriods(out)
	return out, nil
}

func sortYears(years []domain.FiscalYear) {
	sort.Slice(years, func(i, j int) bool {
		if !years[i].StartDate.Equal(years[j].StartDate) {
			return years[i].StartDate.Before(years[j].StartDate)
		}
		return years[i].FiscalYearID < years[j].FiscalYearID
	})
}

func sortPeriods(periods []domain.FiscalPeriod) {
	sort.Slice(periods, func(i, j int) bool {
		if !periods[i].StartDate.Equal(periods[j].StartDate) {
			return periods[i].StartDate.Before(periods[j].StartDate)
		}
		return periods[i].FiscalPeriodID < periods[j].FiscalPeriodID
	})
}

func (s *Store) SaveYear(ctx context.Context, year domain.FiscalYear) error {
	return s.write(ctx, func(st *state) error {
		if _, ok := st.years[year.FiscalYearID]; ok {
			return fmt.Errorf("%w: fiscal year %s already exists", apperrors.ErrDuplicate, year.FiscalYearID)
		}
		st.years[year.FiscalYearID] = year
		return nil
	})
}

func (s *Store) UpdateYear(ctx context.Context, year domain.FiscalYear) error {
	return s.write(ctx, func(st *state) error {
		existing, ok := st.years[year.FiscalYearID]
		if !ok || existing.TenantID != year.TenantID {
			return fmt.Errorf("%w: fiscal year %s", apperrors.ErrNotFound, year.FiscalYearID)
		}
		st.years[year.FiscalYearID] = year
		return nil
	})
}

func (s *Store) SavePeriod(ctx context.Context, period domain.FiscalPeriod) error {
	return s.write(ctx, func(st *state) error {
		if _, ok := st.periods[period.FiscalPeriodID]; ok {
			return fmt.Errorf("%w: fiscal period %s already exists", apperrors.ErrDuplicate, period.FiscalPeriodID)
		}
		st.periods[period.FiscalPeriodID] = period
		return nil
	})
}

func (s *Store) UpdatePeriod(ctx context.Context, period domain.FiscalPeriod) error {
	return s.write(ctx, func(st *state) error {
		existing, ok := st.periods[period.FiscalPeriodID]
		if !ok || existing.TenantID != period.TenantID {
			return fmt.Errorf("%w: fiscal period %s", apperrors.ErrNotFound, period.FiscalPeriodID)
		}
		st.periods[period.FiscalPeriodID] = period
		return nil
	})
}
