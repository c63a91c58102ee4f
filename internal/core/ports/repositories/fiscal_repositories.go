package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// FiscalReader defines read operations for fiscal years and periods
type FiscalReader interface {
	FindYearByID(ctx context.Context, tenantID, yearID string) (*domain.FiscalYear, error)
	FindPeriodByID(ctx context.Context, tenantID, periodID string) (*domain.FiscalPeriod, error)

	// FindOpenPeriodsContaining returns active, unclosed periods whose range holds date,
	// earliest start first.
	FindOpenPeriodsContaining(ctx context.Context, tenantID string, date time.Time) ([]domain.FiscalPeriod, error)

	// FindYearsContaining returns years whose range holds date regardless of state, earliest start first.
	FindYearsContaining(ctx context.Context, tenantID string, date time.Time) ([]domain.FiscalYear, error)

	ListYears(ctx context.Context, tenantID string) ([]domain.FiscalYear, error)
	ListPeriodsByYear(ctx context.Context, tenantID, yearID string) ([]domain.FiscalPeriod, error)
}

// FiscalWriter defines write operations for fiscal years and periods
type FiscalWriter interface {
	SaveYear(ctx context.Context, year domain.FiscalYear) error
	UpdateYear(ctx context.Context, year domain.FiscalYear) error
	SavePeriod(ctx context.Context, period domain.FiscalPeriod) error
	UpdatePeriod(ctx context.Context, period domain.FiscalPeriod) error
}

// FiscalRepositoryFacade combines fiscal calendar reads and writes
type FiscalRepositoryFacade interface {
	FiscalReader
	FiscalWriter
}
