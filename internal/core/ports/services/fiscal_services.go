package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// FiscalCalendarSvc answers questions about where a date falls.
type FiscalCalendarSvc interface {
	// ActivePeriodFor returns the open period containing date, or ErrNoActivePeriod.
	ActivePeriodFor(ctx context.Context, tenantID string, date time.Time) (*domain.FiscalPeriod, error)

	// ActiveYearFor returns the open year containing date, or ErrNoActivePeriod.
	ActiveYearFor(ctx context.Context, tenantID string, date time.Time) (*domain.FiscalYear, error)

	// AssertPostable fails with ErrPeriodClosed unless both the period and its year are open.
	AssertPostable(ctx context.Context, tenantID, periodID string) error

	GetPeriod(ctx context.Context, tenantID, periodID string) (*domain.FiscalPeriod, error)
	GetYear(ctx context.Context, tenantID, yearID string) (*domain.FiscalYear, error)

	// YearContaining returns the year holding date regardless of its state.
	YearContaining(ctx context.Context, tenantID string, date time.Time) (*domain.FiscalYear, error)
}

// FiscalAdminSvc maintains fiscal years and periods.
type FiscalAdminSvc interface {
	CreateFiscalYear(ctx context.Context, tenantID string, req dto.CreateFiscalYearRequest, userID string) (*domain.FiscalYear, []domain.FiscalPeriod, error)
	CreatePeriod(ctx context.Context, tenantID string, req dto.CreateFiscalPeriodRequest, userID string) (*domain.FiscalPeriod, error)
	ClosePeriod(ctx context.Context, tenantID, periodID, userID string) (*domain.FiscalPeriod, error)
	ReopenPeriod(ctx context.Context, tenantID, periodID, userID string) (*domain.FiscalPeriod, error)

	// CloseYear closes the year and every period in it.
	CloseYear(ctx context.Context, tenantID, yearID, userID string) (*domain.FiscalYear, error)

	ListYears(ctx context.Context, tenantID string) ([]domain.FiscalYear, error)
	ListPeriods(ctx context.Context, tenantID, yearID string) ([]domain.FiscalPeriod, error)
}

// FiscalSvcFacade combines calendar queries and administration
type FiscalSvcFacade interface {
	FiscalCalendarSvc
	FiscalAdminSvc
}
