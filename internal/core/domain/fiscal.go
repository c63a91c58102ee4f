package domain

import "time"

// FiscalYear is a tenant's accounting year. StartDate and EndDate are inclusive calendar dates.
type FiscalYear struct {
	FiscalYearID string    `json:"fiscalYearID"`
	TenantID     string    `json:"tenantID"`
	Name         string    `json:"name"`
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`
	IsActive     bool      `json:"isActive"`
	IsClosed     bool      `json:"isClosed"`
	AuditFields
}

// Contains reports whether date falls within the year.
func (y FiscalYear) Contains(date time.Time) bool {
	return dateWithin(date, y.StartDate, y.EndDate)
}

// IsOpen reports whether entries may be posted into the year.
func (y FiscalYear) IsOpen() bool {
	return y.IsActive && !y.IsClosed
}

// FiscalPeriod is a posting window nested inside a FiscalYear.
type FiscalPeriod struct {
	FiscalPeriodID string    `json:"fiscalPeriodID"`
	TenantID       string    `json:"tenantID"`
	FiscalYearID   string    `json:"fiscalYearID"`
	Name           string    `json:"name"`
	StartDate      time.Time `json:"startDate"`
	EndDate        time.Time `json:"endDate"`
	IsActive       bool      `json:"isActive"`
	IsClosed       bool      `json:"isClosed"`
	AuditFields
}

// Contains reports whether date falls within the period.
func (p FiscalPeriod) Contains(date time.Time) bool {
	return dateWithin(date, p.StartDate, p.EndDate)
}

// IsOpen reports whether entries may be posted into the period.
func (p FiscalPeriod) IsOpen() bool {
	return p.IsActive && !p.IsClosed
}

// DayAfterEnd is the exclusive upper bound of the period.
func (p FiscalPeriod) DayAfterEnd() time.Time {
	return StartOfDay(p.EndDate).AddDate(0, 0, 1)
}

func dateWithin(date, start, end time.Time) bool {
	d := StartOfDay(date)
	return !d.Before(StartOfDay(start)) && !d.After(StartOfDay(end))
}
