package accounting

import (
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceTolerance is the largest debit/credit difference still treated as balanced.
var BalanceTolerance = decimal.NewFromFloat(0.01)

// NaturalBalance signs a raw debit/credit pair by the account type's normal side:
// debit minus credit for ASSET and EXPENSE, credit minus debit otherwise.
func NaturalBalance(accountType domain.AccountType, debit, credit decimal.Decimal) decimal.Decimal {
	if accountType.NormalSide() == domain.Debit {
		return debit.Sub(credit)
	}
	return credit.Sub(debit)
}

// WithinTolerance reports whether a and b differ by no more than BalanceTolerance.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(BalanceTolerance)
}

// StrictlyWithinTolerance is WithinTolerance with an exclusive bound, used by report checks.
func StrictlyWithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(BalanceTolerance)
}

// SplitDebitCredit places a signed net amount in the debit column when positive
// and in the credit column otherwise.
func SplitDebitCredit(net decimal.Decimal) (debit, credit decimal.Decimal) {
	if net.IsPositive() {
		return net, decimal.Zero
	}
	return decimal.Zero, net.Neg()
}

// StraightLineSchedule spreads base evenly over months rows. Each row is rounded
// to cents and the final row absorbs the rounding difference, so the rows sum to base.
func StraightLineSchedule(base decimal.Decimal, months int) []decimal.Decimal {
	if months <= 0 || !base.IsPositive() {
		return nil
	}
	monthly := base.Div(decimal.NewFromInt(int64(months))).Round(2)
	amounts := make([]decimal.Decimal, months)
	allocated := decimal.Zero
	for i := 0; i < months-1; i++ {
		amount := monthly
		if allocated.Add(amount).GreaterThan(base) {
			amount = base.Sub(allocated)
		}
		amounts[i] = amount
		allocated = allocated.Add(amount)
	}
	amounts[months-1] = base.Sub(allocated)
	return amounts
}

// MonthStart returns the first day of t's month in UTC.
func MonthStart(t time.Time) time.Time {
	y, m, _ := t.UTC().Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}
