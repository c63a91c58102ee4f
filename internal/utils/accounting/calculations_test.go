package accounting

import (
	"testing"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNaturalBalance(t *testing.T) {
	tests := []struct {
		name        string
		accountType domain.AccountType
		debit       string
		credit      string
		want        string
	}{
		{"asset debit normal", domain.Asset, "100", "30", "70"},
		{"expense debit normal", domain.Expense, "10", "0", "10"},
		{"liability credit normal", domain.Liability, "20", "50", "30"},
		{"revenue credit normal", domain.Revenue, "0", "100", "100"},
		{"equity overdrawn", domain.Equity, "40", "10", "-30"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NaturalBalance(tt.accountType, d(tt.debit), d(tt.credit))
			assert.True(t, d(tt.want).Equal(got), "want %s got %s", tt.want, got)
		})
	}
}

func TestWithinTolerance(t *testing.T) {
	assert.True(t, WithinTolerance(d("100.00"), d("100.01")))
	assert.False(t, WithinTolerance(d("100.00"), d("100.02")))
	assert.True(t, StrictlyWithinTolerance(d("100.00"), d("100.009")))
	assert.False(t, StrictlyWithinTolerance(d("100.00"), d("100.01")))
}

func TestSplitDebitCredit(t *testing.T) {
	dr, cr := SplitDebitCredit(d("25"))
	assert.True(t, dr.Equal(d("25")))
	assert.True(t, cr.IsZero())

	dr, cr = SplitDebitCredit(d("-25"))
	assert.True(t, dr.IsZero())
	assert.True(t, cr.Equal(d("25")))
}

func TestStraightLineSchedule(t *testing.T) {
	t.Run("even split", func(t *testing.T) {
		rows := StraightLineSchedule(d("1200"), 12)
		assert.Len(t, rows, 12)
		for _, r := range rows {
			assert.True(t, r.Equal(d("100")))
		}
	})

	t.Run("last row absorbs rounding", func(t *testing.T) {
		rows := StraightLineSchedule(d("100"), 3)
		assert.Len(t, rows, 3)
		assert.True(t, rows[0].Equal(d("33.33")))
		assert.True(t, rows[1].Equal(d("33.33")))
		assert.True(t, rows[2].Equal(d("33.34")))
	})

	t.Run("nothing to depreciate", func(t *testing.T) {
		assert.Nil(t, StraightLineSchedule(decimal.Zero, 12))
		assert.Nil(t, StraightLineSchedule(d("100"), 0))
	})
}

func TestMonthStart(t *testing.T) {
	got := MonthStart(time.Date(2024, 3, 17, 15, 4, 5, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), got)
}
