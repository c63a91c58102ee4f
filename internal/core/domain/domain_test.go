package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountType_NormalSide(t *testing.T) {
	tests := []struct {
		accountType domain.AccountType
		want        domain.EntrySide
	}{
		{domain.Asset, domain.Debit},
		{domain.Expense, domain.Debit},
		{domain.Liability, domain.Credit},
		{domain.Equity, domain.Credit},
		{domain.Revenue, domain.Credit},
	}

	for _, tt := range tests {
		t.Run(string(tt.accountType), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.accountType.NormalSide())
			assert.True(t, tt.accountType.IsValid())
		})
	}
	assert.False(t, domain.AccountType("INCOME").IsValid())
}

func TestParseEntityRef(t *testing.T) {
	tests := []struct {
		kind    string
		id      string
		want    domain.EntityRef
		wantErr bool
	}{
		{kind: "SALES_INVOICE", id: "inv-1", want: domain.SalesInvoiceRef{InvoiceID: "inv-1"}},
		{kind: "PURCHASE_INVOICE", id: "pinv-1", want: domain.PurchaseInvoiceRef{InvoiceID: "pinv-1"}},
		{kind: "PAYMENT", id: "pay-1", want: domain.PaymentRef{PaymentID: "pay-1"}},
		{kind: "ASSET", id: "a-1", want: domain.AssetRef{AssetID: "a-1"}},
		{kind: "ADJUSTING_ENTRY", id: "adj-1", want: domain.AdjustingEntryRef{AdjustmentID: "adj-1"}},
		{kind: "JOURNAL_ENTRY", id: "je-1", want: domain.JournalEntryRef{EntryID: "je-1"}},
		{kind: "ORDER", id: "o-1", wantErr: true},
		{kind: "ASSET", id: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.kind+"/"+tt.id, func(t *testing.T) {
			got, err := domain.ParseEntityRef(tt.kind, tt.id)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.kind, string(got.Kind()))
			assert.Equal(t, tt.id, got.EntityID())
		})
	}
}

func TestJournalEntry_ApprovalSubject(t *testing.T) {
	original := "je-original"

	withRef := domain.JournalEntry{EntryID: "je-1", Reference: domain.SalesInvoiceRef{InvoiceID: "inv-9"}}
	assert.Equal(t, domain.SalesInvoiceRef{InvoiceID: "inv-9"}, withRef.ApprovalSubject())

	reversal := domain.JournalEntry{EntryID: "je-2", ReversalOf: &original}
	assert.Equal(t, domain.JournalEntryRef{EntryID: original}, reversal.ApprovalSubject())

	plain := domain.JournalEntry{EntryID: "je-3"}
	assert.Equal(t, domain.JournalEntryRef{EntryID: "je-3"}, plain.ApprovalSubject())
}

func TestJournalEntry_Totals(t *testing.T) {
	entry := domain.JournalEntry{Lines: []domain.JournalEntryLine{
		{Debit: decimal.RequireFromString("60.00"), Credit: decimal.Zero},
		{Debit: decimal.RequireFromString("40.00"), Credit: decimal.Zero},
		{Debit: decimal.Zero, Credit: decimal.RequireFromString("100.00")},
	}}

	debit, credit := entry.Totals()
	assert.True(t, debit.Equal(decimal.NewFromInt(100)))
	assert.True(t, credit.Equal(decimal.NewFromInt(100)))

	swapped := entry.Lines[0].Swapped()
	assert.True(t, swapped.Credit.Equal(decimal.NewFromInt(60)))
	assert.True(t, swapped.Debit.IsZero())
}

func TestFiscalPeriod_Contains(t *testing.T) {
	p := domain.FiscalPeriod{
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		IsActive:  true,
	}

	assert.True(t, p.Contains(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, p.Contains(time.Date(2024, 1, 31, 23, 59, 0, 0, time.UTC)))
	assert.False(t, p.Contains(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, p.IsOpen())
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), p.DayAfterEnd())

	p.IsClosed = true
	assert.False(t, p.IsOpen())
}

func TestWorkflow_StepNavigation(t *testing.T) {
	wf := domain.Workflow{Steps: []domain.WorkflowStep{
		{StepOrder: 20, ApproverRole: "cfo"},
		{StepOrder: 10, ApproverRole: "manager"},
	}}

	first, ok := wf.FirstStep()
	require.True(t, ok)
	assert.Equal(t, 10, first.StepOrder)

	next, ok := wf.NextStep(10)
	require.True(t, ok)
	assert.Equal(t, 20, next.StepOrder)

	_, ok = wf.NextStep(20)
	assert.False(t, ok)
}

func TestActor_CanActOn(t *testing.T) {
	actor := domain.Actor{UserID: "u1", Roles: []string{"manager"}, Permissions: []string{"ledger.approve"}}

	assert.True(t, actor.CanActOn(domain.WorkflowStep{ApproverRole: "manager"}))
	assert.True(t, actor.CanActOn(domain.WorkflowStep{ApproverPermission: "ledger.approve"}))
	assert.True(t, actor.CanActOn(domain.WorkflowStep{ApproverRole: "cfo", ApproverPermission: "ledger.approve"}))
	assert.False(t, actor.CanActOn(domain.WorkflowStep{ApproverRole: "cfo"}))
	assert.True(t, actor.CanActOn(domain.WorkflowStep{}))
}
