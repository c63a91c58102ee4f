package memory

import (
	"context"
	"slices"
	"sort"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

func entryMatches(e domain.JournalEntry, tenantID string, f domain.LedgerFilter) bool {
	if e.TenantID != tenantID || !e.IsPosted() {
		return false
	}
	if f.FiscalYearID != "" && e.FiscalYearID != f.FiscalYearID {
		return false
	}
	if f.FiscalPeriodID != "" && e.FiscalPeriodID != f.FiscalPeriodID {
		return false
	}
	date := domain.StartOfDay(e.EntryDate)
	if f.From != nil && date.Before(domain.StartOfDay(*f.From)) {
		return false
	}
	if f.Before != nil && !date.Before(domain.StartOfDay(*f.Before)) {
		return false
	}
	if len(f.ReferenceKinds) > 0 {
		if e.Reference == nil || !slices.Contains(f.ReferenceKinds, e.Reference.Kind()) {
			return false
		}
	}
	return true
}

func (s *Store) SumPostedByAccount(_ context.Context, tenantID string, filter domain.LedgerFilter) ([]domain.AccountBalance, error) {
	totals := make(map[string]*domain.AccountBalance)
	_ = s.read(func(st *state) error {
		for _, e := range st.entries {
			if !entryMatches(e, tenantID, filter) {
				continue
			}
			for _, l := range e.Lines {
				if filter.AccountID != "" && l.AccountID != filter.AccountID {
					continue
				}
				b, ok := totals[l.AccountID]
				if !ok {
					b = &domain.AccountBalance{Account: st.accounts[l.AccountID], Debit: decimal.Zero, Credit: decimal.Zero}
					totals[l.AccountID] = b
				}
				b.Debit = b.Debit.Add(l.Debit)
				b.Credit = b.Credit.Add(l.Credit)
			}
		}
		return nil
	})

	out := make([]domain.AccountBalance, 0, len(totals))
	for _, b := range totals {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Account.DisplayOrder != out[j].Account.DisplayOrder {
			return out[i].Account.DisplayOrder < out[j].Account.DisplayOrder
		}
		return out[i].Account.Code < out[j].Account.Code
	})
	return out, nil
}

func (s *Store) ListPostedLines(_ context.Context, tenantID string, filter domain.LedgerFilter) ([]domain.LedgerLine, error) {
	var out []domain.LedgerLine
	_ = s.read(func(st *state) error {
		for _, e := range st.entries {
			if !entryMatches(e, tenantID, filter) {
				continue
			}
			for _, l := range e.Lines {
				if l.AccountID != filter.AccountID {
					continue
				}
				line := domain.LedgerLine{
					EntryID:     e.EntryID,
					LineID:      l.LineID,
					EntryDate:   e.EntryDate,
					LineOrder:   l.LineOrder,
					Description: l.Description,
					Debit:       l.Debit,
					Credit:      l.Credit,
				}
				if line.Description == "" {
					line.Description = e.Description
				}
				if e.Reference != nil {
					line.ReferenceKind = string(e.Reference.Kind())
					line.ReferenceID = e.Reference.EntityID()
				}
				out = append(out, line)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.EntryDate.Equal(b.EntryDate) {
			return a.EntryDate.Before(b.EntryDate)
		}
		if a.EntryID != b.EntryID {
			return a.EntryID < b.EntryID
		}
		return a.LineOrder < b.LineOrder
	})
	return out, nil
}

func (s *Store) SumTaxLines(_ context.Context, tenantID string, filter domain.LedgerFilter) ([]domain.TaxLineTotal, error) {
	type key struct {
		code string
		kind domain.EntityKind
	}
	totals := make(map[key]*domain.TaxLineTotal)
	_ = s.read(func(st *state) error {
		for _, e := range st.entries {
			if !entryMatches(e, tenantID, filter) {
				continue
			}
			var kind domain.EntityKind
			if e.Reference != nil {
				kind = e.Reference.Kind()
			}
			for _, l := range e.Lines {
				if l.TaxRateCode == "" {
					continue
				}
				k := key{l.TaxRateCode, kind}
				t, ok := totals[k]
				if !ok {
					t = &domain.TaxLineTotal{TaxRateCode: l.TaxRateCode, ReferenceKind: kind, Debit: decimal.Zero, Credit: decimal.Zero}
					totals[k] = t
				}
				t.Debit = t.Debit.Add(l.Debit)
				t.Credit = t.Credit.Add(l.Credit)
			}
		}
		return nil
	})

	out := make([]domain.TaxLineTotal, 0, len(totals))
	for _, t := range totals {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TaxRateCode != out[j].TaxRateCode {
			return out[i].TaxRateCode < out[j].TaxRateCode
		}
		return out[i].ReferenceKind < out[j].ReferenceKind
	})
	return out, nil
}
