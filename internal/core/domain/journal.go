package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the lifecycle state of a journal entry.
type EntryStatus string

const (
	Draft  EntryStatus = "DRAFT"
	Posted EntryStatus = "POSTED"
)

// JournalEntry is a set of debit and credit lines recorded together.
// Once Posted the entry and its lines never change.
type JournalEntry struct {
	EntryID        string             `json:"entryID"`
	TenantID       string             `json:"tenantID"`
	FiscalYearID   string             `json:"fiscalYearID"`
	FiscalPeriodID string             `json:"fiscalPeriodID"`
	EntryDate      time.Time          `json:"entryDate"`
	Description    string             `json:"description"`
	Reference      EntityRef          `json:"-"`
	ReversalOf     *string            `json:"reversalOf,omitempty"`
	Status         EntryStatus        `json:"status"`
	PostedBy       *string            `json:"postedBy,omitempty"`
	PostedAt       *time.Time         `json:"postedAt,omitempty"`
	Lines          []JournalEntryLine `json:"lines"`
	AuditFields
}

// JournalEntryLine is one debit or credit against an account.
// By construction exactly one of Debit and Credit is non-zero.
type JournalEntryLine struct {
	LineID       string          `json:"lineID"`
	EntryID      string          `json:"entryID"`
	AccountID    string          `json:"accountID"`
	CurrencyCode string          `json:"currencyCode"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
	Description  string          `json:"description"`
	TaxRateCode  string          `json:"taxRateCode,omitempty"` // set on VAT lines
	LineOrder    int             `json:"lineOrder"`
}

// IsPosted reports whether the entry has been posted.
func (e JournalEntry) IsPosted() bool {
	return e.Status == Posted
}

// Totals returns the summed debit and credit of all lines.
func (e JournalEntry) Totals() (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, l := range e.Lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit, credit
}

// ApprovalSubject is the entity whose approval gates posting of this entry:
// the business object it references, the entry it reverses, or itself.
func (e JournalEntry) ApprovalSubject() EntityRef {
	if e.Reference != nil {
		return e.Reference
	}
	if e.ReversalOf != nil {
		return JournalEntryRef{EntryID: *e.ReversalOf}
	}
	return JournalEntryRef{EntryID: e.EntryID}
}

// Swapped returns a copy of the line with debit and credit exchanged.
func (l JournalEntryLine) Swapped() JournalEntryLine {
	l.Debit, l.Credit = l.Credit, l.Debit
	return l
}
