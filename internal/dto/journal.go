package dto

import (
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PostingLineRequest is one line of a posting request. Amounts must not be negative.
type PostingLineRequest struct {
	AccountID    string          `json:"accountId" binding:"required"`
	CurrencyCode string          `json:"currencyCode" binding:"required,len=3"`
	Debit        decimal.Decimal `json:"debit" binding:"dgte0"`
	Credit       decimal.Decimal `json:"credit" binding:"dgte0"`
	Description  string          `json:"description"`
	TaxRateCode  string          `json:"taxRateCode"`
}

// PostingRequest creates a draft journal entry.
type PostingRequest struct {
	FiscalPeriodID string               `json:"fiscalPeriodId" binding:"required"`
	EntryDate      time.Time            `json:"entryDate" binding:"required"`
	ReferenceType  string               `json:"referenceType" binding:"required_with=ReferenceID"`
	ReferenceID    string               `json:"referenceId" binding:"required_with=ReferenceType"`
	Description    string               `json:"description"`
	Lines          []PostingLineRequest `json:"lines" binding:"dive"`
}

// ReplaceLinesRequest swaps all lines of a draft entry.
type ReplaceLinesRequest struct {
	Lines []PostingLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ListEntriesParams holds parameters for listing journal entries.
type ListEntriesParams struct {
	FiscalPeriodID string  `form:"fiscalPeriodId"`
	Limit          int     `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken      *string `form:"nextToken"`
}

// JournalLineResponse defines the data returned for an entry line.
type JournalLineResponse struct {
	LineID       string          `json:"lineID"`
	AccountID    string          `json:"accountID"`
	CurrencyCode string          `json:"currencyCode"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
	Description  string          `json:"description,omitempty"`
	TaxRateCode  string          `json:"taxRateCode,omitempty"`
	LineOrder    int             `json:"lineOrder"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	EntryID        string                `json:"entryID"`
	FiscalYearID   string                `json:"fiscalYearID"`
	FiscalPeriodID string                `json:"fiscalPeriodID"`
	EntryDate      time.Time             `json:"entryDate"`
	Description    string                `json:"description"`
	ReferenceType  string                `json:"referenceType,omitempty"`
	ReferenceID    string                `json:"referenceID,omitempty"`
	ReversalOf     *string               `json:"reversalOf,omitempty"`
	Status         domain.EntryStatus    `json:"status"`
	CreatedBy      string                `json:"createdBy"`
	CreatedAt      time.Time             `json:"createdAt"`
	PostedBy       *string               `json:"postedBy,omitempty"`
	PostedAt       *time.Time            `json:"postedAt,omitempty"`
	Lines          []JournalLineResponse `json:"lines"`
}

// ListEntriesResponse is one page of journal entries.
type ListEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// ToJournalEntryResponse converts a domain.JournalEntry to its DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	resp := JournalEntryResponse{
		EntryID:        e.EntryID,
		FiscalYearID:   e.FiscalYearID,
		FiscalPeriodID: e.FiscalPeriodID,
		EntryDate:      e.EntryDate,
		Description:    e.Description,
		ReversalOf:     e.ReversalOf,
		Status:         e.Status,
		CreatedBy:      e.CreatedBy,
		CreatedAt:      e.CreatedAt,
		PostedBy:       e.PostedBy,
		PostedAt:       e.PostedAt,
		Lines:          make([]JournalLineResponse, len(e.Lines)),
	}
	if e.Reference != nil {
		resp.ReferenceType = string(e.Reference.Kind())
		resp.ReferenceID = e.Reference.EntityID()
	}
	for i, l := range e.Lines {
		resp.Lines[i] = JournalLineResponse{
			LineID:       l.LineID,
			AccountID:    l.AccountID,
			CurrencyCode: l.CurrencyCode,
			Debit:        l.Debit,
			Credit:       l.Credit,
			Description:  l.Description,
			TaxRateCode:  l.TaxRateCode,
			LineOrder:    l.LineOrder,
		}
	}
	return resp
}
