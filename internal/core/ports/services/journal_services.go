package services

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// JournalReaderSvc defines read operations for journal data
type JournalReaderSvc interface {
	// GetEntry retrieves a journal entry with its lines.
	GetEntry(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a page of entries, optionally restricted to a period.
	ListEntries(ctx context.Context, tenantID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
}

// JournalWriterSvc defines operations on draft entries
type JournalWriterSvc interface {
	// CreateDraft validates and stores a new draft entry.
	CreateDraft(ctx context.Context, tenantID string, req dto.PostingRequest, actor domain.Actor) (*domain.JournalEntry, error)

	// ReplaceLines swaps every line of a draft.
	ReplaceLines(ctx context.Context, tenantID, entryID string, lines []dto.PostingLineRequest, actor domain.Actor) (*domain.JournalEntry, error)

	// AppendLines adds lines to the end of a draft.
	AppendLines(ctx context.Context, tenantID, entryID string, lines []dto.PostingLineRequest, actor domain.Actor) (*domain.JournalEntry, error)

	// DeleteDraft removes a draft entry. Posted entries cannot be deleted.
	DeleteDraft(ctx context.Context, tenantID, entryID string) error
}

// PostingSvc moves entries into the ledger
type PostingSvc interface {
	// Post checks approval, balance and period state and marks the draft posted.
	Post(ctx context.Context, tenantID, entryID string, actor domain.Actor) (*domain.JournalEntry, error)

	// Reverse posts a mirror entry of a posted entry in the currently open period.
	Reverse(ctx context.Context, tenantID, entryID string, actor domain.Actor) (*domain.JournalEntry, error)
}

// JournalSvcFacade combines all journal-related service interfaces
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
	PostingSvc
}
