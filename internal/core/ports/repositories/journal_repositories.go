package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// JournalReader defines read operations for journal data
type JournalReader interface {
	// FindEntryByID retrieves an entry with its lines ordered by line order.
	FindEntryByID(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error)

	// FindEntryByIDForUpdate is FindEntryByID that also locks the entry row until
	// the surrounding transaction ends.
	FindEntryByIDForUpdate(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a page of entries (newest first) optionally restricted to one period.
	// It returns the entries, a token for the next page, and an error.
	ListEntries(ctx context.Context, tenantID, periodID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
}

// JournalWriter defines write operations for journal data
type JournalWriter interface {
	// SaveEntry persists a new draft entry and its lines.
	SaveEntry(ctx context.Context, entry domain.JournalEntry) error

	// ReplaceLines swaps all lines of a draft entry.
	ReplaceLines(ctx context.Context, tenantID, entryID string, lines []domain.JournalEntryLine) error

	// MarkPosted flips a draft entry to posted.
	MarkPosted(ctx context.Context, tenantID, entryID, postedBy string, postedAt time.Time) error

	// DeleteEntry removes a draft entry and its lines.
	DeleteEntry(ctx context.Context, tenantID, entryID string) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
