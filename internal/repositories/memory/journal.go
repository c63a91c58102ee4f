package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/utils/pagination"
)

func copyEntry(e domain.JournalEntry) domain.JournalEntry {
	e.Lines = append([]domain.JournalEntryLine(nil), e.Lines...)
	return e
}

func (s *Store) FindEntryByID(_ context.Context, tenantID, entryID string) (*domain.JournalEntry, error) {
	var out *domain.JournalEntry
	err := s.read(func(st *state) error {
		e, ok := st.entries[entryID]
		if !ok || e.TenantID != tenantID {
			return fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entryID)
		}
		c := copyEntry(e)
		out = &c
		return nil
	})
	return out, err
}

// FindEntryByIDForUpdate relies on units of work being serialized by txMu.
func (s *Store) FindEntryByIDForUpdate(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error) {
	return s.FindEntryByID(ctx, tenantID, entryID)
}

func (s *Store) ListEntries(_ context.Context, tenantID, periodID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	var after *pagination.EntryCursor
	if nextToken != nil && *nextToken != "" {
		c, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		after = &c
	}

	var all []domain.JournalEntry
	_ = s.read(func(st *state) error {
		for _, e := range st.entries {
			if e.TenantID != tenantID || (periodID != "" && e.FiscalPeriodID != periodID) {
				continue
			}
			if after != nil && !cursorOf(e).After(*after) {
				continue
			}
			all = append(all, copyEntry(e))
		}
		return nil
	})
	sort.Slice(all, func(i, j int) bool { return cursorOf(all[j]).After(cursorOf(all[i])) })

	if limit <= 0 || len(all) <= limit {
		return all, nil, nil
	}
	page := all[:limit]
	token := pagination.EncodeToken(cursorOf(page[len(page)-1]))
	return page, &token, nil
}

func cursorOf(e domain.JournalEntry) pagination.EntryCursor {
	return pagination.EntryCursor{EntryDate: e.EntryDate, CreatedAt: e.CreatedAt, EntryID: e.EntryID}
}

func (s *Store) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	return s.write(ctx, func(st *state) error {
		if _, ok := st.entries[entry.EntryID]; ok {
			return fmt.Errorf("%w: journal entry %s already exists", apperrors.ErrDuplicate, entry.EntryID)
		}
		st.entries[entry.EntryID] = copyEntry(entry)
		return nil
	})
}

func (s *Store) draftLocked(st *state, tenantID, entryID string) (domain.JournalEntry, error) {
	e, ok := st.entries[entryID]
	if !ok || e.TenantID != tenantID {
		return domain.JournalEntry{}, fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entryID)
	}
	if e.IsPosted() {
		return domain.JournalEntry{}, fmt.Errorf("%w: journal entry %s", apperrors.ErrAlreadyPosted, entryID)
	}
	return e, nil
}

func (s *Store) ReplaceLines(ctx context.Context, tenantID, entryID string, lines []domain.JournalEntryLine) error {
	return s.write(ctx, func(st *state) error {
		e, err := s.draftLocked(st, tenantID, entryID)
		if err != nil {
			return err
		}
		e.Lines = append([]domain.JournalEntryLine(nil), lines...)
		st.entries[entryID] = e
		return nil
	})
}

func (s *Store) MarkPosted(ctx context.Context, tenantID, entryID, postedBy string, postedAt time.Time) error {
	return s.write(ctx, func(st *state) error {
		e, err := s.draftLocked(st, tenantID, entryID)
		if err != nil {
			return err
		}
		e.Status = domain.Posted
		e.PostedBy = &postedBy
		e.PostedAt = &postedAt
		e.Touch(postedBy, postedAt)
		st.entries[entryID] = e
		return nil
	})
}

func (s *Store) DeleteEntry(ctx context.Context, tenantID, entryID string) error {
	return s.write(ctx, func(st *state) error {
		if _, err := s.draftLocked(st, tenantID, entryID); err != nil {
			return err
		}
		delete(st.entries, entryID)
		return nil
	})
}
