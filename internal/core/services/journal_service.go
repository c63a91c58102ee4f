package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
	"github.com/google/uuid"
)

const defaultEntryPageSize = 20

type journalService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.AccountReader
	txManager   portsrepo.TransactionManager
	calendar    portssvc.FiscalCalendarSvc
	approvals   portssvc.ApprovalGate
}

// JournalServiceOption is a functional option for configuring the journal service
type JournalServiceOption func(*journalService)

// WithApprovalGate makes posting consult the approval workflow engine.
func WithApprovalGate(gate portssvc.ApprovalGate) JournalServiceOption {
	return func(s *journalService) {
		s.approvals = gate
	}
}

// WithJournalClock overrides the time source.
func WithJournalClock(clock func() time.Time) JournalServiceOption {
	return func(s *journalService) {
		s.clock = clock
	}
}

// NewJournalService creates the posting engine.
func NewJournalService(
	journalRepo portsrepo.JournalRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	txManager portsrepo.TransactionManager,
	calendar portssvc.FiscalCalendarSvc,
	options ...JournalServiceOption,
) portssvc.JournalSvcFacade {
	svc := &journalService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		txManager:   txManager,
		calendar:    calendar,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

func (s *journalService) GetEntry(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error) {
	return s.journalRepo.FindEntryByID(ctx, tenantID, entryID)
}

func (s *journalService) ListEntries(ctx context.Context, tenantID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultEntryPageSize
	}
	entries, next, err := s.journalRepo.ListEntries(ctx, tenantID, params.FiscalPeriodID, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list journal entries", slog.String("tenant_id", tenantID))
		return nil, err
	}
	resp := &dto.ListEntriesResponse{
		Entries:   make([]dto.JournalEntryResponse, len(entries)),
		NextToken: next,
	}
	for i := range entries {
		resp.Entries[i] = dto.ToJournalEntryResponse(&entries[i])
	}
	return resp, nil
}

// CreateDraft stores a new draft entry. Balance and period state are checked at posting time.
func (s *journalService) CreateDraft(ctx context.Context, tenantID string, req dto.PostingRequest, actor domain.Actor) (*domain.JournalEntry, error) {
	period, err := s.calendar.GetPeriod(ctx, tenantID, req.FiscalPeriodID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: fiscal period %s does not exist", apperrors.ErrValidation, req.FiscalPeriodID)
		}
		return nil, err
	}
	if !period.Contains(req.EntryDate) {
		return nil, fmt.Errorf("%w: entry date %s is outside period %s",
			apperrors.ErrValidation, req.EntryDate.Format(time.DateOnly), period.Name)
	}

	var ref domain.EntityRef
	if req.ReferenceType != "" || req.ReferenceID != "" {
		ref, err = domain.ParseEntityRef(req.ReferenceType, req.ReferenceID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
	}

	entry := domain.JournalEntry{
		EntryID:        uuid.NewString(),
		TenantID:       tenantID,
		FiscalYearID:   period.FiscalYearID,
		FiscalPeriodID: period.FiscalPeriodID,
		EntryDate:      domain.StartOfDay(req.EntryDate),
		Description:    req.Description,
		Reference:      ref,
		Status:         domain.Draft,
		AuditFields:    domain.NewAuditFields(actor.UserID, s.Now()),
	}
	entry.Lines, err = s.buildLines(ctx, tenantID, entry.EntryID, req.Lines, 0, true)
	if err != nil {
		return nil, err
	}

	if err := s.journalRepo.SaveEntry(ctx, entry); err != nil {
		s.LogError(ctx, err, "Failed to save draft entry", slog.String("tenant_id", tenantID))
		return nil, err
	}
	s.LogInfo(ctx, "Draft journal entry created",
		slog.String("entry_id", entry.EntryID),
		slog.Int("lines", len(entry.Lines)))
	return &entry, nil
}

// buildLines validates line requests and numbers them from offset.
func (s *journalService) buildLines(ctx context.Context, tenantID, entryID string, reqs []dto.PostingLineRequest, offset int, requireActive bool) ([]domain.JournalEntryLine, error) {
	if len(reqs) == 0 {
		return nil, nil
	}
	ids := make([]string, 0, len(reqs))
	for _, l := range reqs {
		ids = append(ids, l.AccountID)
	}
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}

	lines := make([]domain.JournalEntryLine, len(reqs))
	for i, l := range reqs {
		acc, ok := accounts[l.AccountID]
		if !ok {
			return nil, fmt.Errorf("%w: account %s does not exist", apperrors.ErrValidation, l.AccountID)
		}
		if requireActive && !acc.IsActive {
			return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, acc.Code)
		}
		if l.Debit.IsNegative() || l.Credit.IsNegative() {
			return nil, fmt.Errorf("%w: line %d has a negative amount", apperrors.ErrValidation, offset+i+1)
		}
		if l.Debit.IsZero() == l.Credit.IsZero() {
			return nil, fmt.Errorf("%w: line %d must carry exactly one of debit or credit", apperrors.ErrValidation, offset+i+1)
		}
		lines[i] = domain.JournalEntryLine{
			LineID:       uuid.NewString(),
			EntryID:      entryID,
			AccountID:    l.AccountID,
			CurrencyCode: l.CurrencyCode,
			Debit:        l.Debit,
			Credit:       l.Credit,
			Description:  l.Description,
			TaxRateCode:  l.TaxRateCode,
			LineOrder:    offset + i + 1,
		}
	}
	return lines, nil
}

// ReplaceLines swaps every line of a draft entry.
func (s *journalService) ReplaceLines(ctx context.Context, tenantID, entryID string, reqs []dto.PostingLineRequest, actor domain.Actor) (*domain.JournalEntry, error) {
	return s.editLines(ctx, tenantID, entryID, reqs, false)
}

// AppendLines adds lines after the existing lines of a draft entry.
func (s *journalService) AppendLines(ctx context.Context, tenantID, entryID string, reqs []dto.PostingLineRequest, actor domain.Actor) (*domain.JournalEntry, error) {
	return s.editLines(ctx, tenantID, entryID, reqs, true)
}

func (s *journalService) editLines(ctx context.Context, tenantID, entryID string, reqs []dto.PostingLineRequest, appendMode bool) (*domain.JournalEntry, error) {
	err := s.txManager.RunInTx(ctx, func(ctx context.Context) error {
		entry, err := s.journalRepo.FindEntryByIDForUpdate(ctx, tenantID, entryID)
		if err != nil {
			return err
		}
		if entry.IsPosted() {
			return fmt.Errorf("%w: entry %s", apperrors.ErrAlreadyPosted, entryID)
		}
		offset := 0
		if appendMode {
			offset = len(entry.Lines)
		}
		lines, err := s.buildLines(ctx, tenantID, entryID, reqs, offset, true)
		if err != nil {
			return err
		}
		if appendMode {
			lines = append(entry.Lines, lines...)
		}
		return s.journalRepo.ReplaceLines(ctx, tenantID, entryID, lines)
	})
	if err != nil {
		return nil, err
	}
	return s.journalRepo.FindEntryByID(ctx, tenantID, entryID)
}

// DeleteDraft removes an entry that was never posted.
func (s *journalService) DeleteDraft(ctx context.Context, tenantID, entryID string) error {
	return s.txManager.RunInTx(ctx, func(ctx context.Context) error {
		entry, err := s.journalRepo.FindEntryByIDForUpdate(ctx, tenantID, entryID)
		if err != nil {
			return err
		}
		if entry.IsPosted() {
			return fmt.Errorf("%w: entry %s", apperrors.ErrAlreadyPosted, entryID)
		}
		return s.journalRepo.DeleteEntry(ctx, tenantID, entryID)
	})
}

// Post transitions a draft to posted. Approval is checked before the balance
// and period checks so pending approval is reported even for drafts still being edited.
func (s *journalService) Post(ctx context.Context, tenantID, entryID string, actor domain.Actor) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, tenantID, entryID)
	if err != nil {
		return nil, err
	}
	if entry.IsPosted() {
		return nil, fmt.Errorf("%w: entry %s", apperrors.ErrAlreadyPosted, entryID)
	}
	if err := s.checkApproval(ctx, tenantID, entry, actor); err != nil {
		return nil, err
	}

	err = s.txManager.RunInTx(ctx, func(ctx context.Context) error {
		locked, err := s.journalRepo.FindEntryByIDForUpdate(ctx, tenantID, entryID)
		if err != nil {
			return err
		}
		if locked.IsPosted() {
			return fmt.Errorf("%w: entry %s", apperrors.ErrAlreadyPosted, entryID)
		}
		if len(locked.Lines) == 0 {
			return fmt.Errorf("%w: entry %s has no lines", apperrors.ErrValidation, entryID)
		}
		debit, credit := locked.Totals()
		if !accounting.WithinTolerance(debit, credit) {
			return fmt.Errorf("%w: debit %s, credit %s", apperrors.ErrUnbalanced, debit.StringFixed(2), credit.StringFixed(2))
		}
		if err := s.calendar.AssertPostable(ctx, tenantID, locked.FiscalPeriodID); err != nil {
			return err
		}
		return s.journalRepo.MarkPosted(ctx, tenantID, entryID, actor.UserID, s.Now())
	})
	if err != nil {
		s.LogDebug(ctx, "Posting rejected", slog.String("entry_id", entryID), slog.String("reason", err.Error()))
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry posted",
		slog.String("entry_id", entryID),
		slog.String("posted_by", actor.UserID))
	return s.journalRepo.FindEntryByID(ctx, tenantID, entryID)
}

// checkApproval blocks posting while the entry's approval subject lacks an
// approved workflow instance. Starting approval is a side effect of the first attempt.
func (s *journalService) checkApproval(ctx context.Context, tenantID string, entry *domain.JournalEntry, actor domain.Actor) error {
	if s.approvals == nil {
		return nil
	}
	subject := entry.ApprovalSubject()
	required, err := s.approvals.RequiresApproval(ctx, tenantID, subject.Kind())
	if err != nil {
		return err
	}
	if !required {
		return nil
	}
	approved, err := s.approvals.IsApproved(ctx, tenantID, subject)
	if err != nil {
		return err
	}
	if approved {
		return nil
	}

	latest, err := s.approvals.LatestInstanceFor(ctx, tenantID, subject)
	switch {
	case err == nil && latest.Status == domain.WorkflowApproved:
		return nil
	case err == nil && latest.Status == domain.WorkflowPending:
		return fmt.Errorf("%w: instance %s at step %d", apperrors.ErrApprovalRequired, latest.InstanceID, latest.CurrentStep)
	case err != nil && !errors.Is(err, apperrors.ErrNotFound):
		return err
	}

	inst, err := s.approvals.Start(ctx, tenantID, subject, actor)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoWorkflowConfigured) {
			return nil
		}
		return err
	}
	switch inst.Status {
	case domain.WorkflowApproved:
		return nil
	case domain.WorkflowRejected:
		return fmt.Errorf("%w: instance %s was rejected automatically", apperrors.ErrApprovalRequired, inst.InstanceID)
	}
	return fmt.Errorf("%w: instance %s started for %s", apperrors.ErrApprovalRequired, inst.InstanceID, domain.RefKey(subject))
}

// Reverse posts a new entry in the current period with every line swapped.
func (s *journalService) Reverse(ctx context.Context, tenantID, entryID string, actor domain.Actor) (*domain.JournalEntry, error) {
	original, err := s.journalRepo.FindEntryByID(ctx, tenantID, entryID)
	if err != nil {
		return nil, err
	}
	if !original.IsPosted() {
		return nil, fmt.Errorf("%w: only posted entries can be reversed", apperrors.ErrValidation)
	}

	now := s.Now()
	period, err := s.calendar.ActivePeriodFor(ctx, tenantID, now)
	if err != nil {
		return nil, err
	}

	reversal := domain.JournalEntry{
		EntryID:        uuid.NewString(),
		TenantID:       tenantID,
		FiscalYearID:   period.FiscalYearID,
		FiscalPeriodID: period.FiscalPeriodID,
		EntryDate:      domain.StartOfDay(now),
		Description:    "Reversal of " + original.EntryID,
		Reference:      original.Reference,
		ReversalOf:     &original.EntryID,
		Status:         domain.Draft,
		AuditFields:    domain.NewAuditFields(actor.UserID, now),
	}
	if original.Description != "" {
		reversal.Description = "Reversal of " + original.Description
	}
	reversal.Lines = make([]domain.JournalEntryLine, len(original.Lines))
	for i, l := range original.Lines {
		swapped := l.Swapped()
		swapped.LineID = uuid.NewString()
		swapped.EntryID = reversal.EntryID
		reversal.Lines[i] = swapped
	}

	if err := s.journalRepo.SaveEntry(ctx, reversal); err != nil {
		return nil, err
	}
	posted, err := s.Post(ctx, tenantID, reversal.EntryID, actor)
	if err != nil {
		if !errors.Is(err, apperrors.ErrApprovalRequired) {
			if delErr := s.journalRepo.DeleteEntry(ctx, tenantID, reversal.EntryID); delErr != nil {
				s.LogError(ctx, delErr, "Failed to discard unposted reversal", slog.String("entry_id", reversal.EntryID))
			}
		}
		return nil, err
	}
	s.LogInfo(ctx, "Journal entry reversed",
		slog.String("entry_id", entryID),
		slog.String("reversal_id", posted.EntryID))
	return posted, nil
}
