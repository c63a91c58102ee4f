package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/SscSPs/ledger_engine/internal/platform/analytics"
	"github.com/gin-gonic/gin"
)

// journalHandler handles draft editing, posting and reversal of journal entries.
type journalHandler struct {
	journalService  portssvc.JournalSvcFacade
	workflowService portssvc.ApprovalGate
	analytics       *analytics.Client
}

func newJournalHandler(js portssvc.JournalSvcFacade, ws portssvc.ApprovalGate, ac *analytics.Client) *journalHandler {
	return &journalHandler{
		journalService:  js,
		workflowService: ws,
		analytics:       ac,
	}
}

// registerJournalRoutes registers routes related to journal entries.
func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade, workflowService portssvc.ApprovalGate, ac *analytics.Client) {
	h := newJournalHandler(journalService, workflowService, ac)

	entries := rg.Group("/journal-entries")
	{
		entries.POST("", h.createDraft)
		entries.GET("", h.listEntries)
		entries.GET("/:entryID", h.getEntry)
		entries.DELETE("/:entryID", h.deleteDraft)
		entries.PUT("/:entryID/lines", h.replaceLines)
		entries.POST("/:entryID/lines", h.appendLines)
		entries.POST("/:entryID/post", h.postEntry)
		entries.POST("/:entryID/reverse", h.reverseEntry)
		entries.GET("/:entryID/approval", h.getApproval)
	}
}

// createDraft godoc
// @Summary Create a draft journal entry
// @Description Validates the lines and stores the entry as a draft. Drafts do not affect balances.
// @Tags journal
// @Accept  json
// @Produce  json
// @Param   entry body dto.PostingRequest true "Journal entry"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account or period not found"
// @Failure 500 {object} map[string]string "Failed to create journal entry"
// @Security BearerAuth
// @Router /journal-entries [post]
func (h *journalHandler) createDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PostingRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	tenantID, actor, ok := requestIdentity(c, logger)
	if !ok {
		return
	}

	logger.Info("Received request to create journal entry", slog.String("fiscal_period_id", req.FiscalPeriodID), slog.Int("lines", len(req.Lines)))

	entry, err := h.journalService.CreateDraft(c.Request.Context(), tenantID, req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to create journal entry")
		return
	}

	logger.Info("Journal entry created", slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// listEntries godoc
// @Summary List journal entries
// @Description Lists entries newest first, optionally restricted to one fiscal period
// @Tags journal
// @Produce  json
// @Param   fiscalPeriodId query string false "Fiscal period ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} map[string]string "Invalid query"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list journal entries"
// @Security BearerAuth
// @Router /journal-entries [get]
func (h *journalHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListEntriesParams
	if !bindQuery(c, logger, &params) {
		return
	}
	tenantID, _, ok := requestIdentity(c, logger)
	if !ok {
		return
	}

	resp, err := h.journalService.ListEntries(c.Request.Context(), tenantID, params)
	if err != nil {
		respondError(c, logger, err, "Failed to list journal entries")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getEntry godoc
// @Summary Get a journal entry
// @Tags journal
// @Produce  json
// @Param   entryID path string true "Journal entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Failure 500 {object} map[string]string "Failed to retrieve journal entry"
// @Security BearerAuth
// @Router /journal-entries/{entryID} [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, _, ok := requestIdentity(c, logger)
	if !ok {
		return
	}

	entry, err := h.journalService.GetEntry(c.Request.Context(), tenantID, c.Param("entryID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// deleteDraft godoc
// @Summary Delete a draft journal entry
// @Tags journal
// @Param   entryID path string true "Journal entry ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Failure 409 {object} map[string]string "Journal entry is already posted"
// @Failure 500 {object} map[string]string "Failed to delete journal entry"
// @Security BearerAuth
// @Router /journal-entries/{entryID} [delete]
func (h *journalHandler) deleteDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, _, ok := requestIdentity(c, logger)
	if !ok {
		return
	}

	entryID := c.Param("entryID")
	if err := h.journalService.DeleteDraft(c.Request.Context(), tenantID, entryID); err != nil {
		respondError(c, logger, err, "Failed to delete journal entry")
		return
	}

	logger.Info("Journal entry deleted", slog.String("entry_id", entryID))
	c.Status(http.StatusNoContent)
}

// replaceLines godoc
// @Summary Replace the lines of a draft
// @Tags journal
// @Accept  json
// @Produce  json
// @Param   entryID path string true "Journal entry ID"
// @Param   lines body dto.ReplaceLinesRequest true "New lines"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Failure 409 {object} map[string]string "Journal entry is already posted"
// @Failure 500 {object} map[string]string "Failed to update journal entry"
// @Security BearerAuth
// @Router /journal-entries/{entryID}/lines [put]
func (h *journalHandler) replaceLines(c *gin.Context) {
	h.editLines(c, false)
}

// appendLines godoc
// @Summary Append lines to a draft
// @Tags journal
// @Accept  json
// @Produce  json
// @Param   entryID path string true "Journal entry ID"
// @Param   lines body dto.ReplaceLinesRequest true "Lines to add"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Failure 409 {object} map[string]string "Journal entry is already posted"
// @Failure 500 {object} map[string]string "Failed to update journal entry"
// @Security BearerAuth
// @Router /journal-entries/{entryID}/lines [post]
func (h *journalHandler) appendLines(c *gin.Context) {
	h.editLines(c, true)
}

func (h *journalHandler) editLines(c *gin.Context, appendMode bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ReplaceLinesRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	tenantID, actor, ok := requestIdentity(c, logger)
	if !ok {
		return
	}

	entryID := c.Param("entryID")
	logger = logger.With(slog.String("entry_id", entryID), slog.Bool("append", appendMode))

	edit := h.journalService.ReplaceLines
	if appendMode {
		edit = h.journalService.AppendLines
	}
	entry, err := edit(c.Request.Context(), tenantID, entryID, req.Lines, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to update journal entry")
		return
	}

	logger.Info("Journal entry lines updated", slog.Int("lines", len(entry.Lines)))
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// postEntry godoc
// @Summary Post a journal entry
// @Description Checks approval, balance and period state, then moves the draft into the ledger
// @Tags journal
// @Produce  json
// @Param   entryID path string true "Journal entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Failure 409 {object} map[string]string "Already posted or period closed"
// @Failure 422 {object} map[string]string "Unbalanced or approval required"
// @Failure 500 {object} map[string]string "Failed to post journal entry"
// @Security BearerAuth
// @Router /journal-entries/{entryID}/post [post]
func (h *journalHandler) postEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, actor, ok := requestIdentity(c, logger)
	if !ok {
		return
	}

	entryID := c.Param("entryID")
	logger = logger.With(slog.String("entry_id", entryID))

	entry, err := h.journalService.Post(c.Request.Context(), tenantID, entryID, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to post journal entry")
		return
	}

	debit, _ := entry.Totals()
	middleware.PosthogEvent(c, h.analytics, "journal_entry_posted", map[string]any{
		"entry_id": entry.EntryID,
		"lines":    len(entry.Lines),
		"total":    debit.String(),
	})
	logger.Info("Journal entry posted")
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// reverseEntry godoc
// @Summary Reverse a posted journal entry
// @Description Posts a mirror entry with debits and credits swapped in the currently open period
// @Tags journal
// @Produce  json
// @Param   entryID path string true "Journal entry ID"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Failure 409 {object} map[string]string "Entry is not posted"
// @Failure 422 {object} map[string]string "No open period"
// @Failure 500 {object} map[string]string "Failed to reverse journal entry"
// @Security BearerAuth
// @Router /journal-entries/{entryID}/reverse [post]
func (h *journalHandler) reverseEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, actor, ok := requestIdentity(c, logger)
	if !ok {
		return
	}

	entryID := c.Param("entryID")
	logger = logger.With(slog.String("entry_id", entryID))

	reversal, err := h.journalService.Reverse(c.Request.Context(), tenantID, entryID, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to reverse journal entry")
		return
	}

	middleware.PosthogEvent(c, h.analytics, "journal_entry_reversed", map[string]any{
		"entry_id":    entryID,
		"reversal_id": reversal.EntryID,
	})
	logger.Info("Journal entry reversed", slog.String("reversal_id", reversal.EntryID))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(reversal))
}

// getApproval godoc
// @Summary Get the approval state of a journal entry
// @Description Returns the latest workflow instance for the entry's approval subject
// @Tags journal
// @Produce  json
// @Param   entryID path string true "Journal entry ID"
// @Success 200 {object} dto.WorkflowInstanceResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Entry or approval not found"
// @Failure 500 {object} map[string]string "Failed to retrieve approval"
// @Security BearerAuth
// @Router /journal-entries/{entryID}/approval [get]
func (h *journalHandler) getApproval(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, _, ok := requestIdentity(c, logger)
	if !ok {
		return
	}

	entry, err := h.journalService.GetEntry(c.Request.Context(), tenantID, c.Param("entryID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve approval")
		return
	}
	inst, err := h.workflowService.LatestInstanceFor(c.Request.Context(), tenantID, entry.ApprovalSubject())
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve approval")
		return
	}
	c.JSON(http.StatusOK, dto.ToWorkflowInstanceResponse(inst, nil))
}
