package handlers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type JournalHandlerTestSuite struct {
	handlerSuite
	periodID string
}

func (suite *JournalHandlerTestSuite) SetupTest() {
	suite.handlerSuite.SetupTest()
	suite.periodID = uuid.NewString()
}

func (suite *JournalHandlerTestSuite) entry(status domain.EntryStatus) *domain.JournalEntry {
	entryID := uuid.NewString()
	return &domain.JournalEntry{
		EntryID:        entryID,
		TenantID:       testTenantID,
		FiscalPeriodID: suite.periodID,
		EntryDate:      time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Description:    "Office supplies",
		Status:         status,
		Lines: []domain.JournalEntryLine{
			{LineID: uuid.NewString(), EntryID: entryID, AccountID: "expense", CurrencyCode: "EUR", Debit: decimal.NewFromInt(100), Credit: decimal.Zero, LineOrder: 1},
			{LineID: uuid.NewString(), EntryID: entryID, AccountID: "cash", CurrencyCode: "EUR", Debit: decimal.Zero, Credit: decimal.NewFromInt(100), LineOrder: 2},
		},
		AuditFields: domain.NewAuditFields(testUserID, time.Now()),
	}
}

func (suite *JournalHandlerTestSuite) TestCreateDraft_Success() {
	draft := suite.entry(domain.Draft)
	body := fmt.Sprintf(`{
		"fiscalPeriodId": %q,
		"entryDate": "2024-03-15T00:00:00Z",
		"description": "Office supplies",
		"lines": [
			{"accountId": "expense", "currencyCode": "EUR", "debit": "100", "credit": "0"},
			{"accountId": "cash", "currencyCode": "EUR", "debit": "0", "credit": "100"}
		]
	}`, suite.periodID)

	suite.journal.On("CreateDraft", mock.Anything, testTenantID,
		mock.MatchedBy(func(req dto.PostingRequest) bool {
			return req.FiscalPeriodID == suite.periodID &&
				len(req.Lines) == 2 &&
				req.Lines[0].Debit.Equal(decimal.NewFromInt(100)) &&
				req.Lines[1].Credit.Equal(decimal.NewFromInt(100))
		}),
		byUser(testUserID),
	).Return(draft, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/journal-entries", body)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.JournalEntryResponse
	suite.decode(w, &resp)
	suite.Equal(draft.EntryID, resp.EntryID)
	suite.Equal(domain.Draft, resp.Status)
	suite.Len(resp.Lines, 2)
}

func (suite *JournalHandlerTestSuite) TestCreateDraft_NegativeAmountRejected() {
	body := fmt.Sprintf(`{
		"fiscalPeriodId": %q,
		"entryDate": "2024-03-15T00:00:00Z",
		"lines": [{"accountId": "cash", "currencyCode": "EUR", "debit": "-5", "credit": "0"}]
	}`, suite.periodID)

	w := suite.do(http.MethodPost, "/api/v1/journal-entries", body)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *JournalHandlerTestSuite) TestCreateDraft_ReferenceNeedsBothParts() {
	body := fmt.Sprintf(`{
		"fiscalPeriodId": %q,
		"entryDate": "2024-03-15T00:00:00Z",
		"referenceType": "SALES_INVOICE"
	}`, suite.periodID)

	w := suite.do(http.MethodPost, "/api/v1/journal-entries", body)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *JournalHandlerTestSuite) TestPost_StatusMapping() {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"unbalanced", fmt.Errorf("%w: debit 100 credit 90", apperrors.ErrUnbalanced), http.StatusUnprocessableEntity},
		{"approval required", apperrors.ErrApprovalRequired, http.StatusUnprocessableEntity},
		{"period closed", apperrors.ErrPeriodClosed, http.StatusConflict},
		{"already posted", apperrors.ErrAlreadyPosted, http.StatusConflict},
		{"missing entry", apperrors.ErrNotFound, http.StatusNotFound},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			entryID := uuid.NewString()
			suite.journal.On("Post", mock.Anything, testTenantID, entryID, byUser(testUserID)).Return(nil, tt.err).Once()

			w := suite.do(http.MethodPost, "/api/v1/journal-entries/"+entryID+"/post", nil)

			suite.Equal(tt.status, w.Code)
			suite.NotEmpty(suite.errorMessage(w))
		})
	}
}

func (suite *JournalHandlerTestSuite) TestPost_Success() {
	posted := suite.entry(domain.Posted)
	suite.journal.On("Post", mock.Anything, testTenantID, posted.EntryID, byUser(testUserID)).Return(posted, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/journal-entries/"+posted.EntryID+"/post", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.JournalEntryResponse
	suite.decode(w, &resp)
	suite.Equal(domain.Posted, resp.Status)
}

func (suite *JournalHandlerTestSuite) TestReverse_Success() {
	original := suite.entry(domain.Posted)
	reversal := suite.entry(domain.Posted)
	reversal.ReversalOf = &original.EntryID
	suite.journal.On("Reverse", mock.Anything, testTenantID, original.EntryID, byUser(testUserID)).Return(reversal, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/journal-entries/"+original.EntryID+"/reverse", nil)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.JournalEntryResponse
	suite.decode(w, &resp)
	suite.Require().NotNil(resp.ReversalOf)
	suite.Equal(original.EntryID, *resp.ReversalOf)
}

func (suite *JournalHandlerTestSuite) TestAppendLines_PostedEntry() {
	entryID := uuid.NewString()
	suite.journal.On("AppendLines", mock.Anything, testTenantID, entryID, mock.Anything, byUser(testUserID)).
		Return(nil, apperrors.ErrAlreadyPosted).Once()

	body := `{"lines":[{"accountId":"cash","currencyCode":"EUR","debit":"1","credit":"0"}]}`
	w := suite.do(http.MethodPost, "/api/v1/journal-entries/"+entryID+"/lines", body)

	suite.Equal(http.StatusConflict, w.Code)
	suite.journal.AssertNotCalled(suite.T(), "ReplaceLines", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalHandlerTestSuite) TestDeleteDraft() {
	entryID := uuid.NewString()
	suite.journal.On("DeleteDraft", mock.Anything, testTenantID, entryID).Return(nil).Once()

	w := suite.do(http.MethodDelete, "/api/v1/journal-entries/"+entryID, nil)

	suite.Equal(http.StatusNoContent, w.Code)
}

func (suite *JournalHandlerTestSuite) TestListEntries_PassesQuery() {
	next := "token-2"
	suite.journal.On("ListEntries", mock.Anything, testTenantID,
		mock.MatchedBy(func(p dto.ListEntriesParams) bool {
			return p.FiscalPeriodID == suite.periodID && p.Limit == 10 && p.NextToken != nil && *p.NextToken == "token-1"
		}),
	).Return(&dto.ListEntriesResponse{Entries: []dto.JournalEntryResponse{}, NextToken: &next}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/journal-entries?fiscalPeriodId="+suite.periodID+"&limit=10&nextToken=token-1", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListEntriesResponse
	suite.decode(w, &resp)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal(next, *resp.NextToken)
}

func (suite *JournalHandlerTestSuite) TestListEntries_LimitTooLarge() {
	w := suite.do(http.MethodGet, "/api/v1/journal-entries?limit=1000", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *JournalHandlerTestSuite) TestGetApproval_UsesReferencedEntity() {
	entry := suite.entry(domain.Draft)
	entry.Reference = domain.SalesInvoiceRef{InvoiceID: "inv-1"}
	inst := &domain.WorkflowInstance{
		InstanceID:  uuid.NewString(),
		Entity:      entry.Reference,
		CurrentStep: 1,
		Status:      domain.WorkflowPending,
	}
	suite.journal.On("GetEntry", mock.Anything, testTenantID, entry.EntryID).Return(entry, nil).Once()
	suite.workflow.On("LatestInstanceFor", mock.Anything, testTenantID, domain.SalesInvoiceRef{InvoiceID: "inv-1"}).Return(inst, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/journal-entries/"+entry.EntryID+"/approval", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.WorkflowInstanceResponse
	suite.decode(w, &resp)
	suite.Equal(string(domain.KindSalesInvoice), resp.EntityKind)
	suite.Equal("inv-1", resp.EntityID)
}

func TestJournalHandler(t *testing.T) {
	suite.Run(t, new(JournalHandlerTestSuite))
}
