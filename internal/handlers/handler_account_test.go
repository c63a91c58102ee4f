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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AccountHandlerTestSuite struct {
	handlerSuite
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_Success() {
	req := dto.CreateAccountRequest{
		Code:        "1000",
		Name:        "Cash",
		AccountType: domain.Asset,
	}
	created := &domain.Account{
		AccountID:   uuid.NewString(),
		TenantID:    testTenantID,
		Code:        req.Code,
		Name:        req.Name,
		AccountType: req.AccountType,
		IsActive:    true,
		AuditFields: domain.NewAuditFields(testUserID, time.Now()),
	}
	suite.accounts.On("CreateAccount", mock.Anything, testTenantID, req, testUserID).Return(created, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts", req)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.AccountResponse
	suite.decode(w, &resp)
	suite.Equal(created.AccountID, resp.AccountID)
	suite.Equal("1000", resp.Code)
	suite.True(resp.IsActive)
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_InvalidType() {
	w := suite.do(http.MethodPost, "/api/v1/accounts", `{"code":"1000","name":"Cash","accountType":"MAGIC"}`)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(suite.errorMessage(w), "Invalid request format")
	suite.accounts.AssertNotCalled(suite.T(), "CreateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_DuplicateCode() {
	suite.accounts.On("CreateAccount", mock.Anything, testTenantID, mock.Anything, testUserID).
		Return(nil, fmt.Errorf("%w: account code 1000", apperrors.ErrDuplicate)).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts", dto.CreateAccountRequest{Code: "1000", Name: "Cash", AccountType: domain.Asset})

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *AccountHandlerTestSuite) TestGetAccount_NotFound() {
	accountID := uuid.NewString()
	suite.accounts.On("GetAccountByID", mock.Anything, testTenantID, accountID).
		Return(nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/"+accountID, nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *AccountHandlerTestSuite) TestListAccounts_InfrastructureFailureIsHidden() {
	suite.accounts.On("ListAccounts", mock.Anything, testTenantID).
		Return(nil, apperrors.NewAppError(500, "failed to list accounts", assert.AnError)).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts", nil)

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.Equal("Failed to list accounts", suite.errorMessage(w))
}

func (suite *AccountHandlerTestSuite) TestDeleteAccount() {
	inUse, unused := uuid.NewString(), uuid.NewString()
	suite.accounts.On("DeleteAccount", mock.Anything, testTenantID, inUse).
		Return(fmt.Errorf("%w: account %s", apperrors.ErrAccountInUse, inUse)).Once()
	suite.accounts.On("DeleteAccount", mock.Anything, testTenantID, unused).Return(nil).Once()

	suite.Equal(http.StatusConflict, suite.do(http.MethodDelete, "/api/v1/accounts/"+inUse, nil).Code)
	suite.Equal(http.StatusNoContent, suite.do(http.MethodDelete, "/api/v1/accounts/"+unused, nil).Code)
}

func (suite *AccountHandlerTestSuite) TestConfigureTenantAccounts() {
	req := dto.TenantAccountsRequest{
		ReceivableAccountID:       "ar",
		RevenueAccountID:          "rev",
		COGSAccountID:             "cogs",
		OutputTaxAccountID:        "vat-out",
		InputTaxAccountID:         "vat-in",
		DepreciationExpenseID:     "dep-exp",
		AccumulatedDepreciationID: "acc-dep",
	}
	cfg := req.ToTenantAccountConfig(testTenantID)
	suite.accounts.On("ConfigureTenantAccounts", mock.Anything, cfg, testUserID).Return(&cfg, nil).Once()

	w := suite.do(http.MethodPut, "/api/v1/tenant-accounts", req)

	suite.Equal(http.StatusOK, w.Code)
	var resp domain.TenantAccountConfig
	suite.decode(w, &resp)
	suite.Equal("cogs", resp.COGSAccountID)
}

func (suite *AccountHandlerTestSuite) TestGetTenantAccounts_NotConfigured() {
	suite.accounts.On("GetTenantAccounts", mock.Anything, testTenantID).
		Return(nil, apperrors.ErrInsufficientAccountsConfigured).Once()

	w := suite.do(http.MethodGet, "/api/v1/tenant-accounts", nil)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *AccountHandlerTestSuite) TestMissingToken() {
	w := suite.serve(suite.newRequest(http.MethodGet, "/api/v1/accounts", nil))

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func TestAccountHandler(t *testing.T) {
	suite.Run(t, new(AccountHandlerTestSuite))
}
