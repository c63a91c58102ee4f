package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/handlers"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/SscSPs/ledger_engine/internal/platform/analytics"
	"github.com/SscSPs/ledger_engine/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const (
	testTenantID   = "tenant-1"
	testUserID     = "user-1"
	testJWTSecret  = "test-secret-key-that-is-long-enough"
	testJWTIssuer  = "ledger-test"
	testTriggerKey = "trigger-key"
)

// handlerSuite routes requests through RegisterRoutes with every service mocked.
type handlerSuite struct {
	suite.Suite
	router       *gin.Engine
	fiscal       *MockFiscalService
	accounts     *MockAccountService
	journal      *MockJournalService
	workflow     *MockWorkflowService
	reporting    *MockReportingService
	assets       *MockAssetService
	depreciation *MockDepreciationService
}

func (suite *handlerSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	suite.Require().NoError(dto.RegisterValidators())
}

func (suite *handlerSuite) SetupTest() {
	suite.fiscal = new(MockFiscalService)
	suite.accounts = new(MockAccountService)
	suite.journal = new(MockJournalService)
	suite.workflow = new(MockWorkflowService)
	suite.reporting = new(MockReportingService)
	suite.assets = new(MockAssetService)
	suite.depreciation = new(MockDepreciationService)

	cfg := &config.Config{
		JWTSecret:     testJWTSecret,
		JWTIssuer:     testJWTIssuer,
		TriggerAPIKey: testTriggerKey,
		IsProduction:  true,
	}
	services := &portssvc.ServiceContainer{
		Fiscal:       suite.fiscal,
		Account:      suite.accounts,
		Journal:      suite.journal,
		Workflow:     suite.workflow,
		Reporting:    suite.reporting,
		Asset:        suite.assets,
		Depreciation: suite.depreciation,
	}

	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, cfg, services, &analytics.Client{})
}

func (suite *handlerSuite) TearDownTest() {
	suite.fiscal.AssertExpectations(suite.T())
	suite.accounts.AssertExpectations(suite.T())
	suite.journal.AssertExpectations(suite.T())
	suite.workflow.AssertExpectations(suite.T())
	suite.reporting.AssertExpectations(suite.T())
	suite.assets.AssertExpectations(suite.T())
	suite.depreciation.AssertExpectations(suite.T())
}

// generateTestToken creates a signed bearer token for the test tenant.
func (suite *handlerSuite) generateTestToken(userID string, roles ...string) string {
	claims := middleware.Claims{
		TenantID: testTenantID,
		Roles:    roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testJWTIssuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return token
}

// do serves an authenticated request. body may be nil, a string or a value to encode.
func (suite *handlerSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	req := suite.newRequest(method, path, body)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(testUserID))
	return suite.serve(req)
}

func (suite *handlerSuite) newRequest(method, path string, body any) *http.Request {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return req
}

func (suite *handlerSuite) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *handlerSuite) decode(w *httptest.ResponseRecorder, v any) {
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), v), "body: %s", w.Body.String())
}

func (suite *handlerSuite) errorMessage(w *httptest.ResponseRecorder) string {
	var body map[string]string
	suite.decode(w, &body)
	return body["error"]
}

// byUser matches the actor the auth middleware builds from the test token.
func byUser(userID string) any {
	return mock.MatchedBy(func(a domain.Actor) bool { return a.UserID == userID })
}
