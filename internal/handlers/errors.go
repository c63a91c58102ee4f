package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/SscSPs/ledger_engine/internal/platform/lock"
	"github.com/gin-gonic/gin"
)

// errorStatuses maps expected service failures to HTTP statuses. Order matters
// only where an error wraps more than one sentinel; the first match wins.
var errorStatuses = []struct {
	err    error
	status int
}{
	{apperrors.ErrValidation, http.StatusBadRequest},
	{apperrors.ErrNotFound, http.StatusNotFound},
	{apperrors.ErrUnauthorized, http.StatusForbidden},
	{apperrors.ErrForbidden, http.StatusForbidden},
	{apperrors.ErrDuplicate, http.StatusConflict},
	{apperrors.ErrAlreadyPosted, http.StatusConflict},
	{apperrors.ErrAlreadyInProgress, http.StatusConflict},
	{apperrors.ErrStepMismatch, http.StatusConflict},
	{apperrors.ErrNotPending, http.StatusConflict},
	{apperrors.ErrAccountInUse, http.StatusConflict},
	{apperrors.ErrPeriodClosed, http.StatusConflict},
	{apperrors.ErrAssetNotActive, http.StatusConflict},
	{apperrors.ErrConflict, http.StatusConflict},
	{lock.ErrLockHeld, http.StatusConflict},
	{apperrors.ErrUnbalanced, http.StatusUnprocessableEntity},
	{apperrors.ErrNoActivePeriod, http.StatusUnprocessableEntity},
	{apperrors.ErrApprovalRequired, http.StatusUnprocessableEntity},
	{apperrors.ErrInsufficientAccountsConfigured, http.StatusUnprocessableEntity},
	{apperrors.ErrScheduleExhausted, http.StatusUnprocessableEntity},
	{apperrors.ErrNoWorkflowConfigured, http.StatusUnprocessableEntity},
}

// respondError writes the status for err. Expected failures echo the error
// text; anything else is logged and answered with fallback.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			logger.Warn(fallback, slog.String("error", err.Error()))
			c.JSON(e.status, gin.H{"error": err.Error()})
			return
		}
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Code >= 400 && appErr.Code < 500 {
		logger.Warn(fallback, slog.String("error", err.Error()))
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}

	logger.Error(fallback, slog.String("error", err.Error()))
	c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
}

// requestIdentity returns the tenant and actor set by the auth middleware,
// answering 401 when either is missing.
func requestIdentity(c *gin.Context, logger *slog.Logger) (string, domain.Actor, bool) {
	tenantID, ok := middleware.GetTenantIDFromContext(c)
	if !ok {
		logger.Error("Tenant ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", domain.Actor{}, false
	}
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", domain.Actor{}, false
	}
	return tenantID, actor, true
}

// bindJSON binds the body into req, answering 400 on failure.
func bindJSON(c *gin.Context, logger *slog.Logger, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		logger.Warn("Failed to bind JSON", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return false
	}
	return true
}

// bindQuery binds query parameters into req, answering 400 on failure.
func bindQuery(c *gin.Context, logger *slog.Logger, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		logger.Warn("Failed to bind query parameters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return false
	}
	return true
}
