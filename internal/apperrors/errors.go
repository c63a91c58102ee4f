package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates the resource is in a state that does not allow the operation.
var ErrConflict = errors.New("resource state conflict")

// ErrForbidden indicates the caller may not access the resource.
var ErrForbidden = errors.New("forbidden")

// ErrInternal is returned for unexpected infrastructure failures.
var ErrInternal = errors.New("internal error")

// Ledger and workflow policy failures. Every one of these is an expected,
// recoverable outcome returned to the caller.
var (
	ErrUnbalanced                     = errors.New("journal entry is unbalanced")
	ErrPeriodClosed                   = errors.New("fiscal period is closed")
	ErrAlreadyPosted                  = errors.New("journal entry is already posted")
	ErrNoActivePeriod                 = errors.New("no active fiscal period for date")
	ErrApprovalRequired               = errors.New("approval required before posting")
	ErrAlreadyInProgress              = errors.New("approval already in progress")
	ErrUnauthorized                   = errors.New("user is not authorized for this step")
	ErrStepMismatch                   = errors.New("workflow step does not match current step")
	ErrNotPending                     = errors.New("workflow instance is not pending")
	ErrInsufficientAccountsConfigured = errors.New("tenant accounts are not fully configured")
	ErrAssetNotActive                 = errors.New("asset is not active")
	ErrScheduleExhausted              = errors.New("depreciation schedule exhausted")
	ErrNoWorkflowConfigured           = errors.New("no workflow configured for entity type")
	ErrAccountInUse                   = errors.New("account is referenced by journal lines")
)

// AppError wraps an infrastructure error with an HTTP-ish status code.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap keeps errors.Is working through the wrapper.
func (e *AppError) Unwrap() error {
	return e.Err
}
