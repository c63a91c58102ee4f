package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/google/uuid"
)

// accountServiceImpl implements the AccountSvcFacade interface
type accountServiceImpl struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// ServiceOption is a functional option for configuring the account service
type ServiceOption func(*accountServiceImpl)

// WithAccountClock overrides the time source.
func WithAccountClock(clock func() time.Time) ServiceOption {
	return func(s *accountServiceImpl) {
		s.clock = clock
	}
}

// NewAccountServiceImpl creates a new account service with the given options
func NewAccountServiceImpl(accountRepo portsrepo.AccountRepositoryFacade, options ...ServiceOption) portssvc.AccountSvcFacade {
	svc := &accountServiceImpl{
		accountRepo: accountRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.AccountSvcFacade = (*accountServiceImpl)(nil)

// CreateAccount handles the business logic for creating a new account.
func (s *accountServiceImpl) CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	if !req.AccountType.IsValid() {
		return nil, fmt.Errorf("%w: invalid account type %q", apperrors.ErrValidation, req.AccountType)
	}
	if req.Subtype != domain.SubtypeNone && req.AccountType != domain.Expense {
		return nil, fmt.Errorf("%w: subtype %s is only allowed on expense accounts", apperrors.ErrValidation, req.Subtype)
	}
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, fmt.Errorf("%w: account code is required", apperrors.ErrValidation)
	}

	if _, err := s.accountRepo.FindAccountByCode(ctx, tenantID, code); err == nil {
		return nil, fmt.Errorf("%w: account code %s", apperrors.ErrDuplicate, code)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check account code", slog.String("code", code))
		return nil, apperrors.NewAppError(500, "failed to check account code", err)
	}

	account := domain.Account{
		AccountID:    uuid.NewString(),
		TenantID:     tenantID,
		Code:         code,
		Name:         req.Name,
		AccountType:  req.AccountType,
		Subtype:      req.Subtype,
		DisplayOrder: req.DisplayOrder,
		IsActive:     true,
		AuditFields:  domain.NewAuditFields(userID, s.Now()),
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account",
			slog.String("tenant_id", tenantID),
			slog.String("code", code))
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("code", account.Code))
	return &account, nil
}

// GetAccountByID retrieves an account by its ID
func (s *accountServiceImpl) GetAccountByID(ctx context.Context, tenantID, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, tenantID, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogDebug(ctx, "Account not found", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

// GetAccountByIDs retrieves multiple accounts by their IDs.
func (s *accountServiceImpl) GetAccountByIDs(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	return s.accountRepo.FindAccountsByIDs(ctx, tenantID, accountIDs)
}

// ListAccounts returns the chart of accounts ordered by display order and code.
func (s *accountServiceImpl) ListAccounts(ctx context.Context, tenantID string) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, tenantID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("tenant_id", tenantID))
		return nil, err
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

// UpdateAccount updates the mutable fields of an account. Type and code are fixed
// once the account exists.
func (s *accountServiceImpl) UpdateAccount(ctx context.Context, tenantID, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: account name cannot be empty", apperrors.ErrValidation)
		}
		account.Name = *req.Name
	}
	if req.DisplayOrder != nil {
		account.DisplayOrder = *req.DisplayOrder
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}
	account.Touch(userID, s.Now())

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, err
	}
	return account, nil
}

// DeleteAccount removes an account that no journal line references.
func (s *accountServiceImpl) DeleteAccount(ctx context.Context, tenantID, accountID string) error {
	if _, err := s.accountRepo.FindAccountByID(ctx, tenantID, accountID); err != nil {
		return err
	}
	count, err := s.accountRepo.CountLinesForAccount(ctx, tenantID, accountID)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: %d lines", apperrors.ErrAccountInUse, count)
	}
	if err := s.accountRepo.DeleteAccount(ctx, tenantID, accountID); err != nil {
		s.LogError(ctx, err, "Failed to delete account", slog.String("account_id", accountID))
		return err
	}
	s.LogInfo(ctx, "Account deleted", slog.String("account_id", accountID))
	return nil
}

// ConfigureTenantAccounts validates and stores the role to account mapping.
// Every role must point at an active account of the expected type.
func (s *accountServiceImpl) ConfigureTenantAccounts(ctx context.Context, cfg domain.TenantAccountConfig, userID string) (*domain.TenantAccountConfig, error) {
	roles := cfg.Roles()
	ids := make([]string, 0, len(roles))
	for role, id := range roles {
		if id == "" {
			return nil, fmt.Errorf("%w: role %s has no account", apperrors.ErrInsufficientAccountsConfigured, role)
		}
		ids = append(ids, id)
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, cfg.TenantID, ids)
	if err != nil {
		return nil, err
	}
	for role, id := range roles {
		acc, ok := accounts[id]
		if !ok {
			return nil, fmt.Errorf("%w: role %s references unknown account %s", apperrors.ErrInsufficientAccountsConfigured, role, id)
		}
		if !acc.IsActive {
			return nil, fmt.Errorf("%w: role %s references inactive account %s", apperrors.ErrInsufficientAccountsConfigured, role, acc.Code)
		}
		if acc.AccountType != role.ExpectedType() {
			return nil, fmt.Errorf("%w: role %s needs a %s account, %s is %s",
				apperrors.ErrInsufficientAccountsConfigured, role, role.ExpectedType(), acc.Code, acc.AccountType)
		}
	}

	cfg.AuditFields = domain.NewAuditFields(userID, s.Now())
	if err := s.accountRepo.SaveTenantAccounts(ctx, cfg); err != nil {
		s.LogError(ctx, err, "Failed to save tenant accounts", slog.String("tenant_id", cfg.TenantID))
		return nil, err
	}
	s.LogInfo(ctx, "Tenant accounts configured", slog.String("tenant_id", cfg.TenantID))
	return &cfg, nil
}

// GetTenantAccounts returns the tenant's role mapping.
func (s *accountServiceImpl) GetTenantAccounts(ctx context.Context, tenantID string) (*domain.TenantAccountConfig, error) {
	cfg, err := s.accountRepo.FindTenantAccounts(ctx, tenantID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: tenant %s", apperrors.ErrInsufficientAccountsConfigured, tenantID)
		}
		return nil, err
	}
	return cfg, nil
}
