package repositories

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account of a tenant.
	FindAccountByID(ctx context.Context, tenantID, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves an account by its tenant-unique code.
	FindAccountByCode(ctx context.Context, tenantID, code string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts by their IDs. Missing ids are absent from the map.
	FindAccountsByIDs(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts returns the tenant's chart of accounts ordered by display order then code.
	ListAccounts(ctx context.Context, tenantID string) ([]domain.Account, error)

	// CountLinesForAccount returns how many journal lines reference the account.
	CountLinesForAccount(ctx context.Context, tenantID, accountID string) (int, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	SaveAccount(ctx context.Context, account domain.Account) error
	UpdateAccount(ctx context.Context, account domain.Account) error
	DeleteAccount(ctx context.Context, tenantID, accountID string) error
}

// TenantConfigRepository stores the tenant's account role mapping.
type TenantConfigRepository interface {
	SaveTenantAccounts(ctx context.Context, cfg domain.TenantAccountConfig) error
	FindTenantAccounts(ctx context.Context, tenantID string) (*domain.TenantAccountConfig, error)
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	TenantConfigRepository
}
