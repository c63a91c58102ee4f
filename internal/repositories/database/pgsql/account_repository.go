package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, tenant_id, code, name, account_type, subtype, display_order, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

func scanAccount(row rowScanner) (domain.Account, error) {
	var acc domain.Account
	err := row.Scan(
		&acc.AccountID,
		&acc.TenantID,
		&acc.Code,
		&acc.Name,
		&acc.AccountType,
		&acc.Subtype,
		&acc.DisplayOrder,
		&acc.IsActive,
		&acc.CreatedAt,
		&acc.CreatedBy,
		&acc.LastUpdatedAt,
		&acc.LastUpdatedBy,
	)
	return acc, err
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	query := `INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`
	_, err := r.db(ctx).Exec(ctx, query,
		account.AccountID,
		account.TenantID,
		account.Code,
		account.Name,
		account.AccountType,
		account.Subtype,
		account.DisplayOrder,
		account.IsActive,
		account.CreatedAt,
		account.CreatedBy,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		return writeErr(err, "account "+account.Code)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, tenantID, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE tenant_id = $1 AND account_id = $2;`
	acc, err := scanAccount(r.db(ctx).QueryRow(ctx, query, tenantID, accountID))
	if err != nil {
		return nil, notFoundOr(err, "account "+accountID)
	}
	return &acc, nil
}

// FindAccountByCode retrieves an account by its tenant-unique code.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, tenantID, code string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE tenant_id = $1 AND code = $2;`
	acc, err := scanAccount(r.db(ctx).QueryRow(ctx, query, tenantID, code))
	if err != nil {
		return nil, notFoundOr(err, "account code "+code)
	}
	return &acc, nil
}

// FindAccountsByIDs retrieves multiple accounts by their IDs.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.Account, error) {
	out := make(map[string]domain.Account, len(accountIDs))
	if len(accountIDs) == 0 {
		return out, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE tenant_id = $1 AND account_id = ANY($2);`
	rows, err := r.db(ctx).Query(ctx, query, tenantID, accountIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query accounts", err)
	}
	defer rows.Close()

	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account", err)
		}
		out[acc.AccountID] = acc
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating accounts", err)
	}
	return out, nil
}

// ListAccounts returns the chart of accounts.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, tenantID string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE tenant_id = $1 ORDER BY display_order, code;`
	rows, err := r.db(ctx).Query(ctx, query, tenantID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list accounts", err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account", err)
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating accounts", err)
	}
	return accounts, nil
}

func (r *PgxAccountRepository) CountLinesForAccount(ctx context.Context, tenantID, accountID string) (int, error) {
	var n int
	err := r.db(ctx).QueryRow(ctx,
		`SELECT count(*) FROM journal_entry_lines WHERE tenant_id = $1 AND account_id = $2;`,
		tenantID, accountID).Scan(&n)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to count account lines", err)
	}
	return n, nil
}

// UpdateAccount writes the mutable fields of an account.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	query := `
		UPDATE accounts
		SET name = $3, display_order = $4, is_active = $5, last_updated_at = $6, last_updated_by = $7
		WHERE tenant_id = $1 AND account_id = $2;`
	tag, err := r.db(ctx).Exec(ctx, query,
		account.TenantID, account.AccountID,
		account.Name, account.DisplayOrder, account.IsActive,
		account.LastUpdatedAt, account.LastUpdatedBy)
	return expectOne(tag, err, "account "+account.AccountID)
}

func (r *PgxAccountRepository) DeleteAccount(ctx context.Context, tenantID, accountID string) error {
	tag, err := r.db(ctx).Exec(ctx, `DELETE FROM accounts WHERE tenant_id = $1 AND account_id = $2;`, tenantID, accountID)
	return expectOne(tag, err, "account "+accountID)
}

// SaveTenantAccounts upserts the role mapping, keeping the original creation stamp.
func (r *PgxAccountRepository) SaveTenantAccounts(ctx context.Context, cfg domain.TenantAccountConfig) error {
	query := `
		INSERT INTO tenant_account_configs (
			tenant_id, receivable_account_id, revenue_account_id, cogs_account_id,
			output_tax_account_id, input_tax_account_id, depreciation_expense_id,
			accumulated_depreciation_id, retained_earnings_id,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (tenant_id) DO UPDATE SET
			receivable_account_id = EXCLUDED.receivable_account_id,
			revenue_account_id = EXCLUDED.revenue_account_id,
			cogs_account_id = EXCLUDED.cogs_account_id,
			output_tax_account_id = EXCLUDED.output_tax_account_id,
			input_tax_account_id = EXCLUDED.input_tax_account_id,
			depreciation_expense_id = EXCLUDED.depreciation_expense_id,
			accumulated_depreciation_id = EXCLUDED.accumulated_depreciation_id,
			retained_earnings_id = EXCLUDED.retained_earnings_id,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;`
	_, err := r.db(ctx).Exec(ctx, query,
		cfg.TenantID,
		cfg.ReceivableAccountID,
		cfg.RevenueAccountID,
		cfg.COGSAccountID,
		cfg.OutputTaxAccountID,
		cfg.InputTaxAccountID,
		cfg.DepreciationExpenseID,
		cfg.AccumulatedDepreciationID,
		nullString(cfg.RetainedEarningsID),
		cfg.CreatedAt,
		cfg.CreatedBy,
		cfg.LastUpdatedAt,
		cfg.LastUpdatedBy,
	)
	if err != nil {
		return writeErr(err, "tenant account config "+cfg.TenantID)
	}
	return nil
}

func (r *PgxAccountRepository) FindTenantAccounts(ctx context.Context, tenantID string) (*domain.TenantAccountConfig, error) {
	query := `
		SELECT tenant_id, receivable_account_id, revenue_account_id, cogs_account_id,
		       output_tax_account_id, input_tax_account_id, depreciation_expense_id,
		       accumulated_depreciation_id, retained_earnings_id,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM tenant_account_configs
		WHERE tenant_id = $1;`
	var cfg domain.TenantAccountConfig
	var retained *string
	err := r.db(ctx).QueryRow(ctx, query, tenantID).Scan(
		&cfg.TenantID,
		&cfg.ReceivableAccountID,
		&cfg.RevenueAccountID,
		&cfg.COGSAccountID,
		&cfg.OutputTaxAccountID,
		&cfg.InputTaxAccountID,
		&cfg.DepreciationExpenseID,
		&cfg.AccumulatedDepreciationID,
		&retained,
		&cfg.CreatedAt,
		&cfg.CreatedBy,
		&cfg.LastUpdatedAt,
		&cfg.LastUpdatedBy,
	)
	if err != nil {
		return nil, notFoundOr(err, fmt.Sprintf("tenant account config %s", tenantID))
	}
	cfg.RetainedEarningsID = derefString(retained)
	return &cfg, nil
}
