package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

func (s *Store) FindAccountByID(_ context.Context, tenantID, accountID string) (*domain.Account, error) {
	var out *domain.Account
	err := s.read(func(st *state) error {
		acc, ok := st.accounts[accountID]
		if !ok || acc.TenantID != tenantID {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		out = &acc
		return nil
	})
	return out, err
}

func (s *Store) FindAccountByCode(_ context.Context, tenantID, code string) (*domain.Account, error) {
	var out *domain.Account
	err := s.read(func(st *state) error {
		for _, acc := range st.accounts {
			if acc.TenantID == tenantID && acc.Code == code {
				out = &acc
				return nil
			}
		}
		return fmt.Errorf("%w: account code %s", apperrors.ErrNotFound, code)
	})
	return out, err
}

func (s *Store) FindAccountsByIDs(_ context.Context, tenantID string, accountIDs []string) (map[string]domain.Account, error) {
	out := make(map[string]domain.Account, len(accountIDs))
	_ = s.read(func(st *state) error {
		for _, id := range accountIDs {
			if acc, ok := st.accounts[id]; ok && acc.TenantID == tenantID {
				out[id] = acc
			}
		}
		return nil
	})
	return out, nil
}

func (s *Store) ListAccounts(_ context.Context, tenantID string) ([]domain.Account, error) {
	var out []domain.Account
	_ = s.read(func(st *state) error {
		for _, acc := range st.accounts {
			if acc.TenantID == tenantID {
				out = append(out, acc)
			}
		}
		return nil
	})
	sortAccounts(out)
	return out, nil
}

func sortAccounts(accounts []domain.Account) {
	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].DisplayOrder != accounts[j].DisplayOrder {
			return accounts[i].DisplayOrder < accounts[j].DisplayOrder
		}
		return accounts[i].Code < accounts[j].Code
	})
}

func (s *Store) CountLinesForAccount(_ context.Context, tenantID, accountID string) (int, error) {
	n := 0
	_ = s.read(func(st *state) error {
		for _, e := range st.entries {
			if e.TenantID != tenantID {
				continue
			}
			for _, l := range e.Lines {
				if l.AccountID == accountID {
					n++
				}
			}
		}
		return nil
	})
	return n, nil
}

func (s *Store) SaveAccount(ctx context.Context, account domain.Account) error {
	return s.write(ctx, func(st *state) error {
		if _, ok := st.accounts[account.AccountID]; ok {
			return fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrDuplicate, account.AccountID)
		}
		for _, acc := range st.accounts {
			if acc.TenantID == account.TenantID && acc.Code == account.Code {
				return fmt.Errorf("%w: account code %s already exists", apperrors.ErrDuplicate, account.Code)
			}
		}
		st.accounts[account.AccountID] = account
		return nil
	})
}

func (s *Store) UpdateAccount(ctx context.Context, account domain.Account) error {
	return s.write(ctx, func(st *state) error {
		existing, ok := st.accounts[account.AccountID]
		if !ok || existing.TenantID != account.TenantID {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, account.AccountID)
		}
		st.accounts[account.AccountID] = account
		return nil
	})
}

func (s *Store) DeleteAccount(ctx context.Context, tenantID, accountID string) error {
	return s.write(ctx, func(st *state) error {
		existing, ok := st.accounts[accountID]
		if !ok || existing.TenantID != tenantID {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		delete(st.accounts, accountID)
		return nil
	})
}

func (s *Store) SaveTenantAccounts(ctx context.Context, cfg domain.TenantAccountConfig) error {
	return s.write(ctx, func(st *state) error {
		if existing, ok := st.tenantConfigs[cfg.TenantID]; ok {
			cfg.CreatedAt, cfg.CreatedBy = existing.CreatedAt, existing.CreatedBy
		}
		st.tenantConfigs[cfg.TenantID] = cfg
		return nil
	})
}

func (s *Store) FindTenantAccounts(_ context.Context, tenantID string) (*domain.TenantAccountConfig, error) {
	var out *domain.TenantAccountConfig
	err := s.read(func(st *state) error {
		cfg, ok := st.tenantConfigs[tenantID]
		if !ok {
			return fmt.Errorf("%w: tenant account config %s", apperrors.ErrNotFound, tenantID)
		}
		out = &cfg
		return nil
	})
	return out, err
}
