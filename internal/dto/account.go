package dto

import (
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Code         string                `json:"code" binding:"required,max=32"`
	Name         string                `json:"name" binding:"required"`
	AccountType  domain.AccountType    `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	Subtype      domain.AccountSubtype `json:"subtype" binding:"omitempty,oneof=COGS"`
	DisplayOrder int                   `json:"displayOrder"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Name         *string `json:"name"`
	DisplayOrder *int    `json:"displayOrder"`
	IsActive     *bool   `json:"isActive"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID    string                `json:"accountID"`
	Code         string                `json:"code"`
	Name         string                `json:"name"`
	AccountType  domain.AccountType    `json:"accountType"`
	Subtype      domain.AccountSubtype `json:"subtype,omitempty"`
	DisplayOrder int                   `json:"displayOrder"`
	IsActive     bool                  `json:"isActive"`
	CreatedAt    time.Time             `json:"createdAt"`
	CreatedBy    string                `json:"createdBy"`
}

// TenantAccountsRequest maps accounting roles to account ids.
type TenantAccountsRequest struct {
	ReceivableAccountID       string `json:"receivableAccountID" binding:"required"`
	RevenueAccountID          string `json:"revenueAccountID" binding:"required"`
	COGSAccountID             string `json:"cogsAccountID" binding:"required"`
	OutputTaxAccountID        string `json:"outputTaxAccountID" binding:"required"`
	InputTaxAccountID         string `json:"inputTaxAccountID" binding:"required"`
	DepreciationExpenseID     string `json:"depreciationExpenseID" binding:"required"`
	AccumulatedDepreciationID string `json:"accumulatedDepreciationID" binding:"required"`
	RetainedEarningsID        string `json:"retainedEarningsID"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:    acc.AccountID,
		Code:         acc.Code,
		Name:         acc.Name,
		AccountType:  acc.AccountType,
		Subtype:      acc.Subtype,
		DisplayOrder: acc.DisplayOrder,
		IsActive:     acc.IsActive,
		CreatedAt:    acc.CreatedAt,
		CreatedBy:    acc.CreatedBy,
	}
}

// ToAccountResponses converts a slice of accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}

// ToTenantAccountConfig builds the domain config for a tenant.
func (r TenantAccountsRequest) ToTenantAccountConfig(tenantID string) domain.TenantAccountConfig {
	return domain.TenantAccountConfig{
		TenantID:                  tenantID,
		ReceivableAccountID:       r.ReceivableAccountID,
		RevenueAccountID:          r.RevenueAccountID,
		COGSAccountID:             r.COGSAccountID,
		OutputTaxAccountID:        r.OutputTaxAccountID,
		InputTaxAccountID:         r.InputTaxAccountID,
		DepreciationExpenseID:     r.DepreciationExpenseID,
		AccumulatedDepreciationID: r.AccumulatedDepreciationID,
		RetainedEarningsID:        r.RetainedEarningsID,
	}
}
