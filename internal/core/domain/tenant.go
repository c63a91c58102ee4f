package domain

// AccountRole is an accounting function the engine needs a concrete account for.
type AccountRole string

const (
	RoleReceivable              AccountRole = "RECEIVABLE"
	RoleRevenue                 AccountRole = "REVENUE"
	RoleCOGS                    AccountRole = "COGS"
	RoleOutputTax               AccountRole = "OUTPUT_TAX"
	RoleInputTax                AccountRole = "INPUT_TAX"
	RoleDepreciationExpense     AccountRole = "DEPRECIATION_EXPENSE"
	RoleAccumulatedDepreciation AccountRole = "ACCUMULATED_DEPRECIATION"
	RoleRetainedEarnings        AccountRole = "RETAINED_EARNINGS"
)

// ExpectedType is the account type a role must be mapped to.
func (r AccountRole) ExpectedType() AccountType {
	switch r {
	case RoleReceivable, RoleInputTax, RoleAccumulatedDepreciation:
		return Asset
	case RoleRevenue:
		return Revenue
	case RoleCOGS, RoleDepreciationExpense:
		return Expense
	case RoleOutputTax:
		return Liability
	case RoleRetainedEarnings:
		return Equity
	}
	return ""
}

// TenantAccountConfig maps accounting roles to a tenant's accounts. It is
// validated once at setup so posting code never resolves accounts by code.
type TenantAccountConfig struct {
	TenantID                  string `json:"tenantID"`
	ReceivableAccountID       string `json:"receivableAccountID"`
	RevenueAccountID          string `json:"revenueAccountID"`
	COGSAccountID             string `json:"cogsAccountID"`
	OutputTaxAccountID        string `json:"outputTaxAccountID"`
	InputTaxAccountID         string `json:"inputTaxAccountID"`
	DepreciationExpenseID     string `json:"depreciationExpenseID"`
	AccumulatedDepreciationID string `json:"accumulatedDepreciationID"`
	RetainedEarningsID        string `json:"retainedEarningsID,omitempty"` // optional
	AuditFields
}

// Roles returns the configured role to account id mapping. Optional roles
// are omitted when unset.
func (c TenantAccountConfig) Roles() map[AccountRole]string {
	roles := map[AccountRole]string{
		RoleReceivable:              c.ReceivableAccountID,
		RoleRevenue:                 c.RevenueAccountID,
		RoleCOGS:                    c.COGSAccountID,
		RoleOutputTax:               c.OutputTaxAccountID,
		RoleInputTax:                c.InputTaxAccountID,
		RoleDepreciationExpense:     c.DepreciationExpenseID,
		RoleAccumulatedDepreciation: c.AccumulatedDepreciationID,
	}
	if c.RetainedEarningsID != "" {
		roles[RoleRetainedEarnings] = c.RetainedEarningsID
	}
	return roles
}
