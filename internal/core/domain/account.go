package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// IsValid reports whether t is one of the five known account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// NormalSide returns the side on which the account type naturally increases.
func (t AccountType) NormalSide() EntrySide {
	switch t {
	case Asset, Expense:
		return Debit
	default:
		return Credit
	}
}

// IsBalanceSheet reports whether accounts of this type appear on the balance sheet.
func (t AccountType) IsBalanceSheet() bool {
	return t == Asset || t == Liability || t == Equity
}

// EntrySide is either side of a double-entry line.
type EntrySide string

const (
	Debit  EntrySide = "DEBIT"
	Credit EntrySide = "CREDIT"
)

// AccountSubtype refines expense accounts for reporting.
type AccountSubtype string

const (
	SubtypeNone AccountSubtype = ""
	SubtypeCOGS AccountSubtype = "COGS"
)

// Account is a ledger account in a tenant's chart of accounts.
type Account struct {
	AccountID    string         `json:"accountID"`
	TenantID     string         `json:"tenantID"`
	Code         string         `json:"code"` // unique per tenant
	Name         string         `json:"name"`
	AccountType  AccountType    `json:"accountType"`
	Subtype      AccountSubtype `json:"subtype"`
	DisplayOrder int            `json:"displayOrder"`
	IsActive     bool           `json:"isActive"`
	AuditFields
}

// IsCOGS reports whether the account is tagged as cost of goods sold.
func (a Account) IsCOGS() bool {
	return a.AccountType == Expense && a.Subtype == SubtypeCOGS
}
