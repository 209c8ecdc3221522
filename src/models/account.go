package models

import "github.com/shopspring/decimal"

// AccountType classifies entries in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeEquity    AccountType = "EQUITY"
	AccountTypeRevenue   AccountType = "REVENUE"
	AccountTypeExpense   AccountType = "EXPENSE"
)

// AccountTypes lists every valid account type.
var AccountTypes = []AccountType{
	AccountTypeAsset,
	AccountTypeLiability,
	AccountTypeEquity,
	AccountTypeRevenue,
	AccountTypeExpense,
}

// Valid reports whether t is one of the known account types.
func (t AccountType) Valid() bool {
	for _, known := range AccountTypes {
		if t == known {
			return true
		}
	}
	return false
}

// AccountStatus is the lifecycle state of a ledger account.
type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "ACTIVE"
	AccountStatusInactive AccountStatus = "INACTIVE"
)

// ChartOfAccount is one entry in the hierarchical accounting catalog.
// Non-root entries carry the same account type as their parent and sit one
// level below it.
type ChartOfAccount struct {
	Code        string      `json:"code"`
	Name        string      `json:"name"`
	AccountType AccountType `json:"accountType"`
	ParentCode  *string     `json:"parentCode,omitempty"`
	Level       int         `json:"level"`
	IsActive    bool        `json:"isActive"`
	CreatedAt   string      `json:"createdAt,omitempty"`
}

// ChartOfAccountRequest is the create/update payload for a chart entry.
// Level is computed server-side from the parent; a submitted level is ignored.
type ChartOfAccountRequest struct {
	Code        string      `json:"code"`
	Name        string      `json:"name"`
	AccountType AccountType `json:"accountType"`
	ParentCode  *string     `json:"parentCode,omitempty"`
	IsActive    *bool       `json:"isActive,omitempty"`
}

// LedgerAccount is a concrete balance-bearing account tied to one chart
// entry. Its account type always mirrors the referenced chart entry's type.
type LedgerAccount struct {
	ID                 int64           `json:"id"`
	Code               string          `json:"code"`
	Name               string          `json:"name"`
	ChartOfAccountCode string          `json:"chartOfAccountCode"`
	AccountType        AccountType     `json:"accountType"`
	Currency           string          `json:"currency"`
	Balance            decimal.Decimal `json:"balance"`
	AvailableBalance   decimal.Decimal `json:"availableBalance"`
	Status             AccountStatus   `json:"status"`
	CreatedAt          string          `json:"createdAt,omitempty"`
}

// LedgerAccountRequest is the create/update payload for a ledger account.
type LedgerAccountRequest struct {
	Code               string        `json:"code"`
	Name               string        `json:"name"`
	ChartOfAccountCode string        `json:"chartOfAccountCode"`
	Currency           string        `json:"currency"`
	Status             AccountStatus `json:"status,omitempty"`
}
