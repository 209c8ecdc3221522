package models

import "github.com/shopspring/decimal"

// ProductCategory groups products sharing the same posting profile. The
// required GL-mapping set is configured per category, not hard-coded.
type ProductCategory string

const (
	CategoryCurrentAccount ProductCategory = "CURRENT_ACCOUNT"
	CategorySavingsAccount ProductCategory = "SAVINGS_ACCOUNT"
	CategoryTermDeposit    ProductCategory = "TERM_DEPOSIT"
	CategoryLoan           ProductCategory = "LOAN"
)

func (c ProductCategory) Valid() bool {
	switch c {
	case CategoryCurrentAccount, CategorySavingsAccount, CategoryTermDeposit, CategoryLoan:
		return true
	}
	return false
}

// Product is a configurable bank product. Its behavior lives entirely in the
// attached configuration rows.
type Product struct {
	ID          int64           `json:"id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Category    ProductCategory `json:"category"`
	Description string          `json:"description,omitempty"`
	IsActive    bool            `json:"isActive"`
	CreatedAt   string          `json:"createdAt,omitempty"`
}

// ProductRequest is the create/update payload for a product.
type ProductRequest struct {
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Category    ProductCategory `json:"category"`
	Description string          `json:"description,omitempty"`
	IsActive    *bool           `json:"isActive,omitempty"`
}

// MappingType names the posting role a ledger account plays for a product.
type MappingType string

const (
	MappingAssetAccount     MappingType = "ASSET_ACCOUNT"
	MappingLiabilityAccount MappingType = "LIABILITY_ACCOUNT"
	MappingFeeAccount       MappingType = "FEE_ACCOUNT"
	MappingInterestAccount  MappingType = "INTEREST_ACCOUNT"
	MappingRevenueAccount   MappingType = "REVENUE_ACCOUNT"
	MappingExpenseAccount   MappingType = "EXPENSE_ACCOUNT"
)

func (m MappingType) Valid() bool {
	switch m {
	case MappingAssetAccount, MappingLiabilityAccount, MappingFeeAccount,
		MappingInterestAccount, MappingRevenueAccount, MappingExpenseAccount:
		return true
	}
	return false
}

// ProductGLMapping associates a product with the ledger account that
// receives postings of a given kind. At most one mapping per type per
// product.
type ProductGLMapping struct {
	ID              string      `json:"id"`
	ProductID       int64       `json:"productId"`
	MappingType     MappingType `json:"mappingType"`
	LedgerAccountID int64       `json:"ledgerAccountId"`
	CreatedAt       string      `json:"createdAt,omitempty"`
}

// GLMappingRequest is the create/update payload for a GL mapping.
type GLMappingRequest struct {
	MappingType     MappingType `json:"mappingType"`
	LedgerAccountID int64       `json:"ledgerAccountId"`
}

// EffectiveWindow is the [effectiveFrom, effectiveTo] date range during
// which a configuration row applies. Dates are YYYY-MM-DD strings; a nil
// EffectiveTo means open-ended.
type EffectiveWindow struct {
	EffectiveFrom string  `json:"effectiveFrom"`
	EffectiveTo   *string `json:"effectiveTo,omitempty"`
	IsActive      bool    `json:"isActive"`
}

// Window returns the row's own effective window; it makes every
// configuration row satisfy rules.EffectiveRow.
func (w EffectiveWindow) Window() EffectiveWindow { return w }

// FeeType classifies product fees.
type FeeType string

const (
	FeeTypeMaintenance FeeType = "MAINTENANCE"
	FeeTypeTransaction FeeType = "TRANSACTION"
	FeeTypeService     FeeType = "SERVICE"
)

func (f FeeType) Valid() bool {
	switch f {
	case FeeTypeMaintenance, FeeTypeTransaction, FeeTypeService:
		return true
	}
	return false
}

// TransactionType narrows a TRANSACTION fee to one money movement kind.
type TransactionType string

const (
	TransactionTransfer   TransactionType = "TRANSFER"
	TransactionDeposit    TransactionType = "DEPOSIT"
	TransactionWithdrawal TransactionType = "WITHDRAWAL"
	TransactionPayment    TransactionType = "PAYMENT"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTransfer, TransactionDeposit, TransactionWithdrawal, TransactionPayment:
		return true
	}
	return false
}

// CalculationBase is the quantity a fee or penalty is computed against.
type CalculationBase string

const (
	BaseFixed              CalculationBase = "FIXED"
	BaseBalance            CalculationBase = "BALANCE"
	BaseTransactionAmount  CalculationBase = "TRANSACTION_AMOUNT"
	BaseOutstandingBalance CalculationBase = "OUTSTANDING_BALANCE"
)

func (b CalculationBase) Valid() bool {
	switch b {
	case BaseFixed, BaseBalance, BaseTransactionAmount, BaseOutstandingBalance:
		return true
	}
	return false
}

// ProductInterestRate is one interest rate row with its effective window.
type ProductInterestRate struct {
	ID         string           `json:"id"`
	ProductID  int64            `json:"productId"`
	Name       string           `json:"name"`
	Rate       decimal.Decimal  `json:"rate"`
	MinBalance *decimal.Decimal `json:"minBalance,omitempty"`
	MaxBalance *decimal.Decimal `json:"maxBalance,omitempty"`
	EffectiveWindow
	CreatedAt string `json:"createdAt,omitempty"`
}

// InterestRateRequest is the create/update payload for a rate row.
type InterestRateRequest struct {
	Name       string           `json:"name"`
	Rate       decimal.Decimal  `json:"rate"`
	MinBalance *decimal.Decimal `json:"minBalance,omitempty"`
	MaxBalance *decimal.Decimal `json:"maxBalance,omitempty"`
	EffectiveWindow
}

// ProductFee is one fee row. FeeAmount and FeePercentage applicability is
// gated by the calculation base; inapplicable fields are stored cleared.
type ProductFee struct {
	ID              string           `json:"id"`
	ProductID       int64            `json:"productId"`
	Name            string           `json:"name"`
	FeeType         FeeType          `json:"feeType"`
	TransactionType *TransactionType `json:"transactionType,omitempty"`
	CalculationBase CalculationBase  `json:"calculationBase"`
	FeeAmount       *decimal.Decimal `json:"feeAmount,omitempty"`
	FeePercentage   *decimal.Decimal `json:"feePercentage,omitempty"`
	EffectiveWindow
	CreatedAt string `json:"createdAt,omitempty"`
}

// FeeRequest is the create/update payload for a fee row. It is normalized
// (base narrowing, field clearing) before validation and storage.
type FeeRequest struct {
	Name            string           `json:"name"`
	FeeType         FeeType          `json:"feeType"`
	TransactionType *TransactionType `json:"transactionType,omitempty"`
	CalculationBase CalculationBase  `json:"calculationBase"`
	FeeAmount       *decimal.Decimal `json:"feeAmount,omitempty"`
	FeePercentage   *decimal.Decimal `json:"feePercentage,omitempty"`
	EffectiveWindow
}

// LimitType names a product limit.
type LimitType string

const (
	LimitDailyWithdrawal LimitType = "DAILY_WITHDRAWAL"
	LimitDailyTransfer   LimitType = "DAILY_TRANSFER"
	LimitMinBalance      LimitType = "MIN_BALANCE"
	LimitMaxBalance      LimitType = "MAX_BALANCE"
)

func (l LimitType) Valid() bool {
	switch l {
	case LimitDailyWithdrawal, LimitDailyTransfer, LimitMinBalance, LimitMaxBalance:
		return true
	}
	return false
}

// ProductLimit is one limit row.
type ProductLimit struct {
	ID        string          `json:"id"`
	ProductID int64           `json:"productId"`
	LimitType LimitType       `json:"limitType"`
	Amount    decimal.Decimal `json:"amount"`
	EffectiveWindow
	CreatedAt string `json:"createdAt,omitempty"`
}

// LimitRequest is the create/update payload for a limit row.
type LimitRequest struct {
	LimitType LimitType       `json:"limitType"`
	Amount    decimal.Decimal `json:"amount"`
	EffectiveWindow
}

// ProductPeriod is one tenor period row (term deposits, loan tenors).
type ProductPeriod struct {
	ID          string `json:"id"`
	ProductID   int64  `json:"productId"`
	Name        string `json:"name"`
	TenorMonths int    `json:"tenorMonths"`
	EffectiveWindow
	CreatedAt string `json:"createdAt,omitempty"`
}

// PeriodRequest is the create/update payload for a period row.
type PeriodRequest struct {
	Name        string `json:"name"`
	TenorMonths int    `json:"tenorMonths"`
	EffectiveWindow
}

// ProductPenalty is one penalty row; like fees, its amount fields are gated
// by the calculation base.
type ProductPenalty struct {
	ID                string           `json:"id"`
	ProductID         int64            `json:"productId"`
	Name              string           `json:"name"`
	CalculationBase   CalculationBase  `json:"calculationBase"`
	PenaltyAmount     *decimal.Decimal `json:"penaltyAmount,omitempty"`
	PenaltyPercentage *decimal.Decimal `json:"penaltyPercentage,omitempty"`
	EffectiveWindow
	CreatedAt string `json:"createdAt,omitempty"`
}

// PenaltyRequest is the create/update payload for a penalty row.
type PenaltyRequest struct {
	Name              string           `json:"name"`
	CalculationBase   CalculationBase  `json:"calculationBase"`
	PenaltyAmount     *decimal.Decimal `json:"penaltyAmount,omitempty"`
	PenaltyPercentage *decimal.Decimal `json:"penaltyPercentage,omitempty"`
	EffectiveWindow
}

// Operator is the comparison an eligibility rule applies.
type Operator string

const (
	OpEquals             Operator = "EQUALS"
	OpNotEquals          Operator = "NOT_EQUALS"
	OpGreaterThan        Operator = "GREATER_THAN"
	OpGreaterThanOrEqual Operator = "GREATER_THAN_OR_EQUAL"
	OpLessThan           Operator = "LESS_THAN"
	OpLessThanOrEqual    Operator = "LESS_THAN_OR_EQUAL"
	OpIn                 Operator = "IN"
	OpNotIn              Operator = "NOT_IN"
	OpContains           Operator = "CONTAINS"
)

func (o Operator) Valid() bool {
	switch o {
	case OpEquals, OpNotEquals, OpGreaterThan, OpGreaterThanOrEqual,
		OpLessThan, OpLessThanOrEqual, OpIn, OpNotIn, OpContains:
		return true
	}
	return false
}

// DataType declares how an eligibility rule value literal is interpreted.
type DataType string

const (
	DataTypeString  DataType = "STRING"
	DataTypeNumber  DataType = "NUMBER"
	DataTypeBoolean DataType = "BOOLEAN"
	DataTypeDate    DataType = "DATE"
	DataTypeEnum    DataType = "ENUM"
)

func (d DataType) Valid() bool {
	switch d {
	case DataTypeString, DataTypeNumber, DataTypeBoolean, DataTypeDate, DataTypeEnum:
		return true
	}
	return false
}

// ProductEligibilityRule is one customer eligibility rule row.
type ProductEligibilityRule struct {
	ID        string   `json:"id"`
	ProductID int64    `json:"productId"`
	Attribute string   `json:"attribute"`
	Operator  Operator `json:"operator"`
	DataType  DataType `json:"dataType"`
	RuleValue string   `json:"ruleValue"`
	EffectiveWindow
	CreatedAt string `json:"createdAt,omitempty"`
}

// EligibilityRuleRequest is the create/update payload for a rule row.
type EligibilityRuleRequest struct {
	Attribute string   `json:"attribute"`
	Operator  Operator `json:"operator"`
	DataType  DataType `json:"dataType"`
	RuleValue string   `json:"ruleValue"`
	EffectiveWindow
}

// RowID implementations let the console treat configuration rows uniformly.

func (m ProductGLMapping) RowID() string       { return m.ID }
func (r ProductInterestRate) RowID() string    { return r.ID }
func (f ProductFee) RowID() string             { return f.ID }
func (l ProductLimit) RowID() string           { return l.ID }
func (p ProductPeriod) RowID() string          { return p.ID }
func (p ProductPenalty) RowID() string         { return p.ID }
func (e ProductEligibilityRule) RowID() string { return e.ID }

// ProductOverview summarizes a product's configuration health for the
// overview tab: row counts, currently-effective counts, overlap warnings and
// the required mappings its category still misses.
type ProductOverview struct {
	ProductID       int64          `json:"productId"`
	RowCounts       map[string]int `json:"rowCounts"`
	OpenCounts      map[string]int `json:"openCounts"`
	OverlapWarnings []string       `json:"overlapWarnings"`
	MissingMappings []MappingType  `json:"missingMappings"`
}
