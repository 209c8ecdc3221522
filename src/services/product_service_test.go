package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onana1992/corebank-backoffice/src/console"
	"github.com/onana1992/corebank-backoffice/src/models"
	"github.com/onana1992/corebank-backoffice/src/rules"
)

type productFixture struct {
	accounts *AccountService
	products *ProductService

	product   *models.Product
	liability *models.LedgerAccount
	revenue   *models.LedgerAccount
	expense   *models.LedgerAccount
	inactive  *models.LedgerAccount
}

// newProductFixture seeds a current-account product plus one ledger
// account per posting role.
func newProductFixture(t *testing.T) *productFixture {
	t.Helper()
	db := newTestDB(t)
	f := &productFixture{accounts: NewAccountService(db)}
	f.products = NewProductService(db, f.accounts)

	charts := []struct {
		code string
		name string
		typ  models.AccountType
	}{
		{"2000", "Liabilities", models.AccountTypeLiability},
		{"4000", "Revenue", models.AccountTypeRevenue},
		{"5000", "Expenses", models.AccountTypeExpense},
	}
	for _, c := range charts {
		_, err := f.accounts.CreateChartOfAccount(models.ChartOfAccountRequest{
			Code: c.code, Name: c.name, AccountType: c.typ,
		})
		require.NoError(t, err)
	}

	var err error
	f.liability, err = f.accounts.CreateLedgerAccount(models.LedgerAccountRequest{
		Code: "LA-DEP", Name: "Deposits Control", ChartOfAccountCode: "2000", Currency: "EUR",
	})
	require.NoError(t, err)
	f.revenue, err = f.accounts.CreateLedgerAccount(models.LedgerAccountRequest{
		Code: "LA-FEES", Name: "Fee Income", ChartOfAccountCode: "4000", Currency: "EUR",
	})
	require.NoError(t, err)
	f.expense, err = f.accounts.CreateLedgerAccount(models.LedgerAccountRequest{
		Code: "LA-INT", Name: "Interest Expense", ChartOfAccountCode: "5000", Currency: "EUR",
	})
	require.NoError(t, err)
	f.inactive, err = f.accounts.CreateLedgerAccount(models.LedgerAccountRequest{
		Code: "LA-OLD", Name: "Retired Deposits", ChartOfAccountCode: "2000", Currency: "EUR",
		Status: models.AccountStatusInactive,
	})
	require.NoError(t, err)

	f.product, err = f.products.CreateProduct(models.ProductRequest{
		Code: "CA-STD", Name: "Standard Current Account", Category: models.CategoryCurrentAccount,
	})
	require.NoError(t, err)
	return f
}

func openWindow(from string) models.EffectiveWindow {
	return models.EffectiveWindow{EffectiveFrom: from, IsActive: true}
}

func decP(t *testing.T, s string) *decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return &d
}

func TestGLMapping_Gate(t *testing.T) {
	f := newProductFixture(t)
	pid := f.product.ID

	m, err := f.products.CreateGLMapping(pid, models.GLMappingRequest{
		MappingType: models.MappingLiabilityAccount, LedgerAccountID: f.liability.ID,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, m.ID)

	// Second mapping of the same type is a validation error, not a
	// database constraint trip.
	_, err = f.products.CreateGLMapping(pid, models.GLMappingRequest{
		MappingType: models.MappingLiabilityAccount, LedgerAccountID: f.liability.ID,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, rules.ErrValidation)
	assert.Contains(t, err.Error(), "already exists")

	// A revenue-side account cannot fill the expense role.
	_, err = f.products.CreateGLMapping(pid, models.GLMappingRequest{
		MappingType: models.MappingExpenseAccount, LedgerAccountID: f.revenue.ID,
	})
	assert.ErrorIs(t, err, rules.ErrValidation)

	// Inactive accounts are never eligible, even with the right type.
	_, err = f.products.CreateGLMapping(pid, models.GLMappingRequest{
		MappingType: models.MappingInterestAccount, LedgerAccountID: f.inactive.ID,
	})
	assert.ErrorIs(t, err, rules.ErrValidation)

	_, err = f.products.CreateGLMapping(pid, models.GLMappingRequest{
		MappingType: models.MappingFeeAccount, LedgerAccountID: 424242,
	})
	assert.ErrorIs(t, err, rules.ErrValidation)

	// Editing the row keeps its own type out of the duplicate check.
	updated, err := f.products.UpdateGLMapping(pid, m.ID, models.GLMappingRequest{
		MappingType: models.MappingLiabilityAccount, LedgerAccountID: f.liability.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, m.ID, updated.ID)

	// INTEREST_ACCOUNT accepts both revenue and expense sides.
	_, err = f.products.CreateGLMapping(pid, models.GLMappingRequest{
		MappingType: models.MappingInterestAccount, LedgerAccountID: f.expense.ID,
	})
	require.NoError(t, err)
}

func TestGLMapping_BlocksLedgerAccountDelete(t *testing.T) {
	f := newProductFixture(t)

	_, err := f.products.CreateGLMapping(f.product.ID, models.GLMappingRequest{
		MappingType: models.MappingLiabilityAccount, LedgerAccountID: f.liability.ID,
	})
	require.NoError(t, err)

	err = f.accounts.DeleteLedgerAccount(f.liability.ID)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestFee_StoredNormalized(t *testing.T) {
	f := newProductFixture(t)
	tx := models.TransactionTransfer

	// TRANSFER narrows the legal bases; the illegal BALANCE base is
	// stored as FIXED with the percentage cleared.
	fee, err := f.products.CreateFee(f.product.ID, models.FeeRequest{
		Name:            "transfer fee",
		FeeType:         models.FeeTypeTransaction,
		TransactionType: &tx,
		CalculationBase: models.BaseBalance,
		FeeAmount:       decP(t, "1.50"),
		FeePercentage:   decP(t, "0.25"),
		EffectiveWindow: openWindow("2026-01-01"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.BaseFixed, fee.CalculationBase)
	assert.Nil(t, fee.FeePercentage)
	require.NotNil(t, fee.FeeAmount)
	assert.True(t, fee.FeeAmount.Equal(decimal.RequireFromString("1.50")))

	// A non-transaction fee drops its transaction type on the way in.
	fee2, err := f.products.CreateFee(f.product.ID, models.FeeRequest{
		Name:            "maintenance",
		FeeType:         models.FeeTypeMaintenance,
		TransactionType: &tx,
		CalculationBase: models.BaseBalance,
		FeePercentage:   decP(t, "0.10"),
		EffectiveWindow: openWindow("2026-01-01"),
	})
	require.NoError(t, err)
	assert.Nil(t, fee2.TransactionType)
	assert.Equal(t, models.BaseBalance, fee2.CalculationBase)
	assert.Nil(t, fee2.FeeAmount, "BALANCE base carries only a percentage")
}

func TestFee_CreateRejections(t *testing.T) {
	f := newProductFixture(t)

	// FIXED with no amount after normalization.
	_, err := f.products.CreateFee(f.product.ID, models.FeeRequest{
		Name:            "empty fixed",
		FeeType:         models.FeeTypeService,
		CalculationBase: models.BaseFixed,
		FeePercentage:   decP(t, "0.10"),
		EffectiveWindow: openWindow("2026-01-01"),
	})
	assert.ErrorIs(t, err, rules.ErrValidation)

	// Window ending before it starts.
	to := "2025-01-01"
	_, err = f.products.CreateFee(f.product.ID, models.FeeRequest{
		Name:            "backwards window",
		FeeType:         models.FeeTypeService,
		CalculationBase: models.BaseFixed,
		FeeAmount:       decP(t, "1.00"),
		EffectiveWindow: models.EffectiveWindow{EffectiveFrom: "2026-01-01", EffectiveTo: &to, IsActive: true},
	})
	assert.ErrorIs(t, err, rules.ErrValidation)

	_, err = f.products.CreateFee(424242, models.FeeRequest{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEligibilityRule_ValueChecked(t *testing.T) {
	f := newProductFixture(t)

	_, err := f.products.CreateEligibilityRule(f.product.ID, models.EligibilityRuleRequest{
		Attribute: "customerSegment", Operator: models.OpIn, DataType: models.DataTypeEnum,
		RuleValue:       "GOLD,PLATINUM",
		EffectiveWindow: openWindow("2026-01-01"),
	})
	assert.ErrorIs(t, err, rules.ErrValidation, "IN requires a JSON array literal")

	rule, err := f.products.CreateEligibilityRule(f.product.ID, models.EligibilityRuleRequest{
		Attribute: "customerSegment", Operator: models.OpIn, DataType: models.DataTypeEnum,
		RuleValue:       `["GOLD","PLATINUM"]`,
		EffectiveWindow: openWindow("2026-01-01"),
	})
	require.NoError(t, err)

	_, err = f.products.UpdateEligibilityRule(f.product.ID, rule.ID, models.EligibilityRuleRequest{
		Attribute: "minAge", Operator: models.OpGreaterThanOrEqual, DataType: models.DataTypeNumber,
		RuleValue:       "eighteen",
		EffectiveWindow: openWindow("2026-01-01"),
	})
	assert.ErrorIs(t, err, rules.ErrValidation)
}

func TestOverview(t *testing.T) {
	f := newProductFixture(t)
	pid := f.product.ID

	// Two overlapping open-ended rates plus one closed historic rate.
	for _, from := range []string{"2025-01-01", "2025-06-01"} {
		_, err := f.products.CreateInterestRate(pid, models.InterestRateRequest{
			Name: "standard " + from, Rate: decimal.RequireFromString("0.015"),
			EffectiveWindow: openWindow(from),
		})
		require.NoError(t, err)
	}
	to := "2024-12-31"
	_, err := f.products.CreateInterestRate(pid, models.InterestRateRequest{
		Name: "legacy", Rate: decimal.RequireFromString("0.01"),
		EffectiveWindow: models.EffectiveWindow{EffectiveFrom: "2024-01-01", EffectiveTo: &to, IsActive: true},
	})
	require.NoError(t, err)

	_, err = f.products.CreateGLMapping(pid, models.GLMappingRequest{
		MappingType: models.MappingLiabilityAccount, LedgerAccountID: f.liability.ID,
	})
	require.NoError(t, err)

	asOf := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	overview, err := f.products.Overview(pid, asOf)
	require.NoError(t, err)

	assert.Equal(t, 3, overview.RowCounts["rates"])
	assert.Equal(t, 1, overview.RowCounts["glMappings"])
	assert.Equal(t, 2, overview.OpenCounts["rates"], "the closed historic rate is not in force")
	require.Len(t, overview.OverlapWarnings, 1)
	assert.Contains(t, overview.OverlapWarnings[0], "interest rate")

	// CURRENT_ACCOUNT requires liability, interest and fee mappings; only
	// the liability one exists.
	assert.ElementsMatch(t, []models.MappingType{
		models.MappingFeeAccount, models.MappingInterestAccount,
	}, overview.MissingMappings)
}

func TestDeleteProduct_GuardedByConfigRows(t *testing.T) {
	f := newProductFixture(t)
	pid := f.product.ID

	limit, err := f.products.CreateLimit(pid, models.LimitRequest{
		LimitType: models.LimitDailyWithdrawal, Amount: decimal.RequireFromString("500"),
		EffectiveWindow: openWindow("2026-01-01"),
	})
	require.NoError(t, err)

	assert.ErrorIs(t, f.products.DeleteProduct(pid), ErrConflict)

	require.NoError(t, f.products.DeleteLimit(pid, limit.ID))
	require.NoError(t, f.products.DeleteProduct(pid))
	assert.ErrorIs(t, f.products.DeleteProduct(pid), ErrNotFound)
}

func TestConsoleClient_DrivesSessionAgainstRealStore(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()
	s := console.NewSession(NewConsoleClient(f.products, f.product.ID))

	require.NoError(t, s.OpenAdd(console.KindPeriods))
	require.NoError(t, s.Submit(ctx, models.PeriodRequest{
		Name: "12 months", TenorMonths: 12,
		EffectiveWindow: openWindow("2026-01-01"),
	}))

	rows, loaded := s.Rows(console.KindPeriods).Get()
	require.True(t, loaded, "successful submit refetches the tab")
	require.Len(t, rows, 1)

	// The stored row round-trips through the session's edit path.
	require.NoError(t, s.OpenEdit(console.KindPeriods, rows[0].RowID()))
	err := s.Submit(ctx, models.PeriodRequest{
		Name: "12 months", TenorMonths: 0,
		EffectiveWindow: openWindow("2026-01-01"),
	})
	require.Error(t, err, "server-side validation reaches the session")
	_, open := s.Form()
	assert.True(t, open, "failed submit keeps the form open")

	require.NoError(t, s.Submit(ctx, models.PeriodRequest{
		Name: "24 months", TenorMonths: 24,
		EffectiveWindow: openWindow("2026-01-01"),
	}))
	rows, _ = s.Rows(console.KindPeriods).Get()
	require.Len(t, rows, 1)
	period, ok := rows[0].(models.ProductPeriod)
	require.True(t, ok)
	assert.Equal(t, 24, period.TenorMonths)

	require.NoError(t, s.DeleteRow(ctx, console.KindPeriods, period.ID, true))
	rows, _ = s.Rows(console.KindPeriods).Get()
	assert.Empty(t, rows)
}
