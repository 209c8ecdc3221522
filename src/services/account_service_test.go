package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onana1992/corebank-backoffice/src/models"
	"github.com/onana1992/corebank-backoffice/src/rules"
)

func strPtr(s string) *string { return &s }

func TestChartOfAccount_Hierarchy(t *testing.T) {
	svc := NewAccountService(newTestDB(t))

	root, err := svc.CreateChartOfAccount(models.ChartOfAccountRequest{
		Code: "1000", Name: "Assets", AccountType: models.AccountTypeAsset,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, root.Level)
	assert.Nil(t, root.ParentCode)

	// A child whose type differs from the parent never reaches storage.
	_, err = svc.CreateChartOfAccount(models.ChartOfAccountRequest{
		Code: "1001", Name: "Customer Deposits", AccountType: models.AccountTypeLiability,
		ParentCode: strPtr("1000"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, rules.ErrValidation)
	assert.Contains(t, err.Error(), "must match parent")

	// Same child with the matching type lands one level below the parent.
	child, err := svc.CreateChartOfAccount(models.ChartOfAccountRequest{
		Code: "1001", Name: "Cash and Equivalents", AccountType: models.AccountTypeAsset,
		ParentCode: strPtr("1000"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, child.Level)
	require.NotNil(t, child.ParentCode)
	assert.Equal(t, "1000", *child.ParentCode)

	grandchild, err := svc.CreateChartOfAccount(models.ChartOfAccountRequest{
		Code: "1001-01", Name: "Vault Cash", AccountType: models.AccountTypeAsset,
		ParentCode: strPtr("1001"),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, grandchild.Level)
}

func TestChartOfAccount_CreateRejections(t *testing.T) {
	svc := NewAccountService(newTestDB(t))

	_, err := svc.CreateChartOfAccount(models.ChartOfAccountRequest{
		Code: "100000000000000000001", Name: "Too Long", AccountType: models.AccountTypeAsset,
	})
	assert.ErrorIs(t, err, rules.ErrValidation)

	_, err = svc.CreateChartOfAccount(models.ChartOfAccountRequest{
		Code: "1000", Name: "Assets", AccountType: "FANTASY",
	})
	assert.ErrorIs(t, err, rules.ErrValidation)

	_, err = svc.CreateChartOfAccount(models.ChartOfAccountRequest{
		Code: "2000", Name: "Orphan", AccountType: models.AccountTypeLiability,
		ParentCode: strPtr("9999"),
	})
	assert.ErrorIs(t, err, rules.ErrValidation)

	_, err = svc.CreateChartOfAccount(models.ChartOfAccountRequest{
		Code: "1000", Name: "Assets", AccountType: models.AccountTypeAsset,
	})
	require.NoError(t, err)
	_, err = svc.CreateChartOfAccount(models.ChartOfAccountRequest{
		Code: "1000", Name: "Assets Again", AccountType: models.AccountTypeAsset,
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestChartOfAccount_DeleteGuards(t *testing.T) {
	svc := NewAccountService(newTestDB(t))

	_, err := svc.CreateChartOfAccount(models.ChartOfAccountRequest{
		Code: "1000", Name: "Assets", AccountType: models.AccountTypeAsset,
	})
	require.NoError(t, err)
	_, err = svc.CreateChartOfAccount(models.ChartOfAccountRequest{
		Code: "1001", Name: "Cash", AccountType: models.AccountTypeAsset,
		ParentCode: strPtr("1000"),
	})
	require.NoError(t, err)

	err = svc.DeleteChartOfAccount("1000")
	assert.ErrorIs(t, err, ErrConflict, "entries with children cannot be deleted")

	la, err := svc.CreateLedgerAccount(models.LedgerAccountRequest{
		Code: "LA-CASH", Name: "Main Cash", ChartOfAccountCode: "1001", Currency: "EUR",
	})
	require.NoError(t, err)

	err = svc.DeleteChartOfAccount("1001")
	assert.ErrorIs(t, err, ErrConflict, "entries referenced by ledger accounts cannot be deleted")

	require.NoError(t, svc.DeleteLedgerAccount(la.ID))
	require.NoError(t, svc.DeleteChartOfAccount("1001"))
	require.NoError(t, svc.DeleteChartOfAccount("1000"))

	assert.ErrorIs(t, svc.DeleteChartOfAccount("1000"), ErrNotFound)
}

func TestLedgerAccount_TypeMirrorsChart(t *testing.T) {
	svc := NewAccountService(newTestDB(t))

	_, err := svc.CreateChartOfAccount(models.ChartOfAccountRequest{
		Code: "2000", Name: "Liabilities", AccountType: models.AccountTypeLiability,
	})
	require.NoError(t, err)

	la, err := svc.CreateLedgerAccount(models.LedgerAccountRequest{
		Code: "LA-DEP", Name: "Deposits Control", ChartOfAccountCode: "2000", Currency: "EUR",
	})
	require.NoError(t, err)
	assert.Equal(t, models.AccountTypeLiability, la.AccountType)
	assert.Equal(t, models.AccountStatusActive, la.Status)
	assert.True(t, la.Balance.IsZero())

	fetched, err := svc.GetLedgerAccount(la.ID)
	require.NoError(t, err)
	assert.Equal(t, la.Code, fetched.Code)
}

func TestLedgerAccount_CreateRejections(t *testing.T) {
	svc := NewAccountService(newTestDB(t))

	_, err := svc.CreateChartOfAccount(models.ChartOfAccountRequest{
		Code: "2000", Name: "Liabilities", AccountType: models.AccountTypeLiability,
	})
	require.NoError(t, err)

	_, err = svc.CreateLedgerAccount(models.LedgerAccountRequest{
		Code: "LA-1", Name: "Bad Currency", ChartOfAccountCode: "2000", Currency: "euro",
	})
	assert.ErrorIs(t, err, rules.ErrValidation)

	_, err = svc.CreateLedgerAccount(models.LedgerAccountRequest{
		Code: "LA-1", Name: "No Chart", ChartOfAccountCode: "9999", Currency: "EUR",
	})
	assert.ErrorIs(t, err, rules.ErrValidation)

	inactive := false
	_, err = svc.CreateChartOfAccount(models.ChartOfAccountRequest{
		Code: "2100", Name: "Dormant", AccountType: models.AccountTypeLiability,
		IsActive: &inactive,
	})
	require.NoError(t, err)
	_, err = svc.CreateLedgerAccount(models.LedgerAccountRequest{
		Code: "LA-1", Name: "On Inactive Chart", ChartOfAccountCode: "2100", Currency: "EUR",
	})
	assert.ErrorIs(t, err, rules.ErrValidation)

	_, err = svc.CreateLedgerAccount(models.LedgerAccountRequest{
		Code: "LA-1", Name: "First", ChartOfAccountCode: "2000", Currency: "EUR",
	})
	require.NoError(t, err)
	_, err = svc.CreateLedgerAccount(models.LedgerAccountRequest{
		Code: "LA-1", Name: "Duplicate", ChartOfAccountCode: "2000", Currency: "EUR",
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestLedgerAccount_UpdateAndList(t *testing.T) {
	svc := NewAccountService(newTestDB(t))

	_, err := svc.CreateChartOfAccount(models.ChartOfAccountRequest{
		Code: "4000", Name: "Revenue", AccountType: models.AccountTypeRevenue,
	})
	require.NoError(t, err)
	la, err := svc.CreateLedgerAccount(models.LedgerAccountRequest{
		Code: "LA-FEES", Name: "Fee Income", ChartOfAccountCode: "4000", Currency: "EUR",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateLedgerAccount(la.ID, models.LedgerAccountRequest{
		Name: "Fee Income (retired)", Status: models.AccountStatusInactive,
	})
	require.NoError(t, err)
	assert.Equal(t, models.AccountStatusInactive, updated.Status)

	active := models.AccountStatusActive
	listed, err := svc.ListLedgerAccounts(&active)
	require.NoError(t, err)
	assert.Empty(t, listed, "status filter excludes the deactivated account")

	listed, err = svc.ListLedgerAccounts(nil)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}
