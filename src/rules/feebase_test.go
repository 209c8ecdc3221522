package rules

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onana1992/corebank-backoffice/src/models"
)

func dec(s string) *decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return &d
}

func txType(t models.TransactionType) *models.TransactionType { return &t }

func TestPolicyFor(t *testing.T) {
	assert.Equal(t, FieldPolicy{AmountEnabled: true, PercentageEnabled: false}, PolicyFor(models.BaseFixed))
	assert.Equal(t, FieldPolicy{AmountEnabled: false, PercentageEnabled: true}, PolicyFor(models.BaseTransactionAmount))
	assert.Equal(t, FieldPolicy{AmountEnabled: true, PercentageEnabled: true}, PolicyFor(models.BaseBalance))
	assert.Equal(t, FieldPolicy{AmountEnabled: true, PercentageEnabled: true}, PolicyFor(models.BaseOutstandingBalance))
}

func TestLegalBases_TransferNarrowing(t *testing.T) {
	narrowed := LegalBases(models.FeeTypeTransaction, txType(models.TransactionTransfer))
	assert.Equal(t, []models.CalculationBase{models.BaseFixed, models.BaseTransactionAmount}, narrowed)

	assert.Len(t, LegalBases(models.FeeTypeTransaction, txType(models.TransactionDeposit)), 4)
	assert.Len(t, LegalBases(models.FeeTypeMaintenance, txType(models.TransactionTransfer)), 4)
	assert.Len(t, LegalBases(models.FeeTypeMaintenance, nil), 4)
}

func TestNormalizeFeeFields_ClearsDisabledFields(t *testing.T) {
	// Switching to FIXED clears any stored percentage.
	f := NormalizeFeeFields(FeeFields{
		FeeType:         models.FeeTypeMaintenance,
		CalculationBase: models.BaseFixed,
		FeeAmount:       dec("10.00"),
		FeePercentage:   dec("1.5"),
	})
	require.NotNil(t, f.FeeAmount)
	assert.Nil(t, f.FeePercentage)

	// TRANSACTION_AMOUNT clears the amount.
	f = NormalizeFeeFields(FeeFields{
		FeeType:         models.FeeTypeService,
		CalculationBase: models.BaseTransactionAmount,
		FeeAmount:       dec("10.00"),
		FeePercentage:   dec("1.5"),
	})
	assert.Nil(t, f.FeeAmount)
	require.NotNil(t, f.FeePercentage)

	// BALANCE keeps both.
	f = NormalizeFeeFields(FeeFields{
		FeeType:         models.FeeTypeMaintenance,
		CalculationBase: models.BaseBalance,
		FeeAmount:       dec("10.00"),
		FeePercentage:   dec("1.5"),
	})
	assert.NotNil(t, f.FeeAmount)
	assert.NotNil(t, f.FeePercentage)
}

func TestNormalizeFeeFields_TransferResetsIllegalBase(t *testing.T) {
	f := NormalizeFeeFields(FeeFields{
		FeeType:         models.FeeTypeTransaction,
		TransactionType: txType(models.TransactionTransfer),
		CalculationBase: models.BaseBalance,
		FeePercentage:   dec("0.5"),
	})
	assert.Equal(t, models.BaseFixed, f.CalculationBase)
	// The reset lands on FIXED, whose policy then clears the percentage.
	assert.Nil(t, f.FeePercentage)

	// TRANSACTION_AMOUNT stays legal under TRANSFER.
	f = NormalizeFeeFields(FeeFields{
		FeeType:         models.FeeTypeTransaction,
		TransactionType: txType(models.TransactionTransfer),
		CalculationBase: models.BaseTransactionAmount,
		FeePercentage:   dec("0.5"),
	})
	assert.Equal(t, models.BaseTransactionAmount, f.CalculationBase)
	assert.NotNil(t, f.FeePercentage)
}

func TestNormalizeFeeFields_Idempotent(t *testing.T) {
	inputs := []FeeFields{
		{FeeType: models.FeeTypeTransaction, TransactionType: txType(models.TransactionTransfer), CalculationBase: models.BaseOutstandingBalance, FeeAmount: dec("3"), FeePercentage: dec("2")},
		{FeeType: models.FeeTypeMaintenance, CalculationBase: models.BaseFixed, FeePercentage: dec("2")},
		{FeeType: models.FeeTypeService, CalculationBase: models.BaseTransactionAmount, FeeAmount: dec("3"), FeePercentage: dec("2")},
	}
	for _, in := range inputs {
		once := NormalizeFeeFields(in)
		twice := NormalizeFeeFields(once)
		assert.Equal(t, once, twice)
	}
}

func TestNormalizePenaltyRequest(t *testing.T) {
	req := NormalizePenaltyRequest(models.PenaltyRequest{
		Name:              "early withdrawal",
		CalculationBase:   models.BaseFixed,
		PenaltyAmount:     dec("25.00"),
		PenaltyPercentage: dec("1.0"),
	})
	assert.NotNil(t, req.PenaltyAmount)
	assert.Nil(t, req.PenaltyPercentage)
}

func TestCheckAmountFields(t *testing.T) {
	require.NoError(t, CheckAmountFields(models.BaseFixed, dec("10"), nil))
	require.NoError(t, CheckAmountFields(models.BaseTransactionAmount, nil, dec("0.5")))
	require.NoError(t, CheckAmountFields(models.BaseBalance, dec("10"), nil))
	require.NoError(t, CheckAmountFields(models.BaseBalance, nil, dec("0.5")))

	assert.ErrorIs(t, CheckAmountFields(models.BaseFixed, nil, nil), ErrValidation)
	assert.ErrorIs(t, CheckAmountFields(models.BaseTransactionAmount, nil, nil), ErrValidation)
	assert.ErrorIs(t, CheckAmountFields(models.BaseBalance, nil, nil), ErrValidation)
	assert.ErrorIs(t, CheckAmountFields(models.BaseFixed, dec("-1"), nil), ErrValidation)
}
