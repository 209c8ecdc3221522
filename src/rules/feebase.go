package rules

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/onana1992/corebank-backoffice/src/models"
)

// FieldPolicy states which of the two fee/penalty amount fields are
// editable for a calculation base. A disabled field is cleared on submit.
type FieldPolicy struct {
	AmountEnabled     bool
	PercentageEnabled bool
}

// PolicyFor returns the field policy for a calculation base.
//
//	FIXED               -> amount only
//	TRANSACTION_AMOUNT  -> percentage only
//	BALANCE, OUTSTANDING_BALANCE -> both
func PolicyFor(base models.CalculationBase) FieldPolicy {
	switch base {
	case models.BaseFixed:
		return FieldPolicy{AmountEnabled: true, PercentageEnabled: false}
	case models.BaseTransactionAmount:
		return FieldPolicy{AmountEnabled: false, PercentageEnabled: true}
	default:
		return FieldPolicy{AmountEnabled: true, PercentageEnabled: true}
	}
}

// LegalBases returns the calculation bases a fee may use. TRANSFER
// transaction fees are restricted to FIXED and TRANSACTION_AMOUNT; every
// other combination allows all four bases.
func LegalBases(feeType models.FeeType, transactionType *models.TransactionType) []models.CalculationBase {
	if feeType == models.FeeTypeTransaction && transactionType != nil && *transactionType == models.TransactionTransfer {
		return []models.CalculationBase{models.BaseFixed, models.BaseTransactionAmount}
	}
	return []models.CalculationBase{
		models.BaseFixed,
		models.BaseBalance,
		models.BaseTransactionAmount,
		models.BaseOutstandingBalance,
	}
}

// FeeFields is the slice of a fee affected by base narrowing and field
// clearing, shared by the change handlers and the submit projection.
type FeeFields struct {
	FeeType         models.FeeType
	TransactionType *models.TransactionType
	CalculationBase models.CalculationBase
	FeeAmount       *decimal.Decimal
	FeePercentage   *decimal.Decimal
}

// NormalizeFeeFields is the single normalization entry point shared by
// "change calculation base", "change fee type" and "change transaction
// type": an illegal base resets to FIXED, then fields disabled by the
// resulting policy are cleared. Idempotent.
func NormalizeFeeFields(f FeeFields) FeeFields {
	legal := false
	for _, b := range LegalBases(f.FeeType, f.TransactionType) {
		if f.CalculationBase == b {
			legal = true
			break
		}
	}
	if !legal {
		f.CalculationBase = models.BaseFixed
	}

	policy := PolicyFor(f.CalculationBase)
	if !policy.AmountEnabled {
		f.FeeAmount = nil
	}
	if !policy.PercentageEnabled {
		f.FeePercentage = nil
	}
	return f
}

// NormalizeFeeRequest applies NormalizeFeeFields to an outgoing request.
func NormalizeFeeRequest(req models.FeeRequest) models.FeeRequest {
	f := NormalizeFeeFields(FeeFields{
		FeeType:         req.FeeType,
		TransactionType: req.TransactionType,
		CalculationBase: req.CalculationBase,
		FeeAmount:       req.FeeAmount,
		FeePercentage:   req.FeePercentage,
	})
	req.CalculationBase = f.CalculationBase
	req.FeeAmount = f.FeeAmount
	req.FeePercentage = f.FeePercentage
	return req
}

// NormalizePenaltyRequest clears penalty fields disabled by the base.
// Penalties have no fee-type narrowing; only the field policy applies.
func NormalizePenaltyRequest(req models.PenaltyRequest) models.PenaltyRequest {
	policy := PolicyFor(req.CalculationBase)
	if !policy.AmountEnabled {
		req.PenaltyAmount = nil
	}
	if !policy.PercentageEnabled {
		req.PenaltyPercentage = nil
	}
	return req
}

// CheckAmountFields enforces required fields after normalization: a field
// that is the only enabled one is required; when both are enabled at least
// one must be present.
func CheckAmountFields(base models.CalculationBase, amount, percentage *decimal.Decimal) error {
	policy := PolicyFor(base)
	switch {
	case policy.AmountEnabled && !policy.PercentageEnabled && amount == nil:
		return fmt.Errorf("%w: amount is required for calculation base %s", ErrValidation, base)
	case policy.PercentageEnabled && !policy.AmountEnabled && percentage == nil:
		return fmt.Errorf("%w: percentage is required for calculation base %s", ErrValidation, base)
	case amount == nil && percentage == nil:
		return fmt.Errorf("%w: either amount or percentage is required for calculation base %s", ErrValidation, base)
	}
	if amount != nil && amount.IsNegative() {
		return fmt.Errorf("%w: amount cannot be negative", ErrValidation)
	}
	if percentage != nil && percentage.IsNegative() {
		return fmt.Errorf("%w: percentage cannot be negative", ErrValidation)
	}
	return nil
}
