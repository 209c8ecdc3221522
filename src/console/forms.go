package console

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/onana1992/corebank-backoffice/src/models"
	"github.com/onana1992/corebank-backoffice/src/rules"
)

// FeeForm mirrors the fee editing form. Changing the fee type, transaction
// type or calculation base all funnel through the same normalization, so
// the form can never hold an illegal combination for longer than one event.
type FeeForm struct {
	Name            string
	FeeType         models.FeeType
	TransactionType *models.TransactionType
	CalculationBase models.CalculationBase
	FeeAmount       *decimal.Decimal
	FeePercentage   *decimal.Decimal
	Window          models.EffectiveWindow
}

func (f FeeForm) normalize() FeeForm {
	n := rules.NormalizeFeeFields(rules.FeeFields{
		FeeType:         f.FeeType,
		TransactionType: f.TransactionType,
		CalculationBase: f.CalculationBase,
		FeeAmount:       f.FeeAmount,
		FeePercentage:   f.FeePercentage,
	})
	f.TransactionType = n.TransactionType
	f.CalculationBase = n.CalculationBase
	f.FeeAmount = n.FeeAmount
	f.FeePercentage = n.FeePercentage
	return f
}

// ChangeFeeType, ChangeTransactionType and ChangeCalculationBase are the
// three entry points into the one normalization; none diverges.

func (f FeeForm) ChangeFeeType(t models.FeeType) FeeForm {
	f.FeeType = t
	if t != models.FeeTypeTransaction {
		f.TransactionType = nil
	}
	return f.normalize()
}

func (f FeeForm) ChangeTransactionType(t models.TransactionType) FeeForm {
	f.TransactionType = &t
	return f.normalize()
}

func (f FeeForm) ChangeCalculationBase(b models.CalculationBase) FeeForm {
	f.CalculationBase = b
	return f.normalize()
}

// FieldPolicy exposes which amount fields the form should enable.
func (f FeeForm) FieldPolicy() rules.FieldPolicy {
	return rules.PolicyFor(f.CalculationBase)
}

// BuildRequest projects the form into the outgoing request, clearing
// inapplicable fields and validating before anything reaches the network.
// Create and edit submit the identical projection.
func (f FeeForm) BuildRequest() (models.FeeRequest, error) {
	f = f.normalize()
	req := models.FeeRequest{
		Name:            f.Name,
		FeeType:         f.FeeType,
		TransactionType: f.TransactionType,
		CalculationBase: f.CalculationBase,
		FeeAmount:       f.FeeAmount,
		FeePercentage:   f.FeePercentage,
		EffectiveWindow: f.Window,
	}
	if req.Name == "" {
		return req, fmt.Errorf("%w: name is required", rules.ErrValidation)
	}
	if err := rules.CheckAmountFields(req.CalculationBase, req.FeeAmount, req.FeePercentage); err != nil {
		return req, err
	}
	if err := rules.CheckWindow(req.EffectiveWindow); err != nil {
		return req, err
	}
	return req, nil
}

// MappingForm mirrors the GL mapping form. Validation re-runs the
// compatibility and uniqueness gates at submit time as a defense against
// stale selector lists; no network round trip is needed to reject.
type MappingForm struct {
	MappingType models.MappingType
	Account     Ref[models.LedgerAccount]
	EditingID   string // empty on create
}

// BuildRequest validates against the currently loaded mappings and the
// selected account.
func (f MappingForm) BuildRequest(existing []models.ProductGLMapping) (models.GLMappingRequest, error) {
	var req models.GLMappingRequest
	account, ok := f.Account.Get()
	if !ok {
		return req, fmt.Errorf("%w: a ledger account must be selected", rules.ErrValidation)
	}
	if err := rules.CheckNotDuplicate(existing, f.MappingType, f.EditingID); err != nil {
		return req, err
	}
	if err := rules.CheckCompatible(f.MappingType, account); err != nil {
		return req, err
	}
	req.MappingType = f.MappingType
	req.LedgerAccountID = account.ID
	return req, nil
}

// EligibilityForm mirrors the eligibility rule form; the rule value check
// gates submission without blocking edits to other fields.
type EligibilityForm struct {
	Attribute string
	Operator  models.Operator
	DataType  models.DataType
	RuleValue string
	Window    models.EffectiveWindow
}

func (f EligibilityForm) BuildRequest() (models.EligibilityRuleRequest, error) {
	req := models.EligibilityRuleRequest{
		Attribute:       f.Attribute,
		Operator:        f.Operator,
		DataType:        f.DataType,
		RuleValue:       f.RuleValue,
		EffectiveWindow: f.Window,
	}
	if req.Attribute == "" {
		return req, fmt.Errorf("%w: attribute is required", rules.ErrValidation)
	}
	if err := rules.ValidateRuleValue(req.Operator, req.DataType, req.RuleValue); err != nil {
		return req, err
	}
	if err := rules.CheckWindow(req.EffectiveWindow); err != nil {
		return req, err
	}
	return req, nil
}
