package rules

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/onana1992/corebank-backoffice/src/models"
)

// ValidateRuleValue checks that an eligibility rule value literal matches
// what the operator/data-type pair requires:
//
//   - IN, NOT_IN: a JSON array literal (element types unchecked beyond JSON
//     validity);
//   - anything else: a scalar literal parseable as the declared data type.
func ValidateRuleValue(operator models.Operator, dataType models.DataType, ruleValue string) error {
	if !operator.Valid() {
		return fmt.Errorf("%w: unknown operator %q", ErrValidation, operator)
	}
	if !dataType.Valid() {
		return fmt.Errorf("%w: unknown data type %q", ErrValidation, dataType)
	}

	value := strings.TrimSpace(ruleValue)
	if value == "" {
		return fmt.Errorf("%w: rule value is required", ErrValidation)
	}

	if operator == models.OpIn || operator == models.OpNotIn {
		var elems []json.RawMessage
		if err := json.Unmarshal([]byte(value), &elems); err != nil {
			return fmt.Errorf("%w: %s requires a JSON array literal, e.g. [\"A\",\"B\"]", ErrValidation, operator)
		}
		return nil
	}

	switch dataType {
	case models.DataTypeNumber:
		if _, err := decimal.NewFromString(value); err != nil {
			return fmt.Errorf("%w: %q is not a valid number", ErrValidation, value)
		}
	case models.DataTypeBoolean:
		if value != "true" && value != "false" {
			return fmt.Errorf("%w: %q is not a valid boolean (expected true or false)", ErrValidation, value)
		}
	case models.DataTypeDate:
		if _, err := ParseDate(value); err != nil {
			return fmt.Errorf("%w: %q is not a valid ISO date (expected YYYY-MM-DD)", ErrValidation, value)
		}
	}
	// STRING and ENUM accept any non-empty literal.
	return nil
}
