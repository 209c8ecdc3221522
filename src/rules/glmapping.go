// Package rules implements the product configuration consistency model:
// GL-mapping type compatibility, calculation-base field gating, effective
// window resolution and eligibility rule value validation. Everything here
// is pure and synchronous; callers run these checks before any write.
package rules

import (
	"errors"
	"fmt"

	"github.com/onana1992/corebank-backoffice/src/models"
)

// ErrValidation is the sentinel wrapped by every local validation failure.
var ErrValidation = errors.New("validation failed")

// allowedTypes maps each mapping type to the account types a candidate
// ledger account may carry.
var allowedTypes = map[models.MappingType][]models.AccountType{
	models.MappingAssetAccount:     {models.AccountTypeAsset},
	models.MappingLiabilityAccount: {models.AccountTypeLiability},
	models.MappingFeeAccount:       {models.AccountTypeExpense, models.AccountTypeRevenue},
	models.MappingInterestAccount:  {models.AccountTypeExpense, models.AccountTypeRevenue},
	models.MappingRevenueAccount:   {models.AccountTypeRevenue},
	models.MappingExpenseAccount:   {models.AccountTypeExpense},
}

// AllowedTypes returns the account types legal for the given mapping type.
// Unknown mapping types yield an empty set.
func AllowedTypes(mappingType models.MappingType) []models.AccountType {
	types := allowedTypes[mappingType]
	out := make([]models.AccountType, len(types))
	copy(out, types)
	return out
}

// IsCompatible reports whether the ledger account may serve the mapping
// type: the account must be ACTIVE and its type must be in the allowed set.
func IsCompatible(mappingType models.MappingType, account models.LedgerAccount) bool {
	if account.Status != models.AccountStatusActive {
		return false
	}
	for _, t := range allowedTypes[mappingType] {
		if account.AccountType == t {
			return true
		}
	}
	return false
}

// CheckCompatible is IsCompatible with a field-level error naming the
// required type set.
func CheckCompatible(mappingType models.MappingType, account models.LedgerAccount) error {
	if !mappingType.Valid() {
		return fmt.Errorf("%w: unknown mapping type %q", ErrValidation, mappingType)
	}
	if account.Status != models.AccountStatusActive {
		return fmt.Errorf("%w: ledger account %s is not active", ErrValidation, account.Code)
	}
	if !IsCompatible(mappingType, account) {
		return fmt.Errorf("%w: mapping %s requires an account of type %v, got %s",
			ErrValidation, mappingType, allowedTypes[mappingType], account.AccountType)
	}
	return nil
}

// WouldDuplicate reports whether adding (or re-typing) a mapping of the
// given type would leave the product with two mappings of one type.
// excludeID carries the row being edited; pass "" on create.
func WouldDuplicate(existing []models.ProductGLMapping, mappingType models.MappingType, excludeID string) bool {
	for _, m := range existing {
		if m.ID == excludeID {
			continue
		}
		if m.MappingType == mappingType {
			return true
		}
	}
	return false
}

// CheckNotDuplicate wraps WouldDuplicate in a validation error.
func CheckNotDuplicate(existing []models.ProductGLMapping, mappingType models.MappingType, excludeID string) error {
	if WouldDuplicate(existing, mappingType, excludeID) {
		return fmt.Errorf("%w: mapping of type %s already exists", ErrValidation, mappingType)
	}
	return nil
}

// MissingMappings returns the required mapping types the product does not
// hold yet, preserving the order of required.
func MissingMappings(required []models.MappingType, existing []models.ProductGLMapping) []models.MappingType {
	held := make(map[models.MappingType]bool, len(existing))
	for _, m := range existing {
		held[m.MappingType] = true
	}
	var missing []models.MappingType
	for _, r := range required {
		if !held[r] {
			missing = append(missing, r)
		}
	}
	return missing
}
