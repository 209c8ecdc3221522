package services

import (
	"errors"

	"github.com/onana1992/corebank-backoffice/src/models"
)

// Common service errors. Handlers map these onto HTTP status codes:
// rules.ErrValidation -> 400, ErrNotFound -> 404, ErrConflict -> 409.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// ReferenceProvider supplies the catalogs offered in mapping selectors:
// active chart entries and active ledger accounts, cached read-through.
type ReferenceProvider interface {
	ActiveChartOfAccounts() ([]models.ChartOfAccount, error)
	ActiveLedgerAccounts() ([]models.LedgerAccount, error)
	CompatibleLedgerAccounts(mappingType models.MappingType) ([]models.LedgerAccount, error)
	Invalidate()
}
