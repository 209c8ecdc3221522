package services

import (
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/onana1992/corebank-backoffice/src/models"
	"github.com/onana1992/corebank-backoffice/src/rules"
)

const (
	cacheKeyActiveChart  = "chart-of-accounts:active"
	cacheKeyActiveLedger = "ledger-accounts:active"
)

// ReferenceService is a TTL-bounded read-through cache over the account
// catalogs. Mutating services call Invalidate after every successful write.
type ReferenceService struct {
	accounts *AccountService
	cache    *cache.Cache
}

func NewReferenceService(accounts *AccountService, ttl, cleanup time.Duration) *ReferenceService {
	return &ReferenceService{
		accounts: accounts,
		cache:    cache.New(ttl, cleanup),
	}
}

// ActiveChartOfAccounts returns the active chart entries, cached.
func (s *ReferenceService) ActiveChartOfAccounts() ([]models.ChartOfAccount, error) {
	if v, found := s.cache.Get(cacheKeyActiveChart); found {
		return v.([]models.ChartOfAccount), nil
	}
	active := true
	entries, err := s.accounts.ListChartOfAccounts(&active)
	if err != nil {
		return nil, err
	}
	s.cache.Set(cacheKeyActiveChart, entries, cache.DefaultExpiration)
	return entries, nil
}

// ActiveLedgerAccounts returns the active ledger accounts, cached.
func (s *ReferenceService) ActiveLedgerAccounts() ([]models.LedgerAccount, error) {
	if v, found := s.cache.Get(cacheKeyActiveLedger); found {
		return v.([]models.LedgerAccount), nil
	}
	status := models.AccountStatusActive
	accounts, err := s.accounts.ListLedgerAccounts(&status)
	if err != nil {
		return nil, err
	}
	s.cache.Set(cacheKeyActiveLedger, accounts, cache.DefaultExpiration)
	return accounts, nil
}

// CompatibleLedgerAccounts returns only the active accounts whose type is
// legal for the mapping type; this feeds the mapping selector so users are
// never offered an incompatible account.
func (s *ReferenceService) CompatibleLedgerAccounts(mappingType models.MappingType) ([]models.LedgerAccount, error) {
	accounts, err := s.ActiveLedgerAccounts()
	if err != nil {
		return nil, err
	}
	compatible := make([]models.LedgerAccount, 0, len(accounts))
	for _, a := range accounts {
		if rules.IsCompatible(mappingType, a) {
			compatible = append(compatible, a)
		}
	}
	return compatible, nil
}

// Invalidate drops every cached catalog.
func (s *ReferenceService) Invalidate() {
	s.cache.Flush()
}
