package services

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/onana1992/corebank-backoffice/src/logger"
	"github.com/onana1992/corebank-backoffice/src/models"
	"github.com/onana1992/corebank-backoffice/src/rules"
)

const maxChartCodeLength = 20

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// AccountService owns chart-of-account and ledger-account CRUD, enforcing
// the hierarchy invariants (type matches parent, level = parent.level + 1)
// and the referential delete guards.
type AccountService struct {
	db *sql.DB
}

func NewAccountService(db *sql.DB) *AccountService {
	return &AccountService{db: db}
}

// --- Chart of accounts ---

func (s *AccountService) ListChartOfAccounts(isActive *bool) ([]models.ChartOfAccount, error) {
	query := "SELECT code, name, account_type, parent_code, level, is_active, created_at FROM chart_of_accounts"
	var args []any
	if isActive != nil {
		query += " WHERE is_active = ?"
		args = append(args, *isActive)
	}
	query += " ORDER BY code ASC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing chart of accounts: %w", err)
	}
	defer rows.Close()

	entries := []models.ChartOfAccount{}
	for rows.Next() {
		entry, err := scanChartOfAccount(rows)
		if err != nil {
			logger.L.Error("Row scan error", "table", "chart_of_accounts", "error", err)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (s *AccountService) GetChartOfAccount(code string) (*models.ChartOfAccount, error) {
	row := s.db.QueryRow(
		"SELECT code, name, account_type, parent_code, level, is_active, created_at FROM chart_of_accounts WHERE code = ?",
		code)
	entry, err := scanChartOfAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: chart of account %s", ErrNotFound, code)
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *AccountService) CreateChartOfAccount(req models.ChartOfAccountRequest) (*models.ChartOfAccount, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, fmt.Errorf("%w: code is required", rules.ErrValidation)
	}
	if len(code) > maxChartCodeLength {
		return nil, fmt.Errorf("%w: code exceeds maximum length of %d characters", rules.ErrValidation, maxChartCodeLength)
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", rules.ErrValidation)
	}
	if !req.AccountType.Valid() {
		return nil, fmt.Errorf("%w: unknown account type %q", rules.ErrValidation, req.AccountType)
	}

	level := 1
	var parentCode *string
	if req.ParentCode != nil && strings.TrimSpace(*req.ParentCode) != "" {
		parent, err := s.GetChartOfAccount(strings.TrimSpace(*req.ParentCode))
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: parent chart of account %s does not exist", rules.ErrValidation, *req.ParentCode)
		}
		if err != nil {
			return nil, err
		}
		if parent.AccountType != req.AccountType {
			return nil, fmt.Errorf("%w: account type must match parent (%s is %s)",
				rules.ErrValidation, parent.Code, parent.AccountType)
		}
		level = parent.Level + 1
		parentCode = &parent.Code
	}

	var exists int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM chart_of_accounts WHERE code = ?", code).Scan(&exists); err != nil {
		return nil, fmt.Errorf("checking chart of account code: %w", err)
	}
	if exists > 0 {
		return nil, fmt.Errorf("%w: chart of account code %s already exists", ErrConflict, code)
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	_, err := s.db.Exec(
		"INSERT INTO chart_of_accounts (code, name, account_type, parent_code, level, is_active) VALUES (?, ?, ?, ?, ?, ?)",
		code, strings.TrimSpace(req.Name), req.AccountType, parentCode, level, isActive)
	if err != nil {
		return nil, fmt.Errorf("creating chart of account: %w", err)
	}

	logger.L.Info("Chart of account created", "code", code, "type", req.AccountType, "level", level)
	return s.GetChartOfAccount(code)
}

func (s *AccountService) UpdateChartOfAccount(code string, req models.ChartOfAccountRequest) (*models.ChartOfAccount, error) {
	existing, err := s.GetChartOfAccount(code)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", rules.ErrValidation)
	}

	isActive := existing.IsActive
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	_, err = s.db.Exec("UPDATE chart_of_accounts SET name = ?, is_active = ? WHERE code = ?",
		strings.TrimSpace(req.Name), isActive, code)
	if err != nil {
		return nil, fmt.Errorf("updating chart of account %s: %w", code, err)
	}
	return s.GetChartOfAccount(code)
}

func (s *AccountService) DeleteChartOfAccount(code string) error {
	if _, err := s.GetChartOfAccount(code); err != nil {
		return err
	}

	var children int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM chart_of_accounts WHERE parent_code = ?", code).Scan(&children); err != nil {
		return fmt.Errorf("checking child accounts: %w", err)
	}
	if children > 0 {
		return fmt.Errorf("%w: chart of account %s has %d child accounts", ErrConflict, code, children)
	}

	var referenced int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM ledger_accounts WHERE chart_of_account_code = ?", code).Scan(&referenced); err != nil {
		return fmt.Errorf("checking ledger account references: %w", err)
	}
	if referenced > 0 {
		return fmt.Errorf("%w: chart of account %s is referenced by %d ledger accounts", ErrConflict, code, referenced)
	}

	_, err := s.db.Exec("DELETE FROM chart_of_accounts WHERE code = ?", code)
	if err != nil {
		return fmt.Errorf("deleting chart of account %s: %w", code, err)
	}
	logger.L.Info("Chart of account deleted", "code", code)
	return nil
}

// --- Ledger accounts ---

func (s *AccountService) ListLedgerAccounts(status *models.AccountStatus) ([]models.LedgerAccount, error) {
	query := "SELECT id, code, name, chart_of_account_code, account_type, currency, balance, available_balance, status, created_at FROM ledger_accounts"
	var args []any
	if status != nil {
		query += " WHERE status = ?"
		args = append(args, string(*status))
	}
	query += " ORDER BY code ASC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing ledger accounts: %w", err)
	}
	defer rows.Close()

	accounts := []models.LedgerAccount{}
	for rows.Next() {
		account, err := scanLedgerAccount(rows)
		if err != nil {
			logger.L.Error("Row scan error", "table", "ledger_accounts", "error", err)
			continue
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

func (s *AccountService) GetLedgerAccount(id int64) (*models.LedgerAccount, error) {
	row := s.db.QueryRow(
		"SELECT id, code, name, chart_of_account_code, account_type, currency, balance, available_balance, status, created_at FROM ledger_accounts WHERE id = ?",
		id)
	account, err := scanLedgerAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: ledger account %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *AccountService) CreateLedgerAccount(req models.LedgerAccountRequest) (*models.LedgerAccount, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, fmt.Errorf("%w: code is required", rules.ErrValidation)
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", rules.ErrValidation)
	}
	if !currencyPattern.MatchString(req.Currency) {
		return nil, fmt.Errorf("%w: currency must be a 3-letter ISO code, got %q", rules.ErrValidation, req.Currency)
	}

	chart, err := s.GetChartOfAccount(strings.TrimSpace(req.ChartOfAccountCode))
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("%w: chart of account %s does not exist", rules.ErrValidation, req.ChartOfAccountCode)
	}
	if err != nil {
		return nil, err
	}
	if !chart.IsActive {
		return nil, fmt.Errorf("%w: chart of account %s is inactive", rules.ErrValidation, chart.Code)
	}

	status := models.AccountStatusActive
	if req.Status != "" {
		if req.Status != models.AccountStatusActive && req.Status != models.AccountStatusInactive {
			return nil, fmt.Errorf("%w: unknown status %q", rules.ErrValidation, req.Status)
		}
		status = req.Status
	}

	var exists int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM ledger_accounts WHERE code = ?", code).Scan(&exists); err != nil {
		return nil, fmt.Errorf("checking ledger account code: %w", err)
	}
	if exists > 0 {
		return nil, fmt.Errorf("%w: ledger account code %s already exists", ErrConflict, code)
	}

	// The account type always mirrors the chart entry it posts into.
	res, err := s.db.Exec(
		"INSERT INTO ledger_accounts (code, name, chart_of_account_code, account_type, currency, status) VALUES (?, ?, ?, ?, ?, ?)",
		code, strings.TrimSpace(req.Name), chart.Code, chart.AccountType, req.Currency, string(status))
	if err != nil {
		return nil, fmt.Errorf("creating ledger account: %w", err)
	}
	id, _ := res.LastInsertId()

	logger.L.Info("Ledger account created", "code", code, "chartCode", chart.Code, "type", chart.AccountType)
	return s.GetLedgerAccount(id)
}

func (s *AccountService) UpdateLedgerAccount(id int64, req models.LedgerAccountRequest) (*models.LedgerAccount, error) {
	existing, err := s.GetLedgerAccount(id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", rules.ErrValidation)
	}

	status := existing.Status
	if req.Status != "" {
		if req.Status != models.AccountStatusActive && req.Status != models.AccountStatusInactive {
			return nil, fmt.Errorf("%w: unknown status %q", rules.ErrValidation, req.Status)
		}
		status = req.Status
	}

	_, err = s.db.Exec("UPDATE ledger_accounts SET name = ?, status = ? WHERE id = ?",
		strings.TrimSpace(req.Name), string(status), id)
	if err != nil {
		return nil, fmt.Errorf("updating ledger account %d: %w", id, err)
	}
	return s.GetLedgerAccount(id)
}

func (s *AccountService) DeleteLedgerAccount(id int64) error {
	if _, err := s.GetLedgerAccount(id); err != nil {
		return err
	}

	var referenced int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM product_gl_mappings WHERE ledger_account_id = ?", id).Scan(&referenced); err != nil {
		return fmt.Errorf("checking GL mapping references: %w", err)
	}
	if referenced > 0 {
		return fmt.Errorf("%w: ledger account %d is referenced by %d product GL mappings", ErrConflict, id, referenced)
	}

	_, err := s.db.Exec("DELETE FROM ledger_accounts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting ledger account %d: %w", id, err)
	}
	logger.L.Info("Ledger account deleted", "id", id)
	return nil
}

// --- scanning ---

type rowScanner interface {
	Scan(dest ...any) error
}

func scanChartOfAccount(r rowScanner) (models.ChartOfAccount, error) {
	var entry models.ChartOfAccount
	var parent sql.NullString
	err := r.Scan(&entry.Code, &entry.Name, &entry.AccountType, &parent, &entry.Level, &entry.IsActive, &entry.CreatedAt)
	if err != nil {
		return entry, err
	}
	if parent.Valid {
		entry.ParentCode = &parent.String
	}
	return entry, nil
}

func scanLedgerAccount(r rowScanner) (models.LedgerAccount, error) {
	var account models.LedgerAccount
	var balance, available, status string
	err := r.Scan(&account.ID, &account.Code, &account.Name, &account.ChartOfAccountCode,
		&account.AccountType, &account.Currency, &balance, &available, &status, &account.CreatedAt)
	if err != nil {
		return account, err
	}
	if account.Balance, err = decimal.NewFromString(balance); err != nil {
		return account, fmt.Errorf("parsing balance %q: %w", balance, err)
	}
	if account.AvailableBalance, err = decimal.NewFromString(available); err != nil {
		return account, fmt.Errorf("parsing available balance %q: %w", available, err)
	}
	account.Status = models.AccountStatus(status)
	return account, nil
}
