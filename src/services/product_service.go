package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/onana1992/corebank-backoffice/src/logger"
	"github.com/onana1992/corebank-backoffice/src/models"
	"github.com/onana1992/corebank-backoffice/src/rules"
)

// ProductService owns product CRUD and the seven configuration-row
// collections. Every write runs the consistency rules first; validation
// failures never reach the database.
type ProductService struct {
	db       *sql.DB
	accounts *AccountService
}

func NewProductService(db *sql.DB, accounts *AccountService) *ProductService {
	return &ProductService{db: db, accounts: accounts}
}

// --- Products ---

func (s *ProductService) ListProducts() ([]models.Product, error) {
	rows, err := s.db.Query("SELECT id, code, name, category, description, is_active, created_at FROM products ORDER BY code ASC")
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Code, &p.Name, &p.Category, &p.Description, &p.IsActive, &p.CreatedAt); err != nil {
			logger.L.Error("Row scan error", "table", "products", "error", err)
			continue
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *ProductService) GetProduct(id int64) (*models.Product, error) {
	var p models.Product
	err := s.db.QueryRow("SELECT id, code, name, category, description, is_active, created_at FROM products WHERE id = ?", id).
		Scan(&p.ID, &p.Code, &p.Name, &p.Category, &p.Description, &p.IsActive, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProductService) CreateProduct(req models.ProductRequest) (*models.Product, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, fmt.Errorf("%w: code is required", rules.ErrValidation)
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", rules.ErrValidation)
	}
	if !req.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown product category %q", rules.ErrValidation, req.Category)
	}

	var exists int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM products WHERE code = ?", code).Scan(&exists); err != nil {
		return nil, fmt.Errorf("checking product code: %w", err)
	}
	if exists > 0 {
		return nil, fmt.Errorf("%w: product code %s already exists", ErrConflict, code)
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	res, err := s.db.Exec("INSERT INTO products (code, name, category, description, is_active) VALUES (?, ?, ?, ?, ?)",
		code, strings.TrimSpace(req.Name), req.Category, req.Description, isActive)
	if err != nil {
		return nil, fmt.Errorf("creating product: %w", err)
	}
	id, _ := res.LastInsertId()
	logger.L.Info("Product created", "code", code, "category", req.Category)
	return s.GetProduct(id)
}

func (s *ProductService) UpdateProduct(id int64, req models.ProductRequest) (*models.Product, error) {
	existing, err := s.GetProduct(id)
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

	_, err = s.db.Exec("UPDATE products SET name = ?, description = ?, is_active = ? WHERE id = ?",
		strings.TrimSpace(req.Name), req.Description, isActive, id)
	if err != nil {
		return nil, fmt.Errorf("updating product %d: %w", id, err)
	}
	return s.GetProduct(id)
}

func (s *ProductService) DeleteProduct(id int64) error {
	if _, err := s.GetProduct(id); err != nil {
		return err
	}

	configTables := []string{
		"product_gl_mappings", "product_interest_rates", "product_fees",
		"product_limits", "product_periods", "product_penalties", "product_eligibility_rules",
	}
	for _, table := range configTables {
		var n int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM "+table+" WHERE product_id = ?", id).Scan(&n); err != nil {
			return fmt.Errorf("checking %s references: %w", table, err)
		}
		if n > 0 {
			return fmt.Errorf("%w: product %d still has configuration rows in %s", ErrConflict, id, table)
		}
	}

	_, err := s.db.Exec("DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting product %d: %w", id, err)
	}
	logger.L.Info("Product deleted", "id", id)
	return nil
}

// CategoryRequirements returns the mapping types a product category must
// hold, from the seeded per-category configuration table.
func (s *ProductService) CategoryRequirements(category models.ProductCategory) ([]models.MappingType, error) {
	rows, err := s.db.Query("SELECT mapping_type FROM product_category_requirements WHERE category = ? ORDER BY mapping_type ASC", category)
	if err != nil {
		return nil, fmt.Errorf("loading category requirements: %w", err)
	}
	defer rows.Close()

	var required []models.MappingType
	for rows.Next() {
		var mt string
		if err := rows.Scan(&mt); err != nil {
			return nil, err
		}
		required = append(required, models.MappingType(mt))
	}
	return required, rows.Err()
}

// --- GL mappings ---

func (s *ProductService) ListGLMappings(productID int64) ([]models.ProductGLMapping, error) {
	if err := s.ensureProduct(productID); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(
		"SELECT id, product_id, mapping_type, ledger_account_id, created_at FROM product_gl_mappings WHERE product_id = ? ORDER BY mapping_type ASC",
		productID)
	if err != nil {
		return nil, fmt.Errorf("listing GL mappings: %w", err)
	}
	defer rows.Close()

	mappings := []models.ProductGLMapping{}
	for rows.Next() {
		var m models.ProductGLMapping
		if err := rows.Scan(&m.ID, &m.ProductID, &m.MappingType, &m.LedgerAccountID, &m.CreatedAt); err != nil {
			logger.L.Error("Row scan error", "table", "product_gl_mappings", "error", err)
			continue
		}
		mappings = append(mappings, m)
	}
	return mappings, rows.Err()
}

// checkMapping runs the full mapping gate: type known, no duplicate for
// the product (excludeID for edits), candidate account existing, active
// and type-compatible.
func (s *ProductService) checkMapping(productID int64, req models.GLMappingRequest, excludeID string) error {
	if !req.MappingType.Valid() {
		return fmt.Errorf("%w: unknown mapping type %q", rules.ErrValidation, req.MappingType)
	}
	existing, err := s.ListGLMappings(productID)
	if err != nil {
		return err
	}
	if err := rules.CheckNotDuplicate(existing, req.MappingType, excludeID); err != nil {
		return err
	}
	account, err := s.accounts.GetLedgerAccount(req.LedgerAccountID)
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%w: ledger account %d does not exist", rules.ErrValidation, req.LedgerAccountID)
	}
	if err != nil {
		return err
	}
	return rules.CheckCompatible(req.MappingType, *account)
}

func (s *ProductService) CreateGLMapping(productID int64, req models.GLMappingRequest) (*models.ProductGLMapping, error) {
	if err := s.checkMapping(productID, req, ""); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	_, err := s.db.Exec("INSERT INTO product_gl_mappings (id, product_id, mapping_type, ledger_account_id) VALUES (?, ?, ?, ?)",
		id, productID, req.MappingType, req.LedgerAccountID)
	if err != nil {
		return nil, fmt.Errorf("creating GL mapping: %w", err)
	}
	logger.L.Info("GL mapping created", "productID", productID, "mappingType", req.MappingType)
	return s.getGLMapping(productID, id)
}

func (s *ProductService) UpdateGLMapping(productID int64, id string, req models.GLMappingRequest) (*models.ProductGLMapping, error) {
	if _, err := s.getGLMapping(productID, id); err != nil {
		return nil, err
	}
	if err := s.checkMapping(productID, req, id); err != nil {
		return nil, err
	}

	_, err := s.db.Exec("UPDATE product_gl_mappings SET mapping_type = ?, ledger_account_id = ? WHERE id = ? AND product_id = ?",
		req.MappingType, req.LedgerAccountID, id, productID)
	if err != nil {
		return nil, fmt.Errorf("updating GL mapping %s: %w", id, err)
	}
	return s.getGLMapping(productID, id)
}

func (s *ProductService) DeleteGLMapping(productID int64, id string) error {
	if _, err := s.getGLMapping(productID, id); err != nil {
		return err
	}
	_, err := s.db.Exec("DELETE FROM product_gl_mappings WHERE id = ? AND product_id = ?", id, productID)
	if err != nil {
		return fmt.Errorf("deleting GL mapping %s: %w", id, err)
	}
	return nil
}

func (s *ProductService) getGLMapping(productID int64, id string) (*models.ProductGLMapping, error) {
	var m models.ProductGLMapping
	err := s.db.QueryRow(
		"SELECT id, product_id, mapping_type, ledger_account_id, created_at FROM product_gl_mappings WHERE id = ? AND product_id = ?",
		id, productID).
		Scan(&m.ID, &m.ProductID, &m.MappingType, &m.LedgerAccountID, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: GL mapping %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// --- Interest rates ---

func (s *ProductService) ListInterestRates(productID int64) ([]models.ProductInterestRate, error) {
	if err := s.ensureProduct(productID); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(
		"SELECT id, product_id, name, rate, min_balance, max_balance, effective_from, effective_to, is_active, created_at FROM product_interest_rates WHERE product_id = ? ORDER BY effective_from ASC, created_at ASC",
		productID)
	if err != nil {
		return nil, fmt.Errorf("listing interest rates: %w", err)
	}
	defer rows.Close()

	rates := []models.ProductInterestRate{}
	for rows.Next() {
		var r models.ProductInterestRate
		var rate string
		var minBal, maxBal, to sql.NullString
		if err := rows.Scan(&r.ID, &r.ProductID, &r.Name, &rate, &minBal, &maxBal,
			&r.EffectiveFrom, &to, &r.IsActive, &r.CreatedAt); err != nil {
			logger.L.Error("Row scan error", "table", "product_interest_rates", "error", err)
			continue
		}
		if r.Rate, err = decimal.NewFromString(rate); err != nil {
			logger.L.Error("Invalid stored rate", "id", r.ID, "value", rate)
			continue
		}
		r.MinBalance = nullableDecimal(minBal)
		r.MaxBalance = nullableDecimal(maxBal)
		r.EffectiveTo = nullableString(to)
		rates = append(rates, r)
	}
	return rates, rows.Err()
}

func (s *ProductService) checkInterestRate(req models.InterestRateRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: name is required", rules.ErrValidation)
	}
	if req.Rate.IsNegative() {
		return fmt.Errorf("%w: rate cannot be negative", rules.ErrValidation)
	}
	if req.MinBalance != nil && req.MaxBalance != nil && req.MinBalance.GreaterThan(*req.MaxBalance) {
		return fmt.Errorf("%w: minBalance cannot exceed maxBalance", rules.ErrValidation)
	}
	return rules.CheckWindow(req.EffectiveWindow)
}

func (s *ProductService) CreateInterestRate(productID int64, req models.InterestRateRequest) (*models.ProductInterestRate, error) {
	if err := s.ensureProduct(productID); err != nil {
		return nil, err
	}
	if err := s.checkInterestRate(req); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	_, err := s.db.Exec(
		"INSERT INTO product_interest_rates (id, product_id, name, rate, min_balance, max_balance, effective_from, effective_to, is_active) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		id, productID, strings.TrimSpace(req.Name), req.Rate.String(),
		decimalArg(req.MinBalance), decimalArg(req.MaxBalance),
		req.EffectiveFrom, stringArg(req.EffectiveTo), req.IsActive)
	if err != nil {
		return nil, fmt.Errorf("creating interest rate: %w", err)
	}
	return s.findRate(productID, id)
}

func (s *ProductService) UpdateInterestRate(productID int64, id string, req models.InterestRateRequest) (*models.ProductInterestRate, error) {
	if _, err := s.findRate(productID, id); err != nil {
		return nil, err
	}
	if err := s.checkInterestRate(req); err != nil {
		return nil, err
	}

	_, err := s.db.Exec(
		"UPDATE product_interest_rates SET name = ?, rate = ?, min_balance = ?, max_balance = ?, effective_from = ?, effective_to = ?, is_active = ? WHERE id = ? AND product_id = ?",
		strings.TrimSpace(req.Name), req.Rate.String(),
		decimalArg(req.MinBalance), decimalArg(req.MaxBalance),
		req.EffectiveFrom, stringArg(req.EffectiveTo), req.IsActive, id, productID)
	if err != nil {
		return nil, fmt.Errorf("updating interest rate %s: %w", id, err)
	}
	return s.findRate(productID, id)
}

func (s *ProductService) DeleteInterestRate(productID int64, id string) error {
	return s.deleteConfigRow(productID, id, "product_interest_rates", "interest rate")
}

func (s *ProductService) findRate(productID int64, id string) (*models.ProductInterestRate, error) {
	rates, err := s.ListInterestRates(productID)
	if err != nil {
		return nil, err
	}
	for i := range rates {
		if rates[i].ID == id {
			return &rates[i], nil
		}
	}
	return nil, fmt.Errorf("%w: interest rate %s", ErrNotFound, id)
}

// --- Fees ---

func (s *ProductService) ListFees(productID int64) ([]models.ProductFee, error) {
	if err := s.ensureProduct(productID); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(
		"SELECT id, product_id, name, fee_type, transaction_type, calculation_base, fee_amount, fee_percentage, effective_from, effective_to, is_active, created_at FROM product_fees WHERE product_id = ? ORDER BY effective_from ASC, created_at ASC",
		productID)
	if err != nil {
		return nil, fmt.Errorf("listing fees: %w", err)
	}
	defer rows.Close()

	fees := []models.ProductFee{}
	for rows.Next() {
		var f models.ProductFee
		var txType, amount, percentage, to sql.NullString
		if err := rows.Scan(&f.ID, &f.ProductID, &f.Name, &f.FeeType, &txType, &f.CalculationBase,
			&amount, &percentage, &f.EffectiveFrom, &to, &f.IsActive, &f.CreatedAt); err != nil {
			logger.L.Error("Row scan error", "table", "product_fees", "error", err)
			continue
		}
		if txType.Valid {
			t := models.TransactionType(txType.String)
			f.TransactionType = &t
		}
		f.FeeAmount = nullableDecimal(amount)
		f.FeePercentage = nullableDecimal(percentage)
		f.EffectiveTo = nullableString(to)
		fees = append(fees, f)
	}
	return fees, rows.Err()
}

// normalizeAndCheckFee is the submit-side projection: narrowing and field
// clearing first, then required-field and window checks on the result.
func normalizeAndCheckFee(req models.FeeRequest) (models.FeeRequest, error) {
	if strings.TrimSpace(req.Name) == "" {
		return req, fmt.Errorf("%w: name is required", rules.ErrValidation)
	}
	if !req.FeeType.Valid() {
		return req, fmt.Errorf("%w: unknown fee type %q", rules.ErrValidation, req.FeeType)
	}
	if !req.CalculationBase.Valid() {
		return req, fmt.Errorf("%w: unknown calculation base %q", rules.ErrValidation, req.CalculationBase)
	}
	if req.FeeType != models.FeeTypeTransaction {
		req.TransactionType = nil
	} else if req.TransactionType != nil && !req.TransactionType.Valid() {
		return req, fmt.Errorf("%w: unknown transaction type %q", rules.ErrValidation, *req.TransactionType)
	}

	req = rules.NormalizeFeeRequest(req)
	if err := rules.CheckAmountFields(req.CalculationBase, req.FeeAmount, req.FeePercentage); err != nil {
		return req, err
	}
	if err := rules.CheckWindow(req.EffectiveWindow); err != nil {
		return req, err
	}
	return req, nil
}

func (s *ProductService) CreateFee(productID int64, req models.FeeRequest) (*models.ProductFee, error) {
	if err := s.ensureProduct(productID); err != nil {
		return nil, err
	}
	req, err := normalizeAndCheckFee(req)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	_, err = s.db.Exec(
		"INSERT INTO product_fees (id, product_id, name, fee_type, transaction_type, calculation_base, fee_amount, fee_percentage, effective_from, effective_to, is_active) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		id, productID, strings.TrimSpace(req.Name), req.FeeType, txTypeArg(req.TransactionType),
		req.CalculationBase, decimalArg(req.FeeAmount), decimalArg(req.FeePercentage),
		req.EffectiveFrom, stringArg(req.EffectiveTo), req.IsActive)
	if err != nil {
		return nil, fmt.Errorf("creating fee: %w", err)
	}
	return s.findFee(productID, id)
}

func (s *ProductService) UpdateFee(productID int64, id string, req models.FeeRequest) (*models.ProductFee, error) {
	if _, err := s.findFee(productID, id); err != nil {
		return nil, err
	}
	req, err := normalizeAndCheckFee(req)
	if err != nil {
		return nil, err
	}

	_, err = s.db.Exec(
		"UPDATE product_fees SET name = ?, fee_type = ?, transaction_type = ?, calculation_base = ?, fee_amount = ?, fee_percentage = ?, effective_from = ?, effective_to = ?, is_active = ? WHERE id = ? AND product_id = ?",
		strings.TrimSpace(req.Name), req.FeeType, txTypeArg(req.TransactionType),
		req.CalculationBase, decimalArg(req.FeeAmount), decimalArg(req.FeePercentage),
		req.EffectiveFrom, stringArg(req.EffectiveTo), req.IsActive, id, productID)
	if err != nil {
		return nil, fmt.Errorf("updating fee %s: %w", id, err)
	}
	return s.findFee(productID, id)
}

func (s *ProductService) DeleteFee(productID int64, id string) error {
	return s.deleteConfigRow(productID, id, "product_fees", "fee")
}

func (s *ProductService) findFee(productID int64, id string) (*models.ProductFee, error) {
	fees, err := s.ListFees(productID)
	if err != nil {
		return nil, err
	}
	for i := range fees {
		if fees[i].ID == id {
			return &fees[i], nil
		}
	}
	return nil, fmt.Errorf("%w: fee %s", ErrNotFound, id)
}

// --- Limits ---

func (s *ProductService) ListLimits(productID int64) ([]models.ProductLimit, error) {
	if err := s.ensureProduct(productID); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(
		"SELECT id, product_id, limit_type, amount, effective_from, effective_to, is_active, created_at FROM product_limits WHERE product_id = ? ORDER BY effective_from ASC, created_at ASC",
		productID)
	if err != nil {
		return nil, fmt.Errorf("listing limits: %w", err)
	}
	defer rows.Close()

	limits := []models.ProductLimit{}
	for rows.Next() {
		var l models.ProductLimit
		var amount string
		var to sql.NullString
		if err := rows.Scan(&l.ID, &l.ProductID, &l.LimitType, &amount,
			&l.EffectiveFrom, &to, &l.IsActive, &l.CreatedAt); err != nil {
			logger.L.Error("Row scan error", "table", "product_limits", "error", err)
			continue
		}
		if l.Amount, err = decimal.NewFromString(amount); err != nil {
			logger.L.Error("Invalid stored limit amount", "id", l.ID, "value", amount)
			continue
		}
		l.EffectiveTo = nullableString(to)
		limits = append(limits, l)
	}
	return limits, rows.Err()
}

func checkLimit(req models.LimitRequest) error {
	if !req.LimitType.Valid() {
		return fmt.Errorf("%w: unknown limit type %q", rules.ErrValidation, req.LimitType)
	}
	if req.Amount.IsNegative() {
		return fmt.Errorf("%w: amount cannot be negative", rules.ErrValidation)
	}
	return rules.CheckWindow(req.EffectiveWindow)
}

func (s *ProductService) CreateLimit(productID int64, req models.LimitRequest) (*models.ProductLimit, error) {
	if err := s.ensureProduct(productID); err != nil {
		return nil, err
	}
	if err := checkLimit(req); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	_, err := s.db.Exec(
		"INSERT INTO product_limits (id, product_id, limit_type, amount, effective_from, effective_to, is_active) VALUES (?, ?, ?, ?, ?, ?, ?)",
		id, productID, req.LimitType, req.Amount.String(),
		req.EffectiveFrom, stringArg(req.EffectiveTo), req.IsActive)
	if err != nil {
		return nil, fmt.Errorf("creating limit: %w", err)
	}
	return s.findLimit(productID, id)
}

func (s *ProductService) UpdateLimit(productID int64, id string, req models.LimitRequest) (*models.ProductLimit, error) {
	if _, err := s.findLimit(productID, id); err != nil {
		return nil, err
	}
	if err := checkLimit(req); err != nil {
		return nil, err
	}

	_, err := s.db.Exec(
		"UPDATE product_limits SET limit_type = ?, amount = ?, effective_from = ?, effective_to = ?, is_active = ? WHERE id = ? AND product_id = ?",
		req.LimitType, req.Amount.String(), req.EffectiveFrom, stringArg(req.EffectiveTo), req.IsActive, id, productID)
	if err != nil {
		return nil, fmt.Errorf("updating limit %s: %w", id, err)
	}
	return s.findLimit(productID, id)
}

func (s *ProductService) DeleteLimit(productID int64, id string) error {
	return s.deleteConfigRow(productID, id, "product_limits", "limit")
}

func (s *ProductService) findLimit(productID int64, id string) (*models.ProductLimit, error) {
	limits, err := s.ListLimits(productID)
	if err != nil {
		return nil, err
	}
	for i := range limits {
		if limits[i].ID == id {
			return &limits[i], nil
		}
	}
	return nil, fmt.Errorf("%w: limit %s", ErrNotFound, id)
}

// --- Periods ---

func (s *ProductService) ListPeriods(productID int64) ([]models.ProductPeriod, error) {
	if err := s.ensureProduct(productID); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(
		"SELECT id, product_id, name, tenor_months, effective_from, effective_to, is_active, created_at FROM product_periods WHERE product_id = ? ORDER BY tenor_months ASC",
		productID)
	if err != nil {
		return nil, fmt.Errorf("listing periods: %w", err)
	}
	defer rows.Close()

	periods := []models.ProductPeriod{}
	for rows.Next() {
		var p models.ProductPeriod
		var to sql.NullString
		if err := rows.Scan(&p.ID, &p.ProductID, &p.Name, &p.TenorMonths,
			&p.EffectiveFrom, &to, &p.IsActive, &p.CreatedAt); err != nil {
			logger.L.Error("Row scan error", "table", "product_periods", "error", err)
			continue
		}
		p.EffectiveTo = nullableString(to)
		periods = append(periods, p)
	}
	return periods, rows.Err()
}

func checkPeriod(req models.PeriodRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: name is required", rules.ErrValidation)
	}
	if req.TenorMonths < 1 {
		return fmt.Errorf("%w: tenorMonths must be at least 1", rules.ErrValidation)
	}
	return rules.CheckWindow(req.EffectiveWindow)
}

func (s *ProductService) CreatePeriod(productID int64, req models.PeriodRequest) (*models.ProductPeriod, error) {
	if err := s.ensureProduct(productID); err != nil {
		return nil, err
	}
	if err := checkPeriod(req); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	_, err := s.db.Exec(
		"INSERT INTO product_periods (id, product_id, name, tenor_months, effective_from, effective_to, is_active) VALUES (?, ?, ?, ?, ?, ?, ?)",
		id, productID, strings.TrimSpace(req.Name), req.TenorMonths,
		req.EffectiveFrom, stringArg(req.EffectiveTo), req.IsActive)
	if err != nil {
		return nil, fmt.Errorf("creating period: %w", err)
	}
	return s.findPeriod(productID, id)
}

func (s *ProductService) UpdatePeriod(productID int64, id string, req models.PeriodRequest) (*models.ProductPeriod, error) {
	if _, err := s.findPeriod(productID, id); err != nil {
		return nil, err
	}
	if err := checkPeriod(req); err != nil {
		return nil, err
	}

	_, err := s.db.Exec(
		"UPDATE product_periods SET name = ?, tenor_months = ?, effective_from = ?, effective_to = ?, is_active = ? WHERE id = ? AND product_id = ?",
		strings.TrimSpace(req.Name), req.TenorMonths, req.EffectiveFrom, stringArg(req.EffectiveTo), req.IsActive, id, productID)
	if err != nil {
		return nil, fmt.Errorf("updating period %s: %w", id, err)
	}
	return s.findPeriod(productID, id)
}

func (s *ProductService) DeletePeriod(productID int64, id string) error {
	return s.deleteConfigRow(productID, id, "product_periods", "period")
}

func (s *ProductService) findPeriod(productID int64, id string) (*models.ProductPeriod, error) {
	periods, err := s.ListPeriods(productID)
	if err != nil {
		return nil, err
	}
	for i := range periods {
		if periods[i].ID == id {
			return &periods[i], nil
		}
	}
	return nil, fmt.Errorf("%w: period %s", ErrNotFound, id)
}

// --- Penalties ---

func (s *ProductService) ListPenalties(productID int64) ([]models.ProductPenalty, error) {
	if err := s.ensureProduct(productID); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(
		"SELECT id, product_id, name, calculation_base, penalty_amount, penalty_percentage, effective_from, effective_to, is_active, created_at FROM product_penalties WHERE product_id = ? ORDER BY effective_from ASC, created_at ASC",
		productID)
	if err != nil {
		return nil, fmt.Errorf("listing penalties: %w", err)
	}
	defer rows.Close()

	penalties := []models.ProductPenalty{}
	for rows.Next() {
		var p models.ProductPenalty
		var amount, percentage, to sql.NullString
		if err := rows.Scan(&p.ID, &p.ProductID, &p.Name, &p.CalculationBase,
			&amount, &percentage, &p.EffectiveFrom, &to, &p.IsActive, &p.CreatedAt); err != nil {
			logger.L.Error("Row scan error", "table", "product_penalties", "error", err)
			continue
		}
		p.PenaltyAmount = nullableDecimal(amount)
		p.PenaltyPercentage = nullableDecimal(percentage)
		p.EffectiveTo = nullableString(to)
		penalties = append(penalties, p)
	}
	return penalties, rows.Err()
}

func normalizeAndCheckPenalty(req models.PenaltyRequest) (models.PenaltyRequest, error) {
	if strings.TrimSpace(req.Name) == "" {
		return req, fmt.Errorf("%w: name is required", rules.ErrValidation)
	}
	if !req.CalculationBase.Valid() {
		return req, fmt.Errorf("%w: unknown calculation base %q", rules.ErrValidation, req.CalculationBase)
	}
	req = rules.NormalizePenaltyRequest(req)
	if err := rules.CheckAmountFields(req.CalculationBase, req.PenaltyAmount, req.PenaltyPercentage); err != nil {
		return req, err
	}
	if err := rules.CheckWindow(req.EffectiveWindow); err != nil {
		return req, err
	}
	return req, nil
}

func (s *ProductService) CreatePenalty(productID int64, req models.PenaltyRequest) (*models.ProductPenalty, error) {
	if err := s.ensureProduct(productID); err != nil {
		return nil, err
	}
	req, err := normalizeAndCheckPenalty(req)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	_, err = s.db.Exec(
		"INSERT INTO product_penalties (id, product_id, name, calculation_base, penalty_amount, penalty_percentage, effective_from, effective_to, is_active) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		id, productID, strings.TrimSpace(req.Name), req.CalculationBase,
		decimalArg(req.PenaltyAmount), decimalArg(req.PenaltyPercentage),
		req.EffectiveFrom, stringArg(req.EffectiveTo), req.IsActive)
	if err != nil {
		return nil, fmt.Errorf("creating penalty: %w", err)
	}
	return s.findPenalty(productID, id)
}

func (s *ProductService) UpdatePenalty(productID int64, id string, req models.PenaltyRequest) (*models.ProductPenalty, error) {
	if _, err := s.findPenalty(productID, id); err != nil {
		return nil, err
	}
	req, err := normalizeAndCheckPenalty(req)
	if err != nil {
		return nil, err
	}

	_, err = s.db.Exec(
		"UPDATE product_penalties SET name = ?, calculation_base = ?, penalty_amount = ?, penalty_percentage = ?, effective_from = ?, effective_to = ?, is_active = ? WHERE id = ? AND product_id = ?",
		strings.TrimSpace(req.Name), req.CalculationBase,
		decimalArg(req.PenaltyAmount), decimalArg(req.PenaltyPercentage),
		req.EffectiveFrom, stringArg(req.EffectiveTo), req.IsActive, id, productID)
	if err != nil {
		return nil, fmt.Errorf("updating penalty %s: %w", id, err)
	}
	return s.findPenalty(productID, id)
}

func (s *ProductService) DeletePenalty(productID int64, id string) error {
	return s.deleteConfigRow(productID, id, "product_penalties", "penalty")
}

func (s *ProductService) findPenalty(productID int64, id string) (*models.ProductPenalty, error) {
	penalties, err := s.ListPenalties(productID)
	if err != nil {
		return nil, err
	}
	for i := range penalties {
		if penalties[i].ID == id {
			return &penalties[i], nil
		}
	}
	return nil, fmt.Errorf("%w: penalty %s", ErrNotFound, id)
}

// --- Eligibility rules ---

func (s *ProductService) ListEligibilityRules(productID int64) ([]models.ProductEligibilityRule, error) {
	if err := s.ensureProduct(productID); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(
		"SELECT id, product_id, attribute, operator, data_type, rule_value, effective_from, effective_to, is_active, created_at FROM product_eligibility_rules WHERE product_id = ? ORDER BY attribute ASC, created_at ASC",
		productID)
	if err != nil {
		return nil, fmt.Errorf("listing eligibility rules: %w", err)
	}
	defer rows.Close()

	ruleRows := []models.ProductEligibilityRule{}
	for rows.Next() {
		var e models.ProductEligibilityRule
		var to sql.NullString
		if err := rows.Scan(&e.ID, &e.ProductID, &e.Attribute, &e.Operator, &e.DataType,
			&e.RuleValue, &e.EffectiveFrom, &to, &e.IsActive, &e.CreatedAt); err != nil {
			logger.L.Error("Row scan error", "table", "product_eligibility_rules", "error", err)
			continue
		}
		e.EffectiveTo = nullableString(to)
		ruleRows = append(ruleRows, e)
	}
	return ruleRows, rows.Err()
}

func checkEligibilityRule(req models.EligibilityRuleRequest) error {
	if strings.TrimSpace(req.Attribute) == "" {
		return fmt.Errorf("%w: attribute is required", rules.ErrValidation)
	}
	if err := rules.ValidateRuleValue(req.Operator, req.DataType, req.RuleValue); err != nil {
		return err
	}
	return rules.CheckWindow(req.EffectiveWindow)
}

func (s *ProductService) CreateEligibilityRule(productID int64, req models.EligibilityRuleRequest) (*models.ProductEligibilityRule, error) {
	if err := s.ensureProduct(productID); err != nil {
		return nil, err
	}
	if err := checkEligibilityRule(req); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	_, err := s.db.Exec(
		"INSERT INTO product_eligibility_rules (id, product_id, attribute, operator, data_type, rule_value, effective_from, effective_to, is_active) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		id, productID, strings.TrimSpace(req.Attribute), req.Operator, req.DataType,
		req.RuleValue, req.EffectiveFrom, stringArg(req.EffectiveTo), req.IsActive)
	if err != nil {
		return nil, fmt.Errorf("creating eligibility rule: %w", err)
	}
	return s.findEligibilityRule(productID, id)
}

func (s *ProductService) UpdateEligibilityRule(productID int64, id string, req models.EligibilityRuleRequest) (*models.ProductEligibilityRule, error) {
	if _, err := s.findEligibilityRule(productID, id); err != nil {
		return nil, err
	}
	if err := checkEligibilityRule(req); err != nil {
		return nil, err
	}

	_, err := s.db.Exec(
		"UPDATE product_eligibility_rules SET attribute = ?, operator = ?, data_type = ?, rule_value = ?, effective_from = ?, effective_to = ?, is_active = ? WHERE id = ? AND product_id = ?",
		strings.TrimSpace(req.Attribute), req.Operator, req.DataType, req.RuleValue,
		req.EffectiveFrom, stringArg(req.EffectiveTo), req.IsActive, id, productID)
	if err != nil {
		return nil, fmt.Errorf("updating eligibility rule %s: %w", id, err)
	}
	return s.findEligibilityRule(productID, id)
}

func (s *ProductService) DeleteEligibilityRule(productID int64, id string) error {
	return s.deleteConfigRow(productID, id, "product_eligibility_rules", "eligibility rule")
}

func (s *ProductService) findEligibilityRule(productID int64, id string) (*models.ProductEligibilityRule, error) {
	ruleRows, err := s.ListEligibilityRules(productID)
	if err != nil {
		return nil, err
	}
	for i := range ruleRows {
		if ruleRows[i].ID == id {
			return &ruleRows[i], nil
		}
	}
	return nil, fmt.Errorf("%w: eligibility rule %s", ErrNotFound, id)
}

// --- Overview ---

// Overview assembles the configuration-health statistics for the product
// overview tab. Overlaps are warnings, not errors.
func (s *ProductService) Overview(productID int64, asOf time.Time) (*models.ProductOverview, error) {
	product, err := s.GetProduct(productID)
	if err != nil {
		return nil, err
	}

	rates, err := s.ListInterestRates(productID)
	if err != nil {
		return nil, err
	}
	fees, err := s.ListFees(productID)
	if err != nil {
		return nil, err
	}
	limits, err := s.ListLimits(productID)
	if err != nil {
		return nil, err
	}
	periods, err := s.ListPeriods(productID)
	if err != nil {
		return nil, err
	}
	penalties, err := s.ListPenalties(productID)
	if err != nil {
		return nil, err
	}
	eligibility, err := s.ListEligibilityRules(productID)
	if err != nil {
		return nil, err
	}
	mappings, err := s.ListGLMappings(productID)
	if err != nil {
		return nil, err
	}

	overview := &models.ProductOverview{
		ProductID: productID,
		RowCounts: map[string]int{
			"rates":       len(rates),
			"fees":        len(fees),
			"limits":      len(limits),
			"periods":     len(periods),
			"penalties":   len(penalties),
			"eligibility": len(eligibility),
			"glMappings":  len(mappings),
		},
		OpenCounts: map[string]int{
			"rates":       rules.OpenCount(rates, asOf),
			"fees":        rules.OpenCount(fees, asOf),
			"limits":      rules.OpenCount(limits, asOf),
			"periods":     rules.OpenCount(periods, asOf),
			"penalties":   rules.OpenCount(penalties, asOf),
			"eligibility": rules.OpenCount(eligibility, asOf),
		},
		OverlapWarnings: []string{},
	}

	for _, w := range []struct {
		kind string
		n    int
	}{
		{"interest rate", rules.CountOverlaps(rates)},
		{"fee", rules.CountOverlaps(fees)},
		{"limit", rules.CountOverlaps(limits)},
		{"period", rules.CountOverlaps(periods)},
		{"penalty", rules.CountOverlaps(penalties)},
		{"eligibility rule", rules.CountOverlaps(eligibility)},
	} {
		if w.n > 0 {
			overview.OverlapWarnings = append(overview.OverlapWarnings,
				fmt.Sprintf("%d overlapping %s windows", w.n, w.kind))
		}
	}

	required, err := s.CategoryRequirements(product.Category)
	if err != nil {
		// Degrade to "nothing missing" rather than failing the overview.
		logger.L.Error("Failed to load category requirements", "category", product.Category, "error", err)
		required = nil
	}
	overview.MissingMappings = rules.MissingMappings(required, mappings)
	return overview, nil
}

// --- helpers ---

func (s *ProductService) ensureProduct(productID int64) error {
	_, err := s.GetProduct(productID)
	return err
}

func (s *ProductService) deleteConfigRow(productID int64, id, table, kind string) error {
	res, err := s.db.Exec("DELETE FROM "+table+" WHERE id = ? AND product_id = ?", id, productID)
	if err != nil {
		return fmt.Errorf("deleting %s %s: %w", kind, id, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
	}
	return nil
}

func nullableDecimal(v sql.NullString) *decimal.Decimal {
	if !v.Valid {
		return nil
	}
	d, err := decimal.NewFromString(v.String)
	if err != nil {
		logger.L.Error("Invalid stored decimal", "value", v.String)
		return nil
	}
	return &d
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func decimalArg(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func stringArg(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func txTypeArg(t *models.TransactionType) any {
	if t == nil {
		return nil
	}
	return string(*t)
}
