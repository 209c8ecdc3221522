package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/onana1992/corebank-backoffice/src/models"
	"github.com/onana1992/corebank-backoffice/src/services"
	"github.com/onana1992/corebank-backoffice/src/utils"
)

// ProductHandler serves product CRUD and the seven configuration-row
// collections under /products/{id}/....
type ProductHandler struct {
	products *services.ProductService
}

func NewProductHandler(products *services.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

func productID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

func decode[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "invalid request body", http.StatusBadRequest)
		return req, false
	}
	return req, true
}

// --- Products ---

func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.ListProducts()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.SendJSON(w, products, http.StatusOK)
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		utils.SendJSONError(w, "invalid product id", http.StatusBadRequest)
		return
	}
	product, err := h.products.GetProduct(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.SendJSON(w, product, http.StatusOK)
}

func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[models.ProductRequest](w, r)
	if !ok {
		return
	}
	product, err := h.products.CreateProduct(req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.SendJSON(w, product, http.StatusCreated)
}

func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		utils.SendJSONError(w, "invalid product id", http.StatusBadRequest)
		return
	}
	req, ok := decode[models.ProductRequest](w, r)
	if !ok {
		return
	}
	product, err := h.products.UpdateProduct(id, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.SendJSON(w, product, http.StatusOK)
}

func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		utils.SendJSONError(w, "invalid product id", http.StatusBadRequest)
		return
	}
	if err := h.products.DeleteProduct(id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Overview serves the configuration-health statistics for the overview tab.
func (h *ProductHandler) Overview(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		utils.SendJSONError(w, "invalid product id", http.StatusBadRequest)
		return
	}
	overview, err := h.products.Overview(id, time.Now().UTC())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.SendJSON(w, overview, http.StatusOK)
}

// --- Configuration collections ---
//
// Each kind follows the same list/create/update/delete shape; the service
// layer owns all validation.

func list[T any](w http.ResponseWriter, r *http.Request, fn func(int64) ([]T, error)) {
	id, ok := productID(r)
	if !ok {
		utils.SendJSONError(w, "invalid product id", http.StatusBadRequest)
		return
	}
	rows, err := fn(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.SendJSON(w, rows, http.StatusOK)
}

func create[Req, Row any](w http.ResponseWriter, r *http.Request, fn func(int64, Req) (*Row, error)) {
	id, ok := productID(r)
	if !ok {
		utils.SendJSONError(w, "invalid product id", http.StatusBadRequest)
		return
	}
	req, ok := decode[Req](w, r)
	if !ok {
		return
	}
	row, err := fn(id, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.SendJSON(w, row, http.StatusCreated)
}

func update[Req, Row any](w http.ResponseWriter, r *http.Request, fn func(int64, string, Req) (*Row, error)) {
	id, ok := productID(r)
	if !ok {
		utils.SendJSONError(w, "invalid product id", http.StatusBadRequest)
		return
	}
	req, ok := decode[Req](w, r)
	if !ok {
		return
	}
	row, err := fn(id, chi.URLParam(r, "entityId"), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.SendJSON(w, row, http.StatusOK)
}

func remove(w http.ResponseWriter, r *http.Request, fn func(int64, string) error) {
	id, ok := productID(r)
	if !ok {
		utils.SendJSONError(w, "invalid product id", http.StatusBadRequest)
		return
	}
	if err := fn(id, chi.URLParam(r, "entityId")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProductHandler) ListRates(w http.ResponseWriter, r *http.Request) {
	list(w, r, h.products.ListInterestRates)
}
func (h *ProductHandler) CreateRate(w http.ResponseWriter, r *http.Request) {
	create(w, r, h.products.CreateInterestRate)
}
func (h *ProductHandler) UpdateRate(w http.ResponseWriter, r *http.Request) {
	update(w, r, h.products.UpdateInterestRate)
}
func (h *ProductHandler) DeleteRate(w http.ResponseWriter, r *http.Request) {
	remove(w, r, h.products.DeleteInterestRate)
}

func (h *ProductHandler) ListFees(w http.ResponseWriter, r *http.Request) {
	list(w, r, h.products.ListFees)
}
func (h *ProductHandler) CreateFee(w http.ResponseWriter, r *http.Request) {
	create(w, r, h.products.CreateFee)
}
func (h *ProductHandler) UpdateFee(w http.ResponseWriter, r *http.Request) {
	update(w, r, h.products.UpdateFee)
}
func (h *ProductHandler) DeleteFee(w http.ResponseWriter, r *http.Request) {
	remove(w, r, h.products.DeleteFee)
}

func (h *ProductHandler) ListLimits(w http.ResponseWriter, r *http.Request) {
	list(w, r, h.products.ListLimits)
}
func (h *ProductHandler) CreateLimit(w http.ResponseWriter, r *http.Request) {
	create(w, r, h.products.CreateLimit)
}
func (h *ProductHandler) UpdateLimit(w http.ResponseWriter, r *http.Request) {
	update(w, r, h.products.UpdateLimit)
}
func (h *ProductHandler) DeleteLimit(w http.ResponseWriter, r *http.Request) {
	remove(w, r, h.products.DeleteLimit)
}

func (h *ProductHandler) ListPeriods(w http.ResponseWriter, r *http.Request) {
	list(w, r, h.products.ListPeriods)
}
func (h *ProductHandler) CreatePeriod(w http.ResponseWriter, r *http.Request) {
	create(w, r, h.products.CreatePeriod)
}
func (h *ProductHandler) UpdatePeriod(w http.ResponseWriter, r *http.Request) {
	update(w, r, h.products.UpdatePeriod)
}
func (h *ProductHandler) DeletePeriod(w http.ResponseWriter, r *http.Request) {
	remove(w, r, h.products.DeletePeriod)
}

func (h *ProductHandler) ListPenalties(w http.ResponseWriter, r *http.Request) {
	list(w, r, h.products.ListPenalties)
}
func (h *ProductHandler) CreatePenalty(w http.ResponseWriter, r *http.Request) {
	create(w, r, h.products.CreatePenalty)
}
func (h *ProductHandler) UpdatePenalty(w http.ResponseWriter, r *http.Request) {
	update(w, r, h.products.UpdatePenalty)
}
func (h *ProductHandler) DeletePenalty(w http.ResponseWriter, r *http.Request) {
	remove(w, r, h.products.DeletePenalty)
}

func (h *ProductHandler) ListEligibilityRules(w http.ResponseWriter, r *http.Request) {
	list(w, r, h.products.ListEligibilityRules)
}
func (h *ProductHandler) CreateEligibilityRule(w http.ResponseWriter, r *http.Request) {
	create(w, r, h.products.CreateEligibilityRule)
}
func (h *ProductHandler) UpdateEligibilityRule(w http.ResponseWriter, r *http.Request) {
	update(w, r, h.products.UpdateEligibilityRule)
}
func (h *ProductHandler) DeleteEligibilityRule(w http.ResponseWriter, r *http.Request) {
	remove(w, r, h.products.DeleteEligibilityRule)
}

func (h *ProductHandler) ListGLMappings(w http.ResponseWriter, r *http.Request) {
	list(w, r, h.products.ListGLMappings)
}
func (h *ProductHandler) CreateGLMapping(w http.ResponseWriter, r *http.Request) {
	create(w, r, h.products.CreateGLMapping)
}
func (h *ProductHandler) UpdateGLMapping(w http.ResponseWriter, r *http.Request) {
	update(w, r, h.products.UpdateGLMapping)
}
func (h *ProductHandler) DeleteGLMapping(w http.ResponseWriter, r *http.Request) {
	remove(w, r, h.products.DeleteGLMapping)
}
