package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/onana1992/corebank-backoffice/src/logger"
	"github.com/onana1992/corebank-backoffice/src/models"
	"github.com/onana1992/corebank-backoffice/src/services"
	"github.com/onana1992/corebank-backoffice/src/utils"
)

// AccountHandler serves chart-of-account and ledger-account endpoints.
type AccountHandler struct {
	accounts *services.AccountService
	refs     services.ReferenceProvider
}

func NewAccountHandler(accounts *services.AccountService, refs services.ReferenceProvider) *AccountHandler {
	return &AccountHandler{accounts: accounts, refs: refs}
}

// --- Chart of accounts ---

func (h *AccountHandler) ListChartOfAccounts(w http.ResponseWriter, r *http.Request) {
	var isActive *bool
	if v := r.URL.Query().Get("isActive"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			utils.SendJSONError(w, "invalid isActive filter", http.StatusBadRequest)
			return
		}
		isActive = &parsed
	}

	entries, err := h.accounts.ListChartOfAccounts(isActive)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.SendJSON(w, entries, http.StatusOK)
}

func (h *AccountHandler) GetChartOfAccount(w http.ResponseWriter, r *http.Request) {
	entry, err := h.accounts.GetChartOfAccount(chi.URLParam(r, "code"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.SendJSON(w, entry, http.StatusOK)
}

func (h *AccountHandler) CreateChartOfAccount(w http.ResponseWriter, r *http.Request) {
	var req models.ChartOfAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	entry, err := h.accounts.CreateChartOfAccount(req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.refs.Invalidate()
	utils.SendJSON(w, entry, http.StatusCreated)
}

func (h *AccountHandler) UpdateChartOfAccount(w http.ResponseWriter, r *http.Request) {
	var req models.ChartOfAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	entry, err := h.accounts.UpdateChartOfAccount(chi.URLParam(r, "code"), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.refs.Invalidate()
	utils.SendJSON(w, entry, http.StatusOK)
}

func (h *AccountHandler) DeleteChartOfAccount(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if err := h.accounts.DeleteChartOfAccount(code); err != nil {
		writeServiceError(w, err)
		return
	}
	h.refs.Invalidate()
	logger.L.Info("Chart of account removed via API", "code", code)
	w.WriteHeader(http.StatusNoContent)
}

// --- Ledger accounts ---

func (h *AccountHandler) ListLedgerAccounts(w http.ResponseWriter, r *http.Request) {
	var status *models.AccountStatus
	if v := r.URL.Query().Get("status"); v != "" {
		s := models.AccountStatus(v)
		if s != models.AccountStatusActive && s != models.AccountStatusInactive {
			utils.SendJSONError(w, "invalid status filter", http.StatusBadRequest)
			return
		}
		status = &s
	}

	accounts, err := h.accounts.ListLedgerAccounts(status)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.SendJSON(w, accounts, http.StatusOK)
}

func (h *AccountHandler) GetLedgerAccount(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.SendJSONError(w, "invalid ledger account id", http.StatusBadRequest)
		return
	}
	account, err := h.accounts.GetLedgerAccount(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.SendJSON(w, account, http.StatusOK)
}

func (h *AccountHandler) CreateLedgerAccount(w http.ResponseWriter, r *http.Request) {
	var req models.LedgerAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	account, err := h.accounts.CreateLedgerAccount(req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.refs.Invalidate()
	utils.SendJSON(w, account, http.StatusCreated)
}

func (h *AccountHandler) UpdateLedgerAccount(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.SendJSONError(w, "invalid ledger account id", http.StatusBadRequest)
		return
	}
	var req models.LedgerAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	account, err := h.accounts.UpdateLedgerAccount(id, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.refs.Invalidate()
	utils.SendJSON(w, account, http.StatusOK)
}

func (h *AccountHandler) DeleteLedgerAccount(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.SendJSONError(w, "invalid ledger account id", http.StatusBadRequest)
		return
	}
	if err := h.accounts.DeleteLedgerAccount(id); err != nil {
		writeServiceError(w, err)
		return
	}
	h.refs.Invalidate()
	w.WriteHeader(http.StatusNoContent)
}

// --- Reference catalogs ---

// CompatibleLedgerAccounts serves the mapping selector: only active,
// type-compatible accounts for the requested mapping type.
func (h *AccountHandler) CompatibleLedgerAccounts(w http.ResponseWriter, r *http.Request) {
	mappingType := models.MappingType(r.URL.Query().Get("mappingType"))
	if !mappingType.Valid() {
		utils.SendJSONError(w, "unknown mapping type", http.StatusBadRequest)
		return
	}
	accounts, err := h.refs.CompatibleLedgerAccounts(mappingType)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.SendJSON(w, accounts, http.StatusOK)
}
