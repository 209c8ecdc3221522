package handlers

import (
	"errors"
	"net/http"

	"github.com/onana1992/corebank-backoffice/src/logger"
	"github.com/onana1992/corebank-backoffice/src/rules"
	"github.com/onana1992/corebank-backoffice/src/services"
	"github.com/onana1992/corebank-backoffice/src/utils"
)

// writeServiceError maps the error taxonomy onto HTTP statuses: local
// validation -> 400, missing entity -> 404, server-side rejection -> 409,
// anything else -> 500 with a generic message.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, rules.ErrValidation):
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrNotFound):
		utils.SendJSONError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, services.ErrConflict):
		utils.SendJSONError(w, err.Error(), http.StatusConflict)
	default:
		logger.L.Error("Unexpected service error", "error", err)
		utils.SendJSONError(w, "internal server error", http.StatusInternalServerError)
	}
}
