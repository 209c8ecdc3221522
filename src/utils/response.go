package utils

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the JSON envelope for every non-success response.
type ErrorResponse struct {
	Message string `json:"message"`
}

// SendJSON writes v as a JSON response with the given status code.
func SendJSON(w http.ResponseWriter, v any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// SendJSONError writes a structured error message with the given status code.
func SendJSONError(w http.ResponseWriter, message string, statusCode int) {
	SendJSON(w, ErrorResponse{Message: message}, statusCode)
}
