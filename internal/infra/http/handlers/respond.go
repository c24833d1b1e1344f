package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondUseCaseError traduz a taxonomia do usecase para HTTP:
// NOT_FOUND → 404, INVALID_OPERATION → 422, validação → 400, resto → 500.
func respondUseCaseError(w http.ResponseWriter, err error) {
	if de, ok := err.(*usecase.DomainError); ok {
		status := http.StatusBadRequest
		switch de.Code {
		case usecase.CodeNotFound:
			status = http.StatusNotFound
		case usecase.CodeInvalidOperation:
			status = http.StatusUnprocessableEntity
		}
		respondJSON(w, status, ErrorResponse{Error: de.Message, Code: de.Code})
		return
	}

	respondError(w, http.StatusInternalServerError, "internal error")
}
