package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type MergeHandler struct {
	mergeUC *usecase.MergeLeadsUseCase
}

func NewMergeHandler(mergeUC *usecase.MergeLeadsUseCase) *MergeHandler {
	return &MergeHandler{mergeUC: mergeUC}
}

type MergeLeadsRequest struct {
	PrimaryID   string `json:"primary_id"`
	DuplicateID string `json:"duplicate_id"`
	Strategy    string `json:"strategy"`
	Notes       string `json:"notes,omitempty"`
}

// POST /orgs/{orgId}/leads/merge
func (h *MergeHandler) HandleMerge(w http.ResponseWriter, r *http.Request) {
	var req MergeLeadsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.PrimaryID == "" || req.DuplicateID == "" {
		respondError(w, http.StatusBadRequest, "primary_id and duplicate_id are required")
		return
	}

	primary, err := h.mergeUC.Execute(r.Context(), usecase.MergeLeadsInput{
		OrganizationID: chi.URLParam(r, "orgId"),
		PrimaryID:      req.PrimaryID,
		DuplicateID:    req.DuplicateID,
		Strategy:       req.Strategy,
		Notes:          req.Notes,
	})
	if err != nil {
		respondUseCaseError(w, err)
		return
	}

	middleware.RecordMerge(req.Strategy)

	respondJSON(w, http.StatusOK, primary)
}
