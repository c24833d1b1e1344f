package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type DuplicateHandler struct {
	findUC *usecase.FindDuplicatesUseCase
}

func NewDuplicateHandler(findUC *usecase.FindDuplicatesUseCase) *DuplicateHandler {
	return &DuplicateHandler{findUC: findUC}
}

// GET /orgs/{orgId}/duplicates?lead_id=&limit=&notify=
func (h *DuplicateHandler) HandleFindDuplicates(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	candidates, err := h.findUC.Execute(r.Context(), usecase.FindDuplicatesInput{
		OrganizationID: chi.URLParam(r, "orgId"),
		TargetLeadID:   r.URL.Query().Get("lead_id"),
		Limit:          limit,
		NotifyEmail:    r.URL.Query().Get("notify"),
	})
	if err != nil {
		respondUseCaseError(w, err)
		return
	}

	middleware.RecordDuplicatesDetected(len(candidates))

	respondJSON(w, http.StatusOK, candidates)
}
