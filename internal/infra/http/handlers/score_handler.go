package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type ScoreHandler struct {
	scoreUC   *usecase.ScoreLeadUseCase
	trendUC   *usecase.ScoreTrendUseCase
	rescoreUC *usecase.BulkRescoreUseCase
}

func NewScoreHandler(scoreUC *usecase.ScoreLeadUseCase, trendUC *usecase.ScoreTrendUseCase, rescoreUC *usecase.BulkRescoreUseCase) *ScoreHandler {
	return &ScoreHandler{
		scoreUC:   scoreUC,
		trendUC:   trendUC,
		rescoreUC: rescoreUC,
	}
}

type ScoreLeadRequest struct {
	Reason string `json:"reason,omitempty"`
	Actor  string `json:"actor,omitempty"`
	DryRun bool   `json:"dry_run,omitempty"`
}

// POST /orgs/{orgId}/leads/{leadId}/score
func (h *ScoreHandler) HandleScoreLead(w http.ResponseWriter, r *http.Request) {
	var req ScoreLeadRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
	}

	output, err := h.scoreUC.Execute(r.Context(), usecase.ScoreLeadInput{
		OrganizationID: chi.URLParam(r, "orgId"),
		LeadID:         chi.URLParam(r, "leadId"),
		Reason:         req.Reason,
		Actor:          req.Actor,
		DryRun:         req.DryRun,
	})
	if err != nil {
		respondUseCaseError(w, err)
		return
	}

	if !req.DryRun {
		middleware.RecordLeadScored()
	}

	respondJSON(w, http.StatusOK, output)
}

// GET /orgs/{orgId}/leads/{leadId}/score/trend?days=30
func (h *ScoreHandler) HandleGetTrend(w http.ResponseWriter, r *http.Request) {
	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondError(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = parsed
	}

	output, err := h.trendUC.Execute(r.Context(), chi.URLParam(r, "orgId"), chi.URLParam(r, "leadId"), days)
	if err != nil {
		respondUseCaseError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, output)
}

type BulkRescoreRequest struct {
	Reason string `json:"reason,omitempty"`
	Actor  string `json:"actor,omitempty"`
}

// POST /orgs/{orgId}/rescore
func (h *ScoreHandler) HandleBulkRescore(w http.ResponseWriter, r *http.Request) {
	var req BulkRescoreRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
	}

	output, err := h.rescoreUC.Execute(r.Context(), chi.URLParam(r, "orgId"), req.Reason, req.Actor)
	if err != nil {
		respondUseCaseError(w, err)
		return
	}

	// Lote com falhas parciais continua sendo 200: o sumário conta a história.
	respondJSON(w, http.StatusOK, output)
}
