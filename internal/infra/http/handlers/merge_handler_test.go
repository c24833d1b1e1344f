package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

func mergeRequest(t *testing.T, body MergeLeadsRequest) (*httptest.ResponseRecorder, *http.Request) {
	t.Helper()
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", "/orgs/org-1/leads/merge", bytes.NewReader(raw))
	req = withURLParams(req, map[string]string{"orgId": "org-1"})
	return httptest.NewRecorder(), req
}

func TestMergeHandlerSuccess(t *testing.T) {
	mockRepo := new(MockLeadRepository)
	primary := &entity.Lead{ID: "primario", OrganizationID: "org-1", Name: "Ana Souza", Stage: entity.StageLead}
	duplicate := &entity.Lead{ID: "duplicado", OrganizationID: "org-1", Name: "Ana S.", Stage: entity.StageLead}

	mockRepo.On("FindByID", mock.Anything, "org-1", "primario").Return(primary, nil)
	mockRepo.On("FindByID", mock.Anything, "org-1", "duplicado").Return(duplicate, nil)
	mockRepo.On("SaveMerge", mock.Anything, primary, duplicate).Return(nil)

	handler := NewMergeHandler(usecase.NewMergeLeadsUseCase(mockRepo))

	w, req := mergeRequest(t, MergeLeadsRequest{
		PrimaryID:   "primario",
		DuplicateID: "duplicado",
		Strategy:    "keep_original",
	})

	handler.HandleMerge(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response entity.Lead
	json.NewDecoder(w.Body).Decode(&response)
	assert.Equal(t, "primario", response.ID)
	assert.Len(t, response.MergeHistory, 1)
}

func TestMergeHandlerInvalidJSON(t *testing.T) {
	handler := NewMergeHandler(usecase.NewMergeLeadsUseCase(new(MockLeadRepository)))

	req := httptest.NewRequest("POST", "/orgs/org-1/leads/merge", bytes.NewReader([]byte("invalid json")))
	req = withURLParams(req, map[string]string{"orgId": "org-1"})
	w := httptest.NewRecorder()

	handler.HandleMerge(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMergeHandlerMissingIDs(t *testing.T) {
	handler := NewMergeHandler(usecase.NewMergeLeadsUseCase(new(MockLeadRepository)))

	w, req := mergeRequest(t, MergeLeadsRequest{Strategy: "keep_original"})

	handler.HandleMerge(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMergeHandlerSelfMergeIsUnprocessable(t *testing.T) {
	handler := NewMergeHandler(usecase.NewMergeLeadsUseCase(new(MockLeadRepository)))

	w, req := mergeRequest(t, MergeLeadsRequest{
		PrimaryID:   "mesmo",
		DuplicateID: "mesmo",
		Strategy:    "keep_original",
	})

	handler.HandleMerge(w, req)

	// INVALID_OPERATION vira 422.
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var errResponse ErrorResponse
	json.NewDecoder(w.Body).Decode(&errResponse)
	assert.Equal(t, usecase.CodeInvalidOperation, errResponse.Code)
}

func TestMergeHandlerLeadNotFound(t *testing.T) {
	mockRepo := new(MockLeadRepository)
	mockRepo.On("FindByID", mock.Anything, "org-1", "primario").Return(nil, nil)

	handler := NewMergeHandler(usecase.NewMergeLeadsUseCase(mockRepo))

	w, req := mergeRequest(t, MergeLeadsRequest{
		PrimaryID:   "primario",
		DuplicateID: "duplicado",
		Strategy:    "keep_best_data",
	})

	handler.HandleMerge(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var errResponse ErrorResponse
	json.NewDecoder(w.Body).Decode(&errResponse)
	assert.Equal(t, usecase.CodeNotFound, errResponse.Code)
}
