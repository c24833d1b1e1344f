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

// ============ TESTES DO HANDLER ============

func TestCaptureLeadHandlerSuccess(t *testing.T) {
	mockRepo := new(MockLeadRepository)
	mockQueue := new(MockQueueProducer)
	mockRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
	mockQueue.On("PublishLeadUpdated", mock.Anything, mock.Anything).Return(nil)

	uc := usecase.NewCaptureLeadUseCase(mockRepo, mockQueue)
	handler := NewLeadHandler(uc, mockRepo)

	input := CaptureLeadRequest{
		Name:   "Ana Souza",
		Email:  "ana@empresa.com.br",
		Phone:  "(11) 99999-8888",
		Source: "referral",
	}

	body, _ := json.Marshal(input)
	req := httptest.NewRequest("POST", "/orgs/org-1/leads", bytes.NewReader(body))
	req = withURLParams(req, map[string]string{"orgId": "org-1"})
	w := httptest.NewRecorder()

	handler.CaptureLead(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response entity.Lead
	json.NewDecoder(w.Body).Decode(&response)

	assert.NotEmpty(t, response.ID)
	assert.Equal(t, "org-1", response.OrganizationID)
	assert.Equal(t, entity.StageLead, response.Stage)
}

func TestCaptureLeadHandlerInvalidJSON(t *testing.T) {
	uc := usecase.NewCaptureLeadUseCase(new(MockLeadRepository), new(MockQueueProducer))
	handler := NewLeadHandler(uc, new(MockLeadRepository))

	req := httptest.NewRequest("POST", "/orgs/org-1/leads", bytes.NewReader([]byte("invalid json")))
	req = withURLParams(req, map[string]string{"orgId": "org-1"})
	w := httptest.NewRecorder()

	handler.CaptureLead(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCaptureLeadHandlerValidationError(t *testing.T) {
	uc := usecase.NewCaptureLeadUseCase(new(MockLeadRepository), new(MockQueueProducer))
	handler := NewLeadHandler(uc, new(MockLeadRepository))

	// Email inválido passa do handler e cai na validação do usecase.
	input := CaptureLeadRequest{Name: "Ana Souza", Email: "nao-e-email"}

	body, _ := json.Marshal(input)
	req := httptest.NewRequest("POST", "/orgs/org-1/leads", bytes.NewReader(body))
	req = withURLParams(req, map[string]string{"orgId": "org-1"})
	w := httptest.NewRecorder()

	handler.CaptureLead(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var errResponse ErrorResponse
	json.NewDecoder(w.Body).Decode(&errResponse)
	assert.Equal(t, "VALIDATION", errResponse.Code)
}

func TestGetLeadHandlerSuccess(t *testing.T) {
	mockRepo := new(MockLeadRepository)
	lead := &entity.Lead{ID: "lead-1", OrganizationID: "org-1", Name: "Ana Souza", Stage: entity.StageLead}
	mockRepo.On("FindByID", mock.Anything, "org-1", "lead-1").Return(lead, nil)

	uc := usecase.NewCaptureLeadUseCase(mockRepo, new(MockQueueProducer))
	handler := NewLeadHandler(uc, mockRepo)

	req := httptest.NewRequest("GET", "/orgs/org-1/leads/lead-1", nil)
	req = withURLParams(req, map[string]string{"orgId": "org-1", "leadId": "lead-1"})
	w := httptest.NewRecorder()

	handler.GetLead(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response entity.Lead
	json.NewDecoder(w.Body).Decode(&response)
	assert.Equal(t, "lead-1", response.ID)
}

func TestGetLeadHandlerNotFound(t *testing.T) {
	mockRepo := new(MockLeadRepository)
	mockRepo.On("FindByID", mock.Anything, "org-1", "fantasma").Return(nil, nil)

	uc := usecase.NewCaptureLeadUseCase(mockRepo, new(MockQueueProducer))
	handler := NewLeadHandler(uc, mockRepo)

	req := httptest.NewRequest("GET", "/orgs/org-1/leads/fantasma", nil)
	req = withURLParams(req, map[string]string{"orgId": "org-1", "leadId": "fantasma"})
	w := httptest.NewRecorder()

	handler.GetLead(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var errResponse ErrorResponse
	json.NewDecoder(w.Body).Decode(&errResponse)
	assert.Equal(t, usecase.CodeNotFound, errResponse.Code)
}
