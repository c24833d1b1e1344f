package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) FindByID(ctx context.Context, organizationID, id string) (*entity.Lead, error) {
	args := m.Called(ctx, organizationID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindByOrganization(ctx context.Context, organizationID string) ([]*entity.Lead, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) Save(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) SaveScore(ctx context.Context, lead *entity.Lead, entry *entity.ScoreHistoryEntry) error {
	args := m.Called(ctx, lead, entry)
	return args.Error(0)
}

func (m *MockLeadRepository) SaveMerge(ctx context.Context, primary, duplicate *entity.Lead) error {
	args := m.Called(ctx, primary, duplicate)
	return args.Error(0)
}

// MockQueueProducer
type MockQueueProducer struct {
	mock.Mock
}

func (m *MockQueueProducer) PublishLeadUpdated(ctx context.Context, payload queue.LeadUpdatedPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

// withURLParams simula o routing do chi nos testes de handler.
func withURLParams(r *http.Request, params map[string]string) *http.Request {
	chiCtx := chi.NewRouteContext()
	for k, v := range params {
		chiCtx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, chiCtx))
}
