package usecase

import (
	"context"
	"time"

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

// MockScoreHistoryRepository
type MockScoreHistoryRepository struct {
	mock.Mock
}

func (m *MockScoreHistoryRepository) Append(ctx context.Context, entry *entity.ScoreHistoryEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockScoreHistoryRepository) FindByLeadSince(ctx context.Context, organizationID, leadID string, since time.Time) ([]*entity.ScoreHistoryEntry, error) {
	args := m.Called(ctx, organizationID, leadID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.ScoreHistoryEntry), args.Error(1)
}

// MockQueueProducer
type MockQueueProducer struct {
	mock.Mock
}

func (m *MockQueueProducer) PublishLeadUpdated(ctx context.Context, payload queue.LeadUpdatedPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendDuplicateAlert(to, organizationID string, candidates []*entity.DuplicateCandidate) error {
	args := m.Called(to, organizationID, candidates)
	return args.Error(0)
}
