package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/talentscout/internal/models"
)

// MockYouthAthleteRepository is a mock implementation of repository.YouthAthleteRepository
type MockYouthAthleteRepository struct {
	mock.Mock
}

func (m *MockYouthAthleteRepository) Get(ctx context.Context, id string) (*models.YouthAthleteProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.YouthAthleteProfile), args.Error(1)
}

func (m *MockYouthAthleteRepository) Upsert(ctx context.Context, p models.YouthAthleteProfile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

// MockExpertRepository is a mock implementation of repository.ExpertRepository
type MockExpertRepository struct {
	mock.Mock
}

func (m *MockExpertRepository) Get(ctx context.Context, id string) (*models.ExpertProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExpertProfile), args.Error(1)
}

func (m *MockExpertRepository) Upsert(ctx context.Context, p models.ExpertProfile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockExpertRepository) ListDirectory(ctx context.Context) ([]models.ExpertListing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ExpertListing), args.Error(1)
}

// MockEvaluationRepository is a mock implementation of repository.EvaluationRepository
type MockEvaluationRepository struct {
	mock.Mock
}

func (m *MockEvaluationRepository) ListByYouth(ctx context.Context, youthID string, filter models.EvaluationFilter) ([]models.Evaluation, error) {
	args := m.Called(ctx, youthID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Evaluation), args.Error(1)
}
