package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/talentscout/internal/models"
)

// MockProfileRepository is a mock implementation of repository.ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) Get(ctx context.Context, id string) (*models.BaseProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BaseProfile), args.Error(1)
}

func (m *MockProfileRepository) UpdateBasic(ctx context.Context, id string, u models.BasicProfileUpdate, at time.Time) error {
	args := m.Called(ctx, id, u, at)
	return args.Error(0)
}
