package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/vytor/talentscout/internal/models"
	"github.com/vytor/talentscout/internal/repository"
	"github.com/vytor/talentscout/internal/testutil/mocks"
)

type fakeSession struct {
	id         string
	userType   models.UserType
	refreshErr error

	mu        sync.Mutex
	refreshes int
}

func (s *fakeSession) UserID() string             { return s.id }
func (s *fakeSession) UserType() models.UserType { return s.userType }

func (s *fakeSession) RefreshProfile(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshes++
	return s.refreshErr
}

func (s *fakeSession) Refreshes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshes
}

type fakeGateway struct {
	profiles    *mocks.MockProfileRepository
	youth       *mocks.MockYouthAthleteRepository
	experts     *mocks.MockExpertRepository
	evaluations *mocks.MockEvaluationRepository
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		profiles:    new(mocks.MockProfileRepository),
		youth:       new(mocks.MockYouthAthleteRepository),
		experts:     new(mocks.MockExpertRepository),
		evaluations: new(mocks.MockEvaluationRepository),
	}
}

func (g *fakeGateway) Gateway() repository.Gateway {
	return repository.Gateway{
		Profiles:    g.profiles,
		Youth:       g.youth,
		Experts:     g.experts,
		Evaluations: g.evaluations,
	}
}

func strPtr(s string) *string { return &s }

var created = time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)

func baseProfile(id string, userType models.UserType) *models.BaseProfile {
	email := models.ContactEmail
	return &models.BaseProfile{
		ID:                     id,
		FirstName:              "Ana",
		LastName:               "Silva",
		Bio:                    strPtr("original bio"),
		PreferredContactMethod: &email,
		AvatarURL:              strPtr("https://cdn.example.com/a.png"),
		UserType:               userType,
		CreatedAt:              created,
		UpdatedAt:              created,
	}
}
