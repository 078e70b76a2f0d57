package repository

import (
	"context"
	"time"

	"github.com/vytor/talentscout/internal/models"
)

// ProfileRepository handles base profile data access
type ProfileRepository interface {
	Get(ctx context.Context, id string) (*models.BaseProfile, error)
	UpdateBasic(ctx context.Context, id string, u models.BasicProfileUpdate, at time.Time) error
}

// YouthAthleteRepository handles youth athlete sub-profile data access
type YouthAthleteRepository interface {
	Get(ctx context.Context, id string) (*models.YouthAthleteProfile, error)
	Upsert(ctx context.Context, p models.YouthAthleteProfile) error
}

// ExpertRepository handles expert sub-profile data access
type ExpertRepository interface {
	Get(ctx context.Context, id string) (*models.ExpertProfile, error)
	Upsert(ctx context.Context, p models.ExpertProfile) error
	ListDirectory(ctx context.Context) ([]models.ExpertListing, error)
}

// EvaluationRepository handles evaluation data access
type EvaluationRepository interface {
	ListByYouth(ctx context.Context, youthID string, filter models.EvaluationFilter) ([]models.Evaluation, error)
}

// Gateway bundles the repositories of one backend.
type Gateway struct {
	Profiles    ProfileRepository
	Youth       YouthAthleteRepository
	Experts     ExpertRepository
	Evaluations EvaluationRepository
}
