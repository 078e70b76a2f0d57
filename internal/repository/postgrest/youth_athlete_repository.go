package postgrest

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/vytor/talentscout/internal/models"
	"github.com/vytor/talentscout/internal/repository"
)

const youthTable = "youth_athletes"

// youthUpsert leaves out achievements and created_at so a merge never
// overwrites them; the table defaults fill them on insert.
type youthUpsert struct {
	ID                   string    `json:"id"`
	Age                  int       `json:"age"`
	PrimarySport         string    `json:"primary_sport"`
	ExperienceYears      int       `json:"experience_years"`
	CurrentLevel         *string   `json:"current_level"`
	School               *string   `json:"school"`
	Grade                *string   `json:"grade"`
	SecondarySports      []string  `json:"secondary_sports"`
	Goals                []string  `json:"goals"`
	TrainingAvailability []string  `json:"training_availability"`
	UpdatedAt            time.Time `json:"updated_at"`
}

type youthAthleteRepository struct {
	c *Client
}

// NewYouthAthleteRepository creates a PostgREST YouthAthleteRepository
func NewYouthAthleteRepository(c *Client) repository.YouthAthleteRepository {
	return &youthAthleteRepository{c: c}
}

func (r *youthAthleteRepository) Get(ctx context.Context, id string) (*models.YouthAthleteProfile, error) {
	var rows []models.YouthAthleteProfile
	if err := r.c.doRequest(ctx, http.MethodGet, youthTable, byID(id), "", nil, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, repository.NotFound(youthTable, id)
	}
	p := rows[0]
	p.SecondarySports = nonNil(p.SecondarySports)
	p.Goals = nonNil(p.Goals)
	p.TrainingAvailability = nonNil(p.TrainingAvailability)
	p.Achievements = nonNil(p.Achievements)
	return &p, nil
}

func (r *youthAthleteRepository) Upsert(ctx context.Context, p models.YouthAthleteProfile) error {
	q := url.Values{}
	q.Set("on_conflict", "id")
	body := youthUpsert{
		ID:                   p.ID,
		Age:                  p.Age,
		PrimarySport:         p.PrimarySport,
		ExperienceYears:      p.ExperienceYears,
		CurrentLevel:         p.CurrentLevel,
		School:               p.School,
		Grade:                p.Grade,
		SecondarySports:      nonNil(p.SecondarySports),
		Goals:                nonNil(p.Goals),
		TrainingAvailability: nonNil(p.TrainingAvailability),
		UpdatedAt:            p.UpdatedAt.UTC(),
	}
	return r.c.doRequest(ctx, http.MethodPost, youthTable, q, "resolution=merge-duplicates,return=minimal", body, nil)
}
