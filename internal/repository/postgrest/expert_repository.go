package postgrest

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/vytor/talentscout/internal/models"
	"github.com/vytor/talentscout/internal/repository"
)

const (
	expertsTable   = "experts"
	directoryTable = "expert_directory"
)

// expertUpsert leaves out rating and created_at.
type expertUpsert struct {
	ID                    string    `json:"id"`
	Specialization        string    `json:"specialization"`
	YearsExperience       int       `json:"years_experience"`
	Qualifications        []string  `json:"qualifications"`
	SportsExpertise       []string  `json:"sports_expertise"`
	Certifications        []string  `json:"certifications"`
	PreferredTrainingType []string  `json:"preferred_training_type"`
	Availability          []string  `json:"availability"`
	UpdatedAt             time.Time `json:"updated_at"`
}

type expertRepository struct {
	c *Client
}

// NewExpertRepository creates a PostgREST ExpertRepository
func NewExpertRepository(c *Client) repository.ExpertRepository {
	return &expertRepository{c: c}
}

func (r *expertRepository) Get(ctx context.Context, id string) (*models.ExpertProfile, error) {
	var rows []models.ExpertProfile
	if err := r.c.doRequest(ctx, http.MethodGet, expertsTable, byID(id), "", nil, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, repository.NotFound(expertsTable, id)
	}
	p := rows[0]
	p.Qualifications = nonNil(p.Qualifications)
	p.SportsExpertise = nonNil(p.SportsExpertise)
	p.Certifications = nonNil(p.Certifications)
	p.PreferredTrainingType = nonNil(p.PreferredTrainingType)
	p.Availability = nonNil(p.Availability)
	return &p, nil
}

func (r *expertRepository) Upsert(ctx context.Context, p models.ExpertProfile) error {
	q := url.Values{}
	q.Set("on_conflict", "id")
	body := expertUpsert{
		ID:                    p.ID,
		Specialization:        p.Specialization,
		YearsExperience:       p.YearsExperience,
		Qualifications:        nonNil(p.Qualifications),
		SportsExpertise:       nonNil(p.SportsExpertise),
		Certifications:        nonNil(p.Certifications),
		PreferredTrainingType: nonNil(p.PreferredTrainingType),
		Availability:          nonNil(p.Availability),
		UpdatedAt:             p.UpdatedAt.UTC(),
	}
	return r.c.doRequest(ctx, http.MethodPost, expertsTable, q, "resolution=merge-duplicates,return=minimal", body, nil)
}

func (r *expertRepository) ListDirectory(ctx context.Context) ([]models.ExpertListing, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "last_name.asc,first_name.asc,id.asc")

	var listings []models.ExpertListing
	if err := r.c.doRequest(ctx, http.MethodGet, directoryTable, q, "", nil, &listings); err != nil {
		return nil, err
	}
	if listings == nil {
		listings = []models.ExpertListing{}
	}
	for i := range listings {
		listings[i].SportsExpertise = nonNil(listings[i].SportsExpertise)
		listings[i].Availability = nonNil(listings[i].Availability)
	}
	return listings, nil
}
