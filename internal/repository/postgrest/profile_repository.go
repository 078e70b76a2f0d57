package postgrest

import (
	"context"
	"net/http"
	"time"

	"github.com/vytor/talentscout/internal/models"
	"github.com/vytor/talentscout/internal/repository"
)

const profilesTable = "profiles"

// profileRow is the wire shape; the contact method is checked after decoding.
type profileRow struct {
	ID                     string          `json:"id"`
	FirstName              string          `json:"first_name"`
	LastName               string          `json:"last_name"`
	Bio                    *string         `json:"bio"`
	PhoneText              *string         `json:"phone_text"`
	PreferredContactMethod *string         `json:"preferred_contact_method"`
	TimeZone               *string         `json:"time_zone"`
	AvatarURL              *string         `json:"avatar_url"`
	UserType               models.UserType `json:"user_type"`
	CreatedAt              time.Time       `json:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at"`
}

func (r profileRow) model() models.BaseProfile {
	return models.BaseProfile{
		ID:                     r.ID,
		FirstName:              r.FirstName,
		LastName:               r.LastName,
		Bio:                    r.Bio,
		PhoneText:              r.PhoneText,
		PreferredContactMethod: models.NormalizeContactMethod(r.PreferredContactMethod),
		TimeZone:               r.TimeZone,
		AvatarURL:              r.AvatarURL,
		UserType:               r.UserType,
		CreatedAt:              r.CreatedAt,
		UpdatedAt:              r.UpdatedAt,
	}
}

type basicPatch struct {
	FirstName              string    `json:"first_name"`
	LastName               string    `json:"last_name"`
	Bio                    *string   `json:"bio"`
	PhoneText              *string   `json:"phone_text"`
	PreferredContactMethod string    `json:"preferred_contact_method"`
	TimeZone               *string   `json:"time_zone"`
	UpdatedAt              time.Time `json:"updated_at"`
}

type profileRepository struct {
	c *Client
}

// NewProfileRepository creates a PostgREST ProfileRepository
func NewProfileRepository(c *Client) repository.ProfileRepository {
	return &profileRepository{c: c}
}

func (r *profileRepository) Get(ctx context.Context, id string) (*models.BaseProfile, error) {
	var rows []profileRow
	if err := r.c.doRequest(ctx, http.MethodGet, profilesTable, byID(id), "", nil, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, repository.NotFound(profilesTable, id)
	}
	p := rows[0].model()
	return &p, nil
}

func (r *profileRepository) UpdateBasic(ctx context.Context, id string, u models.BasicProfileUpdate, at time.Time) error {
	q := byID(id)
	q.Del("limit")
	patch := basicPatch{
		FirstName:              u.FirstName,
		LastName:               u.LastName,
		Bio:                    u.Bio,
		PhoneText:              u.PhoneText,
		PreferredContactMethod: string(u.PreferredContactMethod),
		TimeZone:               u.TimeZone,
		UpdatedAt:              at.UTC(),
	}

	var rows []profileRow
	if err := r.c.doRequest(ctx, http.MethodPatch, profilesTable, q, "return=representation", patch, &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return repository.NotFound(profilesTable, id)
	}
	return nil
}
