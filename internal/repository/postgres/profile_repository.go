package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vytor/talentscout/internal/logger"
	"github.com/vytor/talentscout/internal/models"
	"github.com/vytor/talentscout/internal/repository"
)

type profileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository creates a Postgres ProfileRepository
func NewProfileRepository(pool *pgxpool.Pool) repository.ProfileRepository {
	return &profileRepository{pool: pool}
}

func (r *profileRepository) Get(ctx context.Context, id string) (*models.BaseProfile, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("getting profile: id=%s", id)

	var (
		p      models.BaseProfile
		method *string
	)
	err := r.pool.QueryRow(ctx, `
SELECT id, first_name, last_name, bio, phone_text, preferred_contact_method, time_zone, avatar_url,
       user_type, created_at, updated_at
FROM profiles
WHERE id = $1
`, id).Scan(&p.ID, &p.FirstName, &p.LastName, &p.Bio, &p.PhoneText, &method, &p.TimeZone, &p.AvatarURL,
		&p.UserType, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		log.Debug("profile not found: id=%s", id)
		return nil, repository.NotFound("profiles", id)
	}
	if err != nil {
		log.Error("failed to get profile: %v", err)
		return nil, gatewayError(err)
	}
	p.PreferredContactMethod = models.NormalizeContactMethod(method)
	return &p, nil
}

func (r *profileRepository) UpdateBasic(ctx context.Context, id string, u models.BasicProfileUpdate, at time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("updating basic profile: id=%s", id)

	query, args, err := sqlBuilder.Update("profiles").
		Set("first_name", u.FirstName).
		Set("last_name", u.LastName).
		Set("bio", u.Bio).
		Set("phone_text", u.PhoneText).
		Set("preferred_contact_method", string(u.PreferredContactMethod)).
		Set("time_zone", u.TimeZone).
		Set("updated_at", at.UTC()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		log.Error("failed to build profile update: %v", err)
		return err
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		log.Error("failed to update profile: %v", err)
		return gatewayError(err)
	}
	if tag.RowsAffected() == 0 {
		log.Debug("profile not found for update: id=%s", id)
		return repository.NotFound("profiles", id)
	}
	return nil
}
