package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vytor/talentscout/internal/logger"
	"github.com/vytor/talentscout/internal/models"
	"github.com/vytor/talentscout/internal/repository"
)

type expertRepository struct {
	pool *pgxpool.Pool
}

// NewExpertRepository creates a Postgres ExpertRepository
func NewExpertRepository(pool *pgxpool.Pool) repository.ExpertRepository {
	return &expertRepository{pool: pool}
}

func (r *expertRepository) Get(ctx context.Context, id string) (*models.ExpertProfile, error) {
	log := logger.FromContext(ctx).WithPrefix("expert_repo")
	log.Debug("getting expert: id=%s", id)

	var p models.ExpertProfile
	err := r.pool.QueryRow(ctx, `
SELECT id, specialization, years_experience, qualifications, sports_expertise, certifications,
       preferred_training_type, availability, rating, created_at, updated_at
FROM experts
WHERE id = $1
`, id).Scan(&p.ID, &p.Specialization, &p.YearsExperience, &p.Qualifications, &p.SportsExpertise, &p.Certifications,
		&p.PreferredTrainingType, &p.Availability, &p.Rating, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		log.Debug("expert not found: id=%s", id)
		return nil, repository.NotFound("experts", id)
	}
	if err != nil {
		log.Error("failed to get expert: %v", err)
		return nil, gatewayError(err)
	}

	p.Qualifications = nonNil(p.Qualifications)
	p.SportsExpertise = nonNil(p.SportsExpertise)
	p.Certifications = nonNil(p.Certifications)
	p.PreferredTrainingType = nonNil(p.PreferredTrainingType)
	p.Availability = nonNil(p.Availability)
	return &p, nil
}

func (r *expertRepository) Upsert(ctx context.Context, p models.ExpertProfile) error {
	log := logger.FromContext(ctx).WithPrefix("expert_repo")
	log.Debug("upserting expert: id=%s", p.ID)

	query, args, err := sqlBuilder.Insert("experts").
		Columns("id", "specialization", "years_experience", "qualifications", "sports_expertise",
			"certifications", "preferred_training_type", "availability", "created_at", "updated_at").
		Values(p.ID, p.Specialization, p.YearsExperience, nonNil(p.Qualifications), nonNil(p.SportsExpertise),
			nonNil(p.Certifications), nonNil(p.PreferredTrainingType), nonNil(p.Availability),
			p.CreatedAt.UTC(), p.UpdatedAt.UTC()).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
    specialization = EXCLUDED.specialization,
    years_experience = EXCLUDED.years_experience,
    qualifications = EXCLUDED.qualifications,
    sports_expertise = EXCLUDED.sports_expertise,
    certifications = EXCLUDED.certifications,
    preferred_training_type = EXCLUDED.preferred_training_type,
    availability = EXCLUDED.availability,
    updated_at = EXCLUDED.updated_at`).
		ToSql()
	if err != nil {
		log.Error("failed to build expert upsert: %v", err)
		return err
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		log.Error("failed to upsert expert: %v", err)
		return gatewayError(err)
	}
	return nil
}

func (r *expertRepository) ListDirectory(ctx context.Context) ([]models.ExpertListing, error) {
	log := logger.FromContext(ctx).WithPrefix("expert_repo")
	log.Debug("listing expert directory")

	query, args, err := sqlBuilder.Select(
		"id", "first_name", "last_name", "bio", "avatar_url", "specialization",
		"years_experience", "sports_expertise", "availability", "rating",
	).From("expert_directory").OrderBy("last_name ASC", "first_name ASC", "id ASC").ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		log.Error("failed to list expert directory: %v", err)
		return nil, gatewayError(err)
	}
	defer rows.Close()

	listings := []models.ExpertListing{}
	for rows.Next() {
		var l models.ExpertListing
		if err := rows.Scan(&l.ID, &l.FirstName, &l.LastName, &l.Bio, &l.AvatarURL, &l.Specialization,
			&l.YearsExperience, &l.SportsExpertise, &l.Availability, &l.Rating); err != nil {
			log.Error("failed to scan expert listing: %v", err)
			return nil, gatewayError(err)
		}
		l.SportsExpertise = nonNil(l.SportsExpertise)
		l.Availability = nonNil(l.Availability)
		listings = append(listings, l)
	}
	return listings, gatewayError(rows.Err())
}
