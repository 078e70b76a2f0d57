package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vytor/talentscout/internal/logger"
	"github.com/vytor/talentscout/internal/models"
	"github.com/vytor/talentscout/internal/repository"
)

type expertRepository struct {
	db *sql.DB
}

// NewExpertRepository creates a new ExpertRepository implementation
func NewExpertRepository(db *sql.DB) repository.ExpertRepository {
	return &expertRepository{db: db}
}

func (r *expertRepository) Get(ctx context.Context, id string) (*models.ExpertProfile, error) {
	log := logger.FromContext(ctx).WithPrefix("expert_repo")
	log.Debug("getting expert: id=%s", id)

	var (
		p                                   models.ExpertProfile
		quals, sports, certs, types, avail string
	)
	err := r.db.QueryRowContext(ctx, `
SELECT id, specialization, years_experience, qualifications, sports_expertise, certifications,
       preferred_training_type, availability, rating, created_at, updated_at
FROM experts
WHERE id = ?
`, id).Scan(&p.ID, &p.Specialization, &p.YearsExperience, &quals, &sports, &certs,
		&types, &avail, &p.Rating, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("expert not found: id=%s", id)
		return nil, repository.NotFound("experts", id)
	}
	if err != nil {
		log.Error("failed to get expert: %v", err)
		return nil, gatewayError(err)
	}

	if err := decodeLists(map[*[]string]string{
		&p.Qualifications:        quals,
		&p.SportsExpertise:       sports,
		&p.Certifications:        certs,
		&p.PreferredTrainingType: types,
		&p.Availability:          avail,
	}); err != nil {
		log.Error("failed to decode expert lists: %v", err)
		return nil, err
	}
	return &p, nil
}

// Upsert inserts the row or updates the form-owned columns. rating is never
// written here.
func (r *expertRepository) Upsert(ctx context.Context, p models.ExpertProfile) error {
	log := logger.FromContext(ctx).WithPrefix("expert_repo")
	log.Debug("upserting expert: id=%s", p.ID)

	lists, err := encodeLists(p.Qualifications, p.SportsExpertise, p.Certifications, p.PreferredTrainingType, p.Availability)
	if err != nil {
		return err
	}

	query, args, err := sqlBuilder.Insert("experts").
		Columns("id", "specialization", "years_experience", "qualifications", "sports_expertise",
			"certifications", "preferred_training_type", "availability", "created_at", "updated_at").
		Values(p.ID, p.Specialization, p.YearsExperience, lists[0], lists[1],
			lists[2], lists[3], lists[4], p.CreatedAt.UTC(), p.UpdatedAt.UTC()).
		Suffix(`ON CONFLICT(id) DO UPDATE SET
    specialization = excluded.specialization,
    years_experience = excluded.years_experience,
    qualifications = excluded.qualifications,
    sports_expertise = excluded.sports_expertise,
    certifications = excluded.certifications,
    preferred_training_type = excluded.preferred_training_type,
    availability = excluded.availability,
    updated_at = excluded.updated_at`).
		ToSql()
	if err != nil {
		log.Error("failed to build expert upsert: %v", err)
		return err
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to upsert expert: %v", err)
		return gatewayError(err)
	}
	log.Debug("expert upserted: id=%s", p.ID)
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

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list expert directory: %v", err)
		return nil, gatewayError(err)
	}
	defer rows.Close()

	listings := []models.ExpertListing{}
	for rows.Next() {
		var (
			l             models.ExpertListing
			sports, avail string
		)
		if err := rows.Scan(&l.ID, &l.FirstName, &l.LastName, &l.Bio, &l.AvatarURL, &l.Specialization,
			&l.YearsExperience, &sports, &avail, &l.Rating); err != nil {
			log.Error("failed to scan expert listing: %v", err)
			return nil, gatewayError(err)
		}
		if err := decodeLists(map[*[]string]string{&l.SportsExpertise: sports, &l.Availability: avail}); err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}

	log.Debug("found %d experts", len(listings))
	return listings, gatewayError(rows.Err())
}
