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

type youthAthleteRepository struct {
	pool *pgxpool.Pool
}

// NewYouthAthleteRepository creates a Postgres YouthAthleteRepository
func NewYouthAthleteRepository(pool *pgxpool.Pool) repository.YouthAthleteRepository {
	return &youthAthleteRepository{pool: pool}
}

func (r *youthAthleteRepository) Get(ctx context.Context, id string) (*models.YouthAthleteProfile, error) {
	log := logger.FromContext(ctx).WithPrefix("youth_repo")
	log.Debug("getting youth athlete: id=%s", id)

	var p models.YouthAthleteProfile
	err := r.pool.QueryRow(ctx, `
SELECT id, age, primary_sport, experience_years, current_level, school, grade,
       secondary_sports, goals, training_availability, achievements, created_at, updated_at
FROM youth_athletes
WHERE id = $1
`, id).Scan(&p.ID, &p.Age, &p.PrimarySport, &p.ExperienceYears, &p.CurrentLevel, &p.School, &p.Grade,
		&p.SecondarySports, &p.Goals, &p.TrainingAvailability, &p.Achievements, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		log.Debug("youth athlete not found: id=%s", id)
		return nil, repository.NotFound("youth_athletes", id)
	}
	if err != nil {
		log.Error("failed to get youth athlete: %v", err)
		return nil, gatewayError(err)
	}

	p.SecondarySports = nonNil(p.SecondarySports)
	p.Goals = nonNil(p.Goals)
	p.TrainingAvailability = nonNil(p.TrainingAvailability)
	p.Achievements = nonNil(p.Achievements)
	return &p, nil
}

func (r *youthAthleteRepository) Upsert(ctx context.Context, p models.YouthAthleteProfile) error {
	log := logger.FromContext(ctx).WithPrefix("youth_repo")
	log.Debug("upserting youth athlete: id=%s", p.ID)

	query, args, err := sqlBuilder.Insert("youth_athletes").
		Columns("id", "age", "primary_sport", "experience_years", "current_level", "school", "grade",
			"secondary_sports", "goals", "training_availability", "achievements", "created_at", "updated_at").
		Values(p.ID, p.Age, p.PrimarySport, p.ExperienceYears, p.CurrentLevel, p.School, p.Grade,
			nonNil(p.SecondarySports), nonNil(p.Goals), nonNil(p.TrainingAvailability), nonNil(p.Achievements),
			p.CreatedAt.UTC(), p.UpdatedAt.UTC()).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
    age = EXCLUDED.age,
    primary_sport = EXCLUDED.primary_sport,
    experience_years = EXCLUDED.experience_years,
    current_level = EXCLUDED.current_level,
    school = EXCLUDED.school,
    grade = EXCLUDED.grade,
    secondary_sports = EXCLUDED.secondary_sports,
    goals = EXCLUDED.goals,
    training_availability = EXCLUDED.training_availability,
    updated_at = EXCLUDED.updated_at`).
		ToSql()
	if err != nil {
		log.Error("failed to build youth athlete upsert: %v", err)
		return err
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		log.Error("failed to upsert youth athlete: %v", err)
		return gatewayError(err)
	}
	return nil
}
