package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vytor/talentscout/internal/logger"
	"github.com/vytor/talentscout/internal/models"
	"github.com/vytor/talentscout/internal/repository"
)

type youthAthleteRepository struct {
	db *sql.DB
}

// NewYouthAthleteRepository creates a new YouthAthleteRepository implementation
func NewYouthAthleteRepository(db *sql.DB) repository.YouthAthleteRepository {
	return &youthAthleteRepository{db: db}
}

func (r *youthAthleteRepository) Get(ctx context.Context, id string) (*models.YouthAthleteProfile, error) {
	log := logger.FromContext(ctx).WithPrefix("youth_repo")
	log.Debug("getting youth athlete: id=%s", id)

	var (
		p                                       models.YouthAthleteProfile
		secondary, goals, training, achievements string
	)
	err := r.db.QueryRowContext(ctx, `
SELECT id, age, primary_sport, experience_years, current_level, school, grade,
       secondary_sports, goals, training_availability, achievements, created_at, updated_at
FROM youth_athletes
WHERE id = ?
`, id).Scan(&p.ID, &p.Age, &p.PrimarySport, &p.ExperienceYears, &p.CurrentLevel, &p.School, &p.Grade,
		&secondary, &goals, &training, &achievements, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("youth athlete not found: id=%s", id)
		return nil, repository.NotFound("youth_athletes", id)
	}
	if err != nil {
		log.Error("failed to get youth athlete: %v", err)
		return nil, gatewayError(err)
	}

	if err := decodeLists(map[*[]string]string{
		&p.SecondarySports:      secondary,
		&p.Goals:                goals,
		&p.TrainingAvailability: training,
		&p.Achievements:         achievements,
	}); err != nil {
		log.Error("failed to decode youth athlete lists: %v", err)
		return nil, err
	}
	return &p, nil
}

// Upsert inserts the row or updates the form-owned columns. achievements and
// created_at are only written on insert.
func (r *youthAthleteRepository) Upsert(ctx context.Context, p models.YouthAthleteProfile) error {
	log := logger.FromContext(ctx).WithPrefix("youth_repo")
	log.Debug("upserting youth athlete: id=%s", p.ID)

	lists, err := encodeLists(p.SecondarySports, p.Goals, p.TrainingAvailability, p.Achievements)
	if err != nil {
		return err
	}

	query, args, err := sqlBuilder.Insert("youth_athletes").
		Columns("id", "age", "primary_sport", "experience_years", "current_level", "school", "grade",
			"secondary_sports", "goals", "training_availability", "achievements", "created_at", "updated_at").
		Values(p.ID, p.Age, p.PrimarySport, p.ExperienceYears, p.CurrentLevel, p.School, p.Grade,
			lists[0], lists[1], lists[2], lists[3], p.CreatedAt.UTC(), p.UpdatedAt.UTC()).
		Suffix(`ON CONFLICT(id) DO UPDATE SET
    age = excluded.age,
    primary_sport = excluded.primary_sport,
    experience_years = excluded.experience_years,
    current_level = excluded.current_level,
    school = excluded.school,
    grade = excluded.grade,
    secondary_sports = excluded.secondary_sports,
    goals = excluded.goals,
    training_availability = excluded.training_availability,
    updated_at = excluded.updated_at`).
		ToSql()
	if err != nil {
		log.Error("failed to build youth athlete upsert: %v", err)
		return err
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to upsert youth athlete: %v", err)
		return gatewayError(err)
	}
	log.Debug("youth athlete upserted: id=%s", p.ID)
	return nil
}
