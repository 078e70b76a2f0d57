package contracttest

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/talentscout/internal/models"
)

// ExecFunc runs one statement against the backing store.
type ExecFunc func(ctx context.Context, query string, args ...any) error

// SQLSeeder writes rows the gateway ports never write (base profiles,
// evaluations, ratings, achievements) so the contract can observe them.
type SQLSeeder struct {
	exec    ExecFunc
	builder squirrel.StatementBuilderType
	list    func([]string) (any, error)
}

// NewSQLSeeder builds a seeder for a backend with the given placeholder style
// and list column encoding.
func NewSQLSeeder(exec ExecFunc, ph squirrel.PlaceholderFormat, list func([]string) (any, error)) *SQLSeeder {
	return &SQLSeeder{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(ph),
		list:    list,
	}
}

func (s *SQLSeeder) run(ctx context.Context, b squirrel.Sqlizer) error {
	query, args, err := b.ToSql()
	if err != nil {
		return err
	}
	return s.exec(ctx, query, args...)
}

// InsertProfile stores p with the raw contact method string, which may be a
// value the application itself would never write.
func (s *SQLSeeder) InsertProfile(ctx context.Context, p models.BaseProfile, rawContactMethod *string) error {
	return s.run(ctx, s.builder.Insert("profiles").
		Columns("id", "first_name", "last_name", "bio", "phone_text", "preferred_contact_method",
			"time_zone", "avatar_url", "user_type", "created_at", "updated_at").
		Values(p.ID, p.FirstName, p.LastName, p.Bio, p.PhoneText, rawContactMethod,
			p.TimeZone, p.AvatarURL, string(p.UserType), p.CreatedAt.UTC(), p.UpdatedAt.UTC()))
}

func (s *SQLSeeder) InsertEvaluation(ctx context.Context, e models.Evaluation) error {
	return s.run(ctx, s.builder.Insert("evaluations").
		Columns("id", "youth_id", "expert_id", "title", "sport", "evaluated_at", "evaluator_name",
			"technique", "strength", "speed", "endurance", "game_awareness", "comments", "status").
		Values(e.ID, e.YouthID, e.ExpertID, e.Title, e.Sport, e.EvaluatedAt.UTC(), e.EvaluatorName,
			e.Skills.Technique, e.Skills.Strength, e.Skills.Speed, e.Skills.Endurance, e.Skills.GameAwareness,
			e.Comments, string(e.Status)))
}

func (s *SQLSeeder) SetRating(ctx context.Context, expertID string, rating float64) error {
	return s.run(ctx, s.builder.Update("experts").Set("rating", rating).Where(squirrel.Eq{"id": expertID}))
}

func (s *SQLSeeder) SetAchievements(ctx context.Context, youthID string, achievements []string) error {
	v, err := s.list(achievements)
	if err != nil {
		return err
	}
	return s.run(ctx, s.builder.Update("youth_athletes").Set("achievements", v).Where(squirrel.Eq{"id": youthID}))
}
