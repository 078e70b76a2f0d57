package sqlite

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/talentscout/internal/logger"
	"github.com/vytor/talentscout/internal/models"
	"github.com/vytor/talentscout/internal/repository"
)

type evaluationRepository struct {
	db *sql.DB
}

// NewEvaluationRepository creates a new EvaluationRepository implementation
func NewEvaluationRepository(db *sql.DB) repository.EvaluationRepository {
	return &evaluationRepository{db: db}
}

func (r *evaluationRepository) ListByYouth(ctx context.Context, youthID string, filter models.EvaluationFilter) ([]models.Evaluation, error) {
	log := logger.FromContext(ctx).WithPrefix("evaluation_repo")
	log.Debug("listing evaluations: youth_id=%s, status=%s", youthID, filter.Status)

	query := sqlBuilder.Select(
		"id", "youth_id", "expert_id", "title", "sport", "evaluated_at", "evaluator_name",
		"technique", "strength", "speed", "endurance", "game_awareness", "comments", "status",
	).From("evaluations").Where(squirrel.Eq{"youth_id": youthID})

	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": string(filter.Status)})
	}

	sqlStr, args, err := query.OrderBy("evaluated_at DESC", "id ASC").ToSql()
	if err != nil {
		log.Error("failed to build evaluation query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list evaluations: %v", err)
		return nil, gatewayError(err)
	}
	defer rows.Close()

	evaluations := []models.Evaluation{}
	for rows.Next() {
		var e models.Evaluation
		if err := rows.Scan(&e.ID, &e.YouthID, &e.ExpertID, &e.Title, &e.Sport, &e.EvaluatedAt, &e.EvaluatorName,
			&e.Skills.Technique, &e.Skills.Strength, &e.Skills.Speed, &e.Skills.Endurance, &e.Skills.GameAwareness,
			&e.Comments, &e.Status); err != nil {
			log.Error("failed to scan evaluation row: %v", err)
			return nil, gatewayError(err)
		}
		evaluations = append(evaluations, e)
	}

	log.Debug("found %d evaluations", len(evaluations))
	return evaluations, gatewayError(rows.Err())
}
