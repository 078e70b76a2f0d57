package postgrest

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/vytor/talentscout/internal/models"
	"github.com/vytor/talentscout/internal/repository"
)

const evaluationsTable = "evaluations"

// evaluationRow stores the skill axes as separate columns.
type evaluationRow struct {
	ID            string                  `json:"id"`
	YouthID       string                  `json:"youth_id"`
	ExpertID      string                  `json:"expert_id"`
	Title         string                  `json:"title"`
	Sport         string                  `json:"sport"`
	EvaluatedAt   time.Time               `json:"evaluated_at"`
	EvaluatorName string                  `json:"evaluator_name"`
	Technique     int                     `json:"technique"`
	Strength      int                     `json:"strength"`
	Speed         int                     `json:"speed"`
	Endurance     int                     `json:"endurance"`
	GameAwareness int                     `json:"game_awareness"`
	Comments      string                  `json:"comments"`
	Status        models.EvaluationStatus `json:"status"`
}

func (r evaluationRow) model() models.Evaluation {
	return models.Evaluation{
		ID:            r.ID,
		YouthID:       r.YouthID,
		ExpertID:      r.ExpertID,
		Title:         r.Title,
		Sport:         r.Sport,
		EvaluatedAt:   r.EvaluatedAt,
		EvaluatorName: r.EvaluatorName,
		Skills: models.SkillScores{
			Technique:     r.Technique,
			Strength:      r.Strength,
			Speed:         r.Speed,
			Endurance:     r.Endurance,
			GameAwareness: r.GameAwareness,
		},
		Comments: r.Comments,
		Status:   r.Status,
	}
}

type evaluationRepository struct {
	c *Client
}

// NewEvaluationRepository creates a PostgREST EvaluationRepository
func NewEvaluationRepository(c *Client) repository.EvaluationRepository {
	return &evaluationRepository{c: c}
}

func (r *evaluationRepository) ListByYouth(ctx context.Context, youthID string, filter models.EvaluationFilter) ([]models.Evaluation, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("youth_id", eq(youthID))
	if filter.Status != "" {
		q.Set("status", eq(string(filter.Status)))
	}
	q.Set("order", "evaluated_at.desc,id.asc")

	var rows []evaluationRow
	if err := r.c.doRequest(ctx, http.MethodGet, evaluationsTable, q, "", nil, &rows); err != nil {
		return nil, err
	}
	out := make([]models.Evaluation, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.model())
	}
	return out, nil
}
