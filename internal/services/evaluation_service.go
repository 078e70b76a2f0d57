package services

import (
	"context"
	"math"

	apperrors "github.com/vytor/talentscout/internal/errors"
	"github.com/vytor/talentscout/internal/logger"
	"github.com/vytor/talentscout/internal/models"
	"github.com/vytor/talentscout/internal/repository"
)

// EvaluationService handles the youth athlete's evaluation reports
type EvaluationService interface {
	List(ctx context.Context, sess Session, filter models.EvaluationFilter) ([]models.Evaluation, error)
	Summary(ctx context.Context, sess Session) (models.EvaluationSummary, error)
}

type evaluationService struct {
	evaluations repository.EvaluationRepository
}

// NewEvaluationService creates a new EvaluationService
func NewEvaluationService(evaluations repository.EvaluationRepository) EvaluationService {
	return &evaluationService{evaluations: evaluations}
}

func (s *evaluationService) List(ctx context.Context, sess Session, filter models.EvaluationFilter) ([]models.Evaluation, error) {
	log := logger.FromContext(ctx).WithPrefix("evaluation_service")
	log.Debug("listing evaluations: user=%s status=%s", sess.UserID(), filter.Status)

	if sess.UserType() != models.UserTypeYouth {
		return nil, apperrors.NewForbiddenError("evaluations are only available to youth users")
	}
	switch filter.Status {
	case "", models.EvaluationPending, models.EvaluationCompleted:
	default:
		return nil, apperrors.NewValidationError("status", "must be pending or completed")
	}

	evals, err := s.evaluations.ListByYouth(ctx, sess.UserID(), filter)
	if err != nil {
		log.Error("failed to list evaluations: %v", err)
		return nil, gatewayFailure("evaluation list", err)
	}
	return evals, nil
}

func (s *evaluationService) Summary(ctx context.Context, sess Session) (models.EvaluationSummary, error) {
	evals, err := s.List(ctx, sess, models.EvaluationFilter{})
	if err != nil {
		return models.EvaluationSummary{}, err
	}
	return Summarize(evals), nil
}

// Summarize counts evaluations by status and averages each skill over the
// completed ones. Averages are rounded to one decimal.
func Summarize(evals []models.Evaluation) models.EvaluationSummary {
	sum := models.EvaluationSummary{
		Total:         len(evals),
		SkillAverages: make(map[models.Skill]float64, len(models.Skills)),
	}
	totals := make(map[models.Skill]int, len(models.Skills))

	for _, e := range evals {
		if e.Status != models.EvaluationCompleted {
			sum.Pending++
			continue
		}
		sum.Completed++
		for _, skill := range models.Skills {
			totals[skill] += e.Skills.Get(skill)
		}
	}

	for _, skill := range models.Skills {
		if sum.Completed == 0 {
			sum.SkillAverages[skill] = 0
			continue
		}
		sum.SkillAverages[skill] = round1(float64(totals[skill]) / float64(sum.Completed))
	}
	if sum.Completed > 0 {
		var all float64
		for _, skill := range models.Skills {
			all += float64(totals[skill])
		}
		sum.Overall = round1(all / float64(sum.Completed*len(models.Skills)))
	}
	return sum
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
