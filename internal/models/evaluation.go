package models

import "time"

type EvaluationStatus string

const (
	EvaluationPending   EvaluationStatus = "pending"
	EvaluationCompleted EvaluationStatus = "completed"
)

// Skill names one axis of SkillScores.
type Skill string

const (
	SkillTechnique     Skill = "technique"
	SkillStrength      Skill = "strength"
	SkillSpeed         Skill = "speed"
	SkillEndurance     Skill = "endurance"
	SkillGameAwareness Skill = "gameAwareness"
)

// Skills lists every axis in display order.
var Skills = []Skill{SkillTechnique, SkillStrength, SkillSpeed, SkillEndurance, SkillGameAwareness}

// SkillScores is the fixed five-axis score, each 0-100.
type SkillScores struct {
	Technique     int `json:"technique"`
	Strength      int `json:"strength"`
	Speed         int `json:"speed"`
	Endurance     int `json:"endurance"`
	GameAwareness int `json:"gameAwareness"`
}

// Get returns the score for one axis.
func (s SkillScores) Get(skill Skill) int {
	switch skill {
	case SkillTechnique:
		return s.Technique
	case SkillStrength:
		return s.Strength
	case SkillSpeed:
		return s.Speed
	case SkillEndurance:
		return s.Endurance
	case SkillGameAwareness:
		return s.GameAwareness
	default:
		return 0
	}
}

// Evaluation is read-only to this service.
type Evaluation struct {
	ID            string           `json:"id"`
	YouthID       string           `json:"youth_id"`
	ExpertID      string           `json:"expert_id"`
	Title         string           `json:"title"`
	Sport         string           `json:"sport"`
	EvaluatedAt   time.Time        `json:"evaluated_at"`
	EvaluatorName string           `json:"evaluator_name"`
	Skills        SkillScores      `json:"skills"`
	Comments      string           `json:"comments"`
	Status        EvaluationStatus `json:"status"`
}

type EvaluationFilter struct {
	Status EvaluationStatus
}

// EvaluationSummary aggregates a youth athlete's evaluations.
type EvaluationSummary struct {
	Total         int               `json:"total"`
	Completed     int               `json:"completed"`
	Pending       int               `json:"pending"`
	SkillAverages map[Skill]float64 `json:"skill_averages"`
	Overall       float64           `json:"overall"`
}
