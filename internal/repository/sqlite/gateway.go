package sqlite

import (
	"database/sql"

	"github.com/vytor/talentscout/internal/repository"
)

// NewGateway wires every sqlite repository over db.
func NewGateway(db *sql.DB) repository.Gateway {
	return repository.Gateway{
		Profiles:    NewProfileRepository(db),
		Youth:       NewYouthAthleteRepository(db),
		Experts:     NewExpertRepository(db),
		Evaluations: NewEvaluationRepository(db),
	}
}
