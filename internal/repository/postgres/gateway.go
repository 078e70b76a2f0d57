package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vytor/talentscout/internal/repository"
)

// NewGateway wires every Postgres repository over pool.
func NewGateway(pool *pgxpool.Pool) repository.Gateway {
	return repository.Gateway{
		Profiles:    NewProfileRepository(pool),
		Youth:       NewYouthAthleteRepository(pool),
		Experts:     NewExpertRepository(pool),
		Evaluations: NewEvaluationRepository(pool),
	}
}
