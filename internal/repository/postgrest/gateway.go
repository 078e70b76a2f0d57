package postgrest

import "github.com/vytor/talentscout/internal/repository"

// NewGateway wires every PostgREST repository over c.
func NewGateway(c *Client) repository.Gateway {
	return repository.Gateway{
		Profiles:    NewProfileRepository(c),
		Youth:       NewYouthAthleteRepository(c),
		Experts:     NewExpertRepository(c),
		Evaluations: NewEvaluationRepository(c),
	}
}
