package services

import (
	"context"
	"sort"
	"strings"

	"github.com/vytor/talentscout/internal/logger"
	"github.com/vytor/talentscout/internal/models"
	"github.com/vytor/talentscout/internal/repository"
)

// ExpertDirectoryService searches the public expert directory
type ExpertDirectoryService interface {
	Search(ctx context.Context, q models.ExpertSearch) (models.ExpertDirectory, error)
}

type expertDirectoryService struct {
	experts repository.ExpertRepository
}

// NewExpertDirectoryService creates a new ExpertDirectoryService
func NewExpertDirectoryService(experts repository.ExpertRepository) ExpertDirectoryService {
	return &expertDirectoryService{experts: experts}
}

func (s *expertDirectoryService) Search(ctx context.Context, q models.ExpertSearch) (models.ExpertDirectory, error) {
	log := logger.FromContext(ctx).WithPrefix("expert_directory")
	log.Debug("searching experts: term=%q sport=%q", q.Term, q.Sport)

	listings, err := s.experts.ListDirectory(ctx)
	if err != nil {
		log.Error("failed to list experts: %v", err)
		return models.ExpertDirectory{}, gatewayFailure("expert directory", err)
	}

	term := strings.ToLower(strings.TrimSpace(q.Term))
	sport := strings.TrimSpace(q.Sport)

	dir := models.ExpertDirectory{Experts: []models.ExpertListing{}, Sports: sportsOf(listings)}
	for _, l := range listings {
		if term != "" && !matchesTerm(l, term) {
			continue
		}
		if sport != "" && !contains(l.SportsExpertise, sport) {
			continue
		}
		dir.Experts = append(dir.Experts, l)
	}
	return dir, nil
}

func matchesTerm(l models.ExpertListing, term string) bool {
	if strings.Contains(strings.ToLower(l.Name()), term) ||
		strings.Contains(strings.ToLower(l.Specialization), term) {
		return true
	}
	return l.Bio != nil && strings.Contains(strings.ToLower(*l.Bio), term)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// sportsOf returns every sport any expert lists, unique and sorted.
func sportsOf(listings []models.ExpertListing) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, l := range listings {
		for _, s := range l.SportsExpertise {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
