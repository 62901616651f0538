// Package rating implements the team power-rating store and the
// prediction/update engine built on top of it.
package rating

import (
	"sort"
	"sync"

	"github.com/yourusername/gridiron-edge/internal/models"
)

// Store holds one power rating per team plus record metadata.
// Reads are safe for concurrent use; mutation happens only through the
// engine's ApplyResult, which serializes per-team updates.
type Store struct {
	mu    sync.RWMutex
	teams map[string]*models.Team
}

// NewStore creates an empty rating store.
func NewStore() *Store {
	return &Store{teams: make(map[string]*models.Team)}
}

// Seed registers teams with their prior-season ratings. An existing entry
// for the same abbreviation is replaced.
func (s *Store) Seed(teams []*models.Team) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, team := range teams {
		copied := *team
		s.teams[team.Abbreviation] = &copied
	}
}

// SeedDefault registers teams at the league-average rating. Used when no
// prior-season seed exists for an expansion team or a fresh season.
func (s *Store) SeedDefault(abbreviations []string, defaultRating float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, abbr := range abbreviations {
		if _, ok := s.teams[abbr]; ok {
			continue
		}
		s.teams[abbr] = &models.Team{Abbreviation: abbr, Name: abbr, Rating: defaultRating}
	}
}

// Get returns the team for an abbreviation, or ErrUnknownTeam.
func (s *Store) Get(abbreviation string) (*models.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	team, ok := s.teams[abbreviation]
	if !ok {
		return nil, models.ErrUnknownTeam
	}
	return team, nil
}

// Rating returns the current rating for a team, or ErrMissingRating when
// the team has never been seeded.
func (s *Store) Rating(abbreviation string) (float64, error) {
	team, err := s.Get(abbreviation)
	if err != nil {
		return 0, models.ErrMissingRating
	}
	return team.Rating, nil
}

// Snapshot returns a copy of every team, sorted by descending rating.
// Used by the backtest reporter for rating-movement rankings.
func (s *Store) Snapshot() []models.Team {
	s.mu.RLock()
	defer s.mu.RUnlock()
	teams := make([]models.Team, 0, len(s.teams))
	for _, team := range s.teams {
		teams = append(teams, *team)
	}
	sort.Slice(teams, func(i, j int) bool {
		if teams[i].Rating != teams[j].Rating {
			return teams[i].Rating > teams[j].Rating
		}
		return teams[i].Abbreviation < teams[j].Abbreviation
	})
	return teams
}

// Len returns the number of seeded teams.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.teams)
}
