package rating

import (
	"fmt"
	"math"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/gridiron-edge/internal/config"
	"github.com/yourusername/gridiron-edge/internal/models"
)

// Engine owns the rating store and is the sole mutator of team ratings.
// PredictMargin is pure and callable any number of times; ApplyResult
// mutates ratings exactly once per team per completed game.
type Engine struct {
	cfg    config.LeagueConfig
	store  *Store
	logger *logrus.Logger

	mu      sync.Mutex
	applied map[uuid.UUID]bool
}

// NewEngine creates a rating engine. Configuration is re-checked here so
// a hand-built config cannot bypass startup validation.
func NewEngine(cfg config.LeagueConfig, store *Store, logger *logrus.Logger) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("rating store is required")
	}
	if logger == nil {
		logger = logrus.New()
	}
	if math.Abs(cfg.SmoothingOldWeight+cfg.SmoothingNewWeight-1.0) > 1e-9 {
		return nil, fmt.Errorf("smoothing weights must sum to 1, got %f + %f",
			cfg.SmoothingOldWeight, cfg.SmoothingNewWeight)
	}
	if cfg.RatingFloor >= cfg.RatingCeiling {
		return nil, fmt.Errorf("rating floor %f must be below ceiling %f",
			cfg.RatingFloor, cfg.RatingCeiling)
	}

	return &Engine{
		cfg:     cfg,
		store:   store,
		logger:  logger,
		applied: make(map[uuid.UUID]bool),
	}, nil
}

// Store returns the underlying rating store.
func (e *Engine) Store() *Store {
	return e.store
}

// PredictMargin returns the expected home-relative margin: the rating
// differential plus the league home-field constant. No side effects.
func (e *Engine) PredictMargin(home, away string) (float64, error) {
	homeRating, err := e.store.Rating(home)
	if err != nil {
		return 0, fmt.Errorf("home team %s: %w", home, err)
	}
	awayRating, err := e.store.Rating(away)
	if err != nil {
		return 0, fmt.Errorf("away team %s: %w", away, err)
	}
	return (homeRating - awayRating) + e.cfg.HomeFieldAdvantage, nil
}

// PredictMarginNeutral returns the expected margin with no venue edge.
func (e *Engine) PredictMarginNeutral(home, away string) (float64, error) {
	margin, err := e.PredictMargin(home, away)
	if err != nil {
		return 0, err
	}
	return margin - e.cfg.HomeFieldAdvantage, nil
}

// ApplyResult folds a completed game into both teams' ratings using
// fixed-weight exponential smoothing. The observed-performance rating is
// anchored to the opponent's pre-game rating, so beating a strong team by
// X points moves a rating more than beating a weak one by the same X.
// Calling it twice for the same game returns ErrDuplicateResult and
// leaves ratings untouched.
func (e *Engine) ApplyResult(game *models.Game) error {
	if game == nil {
		return fmt.Errorf("game is required")
	}
	margin, ok := game.ActualMargin()
	if !ok {
		return models.ErrGameNotComplete
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.applied[game.ID] {
		return models.ErrDuplicateResult
	}

	home, err := e.store.Get(game.HomeTeam)
	if err != nil {
		return fmt.Errorf("home team %s: %w", game.HomeTeam, err)
	}
	away, err := e.store.Get(game.AwayTeam)
	if err != nil {
		return fmt.Errorf("away team %s: %w", game.AwayTeam, err)
	}

	homePre, awayPre := home.Rating, away.Rating

	// Neutralize the venue edge before anchoring to the opponent.
	neutralMargin := margin - e.cfg.HomeFieldAdvantage
	observedHome := awayPre + neutralMargin
	observedAway := homePre - neutralMargin

	home.Rating = e.clamp(e.cfg.SmoothingOldWeight*homePre + e.cfg.SmoothingNewWeight*observedHome)
	away.Rating = e.clamp(e.cfg.SmoothingOldWeight*awayPre + e.cfg.SmoothingNewWeight*observedAway)

	home.GamesPlayed++
	away.GamesPlayed++
	switch {
	case margin > 0:
		home.Wins++
		away.Losses++
	case margin < 0:
		home.Losses++
		away.Wins++
	default:
		home.Ties++
		away.Ties++
	}

	e.applied[game.ID] = true

	e.logger.WithFields(logrus.Fields{
		"game_id":     game.ID,
		"home":        game.HomeTeam,
		"away":        game.AwayTeam,
		"margin":      margin,
		"home_rating": home.Rating,
		"away_rating": away.Rating,
	}).Debug("Ratings updated from result")

	return nil
}

// Applied reports whether a game's result has already been folded in.
func (e *Engine) Applied(gameID uuid.UUID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.applied[gameID]
}

// clamp bounds a rating to the league scale so blowout results cannot
// drift ratings off-scale over a long replay.
func (e *Engine) clamp(rating float64) float64 {
	return math.Max(e.cfg.RatingFloor, math.Min(e.cfg.RatingCeiling, rating))
}
