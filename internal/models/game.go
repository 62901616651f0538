package models

import (
	"time"

	"github.com/google/uuid"
)

// Venue describes where a game is played. Coordinates are used for
// travel-distance tiers; Dome suppresses all weather adjustments.
type Venue struct {
	Name      string  `db:"name" json:"name"`
	Dome      bool    `db:"dome" json:"dome"`
	Latitude  float64 `db:"latitude" json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `db:"longitude" json:"longitude" validate:"gte=-180,lte=180"`
}

// Game represents one scheduled or completed game.
type Game struct {
	ID        uuid.UUID `db:"id" json:"id" validate:"required"`
	Season    int       `db:"season" json:"season" validate:"required,gte=1990"`
	Week      int       `db:"week" json:"week" validate:"required,gte=1,lte=23"`
	HomeTeam  string    `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam  string    `db:"away_team" json:"away_team" validate:"required"`
	Kickoff   time.Time `db:"kickoff" json:"kickoff" validate:"required"`
	Venue     Venue     `db:"venue" json:"venue"`
	HomeScore *int      `db:"home_score" json:"home_score,omitempty"`
	AwayScore *int      `db:"away_score" json:"away_score,omitempty"`
}

// Completed reports whether the final score is known.
func (g *Game) Completed() bool {
	return g.HomeScore != nil && g.AwayScore != nil
}

// ActualMargin returns the home-relative final margin. The second return
// value is false when the game has no recorded result.
func (g *Game) ActualMargin() (float64, bool) {
	if !g.Completed() {
		return 0, false
	}
	return float64(*g.HomeScore - *g.AwayScore), true
}

// PlayoffTier describes how much a game matters to a team's postseason fate.
type PlayoffTier string

const (
	PlayoffTierNone        PlayoffTier = "none"
	PlayoffTierSeeding     PlayoffTier = "seeding"
	PlayoffTierWildcard    PlayoffTier = "wildcard"
	PlayoffTierElimination PlayoffTier = "elimination"
	PlayoffTierClinching   PlayoffTier = "clinching"
)

// CoachingChange describes a mid-season coaching change.
type CoachingChange struct {
	Occurred     bool `json:"occurred"`
	Interim      bool `json:"interim"`
	TeamRallying bool `json:"team_rallying"` // whether the locker room responded positively
}

// TeamSituation is one side's situational snapshot for a single game.
type TeamSituation struct {
	RestDays           int            `json:"rest_days" validate:"gte=0,lte=30"`
	Divisional         bool           `json:"divisional"`
	Rivalry            bool           `json:"rivalry"`
	Revenge            bool           `json:"revenge"`
	RevengeLossMargin  float64        `json:"revenge_loss_margin" validate:"gte=0"`
	ATSWinsLast5       int            `json:"ats_wins_last_5" validate:"gte=0,lte=5"`
	ATSLossesLast5     int            `json:"ats_losses_last_5" validate:"gte=0,lte=5"`
	WinStreak          int            `json:"win_streak" validate:"gte=0"`
	LossStreak         int            `json:"loss_streak" validate:"gte=0"`
	ComingOffBigWin    bool           `json:"coming_off_big_win"`
	LookaheadGame      bool           `json:"lookahead_game"` // next opponent is a marquee matchup
	NextOpponentRating float64        `json:"next_opponent_rating"`
	PlayoffTier        PlayoffTier    `json:"playoff_tier"`
	CoachingChange     CoachingChange `json:"coaching_change"`
	TravelDistanceMi   float64        `json:"travel_distance_mi" validate:"gte=0"`
}

// GameContext is the immutable pre-game snapshot consumed by the
// situational calculator and the edge detector. It is assembled at the
// boundary from schedule, weather and form data and never mutated.
type GameContext struct {
	Game    *Game          `json:"game" validate:"required"`
	Home    TeamSituation  `json:"home"`
	Away    TeamSituation  `json:"away"`
	Weather *WeatherReport `json:"weather,omitempty"` // nil for domes or missing data
}
