// Package dataset loads slates, game logs and seed ratings from JSON
// files or a remote data service, validating every record at the
// boundary before it enters the engine.
package dataset

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/situation"
)

// Entry is one fully assembled game ready for evaluation: context, line
// and the injury report for both teams.
type Entry struct {
	Context  *models.GameContext
	Line     *models.MarketLine
	Injuries []models.InjuryRecord
}

// SlateFile is the on-disk shape of one week's slate.
type SlateFile struct {
	Season int         `json:"season" validate:"required,gte=1990"`
	Week   int         `json:"week" validate:"required,gte=1,lte=23"`
	Games  []SlateGame `json:"games" validate:"required,min=1,dive"`
}

// SlateGame is one game record as produced by the upstream data service.
// Scores are present only in historical game logs.
type SlateGame struct {
	ID            string                `json:"id" validate:"required,uuid4"`
	HomeTeam      string                `json:"home_team" validate:"required"`
	AwayTeam      string                `json:"away_team" validate:"required,nefield=HomeTeam"`
	Kickoff       time.Time             `json:"kickoff" validate:"required"`
	Venue         models.Venue          `json:"venue"`
	Spread        float64               `json:"spread"`
	Total         float64               `json:"total" validate:"gte=0"`
	SpreadPrice   int                   `json:"spread_price"`
	HomeMoneyline int                   `json:"home_moneyline"`
	AwayMoneyline int                   `json:"away_moneyline"`
	ClosingSpread *float64              `json:"closing_spread,omitempty"`
	HomeScore     *int                  `json:"home_score,omitempty"`
	AwayScore     *int                  `json:"away_score,omitempty"`
	Home          models.TeamSituation  `json:"home_situation"`
	Away          models.TeamSituation  `json:"away_situation"`
	Weather       *models.WeatherReport `json:"weather,omitempty"`
	Injuries      []models.InjuryRecord `json:"injuries,omitempty" validate:"dive"`
}

// SeedRatingsFile carries prior-season ratings plus each team's home
// coordinates, which the loader uses to derive away-side travel
// distances when the slate omits them.
type SeedRatingsFile struct {
	Season int          `json:"season" validate:"required,gte=1990"`
	Teams  []SeedRating `json:"teams" validate:"required,min=1,dive"`
}

// SeedRating is one team's seed entry.
type SeedRating struct {
	Abbreviation string  `json:"abbreviation" validate:"required"`
	Name         string  `json:"name" validate:"required"`
	Rating       float64 `json:"rating" validate:"required,gt=0"`
	Latitude     float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude    float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

// homeCoords maps team abbreviation to home-venue coordinates.
type homeCoords map[string][2]float64

// toEntry converts a validated slate game into an engine-ready entry.
// Travel distance for the away side is derived from venue coordinates
// when the record does not carry it.
func (g *SlateGame) toEntry(season, week int, coords homeCoords) (Entry, error) {
	id, err := uuid.Parse(g.ID)
	if err != nil {
		return Entry{}, fmt.Errorf("game %s: invalid id: %w", g.ID, err)
	}

	game := &models.Game{
		ID:        id,
		Season:    season,
		Week:      week,
		HomeTeam:  g.HomeTeam,
		AwayTeam:  g.AwayTeam,
		Kickoff:   g.Kickoff,
		Venue:     g.Venue,
		HomeScore: g.HomeScore,
		AwayScore: g.AwayScore,
	}

	away := g.Away
	if away.TravelDistanceMi == 0 {
		if home, ok := coords[g.AwayTeam]; ok {
			away.TravelDistanceMi = situation.Distance(home[0], home[1], g.Venue.Latitude, g.Venue.Longitude)
		}
	}

	weather := g.Weather
	if weather != nil {
		weather.GameID = id
	}

	line := &models.MarketLine{
		GameID:        id,
		Spread:        g.Spread,
		Total:         g.Total,
		HomeMoneyline: g.HomeMoneyline,
		AwayMoneyline: g.AwayMoneyline,
		SpreadPrice:   g.SpreadPrice,
		ClosingSpread: g.ClosingSpread,
	}
	if line.SpreadPrice == 0 {
		line.SpreadPrice = -110
	}

	return Entry{
		Context: &models.GameContext{
			Game:    game,
			Home:    g.Home,
			Away:    away,
			Weather: weather,
		},
		Line:     line,
		Injuries: g.Injuries,
	}, nil
}
