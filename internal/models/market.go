package models

import (
	"math"

	"github.com/google/uuid"
)

// MarketLine represents the quoted market for one game. Spread and total
// are home-relative points; moneylines are American-odds signed integers.
type MarketLine struct {
	GameID        uuid.UUID `db:"game_id" json:"game_id" validate:"required"`
	Spread        float64   `db:"spread" json:"spread"`
	Total         float64   `db:"total" json:"total" validate:"gte=0"`
	HomeMoneyline int       `db:"home_moneyline" json:"home_moneyline"`
	AwayMoneyline int       `db:"away_moneyline" json:"away_moneyline"`
	SpreadPrice   int       `db:"spread_price" json:"spread_price"` // juice on the spread, typically -110
	ClosingSpread *float64  `db:"closing_spread" json:"closing_spread,omitempty"`
}

// HomeFavored reports whether the market favors the home side.
// A negative home-relative spread means the home team is laying points.
func (m *MarketLine) HomeFavored() bool {
	return m.Spread < 0
}

// FavoriteMargin returns the market's expected home-relative margin,
// i.e. the negated spread.
func (m *MarketLine) FavoriteMargin() float64 {
	return -m.Spread
}

// ImpliedProbability converts American odds to an implied win probability.
// Zero odds return 0 rather than NaN.
func ImpliedProbability(american int) float64 {
	if american == 0 {
		return 0
	}
	if american > 0 {
		return 100.0 / (float64(american) + 100.0)
	}
	abs := math.Abs(float64(american))
	return abs / (abs + 100.0)
}

// DecimalOdds converts American odds to decimal odds.
func DecimalOdds(american int) float64 {
	if american == 0 {
		return 0
	}
	if american > 0 {
		return 1.0 + float64(american)/100.0
	}
	return 1.0 + 100.0/math.Abs(float64(american))
}

// WeatherReport holds per-game conditions for outdoor venues.
type WeatherReport struct {
	GameID            uuid.UUID         `db:"game_id" json:"game_id" validate:"required"`
	WindSpeedMph      float64           `db:"wind_speed_mph" json:"wind_speed_mph" validate:"gte=0"`
	PrecipProbability float64           `db:"precip_probability" json:"precip_probability" validate:"gte=0,lte=1"`
	PrecipType        PrecipitationType `db:"precip_type" json:"precip_type"`
	TemperatureF      float64           `db:"temperature_f" json:"temperature_f"`
}

// PrecipitationType is a closed enum of forecast precipitation kinds.
type PrecipitationType string

const (
	PrecipNone PrecipitationType = "none"
	PrecipRain PrecipitationType = "rain"
	PrecipSnow PrecipitationType = "snow"
	PrecipMix  PrecipitationType = "mix"
)
