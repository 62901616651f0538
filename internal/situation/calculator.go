package situation

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/gridiron-edge/internal/logger"
	"github.com/yourusername/gridiron-edge/internal/metrics"
	"github.com/yourusername/gridiron-edge/internal/models"
)

// Adjustment is one scored category for one side of a game.
type Adjustment struct {
	Spread    float64            `json:"spread"`
	Total     float64            `json:"total"`
	Breakdown map[string]float64 `json:"breakdown"`
}

// GameAdjustment is the calculator's full output for one game. Weather is
// scored once at game level since conditions apply to both sides.
type GameAdjustment struct {
	Home    Adjustment `json:"home"`
	Away    Adjustment `json:"away"`
	Weather Adjustment `json:"weather"`
}

// NetSpread returns the home-relative spread adjustment consumed by the
// edge detector: positive favors the home side.
func (g GameAdjustment) NetSpread() float64 {
	return g.Home.Spread - g.Away.Spread + g.Weather.Spread
}

// NetTotal returns the combined adjustment to the game total.
func (g GameAdjustment) NetTotal() float64 {
	return g.Home.Total + g.Away.Total + g.Weather.Total
}

// Calculator converts a GameContext into capped S/W/E point adjustments.
// It is a pure function over its inputs; the factor table is immutable
// after construction.
type Calculator struct {
	table       FactorTable
	combinedCap float64
	logger      *logrus.Logger
	events      *logger.EdgeLogger
}

// NewCalculator creates a situational factor calculator. combinedCap is
// the absolute clamp on each side's summed situational-plus-emotional
// spread adjustment.
func NewCalculator(table FactorTable, combinedCap float64, baseLogger *logrus.Logger) (*Calculator, error) {
	if combinedCap <= 0 {
		return nil, fmt.Errorf("combined cap must be positive, got %f", combinedCap)
	}
	if table.SituationalRawCap <= 0 || table.EmotionalCap <= 0 {
		return nil, fmt.Errorf("factor table caps must be positive")
	}
	if baseLogger == nil {
		baseLogger = logrus.New()
	}
	return &Calculator{
		table:       table,
		combinedCap: combinedCap,
		logger:      baseLogger,
		events:      logger.NewEdgeLogger(baseLogger),
	}, nil
}

// Evaluate scores both sides of a game. Inputs are read-only; repeated
// calls with the same context yield identical output.
func (c *Calculator) Evaluate(ctx *models.GameContext) GameAdjustment {
	adjustment := GameAdjustment{
		Home:    c.scoreSide(ctx.Home, ctx.Away),
		Away:    c.scoreSide(ctx.Away, ctx.Home),
		Weather: c.scoreWeather(ctx),
	}

	c.logger.WithFields(logrus.Fields{
		"home_spread":   adjustment.Home.Spread,
		"away_spread":   adjustment.Away.Spread,
		"weather_total": adjustment.Weather.Total,
		"net_spread":    adjustment.NetSpread(),
	}).Debug("Situational factors evaluated")

	return adjustment
}

// scoreSide combines the situational (S) and emotional (E) categories for
// one side, then clamps the sum to the combined cap.
func (c *Calculator) scoreSide(side, opponent models.TeamSituation) Adjustment {
	breakdown := make(map[string]float64)

	situational := c.scoreSituational(side, opponent, breakdown) / rawPointDivisor
	breakdown["situational_spread"] = situational

	emotional := c.scoreEmotional(side, breakdown)
	breakdown["emotional_spread"] = emotional

	spread := clampAbs(situational+emotional, c.combinedCap)
	breakdown["combined_spread"] = spread

	return Adjustment{Spread: spread, Breakdown: breakdown}
}

// scoreSituational accumulates raw S points: rest, travel, familiarity
// flags and trailing ATS form. Result is capped in raw-point space.
func (c *Calculator) scoreSituational(side, opponent models.TeamSituation, breakdown map[string]float64) float64 {
	t := c.table
	raw := 0.0

	restEdge := side.RestDays - opponent.RestDays
	switch {
	case restEdge >= t.RestBigEdgeDays:
		raw += t.RestBigEdgePoints
		breakdown["rest"] = t.RestBigEdgePoints
	case restEdge >= t.RestSmallEdgeDays:
		raw += t.RestSmallEdgePoints
		breakdown["rest"] = t.RestSmallEdgePoints
	}
	if side.RestDays <= 5 {
		raw += t.ShortWeekPoints
		breakdown["short_week"] = t.ShortWeekPoints
	}

	switch {
	case side.TravelDistanceMi >= t.TravelLongMiles:
		raw += t.TravelLongPoints
		breakdown["travel"] = t.TravelLongPoints
	case side.TravelDistanceMi >= t.TravelMidMiles:
		raw += t.TravelMidPoints
		breakdown["travel"] = t.TravelMidPoints
	case side.TravelDistanceMi >= t.TravelShortMiles:
		raw += t.TravelShortPoints
		breakdown["travel"] = t.TravelShortPoints
	}

	if side.Divisional {
		raw += t.DivisionalPoints
		breakdown["divisional"] = t.DivisionalPoints
	}
	if side.Rivalry {
		raw += t.RivalryPoints
		breakdown["rivalry"] = t.RivalryPoints
	}
	if side.Revenge {
		raw += t.RevengeFlagPoints
		breakdown["revenge_flag"] = t.RevengeFlagPoints
	}

	if side.ATSWinsLast5 >= t.ATSHotWins {
		raw += t.ATSHotPoints
		breakdown["ats_momentum"] = t.ATSHotPoints
	} else if side.ATSLossesLast5 >= t.ATSColdLosses {
		raw += t.ATSColdPoints
		breakdown["ats_momentum"] = t.ATSColdPoints
	}

	return clampAbs(raw, t.SituationalRawCap)
}

// scoreEmotional accumulates E points in spread-point space: revenge
// magnitude, lookahead, letdown, coaching change, playoff desperation and
// streaks. Result is capped by the emotional cap.
func (c *Calculator) scoreEmotional(side models.TeamSituation, breakdown map[string]float64) float64 {
	t := c.table
	points := 0.0

	if side.Revenge && side.RevengeLossMargin > 0 {
		revenge := math.Min(t.RevengeCap, t.RevengePerMarginPoint*side.RevengeLossMargin)
		points += revenge
		breakdown["revenge_magnitude"] = revenge
	}

	if side.LookaheadGame {
		lookahead := t.LookaheadPoints
		if side.NextOpponentRating > t.LookaheadRatingBase {
			lookahead += t.LookaheadPerRating * (side.NextOpponentRating - t.LookaheadRatingBase)
		}
		lookahead = clampAbs(lookahead, t.LookaheadCap)
		points += lookahead
		breakdown["lookahead"] = lookahead
	}
	if side.ComingOffBigWin {
		points += t.LetdownPoints
		breakdown["letdown"] = t.LetdownPoints
	}

	if side.CoachingChange.Occurred {
		change := t.CoachChangePermanent
		if side.CoachingChange.Interim {
			change = t.CoachChangeInterim
		}
		if side.CoachingChange.TeamRallying {
			change += t.CoachChangeRally
		}
		points += change
		breakdown["coaching_change"] = change
	}

	if desperation := c.playoffPoints(side.PlayoffTier); desperation != 0 {
		points += desperation
		breakdown["playoff"] = desperation
	}

	if streak := c.streakPoints(side); streak != 0 {
		points += streak
		breakdown["streak"] = streak
	}

	return clampAbs(points, t.EmotionalCap)
}

func (c *Calculator) playoffPoints(tier models.PlayoffTier) float64 {
	switch tier {
	case models.PlayoffTierSeeding:
		return c.table.PlayoffSeeding
	case models.PlayoffTierWildcard:
		return c.table.PlayoffWildcard
	case models.PlayoffTierElimination:
		return c.table.PlayoffElimination
	case models.PlayoffTierClinching:
		return c.table.PlayoffClinching
	default:
		return 0
	}
}

func (c *Calculator) streakPoints(side models.TeamSituation) float64 {
	t := c.table
	if side.WinStreak >= t.StreakMinLength {
		extra := float64(side.WinStreak - t.StreakMinLength + 1)
		return math.Min(t.StreakCap, t.StreakPerGame*extra)
	}
	if side.LossStreak >= t.StreakMinLength {
		extra := float64(side.LossStreak - t.StreakMinLength + 1)
		return -math.Min(t.StreakCap, t.StreakPerGame*extra)
	}
	return 0
}

// scoreWeather accumulates the W category once per game. Domes
// contribute zero; a missing report for an outdoor venue contributes
// zero with a recorded warning. Heavy wind leans the spread slightly
// toward the home side; everything else moves only the total.
func (c *Calculator) scoreWeather(ctx *models.GameContext) Adjustment {
	breakdown := make(map[string]float64)
	if ctx.Game.Venue.Dome {
		return Adjustment{Breakdown: breakdown}
	}
	if ctx.Weather == nil {
		matchup := fmt.Sprintf("%s@%s", ctx.Game.AwayTeam, ctx.Game.HomeTeam)
		c.events.LogDataQualityWarning(matchup, "missing weather report for outdoor venue", "no weather adjustment")
		metrics.DataQualityWarningsTotal.Inc()
		return Adjustment{Breakdown: breakdown}
	}

	t := c.table
	w := ctx.Weather
	total := 0.0
	spread := 0.0

	switch {
	case w.WindSpeedMph >= t.WindHeavyMph:
		total += t.WindHeavyTotal
		spread += t.WindSpreadLean
		breakdown["wind"] = t.WindHeavyTotal
	case w.WindSpeedMph >= t.WindModerateMph:
		total += t.WindModerateTotal
		breakdown["wind"] = t.WindModerateTotal
	}

	if w.PrecipProbability >= t.PrecipMinProb {
		var precip float64
		switch w.PrecipType {
		case models.PrecipRain:
			precip = t.RainTotal
		case models.PrecipSnow:
			precip = t.SnowTotal
		case models.PrecipMix:
			precip = t.MixTotal
		}
		if precip != 0 {
			total += precip
			breakdown["precipitation"] = precip
		}
	}

	switch {
	case w.TemperatureF <= t.BitterColdF:
		total += t.BitterColdTotal
		breakdown["temperature"] = t.BitterColdTotal
	case w.TemperatureF <= 32:
		total += t.FreezingTotal
		breakdown["temperature"] = t.FreezingTotal
	case w.TemperatureF >= t.ExtremeHeatF:
		total += t.ExtremeHeatTotal
		breakdown["temperature"] = t.ExtremeHeatTotal
	}

	return Adjustment{
		Spread:    clampAbs(spread, t.WeatherSpreadCap),
		Total:     total,
		Breakdown: breakdown,
	}
}

func clampAbs(v, limit float64) float64 {
	return math.Max(-limit, math.Min(limit, v))
}
