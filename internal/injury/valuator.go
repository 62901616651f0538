package injury

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/gridiron-edge/internal/logger"
	"github.com/yourusername/gridiron-edge/internal/metrics"
	"github.com/yourusername/gridiron-edge/internal/models"
)

// PlayerImpact is the valuation of a single injury report entry.
type PlayerImpact struct {
	Player       string  `json:"player"`
	Capacity     float64 `json:"capacity"`
	Deduction    float64 `json:"deduction"`
	DefaultCurve bool    `json:"default_curve"` // an unrecognized code fell back
}

// TeamImpact aggregates a team's injury deductions, capped so stacked
// minor injuries cannot swamp the rating differential.
type TeamImpact struct {
	Team      string         `json:"team"`
	Total     float64        `json:"total"`
	Uncapped  float64        `json:"uncapped"`
	PerPlayer []PlayerImpact `json:"per_player"`
}

// Valuator converts injury records into point deductions. Tables are
// immutable after construction.
type Valuator struct {
	curves        CurveTable
	values        PositionValueTable
	teamCap       float64
	lingeringDays int
	logger        *logrus.Logger
	events        *logger.EdgeLogger
}

// NewValuator creates an injury valuator.
func NewValuator(curves CurveTable, values PositionValueTable, teamCap float64, lingeringDays int, baseLogger *logrus.Logger) (*Valuator, error) {
	if len(curves) == 0 {
		return nil, fmt.Errorf("curve table is required")
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("position value table is required")
	}
	if teamCap <= 0 {
		return nil, fmt.Errorf("team cap must be positive, got %f", teamCap)
	}
	if lingeringDays <= 0 {
		return nil, fmt.Errorf("lingering window must be positive, got %d", lingeringDays)
	}
	if baseLogger == nil {
		baseLogger = logrus.New()
	}
	return &Valuator{
		curves:        curves,
		values:        values,
		teamCap:       teamCap,
		lingeringDays: lingeringDays,
		logger:        baseLogger,
		events:        logger.NewEdgeLogger(baseLogger),
	}, nil
}

// ValuePlayer computes one player's current capacity and point deduction.
func (v *Valuator) ValuePlayer(record models.InjuryRecord) PlayerImpact {
	curve, known := v.curves[record.Code]
	if !known {
		curve = DefaultCurve()
		v.events.LogDataQualityWarning(record.Player,
			fmt.Sprintf("unrecognized injury code %q", record.Code), "questionable curve")
		metrics.DataQualityWarningsTotal.Inc()
	}

	capacity := v.capacity(record, curve)
	value := v.positionValue(record.Position, record.Tier)

	deduction := value * (1.0 - capacity)
	if !record.IsOut() {
		if mult, ok := statusMultipliers[record.Status]; ok {
			deduction *= mult
		}
	}

	return PlayerImpact{
		Player:       record.Player,
		Capacity:     capacity,
		Deduction:    deduction,
		DefaultCurve: !known,
	}
}

// TeamDeduction sums all reported injuries for one team and applies the
// per-team cap.
func (v *Valuator) TeamDeduction(team string, records []models.InjuryRecord) TeamImpact {
	impact := TeamImpact{Team: team}
	for _, record := range records {
		if record.Team != team {
			continue
		}
		player := v.ValuePlayer(record)
		impact.PerPlayer = append(impact.PerPlayer, player)
		impact.Uncapped += player.Deduction
	}
	impact.Total = math.Min(impact.Uncapped, v.teamCap)
	return impact
}

// capacity evaluates the recovery curve for a record. A confirmed "out"
// short-circuits to zero regardless of elapsed days.
func (v *Valuator) capacity(record models.InjuryRecord, curve RecoveryCurve) float64 {
	if record.IsOut() {
		return 0.0
	}
	days := record.DaysSinceInjury
	if curve.RecoveryDays <= 0 {
		return 1.0
	}

	if days < curve.RecoveryDays {
		progress := float64(days) / float64(curve.RecoveryDays)
		return curve.Immediate + (1.0-curve.Immediate)*progress
	}

	post := days - curve.RecoveryDays
	if post < v.lingeringDays {
		progress := float64(post) / float64(v.lingeringDays)
		return curve.Lingering + (1.0-curve.Lingering)*progress
	}

	return 1.0
}

// positionValue looks up the point value for a position/tier pair.
// Unknown pairs value at zero, which keeps bad upstream data harmless.
func (v *Valuator) positionValue(position models.Position, tier models.PlayerTier) float64 {
	tiers, ok := v.values[position]
	if !ok {
		return 0
	}
	return tiers[tier]
}
