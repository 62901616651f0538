// Package edge classifies the gap between a calibrated model prediction
// and the quoted market line into a tiered bet recommendation.
package edge

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/gridiron-edge/internal/config"
	"github.com/yourusername/gridiron-edge/internal/injury"
	"github.com/yourusername/gridiron-edge/internal/logger"
	"github.com/yourusername/gridiron-edge/internal/metrics"
	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/situation"
)

// Predictor supplies the base margin prediction. Satisfied by
// rating.Engine; tests substitute fakes.
type Predictor interface {
	PredictMargin(home, away string) (float64, error)
}

// tierWinRates associates each tier with its documented historical
// against-the-spread win rate. These feed Kelly sizing downstream; they
// are deliberately conservative relative to raw backtest numbers.
var tierWinRates = map[models.EdgeTier]float64{
	models.TierNoPlay:   0.500,
	models.TierLean:     0.525,
	models.TierModerate: 0.550,
	models.TierStrong:   0.580,
	models.TierMax:      0.620,
}

// TierWinRate returns the documented win rate for a tier.
func TierWinRate(tier models.EdgeTier) float64 {
	return tierWinRates[tier]
}

// Detector runs the ordered calibration pipeline over one game at a
// time. It holds no per-call state; a single instance is safe for
// concurrent use across unrelated games.
type Detector struct {
	cfg        config.EdgeConfig
	keyNumbers []float64
	predictor  Predictor
	situations *situation.Calculator
	injuries   *injury.Valuator
	log        *logger.EdgeLogger
}

// NewDetector creates an edge detector. All collaborators are required.
func NewDetector(cfg config.EdgeConfig, keyNumbers []float64, predictor Predictor, situations *situation.Calculator, injuries *injury.Valuator, baseLogger *logrus.Logger) (*Detector, error) {
	if predictor == nil {
		return nil, fmt.Errorf("predictor is required")
	}
	if situations == nil {
		return nil, fmt.Errorf("situational calculator is required")
	}
	if injuries == nil {
		return nil, fmt.Errorf("injury valuator is required")
	}
	if len(keyNumbers) == 0 {
		return nil, fmt.Errorf("key numbers are required")
	}
	if baseLogger == nil {
		baseLogger = logrus.New()
	}

	return &Detector{
		cfg:        cfg,
		keyNumbers: keyNumbers,
		predictor:  predictor,
		situations: situations,
		injuries:   injuries,
		log:        logger.NewEdgeLogger(baseLogger),
	}, nil
}

// Assess runs the full calibration pipeline for one game. The returned
// assessment always carries an explicit outcome: a missing rating yields
// an insufficient-data result, never a silent zero edge.
func (d *Detector) Assess(ctx *models.GameContext, line *models.MarketLine, injuryReports []models.InjuryRecord) (*models.EdgeAssessment, error) {
	if ctx == nil || ctx.Game == nil {
		return nil, fmt.Errorf("game context is required")
	}
	if line == nil {
		return nil, fmt.Errorf("market line is required")
	}

	metrics.EdgeEvaluationsTotal.Inc()

	game := ctx.Game
	assessment := &models.EdgeAssessment{
		ID:         uuid.New(),
		GameID:     game.ID,
		Matchup:    fmt.Sprintf("%s@%s", game.AwayTeam, game.HomeTeam),
		KeyNumbers: d.keyNumbers,
		AssessedAt: time.Now().UTC(),
		Breakdown:  make(map[string]float64),
	}

	base, err := d.predictor.PredictMargin(game.HomeTeam, game.AwayTeam)
	if err != nil {
		if errors.Is(err, models.ErrMissingRating) || errors.Is(err, models.ErrUnknownTeam) {
			metrics.InsufficientDataTotal.Inc()
			assessment.Outcome = models.OutcomeInsufficientData
			assessment.Classification = models.TierNoPlay
			assessment.RecommendedSide = models.SideNone
			d.log.LogAssessment(assessment.Matchup, string(assessment.Outcome), 0, line.FavoriteMargin(), 0, string(models.TierNoPlay))
			return assessment, nil
		}
		return nil, fmt.Errorf("prediction failed for %s: %w", assessment.Matchup, err)
	}

	situational := d.situations.Evaluate(ctx)
	homeInjury := d.injuries.TeamDeduction(game.HomeTeam, injuryReports)
	awayInjury := d.injuries.TeamDeduction(game.AwayTeam, injuryReports)

	predicted := base + situational.NetSpread() - (homeInjury.Total - awayInjury.Total)
	assessment.PredictedMargin = predicted
	assessment.Breakdown["base_margin"] = base
	assessment.Breakdown["situational"] = situational.NetSpread()
	assessment.Breakdown["injury_home"] = homeInjury.Total
	assessment.Breakdown["injury_away"] = awayInjury.Total

	marketMargin := line.FavoriteMargin()
	assessment.MarketLine = marketMargin

	corrected, biasFactor := d.applyBiasCorrection(predicted, marketMargin)
	assessment.CorrectedMargin = corrected
	assessment.Breakdown["bias_factor"] = biasFactor

	edgePoints := corrected - marketMargin
	assessment.EdgePoints = edgePoints
	assessment.KeyNumberCrossed = d.crossesKeyNumber(corrected, marketMargin)

	switch {
	case math.Abs(edgePoints) >= d.cfg.MarketRespectCeiling:
		// The market is probably right: log the apparent edge but do not
		// recommend, and keep the outcome distinguishable from no-edge.
		metrics.EdgeSuppressionsTotal.Inc()
		assessment.Outcome = models.OutcomeSuppressed
		assessment.Classification = models.TierNoPlay
		assessment.RecommendedSide = models.SideNone
		d.log.LogSuppression(assessment.Matchup, edgePoints, d.cfg.MarketRespectCeiling)
		return assessment, nil

	case math.Abs(edgePoints) < d.cfg.MinimumEdge:
		assessment.Outcome = models.OutcomeNoEdge
		assessment.Classification = models.TierNoPlay
		assessment.RecommendedSide = models.SideNone

	default:
		assessment.Outcome = models.OutcomeRecommended
		assessment.Classification = d.classify(math.Abs(edgePoints))
		if edgePoints > 0 {
			assessment.RecommendedSide = models.SideHome
		} else {
			assessment.RecommendedSide = models.SideAway
		}
		metrics.EdgeRecommendationsTotal.WithLabelValues(string(assessment.Classification)).Inc()
	}

	assessment.TierWinRate = tierWinRates[assessment.Classification]

	d.log.LogAssessment(
		assessment.Matchup,
		string(assessment.Outcome),
		predicted,
		marketMargin,
		edgePoints,
		string(assessment.Classification),
	)

	return assessment, nil
}

// applyBiasCorrection shrinks predictions that agree with the market
// favorite and amplifies predictions that take the market underdog,
// correcting a measured systematic overconfidence in favorites.
// Pick'em lines and dead-even predictions pass through unchanged.
func (d *Detector) applyBiasCorrection(predicted, marketMargin float64) (float64, float64) {
	if predicted == 0 || marketMargin == 0 {
		return predicted, 1.0
	}
	sameSide := (predicted > 0) == (marketMargin > 0)
	if sameSide {
		return predicted * d.cfg.FavoriteBias, d.cfg.FavoriteBias
	}
	return predicted * d.cfg.UnderdogBoost, d.cfg.UnderdogBoost
}

// crossesKeyNumber reports whether the prediction-to-market range
// straddles a league key number on either side of zero. Crossing one
// carries extra value independent of raw edge size, so it is flagged
// but never blocks classification.
func (d *Detector) crossesKeyNumber(corrected, marketMargin float64) bool {
	lo := math.Min(corrected, marketMargin)
	hi := math.Max(corrected, marketMargin)
	for _, k := range d.keyNumbers {
		if lo < k && hi > k {
			return true
		}
		if lo < -k && hi > -k {
			return true
		}
	}
	return false
}

// classify maps an absolute edge to the ordered tier set.
func (d *Detector) classify(absEdge float64) models.EdgeTier {
	switch {
	case absEdge >= d.cfg.MaxThreshold:
		return models.TierMax
	case absEdge >= d.cfg.StrongThreshold:
		return models.TierStrong
	case absEdge >= d.cfg.ModerateThreshold:
		return models.TierModerate
	case absEdge >= d.cfg.LeanThreshold:
		return models.TierLean
	default:
		return models.TierNoPlay
	}
}
