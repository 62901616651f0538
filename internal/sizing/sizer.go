// Package sizing turns a playable edge assessment into a stake via the
// star system, with full and fractional Kelly reported alongside.
package sizing

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/gridiron-edge/internal/config"
	"github.com/yourusername/gridiron-edge/internal/models"
)

// starStep is the granularity of the star ladder.
const starStep = 0.5

// maxStars caps the ladder top.
const maxStars = 3.0

// Sizer converts edge assessments into stake recommendations. The star
// ladder and Kelly parameters are fixed at construction; a single
// instance is safe for concurrent use.
type Sizer struct {
	cfg        config.SizingConfig
	thresholds []float64
	logger     *logrus.Logger
}

// NewSizer creates a bet sizer. The ladder runs from the configured
// edge-percentage floor at half a star to three stars, strictly
// increasing so star output is monotone in edge percentage.
func NewSizer(cfg config.SizingConfig, logger *logrus.Logger) (*Sizer, error) {
	if cfg.KellyFraction <= 0 || cfg.KellyFraction > 1 {
		return nil, fmt.Errorf("kelly fraction must be in (0, 1], got %f", cfg.KellyFraction)
	}
	if cfg.SafetyCeilingPct <= 0 {
		return nil, fmt.Errorf("safety ceiling must be positive, got %f", cfg.SafetyCeilingPct)
	}
	if cfg.StarFloorEdgePct <= 0 {
		return nil, fmt.Errorf("star floor must be positive, got %f", cfg.StarFloorEdgePct)
	}
	if cfg.PctPerStar <= 0 {
		return nil, fmt.Errorf("percent per star must be positive, got %f", cfg.PctPerStar)
	}
	if cfg.SpreadPrice >= 0 {
		return nil, fmt.Errorf("spread price must be negative American odds, got %d", cfg.SpreadPrice)
	}
	if logger == nil {
		logger = logrus.New()
	}

	return &Sizer{
		cfg:        cfg,
		thresholds: buildLadder(cfg.StarFloorEdgePct),
		logger:     logger,
	}, nil
}

// buildLadder spaces the six half-star thresholds from the floor upward.
// Spacing widens toward the top so three-star plays stay rare.
func buildLadder(floor float64) []float64 {
	return []float64{
		floor,        // 0.5 stars
		floor + 2.0,  // 1.0
		floor + 4.0,  // 1.5
		floor + 7.0,  // 2.0
		floor + 10.0, // 2.5
		floor + 14.0, // 3.0
	}
}

// Size produces a stake recommendation for one assessment against the
// current bankroll. Non-playable assessments always size to zero.
func (s *Sizer) Size(assessment *models.EdgeAssessment, bankroll decimal.Decimal) (*models.StakeRecommendation, error) {
	if assessment == nil {
		return nil, fmt.Errorf("assessment is required")
	}

	rec := &models.StakeRecommendation{
		AssessmentID: assessment.ID,
		Confidence:   string(assessment.Classification),
		BetAmount:    decimal.Zero,
	}

	if !assessment.Playable() {
		rec.Confidence = string(models.TierNoPlay)
		return rec, nil
	}

	price := s.cfg.SpreadPrice
	winProb := assessment.TierWinRate
	edgePct := s.EdgePercentage(winProb, price)

	rec.Stars = s.Stars(edgePct)
	rec.ExpectedValue = edgePct / 100.0

	// Kelly figures are percent-of-bankroll so they read side by side
	// with BetPercentage. The safety ceiling binds the fractional figure
	// the same way it binds the star figure.
	rec.KellyFull = kelly(winProb, price) * 100.0
	rec.KellyFractional = math.Min(rec.KellyFull*s.cfg.KellyFraction, s.cfg.SafetyCeilingPct)

	betPct := math.Min(rec.Stars*s.cfg.PctPerStar, s.cfg.SafetyCeilingPct)
	rec.BetPercentage = betPct
	rec.BetAmount = bankroll.Mul(decimal.NewFromFloat(betPct / 100.0)).Round(2)

	s.logger.WithFields(logrus.Fields{
		"assessment_id":    assessment.ID,
		"classification":   assessment.Classification,
		"edge_pct":         edgePct,
		"stars":            rec.Stars,
		"bet_percentage":   rec.BetPercentage,
		"kelly_fractional": rec.KellyFractional,
	}).Debug("Stake sized")

	return rec, nil
}

// EdgePercentage is the expected value of a unit stake, in percent,
// given the win probability and the American price paid.
func (s *Sizer) EdgePercentage(winProb float64, americanPrice int) float64 {
	dec := models.DecimalOdds(americanPrice)
	if dec <= 1.0 || winProb <= 0 {
		return 0
	}
	return (winProb*dec - 1.0) * 100.0
}

// Stars walks the ladder from the top. Anything under the floor is a
// pass; each threshold crossed adds half a star up to three.
func (s *Sizer) Stars(edgePct float64) float64 {
	stars := 0.0
	for i, threshold := range s.thresholds {
		if edgePct >= threshold {
			stars = starStep * float64(i+1)
		}
	}
	if stars > maxStars {
		stars = maxStars
	}
	return stars
}

// kelly returns the full Kelly fraction of bankroll for a win
// probability against an American price. Negative expectation returns
// zero, never a negative stake.
func kelly(winProb float64, americanPrice int) float64 {
	dec := models.DecimalOdds(americanPrice)
	b := dec - 1.0
	if b <= 0 || winProb <= 0 || winProb >= 1 {
		return 0
	}
	f := (b*winProb - (1.0 - winProb)) / b
	if f < 0 {
		return 0
	}
	return f
}
