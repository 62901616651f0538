package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StakeRecommendation sizes a wager for a playable edge assessment.
// Stars run 0.0 to 3.0 in half-star steps and map directly to a
// percentage of bankroll; Kelly figures are reported alongside for
// comparison. BetPercentage never exceeds the configured safety ceiling.
type StakeRecommendation struct {
	AssessmentID    uuid.UUID       `db:"assessment_id" json:"assessment_id"`
	Stars           float64         `db:"stars" json:"stars"`
	Confidence      string          `db:"confidence" json:"confidence"`
	BetPercentage   float64         `db:"bet_percentage" json:"bet_percentage"`
	BetAmount       decimal.Decimal `db:"bet_amount" json:"bet_amount"`
	KellyFull       float64         `db:"kelly_full" json:"kelly_full"`
	KellyFractional float64         `db:"kelly_fractional" json:"kelly_fractional"`
	ExpectedValue   float64         `db:"expected_value" json:"expected_value"`
}

// IsPass reports whether sizing declined the play.
func (s *StakeRecommendation) IsPass() bool {
	return s.Stars == 0 || s.BetAmount.IsZero()
}
