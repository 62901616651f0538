package models

import (
	"time"

	"github.com/google/uuid"
)

// EdgeTier is the ordered confidence classification for a detected edge.
type EdgeTier string

const (
	TierNoPlay   EdgeTier = "NO_PLAY"
	TierLean     EdgeTier = "LEAN"
	TierModerate EdgeTier = "MODERATE"
	TierStrong   EdgeTier = "STRONG"
	TierMax      EdgeTier = "MAX"
)

// tierRank orders tiers for comparison. Higher rank means more confidence.
var tierRank = map[EdgeTier]int{
	TierNoPlay:   0,
	TierLean:     1,
	TierModerate: 2,
	TierStrong:   3,
	TierMax:      4,
}

// AtLeast reports whether the tier is at or above the given tier.
func (t EdgeTier) AtLeast(other EdgeTier) bool {
	return tierRank[t] >= tierRank[other]
}

// BetSide names the side a recommendation backs.
type BetSide string

const (
	SideHome BetSide = "HOME"
	SideAway BetSide = "AWAY"
	SideNone BetSide = "NONE"
)

// EdgeOutcome distinguishes the terminal states of edge detection.
// A suppressed play and an insufficient-data result must never be
// conflated with a genuine no-edge classification.
type EdgeOutcome string

const (
	OutcomeRecommended      EdgeOutcome = "recommended"
	OutcomeNoEdge           EdgeOutcome = "no_edge"
	OutcomeSuppressed       EdgeOutcome = "suppressed"
	OutcomeInsufficientData EdgeOutcome = "insufficient_data"
)

// EdgeAssessment is the edge detector's verdict for one game.
// EdgePoints is home-relative: positive favors the home side.
type EdgeAssessment struct {
	ID               uuid.UUID          `db:"id" json:"id"`
	GameID           uuid.UUID          `db:"game_id" json:"game_id"`
	Matchup          string             `db:"matchup" json:"matchup"`
	Outcome          EdgeOutcome        `db:"outcome" json:"outcome"`
	PredictedMargin  float64            `db:"predicted_margin" json:"predicted_margin"`
	CorrectedMargin  float64            `db:"corrected_margin" json:"corrected_margin"`
	MarketLine       float64            `db:"market_line" json:"market_line"`
	EdgePoints       float64            `db:"edge_points" json:"edge_points"`
	Classification   EdgeTier           `db:"classification" json:"classification"`
	RecommendedSide  BetSide            `db:"recommended_side" json:"recommended_side"`
	KeyNumberCrossed bool               `db:"key_number_crossed" json:"key_number_crossed"`
	KeyNumbers       []float64          `db:"-" json:"key_numbers,omitempty"`
	TierWinRate      float64            `db:"tier_win_rate" json:"tier_win_rate"`
	Breakdown        map[string]float64 `db:"-" json:"breakdown,omitempty"`
	AssessedAt       time.Time          `db:"assessed_at" json:"assessed_at"`
}

// Playable reports whether the assessment carries an actionable
// recommendation.
func (a *EdgeAssessment) Playable() bool {
	return a.Outcome == OutcomeRecommended && a.RecommendedSide != SideNone
}
