package edge

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/gridiron-edge/internal/config"
	"github.com/yourusername/gridiron-edge/internal/injury"
	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/situation"
)

// fakePredictor returns a fixed margin, or a fixed error when set.
type fakePredictor struct {
	margin float64
	err    error
}

func (f *fakePredictor) PredictMargin(home, away string) (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.margin, nil
}

func testEdgeConfig() config.EdgeConfig {
	return config.EdgeConfig{
		FavoriteBias:         0.85,
		UnderdogBoost:        1.15,
		MarketRespectCeiling: 10.0,
		MinimumEdge:          1.0,
		LeanThreshold:        1.0,
		ModerateThreshold:    2.0,
		StrongThreshold:      3.5,
		MaxThreshold:         5.5,
		SituationalCap:       3.0,
	}
}

func newTestDetector(t *testing.T, predictor Predictor) *Detector {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	calc, err := situation.NewCalculator(situation.DefaultFactorTable(), 3.0, log)
	require.NoError(t, err)

	valuator, err := injury.NewValuator(injury.DefaultCurveTable(), injury.DefaultPositionValues(), 6.0, 14, log)
	require.NoError(t, err)

	detector, err := NewDetector(testEdgeConfig(), []float64{3, 7}, predictor, calc, valuator, log)
	require.NoError(t, err)
	return detector
}

// neutralContext builds a game with no situational, weather or injury
// signal so tests can isolate the base-prediction arithmetic.
func neutralContext(home, away string) *models.GameContext {
	return &models.GameContext{
		Game: &models.Game{
			ID:       uuid.New(),
			Season:   2025,
			Week:     8,
			HomeTeam: home,
			AwayTeam: away,
			Kickoff:  time.Date(2025, 10, 26, 18, 0, 0, 0, time.UTC),
			Venue:    models.Venue{Dome: true},
		},
		Home: models.TeamSituation{RestDays: 7},
		Away: models.TeamSituation{RestDays: 7},
	}
}

func TestNewDetectorRequiresCollaborators(t *testing.T) {
	log := logrus.New()
	calc, err := situation.NewCalculator(situation.DefaultFactorTable(), 3.0, log)
	require.NoError(t, err)

	_, err = NewDetector(testEdgeConfig(), []float64{3, 7}, nil, calc, nil, log)
	assert.Error(t, err)
}

func TestAssessBiasCorrectedModerateEdge(t *testing.T) {
	// Base prediction home by 7.5 against a home -3.5 line. Model and
	// market agree on the favorite, so the favorite bias shrinks the
	// prediction to 6.375 and the edge is 2.875 points on the home side.
	detector := newTestDetector(t, &fakePredictor{margin: 7.5})
	line := &models.MarketLine{Spread: -3.5}

	assessment, err := detector.Assess(neutralContext("KC", "LV"), line, nil)
	require.NoError(t, err)

	assert.Equal(t, models.OutcomeRecommended, assessment.Outcome)
	assert.InDelta(t, 7.5, assessment.PredictedMargin, 1e-9)
	assert.InDelta(t, 6.375, assessment.CorrectedMargin, 1e-9)
	assert.InDelta(t, 2.875, assessment.EdgePoints, 1e-9)
	assert.Equal(t, models.TierModerate, assessment.Classification)
	assert.Equal(t, models.SideHome, assessment.RecommendedSide)
	assert.InDelta(t, 0.55, assessment.TierWinRate, 1e-9)
}

func TestAssessUnderdogBoostAppliedOnDisagreement(t *testing.T) {
	// Model likes the home team by 2 but the market favors the away
	// side, so the underdog boost amplifies the prediction.
	detector := newTestDetector(t, &fakePredictor{margin: 2.0})
	line := &models.MarketLine{Spread: 3.0}

	assessment, err := detector.Assess(neutralContext("DET", "GB"), line, nil)
	require.NoError(t, err)

	assert.InDelta(t, 2.0*1.15, assessment.CorrectedMargin, 1e-9)
	assert.InDelta(t, 1.15, assessment.Breakdown["bias_factor"], 1e-9)
	assert.Equal(t, models.SideHome, assessment.RecommendedSide)
}

func TestAssessPickEmSkipsBiasCorrection(t *testing.T) {
	detector := newTestDetector(t, &fakePredictor{margin: 2.5})
	line := &models.MarketLine{Spread: 0}

	assessment, err := detector.Assess(neutralContext("BUF", "MIA"), line, nil)
	require.NoError(t, err)

	assert.InDelta(t, 2.5, assessment.CorrectedMargin, 1e-9)
	assert.InDelta(t, 1.0, assessment.Breakdown["bias_factor"], 1e-9)
}

func TestAssessBelowMinimumEdgeIsNoPlay(t *testing.T) {
	detector := newTestDetector(t, &fakePredictor{margin: 4.0})
	line := &models.MarketLine{Spread: -3.0}

	assessment, err := detector.Assess(neutralContext("PHI", "DAL"), line, nil)
	require.NoError(t, err)

	assert.Equal(t, models.OutcomeNoEdge, assessment.Outcome)
	assert.Equal(t, models.TierNoPlay, assessment.Classification)
	assert.Equal(t, models.SideNone, assessment.RecommendedSide)
	assert.False(t, assessment.Playable())
}

func TestAssessMarketRespectSuppression(t *testing.T) {
	// A 20-point disagreement with the market is treated as a signal
	// that the model is missing information, not as a mega-edge.
	detector := newTestDetector(t, &fakePredictor{margin: 24.0})
	line := &models.MarketLine{Spread: -3.0}

	assessment, err := detector.Assess(neutralContext("SF", "ARI"), line, nil)
	require.NoError(t, err)

	assert.Equal(t, models.OutcomeSuppressed, assessment.Outcome)
	assert.Equal(t, models.TierNoPlay, assessment.Classification)
	assert.Equal(t, models.SideNone, assessment.RecommendedSide)
	assert.False(t, assessment.Playable())
}

func TestAssessAwaySideRecommendation(t *testing.T) {
	// Market has home favored by 6, model only by 1.5 after bias. The
	// value is on the away side.
	detector := newTestDetector(t, &fakePredictor{margin: 1.5 / 0.85})
	line := &models.MarketLine{Spread: -6.0}

	assessment, err := detector.Assess(neutralContext("NYJ", "NE"), line, nil)
	require.NoError(t, err)

	assert.Equal(t, models.OutcomeRecommended, assessment.Outcome)
	assert.Equal(t, models.SideAway, assessment.RecommendedSide)
	assert.InDelta(t, -4.5, assessment.EdgePoints, 1e-9)
	assert.Equal(t, models.TierStrong, assessment.Classification)
}

func TestAssessMissingRatingYieldsInsufficientData(t *testing.T) {
	detector := newTestDetector(t, &fakePredictor{err: models.ErrMissingRating})
	line := &models.MarketLine{Spread: -3.0}

	assessment, err := detector.Assess(neutralContext("HOU", "JAX"), line, nil)
	require.NoError(t, err)

	assert.Equal(t, models.OutcomeInsufficientData, assessment.Outcome)
	assert.Equal(t, models.TierNoPlay, assessment.Classification)
	assert.False(t, assessment.Playable())
}

func TestAssessInjuriesShiftPrediction(t *testing.T) {
	detector := newTestDetector(t, &fakePredictor{margin: 7.5})
	line := &models.MarketLine{Spread: -3.5}

	reports := []models.InjuryRecord{
		{
			Team:     "KC",
			Player:   "QB1",
			Position: models.PositionQB,
			Tier:     models.TierStarter,
			Status:   models.StatusOut,
			Code:     models.InjuryKnee,
		},
	}

	assessment, err := detector.Assess(neutralContext("KC", "LV"), line, reports)
	require.NoError(t, err)

	// Starter QB out removes 5.0 points: 7.5 - 5.0 = 2.5 predicted,
	// corrected to 2.125, an edge of -1.375 against the 3.5-point line.
	assert.InDelta(t, 2.5, assessment.PredictedMargin, 1e-9)
	assert.InDelta(t, -1.375, assessment.EdgePoints, 1e-9)
	assert.Equal(t, models.SideAway, assessment.RecommendedSide)
	assert.Equal(t, models.TierLean, assessment.Classification)
}

func TestKeyNumberStraddleFlagged(t *testing.T) {
	detector := newTestDetector(t, &fakePredictor{margin: 9.0 / 0.85})

	crossing := &models.MarketLine{Spread: -6.5}
	assessment, err := detector.Assess(neutralContext("BAL", "CIN"), crossing, nil)
	require.NoError(t, err)
	assert.True(t, assessment.KeyNumberCrossed, "corrected 9.0 vs market 6.5 crosses 7")

	notCrossing := &models.MarketLine{Spread: -7.5}
	assessment, err = detector.Assess(neutralContext("BAL", "CIN"), notCrossing, nil)
	require.NoError(t, err)
	assert.False(t, assessment.KeyNumberCrossed, "corrected 9.0 vs market 7.5 stays above 7")
}

func TestKeyNumberStraddleNegativeSide(t *testing.T) {
	// Away-side edges straddle negative key numbers.
	detector := newTestDetector(t, &fakePredictor{margin: -1.0 / 0.85})
	line := &models.MarketLine{Spread: 4.5}

	assessment, err := detector.Assess(neutralContext("CHI", "MIN"), line, nil)
	require.NoError(t, err)
	assert.True(t, assessment.KeyNumberCrossed, "corrected -1.0 vs market -4.5 crosses -3")
}

func TestClassifyTierBoundaries(t *testing.T) {
	detector := newTestDetector(t, &fakePredictor{})

	cases := []struct {
		edge float64
		want models.EdgeTier
	}{
		{0.5, models.TierNoPlay},
		{1.0, models.TierLean},
		{1.9, models.TierLean},
		{2.0, models.TierModerate},
		{3.5, models.TierStrong},
		{5.5, models.TierMax},
		{9.0, models.TierMax},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, detector.classify(tc.edge), "edge %.1f", tc.edge)
	}
}

func TestBreakdownCarriesComponentContributions(t *testing.T) {
	detector := newTestDetector(t, &fakePredictor{margin: 7.5})
	line := &models.MarketLine{Spread: -3.5}

	assessment, err := detector.Assess(neutralContext("KC", "LV"), line, nil)
	require.NoError(t, err)

	assert.InDelta(t, 7.5, assessment.Breakdown["base_margin"], 1e-9)
	assert.InDelta(t, 0.0, assessment.Breakdown["situational"], 1e-9)
	assert.InDelta(t, 0.85, assessment.Breakdown["bias_factor"], 1e-9)
}
