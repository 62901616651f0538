//go:build e2e

package e2e

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/gridiron-edge/internal/backtest"
	"github.com/yourusername/gridiron-edge/internal/dataset"
	"github.com/yourusername/gridiron-edge/internal/edge"
	"github.com/yourusername/gridiron-edge/internal/injury"
	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/rating"
	"github.com/yourusername/gridiron-edge/internal/situation"
	"github.com/yourusername/gridiron-edge/internal/sizing"
	"github.com/yourusername/gridiron-edge/test/helpers"
)

type stack struct {
	loader   *dataset.Loader
	coords   map[string][2]float64
	engine   *rating.Engine
	detector *edge.Detector
	sizer    *sizing.Sizer
	harness  *backtest.Harness
}

func buildStack(t *testing.T) *stack {
	t.Helper()

	cfg := helpers.TestConfig()
	log := helpers.QuietLogger()

	loader := dataset.NewLoader(log)
	teams, coords, err := loader.LoadSeedRatings(helpers.TestdataPath("seed_ratings.json"))
	require.NoError(t, err)

	store := rating.NewStore()
	store.Seed(teams)

	engine, err := rating.NewEngine(cfg.League, store, log)
	require.NoError(t, err)

	calculator, err := situation.NewCalculator(situation.DefaultFactorTable(), cfg.Edge.SituationalCap, log)
	require.NoError(t, err)

	valuator, err := injury.NewValuator(injury.DefaultCurveTable(), injury.DefaultPositionValues(),
		cfg.Injury.TeamCapPoints, cfg.Injury.LingeringWindowDays, log)
	require.NoError(t, err)

	detector, err := edge.NewDetector(cfg.Edge, cfg.League.KeyNumbers, engine, calculator, valuator, log)
	require.NoError(t, err)

	sizer, err := sizing.NewSizer(cfg.Sizing, log)
	require.NoError(t, err)

	harness, err := backtest.NewHarness(cfg.Backtest, engine, detector, sizer, log)
	require.NoError(t, err)

	return &stack{
		loader:   loader,
		coords:   coords,
		engine:   engine,
		detector: detector,
		sizer:    sizer,
		harness:  harness,
	}
}

// TestReplayPipeline runs the two-week fixture game log through the full
// seed-predict-observe-update cycle and checks the aggregate report.
func TestReplayPipeline(t *testing.T) {
	s := buildStack(t)

	entries, err := s.loader.LoadGameLog(helpers.TestdataPath("game_log.json"), s.coords)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	games := make([]backtest.ReplayGame, 0, len(entries))
	for _, entry := range entries {
		games = append(games, backtest.ReplayGame{
			Context:  entry.Context,
			Line:     entry.Line,
			Injuries: entry.Injuries,
		})
	}

	report, err := s.harness.Run(context.Background(), games)
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.Equal(t, 2, report.GamesProcessed)
	assert.Empty(t, report.GamesSkipped)
	assert.Len(t, report.Weekly, 2)
	assert.Equal(t, 10000.0, report.InitialBankroll)
	assert.Greater(t, report.FinalBankroll, 0.0)

	// KC lost week 1 and won week 2, so its rating moved both games.
	moved := make(map[string]bool)
	for _, mover := range report.TopMovers {
		moved[mover.Team] = true
		assert.InDelta(t, mover.End-mover.Start, mover.Delta, 1e-9)
	}
	assert.True(t, moved["KC"])

	// Ratings drift toward observed results: KC beat LV by 14 against an
	// expected margin near 16, so both ratings stay within league bounds.
	for _, team := range s.engine.Store().Snapshot() {
		assert.GreaterOrEqual(t, team.Rating, 60.0)
		assert.LessOrEqual(t, team.Rating, 110.0)
	}

	// Week 1 closed at -6.5 so any bet carries closing line value.
	if report.BetsPlaced > 0 {
		assert.NotNil(t, report.AverageCLV)
	}

	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, backtest.WriteJSONReport(report, path))
}

// TestSlateEvaluation runs the upcoming-slate fixture through detection
// and sizing the way the edges CLI does.
func TestSlateEvaluation(t *testing.T) {
	s := buildStack(t)

	entries, err := s.loader.LoadSlate(helpers.TestdataPath("slate.json"), s.coords)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	bankroll := decimal.NewFromFloat(10000)
	for _, entry := range entries {
		assessment, err := s.detector.Assess(entry.Context, entry.Line, entry.Injuries)
		require.NoError(t, err)
		require.NotNil(t, assessment)

		assert.Contains(t, []models.EdgeOutcome{
			models.OutcomeRecommended,
			models.OutcomeNoEdge,
			models.OutcomeSuppressed,
		}, assessment.Outcome, "seeded teams never produce insufficient data")

		if !assessment.Playable() {
			continue
		}

		stake, err := s.sizer.Size(assessment, bankroll)
		require.NoError(t, err)
		assert.LessOrEqual(t, stake.BetPercentage, 5.0)
		assert.True(t, stake.BetAmount.LessThanOrEqual(decimal.NewFromInt(500)))
	}
}
