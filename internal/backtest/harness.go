// Package backtest replays a historical game log through the rating and
// edge pipeline under strict causal ordering: every prediction uses only
// ratings evolved from strictly earlier games.
package backtest

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/gridiron-edge/internal/config"
	"github.com/yourusername/gridiron-edge/internal/edge"
	"github.com/yourusername/gridiron-edge/internal/logger"
	"github.com/yourusername/gridiron-edge/internal/metrics"
	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/rating"
	"github.com/yourusername/gridiron-edge/internal/sizing"
)

// ReplayGame bundles everything the harness needs for one historical
// game: the completed game with context, the line quoted before kickoff,
// and the injury report as of that week.
type ReplayGame struct {
	Context  *models.GameContext
	Line     *models.MarketLine
	Injuries []models.InjuryRecord
}

// Harness drives the PREDICT, OBSERVE, UPDATE cycle over an ordered game
// log and aggregates the run into a Report.
type Harness struct {
	cfg      config.BacktestConfig
	engine   *rating.Engine
	detector *edge.Detector
	sizer    *sizing.Sizer
	log      *logger.ReplayLogger
}

// NewHarness creates a backtest harness. All collaborators are required.
func NewHarness(cfg config.BacktestConfig, engine *rating.Engine, detector *edge.Detector, sizer *sizing.Sizer, baseLogger *logrus.Logger) (*Harness, error) {
	if engine == nil {
		return nil, fmt.Errorf("rating engine is required")
	}
	if detector == nil {
		return nil, fmt.Errorf("edge detector is required")
	}
	if sizer == nil {
		return nil, fmt.Errorf("bet sizer is required")
	}
	if cfg.InitialBankroll <= 0 {
		return nil, fmt.Errorf("initial bankroll must be positive, got %f", cfg.InitialBankroll)
	}
	if baseLogger == nil {
		baseLogger = logrus.New()
	}

	return &Harness{
		cfg:      cfg,
		engine:   engine,
		detector: detector,
		sizer:    sizer,
		log:      logger.NewReplayLogger(baseLogger),
	}, nil
}

// Run replays the game log chronologically. Cancellation is checked
// between games so a long season replay stops after the current game,
// returning the partial report alongside the context error.
func (h *Harness) Run(ctx context.Context, games []ReplayGame) (*Report, error) {
	started := time.Now()

	ordered := make([]ReplayGame, len(games))
	copy(ordered, games)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Context.Game.Kickoff.Before(ordered[j].Context.Game.Kickoff)
	})

	state := NewReplayState(h.cfg.InitialBankroll, ratingsByTeam(h.engine.Store().Snapshot()))

	for _, replay := range ordered {
		if err := ctx.Err(); err != nil {
			report := h.buildReport(state, started)
			return report, fmt.Errorf("replay cancelled after %d games: %w", state.Processed, err)
		}
		h.processGame(replay, state)
	}

	report := h.buildReport(state, started)
	metrics.ReplayDuration.Observe(time.Since(started).Seconds())
	return report, nil
}

// processGame runs one PREDICT, OBSERVE, UPDATE iteration. Invalid games
// are skipped and counted; they never touch rating state.
func (h *Harness) processGame(replay ReplayGame, state *ReplayState) {
	game := replay.Context.Game
	matchup := fmt.Sprintf("%s@%s", game.AwayTeam, game.HomeTeam)

	if !game.Completed() {
		h.skip(state, game, matchup, SkipIncomplete)
		return
	}
	if h.engine.Applied(game.ID) {
		h.skip(state, game, matchup, SkipDuplicate)
		return
	}
	if !h.knownTeams(game) {
		h.skip(state, game, matchup, SkipUnknownTeam)
		return
	}
	if !state.InOrder(game.HomeTeam, game.AwayTeam, game.Kickoff) {
		h.skip(state, game, matchup, SkipOutOfOrder)
		return
	}

	// PREDICT, strictly from pre-game ratings.
	assessment, err := h.detector.Assess(replay.Context, replay.Line, replay.Injuries)
	if err != nil {
		h.skip(state, game, matchup, SkipApplyFailure)
		return
	}

	// OBSERVE against the real final score.
	actual, _ := game.ActualMargin()
	observation := Observation{
		Season:          game.Season,
		Week:            game.Week,
		PredictedMargin: assessment.CorrectedMargin,
		ActualMargin:    actual,
		WinnerPush:      actual == 0,
		WinnerCorrect:   actual != 0 && sameSign(assessment.CorrectedMargin, actual),
	}
	state.Observations = append(state.Observations, observation)

	if assessment.Playable() {
		h.settleBet(replay, assessment, actual, state)
	}

	// UPDATE before any later game touching either team is predicted.
	if err := h.engine.ApplyResult(game); err != nil {
		h.skip(state, game, matchup, SkipApplyFailure)
		return
	}
	state.MarkApplied(game.HomeTeam, game.AwayTeam, game.Kickoff)

	state.Processed++
	metrics.ReplayGamesProcessedTotal.Inc()
	bankroll, _ := state.CurrentBankroll.Float64()
	metrics.ReplayBankroll.Set(bankroll)
}

// settleBet sizes the recommended play from the current bankroll, grades
// it against the closing score and spread, and applies the profit or
// loss. A push returns the stake.
func (h *Harness) settleBet(replay ReplayGame, assessment *models.EdgeAssessment, actualMargin float64, state *ReplayState) {
	rec, err := h.sizer.Size(assessment, state.CurrentBankroll)
	if err != nil || rec.IsPass() {
		return
	}

	game := replay.Context.Game
	spread := replay.Line.Spread
	coverMargin := actualMargin + spread // home covers when positive

	bet := SettledBet{
		Season: game.Season,
		Week:   game.Week,
		Stars:  rec.Stars,
		Stake:  rec.BetAmount,
		CLV:    closingLineValue(replay.Line, assessment.RecommendedSide),
	}

	switch {
	case coverMargin == 0:
		bet.Push = true
	case assessment.RecommendedSide == models.SideHome:
		bet.Won = coverMargin > 0
	case assessment.RecommendedSide == models.SideAway:
		bet.Won = coverMargin < 0
	}

	switch {
	case bet.Push:
		bet.PnL = decimal.Zero
	case bet.Won:
		payout := models.DecimalOdds(replay.Line.SpreadPrice) - 1.0
		bet.PnL = rec.BetAmount.Mul(decimal.NewFromFloat(payout)).Round(2)
	default:
		bet.PnL = rec.BetAmount.Neg()
	}

	state.Settle(bet)
}

// closingLineValue measures how far the line moved in the bet's favor
// between placement and close, in points. Nil when no closing line is
// recorded.
func closingLineValue(line *models.MarketLine, side models.BetSide) *float64 {
	if line.ClosingSpread == nil {
		return nil
	}
	// For a home bet, the spread dropping toward the home side means the
	// placed number beat the close.
	move := line.Spread - *line.ClosingSpread
	if side == models.SideAway {
		move = -move
	}
	return &move
}

func (h *Harness) knownTeams(game *models.Game) bool {
	store := h.engine.Store()
	if _, err := store.Rating(game.HomeTeam); err != nil {
		return false
	}
	if _, err := store.Rating(game.AwayTeam); err != nil {
		return false
	}
	return true
}

func (h *Harness) skip(state *ReplayState, game *models.Game, matchup, reason string) {
	state.Skip(reason)
	metrics.ReplayGamesSkippedTotal.WithLabelValues(reason).Inc()
	h.log.LogGameSkipped(game.ID.String(), matchup, reason)
}

func ratingsByTeam(snapshot []models.Team) map[string]float64 {
	ratings := make(map[string]float64, len(snapshot))
	for _, team := range snapshot {
		ratings[team.Abbreviation] = team.Rating
	}
	return ratings
}

func sameSign(a, b float64) bool {
	return (a > 0 && b > 0) || (a < 0 && b < 0)
}
