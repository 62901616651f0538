// Package logger provides edge-pipeline specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// EdgeLogger provides dedicated logging for edge detection events.
type EdgeLogger struct {
	*logrus.Entry
}

// NewEdgeLogger creates a new edge logger.
func NewEdgeLogger(baseLogger *logrus.Logger) *EdgeLogger {
	return &EdgeLogger{
		Entry: baseLogger.WithField("component", "edge"),
	}
}

// LogAssessment logs the outcome of one edge evaluation.
func (el *EdgeLogger) LogAssessment(matchup string, outcome string, predictedMargin, marketLine, edgePoints float64, classification string) {
	el.WithFields(logrus.Fields{
		"matchup":          matchup,
		"outcome":          outcome,
		"predicted_margin": predictedMargin,
		"market_line":      marketLine,
		"edge_points":      edgePoints,
		"classification":   classification,
	}).Info("Edge assessment completed")
}

// LogSuppression logs a market-respect suppression. These are deliberate
// non-recommendations and are logged at warn so they stand out in review.
func (el *EdgeLogger) LogSuppression(matchup string, edgePoints, ceiling float64) {
	el.WithFields(logrus.Fields{
		"matchup":     matchup,
		"edge_points": edgePoints,
		"ceiling":     ceiling,
		"event_type":  "market_respect_suppression",
	}).Warn("Edge exceeds market-respect ceiling, play suppressed")
}

// LogDataQualityWarning logs a degraded-input event, such as an
// unrecognized injury code or missing weather for an outdoor venue.
func (el *EdgeLogger) LogDataQualityWarning(subject string, detail string, fallback string) {
	el.WithFields(logrus.Fields{
		"subject":    subject,
		"detail":     detail,
		"fallback":   fallback,
		"event_type": "data_quality",
	}).Warn("Degraded input, falling back to default")
}

// ReplayLogger provides dedicated logging for backtest replay events.
type ReplayLogger struct {
	*logrus.Entry
}

// NewReplayLogger creates a new replay logger.
func NewReplayLogger(baseLogger *logrus.Logger) *ReplayLogger {
	return &ReplayLogger{
		Entry: baseLogger.WithField("component", "replay"),
	}
}

// LogGameSkipped logs a game excluded from the replay.
func (rl *ReplayLogger) LogGameSkipped(gameID string, matchup string, reason string) {
	rl.WithFields(logrus.Fields{
		"game_id":    gameID,
		"matchup":    matchup,
		"reason":     reason,
		"event_type": "game_skipped",
	}).Warn("Game skipped during replay")
}

// LogWeekComplete logs aggregate stats after a replay week finishes.
func (rl *ReplayLogger) LogWeekComplete(season, week, gamesProcessed int, winnerAccuracy, atsWinRate float64) {
	rl.WithFields(logrus.Fields{
		"season":          season,
		"week":            week,
		"games_processed": gamesProcessed,
		"winner_accuracy": winnerAccuracy,
		"ats_win_rate":    atsWinRate,
	}).Info("Replay week completed")
}
