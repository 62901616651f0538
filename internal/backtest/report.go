package backtest

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// topMoverCount bounds the ranked rating-movement list.
const topMoverCount = 5

// WeeklyStats aggregates one season-week of the replay.
type WeeklyStats struct {
	Season         int     `json:"season"`
	Week           int     `json:"week"`
	Games          int     `json:"games"`
	WinnerAccuracy float64 `json:"winner_accuracy"`
	ATSWins        int     `json:"ats_wins"`
	ATSLosses      int     `json:"ats_losses"`
	ATSPushes      int     `json:"ats_pushes"`
	MeanAbsError   float64 `json:"mean_abs_error"`
}

// RatingMove is one team's rating change over the whole run.
type RatingMove struct {
	Team  string  `json:"team"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Delta float64 `json:"delta"`
}

// Report is the season-aggregate output of a replay run.
type Report struct {
	GeneratedAt      time.Time      `json:"generated_at"`
	Duration         time.Duration  `json:"duration_ns"`
	GamesProcessed   int            `json:"games_processed"`
	GamesSkipped     map[string]int `json:"games_skipped"`
	WinnerAccuracy   float64        `json:"winner_accuracy"`
	ATSWins          int            `json:"ats_wins"`
	ATSLosses        int            `json:"ats_losses"`
	ATSPushes        int            `json:"ats_pushes"`
	ATSWinRate       float64        `json:"ats_win_rate"`
	MeanAbsError     float64        `json:"mean_abs_error"`
	MedianAbsError   float64        `json:"median_abs_error"`
	BetsPlaced       int            `json:"bets_placed"`
	AverageCLV       *float64       `json:"average_clv,omitempty"`
	InitialBankroll  float64        `json:"initial_bankroll"`
	FinalBankroll    float64        `json:"final_bankroll"`
	ReturnOnBankroll float64        `json:"return_on_bankroll"`
	MaxDrawdown      float64        `json:"max_drawdown"`
	Weekly           []WeeklyStats  `json:"weekly"`
	TopMovers        []RatingMove   `json:"top_movers"`
}

// buildReport aggregates the replay state into season and weekly stats
// and the ranked rating-movement list.
func (h *Harness) buildReport(state *ReplayState, started time.Time) *Report {
	report := &Report{
		GeneratedAt:     time.Now().UTC(),
		Duration:        time.Since(started),
		GamesProcessed:  state.Processed,
		GamesSkipped:    state.Skipped,
		InitialBankroll: h.cfg.InitialBankroll,
	}

	report.FinalBankroll, _ = state.CurrentBankroll.Float64()
	if h.cfg.InitialBankroll > 0 {
		report.ReturnOnBankroll = (report.FinalBankroll - h.cfg.InitialBankroll) / h.cfg.InitialBankroll
	}
	report.MaxDrawdown = state.MaxDrawdown()

	report.WinnerAccuracy, report.MeanAbsError, report.MedianAbsError = scoreObservations(state.Observations)
	report.BetsPlaced = len(state.SettledBets)
	report.ATSWins, report.ATSLosses, report.ATSPushes = tallyBets(state.SettledBets)
	if decided := report.ATSWins + report.ATSLosses; decided > 0 {
		report.ATSWinRate = float64(report.ATSWins) / float64(decided)
	}
	report.AverageCLV = averageCLV(state.SettledBets)
	report.Weekly = h.weeklyStats(state)
	report.TopMovers = topMovers(state.InitialRatings, ratingsByTeam(h.engine.Store().Snapshot()))

	return report
}

func scoreObservations(observations []Observation) (accuracy, meanErr, medianErr float64) {
	if len(observations) == 0 {
		return 0, 0, 0
	}

	correct, decided := 0, 0
	errors := make([]float64, 0, len(observations))
	for _, obs := range observations {
		errors = append(errors, math.Abs(obs.PredictedMargin-obs.ActualMargin))
		if obs.WinnerPush {
			continue
		}
		decided++
		if obs.WinnerCorrect {
			correct++
		}
	}

	if decided > 0 {
		accuracy = float64(correct) / float64(decided)
	}

	sum := 0.0
	for _, e := range errors {
		sum += e
	}
	meanErr = sum / float64(len(errors))

	sort.Float64s(errors)
	mid := len(errors) / 2
	if len(errors)%2 == 1 {
		medianErr = errors[mid]
	} else {
		medianErr = (errors[mid-1] + errors[mid]) / 2.0
	}
	return accuracy, meanErr, medianErr
}

func tallyBets(bets []SettledBet) (wins, losses, pushes int) {
	for _, bet := range bets {
		switch {
		case bet.Push:
			pushes++
		case bet.Won:
			wins++
		default:
			losses++
		}
	}
	return wins, losses, pushes
}

func averageCLV(bets []SettledBet) *float64 {
	sum, n := 0.0, 0
	for _, bet := range bets {
		if bet.CLV == nil {
			continue
		}
		sum += *bet.CLV
		n++
	}
	if n == 0 {
		return nil
	}
	avg := sum / float64(n)
	return &avg
}

// weeklyStats groups observations and bets by season-week, emitting a
// week-complete log line per group for live replay monitoring.
func (h *Harness) weeklyStats(state *ReplayState) []WeeklyStats {
	type weekKey struct{ season, week int }

	byWeek := make(map[weekKey]*WeeklyStats)
	errSums := make(map[weekKey]float64)
	correct := make(map[weekKey]int)
	decided := make(map[weekKey]int)

	for _, obs := range state.Observations {
		key := weekKey{obs.Season, obs.Week}
		stats, ok := byWeek[key]
		if !ok {
			stats = &WeeklyStats{Season: obs.Season, Week: obs.Week}
			byWeek[key] = stats
		}
		stats.Games++
		errSums[key] += math.Abs(obs.PredictedMargin - obs.ActualMargin)
		if !obs.WinnerPush {
			decided[key]++
			if obs.WinnerCorrect {
				correct[key]++
			}
		}
	}

	for _, bet := range state.SettledBets {
		key := weekKey{bet.Season, bet.Week}
		stats, ok := byWeek[key]
		if !ok {
			continue
		}
		switch {
		case bet.Push:
			stats.ATSPushes++
		case bet.Won:
			stats.ATSWins++
		default:
			stats.ATSLosses++
		}
	}

	weeks := make([]WeeklyStats, 0, len(byWeek))
	for key, stats := range byWeek {
		if stats.Games > 0 {
			stats.MeanAbsError = errSums[key] / float64(stats.Games)
		}
		if decided[key] > 0 {
			stats.WinnerAccuracy = float64(correct[key]) / float64(decided[key])
		}
		weeks = append(weeks, *stats)
	}

	sort.Slice(weeks, func(i, j int) bool {
		if weeks[i].Season != weeks[j].Season {
			return weeks[i].Season < weeks[j].Season
		}
		return weeks[i].Week < weeks[j].Week
	})

	for _, week := range weeks {
		atsRate := 0.0
		if n := week.ATSWins + week.ATSLosses; n > 0 {
			atsRate = float64(week.ATSWins) / float64(n)
		}
		h.log.LogWeekComplete(week.Season, week.Week, week.Games, week.WinnerAccuracy, atsRate)
	}

	return weeks
}

func topMovers(initial, final map[string]float64) []RatingMove {
	moves := make([]RatingMove, 0, len(final))
	for team, end := range final {
		start, ok := initial[team]
		if !ok {
			start = end
		}
		moves = append(moves, RatingMove{Team: team, Start: start, End: end, Delta: end - start})
	}

	sort.Slice(moves, func(i, j int) bool {
		if di, dj := math.Abs(moves[i].Delta), math.Abs(moves[j].Delta); di != dj {
			return di > dj
		}
		return moves[i].Team < moves[j].Team
	})

	if len(moves) > topMoverCount {
		moves = moves[:topMoverCount]
	}
	return moves
}

// ConsoleReport formats the season aggregates for terminal output.
func ConsoleReport(report *Report) string {
	var builder strings.Builder
	builder.WriteString("Backtest Report\n")
	builder.WriteString("================\n")
	builder.WriteString(fmt.Sprintf("Games Processed: %d\n", report.GamesProcessed))
	for reason, count := range report.GamesSkipped {
		builder.WriteString(fmt.Sprintf("Skipped (%s): %d\n", reason, count))
	}
	builder.WriteString(fmt.Sprintf("Winner Accuracy: %.2f%%\n", report.WinnerAccuracy*100))
	builder.WriteString(fmt.Sprintf("ATS Record: %d-%d-%d (%.2f%%)\n", report.ATSWins, report.ATSLosses, report.ATSPushes, report.ATSWinRate*100))
	builder.WriteString(fmt.Sprintf("Mean Abs Error: %.2f pts\n", report.MeanAbsError))
	builder.WriteString(fmt.Sprintf("Median Abs Error: %.2f pts\n", report.MedianAbsError))
	if report.AverageCLV != nil {
		builder.WriteString(fmt.Sprintf("Average CLV: %+.2f pts\n", *report.AverageCLV))
	}
	builder.WriteString(fmt.Sprintf("Bankroll: %.2f -> %.2f (%.2f%%)\n", report.InitialBankroll, report.FinalBankroll, report.ReturnOnBankroll*100))
	builder.WriteString(fmt.Sprintf("Max Drawdown: %.2f%%\n", report.MaxDrawdown*100))
	builder.WriteString("Top Rating Movers:\n")
	for _, move := range report.TopMovers {
		builder.WriteString(fmt.Sprintf("  %-4s %.1f -> %.1f (%+.1f)\n", move.Team, move.Start, move.End, move.Delta))
	}
	return builder.String()
}

// WriteJSONReport writes the report to disk, creating parent directories
// as needed.
func WriteJSONReport(report *Report, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, data, 0o644)
}
