package backtest

import (
	"time"

	"github.com/shopspring/decimal"
)

// Skip reasons counted during a replay. One bad record skips one game;
// it never aborts the season.
const (
	SkipUnknownTeam  = "unknown_team"
	SkipOutOfOrder   = "out_of_order"
	SkipIncomplete   = "incomplete"
	SkipDuplicate    = "duplicate"
	SkipApplyFailure = "apply_failure"
)

// ReplayState carries the mutable state of one replay run: the evolving
// bankroll, the per-team ordering watermark, and the raw observations
// the reporter aggregates afterwards.
type ReplayState struct {
	CurrentBankroll decimal.Decimal
	PeakBankroll    decimal.Decimal

	// lastApplied is the kickoff time of the most recent game applied
	// per team. A game kicking off before either side's watermark is an
	// ordering violation.
	lastApplied map[string]time.Time

	InitialRatings map[string]float64

	Processed int
	Skipped   map[string]int

	Observations []Observation
	SettledBets  []SettledBet

	// maxDrawdown is the worst peak-to-trough fraction seen at any
	// point during the run, even if the bankroll later recovers.
	maxDrawdown float64
}

// Observation is one prediction scored against a real final margin.
type Observation struct {
	Season          int
	Week            int
	PredictedMargin float64
	ActualMargin    float64
	WinnerCorrect   bool
	WinnerPush      bool
}

// SettledBet is one placed recommendation scored against the spread.
type SettledBet struct {
	Season int
	Week   int
	Stars  float64
	Stake  decimal.Decimal
	Won    bool
	Push   bool
	PnL    decimal.Decimal
	CLV    *float64
}

// NewReplayState initializes replay state from a starting bankroll and
// the pre-replay rating snapshot.
func NewReplayState(initialBankroll float64, initialRatings map[string]float64) *ReplayState {
	bankroll := decimal.NewFromFloat(initialBankroll)
	return &ReplayState{
		CurrentBankroll: bankroll,
		PeakBankroll:    bankroll,
		lastApplied:     make(map[string]time.Time),
		InitialRatings:  initialRatings,
		Skipped:         make(map[string]int),
	}
}

// InOrder reports whether a game at the given kickoff respects both
// teams' watermarks.
func (s *ReplayState) InOrder(home, away string, kickoff time.Time) bool {
	if last, ok := s.lastApplied[home]; ok && kickoff.Before(last) {
		return false
	}
	if last, ok := s.lastApplied[away]; ok && kickoff.Before(last) {
		return false
	}
	return true
}

// MarkApplied advances both teams' watermarks after a successful update.
func (s *ReplayState) MarkApplied(home, away string, kickoff time.Time) {
	s.lastApplied[home] = kickoff
	s.lastApplied[away] = kickoff
}

// Skip counts a skipped game under a reason.
func (s *ReplayState) Skip(reason string) {
	s.Skipped[reason]++
}

// Settle applies a settled bet's profit or loss to the bankroll.
func (s *ReplayState) Settle(bet SettledBet) {
	s.SettledBets = append(s.SettledBets, bet)
	s.CurrentBankroll = s.CurrentBankroll.Add(bet.PnL)
	if s.CurrentBankroll.GreaterThan(s.PeakBankroll) {
		s.PeakBankroll = s.CurrentBankroll
	}
	if dd := s.Drawdown(); dd > s.maxDrawdown {
		s.maxDrawdown = dd
	}
}

// Drawdown returns the current peak-to-trough drawdown fraction.
func (s *ReplayState) Drawdown() float64 {
	if s.PeakBankroll.IsZero() {
		return 0
	}
	dd, _ := s.PeakBankroll.Sub(s.CurrentBankroll).Div(s.PeakBankroll).Float64()
	if dd < 0 {
		return 0
	}
	return dd
}

// MaxDrawdown returns the worst drawdown fraction seen during the run.
// A trough that later recovers still counts.
func (s *ReplayState) MaxDrawdown() float64 {
	return s.maxDrawdown
}
