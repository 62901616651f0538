// Package injury converts roster-health reports into point-value
// deductions per team.
package injury

import "github.com/yourusername/gridiron-edge/internal/models"

// RecoveryCurve describes how a player's effectiveness returns after an
// injury: capacity starts at Immediate, climbs linearly to full over
// RecoveryDays, then carries a Lingering discount for a short window
// after nominal recovery.
type RecoveryCurve struct {
	Immediate    float64 // capacity fraction on day zero
	RecoveryDays int     // days to nominal recovery
	Lingering    float64 // capacity fraction at the start of the lingering window
}

// CurveTable maps injury codes to recovery curves. Unknown codes fall
// back to the questionable-equivalent default curve.
type CurveTable map[models.InjuryCode]RecoveryCurve

// DefaultCurveTable returns the documented recovery calibration.
func DefaultCurveTable() CurveTable {
	return CurveTable{
		models.InjuryHamstring:  {Immediate: 0.60, RecoveryDays: 21, Lingering: 0.85},
		models.InjuryAnkle:      {Immediate: 0.65, RecoveryDays: 14, Lingering: 0.90},
		models.InjuryKnee:       {Immediate: 0.50, RecoveryDays: 28, Lingering: 0.80},
		models.InjuryACL:        {Immediate: 0.00, RecoveryDays: 270, Lingering: 0.70},
		models.InjuryConcussion: {Immediate: 0.00, RecoveryDays: 10, Lingering: 0.95},
		models.InjuryShoulder:   {Immediate: 0.70, RecoveryDays: 14, Lingering: 0.85},
		models.InjuryGroin:      {Immediate: 0.65, RecoveryDays: 18, Lingering: 0.85},
		models.InjuryBack:       {Immediate: 0.60, RecoveryDays: 21, Lingering: 0.80},
		models.InjuryFoot:       {Immediate: 0.60, RecoveryDays: 28, Lingering: 0.85},
		models.InjuryRibs:       {Immediate: 0.75, RecoveryDays: 14, Lingering: 0.90},
		models.InjuryIllness:    {Immediate: 0.80, RecoveryDays: 5, Lingering: 1.00},
	}
}

// DefaultCurve is the questionable-equivalent fallback for codes the
// table does not recognize.
func DefaultCurve() RecoveryCurve {
	return RecoveryCurve{Immediate: 0.70, RecoveryDays: 14, Lingering: 0.90}
}

// PositionValueTable maps position and tier to a player's point value:
// the spread impact of losing him outright. One authoritative calibration
// is carried; alternates from earlier iterations were discarded rather
// than merged.
type PositionValueTable map[models.Position]map[models.PlayerTier]float64

// DefaultPositionValues returns the authoritative position calibration.
func DefaultPositionValues() PositionValueTable {
	return PositionValueTable{
		models.PositionQB: {models.TierElite: 12.0, models.TierStar: 8.0, models.TierStarter: 5.0, models.TierBackup: 2.0},
		models.PositionRB: {models.TierElite: 3.0, models.TierStar: 2.0, models.TierStarter: 1.0, models.TierBackup: 0.5},
		models.PositionWR: {models.TierElite: 3.5, models.TierStar: 2.5, models.TierStarter: 1.5, models.TierBackup: 0.5},
		models.PositionTE: {models.TierElite: 2.5, models.TierStar: 1.5, models.TierStarter: 1.0, models.TierBackup: 0.25},
		models.PositionOL: {models.TierElite: 2.5, models.TierStar: 1.5, models.TierStarter: 1.0, models.TierBackup: 0.5},
		models.PositionDL: {models.TierElite: 3.0, models.TierStar: 2.0, models.TierStarter: 1.0, models.TierBackup: 0.5},
		models.PositionLB: {models.TierElite: 2.5, models.TierStar: 1.5, models.TierStarter: 1.0, models.TierBackup: 0.5},
		models.PositionCB: {models.TierElite: 3.0, models.TierStar: 2.0, models.TierStarter: 1.0, models.TierBackup: 0.5},
		models.PositionS:  {models.TierElite: 2.0, models.TierStar: 1.5, models.TierStarter: 1.0, models.TierBackup: 0.25},
		models.PositionK:  {models.TierElite: 1.0, models.TierStar: 0.75, models.TierStarter: 0.5, models.TierBackup: 0.25},
	}
}

// statusMultipliers discount the computed deduction by report status.
// "out" is handled separately: it zeroes capacity outright.
var statusMultipliers = map[models.InjuryStatus]float64{
	models.StatusDoubtful:     0.75,
	models.StatusQuestionable: 0.50,
	models.StatusProbable:     0.25,
}
