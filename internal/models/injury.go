package models

// Position is a roster position group used for point valuation.
type Position string

const (
	PositionQB Position = "QB"
	PositionRB Position = "RB"
	PositionWR Position = "WR"
	PositionTE Position = "TE"
	PositionOL Position = "OL"
	PositionDL Position = "DL"
	PositionLB Position = "LB"
	PositionCB Position = "CB"
	PositionS  Position = "S"
	PositionK  Position = "K"
)

// PlayerTier ranks a player's importance within his position group.
type PlayerTier string

const (
	TierElite   PlayerTier = "elite"
	TierStar    PlayerTier = "star"
	TierStarter PlayerTier = "starter"
	TierBackup  PlayerTier = "backup"
)

// InjuryStatus is the official report designation.
type InjuryStatus string

const (
	StatusOut          InjuryStatus = "out"
	StatusDoubtful     InjuryStatus = "doubtful"
	StatusQuestionable InjuryStatus = "questionable"
	StatusProbable     InjuryStatus = "probable"
)

// InjuryCode is a closed enum of injury types produced by the upstream
// report classifier. The valuator never sees free text.
type InjuryCode string

const (
	InjuryHamstring  InjuryCode = "hamstring"
	InjuryAnkle      InjuryCode = "ankle"
	InjuryKnee       InjuryCode = "knee"
	InjuryACL        InjuryCode = "acl"
	InjuryConcussion InjuryCode = "concussion"
	InjuryShoulder   InjuryCode = "shoulder"
	InjuryGroin      InjuryCode = "groin"
	InjuryBack       InjuryCode = "back"
	InjuryFoot       InjuryCode = "foot"
	InjuryRibs       InjuryCode = "ribs"
	InjuryIllness    InjuryCode = "illness"
	InjuryUnknown    InjuryCode = "unknown"
)

// InjuryRecord is one player's entry on a team injury report.
// Player is informational only; valuation keys off position, tier,
// status and code.
type InjuryRecord struct {
	Team            string       `db:"team" json:"team" validate:"required"`
	Player          string       `db:"player" json:"player"`
	Position        Position     `db:"position" json:"position" validate:"required"`
	Tier            PlayerTier   `db:"tier" json:"tier" validate:"required"`
	Status          InjuryStatus `db:"status" json:"status" validate:"required"`
	Code            InjuryCode   `db:"code" json:"code" validate:"required"`
	DaysSinceInjury int          `db:"days_since_injury" json:"days_since_injury" validate:"gte=0"`
}

// IsOut reports whether the player is confirmed inactive, which
// short-circuits the recovery curve.
func (r *InjuryRecord) IsOut() bool {
	return r.Status == StatusOut
}
