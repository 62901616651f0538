// Package situation scores the situational, weather and emotional context
// of a game into capped spread and total point adjustments.
package situation

// rawPointDivisor converts accumulated raw situational points into
// spread points: 5 raw points move the spread by 1.
const rawPointDivisor = 5.0

// FactorTable holds every fixed per-condition point value used by the
// calculator. Values are looked up, never computed. The table is
// immutable after construction and injected into the calculator so test
// runs can carry alternate calibrations side by side.
type FactorTable struct {
	// Situational (raw points; divided by rawPointDivisor at the end)
	RestBigEdgeDays     int // rest advantage at or above this is a big edge
	RestBigEdgePoints   float64
	RestSmallEdgeDays   int
	RestSmallEdgePoints float64
	ShortWeekPoints     float64 // rest of 5 days or fewer

	TravelLongMiles   float64
	TravelLongPoints  float64
	TravelMidMiles    float64
	TravelMidPoints   float64
	TravelShortMiles  float64
	TravelShortPoints float64

	DivisionalPoints  float64
	RivalryPoints     float64
	RevengeFlagPoints float64

	ATSHotWins    int // ATS wins over trailing five to count as hot
	ATSHotPoints  float64
	ATSColdLosses int
	ATSColdPoints float64

	SituationalRawCap float64

	// Weather (spread/total points directly)
	WindHeavyMph      float64
	WindHeavyTotal    float64
	WindModerateMph   float64
	WindModerateTotal float64
	WindSpreadLean    float64 // small home-side lean in heavy wind
	RainTotal         float64
	SnowTotal         float64
	MixTotal          float64
	PrecipMinProb     float64 // forecasts below this probability are ignored
	FreezingTotal     float64
	BitterColdF       float64
	BitterColdTotal   float64
	ExtremeHeatF      float64
	ExtremeHeatTotal  float64
	WeatherSpreadCap  float64

	// Emotional (spread points directly)
	RevengePerMarginPoint float64
	RevengeCap            float64
	LookaheadPoints       float64
	LookaheadPerRating    float64 // extra distraction per next-opponent rating point above base
	LookaheadRatingBase   float64
	LookaheadCap          float64
	LetdownPoints         float64
	CoachChangePermanent  float64
	CoachChangeInterim    float64
	CoachChangeRally      float64
	PlayoffSeeding        float64
	PlayoffWildcard       float64
	PlayoffElimination    float64
	PlayoffClinching      float64
	StreakMinLength       int
	StreakPerGame         float64
	StreakCap             float64
	EmotionalCap          float64
}

// DefaultFactorTable returns the documented NFL calibration.
func DefaultFactorTable() FactorTable {
	return FactorTable{
		RestBigEdgeDays:     4,
		RestBigEdgePoints:   2.0,
		RestSmallEdgeDays:   2,
		RestSmallEdgePoints: 1.0,
		ShortWeekPoints:     -1.0,

		TravelLongMiles:   2000,
		TravelLongPoints:  -1.5,
		TravelMidMiles:    1000,
		TravelMidPoints:   -1.0,
		TravelShortMiles:  500,
		TravelShortPoints: -0.5,

		DivisionalPoints:  0.5,
		RivalryPoints:     0.5,
		RevengeFlagPoints: 1.0,

		ATSHotWins:    4,
		ATSHotPoints:  1.0,
		ATSColdLosses: 4,
		ATSColdPoints: -1.0,

		SituationalRawCap: 7.5,

		WindHeavyMph:      20,
		WindHeavyTotal:    -4.0,
		WindModerateMph:   12,
		WindModerateTotal: -2.0,
		WindSpreadLean:    0.25,
		RainTotal:         -2.0,
		SnowTotal:         -3.0,
		MixTotal:          -2.5,
		PrecipMinProb:     0.5,
		FreezingTotal:     -1.0,
		BitterColdF:       10,
		BitterColdTotal:   -3.0,
		ExtremeHeatF:      95,
		ExtremeHeatTotal:  -1.0,
		WeatherSpreadCap:  0.5,

		RevengePerMarginPoint: 0.1,
		RevengeCap:            1.0,
		LookaheadPoints:       -0.5,
		LookaheadPerRating:    -0.1,
		LookaheadRatingBase:   85.0,
		LookaheadCap:          1.5,
		LetdownPoints:         -0.5,
		CoachChangePermanent:  0.25,
		CoachChangeInterim:    -0.5,
		CoachChangeRally:      0.75,
		PlayoffSeeding:        0.25,
		PlayoffWildcard:       0.75,
		PlayoffElimination:    1.0,
		PlayoffClinching:      0.5,
		StreakMinLength:       3,
		StreakPerGame:         0.2,
		StreakCap:             0.6,
		EmotionalCap:          2.0,
	}
}
