package injury

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/gridiron-edge/internal/models"
)

func newTestValuator(t *testing.T) *Valuator {
	t.Helper()
	v, err := NewValuator(DefaultCurveTable(), DefaultPositionValues(), 6.0, 14, nil)
	require.NoError(t, err)
	return v
}

func TestNewValuatorRejectsEmptyTables(t *testing.T) {
	_, err := NewValuator(nil, DefaultPositionValues(), 6.0, 14, nil)
	assert.Error(t, err)

	_, err = NewValuator(DefaultCurveTable(), nil, 6.0, 14, nil)
	assert.Error(t, err)

	_, err = NewValuator(DefaultCurveTable(), DefaultPositionValues(), 0, 14, nil)
	assert.Error(t, err)
}

func TestOutStatusShortCircuitsCurve(t *testing.T) {
	v := newTestValuator(t)

	// Starter QB is valued at 5.0; out means the full value is deducted
	// no matter how long ago the injury happened.
	for _, days := range []int{0, 7, 100} {
		impact := v.ValuePlayer(models.InjuryRecord{
			Team: "KC", Player: "QB1",
			Position: models.PositionQB, Tier: models.TierStarter,
			Status: models.StatusOut, Code: models.InjuryAnkle,
			DaysSinceInjury: days,
		})
		assert.Zero(t, impact.Capacity)
		assert.InDelta(t, 5.0, impact.Deduction, 1e-9)
	}
}

func TestRecoveryCurveMidpoint(t *testing.T) {
	v := newTestValuator(t)

	// Shoulder curve is (0.70, 14d, 0.85): at day 7 capacity is
	// 0.70 + 0.30*(7/14) = 0.85.
	impact := v.ValuePlayer(models.InjuryRecord{
		Team: "KC", Player: "WR1",
		Position: models.PositionWR, Tier: models.TierElite,
		Status: models.StatusProbable, Code: models.InjuryShoulder,
		DaysSinceInjury: 7,
	})
	assert.InDelta(t, 0.85, impact.Capacity, 1e-9)
}

func TestLingeringWindowInterpolation(t *testing.T) {
	v := newTestValuator(t)

	// Shoulder recovery is 14 days; 7 days past that, halfway through
	// the lingering window, capacity is 0.85 + 0.15*(7/14) = 0.925.
	impact := v.ValuePlayer(models.InjuryRecord{
		Team: "KC", Player: "WR1",
		Position: models.PositionWR, Tier: models.TierElite,
		Status: models.StatusProbable, Code: models.InjuryShoulder,
		DaysSinceInjury: 21,
	})
	assert.InDelta(t, 0.925, impact.Capacity, 1e-9)
}

func TestFullyRecoveredNoDeduction(t *testing.T) {
	v := newTestValuator(t)

	impact := v.ValuePlayer(models.InjuryRecord{
		Team: "KC", Player: "WR1",
		Position: models.PositionWR, Tier: models.TierElite,
		Status: models.StatusProbable, Code: models.InjuryShoulder,
		DaysSinceInjury: 60,
	})
	assert.Equal(t, 1.0, impact.Capacity)
	assert.Zero(t, impact.Deduction)
}

func TestUnknownCodeFallsBackToDefaultCurve(t *testing.T) {
	v := newTestValuator(t)

	impact := v.ValuePlayer(models.InjuryRecord{
		Team: "KC", Player: "RB1",
		Position: models.PositionRB, Tier: models.TierStar,
		Status: models.StatusQuestionable, Code: models.InjuryCode("turf_toe"),
		DaysSinceInjury: 0,
	})
	assert.True(t, impact.DefaultCurve)
	// Default curve starts at 0.70 capacity.
	assert.InDelta(t, 0.70, impact.Capacity, 1e-9)
}

func TestUnknownCodeRecordsDataQualityWarning(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)

	v, err := NewValuator(DefaultCurveTable(), DefaultPositionValues(), 6.0, 14, log)
	require.NoError(t, err)

	v.ValuePlayer(models.InjuryRecord{
		Team: "KC", Player: "RB1",
		Position: models.PositionRB, Tier: models.TierStar,
		Status: models.StatusQuestionable, Code: models.InjuryCode("turf_toe"),
	})

	assert.Contains(t, buf.String(), "data_quality")
	assert.Contains(t, buf.String(), "turf_toe")

	buf.Reset()
	v.ValuePlayer(models.InjuryRecord{
		Team: "KC", Player: "QB1",
		Position: models.PositionQB, Tier: models.TierStarter,
		Status: models.StatusQuestionable, Code: models.InjuryKnee,
	})
	assert.NotContains(t, buf.String(), "data_quality", "known codes are clean")
}

func TestStatusDiscountsDeduction(t *testing.T) {
	v := newTestValuator(t)

	record := models.InjuryRecord{
		Team: "KC", Player: "QB1",
		Position: models.PositionQB, Tier: models.TierElite,
		Code: models.InjuryKnee, DaysSinceInjury: 0,
	}

	record.Status = models.StatusDoubtful
	doubtful := v.ValuePlayer(record).Deduction

	record.Status = models.StatusQuestionable
	questionable := v.ValuePlayer(record).Deduction

	record.Status = models.StatusProbable
	probable := v.ValuePlayer(record).Deduction

	assert.Greater(t, doubtful, questionable)
	assert.Greater(t, questionable, probable)
}

func TestTeamDeductionCapped(t *testing.T) {
	v := newTestValuator(t)

	records := []models.InjuryRecord{
		{Team: "KC", Player: "QB1", Position: models.PositionQB, Tier: models.TierElite, Status: models.StatusOut, Code: models.InjuryKnee},
		{Team: "KC", Player: "WR1", Position: models.PositionWR, Tier: models.TierElite, Status: models.StatusOut, Code: models.InjuryAnkle},
		{Team: "KC", Player: "CB1", Position: models.PositionCB, Tier: models.TierStar, Status: models.StatusOut, Code: models.InjuryHamstring},
	}

	impact := v.TeamDeduction("KC", records)
	assert.Greater(t, impact.Uncapped, 6.0)
	assert.Equal(t, 6.0, impact.Total)
	assert.Len(t, impact.PerPlayer, 3)
}

func TestTeamDeductionFiltersOtherTeams(t *testing.T) {
	v := newTestValuator(t)

	records := []models.InjuryRecord{
		{Team: "KC", Player: "QB1", Position: models.PositionQB, Tier: models.TierStarter, Status: models.StatusOut, Code: models.InjuryKnee},
		{Team: "LV", Player: "QB2", Position: models.PositionQB, Tier: models.TierStarter, Status: models.StatusOut, Code: models.InjuryKnee},
	}

	impact := v.TeamDeduction("KC", records)
	assert.Len(t, impact.PerPlayer, 1)
	assert.InDelta(t, 5.0, impact.Total, 1e-9)
}

func TestUnknownPositionValuesAtZero(t *testing.T) {
	v := newTestValuator(t)

	impact := v.ValuePlayer(models.InjuryRecord{
		Team: "KC", Player: "P1",
		Position: models.Position("P"), Tier: models.TierStarter,
		Status: models.StatusOut, Code: models.InjuryAnkle,
	})
	assert.Zero(t, impact.Deduction)
}
