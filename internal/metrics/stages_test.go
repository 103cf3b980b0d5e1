package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yourname/sleepdash/internal"
)

func session(durationHours float64, stages ...internal.StageSegment) internal.SleepSession {
	start := time.Date(2024, 1, 1, 22, 0, 0, 0, time.UTC)
	ms := int64(durationHours * 60 * 60 * 1000)
	return internal.SleepSession{
		ID:        "s1",
		StartTime: start,
		EndTime:   start.Add(time.Duration(ms) * time.Millisecond),
		Duration:  ms,
		Stages:    stages,
	}
}

func seg(typ int, name string, hours float64) internal.StageSegment {
	return internal.StageSegment{
		Type:     typ,
		TypeName: name,
		Duration: int64(hours * 60 * 60 * 1000),
	}
}

func TestStageBreakdownDetailed(t *testing.T) {
	s := session(8,
		seg(internal.StageAwake, "Awake", 0.5),
		seg(internal.StageLight, "Light sleep", 4),
		seg(internal.StageDeep, "Deep sleep", 2),
		seg(internal.StageREM, "REM", 1.5),
		seg(internal.StageUnspecified, "Sleep", 1),
	)
	series := StageBreakdown([]internal.SleepSession{s})

	assert.Equal(t, []float64{0.5}, series.Awake)
	assert.Equal(t, []float64{4}, series.Light)
	assert.Equal(t, []float64{2}, series.Deep)
	assert.Equal(t, []float64{1.5}, series.REM)
	// A detailed stage anywhere in the session suppresses the unspecified
	// bucket even though an unspecified segment exists.
	assert.Equal(t, []float64{0}, series.Unspecified)
}

func TestStageBreakdownUnspecifiedOnly(t *testing.T) {
	s := session(8, seg(internal.StageUnspecified, "sleep", 8))
	series := StageBreakdown([]internal.SleepSession{s})

	assert.Equal(t, []float64{0}, series.Light)
	assert.Equal(t, []float64{0}, series.Deep)
	assert.Equal(t, []float64{0}, series.REM)
	assert.Equal(t, []float64{8}, series.Unspecified)
}

func TestStageBreakdownMatchesByName(t *testing.T) {
	// Non-canonical type codes still land in the right bucket via the
	// typeName keyword.
	s := session(6,
		seg(0, "light sleep", 3),
		seg(0, "deep sleep", 2),
	)
	series := StageBreakdown([]internal.SleepSession{s})
	assert.Equal(t, []float64{3}, series.Light)
	assert.Equal(t, []float64{2}, series.Deep)
	assert.Equal(t, []float64{0}, series.Unspecified)
}

func TestStageBreakdownEmpty(t *testing.T) {
	series := StageBreakdown(nil)
	assert.Empty(t, series.Awake)
	assert.Empty(t, series.Unspecified)
}

func TestCalculateSessionStats(t *testing.T) {
	first := session(8,
		seg(internal.StageDeep, "Deep sleep", 2),
		seg(internal.StageREM, "REM", 2),
	)
	second := session(6,
		seg(internal.StageDeep, "Deep sleep", 1.5),
	)
	stats := CalculateSessionStats([]internal.SleepSession{first, second})

	assert.Equal(t, 7.0, stats.AvgDuration)
	// Deep: (25% + 25%) / 2, REM: (25% + 0%) / 2.
	assert.Equal(t, 25.0, stats.AvgDeep)
	assert.Equal(t, 12.5, stats.AvgREM)
}

func TestCalculateSessionStatsZeroDuration(t *testing.T) {
	zero := internal.SleepSession{ID: "z"}
	stats := CalculateSessionStats([]internal.SleepSession{zero, session(8, seg(internal.StageDeep, "Deep sleep", 4))})

	assert.Equal(t, 4.0, stats.AvgDuration)
	// The zero-duration session contributes nothing to the percentages.
	assert.Equal(t, 25.0, stats.AvgDeep)
}

func TestCalculateSessionStatsEmpty(t *testing.T) {
	assert.Equal(t, SessionStats{}, CalculateSessionStats(nil))
}
