package metrics

import (
	"math"
	"strings"

	"github.com/yourname/sleepdash/internal"
)

// StageSeries holds per-session stage hours for the stacked trend chart,
// one element per input session, in input order.
type StageSeries struct {
	Awake       []float64 `json:"awake"`
	Light       []float64 `json:"light"`
	Deep        []float64 `json:"deep"`
	REM         []float64 `json:"rem"`
	Unspecified []float64 `json:"unspecified"`
}

// StageBreakdown sums per-canonical-type stage durations for each session.
// A session contributes to the Unspecified bucket only when it has no
// stage classified Light, Deep, or REM; one detailed stage suppresses the
// bucket for that session entirely. Overlapping or non-contiguous segments
// are summed as reported.
func StageBreakdown(sessions []internal.SleepSession) StageSeries {
	n := len(sessions)
	series := StageSeries{
		Awake:       make([]float64, n),
		Light:       make([]float64, n),
		Deep:        make([]float64, n),
		REM:         make([]float64, n),
		Unspecified: make([]float64, n),
	}
	for i, s := range sessions {
		series.Awake[i] = stageHours(s, internal.StageAwake, "awake")
		series.Light[i] = stageHours(s, internal.StageLight, "light")
		series.Deep[i] = stageHours(s, internal.StageDeep, "deep")
		series.REM[i] = stageHours(s, internal.StageREM, "rem")
		if !hasDetailedStages(s) {
			series.Unspecified[i] = stageHours(s, internal.StageUnspecified, "sleep")
		}
	}
	return series
}

// SessionStats are cross-session averages for the summary cards.
type SessionStats struct {
	AvgDuration float64 `json:"avg_duration"` // hours
	AvgDeep     float64 `json:"avg_deep"`     // percent of session
	AvgREM      float64 `json:"avg_rem"`      // percent of session
}

// CalculateSessionStats averages total duration and the deep/REM share of
// each session. Sessions with a zero duration contribute nothing to the
// percentage averages.
func CalculateSessionStats(sessions []internal.SleepSession) SessionStats {
	if len(sessions) == 0 {
		return SessionStats{}
	}

	var totalHours, deepPct, remPct float64
	for _, s := range sessions {
		totalHours += float64(s.Duration) / (60 * 60 * 1000)
		if s.Duration > 0 {
			deepPct += stageMillis(s, internal.StageDeep, "deep") / float64(s.Duration) * 100
			remPct += stageMillis(s, internal.StageREM, "rem") / float64(s.Duration) * 100
		}
	}
	n := float64(len(sessions))
	return SessionStats{
		AvgDuration: round1(totalHours / n),
		AvgDeep:     round1(deepPct / n),
		AvgREM:      round1(remPct / n),
	}
}

// stageMatches accepts either the canonical code or a typeName carrying
// the keyword, since callers may hand the engine sessions they built
// themselves.
func stageMatches(seg internal.StageSegment, typ int, keyword string) bool {
	return seg.Type == typ || strings.Contains(strings.ToLower(seg.TypeName), keyword)
}

func stageMillis(s internal.SleepSession, typ int, keyword string) float64 {
	var total float64
	for _, seg := range s.Stages {
		if stageMatches(seg, typ, keyword) {
			total += float64(seg.Duration)
		}
	}
	return total
}

func stageHours(s internal.SleepSession, typ int, keyword string) float64 {
	return stageMillis(s, typ, keyword) / (60 * 60 * 1000)
}

func hasDetailedStages(s internal.SleepSession) bool {
	for _, seg := range s.Stages {
		if stageMatches(seg, internal.StageLight, "light") ||
			stageMatches(seg, internal.StageDeep, "deep") ||
			stageMatches(seg, internal.StageREM, "rem") {
			return true
		}
	}
	return false
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
