// Package metrics derives summary statistics, goal progress, and
// rule-based recommendations from canonical sleep data. Every function is
// pure: inputs are never mutated and identical input yields identical
// output.
package metrics

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/yourname/sleepdash/internal"
)

// SleepDuration returns the elapsed hours between falling asleep and
// waking, rounded to 2 decimals. A negative span means the wake instant
// was supplied on the same calendar day, so a single day is added. The
// wrap does not generalize to multi-day spans.
func SleepDuration(sleepTime, wakeTime time.Time) float64 {
	diff := wakeTime.Sub(sleepTime)
	if diff < 0 {
		diff += 24 * time.Hour
	}
	return math.Round(diff.Hours()*100) / 100
}

// FormatDuration renders fractional hours as "8h 30m". Minute rounding
// that lands on 60 is reported as "60m" rather than carried into the hour
// component; callers depend on the literal behavior.
func FormatDuration(hours float64) string {
	h := int(math.Floor(hours))
	m := int(math.Round((hours - float64(h)) * 60))
	return fmt.Sprintf("%dh %dm", h, m)
}

// QualityScore converts the entry form's subjective inputs into the
// canonical 0-100 quality score. This is the only point where the 1-10
// form scale crosses to the canonical scale: half the score from raw
// quality, half from restfulness, minus 5 points per interruption,
// clamped to [0, 100].
func QualityScore(quality, interruptions, restfulness int) float64 {
	score := float64(quality)/10*50 + float64(restfulness)/10*50 - float64(interruptions)*5
	return math.Max(0, math.Min(100, score))
}

// Recommendation rule messages, in evaluation order.
const (
	msgIncreaseDuration = "Try to increase your sleep duration to at least 7 hours per night."
	msgOversleeping     = "You might be oversleeping. Adults typically need 7-9 hours of sleep."
	msgImproveQuality   = "Your sleep quality could be improved. Consider reducing screen time before bed."
	msgInconsistent     = "Your sleep schedule is inconsistent. Try to maintain a regular sleep schedule, even on weekends."
)

// Recommendations evaluates the rule list over a multi-day entry set. The
// rules are independent, each contributes at most one message, and the
// order is fixed: short duration, oversleeping, low quality, inconsistent
// bedtime. The bedtime spread uses the naive hour of day with no
// correction across midnight.
func Recommendations(entries []internal.SleepLogEntry) []string {
	if len(entries) == 0 {
		return []string{}
	}

	var totalDuration, totalQuality float64
	minHour, maxHour := 24, -1
	for _, e := range entries {
		totalDuration += e.Duration
		totalQuality += float64(e.Quality)
		h := e.SleepTime.Hour()
		if h < minHour {
			minHour = h
		}
		if h > maxHour {
			maxHour = h
		}
	}
	avgDuration := totalDuration / float64(len(entries))
	avgQuality := totalQuality / float64(len(entries))

	recs := []string{}
	if avgDuration < 7 {
		recs = append(recs, msgIncreaseDuration)
	}
	if avgDuration > 9 {
		recs = append(recs, msgOversleeping)
	}
	if avgQuality < 60 {
		recs = append(recs, msgImproveQuality)
	}
	if maxHour-minHour > 2 {
		recs = append(recs, msgInconsistent)
	}
	return recs
}

// GoalProgress reports how the most recent week compares to the nightly
// duration goal.
type GoalProgress struct {
	Percentage      int    `json:"percentage"`
	AverageDuration string `json:"average_duration"`
	Deficit         string `json:"deficit"`
}

// CalculateGoalProgress restricts to the 7 most recent entries by date and
// compares their mean duration to the goal. Empty input or a non-positive
// goal yields the neutral zero result, never a division error.
func CalculateGoalProgress(entries []internal.SleepLogEntry, goalHours float64) GoalProgress {
	if len(entries) == 0 || goalHours <= 0 {
		return GoalProgress{Percentage: 0, AverageDuration: "0.0", Deficit: "0.0"}
	}

	recent := make([]internal.SleepLogEntry, len(entries))
	copy(recent, entries)
	sort.Slice(recent, func(i, j int) bool {
		return recent[i].Date > recent[j].Date
	})
	if len(recent) > 7 {
		recent = recent[:7]
	}

	var total float64
	for _, e := range recent {
		total += e.Duration
	}
	avg := total / float64(len(recent))

	return GoalProgress{
		Percentage:      int(math.Round(math.Min(100, avg/goalHours*100))),
		AverageDuration: fmt.Sprintf("%.1f", avg),
		Deficit:         fmt.Sprintf("%.1f", avg-goalHours),
	}
}

// GoalAdvice maps goal progress to one canned message. The 70-85 band
// interpolates the absolute deficit into the text.
func GoalAdvice(percentage int, deficit float64) string {
	switch {
	case percentage >= 95:
		return "Great job! You're consistently meeting your sleep goal."
	case percentage >= 85:
		return "You're doing well, but could use a little more sleep to reach your goal."
	case percentage >= 70:
		short := strconv.FormatFloat(math.Abs(deficit), 'f', -1, 64)
		return "You're getting decent sleep, but falling short of your goal by about " + short + " hours."
	default:
		return "You're significantly under your sleep goal. Try to prioritize sleep and adjust your schedule."
	}
}

// DefaultSleepGoal returns the recommended nightly hours for an age.
func DefaultSleepGoal(age int) float64 {
	switch {
	case age <= 0:
		return 8
	case age < 3:
		return 12
	case age < 6:
		return 11
	case age < 13:
		return 10
	case age < 18:
		return 9
	case age < 65:
		return 8
	default:
		return 7.5
	}
}
