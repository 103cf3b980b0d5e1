package api

import (
	"errors"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourname/sleepdash/internal"
	"github.com/yourname/sleepdash/internal/metrics"
	"github.com/yourname/sleepdash/internal/provider"
)

// parseDateRange reads start/end query params (YYYY-MM-DD). The range
// defaults to the last 7 days ending today.
func parseDateRange(c *gin.Context) (time.Time, time.Time, error) {
	end := time.Now().UTC().Truncate(24 * time.Hour).Add(24*time.Hour - time.Millisecond)
	start := end.AddDate(0, 0, -7)
	if v := c.Query("start"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return start, end, internal.NewAppError(400, "'start' must be YYYY-MM-DD")
		}
		start = t
	}
	if v := c.Query("end"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return start, end, internal.NewAppError(400, "'end' must be YYYY-MM-DD")
		}
		end = t
	}
	return start, end, nil
}

// fetchProviderSessions resolves the provider tag, loads its stored
// credential, and runs the facade pipeline.
func fetchProviderSessions(c *gin.Context, app App) ([]internal.SleepSession, provider.ID, error) {
	p := provider.ID(c.Query("provider"))
	start, end, err := parseDateRange(c)
	if err != nil {
		return nil, p, err
	}
	cred, err := app.Store().GetCredential(c.Request.Context(), string(p))
	if err != nil {
		return nil, p, err
	}
	sessions, err := app.SleepData().FetchSleepData(c.Request.Context(), p, start, end, cred)
	if err != nil {
		return nil, p, err
	}
	return sessions, p, nil
}

// GetSleepData returns canonical sessions for a provider and date range.
func GetSleepData(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessions, p, err := fetchProviderSessions(c, app)
		if err != nil {
			HandleError(c, app.Logger(), err, statusForError(err), "Failed to fetch sleep data")
			return
		}
		HandleSuccess(c, app.Logger(), sessions, map[string]any{
			"provider": string(p),
			"count":    len(sessions),
		})
	}
}

// GetSleepStats returns the stage breakdown series and cross-session
// averages for the same provider query.
func GetSleepStats(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessions, p, err := fetchProviderSessions(c, app)
		if err != nil {
			HandleError(c, app.Logger(), err, statusForError(err), "Failed to fetch sleep data for stats")
			return
		}
		stats := metrics.CalculateSessionStats(sessions)
		breakdown := metrics.StageBreakdown(sessions)
		HandleSuccess(c, app.Logger(), breakdown, map[string]any{
			"provider":     string(p),
			"avg_duration": stats.AvgDuration,
			"avg_deep":     stats.AvgDeep,
			"avg_rem":      stats.AvgREM,
		})
	}
}

// GetSleepRecommendations evaluates the rule list over the logged entries.
func GetSleepRecommendations(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries, err := app.Store().ListEntries(c.Request.Context())
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch entries")
			return
		}
		recs := metrics.Recommendations(entries)
		HandleSuccess(c, app.Logger(), recs, map[string]any{"count": len(recs)})
	}
}

// GetGoalProgress compares the recent week of entries to the profile's
// sleep goal, falling back to the age-based default.
func GetGoalProgress(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries, err := app.Store().ListEntries(c.Request.Context())
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch entries")
			return
		}
		profile, err := app.Store().GetProfile(c.Request.Context())
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch profile")
			return
		}
		goal := 0.0
		age := 0
		if profile != nil {
			goal = profile.SleepGoal
			age = profile.Age
		}
		if goal <= 0 {
			goal = metrics.DefaultSleepGoal(age)
		}
		progress := metrics.CalculateGoalProgress(entries, goal)
		deficit, err := strconv.ParseFloat(progress.Deficit, 64)
		if err != nil {
			deficit = 0
		}
		HandleSuccess(c, app.Logger(), progress, map[string]any{
			"goal":   goal,
			"advice": metrics.GoalAdvice(progress.Percentage, deficit),
		})
	}
}

// PostAppleHealthIngest stores a companion-app payload and echoes the
// normalized sessions back.
func PostAppleHealthIngest(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := io.ReadAll(c.Request.Body)
		if err != nil || len(raw) == 0 {
			HandleError(c, app.Logger(), errors.New("empty body"), 400, "Invalid payload")
			return
		}
		if err := app.Store().SetAppleHealthPayload(c.Request.Context(), raw); err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to store payload")
			return
		}
		sessions, err := app.SleepData().Normalize(provider.AppleHealth, provider.RawPayload{Sessions: raw})
		if err != nil {
			HandleError(c, app.Logger(), err, statusForError(err), "Failed to normalize payload")
			return
		}
		sort.Slice(sessions, func(i, j int) bool {
			return sessions[i].StartTime.Before(sessions[j].StartTime)
		})
		HandleSuccess(c, app.Logger(), sessions, map[string]any{"count": len(sessions)})
	}
}
