package api

import (
	"github.com/gin-gonic/gin"

	"github.com/yourname/sleepdash/internal"
	"github.com/yourname/sleepdash/internal/metrics"
)

type profileRequest struct {
	Name      string  `json:"name"`
	Age       int     `json:"age" binding:"omitempty,gte=0,lte=120"`
	SleepGoal float64 `json:"sleep_goal" binding:"omitempty,gt=0,lte=24"`
}

// GetProfile returns the stored profile, filling an unset sleep goal from
// the age-based default.
func GetProfile(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, err := app.Store().GetProfile(c.Request.Context())
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch profile")
			return
		}
		if profile == nil {
			profile = &internal.UserProfile{}
		}
		meta := map[string]any{}
		if profile.SleepGoal <= 0 {
			meta["default_sleep_goal"] = metrics.DefaultSleepGoal(profile.Age)
		}
		HandleSuccess(c, app.Logger(), profile, meta)
	}
}

func PutProfile(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body profileRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		profile := &internal.UserProfile{
			Name:      body.Name,
			Age:       body.Age,
			SleepGoal: body.SleepGoal,
		}
		if err := app.Store().SetProfile(c.Request.Context(), profile); err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to save profile")
			return
		}
		HandleSuccess(c, app.Logger(), profile, nil)
	}
}
