package api

import (
	"github.com/gin-gonic/gin"

	"github.com/yourname/sleepdash/internal/auth"
	"github.com/yourname/sleepdash/internal/config"
)

// NewRouter wires middleware and all routes. Shared by main and the
// handler tests.
func NewRouter(app App, authProvider auth.Provider, cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(auth.AuthMiddleware(authProvider, cfg))

	r.POST("/auth/:provider/start", PostAuthStart(app))
	r.POST("/auth/:provider/callback", PostAuthCallback(app))
	r.GET("/auth/connections", GetConnections(app))
	r.DELETE("/auth/:provider", DeleteConnection(app))

	r.GET("/sleep/data", GetSleepData(app))
	r.GET("/sleep/stats", GetSleepStats(app))
	r.GET("/sleep/recommendations", GetSleepRecommendations(app))
	r.GET("/sleep/goal/progress", GetGoalProgress(app))
	r.POST("/sleep/apple-health", PostAppleHealthIngest(app))

	r.POST("/sleep/logs", PostEntry(app))
	r.GET("/sleep/logs", GetEntries(app))
	r.PUT("/sleep/logs/:id", PutEntry(app))
	r.DELETE("/sleep/logs/:id", DeleteEntry(app))

	r.POST("/reminders", PostReminder(app))
	r.GET("/reminders", GetReminders(app))
	r.PUT("/reminders/:id", PutReminder(app))
	r.POST("/reminders/:id/toggle", PostReminderToggle(app))
	r.DELETE("/reminders/:id", DeleteReminder(app))

	r.GET("/profile", GetProfile(app))
	r.PUT("/profile", PutProfile(app))

	return r
}
