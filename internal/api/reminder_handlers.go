package api

import (
	"github.com/gin-gonic/gin"

	"github.com/yourname/sleepdash/internal/service"
)

func PostReminder(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body service.ReminderRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		if err := service.ValidateReminderRequest(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Validation failed")
			return
		}

		reminder, err := service.CreateReminder(c.Request.Context(), app.Store(), &body)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to save reminder")
			return
		}
		HandleCreated(c, app.Logger(), reminder)
	}
}

func GetReminders(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		reminders, err := app.Store().ListReminders(c.Request.Context())
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch reminders")
			return
		}
		schedules := make([]map[string]any, 0, len(reminders))
		for _, r := range reminders {
			schedules = append(schedules, map[string]any{
				"id":           r.ID,
				"time":         r.Time,
				"display_time": service.FormatReminderTime(r.Time),
				"days":         service.DescribeDays(r.Days),
				"message":      r.Message,
				"enabled":      r.Enabled,
			})
		}
		HandleSuccess(c, app.Logger(), reminders, map[string]any{"schedules": schedules})
	}
}

func PutReminder(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body service.ReminderRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		if err := service.ValidateReminderRequest(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Validation failed")
			return
		}

		reminder, err := service.UpdateReminder(c.Request.Context(), app.Store(), c.Param("id"), &body)
		if err != nil {
			HandleError(c, app.Logger(), err, statusForError(err), "Failed to update reminder")
			return
		}
		HandleSuccess(c, app.Logger(), reminder, nil)
	}
}

func PostReminderToggle(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		reminder, err := service.ToggleReminder(c.Request.Context(), app.Store(), c.Param("id"))
		if err != nil {
			HandleError(c, app.Logger(), err, statusForError(err), "Failed to toggle reminder")
			return
		}
		HandleSuccess(c, app.Logger(), reminder, nil)
	}
}

func DeleteReminder(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := app.Store().DeleteReminder(c.Request.Context(), c.Param("id")); err != nil {
			HandleError(c, app.Logger(), err, statusForError(err), "Failed to delete reminder")
			return
		}
		HandleSuccess(c, app.Logger(), nil, map[string]any{"deleted": c.Param("id")})
	}
}
