package api

import (
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/yourname/sleepdash/internal/service"
)

func PostEntry(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body service.EntryRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		if err := service.ValidateEntryRequest(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Validation failed")
			return
		}

		entry, err := service.CreateEntry(c.Request.Context(), app.Store(), &body)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to save entry")
			return
		}
		HandleCreated(c, app.Logger(), entry)
	}
}

func GetEntries(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries, err := app.Store().ListEntries(c.Request.Context())
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch entries")
			return
		}
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Date > entries[j].Date
		})
		HandleSuccess(c, app.Logger(), entries, nil)
	}
}

func PutEntry(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body service.EntryRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		if err := service.ValidateEntryRequest(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Validation failed")
			return
		}

		entry, err := service.UpdateEntry(c.Request.Context(), app.Store(), c.Param("id"), &body)
		if err != nil {
			HandleError(c, app.Logger(), err, statusForError(err), "Failed to update entry")
			return
		}
		HandleSuccess(c, app.Logger(), entry, nil)
	}
}

func DeleteEntry(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := app.Store().DeleteEntry(c.Request.Context(), c.Param("id")); err != nil {
			HandleError(c, app.Logger(), err, statusForError(err), "Failed to delete entry")
			return
		}
		HandleSuccess(c, app.Logger(), nil, map[string]any{"deleted": c.Param("id")})
	}
}
