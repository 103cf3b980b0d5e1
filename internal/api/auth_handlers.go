package api

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourname/sleepdash/internal/provider"
)

// PostAuthStart begins a provider's consent flow. OAuth providers get a
// redirect URL; Apple Health reports that a companion app must push the
// data instead.
func PostAuthStart(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := provider.ID(c.Param("provider"))
		authURL, err := app.SleepData().StartAuth(p)
		if errors.Is(err, provider.ErrCompanionAppRequired) {
			HandleSuccess(c, app.Logger(), nil, map[string]any{
				"companion_app_required": true,
				"message":                "Apple HealthKit requires a companion iOS app to share data with this service.",
			})
			return
		}
		if err != nil {
			HandleError(c, app.Logger(), err, statusForError(err), "Failed to start auth")
			return
		}
		HandleSuccess(c, app.Logger(), nil, map[string]any{"auth_url": authURL})
	}
}

type authCallbackRequest struct {
	Code string `json:"code" validate:"required"`
}

// PostAuthCallback exchanges the one-time code and stores the resulting
// credential under the provider key.
func PostAuthCallback(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := provider.ID(c.Param("provider"))

		var body authCallbackRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		if body.Code == "" {
			HandleError(c, app.Logger(), errors.New("'code' is required"), 400, "Validation failed")
			return
		}

		cred, err := app.SleepData().CompleteAuth(c.Request.Context(), p, body.Code)
		if err != nil {
			HandleError(c, app.Logger(), err, statusForError(err), "Code exchange failed")
			return
		}
		if err := app.Store().SetCredential(c.Request.Context(), string(p), cred); err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to store credential")
			return
		}
		HandleSuccess(c, app.Logger(), nil, map[string]any{
			"provider":  string(p),
			"connected": true,
		})
	}
}

// GetConnections reports, per provider, whether a usable credential is
// stored. A credential past its nominal expiry still counts as connected
// while a refresh token exists.
func GetConnections(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now().UnixMilli()
		connections := map[string]bool{}
		for _, p := range provider.All {
			required, err := app.SleepData().RequiresCredential(p)
			if err != nil {
				continue
			}
			if !required {
				// No credential involved; connected means a companion-app
				// payload has actually been ingested.
				raw, err := app.Store().AppleHealthPayload(c.Request.Context())
				if err != nil {
					HandleError(c, app.Logger(), err, 500, "Failed to read stored payload")
					return
				}
				connections[string(p)] = len(raw) > 0
				continue
			}
			cred, err := app.Store().GetCredential(c.Request.Context(), string(p))
			if err != nil {
				HandleError(c, app.Logger(), err, 500, "Failed to read credentials")
				return
			}
			connections[string(p)] = cred.Usable(now)
		}
		HandleSuccess(c, app.Logger(), connections, nil)
	}
}

// DeleteConnection forgets a provider's stored credential.
func DeleteConnection(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := provider.ID(c.Param("provider"))
		if _, err := app.SleepData().RequiresCredential(p); err != nil {
			HandleError(c, app.Logger(), err, statusForError(err), "Failed to disconnect")
			return
		}
		if err := app.Store().DeleteCredential(c.Request.Context(), string(p)); err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to delete credential")
			return
		}
		HandleSuccess(c, app.Logger(), nil, map[string]any{"provider": string(p), "connected": false})
	}
}
