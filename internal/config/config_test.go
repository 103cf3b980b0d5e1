package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	base := Config{
		Env:           "development",
		DBType:        "file",
		FileEntries:   "data/entries.json",
		FileReminders: "data/reminders.json",
	}
	assert.NoError(t, base.Validate())

	c := base
	c.Env = "production"
	assert.Error(t, c.Validate(), "non-development requires an auth service")
	c.AuthServiceURL = "https://auth.internal/validate"
	assert.NoError(t, c.Validate())

	c = base
	c.Env = "qa"
	assert.Error(t, c.Validate())

	c = base
	c.DBType = "postgres"
	assert.Error(t, c.Validate())
	c.DBDSN = "postgres://localhost/sleepdash"
	assert.NoError(t, c.Validate())

	c = base
	c.FileEntries = ""
	assert.Error(t, c.Validate())
}
