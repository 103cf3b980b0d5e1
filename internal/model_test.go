package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCredentialUsable(t *testing.T) {
	now := time.Now().UnixMilli()

	fresh := &Credential{AccessToken: "tok", ExpiresIn: 3600, Timestamp: now}
	assert.True(t, fresh.Usable(now))

	// Past nominal expiry but refreshable.
	stale := &Credential{AccessToken: "tok", RefreshToken: "ref", ExpiresIn: 3600, Timestamp: now - 2*3600*1000}
	assert.True(t, stale.Usable(now))

	// Past expiry, nothing to refresh with.
	dead := &Credential{AccessToken: "tok", ExpiresIn: 3600, Timestamp: now - 2*3600*1000}
	assert.False(t, dead.Usable(now))

	empty := &Credential{ExpiresIn: 3600, Timestamp: now}
	assert.False(t, empty.Usable(now))

	var nilCred *Credential
	assert.False(t, nilCred.Usable(now))
}
