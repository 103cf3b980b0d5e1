package provider

import (
	"context"
	"errors"
	"time"

	"github.com/yourname/sleepdash/internal"
)

// ID identifies a sleep data provider. The set is closed: each variant has
// exactly one Client implementation.
type ID string

const (
	Fitbit      ID = "fitbit"
	GoogleFit   ID = "googleFit"
	AppleHealth ID = "appleHealth"
)

// All lists the supported providers in display order.
var All = []ID{Fitbit, GoogleFit, AppleHealth}

// ErrCompanionAppRequired signals that the provider has no interactive
// consent flow; data arrives out of band from a companion mobile app.
var ErrCompanionAppRequired = errors.New("provider requires a companion mobile app to share data")

// RawPayload carries provider response bodies prior to normalization.
// Google Fit fills both fields (session list plus aggregated stage
// dataset); the other providers use Sessions only.
type RawPayload struct {
	Sessions []byte
	Stages   []byte
}

// Client is the per-provider capability set: pull raw sessions for a date
// range and normalize a raw payload into canonical sessions.
//
// Normalize absorbs malformed or missing payloads into an empty session
// list. Only transport failures and non-2xx upstream responses surface as
// errors, always as *internal.UpstreamError.
type Client interface {
	ID() ID
	RequiresCredential() bool
	FetchSessions(ctx context.Context, start, end time.Time, cred *internal.Credential) ([]internal.SleepSession, error)
	Normalize(raw RawPayload) []internal.SleepSession
}

// Authorizer is implemented by providers with an interactive OAuth consent
// flow. Apple Health deliberately does not implement it.
type Authorizer interface {
	AuthURL() string
	ExchangeCode(ctx context.Context, code string) (*internal.Credential, error)
}
