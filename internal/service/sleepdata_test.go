package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/yourname/sleepdash/internal"
	"github.com/yourname/sleepdash/internal/provider"
)

func testLogger() internal.Logger {
	return internal.NewZapLogger(zap.NewNop().Sugar())
}

// fakeClient is a minimal provider client; fakeAuthClient adds the
// interactive flow.
type fakeClient struct {
	id       provider.ID
	needCred bool
	sessions []internal.SleepSession
	fetchErr error
	gotCred  *internal.Credential
}

func (f *fakeClient) ID() provider.ID          { return f.id }
func (f *fakeClient) RequiresCredential() bool { return f.needCred }

func (f *fakeClient) FetchSessions(ctx context.Context, start, end time.Time, cred *internal.Credential) ([]internal.SleepSession, error) {
	f.gotCred = cred
	return f.sessions, f.fetchErr
}

func (f *fakeClient) Normalize(raw provider.RawPayload) []internal.SleepSession {
	return f.sessions
}

type fakeAuthClient struct {
	fakeClient
	authURL string
	cred    *internal.Credential
}

func (f *fakeAuthClient) AuthURL() string { return f.authURL }

func (f *fakeAuthClient) ExchangeCode(ctx context.Context, code string) (*internal.Credential, error) {
	return f.cred, nil
}

func TestSleepDataServiceUnknownProvider(t *testing.T) {
	svc := NewSleepDataService(testLogger())

	_, err := svc.RequiresCredential("nope")
	assert.ErrorIs(t, err, internal.ErrUnknownProvider)

	_, err = svc.StartAuth("nope")
	assert.ErrorIs(t, err, internal.ErrUnknownProvider)

	_, err = svc.FetchSleepData(context.Background(), "nope", time.Now(), time.Now(), nil)
	assert.ErrorIs(t, err, internal.ErrUnknownProvider)

	_, err = svc.Normalize("nope", provider.RawPayload{})
	assert.ErrorIs(t, err, internal.ErrUnknownProvider)
}

func TestSleepDataServiceMissingCredential(t *testing.T) {
	svc := NewSleepDataService(testLogger(), &fakeClient{id: provider.Fitbit, needCred: true})

	_, err := svc.FetchSleepData(context.Background(), provider.Fitbit, time.Now(), time.Now(), nil)
	assert.ErrorIs(t, err, internal.ErrMissingCredential)

	_, err = svc.FetchSleepData(context.Background(), provider.Fitbit, time.Now(), time.Now(), &internal.Credential{})
	assert.ErrorIs(t, err, internal.ErrMissingCredential)
}

func TestSleepDataServiceFetch(t *testing.T) {
	want := []internal.SleepSession{{ID: "fitbit-1", Source: "Fitbit"}}
	client := &fakeClient{id: provider.Fitbit, needCred: true, sessions: want}
	svc := NewSleepDataService(testLogger(), client)

	cred := &internal.Credential{AccessToken: "tok"}
	got, err := svc.FetchSleepData(context.Background(), provider.Fitbit, time.Now().AddDate(0, 0, -7), time.Now(), cred)
	assert.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Same(t, cred, client.gotCred)
}

func TestSleepDataServiceFetchNoCredentialNeeded(t *testing.T) {
	want := []internal.SleepSession{{ID: "apple-health-1"}}
	svc := NewSleepDataService(testLogger(), &fakeClient{id: provider.AppleHealth, sessions: want})

	got, err := svc.FetchSleepData(context.Background(), provider.AppleHealth, time.Now().AddDate(0, 0, -7), time.Now(), nil)
	assert.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSleepDataServiceStartAuth(t *testing.T) {
	authed := &fakeAuthClient{
		fakeClient: fakeClient{id: provider.Fitbit, needCred: true},
		authURL:    "https://example.com/authorize?client_id=x",
	}
	plain := &fakeClient{id: provider.AppleHealth}
	svc := NewSleepDataService(testLogger(), authed, plain)

	url, err := svc.StartAuth(provider.Fitbit)
	assert.NoError(t, err)
	assert.Equal(t, authed.authURL, url)

	// A provider without an interactive flow signals that its data arrives
	// out of band.
	_, err = svc.StartAuth(provider.AppleHealth)
	assert.ErrorIs(t, err, provider.ErrCompanionAppRequired)
}

func TestSleepDataServiceCompleteAuth(t *testing.T) {
	cred := &internal.Credential{AccessToken: "tok", Timestamp: time.Now().UnixMilli()}
	authed := &fakeAuthClient{
		fakeClient: fakeClient{id: provider.GoogleFit, needCred: true},
		cred:       cred,
	}
	svc := NewSleepDataService(testLogger(), authed, &fakeClient{id: provider.AppleHealth})

	got, err := svc.CompleteAuth(context.Background(), provider.GoogleFit, "code123")
	assert.NoError(t, err)
	assert.Same(t, cred, got)

	_, err = svc.CompleteAuth(context.Background(), provider.AppleHealth, "code123")
	assert.ErrorIs(t, err, internal.ErrUnknownProvider)
}

func TestSleepDataServiceRequiresCredential(t *testing.T) {
	svc := NewSleepDataService(testLogger(),
		&fakeClient{id: provider.Fitbit, needCred: true},
		&fakeClient{id: provider.AppleHealth})

	need, err := svc.RequiresCredential(provider.Fitbit)
	assert.NoError(t, err)
	assert.True(t, need)

	need, err = svc.RequiresCredential(provider.AppleHealth)
	assert.NoError(t, err)
	assert.False(t, need)
}
