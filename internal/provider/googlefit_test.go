package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yourname/sleepdash/internal"
	"github.com/yourname/sleepdash/internal/config"
)

// 2024-01-01T22:00Z .. 2024-01-02T06:00Z in millis.
const (
	gSessionStartMs = int64(1704146400000)
	gSessionEndMs   = int64(1704175200000)
)

func googleSessionsJSON() []byte {
	return []byte(fmt.Sprintf(`{
  "session": [
    {
      "id": "gf-session-1",
      "startTimeMillis": "%d",
      "endTimeMillis": "%d",
      "application": {"packageName": "com.google.android.apps.fitness"}
    }
  ]
}`, gSessionStartMs, gSessionEndMs))
}

func googleStagesJSON() []byte {
	inStart := gSessionStartMs + 10*60*1000
	inEnd := inStart + 90*60*1000
	outStart := gSessionEndMs + 60*60*1000
	return []byte(fmt.Sprintf(`{
  "bucket": [
    {
      "dataset": [
        {
          "point": [
            {
              "startTimeNanos": "%d",
              "endTimeNanos": "%d",
              "value": [{"intVal": 5}]
            },
            {
              "startTimeNanos": "%d",
              "endTimeNanos": "%d",
              "value": [{"intVal": 4}]
            }
          ]
        }
      ]
    }
  ]
}`, inStart*1e6, inEnd*1e6, outStart*1e6, (outStart+600000)*1e6))
}

func TestGoogleFitNormalizeCombines(t *testing.T) {
	c := NewGoogleFitClient(config.ProviderConfig{}, testLogger())
	sessions := c.Normalize(RawPayload{
		Sessions: googleSessionsJSON(),
		Stages:   googleStagesJSON(),
	})

	assert.Len(t, sessions, 1)
	s := sessions[0]
	assert.Equal(t, "gf-session-1", s.ID)
	assert.Equal(t, "com.google.android.apps.fitness", s.Source)
	assert.Equal(t, time.UnixMilli(gSessionStartMs).UTC(), s.StartTime)
	assert.Equal(t, time.UnixMilli(gSessionEndMs).UTC(), s.EndTime)
	assert.Equal(t, gSessionEndMs-gSessionStartMs, s.Duration)

	// The point starting after the session end is dropped.
	assert.Len(t, s.Stages, 1)
	seg := s.Stages[0]
	assert.Equal(t, internal.StageDeep, seg.Type)
	assert.Equal(t, "Deep sleep", seg.TypeName)
	assert.Equal(t, int64(90*60*1000), seg.Duration)
	assert.Equal(t, seg.EndTime.Sub(seg.StartTime).Milliseconds(), seg.Duration)
}

func TestGoogleFitNormalizeNoStages(t *testing.T) {
	c := NewGoogleFitClient(config.ProviderConfig{}, testLogger())

	sessions := c.Normalize(RawPayload{Sessions: googleSessionsJSON()})
	assert.Len(t, sessions, 1)
	assert.Empty(t, sessions[0].Stages)

	// A well-formed but empty aggregate behaves the same.
	sessions = c.Normalize(RawPayload{
		Sessions: googleSessionsJSON(),
		Stages:   []byte(`{"bucket": []}`),
	})
	assert.Len(t, sessions, 1)
	assert.Empty(t, sessions[0].Stages)
}

func TestGoogleFitNormalizeMalformed(t *testing.T) {
	c := NewGoogleFitClient(config.ProviderConfig{}, testLogger())

	assert.Empty(t, c.Normalize(RawPayload{Sessions: []byte(`not json`)}))
	assert.Empty(t, c.Normalize(RawPayload{Sessions: []byte(`{"session": []}`)}))

	// Sessions with unparseable bounds are skipped, not fatal.
	sessions := c.Normalize(RawPayload{Sessions: []byte(`{
	  "session": [{"id": "bad", "startTimeMillis": "oops", "endTimeMillis": "1"}]
	}`)})
	assert.Empty(t, sessions)
}

func TestGoogleFitFetchSessions(t *testing.T) {
	var sawSessions, sawAggregate bool
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sessions":
			sawSessions = true
			assert.Equal(t, "72", r.URL.Query().Get("activityType"))
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			w.Write(googleSessionsJSON())
		case "/dataset:aggregate":
			sawAggregate = true
			assert.Equal(t, http.MethodPost, r.Method)
			w.Write(googleStagesJSON())
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer ts.Close()

	c := NewGoogleFitClient(config.ProviderConfig{APIBaseURL: ts.URL}, testLogger())
	sessions, err := c.FetchSessions(context.Background(),
		time.UnixMilli(gSessionStartMs), time.UnixMilli(gSessionEndMs),
		&internal.Credential{AccessToken: "tok"})

	assert.NoError(t, err)
	assert.True(t, sawSessions)
	assert.True(t, sawAggregate)
	assert.Len(t, sessions, 1)
	assert.Len(t, sessions[0].Stages, 1)
}

func TestGoogleFitFetchUpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	c := NewGoogleFitClient(config.ProviderConfig{APIBaseURL: ts.URL}, testLogger())
	_, err := c.FetchSessions(context.Background(), time.Now().AddDate(0, 0, -7), time.Now(),
		&internal.Credential{AccessToken: "tok"})

	var upstream *internal.UpstreamError
	assert.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusUnauthorized, upstream.Status)
}
