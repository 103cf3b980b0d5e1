package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yourname/sleepdash/internal"
)

const applePayload = `{
  "sleepSessions": [
    {
      "startDate": "2024-01-01T22:30:00Z",
      "endDate": "2024-01-02T06:30:00Z",
      "source": "Apple Watch",
      "stages": [
        {"value": 0, "startDate": "2024-01-01T22:30:00Z", "endDate": "2024-01-01T22:45:00Z"},
        {"value": 3, "startDate": "2024-01-01T22:45:00Z", "endDate": "2024-01-02T01:00:00Z"},
        {"value": 4, "startDate": "2024-01-02T01:00:00Z", "endDate": "2024-01-02T02:30:00Z"},
        {"value": 5, "startDate": "2024-01-02T02:30:00Z", "endDate": "2024-01-02T04:00:00Z"},
        {"value": 2, "startDate": "2024-01-02T04:00:00Z", "endDate": "2024-01-02T04:10:00Z"}
      ]
    },
    {
      "startDate": "2024-01-02T23:00:00Z",
      "endDate": "2024-01-03T06:00:00Z"
    }
  ]
}`

type stubPayloadSource struct {
	raw []byte
	err error
}

func (s stubPayloadSource) AppleHealthPayload(ctx context.Context) ([]byte, error) {
	return s.raw, s.err
}

func TestAppleHealthNormalize(t *testing.T) {
	c := NewAppleHealthClient(stubPayloadSource{}, testLogger())
	sessions := c.Normalize(RawPayload{Sessions: []byte(applePayload)})

	assert.Len(t, sessions, 2)

	s := sessions[0]
	start, _ := time.Parse(time.RFC3339, "2024-01-01T22:30:00Z")
	assert.Equal(t, "apple-health-1704148200000", s.ID)
	assert.Equal(t, start, s.StartTime)
	assert.Equal(t, "Apple Watch", s.Source)
	assert.Equal(t, int64(8*60*60*1000), s.Duration)

	assert.Len(t, s.Stages, 5)
	assert.Equal(t, internal.StageInBed, s.Stages[0].Type)
	assert.Equal(t, internal.StageLight, s.Stages[1].Type)
	assert.Equal(t, "Core", s.Stages[1].TypeName)
	assert.Equal(t, internal.StageDeep, s.Stages[2].Type)
	assert.Equal(t, internal.StageREM, s.Stages[3].Type)
	assert.Equal(t, internal.StageAwake, s.Stages[4].Type)

	// Missing source falls back to a generic label, missing stages to an
	// empty list.
	assert.Equal(t, "Apple Health", sessions[1].Source)
	assert.Empty(t, sessions[1].Stages)
}

func TestAppleHealthNormalizeDeterministicIDs(t *testing.T) {
	c := NewAppleHealthClient(stubPayloadSource{}, testLogger())
	first := c.Normalize(RawPayload{Sessions: []byte(applePayload)})
	second := c.Normalize(RawPayload{Sessions: []byte(applePayload)})
	assert.Equal(t, first, second)
}

func TestAppleHealthNormalizeMalformed(t *testing.T) {
	c := NewAppleHealthClient(stubPayloadSource{}, testLogger())

	assert.Empty(t, c.Normalize(RawPayload{Sessions: []byte(`nope`)}))
	assert.Empty(t, c.Normalize(RawPayload{Sessions: []byte(`{"sleepSessions": []}`)}))
	assert.Empty(t, c.Normalize(RawPayload{Sessions: []byte(`{
	  "sleepSessions": [{"startDate": "yesterday", "endDate": "2024-01-02T06:00:00Z"}]
	}`)}))
}

func TestAppleHealthFetchSessions(t *testing.T) {
	c := NewAppleHealthClient(stubPayloadSource{raw: []byte(applePayload)}, testLogger())
	sessions, err := c.FetchSessions(context.Background(), time.Now().AddDate(0, 0, -7), time.Now(), nil)
	assert.NoError(t, err)
	assert.Len(t, sessions, 2)

	boom := errors.New("store unavailable")
	c = NewAppleHealthClient(stubPayloadSource{err: boom}, testLogger())
	_, err = c.FetchSessions(context.Background(), time.Now().AddDate(0, 0, -7), time.Now(), nil)
	assert.ErrorIs(t, err, boom)
}
