package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/yourname/sleepdash/internal"
)

// Apple HealthKit cannot be reached from a service directly; a companion
// iOS app pushes its sleep analysis out of band. The client therefore
// never performs a live fetch: FetchSessions loads whatever payload was
// last ingested and normalizes it.
type appleHealthPayload struct {
	SleepSessions []appleSession `json:"sleepSessions"`
}

type appleSession struct {
	StartDate string       `json:"startDate"`
	EndDate   string       `json:"endDate"`
	Source    string       `json:"source"`
	Stages    []appleStage `json:"stages"`
}

type appleStage struct {
	Value     int    `json:"value"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// PayloadSource supplies the most recently ingested companion-app payload.
type PayloadSource interface {
	AppleHealthPayload(ctx context.Context) ([]byte, error)
}

type AppleHealthClient struct {
	payloads PayloadSource
	logger   internal.Logger
}

func NewAppleHealthClient(payloads PayloadSource, logger internal.Logger) *AppleHealthClient {
	return &AppleHealthClient{payloads: payloads, logger: logger}
}

func (c *AppleHealthClient) ID() ID                   { return AppleHealth }
func (c *AppleHealthClient) RequiresCredential() bool { return false }

func (c *AppleHealthClient) FetchSessions(ctx context.Context, start, end time.Time, cred *internal.Credential) ([]internal.SleepSession, error) {
	raw, err := c.payloads.AppleHealthPayload(ctx)
	if err != nil {
		return nil, err
	}
	return c.Normalize(RawPayload{Sessions: raw}), nil
}

func (c *AppleHealthClient) Normalize(raw RawPayload) []internal.SleepSession {
	var payload appleHealthPayload
	if err := json.Unmarshal(raw.Sessions, &payload); err != nil || len(payload.SleepSessions) == 0 {
		return []internal.SleepSession{}
	}

	sessions := make([]internal.SleepSession, 0, len(payload.SleepSessions))
	for _, s := range payload.SleepSessions {
		start, err := time.Parse(time.RFC3339, s.StartDate)
		if err != nil {
			c.logger.Warnf("appleHealth: skipping session, bad start date %q", s.StartDate)
			continue
		}
		end, err := time.Parse(time.RFC3339, s.EndDate)
		if err != nil {
			c.logger.Warnf("appleHealth: skipping session, bad end date %q", s.EndDate)
			continue
		}
		source := s.Source
		if source == "" {
			source = "Apple Health"
		}
		sessions = append(sessions, internal.SleepSession{
			ID:        fmt.Sprintf("apple-health-%d", start.UnixMilli()),
			StartTime: start,
			EndTime:   end,
			Duration:  end.Sub(start).Milliseconds(),
			Source:    source,
			Stages:    appleSegments(s.Stages),
		})
	}
	return sessions
}

func appleSegments(stages []appleStage) []internal.StageSegment {
	segments := make([]internal.StageSegment, 0, len(stages))
	for _, sg := range stages {
		start, err := time.Parse(time.RFC3339, sg.StartDate)
		if err != nil {
			continue
		}
		end, err := time.Parse(time.RFC3339, sg.EndDate)
		if err != nil {
			continue
		}
		st := classifyAppleStage(sg.Value)
		segments = append(segments, internal.StageSegment{
			Type:      st.Type,
			TypeName:  st.TypeName,
			StartTime: start,
			EndTime:   end,
			Duration:  end.Sub(start).Milliseconds(),
		})
	}
	return segments
}

var _ Client = (*AppleHealthClient)(nil)
