package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/yourname/sleepdash/internal"
	"github.com/yourname/sleepdash/internal/config"
)

// Fitbit sleep log wire format.
// https://dev.fitbit.com/build/reference/web-api/sleep/
type fitbitSleepResponse struct {
	Sleep []fitbitSleepLog `json:"sleep"`
}

type fitbitSleepLog struct {
	LogID      int64  `json:"logId"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	Efficiency int    `json:"efficiency"`
	MainSleep  bool   `json:"mainSleep"`
	Levels     *struct {
		Data []fitbitLevel `json:"data"`
	} `json:"levels"`
}

type fitbitLevel struct {
	DateTime string `json:"dateTime"`
	Level    string `json:"level"`
	Seconds  int64  `json:"seconds"`
}

type FitbitClient struct {
	cfg    config.ProviderConfig
	http   *http.Client
	logger internal.Logger
}

func NewFitbitClient(cfg config.ProviderConfig, logger internal.Logger) *FitbitClient {
	return &FitbitClient{
		cfg:    cfg,
		http:   &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

func (c *FitbitClient) ID() ID                   { return Fitbit }
func (c *FitbitClient) RequiresCredential() bool { return true }

func (c *FitbitClient) AuthURL() string {
	params := url.Values{}
	params.Set("response_type", "code")
	params.Set("client_id", c.cfg.ClientID)
	params.Set("redirect_uri", c.cfg.RedirectURI)
	params.Set("scope", "sleep")
	params.Set("expires_in", "604800")
	return buildAuthURL(c.cfg.AuthURL, params)
}

func (c *FitbitClient) ExchangeCode(ctx context.Context, code string) (*internal.Credential, error) {
	return exchangeCode(ctx, c.http, Fitbit, c.cfg, code)
}

func (c *FitbitClient) FetchSessions(ctx context.Context, start, end time.Time, cred *internal.Credential) ([]internal.SleepSession, error) {
	rawURL := fmt.Sprintf("%s/user/-/sleep/date/%s/%s.json",
		c.cfg.APIBaseURL, start.Format("2006-01-02"), end.Format("2006-01-02"))
	body, err := getJSON(ctx, c.http, Fitbit, "fetch sleep logs", rawURL, cred.AccessToken)
	if err != nil {
		return nil, err
	}
	return c.Normalize(RawPayload{Sessions: body}), nil
}

func (c *FitbitClient) Normalize(raw RawPayload) []internal.SleepSession {
	var payload fitbitSleepResponse
	if err := json.Unmarshal(raw.Sessions, &payload); err != nil || len(payload.Sleep) == 0 {
		return []internal.SleepSession{}
	}

	sessions := make([]internal.SleepSession, 0, len(payload.Sleep))
	for _, log := range payload.Sleep {
		start, err := parseFitbitTime(log.StartTime)
		if err != nil {
			c.logger.Warnf("fitbit: skipping log %d, bad start time %q", log.LogID, log.StartTime)
			continue
		}
		end, err := parseFitbitTime(log.EndTime)
		if err != nil {
			c.logger.Warnf("fitbit: skipping log %d, bad end time %q", log.LogID, log.EndTime)
			continue
		}
		sessions = append(sessions, internal.SleepSession{
			ID:         fmt.Sprintf("fitbit-%d", log.LogID),
			StartTime:  start,
			EndTime:    end,
			Duration:   end.Sub(start).Milliseconds(),
			Source:     "Fitbit",
			Efficiency: log.Efficiency,
			MainSleep:  log.MainSleep,
			Stages:     fitbitStages(log, start, end),
		})
	}
	return sessions
}

// fitbitStages maps the per-minute level data when present, otherwise
// collapses the whole session into one generic sleep segment.
func fitbitStages(log fitbitSleepLog, start, end time.Time) []internal.StageSegment {
	if log.Levels != nil && len(log.Levels.Data) > 0 {
		segments := make([]internal.StageSegment, 0, len(log.Levels.Data))
		for _, level := range log.Levels.Data {
			segStart, err := parseFitbitTime(level.DateTime)
			if err != nil {
				continue
			}
			segEnd := segStart.Add(time.Duration(level.Seconds) * time.Second)
			st := classifyStageName(level.Level)
			segments = append(segments, internal.StageSegment{
				Type:      st.Type,
				TypeName:  st.TypeName,
				StartTime: segStart,
				EndTime:   segEnd,
				Duration:  segEnd.Sub(segStart).Milliseconds(),
			})
		}
		return segments
	}

	return []internal.StageSegment{{
		Type:      internal.StageUnspecified,
		TypeName:  "sleep",
		StartTime: start,
		EndTime:   end,
		Duration:  end.Sub(start).Milliseconds(),
	}}
}

// parseFitbitTime handles Fitbit's zone-less timestamps, with RFC 3339 as
// a fallback.
func parseFitbitTime(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02T15:04:05.000", "2006-01-02T15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}

var _ Client = (*FitbitClient)(nil)
var _ Authorizer = (*FitbitClient)(nil)
