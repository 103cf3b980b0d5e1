package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/yourname/sleepdash/internal"
	"github.com/yourname/sleepdash/internal/config"
)

// Google Fit REST wire formats. Sessions come from the session list
// endpoint, stage detail from a dataset aggregate over
// com.google.sleep.segment. Millisecond fields arrive as strings, point
// times in nanoseconds.
type googleSessionList struct {
	Session []googleSession `json:"session"`
}

type googleSession struct {
	ID              string `json:"id"`
	StartTimeMillis string `json:"startTimeMillis"`
	EndTimeMillis   string `json:"endTimeMillis"`
	Application     struct {
		PackageName string `json:"packageName"`
	} `json:"application"`
}

type googleAggregateResponse struct {
	Bucket []struct {
		Dataset []struct {
			Point []googlePoint `json:"point"`
		} `json:"dataset"`
	} `json:"bucket"`
}

type googlePoint struct {
	StartTimeNanos string `json:"startTimeNanos"`
	EndTimeNanos   string `json:"endTimeNanos"`
	Value          []struct {
		IntVal int `json:"intVal"`
	} `json:"value"`
}

type GoogleFitClient struct {
	cfg    config.ProviderConfig
	http   *http.Client
	logger internal.Logger
}

func NewGoogleFitClient(cfg config.ProviderConfig, logger internal.Logger) *GoogleFitClient {
	return &GoogleFitClient{
		cfg:    cfg,
		http:   &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

func (c *GoogleFitClient) ID() ID                   { return GoogleFit }
func (c *GoogleFitClient) RequiresCredential() bool { return true }

func (c *GoogleFitClient) AuthURL() string {
	params := url.Values{}
	params.Set("client_id", c.cfg.ClientID)
	params.Set("redirect_uri", c.cfg.RedirectURI)
	params.Set("response_type", "code")
	params.Set("scope", "https://www.googleapis.com/auth/fitness.sleep.read https://www.googleapis.com/auth/fitness.activity.read")
	params.Set("access_type", "offline")
	params.Set("prompt", "consent")
	return buildAuthURL(c.cfg.AuthURL, params)
}

func (c *GoogleFitClient) ExchangeCode(ctx context.Context, code string) (*internal.Credential, error) {
	return exchangeCode(ctx, c.http, GoogleFit, c.cfg, code)
}

// FetchSessions issues both upstream calls: the sleep session list
// (activityType 72) and the aggregated stage dataset for the same range.
// Neither depends on the other's result; both must complete before
// normalization combines them.
func (c *GoogleFitClient) FetchSessions(ctx context.Context, start, end time.Time, cred *internal.Credential) ([]internal.SleepSession, error) {
	params := url.Values{}
	params.Set("startTime", start.UTC().Format(time.RFC3339))
	params.Set("endTime", end.UTC().Format(time.RFC3339))
	params.Set("activityType", "72")
	sessionsRaw, err := getJSON(ctx, c.http, GoogleFit, "fetch sleep sessions",
		c.cfg.APIBaseURL+"/sessions?"+params.Encode(), cred.AccessToken)
	if err != nil {
		return nil, err
	}

	aggregateReq, _ := json.Marshal(map[string]interface{}{
		"aggregateBy":     []map[string]string{{"dataTypeName": "com.google.sleep.segment"}},
		"startTimeMillis": start.UnixMilli(),
		"endTimeMillis":   end.UnixMilli(),
	})
	stagesRaw, err := postJSON(ctx, c.http, GoogleFit, "fetch sleep stages",
		c.cfg.APIBaseURL+"/dataset:aggregate", cred.AccessToken, aggregateReq)
	if err != nil {
		return nil, err
	}

	return c.Normalize(RawPayload{Sessions: sessionsRaw, Stages: stagesRaw}), nil
}

func (c *GoogleFitClient) Normalize(raw RawPayload) []internal.SleepSession {
	var list googleSessionList
	if err := json.Unmarshal(raw.Sessions, &list); err != nil || len(list.Session) == 0 {
		return []internal.SleepSession{}
	}

	points := aggregatePoints(raw.Stages)

	sessions := make([]internal.SleepSession, 0, len(list.Session))
	for _, s := range list.Session {
		startMs, err1 := strconv.ParseInt(s.StartTimeMillis, 10, 64)
		endMs, err2 := strconv.ParseInt(s.EndTimeMillis, 10, 64)
		if err1 != nil || err2 != nil {
			c.logger.Warnf("googleFit: skipping session %s, bad bounds", s.ID)
			continue
		}
		sessions = append(sessions, internal.SleepSession{
			ID:        s.ID,
			StartTime: time.UnixMilli(startMs).UTC(),
			EndTime:   time.UnixMilli(endMs).UTC(),
			Duration:  endMs - startMs,
			Source:    s.Application.PackageName,
			Stages:    extractStages(points, startMs, endMs),
		})
	}
	return sessions
}

// aggregatePoints pulls the stage points out of the aggregate response.
// Any missing level of nesting means no stage detail, not an error.
func aggregatePoints(raw []byte) []googlePoint {
	var agg googleAggregateResponse
	if err := json.Unmarshal(raw, &agg); err != nil {
		return nil
	}
	if len(agg.Bucket) == 0 || len(agg.Bucket[0].Dataset) == 0 {
		return nil
	}
	return agg.Bucket[0].Dataset[0].Point
}

// extractStages keeps only points whose start falls within the session
// bounds; points outside are dropped silently.
func extractStages(points []googlePoint, sessionStartMs, sessionEndMs int64) []internal.StageSegment {
	if len(points) == 0 {
		return []internal.StageSegment{}
	}
	segments := []internal.StageSegment{}
	for _, p := range points {
		startNanos, err1 := strconv.ParseInt(p.StartTimeNanos, 10, 64)
		endNanos, err2 := strconv.ParseInt(p.EndTimeNanos, 10, 64)
		if err1 != nil || err2 != nil || len(p.Value) == 0 {
			continue
		}
		startMs := startNanos / 1e6
		endMs := endNanos / 1e6
		if startMs < sessionStartMs || startMs > sessionEndMs {
			continue
		}
		st := classifyGoogleStage(p.Value[0].IntVal)
		segments = append(segments, internal.StageSegment{
			Type:      st.Type,
			TypeName:  st.TypeName,
			StartTime: time.UnixMilli(startMs).UTC(),
			EndTime:   time.UnixMilli(endMs).UTC(),
			Duration:  endMs - startMs,
		})
	}
	return segments
}

var _ Client = (*GoogleFitClient)(nil)
var _ Authorizer = (*GoogleFitClient)(nil)
