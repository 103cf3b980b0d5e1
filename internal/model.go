package internal

import "time"

// Canonical sleep stage codes. Union of the provider vocabularies; every
// provider's native codes are mapped onto these during normalization.
const (
	StageAwake       = 1
	StageUnspecified = 2 // generic "sleep", no stage detail
	StageInBed       = 3
	StageLight       = 4
	StageDeep        = 5
	StageREM         = 6
)

// StageNames maps canonical stage codes to display labels.
var StageNames = map[int]string{
	StageAwake:       "Awake",
	StageUnspecified: "Sleep",
	StageInBed:       "InBed",
	StageLight:       "Light sleep",
	StageDeep:        "Deep sleep",
	StageREM:         "REM",
}

// SleepSession is one continuous provider-tracked sleep record, normalized
// into the canonical shape. Duration is always derived from the bounds,
// never taken from the provider payload.
type SleepSession struct {
	ID         string         `json:"id"`
	StartTime  time.Time      `json:"start_time"`
	EndTime    time.Time      `json:"end_time"`
	Duration   int64          `json:"duration"` // milliseconds, == EndTime - StartTime
	Source     string         `json:"source"`
	Stages     []StageSegment `json:"stages"`
	Efficiency int            `json:"efficiency,omitempty"` // Fitbit pass-through
	MainSleep  bool           `json:"main_sleep,omitempty"` // Fitbit pass-through
}

// StageSegment is one stage interval inside a session. Segments are
// chronological but not guaranteed contiguous or non-overlapping.
type StageSegment struct {
	Type      int       `json:"type"`
	TypeName  string    `json:"type_name"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Duration  int64     `json:"duration"` // milliseconds, == EndTime - StartTime
}

// SleepLogEntry is a manually entered record, distinct from provider
// sessions. Quality stays on the form's 1-10 scale here; conversion to the
// 0-100 canonical score happens only in metrics.QualityScore.
type SleepLogEntry struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"` // calendar day, YYYY-MM-DD
	SleepTime time.Time `json:"sleep_time"`
	WakeTime  time.Time `json:"wake_time"`
	Duration  float64   `json:"duration"` // hours
	Quality   int       `json:"quality"`  // 1-10
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ReminderDays is the weekly recurrence mask for a reminder.
type ReminderDays struct {
	Monday    bool `json:"monday"`
	Tuesday   bool `json:"tuesday"`
	Wednesday bool `json:"wednesday"`
	Thursday  bool `json:"thursday"`
	Friday    bool `json:"friday"`
	Saturday  bool `json:"saturday"`
	Sunday    bool `json:"sunday"`
}

type Reminder struct {
	ID      string       `json:"id"`
	Time    string       `json:"time"` // 24h "HH:MM"
	Days    ReminderDays `json:"days"`
	Message string       `json:"message"`
	Enabled bool         `json:"enabled"`
}

// Credential is a stored provider token set. Expiry is an approximation:
// a credential is usable while unexpired OR while a refresh token exists,
// but no refresh call is ever made.
type Credential struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int64  `json:"expires_in"` // seconds
	Timestamp    int64  `json:"timestamp"`  // unix milliseconds at acquisition
}

// Usable reports whether the credential can still be presented upstream.
func (c *Credential) Usable(nowMillis int64) bool {
	if c == nil || c.AccessToken == "" {
		return false
	}
	expired := c.Timestamp+c.ExpiresIn*1000 < nowMillis
	return !expired || c.RefreshToken != ""
}

// UserProfile holds the dashboard user's settings.
type UserProfile struct {
	Name      string  `json:"name"`
	Age       int     `json:"age,omitempty"`
	SleepGoal float64 `json:"sleep_goal"` // target hours per night
}

// User is the authenticated API caller.
type User struct {
	ID    string `json:"id"`
	Token string `json:"token"`
	Name  string `json:"name"`
}
