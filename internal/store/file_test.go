package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/yourname/sleepdash/internal"
)

func testPaths(t *testing.T) FilePaths {
	dir := t.TempDir()
	return FilePaths{
		Entries:     filepath.Join(dir, "sleepTrackerData.json"),
		Reminders:   filepath.Join(dir, "sleepReminders.json"),
		Credentials: filepath.Join(dir, "sleepTrackerCredentials.json"),
		Profile:     filepath.Join(dir, "sleepTrackerSettings.json"),
		AppleHealth: filepath.Join(dir, "appleHealthData.json"),
	}
}

func newTestStore(t *testing.T, paths FilePaths) *FileStore {
	s, err := NewFileStore(paths, internal.NewZapLogger(zap.NewNop().Sugar()))
	assert.NoError(t, err)
	return s
}

func TestFileStoreEntries(t *testing.T) {
	s := newTestStore(t, testPaths(t))
	defer s.Close()
	ctx := context.Background()

	older := internal.SleepLogEntry{ID: "e1", Date: "2024-01-01", Duration: 8, Quality: 7, CreatedAt: time.Now().UTC()}
	newer := internal.SleepLogEntry{ID: "e2", Date: "2024-01-05", Duration: 7, Quality: 6, CreatedAt: time.Now().UTC()}
	assert.NoError(t, s.PutEntry(ctx, &older))
	assert.NoError(t, s.PutEntry(ctx, &newer))

	entries, err := s.ListEntries(ctx)
	assert.NoError(t, err)
	assert.Len(t, entries, 2)
	// Newest date first.
	assert.Equal(t, "e2", entries[0].ID)
	assert.Equal(t, "e1", entries[1].ID)

	// Put with an existing id replaces in place.
	older.Quality = 9
	assert.NoError(t, s.PutEntry(ctx, &older))
	entries, _ = s.ListEntries(ctx)
	assert.Len(t, entries, 2)
	assert.Equal(t, 9, entries[1].Quality)

	assert.NoError(t, s.DeleteEntry(ctx, "e1"))
	assert.ErrorIs(t, s.DeleteEntry(ctx, "e1"), ErrNotFound)
	entries, _ = s.ListEntries(ctx)
	assert.Len(t, entries, 1)
}

func TestFileStoreReminders(t *testing.T) {
	s := newTestStore(t, testPaths(t))
	defer s.Close()
	ctx := context.Background()

	r := internal.Reminder{ID: "r1", Time: "22:30", Enabled: true, Days: internal.ReminderDays{Monday: true, Tuesday: true}}
	assert.NoError(t, s.PutReminder(ctx, &r))

	reminders, err := s.ListReminders(ctx)
	assert.NoError(t, err)
	assert.Len(t, reminders, 1)
	assert.True(t, reminders[0].Enabled)

	r.Enabled = false
	assert.NoError(t, s.PutReminder(ctx, &r))
	reminders, _ = s.ListReminders(ctx)
	assert.Len(t, reminders, 1)
	assert.False(t, reminders[0].Enabled)

	assert.NoError(t, s.DeleteReminder(ctx, "r1"))
	assert.ErrorIs(t, s.DeleteReminder(ctx, "r1"), ErrNotFound)
}

func TestFileStoreCredentials(t *testing.T) {
	s := newTestStore(t, testPaths(t))
	defer s.Close()
	ctx := context.Background()

	// Absent credential is nil, nil rather than an error.
	cred, err := s.GetCredential(ctx, "fitbit")
	assert.NoError(t, err)
	assert.Nil(t, cred)

	stored := internal.Credential{AccessToken: "tok", RefreshToken: "ref", ExpiresIn: 3600, Timestamp: time.Now().UnixMilli()}
	assert.NoError(t, s.SetCredential(ctx, "fitbit", &stored))

	cred, err = s.GetCredential(ctx, "fitbit")
	assert.NoError(t, err)
	assert.Equal(t, "tok", cred.AccessToken)

	// The returned copy is detached from the stored value.
	cred.AccessToken = "mutated"
	again, _ := s.GetCredential(ctx, "fitbit")
	assert.Equal(t, "tok", again.AccessToken)

	assert.NoError(t, s.DeleteCredential(ctx, "fitbit"))
	cred, err = s.GetCredential(ctx, "fitbit")
	assert.NoError(t, err)
	assert.Nil(t, cred)
}

func TestFileStoreProfile(t *testing.T) {
	s := newTestStore(t, testPaths(t))
	defer s.Close()
	ctx := context.Background()

	p, err := s.GetProfile(ctx)
	assert.NoError(t, err)
	assert.Nil(t, p)

	assert.NoError(t, s.SetProfile(ctx, &internal.UserProfile{Name: "Demo", Age: 30, SleepGoal: 8}))
	p, err = s.GetProfile(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "Demo", p.Name)
	assert.Equal(t, 8.0, p.SleepGoal)
}

func TestFileStoreApplePayload(t *testing.T) {
	s := newTestStore(t, testPaths(t))
	defer s.Close()
	ctx := context.Background()

	raw, err := s.AppleHealthPayload(ctx)
	assert.NoError(t, err)
	assert.Nil(t, raw)

	payload := []byte(`{"sleepSessions": []}`)
	assert.NoError(t, s.SetAppleHealthPayload(ctx, payload))
	raw, err = s.AppleHealthPayload(ctx)
	assert.NoError(t, err)
	assert.Equal(t, payload, raw)
}

func TestFileStorePersistsAcrossReopen(t *testing.T) {
	paths := testPaths(t)
	ctx := context.Background()

	s := newTestStore(t, paths)
	assert.NoError(t, s.PutEntry(ctx, &internal.SleepLogEntry{ID: "e1", Date: "2024-01-01", Duration: 8, Quality: 7}))
	assert.NoError(t, s.PutReminder(ctx, &internal.Reminder{ID: "r1", Time: "22:00", Enabled: true}))
	assert.NoError(t, s.SetCredential(ctx, "fitbit", &internal.Credential{AccessToken: "tok"}))
	assert.NoError(t, s.SetProfile(ctx, &internal.UserProfile{Name: "Demo", SleepGoal: 8}))
	assert.NoError(t, s.SetAppleHealthPayload(ctx, []byte(`{"sleepSessions": []}`)))
	// Close flushes synchronously, no need to wait for the debounce.
	assert.NoError(t, s.Close())

	s = newTestStore(t, paths)
	defer s.Close()

	entries, _ := s.ListEntries(ctx)
	assert.Len(t, entries, 1)
	reminders, _ := s.ListReminders(ctx)
	assert.Len(t, reminders, 1)
	cred, _ := s.GetCredential(ctx, "fitbit")
	assert.NotNil(t, cred)
	assert.Equal(t, "tok", cred.AccessToken)
	p, _ := s.GetProfile(ctx)
	assert.NotNil(t, p)
	raw, _ := s.AppleHealthPayload(ctx)
	assert.JSONEq(t, `{"sleepSessions": []}`, string(raw))
}
