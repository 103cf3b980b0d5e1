package store

import (
	"context"
	"errors"

	"github.com/yourname/sleepdash/internal"
)

// Each entity collection is serialized as a whole under a fixed logical
// key and loaded fully per access; there is no partial load. The names
// match the dashboard's original client-side storage keys.
const (
	CollectionEntries     = "sleepTrackerData"
	CollectionReminders   = "sleepReminders"
	CollectionProfile     = "sleepTrackerSettings"
	CollectionCredentials = "sleepTrackerCredentials"
	CollectionAppleHealth = "appleHealthData"
)

var ErrNotFound = errors.New("storage: not found")

// EntryRepository manages manually logged sleep entries. An edit is a full
// replacement by id.
type EntryRepository interface {
	ListEntries(ctx context.Context) ([]internal.SleepLogEntry, error)
	PutEntry(ctx context.Context, entry *internal.SleepLogEntry) error
	DeleteEntry(ctx context.Context, id string) error
}

type ReminderRepository interface {
	ListReminders(ctx context.Context) ([]internal.Reminder, error)
	PutReminder(ctx context.Context, r *internal.Reminder) error
	DeleteReminder(ctx context.Context, id string) error
}

// CredentialRepository stores one credential per provider key,
// overwrite-only. A missing credential is (nil, nil), not an error.
type CredentialRepository interface {
	GetCredential(ctx context.Context, provider string) (*internal.Credential, error)
	SetCredential(ctx context.Context, provider string, cred *internal.Credential) error
	DeleteCredential(ctx context.Context, provider string) error
}

type ProfileRepository interface {
	GetProfile(ctx context.Context) (*internal.UserProfile, error)
	SetProfile(ctx context.Context, p *internal.UserProfile) error
}

// PayloadRepository holds the raw Apple Health companion-app payload, the
// ingest target for that provider.
type PayloadRepository interface {
	AppleHealthPayload(ctx context.Context) ([]byte, error)
	SetAppleHealthPayload(ctx context.Context, raw []byte) error
}

// Store is the full persistence surface behind the API.
type Store interface {
	EntryRepository
	ReminderRepository
	CredentialRepository
	ProfileRepository
	PayloadRepository
	Close() error
}
