package store

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yourname/sleepdash/internal"
)

// PostgresStore persists each collection as one JSONB document keyed by
// its logical name, mirroring the whole-collection-per-key model of the
// file backend.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger internal.Logger
}

func NewPostgresStore(dsn string, logger internal.Logger) (*PostgresStore, error) {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Errorf("failed to connect to postgres: %v", err)
		return nil, err
	}
	if _, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS collections (name TEXT PRIMARY KEY, doc JSONB NOT NULL)`); err != nil {
		logger.Errorf("failed to create collections table: %v", err)
		pool.Close()
		return nil, err
	}
	return &PostgresStore{pool: pool, logger: logger}, nil
}

func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}

// readDoc loads a whole collection into v. Returns false when the
// collection has never been written.
func (p *PostgresStore) readDoc(ctx context.Context, name string, v interface{}) (bool, error) {
	var raw []byte
	err := p.pool.QueryRow(ctx, `SELECT doc FROM collections WHERE name = $1`, name).Scan(&raw)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		p.logger.Errorf("failed to read collection %s: %v", name, err)
		return false, err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		p.logger.Errorf("failed to decode collection %s: %v", name, err)
		return false, err
	}
	return true, nil
}

func (p *PostgresStore) writeDoc(ctx context.Context, name string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx,
		`INSERT INTO collections (name, doc) VALUES ($1, $2)
		 ON CONFLICT (name) DO UPDATE SET doc = EXCLUDED.doc`, name, raw)
	if err != nil {
		p.logger.Errorf("failed to write collection %s: %v", name, err)
	}
	return err
}

// --- EntryRepository ---

func (p *PostgresStore) ListEntries(ctx context.Context) ([]internal.SleepLogEntry, error) {
	var entries []internal.SleepLogEntry
	if _, err := p.readDoc(ctx, CollectionEntries, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []internal.SleepLogEntry{}
	}
	return entries, nil
}

func (p *PostgresStore) PutEntry(ctx context.Context, entry *internal.SleepLogEntry) error {
	entries, err := p.ListEntries(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i := range entries {
		if entries[i].ID == entry.ID {
			entries[i] = *entry
			replaced = true
			break
		}
	}
	if !replaced {
		entries = append(entries, *entry)
	}
	return p.writeDoc(ctx, CollectionEntries, entries)
}

func (p *PostgresStore) DeleteEntry(ctx context.Context, id string) error {
	entries, err := p.ListEntries(ctx)
	if err != nil {
		return err
	}
	for i := range entries {
		if entries[i].ID == id {
			entries = append(entries[:i], entries[i+1:]...)
			return p.writeDoc(ctx, CollectionEntries, entries)
		}
	}
	return ErrNotFound
}

// --- ReminderRepository ---

func (p *PostgresStore) ListReminders(ctx context.Context) ([]internal.Reminder, error) {
	var reminders []internal.Reminder
	if _, err := p.readDoc(ctx, CollectionReminders, &reminders); err != nil {
		return nil, err
	}
	if reminders == nil {
		reminders = []internal.Reminder{}
	}
	return reminders, nil
}

func (p *PostgresStore) PutReminder(ctx context.Context, r *internal.Reminder) error {
	reminders, err := p.ListReminders(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i := range reminders {
		if reminders[i].ID == r.ID {
			reminders[i] = *r
			replaced = true
			break
		}
	}
	if !replaced {
		reminders = append(reminders, *r)
	}
	return p.writeDoc(ctx, CollectionReminders, reminders)
}

func (p *PostgresStore) DeleteReminder(ctx context.Context, id string) error {
	reminders, err := p.ListReminders(ctx)
	if err != nil {
		return err
	}
	for i := range reminders {
		if reminders[i].ID == id {
			reminders = append(reminders[:i], reminders[i+1:]...)
			return p.writeDoc(ctx, CollectionReminders, reminders)
		}
	}
	return ErrNotFound
}

// --- CredentialRepository ---

func (p *PostgresStore) GetCredential(ctx context.Context, provider string) (*internal.Credential, error) {
	creds, err := p.credentials(ctx)
	if err != nil {
		return nil, err
	}
	cred, ok := creds[provider]
	if !ok {
		return nil, nil
	}
	return cred, nil
}

func (p *PostgresStore) SetCredential(ctx context.Context, provider string, cred *internal.Credential) error {
	creds, err := p.credentials(ctx)
	if err != nil {
		return err
	}
	c := *cred
	creds[provider] = &c
	return p.writeDoc(ctx, CollectionCredentials, creds)
}

func (p *PostgresStore) DeleteCredential(ctx context.Context, provider string) error {
	creds, err := p.credentials(ctx)
	if err != nil {
		return err
	}
	delete(creds, provider)
	return p.writeDoc(ctx, CollectionCredentials, creds)
}

func (p *PostgresStore) credentials(ctx context.Context) (map[string]*internal.Credential, error) {
	creds := make(map[string]*internal.Credential)
	if _, err := p.readDoc(ctx, CollectionCredentials, &creds); err != nil {
		return nil, err
	}
	return creds, nil
}

// --- ProfileRepository ---

func (p *PostgresStore) GetProfile(ctx context.Context) (*internal.UserProfile, error) {
	var profile internal.UserProfile
	found, err := p.readDoc(ctx, CollectionProfile, &profile)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &profile, nil
}

func (p *PostgresStore) SetProfile(ctx context.Context, profile *internal.UserProfile) error {
	return p.writeDoc(ctx, CollectionProfile, profile)
}

// --- PayloadRepository ---

func (p *PostgresStore) AppleHealthPayload(ctx context.Context) ([]byte, error) {
	var payload json.RawMessage
	found, err := p.readDoc(ctx, CollectionAppleHealth, &payload)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return payload, nil
}

func (p *PostgresStore) SetAppleHealthPayload(ctx context.Context, raw []byte) error {
	return p.writeDoc(ctx, CollectionAppleHealth, json.RawMessage(raw))
}

// --- Compile-time assertions ---
var _ Store = (*PostgresStore)(nil)
