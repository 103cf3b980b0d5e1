package store

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/yourname/sleepdash/internal"
)

// FilePaths names the JSON file backing each collection.
type FilePaths struct {
	Entries     string
	Reminders   string
	Credentials string
	Profile     string
	AppleHealth string
}

// FileStore keeps every collection in memory and writes each back to its
// JSON file through a debounced background worker, so bursts of writes
// collapse into one save.
type FileStore struct {
	mu           sync.RWMutex
	entries      []internal.SleepLogEntry
	reminders    []internal.Reminder
	credentials  map[string]*internal.Credential
	profile      *internal.UserProfile
	applePayload json.RawMessage

	paths     FilePaths
	dirty     map[string]chan struct{}
	shutdown  chan struct{}
	saveDelay time.Duration
	logger    internal.Logger
}

func NewFileStore(paths FilePaths, logger internal.Logger) (*FileStore, error) {
	s := &FileStore{
		credentials: make(map[string]*internal.Credential),
		paths:       paths,
		dirty:       make(map[string]chan struct{}),
		shutdown:    make(chan struct{}),
		saveDelay:   500 * time.Millisecond,
		logger:      logger,
	}

	if err := s.load(); err != nil {
		logger.Errorf("storage: failed to load collections: %v", err)
		return nil, err
	}

	for name, save := range s.savers() {
		ch := make(chan struct{}, 1)
		s.dirty[name] = ch
		go s.saveWorker(name, ch, save)
	}
	return s, nil
}

func (s *FileStore) savers() map[string]func() error {
	return map[string]func() error{
		CollectionEntries:     s.saveEntries,
		CollectionReminders:   s.saveReminders,
		CollectionCredentials: s.saveCredentials,
		CollectionProfile:     s.saveProfile,
		CollectionAppleHealth: s.saveApplePayload,
	}
}

func (s *FileStore) load() error {
	if err := loadJSON(s.paths.Entries, &s.entries); err != nil {
		return err
	}
	sort.Slice(s.entries, func(i, j int) bool {
		return s.entries[i].Date > s.entries[j].Date
	})
	if err := loadJSON(s.paths.Reminders, &s.reminders); err != nil {
		return err
	}
	if err := loadJSON(s.paths.Credentials, &s.credentials); err != nil {
		return err
	}
	if s.credentials == nil {
		s.credentials = make(map[string]*internal.Credential)
	}
	if err := loadJSON(s.paths.Profile, &s.profile); err != nil {
		return err
	}
	return loadJSON(s.paths.AppleHealth, &s.applePayload)
}

func loadJSON(path string, v interface{}) error {
	if path == "" {
		return nil
	}
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

func atomicWriteFileJSON(filePath string, data interface{}) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return err
	}
	tempFile := filePath + ".tmp"
	f, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, filePath)
}

func (s *FileStore) saveWorker(name string, dirty chan struct{}, save func() error) {
	timer := time.NewTimer(s.saveDelay)
	defer timer.Stop()

	for {
		select {
		case <-dirty:
			timer.Reset(s.saveDelay)
		case <-timer.C:
			if err := save(); err != nil {
				s.logger.Errorf("storage: error saving %s: %v", name, err)
			}
		case <-s.shutdown:
			return
		}
	}
}

func (s *FileStore) markDirty(name string) {
	select {
	case s.dirty[name] <- struct{}{}:
	default:
	}
}

func (s *FileStore) saveEntries() error {
	s.mu.RLock()
	entries := make([]internal.SleepLogEntry, len(s.entries))
	copy(entries, s.entries)
	s.mu.RUnlock()
	return atomicWriteFileJSON(s.paths.Entries, entries)
}

func (s *FileStore) saveReminders() error {
	s.mu.RLock()
	reminders := make([]internal.Reminder, len(s.reminders))
	copy(reminders, s.reminders)
	s.mu.RUnlock()
	return atomicWriteFileJSON(s.paths.Reminders, reminders)
}

func (s *FileStore) saveCredentials() error {
	s.mu.RLock()
	creds := make(map[string]*internal.Credential, len(s.credentials))
	for k, v := range s.credentials {
		creds[k] = v
	}
	s.mu.RUnlock()
	return atomicWriteFileJSON(s.paths.Credentials, creds)
}

func (s *FileStore) saveProfile() error {
	s.mu.RLock()
	profile := s.profile
	s.mu.RUnlock()
	if profile == nil {
		return nil
	}
	return atomicWriteFileJSON(s.paths.Profile, profile)
}

func (s *FileStore) saveApplePayload() error {
	s.mu.RLock()
	payload := s.applePayload
	s.mu.RUnlock()
	if payload == nil {
		return nil
	}
	return atomicWriteFileJSON(s.paths.AppleHealth, payload)
}

// Close stops the save workers and flushes all collections synchronously.
func (s *FileStore) Close() error {
	close(s.shutdown)
	for _, save := range s.savers() {
		if err := save(); err != nil {
			return err
		}
	}
	return nil
}

// --- EntryRepository ---

func (s *FileStore) ListEntries(ctx context.Context) ([]internal.SleepLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]internal.SleepLogEntry, len(s.entries))
	copy(entries, s.entries)
	return entries, nil
}

func (s *FileStore) PutEntry(ctx context.Context, entry *internal.SleepLogEntry) error {
	s.mu.Lock()
	replaced := false
	for i := range s.entries {
		if s.entries[i].ID == entry.ID {
			s.entries[i] = *entry
			replaced = true
			break
		}
	}
	if !replaced {
		s.entries = append(s.entries, *entry)
		sort.Slice(s.entries, func(i, j int) bool {
			return s.entries[i].Date > s.entries[j].Date
		})
	}
	s.mu.Unlock()
	s.markDirty(CollectionEntries)
	return nil
}

func (s *FileStore) DeleteEntry(ctx context.Context, id string) error {
	s.mu.Lock()
	found := false
	for i := range s.entries {
		if s.entries[i].ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			found = true
			break
		}
	}
	s.mu.Unlock()
	if !found {
		return ErrNotFound
	}
	s.markDirty(CollectionEntries)
	return nil
}

// --- ReminderRepository ---

func (s *FileStore) ListReminders(ctx context.Context) ([]internal.Reminder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reminders := make([]internal.Reminder, len(s.reminders))
	copy(reminders, s.reminders)
	return reminders, nil
}

func (s *FileStore) PutReminder(ctx context.Context, r *internal.Reminder) error {
	s.mu.Lock()
	replaced := false
	for i := range s.reminders {
		if s.reminders[i].ID == r.ID {
			s.reminders[i] = *r
			replaced = true
			break
		}
	}
	if !replaced {
		s.reminders = append(s.reminders, *r)
	}
	s.mu.Unlock()
	s.markDirty(CollectionReminders)
	return nil
}

func (s *FileStore) DeleteReminder(ctx context.Context, id string) error {
	s.mu.Lock()
	found := false
	for i := range s.reminders {
		if s.reminders[i].ID == id {
			s.reminders = append(s.reminders[:i], s.reminders[i+1:]...)
			found = true
			break
		}
	}
	s.mu.Unlock()
	if !found {
		return ErrNotFound
	}
	s.markDirty(CollectionReminders)
	return nil
}

// --- CredentialRepository ---

func (s *FileStore) GetCredential(ctx context.Context, provider string) (*internal.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cred, ok := s.credentials[provider]
	if !ok {
		return nil, nil
	}
	c := *cred
	return &c, nil
}

func (s *FileStore) SetCredential(ctx context.Context, provider string, cred *internal.Credential) error {
	s.mu.Lock()
	c := *cred
	s.credentials[provider] = &c
	s.mu.Unlock()
	s.markDirty(CollectionCredentials)
	return nil
}

func (s *FileStore) DeleteCredential(ctx context.Context, provider string) error {
	s.mu.Lock()
	delete(s.credentials, provider)
	s.mu.Unlock()
	s.markDirty(CollectionCredentials)
	return nil
}

// --- ProfileRepository ---

func (s *FileStore) GetProfile(ctx context.Context) (*internal.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return nil, nil
	}
	p := *s.profile
	return &p, nil
}

func (s *FileStore) SetProfile(ctx context.Context, p *internal.UserProfile) error {
	s.mu.Lock()
	profile := *p
	s.profile = &profile
	s.mu.Unlock()
	s.markDirty(CollectionProfile)
	return nil
}

// --- PayloadRepository ---

func (s *FileStore) AppleHealthPayload(ctx context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.applePayload == nil {
		return nil, nil
	}
	payload := make([]byte, len(s.applePayload))
	copy(payload, s.applePayload)
	return payload, nil
}

func (s *FileStore) SetAppleHealthPayload(ctx context.Context, raw []byte) error {
	s.mu.Lock()
	s.applePayload = append(json.RawMessage(nil), raw...)
	s.mu.Unlock()
	s.markDirty(CollectionAppleHealth)
	return nil
}

// --- Compile-time assertions ---
var _ Store = (*FileStore)(nil)
