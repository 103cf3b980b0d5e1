package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/yourname/sleepdash/internal"
	"github.com/yourname/sleepdash/internal/metrics"
	"github.com/yourname/sleepdash/internal/store"
)

var validate = validator.New()

// EntryRequest is a manual sleep log submission. Quality stays on the
// form's 1-10 scale.
type EntryRequest struct {
	Date      string    `json:"date" validate:"required,datetime=2006-01-02"`
	SleepTime time.Time `json:"sleep_time" validate:"required"`
	WakeTime  time.Time `json:"wake_time" validate:"required"`
	Quality   int       `json:"quality" validate:"required,gte=1,lte=10"`
	Notes     string    `json:"notes,omitempty" validate:"omitempty"`
}

func ValidateEntryRequest(body *EntryRequest) error {
	if err := validate.Struct(body); err != nil {
		return err
	}
	duration := metrics.SleepDuration(body.SleepTime, body.WakeTime)
	if duration <= 0 || duration > 24 {
		return errors.New("sleep duration must be between 0 and 24 hours")
	}
	return nil
}

// CreateEntry mints a new entry. This is the only normalization-adjacent
// path allowed to derive an id from the current time.
func CreateEntry(ctx context.Context, repo store.EntryRepository, body *EntryRequest) (*internal.SleepLogEntry, error) {
	entry := &internal.SleepLogEntry{
		ID:        uuid.NewString(),
		Date:      body.Date,
		SleepTime: body.SleepTime,
		WakeTime:  body.WakeTime,
		Duration:  metrics.SleepDuration(body.SleepTime, body.WakeTime),
		Quality:   body.Quality,
		Notes:     body.Notes,
		CreatedAt: time.Now(),
	}
	if err := repo.PutEntry(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// UpdateEntry overwrites an existing entry wholesale; there are no
// partial edits.
func UpdateEntry(ctx context.Context, repo store.EntryRepository, id string, body *EntryRequest) (*internal.SleepLogEntry, error) {
	existing, err := findEntry(ctx, repo, id)
	if err != nil {
		return nil, err
	}
	entry := &internal.SleepLogEntry{
		ID:        id,
		Date:      body.Date,
		SleepTime: body.SleepTime,
		WakeTime:  body.WakeTime,
		Duration:  metrics.SleepDuration(body.SleepTime, body.WakeTime),
		Quality:   body.Quality,
		Notes:     body.Notes,
		CreatedAt: existing.CreatedAt,
	}
	if err := repo.PutEntry(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func findEntry(ctx context.Context, repo store.EntryRepository, id string) (*internal.SleepLogEntry, error) {
	entries, err := repo.ListEntries(ctx)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].ID == id {
			return &entries[i], nil
		}
	}
	return nil, store.ErrNotFound
}
