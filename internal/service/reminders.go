package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/yourname/sleepdash/internal"
	"github.com/yourname/sleepdash/internal/store"
)

type ReminderRequest struct {
	Time    string                `json:"time" validate:"required,datetime=15:04"`
	Days    internal.ReminderDays `json:"days"`
	Message string                `json:"message" validate:"required"`
	Enabled bool                  `json:"enabled"`
}

func ValidateReminderRequest(body *ReminderRequest) error {
	return validate.Struct(body)
}

func CreateReminder(ctx context.Context, repo store.ReminderRepository, body *ReminderRequest) (*internal.Reminder, error) {
	r := &internal.Reminder{
		ID:      uuid.NewString(),
		Time:    body.Time,
		Days:    body.Days,
		Message: body.Message,
		Enabled: body.Enabled,
	}
	if err := repo.PutReminder(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func UpdateReminder(ctx context.Context, repo store.ReminderRepository, id string, body *ReminderRequest) (*internal.Reminder, error) {
	if _, err := findReminder(ctx, repo, id); err != nil {
		return nil, err
	}
	r := &internal.Reminder{
		ID:      id,
		Time:    body.Time,
		Days:    body.Days,
		Message: body.Message,
		Enabled: body.Enabled,
	}
	if err := repo.PutReminder(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// ToggleReminder flips the enabled flag in place.
func ToggleReminder(ctx context.Context, repo store.ReminderRepository, id string) (*internal.Reminder, error) {
	r, err := findReminder(ctx, repo, id)
	if err != nil {
		return nil, err
	}
	r.Enabled = !r.Enabled
	if err := repo.PutReminder(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func findReminder(ctx context.Context, repo store.ReminderRepository, id string) (*internal.Reminder, error) {
	reminders, err := repo.ListReminders(ctx)
	if err != nil {
		return nil, err
	}
	for i := range reminders {
		if reminders[i].ID == id {
			return &reminders[i], nil
		}
	}
	return nil, store.ErrNotFound
}

// FormatReminderTime renders a 24h "HH:MM" time on a 12h clock.
func FormatReminderTime(time24h string) string {
	parts := strings.SplitN(time24h, ":", 2)
	if len(parts) != 2 {
		return time24h
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return time24h
	}
	period := "AM"
	if hour >= 12 {
		period = "PM"
	}
	hour12 := hour % 12
	if hour12 == 0 {
		hour12 = 12
	}
	return fmt.Sprintf("%d:%s %s", hour12, parts[1], period)
}

// ParseReminderTime converts "10:30 PM" back to 24h "22:30".
func ParseReminderTime(time12h string) (string, error) {
	fields := strings.Fields(time12h)
	if len(fields) != 2 {
		return "", errors.New("expected time in \"H:MM AM/PM\" form")
	}
	parts := strings.SplitN(fields[0], ":", 2)
	if len(parts) != 2 {
		return "", errors.New("expected time in \"H:MM AM/PM\" form")
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return "", err
	}
	period := strings.ToUpper(fields[1])
	if period == "PM" && hour < 12 {
		hour += 12
	} else if period == "AM" && hour == 12 {
		hour = 0
	}
	return fmt.Sprintf("%02d:%s", hour, parts[1]), nil
}

// DescribeDays summarizes a recurrence mask for display.
func DescribeDays(days internal.ReminderDays) string {
	names := []string{}
	flags := []struct {
		on   bool
		name string
	}{
		{days.Monday, "Monday"},
		{days.Tuesday, "Tuesday"},
		{days.Wednesday, "Wednesday"},
		{days.Thursday, "Thursday"},
		{days.Friday, "Friday"},
		{days.Saturday, "Saturday"},
		{days.Sunday, "Sunday"},
	}
	for _, f := range flags {
		if f.on {
			names = append(names, f.name)
		}
	}
	switch {
	case len(names) == 7:
		return "Every day"
	case len(names) == 0:
		return "Never"
	case len(names) == 5 && days.Monday && days.Tuesday && days.Wednesday && days.Thursday && days.Friday:
		return "Weekdays"
	case len(names) == 2 && days.Saturday && days.Sunday:
		return "Weekends"
	default:
		return strings.Join(names, ", ")
	}
}
