package domain

import (
	"context"
	"fmt"
	"time"
)

// DayFormat is the canonical YYYY-MM-DD layout for entry dates.
const DayFormat = "2006-01-02"

// Entry represents one weight measurement for a calendar day.
type Entry struct {
	Day     string    `json:"day"`
	Date    time.Time `json:"-"`
	Weight  float64   `json:"weight"`
	BodyFat *float64  `json:"bodyFat,omitempty"`
	Notes   string    `json:"notes,omitempty"`
}

// NewEntry builds an Entry for the calendar day of date, read in the
// date's own location and normalized to midnight UTC.
func NewEntry(date time.Time, weight float64) Entry {
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return Entry{Day: d.Format(DayFormat), Date: d, Weight: weight}
}

// ParseDay parses a YYYY-MM-DD day string into its midnight UTC time.
// Anything time.Parse rejects, including out-of-range months and days,
// comes back as ErrInvalidDate.
func ParseDay(day string) (time.Time, error) {
	t, err := time.Parse(DayFormat, day)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, day)
	}
	return t, nil
}

// EntryStore is the port for weight log persistence.
type EntryStore interface {
	ListEntries(ctx context.Context) ([]Entry, error)
	UpsertEntry(ctx context.Context, e Entry) error
	DeleteEntry(ctx context.Context, day string) (bool, error)
	ReplaceEntries(ctx context.Context, entries []Entry) error
}
