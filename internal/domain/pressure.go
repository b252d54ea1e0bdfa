package domain

import (
	"context"
	"time"
)

// Reading represents one blood pressure measurement. Unlike weight
// entries, a day may hold any number of readings.
type Reading struct {
	ID        int64     `json:"id"`
	Day       string    `json:"day"`
	Date      time.Time `json:"-"`
	Systolic  int       `json:"systolic"`
	Diastolic int       `json:"diastolic"`
	Notes     string    `json:"notes,omitempty"`
}

// ReadingStore is the port for blood pressure persistence.
type ReadingStore interface {
	AddReading(ctx context.Context, r Reading) (int64, error)
	DeleteReading(ctx context.Context, id int64) (bool, error)
	ListReadings(ctx context.Context) ([]Reading, error)
}
