package app

import (
	"context"
	"fmt"
	"io"

	"weightlog/internal/adapter/csvfile"
	"weightlog/internal/domain"
	"weightlog/internal/stats"
)

// PressureLog encapsulates blood pressure use cases.
type PressureLog struct {
	validator domain.Validator
	store     domain.ReadingStore
}

// NewPressureLog creates a PressureLog backed by the given store.
func NewPressureLog(validator domain.Validator, store domain.ReadingStore) *PressureLog {
	return &PressureLog{validator: validator, store: store}
}

// AddReading validates and stores a reading. A day may hold any
// number of readings.
func (p *PressureLog) AddReading(ctx context.Context, day string, systolic, diastolic int, notes string) (domain.Reading, error) {
	r, err := p.validator.ValidateReading(day, systolic, diastolic, notes)
	if err != nil {
		return domain.Reading{}, err
	}
	id, err := p.store.AddReading(ctx, r)
	if err != nil {
		return domain.Reading{}, fmt.Errorf("persist reading: %w", err)
	}
	r.ID = id
	return r, nil
}

// RemoveReading deletes a reading by id, reporting whether it existed.
func (p *PressureLog) RemoveReading(ctx context.Context, id int64) (bool, error) {
	return p.store.DeleteReading(ctx, id)
}

// Readings returns all readings sorted by day, oldest first.
func (p *PressureLog) Readings(ctx context.Context) ([]domain.Reading, error) {
	return p.store.ListReadings(ctx)
}

// Summary aggregates all stored readings.
func (p *PressureLog) Summary(ctx context.Context) (stats.PressureSummary, error) {
	readings, err := p.store.ListReadings(ctx)
	if err != nil {
		return stats.PressureSummary{}, err
	}
	return stats.SummarizeReadings(readings), nil
}

// WriteCSV streams all readings to w as CSV.
func (p *PressureLog) WriteCSV(ctx context.Context, w io.Writer) error {
	readings, err := p.store.ListReadings(ctx)
	if err != nil {
		return err
	}
	return csvfile.WriteReadings(w, readings)
}
