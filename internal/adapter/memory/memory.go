// Package memory implements in-memory stores for development and testing.
package memory

import (
	"context"
	"sort"
	"sync"

	"weightlog/internal/domain"
)

// DB implements volatile storage. Contents live only as long as the
// process does.
type DB struct {
	mu       sync.Mutex
	entries  map[string]domain.Entry
	readings []domain.Reading

	readingIDCounter int64
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{entries: make(map[string]domain.Entry)}
}

// Ensure interfaces are met.
var _ domain.EntryStore = (*DB)(nil)
var _ domain.ReadingStore = (*DB)(nil)

// --- EntryStore ---

// ListEntries returns all weight entries sorted by day, oldest first.
func (db *DB) ListEntries(ctx context.Context) ([]domain.Entry, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.Entry, 0, len(db.entries))
	for _, e := range db.entries {
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Day < result[j].Day
	})
	return result, nil
}

// UpsertEntry stores e under its day, replacing any previous entry.
func (db *DB) UpsertEntry(ctx context.Context, e domain.Entry) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.entries[e.Day] = e
	return nil
}

// DeleteEntry removes the entry for day, reporting whether one existed.
func (db *DB) DeleteEntry(ctx context.Context, day string) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.entries[day]; !ok {
		return false, nil
	}
	delete(db.entries, day)
	return true, nil
}

// ReplaceEntries swaps the whole stored log for entries.
func (db *DB) ReplaceEntries(ctx context.Context, entries []domain.Entry) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.entries = make(map[string]domain.Entry, len(entries))
	for _, e := range entries {
		db.entries[e.Day] = e
	}
	return nil
}

// --- ReadingStore ---

// AddReading appends a blood pressure reading and returns its id.
func (db *DB) AddReading(ctx context.Context, r domain.Reading) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.readingIDCounter++
	r.ID = db.readingIDCounter
	db.readings = append(db.readings, r)
	return r.ID, nil
}

// DeleteReading removes a reading by id, reporting whether it existed.
func (db *DB) DeleteReading(ctx context.Context, id int64) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i, r := range db.readings {
		if r.ID == id {
			db.readings = append(db.readings[:i], db.readings[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// ListReadings returns all readings sorted by day, oldest first, with
// same-day readings in insertion order.
func (db *DB) ListReadings(ctx context.Context) ([]domain.Reading, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.Reading, len(db.readings))
	copy(result, db.readings)
	sort.Slice(result, func(i, j int) bool {
		if result[i].Day != result[j].Day {
			return result[i].Day < result[j].Day
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}
