package app

import (
	"context"
	"fmt"
	"io"
	"sync"

	"weightlog/internal/adapter/csvfile"
	"weightlog/internal/domain"
	"weightlog/internal/stats"
)

// Tracker owns one dashboard session's weight log: the in-memory log,
// validation on the way in, optional write-through persistence, and
// CSV import/export. All methods are safe for concurrent use.
type Tracker struct {
	mu        sync.Mutex
	log       *domain.Log
	validator domain.Validator
	store     domain.EntryStore
	codec     csvfile.Codec
	dirty     bool
}

// NewTracker creates a Tracker. A nil store keeps the session
// volatile: entries live in memory until exported or the process
// exits.
func NewTracker(validator domain.Validator, store domain.EntryStore) *Tracker {
	return &Tracker{
		log:       domain.NewLog(),
		validator: validator,
		store:     store,
		codec:     csvfile.Codec{Validator: validator},
	}
}

// LoadFromStore replaces the in-memory log with the store contents.
// Without a store it is a no-op.
func (t *Tracker) LoadFromStore(ctx context.Context) error {
	if t.store == nil {
		return nil
	}
	entries, err := t.store.ListEntries(ctx)
	if err != nil {
		return fmt.Errorf("load entries: %w", err)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.log = domain.FromEntries(entries)
	t.dirty = false
	return nil
}

// AddOrUpdateEntry validates the input and inserts it, replacing any
// entry already recorded for that day. With a store attached the
// write goes through first; the in-memory log only changes once
// persistence succeeded.
func (t *Tracker) AddOrUpdateEntry(ctx context.Context, day string, weight, bodyFat float64, notes string) (domain.Entry, error) {
	e, err := t.validator.ValidateEntry(day, weight, bodyFat, notes)
	if err != nil {
		return domain.Entry{}, err
	}
	if t.store != nil {
		if err := t.store.UpsertEntry(ctx, e); err != nil {
			return domain.Entry{}, fmt.Errorf("persist entry: %w", err)
		}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.log.InsertOrReplace(e)
	if t.store == nil {
		t.dirty = true
	}
	return e, nil
}

// RemoveEntry deletes the entry for day and reports whether one was
// there. Removing an absent day is a no-op; the day itself must still
// be a valid date.
func (t *Tracker) RemoveEntry(ctx context.Context, day string) (bool, error) {
	date, err := domain.ParseDay(day)
	if err != nil {
		return false, err
	}
	canonical := date.Format(domain.DayFormat)
	if t.store != nil {
		if _, err := t.store.DeleteEntry(ctx, canonical); err != nil {
			return false, fmt.Errorf("delete entry: %w", err)
		}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	removed := t.log.Delete(canonical)
	if removed && t.store == nil {
		t.dirty = true
	}
	return removed, nil
}

// Entry returns the entry recorded for day, if any.
func (t *Tracker) Entry(day string) (domain.Entry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.log.Get(day)
}

// OrderedEntries returns the current log sorted by day, oldest first.
func (t *Tracker) OrderedEntries() []domain.Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.log.Ordered()
}

// Len returns the number of recorded days.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.log.Len()
}

// IsEmpty reports whether the log has no entries.
func (t *Tracker) IsEmpty() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.log.IsEmpty()
}

// Dirty reports whether the session holds changes no durable copy
// has. Write-through sessions never go dirty.
func (t *Tracker) Dirty() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dirty
}

// Summary computes the dashboard summary of the current log.
func (t *Tracker) Summary() stats.Summary {
	return stats.Summarize(t.OrderedEntries())
}

// TrendLine computes a trend line over the current log.
func (t *Tracker) TrendLine(method stats.Method, window int) ([]stats.Point, error) {
	return stats.Trend(t.OrderedEntries(), method, window)
}

// WriteCSV streams the current log to w in the interchange format.
func (t *Tracker) WriteCSV(w io.Writer) error {
	return t.codec.Write(w, t.OrderedEntries())
}

// ExportCSV saves the current log to path atomically and clears the
// dirty flag.
func (t *Tracker) ExportCSV(path string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.codec.Save(path, t.log.Ordered()); err != nil {
		return err
	}
	t.dirty = false
	return nil
}

// ImportCSV replaces the whole log with the file at path and returns
// the number of days imported. Any parse or validation failure leaves
// the current log untouched.
func (t *Tracker) ImportCSV(ctx context.Context, path string) (int, error) {
	entries, err := t.codec.Load(path)
	if err != nil {
		return 0, err
	}
	return t.applyImport(ctx, entries)
}

// ReadCSV replaces the whole log with the contents of r, with the
// same all-or-nothing behavior as ImportCSV. Duplicate days in the
// input resolve to the last row, matching insert semantics.
func (t *Tracker) ReadCSV(ctx context.Context, r io.Reader) (int, error) {
	entries, err := t.codec.Read(r)
	if err != nil {
		return 0, err
	}
	return t.applyImport(ctx, entries)
}

func (t *Tracker) applyImport(ctx context.Context, entries []domain.Entry) (int, error) {
	next := domain.FromEntries(entries)
	if t.store != nil {
		if err := t.store.ReplaceEntries(ctx, next.Ordered()); err != nil {
			return 0, fmt.Errorf("persist import: %w", err)
		}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.log = next
	t.dirty = false
	return next.Len(), nil
}
