package sqlite

import (
	"context"
	"os"
	"testing"

	"weightlog/internal/domain"
)

// newTestDB opens a throwaway database backed by a temp file.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "weightlog-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func dayEntry(t *testing.T, day string, weight float64) domain.Entry {
	t.Helper()
	date, err := domain.ParseDay(day)
	if err != nil {
		t.Fatal(err)
	}
	return domain.NewEntry(date, weight)
}

func TestEntryStoreUpsert(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.UpsertEntry(ctx, dayEntry(t, "2026-02-09", 70.5)); err != nil {
		t.Fatalf("UpsertEntry: %v", err)
	}
	if err := db.UpsertEntry(ctx, dayEntry(t, "2026-02-08", 71)); err != nil {
		t.Fatalf("UpsertEntry: %v", err)
	}

	entries, err := db.ListEntries(ctx)
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Day != "2026-02-08" || entries[1].Day != "2026-02-09" {
		t.Errorf("entries out of order: %s, %s", entries[0].Day, entries[1].Day)
	}

	// Upserting the same day replaces instead of duplicating.
	if err := db.UpsertEntry(ctx, dayEntry(t, "2026-02-08", 70.9)); err != nil {
		t.Fatalf("UpsertEntry: %v", err)
	}
	entries, _ = db.ListEntries(ctx)
	if len(entries) != 2 {
		t.Errorf("expected 2 entries after same-day upsert, got %d", len(entries))
	}
	if entries[0].Weight != 70.9 {
		t.Errorf("expected replaced weight 70.9, got %f", entries[0].Weight)
	}
}

func TestEntryStoreOptionalColumns(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	bare := dayEntry(t, "2026-02-08", 70)
	full := dayEntry(t, "2026-02-09", 69.5)
	bf := 18.2
	full.BodyFat = &bf
	full.Notes = "post workout"

	for _, e := range []domain.Entry{bare, full} {
		if err := db.UpsertEntry(ctx, e); err != nil {
			t.Fatalf("UpsertEntry: %v", err)
		}
	}

	entries, err := db.ListEntries(ctx)
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if entries[0].BodyFat != nil || entries[0].Notes != "" {
		t.Errorf("bare entry came back with extras: %+v", entries[0])
	}
	if entries[1].BodyFat == nil || *entries[1].BodyFat != bf {
		t.Errorf("body fat = %v; want %v", entries[1].BodyFat, bf)
	}
	if entries[1].Notes != "post workout" {
		t.Errorf("notes = %q; want %q", entries[1].Notes, "post workout")
	}
}

func TestEntryStoreDelete(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.UpsertEntry(ctx, dayEntry(t, "2026-02-08", 70)); err != nil {
		t.Fatal(err)
	}
	ok, err := db.DeleteEntry(ctx, "2026-02-08")
	if err != nil {
		t.Fatalf("DeleteEntry: %v", err)
	}
	if !ok {
		t.Error("expected true for present day")
	}
	ok, _ = db.DeleteEntry(ctx, "2026-02-08")
	if ok {
		t.Error("expected false for absent day")
	}
}

func TestEntryStoreReplaceEntries(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.UpsertEntry(ctx, dayEntry(t, "2025-12-31", 75)); err != nil {
		t.Fatal(err)
	}
	err := db.ReplaceEntries(ctx, []domain.Entry{
		dayEntry(t, "2026-01-01", 72),
		dayEntry(t, "2026-01-02", 71.5),
	})
	if err != nil {
		t.Fatalf("ReplaceEntries: %v", err)
	}

	entries, _ := db.ListEntries(ctx)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries after replace, got %d", len(entries))
	}
	if entries[0].Day != "2026-01-01" {
		t.Errorf("old entries survived the replace: %+v", entries)
	}
}

func TestEntriesSurviveReopen(t *testing.T) {
	f, err := os.CreateTemp("", "weightlog-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	ctx := context.Background()
	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := db.UpsertEntry(ctx, dayEntry(t, "2026-02-08", 70)); err != nil {
		t.Fatal(err)
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	db, err = Open(f.Name())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()
	entries, err := db.ListEntries(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Weight != 70 {
		t.Errorf("entries after reopen = %+v; want the one saved entry", entries)
	}
}

func TestReadingStore(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	r := domain.Reading{Day: "2026-02-08", Systolic: 120, Diastolic: 80, Notes: "morning"}
	id1, err := db.AddReading(ctx, r)
	if err != nil {
		t.Fatalf("AddReading: %v", err)
	}
	if id1 == 0 {
		t.Error("expected non-zero id")
	}

	// Same day holds multiple readings.
	r.Systolic = 114
	r.Notes = ""
	id2, err := db.AddReading(ctx, r)
	if err != nil {
		t.Fatalf("AddReading: %v", err)
	}

	readings, err := db.ListReadings(ctx)
	if err != nil {
		t.Fatalf("ListReadings: %v", err)
	}
	if len(readings) != 2 {
		t.Fatalf("expected 2 readings, got %d", len(readings))
	}
	if readings[0].ID != id1 || readings[1].ID != id2 {
		t.Error("same-day readings not in insertion order")
	}
	if readings[0].Notes != "morning" || readings[1].Notes != "" {
		t.Errorf("notes round trip broken: %q, %q", readings[0].Notes, readings[1].Notes)
	}

	ok, err := db.DeleteReading(ctx, id1)
	if err != nil {
		t.Fatalf("DeleteReading: %v", err)
	}
	if !ok {
		t.Error("expected true for present id")
	}
	ok, _ = db.DeleteReading(ctx, id1)
	if ok {
		t.Error("expected false for absent id")
	}
}
