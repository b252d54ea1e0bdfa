package memory

import (
	"context"
	"testing"
	"time"

	"weightlog/internal/domain"
)

func dayEntry(day string, weight float64) domain.Entry {
	date, err := domain.ParseDay(day)
	if err != nil {
		panic(err)
	}
	return domain.NewEntry(date, weight)
}

func TestEntryStore(t *testing.T) {
	db := New()
	ctx := context.Background()

	// Upsert two days out of order
	if err := db.UpsertEntry(ctx, dayEntry("2026-02-09", 70.5)); err != nil {
		t.Fatalf("UpsertEntry: %v", err)
	}
	if err := db.UpsertEntry(ctx, dayEntry("2026-02-08", 71)); err != nil {
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

	// Same day replaces
	if err := db.UpsertEntry(ctx, dayEntry("2026-02-08", 70.8)); err != nil {
		t.Fatalf("UpsertEntry: %v", err)
	}
	entries, _ = db.ListEntries(ctx)
	if len(entries) != 2 {
		t.Errorf("expected 2 entries after replace, got %d", len(entries))
	}
	if entries[0].Weight != 70.8 {
		t.Errorf("expected replaced weight 70.8, got %f", entries[0].Weight)
	}

	// Delete
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

	// Replace all
	err = db.ReplaceEntries(ctx, []domain.Entry{
		dayEntry("2026-01-01", 72),
		dayEntry("2026-01-02", 71.5),
		dayEntry("2026-01-03", 71),
	})
	if err != nil {
		t.Fatalf("ReplaceEntries: %v", err)
	}
	entries, _ = db.ListEntries(ctx)
	if len(entries) != 3 {
		t.Errorf("expected 3 entries after replace all, got %d", len(entries))
	}
	if entries[0].Day != "2026-01-01" {
		t.Errorf("expected 2026-01-01 first, got %s", entries[0].Day)
	}
}

func TestReadingStore(t *testing.T) {
	db := New()
	ctx := context.Background()

	r1 := domain.Reading{Day: "2026-02-08", Systolic: 120, Diastolic: 80}
	r1.Date, _ = time.Parse(domain.DayFormat, r1.Day)
	id1, err := db.AddReading(ctx, r1)
	if err != nil {
		t.Fatalf("AddReading: %v", err)
	}
	if id1 == 0 {
		t.Error("expected non-zero id")
	}

	// Second reading on the same day keeps both
	r2 := r1
	r2.Systolic = 114
	id2, _ := db.AddReading(ctx, r2)
	if id2 == id1 {
		t.Error("expected distinct ids")
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

	// Delete
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
	readings, _ = db.ListReadings(ctx)
	if len(readings) != 1 {
		t.Errorf("expected 1 reading, got %d", len(readings))
	}
}
