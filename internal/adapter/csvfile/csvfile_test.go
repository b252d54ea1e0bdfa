package csvfile_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"weightlog/internal/adapter/csvfile"
	"weightlog/internal/domain"
)

func testCodec() csvfile.Codec {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	return csvfile.Codec{Validator: domain.Validator{Now: func() time.Time { return now }}}
}

func mustEntry(t *testing.T, day string, weight float64) domain.Entry {
	t.Helper()
	date, err := domain.ParseDay(day)
	if err != nil {
		t.Fatal(err)
	}
	return domain.NewEntry(date, weight)
}

func TestWriteSortsByDay(t *testing.T) {
	c := testCodec()
	var sb strings.Builder
	err := c.Write(&sb, []domain.Entry{
		mustEntry(t, "2024-01-15", 71),
		mustEntry(t, "2024-01-10", 70.35),
	})
	if err != nil {
		t.Fatal(err)
	}
	want := "date,weight\n2024-01-10,70.35\n2024-01-15,71\n"
	if sb.String() != want {
		t.Errorf("output = %q; want %q", sb.String(), want)
	}
}

func TestReadRoundTrip(t *testing.T) {
	c := testCodec()
	in := []domain.Entry{
		mustEntry(t, "2024-01-10", 70.35),
		mustEntry(t, "2024-01-15", 71),
		mustEntry(t, "2024-02-01", 69.875),
	}
	var sb strings.Builder
	if err := c.Write(&sb, in); err != nil {
		t.Fatal(err)
	}
	got, err := c.Read(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(in) {
		t.Fatalf("read %d entries; want %d", len(got), len(in))
	}
	for i := range in {
		if got[i].Day != in[i].Day || got[i].Weight != in[i].Weight {
			t.Errorf("entry %d = %s/%v; want %s/%v",
				i, got[i].Day, got[i].Weight, in[i].Day, in[i].Weight)
		}
	}
}

func TestReadTolerantInput(t *testing.T) {
	c := testCodec()

	tests := []struct {
		name string
		in   string
		want int
	}{
		{"header only", "date,weight\n", 0},
		{"no trailing newline", "date,weight\n2024-01-10,70", 1},
		{"crlf line endings", "date,weight\r\n2024-01-10,70\r\n", 1},
		{"byte order mark", "\uFEFFdate,weight\n2024-01-10,70\n", 1},
		{"spaces around cells", "date,weight\n2024-01-10, 70.5\n", 1},
		{"uppercase header", "Date,Weight\n2024-01-10,70\n", 1},
		{"duplicate days kept in file order", "date,weight\n2024-01-10,70\n2024-01-10,71\n", 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := c.Read(strings.NewReader(tc.in))
			if err != nil {
				t.Fatalf("Read: %v", err)
			}
			if len(got) != tc.want {
				t.Errorf("read %d entries; want %d", len(got), tc.want)
			}
		})
	}
}

func TestReadRejectsBadInput(t *testing.T) {
	c := testCodec()

	tests := []struct {
		name     string
		in       string
		wantErr  error
		wantLine int
	}{
		{"empty file", "", csvfile.ErrMalformedRow, 1},
		{"missing header", "2024-01-10,70\n2024-01-11,70.5\n", csvfile.ErrMalformedRow, 1},
		{"wrong header", "day,kg\n2024-01-10,70\n", csvfile.ErrMalformedRow, 1},
		{"one column", "date,weight\n2024-01-10\n", csvfile.ErrMalformedRow, 2},
		{"three columns", "date,weight\n2024-01-10,70,extra\n", csvfile.ErrMalformedRow, 2},
		{"weight not a number", "date,weight\n2024-01-10,heavy\n", csvfile.ErrInvalidEntry, 2},
		{"invalid date", "date,weight\n2024-01-09,70\n2024-13-40,70\n", csvfile.ErrInvalidEntry, 3},
		{"zero weight", "date,weight\n2024-01-10,0\n", csvfile.ErrInvalidEntry, 2},
		{"future date", "date,weight\n2030-01-01,70\n", csvfile.ErrInvalidEntry, 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.Read(strings.NewReader(tc.in))
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Read error = %v; want %v", err, tc.wantErr)
			}
			var rowErr *csvfile.RowError
			if !errors.As(err, &rowErr) {
				t.Fatalf("Read error %T does not unwrap to RowError", err)
			}
			if rowErr.Line != tc.wantLine {
				t.Errorf("error line = %d; want %d", rowErr.Line, tc.wantLine)
			}
		})
	}
}

func TestReadKeepsValidationCause(t *testing.T) {
	c := testCodec()
	_, err := c.Read(strings.NewReader("date,weight\n2024-13-40,70\n"))
	if !errors.Is(err, domain.ErrInvalidDate) {
		t.Errorf("error = %v; want it to wrap domain.ErrInvalidDate", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	c := testCodec()
	path := filepath.Join(t.TempDir(), "log.csv")

	in := []domain.Entry{
		mustEntry(t, "2024-01-15", 71),
		mustEntry(t, "2024-01-10", 70.35),
	}
	if err := c.Save(path, in); err != nil {
		t.Fatal(err)
	}
	got, err := c.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Day != "2024-01-10" || got[1].Day != "2024-01-15" {
		t.Errorf("loaded entries out of order: %+v", got)
	}

	// Overwrite with a smaller log and make sure no temp files linger.
	if err := c.Save(path, in[:1]); err != nil {
		t.Fatal(err)
	}
	got, err = c.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("loaded %d entries after overwrite; want 1", len(got))
	}
	files, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Errorf("directory holds %d files after save; want just the log", len(files))
	}
}

func TestLoadMissingFile(t *testing.T) {
	c := testCodec()
	_, err := c.Load(filepath.Join(t.TempDir(), "absent.csv"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error = %v; want fs.ErrNotExist", err)
	}
}

func TestWriteReadings(t *testing.T) {
	readings := []domain.Reading{
		{ID: 2, Day: "2024-01-11", Systolic: 118, Diastolic: 76, Notes: "morning"},
		{ID: 1, Day: "2024-01-10", Systolic: 121, Diastolic: 80},
	}
	var sb strings.Builder
	if err := csvfile.WriteReadings(&sb, readings); err != nil {
		t.Fatal(err)
	}
	want := "date,systolic,diastolic,notes\n2024-01-10,121,80,\n2024-01-11,118,76,morning\n"
	if sb.String() != want {
		t.Errorf("output = %q; want %q", sb.String(), want)
	}
}
