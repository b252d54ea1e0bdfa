package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"weightlog/internal/domain"
)

// Columns of the weight log interchange format.
var header = []string{"date", "weight"}

var (
	// ErrMalformedRow means a row does not have the date,weight shape.
	ErrMalformedRow = errors.New("malformed row")
	// ErrInvalidEntry means a well-shaped row failed entry validation.
	ErrInvalidEntry = errors.New("invalid entry")
)

// RowError reports a parse failure with the 1-based line it occurred
// on. It wraps ErrMalformedRow or ErrInvalidEntry.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }
func (e *RowError) Unwrap() error { return e.Err }

// Codec reads and writes weight logs in the two-column CSV format.
// Rows pass through the validator on the way in, so a file cannot
// smuggle in an entry the UI would have refused.
type Codec struct {
	Validator domain.Validator
}

// Read parses a weight log. The first row must be the date,weight
// header. Entries come back in file order; callers that want replace
// semantics for duplicate days feed the result to domain.FromEntries.
func (c Codec) Read(r io.Reader) ([]domain.Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	line := 0
	var entries []domain.Entry
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, &RowError{Line: line, Err: fmt.Errorf("%w: %v", ErrMalformedRow, err)}
		}
		if line == 1 {
			if err := checkHeader(rec); err != nil {
				return nil, &RowError{Line: 1, Err: err}
			}
			continue
		}
		if len(rec) != len(header) {
			return nil, &RowError{Line: line, Err: fmt.Errorf(
				"%w: got %d columns, want %d", ErrMalformedRow, len(rec), len(header))}
		}
		weight, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if err != nil {
			return nil, &RowError{Line: line, Err: fmt.Errorf(
				"%w: weight %q is not a number", ErrInvalidEntry, rec[1])}
		}
		e, err := c.Validator.ValidateEntry(strings.TrimSpace(rec[0]), weight, 0, "")
		if err != nil {
			return nil, &RowError{Line: line, Err: fmt.Errorf("%w: %w", ErrInvalidEntry, err)}
		}
		entries = append(entries, e)
	}
	if line == 0 {
		return nil, &RowError{Line: 1, Err: fmt.Errorf(
			"%w: empty file, want %s header", ErrMalformedRow, strings.Join(header, ","))}
	}
	return entries, nil
}

func checkHeader(rec []string) error {
	cells := make([]string, len(rec))
	for i, cell := range rec {
		cells[i] = strings.ToLower(strings.TrimSpace(cell))
	}
	// Spreadsheet exports like to prepend a BOM.
	cells[0] = strings.TrimPrefix(cells[0], "\uFEFF")
	if len(cells) != len(header) || cells[0] != header[0] || cells[1] != header[1] {
		return fmt.Errorf("%w: want %s header, got %q",
			ErrMalformedRow, strings.Join(header, ","), strings.Join(rec, ","))
	}
	return nil
}

// Write emits entries in the interchange format, sorted by day oldest
// first regardless of input order. Weights use the shortest decimal
// form that survives a round trip.
func (c Codec) Write(w io.Writer, entries []domain.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	es := make([]domain.Entry, len(entries))
	copy(es, entries)
	sort.Slice(es, func(i, j int) bool { return es[i].Day < es[j].Day })
	for _, e := range es {
		rec := []string{e.Day, strconv.FormatFloat(e.Weight, 'f', -1, 64)}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("csv: write row %s: %w", e.Day, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("csv: flush: %w", err)
	}
	return nil
}

// Load reads the weight log at path.
func (c Codec) Load(path string) ([]domain.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %s: %w", path, err)
	}
	defer f.Close()
	entries, err := c.Read(f)
	if err != nil {
		return nil, fmt.Errorf("csv: %s: %w", path, err)
	}
	return entries, nil
}

// Save writes entries to path atomically: temp file in the same
// directory, fsync, rename. A failed save leaves any previous file
// untouched.
func (c Codec) Save(path string, entries []domain.Entry) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("csv: mkdir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".weightlog-tmp-*")
	if err != nil {
		return fmt.Errorf("csv: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if err := c.Write(tmp, entries); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("csv: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("csv: close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("csv: rename: %w", err)
	}
	success = true
	return nil
}

var readingsHeader = []string{"date", "systolic", "diastolic", "notes"}

// WriteReadings emits blood pressure readings as CSV, oldest first
// with same-day readings in insertion order.
func WriteReadings(w io.Writer, readings []domain.Reading) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(readingsHeader); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	rs := make([]domain.Reading, len(readings))
	copy(rs, readings)
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].Day != rs[j].Day {
			return rs[i].Day < rs[j].Day
		}
		return rs[i].ID < rs[j].ID
	})
	for _, r := range rs {
		rec := []string{r.Day, strconv.Itoa(r.Systolic), strconv.Itoa(r.Diastolic), r.Notes}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("csv: write row %s: %w", r.Day, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("csv: flush: %w", err)
	}
	return nil
}
