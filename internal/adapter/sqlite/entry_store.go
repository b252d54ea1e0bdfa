package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"weightlog/internal/domain"
)

// ListEntries returns all weight entries ordered by day, oldest first.
func (d *DB) ListEntries(ctx context.Context) ([]domain.Entry, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT day, weight, body_fat, notes FROM weights ORDER BY day ASC;")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Entry
	for rows.Next() {
		var (
			day     string
			weight  float64
			bodyFat sql.NullFloat64
			notes   sql.NullString
		)
		if err := rows.Scan(&day, &weight, &bodyFat, &notes); err != nil {
			return nil, err
		}
		date, err := domain.ParseDay(day)
		if err != nil {
			return nil, fmt.Errorf("stored day %q: %w", day, err)
		}
		e := domain.NewEntry(date, weight)
		if bodyFat.Valid {
			e.BodyFat = &bodyFat.Float64
		}
		e.Notes = notes.String
		out = append(out, e)
	}
	return out, rows.Err()
}

// UpsertEntry inserts the entry or replaces whatever its day held.
func (d *DB) UpsertEntry(ctx context.Context, e domain.Entry) error {
	_, err := d.sql.ExecContext(ctx,
		`INSERT INTO weights(day, weight, body_fat, notes) VALUES(?, ?, ?, ?)
		ON CONFLICT(day) DO UPDATE SET
			weight=excluded.weight,
			body_fat=excluded.body_fat,
			notes=excluded.notes;`,
		e.Day, e.Weight, e.BodyFat, nullString(e.Notes))
	return err
}

// DeleteEntry removes the entry for day, reporting whether one existed.
func (d *DB) DeleteEntry(ctx context.Context, day string) (bool, error) {
	res, err := d.sql.ExecContext(ctx, "DELETE FROM weights WHERE day=?;", day)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ReplaceEntries swaps the whole weights table for entries in one
// transaction. Days in entries must be unique.
func (d *DB) ReplaceEntries(ctx context.Context, entries []domain.Entry) error {
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM weights;"); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO weights(day, weight, body_fat, notes) VALUES(?, ?, ?, ?);")
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, e.Day, e.Weight, e.BodyFat, nullString(e.Notes)); err != nil {
			return err
		}
	}
	return tx.Commit()
}
