package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"weightlog/internal/domain"
)

// AddReading inserts a blood pressure reading and returns its id.
func (d *DB) AddReading(ctx context.Context, r domain.Reading) (int64, error) {
	res, err := d.sql.ExecContext(ctx,
		"INSERT INTO blood_pressure(day, systolic, diastolic, notes) VALUES(?, ?, ?, ?);",
		r.Day, r.Systolic, r.Diastolic, nullString(r.Notes))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// DeleteReading removes a reading by id, reporting whether it existed.
func (d *DB) DeleteReading(ctx context.Context, id int64) (bool, error) {
	res, err := d.sql.ExecContext(ctx, "DELETE FROM blood_pressure WHERE id=?;", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListReadings returns all readings ordered by day, oldest first, with
// same-day readings in insertion order.
func (d *DB) ListReadings(ctx context.Context) ([]domain.Reading, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT id, day, systolic, diastolic, notes FROM blood_pressure ORDER BY day ASC, id ASC;")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Reading
	for rows.Next() {
		var (
			r     domain.Reading
			notes sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.Day, &r.Systolic, &r.Diastolic, &notes); err != nil {
			return nil, err
		}
		date, err := domain.ParseDay(r.Day)
		if err != nil {
			return nil, fmt.Errorf("stored day %q: %w", r.Day, err)
		}
		r.Date = date
		r.Notes = notes.String
		out = append(out, r)
	}
	return out, rows.Err()
}
