package domain

import (
	"fmt"
	"math"
	"time"
)

// FutureDatePolicy controls whether measurements may be dated after
// the current day.
type FutureDatePolicy string

const (
	FutureDatesReject FutureDatePolicy = "reject"
	FutureDatesAllow  FutureDatePolicy = "allow"
)

// Validator checks raw input before it is admitted into a log. The
// zero value rejects future dates and reads the wall clock.
type Validator struct {
	FutureDates FutureDatePolicy
	Now         func() time.Time
}

func (v Validator) now() time.Time {
	if v.Now != nil {
		return v.Now()
	}
	return time.Now()
}

// ValidateEntry parses and checks one weight observation. Body fat
// values of zero or less are treated as not recorded.
func (v Validator) ValidateEntry(day string, weight, bodyFat float64, notes string) (Entry, error) {
	date, err := ParseDay(day)
	if err != nil {
		return Entry{}, err
	}
	if weight <= 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return Entry{}, fmt.Errorf("%w: got %v", ErrNonPositiveWeight, weight)
	}
	if err := v.checkFuture(date); err != nil {
		return Entry{}, err
	}
	e := NewEntry(date, weight)
	if bodyFat > 0 {
		e.BodyFat = &bodyFat
	}
	e.Notes = notes
	return e, nil
}

// ValidateReading parses and checks one blood pressure reading.
func (v Validator) ValidateReading(day string, systolic, diastolic int, notes string) (Reading, error) {
	date, err := ParseDay(day)
	if err != nil {
		return Reading{}, err
	}
	if systolic <= 0 || diastolic <= 0 {
		return Reading{}, fmt.Errorf("%w: got %d/%d", ErrNonPositivePressure, systolic, diastolic)
	}
	if err := v.checkFuture(date); err != nil {
		return Reading{}, err
	}
	return Reading{
		Day:       date.Format(DayFormat),
		Date:      date,
		Systolic:  systolic,
		Diastolic: diastolic,
		Notes:     notes,
	}, nil
}

func (v Validator) checkFuture(date time.Time) error {
	if v.FutureDates == FutureDatesAllow {
		return nil
	}
	// Day strings in DayFormat order chronologically.
	day := date.Format(DayFormat)
	today := v.now().Format(DayFormat)
	if day > today {
		return fmt.Errorf("%w: %s is after %s", ErrFutureDate, day, today)
	}
	return nil
}
